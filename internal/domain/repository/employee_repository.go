package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"staffdir/internal/common"
	"staffdir/internal/domain/model"
)

// EmployeeUpdate carries a partial update. Nil fields are left untouched.
type EmployeeUpdate struct {
	Name             *string
	Email            *string
	Age              *int
	Department       *string
	Position         *string
	Phone            *string
	Salary           *float64
	JoinDate         *time.Time
	Status           *model.EmployeeStatus
	Skills           *[]string
	Address          *model.Address
	EmergencyContact *model.EmergencyContact
	Flagged          *bool
	Notes            *string
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	Update(ctx context.Context, id string, upd EmployeeUpdate) (*model.Employee, error)
	Delete(ctx context.Context, id string) error
	ToggleFlag(ctx context.Context, id string) (*model.Employee, error)
	FindByID(ctx context.Context, id string) (*model.Employee, error)
	FindByEmail(ctx context.Context, email string) (*model.Employee, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Employee, error)
	FindByDepartments(ctx context.Context, departments []string) ([]*model.Employee, error)
	List(ctx context.Context, filter *model.EmployeeFilter, sort *model.EmployeeSort) ([]*model.Employee, error)
	ListPage(ctx context.Context, filter *model.EmployeeFilter, sort *model.EmployeeSort, limit, offset int) ([]*model.Employee, int, error)
	Stats(ctx context.Context) (*model.Stats, error)
}

type pgEmployeeRepository struct {
	db *sql.DB
}

func NewPgEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &pgEmployeeRepository{db: db}
}

const employeeColumns = `id, name, email, age, department, position, phone, salary,
	join_date, status, skills, address, emergency_contact, flagged, notes,
	created_at, updated_at`

// sortColumns whitelists API sort fields against their columns. Anything
// else is rejected before reaching the database.
var sortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"age":        "age",
	"department": "department",
	"position":   "position",
	"salary":     "salary",
	"joinDate":   "join_date",
	"status":     "status",
	"createdAt":  "created_at",
}

// buildEmployeeWhere translates a filter into a WHERE clause with positional
// args. All clauses are ANDed; a nil or empty filter matches every record.
func buildEmployeeWhere(filter *model.EmployeeFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argID := 1

	if filter != nil {
		if filter.Department != nil && *filter.Department != "" {
			conditions = append(conditions, fmt.Sprintf("department = $%d", argID))
			args = append(args, *filter.Department)
			argID++
		}
		if filter.Status != nil && *filter.Status != "" {
			conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
			args = append(args, *filter.Status)
			argID++
		}
		if filter.MinSalary != nil {
			conditions = append(conditions, fmt.Sprintf("salary >= $%d", argID))
			args = append(args, *filter.MinSalary)
			argID++
		}
		if filter.MaxSalary != nil {
			conditions = append(conditions, fmt.Sprintf("salary <= $%d", argID))
			args = append(args, *filter.MaxSalary)
			argID++
		}
		if filter.Search != nil && *filter.Search != "" {
			conditions = append(conditions,
				fmt.Sprintf("(name ILIKE $%d OR position ILIKE $%d OR email ILIKE $%d)", argID, argID+1, argID+2))
			likeTerm := "%" + *filter.Search + "%"
			args = append(args, likeTerm, likeTerm, likeTerm)
			argID += 3
		}
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// sortOrderClause resolves the requested sort to an ORDER BY clause,
// defaulting to newest-first. The id tiebreak keeps page slices stable.
func sortOrderClause(sort *model.EmployeeSort) (string, error) {
	if sort == nil || sort.Field == "" {
		return " ORDER BY created_at DESC, id DESC", nil
	}
	column, ok := sortColumns[sort.Field]
	if !ok {
		return "", common.Wrap(common.ErrValidation, "Cannot sort by field: "+sort.Field)
	}
	direction := "ASC"
	if sort.Order == model.SortDesc {
		direction = "DESC"
	}
	return " ORDER BY " + column + " " + direction + ", id " + direction, nil
}

func (r *pgEmployeeRepository) Create(ctx context.Context, e *model.Employee) error {
	skills, address, emergency, err := marshalEmployeeDocs(e.Skills, e.Address, e.EmergencyContact)
	if err != nil {
		return fmt.Errorf("pgEmployeeRepository.Create marshal: %w", err)
	}

	query := `INSERT INTO employees
	            (id, name, email, age, department, position, phone, salary,
	             join_date, status, skills, address, emergency_contact, flagged, notes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		e.ID, e.Name, e.Email, e.Age, e.Department, e.Position, e.Phone, e.Salary,
		e.JoinDate, e.Status, skills, address, emergency, e.Flagged, e.Notes,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint on email
			return common.Wrap(common.ErrConflict, "Employee with this email already exists")
		}
		return fmt.Errorf("pgEmployeeRepository.Create: %w", err)
	}
	return nil
}

func (r *pgEmployeeRepository) Update(ctx context.Context, id string, upd EmployeeUpdate) (*model.Employee, error) {
	var sets []string
	var args []interface{}
	argID := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Email != nil {
		set("email", *upd.Email)
	}
	if upd.Age != nil {
		set("age", *upd.Age)
	}
	if upd.Department != nil {
		set("department", *upd.Department)
	}
	if upd.Position != nil {
		set("position", *upd.Position)
	}
	if upd.Phone != nil {
		set("phone", *upd.Phone)
	}
	if upd.Salary != nil {
		set("salary", *upd.Salary)
	}
	if upd.JoinDate != nil {
		set("join_date", *upd.JoinDate)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.Skills != nil {
		raw, err := json.Marshal(*upd.Skills)
		if err != nil {
			return nil, fmt.Errorf("pgEmployeeRepository.Update marshal skills: %w", err)
		}
		set("skills", raw)
	}
	if upd.Address != nil {
		raw, err := json.Marshal(upd.Address)
		if err != nil {
			return nil, fmt.Errorf("pgEmployeeRepository.Update marshal address: %w", err)
		}
		set("address", raw)
	}
	if upd.EmergencyContact != nil {
		raw, err := json.Marshal(upd.EmergencyContact)
		if err != nil {
			return nil, fmt.Errorf("pgEmployeeRepository.Update marshal emergency contact: %w", err)
		}
		set("emergency_contact", raw)
	}
	if upd.Flagged != nil {
		set("flagged", *upd.Flagged)
	}
	if upd.Notes != nil {
		set("notes", *upd.Notes)
	}

	sets = append(sets, "updated_at = now()")
	query := "UPDATE employees SET " + strings.Join(sets, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", argID) + employeeColumns
	args = append(args, id)

	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.Wrap(common.ErrNotFound, "Employee not found")
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.Wrap(common.ErrConflict, "Another employee with this email already exists")
		}
		return nil, fmt.Errorf("pgEmployeeRepository.Update: %w", err)
	}
	return employee, nil
}

func (r *pgEmployeeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgEmployeeRepository.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgEmployeeRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.Wrap(common.ErrNotFound, "Employee not found")
	}
	return nil
}

func (r *pgEmployeeRepository) ToggleFlag(ctx context.Context, id string) (*model.Employee, error) {
	query := `UPDATE employees SET flagged = NOT flagged, updated_at = now()
	          WHERE id = $1 RETURNING ` + employeeColumns
	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.Wrap(common.ErrNotFound, "Employee not found")
		}
		return nil, fmt.Errorf("pgEmployeeRepository.ToggleFlag: %w", err)
	}
	return employee, nil
}

func (r *pgEmployeeRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgEmployeeRepository.FindByID: %w", err)
	}
	return employee, nil
}

func (r *pgEmployeeRepository) FindByEmail(ctx context.Context, email string) (*model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`
	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgEmployeeRepository.FindByEmail: %w", err)
	}
	return employee, nil
}

func (r *pgEmployeeRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id::text = ANY($1)`
	return r.queryEmployees(ctx, "FindByIDs", query, ids)
}

func (r *pgEmployeeRepository) FindByDepartments(ctx context.Context, departments []string) ([]*model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE department = ANY($1)`
	return r.queryEmployees(ctx, "FindByDepartments", query, departments)
}

func (r *pgEmployeeRepository) List(ctx context.Context, filter *model.EmployeeFilter, sort *model.EmployeeSort) ([]*model.Employee, error) {
	whereClause, args := buildEmployeeWhere(filter)
	orderClause, err := sortOrderClause(sort)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + employeeColumns + ` FROM employees` + whereClause + orderClause
	return r.queryEmployees(ctx, "List", query, args...)
}

func (r *pgEmployeeRepository) ListPage(ctx context.Context, filter *model.EmployeeFilter, sort *model.EmployeeSort, limit, offset int) ([]*model.Employee, int, error) {
	whereClause, args := buildEmployeeWhere(filter)
	orderClause, err := sortOrderClause(sort)
	if err != nil {
		return nil, 0, err
	}

	// Total matching count over the same predicate, unaffected by
	// sort/offset/limit.
	var total int
	countQuery := `SELECT COUNT(*) FROM employees` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgEmployeeRepository.ListPage count: %w", err)
	}

	argID := len(args) + 1
	query := `SELECT ` + employeeColumns + ` FROM employees` + whereClause + orderClause +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	employees, err := r.queryEmployees(ctx, "ListPage", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *pgEmployeeRepository) Stats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{}
	summary := `SELECT COUNT(*),
	                   COUNT(*) FILTER (WHERE status = 'active'),
	                   COALESCE(AVG(salary), 0)
	            FROM employees`
	err := r.db.QueryRowContext(ctx, summary).Scan(
		&stats.TotalEmployees, &stats.ActiveEmployees, &stats.AverageSalary,
	)
	if err != nil {
		return nil, fmt.Errorf("pgEmployeeRepository.Stats summary: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT department, COUNT(*) FROM employees GROUP BY department ORDER BY department`)
	if err != nil {
		return nil, fmt.Errorf("pgEmployeeRepository.Stats departments: %w", err)
	}
	defer rows.Close()

	stats.DepartmentCounts = []model.DepartmentCount{}
	for rows.Next() {
		var dc model.DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, fmt.Errorf("pgEmployeeRepository.Stats scan: %w", err)
		}
		stats.DepartmentCounts = append(stats.DepartmentCounts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgEmployeeRepository.Stats rows.Err: %w", err)
	}
	return stats, nil
}

func (r *pgEmployeeRepository) queryEmployees(ctx context.Context, method, query string, args ...interface{}) ([]*model.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgEmployeeRepository.%s query: %w", method, err)
	}
	defer rows.Close()

	employees := []*model.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("pgEmployeeRepository.%s scan: %w", method, err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgEmployeeRepository.%s rows.Err: %w", method, err)
	}
	return employees, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*model.Employee, error) {
	var (
		e            model.Employee
		skillsRaw    []byte
		addressRaw   []byte
		emergencyRaw []byte
	)
	err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.Age, &e.Department, &e.Position, &e.Phone, &e.Salary,
		&e.JoinDate, &e.Status, &skillsRaw, &addressRaw, &emergencyRaw, &e.Flagged, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Skills = []string{}
	if len(skillsRaw) > 0 {
		if err := json.Unmarshal(skillsRaw, &e.Skills); err != nil {
			return nil, fmt.Errorf("unmarshal skills: %w", err)
		}
	}
	if len(addressRaw) > 0 {
		e.Address = &model.Address{}
		if err := json.Unmarshal(addressRaw, e.Address); err != nil {
			return nil, fmt.Errorf("unmarshal address: %w", err)
		}
	}
	if len(emergencyRaw) > 0 {
		e.EmergencyContact = &model.EmergencyContact{}
		if err := json.Unmarshal(emergencyRaw, e.EmergencyContact); err != nil {
			return nil, fmt.Errorf("unmarshal emergency contact: %w", err)
		}
	}
	return &e, nil
}

func marshalEmployeeDocs(skills []string, address *model.Address, emergency *model.EmergencyContact) ([]byte, interface{}, interface{}, error) {
	if skills == nil {
		skills = []string{}
	}
	skillsRaw, err := json.Marshal(skills)
	if err != nil {
		return nil, nil, nil, err
	}

	var addressVal interface{}
	if address != nil {
		raw, err := json.Marshal(address)
		if err != nil {
			return nil, nil, nil, err
		}
		addressVal = raw
	}

	var emergencyVal interface{}
	if emergency != nil {
		raw, err := json.Marshal(emergency)
		if err != nil {
			return nil, nil, nil, err
		}
		emergencyVal = raw
	}
	return skillsRaw, addressVal, emergencyVal, nil
}
