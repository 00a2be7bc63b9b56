package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"staffdir/internal/common"
	"staffdir/internal/domain/model"
	"staffdir/internal/domain/repository"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	statsCacheKey = "staffdir:stats:v1"
)

type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
	cache        *redis.Client // optional; nil disables the stats cache
	cacheTTL     time.Duration
}

func NewEmployeeService(employeeRepo repository.EmployeeRepository, cache *redis.Client, cacheTTL time.Duration) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

type CreateEmployeeInput struct {
	Name             string                  `json:"name"`
	Email            string                  `json:"email"`
	Age              int                     `json:"age"`
	Department       string                  `json:"department"`
	Position         string                  `json:"position"`
	Phone            string                  `json:"phone"`
	Salary           float64                 `json:"salary"`
	JoinDate         *string                 `json:"joinDate"`
	Status           *string                 `json:"status"`
	Skills           []string                `json:"skills"`
	Address          *model.Address          `json:"address"`
	EmergencyContact *model.EmergencyContact `json:"emergencyContact"`
	Notes            *string                 `json:"notes"`
}

// UpdateEmployeeInput is a partial update: nil fields are left untouched,
// never reset to defaults.
type UpdateEmployeeInput struct {
	Name             *string                 `json:"name"`
	Email            *string                 `json:"email"`
	Age              *int                    `json:"age"`
	Department       *string                 `json:"department"`
	Position         *string                 `json:"position"`
	Phone            *string                 `json:"phone"`
	Salary           *float64                `json:"salary"`
	JoinDate         *string                 `json:"joinDate"`
	Status           *string                 `json:"status"`
	Skills           *[]string               `json:"skills"`
	Address          *model.Address          `json:"address"`
	EmergencyContact *model.EmergencyContact `json:"emergencyContact"`
	Flagged          *bool                   `json:"flagged"`
	Notes            *string                 `json:"notes"`
}

func (s *EmployeeService) List(ctx context.Context, filter *model.EmployeeFilter, sort *model.EmployeeSort) ([]*model.Employee, error) {
	return s.employeeRepo.List(ctx, filter, sort)
}

func (s *EmployeeService) ListPaginated(ctx context.Context, page, limit int, filter *model.EmployeeFilter, sort *model.EmployeeSort) (*model.EmployeePage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	offset := (page - 1) * limit

	employees, total, err := s.employeeRepo.ListPage(ctx, filter, sort, limit, offset)
	if err != nil {
		return nil, err
	}

	return &model.EmployeePage{
		Employees:  employees,
		TotalCount: total,
		PageInfo:   model.NewPageInfo(total, page, limit),
	}, nil
}

func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (*model.Employee, error) {
	if err := validateCreateEmployee(input); err != nil {
		return nil, err
	}

	joinDate, err := parseJoinDate(input.JoinDate)
	if err != nil {
		return nil, err
	}

	// Pre-check for a friendly message; the unique index on email is the
	// backstop under concurrent writes.
	if _, err := s.employeeRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, common.Wrap(common.ErrConflict, "Employee with this email already exists")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	status := model.StatusActive
	if input.Status != nil {
		status = model.EmployeeStatus(*input.Status)
	}
	notes := ""
	if input.Notes != nil {
		notes = *input.Notes
	}
	skills := input.Skills
	if skills == nil {
		skills = []string{}
	}

	employee := &model.Employee{
		ID:               uuid.NewString(),
		Name:             input.Name,
		Email:            input.Email,
		Age:              input.Age,
		Department:       input.Department,
		Position:         input.Position,
		Phone:            input.Phone,
		Salary:           input.Salary,
		JoinDate:         joinDate,
		Status:           status,
		Skills:           skills,
		Address:          input.Address,
		EmergencyContact: input.EmergencyContact,
		Flagged:          false,
		Notes:            notes,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return employee, nil
}

func (s *EmployeeService) Update(ctx context.Context, id string, input UpdateEmployeeInput) (*model.Employee, error) {
	if err := validateUpdateEmployee(input); err != nil {
		return nil, err
	}

	if input.Email != nil {
		// Another record (different id) holding the email is a conflict.
		existing, err := s.employeeRepo.FindByEmail(ctx, *input.Email)
		if err == nil && existing.ID != id {
			return nil, common.Wrap(common.ErrConflict, "Another employee with this email already exists")
		}
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}

	upd := repository.EmployeeUpdate{
		Name:             input.Name,
		Email:            input.Email,
		Age:              input.Age,
		Department:       input.Department,
		Position:         input.Position,
		Phone:            input.Phone,
		Salary:           input.Salary,
		Skills:           input.Skills,
		Address:          input.Address,
		EmergencyContact: input.EmergencyContact,
		Flagged:          input.Flagged,
		Notes:            input.Notes,
	}
	if input.JoinDate != nil {
		joinDate, err := parseJoinDate(input.JoinDate)
		if err != nil {
			return nil, err
		}
		upd.JoinDate = &joinDate
	}
	if input.Status != nil {
		status := model.EmployeeStatus(*input.Status)
		upd.Status = &status
	}

	employee, err := s.employeeRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *EmployeeService) ToggleFlag(ctx context.Context, id string) (*model.Employee, error) {
	employee, err := s.employeeRepo.ToggleFlag(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return employee, nil
}

// Stats aggregates directory counts and the mean salary. Results are cached
// briefly in redis; every directory mutation invalidates the entry.
func (s *EmployeeService) Stats(ctx context.Context) (*model.Stats, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
		if err == nil {
			stats := &model.Stats{}
			if err := json.Unmarshal(raw, stats); err == nil {
				return stats, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			slog.Warn("stats cache read failed", "error", err)
		}
	}

	stats, err := s.employeeRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil {
				slog.Warn("stats cache write failed", "error", err)
			}
		}
	}
	return stats, nil
}

func (s *EmployeeService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey).Err(); err != nil {
		slog.Warn("stats cache invalidation failed", "error", err)
	}
}

func parseJoinDate(value *string) (time.Time, error) {
	if value == nil || *value == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, *value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &common.ValidationError{Violations: []common.FieldViolation{
		{Field: "joinDate", Message: "must be an RFC3339 timestamp or YYYY-MM-DD date"},
	}}
}
