package graph

import (
	"context"
	"testing"
	"time"

	"github.com/graphql-go/graphql"

	"staffdir/internal/api/middleware"
	"staffdir/internal/app/loader"
	"staffdir/internal/app/service"
	"staffdir/internal/common"
	"staffdir/internal/common/security"
	"staffdir/internal/domain/model"
	"staffdir/internal/domain/repository"
	"staffdir/internal/platform/config"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return common.Wrap(common.ErrConflict, "User already exists with this email or username")
		}
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

type fakeEmployeeRepo struct {
	order     []string
	employees map[string]*model.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: map[string]*model.Employee{}}
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	for _, existing := range f.employees {
		if existing.Email == e.Email {
			return common.Wrap(common.ErrConflict, "Employee with this email already exists")
		}
	}
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	stored := *e
	f.employees[e.ID] = &stored
	f.order = append(f.order, e.ID)
	return nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, id string, upd repository.EmployeeUpdate) (*model.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, common.Wrap(common.ErrNotFound, "Employee not found")
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.Email != nil {
		e.Email = *upd.Email
	}
	if upd.Salary != nil {
		e.Salary = *upd.Salary
	}
	if upd.Position != nil {
		e.Position = *upd.Position
	}
	if upd.Status != nil {
		e.Status = *upd.Status
	}
	if upd.Flagged != nil {
		e.Flagged = *upd.Flagged
	}
	e.UpdatedAt = time.Now().UTC()
	copied := *e
	return &copied, nil
}

func (f *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.employees[id]; !ok {
		return common.Wrap(common.ErrNotFound, "Employee not found")
	}
	delete(f.employees, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeEmployeeRepo) ToggleFlag(_ context.Context, id string) (*model.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, common.Wrap(common.ErrNotFound, "Employee not found")
	}
	e.Flagged = !e.Flagged
	copied := *e
	return &copied, nil
}

func (f *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*model.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEmployeeRepo) FindByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range f.employees {
		if e.Email == email {
			copied := *e
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeEmployeeRepo) FindByIDs(_ context.Context, ids []string) ([]*model.Employee, error) {
	out := []*model.Employee{}
	for _, id := range ids {
		if e, ok := f.employees[id]; ok {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) FindByDepartments(_ context.Context, departments []string) ([]*model.Employee, error) {
	out := []*model.Employee{}
	for _, id := range f.order {
		e := f.employees[id]
		for _, d := range departments {
			if e.Department == d {
				copied := *e
				out = append(out, &copied)
			}
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) List(_ context.Context, _ *model.EmployeeFilter, _ *model.EmployeeSort) ([]*model.Employee, error) {
	out := []*model.Employee{}
	for _, id := range f.order {
		copied := *f.employees[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListPage(ctx context.Context, filter *model.EmployeeFilter, sort *model.EmployeeSort, limit, offset int) ([]*model.Employee, int, error) {
	all, err := f.List(ctx, filter, sort)
	if err != nil {
		return nil, 0, err
	}
	total := len(all)
	if offset >= total {
		return []*model.Employee{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeEmployeeRepo) Stats(_ context.Context) (*model.Stats, error) {
	stats := &model.Stats{DepartmentCounts: []model.DepartmentCount{}}
	counts := map[string]int{}
	var salarySum float64
	for _, id := range f.order {
		e := f.employees[id]
		stats.TotalEmployees++
		if e.Status == model.StatusActive {
			stats.ActiveEmployees++
		}
		counts[e.Department]++
		salarySum += e.Salary
	}
	if stats.TotalEmployees > 0 {
		stats.AverageSalary = salarySum / float64(stats.TotalEmployees)
	}
	for _, d := range model.Departments {
		if counts[d] > 0 {
			stats.DepartmentCounts = append(stats.DepartmentCounts, model.DepartmentCount{Department: d, Count: counts[d]})
		}
	}
	return stats, nil
}

type graphFixture struct {
	schema       graphql.Schema
	employeeRepo *fakeEmployeeRepo
	employees    *service.EmployeeService
}

func newGraphFixture(t *testing.T) *graphFixture {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: time.Hour,
	}
	security.InitJWT()

	userRepo := &fakeUserRepo{users: map[string]*model.User{}}
	employeeRepo := newFakeEmployeeRepo()
	authService := service.NewAuthService(userRepo)
	employeeService := service.NewEmployeeService(employeeRepo, nil, 0)

	schema, err := NewSchema(NewResolver(authService, employeeService))
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return &graphFixture{
		schema:       schema,
		employeeRepo: employeeRepo,
		employees:    employeeService,
	}
}

// exec runs a request with the same context shape the middleware chain
// builds: an identity (possibly nil) and fresh batch loaders.
func (fx *graphFixture) exec(query string, vars map[string]interface{}, identity *model.User) *graphql.Result {
	ctx := middleware.WithIdentity(context.Background(), identity)
	ctx = middleware.WithLoaders(ctx, loader.New(fx.employeeRepo))
	return graphql.Do(graphql.Params{
		Schema:         fx.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

func (fx *graphFixture) seedEmployee(t *testing.T, name, email, department string, salary float64) *model.Employee {
	t.Helper()
	employee, err := fx.employees.Create(context.Background(), service.CreateEmployeeInput{
		Name:       name,
		Email:      email,
		Age:        30,
		Department: department,
		Position:   "Engineer",
		Phone:      "+1-555-0100",
		Salary:     salary,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return employee
}

func adminIdentity() *model.User {
	return &model.User{ID: "admin-id", Username: "admin", Email: "admin@company.com", Role: model.RoleAdmin}
}

func employeeIdentity() *model.User {
	return &model.User{ID: "worker-id", Username: "worker", Email: "worker@company.com", Role: model.RoleEmployee}
}

func errorCode(t *testing.T, result *graphql.Result) string {
	t.Helper()
	if len(result.Errors) == 0 {
		t.Fatal("expected the response to carry errors")
	}
	code, _ := result.Errors[0].Extensions["code"].(string)
	return code
}

func dataMap(t *testing.T, result *graphql.Result, key string) map[string]interface{} {
	t.Helper()
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	root, ok := result.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data has unexpected shape: %#v", result.Data)
	}
	value, ok := root[key].(map[string]interface{})
	if !ok {
		t.Fatalf("data.%s has unexpected shape: %#v", key, root[key])
	}
	return value
}

func TestRegisterAndLogin(t *testing.T) {
	fx := newGraphFixture(t)

	result := fx.exec(`mutation {
		register(username: "admin", email: "admin@company.com", password: "admin123", role: "admin") {
			token
			user { username role }
		}
	}`, nil, nil)

	payload := dataMap(t, result, "register")
	if payload["token"] == "" {
		t.Error("register should return a token")
	}
	user := payload["user"].(map[string]interface{})
	if user["role"] != "admin" || user["username"] != "admin" {
		t.Errorf("registered user = %#v", user)
	}

	result = fx.exec(`mutation {
		login(email: "admin@company.com", password: "admin123") {
			token
			user { email }
		}
	}`, nil, nil)
	payload = dataMap(t, result, "login")
	if payload["token"] == "" {
		t.Error("login should return a token")
	}

	result = fx.exec(`mutation {
		login(email: "admin@company.com", password: "wrong") { token }
	}`, nil, nil)
	if code := errorCode(t, result); code != common.CodeUnauthenticated {
		t.Errorf("bad login code = %q, want %q", code, common.CodeUnauthenticated)
	}
	if msg := result.Errors[0].Message; msg != "Invalid credentials" {
		t.Errorf("bad login message = %q", msg)
	}
}

func TestMeQuery(t *testing.T) {
	fx := newGraphFixture(t)

	result := fx.exec(`{ me { username } }`, nil, nil)
	if len(result.Errors) > 0 {
		t.Fatalf("anonymous me errored: %v", result.Errors)
	}
	if me := result.Data.(map[string]interface{})["me"]; me != nil {
		t.Errorf("anonymous me = %#v, want null", me)
	}

	result = fx.exec(`{ me { username role } }`, nil, employeeIdentity())
	me := dataMap(t, result, "me")
	if me["username"] != "worker" || me["role"] != "employee" {
		t.Errorf("me = %#v", me)
	}
}

func TestQueriesRequireAuthentication(t *testing.T) {
	fx := newGraphFixture(t)
	fx.seedEmployee(t, "Ada", "ada@company.com", "Engineering", 120000)

	for _, query := range []string{
		`{ employees { id } }`,
		`{ employee(id: "some-id") { id } }`,
		`{ employeesPaginated { totalCount } }`,
		`{ stats { totalEmployees } }`,
	} {
		result := fx.exec(query, nil, nil)
		if code := errorCode(t, result); code != common.CodeUnauthenticated {
			t.Errorf("%s: code = %q, want %q", query, code, common.CodeUnauthenticated)
		}
		if msg := result.Errors[0].Message; msg != "Authentication required" {
			t.Errorf("%s: message = %q", query, msg)
		}
	}
}

func TestMutationsRequireAdmin(t *testing.T) {
	fx := newGraphFixture(t)
	seeded := fx.seedEmployee(t, "Ada", "ada@company.com", "Engineering", 120000)

	mutations := []struct {
		name  string
		query string
		vars  map[string]interface{}
	}{
		{
			name: "addEmployee",
			query: `mutation($input: CreateEmployeeInput!) {
				addEmployee(input: $input) { id }
			}`,
			vars: map[string]interface{}{"input": map[string]interface{}{
				"name": "Ben", "email": "ben@company.com", "age": 28,
				"department": "Sales", "position": "Rep", "phone": "+1-555-0101", "salary": 50000,
			}},
		},
		{
			name: "updateEmployee",
			query: `mutation($id: ID!) {
				updateEmployee(id: $id, input: {name: "New Name"}) { id }
			}`,
			vars: map[string]interface{}{"id": seeded.ID},
		},
		{
			name:  "deleteEmployee",
			query: `mutation($id: ID!) { deleteEmployee(id: $id) }`,
			vars:  map[string]interface{}{"id": seeded.ID},
		},
		{
			name:  "toggleFlag",
			query: `mutation($id: ID!) { toggleFlag(id: $id) { id } }`,
			vars:  map[string]interface{}{"id": seeded.ID},
		},
	}

	for _, tt := range mutations {
		// Anonymous callers are unauthenticated, not forbidden.
		result := fx.exec(tt.query, tt.vars, nil)
		if code := errorCode(t, result); code != common.CodeUnauthenticated {
			t.Errorf("%s anonymous: code = %q, want %q", tt.name, code, common.CodeUnauthenticated)
		}

		result = fx.exec(tt.query, tt.vars, employeeIdentity())
		if code := errorCode(t, result); code != common.CodeForbidden {
			t.Errorf("%s as employee: code = %q, want %q", tt.name, code, common.CodeForbidden)
		}
		if msg := result.Errors[0].Message; msg != "Admin access required" {
			t.Errorf("%s as employee: message = %q", tt.name, msg)
		}
	}

	// Guards must run before any store access.
	if len(fx.employeeRepo.employees) != 1 {
		t.Errorf("store was touched by rejected mutations: %d records", len(fx.employeeRepo.employees))
	}
}

func TestEmployeeLifecycle(t *testing.T) {
	fx := newGraphFixture(t)
	admin := adminIdentity()

	result := fx.exec(`mutation($input: CreateEmployeeInput!) {
		addEmployee(input: $input) {
			id name email status flagged skills joinDate
		}
	}`, map[string]interface{}{"input": map[string]interface{}{
		"name": "Ada Lovelace", "email": "ada@company.com", "age": 36,
		"department": "Engineering", "position": "Senior Engineer",
		"phone": "+1-555-0100", "salary": 120000, "joinDate": "2024-01-15",
	}}, admin)
	created := dataMap(t, result, "addEmployee")
	id := created["id"].(string)
	if created["status"] != "active" || created["flagged"] != false {
		t.Errorf("created = %#v", created)
	}

	result = fx.exec(`query($id: ID!) {
		employee(id: $id) { id name email }
	}`, map[string]interface{}{"id": id}, employeeIdentity())
	fetched := dataMap(t, result, "employee")
	if fetched["name"] != "Ada Lovelace" {
		t.Errorf("fetched = %#v", fetched)
	}

	result = fx.exec(`query {
		employee(id: "00000000-0000-0000-0000-000000000000") { id }
	}`, nil, employeeIdentity())
	if len(result.Errors) > 0 {
		t.Fatalf("unknown id errored: %v", result.Errors)
	}
	if got := result.Data.(map[string]interface{})["employee"]; got != nil {
		t.Errorf("unknown id = %#v, want null", got)
	}

	result = fx.exec(`mutation($id: ID!) {
		updateEmployee(id: $id, input: {salary: 130000, position: "Staff Engineer"}) {
			salary position name
		}
	}`, map[string]interface{}{"id": id}, admin)
	updated := dataMap(t, result, "updateEmployee")
	if updated["salary"] != 130000.0 || updated["position"] != "Staff Engineer" {
		t.Errorf("updated = %#v", updated)
	}
	if updated["name"] != "Ada Lovelace" {
		t.Error("partial update must not touch absent fields")
	}

	result = fx.exec(`mutation($id: ID!) { toggleFlag(id: $id) { flagged } }`,
		map[string]interface{}{"id": id}, admin)
	if flagged := dataMap(t, result, "toggleFlag")["flagged"]; flagged != true {
		t.Errorf("flagged = %#v, want true", flagged)
	}

	result = fx.exec(`mutation($id: ID!) { deleteEmployee(id: $id) }`,
		map[string]interface{}{"id": id}, admin)
	if len(result.Errors) > 0 {
		t.Fatalf("delete errored: %v", result.Errors)
	}
	if ok := result.Data.(map[string]interface{})["deleteEmployee"]; ok != true {
		t.Errorf("deleteEmployee = %#v, want true", ok)
	}

	result = fx.exec(`mutation($id: ID!) { deleteEmployee(id: $id) }`,
		map[string]interface{}{"id": id}, admin)
	if code := errorCode(t, result); code != common.CodeNotFound {
		t.Errorf("second delete code = %q, want %q", code, common.CodeNotFound)
	}
}

func TestAddEmployeeValidationExtensions(t *testing.T) {
	fx := newGraphFixture(t)

	result := fx.exec(`mutation($input: CreateEmployeeInput!) {
		addEmployee(input: $input) { id }
	}`, map[string]interface{}{"input": map[string]interface{}{
		"name": "", "email": "nope", "age": 12,
		"department": "Legal", "position": "", "phone": "", "salary": -1,
	}}, adminIdentity())

	if code := errorCode(t, result); code != common.CodeValidation {
		t.Fatalf("code = %q, want %q", code, common.CodeValidation)
	}
	violations, ok := result.Errors[0].Extensions["violations"].([]common.FieldViolation)
	if !ok {
		t.Fatalf("violations extension has unexpected shape: %#v", result.Errors[0].Extensions["violations"])
	}
	if len(violations) < 5 {
		t.Errorf("got %d violations, want every invalid field reported: %+v", len(violations), violations)
	}
}

func TestEmployeesPaginatedQuery(t *testing.T) {
	fx := newGraphFixture(t)
	for i, email := range []string{"a@company.com", "b@company.com", "c@company.com"} {
		fx.seedEmployee(t, "Person", email, "Engineering", float64(50000+i))
	}

	result := fx.exec(`{
		employeesPaginated(page: 2, limit: 2) {
			totalCount
			employees { email }
			pageInfo { currentPage totalPages hasNextPage hasPreviousPage }
		}
	}`, nil, employeeIdentity())

	page := dataMap(t, result, "employeesPaginated")
	if page["totalCount"] != 3 {
		t.Errorf("totalCount = %#v, want 3", page["totalCount"])
	}
	if got := len(page["employees"].([]interface{})); got != 1 {
		t.Errorf("page 2 has %d records, want 1", got)
	}
	info := page["pageInfo"].(map[string]interface{})
	if info["currentPage"] != 2 || info["totalPages"] != 2 ||
		info["hasNextPage"] != false || info["hasPreviousPage"] != true {
		t.Errorf("pageInfo = %#v", info)
	}
}

func TestStatsWithDepartmentEmployees(t *testing.T) {
	fx := newGraphFixture(t)
	fx.seedEmployee(t, "Ada", "ada@company.com", "Engineering", 100000)
	fx.seedEmployee(t, "Ben", "ben@company.com", "Engineering", 80000)
	fx.seedEmployee(t, "Cyd", "cyd@company.com", "Sales", 60000)

	result := fx.exec(`{
		stats {
			totalEmployees
			activeEmployees
			averageSalary
			departmentCounts {
				department
				count
				employees { name }
			}
		}
	}`, nil, employeeIdentity())

	stats := dataMap(t, result, "stats")
	if stats["totalEmployees"] != 3 || stats["activeEmployees"] != 3 {
		t.Errorf("stats = %#v", stats)
	}
	if stats["averageSalary"] != 80000.0 {
		t.Errorf("averageSalary = %#v, want 80000", stats["averageSalary"])
	}

	counts := stats["departmentCounts"].([]interface{})
	if len(counts) != 2 {
		t.Fatalf("departmentCounts = %#v", counts)
	}
	byDepartment := map[string]map[string]interface{}{}
	for _, raw := range counts {
		dc := raw.(map[string]interface{})
		byDepartment[dc["department"].(string)] = dc
	}
	eng := byDepartment["Engineering"]
	if eng["count"] != 2 || len(eng["employees"].([]interface{})) != 2 {
		t.Errorf("Engineering = %#v", eng)
	}
	sales := byDepartment["Sales"]
	if sales["count"] != 1 || len(sales["employees"].([]interface{})) != 1 {
		t.Errorf("Sales = %#v", sales)
	}
}
