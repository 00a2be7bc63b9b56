package graph

import (
	"encoding/json"
	"fmt"

	"github.com/graphql-go/graphql"

	"staffdir/internal/api/middleware"
	"staffdir/internal/app/service"
	"staffdir/internal/common"
	"staffdir/internal/domain/model"
)

// Resolver wires GraphQL operations to the application services. Guards run
// before any store access; loaders come from the request context.
type Resolver struct {
	Auth      *service.AuthService
	Employees *service.EmployeeService
}

func NewResolver(auth *service.AuthService, employees *service.EmployeeService) *Resolver {
	return &Resolver{Auth: auth, Employees: employees}
}

func (r *Resolver) resolveEmployees(p graphql.ResolveParams) (interface{}, error) {
	identity := middleware.IdentityFromContext(p.Context)
	if err := service.RequireAuth(identity); err != nil {
		return nil, wrapErr(err)
	}

	filter := decodeFilter(p.Args["filter"])
	sort := decodeSort(p.Args["sort"])

	employees, err := r.Employees.List(p.Context, filter, sort)
	if err != nil {
		return nil, wrapErr(err)
	}
	return employees, nil
}

func (r *Resolver) resolveEmployee(p graphql.ResolveParams) (interface{}, error) {
	identity := middleware.IdentityFromContext(p.Context)
	if err := service.RequireAuth(identity); err != nil {
		return nil, wrapErr(err)
	}

	id, _ := p.Args["id"].(string)
	loaders := middleware.LoadersFromContext(p.Context)
	if loaders == nil {
		return nil, wrapErr(common.Errorf("request loaders missing: %w", common.ErrInternal))
	}

	thunk := loaders.EmployeeByID.Load(p.Context, id)
	return func() (interface{}, error) {
		employee, err := thunk()
		if err != nil {
			return nil, wrapErr(err)
		}
		if employee == nil {
			return nil, nil
		}
		return employee, nil
	}, nil
}

func (r *Resolver) resolveEmployeesPaginated(p graphql.ResolveParams) (interface{}, error) {
	identity := middleware.IdentityFromContext(p.Context)
	if err := service.RequireAuth(identity); err != nil {
		return nil, wrapErr(err)
	}

	page := intArg(p.Args, "page", 1)
	limit := intArg(p.Args, "limit", service.DefaultPageLimit)
	filter := decodeFilter(p.Args["filter"])
	sort := decodeSort(p.Args["sort"])

	result, err := r.Employees.ListPaginated(p.Context, page, limit, filter, sort)
	if err != nil {
		return nil, wrapErr(err)
	}
	return result, nil
}

func (r *Resolver) resolveMe(p graphql.ResolveParams) (interface{}, error) {
	identity := middleware.IdentityFromContext(p.Context)
	if identity == nil {
		return nil, nil
	}
	return identity, nil
}

func (r *Resolver) resolveStats(p graphql.ResolveParams) (interface{}, error) {
	identity := middleware.IdentityFromContext(p.Context)
	if err := service.RequireAuth(identity); err != nil {
		return nil, wrapErr(err)
	}

	stats, err := r.Employees.Stats(p.Context)
	if err != nil {
		return nil, wrapErr(err)
	}
	return stats, nil
}

// resolveDepartmentEmployees backs the employees field on a department
// count; the per-request loader folds all requested departments into one
// store query.
func (r *Resolver) resolveDepartmentEmployees(p graphql.ResolveParams) (interface{}, error) {
	count, ok := p.Source.(model.DepartmentCount)
	if !ok {
		return nil, wrapErr(common.Errorf("unexpected source for department employees: %w", common.ErrInternal))
	}

	loaders := middleware.LoadersFromContext(p.Context)
	if loaders == nil {
		return nil, wrapErr(common.Errorf("request loaders missing: %w", common.ErrInternal))
	}

	thunk := loaders.EmployeesByDepartment.Load(p.Context, count.Department)
	return func() (interface{}, error) {
		employees, err := thunk()
		if err != nil {
			return nil, wrapErr(err)
		}
		return employees, nil
	}, nil
}

func (r *Resolver) resolveRegister(p graphql.ResolveParams) (interface{}, error) {
	req := service.RegisterRequest{
		Username: stringArg(p.Args, "username"),
		Email:    stringArg(p.Args, "email"),
		Password: stringArg(p.Args, "password"),
		Role:     stringArg(p.Args, "role"),
	}

	payload, err := r.Auth.Register(p.Context, req)
	if err != nil {
		return nil, wrapErr(err)
	}
	return payload, nil
}

func (r *Resolver) resolveLogin(p graphql.ResolveParams) (interface{}, error) {
	req := service.LoginRequest{
		Email:    stringArg(p.Args, "email"),
		Password: stringArg(p.Args, "password"),
	}

	payload, err := r.Auth.Login(p.Context, req)
	if err != nil {
		return nil, wrapErr(err)
	}
	return payload, nil
}

func (r *Resolver) resolveAddEmployee(p graphql.ResolveParams) (interface{}, error) {
	identity := middleware.IdentityFromContext(p.Context)
	if err := service.RequireAdmin(identity); err != nil {
		return nil, wrapErr(err)
	}

	var input service.CreateEmployeeInput
	if err := decodeInput(p.Args["input"], &input); err != nil {
		return nil, wrapErr(err)
	}

	employee, err := r.Employees.Create(p.Context, input)
	if err != nil {
		return nil, wrapErr(err)
	}
	return employee, nil
}

func (r *Resolver) resolveUpdateEmployee(p graphql.ResolveParams) (interface{}, error) {
	identity := middleware.IdentityFromContext(p.Context)
	if err := service.RequireAdmin(identity); err != nil {
		return nil, wrapErr(err)
	}

	id, _ := p.Args["id"].(string)
	var input service.UpdateEmployeeInput
	if err := decodeInput(p.Args["input"], &input); err != nil {
		return nil, wrapErr(err)
	}

	employee, err := r.Employees.Update(p.Context, id, input)
	if err != nil {
		return nil, wrapErr(err)
	}
	return employee, nil
}

func (r *Resolver) resolveDeleteEmployee(p graphql.ResolveParams) (interface{}, error) {
	identity := middleware.IdentityFromContext(p.Context)
	if err := service.RequireAdmin(identity); err != nil {
		return nil, wrapErr(err)
	}

	id, _ := p.Args["id"].(string)
	if err := r.Employees.Delete(p.Context, id); err != nil {
		return nil, wrapErr(err)
	}
	return true, nil
}

func (r *Resolver) resolveToggleFlag(p graphql.ResolveParams) (interface{}, error) {
	identity := middleware.IdentityFromContext(p.Context)
	if err := service.RequireAdmin(identity); err != nil {
		return nil, wrapErr(err)
	}

	id, _ := p.Args["id"].(string)
	employee, err := r.Employees.ToggleFlag(p.Context, id)
	if err != nil {
		return nil, wrapErr(err)
	}
	return employee, nil
}

func decodeFilter(arg interface{}) *model.EmployeeFilter {
	raw, ok := arg.(map[string]interface{})
	if !ok {
		return nil
	}
	filter := &model.EmployeeFilter{}
	if v, ok := raw["department"].(string); ok {
		filter.Department = &v
	}
	if v, ok := raw["status"].(string); ok {
		filter.Status = &v
	}
	if v, ok := raw["minSalary"].(float64); ok {
		filter.MinSalary = &v
	}
	if v, ok := raw["maxSalary"].(float64); ok {
		filter.MaxSalary = &v
	}
	if v, ok := raw["search"].(string); ok {
		filter.Search = &v
	}
	return filter
}

func decodeSort(arg interface{}) *model.EmployeeSort {
	raw, ok := arg.(map[string]interface{})
	if !ok {
		return nil
	}
	sort := &model.EmployeeSort{}
	if v, ok := raw["field"].(string); ok {
		sort.Field = v
	}
	if v, ok := raw["order"].(string); ok {
		sort.Order = v
	}
	return sort
}

// decodeInput maps a GraphQL input object onto a typed input struct. Going
// through JSON keeps absent fields nil, which is what the partial-update
// semantics rely on.
func decodeInput(arg interface{}, dest interface{}) error {
	raw, err := json.Marshal(arg)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	if v, ok := args[key].(int); ok {
		return v
	}
	return fallback
}
