// Package loader provides the request-scoped batch loaders. A Loaders value
// is built at the start of request handling and discarded with the request;
// its caches must never outlive one request.
package loader

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"staffdir/internal/domain/model"
	"staffdir/internal/domain/repository"
)

// batchWindow is how long a loader waits to coalesce keys into one store
// round trip.
const batchWindow = 10 * time.Millisecond

type Loaders struct {
	EmployeeByID          *dataloader.Loader[string, *model.Employee]
	EmployeesByDepartment *dataloader.Loader[string, []*model.Employee]
}

func New(employeeRepo repository.EmployeeRepository) *Loaders {
	return &Loaders{
		EmployeeByID: dataloader.NewBatchedLoader(
			employeeByIDBatch(employeeRepo),
			dataloader.WithWait[string, *model.Employee](batchWindow),
		),
		EmployeesByDepartment: dataloader.NewBatchedLoader(
			employeesByDepartmentBatch(employeeRepo),
			dataloader.WithWait[string, []*model.Employee](batchWindow),
		),
	}
}

// employeeByIDBatch fetches all requested ids in one query and maps results
// back to the caller's key order, with a nil entry for any unknown id.
func employeeByIDBatch(repo repository.EmployeeRepository) dataloader.BatchFunc[string, *model.Employee] {
	return func(ctx context.Context, ids []string) []*dataloader.Result[*model.Employee] {
		results := make([]*dataloader.Result[*model.Employee], len(ids))

		employees, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*model.Employee]{Error: err}
			}
			return results
		}

		byID := make(map[string]*model.Employee, len(employees))
		for _, employee := range employees {
			byID[employee.ID] = employee
		}
		for i, id := range ids {
			results[i] = &dataloader.Result[*model.Employee]{Data: byID[id]}
		}
		return results
	}
}

// employeesByDepartmentBatch issues one query over the requested department
// set and hands each key its matching subset. A department with no matches
// gets an empty list, not an error.
func employeesByDepartmentBatch(repo repository.EmployeeRepository) dataloader.BatchFunc[string, []*model.Employee] {
	return func(ctx context.Context, departments []string) []*dataloader.Result[[]*model.Employee] {
		results := make([]*dataloader.Result[[]*model.Employee], len(departments))

		employees, err := repo.FindByDepartments(ctx, departments)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[[]*model.Employee]{Error: err}
			}
			return results
		}

		byDepartment := make(map[string][]*model.Employee, len(departments))
		for _, employee := range employees {
			byDepartment[employee.Department] = append(byDepartment[employee.Department], employee)
		}
		for i, department := range departments {
			subset := byDepartment[department]
			if subset == nil {
				subset = []*model.Employee{}
			}
			results[i] = &dataloader.Result[[]*model.Employee]{Data: subset}
		}
		return results
	}
}
