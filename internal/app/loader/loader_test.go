package loader

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"staffdir/internal/domain/model"
	"staffdir/internal/domain/repository"
)

// stubEmployeeRepo serves canned records and counts batch round trips.
type stubEmployeeRepo struct {
	employees []*model.Employee

	idCalls         atomic.Int64
	departmentCalls atomic.Int64
	failLookups     bool
}

func (s *stubEmployeeRepo) FindByIDs(_ context.Context, ids []string) ([]*model.Employee, error) {
	s.idCalls.Add(1)
	if s.failLookups {
		return nil, errors.New("store unavailable")
	}
	var out []*model.Employee
	for _, e := range s.employees {
		for _, id := range ids {
			if e.ID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (s *stubEmployeeRepo) FindByDepartments(_ context.Context, departments []string) ([]*model.Employee, error) {
	s.departmentCalls.Add(1)
	if s.failLookups {
		return nil, errors.New("store unavailable")
	}
	var out []*model.Employee
	for _, e := range s.employees {
		for _, d := range departments {
			if e.Department == d {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (s *stubEmployeeRepo) Create(context.Context, *model.Employee) error { return nil }
func (s *stubEmployeeRepo) Update(context.Context, string, repository.EmployeeUpdate) (*model.Employee, error) {
	return nil, errors.New("not implemented")
}
func (s *stubEmployeeRepo) Delete(context.Context, string) error { return nil }
func (s *stubEmployeeRepo) ToggleFlag(context.Context, string) (*model.Employee, error) {
	return nil, errors.New("not implemented")
}
func (s *stubEmployeeRepo) FindByID(context.Context, string) (*model.Employee, error) {
	return nil, errors.New("not implemented")
}
func (s *stubEmployeeRepo) FindByEmail(context.Context, string) (*model.Employee, error) {
	return nil, errors.New("not implemented")
}
func (s *stubEmployeeRepo) List(context.Context, *model.EmployeeFilter, *model.EmployeeSort) ([]*model.Employee, error) {
	return nil, errors.New("not implemented")
}
func (s *stubEmployeeRepo) ListPage(context.Context, *model.EmployeeFilter, *model.EmployeeSort, int, int) ([]*model.Employee, int, error) {
	return nil, 0, errors.New("not implemented")
}
func (s *stubEmployeeRepo) Stats(context.Context) (*model.Stats, error) {
	return nil, errors.New("not implemented")
}

func TestEmployeeByIDPreservesKeyOrder(t *testing.T) {
	t.Parallel()

	repo := &stubEmployeeRepo{employees: []*model.Employee{
		{ID: "id-a", Name: "Ada", Department: "Engineering"},
		{ID: "id-b", Name: "Ben", Department: "Sales"},
	}}
	loaders := New(repo)
	ctx := context.Background()

	thunkA := loaders.EmployeeByID.Load(ctx, "id-a")
	thunkMissing := loaders.EmployeeByID.Load(ctx, "id-missing")
	thunkB := loaders.EmployeeByID.Load(ctx, "id-b")

	a, err := thunkA()
	if err != nil {
		t.Fatalf("thunkA: %v", err)
	}
	if a == nil || a.Name != "Ada" {
		t.Errorf("first key resolved to %+v, want Ada", a)
	}

	missing, err := thunkMissing()
	if err != nil {
		t.Fatalf("thunkMissing: %v", err)
	}
	if missing != nil {
		t.Errorf("unknown id resolved to %+v, want nil", missing)
	}

	b, err := thunkB()
	if err != nil {
		t.Fatalf("thunkB: %v", err)
	}
	if b == nil || b.Name != "Ben" {
		t.Errorf("last key resolved to %+v, want Ben", b)
	}
}

func TestEmployeeByIDCoalescesIntoOneFetch(t *testing.T) {
	t.Parallel()

	repo := &stubEmployeeRepo{employees: []*model.Employee{
		{ID: "id-1", Name: "One"},
		{ID: "id-2", Name: "Two"},
		{ID: "id-3", Name: "Three"},
	}}
	loaders := New(repo)
	ctx := context.Background()

	thunks := []func() (*model.Employee, error){
		loaders.EmployeeByID.Load(ctx, "id-1"),
		loaders.EmployeeByID.Load(ctx, "id-2"),
		loaders.EmployeeByID.Load(ctx, "id-3"),
		loaders.EmployeeByID.Load(ctx, "id-2"), // duplicate key
	}
	for i, thunk := range thunks {
		if _, err := thunk(); err != nil {
			t.Fatalf("thunk %d: %v", i, err)
		}
	}

	if calls := repo.idCalls.Load(); calls != 1 {
		t.Errorf("FindByIDs was called %d times, want 1", calls)
	}

	// A repeat load after the batch resolves comes from the per-request
	// cache, not the store.
	if _, err := loaders.EmployeeByID.Load(ctx, "id-1")(); err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if calls := repo.idCalls.Load(); calls != 1 {
		t.Errorf("FindByIDs was called %d times after cached load, want 1", calls)
	}
}

func TestEmployeeByIDPropagatesBatchError(t *testing.T) {
	t.Parallel()

	repo := &stubEmployeeRepo{failLookups: true}
	loaders := New(repo)

	if _, err := loaders.EmployeeByID.Load(context.Background(), "id-1")(); err == nil {
		t.Error("expected the store error to surface through the thunk")
	}
}

func TestEmployeesByDepartmentGroupsResults(t *testing.T) {
	t.Parallel()

	repo := &stubEmployeeRepo{employees: []*model.Employee{
		{ID: "id-1", Name: "One", Department: "Engineering"},
		{ID: "id-2", Name: "Two", Department: "Engineering"},
		{ID: "id-3", Name: "Three", Department: "Sales"},
	}}
	loaders := New(repo)
	ctx := context.Background()

	engThunk := loaders.EmployeesByDepartment.Load(ctx, "Engineering")
	hrThunk := loaders.EmployeesByDepartment.Load(ctx, "HR")
	salesThunk := loaders.EmployeesByDepartment.Load(ctx, "Sales")

	eng, err := engThunk()
	if err != nil {
		t.Fatalf("engineering thunk: %v", err)
	}
	if len(eng) != 2 {
		t.Errorf("Engineering has %d records, want 2", len(eng))
	}

	hr, err := hrThunk()
	if err != nil {
		t.Fatalf("hr thunk: %v", err)
	}
	if hr == nil {
		t.Error("department with no matches should yield an empty list, not nil")
	}
	if len(hr) != 0 {
		t.Errorf("HR has %d records, want 0", len(hr))
	}

	sales, err := salesThunk()
	if err != nil {
		t.Fatalf("sales thunk: %v", err)
	}
	if len(sales) != 1 || sales[0].Name != "Three" {
		t.Errorf("Sales resolved to %+v, want the single Sales record", sales)
	}

	if calls := repo.departmentCalls.Load(); calls != 1 {
		t.Errorf("FindByDepartments was called %d times, want 1", calls)
	}
}
