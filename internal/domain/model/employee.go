package model

import (
	"time"
)

type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "active"
	StatusInactive EmployeeStatus = "inactive"
	StatusOnLeave  EmployeeStatus = "on-leave"
)

// Departments is the fixed set a record's department must belong to.
var Departments = []string{
	"Engineering", "Marketing", "Sales", "HR",
	"Finance", "Operations", "Design", "Product",
}

func ValidDepartment(d string) bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

func ValidStatus(s EmployeeStatus) bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnLeave:
		return true
	}
	return false
}

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type Employee struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Age              int               `json:"age"`
	Department       string            `json:"department"`
	Position         string            `json:"position"`
	Phone            string            `json:"phone"`
	Salary           float64           `json:"salary"`
	JoinDate         time.Time         `json:"joinDate"`
	Status           EmployeeStatus    `json:"status"`
	Skills           []string          `json:"skills"`
	Address          *Address          `json:"address,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
	Flagged          bool              `json:"flagged"`
	Notes            string            `json:"notes"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// EmployeeFilter narrows a directory listing. All present clauses are
// combined with logical AND; Search matches name, position or email
// case-insensitively.
type EmployeeFilter struct {
	Department *string
	Status     *string
	MinSalary  *float64
	MaxSalary  *float64
	Search     *string
}

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

type EmployeeSort struct {
	Field string
	Order string
}

type PageInfo struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPageInfo derives page metadata from the total match count independently
// of the fetched slice. A page past the end is valid and simply has no next
// page.
func NewPageInfo(totalCount, page, limit int) PageInfo {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}
	return PageInfo{
		CurrentPage:     page,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

type EmployeePage struct {
	Employees  []*Employee `json:"employees"`
	TotalCount int         `json:"totalCount"`
	PageInfo   PageInfo    `json:"pageInfo"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type Stats struct {
	TotalEmployees   int               `json:"totalEmployees"`
	ActiveEmployees  int               `json:"activeEmployees"`
	DepartmentCounts []DepartmentCount `json:"departmentCounts"`
	AverageSalary    float64           `json:"averageSalary"`
}
