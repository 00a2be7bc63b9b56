package graph

import (
	"time"

	"github.com/graphql-go/graphql"

	"staffdir/internal/domain/model"
)

// NewSchema builds the GraphQL schema around a Resolver. Field names and
// nullability mirror the API contract the SPA consumes.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	addressType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Address",
		Fields: graphql.Fields{
			"street":  &graphql.Field{Type: graphql.String},
			"city":    &graphql.Field{Type: graphql.String},
			"state":   &graphql.Field{Type: graphql.String},
			"zipCode": &graphql.Field{Type: graphql.String},
			"country": &graphql.Field{Type: graphql.String},
		},
	})

	emergencyContactType := graphql.NewObject(graphql.ObjectConfig{
		Name: "EmergencyContact",
		Fields: graphql.Fields{
			"name":         &graphql.Field{Type: graphql.String},
			"relationship": &graphql.Field{Type: graphql.String},
			"phone":        &graphql.Field{Type: graphql.String},
		},
	})

	employeeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Employee",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"age":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"department": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"position":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"phone":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"salary":     &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"joinDate": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.Employee).JoinDate.UTC().Format(time.RFC3339), nil
				},
			},
			"status": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"skills": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
			},
			"address":          &graphql.Field{Type: addressType},
			"emergencyContact": &graphql.Field{Type: emergencyContactType},
			"flagged":          &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"notes":            &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.Employee).CreatedAt.UTC().Format(time.RFC3339), nil
				},
			},
			"updatedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.Employee).UpdatedAt.UTC().Format(time.RFC3339), nil
				},
			},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"role":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.User).CreatedAt.UTC().Format(time.RFC3339), nil
				},
			},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":  &graphql.Field{Type: graphql.NewNonNull(userType)},
		},
	})

	pageInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"currentPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalPages":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"hasNextPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"hasPreviousPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})

	paginatedEmployeesType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PaginatedEmployees",
		Fields: graphql.Fields{
			"employees":  &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(employeeType)))},
			"totalCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"pageInfo":   &graphql.Field{Type: graphql.NewNonNull(pageInfoType)},
		},
	})

	departmentCountType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DepartmentCount",
		Fields: graphql.Fields{
			"department": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"count":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"employees": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(employeeType))),
				Resolve: r.resolveDepartmentEmployees,
			},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "EmployeeStats",
		Fields: graphql.Fields{
			"totalEmployees":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"activeEmployees":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"departmentCounts": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(departmentCountType)))},
			"averageSalary":    &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	employeeFilterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "EmployeeFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"department": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"minSalary":  &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"maxSalary":  &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"search":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	employeeSortInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "EmployeeSortInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"field": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"order": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	addressInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AddressInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"street":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"city":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"state":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"zipCode": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"country": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	emergencyContactInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "EmergencyContactInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"relationship": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"phone":        &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	createEmployeeInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateEmployeeInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":             &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":            &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"age":              &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"department":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"position":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"phone":            &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"salary":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"joinDate":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":           &graphql.InputObjectFieldConfig{Type: graphql.String},
			"skills":           &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"address":          &graphql.InputObjectFieldConfig{Type: addressInput},
			"emergencyContact": &graphql.InputObjectFieldConfig{Type: emergencyContactInput},
			"notes":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	updateEmployeeInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateEmployeeInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":             &graphql.InputObjectFieldConfig{Type: graphql.String},
			"email":            &graphql.InputObjectFieldConfig{Type: graphql.String},
			"age":              &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"department":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"position":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"phone":            &graphql.InputObjectFieldConfig{Type: graphql.String},
			"salary":           &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"joinDate":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":           &graphql.InputObjectFieldConfig{Type: graphql.String},
			"skills":           &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"address":          &graphql.InputObjectFieldConfig{Type: addressInput},
			"emergencyContact": &graphql.InputObjectFieldConfig{Type: emergencyContactInput},
			"flagged":          &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"notes":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"employees": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(employeeType))),
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: employeeFilterInput},
					"sort":   &graphql.ArgumentConfig{Type: employeeSortInput},
				},
				Resolve: r.resolveEmployees,
			},
			"employee": &graphql.Field{
				Type: employeeType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.resolveEmployee,
			},
			"employeesPaginated": &graphql.Field{
				Type: graphql.NewNonNull(paginatedEmployeesType),
				Args: graphql.FieldConfigArgument{
					"page":   &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
					"filter": &graphql.ArgumentConfig{Type: employeeFilterInput},
					"sort":   &graphql.ArgumentConfig{Type: employeeSortInput},
				},
				Resolve: r.resolveEmployeesPaginated,
			},
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.resolveMe,
			},
			"stats": &graphql.Field{
				Type:    graphql.NewNonNull(statsType),
				Resolve: r.resolveStats,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"role":     &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveRegister,
			},
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveLogin,
			},
			"addEmployee": &graphql.Field{
				Type: graphql.NewNonNull(employeeType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createEmployeeInput)},
				},
				Resolve: r.resolveAddEmployee,
			},
			"updateEmployee": &graphql.Field{
				Type: graphql.NewNonNull(employeeType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateEmployeeInput)},
				},
				Resolve: r.resolveUpdateEmployee,
			},
			"deleteEmployee": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.resolveDeleteEmployee,
			},
			"toggleFlag": &graphql.Field{
				Type: graphql.NewNonNull(employeeType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.resolveToggleFlag,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
