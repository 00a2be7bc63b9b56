package service

import (
	"regexp"

	"staffdir/internal/common"
	"staffdir/internal/domain/model"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minAge = 18
	maxAge = 100
)

// validateCreateEmployee checks every field constraint and reports all
// violations at once, before any store access.
func validateCreateEmployee(input CreateEmployeeInput) error {
	var violations []common.FieldViolation

	if input.Name == "" {
		violations = append(violations, common.FieldViolation{Field: "name", Message: "is required"})
	}
	if !emailRe.MatchString(input.Email) {
		violations = append(violations, common.FieldViolation{Field: "email", Message: "must be a valid email address"})
	}
	violations = append(violations, checkAge(input.Age)...)
	if !model.ValidDepartment(input.Department) {
		violations = append(violations, common.FieldViolation{Field: "department", Message: "is not a known department"})
	}
	if input.Position == "" {
		violations = append(violations, common.FieldViolation{Field: "position", Message: "is required"})
	}
	if input.Phone == "" {
		violations = append(violations, common.FieldViolation{Field: "phone", Message: "is required"})
	}
	if input.Salary < 0 {
		violations = append(violations, common.FieldViolation{Field: "salary", Message: "must not be negative"})
	}
	if input.Status != nil && !model.ValidStatus(model.EmployeeStatus(*input.Status)) {
		violations = append(violations, common.FieldViolation{Field: "status", Message: "must be active, inactive or on-leave"})
	}

	if len(violations) > 0 {
		return &common.ValidationError{Violations: violations}
	}
	return nil
}

// validateUpdateEmployee applies the same constraints to whichever fields
// the partial update carries.
func validateUpdateEmployee(input UpdateEmployeeInput) error {
	var violations []common.FieldViolation

	if input.Name != nil && *input.Name == "" {
		violations = append(violations, common.FieldViolation{Field: "name", Message: "must not be empty"})
	}
	if input.Email != nil && !emailRe.MatchString(*input.Email) {
		violations = append(violations, common.FieldViolation{Field: "email", Message: "must be a valid email address"})
	}
	if input.Age != nil {
		violations = append(violations, checkAge(*input.Age)...)
	}
	if input.Department != nil && !model.ValidDepartment(*input.Department) {
		violations = append(violations, common.FieldViolation{Field: "department", Message: "is not a known department"})
	}
	if input.Position != nil && *input.Position == "" {
		violations = append(violations, common.FieldViolation{Field: "position", Message: "must not be empty"})
	}
	if input.Phone != nil && *input.Phone == "" {
		violations = append(violations, common.FieldViolation{Field: "phone", Message: "must not be empty"})
	}
	if input.Salary != nil && *input.Salary < 0 {
		violations = append(violations, common.FieldViolation{Field: "salary", Message: "must not be negative"})
	}
	if input.Status != nil && !model.ValidStatus(model.EmployeeStatus(*input.Status)) {
		violations = append(violations, common.FieldViolation{Field: "status", Message: "must be active, inactive or on-leave"})
	}

	if len(violations) > 0 {
		return &common.ValidationError{Violations: violations}
	}
	return nil
}

func checkAge(age int) []common.FieldViolation {
	if age < minAge || age > maxAge {
		return []common.FieldViolation{{Field: "age", Message: "must be between 18 and 100"}}
	}
	return nil
}
