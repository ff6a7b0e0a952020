package dto

import (
	"time"

	"github.com/spec-kit/employee-service/internal/domain"
)

// EmployeeResponse is the wire form of an employee record.
type EmployeeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"emp_name"`
	Email       string    `json:"emp_email"`
	Salary      string    `json:"emp_salary"`
	Experience  int       `json:"experience"`
	DeptCode    string    `json:"dept_code"`
	JoiningDate string    `json:"joining_date"`
	SecreteCode string    `json:"secrete_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MessageResponse carries a single human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorsResponse lists every validation violation.
type ErrorsResponse struct {
	Errors any `json:"errors"`
}

// NewEmployeeResponse maps a domain record.
func NewEmployeeResponse(emp domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          emp.ID,
		Name:        emp.Name,
		Email:       emp.Email,
		Salary:      emp.Salary.String(),
		Experience:  emp.Experience,
		DeptCode:    emp.DeptCode,
		JoiningDate: emp.JoiningDate.Format(domain.DateLayout),
		SecreteCode: emp.SecreteCode,
		CreatedAt:   emp.CreatedAt,
		UpdatedAt:   emp.UpdatedAt,
	}
}

// NewEmployeeListResponse maps a list, never returning nil.
func NewEmployeeListResponse(list []domain.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(list))
	for _, emp := range list {
		out = append(out, NewEmployeeResponse(emp))
	}
	return out
}
