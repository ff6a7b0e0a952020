package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/validation"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

const (
	msgEmployeeNotFound = "Employee not found"
	msgNoEmployeesFound = "No employees found"
	msgEmployeeDeleted  = "Employee deleted successfully"
	msgInvalidPayload   = "invalid payload"
)

// EmployeeService is the behavior the employee endpoints depend on.
type EmployeeService interface {
	Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	Update(ctx context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, term string) ([]domain.Employee, error)
}

// EmployeesHandler exposes the employee CRUD and search endpoints.
type EmployeesHandler struct {
	employees EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees}
}

// Create handles POST /employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	in, err := parseEmployeeBody(c)
	if err != nil {
		return err
	}

	emp, err := h.employees.Create(c.UserContext(), in)
	if err != nil {
		return mapEmployeeError(err, http.StatusBadRequest)
	}
	return c.Status(http.StatusCreated).JSON(dto.NewEmployeeResponse(*emp))
}

// List handles GET /employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	list, err := h.employees.List(c.UserContext())
	if err != nil {
		return mapEmployeeError(err, http.StatusInternalServerError)
	}
	return c.JSON(dto.NewEmployeeListResponse(list))
}

// Get handles GET /employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	emp, err := h.employees.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapEmployeeError(err, http.StatusInternalServerError)
	}
	return c.JSON(dto.NewEmployeeResponse(*emp))
}

// Update handles PUT /employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	in, err := parseEmployeeBody(c)
	if err != nil {
		return err
	}

	emp, err := h.employees.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return mapEmployeeError(err, http.StatusBadRequest)
	}
	return c.JSON(dto.NewEmployeeResponse(*emp))
}

// Delete handles DELETE /employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	if err := h.employees.Delete(c.UserContext(), c.Params("id")); err != nil {
		return mapEmployeeError(err, http.StatusInternalServerError)
	}
	return c.JSON(dto.MessageResponse{Message: msgEmployeeDeleted})
}

// Search handles GET /employees/search/:name.
func (h *EmployeesHandler) Search(c *fiber.Ctx) error {
	matches, err := h.employees.Search(c.UserContext(), c.Params("name"))
	if err != nil {
		return mapEmployeeError(err, http.StatusInternalServerError)
	}
	return c.JSON(dto.NewEmployeeListResponse(matches))
}

// parseEmployeeBody decodes the request body into a field map and runs the
// validation rules over it. An empty body is validated as an empty object.
func parseEmployeeBody(c *fiber.Ctx) (domain.EmployeeInput, error) {
	fields := map[string]any{}

	body := c.Body()
	if len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return domain.EmployeeInput{}, apperrors.NewBadRequest(msgInvalidPayload, err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return domain.EmployeeInput{}, apperrors.NewBadRequest(msgInvalidPayload, err)
		}
		if fields == nil {
			fields = map[string]any{}
		}
	}

	in, violations := validation.Parse(fields)
	if len(violations) > 0 {
		return domain.EmployeeInput{}, apperrors.NewValidationError(violations)
	}
	return in, nil
}

// mapEmployeeError translates service errors. storageStatus is the status a
// store failure maps to on this endpoint.
func mapEmployeeError(err error, storageStatus int) error {
	switch {
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return apperrors.NewNotFound(msgEmployeeNotFound, err)
	case errors.Is(err, domain.ErrNoEmployeesFound):
		return apperrors.NewNotFound(msgNoEmployeesFound, err)
	case storageStatus == http.StatusBadRequest && domain.IsStorageError(err):
		return apperrors.NewBadRequest(err.Error(), err)
	default:
		return apperrors.NewInternalError(err)
	}
}
