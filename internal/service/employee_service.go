package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/repository"
)

// EmployeeService coordinates employee workflows.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// EmployeeDependencies bundles collaborators for the employee service.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewEmployeeService constructs the service. Dispatcher and Logger are optional.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:  deps.EmployeeRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Create persists a new employee.
func (s *EmployeeService) Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	emp, err := s.employees.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.EventEmployeeCreated, emp.ID, changedPayload(emp))
	return emp, nil
}

// List returns every employee in store order.
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return s.employees.List(ctx)
}

// Get fetches a single employee.
func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

// Update overwrites all fields of an existing employee.
func (s *EmployeeService) Update(ctx context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error) {
	emp, err := s.employees.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.EventEmployeeUpdated, emp.ID, changedPayload(emp))
	return emp, nil
}

// Delete removes an employee.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, events.EventEmployeeDeleted, id, nil)
	return nil
}

// Search returns employees whose name contains term, ignoring case. An empty
// match set is reported as domain.ErrNoEmployeesFound.
func (s *EmployeeService) Search(ctx context.Context, term string) ([]domain.Employee, error) {
	matches, err := s.employees.SearchByName(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.ErrNoEmployeesFound
	}
	return matches, nil
}

func (s *EmployeeService) emit(ctx context.Context, eventType events.EventType, employeeID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EmployeeID: employeeID,
		Timestamp:  s.now().UTC(),
		Payload:    payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event delivery failed",
			zap.String("event_type", string(eventType)),
			zap.String("employee_id", employeeID),
			zap.Error(err))
	}
}

func changedPayload(emp *domain.Employee) events.EmployeeChangedPayload {
	return events.EmployeeChangedPayload{
		Name:        emp.Name,
		Email:       emp.Email,
		DeptCode:    emp.DeptCode,
		JoiningDate: emp.JoiningDate.Format(domain.DateLayout),
	}
}
