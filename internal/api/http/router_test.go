package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/observability"
)

type fakeEmployeeService struct {
	mu      sync.Mutex
	records map[string]domain.Employee
	order   []string
	seq     int
	err     error
	panics  bool
}

func newFakeEmployeeService() *fakeEmployeeService {
	return &fakeEmployeeService{records: map[string]domain.Employee{}}
}

func (f *fakeEmployeeService) Create(_ context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	emp := domain.Employee{
		ID:          "emp-" + strconv.Itoa(f.seq),
		Name:        in.Name,
		Email:       in.Email,
		Salary:      in.Salary,
		Experience:  in.Experience,
		DeptCode:    in.DeptCode,
		JoiningDate: in.JoiningDate,
		SecreteCode: in.SecreteCode,
	}
	f.records[emp.ID] = emp
	f.order = append(f.order, emp.ID)
	return &emp, nil
}

func (f *fakeEmployeeService) List(context.Context) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("list exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Employee, 0, len(f.order))
	for _, id := range f.order {
		if emp, ok := f.records[id]; ok {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (f *fakeEmployeeService) Get(_ context.Context, id string) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	emp, ok := f.records[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return &emp, nil
}

func (f *fakeEmployeeService) Update(_ context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	emp, ok := f.records[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	emp.Name, emp.Email, emp.Salary = in.Name, in.Email, in.Salary
	emp.Experience, emp.DeptCode = in.Experience, in.DeptCode
	emp.JoiningDate, emp.SecreteCode = in.JoiningDate, in.SecreteCode
	f.records[id] = emp
	return &emp, nil
}

func (f *fakeEmployeeService) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.records[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeEmployeeService) Search(_ context.Context, term string) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Employee
	for _, id := range f.order {
		emp, ok := f.records[id]
		if ok && strings.Contains(strings.ToLower(emp.Name), strings.ToLower(term)) {
			out = append(out, emp)
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrNoEmployeesFound
	}
	return out, nil
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func newTestApp(t *testing.T, svc handlers.EmployeeService) (*fiber.App, *observability.Metrics) {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	app := fiber.New(NewServerConfig("employee-service", logger))
	RegisterMiddlewares(app, logger, metrics, MiddlewareConfig{})
	RegisterRoutes(app, RouteConfig{
		Health:    handlers.NewHealthHandler("employee-service", "test", stubPinger{}, stubPinger{}, metrics),
		Employees: handlers.NewEmployeesHandler(svc),
	})
	return app, metrics
}

const aliceBody = `{"emp_name":"Alice Smith","emp_email":"a@x.com","emp_salary":"50000","experience":3,"dept_code":"ENG","joining_date":"2024-01-15","secrete_code":"abc"}`

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var obj map[string]any
	_ = json.Unmarshal(raw, &obj)
	return resp.StatusCode, obj, raw
}

func TestEmployeeLifecycle(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newFakeEmployeeService())

	invalid := strings.Replace(aliceBody, `"experience":3`, `"experience":-1`, 1)
	status, body, _ := doRequest(t, app, http.MethodPost, "/employees", invalid)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []any{map[string]any{
		"field":   "experience",
		"message": "Experience must be a non-negative integer",
	}}, body["errors"])

	status, created, _ := doRequest(t, app, http.MethodPost, "/employees", aliceBody)
	require.Equal(t, http.StatusCreated, status)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Alice Smith", created["emp_name"])
	assert.Equal(t, "50000", created["emp_salary"])
	assert.Equal(t, "2024-01-15", created["joining_date"])
	assert.Equal(t, "abc", created["secrete_code"])

	status, fetched, _ := doRequest(t, app, http.MethodGet, "/employees/"+id, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, created, fetched)

	status, deleted, _ := doRequest(t, app, http.MethodDelete, "/employees/"+id, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Employee deleted successfully", deleted["message"])

	status, missing, _ := doRequest(t, app, http.MethodGet, "/employees/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Employee not found", missing["message"])
}

func TestCreateEmployee_AllViolationsReported(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newFakeEmployeeService())

	status, body, _ := doRequest(t, app, http.MethodPost, "/employees", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	assert.Len(t, errs, 7)

	status, body, _ = doRequest(t, app, http.MethodPost, "/employees", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Len(t, body["errors"], 7)
}

func TestCreateEmployee_InvalidPayload(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newFakeEmployeeService())

	for _, payload := range []string{`{"emp_name":`, `[1,2]`, `"text"`, `{} {}`} {
		status, body, _ := doRequest(t, app, http.MethodPost, "/employees", payload)
		assert.Equal(t, http.StatusBadRequest, status, payload)
		assert.Equal(t, "invalid payload", body["message"], payload)
	}
}

func TestCreateEmployee_StorageErrorIsBadRequest(t *testing.T) {
	t.Parallel()

	svc := newFakeEmployeeService()
	svc.err = domain.NewStorageError("create", errors.New("duplicate key"))
	app, _ := newTestApp(t, svc)

	status, body, _ := doRequest(t, app, http.MethodPost, "/employees", aliceBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "create employee: duplicate key", body["message"])
}

func TestReadEndpoints_StorageErrorIsInternal(t *testing.T) {
	t.Parallel()

	svc := newFakeEmployeeService()
	svc.err = domain.NewStorageError("list", errors.New("connection refused"))
	app, _ := newTestApp(t, svc)

	for _, path := range []string{"/employees", "/employees/abc", "/employees/search/alice"} {
		status, body, _ := doRequest(t, app, http.MethodGet, path, "")
		assert.Equal(t, http.StatusInternalServerError, status, path)
		assert.Equal(t, "list employee: connection refused", body["message"], path)
	}

	status, _, _ := doRequest(t, app, http.MethodDelete, "/employees/abc", "")
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestListEmployees_EmptyIsArray(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newFakeEmployeeService())

	status, _, raw := doRequest(t, app, http.MethodGet, "/employees", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestUpdateEmployee(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newFakeEmployeeService())

	_, created, _ := doRequest(t, app, http.MethodPost, "/employees", aliceBody)
	id := created["id"].(string)

	replacement := `{"emp_name":"Alicia Stone","emp_email":"alicia@y.org","emp_salary":61000.5,"experience":4,"dept_code":"OPS","joining_date":"2023-06-01","secrete_code":"xyz"}`
	status, updated, _ := doRequest(t, app, http.MethodPut, "/employees/"+id, replacement)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, updated["id"])
	assert.Equal(t, "Alicia Stone", updated["emp_name"])
	assert.Equal(t, "61000.5", updated["emp_salary"])
	assert.Equal(t, "OPS", updated["dept_code"])
	assert.Equal(t, "2023-06-01", updated["joining_date"])
	assert.Equal(t, "xyz", updated["secrete_code"])

	status, body, _ := doRequest(t, app, http.MethodPut, "/employees/"+id, `{"emp_name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Len(t, body["errors"], 6)

	status, body, _ = doRequest(t, app, http.MethodPut, "/employees/missing", replacement)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Employee not found", body["message"])
}

func TestDeleteEmployee_Missing(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newFakeEmployeeService())

	status, body, _ := doRequest(t, app, http.MethodDelete, "/employees/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Employee not found", body["message"])
}

func TestSearchEmployees(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newFakeEmployeeService())
	doRequest(t, app, http.MethodPost, "/employees", aliceBody)

	for _, term := range []string{"alice", "Smith", "ice"} {
		status, _, raw := doRequest(t, app, http.MethodGet, "/employees/search/"+term, "")
		assert.Equal(t, http.StatusOK, status, term)

		var matches []map[string]any
		require.NoError(t, json.Unmarshal(raw, &matches))
		require.Len(t, matches, 1, term)
		assert.Equal(t, "Alice Smith", matches[0]["emp_name"])
	}

	status, body, _ := doRequest(t, app, http.MethodGet, "/employees/search/bob", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No employees found", body["message"])
}

func TestSearchEmployees_DecodesEscapedTerm(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newFakeEmployeeService())
	doRequest(t, app, http.MethodPost, "/employees", aliceBody)
	doRequest(t, app, http.MethodPost, "/employees",
		strings.Replace(aliceBody, "Alice Smith", "Zoë Müller", 1))

	for term, want := range map[string]string{
		"ice%20Sm":     "Alice Smith",
		"zo%C3%AB%20m": "Zoë Müller",
		"%C3%BCller":   "Zoë Müller",
	} {
		status, _, raw := doRequest(t, app, http.MethodGet, "/employees/search/"+term, "")
		require.Equal(t, http.StatusOK, status, term)

		var matches []map[string]any
		require.NoError(t, json.Unmarshal(raw, &matches))
		require.Len(t, matches, 1, term)
		assert.Equal(t, want, matches[0]["emp_name"], term)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	t.Parallel()

	svc := newFakeEmployeeService()
	svc.panics = true
	app, metrics := newTestApp(t, svc)

	status, body, _ := doRequest(t, app, http.MethodGet, "/employees", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body["message"])
	assert.Equal(t, int64(1), metrics.Snapshot().Errors["/employees|GET|INTERNAL_ERROR"])
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newFakeEmployeeService())

	status, body, _ := doRequest(t, app, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body["message"])
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newFakeEmployeeService())

	status, live, _ := doRequest(t, app, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", live["status"])

	status, ready, _ := doRequest(t, app, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", ready["status"])

	status, snap, _ := doRequest(t, app, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	requests, ok := snap["requests"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, requests["/health/live|GET|200"])
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newFakeEmployeeService())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
