package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/persistence"
)

// EmployeeRepository encapsulates employee persistence.
type EmployeeRepository interface {
	Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	Update(ctx context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
	SearchByName(ctx context.Context, term string) ([]domain.Employee, error)
}

const employeeColumns = `id::text, emp_name, emp_email, emp_salary::text, experience, dept_code,
               joining_date, secrete_code, created_at, updated_at`

type employeeRepository struct {
	db persistence.Queryer
}

// NewEmployeeRepository instantiates repository.
func NewEmployeeRepository(db persistence.Queryer) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	const query = `
        INSERT INTO employees (emp_name, emp_email, emp_salary, experience, dept_code, joining_date, secrete_code)
        VALUES ($1,$2,$3::numeric,$4,$5,$6,$7)
        RETURNING ` + employeeColumns
	row := r.db.QueryRow(ctx, query,
		in.Name,
		in.Email,
		in.Salary.String(),
		in.Experience,
		in.DeptCode,
		in.JoiningDate,
		in.SecreteCode,
	)
	emp, err := scanEmployee(row)
	if err != nil {
		return nil, domain.NewStorageError("create", err)
	}
	return emp, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	const query = `
        SELECT ` + employeeColumns + `
        FROM employees`
	return r.fetchMany(ctx, "list", query)
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	if err := checkID(id); err != nil {
		return nil, domain.NewStorageError("find", err)
	}
	const query = `
        SELECT ` + employeeColumns + `
        FROM employees WHERE id=$1`
	emp, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, domain.NewStorageError("find", err)
	}
	return emp, nil
}

func (r *employeeRepository) Update(ctx context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error) {
	if err := checkID(id); err != nil {
		return nil, domain.NewStorageError("update", err)
	}
	const query = `
        UPDATE employees SET emp_name=$1, emp_email=$2, emp_salary=$3::numeric, experience=$4,
            dept_code=$5, joining_date=$6, secrete_code=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING ` + employeeColumns
	row := r.db.QueryRow(ctx, query,
		in.Name,
		in.Email,
		in.Salary.String(),
		in.Experience,
		in.DeptCode,
		in.JoiningDate,
		in.SecreteCode,
		id,
	)
	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, domain.NewStorageError("update", err)
	}
	return emp, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return domain.NewStorageError("delete", err)
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return domain.NewStorageError("delete", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) SearchByName(ctx context.Context, term string) ([]domain.Employee, error) {
	const query = `
        SELECT ` + employeeColumns + `
        FROM employees WHERE emp_name ILIKE '%' || $1 || '%'`
	return r.fetchMany(ctx, "search", query, escapeLike(term))
}

func (r *employeeRepository) fetchMany(ctx context.Context, op, query string, args ...any) ([]domain.Employee, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	defer rows.Close()

	result := make([]domain.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, domain.NewStorageError(op, err)
		}
		result = append(result, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	return result, nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var (
		emp    domain.Employee
		salary string
	)
	if err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Email,
		&salary,
		&emp.Experience,
		&emp.DeptCode,
		&emp.JoiningDate,
		&emp.SecreteCode,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(salary)
	if err != nil {
		return nil, err
	}
	emp.Salary = parsed
	return &emp, nil
}

// checkID rejects ids the store could never address.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidEmployeeID, id)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside an ILIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
