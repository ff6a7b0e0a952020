package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of joining_date.
const DateLayout = "2006-01-02"

var (
	// ErrEmployeeNotFound is returned when no record matches an id.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrNoEmployeesFound is returned when a name search matches nothing.
	ErrNoEmployeesFound = errors.New("no employees found")
	// ErrInvalidEmployeeID marks an id the store cannot address.
	ErrInvalidEmployeeID = errors.New("invalid employee id")
)

// Employee is the persisted employee record.
type Employee struct {
	ID          string
	Name        string
	Email       string
	Salary      decimal.Decimal
	Experience  int
	DeptCode    string
	JoiningDate time.Time
	SecreteCode string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EmployeeInput carries the seven client-supplied fields used by create and update.
type EmployeeInput struct {
	Name        string
	Email       string
	Salary      decimal.Decimal
	Experience  int
	DeptCode    string
	JoiningDate time.Time
	SecreteCode string
}

// StorageError wraps a failure reported by the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s employee: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err unless it is nil or already a StorageError.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err originated in the store.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
