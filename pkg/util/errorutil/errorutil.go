package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeBadRequest       = "BAD_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeInternal         = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	// Violations holds the field-level failures of a validation error.
	Violations any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, err error) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// NewValidationError reports a rejected payload together with every violation.
func NewValidationError(violations any) error {
	return &DomainError{
		Code:       CodeValidationFailed,
		Message:    "validation failed",
		HTTPStatus: http.StatusBadRequest,
		Violations: violations,
	}
}

func NewBadRequest(message string, err error) error {
	return NewDomainError(CodeBadRequest, message, http.StatusBadRequest, err)
}

func NewNotFound(message string, err error) error {
	return NewDomainError(CodeNotFound, message, http.StatusNotFound, err)
}

// NewInternalError surfaces err's text to the client. A nil err yields the
// generic "internal server error" message.
func NewInternalError(err error) error {
	message := "internal server error"
	if err != nil {
		message = err.Error()
	}
	return NewDomainError(CodeInternal, message, http.StatusInternalServerError, err)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// CodeForStatus picks the error code matching a bare HTTP status.
func CodeForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return CodeNotFound
	case status >= 500:
		return CodeInternal
	default:
		return CodeBadRequest
	}
}
