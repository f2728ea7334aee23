package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors. Fields carries per-field
// validation messages; Details carries a diagnostic string that is only
// exposed outside production.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Fields     map[string]string
	Details    string
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationError reports every failing field at once.
func NewValidationError(fields map[string]string) error {
	return &DomainError{
		Code:       "VALIDATION_FAILED",
		Message:    "Validation failed",
		HTTPStatus: http.StatusBadRequest,
		Fields:     fields,
	}
}

// NewBadRequest reports a malformed request without field granularity.
func NewBadRequest(message string) error {
	return &DomainError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewDuplicate reports a uniqueness conflict on email.
func NewDuplicate(message string) error {
	return &DomainError{
		Code:       "DUPLICATE_EMAIL",
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDatabaseError reports a connection or write failure, fatal to the
// current request.
func NewDatabaseError(err error) error {
	return &DomainError{
		Code:       "DATABASE_ERROR",
		Message:    "Database error",
		HTTPStatus: http.StatusInternalServerError,
		Details:    errDetail(err),
		Err:        err,
	}
}

// NewInternalError reports an unexpected failure.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "Failed to process request",
		HTTPStatus: http.StatusInternalServerError,
		Details:    errDetail(err),
		Err:        err,
	}
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
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "Failed to process request",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
