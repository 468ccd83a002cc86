package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// StatusClientClosedRequest is reported when the caller went away before the
// request completed. It has no net/http constant.
const StatusClientClosedRequest = 499

// Common error types that can be used across the application
var (
	ErrNotFound        = new(ErrCodeNotFound, "resource not found")
	ErrValidation      = new(ErrCodeValidation, "validation error")
	ErrInvalidState    = new(ErrCodeInvalidState, "invalid state")
	ErrExternalService = new(ErrCodeExternalService, "external service error")
	ErrTimeout         = new(ErrCodeTimeout, "timeout")
	ErrCanceled        = new(ErrCodeCanceled, "request canceled")
	ErrHTTPClient      = new(ErrCodeHTTPClient, "http client error")
	ErrDatabase        = new(ErrCodeDatabase, "database error")
	ErrSystem          = new(ErrCodeSystemError, "system error")

	// statusPrecedence maps errors to http status codes. An error may carry
	// more than one mark, the first match wins.
	statusPrecedence = []struct {
		err    error
		status int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrInvalidState, http.StatusConflict},
		{ErrTimeout, http.StatusGatewayTimeout},
		{ErrCanceled, StatusClientClosedRequest},
		{ErrExternalService, http.StatusBadGateway},
		{ErrHTTPClient, http.StatusBadGateway},
		{ErrDatabase, http.StatusInternalServerError},
		{ErrSystem, http.StatusInternalServerError},
	}
)

const (
	ErrCodeHTTPClient      = "http_client_error"
	ErrCodeSystemError     = "system_error"
	ErrCodeNotFound        = "not_found"
	ErrCodeValidation      = "validation_error"
	ErrCodeInvalidState    = "invalid_state"
	ErrCodeExternalService = "external_service_error"
	ErrCodeTimeout         = "timeout"
	ErrCodeCanceled        = "request_canceled"
	ErrCodeDatabase        = "database_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

// New creates a new InternalError for packages that need their own typed
// error on top of a sentinel code.
func New(code string, message string) *InternalError {
	return new(code, message)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidState checks if an error is an invalid state error
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsExternalService checks if an error came from a failed upstream call
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService)
}

// IsTimeout checks if an error is a bounded-wait timeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a caller cancellation
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// IsDatabase checks if an error is a database error
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

func HTTPStatusFromErr(err error) int {
	for _, p := range statusPrecedence {
		if errors.Is(err, p.err) {
			return p.status
		}
	}
	return http.StatusInternalServerError
}
