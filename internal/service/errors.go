package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/aiplanner/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is; the API layer maps them to status codes.
var (
	// ErrTaskNotFound indicates the task is absent or owned by another user.
	// The two cases are deliberately indistinguishable to the caller.
	ErrTaskNotFound = fmt.Errorf("%w: no such task for this user", store.ErrTaskNotFound)

	// ErrInvalidCredentials indicates a login with an unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ServiceError is a custom error type for unexpected service failures.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
