package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/standup-api/internal/store"
)

// Sentinel errors returned by services. The API layer maps them to status
// codes with errors.Is.
var (
	// ErrNotOwned indicates a resource is owned by a different user than
	// the one making the request.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrCardExists indicates the user already has a card for the date.
	ErrCardExists = store.ErrCardExists

	// ErrInvalidDateRange indicates a list filter whose start is after its end.
	ErrInvalidDateRange = errors.New("date range start is after its end")
)

// ServiceError carries the failing service and operation around an
// underlying error.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}
