package domain

import "errors"

// Domain errors (no external dependencies). Use cases return these, wrapped
// with fmt.Errorf("%w: ...") when the cause needs detail; handlers map them
// to HTTP status codes with errors.Is.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicate         = errors.New("duplicate resource")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("access denied")
	ErrConflict          = errors.New("conflict with current state")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidAssignment = errors.New("invalid assignment")
)
