package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate of something that may exist only once.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState marks an operation that is not allowed in the entity's current state.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
