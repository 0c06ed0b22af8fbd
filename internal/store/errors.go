package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by store implementations. Entity-specific errors
// wrap the generic ones, so errors.Is(err, ErrNotFound) matches any missing
// entity while errors.Is(err, ErrTodoNotFound) matches only todos.
var (
	// ErrNotFound is the base error for any missing entity.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is the base error for unique constraint conflicts.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or references a row that no longer exists.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTodoNotFound indicates the requested todo does not exist.
	ErrTodoNotFound = fmt.Errorf("%w: todo", ErrNotFound)

	// ErrTagNotFound indicates the requested tag does not exist.
	ErrTagNotFound = fmt.Errorf("%w: tag", ErrNotFound)

	// ErrEmailExists indicates another user already has this email.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrTagExists indicates the user already has a tag with this name.
	ErrTagExists = fmt.Errorf("%w: tag name", ErrDuplicate)

	// ErrDuplicateTaskNumber indicates a todo insert collided with an
	// existing (user, task number) pair. The task sequencer treats this as
	// a signal to re-read the user's maximum and retry the allocation.
	ErrDuplicateTaskNumber = fmt.Errorf("%w: task number", ErrDuplicate)
)

// IsNotFoundError reports whether err is ErrNotFound or wraps it.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is ErrDuplicate or wraps it.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
