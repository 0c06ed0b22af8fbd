package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rgareau/taskline/internal/domain"
)

// TodoStore defines the interface for todo data persistence.
type TodoStore interface {
	// Create saves a new todo to the store. The todo must be valid
	// according to domain validation rules, and must already carry its
	// assigned task number.
	// Returns ErrDuplicateTaskNumber if the (user, task number) pair is
	// already taken; callers allocating numbers retry on that error.
	// Returns ErrInvalidEntity if the user does not exist.
	Create(ctx context.Context, todo *domain.Todo) error

	// GetByID retrieves a todo by its unique ID.
	// Returns ErrTodoNotFound if the todo does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error)

	// ListByUser retrieves all todos belonging to a user, ordered by due
	// date ascending with unscheduled todos last.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Todo, error)

	// Update modifies an existing todo. The task number is immutable and
	// is never written by this method.
	// Returns ErrTodoNotFound if the todo does not exist.
	Update(ctx context.Context, todo *domain.Todo) error

	// Delete removes a todo from the store by its ID.
	// Returns ErrTodoNotFound if the todo does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// MaxTaskNumber returns the maximum task number ever assigned to the
	// user's todos, or 0 if the user has none. This is the single
	// capability the task sequencer requires; callers must invoke it under
	// the serialization the chosen allocation scheme provides.
	MaxTaskNumber(ctx context.Context, userID uuid.UUID) (int, error)

	// WithTx returns a new TodoStore instance that uses the provided
	// transaction. This allows multiple operations to be executed within a
	// single transaction. The transaction is created and managed by the
	// caller (typically a service via RunInTransaction).
	WithTx(tx *sql.Tx) TodoStore
}
