package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rgareau/taskline/internal/domain"
)

// TagStore defines the interface for tag data persistence.
type TagStore interface {
	// Create saves a new tag to the store.
	// Returns ErrTagExists if the user already has a tag with the same name.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID retrieves a tag by its unique ID.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)

	// ListByUser retrieves all tags belonging to a user, ordered by name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error)

	// Update modifies an existing tag's name and color.
	// Returns ErrTagNotFound if the tag does not exist.
	// Returns ErrTagExists if renaming to a name the user already uses.
	Update(ctx context.Context, tag *domain.Tag) error

	// Delete removes a tag from the store by its ID.
	// Returns ErrTagNotFound if the tag does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TagStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TagStore
}
