package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rgareau/taskline/internal/domain"
)

// UserStore persists user accounts.
type UserStore interface {
	// Create validates the user, hashes any plaintext password, and inserts
	// the row. Returns ErrEmailExists when the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns the user with the given ID, or ErrUserNotFound.
	// The plaintext Password field is never populated on reads.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail returns the user with the given email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update writes the full user row. The caller provides a complete user,
	// HashedPassword included; a non-empty plaintext Password is re-hashed
	// first. Returns ErrUserNotFound or ErrEmailExists as appropriate.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes the user. The database cascade removes their todos and
	// tags. Returns ErrUserNotFound if no row matched.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to tx. The caller owns the
	// transaction lifecycle.
	WithTx(tx *sql.Tx) UserStore
}
