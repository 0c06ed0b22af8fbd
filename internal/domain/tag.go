package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Tag validation errors
var (
	ErrTagIDEmpty     = errors.New("tag ID cannot be empty")
	ErrTagUserIDEmpty = errors.New("tag user ID cannot be empty")
	ErrTagNameEmpty   = errors.New("tag name cannot be empty")
)

// Tag is a user-defined label that can be attached to todos.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTag creates a new Tag for the given user.
// Returns an error if validation fails.
func NewTag(userID uuid.UUID, name, color string) (*Tag, error) {
	tag := &Tag{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, nil
}

// Validate checks if the Tag has valid data.
func (t *Tag) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTagIDEmpty
	}
	if t.UserID == uuid.Nil {
		return ErrTagUserIDEmpty
	}
	if t.Name == "" {
		return ErrTagNameEmpty
	}
	return nil
}
