package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/store"
)

// MockUserStore is an in-memory store.UserStore keyed by email. It enforces
// email uniqueness the way the real store's unique index does, which is all
// the auth handler tests need.
type MockUserStore struct {
	Users map[string]*domain.User
}

// NewMockUserStore returns an empty mock store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{Users: make(map[string]*domain.User)}
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}
	m.Users[user.Email] = user
	return nil
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.Users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	for email, existing := range m.Users {
		if existing.ID != user.ID {
			continue
		}
		if email != user.Email {
			if _, taken := m.Users[user.Email]; taken {
				return store.ErrEmailExists
			}
			delete(m.Users, email)
		}
		m.Users[user.Email] = user
		return nil
	}
	return store.ErrUserNotFound
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	for email, user := range m.Users {
		if user.ID == id {
			delete(m.Users, email)
			return nil
		}
	}
	return store.ErrUserNotFound
}

// WithTx returns the mock itself; there is no transaction to bind.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
