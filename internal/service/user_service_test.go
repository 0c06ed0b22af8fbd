package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/service"
	"github.com/rgareau/taskline/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memUserStore is an in-memory store.UserStore for service tests.
type memUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *memUserStore) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *memUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, existing := range s.users {
		if id != user.ID && existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *memUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return s
}

func TestCreateUser(t *testing.T) {
	userStore := newMemUserStore()
	svc := service.NewUserService(userStore, newTestDB(), newTestLogger())

	user, err := svc.CreateUser(context.Background(), "alice@example.com", "a-long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, uuid.Nil, user.ID)

	_, err = svc.CreateUser(context.Background(), "alice@example.com", "another-long-password")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestGetUser(t *testing.T) {
	userStore := newMemUserStore()
	svc := service.NewUserService(userStore, newTestDB(), newTestLogger())

	created, err := svc.CreateUser(context.Background(), "bob@example.com", "a-long-enough-password")
	require.NoError(t, err)

	fetched, err := svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "bob@example.com", fetched.Email)

	_, err = svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUpdateUserEmail(t *testing.T) {
	userStore := newMemUserStore()
	svc := service.NewUserService(userStore, newTestDB(), newTestLogger())

	created, err := svc.CreateUser(context.Background(), "carol@example.com", "a-long-enough-password")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateUserEmail(context.Background(), created.ID, "carol@new.example.com"))

	fetched, err := svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol@new.example.com", fetched.Email)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	userStore := newMemUserStore()
	svc := service.NewUserService(userStore, newTestDB(), newTestLogger())

	_, err := svc.CreateUser(context.Background(), "taken@example.com", "a-long-enough-password")
	require.NoError(t, err)
	second, err := svc.CreateUser(context.Background(), "free@example.com", "a-long-enough-password")
	require.NoError(t, err)

	err = svc.UpdateUserEmail(context.Background(), second.ID, "taken@example.com")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestDeleteUser(t *testing.T) {
	userStore := newMemUserStore()
	svc := service.NewUserService(userStore, newTestDB(), newTestLogger())

	created, err := svc.CreateUser(context.Background(), "dave@example.com", "a-long-enough-password")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))

	_, err = svc.GetUser(context.Background(), created.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	err = svc.DeleteUser(context.Background(), created.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
