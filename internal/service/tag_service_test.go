package service_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/service"
	"github.com/rgareau/taskline/internal/store"
)

// memTagStore is an in-memory store.TagStore enforcing per-user name
// uniqueness like the database index would.
type memTagStore struct {
	mu   sync.Mutex
	tags map[uuid.UUID]*domain.Tag
}

func newMemTagStore() *memTagStore {
	return &memTagStore{tags: make(map[uuid.UUID]*domain.Tag)}
}

func (m *memTagStore) Create(_ context.Context, tag *domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.tags {
		if existing.UserID == tag.UserID && existing.Name == tag.Name {
			return store.ErrTagExists
		}
	}
	copied := *tag
	m.tags[tag.ID] = &copied
	return nil
}

func (m *memTagStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tag, ok := m.tags[id]
	if !ok {
		return nil, store.ErrTagNotFound
	}
	copied := *tag
	return &copied, nil
}

func (m *memTagStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Tag
	for _, tag := range m.tags {
		if tag.UserID == userID {
			copied := *tag
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memTagStore) Update(_ context.Context, tag *domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tags[tag.ID]; !ok {
		return store.ErrTagNotFound
	}
	for _, existing := range m.tags {
		if existing.ID != tag.ID && existing.UserID == tag.UserID && existing.Name == tag.Name {
			return store.ErrTagExists
		}
	}
	copied := *tag
	m.tags[tag.ID] = &copied
	return nil
}

func (m *memTagStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tags[id]; !ok {
		return store.ErrTagNotFound
	}
	delete(m.tags, id)
	return nil
}

func (m *memTagStore) WithTx(_ *sql.Tx) store.TagStore { return m }

func newTagService(tagStore store.TagStore) service.TagService {
	return service.NewTagService(tagStore, newTestDB(), newTestLogger())
}

func TestCreateTag(t *testing.T) {
	ctx := context.Background()
	svc := newTagService(newMemTagStore())
	userID := uuid.New()

	tag, err := svc.CreateTag(ctx, userID, "work", "#ff0000")
	require.NoError(t, err)
	assert.Equal(t, "work", tag.Name)
	assert.Equal(t, "#ff0000", tag.Color)
	assert.Equal(t, userID, tag.UserID)
}

func TestCreateTagDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc := newTagService(newMemTagStore())
	userID := uuid.New()

	_, err := svc.CreateTag(ctx, userID, "work", "")
	require.NoError(t, err)

	_, err = svc.CreateTag(ctx, userID, "work", "#00ff00")
	assert.ErrorIs(t, err, store.ErrTagExists)

	// A different user is free to use the same name.
	_, err = svc.CreateTag(ctx, uuid.New(), "work", "")
	assert.NoError(t, err)
}

func TestUpdateTagOwnership(t *testing.T) {
	ctx := context.Background()
	svc := newTagService(newMemTagStore())
	owner := uuid.New()

	tag, err := svc.CreateTag(ctx, owner, "home", "")
	require.NoError(t, err)

	_, err = svc.UpdateTag(ctx, uuid.New(), tag.ID, "stolen", "")
	assert.ErrorIs(t, err, store.ErrTagNotFound)

	updated, err := svc.UpdateTag(ctx, owner, tag.ID, "house", "#0000ff")
	require.NoError(t, err)
	assert.Equal(t, "house", updated.Name)
	assert.Equal(t, "#0000ff", updated.Color)
}

func TestDeleteTagOwnership(t *testing.T) {
	ctx := context.Background()
	tagStore := newMemTagStore()
	svc := newTagService(tagStore)
	owner := uuid.New()

	tag, err := svc.CreateTag(ctx, owner, "errands", "")
	require.NoError(t, err)

	err = svc.DeleteTag(ctx, uuid.New(), tag.ID)
	assert.ErrorIs(t, err, store.ErrTagNotFound)

	require.NoError(t, svc.DeleteTag(ctx, owner, tag.ID))

	tags, err := svc.ListTags(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, tags)
}
