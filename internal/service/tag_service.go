package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/store"
)

// TagService provides tag operations scoped to their owning user.
// Tags belonging to other users are treated as not found.
type TagService interface {
	// CreateTag creates a new tag for the user.
	CreateTag(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Tag, error)

	// ListTags retrieves all of the user's tags.
	ListTags(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error)

	// UpdateTag renames or recolors one of the user's tags.
	UpdateTag(ctx context.Context, userID, tagID uuid.UUID, name, color string) (*domain.Tag, error)

	// DeleteTag removes one of the user's tags.
	DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error
}

// TagServiceImpl implements the TagService interface.
type TagServiceImpl struct {
	tagStore store.TagStore
	db       *sql.DB
	logger   *slog.Logger
}

// NewTagService creates a new TagService.
func NewTagService(tagStore store.TagStore, db *sql.DB, logger *slog.Logger) TagService {
	return &TagServiceImpl{
		tagStore: tagStore,
		db:       db,
		logger:   logger.With("component", "tag_service"),
	}
}

// CreateTag creates a new tag for the user.
func (s *TagServiceImpl) CreateTag(
	ctx context.Context,
	userID uuid.UUID,
	name, color string,
) (*domain.Tag, error) {
	tag, err := domain.NewTag(userID, name, color)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.tagStore.WithTx(tx).Create(ctx, tag)
	})

	if err != nil {
		if errors.Is(err, store.ErrTagExists) {
			s.logger.Debug("attempted to create duplicate tag",
				"user_id", userID,
				"name", name)
		} else {
			s.logger.Error("failed to create tag",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.logger.Info("tag created successfully",
		"tag_id", tag.ID,
		"user_id", userID)

	return tag, nil
}

// ListTags retrieves all of the user's tags.
func (s *TagServiceImpl) ListTags(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	tags, err := s.tagStore.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list tags",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// UpdateTag renames or recolors one of the user's tags.
func (s *TagServiceImpl) UpdateTag(
	ctx context.Context,
	userID, tagID uuid.UUID,
	name, color string,
) (*domain.Tag, error) {
	var updated *domain.Tag

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.tagStore.WithTx(tx)

		tag, err := txStore.GetByID(ctx, tagID)
		if err != nil {
			return err
		}
		if tag.UserID != userID {
			return store.ErrTagNotFound
		}

		tag.Name = name
		tag.Color = color

		if err := txStore.Update(ctx, tag); err != nil {
			return err
		}
		updated = tag
		return nil
	})

	if err != nil {
		if !errors.Is(err, store.ErrTagNotFound) && !errors.Is(err, store.ErrTagExists) {
			s.logger.Error("failed to update tag",
				"error", err,
				"tag_id", tagID)
		}
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	return updated, nil
}

// DeleteTag removes one of the user's tags.
func (s *TagServiceImpl) DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.tagStore.WithTx(tx)

		tag, err := txStore.GetByID(ctx, tagID)
		if err != nil {
			return err
		}
		if tag.UserID != userID {
			return store.ErrTagNotFound
		}

		return txStore.Delete(ctx, tagID)
	})

	if err != nil {
		if !errors.Is(err, store.ErrTagNotFound) {
			s.logger.Error("failed to delete tag",
				"error", err,
				"tag_id", tagID)
		}
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	s.logger.Info("tag deleted successfully", "tag_id", tagID)
	return nil
}
