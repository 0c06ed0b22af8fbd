package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgareau/taskline/internal/api"
	"github.com/rgareau/taskline/internal/api/shared"
	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/store"
)

// fakeTagService implements service.TagService with canned responses.
type fakeTagService struct {
	tag  *domain.Tag
	tags []*domain.Tag
	err  error
}

func (f *fakeTagService) CreateTag(_ context.Context, userID uuid.UUID, name, color string) (*domain.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Tag{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeTagService) ListTags(_ context.Context, _ uuid.UUID) ([]*domain.Tag, error) {
	return f.tags, f.err
}

func (f *fakeTagService) UpdateTag(_ context.Context, _, _ uuid.UUID, _, _ string) (*domain.Tag, error) {
	return f.tag, f.err
}

func (f *fakeTagService) DeleteTag(_ context.Context, _, _ uuid.UUID) error {
	return f.err
}

func tagRouter(svc *fakeTagService, userID uuid.UUID) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := api.NewTagHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/tags", handler.CreateTag)
	r.Get("/tags", handler.ListTags)
	r.Put("/tags/{id}", handler.UpdateTag)
	r.Delete("/tags/{id}", handler.DeleteTag)
	return r
}

func TestCreateTagHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		router := tagRouter(&fakeTagService{}, userID)

		recorder := doJSON(t, router, http.MethodPost, "/tags", map[string]string{
			"name":  "work",
			"color": "#ff0000",
		})

		require.Equal(t, http.StatusCreated, recorder.Code)

		var resp api.TagResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, "work", resp.Name)
		assert.Equal(t, "#ff0000", resp.Color)
	})

	t.Run("duplicate name", func(t *testing.T) {
		router := tagRouter(&fakeTagService{err: store.ErrTagExists}, userID)

		recorder := doJSON(t, router, http.MethodPost, "/tags", map[string]string{
			"name": "work",
		})
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("invalid color", func(t *testing.T) {
		router := tagRouter(&fakeTagService{}, userID)

		recorder := doJSON(t, router, http.MethodPost, "/tags", map[string]string{
			"name":  "work",
			"color": "reddish",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestListTagsHandler(t *testing.T) {
	userID := uuid.New()
	router := tagRouter(&fakeTagService{tags: []*domain.Tag{
		{ID: uuid.New(), UserID: userID, Name: "home"},
		{ID: uuid.New(), UserID: userID, Name: "work"},
	}}, userID)

	recorder := doJSON(t, router, http.MethodGet, "/tags", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp []api.TagResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestDeleteTagHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		router := tagRouter(&fakeTagService{}, userID)

		recorder := doJSON(t, router, http.MethodDelete, "/tags/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})

	t.Run("not found", func(t *testing.T) {
		router := tagRouter(&fakeTagService{err: store.ErrTagNotFound}, userID)

		recorder := doJSON(t, router, http.MethodDelete, "/tags/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
