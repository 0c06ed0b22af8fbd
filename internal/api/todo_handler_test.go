package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgareau/taskline/internal/api"
	"github.com/rgareau/taskline/internal/api/shared"
	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/service"
	"github.com/rgareau/taskline/internal/store"
)

// fakeTodoService implements service.TodoService with canned responses.
type fakeTodoService struct {
	created      []*domain.Todo
	createErr    error
	todo         *domain.Todo
	todos        []*domain.Todo
	err          error
	toggleResult *service.ToggleResult

	lastUserID uuid.UUID
	lastInput  service.CreateTodoInput
}

func (f *fakeTodoService) CreateTodo(
	_ context.Context,
	userID uuid.UUID,
	input service.CreateTodoInput,
) ([]*domain.Todo, error) {
	f.lastUserID = userID
	f.lastInput = input
	return f.created, f.createErr
}

func (f *fakeTodoService) GetTodo(_ context.Context, userID, _ uuid.UUID) (*domain.Todo, error) {
	f.lastUserID = userID
	return f.todo, f.err
}

func (f *fakeTodoService) ListTodos(_ context.Context, userID uuid.UUID) ([]*domain.Todo, error) {
	f.lastUserID = userID
	return f.todos, f.err
}

func (f *fakeTodoService) UpdateTodo(
	_ context.Context,
	userID, _ uuid.UUID,
	_ service.UpdateTodoInput,
) (*domain.Todo, error) {
	f.lastUserID = userID
	return f.todo, f.err
}

func (f *fakeTodoService) DeleteTodo(_ context.Context, userID, _ uuid.UUID) error {
	f.lastUserID = userID
	return f.err
}

func (f *fakeTodoService) ToggleCompletion(
	_ context.Context,
	userID, _ uuid.UUID,
) (*service.ToggleResult, error) {
	f.lastUserID = userID
	return f.toggleResult, f.err
}

func testTodo(userID uuid.UUID, taskNumber int) *domain.Todo {
	id := uuid.New()
	return &domain.Todo{
		ID:         id,
		UserID:     userID,
		Title:      "Water plants",
		DueDate:    "2025-12-01",
		Priority:   domain.PriorityNone,
		OriginalID: id,
		TaskNumber: taskNumber,
	}
}

// todoRouter mounts the handler on a chi router so URL parameters are
// populated, with userID injected the way the auth middleware would.
func todoRouter(svc service.TodoService, userID uuid.UUID) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := api.NewTodoHandler(svc, logger)

	r := chi.NewRouter()
	if userID != uuid.Nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
	}
	r.Post("/todos", handler.CreateTodo)
	r.Get("/todos", handler.ListTodos)
	r.Get("/todos/{id}", handler.GetTodo)
	r.Put("/todos/{id}", handler.UpdateTodo)
	r.Delete("/todos/{id}", handler.DeleteTodo)
	r.Post("/todos/{id}/toggle", handler.ToggleCompletion)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateTodoHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("single todo", func(t *testing.T) {
		svc := &fakeTodoService{created: []*domain.Todo{testTodo(userID, 1)}}
		router := todoRouter(svc, userID)

		recorder := doJSON(t, router, http.MethodPost, "/todos", map[string]interface{}{
			"title":    "Water plants",
			"due_date": "2025-12-01",
		})

		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, userID, svc.lastUserID)
		assert.Equal(t, "Water plants", svc.lastInput.Title)

		var resp []api.TodoResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, 1, resp[0].TaskNumber)
	})

	t.Run("recurring batch includes description", func(t *testing.T) {
		spec := &domain.RecurrenceSpec{
			Mode:      domain.ModeDaily,
			StartDate: "2025-12-01",
			EndDate:   "2025-12-02",
		}
		first := testTodo(userID, 1)
		second := testTodo(userID, 2)
		first.Recurrence = spec
		second.Recurrence = spec
		svc := &fakeTodoService{created: []*domain.Todo{first, second}}
		router := todoRouter(svc, userID)

		recorder := doJSON(t, router, http.MethodPost, "/todos", map[string]interface{}{
			"title":      "Standup",
			"recurrence": spec,
		})

		require.Equal(t, http.StatusCreated, recorder.Code)

		var resp []api.TodoResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "Daily", resp[0].Repeats)
	})

	t.Run("missing title", func(t *testing.T) {
		router := todoRouter(&fakeTodoService{}, userID)

		recorder := doJSON(t, router, http.MethodPost, "/todos", map[string]interface{}{
			"due_date": "2025-12-01",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router := todoRouter(&fakeTodoService{}, uuid.Nil)

		recorder := doJSON(t, router, http.MethodPost, "/todos", map[string]interface{}{
			"title": "Water plants",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestGetTodoHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		todo := testTodo(userID, 7)
		router := todoRouter(&fakeTodoService{todo: todo}, userID)

		recorder := doJSON(t, router, http.MethodGet, "/todos/"+todo.ID.String(), nil)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp api.TodoResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, todo.ID.String(), resp.ID)
		assert.Equal(t, 7, resp.TaskNumber)
	})

	t.Run("not found", func(t *testing.T) {
		router := todoRouter(&fakeTodoService{err: store.ErrTodoNotFound}, userID)

		recorder := doJSON(t, router, http.MethodGet, "/todos/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, "Todo not found", resp.Error)
	})

	t.Run("malformed id", func(t *testing.T) {
		router := todoRouter(&fakeTodoService{}, userID)

		recorder := doJSON(t, router, http.MethodGet, "/todos/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestDeleteTodoHandler(t *testing.T) {
	userID := uuid.New()
	router := todoRouter(&fakeTodoService{}, userID)

	recorder := doJSON(t, router, http.MethodDelete, "/todos/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestToggleCompletionHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("with successor", func(t *testing.T) {
		parent := testTodo(userID, 1)
		parent.IsCompleted = true
		successor := testTodo(userID, 2)
		successor.DueDate = "2025-12-02"
		router := todoRouter(&fakeTodoService{
			toggleResult: &service.ToggleResult{Todo: parent, Successor: successor},
		}, userID)

		recorder := doJSON(t, router, http.MethodPost, "/todos/"+parent.ID.String()+"/toggle", nil)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp api.ToggleResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Todo.IsCompleted)
		require.NotNil(t, resp.Successor)
		assert.Equal(t, "2025-12-02", resp.Successor.DueDate)
	})

	t.Run("without successor", func(t *testing.T) {
		todo := testTodo(userID, 1)
		todo.IsCompleted = true
		router := todoRouter(&fakeTodoService{
			toggleResult: &service.ToggleResult{Todo: todo},
		}, userID)

		recorder := doJSON(t, router, http.MethodPost, "/todos/"+todo.ID.String()+"/toggle", nil)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp api.ToggleResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Nil(t, resp.Successor)
	})
}
