package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rgareau/taskline/internal/api/shared"
	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/domain/recur"
	"github.com/rgareau/taskline/internal/platform/logger"
	"github.com/rgareau/taskline/internal/service"
)

// SubtaskPayload is the wire shape of a subtask in todo requests and responses.
type SubtaskPayload struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"        validate:"required,max=500"`
	IsCompleted bool   `json:"is_completed"`
}

// CreateTodoRequest defines the payload for creating a todo.
type CreateTodoRequest struct {
	Title       string                 `json:"title"                 validate:"required,max=500"`
	Description string                 `json:"description,omitempty" validate:"max=10000"`
	DueDate     string                 `json:"due_date,omitempty"`
	DueTime     string                 `json:"due_time,omitempty"`
	Flagged     bool                   `json:"flagged,omitempty"`
	Duration    int                    `json:"duration,omitempty"    validate:"min=0"`
	Priority    string                 `json:"priority,omitempty"    validate:"omitempty,oneof=none low medium high"`
	Tags        []string               `json:"tags,omitempty"`
	Subtasks    []SubtaskPayload       `json:"subtasks,omitempty"    validate:"dive"`
	Recurrence  *domain.RecurrenceSpec `json:"recurrence,omitempty"`
}

// UpdateTodoRequest defines the payload for a partial todo update.
// Absent fields are left unchanged; clear_recurrence removes the
// recurrence rule.
type UpdateTodoRequest struct {
	Title           *string                `json:"title,omitempty"            validate:"omitempty,max=500"`
	Description     *string                `json:"description,omitempty"      validate:"omitempty,max=10000"`
	DueDate         *string                `json:"due_date,omitempty"`
	DueTime         *string                `json:"due_time,omitempty"`
	Flagged         *bool                  `json:"flagged,omitempty"`
	Duration        *int                   `json:"duration,omitempty"         validate:"omitempty,min=0"`
	Priority        *string                `json:"priority,omitempty"         validate:"omitempty,oneof=none low medium high"`
	Tags            *[]string              `json:"tags,omitempty"`
	Subtasks        *[]SubtaskPayload      `json:"subtasks,omitempty"         validate:"omitempty,dive"`
	Recurrence      *domain.RecurrenceSpec `json:"recurrence,omitempty"`
	ClearRecurrence bool                   `json:"clear_recurrence,omitempty"`
}

// TodoResponse represents the response data for a todo.
type TodoResponse struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	DueDate     string                 `json:"due_date,omitempty"`
	DueTime     string                 `json:"due_time,omitempty"`
	IsCompleted bool                   `json:"is_completed"`
	Flagged     bool                   `json:"flagged"`
	Duration    int                    `json:"duration,omitempty"`
	Priority    string                 `json:"priority"`
	Tags        []string               `json:"tags,omitempty"`
	Subtasks    []SubtaskPayload       `json:"subtasks,omitempty"`
	Recurrence  *domain.RecurrenceSpec `json:"recurrence,omitempty"`
	// Repeats is the human-readable description of the recurrence rule,
	// e.g. "Daily" or "Mon, Wed, Fri".
	Repeats    string    `json:"repeats,omitempty"`
	OriginalID string    `json:"original_id"`
	TaskNumber int       `json:"task_number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToggleResponse represents the response for a completion toggle,
// including the next occurrence when completing a recurring todo spawned one.
type ToggleResponse struct {
	Todo      TodoResponse  `json:"todo"`
	Successor *TodoResponse `json:"successor,omitempty"`
}

// TodoHandler handles todo-related HTTP requests.
type TodoHandler struct {
	todoService service.TodoService
	logger      *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todoService service.TodoService, logger *slog.Logger) *TodoHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TodoHandler")
	}

	return &TodoHandler{
		todoService: todoService,
		logger:      logger.With(slog.String("component", "todo_handler")),
	}
}

// CreateTodo handles POST /todos requests. A request carrying a
// recurrence rule creates one todo per occurrence and returns the whole
// batch.
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateTodoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		DueTime:     req.DueTime,
		Flagged:     req.Flagged,
		Duration:    req.Duration,
		Priority:    domain.Priority(req.Priority),
		Tags:        req.Tags,
		Recurrence:  req.Recurrence,
	}
	for _, st := range req.Subtasks {
		input.Subtasks = append(input.Subtasks, service.SubtaskInput{Title: st.Title})
	}

	created, err := h.todoService.CreateTodo(r.Context(), userID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create todo")
		return
	}

	log.Debug("todos created",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(created)))

	responses := make([]TodoResponse, len(created))
	for i, todo := range created {
		responses[i] = todoToResponse(todo)
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, responses)
}

// ListTodos handles GET /todos requests.
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	todos, err := h.todoService.ListTodos(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list todos")
		return
	}

	responses := make([]TodoResponse, len(todos))
	for i, todo := range todos {
		responses[i] = todoToResponse(todo)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetTodo handles GET /todos/{id} requests.
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	todo, err := h.todoService.GetTodo(r.Context(), userID, todoID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve todo")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, todoToResponse(todo))
}

// UpdateTodo handles PUT /todos/{id} requests.
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req UpdateTodoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := service.UpdateTodoInput{
		Title:           req.Title,
		Description:     req.Description,
		DueDate:         req.DueDate,
		DueTime:         req.DueTime,
		Flagged:         req.Flagged,
		Duration:        req.Duration,
		Tags:            req.Tags,
		Recurrence:      req.Recurrence,
		ClearRecurrence: req.ClearRecurrence,
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		input.Priority = &priority
	}
	if req.Subtasks != nil {
		subtasks := make([]domain.Subtask, 0, len(*req.Subtasks))
		for _, st := range *req.Subtasks {
			subtasks = append(subtasks, subtaskFromPayload(st))
		}
		input.Subtasks = &subtasks
	}

	todo, err := h.todoService.UpdateTodo(r.Context(), userID, todoID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update todo")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, todoToResponse(todo))
}

// DeleteTodo handles DELETE /todos/{id} requests.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(r.Context(), userID, todoID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleCompletion handles POST /todos/{id}/toggle requests.
func (h *TodoHandler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, todoID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	result, err := h.todoService.ToggleCompletion(r.Context(), userID, todoID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to toggle todo completion")
		return
	}

	response := ToggleResponse{Todo: todoToResponse(result.Todo)}
	if result.Successor != nil {
		successor := todoToResponse(result.Successor)
		response.Successor = &successor
		log.Debug("successor created for recurring todo",
			slog.String("todo_id", todoID.String()),
			slog.String("successor_id", result.Successor.ID.String()))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// todoToResponse transforms a domain todo into its response shape.
func todoToResponse(todo *domain.Todo) TodoResponse {
	resp := TodoResponse{
		ID:          todo.ID.String(),
		Title:       todo.Title,
		Description: todo.Description,
		DueDate:     todo.DueDate,
		DueTime:     todo.DueTime,
		IsCompleted: todo.IsCompleted,
		Flagged:     todo.Flagged,
		Duration:    todo.Duration,
		Priority:    string(todo.Priority),
		Tags:        todo.Tags,
		Recurrence:  todo.Recurrence,
		OriginalID:  todo.OriginalID.String(),
		TaskNumber:  todo.TaskNumber,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
	if todo.Recurrence != nil {
		resp.Repeats = recur.Describe(todo.Recurrence)
	}
	for _, st := range todo.Subtasks {
		resp.Subtasks = append(resp.Subtasks, SubtaskPayload{
			ID:          st.ID.String(),
			Title:       st.Title,
			IsCompleted: st.IsCompleted,
		})
	}
	return resp
}

// subtaskFromPayload converts a wire subtask to its domain form. A
// payload without an ID gets a fresh one assigned by the service.
func subtaskFromPayload(st SubtaskPayload) domain.Subtask {
	return domain.Subtask{
		ID:          parseUUIDOrNil(st.ID),
		Title:       st.Title,
		IsCompleted: st.IsCompleted,
	}
}
