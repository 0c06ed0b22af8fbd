package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Todo validation errors
var (
	// ErrTodoIDEmpty is returned when a todo ID is empty or nil.
	ErrTodoIDEmpty = errors.New("todo ID cannot be empty")

	// ErrTodoUserIDEmpty is returned when a todo's user ID is empty or nil.
	ErrTodoUserIDEmpty = errors.New("todo user ID cannot be empty")

	// ErrTodoTitleEmpty is returned when a todo's title is empty.
	ErrTodoTitleEmpty = errors.New("todo title cannot be empty")

	// ErrInvalidPriority is returned when a todo's priority is not a known value.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrNegativeTaskNumber is returned when a todo carries a negative task number.
	ErrNegativeTaskNumber = errors.New("task number cannot be negative")
)

// Priority indicates the relative importance of a todo.
type Priority string

// Known priorities. PriorityNone is the default for new todos.
const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Subtask is a checklist item belonging to a todo. Subtasks have no
// existence of their own; they are persisted as part of their parent.
type Subtask struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
}

// Todo represents a single task owned by a user.
//
// TaskNumber is the per-user, human-facing sequential integer ("#42")
// assigned exactly once at creation time; it is distinct from ID and never
// changes. OriginalID points at the first record of a recurrence chain so
// the whole chain can be traced back to its origin; a todo that starts a
// chain carries its own ID there.
type Todo struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	DueDate     string          `json:"due_date,omitempty"` // YYYY-MM-DD, empty if unscheduled
	DueTime     string          `json:"due_time,omitempty"` // HH:MM, empty if none
	IsCompleted bool            `json:"is_completed"`
	Flagged     bool            `json:"flagged"`
	Duration    int             `json:"duration,omitempty"` // estimated minutes, 0 if unset
	Priority    Priority        `json:"priority"`
	Tags        []string        `json:"tags,omitempty"`
	Subtasks    []Subtask       `json:"subtasks,omitempty"`
	Recurrence  *RecurrenceSpec `json:"recurrence,omitempty"`
	OriginalID  uuid.UUID       `json:"original_id"`
	TaskNumber  int             `json:"task_number,omitempty"` // 0 until assigned
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewTodo creates a new Todo with the given user ID and title.
// It generates a new UUID for the todo ID, points OriginalID at the todo
// itself, and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewTodo(userID uuid.UUID, title string) (*Todo, error) {
	id := uuid.New()
	todo := &Todo{
		ID:         id,
		UserID:     userID,
		Title:      title,
		Priority:   PriorityNone,
		OriginalID: id,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := todo.Validate(); err != nil {
		return nil, err
	}

	return todo, nil
}

// Validate checks if the Todo has valid data.
// Returns an error if any field fails validation.
func (t *Todo) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTodoIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTodoUserIDEmpty
	}

	if t.Title == "" {
		return ErrTodoTitleEmpty
	}

	switch t.Priority {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return ErrInvalidPriority
	}

	if t.DueDate != "" {
		if _, err := ParseDate(t.DueDate); err != nil {
			return err
		}
	}

	if t.TaskNumber < 0 {
		return ErrNegativeTaskNumber
	}

	if t.Recurrence != nil {
		if err := t.Recurrence.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Origin returns the ID that anchors this todo's recurrence chain:
// OriginalID when set, otherwise the todo's own ID.
func (t *Todo) Origin() uuid.UUID {
	if t.OriginalID != uuid.Nil {
		return t.OriginalID
	}
	return t.ID
}
