package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/domain/recur"
	"github.com/rgareau/taskline/internal/service/sequence"
	"github.com/rgareau/taskline/internal/store"
)

// SubtaskInput describes a checklist item supplied at todo creation.
type SubtaskInput struct {
	Title string
}

// CreateTodoInput carries the caller-supplied fields for a new todo.
// A recurrence spec turns the creation into a batch: one record per
// occurrence the spec expands to.
type CreateTodoInput struct {
	Title       string
	Description string
	DueDate     string // YYYY-MM-DD, empty if unscheduled
	DueTime     string // HH:MM, empty if none
	Flagged     bool
	Duration    int
	Priority    domain.Priority
	Tags        []string
	Subtasks    []SubtaskInput
	Recurrence  *domain.RecurrenceSpec
}

// UpdateTodoInput carries a partial update; nil fields are left unchanged.
// ClearRecurrence removes the recurrence spec regardless of Recurrence.
type UpdateTodoInput struct {
	Title           *string
	Description     *string
	DueDate         *string
	DueTime         *string
	Flagged         *bool
	Duration        *int
	Priority        *domain.Priority
	Tags            *[]string
	Subtasks        *[]domain.Subtask
	Recurrence      *domain.RecurrenceSpec
	ClearRecurrence bool
}

// ToggleResult reports the outcome of a completion toggle. Successor is
// non-nil only when completing a recurring todo spawned the next
// occurrence in the chain.
type ToggleResult struct {
	Todo      *domain.Todo
	Successor *domain.Todo
}

// TodoService provides todo operations scoped to their owning user.
// Every method takes the acting user's ID and treats todos belonging to
// anyone else as not found, so existence of foreign todos never leaks.
type TodoService interface {
	// CreateTodo creates one todo, or a batch of todos when the input
	// carries a recurrence spec: the spec is expanded to its occurrence
	// dates and one record is created per date, each with its own
	// sequential task number, all inside a single transaction. An invalid
	// recurrence spec degrades the creation to a single non-recurring
	// todo; a task number allocation failure fails the whole creation.
	CreateTodo(ctx context.Context, userID uuid.UUID, input CreateTodoInput) ([]*domain.Todo, error)

	// GetTodo retrieves one of the user's todos by ID.
	GetTodo(ctx context.Context, userID, todoID uuid.UUID) (*domain.Todo, error)

	// ListTodos retrieves all of the user's todos.
	ListTodos(ctx context.Context, userID uuid.UUID) ([]*domain.Todo, error)

	// UpdateTodo applies a partial update to one of the user's todos.
	// The task number is immutable and cannot be updated.
	UpdateTodo(ctx context.Context, userID, todoID uuid.UUID, input UpdateTodoInput) (*domain.Todo, error)

	// DeleteTodo removes one of the user's todos.
	DeleteTodo(ctx context.Context, userID, todoID uuid.UUID) error

	// ToggleCompletion flips a todo's completion state. Completing a
	// recurring todo also creates the next occurrence in the same
	// transaction (except date ranges, which are one logical task);
	// toggling back to active never creates or deletes anything.
	ToggleCompletion(ctx context.Context, userID, todoID uuid.UUID) (*ToggleResult, error)
}

// TodoServiceImpl implements the TodoService interface.
type TodoServiceImpl struct {
	todoStore store.TodoStore
	allocator *sequence.Allocator
	db        *sql.DB
	logger    *slog.Logger
}

// NewTodoService creates a new TodoService.
func NewTodoService(
	todoStore store.TodoStore,
	allocator *sequence.Allocator,
	db *sql.DB,
	logger *slog.Logger,
) TodoService {
	return &TodoServiceImpl{
		todoStore: todoStore,
		allocator: allocator,
		db:        db,
		logger:    logger.With("component", "todo_service"),
	}
}

// CreateTodo creates one todo, or one per occurrence for recurring input.
func (s *TodoServiceImpl) CreateTodo(
	ctx context.Context,
	userID uuid.UUID,
	input CreateTodoInput,
) ([]*domain.Todo, error) {
	spec := input.Recurrence
	if spec != nil {
		if err := spec.Validate(); err != nil {
			// A malformed spec never blocks capturing the task itself.
			s.logger.Warn("invalid recurrence spec, creating single todo",
				"error", err,
				"user_id", userID)
			spec = nil
		}
	}

	dates := recur.Expand(spec, input.DueDate)
	if len(dates) == 0 {
		dates = []string{input.DueDate}
	}

	// The first record anchors the chain; every record of the batch
	// points its OriginalID at it.
	var originalID uuid.UUID
	var created []*domain.Todo

	err := s.allocator.Allocate(ctx, userID, func(next sequence.NextFunc) error {
		created = nil
		originalID = uuid.Nil

		return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			txStore := s.todoStore.WithTx(tx)

			for _, date := range dates {
				todo, err := s.buildTodo(userID, input, spec, date, originalID)
				if err != nil {
					return err
				}
				if originalID == uuid.Nil {
					originalID = todo.ID
				}

				num, err := next(ctx, txStore)
				if err != nil {
					return err
				}
				todo.TaskNumber = num

				if err := txStore.Create(ctx, todo); err != nil {
					return err
				}
				created = append(created, todo)
			}
			return nil
		})
	})

	if err != nil {
		s.logger.Error("failed to create todo",
			"error", err,
			"user_id", userID,
			"occurrences", len(dates))
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Info("todo created successfully",
		"user_id", userID,
		"records", len(created),
		"recurring", spec != nil)

	return created, nil
}

// buildTodo assembles one record of a creation batch.
func (s *TodoServiceImpl) buildTodo(
	userID uuid.UUID,
	input CreateTodoInput,
	spec *domain.RecurrenceSpec,
	dueDate string,
	originalID uuid.UUID,
) (*domain.Todo, error) {
	todo, err := domain.NewTodo(userID, input.Title)
	if err != nil {
		return nil, err
	}

	todo.Description = input.Description
	todo.DueDate = dueDate
	todo.DueTime = input.DueTime
	todo.Flagged = input.Flagged
	todo.Duration = input.Duration
	if input.Priority != "" {
		todo.Priority = input.Priority
	}
	todo.Tags = append([]string(nil), input.Tags...)
	for _, st := range input.Subtasks {
		todo.Subtasks = append(todo.Subtasks, domain.Subtask{
			ID:    uuid.New(),
			Title: st.Title,
		})
	}
	if spec != nil {
		specCopy := *spec
		todo.Recurrence = &specCopy
	}
	if originalID != uuid.Nil {
		todo.OriginalID = originalID
	}

	if err := todo.Validate(); err != nil {
		return nil, err
	}
	return todo, nil
}

// GetTodo retrieves one of the user's todos by ID.
func (s *TodoServiceImpl) GetTodo(ctx context.Context, userID, todoID uuid.UUID) (*domain.Todo, error) {
	todo, err := s.todoStore.GetByID(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve todo: %w", err)
	}
	if todo.UserID != userID {
		return nil, fmt.Errorf("failed to retrieve todo: %w", store.ErrTodoNotFound)
	}
	return todo, nil
}

// ListTodos retrieves all of the user's todos.
func (s *TodoServiceImpl) ListTodos(ctx context.Context, userID uuid.UUID) ([]*domain.Todo, error) {
	todos, err := s.todoStore.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list todos",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// UpdateTodo applies a partial update to one of the user's todos.
func (s *TodoServiceImpl) UpdateTodo(
	ctx context.Context,
	userID, todoID uuid.UUID,
	input UpdateTodoInput,
) (*domain.Todo, error) {
	var updated *domain.Todo

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.todoStore.WithTx(tx)

		todo, err := txStore.GetByID(ctx, todoID)
		if err != nil {
			return err
		}
		if todo.UserID != userID {
			return store.ErrTodoNotFound
		}

		applyTodoUpdate(todo, input)

		if err := txStore.Update(ctx, todo); err != nil {
			return err
		}
		updated = todo
		return nil
	})

	if err != nil {
		if !errors.Is(err, store.ErrTodoNotFound) {
			s.logger.Error("failed to update todo",
				"error", err,
				"todo_id", todoID)
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return updated, nil
}

// applyTodoUpdate merges the non-nil input fields into the todo.
func applyTodoUpdate(todo *domain.Todo, input UpdateTodoInput) {
	if input.Title != nil {
		todo.Title = *input.Title
	}
	if input.Description != nil {
		todo.Description = *input.Description
	}
	if input.DueDate != nil {
		todo.DueDate = *input.DueDate
	}
	if input.DueTime != nil {
		todo.DueTime = *input.DueTime
	}
	if input.Flagged != nil {
		todo.Flagged = *input.Flagged
	}
	if input.Duration != nil {
		todo.Duration = *input.Duration
	}
	if input.Priority != nil {
		todo.Priority = *input.Priority
	}
	if input.Tags != nil {
		todo.Tags = append([]string(nil), (*input.Tags)...)
	}
	if input.Subtasks != nil {
		subtasks := make([]domain.Subtask, 0, len(*input.Subtasks))
		for _, st := range *input.Subtasks {
			if st.ID == uuid.Nil {
				st.ID = uuid.New()
			}
			subtasks = append(subtasks, st)
		}
		todo.Subtasks = subtasks
	}
	if input.ClearRecurrence {
		todo.Recurrence = nil
	} else if input.Recurrence != nil {
		spec := *input.Recurrence
		todo.Recurrence = &spec
	}
}

// DeleteTodo removes one of the user's todos.
func (s *TodoServiceImpl) DeleteTodo(ctx context.Context, userID, todoID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.todoStore.WithTx(tx)

		todo, err := txStore.GetByID(ctx, todoID)
		if err != nil {
			return err
		}
		if todo.UserID != userID {
			return store.ErrTodoNotFound
		}

		return txStore.Delete(ctx, todoID)
	})

	if err != nil {
		if !errors.Is(err, store.ErrTodoNotFound) {
			s.logger.Error("failed to delete todo",
				"error", err,
				"todo_id", todoID)
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	s.logger.Info("todo deleted successfully", "todo_id", todoID)
	return nil
}

// ToggleCompletion flips a todo's completion state, spawning the next
// occurrence when a recurring todo is completed.
func (s *TodoServiceImpl) ToggleCompletion(
	ctx context.Context,
	userID, todoID uuid.UUID,
) (*ToggleResult, error) {
	var result *ToggleResult

	// The successor needs a task number, so the toggle runs under the
	// user's allocation lock even when no successor ends up created.
	err := s.allocator.Allocate(ctx, userID, func(next sequence.NextFunc) error {
		result = nil

		return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			txStore := s.todoStore.WithTx(tx)

			todo, err := txStore.GetByID(ctx, todoID)
			if err != nil {
				return err
			}
			if todo.UserID != userID {
				return store.ErrTodoNotFound
			}

			todo.IsCompleted = !todo.IsCompleted
			if err := txStore.Update(ctx, todo); err != nil {
				return err
			}
			result = &ToggleResult{Todo: todo}

			// Reactivating never creates or deletes occurrences.
			if !todo.IsCompleted {
				return nil
			}

			successor, ok := recur.NextOccurrence(todo)
			if !ok {
				return nil
			}

			num, err := next(ctx, txStore)
			if err != nil {
				return err
			}
			successor.TaskNumber = num

			if err := txStore.Create(ctx, successor); err != nil {
				return err
			}
			result.Successor = successor
			return nil
		})
	})

	if err != nil {
		if !errors.Is(err, store.ErrTodoNotFound) {
			s.logger.Error("failed to toggle todo completion",
				"error", err,
				"todo_id", todoID)
		}
		return nil, fmt.Errorf("failed to toggle todo completion: %w", err)
	}

	if result.Successor != nil {
		s.logger.Info("recurring todo completed, successor created",
			"todo_id", todoID,
			"successor_id", result.Successor.ID,
			"successor_due", result.Successor.DueDate,
			"task_number", result.Successor.TaskNumber)
	}

	return result, nil
}
