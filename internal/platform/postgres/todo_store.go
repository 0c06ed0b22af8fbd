package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/platform/logger"
	"github.com/rgareau/taskline/internal/store"
)

// PostgresTodoStore implements the store.TodoStore interface
// using a PostgreSQL database as the storage backend.
//
// Tags, subtasks, and the recurrence rule are stored as JSONB columns:
// they are owned wholly by their todo, are never queried independently,
// and round-trip through the domain types' JSON encodings.
type PostgresTodoStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTodoStore creates a new PostgreSQL implementation of the TodoStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTodoStore(db store.DBTX, logger *slog.Logger) *PostgresTodoStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTodoStore{
		db:     db,
		logger: logger.With(slog.String("component", "todo_store")),
	}
}

// Ensure PostgresTodoStore implements store.TodoStore interface
var _ store.TodoStore = (*PostgresTodoStore)(nil)

// todoRow holds the raw JSONB payloads scanned from a todo row before
// they are decoded into domain types.
type todoRow struct {
	tags       []byte
	subtasks   []byte
	recurrence []byte
	dueDate    sql.NullString
	dueTime    sql.NullString
}

// Create implements store.TodoStore.Create
// Returns store.ErrDuplicateTaskNumber if the user already holds the
// todo's task number, and store.ErrInvalidEntity if the user does not exist.
func (s *PostgresTodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := todo.Validate(); err != nil {
		log.Warn("todo validation failed during create",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return err
	}

	tagsJSON, subtasksJSON, recurrenceJSON, err := encodeTodoJSON(todo)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO todos (id, user_id, title, description, due_date, due_time,
			is_completed, flagged, duration, priority, tags, subtasks,
			recurrence, original_id, task_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		nullString(todo.DueDate),
		nullString(todo.DueTime),
		todo.IsCompleted,
		todo.Flagged,
		todo.Duration,
		string(todo.Priority),
		tagsJSON,
		subtasksJSON,
		recurrenceJSON,
		todo.OriginalID,
		todo.TaskNumber,
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			// The only unique constraint besides the primary key is
			// (user_id, task_number); the allocator retries on this.
			return fmt.Errorf("%w: %v", store.ErrDuplicateTaskNumber, err)
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, todo.UserID)
		}
		log.Error("failed to create todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return err
	}

	log.Info("todo created successfully",
		slog.String("todo_id", todo.ID.String()),
		slog.String("user_id", todo.UserID.String()),
		slog.Int("task_number", todo.TaskNumber))
	return nil
}

// GetByID implements store.TodoStore.GetByID
// Returns store.ErrTodoNotFound if the todo does not exist.
func (s *PostgresTodoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, due_date, due_time,
			is_completed, flagged, duration, priority, tags, subtasks,
			recurrence, original_id, task_number, created_at, updated_at
		FROM todos
		WHERE id = $1
	`

	todo, err := scanTodo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTodoNotFound
		}
		log.Error("failed to get todo by ID",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return nil, err
	}

	return todo, nil
}

// ListByUser implements store.TodoStore.ListByUser
// Todos are ordered by due date ascending with unscheduled todos last,
// then by task number so same-day todos keep their creation order.
func (s *PostgresTodoStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, due_date, due_time,
			is_completed, flagged, duration, priority, tags, subtasks,
			recurrence, original_id, task_number, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY due_date ASC NULLS LAST, task_number ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query todos by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	todos := []*domain.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			log.Error("failed to scan todo row", slog.String("error", err.Error()))
			return nil, err
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return todos, nil
}

// Update implements store.TodoStore.Update
// The task number is immutable and deliberately absent from the SET list.
// Returns store.ErrTodoNotFound if the todo does not exist.
func (s *PostgresTodoStore) Update(ctx context.Context, todo *domain.Todo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := todo.Validate(); err != nil {
		log.Warn("todo validation failed during update",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return err
	}

	tagsJSON, subtasksJSON, recurrenceJSON, err := encodeTodoJSON(todo)
	if err != nil {
		return err
	}

	todo.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE todos
		SET title = $1, description = $2, due_date = $3, due_time = $4,
			is_completed = $5, flagged = $6, duration = $7, priority = $8,
			tags = $9, subtasks = $10, recurrence = $11, updated_at = $12
		WHERE id = $13
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		todo.Title,
		todo.Description,
		nullString(todo.DueDate),
		nullString(todo.DueTime),
		todo.IsCompleted,
		todo.Flagged,
		todo.Duration,
		string(todo.Priority),
		tagsJSON,
		subtasksJSON,
		recurrenceJSON,
		todo.UpdatedAt,
		todo.ID,
	)
	if err != nil {
		log.Error("failed to update todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrTodoNotFound
	}

	return nil
}

// Delete implements store.TodoStore.Delete
// Returns store.ErrTodoNotFound if the todo does not exist.
func (s *PostgresTodoStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrTodoNotFound
	}

	log.Info("todo deleted successfully", slog.String("todo_id", id.String()))
	return nil
}

// MaxTaskNumber implements store.TodoStore.MaxTaskNumber
// Returns 0 when the user has no todos. Any query failure is returned
// to the caller; allocation must not silently restart a user's sequence.
func (s *PostgresTodoStore) MaxTaskNumber(ctx context.Context, userID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var max int
	query := `SELECT COALESCE(MAX(task_number), 0) FROM todos WHERE user_id = $1`
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&max); err != nil {
		log.Error("failed to query max task number",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, err
	}

	return max, nil
}

// WithTx implements store.TodoStore.WithTx
func (s *PostgresTodoStore) WithTx(tx *sql.Tx) store.TodoStore {
	return &PostgresTodoStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanner abstracts *sql.Row and *sql.Rows for scanTodo.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanTodo scans a full todo row, decoding the JSONB payloads.
func scanTodo(row scanner) (*domain.Todo, error) {
	var todo domain.Todo
	var raw todoRow
	var priority string

	err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&raw.dueDate,
		&raw.dueTime,
		&todo.IsCompleted,
		&todo.Flagged,
		&todo.Duration,
		&priority,
		&raw.tags,
		&raw.subtasks,
		&raw.recurrence,
		&todo.OriginalID,
		&todo.TaskNumber,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	todo.Priority = domain.Priority(priority)
	todo.DueDate = raw.dueDate.String
	todo.DueTime = raw.dueTime.String

	if len(raw.tags) > 0 {
		if err := json.Unmarshal(raw.tags, &todo.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}
	if len(raw.subtasks) > 0 {
		if err := json.Unmarshal(raw.subtasks, &todo.Subtasks); err != nil {
			return nil, fmt.Errorf("failed to decode subtasks: %w", err)
		}
	}
	if len(raw.recurrence) > 0 {
		var spec domain.RecurrenceSpec
		if err := json.Unmarshal(raw.recurrence, &spec); err != nil {
			return nil, fmt.Errorf("failed to decode recurrence: %w", err)
		}
		todo.Recurrence = &spec
	}

	return &todo, nil
}

// encodeTodoJSON marshals the JSONB-backed fields of a todo. Empty tag
// and subtask sets are stored as NULL rather than empty arrays, and a
// todo without a recurrence rule stores NULL.
func encodeTodoJSON(todo *domain.Todo) (tags, subtasks, recurrence []byte, err error) {
	if len(todo.Tags) > 0 {
		tags, err = json.Marshal(todo.Tags)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode tags: %w", err)
		}
	}
	if len(todo.Subtasks) > 0 {
		subtasks, err = json.Marshal(todo.Subtasks)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode subtasks: %w", err)
		}
	}
	if todo.Recurrence != nil {
		recurrence, err = json.Marshal(todo.Recurrence)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode recurrence: %w", err)
		}
	}
	return tags, subtasks, recurrence, nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
