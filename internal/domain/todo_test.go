package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewTodo(t *testing.T) {
	userID := uuid.New()

	todo, err := NewTodo(userID, "Buy groceries")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if todo.ID == uuid.Nil {
		t.Error("Expected a non-nil ID")
	}
	if todo.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, todo.UserID)
	}
	if todo.Priority != PriorityNone {
		t.Errorf("Expected default priority none, got %s", todo.Priority)
	}
	if todo.OriginalID != todo.ID {
		t.Error("Expected a new todo to be its own chain origin")
	}
	if todo.TaskNumber != 0 {
		t.Errorf("Expected task number unassigned, got %d", todo.TaskNumber)
	}
	if todo.IsCompleted {
		t.Error("Expected a new todo to be incomplete")
	}
	if todo.CreatedAt.IsZero() || todo.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	// Invalid inputs
	if _, err := NewTodo(uuid.Nil, "x"); err != ErrTodoUserIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrTodoUserIDEmpty, err)
	}
	if _, err := NewTodo(userID, ""); err != ErrTodoTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrTodoTitleEmpty, err)
	}
}

func TestTodoValidate(t *testing.T) {
	valid, err := NewTodo(uuid.New(), "Valid todo")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	badPriority := *valid
	badPriority.Priority = "urgent"
	if err := badPriority.Validate(); err != ErrInvalidPriority {
		t.Errorf("Expected error %v, got %v", ErrInvalidPriority, err)
	}

	badDate := *valid
	badDate.DueDate = "tomorrow"
	if err := badDate.Validate(); err != ErrInvalidDate {
		t.Errorf("Expected error %v, got %v", ErrInvalidDate, err)
	}

	negativeNumber := *valid
	negativeNumber.TaskNumber = -1
	if err := negativeNumber.Validate(); err != ErrNegativeTaskNumber {
		t.Errorf("Expected error %v, got %v", ErrNegativeTaskNumber, err)
	}

	badSpec := *valid
	badSpec.Recurrence = &RecurrenceSpec{Mode: "never"}
	if err := badSpec.Validate(); err != ErrInvalidRecurrenceMode {
		t.Errorf("Expected error %v, got %v", ErrInvalidRecurrenceMode, err)
	}
}

func TestTodoOrigin(t *testing.T) {
	todo, err := NewTodo(uuid.New(), "Chained todo")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if todo.Origin() != todo.ID {
		t.Error("Expected a todo with itself as origin")
	}

	ancestor := uuid.New()
	todo.OriginalID = ancestor
	if todo.Origin() != ancestor {
		t.Errorf("Expected origin %s, got %s", ancestor, todo.Origin())
	}

	todo.OriginalID = uuid.Nil
	if todo.Origin() != todo.ID {
		t.Error("Expected fallback to the todo's own ID when original ID is unset")
	}
}
