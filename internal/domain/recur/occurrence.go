package recur

import (
	"time"

	"github.com/google/uuid"
	"github.com/rgareau/taskline/internal/domain"
)

// NextOccurrence builds the successor draft for a just-completed recurring
// todo. The second return value is false when no successor should exist:
// the parent has no recurrence spec, the spec is a date range (the whole
// span is one logical task, completed in one go wherever within the span
// the completion happened), or NextDueDate reports the recurrence ended.
//
// The draft copies title, description, due time, tags, flag, duration,
// priority, and the recurrence spec from the parent; it is forced
// incomplete, every subtask gets a fresh ID with its completion flag
// reset, and OriginalID points at the chain's origin so the whole chain
// stays traceable to its first record. The draft carries no task number;
// the caller assigns one before persisting.
func NextOccurrence(parent *domain.Todo) (*domain.Todo, bool) {
	if parent == nil || parent.Recurrence == nil {
		return nil, false
	}
	if parent.Recurrence.Mode == domain.ModeDateRange {
		return nil, false
	}

	nextDue, ok := NextDueDate(parent.DueDate, parent.Recurrence)
	if !ok {
		return nil, false
	}

	spec := *parent.Recurrence
	now := time.Now().UTC()
	draft := &domain.Todo{
		ID:          uuid.New(),
		UserID:      parent.UserID,
		Title:       parent.Title,
		Description: parent.Description,
		DueDate:     nextDue,
		DueTime:     parent.DueTime,
		IsCompleted: false,
		Flagged:     parent.Flagged,
		Duration:    parent.Duration,
		Priority:    parent.Priority,
		Tags:        append([]string(nil), parent.Tags...),
		Subtasks:    resetSubtasks(parent.Subtasks),
		Recurrence:  &spec,
		OriginalID:  parent.Origin(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return draft, true
}

// resetSubtasks copies the parent's subtasks with fresh IDs and cleared
// completion flags so the successor starts from an untouched checklist.
func resetSubtasks(subtasks []domain.Subtask) []domain.Subtask {
	if len(subtasks) == 0 {
		return nil
	}
	out := make([]domain.Subtask, len(subtasks))
	for i, st := range subtasks {
		out[i] = domain.Subtask{
			ID:          uuid.New(),
			Title:       st.Title,
			IsCompleted: false,
		}
	}
	return out
}
