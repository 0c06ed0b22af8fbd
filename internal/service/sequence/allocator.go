// Package sequence assigns per-user sequential task numbers.
//
// Task numbers are the human-facing "#42" identifiers: dense, starting at
// 1, and unique within a user. Uniqueness is ultimately owned by the
// database through a unique (user_id, task_number) index; this package
// makes allocation collision-free in the common case and recovers when
// two writers race anyway.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rgareau/taskline/internal/platform/logger"
	"github.com/rgareau/taskline/internal/store"
)

// maxRetries bounds how many times an attempt is re-run after a task
// number collision. Collisions only happen when another process (not
// just another goroutine) wins the race, so a small bound suffices.
const maxRetries = 3

// ErrAllocationExhausted is returned when an attempt keeps colliding on
// task numbers after the retry budget is spent.
var ErrAllocationExhausted = errors.New("task number allocation retries exhausted")

// NextFunc yields the next free task number for the user an allocation
// was started for, reading the current maximum through the supplied
// store. Callers inserting inside a transaction must pass the
// transaction-bound store so numbers handed out earlier in the same
// transaction are visible.
type NextFunc func(ctx context.Context, todos store.TodoStore) (int, error)

// Allocator hands out per-user sequential task numbers.
//
// A task number must never come from an unserialized read-then-write:
// the read of the current maximum and the insert claiming the successor
// are kept atomic by two cooperating layers. A per-user mutex serializes
// goroutines within this process, and the unique (user_id, task_number)
// index catches races with other processes, which surface as
// store.ErrDuplicateTaskNumber and trigger a retry of the whole attempt.
type Allocator struct {
	logger *slog.Logger

	mu    sync.Mutex
	users map[uuid.UUID]*sync.Mutex
}

// NewAllocator creates an Allocator.
// If logger is nil, a default logger will be used.
func NewAllocator(logger *slog.Logger) *Allocator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Allocator{
		logger: logger.With(slog.String("component", "sequence_allocator")),
		users:  make(map[uuid.UUID]*sync.Mutex),
	}
}

// Allocate runs attempt under the user's allocation lock, giving it a
// NextFunc that computes 1 + the user's current maximum task number.
// The attempt typically opens a transaction, calls next once per record
// it inserts, and returns the transaction's outcome.
//
// If the attempt fails with store.ErrDuplicateTaskNumber — another
// process claimed a number between the read and the insert — it is
// re-run from scratch, at most maxRetries more times, after which
// ErrAllocationExhausted is returned. Any other error aborts
// immediately: in particular a failed maximum read propagates, and a
// record is never written under a guessed or restarted number.
func (a *Allocator) Allocate(ctx context.Context, userID uuid.UUID, attempt func(next NextFunc) error) error {
	log := logger.FromContextOrDefault(ctx, a.logger)

	next := func(ctx context.Context, todos store.TodoStore) (int, error) {
		max, err := todos.MaxTaskNumber(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to read max task number: %w", err)
		}
		return max + 1, nil
	}

	userMu := a.userLock(userID)
	userMu.Lock()
	defer userMu.Unlock()

	for try := 0; try <= maxRetries; try++ {
		err := attempt(next)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicateTaskNumber) {
			return err
		}

		log.Warn("task number collision, retrying allocation",
			slog.String("user_id", userID.String()),
			slog.Int("attempt", try+1))
	}

	return fmt.Errorf("%w: user %s", ErrAllocationExhausted, userID)
}

// userLock returns the mutex serializing allocations for a user,
// creating it on first use. Mutexes are never removed; the map grows
// with the number of distinct users seen by this process.
func (a *Allocator) userLock(userID uuid.UUID) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	mu, ok := a.users[userID]
	if !ok {
		mu = &sync.Mutex{}
		a.users[userID] = mu
	}
	return mu
}
