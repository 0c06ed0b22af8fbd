package sequence

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/store"
)

// fakeTodoStore implements store.TodoStore with an in-memory set of
// claimed task numbers per user. Claims enforce the same uniqueness the
// database index would, so allocator races are observable in tests.
type fakeTodoStore struct {
	mu      sync.Mutex
	claimed map[uuid.UUID]map[int]bool

	maxErr error // if set, MaxTaskNumber fails with this error
}

func newFakeTodoStore() *fakeTodoStore {
	return &fakeTodoStore{claimed: make(map[uuid.UUID]map[int]bool)}
}

func (f *fakeTodoStore) MaxTaskNumber(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.maxErr != nil {
		return 0, f.maxErr
	}

	max := 0
	for n := range f.claimed[userID] {
		if n > max {
			max = n
		}
	}
	return max, nil
}

// claim records the task number for the user, failing like the unique
// index would when the number is already taken.
func (f *fakeTodoStore) claim(userID uuid.UUID, taskNumber int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claimed[userID] == nil {
		f.claimed[userID] = make(map[int]bool)
	}
	if f.claimed[userID][taskNumber] {
		return store.ErrDuplicateTaskNumber
	}
	f.claimed[userID][taskNumber] = true
	return nil
}

func (f *fakeTodoStore) Create(_ context.Context, todo *domain.Todo) error {
	return f.claim(todo.UserID, todo.TaskNumber)
}

func (f *fakeTodoStore) GetByID(_ context.Context, _ uuid.UUID) (*domain.Todo, error) {
	return nil, store.ErrTodoNotFound
}

func (f *fakeTodoStore) ListByUser(_ context.Context, _ uuid.UUID) ([]*domain.Todo, error) {
	return nil, nil
}

func (f *fakeTodoStore) Update(_ context.Context, _ *domain.Todo) error { return nil }
func (f *fakeTodoStore) Delete(_ context.Context, _ uuid.UUID) error    { return nil }
func (f *fakeTodoStore) WithTx(_ *sql.Tx) store.TodoStore               { return f }

// allocateOne drives a single-record allocation the way the todo service
// does for an unscheduled todo.
func allocateOne(t *testing.T, a *Allocator, f *fakeTodoStore, userID uuid.UUID) (int, error) {
	t.Helper()

	var got int
	err := a.Allocate(context.Background(), userID, func(next NextFunc) error {
		n, err := next(context.Background(), f)
		if err != nil {
			return err
		}
		if err := f.claim(userID, n); err != nil {
			return err
		}
		got = n
		return nil
	})
	return got, err
}

func TestAllocateSequential(t *testing.T) {
	fake := newFakeTodoStore()
	allocator := NewAllocator(nil)
	userID := uuid.New()

	for want := 1; want <= 5; want++ {
		got, err := allocateOne(t, allocator, fake, userID)
		require.NoError(t, err)
		assert.Equal(t, want, got, "numbers should be dense and sequential")
	}
}

func TestAllocateIndependentPerUser(t *testing.T) {
	fake := newFakeTodoStore()
	allocator := NewAllocator(nil)

	alice := uuid.New()
	bob := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := allocateOne(t, allocator, fake, alice)
		require.NoError(t, err)
	}

	got, err := allocateOne(t, allocator, fake, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, got, "each user's sequence starts at 1")
}

func TestAllocateBatch(t *testing.T) {
	ctx := context.Background()
	fake := newFakeTodoStore()
	allocator := NewAllocator(nil)
	userID := uuid.New()

	var numbers []int
	err := allocator.Allocate(ctx, userID, func(next NextFunc) error {
		numbers = nil
		for i := 0; i < 3; i++ {
			n, err := next(ctx, fake)
			if err != nil {
				return err
			}
			if err := fake.claim(userID, n); err != nil {
				return err
			}
			numbers = append(numbers, n)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, numbers,
		"later records in a batch must see the numbers claimed before them")
}

func TestAllocateConcurrent(t *testing.T) {
	const n = 50

	fake := newFakeTodoStore()
	allocator := NewAllocator(nil)
	userID := uuid.New()

	var wg sync.WaitGroup
	results := make(chan int, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := allocateOne(t, allocator, fake, userID)
			if err != nil {
				errs <- err
				return
			}
			results <- got
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent allocation failed: %v", err)
	}

	var numbers []int
	for num := range results {
		numbers = append(numbers, num)
	}
	sort.Ints(numbers)

	require.Len(t, numbers, n)
	for i, num := range numbers {
		assert.Equal(t, i+1, num, "numbers must be exactly 1..n with no gaps or duplicates")
	}
}

func TestAllocateRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	fake := newFakeTodoStore()
	allocator := NewAllocator(nil)
	userID := uuid.New()

	// Another process claims number 1 between our read and insert.
	raced := false
	var got int
	err := allocator.Allocate(ctx, userID, func(next NextFunc) error {
		n, err := next(ctx, fake)
		if err != nil {
			return err
		}
		if !raced {
			raced = true
			require.NoError(t, fake.claim(userID, n))
			return store.ErrDuplicateTaskNumber
		}
		if err := fake.claim(userID, n); err != nil {
			return err
		}
		got = n
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, got, "retry should pick the next free number")
}

func TestAllocateExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	allocator := NewAllocator(nil)
	userID := uuid.New()

	attempts := 0
	err := allocator.Allocate(ctx, userID, func(_ NextFunc) error {
		attempts++
		return store.ErrDuplicateTaskNumber
	})

	assert.ErrorIs(t, err, ErrAllocationExhausted)
	assert.Equal(t, maxRetries+1, attempts)
}

func TestAllocatePropagatesMaxError(t *testing.T) {
	ctx := context.Background()
	fake := newFakeTodoStore()
	fake.maxErr = errors.New("connection reset")
	allocator := NewAllocator(nil)
	userID := uuid.New()

	inserted := false
	err := allocator.Allocate(ctx, userID, func(next NextFunc) error {
		n, err := next(ctx, fake)
		if err != nil {
			return err
		}
		inserted = true
		return fake.claim(userID, n)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, fake.maxErr)
	assert.False(t, inserted, "no insert may happen when the maximum cannot be read")
}

func TestAllocatePropagatesAttemptError(t *testing.T) {
	ctx := context.Background()
	allocator := NewAllocator(nil)
	userID := uuid.New()

	attemptErr := errors.New("disk full")
	attempts := 0
	err := allocator.Allocate(ctx, userID, func(_ NextFunc) error {
		attempts++
		return attemptErr
	})

	assert.ErrorIs(t, err, attemptErr)
	assert.Equal(t, 1, attempts, "non-collision errors must not be retried")
}
