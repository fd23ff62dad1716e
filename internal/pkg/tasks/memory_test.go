package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_DeliversTasks(t *testing.T) {
	q := NewMemoryQueue(8, 2, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	seen := make(map[uuid.UUID]bool)
	done := make(chan struct{}, 3)

	go func() {
		_ = q.Consume(ctx, func(_ context.Context, task Task) error {
			mu.Lock()
			seen[task.EventID] = true
			mu.Unlock()
			done <- struct{}{}
			return nil
		})
	}()

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		require.NoError(t, q.Enqueue(ctx, NewTask(KindEventSummary, id)))
	}

	for range ids {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("task was not delivered")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		assert.True(t, seen[id])
	}
}

func TestMemoryQueue_FailuresAreSwallowed(t *testing.T) {
	q := NewMemoryQueue(4, 1, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 2)
	go func() {
		_ = q.Consume(ctx, func(_ context.Context, task Task) error {
			calls <- struct{}{}
			if task.Kind == KindEventSummary {
				panic("boom")
			}
			return errors.New("upstream down")
		})
	}()

	require.NoError(t, q.Enqueue(ctx, NewTask(KindEventSummary, uuid.New())))
	require.NoError(t, q.Enqueue(ctx, NewTask(Kind("other"), uuid.New())))

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatal("worker stopped after a failing task")
		}
	}
}

func TestMemoryQueue_FullAndClosed(t *testing.T) {
	q := NewMemoryQueue(1, 1, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, NewTask(KindEventSummary, uuid.New())))
	assert.ErrorIs(t, q.Enqueue(ctx, NewTask(KindEventSummary, uuid.New())), ErrQueueFull)

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	assert.ErrorIs(t, q.Enqueue(ctx, NewTask(KindEventSummary, uuid.New())), ErrQueueClosed)
}

func TestMemoryQueue_CloseDrainsBufferedTasks(t *testing.T) {
	q := NewMemoryQueue(8, 2, zerolog.Nop())

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		require.NoError(t, q.Enqueue(context.Background(), NewTask(KindEventSummary, id)))
	}
	require.NoError(t, q.Close())

	var mu sync.Mutex
	var handled []uuid.UUID
	err := q.Consume(context.Background(), func(_ context.Context, task Task) error {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, task.EventID)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, handled)
}

func TestTaskEncoding(t *testing.T) {
	task := NewTask(KindEventSummary, uuid.New())
	body, err := encode(task)
	require.NoError(t, err)

	got, err := decode(body)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, task.EventID, got.EventID)
	assert.Equal(t, task.Kind, got.Kind)

	_, err = decode([]byte("{not json"))
	assert.Error(t, err)
}
