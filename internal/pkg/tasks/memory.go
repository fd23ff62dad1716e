package tasks

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// MemoryQueue is an in-process queue backed by a buffered channel
type MemoryQueue struct {
	ch      chan Task
	workers int
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewMemoryQueue creates a MemoryQueue holding up to buffer pending tasks
func NewMemoryQueue(buffer, workers int, log zerolog.Logger) *MemoryQueue {
	if buffer < 1 {
		buffer = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &MemoryQueue{
		ch:      make(chan Task, buffer),
		workers: workers,
		log:     log,
	}
}

// Enqueue adds a task; it never blocks and fails when the buffer is full
func (q *MemoryQueue) Enqueue(_ context.Context, task Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Consume starts the workers and blocks until ctx is cancelled, or until the
// queue is closed and every buffered task has been handled
func (q *MemoryQueue) Consume(ctx context.Context, handler Handler) error {
	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task, ok := <-q.ch:
					if !ok {
						return
					}
					run(ctx, q.log, handler, task)
				}
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// Close stops accepting tasks. Buffered tasks are still handed to the workers
// of a running Consume unless its ctx is cancelled first.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	return nil
}
