// Package tasks carries fire-and-forget background work off the request path.
// Delivery is best effort: a failed handler is logged and the task dropped.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Kind identifies the work a task asks for
type Kind string

const (
	// KindEventSummary asks for an AI summary of one event
	KindEventSummary Kind = "event.summary"
)

var (
	ErrQueueFull   = errors.New("tasks: queue is full")
	ErrQueueClosed = errors.New("tasks: queue is closed")
)

// Task is one unit of background work
type Task struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	EventID    uuid.UUID `json:"eventId"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// NewTask builds a task with a fresh id
func NewTask(kind Kind, eventID uuid.UUID) Task {
	return Task{
		ID:         uuid.New(),
		Kind:       kind,
		EventID:    eventID,
		EnqueuedAt: time.Now(),
	}
}

// Handler processes a single task
type Handler func(ctx context.Context, task Task) error

// Queue is a task queue backend
type Queue interface {
	// Enqueue hands the task to the backend without waiting for it to run
	Enqueue(ctx context.Context, task Task) error
	// Consume runs handler for incoming tasks until ctx is cancelled
	Consume(ctx context.Context, handler Handler) error
	Close() error
}

func encode(task Task) ([]byte, error) {
	body, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("tasks: marshal task: %w", err)
	}
	return body, nil
}

func decode(body []byte) (Task, error) {
	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return Task{}, fmt.Errorf("tasks: unmarshal task: %w", err)
	}
	return task, nil
}

// run invokes handler and logs the outcome; failures never propagate
func run(ctx context.Context, log zerolog.Logger, handler Handler, task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("taskID", task.ID.String()).Msg("Task handler panicked")
		}
	}()

	start := time.Now()
	if err := handler(ctx, task); err != nil {
		log.Warn().Err(err).
			Str("taskID", task.ID.String()).
			Str("kind", string(task.Kind)).
			Str("eventID", task.EventID.String()).
			Msg("Task failed")
		return
	}
	log.Debug().
		Str("taskID", task.ID.String()).
		Str("kind", string(task.Kind)).
		Dur("took", time.Since(start)).
		Msg("Task done")
}
