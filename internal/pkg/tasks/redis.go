package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisQueue keeps tasks in a Redis list (LPUSH / BRPOP)
type RedisQueue struct {
	client  *redis.Client
	key     string
	workers int
	wait    time.Duration
	log     zerolog.Logger

	closed atomic.Bool
}

// NewRedisQueue creates a RedisQueue on the list named "tasks:<name>"
func NewRedisQueue(client *redis.Client, name string, workers int, log zerolog.Logger) *RedisQueue {
	if workers < 1 {
		workers = 1
	}
	return &RedisQueue{
		client:  client,
		key:     "tasks:" + name,
		workers: workers,
		wait:    5 * time.Second,
		log:     log,
	}
}

// Enqueue pushes a task onto the list
func (q *RedisQueue) Enqueue(ctx context.Context, task Task) error {
	body, err := encode(task)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, q.key, body).Err(); err != nil {
		return fmt.Errorf("tasks: redis lpush: %w", err)
	}
	return nil
}

// Consume pops tasks with BRPOP until ctx is cancelled or the queue is closed.
// Tasks left in the list wait for the next consumer.
func (q *RedisQueue) Consume(ctx context.Context, handler Handler) error {
	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.loop(ctx, handler)
		}()
	}
	wg.Wait()
	return ctx.Err()
}

func (q *RedisQueue) loop(ctx context.Context, handler Handler) {
	for ctx.Err() == nil && !q.closed.Load() {
		res, err := q.client.BRPop(ctx, q.wait, q.key).Result()
		if err != nil {
			if q.closed.Load() {
				return
			}
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			q.log.Error().Err(err).Str("key", q.key).Msg("Redis BRPOP failed")
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}

		// res is [key, value]
		if len(res) != 2 {
			continue
		}
		task, err := decode([]byte(res[1]))
		if err != nil {
			q.log.Error().Err(err).Msg("Dropping malformed task")
			continue
		}
		run(ctx, q.log, handler, task)
	}
}

// Close stops the consumer loops and closes the redis client
func (q *RedisQueue) Close() error {
	q.closed.Store(true)
	return q.client.Close()
}
