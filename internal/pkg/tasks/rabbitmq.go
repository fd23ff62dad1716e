package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// RabbitMQConfig configures a RabbitMQQueue
type RabbitMQConfig struct {
	URL       string
	QueueName string
	Workers   int
}

// RabbitMQQueue keeps tasks in a durable RabbitMQ queue
type RabbitMQQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	workers int
	log     zerolog.Logger

	mu sync.Mutex // amqp channels are not safe for concurrent publishing
}

// NewRabbitMQQueue dials the broker and declares the queue
func NewRabbitMQQueue(cfg RabbitMQConfig, log zerolog.Logger) (*RabbitMQQueue, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := channel.QueueDeclare(
		cfg.QueueName, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if err := channel.Qos(workers, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	return &RabbitMQQueue{
		conn:    conn,
		channel: channel,
		queue:   q,
		workers: workers,
		log:     log,
	}, nil
}

// Enqueue publishes a persistent task message
func (r *RabbitMQQueue) Enqueue(ctx context.Context, task Task) error {
	body, err := encode(task)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    task.ID.String(),
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish task: %w", err)
	}
	return nil
}

// Consume delivers tasks to handler until ctx is cancelled or the queue is
// closed. Messages are acked after the handler returns, whatever the outcome;
// unacked ones are redelivered by the broker.
func (r *RabbitMQQueue) Consume(ctx context.Context, handler Handler) error {
	deliveries, err := r.channel.Consume(
		r.queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					task, err := decode(d.Body)
					if err != nil {
						r.log.Error().Err(err).Msg("Dropping malformed task")
						_ = d.Nack(false, false)
						continue
					}
					run(ctx, r.log, handler, task)
					if err := d.Ack(false); err != nil {
						r.log.Warn().Err(err).Str("taskID", task.ID.String()).Msg("Failed to ack task")
					}
				}
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// Close closes the channel and the connection
func (r *RabbitMQQueue) Close() error {
	if err := r.channel.Close(); err != nil {
		r.conn.Close()
		return err
	}
	return r.conn.Close()
}
