// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Event types
const (
	TypeInstanceCreated     = "instance.created"
	TypeSeriesStatusChanged = "series.status_changed"
	TypeBookmarkAdded       = "bookmark.added"
	TypeBookmarkRemoved     = "bookmark.removed"
)

// Envelope wraps every published payload
type Envelope struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// InstanceCreated is published after a series instance is materialized
type InstanceCreated struct {
	SeriesID       uuid.UUID `json:"seriesId"`
	EventID        uuid.UUID `json:"eventId"`
	InstanceNumber int       `json:"instanceNumber"`
	StartDateTime  time.Time `json:"startDateTime"`
	EndDateTime    time.Time `json:"endDateTime"`
	CreatedBy      int64     `json:"createdBy"`
}

// SeriesStatusChanged is published after a series status update
type SeriesStatusChanged struct {
	SeriesID         uuid.UUID `json:"seriesId"`
	Status           string    `json:"status"`
	UpdatedInstances int64     `json:"updatedInstances"`
	ChangedBy        int64     `json:"changedBy"`
}

// BookmarkChanged is published when a user adds or removes a calendar bookmark
type BookmarkChanged struct {
	UserID  int64     `json:"userId"`
	EventID uuid.UUID `json:"eventId"`
}

// Publisher publishes domain events. Implementations swallow delivery errors
// after logging them; the returned error only reports encoding problems.
type Publisher interface {
	Publish(ctx context.Context, eventType string, key string, data any) error
	Close() error
}

// Config configures the Kafka publisher
type Config struct {
	Brokers []string
	Topic   string
	// BufferSize bounds the events waiting for the broker; zero means 1024
	BufferSize int
}

// messageWriter is the part of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaPublisher hands events to a background writer so callers never wait
// on the brokers. When the buffer is full new events are dropped and logged.
type kafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
	log     zerolog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan kafka.Message
	done   chan struct{}
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic. It does not dial
// the brokers; the writer connects lazily on first publish.
func NewKafkaPublisher(cfg Config, log zerolog.Logger) Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	log.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("Kafka publisher configured")
	return newKafkaPublisher(writer, cfg.BufferSize, 10*time.Second, log)
}

func newKafkaPublisher(writer messageWriter, bufferSize int, timeout time.Duration, log zerolog.Logger) *kafkaPublisher {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	p := &kafkaPublisher{
		writer:  writer,
		timeout: timeout,
		log:     log,
		queue:   make(chan kafka.Message, bufferSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *kafkaPublisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		p.write(msg)
	}
}

func (p *kafkaPublisher) write(msg kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	eventType := headerValue(msg, "type")
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error().Err(err).Str("type", eventType).Str("key", string(msg.Key)).Msg("Failed to publish event")
		return
	}
	p.log.Debug().Str("type", eventType).Str("key", string(msg.Key)).Msg("Event published")
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (p *kafkaPublisher) Publish(_ context.Context, eventType string, key string, data any) error {
	value, err := Encode(eventType, data)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(eventType)},
		},
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.log.Warn().Str("type", eventType).Str("key", key).Msg("Publisher closed, event dropped")
		return nil
	}
	select {
	case p.queue <- msg:
	default:
		p.log.Error().Str("type", eventType).Str("key", key).Msg("Kafka buffer full, event dropped")
	}
	return nil
}

// Close stops accepting events, waits for the buffered ones to be written
// and closes the writer.
func (p *kafkaPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done
	return p.writer.Close()
}

// logPublisher stands in for Kafka when it is disabled
type logPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher returns a Publisher that only logs events
func NewLogPublisher(log zerolog.Logger) Publisher {
	return &logPublisher{log: log}
}

func (p *logPublisher) Publish(_ context.Context, eventType string, key string, data any) error {
	value, err := Encode(eventType, data)
	if err != nil {
		return err
	}
	p.log.Debug().Str("type", eventType).Str("key", key).RawJSON("event", value).Msg("Event (kafka disabled)")
	return nil
}

func (p *logPublisher) Close() error {
	return nil
}

// Encode wraps data in an Envelope and marshals it to JSON
func Encode(eventType string, data any) ([]byte, error) {
	body, err := json.Marshal(Envelope{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		return nil, fmt.Errorf("events: marshal %s: %w", eventType, err)
	}
	return body, nil
}
