package websocket

import (
	"context"

	"github.com/yigit/eventhub/internal/pkg/events"
)

// Publisher forwards events with an audience to the hub
type Publisher struct {
	hub *Hub
}

// NewPublisher returns an events.Publisher backed by hub
func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

var _ events.Publisher = (*Publisher)(nil)

// Publish ignores payloads that do not name recipients
func (p *Publisher) Publish(_ context.Context, eventType string, _ string, data any) error {
	audience, ok := data.(events.Audience)
	if !ok {
		return nil
	}
	body, err := events.Encode(eventType, data)
	if err != nil {
		return err
	}
	for _, userID := range audience.Recipients() {
		p.hub.Notify(userID, body)
	}
	return nil
}

// Close is a no-op; the hub shuts down with its Run context
func (p *Publisher) Close() error {
	return nil
}
