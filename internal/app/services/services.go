// Package services holds the business logic of the API.
//
//   - AuthService: registration and login
//   - SeriesService: recurring series and instance materialization
//   - EventService: one-off events, registrations and attendance
//   - CalendarService: calendar projection and bookmarks
//   - SummaryService: background AI summaries
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/pkg/events"
)

// Clock returns the current time
type Clock func() time.Time

// publish sends a domain event; failures are logged and never returned
func publish(ctx context.Context, p events.Publisher, log zerolog.Logger, eventType, key string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, eventType, key, data); err != nil {
		log.Warn().Err(err).Str("type", eventType).Str("key", key).Msg("Failed to publish domain event")
	}
}
