package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/repositories"
	"github.com/yigit/eventhub/internal/pkg/recurrence"
	"github.com/yigit/eventhub/internal/pkg/summarizer"
	"github.com/yigit/eventhub/internal/pkg/tasks"
)

// SummaryScheduler queues AI summary generation for an event
type SummaryScheduler interface {
	// ScheduleSummary queues a summary task. It never fails the caller and
	// reports whether the task was accepted.
	ScheduleSummary(ctx context.Context, eventID uuid.UUID) bool
}

// SummaryService schedules and generates event summaries
type SummaryService interface {
	SummaryScheduler
	// HandleTask is the queue consumer generating one summary
	HandleTask(ctx context.Context, task tasks.Task) error
}

type summaryServiceImpl struct {
	eventRepo  repositories.IEventRepository
	seriesRepo repositories.ISeriesRepository
	queue      tasks.Queue
	summarizer summarizer.Summarizer
	enabled    bool
	now        Clock
	logger     zerolog.Logger
}

// NewSummaryService creates a SummaryService. When disabled, scheduling is a no-op.
func NewSummaryService(
	eventRepo repositories.IEventRepository,
	seriesRepo repositories.ISeriesRepository,
	queue tasks.Queue,
	s summarizer.Summarizer,
	enabled bool,
	logger zerolog.Logger,
) SummaryService {
	return &summaryServiceImpl{
		eventRepo:  eventRepo,
		seriesRepo: seriesRepo,
		queue:      queue,
		summarizer: s,
		enabled:    enabled,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *summaryServiceImpl) ScheduleSummary(ctx context.Context, eventID uuid.UUID) bool {
	if !s.enabled || s.queue == nil {
		return false
	}

	// the request context may be cancelled right after the response is written
	ctx = context.WithoutCancel(ctx)
	if err := s.queue.Enqueue(ctx, tasks.NewTask(tasks.KindEventSummary, eventID)); err != nil {
		s.logger.Warn().Err(err).Str("eventID", eventID.String()).Msg("Failed to queue summary generation")
		return false
	}
	return true
}

func (s *summaryServiceImpl) HandleTask(ctx context.Context, task tasks.Task) error {
	if task.Kind != tasks.KindEventSummary {
		return fmt.Errorf("unsupported task kind %q", task.Kind)
	}

	event, err := s.eventRepo.GetByID(ctx, task.EventID)
	if err != nil {
		return fmt.Errorf("load event %s: %w", task.EventID, err)
	}
	if event.AISummary != nil && *event.AISummary != "" {
		return nil
	}

	in := summarizer.Input{
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		Start:       event.StartDateTime,
		End:         event.EndDateTime,
		Capacity:    event.Capacity,
		Equipment:   event.Equipment,
	}
	if pattern := s.seriesPattern(ctx, event); pattern != "" {
		in.Pattern = pattern
	}

	summary, err := s.summarizer.Summarize(ctx, in)
	if err != nil {
		return fmt.Errorf("summarize event %s: %w", event.ID, err)
	}

	if err := s.eventRepo.UpdateSummary(ctx, event.ID, summary, s.now()); err != nil {
		return fmt.Errorf("store summary of event %s: %w", event.ID, err)
	}

	s.logger.Info().Str("eventID", event.ID.String()).Msg("Event summary generated")
	return nil
}

func (s *summaryServiceImpl) seriesPattern(ctx context.Context, event *models.Event) string {
	if event.HasRecurrence() {
		return recurrence.Pattern(recurrence.Type(*event.RecurringType), *event.RecurringValue)
	}
	if event.RecurringSeriesID == nil {
		return ""
	}
	series, err := s.seriesRepo.GetByID(ctx, *event.RecurringSeriesID)
	if err != nil {
		return ""
	}
	return recurrence.Pattern(recurrence.Type(series.RecurringType), series.RecurringValue)
}
