package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/dberrors"
	"github.com/yigit/eventhub/internal/pkg/logger"
)

// ICalendarRepository defines the interface for personal calendar bookmarks
type ICalendarRepository interface {
	Add(ctx context.Context, bookmark *models.CalendarBookmark) error
	Remove(ctx context.Context, userID int64, eventID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID int64, eventID uuid.UUID) (bool, error)
	ListEventsInRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.Event, error)
}

// CalendarRepository handles calendar_events database operations
type CalendarRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCalendarRepository creates a new CalendarRepository
func NewCalendarRepository(pool *pgxpool.Pool) *CalendarRepository {
	return &CalendarRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add inserts a bookmark; a second bookmark of the same event is rejected
func (r *CalendarRepository) Add(ctx context.Context, b *models.CalendarBookmark) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.AddedAt.IsZero() {
		b.AddedAt = time.Now()
	}

	sql, args, err := r.sb.Insert("calendar_events").
		Columns("id", "user_id", "event_id", "added_at").
		Values(b.ID, b.UserID, b.EventID, b.AddedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add bookmark query: %w", err)
	}

	if _, err := db.Executor(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "calendar_events_user_event_key") {
			return apperrors.ErrBookmarkExists
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Int64("userID", b.UserID).Str("eventID", b.EventID.String()).Msg("Error adding bookmark")
		return fmt.Errorf("error adding bookmark: %w", err)
	}
	return nil
}

// Remove deletes a bookmark and reports whether one existed
func (r *CalendarRepository) Remove(ctx context.Context, userID int64, eventID uuid.UUID) (bool, error) {
	sql, args, err := r.sb.Delete("calendar_events").
		Where(squirrel.Eq{"user_id": userID, "event_id": eventID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build remove bookmark query: %w", err)
	}

	tag, err := db.Executor(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Str("eventID", eventID.String()).Msg("Error removing bookmark")
		return false, fmt.Errorf("error removing bookmark: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether the user bookmarked the event
func (r *CalendarRepository) Exists(ctx context.Context, userID int64, eventID uuid.UUID) (bool, error) {
	var exists bool
	err := db.Executor(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM calendar_events WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking bookmark: %w", err)
	}
	return exists, nil
}

// ListEventsInRange returns the bookmarked events of a user that can show up in [start, end]
func (r *CalendarRepository) ListEventsInRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("calendar_events ce").
		Join("events e ON e.id = ce.event_id").
		Where(squirrel.Eq{"ce.user_id": userID}).
		Where(inRange(start, end)).
		OrderBy("e.start_date_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build bookmarked events query: %w", err)
	}

	rows, err := db.Executor(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying bookmarked events")
		return nil, fmt.Errorf("error listing bookmarked events: %w", err)
	}
	return collectEvents(rows)
}
