package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/dberrors"
	"github.com/yigit/eventhub/internal/pkg/logger"
)

// IEventRepository defines the interface for event and instance storage
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	// GetLatestInstance returns the highest numbered instance of a series, or nil
	GetLatestInstance(ctx context.Context, seriesID uuid.UUID) (*models.Event, error)
	ListBySeries(ctx context.Context, seriesID uuid.UUID) ([]*models.Event, error)
	ListMissingSummary(ctx context.Context, seriesID uuid.UUID) ([]*models.Event, error)
	ListOrganizedInRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.Event, error)
	UpdateFutureRecurringStatus(ctx context.Context, seriesID uuid.UUID, status models.SeriesStatus, after time.Time) (int64, error)
	UpdateSummary(ctx context.Context, id uuid.UUID, summary string, at time.Time) error
}

// EventRepository handles event database operations
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var eventColumns = []string{
	"e.id", "e.title", "e.description", "e.location", "e.capacity", "e.equipment",
	"e.questionnaire_enabled", "e.organizer_team", "e.organization_name",
	"e.start_date_time", "e.end_date_time", "e.created_by",
	"e.recurring_event", "e.recurring_type", "e.recurring_value",
	"e.recurring_series_id", "e.recurring_instance_number", "e.is_recurring_instance",
	"e.recurring_status", "e.ai_summary", "e.summary_generated_at",
	"e.created_at", "e.updated_at",
}

// scanEvent reads eventColumns plus any extra destinations appended after them
func scanEvent(row pgx.Row, extra ...any) (*models.Event, error) {
	var e models.Event
	var recurringType, recurringStatus *string

	dest := []any{
		&e.ID, &e.Title, &e.Description, &e.Location, &e.Capacity, &e.Equipment,
		&e.QuestionnaireEnabled, &e.OrganizerTeam, &e.OrganizationName,
		&e.StartDateTime, &e.EndDateTime, &e.CreatedBy,
		&e.RecurringEvent, &recurringType, &e.RecurringValue,
		&e.RecurringSeriesID, &e.RecurringInstanceNumber, &e.IsRecurringInstance,
		&recurringStatus, &e.AISummary, &e.SummaryGeneratedAt,
		&e.CreatedAt, &e.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if recurringType != nil {
		t := models.RecurringType(*recurringType)
		e.RecurringType = &t
	}
	if recurringStatus != nil {
		s := models.SeriesStatus(*recurringStatus)
		e.RecurringStatus = &s
	}
	return &e, nil
}

func collectEvents(rows pgx.Rows) ([]*models.Event, error) {
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (r *EventRepository) selectEvents() squirrel.SelectBuilder {
	return r.sb.Select(eventColumns...).From("events e")
}

// inRange matches events overlapping [start, end] plus recurring events that
// begin before end, since their occurrences may fall into the window.
func inRange(start, end time.Time) squirrel.Sqlizer {
	return squirrel.Or{
		squirrel.And{
			squirrel.LtOrEq{"e.start_date_time": end},
			squirrel.GtOrEq{"e.end_date_time": start},
		},
		squirrel.And{
			squirrel.Eq{"e.recurring_event": true},
			squirrel.LtOrEq{"e.start_date_time": end},
		},
	}
}

func nullableString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

// Create inserts an event. A zero ID is replaced by a fresh one.
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now()
	if e.Equipment == nil {
		e.Equipment = []string{}
	}
	if e.OrganizerTeam == nil {
		e.OrganizerTeam = []int64{}
	}

	sql, args, err := r.sb.Insert("events").
		Columns(
			"id", "title", "description", "location", "capacity", "equipment",
			"questionnaire_enabled", "organizer_team", "organization_name",
			"start_date_time", "end_date_time", "created_by",
			"recurring_event", "recurring_type", "recurring_value",
			"recurring_series_id", "recurring_instance_number", "is_recurring_instance",
			"recurring_status", "created_at", "updated_at",
		).
		Values(
			e.ID, e.Title, e.Description, e.Location, e.Capacity, e.Equipment,
			e.QuestionnaireEnabled, e.OrganizerTeam, e.OrganizationName,
			e.StartDateTime, e.EndDateTime, e.CreatedBy,
			e.RecurringEvent, nullableString(e.RecurringType), e.RecurringValue,
			e.RecurringSeriesID, e.RecurringInstanceNumber, e.IsRecurringInstance,
			nullableString(e.RecurringStatus), now, now,
		).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if _, err := db.Executor(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "events_series_instance_key") {
			logger.Warn().Str("eventID", e.ID.String()).Msg("Duplicate series instance number")
			return apperrors.ErrInstanceDuplicate
		}
		logger.Error().Err(err).Str("eventID", e.ID.String()).Msg("Error executing create event query")
		return fmt.Errorf("error creating event: %w", err)
	}

	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// GetByID retrieves an event by id
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	sql, args, err := r.selectEvents().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanEvent(db.Executor(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Str("eventID", id.String()).Msg("Error scanning event")
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return e, nil
}

// GetLatestInstance returns the highest numbered instance of a series
func (r *EventRepository) GetLatestInstance(ctx context.Context, seriesID uuid.UUID) (*models.Event, error) {
	sql, args, err := r.selectEvents().
		Where(squirrel.Eq{"e.recurring_series_id": seriesID}).
		OrderBy("e.recurring_instance_number DESC NULLS LAST", "e.start_date_time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build latest instance query: %w", err)
	}

	e, err := scanEvent(db.Executor(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Str("seriesID", seriesID.String()).Msg("Error scanning latest instance")
		return nil, fmt.Errorf("error retrieving latest instance: %w", err)
	}
	return e, nil
}

// ListBySeries returns all instances of a series ordered by instance number
func (r *EventRepository) ListBySeries(ctx context.Context, seriesID uuid.UUID) ([]*models.Event, error) {
	sql, args, err := r.selectEvents().
		Where(squirrel.Eq{"e.recurring_series_id": seriesID}).
		OrderBy("e.recurring_instance_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list instances query: %w", err)
	}

	rows, err := db.Executor(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("seriesID", seriesID.String()).Msg("Error querying series instances")
		return nil, fmt.Errorf("error listing instances: %w", err)
	}
	return collectEvents(rows)
}

// ListMissingSummary returns instances of a series that have no AI summary yet
func (r *EventRepository) ListMissingSummary(ctx context.Context, seriesID uuid.UUID) ([]*models.Event, error) {
	sql, args, err := r.selectEvents().
		Where(squirrel.Eq{"e.recurring_series_id": seriesID}).
		Where(squirrel.Or{squirrel.Eq{"e.ai_summary": nil}, squirrel.Eq{"e.ai_summary": ""}}).
		OrderBy("e.recurring_instance_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build missing summary query: %w", err)
	}

	rows, err := db.Executor(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing instances without summary: %w", err)
	}
	return collectEvents(rows)
}

// ListOrganizedInRange returns events the user created or co-organizes
func (r *EventRepository) ListOrganizedInRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.Event, error) {
	sql, args, err := r.selectEvents().
		Where(squirrel.Or{
			squirrel.Eq{"e.created_by": userID},
			squirrel.Expr("? = ANY(e.organizer_team)", userID),
		}).
		Where(inRange(start, end)).
		OrderBy("e.start_date_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build organized events query: %w", err)
	}

	rows, err := db.Executor(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying organized events")
		return nil, fmt.Errorf("error listing organized events: %w", err)
	}
	return collectEvents(rows)
}

// UpdateFutureRecurringStatus stamps status onto instances that have not started yet
func (r *EventRepository) UpdateFutureRecurringStatus(ctx context.Context, seriesID uuid.UUID, status models.SeriesStatus, after time.Time) (int64, error) {
	sql, args, err := r.sb.Update("events").
		Set("recurring_status", string(status)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"recurring_series_id": seriesID}).
		Where(squirrel.Gt{"start_date_time": after}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cascade status query: %w", err)
	}

	tag, err := db.Executor(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("seriesID", seriesID.String()).Msg("Error cascading series status")
		return 0, fmt.Errorf("error updating instance status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateSummary stores the AI summary of an event
func (r *EventRepository) UpdateSummary(ctx context.Context, id uuid.UUID, summary string, at time.Time) error {
	sql, args, err := r.sb.Update("events").
		Set("ai_summary", summary).
		Set("summary_generated_at", at).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update summary query: %w", err)
	}

	tag, err := db.Executor(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}
