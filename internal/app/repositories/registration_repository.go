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

// RegisteredEvent is an event joined with the caller's registration
type RegisteredEvent struct {
	Event    *models.Event
	Attended bool
}

// IRegistrationRepository defines the interface for event registrations
type IRegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	Delete(ctx context.Context, eventID uuid.UUID, userID int64) error
	IsRegistered(ctx context.Context, eventID uuid.UUID, userID int64) (bool, error)
	CountForEvent(ctx context.Context, eventID uuid.UUID) (int, error)
	SetAttendance(ctx context.Context, eventID uuid.UUID, userID int64, attended bool) error
	ListUserEventsInRange(ctx context.Context, userID int64, start, end time.Time) ([]RegisteredEvent, error)
	SeriesTotals(ctx context.Context, seriesID uuid.UUID) (registrations int, attendances int, err error)
}

// RegistrationRepository handles registration database operations
type RegistrationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a registration
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now()
	}
	sql, args, err := r.sb.Insert("registrations").
		Columns("event_id", "user_id", "attended", "registered_at").
		Values(reg.EventID, reg.UserID, reg.Attended, reg.RegisteredAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create registration query: %w", err)
	}

	if err := db.Executor(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&reg.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "registrations_event_user_key") {
			return apperrors.ErrAlreadyRegisteredForEvent
		}
		logger.Error().Err(err).Str("eventID", reg.EventID.String()).Int64("userID", reg.UserID).Msg("Error creating registration")
		return fmt.Errorf("error creating registration: %w", err)
	}
	return nil
}

// Delete removes a registration
func (r *RegistrationRepository) Delete(ctx context.Context, eventID uuid.UUID, userID int64) error {
	sql, args, err := r.sb.Delete("registrations").
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete registration query: %w", err)
	}

	tag, err := db.Executor(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

// IsRegistered reports whether the user is registered for the event
func (r *RegistrationRepository) IsRegistered(ctx context.Context, eventID uuid.UUID, userID int64) (bool, error) {
	var exists bool
	err := db.Executor(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM registrations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking registration: %w", err)
	}
	return exists, nil
}

// CountForEvent returns the number of registrations of an event
func (r *RegistrationRepository) CountForEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	var n int
	err := db.Executor(ctx, r.db).QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting registrations: %w", err)
	}
	return n, nil
}

// SetAttendance marks whether a registrant attended
func (r *RegistrationRepository) SetAttendance(ctx context.Context, eventID uuid.UUID, userID int64, attended bool) error {
	sql, args, err := r.sb.Update("registrations").
		Set("attended", attended).
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build attendance query: %w", err)
	}

	tag, err := db.Executor(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

// ListUserEventsInRange returns the events the user registered for that can
// show up in [start, end]
func (r *RegistrationRepository) ListUserEventsInRange(ctx context.Context, userID int64, start, end time.Time) ([]RegisteredEvent, error) {
	sql, args, err := r.sb.Select(append(append([]string{}, eventColumns...), "reg.attended")...).
		From("registrations reg").
		Join("events e ON e.id = reg.event_id").
		Where(squirrel.Eq{"reg.user_id": userID}).
		Where(inRange(start, end)).
		OrderBy("e.start_date_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build registered events query: %w", err)
	}

	rows, err := db.Executor(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying registered events")
		return nil, fmt.Errorf("error listing registered events: %w", err)
	}
	defer rows.Close()

	out := make([]RegisteredEvent, 0)
	for rows.Next() {
		var attended bool
		e, err := scanEvent(rows, &attended)
		if err != nil {
			return nil, fmt.Errorf("error scanning registered event: %w", err)
		}
		out = append(out, RegisteredEvent{Event: e, Attended: attended})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registered events: %w", err)
	}
	return out, nil
}

// SeriesTotals counts registrations and attendances over all instances of a series
func (r *RegistrationRepository) SeriesTotals(ctx context.Context, seriesID uuid.UUID) (int, int, error) {
	var regs, attended int
	err := db.Executor(ctx, r.db).QueryRow(ctx, `
		SELECT COUNT(reg.id), COUNT(reg.id) FILTER (WHERE reg.attended)
		FROM registrations reg
		JOIN events e ON e.id = reg.event_id
		WHERE e.recurring_series_id = $1`, seriesID).Scan(&regs, &attended)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, nil
		}
		logger.Error().Err(err).Str("seriesID", seriesID.String()).Msg("Error computing series totals")
		return 0, 0, fmt.Errorf("error computing series totals: %w", err)
	}
	return regs, attended, nil
}
