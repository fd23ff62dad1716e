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
	"github.com/yigit/eventhub/internal/pkg/logger"
)

// ISeriesRepository defines the interface for recurring series storage
type ISeriesRepository interface {
	Create(ctx context.Context, series *models.RecurringSeries) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RecurringSeries, error)
	// GetByIDForUpdate locks the series row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.RecurringSeries, error)
	ListByCreator(ctx context.Context, userID int64, offset uint64, limit int) ([]*models.RecurringSeries, int64, error)
	ListActive(ctx context.Context) ([]*models.RecurringSeries, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SeriesStatus) error
	RecordInstance(ctx context.Context, id uuid.UUID, instanceNumber int) error
	UpdateStatistics(ctx context.Context, id uuid.UUID, stats models.SeriesStatistics) error
}

// SeriesRepository handles recurring series database operations
type SeriesRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSeriesRepository creates a new SeriesRepository
func NewSeriesRepository(pool *pgxpool.Pool) *SeriesRepository {
	return &SeriesRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var seriesColumns = []string{
	"id", "title", "description", "location", "capacity", "equipment",
	"questionnaire_enabled", "organizer_team", "organization_name",
	"recurring_type", "recurring_value", "start_date", "end_date", "max_instances",
	"status", "created_by", "current_instance_number", "total_instances_created",
	"total_registrations", "total_attendances", "average_attendance",
	"created_at", "updated_at",
}

func scanSeries(row pgx.Row) (*models.RecurringSeries, error) {
	var s models.RecurringSeries
	var recurringType, status string

	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.Location, &s.Capacity, &s.Equipment,
		&s.QuestionnaireEnabled, &s.OrganizerTeam, &s.OrganizationName,
		&recurringType, &s.RecurringValue, &s.StartDate, &s.EndDate, &s.MaxInstances,
		&status, &s.CreatedBy, &s.CurrentInstanceNumber, &s.TotalInstancesCreated,
		&s.TotalRegistrations, &s.TotalAttendances, &s.AverageAttendance,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.RecurringType = models.RecurringType(recurringType)
	s.Status = models.SeriesStatus(status)
	return &s, nil
}

// Create inserts a series. A zero ID is replaced by a fresh one.
func (r *SeriesRepository) Create(ctx context.Context, s *models.RecurringSeries) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Equipment == nil {
		s.Equipment = []string{}
	}
	if s.OrganizerTeam == nil {
		s.OrganizerTeam = []int64{}
	}
	now := time.Now()

	sql, args, err := r.sb.Insert("recurring_series").
		Columns(
			"id", "title", "description", "location", "capacity", "equipment",
			"questionnaire_enabled", "organizer_team", "organization_name",
			"recurring_type", "recurring_value", "start_date", "end_date", "max_instances",
			"status", "created_by", "current_instance_number", "total_instances_created",
			"created_at", "updated_at",
		).
		Values(
			s.ID, s.Title, s.Description, s.Location, s.Capacity, s.Equipment,
			s.QuestionnaireEnabled, s.OrganizerTeam, s.OrganizationName,
			string(s.RecurringType), s.RecurringValue, s.StartDate, s.EndDate, s.MaxInstances,
			string(s.Status), s.CreatedBy, s.CurrentInstanceNumber, s.TotalInstancesCreated,
			now, now,
		).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create series SQL")
		return fmt.Errorf("failed to build create series query: %w", err)
	}

	if _, err := db.Executor(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("createdBy", s.CreatedBy).Msg("Error executing create series query")
		return fmt.Errorf("error creating series: %w", err)
	}

	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

func (r *SeriesRepository) getByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.RecurringSeries, error) {
	q := r.sb.Select(seriesColumns...).From("recurring_series").Where(squirrel.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get series query: %w", err)
	}

	s, err := scanSeries(db.Executor(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSeriesNotFound
		}
		logger.Error().Err(err).Str("seriesID", id.String()).Msg("Error scanning series")
		return nil, fmt.Errorf("error retrieving series: %w", err)
	}
	return s, nil
}

// GetByID retrieves a series by id
func (r *SeriesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RecurringSeries, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate retrieves a series and locks its row
func (r *SeriesRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.RecurringSeries, error) {
	return r.getByID(ctx, id, true)
}

// ListByCreator returns a page of series created by userID, newest first, and the total count
func (r *SeriesRepository) ListByCreator(ctx context.Context, userID int64, offset uint64, limit int) ([]*models.RecurringSeries, int64, error) {
	exec := db.Executor(ctx, r.db)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("recurring_series").
		Where(squirrel.Eq{"created_by": userID}).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count series query: %w", err)
	}
	var total int64
	if err := exec.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error counting series")
		return nil, 0, fmt.Errorf("error counting series: %w", err)
	}

	sql, args, err := r.sb.Select(seriesColumns...).From("recurring_series").
		Where(squirrel.Eq{"created_by": userID}).
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list series query: %w", err)
	}

	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying series")
		return nil, 0, fmt.Errorf("error listing series: %w", err)
	}
	list, err := collectSeries(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListActive returns every active series
func (r *SeriesRepository) ListActive(ctx context.Context) ([]*models.RecurringSeries, error) {
	sql, args, err := r.sb.Select(seriesColumns...).From("recurring_series").
		Where(squirrel.Eq{"status": string(models.SeriesActive)}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build active series query: %w", err)
	}

	rows, err := db.Executor(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing active series: %w", err)
	}
	return collectSeries(rows)
}

func collectSeries(rows pgx.Rows) ([]*models.RecurringSeries, error) {
	defer rows.Close()

	list := make([]*models.RecurringSeries, 0)
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning series row: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating series rows: %w", err)
	}
	return list, nil
}

func (r *SeriesRepository) update(ctx context.Context, id uuid.UUID, q squirrel.UpdateBuilder) error {
	sql, args, err := q.Set("updated_at", time.Now()).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update series query: %w", err)
	}

	tag, err := db.Executor(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("seriesID", id.String()).Msg("Error updating series")
		return fmt.Errorf("error updating series: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSeriesNotFound
	}
	return nil
}

// UpdateStatus sets the lifecycle status of a series
func (r *SeriesRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SeriesStatus) error {
	return r.update(ctx, id, r.sb.Update("recurring_series").Set("status", string(status)))
}

// RecordInstance bumps the instance counters after an instance was saved
func (r *SeriesRepository) RecordInstance(ctx context.Context, id uuid.UUID, instanceNumber int) error {
	return r.update(ctx, id, r.sb.Update("recurring_series").
		Set("current_instance_number", instanceNumber).
		Set("total_instances_created", squirrel.Expr("total_instances_created + 1")))
}

// UpdateStatistics overwrites the aggregate counters of a series
func (r *SeriesRepository) UpdateStatistics(ctx context.Context, id uuid.UUID, stats models.SeriesStatistics) error {
	return r.update(ctx, id, r.sb.Update("recurring_series").
		Set("total_instances_created", stats.TotalInstancesCreated).
		Set("total_registrations", stats.TotalRegistrations).
		Set("total_attendances", stats.TotalAttendances).
		Set("average_attendance", stats.AverageAttendance))
}
