package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/repositories"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/events"
	"github.com/yigit/eventhub/internal/pkg/helpers"
	"github.com/yigit/eventhub/internal/pkg/recurrence"
)

// SeriesService defines the operations on recurring series
type SeriesService interface {
	CreateSeries(ctx context.Context, userID int64, req *dto.CreateSeriesRequest) (*dto.SeriesCreatedResponse, error)
	// CreateNextInstance materializes the next instance of a series owned by userID
	CreateNextInstance(ctx context.Context, userID int64, seriesID uuid.UUID) (*models.Event, error)
	CreateRecurringEventInstance(ctx context.Context, series *models.RecurringSeries, instanceNumber int, start, end time.Time) (*models.Event, error)
	ShouldCreateNextInstance(series *models.RecurringSeries, lastEvent *models.Event, now time.Time) bool
	// UpdateSeriesStatistics recomputes and stores the aggregate counters of a series
	UpdateSeriesStatistics(ctx context.Context, seriesID uuid.UUID) (*models.SeriesStatistics, error)
	GetSeriesStatistics(ctx context.Context, userID int64, seriesID uuid.UUID) (*models.SeriesStatistics, error)
	GetMySeries(ctx context.Context, userID int64, page, size int) (*dto.PaginatedResponse, error)
	GetSeriesWithInstances(ctx context.Context, userID int64, seriesID uuid.UUID) (*dto.SeriesDetailResponse, error)
	UpdateStatus(ctx context.Context, userID int64, seriesID uuid.UUID, status models.SeriesStatus) (*dto.SeriesStatusResponse, error)
	DeleteSeries(ctx context.Context, userID int64, seriesID uuid.UUID) (*dto.SeriesStatusResponse, error)
	GenerateSummaries(ctx context.Context, userID int64, seriesID uuid.UUID) (int, error)
	MaterializeDueInstances(ctx context.Context) (int, error)
}

type seriesServiceImpl struct {
	seriesRepo       repositories.ISeriesRepository
	eventRepo        repositories.IEventRepository
	registrationRepo repositories.IRegistrationRepository
	tx               db.TxRunner
	summaries        SummaryScheduler
	publisher        events.Publisher
	now              Clock
	logger           zerolog.Logger
}

// NewSeriesService creates a new series service instance
func NewSeriesService(
	seriesRepo repositories.ISeriesRepository,
	eventRepo repositories.IEventRepository,
	registrationRepo repositories.IRegistrationRepository,
	tx db.TxRunner,
	summaries SummaryScheduler,
	publisher events.Publisher,
	logger zerolog.Logger,
) SeriesService {
	return &seriesServiceImpl{
		seriesRepo:       seriesRepo,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		tx:               tx,
		summaries:        summaries,
		publisher:        publisher,
		now:              time.Now,
		logger:           logger,
	}
}

// CreateSeries defines a series and stores its first instance, which anchors
// both materialization and calendar projection.
func (s *seriesServiceImpl) CreateSeries(ctx context.Context, userID int64, req *dto.CreateSeriesRequest) (*dto.SeriesCreatedResponse, error) {
	typ := recurrence.Type(req.RecurringType)
	if err := recurrence.ValidateSelector(typ, req.RecurringValue); err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid recurrence value %q for %s series", req.RecurringValue, req.RecurringType))
	}
	onSelector, err := recurrence.MatchesSelector(req.StartDateTime, typ, req.RecurringValue)
	if err != nil {
		return nil, err
	}
	if !onSelector {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("First event must fall on the series day (%s)",
			recurrence.Pattern(typ, req.RecurringValue)))
	}
	if !req.EndDateTime.After(req.StartDateTime) {
		return nil, apperrors.NewBadRequestError("Event must end after it starts")
	}
	if req.EndDate != nil && !req.EndDate.After(req.StartDateTime) {
		return nil, apperrors.NewBadRequestError("Series end date must be after the first event")
	}

	series := &models.RecurringSeries{
		ID:                    uuid.New(),
		EventTemplate:         req.Template(),
		RecurringType:         req.RecurringType,
		RecurringValue:        req.RecurringValue,
		StartDate:             req.StartDateTime,
		EndDate:               req.EndDate,
		MaxInstances:          req.MaxInstances,
		Status:                models.SeriesActive,
		CreatedBy:             userID,
		CurrentInstanceNumber: 1,
		TotalInstancesCreated: 1,
	}

	recurringType := req.RecurringType
	recurringValue := req.RecurringValue
	first := s.newInstance(series, 1, req.StartDateTime, req.EndDateTime)
	first.RecurringEvent = true
	first.RecurringType = &recurringType
	first.RecurringValue = &recurringValue
	first.IsRecurringInstance = false

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.seriesRepo.Create(ctx, series); err != nil {
			return err
		}
		return s.eventRepo.Create(ctx, first)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating series: %w", err)
	}

	s.logger.Info().
		Str("seriesID", series.ID.String()).
		Int64("userID", userID).
		Str("pattern", recurrence.Pattern(recurrence.Type(series.RecurringType), series.RecurringValue)).
		Msg("Recurring series created")

	s.summaries.ScheduleSummary(ctx, first.ID)
	s.publishInstanceCreated(ctx, series, first)
	return &dto.SeriesCreatedResponse{Series: series, FirstInstance: first}, nil
}

// newInstance stamps the series template onto a new event
func (s *seriesServiceImpl) newInstance(series *models.RecurringSeries, number int, start, end time.Time) *models.Event {
	seriesID := series.ID
	status := models.SeriesActive
	n := number

	template := series.EventTemplate
	template.Equipment = append([]string(nil), series.Equipment...)
	template.OrganizerTeam = append([]int64(nil), series.OrganizerTeam...)

	return &models.Event{
		ID:                      uuid.New(),
		EventTemplate:           template,
		StartDateTime:           start,
		EndDateTime:             end,
		CreatedBy:               series.CreatedBy,
		RecurringSeriesID:       &seriesID,
		RecurringInstanceNumber: &n,
		IsRecurringInstance:     true,
		RecurringStatus:         &status,
	}
}

func (s *seriesServiceImpl) publishInstanceCreated(ctx context.Context, series *models.RecurringSeries, instance *models.Event) {
	publish(ctx, s.publisher, s.logger, events.TypeInstanceCreated, series.ID.String(), events.InstanceCreated{
		SeriesID:       series.ID,
		EventID:        instance.ID,
		InstanceNumber: *instance.RecurringInstanceNumber,
		StartDateTime:  instance.StartDateTime,
		EndDateTime:    instance.EndDateTime,
		CreatedBy:      series.CreatedBy,
	})
}

// CreateRecurringEventInstance stores an instance with exactly the given
// bounds and queues its summary. Inside a transaction the summary is queued
// once the transaction commits.
func (s *seriesServiceImpl) CreateRecurringEventInstance(ctx context.Context, series *models.RecurringSeries, instanceNumber int, start, end time.Time) (*models.Event, error) {
	instance := s.newInstance(series, instanceNumber, start, end)
	if err := s.eventRepo.Create(ctx, instance); err != nil {
		return nil, err
	}
	db.AfterCommit(ctx, func() {
		s.summaries.ScheduleSummary(ctx, instance.ID)
	})
	return instance, nil
}

// checkMaterializable applies the preconditions of materialization in order
// and returns the instance to anchor from.
func (s *seriesServiceImpl) checkMaterializable(ctx context.Context, series *models.RecurringSeries, userID int64) (*models.Event, error) {
	if series.CreatedBy != userID {
		return nil, apperrors.ErrNotSeriesOwner
	}
	if series.Status != models.SeriesActive {
		return nil, apperrors.ErrSeriesInactive
	}
	if series.CapReached() {
		return nil, apperrors.ErrSeriesCapReached
	}
	if series.Ended(s.now()) {
		return nil, apperrors.ErrSeriesEnded
	}

	last, err := s.eventRepo.GetLatestInstance(ctx, series.ID)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, apperrors.ErrNoAnchorInstance
	}
	return last, nil
}

func (s *seriesServiceImpl) CreateNextInstance(ctx context.Context, userID int64, seriesID uuid.UUID) (*models.Event, error) {
	var (
		series  *models.RecurringSeries
		created *models.Event
	)

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		series, err = s.seriesRepo.GetByIDForUpdate(ctx, seriesID)
		if err != nil {
			return err
		}

		last, err := s.checkMaterializable(ctx, series, userID)
		if err != nil {
			return err
		}

		nextStart, err := recurrence.CalculateNextRecurringDate(last.StartDateTime, recurrence.Type(series.RecurringType), series.RecurringValue)
		if err != nil {
			return apperrors.NewBadRequestError(fmt.Sprintf("Series has an invalid recurrence rule: %v", err))
		}
		nextEnd := nextStart.Add(last.Duration())

		number := series.CurrentInstanceNumber + 1
		if last.RecurringInstanceNumber != nil && *last.RecurringInstanceNumber >= number {
			number = *last.RecurringInstanceNumber + 1
		}

		created, err = s.CreateRecurringEventInstance(ctx, series, number, nextStart, nextEnd)
		if err != nil {
			return err
		}
		if err := s.seriesRepo.RecordInstance(ctx, series.ID, number); err != nil {
			return err
		}

		series.CurrentInstanceNumber = number
		series.TotalInstancesCreated++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("seriesID", seriesID.String()).
		Str("eventID", created.ID.String()).
		Int("instanceNumber", *created.RecurringInstanceNumber).
		Time("start", created.StartDateTime).
		Msg("Series instance created")

	s.publishInstanceCreated(ctx, series, created)
	return created, nil
}

func (s *seriesServiceImpl) ShouldCreateNextInstance(series *models.RecurringSeries, lastEvent *models.Event, now time.Time) bool {
	if series == nil || lastEvent == nil {
		return false
	}
	if series.Status != models.SeriesActive || series.CapReached() || series.Ended(now) {
		return false
	}
	return !now.Before(lastEvent.EndDateTime)
}

// MaterializeDueInstances creates the next instance of every active series
// whose last instance has ended. Failures are logged per series.
func (s *seriesServiceImpl) MaterializeDueInstances(ctx context.Context) (int, error) {
	active, err := s.seriesRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing active series: %w", err)
	}

	created := 0
	for _, series := range active {
		if ctx.Err() != nil {
			return created, ctx.Err()
		}

		last, err := s.eventRepo.GetLatestInstance(ctx, series.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("seriesID", series.ID.String()).Msg("Failed to load latest instance")
			continue
		}
		if !s.ShouldCreateNextInstance(series, last, s.now()) {
			continue
		}

		if _, err := s.CreateNextInstance(ctx, series.CreatedBy, series.ID); err != nil {
			s.logger.Warn().Err(err).Str("seriesID", series.ID.String()).Msg("Automatic materialization failed")
			continue
		}
		created++
	}
	return created, nil
}

func (s *seriesServiceImpl) UpdateSeriesStatistics(ctx context.Context, seriesID uuid.UUID) (*models.SeriesStatistics, error) {
	instances, err := s.eventRepo.ListBySeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	registrations, attendances, err := s.registrationRepo.SeriesTotals(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	stats := models.SeriesStatistics{
		TotalInstancesCreated: len(instances),
		TotalRegistrations:    registrations,
		TotalAttendances:      attendances,
	}
	if len(instances) > 0 {
		stats.AverageAttendance = math.Round(float64(attendances)/float64(len(instances))*100) / 100
	}

	if err := s.seriesRepo.UpdateStatistics(ctx, seriesID, stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ownedSeries loads a series and checks that userID created it
func (s *seriesServiceImpl) ownedSeries(ctx context.Context, userID int64, seriesID uuid.UUID) (*models.RecurringSeries, error) {
	series, err := s.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if series.CreatedBy != userID {
		return nil, apperrors.ErrNotSeriesOwner
	}
	return series, nil
}

func (s *seriesServiceImpl) GetSeriesStatistics(ctx context.Context, userID int64, seriesID uuid.UUID) (*models.SeriesStatistics, error) {
	if _, err := s.ownedSeries(ctx, userID, seriesID); err != nil {
		return nil, err
	}
	return s.UpdateSeriesStatistics(ctx, seriesID)
}

func (s *seriesServiceImpl) GetMySeries(ctx context.Context, userID int64, page, size int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	list, total, err := s.seriesRepo.ListByCreator(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing series: %w", err)
	}
	if list == nil {
		list = []*models.RecurringSeries{}
	}
	return &dto.PaginatedResponse{
		Items:      list,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

func (s *seriesServiceImpl) GetSeriesWithInstances(ctx context.Context, userID int64, seriesID uuid.UUID) (*dto.SeriesDetailResponse, error) {
	series, err := s.ownedSeries(ctx, userID, seriesID)
	if err != nil {
		return nil, err
	}

	instances, err := s.eventRepo.ListBySeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if instances == nil {
		instances = []*models.Event{}
	}

	return &dto.SeriesDetailResponse{
		Series:    series,
		Instances: instances,
		Pattern:   recurrence.Pattern(recurrence.Type(series.RecurringType), series.RecurringValue),
	}, nil
}

// UpdateStatus sets the series status and stamps it onto every instance that has not started yet
func (s *seriesServiceImpl) UpdateStatus(ctx context.Context, userID int64, seriesID uuid.UUID, status models.SeriesStatus) (*dto.SeriesStatusResponse, error) {
	if !status.IsValid() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid series status %q", status))
	}

	var (
		series  *models.RecurringSeries
		updated int64
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		series, err = s.seriesRepo.GetByIDForUpdate(ctx, seriesID)
		if err != nil {
			return err
		}
		if series.CreatedBy != userID {
			return apperrors.ErrNotSeriesOwner
		}

		if err := s.seriesRepo.UpdateStatus(ctx, seriesID, status); err != nil {
			return err
		}
		updated, err = s.eventRepo.UpdateFutureRecurringStatus(ctx, seriesID, status, s.now())
		if err != nil {
			return err
		}
		series.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("seriesID", seriesID.String()).
		Str("status", string(status)).
		Int64("updatedInstances", updated).
		Msg("Series status changed")

	publish(ctx, s.publisher, s.logger, events.TypeSeriesStatusChanged, seriesID.String(), events.SeriesStatusChanged{
		SeriesID:         seriesID,
		Status:           string(status),
		UpdatedInstances: updated,
		ChangedBy:        userID,
	})

	return &dto.SeriesStatusResponse{Series: series, UpdatedInstances: updated}, nil
}

// DeleteSeries cancels a series; nothing is removed
func (s *seriesServiceImpl) DeleteSeries(ctx context.Context, userID int64, seriesID uuid.UUID) (*dto.SeriesStatusResponse, error) {
	return s.UpdateStatus(ctx, userID, seriesID, models.SeriesCancelled)
}

// GenerateSummaries queues a summary task for every instance without one
func (s *seriesServiceImpl) GenerateSummaries(ctx context.Context, userID int64, seriesID uuid.UUID) (int, error) {
	if _, err := s.ownedSeries(ctx, userID, seriesID); err != nil {
		return 0, err
	}

	missing, err := s.eventRepo.ListMissingSummary(ctx, seriesID)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, e := range missing {
		if s.summaries.ScheduleSummary(ctx, e.ID) {
			queued++
		}
	}

	s.logger.Info().Str("seriesID", seriesID.String()).Int("missing", len(missing)).Int("queued", queued).Msg("Summary backfill queued")
	return queued, nil
}
