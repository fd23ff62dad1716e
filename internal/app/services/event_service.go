package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/repositories"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

var errOrganizerRegistration = apperrors.NewPreconditionError("Organizers cannot register for their own event")

// EventService defines the operations on one-off events and registrations
type EventService interface {
	CreateEvent(ctx context.Context, userID int64, req *dto.CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
	Register(ctx context.Context, userID int64, eventID uuid.UUID) (*models.Registration, error)
	Unregister(ctx context.Context, userID int64, eventID uuid.UUID) error
	SetAttendance(ctx context.Context, userID int64, eventID uuid.UUID, req *dto.AttendanceRequest) error
}

type eventServiceImpl struct {
	eventRepo        repositories.IEventRepository
	registrationRepo repositories.IRegistrationRepository
	tx               db.TxRunner
	summaries        SummaryScheduler
	now              Clock
	logger           zerolog.Logger
}

// NewEventService creates a new event service instance
func NewEventService(
	eventRepo repositories.IEventRepository,
	registrationRepo repositories.IRegistrationRepository,
	tx db.TxRunner,
	summaries SummaryScheduler,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		tx:               tx,
		summaries:        summaries,
		now:              time.Now,
		logger:           logger,
	}
}

func (s *eventServiceImpl) CreateEvent(ctx context.Context, userID int64, req *dto.CreateEventRequest) (*models.Event, error) {
	if !req.EndDateTime.After(req.StartDateTime) {
		return nil, apperrors.NewBadRequestError("Event must end after it starts")
	}

	event := &models.Event{
		ID:            uuid.New(),
		EventTemplate: req.Template(),
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
		CreatedBy:     userID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	s.logger.Info().Str("eventID", event.ID.String()).Int64("userID", userID).Msg("Event created")
	s.summaries.ScheduleSummary(ctx, event.ID)
	return event, nil
}

func (s *eventServiceImpl) GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, eventID)
}

// Register signs a volunteer up for an event. Capacity zero means unlimited.
func (s *eventServiceImpl) Register(ctx context.Context, userID int64, eventID uuid.UUID) (*models.Registration, error) {
	reg := &models.Registration{EventID: eventID, UserID: userID}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.IsOrganizer(userID) {
			return errOrganizerRegistration
		}

		registered, err := s.registrationRepo.IsRegistered(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if registered {
			return apperrors.ErrAlreadyRegisteredForEvent
		}

		if event.Capacity > 0 {
			count, err := s.registrationRepo.CountForEvent(ctx, eventID)
			if err != nil {
				return err
			}
			if count >= event.Capacity {
				return apperrors.ErrEventFull
			}
		}

		reg.RegisteredAt = s.now()
		return s.registrationRepo.Create(ctx, reg)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("eventID", eventID.String()).Int64("userID", userID).Msg("User registered for event")
	return reg, nil
}

func (s *eventServiceImpl) Unregister(ctx context.Context, userID int64, eventID uuid.UUID) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.registrationRepo.Delete(ctx, eventID, userID)
}

// SetAttendance records whether a registrant attended; creator or team only
func (s *eventServiceImpl) SetAttendance(ctx context.Context, userID int64, eventID uuid.UUID, req *dto.AttendanceRequest) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.IsOrganizer(userID) {
		return apperrors.ErrNotEventOrganizer
	}

	attended := req.Attended != nil && *req.Attended
	if err := s.registrationRepo.SetAttendance(ctx, eventID, req.UserID, attended); err != nil {
		return err
	}

	s.logger.Debug().
		Str("eventID", eventID.String()).
		Int64("volunteerID", req.UserID).
		Bool("attended", attended).
		Msg("Attendance recorded")
	return nil
}
