package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/repositories"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/events"
	"github.com/yigit/eventhub/internal/pkg/ics"
	"github.com/yigit/eventhub/internal/pkg/recurrence"
)

// CalendarService projects calendars and manages bookmarks
type CalendarService interface {
	// GenerateRecurringInstances projects base onto [start, end] as virtual occurrences
	GenerateRecurringInstances(base *models.Event, start, end time.Time) []models.CalendarEntry
	// ProcessRecurringEvents replaces recurring events by their occurrences; other events pass through
	ProcessRecurringEvents(list []*models.Event, start, end time.Time) []models.CalendarEntry
	GetCalendarEvents(ctx context.Context, userID int64, start, end time.Time, role models.CalendarRole) ([]models.CalendarEntry, error)
	ExportICS(ctx context.Context, userID int64, start, end time.Time, role models.CalendarRole) (string, error)

	AddToCalendar(ctx context.Context, userID int64, eventID uuid.UUID) (*models.CalendarBookmark, error)
	RemoveFromCalendar(ctx context.Context, userID int64, eventID uuid.UUID) error
	GetCalendarStatus(ctx context.Context, userID int64, eventID uuid.UUID) (*models.CalendarStatus, error)
}

type calendarServiceImpl struct {
	eventRepo        repositories.IEventRepository
	registrationRepo repositories.IRegistrationRepository
	calendarRepo     repositories.ICalendarRepository
	publisher        events.Publisher
	feed             ics.Options
	now              Clock
	logger           zerolog.Logger
}

// NewCalendarService creates a new calendar service instance. feed sets the
// product id and timezone of exported iCalendar documents.
func NewCalendarService(
	eventRepo repositories.IEventRepository,
	registrationRepo repositories.IRegistrationRepository,
	calendarRepo repositories.ICalendarRepository,
	publisher events.Publisher,
	feed ics.Options,
	logger zerolog.Logger,
) CalendarService {
	return &calendarServiceImpl{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		calendarRepo:     calendarRepo,
		publisher:        publisher,
		feed:             feed,
		now:              time.Now,
		logger:           logger,
	}
}

func (s *calendarServiceImpl) GenerateRecurringInstances(base *models.Event, start, end time.Time) []models.CalendarEntry {
	if base == nil || !base.HasRecurrence() {
		return nil
	}

	typ := recurrence.Type(*base.RecurringType)
	occurrences, err := recurrence.Project(base.StartDateTime, base.EndDateTime, typ, recurrence.ProjectionConfig{
		RangeStart: start,
		RangeEnd:   end,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("eventID", base.ID.String()).Msg("Skipping event with unusable recurrence")
		return nil
	}

	pattern := recurrence.Pattern(typ, *base.RecurringValue)
	out := make([]models.CalendarEntry, 0, len(occurrences))
	for _, occ := range occurrences {
		entry := entryFromEvent(base)
		originalID := base.ID
		index := occ.Index

		entry.ID = fmt.Sprintf("%s_recurring_%d", base.ID, occ.Index)
		entry.StartDateTime = occ.Start
		entry.EndDateTime = occ.End
		entry.IsRecurringInstance = true
		entry.OriginalEventID = &originalID
		entry.RecurringIndex = &index
		entry.RecurringPattern = pattern
		out = append(out, entry)
	}
	return out
}

func (s *calendarServiceImpl) ProcessRecurringEvents(list []*models.Event, start, end time.Time) []models.CalendarEntry {
	out := make([]models.CalendarEntry, 0, len(list))
	for _, e := range list {
		if e == nil {
			continue
		}
		if e.HasRecurrence() {
			out = append(out, s.GenerateRecurringInstances(e, start, end)...)
			continue
		}
		out = append(out, entryFromEvent(e))
	}
	return dropProjectedSlots(out, projectedSlots(out))
}

// slotKey identifies one occurrence slot of a series
type slotKey struct {
	seriesID uuid.UUID
	start    int64
}

// projectedSlots indexes the series slots covered by virtual occurrences
func projectedSlots(groups ...[]models.CalendarEntry) map[slotKey]struct{} {
	slots := make(map[slotKey]struct{})
	for _, entries := range groups {
		for _, entry := range entries {
			if entry.OriginalEventID == nil || entry.RecurringSeriesID == nil {
				continue
			}
			slots[slotKey{*entry.RecurringSeriesID, entry.StartDateTime.UnixNano()}] = struct{}{}
		}
	}
	return slots
}

// dropProjectedSlots removes materialized instances whose slot already shows
// up as a projected occurrence of their anchor.
func dropProjectedSlots(entries []models.CalendarEntry, slots map[slotKey]struct{}) []models.CalendarEntry {
	if len(slots) == 0 {
		return entries
	}
	return slices.DeleteFunc(entries, func(entry models.CalendarEntry) bool {
		if entry.OriginalEventID != nil || entry.RecurringSeriesID == nil {
			return false
		}
		_, covered := slots[slotKey{*entry.RecurringSeriesID, entry.StartDateTime.UnixNano()}]
		return covered
	})
}

func entryFromEvent(e *models.Event) models.CalendarEntry {
	return models.CalendarEntry{
		ID:                  e.ID.String(),
		EventID:             e.ID,
		Title:               e.Title,
		Description:         e.Description,
		Location:            e.Location,
		StartDateTime:       e.StartDateTime,
		EndDateTime:         e.EndDateTime,
		CreatedBy:           e.CreatedBy,
		IsRecurringInstance: e.IsRecurringInstance,
		RecurringSeriesID:   e.RecurringSeriesID,
	}
}

// GetCalendarEvents builds the calendar of userID from the primary source of
// role plus bookmarks. Entries are unique by id and sorted by start time.
func (s *calendarServiceImpl) GetCalendarEvents(ctx context.Context, userID int64, start, end time.Time, role models.CalendarRole) ([]models.CalendarEntry, error) {
	if end.Before(start) {
		return nil, apperrors.NewBadRequestError("Calendar end must not be before start")
	}

	var (
		primary  []*models.Event
		attended = make(map[uuid.UUID]bool)
		source   models.EntrySource
	)

	switch role {
	case models.CalendarRoleVolunteer:
		registered, err := s.registrationRepo.ListUserEventsInRange(ctx, userID, start, end)
		if err != nil {
			return nil, fmt.Errorf("error loading registered events: %w", err)
		}
		for _, r := range registered {
			if r.Event == nil {
				continue
			}
			primary = append(primary, r.Event)
			attended[r.Event.ID] = r.Attended
		}
		source = models.SourceRegistered

	case models.CalendarRoleOrganizer:
		organized, err := s.eventRepo.ListOrganizedInRange(ctx, userID, start, end)
		if err != nil {
			return nil, fmt.Errorf("error loading organized events: %w", err)
		}
		primary = organized
		source = models.SourceOrganized

	default:
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Unknown calendar role %q", role))
	}

	bookmarked, err := s.calendarRepo.ListEventsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error loading bookmarked events: %w", err)
	}

	inPrimary := make(map[uuid.UUID]struct{}, len(primary))
	for _, e := range primary {
		inPrimary[e.ID] = struct{}{}
	}
	extra := make([]*models.Event, 0, len(bookmarked))
	for _, e := range bookmarked {
		if e == nil {
			continue
		}
		if _, ok := inPrimary[e.ID]; !ok {
			extra = append(extra, e)
		}
	}

	now := s.now()
	seen := make(map[string]struct{})
	out := make([]models.CalendarEntry, 0, len(primary)+len(extra))

	add := func(entries []models.CalendarEntry, src models.EntrySource) {
		for _, entry := range entries {
			if entry.ID == "" || entry.EventID == uuid.Nil || entry.StartDateTime.IsZero() {
				s.logger.Debug().Str("entryID", entry.ID).Msg("Dropping malformed calendar entry")
				continue
			}
			if _, dup := seen[entry.ID]; dup {
				continue
			}
			seen[entry.ID] = struct{}{}

			entry.Source = src
			if src != models.SourceBookmarked {
				entry.Attended = attended[entry.EventID]
			}
			entry.Status = entryStatus(entry, userID, role, now)
			out = append(out, entry)
		}
	}
	primaryEntries := s.ProcessRecurringEvents(primary, start, end)
	extraEntries := s.ProcessRecurringEvents(extra, start, end)
	// an anchor in one source can cover an instance from the other
	slots := projectedSlots(primaryEntries, extraEntries)
	add(dropProjectedSlots(primaryEntries, slots), source)
	add(dropProjectedSlots(extraEntries, slots), models.SourceBookmarked)

	slices.SortStableFunc(out, func(a, b models.CalendarEntry) int {
		if c := a.StartDateTime.Compare(b.StartDateTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// entryStatus derives the display status of an entry at now
func entryStatus(entry models.CalendarEntry, userID int64, role models.CalendarRole, now time.Time) models.EntryStatus {
	if now.Before(entry.EndDateTime) {
		return models.EntryUpcoming
	}
	if role == models.CalendarRoleOrganizer && entry.CreatedBy == userID {
		return models.EntryCreated
	}
	if entry.Source != models.SourceBookmarked && entry.Attended {
		return models.EntryAttended
	}
	return models.EntryMissed
}

func (s *calendarServiceImpl) ExportICS(ctx context.Context, userID int64, start, end time.Time, role models.CalendarRole) (string, error) {
	entries, err := s.GetCalendarEvents(ctx, userID, start, end, role)
	if err != nil {
		return "", err
	}

	opts := s.feed
	opts.Name = fmt.Sprintf("Eventhub %s calendar", role)
	opts.Now = s.now()
	return ics.Export(entries, opts), nil
}

// membership loads the event and reports the implicit calendar sources of userID
func (s *calendarServiceImpl) membership(ctx context.Context, userID int64, eventID uuid.UUID) (registered, organizer bool, err error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return false, false, err
	}
	registered, err = s.registrationRepo.IsRegistered(ctx, eventID, userID)
	if err != nil {
		return false, false, err
	}
	return registered, event.IsOrganizer(userID), nil
}

func (s *calendarServiceImpl) AddToCalendar(ctx context.Context, userID int64, eventID uuid.UUID) (*models.CalendarBookmark, error) {
	registered, organizer, err := s.membership(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, apperrors.ErrRegisteredEvent
	}
	if organizer {
		return nil, apperrors.ErrOrganizerEvent
	}

	exists, err := s.calendarRepo.Exists(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrBookmarkExists
	}

	bookmark := &models.CalendarBookmark{
		ID:      uuid.New(),
		UserID:  userID,
		EventID: eventID,
		AddedAt: s.now(),
	}
	if err := s.calendarRepo.Add(ctx, bookmark); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, events.TypeBookmarkAdded, eventID.String(), events.BookmarkChanged{UserID: userID, EventID: eventID})
	return bookmark, nil
}

func (s *calendarServiceImpl) RemoveFromCalendar(ctx context.Context, userID int64, eventID uuid.UUID) error {
	registered, organizer, err := s.membership(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if registered {
		return apperrors.ErrRegisteredEvent
	}
	if organizer {
		return apperrors.ErrOrganizerEvent
	}

	removed, err := s.calendarRepo.Remove(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.ErrBookmarkNotFound
	}

	publish(ctx, s.publisher, s.logger, events.TypeBookmarkRemoved, eventID.String(), events.BookmarkChanged{UserID: userID, EventID: eventID})
	return nil
}

func (s *calendarServiceImpl) GetCalendarStatus(ctx context.Context, userID int64, eventID uuid.UUID) (*models.CalendarStatus, error) {
	registered, organizer, err := s.membership(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	bookmarked, err := s.calendarRepo.Exists(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	status := models.NewCalendarStatus(registered, organizer, bookmarked)
	return &status, nil
}
