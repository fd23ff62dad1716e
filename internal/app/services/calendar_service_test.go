package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/events"
	"github.com/yigit/eventhub/internal/pkg/ics"
)

type calendarHarness struct {
	svc       *calendarServiceImpl
	events    *fakeEventRepo
	regs      *fakeRegistrationRepo
	bookmarks *fakeCalendarRepo
	publisher *recordingPublisher
}

func newCalendarHarness(now time.Time) *calendarHarness {
	h := &calendarHarness{
		events:    newFakeEventRepo(),
		publisher: &recordingPublisher{},
	}
	h.regs = newFakeRegistrationRepo(h.events)
	h.bookmarks = newFakeCalendarRepo(h.events)
	h.svc = NewCalendarService(h.events, h.regs, h.bookmarks, h.publisher,
		ics.Options{ProductID: ics.DefaultProductID, Timezone: "UTC"}, zerolog.Nop()).(*calendarServiceImpl)
	h.svc.now = fixedClock(now)
	return h
}

func (h *calendarHarness) addEvent(t *testing.T, title string, createdBy int64, start, end time.Time) *models.Event {
	t.Helper()
	e := &models.Event{
		ID:            uuid.New(),
		EventTemplate: models.EventTemplate{Title: title},
		StartDateTime: start,
		EndDateTime:   end,
		CreatedBy:     createdBy,
	}
	require.NoError(t, h.events.Create(context.Background(), e))
	return e
}

func (h *calendarHarness) addWeeklyAnchor(t *testing.T, createdBy int64) *models.Event {
	t.Helper()
	seriesID := uuid.New()
	typ := models.RecurringWeekly
	value := "Monday"
	e := &models.Event{
		ID:                      uuid.New(),
		EventTemplate:           models.EventTemplate{Title: "Beach cleanup"},
		StartDateTime:           at(2024, time.January, 1, 9, 0),
		EndDateTime:             at(2024, time.January, 1, 11, 0),
		CreatedBy:               createdBy,
		RecurringEvent:          true,
		RecurringType:           &typ,
		RecurringValue:          &value,
		RecurringSeriesID:       &seriesID,
		RecurringInstanceNumber: ptr(1),
	}
	require.NoError(t, h.events.Create(context.Background(), e))
	return e
}

func (h *calendarHarness) register(t *testing.T, eventID uuid.UUID, userID int64, attended bool) {
	t.Helper()
	require.NoError(t, h.regs.Create(context.Background(), &models.Registration{EventID: eventID, UserID: userID, Attended: attended}))
}

func starts(entries []models.CalendarEntry) []time.Time {
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.StartDateTime)
	}
	return out
}

func TestGenerateRecurringInstances_Window(t *testing.T) {
	h := newCalendarHarness(at(2024, time.January, 1, 0, 0))
	anchor := h.addWeeklyAnchor(t, organizerID)

	entries := h.svc.GenerateRecurringInstances(anchor, at(2024, time.January, 10, 0, 0), at(2024, time.January, 31, 23, 59))
	require.Len(t, entries, 3)

	assert.Equal(t, []time.Time{
		at(2024, time.January, 15, 9, 0),
		at(2024, time.January, 22, 9, 0),
		at(2024, time.January, 29, 9, 0),
	}, starts(entries))

	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("%s_recurring_%d", anchor.ID, i), e.ID)
		assert.Equal(t, anchor.ID, e.EventID)
		assert.Equal(t, anchor.ID, *e.OriginalEventID)
		assert.Equal(t, i, *e.RecurringIndex)
		assert.True(t, e.IsRecurringInstance)
		assert.Equal(t, "Every Monday", e.RecurringPattern)
		assert.Equal(t, 2*time.Hour, e.EndDateTime.Sub(e.StartDateTime))
	}
}

func TestGenerateRecurringInstances_Bounded(t *testing.T) {
	h := newCalendarHarness(at(2024, time.January, 1, 0, 0))
	anchor := h.addWeeklyAnchor(t, organizerID)

	entries := h.svc.GenerateRecurringInstances(anchor, at(2020, time.January, 1, 0, 0), at(2034, time.January, 1, 0, 0))
	assert.Len(t, entries, 52)
}

func TestProcessRecurringEvents_ReplacesAnchor(t *testing.T) {
	h := newCalendarHarness(at(2024, time.January, 1, 0, 0))
	anchor := h.addWeeklyAnchor(t, organizerID)
	plain := h.addEvent(t, "Food drive", organizerID, at(2024, time.January, 3, 10, 0), at(2024, time.January, 3, 12, 0))

	entries := h.svc.ProcessRecurringEvents([]*models.Event{anchor, plain, nil}, at(2024, time.January, 1, 0, 0), at(2024, time.January, 14, 0, 0))

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.NotContains(t, ids, anchor.ID.String())
	assert.Contains(t, ids, plain.ID.String())
	assert.Contains(t, ids, anchor.ID.String()+"_recurring_0")
	assert.Contains(t, ids, anchor.ID.String()+"_recurring_1")
	assert.Len(t, entries, 3)
}

func TestProcessRecurringEvents_SkipsMaterializedSlots(t *testing.T) {
	h := newCalendarHarness(at(2024, time.January, 1, 0, 0))
	anchor := h.addWeeklyAnchor(t, organizerID)

	materialized := h.addEvent(t, "Beach cleanup", organizerID, at(2024, time.January, 8, 9, 0), at(2024, time.January, 8, 11, 0))
	materialized.RecurringSeriesID = anchor.RecurringSeriesID
	materialized.IsRecurringInstance = true
	// same series, off the projected grid
	moved := h.addEvent(t, "Beach cleanup", organizerID, at(2024, time.January, 9, 9, 0), at(2024, time.January, 9, 11, 0))
	moved.RecurringSeriesID = anchor.RecurringSeriesID

	entries := h.svc.ProcessRecurringEvents([]*models.Event{materialized, anchor, moved}, at(2024, time.January, 1, 0, 0), at(2024, time.January, 14, 0, 0))

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []string{
		anchor.ID.String() + "_recurring_0",
		anchor.ID.String() + "_recurring_1",
		moved.ID.String(),
	}, ids)
}

func TestGetCalendarEvents_VolunteerScenario(t *testing.T) {
	ctx := context.Background()
	h := newCalendarHarness(at(2024, time.January, 9, 0, 0))
	anchor := h.addWeeklyAnchor(t, organizerID)
	h.register(t, anchor.ID, volunteerID, false)

	entries, err := h.svc.GetCalendarEvents(ctx, volunteerID, at(2024, time.January, 10, 0, 0), at(2024, time.January, 31, 23, 59), models.CalendarRoleVolunteer)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		at(2024, time.January, 15, 9, 0),
		at(2024, time.January, 22, 9, 0),
		at(2024, time.January, 29, 9, 0),
	}, starts(entries))
	for _, e := range entries {
		assert.NotEqual(t, anchor.ID.String(), e.ID)
		assert.Equal(t, models.SourceRegistered, e.Source)
		assert.Equal(t, models.EntryUpcoming, e.Status)
	}
}

func TestGetCalendarEvents_VolunteerStatuses(t *testing.T) {
	ctx := context.Background()
	now := at(2024, time.March, 1, 0, 0)
	h := newCalendarHarness(now)

	attended := h.addEvent(t, "Attended", organizerID, at(2024, time.February, 1, 9, 0), at(2024, time.February, 1, 10, 0))
	missed := h.addEvent(t, "Missed", organizerID, at(2024, time.February, 2, 9, 0), at(2024, time.February, 2, 10, 0))
	upcoming := h.addEvent(t, "Upcoming", organizerID, at(2024, time.March, 2, 9, 0), at(2024, time.March, 2, 10, 0))
	bookmarked := h.addEvent(t, "Bookmarked", organizerID, at(2024, time.February, 3, 9, 0), at(2024, time.February, 3, 10, 0))

	h.register(t, attended.ID, volunteerID, true)
	h.register(t, missed.ID, volunteerID, false)
	h.register(t, upcoming.ID, volunteerID, false)
	// another user's attendance must not leak into the bookmark entry
	h.register(t, bookmarked.ID, 99, true)
	_, err := h.svc.AddToCalendar(ctx, volunteerID, bookmarked.ID)
	require.NoError(t, err)

	entries, err := h.svc.GetCalendarEvents(ctx, volunteerID, at(2024, time.February, 1, 0, 0), at(2024, time.March, 31, 0, 0), models.CalendarRoleVolunteer)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	byTitle := make(map[string]models.CalendarEntry)
	for _, e := range entries {
		byTitle[e.Title] = e
	}
	assert.Equal(t, models.EntryAttended, byTitle["Attended"].Status)
	assert.Equal(t, models.EntryMissed, byTitle["Missed"].Status)
	assert.Equal(t, models.EntryUpcoming, byTitle["Upcoming"].Status)
	assert.Equal(t, models.EntryMissed, byTitle["Bookmarked"].Status)
	assert.Equal(t, models.SourceBookmarked, byTitle["Bookmarked"].Source)

	// sorted by start time
	assert.Equal(t, []string{"Attended", "Missed", "Bookmarked", "Upcoming"}, []string{
		entries[0].Title, entries[1].Title, entries[2].Title, entries[3].Title,
	})
}

func TestGetCalendarEvents_OrganizerStatuses(t *testing.T) {
	ctx := context.Background()
	h := newCalendarHarness(at(2024, time.March, 1, 0, 0))

	own := h.addEvent(t, "Own", organizerID, at(2024, time.February, 1, 9, 0), at(2024, time.February, 1, 10, 0))
	team := h.addEvent(t, "Team", 77, at(2024, time.February, 2, 9, 0), at(2024, time.February, 2, 10, 0))
	team.OrganizerTeam = []int64{organizerID}
	require.NoError(t, h.events.Create(ctx, team))
	future := h.addEvent(t, "Future", organizerID, at(2024, time.March, 5, 9, 0), at(2024, time.March, 5, 10, 0))
	h.addEvent(t, "Unrelated", 77, at(2024, time.February, 3, 9, 0), at(2024, time.February, 3, 10, 0))

	entries, err := h.svc.GetCalendarEvents(ctx, organizerID, at(2024, time.January, 1, 0, 0), at(2024, time.March, 31, 0, 0), models.CalendarRoleOrganizer)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	statuses := make(map[uuid.UUID]models.EntryStatus)
	for _, e := range entries {
		assert.Equal(t, models.SourceOrganized, e.Source)
		statuses[e.EventID] = e.Status
	}
	assert.Equal(t, models.EntryCreated, statuses[own.ID])
	assert.Equal(t, models.EntryMissed, statuses[team.ID])
	assert.Equal(t, models.EntryUpcoming, statuses[future.ID])
}

func TestGetCalendarEvents_PrimarySourceWinsDedup(t *testing.T) {
	ctx := context.Background()
	h := newCalendarHarness(at(2024, time.January, 1, 0, 0))

	e := h.addEvent(t, "Shared", organizerID, at(2024, time.January, 5, 9, 0), at(2024, time.January, 5, 10, 0))
	// a stale bookmark from before the user registered
	require.NoError(t, h.bookmarks.Add(ctx, &models.CalendarBookmark{ID: uuid.New(), UserID: volunteerID, EventID: e.ID}))
	h.register(t, e.ID, volunteerID, false)

	entries, err := h.svc.GetCalendarEvents(ctx, volunteerID, at(2024, time.January, 1, 0, 0), at(2024, time.January, 31, 0, 0), models.CalendarRoleVolunteer)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.SourceRegistered, entries[0].Source)
}

func TestGetCalendarEvents_MaterializedInstancesNotDoubled(t *testing.T) {
	ctx := context.Background()
	h := newCalendarHarness(at(2024, time.February, 1, 0, 0))

	series := NewSeriesService(newFakeSeriesRepo(), h.events, h.regs, passTx{}, &recordingScheduler{}, h.publisher, zerolog.Nop())
	res, err := series.CreateSeries(ctx, organizerID, weeklyMonday())
	require.NoError(t, err)
	_, err = series.CreateNextInstance(ctx, organizerID, res.Series.ID)
	require.NoError(t, err)
	third, err := series.CreateNextInstance(ctx, organizerID, res.Series.ID)
	require.NoError(t, err)
	require.Equal(t, at(2024, time.January, 15, 9, 0), third.StartDateTime)

	entries, err := h.svc.GetCalendarEvents(ctx, organizerID, at(2024, time.January, 10, 0, 0), at(2024, time.January, 31, 23, 59), models.CalendarRoleOrganizer)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []time.Time{
		at(2024, time.January, 15, 9, 0),
		at(2024, time.January, 22, 9, 0),
		at(2024, time.January, 29, 9, 0),
	}, starts(entries))
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("%s_recurring_%d", res.FirstInstance.ID, i), e.ID)
	}

	// an anchor registered by a volunteer covers a bookmarked instance of the same slot
	h.register(t, res.FirstInstance.ID, volunteerID, false)
	require.NoError(t, h.bookmarks.Add(ctx, &models.CalendarBookmark{ID: uuid.New(), UserID: volunteerID, EventID: third.ID}))

	entries, err = h.svc.GetCalendarEvents(ctx, volunteerID, at(2024, time.January, 10, 0, 0), at(2024, time.January, 31, 23, 59), models.CalendarRoleVolunteer)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.NotEqual(t, third.ID.String(), e.ID)
		assert.Equal(t, models.SourceRegistered, e.Source)
	}
}

func TestGetCalendarEvents_InvalidInput(t *testing.T) {
	ctx := context.Background()
	h := newCalendarHarness(at(2024, time.January, 1, 0, 0))

	_, err := h.svc.GetCalendarEvents(ctx, volunteerID, at(2024, time.January, 31, 0, 0), at(2024, time.January, 1, 0, 0), models.CalendarRoleVolunteer)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = h.svc.GetCalendarEvents(ctx, volunteerID, at(2024, time.January, 1, 0, 0), at(2024, time.January, 31, 0, 0), models.CalendarRole("admin"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestBookmarks_MutualExclusion(t *testing.T) {
	ctx := context.Background()
	h := newCalendarHarness(at(2024, time.January, 1, 0, 0))

	registered := h.addEvent(t, "Registered", organizerID, at(2024, time.January, 5, 9, 0), at(2024, time.January, 5, 10, 0))
	h.register(t, registered.ID, volunteerID, false)
	organized := h.addEvent(t, "Organized", organizerID, at(2024, time.January, 6, 9, 0), at(2024, time.January, 6, 10, 0))

	_, err := h.svc.AddToCalendar(ctx, volunteerID, registered.ID)
	assert.ErrorIs(t, err, apperrors.ErrRegisteredEvent)
	assert.ErrorIs(t, h.svc.RemoveFromCalendar(ctx, volunteerID, registered.ID), apperrors.ErrRegisteredEvent)

	_, err = h.svc.AddToCalendar(ctx, organizerID, organized.ID)
	assert.ErrorIs(t, err, apperrors.ErrOrganizerEvent)
	assert.ErrorIs(t, h.svc.RemoveFromCalendar(ctx, organizerID, organized.ID), apperrors.ErrOrganizerEvent)

	// a leftover bookmark row does not change the implicit membership
	require.NoError(t, h.bookmarks.Add(ctx, &models.CalendarBookmark{ID: uuid.New(), UserID: volunteerID, EventID: registered.ID}))
	status, err := h.svc.GetCalendarStatus(ctx, volunteerID, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CalendarStatus{IsRegistered: true, IsInCalendar: true}, *status)

	status, err = h.svc.GetCalendarStatus(ctx, organizerID, organized.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CalendarStatus{IsOrganizerEvent: true, IsInCalendar: true}, *status)
}

func TestBookmarks_AddRemoveStatus(t *testing.T) {
	ctx := context.Background()
	h := newCalendarHarness(at(2024, time.January, 1, 0, 0))
	e := h.addEvent(t, "Open day", organizerID, at(2024, time.January, 5, 9, 0), at(2024, time.January, 5, 10, 0))

	status, err := h.svc.GetCalendarStatus(ctx, volunteerID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CalendarStatus{CanAdd: true}, *status)

	bookmark, err := h.svc.AddToCalendar(ctx, volunteerID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, bookmark.EventID)

	_, err = h.svc.AddToCalendar(ctx, volunteerID, e.ID)
	assert.ErrorIs(t, err, apperrors.ErrBookmarkExists)

	status, err = h.svc.GetCalendarStatus(ctx, volunteerID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CalendarStatus{IsInCalendar: true, CanRemove: true}, *status)

	require.NoError(t, h.svc.RemoveFromCalendar(ctx, volunteerID, e.ID))
	assert.ErrorIs(t, h.svc.RemoveFromCalendar(ctx, volunteerID, e.ID), apperrors.ErrBookmarkNotFound)

	_, err = h.svc.AddToCalendar(ctx, volunteerID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)

	assert.Equal(t, []string{events.TypeBookmarkAdded, events.TypeBookmarkRemoved}, h.publisher.published())
}

func TestExportICS(t *testing.T) {
	ctx := context.Background()
	h := newCalendarHarness(at(2024, time.January, 9, 0, 0))
	anchor := h.addWeeklyAnchor(t, organizerID)
	h.register(t, anchor.ID, volunteerID, false)

	out, err := h.svc.ExportICS(ctx, volunteerID, at(2024, time.January, 10, 0, 0), at(2024, time.January, 31, 23, 59), models.CalendarRoleVolunteer)
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, ics.UID(anchor.ID.String()+"_recurring_0"))
}
