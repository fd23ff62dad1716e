package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
)

func TestExport_RoundTrip(t *testing.T) {
	base := uuid.New()
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	entries := []models.CalendarEntry{
		{
			ID:               base.String() + "_recurring_0",
			EventID:          base,
			Title:            "Beach cleanup",
			Location:         "North pier",
			StartDateTime:    start,
			EndDateTime:      start.Add(2 * time.Hour),
			RecurringPattern: "Every Monday",
			Source:           models.SourceRegistered,
			Status:           models.EntryUpcoming,
		},
		{
			ID:            uuid.NewString(),
			Title:         "Food bank shift",
			StartDateTime: start.Add(48 * time.Hour),
			EndDateTime:   start.Add(50 * time.Hour),
			Source:        models.SourceBookmarked,
			Status:        models.EntryMissed,
		},
	}

	out := Export(entries, Options{Name: "My calendar", Now: start})
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "PRODID:"+DefaultProductID)
	assert.Contains(t, out, "X-EVENTHUB-PATTERN:Every Monday")

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	parsed := cal.Events()
	require.Len(t, parsed, 2)

	first := parsed[0]
	assert.Equal(t, UID(entries[0].ID), first.Id())
	assert.Equal(t, "Beach cleanup", first.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "North pier", first.GetProperty(ical.ComponentPropertyLocation).Value)

	gotStart, err := first.GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(gotStart))

	gotEnd, err := first.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, gotEnd.Sub(gotStart))
}

func TestExport_Empty(t *testing.T) {
	out := Export(nil, Options{ProductID: "-//test//EN"})
	assert.Contains(t, out, "PRODID:-//test//EN")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
