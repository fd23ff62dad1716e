// Package ics renders calendar entries as an iCalendar feed.
package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/yigit/eventhub/internal/app/models"
)

const (
	DefaultProductID = "-//eventhub//calendar//EN"
	uidDomain        = "eventhub"
)

// Options controls the feed header
type Options struct {
	ProductID string
	Name      string
	Timezone  string
	// Now is stamped as DTSTAMP on every VEVENT
	Now time.Time
}

// Export renders entries as a VCALENDAR document
func Export(entries []models.CalendarEntry, opts Options) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)

	productID := opts.ProductID
	if productID == "" {
		productID = DefaultProductID
	}
	cal.SetProductId(productID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}
	if opts.Timezone != "" {
		cal.SetXWRTimezone(opts.Timezone)
	}

	stamp := opts.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}

	for _, entry := range entries {
		ev := cal.AddEvent(UID(entry.ID))
		ev.SetDtStampTime(stamp.UTC())
		ev.SetStartAt(entry.StartDateTime.UTC())
		ev.SetEndAt(entry.EndDateTime.UTC())
		ev.SetSummary(entry.Title)
		if entry.Description != "" {
			ev.SetDescription(entry.Description)
		}
		if entry.Location != "" {
			ev.SetLocation(entry.Location)
		}
		ev.SetStatus(ical.ObjectStatusConfirmed)
		ev.AddProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(entry.Source)))
		ev.AddProperty(ical.ComponentProperty("X-EVENTHUB-STATUS"), string(entry.Status))
		if entry.RecurringPattern != "" {
			ev.AddProperty(ical.ComponentProperty("X-EVENTHUB-PATTERN"), entry.RecurringPattern)
		}
	}

	return cal.Serialize()
}

// UID builds the iCalendar UID of a calendar entry id
func UID(entryID string) string {
	return fmt.Sprintf("%s@%s", entryID, uidDomain)
}
