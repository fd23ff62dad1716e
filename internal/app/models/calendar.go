package models

import (
	"time"

	"github.com/google/uuid"
)

// CalendarBookmark is a user's manual pin of an event onto their calendar
type CalendarBookmark struct {
	ID      uuid.UUID `json:"id" db:"id"`
	UserID  int64     `json:"userId" db:"user_id"`
	EventID uuid.UUID `json:"eventId" db:"event_id"`
	AddedAt time.Time `json:"addedAt" db:"added_at"`
}

// CalendarRole selects the perspective a calendar is built from
type CalendarRole string

const (
	CalendarRoleVolunteer CalendarRole = "volunteer"
	CalendarRoleOrganizer CalendarRole = "organizer"
)

// EntryStatus is the display status of a calendar entry
type EntryStatus string

const (
	EntryUpcoming EntryStatus = "upcoming"
	EntryAttended EntryStatus = "attended"
	EntryMissed   EntryStatus = "missed"
	EntryCreated  EntryStatus = "created"
)

// EntrySource tells where a calendar entry came from
type EntrySource string

const (
	SourceRegistered EntrySource = "registered"
	SourceOrganized  EntrySource = "organized"
	SourceBookmarked EntrySource = "bookmarked"
)

// CalendarEntry is one displayable item of a calendar: either a stored event
// or a virtual occurrence of a recurring one. Virtual occurrences are never
// persisted.
type CalendarEntry struct {
	ID            string    `json:"id" example:"5b0c...-..._recurring_0"`
	EventID       uuid.UUID `json:"eventId"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
	CreatedBy     int64     `json:"createdBy"`

	IsRecurringInstance bool       `json:"isRecurringInstance"`
	OriginalEventID     *uuid.UUID `json:"originalEventId,omitempty"`
	RecurringIndex      *int       `json:"recurringIndex,omitempty"`
	RecurringPattern    string     `json:"recurringPattern,omitempty" example:"Every Monday"`
	RecurringSeriesID   *uuid.UUID `json:"recurringSeriesId,omitempty"`

	Source   EntrySource `json:"source"`
	Status   EntryStatus `json:"status"`
	Attended bool        `json:"-"`
}

// CalendarStatus is the bookmark toggle state of one event for one user
type CalendarStatus struct {
	IsRegistered     bool `json:"isRegistered"`
	IsOrganizerEvent bool `json:"isOrganizerEvent"`
	IsInCalendar     bool `json:"isInCalendar"`
	CanAdd           bool `json:"canAdd"`
	CanRemove        bool `json:"canRemove"`
}

// NewCalendarStatus derives the toggle flags from the three underlying facts
func NewCalendarStatus(registered, organizer, bookmarked bool) CalendarStatus {
	implicit := registered || organizer
	return CalendarStatus{
		IsRegistered:     registered,
		IsOrganizerEvent: organizer,
		IsInCalendar:     implicit || bookmarked,
		CanAdd:           !implicit && !bookmarked,
		CanRemove:        !implicit && bookmarked,
	}
}
