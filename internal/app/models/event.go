package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Event is a concrete, persisted event. Instances of a recurring series are
// events that reference the series.
type Event struct {
	ID uuid.UUID `json:"id" db:"id"`

	EventTemplate

	StartDateTime time.Time `json:"startDateTime" db:"start_date_time"`
	EndDateTime   time.Time `json:"endDateTime" db:"end_date_time"`
	CreatedBy     int64     `json:"createdBy" db:"created_by"`

	// Recurrence metadata carried by the event that defines a series
	RecurringEvent bool           `json:"recurringEvent" db:"recurring_event"`
	RecurringType  *RecurringType `json:"recurringType,omitempty" db:"recurring_type"`
	RecurringValue *string        `json:"recurringValue,omitempty" db:"recurring_value"`

	RecurringSeriesID       *uuid.UUID    `json:"recurringSeriesId,omitempty" db:"recurring_series_id"`
	RecurringInstanceNumber *int          `json:"recurringInstanceNumber,omitempty" db:"recurring_instance_number"`
	IsRecurringInstance     bool          `json:"isRecurringInstance" db:"is_recurring_instance"`
	RecurringStatus         *SeriesStatus `json:"recurringStatus,omitempty" db:"recurring_status"`

	AISummary          *string    `json:"aiSummary,omitempty" db:"ai_summary"`
	SummaryGeneratedAt *time.Time `json:"summaryGeneratedAt,omitempty" db:"summary_generated_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Duration returns the length of the event
func (e *Event) Duration() time.Duration {
	return e.EndDateTime.Sub(e.StartDateTime)
}

// HasRecurrence reports whether the event carries full recurrence metadata
func (e *Event) HasRecurrence() bool {
	return e.RecurringEvent &&
		e.RecurringType != nil && *e.RecurringType != "" &&
		e.RecurringValue != nil && *e.RecurringValue != ""
}

// IsOrganizer reports whether userID created the event or is on its organizer team
func (e *Event) IsOrganizer(userID int64) bool {
	return e.CreatedBy == userID || slices.Contains(e.OrganizerTeam, userID)
}

// Registration links a volunteer to an event
type Registration struct {
	ID           int64     `json:"id" db:"id"`
	EventID      uuid.UUID `json:"eventId" db:"event_id"`
	UserID       int64     `json:"userId" db:"user_id"`
	Attended     bool      `json:"attended" db:"attended"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`
}
