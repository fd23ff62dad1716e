package models

import (
	"time"

	"github.com/google/uuid"
)

// EventTemplate is the bag of attributes a series stamps onto every instance
type EventTemplate struct {
	Title                string   `json:"title" db:"title"`
	Description          string   `json:"description" db:"description"`
	Location             string   `json:"location" db:"location"`
	Capacity             int      `json:"capacity" db:"capacity"`
	Equipment            []string `json:"equipment" db:"equipment"`
	QuestionnaireEnabled bool     `json:"questionnaireEnabled" db:"questionnaire_enabled"`
	OrganizerTeam        []int64  `json:"organizerTeam" db:"organizer_team"`
	OrganizationName     *string  `json:"organizationName,omitempty" db:"organization_name"`
}

// RecurringSeries represents a recurrence rule plus its instance template
type RecurringSeries struct {
	ID uuid.UUID `json:"id" db:"id"`

	EventTemplate

	RecurringType  RecurringType `json:"recurringType" db:"recurring_type" example:"weekly"`
	RecurringValue string        `json:"recurringValue" db:"recurring_value" example:"Monday"`
	StartDate      time.Time     `json:"startDate" db:"start_date"`
	EndDate        *time.Time    `json:"endDate,omitempty" db:"end_date"`
	MaxInstances   *int          `json:"maxInstances,omitempty" db:"max_instances"`
	Status         SeriesStatus  `json:"status" db:"status" example:"active"`
	CreatedBy      int64         `json:"createdBy" db:"created_by"`

	CurrentInstanceNumber int     `json:"currentInstanceNumber" db:"current_instance_number"`
	TotalInstancesCreated int     `json:"totalInstancesCreated" db:"total_instances_created"`
	TotalRegistrations    int     `json:"totalRegistrations" db:"total_registrations"`
	TotalAttendances      int     `json:"totalAttendances" db:"total_attendances"`
	AverageAttendance     float64 `json:"averageAttendance" db:"average_attendance"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CapReached reports whether the series already holds its maximum number of instances
func (s *RecurringSeries) CapReached() bool {
	return s.MaxInstances != nil && s.TotalInstancesCreated >= *s.MaxInstances
}

// Ended reports whether now is at or after the series end date
func (s *RecurringSeries) Ended(now time.Time) bool {
	return s.EndDate != nil && !now.Before(*s.EndDate)
}

// SeriesStatistics holds the aggregate counters of a series
type SeriesStatistics struct {
	TotalInstancesCreated int     `json:"totalInstancesCreated"`
	TotalRegistrations    int     `json:"totalRegistrations"`
	TotalAttendances      int     `json:"totalAttendances"`
	AverageAttendance     float64 `json:"averageAttendance"`
}
