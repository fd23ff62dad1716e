package models

// RoleType defines the user role type
type RoleType string

const (
	RoleVolunteer RoleType = "VOLUNTEER"
	RoleOrganizer RoleType = "ORGANIZER"
)

// IsValid reports whether r is a known role
func (r RoleType) IsValid() bool {
	return r == RoleVolunteer || r == RoleOrganizer
}

// RecurringType is the recurrence kind of a series
type RecurringType string

const (
	RecurringWeekly  RecurringType = "weekly"
	RecurringMonthly RecurringType = "monthly"
)

// SeriesStatus is the lifecycle status of a recurring series. The same values
// are stamped onto instances as their recurring status.
type SeriesStatus string

const (
	SeriesActive    SeriesStatus = "active"
	SeriesPaused    SeriesStatus = "paused"
	SeriesCompleted SeriesStatus = "completed"
	SeriesCancelled SeriesStatus = "cancelled"
)

// IsValid reports whether s is a known series status
func (s SeriesStatus) IsValid() bool {
	switch s {
	case SeriesActive, SeriesPaused, SeriesCompleted, SeriesCancelled:
		return true
	}
	return false
}
