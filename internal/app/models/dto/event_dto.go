package dto

import "time"

// CreateEventRequest creates a one-off event
type CreateEventRequest struct {
	EventTemplateRequest

	StartDateTime time.Time `json:"startDateTime" binding:"required" example:"2024-02-03T10:00:00Z"`
	EndDateTime   time.Time `json:"endDateTime" binding:"required,gtfield=StartDateTime" example:"2024-02-03T13:00:00Z"`
}

// AttendanceRequest marks a registrant as attended or not
type AttendanceRequest struct {
	UserID   int64 `json:"userId" binding:"required,min=1" example:"7"`
	Attended *bool `json:"attended" binding:"required" example:"true"`
}
