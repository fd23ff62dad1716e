package dto

import (
	"time"

	"github.com/yigit/eventhub/internal/app/models"
)

// EventTemplateRequest carries the attributes shared by one-off events and series
type EventTemplateRequest struct {
	Title                string   `json:"title" binding:"required,max=200" example:"Beach cleanup"`
	Description          string   `json:"description" binding:"max=5000" example:"Help us clean the north beach"`
	Location             string   `json:"location" binding:"max=300" example:"North pier"`
	Capacity             int      `json:"capacity" binding:"min=0" example:"20"`
	Equipment            []string `json:"equipment" example:"gloves,bags"`
	QuestionnaireEnabled bool     `json:"questionnaireEnabled"`
	OrganizerTeam        []int64  `json:"organizerTeam" binding:"omitempty,dive,min=1"`
	OrganizationName     *string  `json:"organizationName,omitempty" binding:"omitempty,max=200"`
}

// Template converts the request into a model template
func (r EventTemplateRequest) Template() models.EventTemplate {
	return models.EventTemplate{
		Title:                r.Title,
		Description:          r.Description,
		Location:             r.Location,
		Capacity:             r.Capacity,
		Equipment:            r.Equipment,
		QuestionnaireEnabled: r.QuestionnaireEnabled,
		OrganizerTeam:        r.OrganizerTeam,
		OrganizationName:     r.OrganizationName,
	}
}

// CreateSeriesRequest defines a recurring series and its first instance
type CreateSeriesRequest struct {
	EventTemplateRequest

	RecurringType  models.RecurringType `json:"recurringType" binding:"required,recurrence_type" example:"weekly"`
	RecurringValue string               `json:"recurringValue" binding:"required" example:"Monday"`
	StartDateTime  time.Time            `json:"startDateTime" binding:"required" example:"2024-01-01T09:00:00Z"`
	EndDateTime    time.Time            `json:"endDateTime" binding:"required,gtfield=StartDateTime" example:"2024-01-01T11:00:00Z"`
	EndDate        *time.Time           `json:"endDate,omitempty" example:"2024-06-30T00:00:00Z"`
	MaxInstances   *int                 `json:"maxInstances,omitempty" binding:"omitempty,min=1" example:"12"`
}

// UpdateSeriesStatusRequest changes the lifecycle status of a series
type UpdateSeriesStatusRequest struct {
	Status models.SeriesStatus `json:"status" binding:"required,series_status" example:"paused"`
}

// SeriesCreatedResponse is returned when a series is defined
type SeriesCreatedResponse struct {
	Series        *models.RecurringSeries `json:"series"`
	FirstInstance *models.Event           `json:"firstInstance"`
}

// SeriesDetailResponse is a series with its instances in instance-number order
type SeriesDetailResponse struct {
	Series    *models.RecurringSeries `json:"series"`
	Instances []*models.Event         `json:"instances"`
	Pattern   string                  `json:"pattern" example:"Every Monday"`
}

// SeriesStatusResponse reports a status change
type SeriesStatusResponse struct {
	Series           *models.RecurringSeries `json:"series"`
	UpdatedInstances int64                   `json:"updatedInstances" example:"4"`
}

// GenerateSummariesResponse reports how many summary tasks were queued
type GenerateSummariesResponse struct {
	Queued int `json:"queued" example:"3"`
}
