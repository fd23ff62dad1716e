package dto

import (
	"time"

	"github.com/yigit/eventhub/internal/app/models"
)

// CalendarQuery is the query string of calendar reads
type CalendarQuery struct {
	Start string `form:"start" binding:"required" example:"2024-01-10"`
	End   string `form:"end" binding:"required" example:"2024-01-31"`
	Role  string `form:"role" binding:"omitempty,calendar_role" example:"volunteer"`
}

// CalendarResponse is a projected calendar
type CalendarResponse struct {
	Events []models.CalendarEntry `json:"events"`
	Start  time.Time              `json:"start"`
	End    time.Time              `json:"end"`
	Role   models.CalendarRole    `json:"role" example:"volunteer"`
	Total  int                    `json:"total" example:"3"`
}
