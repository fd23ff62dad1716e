package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/helpers"
)

// CalendarController serves projected calendars and bookmarks
type CalendarController struct {
	calendarService services.CalendarService
	location        *time.Location
	logger          zerolog.Logger
}

// NewCalendarController creates a new CalendarController. Bare dates in
// queries are interpreted in loc.
func NewCalendarController(calendarService services.CalendarService, loc *time.Location, logger zerolog.Logger) *CalendarController {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarController{
		calendarService: calendarService,
		location:        loc,
		logger:          logger,
	}
}

type calendarWindow struct {
	start time.Time
	end   time.Time
	role  models.CalendarRole
}

// parseWindow binds the calendar query. On failure it writes a 400 response.
func (c *CalendarController) parseWindow(ctx *gin.Context) (calendarWindow, bool) {
	var q dto.CalendarQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.AbortWithValidation(ctx, err)
		return calendarWindow{}, false
	}

	start, err := helpers.ParseCalendarBound(q.Start, false, c.location)
	if err != nil {
		middleware.AbortWithBadRequest(ctx, "Invalid start", err.Error())
		return calendarWindow{}, false
	}
	end, err := helpers.ParseCalendarBound(q.End, true, c.location)
	if err != nil {
		middleware.AbortWithBadRequest(ctx, "Invalid end", err.Error())
		return calendarWindow{}, false
	}

	role := models.CalendarRole(q.Role)
	if role == "" {
		role = models.CalendarRoleVolunteer
		if r, ok := middleware.CurrentRole(ctx); ok && r == models.RoleOrganizer {
			role = models.CalendarRoleOrganizer
		}
	}

	return calendarWindow{start: start, end: end, role: role}, true
}

// GetCalendar returns the caller's calendar for a date range
// @Summary Get calendar
// @Description Registered, organized and bookmarked events in the range. Recurring events are expanded into virtual occurrences.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param start query string true "Range start (YYYY-MM-DD or RFC3339)"
// @Param end query string true "Range end (YYYY-MM-DD or RFC3339)"
// @Param role query string false "volunteer or organizer (default: from account role)"
// @Success 200 {object} dto.APIResponse{data=dto.CalendarResponse} "Calendar"
// @Failure 400 {object} dto.APIResponse "Invalid range or role"
// @Router /calendar [get]
func (c *CalendarController) GetCalendar(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	window, ok := c.parseWindow(ctx)
	if !ok {
		return
	}

	entries, err := c.calendarService.GetCalendarEvents(ctx.Request.Context(), userID, window.start, window.end, window.role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CalendarResponse{
		Events: entries,
		Start:  window.start,
		End:    window.end,
		Role:   window.role,
		Total:  len(entries),
	}, ""))
}

// ExportCalendar returns the calendar as an iCalendar document
// @Summary Export calendar
// @Tags calendar
// @Produce text/calendar
// @Security BearerAuth
// @Param start query string true "Range start (YYYY-MM-DD or RFC3339)"
// @Param end query string true "Range end (YYYY-MM-DD or RFC3339)"
// @Param role query string false "volunteer or organizer"
// @Success 200 {string} string "iCalendar document"
// @Failure 400 {object} dto.APIResponse "Invalid range or role"
// @Router /calendar/export.ics [get]
func (c *CalendarController) ExportCalendar(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	window, ok := c.parseWindow(ctx)
	if !ok {
		return
	}

	doc, err := c.calendarService.ExportICS(ctx.Request.Context(), userID, window.start, window.end, window.role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(doc))
}

// AddToCalendar bookmarks an event
// @Summary Bookmark an event
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Success 201 {object} dto.APIResponse{data=models.CalendarBookmark} "Bookmarked"
// @Failure 400 {object} dto.APIResponse "Already in calendar"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Router /calendar/{eventId} [post]
func (c *CalendarController) AddToCalendar(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := pathUUID(ctx, "eventId")
	if !ok {
		return
	}

	bookmark, err := c.calendarService.AddToCalendar(ctx.Request.Context(), userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(bookmark, "Event added to calendar"))
}

// RemoveFromCalendar removes a bookmark
// @Summary Remove a bookmark
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Success 200 {object} dto.APIResponse "Removed"
// @Failure 400 {object} dto.APIResponse "Not in calendar"
// @Router /calendar/{eventId} [delete]
func (c *CalendarController) RemoveFromCalendar(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := pathUUID(ctx, "eventId")
	if !ok {
		return
	}

	if err := c.calendarService.RemoveFromCalendar(ctx.Request.Context(), userID, eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Event removed from calendar"))
}

// GetCalendarStatus reports whether an event is on the caller's calendar
// @Summary Calendar status of an event
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=models.CalendarStatus} "Status"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Router /calendar/{eventId}/status [get]
func (c *CalendarController) GetCalendarStatus(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := pathUUID(ctx, "eventId")
	if !ok {
		return
	}

	status, err := c.calendarService.GetCalendarStatus(ctx.Request.Context(), userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(status, ""))
}
