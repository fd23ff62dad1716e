package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
)

// EventController handles one-off events and registrations
type EventController struct {
	eventService services.EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

// CreateEvent creates a one-off event
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.APIResponse{data=models.Event} "Event created"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 403 {object} dto.APIResponse "Organizers only"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithValidation(ctx, err)
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event, "Event created"))
}

// GetEvent returns one event
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=models.Event} "Event"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Router /events/{eventId} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	eventID, ok := pathUUID(ctx, "eventId")
	if !ok {
		return
	}

	event, err := c.eventService.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, ""))
}

// Register signs the caller up for an event
// @Summary Register for an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Success 201 {object} dto.APIResponse{data=models.Registration} "Registered"
// @Failure 400 {object} dto.APIResponse "Already registered or event full"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Router /events/{eventId}/register [post]
func (c *EventController) Register(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := pathUUID(ctx, "eventId")
	if !ok {
		return
	}

	reg, err := c.eventService.Register(ctx.Request.Context(), userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(reg, "Registered for event"))
}

// Unregister cancels the caller's registration
// @Summary Cancel a registration
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Success 200 {object} dto.APIResponse "Registration cancelled"
// @Failure 404 {object} dto.APIResponse "Registration not found"
// @Router /events/{eventId}/register [delete]
func (c *EventController) Unregister(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := pathUUID(ctx, "eventId")
	if !ok {
		return
	}

	if err := c.eventService.Unregister(ctx.Request.Context(), userID, eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Registration cancelled"))
}

// SetAttendance records attendance of a registrant
// @Summary Record attendance
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Param request body dto.AttendanceRequest true "Attendance"
// @Success 200 {object} dto.APIResponse "Attendance recorded"
// @Failure 403 {object} dto.APIResponse "Not an organizer of the event"
// @Failure 404 {object} dto.APIResponse "Event or registration not found"
// @Router /events/{eventId}/attendance [patch]
func (c *EventController) SetAttendance(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := pathUUID(ctx, "eventId")
	if !ok {
		return
	}

	var req dto.AttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithValidation(ctx, err)
		return
	}

	if err := c.eventService.SetAttendance(ctx.Request.Context(), userID, eventID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Attendance recorded"))
}
