package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/helpers"
)

// SeriesController handles recurring series endpoints
type SeriesController struct {
	seriesService services.SeriesService
	logger        zerolog.Logger
}

// NewSeriesController creates a new SeriesController
func NewSeriesController(seriesService services.SeriesService, logger zerolog.Logger) *SeriesController {
	return &SeriesController{
		seriesService: seriesService,
		logger:        logger,
	}
}

// CreateSeries defines a new recurring series
// @Summary Create a recurring series
// @Description Stores the series and its first instance in one transaction
// @Tags series
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSeriesRequest true "Series definition"
// @Success 201 {object} dto.APIResponse{data=dto.SeriesCreatedResponse} "Series created"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 403 {object} dto.APIResponse "Organizers only"
// @Router /series [post]
func (c *SeriesController) CreateSeries(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateSeriesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithValidation(ctx, err)
		return
	}

	res, err := c.seriesService.CreateSeries(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(res, "Recurring series created"))
}

// CreateNextInstance materializes the next occurrence of a series
// @Summary Create the next instance
// @Description Computes the next date from the latest instance and stores it. Rejected when the series is inactive, capped or past its end date.
// @Tags series
// @Produce json
// @Security BearerAuth
// @Param seriesId path string true "Series ID"
// @Success 201 {object} dto.APIResponse{data=models.Event} "Instance created"
// @Failure 400 {object} dto.APIResponse "Series cannot produce another instance"
// @Failure 403 {object} dto.APIResponse "Not the series creator"
// @Failure 404 {object} dto.APIResponse "Series not found"
// @Failure 409 {object} dto.APIResponse "Concurrent materialization"
// @Router /series/{seriesId}/next-instance [post]
func (c *SeriesController) CreateNextInstance(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(ctx, "seriesId")
	if !ok {
		return
	}

	instance, err := c.seriesService.CreateNextInstance(ctx.Request.Context(), userID, seriesID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(instance, "Next instance created"))
}

// GetMySeries lists the caller's series
// @Summary List my series
// @Tags series
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 10)"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.RecurringSeries}} "Series"
// @Router /series/mine [get]
func (c *SeriesController) GetMySeries(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	res, err := c.seriesService.GetMySeries(ctx.Request.Context(), userID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(res, ""))
}

// GetSeries returns a series with all of its instances
// @Summary Get a series
// @Tags series
// @Produce json
// @Security BearerAuth
// @Param seriesId path string true "Series ID"
// @Success 200 {object} dto.APIResponse{data=dto.SeriesDetailResponse} "Series"
// @Failure 403 {object} dto.APIResponse "Not the series creator"
// @Failure 404 {object} dto.APIResponse "Series not found"
// @Router /series/{seriesId} [get]
func (c *SeriesController) GetSeries(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(ctx, "seriesId")
	if !ok {
		return
	}

	res, err := c.seriesService.GetSeriesWithInstances(ctx.Request.Context(), userID, seriesID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(res, ""))
}

// UpdateStatus changes the status of a series
// @Summary Update series status
// @Description Also stamps the status onto every instance that has not started yet
// @Tags series
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param seriesId path string true "Series ID"
// @Param request body dto.UpdateSeriesStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.SeriesStatusResponse} "Status updated"
// @Failure 400 {object} dto.APIResponse "Invalid status"
// @Failure 403 {object} dto.APIResponse "Not the series creator"
// @Failure 404 {object} dto.APIResponse "Series not found"
// @Router /series/{seriesId}/status [patch]
func (c *SeriesController) UpdateStatus(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(ctx, "seriesId")
	if !ok {
		return
	}

	var req dto.UpdateSeriesStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithValidation(ctx, err)
		return
	}

	res, err := c.seriesService.UpdateStatus(ctx.Request.Context(), userID, seriesID, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(res, "Series status updated"))
}

// DeleteSeries cancels a series
// @Summary Cancel a series
// @Description Soft delete: the series and its future instances become cancelled
// @Tags series
// @Produce json
// @Security BearerAuth
// @Param seriesId path string true "Series ID"
// @Success 200 {object} dto.APIResponse{data=dto.SeriesStatusResponse} "Series cancelled"
// @Failure 403 {object} dto.APIResponse "Not the series creator"
// @Failure 404 {object} dto.APIResponse "Series not found"
// @Router /series/{seriesId} [delete]
func (c *SeriesController) DeleteSeries(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(ctx, "seriesId")
	if !ok {
		return
	}

	res, err := c.seriesService.DeleteSeries(ctx.Request.Context(), userID, seriesID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(res, "Series cancelled"))
}

// GetStatistics recomputes and returns series statistics
// @Summary Series statistics
// @Tags series
// @Produce json
// @Security BearerAuth
// @Param seriesId path string true "Series ID"
// @Success 200 {object} dto.APIResponse{data=models.SeriesStatistics} "Statistics"
// @Failure 403 {object} dto.APIResponse "Not the series creator"
// @Failure 404 {object} dto.APIResponse "Series not found"
// @Router /series/{seriesId}/stats [get]
func (c *SeriesController) GetStatistics(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(ctx, "seriesId")
	if !ok {
		return
	}

	stats, err := c.seriesService.GetSeriesStatistics(ctx.Request.Context(), userID, seriesID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}

// GenerateSummaries queues AI summaries for instances without one
// @Summary Backfill AI summaries
// @Tags series
// @Produce json
// @Security BearerAuth
// @Param seriesId path string true "Series ID"
// @Success 202 {object} dto.APIResponse{data=dto.GenerateSummariesResponse} "Summaries queued"
// @Failure 403 {object} dto.APIResponse "Not the series creator"
// @Failure 404 {object} dto.APIResponse "Series not found"
// @Router /series/{seriesId}/generate-summaries [post]
func (c *SeriesController) GenerateSummaries(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(ctx, "seriesId")
	if !ok {
		return
	}

	queued, err := c.seriesService.GenerateSummaries(ctx.Request.Context(), userID, seriesID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.NewSuccessResponse(dto.GenerateSummariesResponse{Queued: queued}, "Summary generation started"))
}
