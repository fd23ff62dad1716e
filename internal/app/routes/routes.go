package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eventhub/internal/app/controllers"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/websocket"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth     *controllers.AuthController
	Series   *controllers.SeriesController
	Event    *controllers.EventController
	Calendar *controllers.CalendarController
	// Live is optional
	Live *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", c.Auth.Profile)

		series := authenticated.Group("/series")
		series.Use(authMiddleware.RoleRequired(models.RoleOrganizer))
		{
			series.POST("", c.Series.CreateSeries)
			series.GET("/mine", c.Series.GetMySeries)
			series.GET("/:seriesId", c.Series.GetSeries)
			series.POST("/:seriesId/next-instance", c.Series.CreateNextInstance)
			series.PATCH("/:seriesId/status", c.Series.UpdateStatus)
			series.DELETE("/:seriesId", c.Series.DeleteSeries)
			series.GET("/:seriesId/stats", c.Series.GetStatistics)
			series.POST("/:seriesId/generate-summaries", c.Series.GenerateSummaries)
		}

		events := authenticated.Group("/events")
		{
			events.GET("/:eventId", c.Event.GetEvent)
			events.POST("", authMiddleware.RoleRequired(models.RoleOrganizer), c.Event.CreateEvent)
			events.PATCH("/:eventId/attendance", authMiddleware.RoleRequired(models.RoleOrganizer), c.Event.SetAttendance)
			events.POST("/:eventId/register", c.Event.Register)
			events.DELETE("/:eventId/register", c.Event.Unregister)
		}

		calendar := authenticated.Group("/calendar")
		{
			calendar.GET("", c.Calendar.GetCalendar)
			calendar.GET("/export.ics", c.Calendar.ExportCalendar)
			calendar.POST("/:eventId", c.Calendar.AddToCalendar)
			calendar.DELETE("/:eventId", c.Calendar.RemoveFromCalendar)
			calendar.GET("/:eventId/status", c.Calendar.GetCalendarStatus)
		}

		if c.Live != nil {
			authenticated.GET("/ws", c.Live.ServeWS)
		}
	}
}
