package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}
}

// authenticated stands in for JWTAuth
func authenticated(userID int64, role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRoleType, role)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// Stub services embed the interface so only the exercised methods need bodies.

type stubSeriesService struct {
	services.SeriesService
	createReq  *dto.CreateSeriesRequest
	nextErr    error
	nextResult *models.Event
	status     models.SeriesStatus
	queued     int
}

func (s *stubSeriesService) CreateSeries(_ context.Context, userID int64, req *dto.CreateSeriesRequest) (*dto.SeriesCreatedResponse, error) {
	s.createReq = req
	return &dto.SeriesCreatedResponse{
		Series:        &models.RecurringSeries{ID: uuid.New(), CreatedBy: userID, TotalInstancesCreated: 1},
		FirstInstance: &models.Event{ID: uuid.New()},
	}, nil
}

func (s *stubSeriesService) CreateNextInstance(_ context.Context, _ int64, _ uuid.UUID) (*models.Event, error) {
	return s.nextResult, s.nextErr
}

func (s *stubSeriesService) UpdateStatus(_ context.Context, _ int64, seriesID uuid.UUID, status models.SeriesStatus) (*dto.SeriesStatusResponse, error) {
	s.status = status
	return &dto.SeriesStatusResponse{Series: &models.RecurringSeries{ID: seriesID, Status: status}, UpdatedInstances: 2}, nil
}

func (s *stubSeriesService) GenerateSummaries(_ context.Context, _ int64, _ uuid.UUID) (int, error) {
	return s.queued, nil
}

func seriesRouter(svc services.SeriesService) *gin.Engine {
	c := NewSeriesController(svc, zerolog.Nop())
	r := gin.New()
	g := r.Group("/series", authenticated(10, models.RoleOrganizer))
	g.POST("", c.CreateSeries)
	g.POST("/:seriesId/next-instance", c.CreateNextInstance)
	g.PATCH("/:seriesId/status", c.UpdateStatus)
	g.POST("/:seriesId/generate-summaries", c.GenerateSummaries)
	return r
}

func TestSeriesController_CreateSeries(t *testing.T) {
	svc := &stubSeriesService{}
	r := seriesRouter(svc)

	w := doJSON(r, http.MethodPost, "/series", map[string]interface{}{
		"title":          "Beach cleanup",
		"recurringType":  "weekly",
		"recurringValue": "Monday",
		"startDateTime":  "2024-01-01T09:00:00Z",
		"endDateTime":    "2024-01-01T11:00:00Z",
		"maxInstances":   4,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode(t, w).Success)
	require.NotNil(t, svc.createReq)
	assert.Equal(t, models.RecurringWeekly, svc.createReq.RecurringType)
	assert.Equal(t, 4, *svc.createReq.MaxInstances)
}

func TestSeriesController_CreateSeriesValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing title", map[string]interface{}{
			"recurringType": "weekly", "recurringValue": "Monday",
			"startDateTime": "2024-01-01T09:00:00Z", "endDateTime": "2024-01-01T11:00:00Z",
		}},
		{"unknown recurrence type", map[string]interface{}{
			"title": "x", "recurringType": "yearly", "recurringValue": "Monday",
			"startDateTime": "2024-01-01T09:00:00Z", "endDateTime": "2024-01-01T11:00:00Z",
		}},
		{"end before start", map[string]interface{}{
			"title": "x", "recurringType": "weekly", "recurringValue": "Monday",
			"startDateTime": "2024-01-01T09:00:00Z", "endDateTime": "2024-01-01T08:00:00Z",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubSeriesService{}
			w := doJSON(seriesRouter(svc), http.MethodPost, "/series", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, svc.createReq)
		})
	}
}

func TestSeriesController_CreateNextInstanceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.ErrSeriesNotFound, http.StatusNotFound},
		{"not owner", apperrors.ErrNotSeriesOwner, http.StatusForbidden},
		{"inactive", apperrors.ErrSeriesInactive, http.StatusBadRequest},
		{"cap", apperrors.ErrSeriesCapReached, http.StatusBadRequest},
		{"race", apperrors.ErrInstanceDuplicate, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := seriesRouter(&stubSeriesService{nextErr: tt.err})
			w := doJSON(r, http.MethodPost, "/series/"+uuid.NewString()+"/next-instance", nil)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, decode(t, w).Success)
		})
	}
}

func TestSeriesController_CreateNextInstance(t *testing.T) {
	r := seriesRouter(&stubSeriesService{nextResult: &models.Event{ID: uuid.New()}})

	w := doJSON(r, http.MethodPost, "/series/"+uuid.NewString()+"/next-instance", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/series/not-a-uuid/next-instance", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeriesController_UpdateStatus(t *testing.T) {
	svc := &stubSeriesService{}
	r := seriesRouter(svc)
	id := uuid.NewString()

	w := doJSON(r, http.MethodPatch, "/series/"+id+"/status", map[string]string{"status": "paused"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SeriesPaused, svc.status)

	svc.status = ""
	w = doJSON(r, http.MethodPatch, "/series/"+id+"/status", map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.status)
}

func TestSeriesController_GenerateSummaries(t *testing.T) {
	r := seriesRouter(&stubSeriesService{queued: 3})

	w := doJSON(r, http.MethodPost, "/series/"+uuid.NewString()+"/generate-summaries", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"queued":3`)
}

type stubCalendarService struct {
	services.CalendarService
	start, end time.Time
	role       models.CalendarRole
	err        error
}

func (s *stubCalendarService) GetCalendarEvents(_ context.Context, _ int64, start, end time.Time, role models.CalendarRole) ([]models.CalendarEntry, error) {
	s.start, s.end, s.role = start, end, role
	if s.err != nil {
		return nil, s.err
	}
	return []models.CalendarEntry{{ID: "a", EventID: uuid.New(), StartDateTime: start}}, nil
}

func (s *stubCalendarService) ExportICS(_ context.Context, _ int64, _, _ time.Time, _ models.CalendarRole) (string, error) {
	return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", nil
}

func (s *stubCalendarService) AddToCalendar(_ context.Context, userID int64, eventID uuid.UUID) (*models.CalendarBookmark, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.CalendarBookmark{UserID: userID, EventID: eventID}, nil
}

func calendarRouter(svc services.CalendarService, role models.RoleType) *gin.Engine {
	c := NewCalendarController(svc, time.UTC, zerolog.Nop())
	r := gin.New()
	g := r.Group("/calendar", authenticated(20, role))
	g.GET("", c.GetCalendar)
	g.GET("/export.ics", c.ExportCalendar)
	g.POST("/:eventId", c.AddToCalendar)
	return r
}

func TestCalendarController_GetCalendar(t *testing.T) {
	svc := &stubCalendarService{}
	r := calendarRouter(svc, models.RoleVolunteer)

	w := doJSON(r, http.MethodGet, "/calendar?start=2024-01-10&end=2024-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), svc.start)
	assert.Equal(t, time.Date(2024, time.January, 31, 23, 59, 59, 999999999, time.UTC), svc.end)
	assert.Equal(t, models.CalendarRoleVolunteer, svc.role)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestCalendarController_RoleDefaultsFromAccount(t *testing.T) {
	svc := &stubCalendarService{}
	r := calendarRouter(svc, models.RoleOrganizer)

	w := doJSON(r, http.MethodGet, "/calendar?start=2024-01-10&end=2024-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CalendarRoleOrganizer, svc.role)

	w = doJSON(r, http.MethodGet, "/calendar?start=2024-01-10&end=2024-01-31&role=volunteer", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CalendarRoleVolunteer, svc.role)
}

func TestCalendarController_InvalidQuery(t *testing.T) {
	r := calendarRouter(&stubCalendarService{}, models.RoleVolunteer)

	for _, q := range []string{
		"",
		"?start=2024-01-10",
		"?start=10/01/2024&end=2024-01-31",
		"?start=2024-01-10&end=2024-01-31&role=admin",
	} {
		w := doJSON(r, http.MethodGet, "/calendar"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}

	r = calendarRouter(&stubCalendarService{err: apperrors.NewBadRequestError("End date must not be before start date")}, models.RoleVolunteer)
	w := doJSON(r, http.MethodGet, "/calendar?start=2024-02-01&end=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarController_Export(t *testing.T) {
	r := calendarRouter(&stubCalendarService{}, models.RoleVolunteer)

	w := doJSON(r, http.MethodGet, "/calendar/export.ics?start=2024-01-01&end=2024-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "BEGIN:VCALENDAR"))
}

func TestCalendarController_AddToCalendar(t *testing.T) {
	r := calendarRouter(&stubCalendarService{}, models.RoleVolunteer)
	w := doJSON(r, http.MethodPost, "/calendar/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	r = calendarRouter(&stubCalendarService{err: apperrors.ErrRegisteredEvent}, models.RoleVolunteer)
	w = doJSON(r, http.MethodPost, "/calendar/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Registered events are automatically in your calendar", decode(t, w).Message)
}

type stubAuthService struct {
	services.AuthService
}

func (stubAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Password != "secret123" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &dto.AuthResponse{Token: dto.TokenResponse{AccessToken: "token", TokenType: "Bearer"}}, nil
}

func TestAuthController_Login(t *testing.T) {
	c := NewAuthController(stubAuthService{}, zerolog.Nop())
	r := gin.New()
	r.POST("/auth/login", c.Login)
	r.GET("/auth/profile", c.Profile)

	w := doJSON(r, http.MethodPost, "/auth/login", map[string]string{"email": "a@b.io", "password": "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", map[string]string{"email": "a@b.io", "password": "wrong-pass1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// no authenticated user in context
	w = doJSON(r, http.MethodGet, "/auth/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
