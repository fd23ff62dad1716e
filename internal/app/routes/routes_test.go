package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/controllers"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/auth"
	"github.com/yigit/eventhub/internal/pkg/websocket"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	r := gin.New()
	SetupRouter(r, Controllers{
		Auth:     controllers.NewAuthController(nil, zerolog.Nop()),
		Series:   controllers.NewSeriesController(nil, zerolog.Nop()),
		Event:    controllers.NewEventController(nil, zerolog.Nop()),
		Calendar: controllers.NewCalendarController(nil, time.UTC, zerolog.Nop()),
		Live:     websocket.NewHandler(websocket.NewHub(zerolog.Nop()), zerolog.Nop()),
	}, middleware.NewAuthMiddleware(jwt))
	SetupSwagger(r)
	return r, jwt
}

func request(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/health", "").Code)

	w := request(r, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/series/{seriesId}/next-instance")
}

func TestRouter_RequiresToken(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/series/mine", "/api/v1/calendar", "/api/v1/auth/profile", "/api/v1/ws"} {
		assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, path, "").Code, path)
	}
}

func TestRouter_SeriesAreOrganizerOnly(t *testing.T) {
	r, jwt := newTestRouter(t)

	token, _, err := jwt.GenerateAccessToken(&models.User{ID: 20, Email: "v@example.org", RoleType: models.RoleVolunteer})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, request(r, http.MethodPost, "/api/v1/series", token).Code)
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodPost, "/api/v1/events", token).Code)
}
