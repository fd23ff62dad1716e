package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/events"
)

func newFeedServer(t *testing.T, userID int64) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}, NewHandler(hub, zerolog.Nop()).ServeWS)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server) *gorilla.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestFeed_DeliversAddressedEvents(t *testing.T) {
	hub, srv, _ := newFeedServer(t, 42)
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount(42) == 1 }, time.Second, 10*time.Millisecond)

	pub := NewPublisher(hub)
	eventID := uuid.New()
	require.NoError(t, pub.Publish(context.Background(), events.TypeBookmarkAdded, "42", events.BookmarkChanged{UserID: 42, EventID: eventID}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, body, err := conn.ReadMessage()
	require.NoError(t, err)

	var env struct {
		Type string                 `json:"type"`
		Data events.BookmarkChanged `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, events.TypeBookmarkAdded, env.Type)
	assert.Equal(t, eventID, env.Data.EventID)
}

func TestFeed_HubShutdownClosesConnections(t *testing.T) {
	hub, srv, cancel := newFeedServer(t, 7)
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 10*time.Millisecond)

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.ClientCount(7))
}

func TestServeWS_RequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", NewHandler(NewHub(zerolog.Nop()), zerolog.Nop()).ServeWS)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublisher_IgnoresPayloadWithoutAudience(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	pub := NewPublisher(hub)

	require.NoError(t, pub.Publish(context.Background(), "custom", "k", map[string]string{"a": "b"}))
	assert.Len(t, hub.notify, 0)

	require.NoError(t, pub.Publish(context.Background(), events.TypeSeriesStatusChanged, "k", events.SeriesStatusChanged{ChangedBy: 3}))
	assert.Len(t, hub.notify, 1)
	assert.NoError(t, pub.Close())
}

func TestHub_NotifyDropsWhenQueueFull(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	for i := 0; i < notifyBuffer; i++ {
		require.True(t, hub.Notify(1, []byte("x")))
	}
	assert.False(t, hub.Notify(1, []byte("x")))
}
