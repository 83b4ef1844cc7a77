package realtime_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/straye-as/chirps-api/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingGauge struct {
	n atomic.Int64
}

func (g *countingGauge) Inc() { g.n.Add(1) }
func (g *countingGauge) Dec() { g.n.Add(-1) }

func startHub(t *testing.T, origins []string, userID uuid.UUID) (*realtime.Hub, *countingGauge, string) {
	gauge := &countingGauge{}
	hub := realtime.NewHub(origins, gauge, zap.NewNop())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, userID)
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return hub, gauge, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishReachesConnectedUser(t *testing.T) {
	userID := uuid.New()
	hub, gauge, url := startHub(t, nil, userID)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitFor(t, func() bool { return hub.Connections(userID) == 1 })
	assert.Equal(t, int64(1), gauge.n.Load())

	delivered := hub.Publish(userID, map[string]string{"type": "reaction"})
	assert.Equal(t, 1, delivered)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]string
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "reaction", msg["type"])
}

func TestHub_PublishToOtherUserIsNotDelivered(t *testing.T) {
	userID := uuid.New()
	hub, _, url := startHub(t, nil, userID)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitFor(t, func() bool { return hub.Connections(userID) == 1 })
	assert.Equal(t, 0, hub.Publish(uuid.New(), map[string]string{"type": "comment"}))
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	userID := uuid.New()
	hub, gauge, url := startHub(t, nil, userID)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	waitFor(t, func() bool { return hub.Connections(userID) == 1 })

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	waitFor(t, func() bool { return hub.Connections(userID) == 0 })
	waitFor(t, func() bool { return gauge.n.Load() == 0 })
}

func TestHub_RejectsUnknownOrigin(t *testing.T) {
	userID := uuid.New()
	_, _, url := startHub(t, []string{"https://chirps.example.com"}, userID)

	header := http.Header{}
	header.Set("Origin", "https://evil.example.com")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://chirps.example.com")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	userID := uuid.New()
	hub, _, url := startHub(t, nil, userID)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	waitFor(t, func() bool { return hub.Connections(userID) == 1 })

	hub.Close()
	assert.Equal(t, 0, hub.Connections(userID))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
