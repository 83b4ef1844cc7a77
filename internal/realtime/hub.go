// Package realtime pushes notifications to users over websocket connections.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Gauge is the subset of a prometheus gauge the hub reports connection counts to
type Gauge interface {
	Inc()
	Dec()
}

type client struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub tracks open connections per user and fans messages out to them
type Hub struct {
	mu       sync.RWMutex
	clients  map[uuid.UUID]map[*client]struct{}
	upgrader websocket.Upgrader
	gauge    Gauge
	logger   *zap.Logger
	closed   bool
}

// NewHub creates a hub. An empty allowedOrigins list, or one containing "*", accepts any origin.
func NewHub(allowedOrigins []string, gauge Gauge, logger *zap.Logger) *Hub {
	h := &Hub{
		clients: make(map[uuid.UUID]map[*client]struct{}),
		gauge:   gauge,
		logger:  logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		return set[origin]
	}
}

// Serve upgrades the request and streams messages published for userID until the peer disconnects
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	if !h.register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return nil
	}

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	if h.gauge != nil {
		h.gauge.Inc()
	}

	h.logger.Debug("notification stream opened", zap.String("user_id", c.userID.String()))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
	c.close()
	if h.gauge != nil {
		h.gauge.Dec()
	}

	h.logger.Debug("notification stream closed", zap.String("user_id", c.userID.String()))
}

// readPump discards client frames; it exists to process pongs and notice disconnects
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("notification stream read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Publish sends v as a JSON text frame to every open stream of userID.
// Streams whose buffer is full are dropped rather than blocking the caller.
// It returns the number of streams the message was queued on.
func (h *Hub) Publish(userID uuid.UUID, v interface{}) int {
	payload, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("failed to encode realtime message", zap.Error(err))
		return 0
	}

	h.mu.RLock()
	var slow []*client
	delivered := 0
	for c := range h.clients[userID] {
		select {
		case c.send <- payload:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow notification stream", zap.String("user_id", userID.String()))
		h.unregister(c)
	}
	return delivered
}

// Connections returns the number of open streams for userID
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Close disconnects every stream and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*client
	for _, conns := range h.clients {
		for c := range conns {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		h.unregister(c)
	}
}
