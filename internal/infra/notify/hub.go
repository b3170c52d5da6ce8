// Package notify keeps recent user-visible notifications and pushes new ones
// to websocket subscribers.
package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many notifications a subscriber may lag behind
	// before it is disconnected.
	sendBuffer = 32
)

// subscriber is one websocket connection with its own write queue. Only
// writePump writes data frames to conn.
type subscriber struct {
	conn *websocket.Conn
	send chan domain.Notification
}

// Hub is a bounded ring of notifications plus a set of websocket clients.
type Hub struct {
	mu      sync.RWMutex
	ring    []domain.Notification
	next    int
	full    bool
	clients map[*subscriber]bool
	closed  bool

	upgrader websocket.Upgrader
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewHub creates a hub that remembers the last capacity notifications.
// allowedOrigins empty accepts any origin.
func NewHub(capacity int, allowedOrigins []string, metrics *observability.Metrics, logger *zap.Logger) *Hub {
	if capacity < 1 {
		capacity = 1
	}
	h := &Hub{
		ring:    make([]domain.Notification, capacity),
		clients: make(map[*subscriber]bool),
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(r *http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// Notify records n and broadcasts it. Missing ID and timestamp are filled in.
func (h *Hub) Notify(n domain.Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = h.now().UTC()
	}

	h.mu.Lock()
	h.ring[h.next] = n
	h.next = (h.next + 1) % len(h.ring)
	if h.next == 0 {
		h.full = true
	}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.IncrNotification(string(n.Level))
	}
	h.logger.Debug("notification",
		zap.String("level", string(n.Level)),
		zap.String("resource", n.Resource),
		zap.String("message", n.Message),
	)
	h.broadcast(n)
}

// Recent returns up to limit notifications, newest first. limit <= 0 means all.
func (h *Hub) Recent(limit int) []domain.Notification {
	h.mu.RLock()
	defer h.mu.RUnlock()

	size := h.next
	if h.full {
		size = len(h.ring)
	}
	if limit <= 0 || limit > size {
		limit = size
	}
	out := make([]domain.Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (h.next - i + len(h.ring)) % len(h.ring)
		out = append(out, h.ring[idx])
	}
	return out
}

// broadcast queues n for every subscriber without waiting on the network.
// A subscriber whose queue is full is dropped.
func (h *Hub) broadcast(n domain.Notification) {
	h.mu.RLock()
	var slow []*subscriber
	for sub := range h.clients {
		select {
		case sub.send <- n:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		h.logger.Warn("dropping slow websocket subscriber", zap.String("remote", sub.conn.RemoteAddr().String()))
		h.remove(sub)
	}
}

func (h *Hub) add(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[sub] = true
	return true
}

// remove unregisters sub, stops its writer and closes the connection.
// Safe to call more than once.
func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.clients[sub]
	if ok {
		delete(h.clients, sub)
		close(sub.send)
	}
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}

func (h *Hub) writePump(sub *subscriber) {
	for n := range sub.send {
		_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteJSON(n); err != nil {
			h.remove(sub)
			return
		}
	}
}

// Subscribers returns the number of connected websocket clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and keeps the connection until the client
// goes away. Incoming messages are discarded.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	sub := &subscriber{conn: conn, send: make(chan domain.Notification, sendBuffer)}
	if !h.add(sub) {
		conn.Close()
		return
	}
	defer h.remove(sub)
	go h.writePump(sub)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[*subscriber]bool)
	for sub := range clients {
		close(sub.send)
	}
	h.mu.Unlock()

	for sub := range clients {
		_ = sub.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"),
			time.Now().Add(writeWait))
		sub.conn.Close()
	}
}
