package devserver

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
	"github.com/taskbuddy/taskbuddy-go/internal/devserver/metrics"
)

// Hub tracks live notification connections per user. A user may hold
// several connections at once (one per open client); a push fans out to
// all of them.
type Hub struct {
	mu       sync.Mutex
	sessions map[int64]map[string]*websocket.Conn
	log      zerolog.Logger
}

// NewHub returns an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		sessions: make(map[int64]map[string]*websocket.Conn),
		log:      log,
	}
}

// Register attaches a connection to a user and returns its session id.
func (h *Hub) Register(userID int64, conn *websocket.Conn) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	if h.sessions[userID] == nil {
		h.sessions[userID] = make(map[string]*websocket.Conn)
	}
	h.sessions[userID][id] = conn
	metrics.WSConnectionsActive.Inc()
	h.log.Debug().Int64("user_id", userID).Str("session_id", id).Msg("ws session registered")
	return id
}

// Unregister detaches a connection. Safe to call twice.
func (h *Hub) Unregister(userID int64, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.sessions[userID]
	if !ok {
		return
	}
	if _, ok := conns[sessionID]; !ok {
		return
	}
	delete(conns, sessionID)
	if len(conns) == 0 {
		delete(h.sessions, userID)
	}
	metrics.WSConnectionsActive.Dec()
}

// Push writes a notification frame to every live connection of its
// recipient. Connections that fail to write are dropped.
func (h *Hub) Push(n domain.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal notification frame")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.sessions[n.RecipientID] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			metrics.WSPushErrorsTotal.Inc()
			h.log.Warn().Err(err).Int64("user_id", n.RecipientID).Msg("ws push failed, dropping session")
			_ = conn.Close()
			delete(h.sessions[n.RecipientID], id)
			metrics.WSConnectionsActive.Dec()
		}
	}
	if len(h.sessions[n.RecipientID]) == 0 {
		delete(h.sessions, n.RecipientID)
	}
}
