package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/candidlab/interviewd/internal/domain"
	"github.com/candidlab/interviewd/internal/logging"
)

// TurnEvent is broadcast to monitor clients whenever a transcript grows.
// System turns are suppressed so identifier markers never leave the server.
type TurnEvent struct {
	Event   string `json:"event"`
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Monitor is a fan-out hub for researchers watching interviews live over
// WebSocket. Slow or broken connections are dropped rather than buffered.
type Monitor struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]bool
	upgrader websocket.Upgrader
	log      *logging.Logger
}

// NewMonitor creates an empty monitor hub.
func NewMonitor(log *logging.Logger) *Monitor {
	return &Monitor{
		conns: make(map[*websocket.Conn]bool),
		log:   log.Sub("monitor"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Same-origin pages send no Origin header over ws to self;
				// the feed carries no credentials, so any origin may watch.
				return true
			},
		},
	}
}

// TurnAppended implements interview.TurnObserver.
func (m *Monitor) TurnAppended(sessionKey string, turn domain.Turn) {
	if turn.IsSystem() {
		return
	}
	m.publish(TurnEvent{
		Event:   "turn",
		UserID:  sessionKey,
		Role:    turn.Role,
		Content: turn.Content,
	})
}

// HandleWS upgrades the connection and keeps it subscribed until it closes.
func (m *Monitor) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	m.mu.Lock()
	m.conns[conn] = true
	count := len(m.conns)
	m.mu.Unlock()
	m.log.Info().Str("remote", r.RemoteAddr).Int("watchers", count).Msg("monitor connected")

	// Read loop: monitors never send, but reading surfaces close frames.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	m.remove(conn)
	m.log.Debug().Str("remote", r.RemoteAddr).Msg("monitor disconnected")
}

func (m *Monitor) publish(ev TurnEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for conn := range m.conns {
		if err := conn.WriteJSON(ev); err != nil {
			m.log.Warn().Err(err).Msg("dropping monitor connection")
			conn.Close()
			delete(m.conns, conn)
		}
	}
}

func (m *Monitor) remove(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conns[conn] {
		conn.Close()
		delete(m.conns, conn)
	}
}

// CloseAll disconnects every watcher. Used during shutdown.
func (m *Monitor) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.conns {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		delete(m.conns, conn)
	}
}

// Watchers returns the current connection count.
func (m *Monitor) Watchers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns)
}
