package terminal

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

type liveSession struct {
	conn  *websocket.Conn
	shell *Shell
}

// SessionManager tracks live WebSocket shells per visitor and tab.
type SessionManager struct {
	mu     sync.RWMutex
	active map[string]map[string]*liveSession
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		active: make(map[string]map[string]*liveSession),
	}
}

// Shell returns the shell bound to a visitor's session, if connected.
func (m *SessionManager) Shell(visitorID, sessionID string) *Shell {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sessions, ok := m.active[visitorID]; ok {
		if s, ok := sessions[sessionID]; ok {
			return s.shell
		}
	}
	return nil
}

// Register binds a connection and its shell to a visitor/session, closing
// any connection it replaces.
func (m *SessionManager) Register(visitorID, sessionID string, conn *websocket.Conn, shell *Shell) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[visitorID]; !exists {
		m.active[visitorID] = make(map[string]*liveSession)
	}

	if existing, exists := m.active[visitorID][sessionID]; exists && existing.conn != conn {
		_ = existing.conn.Close(websocket.StatusNormalClosure, "session replaced")
	}

	m.active[visitorID][sessionID] = &liveSession{conn: conn, shell: shell}
	slog.Info("Terminal session registered", "visitor_id", visitorID, "session_id", sessionID)
}

// Unregister removes a connection if it is still the current one.
func (m *SessionManager) Unregister(visitorID, sessionID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessions, ok := m.active[visitorID]; ok {
		if current, exists := sessions[sessionID]; exists && current.conn == conn {
			delete(sessions, sessionID)
			if len(sessions) == 0 {
				delete(m.active, visitorID)
			}
			slog.Info("Terminal session unregistered", "visitor_id", visitorID, "session_id", sessionID)
		}
	}
}

// Count returns the number of live sessions across all visitors.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, sessions := range m.active {
		n += len(sessions)
	}
	return n
}
