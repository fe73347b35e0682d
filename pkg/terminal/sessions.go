package terminal

import (
	"sync"

	"github.com/antibyte/englang/pkg/logger"
)

// sessionManager tracks connected clients by session id.
type sessionManager struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

func newSessionManager() *sessionManager {
	return &sessionManager{clients: make(map[string]*Client)}
}

func (sm *sessionManager) add(c *Client) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.clients[c.sessionID] = c
	logger.Info(logger.AreaSession, "session %s added (%d active)", c.sessionID, len(sm.clients))
}

func (sm *sessionManager) remove(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.clients, sessionID)
	logger.Info(logger.AreaSession, "session %s removed (%d active)", sessionID, len(sm.clients))
}

// closeAll closes every connection; each read pump then cleans up its
// own session.
func (sm *sessionManager) closeAll() {
	sm.mu.RLock()
	clients := make([]*Client, 0, len(sm.clients))
	for _, c := range sm.clients {
		clients = append(clients, c)
	}
	sm.mu.RUnlock()

	for _, c := range clients {
		c.stopRun()
		c.conn.Close()
	}
}
