package terminal

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/antibyte/englang/pkg/auth"
	"github.com/antibyte/englang/pkg/englang"
	"github.com/antibyte/englang/pkg/logger"
	"github.com/antibyte/englang/pkg/shared"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one WebSocket connection. It owns at most one running script
// and keeps the interpreter of the last run for state requests.
type Client struct {
	handler   *Handler
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	sessionID string
	username  string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	feed    *lineFeed
	interp  *englang.Interpreter
	wg      sync.WaitGroup
}

// HandleWebSocket upgrades the connection and serves the session until the
// client disconnects.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WebSocketWarn("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	c := &Client{
		handler:   h,
		conn:      conn,
		send:      make(chan []byte, getMaxChannelBuffer()),
		done:      make(chan struct{}),
		sessionID: uuid.New().String(),
		username:  auth.UsernameFromContext(r.Context()),
	}
	h.sessions.add(c)
	logger.WebSocketInfo("client %s connected as %s (session %s)", conn.RemoteAddr(), c.username, c.sessionID)

	go c.writePump()
	c.writeMessage(shared.Message{Type: shared.MessageTypeSession, SessionID: c.sessionID})
	c.readPump()
}

// writeMessage queues msg for the write pump. Messages for a closed
// session are dropped.
func (c *Client) writeMessage(msg shared.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.WebSocketError("marshal message: %v", err)
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	}
}

func (c *Client) sendError(text string) {
	c.writeMessage(shared.Message{Type: shared.MessageTypeError, Content: text})
}

// readPump dispatches client requests until the connection fails.
func (c *Client) readPump() {
	defer c.cleanup()

	c.conn.SetReadLimit(getMaxMessageSize())
	c.conn.SetReadDeadline(time.Now().Add(getPongWait()))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(getPongWait()))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.WebSocketWarn("unexpected close for session %s: %v", c.sessionID, err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var req shared.Request
		if err := json.Unmarshal(message, &req); err != nil {
			c.sendError("invalid request: " + err.Error())
			continue
		}
		logger.WebSocketDebug("session %s: %s request", c.sessionID, req.Type)
		c.handleRequest(req)
	}
}

func (c *Client) handleRequest(req shared.Request) {
	switch req.Type {
	case shared.RequestRun:
		c.startRun(req)
	case shared.RequestInput:
		c.mu.Lock()
		feed := c.feed
		c.mu.Unlock()
		if feed == nil {
			c.sendError("no script is running")
			return
		}
		feed.push(req.Content + "\n")
	case shared.RequestStop:
		if !c.stopRun() {
			c.sendError("no script is running")
		}
	case shared.RequestState:
		c.sendState()
	default:
		c.sendError("unknown request type: " + req.Type)
	}
}

// cleanup stops the running script and releases the session.
func (c *Client) cleanup() {
	c.stopRun()
	close(c.done)
	c.wg.Wait()
	c.conn.Close()
	c.handler.sessions.remove(c.sessionID)
	logger.WebSocketInfo("client %s disconnected (session %s)", c.conn.RemoteAddr(), c.sessionID)
}

// writePump writes queued messages and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(getPingPeriod())
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(getWriteWait()))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.WebSocketWarn("write to session %s failed: %v", c.sessionID, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(getWriteWait()))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.WebSocketWarn("ping to session %s failed: %v", c.sessionID, err)
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(getWriteWait()))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
