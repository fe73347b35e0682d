// Package terminal serves englang over HTTP: a script API and a WebSocket
// terminal that runs scripts for remote clients.
package terminal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/antibyte/englang/pkg/auth"
	"github.com/antibyte/englang/pkg/configuration"
	"github.com/antibyte/englang/pkg/library"
	"github.com/antibyte/englang/pkg/logger"

	"github.com/gorilla/websocket"
)

func getWriteWait() time.Duration {
	return configuration.GetDuration("Server", "write_wait_timeout", 10*time.Second)
}

func getPongWait() time.Duration {
	return configuration.GetDuration("Server", "pong_timeout", 60*time.Second)
}

func getPingPeriod() time.Duration {
	return (getPongWait() * 9) / 10
}

func getMaxMessageSize() int64 {
	return int64(configuration.GetInt("Server", "max_message_size_kb", 64) * 1024)
}

func getMaxChannelBuffer() int {
	return configuration.GetInt("Server", "max_channel_buffer", 1000)
}

func getRunTimeout() time.Duration {
	return configuration.GetDuration("Server", "run_timeout", 5*time.Minute)
}

// Handler owns the library and the connected sessions.
type Handler struct {
	lib      *library.Library
	upgrader websocket.Upgrader
	sessions *sessionManager
}

// NewHandler creates a handler. lib may be nil; the script API and named
// runs are unavailable then.
func NewHandler(lib *library.Library) *Handler {
	return &Handler{
		lib: lib,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		sessions: newSessionManager(),
	}
}

// checkOrigin accepts requests without an Origin header (non-browser
// clients) and origins listed in [Server] allowed_origins.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	allowed := configuration.GetString("Server", "allowed_origins", "*")
	for _, o := range strings.Split(allowed, ",") {
		o = strings.TrimSpace(o)
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	logger.WebSocketWarn("rejected WebSocket origin %s", origin)
	return false
}

// Routes registers all endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/login", auth.HandleLogin)
	mux.HandleFunc("/api/scripts", auth.RequireToken(h.HandleScripts))
	mux.HandleFunc("/ws", auth.RequireToken(h.HandleWebSocket))
}

// Shutdown stops all running scripts and closes every connection.
func (h *Handler) Shutdown() {
	h.sessions.closeAll()
}

type scriptInfo struct {
	Name      string    `json:"name"`
	Source    string    `json:"source,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HandleScripts lists scripts (GET), returns one script (GET ?name=) or
// saves one (POST {name, source}).
func (h *Handler) HandleScripts(w http.ResponseWriter, r *http.Request) {
	if h.lib == nil {
		http.Error(w, "script library not configured", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		if name := r.URL.Query().Get("name"); name != "" {
			s, err := h.lib.LoadScript(r.Context(), name)
			if errors.Is(err, library.ErrScriptNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			if err != nil {
				logger.TerminalError("load script %s: %v", name, err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(scriptInfo{Name: s.Name, Source: s.Source, UpdatedAt: s.UpdatedAt})
			return
		}

		scripts, err := h.lib.ListScripts(r.Context())
		if err != nil {
			logger.TerminalError("list scripts: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		infos := make([]scriptInfo, 0, len(scripts))
		for _, s := range scripts {
			infos = append(infos, scriptInfo{Name: s.Name, UpdatedAt: s.UpdatedAt})
		}
		json.NewEncoder(w).Encode(infos)

	case http.MethodPost:
		var req scriptInfo
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, getMaxMessageSize())).Decode(&req); err != nil {
			http.Error(w, "invalid request format", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "script name required", http.StatusBadRequest)
			return
		}
		if err := h.lib.SaveScript(r.Context(), req.Name, req.Source); err != nil {
			logger.TerminalError("save script %s: %v", req.Name, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		logger.TerminalInfo("script %s saved by %s", req.Name, auth.UsernameFromContext(r.Context()))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(scriptInfo{Name: req.Name})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
