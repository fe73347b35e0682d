package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/antibyte/englang/pkg/library"
	"github.com/antibyte/englang/pkg/shared"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, withLibrary bool) (*httptest.Server, *library.Library) {
	t.Helper()
	var lib *library.Library
	if withLibrary {
		var err error
		lib, err = library.Open(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { lib.Close() })
	}

	h := NewHandler(lib)
	mux := http.NewServeMux()
	h.Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		h.Shutdown()
		srv.Close()
	})
	return srv, lib
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	msg := readMessage(t, conn)
	if msg.Type != shared.MessageTypeSession || msg.SessionID == "" {
		t.Fatalf("first message = %+v, want session", msg)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) shared.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg shared.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func send(t *testing.T, conn *websocket.Conn, req shared.Request) {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// collect reads messages up to and including the end message.
func collect(t *testing.T, conn *websocket.Conn) []shared.Message {
	t.Helper()
	var msgs []shared.Message
	for {
		msg := readMessage(t, conn)
		msgs = append(msgs, msg)
		if msg.Type == shared.MessageTypeEnd {
			return msgs
		}
	}
}

func textOf(msgs []shared.Message, kind shared.MessageType) string {
	var b strings.Builder
	for _, m := range msgs {
		if m.Type == kind {
			b.WriteString(m.Content)
		}
	}
	return b.String()
}

func TestRunSource(t *testing.T) {
	srv, _ := newTestServer(t, false)
	conn := dial(t, srv)

	send(t, conn, shared.Request{Type: shared.RequestRun, Source: "set x to 2\nprint x and \"apples\"\nwobble\n"})
	msgs := collect(t, conn)

	if got := textOf(msgs, shared.MessageTypeText); got != "2 apples\n" {
		t.Errorf("output = %q", got)
	}
	if got := textOf(msgs, shared.MessageTypeError); got != "Warning: unknown instruction on line 3: 'wobble'\n" {
		t.Errorf("diagnostics = %q", got)
	}
	if end := msgs[len(msgs)-1]; end.Content != "0" {
		t.Errorf("exit status = %q, want 0", end.Content)
	}

	send(t, conn, shared.Request{Type: shared.RequestState})
	state := readMessage(t, conn)
	if state.Type != shared.MessageTypeState || !strings.Contains(state.Content, "x: 2") {
		t.Errorf("state = %+v", state)
	}
}

func TestAskUsesInputMessages(t *testing.T) {
	srv, _ := newTestServer(t, false)
	conn := dial(t, srv)

	send(t, conn, shared.Request{Type: shared.RequestRun, Source: "ask \"Name?\" into n\nprint \"hi\" and n\n"})
	prompt := readMessage(t, conn)
	if prompt.Type != shared.MessageTypePrompt || prompt.Content != "Name? " {
		t.Fatalf("prompt = %+v", prompt)
	}

	send(t, conn, shared.Request{Type: shared.RequestInput, Content: "Ada"})
	msgs := collect(t, conn)
	if got := textOf(msgs, shared.MessageTypeText); got != "hi Ada\n" {
		t.Errorf("output = %q", got)
	}
}

func TestStopRunningScript(t *testing.T) {
	srv, _ := newTestServer(t, false)
	conn := dial(t, srv)

	send(t, conn, shared.Request{Type: shared.RequestRun, Source: "set a to 0\nwhile a is equal to 0 then\nset a to 0\nend while\n"})
	send(t, conn, shared.Request{Type: shared.RequestRun, Source: "print 1\n"})
	busy := readMessage(t, conn)
	if busy.Type != shared.MessageTypeError || !strings.Contains(busy.Content, "already running") {
		t.Fatalf("second run = %+v", busy)
	}

	send(t, conn, shared.Request{Type: shared.RequestStop})
	msgs := collect(t, conn)
	if end := msgs[len(msgs)-1]; end.Content != "1" {
		t.Errorf("exit status = %q, want 1 after stop", end.Content)
	}
	if !strings.Contains(textOf(msgs, shared.MessageTypeError), "context canceled") {
		t.Errorf("errors = %q", textOf(msgs, shared.MessageTypeError))
	}

	send(t, conn, shared.Request{Type: shared.RequestStop})
	if msg := readMessage(t, conn); msg.Type != shared.MessageTypeError {
		t.Errorf("stop without run = %+v", msg)
	}
}

func TestRequestErrors(t *testing.T) {
	srv, _ := newTestServer(t, false)
	conn := dial(t, srv)

	tests := []struct {
		name string
		req  shared.Request
		want string
	}{
		{"empty run", shared.Request{Type: shared.RequestRun}, "needs a script or source"},
		{"named run without library", shared.Request{Type: shared.RequestRun, Script: "x"}, "library not configured"},
		{"input without run", shared.Request{Type: shared.RequestInput, Content: "1"}, "no script is running"},
		{"state before run", shared.Request{Type: shared.RequestState}, "no script has run"},
		{"unknown", shared.Request{Type: "dance"}, "unknown request type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, conn, tt.req)
			msg := readMessage(t, conn)
			if msg.Type != shared.MessageTypeError || !strings.Contains(msg.Content, tt.want) {
				t.Errorf("reply = %+v, want error containing %q", msg, tt.want)
			}
		})
	}
}

func TestScriptsAPIAndNamedRun(t *testing.T) {
	srv, lib := newTestServer(t, true)

	body := bytes.NewBufferString(`{"name":"greet","source":"print \"hello\"\nstop\n"}`)
	resp, err := http.Post(srv.URL+"/api/scripts", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/scripts")
	if err != nil {
		t.Fatal(err)
	}
	var list []scriptInfo
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(list) != 1 || list[0].Name != "greet" {
		t.Errorf("list = %+v", list)
	}

	resp, err = http.Get(srv.URL + "/api/scripts?name=missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing script status = %d", resp.StatusCode)
	}

	conn := dial(t, srv)
	send(t, conn, shared.Request{Type: shared.RequestRun, Script: "greet"})
	msgs := collect(t, conn)
	if got := textOf(msgs, shared.MessageTypeText); got != "hello\n" {
		t.Errorf("output = %q", got)
	}
	end := msgs[len(msgs)-1]
	if end.Content != "0" || end.RunID == "" {
		t.Fatalf("end = %+v", end)
	}

	runs, err := lib.Runs(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != end.RunID || runs[0].Status != library.StatusStopped {
		t.Errorf("journal = %+v", runs)
	}
}

func TestScriptsAPIWithoutLibrary(t *testing.T) {
	srv, _ := newTestServer(t, false)
	resp, err := http.Get(srv.URL + "/api/scripts")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestRequireAuthOnWebSocket(t *testing.T) {
	t.Setenv("ENGLANG_SERVER_REQUIRE_AUTH", "true")
	t.Setenv("ENGLANG_JWT_SECRET_KEY", "test-secret")
	srv, _ := newTestServer(t, false)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial without token succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("response = %v", resp)
	}
}

func TestCheckOrigin(t *testing.T) {
	t.Setenv("ENGLANG_SERVER_ALLOWED_ORIGINS", "http://good.example, http://also.example")
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://good.example", true},
		{"http://also.example", true},
		{"http://evil.example", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := checkOrigin(r); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
