package terminal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/antibyte/englang/pkg/configuration"
	"github.com/antibyte/englang/pkg/englang"
	"github.com/antibyte/englang/pkg/logger"
	"github.com/antibyte/englang/pkg/shared"
)

// program builds the program a run request asks for.
func (c *Client) program(req shared.Request) (*englang.Program, error) {
	switch {
	case req.Source != "":
		return englang.ParseProgram("session-"+c.sessionID, req.Source), nil
	case req.Script != "":
		if c.handler.lib == nil {
			return nil, errors.New("script library not configured")
		}
		return c.handler.lib.Program(context.Background(), req.Script)
	default:
		return nil, errors.New("run request needs a script or source")
	}
}

// startRun starts a script on its own goroutine. Only one script runs per
// session.
func (c *Client) startRun(req shared.Request) {
	prog, err := c.program(req)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		c.sendError("a script is already running")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), getRunTimeout())
	feed := newLineFeed(ctx)

	opts := englang.ConfiguredOptions()
	if opts.MaxSteps == 0 {
		opts.MaxSteps = int64(configuration.GetInt("Server", "max_steps", 0))
	}
	opts.Stdout = &clientWriter{client: c, kind: shared.MessageTypeText}
	opts.Stderr = &clientWriter{client: c, kind: shared.MessageTypeError}
	opts.Stdin = feed
	opts.SessionID = c.sessionID
	interp := englang.NewInterpreter(opts)

	c.running = true
	c.cancel = cancel
	c.feed = feed
	c.interp = interp
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run(ctx, cancel, interp, prog)
}

func (c *Client) run(ctx context.Context, cancel context.CancelFunc, interp *englang.Interpreter, prog *englang.Program) {
	defer c.wg.Done()
	defer cancel()

	lib := c.handler.lib
	var runID string
	if lib != nil {
		id, err := lib.StartRun(ctx, prog.Name, "websocket:"+c.username)
		if err != nil {
			logger.TerminalWarn("session %s: journal start failed: %v", c.sessionID, err)
		}
		runID = id
	}

	logger.TerminalInfo("session %s: running %s", c.sessionID, prog.Name)
	runErr := interp.Run(ctx, prog)

	if runID != "" {
		if err := lib.FinishRun(context.Background(), runID, interp.Steps(), interp.Stopped(), runErr); err != nil {
			logger.TerminalWarn("session %s: journal finish failed: %v", c.sessionID, err)
		}
	}

	c.mu.Lock()
	c.running = false
	c.cancel = nil
	c.feed.close()
	c.feed = nil
	c.mu.Unlock()

	status := "0"
	if runErr != nil {
		status = "1"
		c.sendError("Error: " + runErr.Error())
	}
	c.writeMessage(shared.Message{Type: shared.MessageTypeEnd, Content: status, RunID: runID})
}

// stopRun cancels the running script. It reports whether one was running.
func (c *Client) stopRun() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return false
	}
	c.cancel()
	c.feed.close()
	return true
}

// sendState sends the snapshot of the last finished run.
func (c *Client) sendState() {
	c.mu.Lock()
	running, interp := c.running, c.interp
	c.mu.Unlock()

	switch {
	case running:
		c.sendError("state is not available while a script is running")
		return
	case interp == nil:
		c.sendError("no script has run in this session")
		return
	}

	var buf bytes.Buffer
	if err := interp.WriteSnapshot(&buf); err != nil {
		c.sendError(fmt.Sprintf("snapshot failed: %v", err))
		return
	}
	c.writeMessage(shared.Message{Type: shared.MessageTypeState, Content: buf.String()})
}

// clientWriter turns interpreter output into messages. The stdout writer
// also reports prompts.
type clientWriter struct {
	client *Client
	kind   shared.MessageType
}

func (w *clientWriter) Write(p []byte) (int, error) {
	w.client.writeMessage(shared.Message{Type: w.kind, Content: string(p)})
	return len(p), nil
}

// Prompt implements englang.Prompter.
func (w *clientWriter) Prompt(text string) {
	w.client.writeMessage(shared.Message{Type: shared.MessageTypePrompt, Content: text})
}

const maxPendingInput = 256

// lineFeed is the stdin of a remote script. Input lines queue until `ask`
// reads them; Read reports io.EOF once the run ends.
type lineFeed struct {
	ctx     context.Context
	lines   chan string
	pending string
	closed  chan struct{}
	once    sync.Once
}

func newLineFeed(ctx context.Context) *lineFeed {
	return &lineFeed{
		ctx:    ctx,
		lines:  make(chan string, maxPendingInput),
		closed: make(chan struct{}),
	}
}

func (f *lineFeed) push(line string) {
	select {
	case <-f.closed:
		return
	default:
	}
	select {
	case f.lines <- line:
	default:
		logger.TerminalWarn("input queue full, line dropped")
	}
}

func (f *lineFeed) Read(p []byte) (int, error) {
	if f.pending == "" {
		select {
		case line := <-f.lines:
			f.pending = line
		case <-f.closed:
			return 0, io.EOF
		case <-f.ctx.Done():
			return 0, io.EOF
		}
	}
	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

func (f *lineFeed) close() {
	f.once.Do(func() { close(f.closed) })
}
