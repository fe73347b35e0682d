package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/antibyte/englang/pkg/auth"
	"github.com/antibyte/englang/pkg/configuration"
	"github.com/antibyte/englang/pkg/englang"
	"github.com/antibyte/englang/pkg/library"
	"github.com/antibyte/englang/pkg/logger"
	"github.com/antibyte/englang/pkg/terminal"

	"golang.org/x/term"
)

const (
	version       = "1.0"
	libraryPrefix = "lib:"
)

// ANSI colours for diagnostics on a terminal.
const (
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorReset  = "\x1b[0m"
)

const quickReference = `
Language Quick Reference:
  set x to 42
  set greeting to "Hello, World!"
  add x and y into result
  subtract a from b into diff
  multiply x by y into product
  divide a by b into quotient
  increment counter
  decrement counter by 5
  print x and y
  ask "Enter a number:" into num
  if x is greater than 5 then
    print x
  otherwise
    print "small"
  end if
  while x is less than 100 then
    increment x
  end while
  repeat 10 times
    print x
  end repeat
  for i from 1 to 10 step 1 then
    print i
  end for
  define greet with name as
    print "Hello" and name
  end define
  call greet with "World"
  create array list
  append 5 to array list
  push x onto stack
  pop from stack into y
  store 42 at address 0
  load from address 0 into z
  stop
`

type cliFlags struct {
	configPath   string
	initConfig   bool
	dumpState    bool
	dbPath       string
	importName   string
	list         bool
	serve        string
	hashPassword string
	check        bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole command line program. It returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("englang", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var f cliFlags
	fs.StringVar(&f.configPath, "config", "settings.cfg", "configuration file")
	fs.BoolVar(&f.initConfig, "init-config", false, "write the default configuration to -config and exit")
	fs.BoolVar(&f.dumpState, "dump-state", false, "print the interpreter state as YAML to stderr after the run")
	fs.StringVar(&f.dbPath, "db", "", "script library database (enables the run journal)")
	fs.StringVar(&f.importName, "import", "", "store the script file in the library under this name")
	fs.BoolVar(&f.list, "list", false, "list library scripts and recent runs")
	fs.StringVar(&f.serve, "serve", "", "serve the HTTP API and WebSocket terminal on this address")
	fs.StringVar(&f.hashPassword, "hash-password", "", "print the bcrypt hash of a password for the [Users] section")
	fs.BoolVar(&f.check, "check", false, "report unknown statements without running the script")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "ENGLANG Interpreter v%s\nUsage: englang [flags] <script.eng | %s<name>>\n\nFlags:\n", version, libraryPrefix)
		fs.PrintDefaults()
		fmt.Fprint(stderr, quickReference)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if f.initConfig {
		if err := configuration.WriteDefaults(f.configPath); err != nil {
			return fail(stderr, err)
		}
		fmt.Fprintf(stdout, "wrote default configuration to %s\n", f.configPath)
		return 0
	}

	if f.hashPassword != "" {
		hash, err := auth.HashPassword(f.hashPassword)
		if err != nil {
			return fail(stderr, err)
		}
		fmt.Fprintln(stdout, hash)
		return 0
	}

	if err := configuration.Initialize(f.configPath); err != nil {
		return fail(stderr, fmt.Errorf("error initializing configuration: %v", err))
	}
	if err := logger.Initialize(); err != nil {
		return fail(stderr, fmt.Errorf("error initializing logger: %v", err))
	}
	defer logger.Close()
	logger.ConfigInfo("configuration loaded from %s", f.configPath)

	script := fs.Arg(0)
	needsLibrary := f.dbPath != "" || f.importName != "" || f.list || f.serve != "" ||
		strings.HasPrefix(script, libraryPrefix)

	var lib *library.Library
	if needsLibrary {
		dbPath := f.dbPath
		if dbPath == "" {
			dbPath = configuration.GetString("Database", "path", "englang.db")
		}
		var err error
		lib, err = library.Open(dbPath)
		if err != nil {
			return fail(stderr, err)
		}
		defer lib.Close()
	}

	ctx := context.Background()

	switch {
	case f.serve != "":
		return serve(f.serve, lib, stderr)
	case f.list:
		return listLibrary(ctx, lib, stdout, stderr)
	case script == "":
		fs.Usage()
		return 1
	}

	prog, err := loadScript(ctx, script, lib)
	if err != nil {
		return fail(stderr, err)
	}

	if f.importName != "" {
		if err := lib.SaveScript(ctx, f.importName, prog.Source()); err != nil {
			return fail(stderr, err)
		}
		fmt.Fprintf(stdout, "imported %s as %s\n", script, f.importName)
		return 0
	}

	if f.check {
		return checkProgram(prog, stdout)
	}

	return execute(ctx, prog, lib, f.dumpState, stdin, stdout, stderr)
}

// loadScript reads a file or, with the lib: prefix, a library script.
func loadScript(ctx context.Context, script string, lib *library.Library) (*englang.Program, error) {
	if name, ok := strings.CutPrefix(script, libraryPrefix); ok {
		return lib.Program(ctx, name)
	}
	return englang.LoadProgram(script)
}

// execute runs prog with the configured limits and journals the run when a
// library is open.
func execute(ctx context.Context, prog *englang.Program, lib *library.Library, dumpState bool, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	diag := stderr
	colored := isTerminal(stderr)
	if colored {
		diag = &colorWriter{w: stderr, color: colorYellow}
	}

	opts := englang.ConfiguredOptions()
	opts.Stdout = &flushingWriter{w: out}
	opts.Stderr = &syncedWriter{w: diag, before: out}
	opts.Stdin = stdin
	opts.SessionID = "cli"
	in := englang.NewInterpreter(opts)

	var runID string
	if lib != nil {
		id, err := lib.StartRun(ctx, prog.Name, "cli")
		if err != nil {
			logger.Warn(logger.AreaDatabase, "journal start failed: %v", err)
		}
		runID = id
	}

	runErr := in.Run(ctx, prog)
	out.Flush()

	if runID != "" {
		if err := lib.FinishRun(context.Background(), runID, in.Steps(), in.Stopped(), runErr); err != nil {
			logger.Warn(logger.AreaDatabase, "journal finish failed: %v", err)
		}
	}

	if dumpState {
		if err := in.WriteSnapshot(stderr); err != nil {
			logger.Warn(logger.AreaGeneral, "state dump failed: %v", err)
		}
	}

	if runErr != nil {
		if colored {
			fmt.Fprintf(stderr, "%sError: %v%s\n", colorRed, runErr, colorReset)
			return 1
		}
		return fail(stderr, runErr)
	}
	return 0
}

// checkProgram prints every line no statement form accepts.
func checkProgram(prog *englang.Program, stdout io.Writer) int {
	status := 0
	for i, line := range prog.Lines {
		if !englang.IsKnownStatement(line) {
			fmt.Fprintf(stdout, "%s:%d: unknown instruction '%s'\n", prog.Name, i+1, strings.TrimSpace(line))
			status = 1
		}
	}
	return status
}

func listLibrary(ctx context.Context, lib *library.Library, stdout, stderr io.Writer) int {
	scripts, err := lib.ListScripts(ctx)
	if err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintln(stdout, "Scripts:")
	for _, s := range scripts {
		fmt.Fprintf(stdout, "  %-20s %s\n", s.Name, s.UpdatedAt.Format(time.DateTime))
	}

	runs, err := lib.Runs(ctx, 10)
	if err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintln(stdout, "Recent runs:")
	for _, r := range runs {
		line := fmt.Sprintf("  %s %-20s %-10s %-9s steps=%d", r.StartedAt.Format(time.DateTime), r.Script, r.Origin, r.Status, r.Steps)
		if r.Message != "" {
			line += " " + r.Message
		}
		fmt.Fprintln(stdout, line)
	}
	return 0
}

// serve runs the HTTP server until SIGINT or SIGTERM.
func serve(addr string, lib *library.Library, stderr io.Writer) int {
	if auth.AuthRequired() && len(auth.ConfiguredUsers()) == 0 {
		logger.AuthWarn("require_auth is set but the [Users] section is empty")
		fmt.Fprintln(stderr, "Warning: authentication is required but no users are configured")
	}

	handler := terminal.NewHandler(lib)
	mux := http.NewServeMux()
	handler.Routes(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		certFile := configuration.GetString("Server", "cert_file", "")
		keyFile := configuration.GetString("Server", "key_file", "")
		if certFile != "" && keyFile != "" {
			logger.Info(logger.AreaGeneral, "starting HTTPS server on %s", addr)
			errCh <- srv.ListenAndServeTLS(certFile, keyFile)
			return
		}
		logger.Info(logger.AreaGeneral, "starting HTTP server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(stderr, "englang listening on %s\n", addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fail(stderr, err)
		}
	case <-ctx.Done():
		logger.Info(logger.AreaGeneral, "shutting down")
		handler.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fail(stderr, err)
		}
	}
	return 0
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorWriter wraps every write in an ANSI colour.
type colorWriter struct {
	w     io.Writer
	color string
}

func (c *colorWriter) Write(p []byte) (int, error) {
	if _, err := fmt.Fprintf(c.w, "%s%s%s", c.color, p, colorReset); err != nil {
		return 0, err
	}
	return len(p), nil
}

// syncedWriter flushes buffered program output before each diagnostic.
type syncedWriter struct {
	w      io.Writer
	before *bufio.Writer
}

func (s *syncedWriter) Write(p []byte) (int, error) {
	s.before.Flush()
	return s.w.Write(p)
}

// flushingWriter buffers output and flushes it at every prompt.
type flushingWriter struct {
	w *bufio.Writer
}

func (f *flushingWriter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

// Prompt implements englang.Prompter.
func (f *flushingWriter) Prompt(text string) {
	f.w.WriteString(text)
	f.w.Flush()
}
