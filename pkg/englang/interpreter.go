package englang

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antibyte/englang/pkg/logger"
)

// Interpreter executes one program at a time. It is not safe for concurrent
// use.
type Interpreter struct {
	opts Options

	vars   *Variables
	arrays *Arrays
	stack  Stack
	memory Memory
	funcs  functionTable

	prog   *Program
	code   [][]Token
	blocks *Blocks

	out   io.Writer
	diag  io.Writer
	input *bufio.Reader

	depth   int
	steps   int64
	stopped bool
}

// NewInterpreter creates an interpreter with empty state.
func NewInterpreter(opts Options) *Interpreter {
	opts = opts.withDefaults()
	in := &Interpreter{
		opts:  opts,
		out:   opts.Stdout,
		diag:  opts.Stderr,
		input: bufio.NewReader(opts.Stdin),
	}
	in.Reset()
	return in
}

// Reset clears all variables, arrays, the stack, memory and functions.
func (in *Interpreter) Reset() {
	in.vars = newVariables(in.opts.MaxVariables)
	in.arrays = newArrays(in.opts.MaxArrays, in.opts.MaxArraySize)
	in.stack = Stack{limit: in.opts.StackSize}
	in.memory = Memory{cells: make([]float64, in.opts.MemorySize)}
	in.funcs = functionTable{limit: in.opts.MaxFunctions}
	in.prog = nil
	in.code = nil
	in.blocks = nil
	in.depth = 0
	in.steps = 0
	in.stopped = false
}

// Run executes prog from its first line on fresh state. It returns nil when
// the program completes or executes `stop`/`exit`, and a *RuntimeError when
// a resource ceiling is hit or ctx is cancelled.
func (in *Interpreter) Run(ctx context.Context, prog *Program) error {
	in.Reset()
	in.prog = prog
	in.code = make([][]Token, len(prog.Lines))
	for i, line := range prog.Lines {
		in.code[i] = Tokenize(line, in.opts.MaxTokens, in.opts.MaxTokenLength)
	}
	in.blocks = NewBlocks(in.code, !in.opts.LegacyForBlocks)

	logger.InterpreterInfo("session %s: running %q (%d lines)", in.opts.SessionID, prog.Name, len(prog.Lines))

	if err := in.collectFunctions(); err != nil {
		logger.InterpreterError("session %s: %v", in.opts.SessionID, err)
		return err
	}

	err := in.execute(ctx, 0, len(in.code))
	if errors.Is(err, ErrExit) {
		in.stopped = true
		logger.InterpreterDebug("session %s: stopped by program", in.opts.SessionID)
		return nil
	}
	if err != nil {
		logger.InterpreterError("session %s: %v", in.opts.SessionID, err)
		return err
	}
	logger.InterpreterDebug("session %s: finished after %d steps", in.opts.SessionID, in.steps)
	return nil
}

// Stopped reports whether the last run ended with `stop` or `exit`.
func (in *Interpreter) Stopped() bool {
	return in.stopped
}

// Steps returns the number of statements and loop passes of the last run.
func (in *Interpreter) Steps() int64 {
	return in.steps
}

// Variable returns the current value of a global.
func (in *Interpreter) Variable(name string) (Value, bool) {
	return in.vars.Get(name)
}

// execute runs lines [start, end). Each nested range counts towards the
// depth ceiling.
func (in *Interpreter) execute(ctx context.Context, start, end int) error {
	in.depth++
	defer func() { in.depth-- }()
	if in.depth > in.opts.MaxDepth {
		return newResourceError(ErrDepthExceeded, 0)
	}

	for i := start; i < end && i < len(in.code); {
		if err := in.checkpoint(ctx, i); err != nil {
			return err
		}
		next, err := in.executeLine(ctx, i)
		if err != nil {
			return wrapLineError(err, i+1)
		}
		i = next
	}
	return nil
}

// checkpoint is called before every statement and every loop pass. It
// honours cancellation and the step budget.
func (in *Interpreter) checkpoint(ctx context.Context, idx int) error {
	select {
	case <-ctx.Done():
		return &RuntimeError{Category: ErrCategoryExecution, Line: idx + 1, Err: ctx.Err()}
	default:
	}
	in.steps++
	if in.opts.MaxSteps > 0 && in.steps > in.opts.MaxSteps {
		return newResourceError(ErrStepLimitExceeded, idx+1)
	}
	return nil
}

// executeLine runs the statement at idx and returns the index to continue at.
func (in *Interpreter) executeLine(ctx context.Context, idx int) (int, error) {
	tok := in.code[idx]
	if len(tok) == 0 || isComment(tok[0]) {
		return idx + 1, nil
	}
	if form, ok := lookupForm(tok); ok {
		logger.InterpreterDebug("line %d: %s", idx+1, form.name)
		return form.run(in, ctx, idx, tok)
	}
	if isBlockMarker(tok[0]) {
		return idx + 1, nil
	}
	in.warnf("Warning: unknown instruction on line %d: '%s'", idx+1, strings.TrimSpace(in.prog.Lines[idx]))
	return idx + 1, nil
}

// isComment reports whether the line starting with tok is a comment.
func isComment(tok Token) bool {
	return !tok.Literal && (strings.HasPrefix(tok.Text, "#") || strings.HasPrefix(tok.Text, "//"))
}

// isBlockMarker matches `otherwise` and `end ...` lines, which are no-ops
// when reached directly.
func isBlockMarker(tok Token) bool {
	return tok.is("otherwise") || (!tok.Literal && strings.HasPrefix(tok.Text, "end"))
}

// warnf writes a diagnostic line for the script author.
func (in *Interpreter) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(in.diag, msg)
	logger.InterpreterDebug("session %s: %s", in.opts.SessionID, msg)
}

// setVar writes a global, failing when the table is full.
func (in *Interpreter) setVar(name string, v Value) error {
	if err := in.vars.Set(name, v); err != nil {
		return newResourceError(err, 0)
	}
	return nil
}

// declareVar creates name as Number(0) if it does not exist yet. Statements
// that create their target before resolving operands call it first.
func (in *Interpreter) declareVar(name string) error {
	if _, ok := in.vars.Get(name); ok {
		return nil
	}
	return in.setVar(name, Value{})
}

// array returns the named array, creating it when missing.
func (in *Interpreter) array(name string) (*Array, error) {
	a, err := in.arrays.GetOrCreate(name)
	if err != nil {
		return nil, newResourceError(err, 0)
	}
	return a, nil
}
