package englang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// newTestInterpreter creates an interpreter reading input and writing to
// discarded buffers.
func newTestInterpreter(input string) *Interpreter {
	return NewInterpreter(Options{
		Stdout:    &bytes.Buffer{},
		Stderr:    &bytes.Buffer{},
		Stdin:     strings.NewReader(input),
		SessionID: "test-session",
	})
}

func mustSet(t *testing.T, in *Interpreter, name string, v Value) {
	t.Helper()
	if err := in.setVar(name, v); err != nil {
		t.Fatal(err)
	}
}

type scriptResult struct {
	in     *Interpreter
	stdout string
	stderr string
	err    error
}

func runScript(t *testing.T, source, input string, opts Options) scriptResult {
	t.Helper()
	var out, diag bytes.Buffer
	opts.Stdout = &out
	opts.Stderr = &diag
	opts.Stdin = strings.NewReader(input)
	opts.SessionID = "test-session"
	in := NewInterpreter(opts)
	err := in.Run(context.Background(), ParseProgram("test", source))
	return scriptResult{in: in, stdout: out.String(), stderr: diag.String(), err: err}
}

func (r scriptResult) number(t *testing.T, name string) float64 {
	t.Helper()
	v, ok := r.in.Variable(name)
	if !ok {
		t.Fatalf("variable %q not set", name)
	}
	if v.IsText {
		t.Fatalf("variable %q is text %q, want a number", name, v.StrValue)
	}
	return v.NumValue
}

func (r scriptResult) text(t *testing.T, name string) string {
	t.Helper()
	v, ok := r.in.Variable(name)
	if !ok {
		t.Fatalf("variable %q not set", name)
	}
	if !v.IsText {
		t.Fatalf("variable %q is number %v, want text", name, v.NumValue)
	}
	return v.StrValue
}

func TestAddDoubles(t *testing.T) {
	for _, a := range []string{"5", "0", "-2.5", "1e10"} {
		t.Run(a, func(t *testing.T) {
			r := runScript(t, "set x to "+a+"\nadd x and x into y\n", "", Options{})
			if r.err != nil {
				t.Fatal(r.err)
			}
			x := r.number(t, "x")
			if got := r.number(t, "y"); got != x+x {
				t.Errorf("y = %v, want %v", got, x+x)
			}
		})
	}
}

func TestConcatenation(t *testing.T) {
	r := runScript(t, `set s to "hi"
set t to " there"
set u to s concatenated with t
`, "", Options{})
	if got := r.text(t, "u"); got != "hi there" {
		t.Errorf("u = %q", got)
	}
}

func TestDivideByZero(t *testing.T) {
	r := runScript(t, "divide 5 by 0 into q\nset w to 5 divided by 0\n", "", Options{})
	if r.err != nil || r.stderr != "" {
		t.Fatalf("err = %v, stderr = %q", r.err, r.stderr)
	}
	if r.number(t, "q") != 0 || r.number(t, "w") != 0 {
		t.Error("division by zero did not yield 0")
	}
}

func TestRepeat(t *testing.T) {
	r := runScript(t, `set c to 0
repeat 3 times
increment c
end repeat
set d to 0
repeat 0 times
increment d
end repeat
repeat -2 times
increment d
end repeat
`, "", Options{})
	if got := r.number(t, "c"); got != 3 {
		t.Errorf("c = %v, want 3", got)
	}
	if got := r.number(t, "d"); got != 0 {
		t.Errorf("d = %v, want 0", got)
	}
}

func TestForLoop(t *testing.T) {
	r := runScript(t, `set total to 0
for i from 1 to 3 then
add total and i into total
end for
`, "", Options{})
	if got := r.number(t, "total"); got != 6 {
		t.Errorf("total = %v, want 6", got)
	}
	if got := r.number(t, "i"); got != 3 {
		t.Errorf("i = %v, want 3", got)
	}
}

func TestForLoopStep(t *testing.T) {
	r := runScript(t, `set total to 0
for i from 10 to 1 step -3 then
add total and i into total
end for
set n to 0
for j from 1 to 5 step 0 then
increment n
end for
`, "", Options{})
	if got := r.number(t, "total"); got != 22 {
		t.Errorf("total = %v, want 22", got)
	}
	if got := r.number(t, "i"); got != 1 {
		t.Errorf("i = %v, want 1", got)
	}
	if got := r.number(t, "n"); got != 0 {
		t.Errorf("zero step ran %v passes", got)
	}
}

func TestForCounterIsPrivate(t *testing.T) {
	r := runScript(t, `set passes to 0
for i from 1 to 3
increment passes
set i to 100
end for
`, "", Options{})
	if got := r.number(t, "passes"); got != 3 {
		t.Errorf("passes = %v, want 3", got)
	}
	if got := r.number(t, "i"); got != 100 {
		t.Errorf("i = %v, want the body's last write", got)
	}
}

func TestRecursiveCallAliasesParameters(t *testing.T) {
	r := runScript(t, `define countdown with n as
if n is greater than 0 then
subtract 1 from n into n
call countdown with n
end if
end define
set n to 3
call countdown with n
`, "", Options{})
	if r.err != nil {
		t.Fatal(r.err)
	}
	if got := r.number(t, "n"); got != 0 {
		t.Errorf("caller's n = %v after the call, want 0", got)
	}
}

func TestParameterIsGlobal(t *testing.T) {
	r := runScript(t, `define setx with x as
set x to 99
end define
set x to 1
call setx with 5
print x
`, "", Options{})
	if r.stdout != "99\n" {
		t.Errorf("stdout = %q, want %q", r.stdout, "99\n")
	}
}

func TestStackOrder(t *testing.T) {
	r := runScript(t, `push 1 onto stack
push 2 onto stack
pop from stack into a
pop from stack into b
pop from stack into c
`, "", Options{})
	if a, b, c := r.number(t, "a"), r.number(t, "b"), r.number(t, "c"); a != 2 || b != 1 || c != 0 {
		t.Errorf("a, b, c = %v, %v, %v; want 2, 1, 0", a, b, c)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	for _, n := range []string{"3.25", "0.1", "-42", "1e+21"} {
		t.Run(n, func(t *testing.T) {
			r := runScript(t, "set n to "+n+"\nset orig to n\nconvert n to string\nset s to n\nconvert n to number\n", "", Options{})
			if got := r.text(t, "s"); got != n {
				t.Errorf("string form = %q, want %q", got, n)
			}
			if got, want := r.number(t, "n"), r.number(t, "orig"); got != want {
				t.Errorf("round trip = %v, want %v", got, want)
			}
		})
	}
}

func TestIfOtherwise(t *testing.T) {
	r := runScript(t, `if 5 is greater than 3 then
print "yes"
otherwise
print "no"
end if
if 1 is greater than 3 then
print "yes"
otherwise
print "no"
end if
`, "", Options{})
	if r.stdout != "yes\nno\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestLegacyForBlocks(t *testing.T) {
	source := `if 1 is equal to 1 then
for i from 1 to 2 then
print i
end for
otherwise
print "no"
end if
`
	if r := runScript(t, source, "", Options{}); r.stdout != "1\n2\n" {
		t.Errorf("stdout = %q, want %q", r.stdout, "1\n2\n")
	}
	if r := runScript(t, source, "", Options{LegacyForBlocks: true}); r.stdout != "1\n2\nno\n" {
		t.Errorf("legacy stdout = %q, want %q", r.stdout, "1\n2\nno\n")
	}
}

func TestStop(t *testing.T) {
	r := runScript(t, `define f as
repeat 5 times
print "once"
exit
end repeat
end define
call f
print "never"
`, "", Options{})
	if r.err != nil {
		t.Fatalf("stop returned %v", r.err)
	}
	if !r.in.Stopped() {
		t.Error("Stopped() = false")
	}
	if r.stdout != "once\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestDiagnostics(t *testing.T) {
	r := runScript(t, `frobnicate the widget
  call nothing with 1
if x is zero
print "after"
`, "", Options{})
	want := "Warning: unknown instruction on line 1: 'frobnicate the widget'\n" +
		"Error: undefined function 'nothing'\n" +
		"Warning: unknown instruction on line 3: 'if x is zero'\n"
	if r.stderr != want {
		t.Errorf("stderr = %q, want %q", r.stderr, want)
	}
	if r.stdout != "after\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestResourceErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		opts   Options
		want   error
		line   int
	}{
		{
			name:   "variables",
			source: "set a to 1\nset b to 2\nset c to 3\n",
			opts:   Options{MaxVariables: 2},
			want:   ErrTooManyVariables,
			line:   3,
		},
		{
			name:   "arrays",
			source: "create array a\nappend 1 to array b\n",
			opts:   Options{MaxArrays: 1},
			want:   ErrTooManyArrays,
			line:   2,
		},
		{
			name:   "depth",
			source: "define f as\ncall f\nend define\ncall f\n",
			opts:   Options{MaxDepth: 50},
			want:   ErrDepthExceeded,
		},
		{
			name:   "steps",
			source: "while 1 is equal to 1 then\nend while\n",
			opts:   Options{MaxSteps: 100},
			want:   ErrStepLimitExceeded,
			line:   1,
		},
		{
			name:   "functions",
			source: "define a as\nend define\ndefine b as\nend define\n",
			opts:   Options{MaxFunctions: 1},
			want:   ErrTooManyFunctions,
			line:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runScript(t, tt.source, "", tt.opts)
			if !errors.Is(r.err, tt.want) {
				t.Fatalf("err = %v, want %v", r.err, tt.want)
			}
			var re *RuntimeError
			if !errors.As(r.err, &re) {
				t.Fatalf("err %T is not a *RuntimeError", r.err)
			}
			if re.Category != ErrCategoryResource {
				t.Errorf("category = %q", re.Category)
			}
			if tt.line > 0 && re.Line != tt.line {
				t.Errorf("line = %d, want %d", re.Line, tt.line)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := newTestInterpreter("")
	err := in.Run(ctx, ParseProgram("test", "print 1\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAsk(t *testing.T) {
	r := runScript(t, `ask "Number?" into n
ask "Name?" into s
set v to 7
ask "More?" into v
`, "42\nhello\r\n", Options{})
	if r.stdout != "Number? Name? More? " {
		t.Errorf("stdout = %q", r.stdout)
	}
	if got := r.number(t, "n"); got != 42 {
		t.Errorf("n = %v", got)
	}
	if got := r.text(t, "s"); got != "hello" {
		t.Errorf("s = %q", got)
	}
	if got := r.number(t, "v"); got != 7 {
		t.Errorf("v = %v, want unchanged 7 at end of input", got)
	}
}

func TestFunctionTable(t *testing.T) {
	r := runScript(t, `call greet
define greet as
print "first"
end define
define greet as
print "second"
end define
define outer as
define inner as
print "inner"
end define
end define
call inner
call outer
call inner
`, "", Options{})
	if r.stdout != "first\ninner\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
	if r.stderr != "Error: undefined function 'inner'\n" {
		t.Errorf("stderr = %q", r.stderr)
	}
}

func TestReturnSlot(t *testing.T) {
	r := runScript(t, `define double with v as
multiply v by 2 into result
return result
end define
define twice as
return 1
return 2
end define
call double with 21
print return
call twice
print return
`, "", Options{})
	if r.stdout != "42\n2\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestMissingArgumentsKeepParameters(t *testing.T) {
	r := runScript(t, `define g with a b as
print a and b
end define
set b to "keep"
call g with 1
`, "", Options{})
	if r.stdout != "1 keep\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestRunResetsState(t *testing.T) {
	in := newTestInterpreter("")
	if err := in.Run(context.Background(), ParseProgram("one", "set a to 1\n")); err != nil {
		t.Fatal(err)
	}
	if err := in.Run(context.Background(), ParseProgram("two", "set b to 2\n")); err != nil {
		t.Fatal(err)
	}
	if _, ok := in.Variable("a"); ok {
		t.Error("variable from the previous run survived")
	}
}
