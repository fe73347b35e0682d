package englang

import (
	"context"
	"fmt"
	"strings"

	"github.com/antibyte/englang/pkg/logger"
)

// cmdPrint handles `print` and `say`: the resolved text of every following
// token, space separated, skipping the bare word `and`.
func cmdPrint(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	parts := make([]string, 0, len(tok)-1)
	for _, t := range tok[1:] {
		if t.is("and") {
			continue
		}
		parts = append(parts, in.ResolveText(t))
	}
	fmt.Fprintln(in.out, strings.Join(parts, " "))
	return idx + 1, nil
}

// Prompter is implemented by output writers that want to know when the
// program is waiting for input.
type Prompter interface {
	Prompt(text string)
}

// cmdAsk handles `ask <prompt> into <var>`. End of input leaves the variable
// untouched.
func cmdAsk(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	into := indexOf(tok, "into", 1)
	prompt := in.ResolveText(tok[1]) + " "
	if p, ok := in.out.(Prompter); ok {
		p.Prompt(prompt)
	} else {
		fmt.Fprint(in.out, prompt)
	}

	line, err := in.input.ReadString('\n')
	if line == "" && err != nil {
		logger.InterpreterDebug("session %s: ask on line %d got no input: %v", in.opts.SessionID, idx+1, err)
		return idx + 1, nil
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	val := TextValue(line)
	if f, ok := parseNumber(line); ok {
		val = NumberValue(f)
	}
	return idx + 1, in.setVar(tok[into+1].Text, val)
}
