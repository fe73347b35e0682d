package englang

import "context"

// commandFunc executes the statement at idx and returns the next index.
type commandFunc func(in *Interpreter, ctx context.Context, idx int, tok []Token) (int, error)

// statementForm is one recognised shape of a statement. A form matches when
// the line has at least minTokens tokens and every keyword sits at its
// position.
type statementForm struct {
	name      string
	minTokens int
	keywords  map[int]string
	shape     func(tok []Token) bool
	run       commandFunc
}

func (f statementForm) matches(tok []Token) bool {
	if len(tok) < f.minTokens {
		return false
	}
	for pos, kw := range f.keywords {
		if pos >= len(tok) || !tok[pos].is(kw) {
			return false
		}
	}
	return f.shape == nil || f.shape(tok)
}

// statementForms maps the leading keyword to its forms, most specific first.
var statementForms map[string][]statementForm

func init() {
	statementForms = map[string][]statementForm{
		"set": {
			{name: "set element", minTokens: 8, keywords: map[int]string{1: "element", 3: "of", 4: "array", 6: "to"}, run: cmdSetElement},
			{name: "set", minTokens: 4, keywords: map[int]string{2: "to"}, run: cmdSet},
		},
		"add":       {{name: "add", minTokens: 6, keywords: map[int]string{2: "and", 4: "into"}, run: cmdAdd}},
		"subtract":  {{name: "subtract", minTokens: 6, keywords: map[int]string{2: "from", 4: "into"}, run: cmdSubtract}},
		"multiply":  {{name: "multiply", minTokens: 6, keywords: map[int]string{2: "by", 4: "into"}, run: cmdMultiply}},
		"divide":    {{name: "divide", minTokens: 6, keywords: map[int]string{2: "by", 4: "into"}, run: cmdDivide}},
		"increment": {{name: "increment", minTokens: 2, run: cmdIncrement}},
		"decrement": {{name: "decrement", minTokens: 2, run: cmdDecrement}},
		"print":     {{name: "print", minTokens: 1, run: cmdPrint}},
		"say":       {{name: "say", minTokens: 1, run: cmdPrint}},
		"ask":       {{name: "ask", minTokens: 4, shape: hasAskTarget, run: cmdAsk}},
		"if":        {{name: "if", minTokens: 2, shape: hasThen, run: cmdIf}},
		"while":     {{name: "while", minTokens: 2, shape: hasThen, run: cmdWhile}},
		"repeat":    {{name: "repeat", minTokens: 3, keywords: map[int]string{2: "times"}, run: cmdRepeat}},
		"for":       {{name: "for", minTokens: 6, keywords: map[int]string{2: "from", 4: "to"}, run: cmdFor}},
		"define":    {{name: "define", minTokens: 3, run: cmdDefine}},
		"call":      {{name: "call", minTokens: 2, run: cmdCall}},
		"return":    {{name: "return", minTokens: 2, run: cmdReturn}},
		"push":      {{name: "push", minTokens: 4, keywords: map[int]string{2: "onto", 3: "stack"}, run: cmdPush}},
		"pop":       {{name: "pop", minTokens: 5, keywords: map[int]string{1: "from", 2: "stack", 3: "into"}, run: cmdPop}},
		"store":     {{name: "store", minTokens: 5, keywords: map[int]string{2: "at", 3: "address"}, run: cmdStore}},
		"load":      {{name: "load", minTokens: 6, keywords: map[int]string{1: "from", 2: "address", 4: "into"}, run: cmdLoad}},
		"create":    {{name: "create array", minTokens: 3, keywords: map[int]string{1: "array"}, run: cmdCreateArray}},
		"append":    {{name: "append", minTokens: 5, keywords: map[int]string{2: "to", 3: "array"}, run: cmdAppend}},
		"get":       {{name: "get element", minTokens: 8, keywords: map[int]string{1: "element", 3: "of", 4: "array", 6: "into"}, run: cmdGetElement}},
		"size":      {{name: "size of array", minTokens: 6, keywords: map[int]string{1: "of", 2: "array", 4: "into"}, run: cmdSizeOf}},
		"square":    {{name: "square root", minTokens: 6, keywords: map[int]string{1: "root", 2: "of", 4: "into"}, run: cmdSquareRoot}},
		"absolute":  {{name: "absolute value", minTokens: 6, keywords: map[int]string{1: "value", 2: "of", 4: "into"}, run: cmdAbsolute}},
		"length":    {{name: "length", minTokens: 5, keywords: map[int]string{1: "of", 3: "into"}, run: cmdLength}},
		"convert": {
			{name: "convert to number", minTokens: 4, keywords: map[int]string{2: "to", 3: "number"}, run: cmdConvertNumber},
			{name: "convert to string", minTokens: 4, keywords: map[int]string{2: "to", 3: "string"}, run: cmdConvertString},
		},
		"stop": {{name: "stop", minTokens: 1, run: cmdStop}},
		"exit": {{name: "exit", minTokens: 1, run: cmdStop}},
	}
}

// lookupForm returns the first form matching tok.
func lookupForm(tok []Token) (statementForm, bool) {
	if len(tok) == 0 || tok[0].Literal {
		return statementForm{}, false
	}
	for _, f := range statementForms[tok[0].Text] {
		if f.matches(tok) {
			return f, true
		}
	}
	return statementForm{}, false
}

// IsKnownStatement reports whether line parses as a supported statement
// form, a comment, a blank line or a block marker.
func IsKnownStatement(line string) bool {
	tok := Tokenize(line, DefaultMaxTokens, DefaultMaxTokenLength)
	if len(tok) == 0 || isComment(tok[0]) {
		return true
	}
	if _, ok := lookupForm(tok); ok {
		return true
	}
	return isBlockMarker(tok[0])
}

func hasThen(tok []Token) bool {
	return indexOf(tok, "then", 1) > 0
}

func hasAskTarget(tok []Token) bool {
	into := indexOf(tok, "into", 1)
	return into > 0 && into+1 < len(tok)
}
