package englang

// Value is a number or a text. The zero value is the number 0.
type Value struct {
	NumValue float64
	StrValue string
	IsText   bool
}

// NumberValue returns a numeric Value.
func NumberValue(f float64) Value {
	return Value{NumValue: f}
}

// TextValue returns a text Value.
func TextValue(s string) Value {
	return Value{StrValue: s, IsText: true}
}

// Number projects the value to a number; text is 0.
func (v Value) Number() float64 {
	if v.IsText {
		return 0
	}
	return v.NumValue
}

// Text renders the value the way print shows it.
func (v Value) Text() string {
	if v.IsText {
		return v.StrValue
	}
	return formatNumber(v.NumValue)
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return v.Text()
}

// Resolve turns a token into a value: string literal, numeric literal,
// existing variable, or the bare word itself.
func (in *Interpreter) Resolve(tok Token) Value {
	if tok.Literal {
		return TextValue(tok.Text)
	}
	if f, ok := parseNumber(tok.Text); ok {
		return NumberValue(f)
	}
	if v, ok := in.vars.Get(tok.Text); ok {
		return v
	}
	return TextValue(tok.Text)
}

// ResolveNumber resolves tok and projects it to a number.
func (in *Interpreter) ResolveNumber(tok Token) float64 {
	return in.Resolve(tok).Number()
}

// ResolveText resolves tok and renders it as text.
func (in *Interpreter) ResolveText(tok Token) string {
	return in.Resolve(tok).Text()
}

// resolveWords resolves a possibly multi-word operand. A single token keeps
// its literal tag; several words are joined and resolved as one bare word.
// No words at all resolve to Number(0).
func (in *Interpreter) resolveWords(tokens []Token) Value {
	switch len(tokens) {
	case 0:
		return Value{}
	case 1:
		return in.Resolve(tokens[0])
	}
	return in.Resolve(Token{Text: joinText(tokens)})
}
