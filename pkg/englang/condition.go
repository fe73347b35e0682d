package englang

// comparison identifies the operator of a condition.
type comparison int

const (
	cmpNone comparison = iota
	cmpGreaterEqual
	cmpLessEqual
	cmpGreater
	cmpLess
	cmpEqual
	cmpEmpty
	cmpZero
)

// operatorForm is one operator spelling. need is the number of words,
// counted from the operator's first word, the condition must still have.
type operatorForm struct {
	words []string
	need  int
	op    comparison
}

// Longest spellings first so `greater than or equal to` never reads as
// `greater than`.
var operatorForms = []operatorForm{
	{words: []string{"greater", "than", "or", "equal", "to"}, need: 5, op: cmpGreaterEqual},
	{words: []string{"less", "than", "or", "equal", "to"}, need: 5, op: cmpLessEqual},
	{words: []string{"greater", "than"}, need: 3, op: cmpGreater},
	{words: []string{"less", "than"}, need: 3, op: cmpLess},
	{words: []string{"equal", "to"}, need: 3, op: cmpEqual},
	{words: []string{"empty"}, need: 1, op: cmpEmpty},
	{words: []string{"zero"}, need: 1, op: cmpZero},
}

// matchOperator returns the operator starting at words[at] and the index of
// the first right-hand side word. Relational operators require at least one
// word after them; the five word forms accept an empty right-hand side.
func matchOperator(words []Token, at int) (comparison, int) {
	for _, form := range operatorForms {
		if at+form.need > len(words) {
			continue
		}
		ok := true
		for i, w := range form.words {
			if !words[at+i].is(w) {
				ok = false
				break
			}
		}
		if ok {
			return form.op, at + len(form.words)
		}
	}
	return cmpNone, at
}

// EvalCondition evaluates `<lhs> is [not] <operator> [<rhs>]`. Malformed
// conditions are false; an unknown operator is false before negation.
func (in *Interpreter) EvalCondition(words []Token) bool {
	if len(words) < 3 {
		return false
	}
	isAt := indexOf(words, "is", 0)
	if isAt < 0 {
		return false
	}

	lhs := words[:isAt]
	at := isAt + 1
	negate := false
	if at < len(words) && words[at].is("not") {
		negate = true
		at++
	}

	op, rhsAt := matchOperator(words, at)
	rhs := words[rhsAt:]

	result := false
	switch op {
	case cmpEmpty:
		lv := in.resolveWords(lhs)
		result = lv.IsText && lv.StrValue == ""
	case cmpZero:
		result = in.resolveWords(lhs).Number() == 0
	case cmpGreater:
		result = in.resolveWords(lhs).Number() > in.resolveWords(rhs).Number()
	case cmpLess:
		result = in.resolveWords(lhs).Number() < in.resolveWords(rhs).Number()
	case cmpGreaterEqual:
		result = in.resolveWords(lhs).Number() >= in.resolveWords(rhs).Number()
	case cmpLessEqual:
		result = in.resolveWords(lhs).Number() <= in.resolveWords(rhs).Number()
	case cmpEqual:
		lv, rv := in.resolveWords(lhs), in.resolveWords(rhs)
		if lv.IsText || rv.IsText {
			result = lv.Text() == rv.Text()
		} else {
			result = lv.NumValue == rv.NumValue
		}
	}

	if negate {
		return !result
	}
	return result
}
