package englang

import "context"

// cmdSet handles `set <var> to <value> [<operator> <operand>]`.
func cmdSet(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	name := tok[1].Text
	if err := in.declareVar(name); err != nil {
		return 0, err
	}
	val := in.Resolve(tok[3])
	if len(tok) > 4 {
		if v, ok := in.applyOperator(tok[3], tok[4:]); ok {
			val = v
		}
	}
	return idx + 1, in.setVar(name, val)
}

// cmdAdd handles `add <a> and <b> into <result>`.
func cmdAdd(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	return in.storeArithmetic(idx, tok[5].Text, func() float64 {
		return in.ResolveNumber(tok[1]) + in.ResolveNumber(tok[3])
	})
}

// cmdSubtract handles `subtract <a> from <b> into <result>`, storing b - a.
func cmdSubtract(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	return in.storeArithmetic(idx, tok[5].Text, func() float64 {
		return in.ResolveNumber(tok[3]) - in.ResolveNumber(tok[1])
	})
}

// cmdMultiply handles `multiply <a> by <b> into <result>`.
func cmdMultiply(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	return in.storeArithmetic(idx, tok[5].Text, func() float64 {
		return in.ResolveNumber(tok[1]) * in.ResolveNumber(tok[3])
	})
}

// cmdDivide handles `divide <a> by <b> into <result>`. Division by zero
// yields 0.
func cmdDivide(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	return in.storeArithmetic(idx, tok[5].Text, func() float64 {
		return divide(in.ResolveNumber(tok[1]), in.ResolveNumber(tok[3]))
	})
}

// storeArithmetic creates the result variable, then computes and stores.
func (in *Interpreter) storeArithmetic(idx int, result string, compute func() float64) (int, error) {
	if err := in.declareVar(result); err != nil {
		return 0, err
	}
	return idx + 1, in.setVar(result, NumberValue(compute()))
}

func cmdIncrement(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	return in.stepVariable(idx, tok, 1)
}

func cmdDecrement(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	return in.stepVariable(idx, tok, -1)
}

// stepVariable adds sign * n to a variable, n defaulting to 1 when there is
// no `by <n>`. A text variable counts as 0.
func (in *Interpreter) stepVariable(idx int, tok []Token, sign float64) (int, error) {
	name := tok[1].Text
	if err := in.declareVar(name); err != nil {
		return 0, err
	}
	by := 1.0
	if len(tok) >= 4 && tok[2].is("by") {
		by = in.ResolveNumber(tok[3])
	}
	cur, _ := in.vars.Get(name)
	return idx + 1, in.setVar(name, NumberValue(cur.Number()+sign*by))
}

// cmdConvertNumber handles `convert <var> to number`. Text is parsed by its
// longest numeric prefix; numbers are left alone.
func cmdConvertNumber(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	name := tok[1].Text
	if err := in.declareVar(name); err != nil {
		return 0, err
	}
	cur, _ := in.vars.Get(name)
	if !cur.IsText {
		return idx + 1, nil
	}
	return idx + 1, in.setVar(name, NumberValue(parseNumberPrefix(cur.StrValue)))
}

// cmdConvertString handles `convert <var> to string`.
func cmdConvertString(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	name := tok[1].Text
	if err := in.declareVar(name); err != nil {
		return 0, err
	}
	cur, _ := in.vars.Get(name)
	if cur.IsText {
		return idx + 1, nil
	}
	return idx + 1, in.setVar(name, TextValue(formatNumber(cur.NumValue)))
}
