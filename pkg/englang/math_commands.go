package englang

import (
	"context"
	"math"
	"unicode/utf8"
)

// applyOperator evaluates `<left> <operator> <operand>` for the operator
// words in rest. It reports false when rest is not a complete operator.
func (in *Interpreter) applyOperator(left Token, rest []Token) (Value, bool) {
	if len(rest) < 2 || rest[0].Literal {
		return Value{}, false
	}
	switch rest[0].Text {
	case "plus":
		return NumberValue(in.ResolveNumber(left) + in.ResolveNumber(rest[1])), true
	case "minus":
		return NumberValue(in.ResolveNumber(left) - in.ResolveNumber(rest[1])), true
	case "times":
		return NumberValue(in.ResolveNumber(left) * in.ResolveNumber(rest[1])), true
	case "modulo":
		return NumberValue(modulo(in.ResolveNumber(left), in.ResolveNumber(rest[1]))), true
	case "power":
		return NumberValue(math.Pow(in.ResolveNumber(left), in.ResolveNumber(rest[1]))), true
	case "divided":
		if len(rest) < 3 || !rest[1].is("by") {
			return Value{}, false
		}
		return NumberValue(divide(in.ResolveNumber(left), in.ResolveNumber(rest[2]))), true
	case "concatenated":
		if len(rest) < 3 || !rest[1].is("with") {
			return Value{}, false
		}
		return TextValue(in.ResolveText(left) + in.ResolveText(rest[2])), true
	}
	return Value{}, false
}

// divide returns a / b, or 0 when b is 0.
func divide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// modulo truncates both operands to integers; a zero divisor yields 0.
func modulo(a, b float64) float64 {
	ia, ib := truncateInt64(a), truncateInt64(b)
	if ib == 0 {
		return 0
	}
	return float64(ia % ib)
}

// truncateInt64 converts f toward zero, clamped to the int64 range. NaN
// converts to 0.
func truncateInt64(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// cmdSquareRoot handles `square root of <value> into <var>`.
func cmdSquareRoot(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	return idx + 1, in.setVar(tok[5].Text, NumberValue(math.Sqrt(in.ResolveNumber(tok[3]))))
}

// cmdAbsolute handles `absolute value of <value> into <var>`.
func cmdAbsolute(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	return idx + 1, in.setVar(tok[5].Text, NumberValue(math.Abs(in.ResolveNumber(tok[3]))))
}

// cmdLength handles `length of <value> into <var>`: the character count of
// the value's display form.
func cmdLength(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	n := utf8.RuneCountInString(in.ResolveText(tok[2]))
	return idx + 1, in.setVar(tok[4].Text, NumberValue(float64(n)))
}
