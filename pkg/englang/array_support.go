package englang

import "context"

// cmdCreateArray handles `create array <name>`.
func cmdCreateArray(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	_, err := in.array(tok[2].Text)
	return idx + 1, err
}

// cmdAppend handles `append <value> to array <name>`, creating the array if
// needed.
func cmdAppend(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	a, err := in.array(tok[4].Text)
	if err != nil {
		return 0, err
	}
	a.Append(in.Resolve(tok[1]))
	return idx + 1, nil
}

// cmdGetElement handles `get element <i> of array <name> into <var>`.
// Missing arrays and out-of-range indices read as Number(0).
func cmdGetElement(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	i := truncateInt(in.ResolveNumber(tok[2]))
	var val Value
	if a, ok := in.arrays.Find(tok[5].Text); ok {
		val = a.Get(i)
	}
	return idx + 1, in.setVar(tok[7].Text, val)
}

// cmdSetElement handles `set element <i> of array <name> to <value>`.
func cmdSetElement(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	i := truncateInt(in.ResolveNumber(tok[2]))
	a, err := in.array(tok[5].Text)
	if err != nil {
		return 0, err
	}
	a.Set(i, in.Resolve(tok[7]))
	return idx + 1, nil
}

// cmdSizeOf handles `size of array <name> into <var>`.
func cmdSizeOf(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	size := 0
	if a, ok := in.arrays.Find(tok[3].Text); ok {
		size = a.Len()
	}
	return idx + 1, in.setVar(tok[5].Text, NumberValue(float64(size)))
}
