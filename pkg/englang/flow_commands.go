package englang

import "context"

// cmdIf handles `if <condition> then ... [otherwise ...] end if`.
func cmdIf(in *Interpreter, ctx context.Context, idx int, tok []Token) (int, error) {
	then := indexOf(tok, "then", 1)
	end := in.blocks.FindEnd(idx)
	otherwise := in.blocks.FindOtherwise(idx, end)

	var err error
	if in.EvalCondition(tok[1:then]) {
		bodyEnd := end
		if otherwise >= 0 {
			bodyEnd = otherwise
		}
		err = in.execute(ctx, idx+1, bodyEnd)
	} else if otherwise >= 0 {
		err = in.execute(ctx, otherwise+1, end)
	}
	return end + 1, err
}

// cmdWhile handles `while <condition> then ... end while`. The condition is
// evaluated before every pass.
func cmdWhile(in *Interpreter, ctx context.Context, idx int, tok []Token) (int, error) {
	then := indexOf(tok, "then", 1)
	cond := tok[1:then]
	end := in.blocks.FindEnd(idx)

	for in.EvalCondition(cond) {
		if err := in.checkpoint(ctx, idx); err != nil {
			return 0, err
		}
		if err := in.execute(ctx, idx+1, end); err != nil {
			return 0, err
		}
	}
	return end + 1, nil
}

// cmdRepeat handles `repeat <n> times ... end repeat`. n is evaluated once.
func cmdRepeat(in *Interpreter, ctx context.Context, idx int, tok []Token) (int, error) {
	n := truncateInt(in.ResolveNumber(tok[1]))
	end := in.blocks.FindEnd(idx)

	for i := 0; i < n; i++ {
		if err := in.checkpoint(ctx, idx); err != nil {
			return 0, err
		}
		if err := in.execute(ctx, idx+1, end); err != nil {
			return 0, err
		}
	}
	return end + 1, nil
}

// cmdFor handles `for <var> from <a> to <b> [step <s>] [then] ... end for`.
// A private counter drives the loop and is copied into the variable before
// each pass, so the body may change the variable without affecting the
// iteration. A zero step runs no passes.
func cmdFor(in *Interpreter, ctx context.Context, idx int, tok []Token) (int, error) {
	name := tok[1].Text
	from := in.ResolveNumber(tok[3])
	to := in.ResolveNumber(tok[5])
	step := 1.0
	if len(tok) >= 8 && tok[6].is("step") {
		step = in.ResolveNumber(tok[7])
	}
	end := in.blocks.FindEnd(idx)

	if err := in.declareVar(name); err != nil {
		return 0, err
	}
	cur, _ := in.vars.Get(name)
	if err := in.setVar(name, NumberValue(cur.Number())); err != nil {
		return 0, err
	}

	inRange := func(c float64) bool {
		switch {
		case step > 0:
			return c <= to
		case step < 0:
			return c >= to
		}
		return false
	}
	for c := from; inRange(c); c += step {
		if err := in.checkpoint(ctx, idx); err != nil {
			return 0, err
		}
		if err := in.setVar(name, NumberValue(c)); err != nil {
			return 0, err
		}
		if err := in.execute(ctx, idx+1, end); err != nil {
			return 0, err
		}
	}
	return end + 1, nil
}

// cmdDefine skips a definition at run time. A definition the pre-pass did
// not see, because it sits inside another body, is registered here.
func cmdDefine(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	end := in.blocks.FindEnd(idx)
	if !in.funcs.hasStart(idx + 1) {
		if err := in.funcs.add(parseDefine(tok, idx, end)); err != nil {
			return 0, newResourceError(err, idx+1)
		}
	}
	return end + 1, nil
}

// cmdCall handles `call <name> [with <a1> <a2> ...]`. Arguments are bound
// to the parameter globals in order; missing arguments leave their
// parameters untouched.
func cmdCall(in *Interpreter, ctx context.Context, idx int, tok []Token) (int, error) {
	f, ok := in.funcs.lookup(tok[1].Text)
	if !ok {
		in.warnf("Error: undefined function '%s'", tok[1].Text)
		return idx + 1, nil
	}
	fn := *f

	argStart := 2
	if len(tok) > 2 && tok[2].is("with") {
		argStart = 3
	}
	for i, param := range fn.Params {
		if argStart+i >= len(tok) {
			break
		}
		if err := in.declareVar(param); err != nil {
			return 0, err
		}
		if err := in.setVar(param, in.Resolve(tok[argStart+i])); err != nil {
			return 0, err
		}
	}

	if err := in.execute(ctx, fn.Start, fn.End); err != nil {
		return 0, err
	}
	return idx + 1, nil
}

// cmdReturn writes the return slot. Execution continues with the next line.
func cmdReturn(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	if err := in.declareVar(ReturnVariable); err != nil {
		return 0, err
	}
	return idx + 1, in.setVar(ReturnVariable, in.Resolve(tok[1]))
}

// cmdStop ends the whole run.
func cmdStop(_ *Interpreter, _ context.Context, _ int, _ []Token) (int, error) {
	return 0, ErrExit
}
