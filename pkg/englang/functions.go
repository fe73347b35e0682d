package englang

// Function is a user defined procedure: a body line range and its
// parameter names, which are ordinary globals.
type Function struct {
	Name   string   `yaml:"name"`
	Start  int      `yaml:"start"`
	End    int      `yaml:"end"`
	Params []string `yaml:"params,omitempty"`
}

// functionTable keeps definitions in declaration order.
type functionTable struct {
	funcs []Function
	limit int
}

// lookup returns the first function declared with name.
func (ft *functionTable) lookup(name string) (*Function, bool) {
	for i := range ft.funcs {
		if ft.funcs[i].Name == name {
			return &ft.funcs[i], true
		}
	}
	return nil, false
}

// hasStart reports whether a definition with this body start exists.
func (ft *functionTable) hasStart(start int) bool {
	for _, f := range ft.funcs {
		if f.Start == start {
			return true
		}
	}
	return false
}

func (ft *functionTable) add(f Function) error {
	if len(ft.funcs) >= ft.limit {
		return ErrTooManyFunctions
	}
	ft.funcs = append(ft.funcs, f)
	return nil
}

// parseDefine reads `define <name> [with p1 ...] as` at line idx whose
// block ends at end.
func parseDefine(tok []Token, idx, end int) Function {
	f := Function{Name: tok[1].Text, Start: idx + 1, End: end}
	as := indexOf(tok, "as", 2)
	if as < 0 {
		return f
	}
	from := 2
	if tok[2].is("with") {
		from = 3
	}
	for i := from; i < as && len(f.Params) < DefaultMaxParams; i++ {
		f.Params = append(f.Params, tok[i].Text)
	}
	return f
}

// isDefine reports whether tok is a `define` line.
func isDefine(tok []Token) bool {
	return len(tok) >= 3 && tok[0].is("define")
}

// collectFunctions registers every top level definition before the run
// starts. Bodies already consumed by a definition are skipped.
func (in *Interpreter) collectFunctions() error {
	for i := 0; i < len(in.code); i++ {
		if !isDefine(in.code[i]) {
			continue
		}
		end := in.blocks.FindEnd(i)
		if err := in.funcs.add(parseDefine(in.code[i], i, end)); err != nil {
			return newResourceError(err, i+1)
		}
		i = end
	}
	return nil
}
