package englang

import "context"

// cmdPush handles `push <value> onto stack`.
func cmdPush(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	in.stack.Push(in.ResolveNumber(tok[1]))
	return idx + 1, nil
}

// cmdPop handles `pop from stack into <var>`.
func cmdPop(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	name := tok[4].Text
	if err := in.declareVar(name); err != nil {
		return 0, err
	}
	return idx + 1, in.setVar(name, NumberValue(in.stack.Pop()))
}

// cmdStore handles `store <value> at address <n>`.
func cmdStore(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	addr := truncateInt(in.ResolveNumber(tok[4]))
	in.memory.Store(addr, in.ResolveNumber(tok[1]))
	return idx + 1, nil
}

// cmdLoad handles `load from address <n> into <var>`.
func cmdLoad(in *Interpreter, _ context.Context, idx int, tok []Token) (int, error) {
	addr := truncateInt(in.ResolveNumber(tok[3]))
	return idx + 1, in.setVar(tok[5].Text, NumberValue(in.memory.Load(addr)))
}
