package englang

// Blocks resolves block boundaries over the tokenized lines of a program.
// Results are memoised; the lines must not change afterwards.
type Blocks struct {
	lines     [][]Token
	countFor  bool
	ends      map[int]int
	otherwise map[int]int
}

// NewBlocks creates a resolver. countFor adds `for` to the opener set.
func NewBlocks(lines [][]Token, countFor bool) *Blocks {
	return &Blocks{
		lines:     lines,
		countFor:  countFor,
		ends:      make(map[int]int),
		otherwise: make(map[int]int),
	}
}

// opens reports whether line i starts a nested block.
func (b *Blocks) opens(i int) bool {
	tok := b.lines[i]
	if len(tok) < 2 {
		return false
	}
	switch {
	case tok[0].is("if"), tok[0].is("while"), tok[0].is("repeat"), tok[0].is("define"):
		return true
	case tok[0].is("for"):
		return b.countFor
	}
	return false
}

// closes reports whether line i is an `end <word>` line.
func (b *Blocks) closes(i int) bool {
	tok := b.lines[i]
	return len(tok) >= 2 && tok[0].is("end")
}

// FindEnd returns the index of the line closing the block opened at open,
// or the program length if the block is never closed.
func (b *Blocks) FindEnd(open int) int {
	if end, ok := b.ends[open]; ok {
		return end
	}
	end := len(b.lines)
	depth := 1
	for i := open + 1; i < len(b.lines); i++ {
		if b.opens(i) {
			depth++
		}
		if b.closes(i) {
			depth--
		}
		if depth == 0 {
			end = i
			break
		}
	}
	b.ends[open] = end
	return end
}

// FindOtherwise returns the index of the `otherwise` line belonging to the
// block opened at open and closed at end, or -1.
func (b *Blocks) FindOtherwise(open, end int) int {
	if at, ok := b.otherwise[open]; ok {
		return at
	}
	at := -1
	depth := 1
	for i := open + 1; i < end && i < len(b.lines); i++ {
		if b.opens(i) {
			depth++
		}
		if b.closes(i) {
			depth--
		}
		if depth == 1 && len(b.lines[i]) > 0 && b.lines[i][0].is("otherwise") {
			at = i
			break
		}
	}
	b.otherwise[open] = at
	return at
}
