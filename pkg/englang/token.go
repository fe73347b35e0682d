package englang

import "strings"

// Token is one word of a statement line.
type Token struct {
	Text string
	// Literal is set for double-quoted tokens; their quotes are stripped.
	Literal bool
}

// Tokenize splits a line into whitespace separated tokens. A token that
// starts with a double quote runs to the next quote or to the end of the
// line. At most maxTokens tokens are returned and each is truncated to
// maxLen bytes.
func Tokenize(line string, maxTokens, maxLen int) []Token {
	var tokens []Token
	i := 0
	for i < len(line) && len(tokens) < maxTokens {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i >= len(line) {
			break
		}

		if line[i] == '"' {
			start := i + 1
			end := strings.IndexByte(line[start:], '"')
			if end < 0 {
				tokens = append(tokens, Token{Text: truncate(line[start:], maxLen), Literal: true})
				i = len(line)
				continue
			}
			tokens = append(tokens, Token{Text: truncate(line[start:start+end], maxLen), Literal: true})
			i = start + end + 1
			continue
		}

		start := i
		for i < len(line) && !isSpace(line[i]) {
			i++
		}
		tokens = append(tokens, Token{Text: truncate(line[start:i], maxLen)})
	}
	return tokens
}

// isSpace matches the C locale whitespace set.
func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func truncate(s string, n int) string {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// is reports whether the token is the bare keyword kw.
func (t Token) is(kw string) bool {
	return !t.Literal && t.Text == kw
}

// indexOf returns the position of the first bare keyword kw at or after from.
func indexOf(tokens []Token, kw string, from int) int {
	for i := from; i < len(tokens); i++ {
		if tokens[i].is(kw) {
			return i
		}
	}
	return -1
}

// joinText space-joins the token texts.
func joinText(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
