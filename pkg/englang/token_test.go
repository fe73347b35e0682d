package englang

import (
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Token
	}{
		{
			name: "plain words",
			line: "set x to 5",
			want: []Token{{Text: "set"}, {Text: "x"}, {Text: "to"}, {Text: "5"}},
		},
		{
			name: "quoted run is one literal",
			line: `print "hello world" and x`,
			want: []Token{{Text: "print"}, {Text: "hello world", Literal: true}, {Text: "and"}, {Text: "x"}},
		},
		{
			name: "unterminated quote runs to end of line",
			line: `say "abc def`,
			want: []Token{{Text: "say"}, {Text: "abc def", Literal: true}},
		},
		{
			name: "empty literal",
			line: `set s to ""`,
			want: []Token{{Text: "set"}, {Text: "s"}, {Text: "to"}, {Text: "", Literal: true}},
		},
		{
			name: "surrounding whitespace",
			line: "  \tincrement   c \t ",
			want: []Token{{Text: "increment"}, {Text: "c"}},
		},
		{
			name: "quote inside a word",
			line: `a"b "c"d`,
			want: []Token{{Text: `a"b`}, {Text: "c", Literal: true}, {Text: "d"}},
		},
		{
			name: "blank line",
			line: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.line, DefaultMaxTokens, DefaultMaxTokenLength)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.line, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTokenizeLimits(t *testing.T) {
	line := strings.Repeat("w ", 40)
	if got := Tokenize(line, DefaultMaxTokens, DefaultMaxTokenLength); len(got) != DefaultMaxTokens {
		t.Errorf("got %d tokens, want %d", len(got), DefaultMaxTokens)
	}

	long := strings.Repeat("a", 100)
	got := Tokenize("print "+long, DefaultMaxTokens, DefaultMaxTokenLength)
	if len(got[1].Text) != DefaultMaxTokenLength {
		t.Errorf("long token has %d bytes, want %d", len(got[1].Text), DefaultMaxTokenLength)
	}

	quoted := Tokenize(`print "`+long+`"`, DefaultMaxTokens, DefaultMaxTokenLength)
	if len(quoted[1].Text) != DefaultMaxTokenLength || !quoted[1].Literal {
		t.Errorf("long literal = %+v", quoted[1])
	}
}
