package englang

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Program is the ordered, immutable list of source lines of a script.
type Program struct {
	Name  string
	Lines []string
}

// NewProgram builds a program from lines, applying the line count and line
// length limits.
func NewProgram(name string, lines []string) *Program {
	if len(lines) > DefaultMaxLines {
		lines = lines[:DefaultMaxLines]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = truncate(strings.TrimRight(l, "\r\n"), DefaultMaxLineLength)
	}
	return &Program{Name: name, Lines: out}
}

// ParseProgram splits source text into a program.
func ParseProgram(name, source string) *Program {
	source = strings.TrimSuffix(source, "\n")
	if source == "" {
		return &Program{Name: name}
	}
	return NewProgram(name, strings.Split(source, "\n"))
}

// ReadProgram reads newline separated lines from r. Lines past the line
// limit are not read.
func ReadProgram(name string, r io.Reader) (*Program, error) {
	br := bufio.NewReader(r)
	var lines []string
	for len(lines) < DefaultMaxLines {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	return NewProgram(name, lines), nil
}

// LoadProgram reads the script at path.
func LoadProgram(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadProgram(path, f)
}

// Source joins the program lines back into text.
func (p *Program) Source() string {
	if len(p.Lines) == 0 {
		return ""
	}
	return strings.Join(p.Lines, "\n") + "\n"
}
