// Package englang implements an interpreter for a small English-like
// scripting language.
package englang

import (
	"io"
	"os"
)

// Default resource ceilings.
const (
	// DefaultMaxVariables is the capacity of the scalar variable table.
	DefaultMaxVariables = 512
	// DefaultMaxArrays is the number of distinct array names.
	DefaultMaxArrays = 64
	// DefaultMaxArraySize is the element capacity of a single array.
	DefaultMaxArraySize = 1024
	// DefaultStackSize is the capacity of the global numeric stack.
	DefaultStackSize = 512
	// DefaultMemorySize is the number of addressable memory cells.
	DefaultMemorySize = 1024
	// DefaultMaxFunctions is the capacity of the function table.
	DefaultMaxFunctions = 256
	// DefaultMaxParams is the maximum number of parameters of a function.
	DefaultMaxParams = 8
	// DefaultMaxTokens is the maximum number of tokens read from one line.
	DefaultMaxTokens = 32
	// DefaultMaxTokenLength is the maximum stored length of one token.
	DefaultMaxTokenLength = 63
	// DefaultMaxLines is the maximum number of lines loaded from a script.
	DefaultMaxLines = 8192
	// DefaultMaxLineLength is the maximum stored length of one script line.
	DefaultMaxLineLength = 1023
	// DefaultMaxDepth bounds nested block and call execution.
	DefaultMaxDepth = 1000
)

// ReturnVariable is the global that `return` writes and callers read.
const ReturnVariable = "return"

// Options configures an Interpreter. Zero values fall back to the defaults.
type Options struct {
	MaxVariables   int
	MaxArrays      int
	MaxArraySize   int
	StackSize      int
	MemorySize     int
	MaxFunctions   int
	MaxTokens      int
	MaxTokenLength int
	MaxDepth       int
	// MaxSteps limits executed statements plus loop passes; 0 means
	// unlimited.
	MaxSteps int64
	// LegacyForBlocks keeps `for` out of the block opener set, the way the
	// first englang interpreter resolved nested blocks.
	LegacyForBlocks bool

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// SessionID tags log lines of this interpreter.
	SessionID string
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	if o.MaxVariables <= 0 {
		o.MaxVariables = DefaultMaxVariables
	}
	if o.MaxArrays <= 0 {
		o.MaxArrays = DefaultMaxArrays
	}
	if o.MaxArraySize <= 0 {
		o.MaxArraySize = DefaultMaxArraySize
	}
	if o.StackSize <= 0 {
		o.StackSize = DefaultStackSize
	}
	if o.MemorySize <= 0 {
		o.MemorySize = DefaultMemorySize
	}
	if o.MaxFunctions <= 0 {
		o.MaxFunctions = DefaultMaxFunctions
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.MaxTokenLength <= 0 {
		o.MaxTokenLength = DefaultMaxTokenLength
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	return o
}
