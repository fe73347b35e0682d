package englang

import (
	"errors"
	"fmt"
)

// Errors that end a run.
var (
	// ErrExit is returned internally when `stop` or `exit` executes.
	ErrExit              = errors.New("exit statement executed")
	ErrTooManyVariables  = errors.New("too many variables")
	ErrTooManyArrays     = errors.New("too many arrays")
	ErrTooManyFunctions  = errors.New("too many functions")
	ErrDepthExceeded     = errors.New("maximum nesting depth exceeded")
	ErrStepLimitExceeded = errors.New("step limit exceeded")
)

// Error categories.
const (
	// ErrCategoryResource marks exhausted tables and depth/step ceilings.
	ErrCategoryResource = "RESOURCE ERROR"
	// ErrCategoryExecution marks cancellation and other run failures.
	ErrCategoryExecution = "EXECUTION ERROR"
)

// RuntimeError is a fatal error raised while executing a program.
type RuntimeError struct {
	Category string
	Line     int // 1-based line of the failing statement, 0 if unknown
	Err      error
}

// Error implements the error interface.
func (re *RuntimeError) Error() string {
	if re.Line > 0 {
		return fmt.Sprintf("%s IN LINE %d: %v", re.Category, re.Line, re.Err)
	}
	return fmt.Sprintf("%s: %v", re.Category, re.Err)
}

// Unwrap exposes the underlying sentinel.
func (re *RuntimeError) Unwrap() error {
	return re.Err
}

// newResourceError wraps a resource sentinel.
func newResourceError(err error, line int) *RuntimeError {
	return &RuntimeError{Category: ErrCategoryResource, Line: line, Err: err}
}

// wrapLineError attaches a line number to err unless it is ErrExit or
// already carries one.
func wrapLineError(err error, line int) error {
	if err == nil || errors.Is(err, ErrExit) {
		return err
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		if re.Line == 0 {
			re.Line = line
		}
		return re
	}
	return &RuntimeError{Category: ErrCategoryExecution, Line: line, Err: err}
}
