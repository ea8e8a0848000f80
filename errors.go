package rex

import "fmt"

// CompileError wraps a failure from any compilation stage (lexing,
// parsing, or NFA construction) with the pattern that caused it, the way
// coregex/nfa/error.go wraps BuildError/CompileError around a sentinel.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("rex: error compiling pattern %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
