package rex

import (
	"github.com/coregx/rex/internal/parser"
	"github.com/coregx/rex/internal/transpile"
)

// Transpile converts a pattern written in this package's unified syntax
// into the legacy "(?<name>...)" named-group form used by most other
// regex engines, for interop when a pattern needs to cross into a
// different engine.
//
// Example:
//
//	out, err := rex.Transpile(`(name:abc)`)
//	// out == "(?<name>abc)"
func Transpile(pattern string) (string, error) {
	tree, _, err := parser.Parse(pattern)
	if err != nil {
		return "", &CompileError{Pattern: pattern, Err: err}
	}
	return transpile.Expr(tree), nil
}
