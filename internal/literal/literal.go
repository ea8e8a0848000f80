// Package literal extracts a required literal prefix from a pattern's AST,
// for internal/prefilter to scan for before the simulator ever runs.
//
// Grounded on coregex/literal/extractor.go's ExtractorConfig/required-
// literal shape, trimmed to the one case worth the complexity here: a
// prefix every match must start with. coregex additionally extracts
// inner and suffix literals to drive a full literal-union prefilter;
// this module skips that because the surface syntax here (backrefs,
// unified capture groups) makes a sound general extractor a much larger
// project than the performance win justifies for this engine.
package literal

import "github.com/coregx/rex/internal/ast"

// MinLen is the shortest prefix internal/prefilter will bother scanning
// for; shorter prefixes rarely narrow down candidate positions enough to
// pay for the Aho-Corasick setup, mirroring coregex/meta/config.go's
// MinLiteralLen default.
const MinLen = 2

// RequiredPrefix returns the longest literal string that every match of
// expr must begin with, or "" if no such prefix exists (e.g. the pattern
// starts with an alternation, a class, or a quantified atom that can
// match zero times).
func RequiredPrefix(expr ast.Expr) string {
	var sb []rune
	cur := expr
	for {
		switch n := cur.(type) {
		case ast.Literal:
			sb = append(sb, n.Ch)
			return string(sb)
		case ast.Seq:
			if len(n.Items) == 0 {
				return string(sb)
			}
			lit, ok := n.Items[0].(ast.Literal)
			if !ok {
				// Recurse into the first item in case it's itself a Seq
				// or a Group wrapping further literals, then stop: once a
				// non-literal item is hit, nothing after it is guaranteed.
				prefix := RequiredPrefix(n.Items[0])
				sb = append(sb, []rune(prefix)...)
				if _, isLit := lastIsLiteralBoundary(n.Items[0]); !isLit {
					return string(sb)
				}
				cur = ast.Seq{Items: n.Items[1:]}
				continue
			}
			sb = append(sb, lit.Ch)
			cur = ast.Seq{Items: n.Items[1:]}
			continue
		case ast.Group:
			cur = n.Child
			continue
		case ast.NonCapGroup:
			cur = n.Child
			continue
		case ast.NamedGroup:
			cur = n.Child
			continue
		default:
			return string(sb)
		}
	}
}

// lastIsLiteralBoundary reports whether expr's required prefix exhausts
// expr entirely (so a following sequence item is still guaranteed to
// run), which is true only when expr is itself built entirely from
// literals and transparent grouping.
func lastIsLiteralBoundary(expr ast.Expr) (string, bool) {
	switch n := expr.(type) {
	case ast.Literal:
		return string(n.Ch), true
	case ast.Group:
		return lastIsLiteralBoundary(n.Child)
	case ast.NonCapGroup:
		return lastIsLiteralBoundary(n.Child)
	case ast.NamedGroup:
		return lastIsLiteralBoundary(n.Child)
	case ast.Seq:
		for _, item := range n.Items {
			if _, ok := lastIsLiteralBoundary(item); !ok {
				return "", false
			}
		}
		return "", true
	default:
		return "", false
	}
}
