// Package transpile renders an internal/ast.Expr back out as a pattern
// string using the legacy "(?<name>...)" named-group syntax instead of
// this engine's own "(name:...)" syntax, for interop with other regex
// engines that don't understand the unified surface syntax.
//
// Grounded on original_source/ogex/src/ast.rs's to_regex_string, trimmed
// to the node kinds internal/ast actually defines (lookaround, atomic, and
// conditional groups are out of scope).
package transpile

import (
	"strconv"
	"strings"

	"github.com/coregx/rex/internal/ast"
)

// Expr renders e as a pattern string usable by engines that only
// understand "(?<name>...)" for named groups.
func Expr(e ast.Expr) string {
	var sb strings.Builder
	write(&sb, e)
	return sb.String()
}

func write(sb *strings.Builder, e ast.Expr) {
	switch n := e.(type) {
	case ast.Empty:
		// contributes nothing

	case ast.Literal:
		if strings.ContainsRune(`\.^$|?*+()[]{}:,`, n.Ch) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(n.Ch)

	case ast.AnyChar:
		sb.WriteByte('.')

	case ast.Seq:
		for _, item := range n.Items {
			write(sb, item)
		}

	case ast.Alt:
		for i, branch := range n.Branches {
			if i > 0 {
				sb.WriteByte('|')
			}
			write(sb, branch)
		}

	case ast.Class:
		writeClass(sb, n)

	case ast.Quantified:
		writeQuantified(sb, n)

	case ast.Group:
		sb.WriteByte('(')
		write(sb, n.Child)
		sb.WriteByte(')')

	case ast.NonCapGroup:
		sb.WriteString("(?:")
		write(sb, n.Child)
		sb.WriteByte(')')

	case ast.NamedGroup:
		sb.WriteString("(?<")
		sb.WriteString(n.Name)
		sb.WriteByte('>')
		write(sb, n.Child)
		sb.WriteByte(')')

	case ast.StartAnchor:
		sb.WriteByte('^')

	case ast.EndAnchor:
		sb.WriteByte('$')

	case ast.Backref:
		sb.WriteByte('\\')
		sb.WriteString(strconv.Itoa(n.Index))

	case ast.RelBackref:
		sb.WriteString("\\g{")
		sb.WriteString(strconv.Itoa(n.Offset))
		sb.WriteByte('}')

	case ast.NamedBackref:
		sb.WriteString("\\g{")
		sb.WriteString(n.Name)
		sb.WriteByte('}')

	case ast.Shorthand:
		sb.WriteByte('\\')
		sb.WriteRune(n.Class)

	case ast.WordBoundary:
		sb.WriteString("\\b")

	case ast.NonWordBoundary:
		sb.WriteString("\\B")
	}
}

func writeClass(sb *strings.Builder, c ast.Class) {
	member := func(r rune) {
		if strings.ContainsRune(`\]^-[(){}|:,*+?`, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('[')
	if c.Negated {
		sb.WriteByte('^')
	}
	for _, item := range c.Items {
		switch item.Kind {
		case ast.ClassChar:
			member(item.Ch)
		case ast.ClassRange:
			member(item.Lo)
			sb.WriteByte('-')
			member(item.Hi)
		case ast.ClassShorthand:
			sb.WriteByte('\\')
			sb.WriteRune(item.Shorthand)
		}
	}
	sb.WriteByte(']')
}

// writeQuantified parenthesizes its child as a non-capturing group when
// the child isn't already a single atom, so e.g. "ab*" (a sequence
// wrongly quantified as a whole) can't arise: the parser only ever
// attaches a Quantified to a single preceding atom, but a nested Seq can
// still appear once a quantified group is unwrapped by a caller.
func writeQuantified(sb *strings.Builder, q ast.Quantified) {
	needsGroup := false
	switch q.Child.(type) {
	case ast.Seq, ast.Alt:
		needsGroup = true
	}

	if needsGroup {
		sb.WriteString("(?:")
		write(sb, q.Child)
		sb.WriteByte(')')
	} else {
		write(sb, q.Child)
	}

	switch q.Quant.Kind {
	case ast.QuantStar:
		sb.WriteByte('*')
	case ast.QuantPlus:
		sb.WriteByte('+')
	case ast.QuantOptional:
		sb.WriteByte('?')
	case ast.QuantExact:
		sb.WriteByte('{')
		sb.WriteString(strconv.Itoa(q.Quant.Min))
		sb.WriteByte('}')
	case ast.QuantAtLeast:
		sb.WriteByte('{')
		sb.WriteString(strconv.Itoa(q.Quant.Min))
		sb.WriteString(",}")
	case ast.QuantBetween:
		sb.WriteByte('{')
		sb.WriteString(strconv.Itoa(q.Quant.Min))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(q.Quant.Max))
		sb.WriteByte('}')
	}
	if q.Quant.Lazy {
		sb.WriteByte('?')
	}
}
