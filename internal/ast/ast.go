// Package ast defines the abstract syntax tree produced by internal/parser.
//
// Every pattern accepted by the grammar in internal/parser parses to a tree
// of Expr values. Expr is a closed tagged union: each concrete type below is
// the only way to implement it, so a type switch over Expr is exhaustive.
package ast

// Expr is a parsed regular-expression node. The set of implementations is
// closed to this package; isExpr is the marker method that enforces it.
type Expr interface {
	isExpr()
}

// Empty matches the empty string. It appears for bare alternation branches
// like the middle of "a||b" and for the {0} quantifier case.
type Empty struct{}

// Literal matches a single exact codepoint.
type Literal struct {
	Ch rune
}

// AnyChar matches any single codepoint (subject to Config.Dotall for '\n').
type AnyChar struct{}

// Seq is a concatenation of sub-expressions, matched in order.
type Seq struct {
	Items []Expr
}

// Alt is an alternation. The simulator keeps the longest match over all
// branches; among equally long matches, the thread from the earliest
// branch supplies the captures.
type Alt struct {
	Branches []Expr
}

// ClassItemKind discriminates the members of a character class.
type ClassItemKind int

const (
	// ClassChar is a single literal member, e.g. 'a' in [abc].
	ClassChar ClassItemKind = iota
	// ClassRange is an inclusive range, e.g. a-z in [a-z].
	ClassRange
	// ClassShorthand embeds a shorthand class (\w, \d, \s and negations).
	ClassShorthand
)

// ClassItem is one member of a Class's item list.
type ClassItem struct {
	Kind      ClassItemKind
	Ch        rune // ClassChar
	Lo, Hi    rune // ClassRange (inclusive)
	Shorthand rune // ClassShorthand: one of w W d D s S
}

// Class is a character class, e.g. [a-zA-Z0-9_].
type Class struct {
	Negated bool
	Items   []ClassItem
}

// QuantKind enumerates the shapes a Quantifier can take.
type QuantKind int

const (
	QuantStar     QuantKind = iota // zero or more
	QuantPlus                      // one or more
	QuantOptional                  // zero or one
	QuantExact                     // exactly n
	QuantAtLeast                   // n or more
	QuantBetween                   // between n and m, inclusive
)

// Quantifier describes how many times a quantified expression's child must
// repeat, and whether it prefers to match as much (greedy) or as little
// (lazy) as possible. Max == -1 means unbounded (used by QuantStar,
// QuantPlus, and QuantAtLeast).
type Quantifier struct {
	Kind QuantKind
	Min  int
	Max  int
	Lazy bool
}

// Quantified applies a Quantifier to Child.
type Quantified struct {
	Child Expr
	Quant Quantifier
}

// Group is a capturing group with a 1-based index assigned by the group
// registry during parsing.
type Group struct {
	Index int
	Child Expr
}

// NonCapGroup is a "(?:...)" group: grouping without capture.
type NonCapGroup struct {
	Child Expr
}

// NamedGroup is a "(name:...)" capturing group. It also carries the index
// assigned by the registry so compilation doesn't need a second lookup.
type NamedGroup struct {
	Name  string
	Index int
	Child Expr
}

// StartAnchor matches "^".
type StartAnchor struct{}

// EndAnchor matches "$".
type EndAnchor struct{}

// Backref matches the same text most recently captured by a numbered group.
// Index is 1-based and absolute.
type Backref struct {
	Index int
}

// RelBackref is a "\g{-k}" reference resolved against the numbered-group
// subset at compile time. Offset is negative, e.g. -1 for "the most recent
// numbered group".
type RelBackref struct {
	Offset int
}

// NamedBackref matches the text captured by the named group Name.
type NamedBackref struct {
	Name string
}

// Shorthand is a shorthand class atom outside of "[...]": \w \W \d \D \s \S.
type Shorthand struct {
	Class rune
}

// WordBoundary matches "\b".
type WordBoundary struct{}

// NonWordBoundary matches "\B".
type NonWordBoundary struct{}

func (Empty) isExpr()           {}
func (Literal) isExpr()         {}
func (AnyChar) isExpr()         {}
func (Seq) isExpr()             {}
func (Alt) isExpr()             {}
func (Class) isExpr()           {}
func (Quantified) isExpr()      {}
func (Group) isExpr()           {}
func (NonCapGroup) isExpr()     {}
func (NamedGroup) isExpr()      {}
func (StartAnchor) isExpr()     {}
func (EndAnchor) isExpr()       {}
func (Backref) isExpr()         {}
func (RelBackref) isExpr()      {}
func (NamedBackref) isExpr()    {}
func (Shorthand) isExpr()       {}
func (WordBoundary) isExpr()    {}
func (NonWordBoundary) isExpr() {}

// IsWord reports whether r is an ASCII word character: alphanumeric or '_'.
// This is the definition used for \b, \B, \w and \W — it does not extend
// to Unicode letter categories (see SPEC_FULL.md Non-goals).
func IsWord(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
