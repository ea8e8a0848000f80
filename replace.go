package rex

import (
	"github.com/coregx/rex/internal/replace"
)

// Replacement is a parsed replacement template: a mix of literal text and
// backreferences ("\1", "\g{name}") or whole-match references ("\G",
// "\g{0}") to substitute per match.
//
// Grounded on original_source/ogex/src/replace.rs: a missing or
// unmatched reference renders as the empty string rather than failing.
//
// Example:
//
//	re := rex.MustCompile(`(first:\w+) (last:\w+)`)
//	tmpl := rex.ParseReplacement(`\g{last}, \g{first}`)
//	re.ReplaceAllString("John Smith", tmpl) // "Smith, John"
type Replacement struct {
	tmpl *replace.Template
}

// ParseReplacement parses a replacement template. Parsing never fails:
// malformed backreferences degrade to literal text or an always-empty
// substitution.
func ParseReplacement(template string) *Replacement {
	return &Replacement{tmpl: replace.Parse(template)}
}

// Apply renders the template against a single match's captures.
//
// Example:
//
//	re := rex.MustCompile(`(first:\w+) (last:\w+)`)
//	tmpl := rex.ParseReplacement(`\g{last}, \g{first}`)
//	m := re.FindMatch("John Smith")
//	tmpl.Apply(m) // "Smith, John"
func (r *Replacement) Apply(m *Match) string {
	matchSpan := replace.Span{Start: m.groups[0].Start, End: m.groups[0].End}
	groups := make([]replace.Span, len(m.groups))
	for i, g := range m.groups {
		groups[i] = replace.Span{Start: g.Start, End: g.End}
	}
	return replace.Apply(r.tmpl, m.input, matchSpan, groups, m.names)
}

// ReplaceAllString replaces every match of re in s with repl applied to
// that match's captures.
func (re *Regex) ReplaceAllString(s string, repl *Replacement) string {
	input := []rune(s)
	matches := re.FindAllMatches(s, -1)
	if matches == nil {
		return s
	}

	var out []rune
	prev := 0
	for _, m := range matches {
		out = append(out, input[prev:m.Start()]...)
		out = append(out, []rune(repl.Apply(m))...)
		prev = m.End()
	}
	out = append(out, input[prev:]...)
	return string(out)
}

// FindAllStringSubmatchIndex returns codepoint offset pairs for every
// successive, non-overlapping match and its capture groups. If n >= 0, it
// returns at most n matches.
func (re *Regex) FindAllStringSubmatchIndex(s string, n int) [][]int {
	input := []rune(s)

	var out [][]int
	at := 0
	for at <= len(input) && (n < 0 || len(out) < n) {
		m, err := re.runSearch(input, at)
		if err != nil || m == nil {
			break
		}
		idx := make([]int, len(m.Groups)*2)
		for i, span := range m.Groups {
			idx[2*i] = span.Start
			idx[2*i+1] = span.End
		}
		out = append(out, idx)
		if m.Groups[0].End > at {
			at = m.Groups[0].End
		} else {
			at++
		}
	}
	return out
}
