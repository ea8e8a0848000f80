// Package replace parses and applies replacement templates: strings that
// may reference the overall match ("\G", or the deprecated "\g{0}") or a
// capture group ("\1", "\g{name}") to build a substitution for each match
// internal/sim finds.
//
// Grounded on original_source/ogex/src/replace.rs, ported part-for-part:
// the same four-variant part list, the same "missing reference renders as
// empty string, never an error at apply time" behavior, and the same
// escape rule (an escaped character that isn't a recognized backref form
// becomes that character literally, so "\n" in a template is the letter
// n, not a newline).
package replace

import (
	"strconv"
	"strings"

	"github.com/coregx/rex/internal/group"
)

// PartKind discriminates one piece of a parsed Template.
type PartKind int

const (
	PartLiteral PartKind = iota
	PartBackrefNumber
	PartBackrefName
	PartEntireMatch
)

// Part is one piece of a parsed Template.
type Part struct {
	Kind PartKind
	Text string // PartLiteral
	Num  int    // PartBackrefNumber
	Name string // PartBackrefName
}

// Template is a parsed replacement string, ready to Apply to any number of
// matches.
type Template struct {
	Parts []Part
}

// Parse parses a replacement template. Parsing never fails: unrecognized
// escapes become literal characters and unresolved backrefs are deferred
// to Apply time, where they render as empty strings, matching
// original_source/ogex/src/replace.rs.
func Parse(input string) *Template {
	runes := []rune(input)
	var parts []Part
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, Part{Kind: PartLiteral, Text: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(runes) {
		c := runes[i]
		if c != '\\' {
			lit.WriteRune(c)
			i++
			continue
		}

		if i+1 >= len(runes) {
			lit.WriteRune(c)
			i++
			continue
		}
		next := runes[i+1]

		switch {
		case next >= '0' && next <= '9':
			flush()
			i += 2
			num := int(next - '0')
			for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
				num = num*10 + int(runes[i]-'0')
				i++
			}
			parts = append(parts, Part{Kind: PartBackrefNumber, Num: num})

		case next == 'g':
			if i+2 < len(runes) && runes[i+2] == '{' {
				j := i + 3
				for j < len(runes) && runes[j] != '}' {
					j++
				}
				name := string(runes[i+3 : j])
				if j < len(runes) {
					j++ // consume '}'
				}
				flush()
				i = j
				if name == "0" {
					parts = append(parts, Part{Kind: PartEntireMatch})
				} else if n, err := strconv.ParseUint(name, 10, 32); err == nil {
					// Unsigned parse only: a leading '-' (the relative-backref
					// spelling) falls through to PartBackrefName instead,
					// matching original_source/ogex/src/replace.rs.
					parts = append(parts, Part{Kind: PartBackrefNumber, Num: int(n)})
				} else {
					parts = append(parts, Part{Kind: PartBackrefName, Name: name})
				}
			} else {
				lit.WriteRune(c)
				lit.WriteRune(next)
				i += 2
			}

		case next == 'G':
			flush()
			parts = append(parts, Part{Kind: PartEntireMatch})
			i += 2

		default:
			lit.WriteRune(next)
			i += 2
		}
	}
	flush()

	return &Template{Parts: parts}
}

// Span is a half-open codepoint range, matching internal/sim.Span's shape
// without importing that package (replace only needs the two ints).
type Span struct {
	Start, End int
}

// Apply renders t against one match: original is the full searched text,
// matchSpan is the overall match, and groups holds each capture group's
// span indexed 1..=N (groups[0] is unused; group numbering is 1-based).
// An unset group (Start < 0) or an undefined name renders as the empty
// string, never an error.
func Apply(t *Template, original []rune, matchSpan Span, groups []Span, reg *group.Registry) string {
	var sb strings.Builder

	spanText := func(s Span) string {
		if s.Start < 0 || s.End < 0 {
			return ""
		}
		return string(original[s.Start:s.End])
	}

	for _, p := range t.Parts {
		switch p.Kind {
		case PartLiteral:
			sb.WriteString(p.Text)
		case PartEntireMatch:
			sb.WriteString(spanText(matchSpan))
		case PartBackrefNumber:
			if p.Num == 0 {
				sb.WriteString(spanText(matchSpan))
				continue
			}
			if p.Num < len(groups) {
				sb.WriteString(spanText(groups[p.Num]))
			}
		case PartBackrefName:
			if info, ok := reg.ByName(p.Name); ok && info.Index < len(groups) {
				sb.WriteString(spanText(groups[info.Index]))
			}
		}
	}

	return sb.String()
}
