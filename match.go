package rex

import (
	"github.com/coregx/rex/internal/group"
	"github.com/coregx/rex/internal/sim"
)

// Match is a single match of a pattern against some input: the overall
// span plus every capture group's span, all as half-open codepoint
// offsets. A *Match is a snapshot; it keeps its own copy of the rune
// slice it was found in, so it stays valid after the Regex that produced
// it is used again.
type Match struct {
	input  []rune
	groups []sim.Span // index 0 is the whole match; 1..N are capture groups
	names  *group.Registry
}

// Start returns the codepoint offset of the start of the whole match.
func (m *Match) Start() int {
	return m.groups[0].Start
}

// End returns the codepoint offset just past the whole match.
func (m *Match) End() int {
	return m.groups[0].End
}

// String returns the text of the whole match.
func (m *Match) String() string {
	return string(m.input[m.groups[0].Start:m.groups[0].End])
}

// Group returns the text captured by group n (0 is the whole match) and
// whether it participated in the match. An out-of-range n or a group the
// match never entered reports ("", false).
func (m *Match) Group(n int) (string, bool) {
	if n < 0 || n >= len(m.groups) {
		return "", false
	}
	span := m.groups[n]
	if span.Start < 0 || span.End < 0 {
		return "", false
	}
	return string(m.input[span.Start:span.End]), true
}

// NamedGroup returns the text captured by the group registered under
// name, and whether it exists and participated in the match.
func (m *Match) NamedGroup(name string) (string, bool) {
	info, ok := m.names.ByName(name)
	if !ok {
		return "", false
	}
	return m.Group(info.Index)
}

func newMatch(input []rune, sm *sim.Match, names *group.Registry) *Match {
	return &Match{input: input, groups: sm.Groups, names: names}
}

// FindMatch returns the leftmost Match in s, or nil if the pattern
// doesn't match.
//
// Example:
//
//	re := rex.MustCompile(`(year:\d{4})-(month:\d{2})`)
//	m := re.FindMatch("born 1990-04")
//	y, _ := m.NamedGroup("year") // "1990"
func (re *Regex) FindMatch(s string) *Match {
	input := []rune(s)
	sm, _ := re.runSearch(input, 0)
	if sm == nil {
		return nil
	}
	return newMatch(input, sm, re.groups)
}

// FindAllMatches returns every successive, non-overlapping Match in s. If
// n >= 0, it returns at most n matches.
func (re *Regex) FindAllMatches(s string, n int) []*Match {
	input := []rune(s)

	var out []*Match
	at := 0
	for at <= len(input) && (n < 0 || len(out) < n) {
		sm, err := re.runSearch(input, at)
		if err != nil || sm == nil {
			break
		}
		out = append(out, newMatch(input, sm, re.groups))
		if sm.Groups[0].End > at {
			at = sm.Groups[0].End
		} else {
			at++
		}
	}
	return out
}
