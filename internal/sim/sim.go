// Package sim runs a compiled internal/compiler.NFA against an input,
// Pike-VM style: one pass over the input, a list of live threads instead of
// recursive backtracking, and per-thread capture slots copied on fork so
// capture history never leaks between alternatives.
//
// Grounded on coregex/nfa/pikevm.go's thread/queue/visited shape. It
// diverges from that design in two ways backreferences require and
// RE2-style automata cannot express: backreference transitions (grounded
// on mabhi256-codecrafters-grep-go/app/nfa/nfa.go and
// original_source/ogex/src/nfa.rs, which resorts to a recursive matcher for
// exactly this reason) and per-thread position tracking, since a
// backreference can consume a different number of runes than another
// thread consumes in the same VM step. Plain map-based epsilon-closure
// dedup replaces a SparseSet, keyed on (state, pos) instead of just
// state, because two threads can legitimately sit on the same state at
// different input positions once backreferences are in play.
package sim

import (
	"github.com/coregx/rex/internal/ast"
	"github.com/coregx/rex/internal/compiler"
)

// Budget bounds simulation cost. A zero value means unbounded.
type Budget struct {
	MaxSteps   int
	MaxThreads int
}

// Span is a half-open codepoint range [Start, End). An unset capture group
// has Start == -1.
type Span struct {
	Start, End int
}

func (s Span) matched() bool { return s.Start >= 0 }

// Match is the result of a successful search: the overall span at index 0,
// plus one span per capture group at indices 1..=N.
type Match struct {
	Groups []Span
}

// thread is one live execution path. captures is copy-on-write: Fork
// shares the backing array until one side writes, the same pattern
// coregex/nfa/pikevm.go uses for cowCaptures.
type thread struct {
	state compiler.StateID
	pos   int
	caps  *capSet
}

type capSet struct {
	spans []Span
	refs  int
}

func newCapSet(n int) *capSet {
	spans := make([]Span, n)
	for i := range spans {
		spans[i] = Span{-1, -1}
	}
	return &capSet{spans: spans, refs: 1}
}

func (c *capSet) fork() *capSet {
	c.refs++
	return c
}

func (c *capSet) withSet(index int, span Span) *capSet {
	if c.refs == 1 {
		c.spans[index] = span
		return c
	}
	c.refs--
	spans := make([]Span, len(c.spans))
	copy(spans, c.spans)
	spans[index] = span
	return &capSet{spans: spans, refs: 1}
}

// Simulator runs one compiled NFA over one input.
type Simulator struct {
	nfa    *compiler.NFA
	input  []rune
	budget Budget
}

// New returns a Simulator for nfa over input.
func New(nfa *compiler.NFA, input []rune, budget Budget) *Simulator {
	return &Simulator{nfa: nfa, input: input, budget: budget}
}

// BudgetExceededError is returned when a step or thread cap is hit before a
// search completes.
type BudgetExceededError struct {
	Kind string // "steps" or "threads"
}

func (e *BudgetExceededError) Error() string {
	return "sim: budget exceeded (" + e.Kind + ")"
}

// FindFrom searches for the leftmost-longest match starting at or after
// start, trying each successive start position until one succeeds or the
// input is exhausted.
func (s *Simulator) FindFrom(start int, numGroups int) (*Match, error) {
	for at := start; at <= len(s.input); at++ {
		m, err := s.searchAt(at, numGroups)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, nil
}

// FindAllFrom repeatedly calls FindFrom, advancing past each match (or by
// one rune past a zero-width match, to guarantee progress) until the input
// is exhausted.
func (s *Simulator) FindAllFrom(start int, numGroups int) ([]*Match, error) {
	var out []*Match
	at := start
	for at <= len(s.input) {
		m, err := s.FindFrom(at, numGroups)
		if err != nil {
			return out, err
		}
		if m == nil {
			break
		}
		out = append(out, m)
		if m.Groups[0].End > at {
			at = m.Groups[0].End
		} else {
			at++
		}
	}
	return out, nil
}

// searchAt runs one anchored attempt starting exactly at pos. It returns
// the leftmost-longest match among all threads reaching the accept state,
// preferring the thread added earliest (highest priority) on ties.
func (s *Simulator) searchAt(pos int, numGroups int) (*Match, error) {
	threads := []thread{{state: s.nfa.Start, pos: pos, caps: newCapSet(numGroups + 1)}}
	threads = s.closure(threads)

	var best *Match
	steps := 0

	for cur := pos; ; cur++ {
		if s.budget.MaxThreads > 0 && len(threads) > s.budget.MaxThreads {
			return nil, &BudgetExceededError{Kind: "threads"}
		}

		for _, t := range threads {
			if t.state == s.nfa.Accept {
				caps := append([]Span(nil), t.caps.spans...)
				caps[0] = Span{pos, t.pos}
				if best == nil || t.pos > best.Groups[0].End {
					best = &Match{Groups: caps}
				}
			}
		}

		if cur >= len(s.input) {
			break
		}

		var next []thread
		for _, t := range threads {
			if s.budget.MaxSteps > 0 {
				steps++
				if steps > s.budget.MaxSteps {
					return nil, &BudgetExceededError{Kind: "steps"}
				}
			}
			if t.pos != cur {
				// A backreference advanced this thread past cur already;
				// it re-enters the scan loop once cur catches up to t.pos.
				if t.pos > cur {
					next = append(next, t)
				}
				continue
			}
			ns, ok := s.step(t, cur)
			if ok {
				next = append(next, ns)
			}
		}
		threads = s.closure(next)
		if len(threads) == 0 {
			break
		}
	}

	return best, nil
}

// step consumes one input codepoint (or, for a backreference, a run of
// them) from thread t at position cur, returning the advanced thread.
func (s *Simulator) step(t thread, cur int) (thread, bool) {
	st := s.nfa.State(t.state)
	r := s.input[cur]

	for _, tr := range st.Transitions {
		switch tr.Kind {
		case compiler.TChar:
			if s.runeEq(tr.Ch, r) {
				return thread{state: tr.Target, pos: cur + 1, caps: t.caps}, true
			}
		case compiler.TAny:
			if s.nfa.Dotall || r != '\n' {
				return thread{state: tr.Target, pos: cur + 1, caps: t.caps}, true
			}
		case compiler.TClass:
			if classMatches(tr.Class, r, s.nfa.CaseInsensitive) {
				return thread{state: tr.Target, pos: cur + 1, caps: t.caps}, true
			}
		case compiler.TShorthand:
			if shorthandMatches(tr.Shorthand, r) {
				return thread{state: tr.Target, pos: cur + 1, caps: t.caps}, true
			}
		case compiler.TBackref:
			if adv, ok := s.matchBackref(t, tr.GroupIndex, cur); ok {
				return thread{state: tr.Target, pos: adv, caps: t.caps}, true
			}
		}
	}
	return thread{}, false
}

// matchBackref checks whether the text captured by groupIndex occurs
// literally at cur, returning the position just past it if so. An unset
// group never matches.
func (s *Simulator) matchBackref(t thread, groupIndex int, cur int) (int, bool) {
	span := t.caps.spans[groupIndex]
	if !span.matched() {
		return 0, false
	}
	n := span.End - span.Start
	if cur+n > len(s.input) {
		return 0, false
	}
	for i := 0; i < n; i++ {
		a, b := s.input[span.Start+i], s.input[cur+i]
		if !s.runeEq(a, b) {
			return 0, false
		}
	}
	return cur + n, true
}

func (s *Simulator) runeEq(a, b rune) bool {
	if a == b {
		return true
	}
	if !s.nfa.CaseInsensitive {
		return false
	}
	return foldEq(a, b)
}

func foldEq(a, b rune) bool {
	toLower := func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}
	return toLower(a) == toLower(b)
}

func classMatches(c *ast.Class, r rune, ci bool) bool {
	hit := false
	for _, item := range c.Items {
		switch item.Kind {
		case ast.ClassChar:
			if r == item.Ch || (ci && foldEq(r, item.Ch)) {
				hit = true
			}
		case ast.ClassRange:
			if inRange(r, item.Lo, item.Hi) || (ci && inFoldedRange(r, item.Lo, item.Hi)) {
				hit = true
			}
		case ast.ClassShorthand:
			if shorthandMatches(item.Shorthand, r) {
				hit = true
			}
		}
		if hit {
			break
		}
	}
	if c.Negated {
		return !hit
	}
	return hit
}

func inRange(r, lo, hi rune) bool { return r >= lo && r <= hi }

func inFoldedRange(r, lo, hi rune) bool {
	f := foldRune(r)
	return inRange(f, lo, hi) || inRange(r, foldRune(lo), foldRune(hi))
}

func foldRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func shorthandMatches(class rune, r rune) bool {
	switch class {
	case 'w':
		return ast.IsWord(r)
	case 'W':
		return !ast.IsWord(r)
	case 'd':
		return r >= '0' && r <= '9'
	case 'D':
		return !(r >= '0' && r <= '9')
	case 's':
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
	case 'S':
		return !(r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v')
	}
	return false
}

// closure computes the epsilon-closure of frontier at input position pos,
// firing zero-width transitions (epsilon, group markers, anchors,
// boundaries) and adding threads in priority order. visited dedupes on
// (state, pos) so a backreference-advanced thread and a same-tick thread
// can coexist on one state without colliding, per this package's doc
// comment.
func (s *Simulator) closure(frontier []thread) []thread {
	var out []thread
	visited := make(map[[2]int]bool)

	var visit func(t thread)
	visit = func(t thread) {
		key := [2]int{int(t.state), t.pos}
		if visited[key] {
			return
		}
		visited[key] = true

		st := s.nfa.State(t.state)
		if len(st.Transitions) == 0 {
			out = append(out, t)
			return
		}

		fired := false
		consuming := false
		for _, tr := range st.Transitions {
			switch tr.Kind {
			case compiler.TEpsilon:
				visit(thread{state: tr.Target, pos: t.pos, caps: t.caps.fork()})
				fired = true
			case compiler.TGroupStart:
				nc := t.caps.fork().withSet(tr.GroupIndex, Span{t.pos, -1})
				visit(thread{state: tr.Target, pos: t.pos, caps: nc})
				fired = true
			case compiler.TGroupEnd:
				old := t.caps.spans[tr.GroupIndex]
				nc := t.caps.fork().withSet(tr.GroupIndex, Span{old.Start, t.pos})
				visit(thread{state: tr.Target, pos: t.pos, caps: nc})
				fired = true
			case compiler.TStartAnchor:
				if s.atLineStart(t.pos) {
					visit(thread{state: tr.Target, pos: t.pos, caps: t.caps.fork()})
				}
				fired = true
			case compiler.TEndAnchor:
				if s.atLineEnd(t.pos) {
					visit(thread{state: tr.Target, pos: t.pos, caps: t.caps.fork()})
				}
				fired = true
			case compiler.TWordBoundary:
				if s.atWordBoundary(t.pos) {
					visit(thread{state: tr.Target, pos: t.pos, caps: t.caps.fork()})
				}
				fired = true
			case compiler.TNonWordBoundary:
				if !s.atWordBoundary(t.pos) {
					visit(thread{state: tr.Target, pos: t.pos, caps: t.caps.fork()})
				}
				fired = true
			case compiler.TChar, compiler.TAny, compiler.TClass, compiler.TShorthand, compiler.TBackref:
				consuming = true
			}
		}

		// A state mixing zero-width epsilon-family transitions with a
		// consuming one (TChar, TBackref, ...) keeps the thread alive for
		// the consuming half; step() re-reads st.Transitions directly.
		if !fired || consuming {
			out = append(out, t)
		}
	}

	for _, t := range frontier {
		visit(t)
	}
	return out
}

func (s *Simulator) atLineStart(pos int) bool {
	if pos == 0 {
		return true
	}
	return s.nfa.Multiline && s.input[pos-1] == '\n'
}

func (s *Simulator) atLineEnd(pos int) bool {
	if pos == len(s.input) {
		return true
	}
	return s.nfa.Multiline && s.input[pos] == '\n'
}

func (s *Simulator) atWordBoundary(pos int) bool {
	before := pos > 0 && ast.IsWord(s.input[pos-1])
	after := pos < len(s.input) && ast.IsWord(s.input[pos])
	return before != after
}
