// Package rex implements a regular expression engine with a unified
// capture/backreference surface syntax: named capturing groups are written
// "(name:pattern)" instead of "(?P<name>pattern)", and every
// backreference form shares one prefix, "\g{...}", alongside the
// conventional "\1" numbered form.
//
// Matching is codepoint-indexed throughout: positions, spans and
// FindStringIndex results count runes, not bytes, so results are stable across
// input that mixes ASCII and multi-byte text.
//
// Basic usage:
//
//	re, err := rex.Compile(`(greeting:hello), (name:\w+)!`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.MatchString("hello, world!") {
//	    fmt.Println("matched")
//	}
//
// Backreferences:
//
//	re := rex.MustCompile(`(word:\w+) \g{word}`)
//	re.MatchString("hello hello") // true
//	re.MatchString("hello world") // false
package rex

import (
	"github.com/coregx/rex/internal/ast"
	"github.com/coregx/rex/internal/compiler"
	"github.com/coregx/rex/internal/group"
	"github.com/coregx/rex/internal/literal"
	"github.com/coregx/rex/internal/parser"
	"github.com/coregx/rex/internal/prefilter"
	"github.com/coregx/rex/internal/sim"
)

// Regex is a compiled pattern. A *Regex is safe for concurrent use by
// multiple goroutines: Compile produces an immutable NFA and every search
// method allocates its own simulator state.
type Regex struct {
	pattern string
	ast     ast.Expr
	groups  *group.Registry
	nfa     *compiler.NFA
	pf      *prefilter.Prefilter
	budget  sim.Budget
}

// Compile compiles pattern with DefaultConfig.
//
// Example:
//
//	re, err := rex.Compile(`\d{3}-\d{4}`)
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles pattern and panics if it fails. Intended for
// patterns known to be valid at init time.
//
// Example:
//
//	var phoneNumber = rex.MustCompile(`\d{3}-\d{4}`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// CompileWithConfig compiles pattern with an explicit Config.
//
// Example:
//
//	cfg := rex.DefaultConfig()
//	cfg.CaseInsensitive = true
//	re, err := rex.CompileWithConfig(`hello`, cfg)
func CompileWithConfig(pattern string, cfg Config) (*Regex, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	tree, groups, err := parser.Parse(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	nfa, err := compiler.Compile(tree, groups, compiler.Options{
		CaseInsensitive: cfg.CaseInsensitive,
		Multiline:       cfg.Multiline,
		Dotall:          cfg.Dotall,
	})
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	re := &Regex{
		pattern: pattern,
		ast:     tree,
		groups:  groups,
		nfa:     nfa,
		budget: sim.Budget{
			MaxSteps:   cfg.MaxStepsPerSearch,
			MaxThreads: cfg.MaxThreads,
		},
	}

	// The prefilter compares bytes exactly, so it is skipped in
	// case-insensitive mode.
	if cfg.EnablePrefilter && !cfg.CaseInsensitive {
		if pf, ok := prefilter.Build(literal.RequiredPrefix(tree)); ok {
			re.pf = pf
		}
	}

	return re, nil
}

// String returns the source pattern re was compiled from.
func (re *Regex) String() string {
	return re.pattern
}

// NumSubexp returns the number of capturing groups in the pattern
// (not counting the implicit whole-match group 0).
func (re *Regex) NumSubexp() int {
	return re.groups.Count()
}

// SubexpNames returns the name of each capture group in declaration
// order, indexed 1..=NumSubexp; index 0 is always "" (the whole match).
// Unnamed groups report "".
func (re *Regex) SubexpNames() []string {
	names := make([]string, re.groups.Count()+1)
	for _, g := range re.groups.Groups() {
		names[g.Index] = g.Name
	}
	return names
}

// runSearch finds the leftmost-longest match starting at or after from,
// consulting the literal prefilter when one is available to skip
// positions that can't possibly start a match.
func (re *Regex) runSearch(input []rune, from int) (*sim.Match, error) {
	s := sim.New(re.nfa, input, re.budget)

	if re.pf == nil {
		return s.FindFrom(from, re.groups.Count())
	}

	for {
		at := re.pf.Next(input, from)
		if at < 0 {
			return nil, nil
		}
		// Every match begins with the required prefix, so no match can
		// start before "at". FindFrom starts its scan there; if nothing
		// matches at "at" it goes on through the later positions itself.
		m, err := s.FindFrom(at, re.groups.Count())
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
		from = at + 1
	}
}

// MatchString reports whether s contains any match of the pattern.
//
// Example:
//
//	re := rex.MustCompile(`\d+`)
//	re.MatchString("room 42") // true
func (re *Regex) MatchString(s string) bool {
	input := []rune(s)
	m, _ := re.runSearch(input, 0)
	return m != nil
}

// FindString returns the leftmost match of the pattern in s, or "" if
// there is no match. Use FindStringIndex to distinguish "no match" from
// "matched the empty string".
//
// Example:
//
//	re := rex.MustCompile(`\d+`)
//	re.FindString("room 42") // "42"
func (re *Regex) FindString(s string) string {
	idx := re.FindStringIndex(s)
	if idx == nil {
		return ""
	}
	input := []rune(s)
	return string(input[idx[0]:idx[1]])
}

// FindStringIndex returns a two-element slice of codepoint offsets
// bounding the leftmost match, or nil if there is no match.
func (re *Regex) FindStringIndex(s string) []int {
	input := []rune(s)
	m, _ := re.runSearch(input, 0)
	if m == nil {
		return nil
	}
	return []int{m.Groups[0].Start, m.Groups[0].End}
}

// FindAllString returns every successive, non-overlapping match of the
// pattern in s. If n >= 0, it returns at most n matches.
//
// Example:
//
//	re := rex.MustCompile(`\d+`)
//	re.FindAllString("1 22 333", -1) // []string{"1", "22", "333"}
func (re *Regex) FindAllString(s string, n int) []string {
	idxs := re.FindAllStringIndex(s, n)
	if idxs == nil {
		return nil
	}
	input := []rune(s)
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = string(input[idx[0]:idx[1]])
	}
	return out
}

// FindAllStringIndex returns the codepoint offset pairs of every
// successive, non-overlapping match. If n >= 0, it returns at most n
// matches.
func (re *Regex) FindAllStringIndex(s string, n int) [][]int {
	input := []rune(s)

	var out [][]int
	at := 0
	for at <= len(input) && (n < 0 || len(out) < n) {
		m, err := re.runSearch(input, at)
		if err != nil || m == nil {
			break
		}
		out = append(out, []int{m.Groups[0].Start, m.Groups[0].End})
		if m.Groups[0].End > at {
			at = m.Groups[0].End
		} else {
			at++
		}
	}
	return out
}

// FindStringSubmatch returns the leftmost match and the text of every
// capture group. Result[0] is the whole match; result[i] is group i.
// An unmatched group reports "". Returns nil if the pattern doesn't
// match s at all.
//
// Example:
//
//	re := rex.MustCompile(`(user:\w+)@(host:\w+)`)
//	re.FindStringSubmatch("alice@example") // []string{"alice@example", "alice", "example"}
func (re *Regex) FindStringSubmatch(s string) []string {
	idx := re.FindStringSubmatchIndex(s)
	if idx == nil {
		return nil
	}
	input := []rune(s)
	out := make([]string, len(idx)/2)
	for i := range out {
		start, end := idx[2*i], idx[2*i+1]
		if start < 0 || end < 0 {
			continue
		}
		out[i] = string(input[start:end])
	}
	return out
}

// FindStringSubmatchIndex returns codepoint offset pairs for the leftmost
// match and every capture group. result[2*i:2*i+2] is group i's span; an
// unmatched group reports [-1, -1]. Returns nil if there is no match.
func (re *Regex) FindStringSubmatchIndex(s string) []int {
	input := []rune(s)
	m, _ := re.runSearch(input, 0)
	if m == nil {
		return nil
	}
	out := make([]int, len(m.Groups)*2)
	for i, span := range m.Groups {
		out[2*i] = span.Start
		out[2*i+1] = span.End
	}
	return out
}
