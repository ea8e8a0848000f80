package sim

import (
	"testing"

	"github.com/coregx/rex/internal/compiler"
	"github.com/coregx/rex/internal/group"
	"github.com/coregx/rex/internal/parser"
)

func buildNFA(t *testing.T, pattern string) (*compiler.NFA, *group.Registry) {
	t.Helper()
	tree, groups, err := parser.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", pattern, err)
	}
	nfa, err := compiler.Compile(tree, groups, compiler.Options{})
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", pattern, err)
	}
	return nfa, groups
}

func find(t *testing.T, pattern, input string) *Match {
	t.Helper()
	nfa, groups := buildNFA(t, pattern)
	s := New(nfa, []rune(input), Budget{})
	m, err := s.FindFrom(0, groups.Count())
	if err != nil {
		t.Fatalf("FindFrom failed: %v", err)
	}
	return m
}

// Scenario 1: relative backref.
func TestRelativeBackrefScenario(t *testing.T) {
	m := find(t, `(a)(b)\g{-1}`, "abb")
	if m == nil || m.Groups[0] != (Span{0, 3}) {
		t.Fatalf("got %+v, want match [0,3)", m)
	}
	if m.Groups[1] != (Span{0, 1}) || m.Groups[2] != (Span{1, 2}) {
		t.Fatalf("group spans = %+v, want [0,1) and [1,2)", m.Groups)
	}

	if m := find(t, `(a)(b)\g{-1}`, "aba"); m != nil {
		t.Fatalf("got %+v, want no match", m)
	}
}

// Scenario 2: named group + named backref, including FindAllFrom.
func TestNamedBackrefScenario(t *testing.T) {
	nfa, groups := buildNFA(t, `(name:\w+) is \g{name}`)
	input := []rune("John is John and Jane is Jane")
	s := New(nfa, input, Budget{})

	m, err := s.FindFrom(0, groups.Count())
	if err != nil {
		t.Fatalf("FindFrom failed: %v", err)
	}
	if m == nil || m.Groups[0].Start != 0 || m.Groups[0].End != 12 {
		t.Fatalf("got %+v, want match [0,12)", m)
	}
	if got := string(input[m.Groups[1].Start:m.Groups[1].End]); got != "John" {
		t.Fatalf("group 1 = %q, want John", got)
	}

	all, err := s.FindAllFrom(0, groups.Count())
	if err != nil {
		t.Fatalf("FindAllFrom failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d matches, want 2", len(all))
	}
}

// Scenario 3: phone-number-shaped literal digits pattern.
func TestDigitGroupsScenario(t *testing.T) {
	m := find(t, `\d{3}-\d{3}-\d{4}`, "123-456-7890 and 12-345-6789")
	if m == nil || m.Groups[0] != (Span{0, 12}) {
		t.Fatalf("got %+v, want match [0,12)", m)
	}
}

// Scenario 4: nested star must not diverge even without a budget.
func TestNestedStarDoesNotDiverge(t *testing.T) {
	m := find(t, `(a+)+`, "aaa")
	if m == nil || m.Groups[0].Start != 0 || m.Groups[0].End != 3 {
		t.Fatalf("got %+v, want a match covering [0,3)", m)
	}
}

// Scenario 5: char class with quantifier, match starting mid-string.
func TestCharClassScenario(t *testing.T) {
	m := find(t, `[a-zA-Z_][a-zA-Z0-9_]*`, "123invalid")
	if m == nil || m.Groups[0] != (Span{3, 10}) {
		t.Fatalf("got %+v, want match [3,10)", m)
	}
}

// Scenario 6 (match half): numeric backref capture for replacement.
func TestNumericBackrefCaptureForReplacement(t *testing.T) {
	m := find(t, `(a)(b)\1`, "abab")
	if m == nil || m.Groups[0] != (Span{0, 3}) {
		t.Fatalf("got %+v, want match [0,3)", m)
	}
}

func TestGreedyVsLazyLength(t *testing.T) {
	greedy := find(t, `a.*b`, "axbxb")
	lazy := find(t, `a.*?b`, "axbxb")
	if greedy == nil || lazy == nil {
		t.Fatal("expected both to match")
	}
	greedyLen := greedy.Groups[0].End - greedy.Groups[0].Start
	lazyLen := lazy.Groups[0].End - lazy.Groups[0].Start
	if greedyLen < lazyLen {
		t.Fatalf("greedy length %d < lazy length %d", greedyLen, lazyLen)
	}
}

func TestWordBoundary(t *testing.T) {
	m := find(t, `\bcat\b`, "concat cat scatter")
	if m == nil || m.Groups[0] != (Span{7, 10}) {
		t.Fatalf("got %+v, want match [7,10)", m)
	}
}

func TestAnchors(t *testing.T) {
	if m := find(t, `^abc$`, "abc"); m == nil {
		t.Fatal("expected ^abc$ to match \"abc\"")
	}
	if m := find(t, `^abc$`, "xabc"); m != nil {
		t.Fatalf("got %+v, want no match", m)
	}
}

func TestUnmatchedBackrefNeverMatches(t *testing.T) {
	// Group 2 is inside an alternation branch never taken, so it's unset
	// on the thread that reaches the backref.
	m := find(t, `((a)|b)\2`, "ba")
	if m != nil {
		t.Fatalf("got %+v, want no match (group 2 unset on the 'b' branch)", m)
	}
}
