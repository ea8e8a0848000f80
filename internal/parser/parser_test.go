package parser

import (
	"testing"

	"github.com/coregx/rex/internal/ast"
)

func mustParse(t *testing.T, pattern string) (ast.Expr, int) {
	t.Helper()
	expr, groups, err := Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", pattern, err)
	}
	return expr, groups.Count()
}

func TestParseLiteralSequence(t *testing.T) {
	expr, n := mustParse(t, "abc")
	if n != 0 {
		t.Fatalf("group count = %d, want 0", n)
	}
	seq, ok := expr.(ast.Seq)
	if !ok || len(seq.Items) != 3 {
		t.Fatalf("got %#v, want a 3-item Seq", expr)
	}
}

func TestParseAlternationPrecedence(t *testing.T) {
	// "ab|cd" must parse as Alt{Seq{a,b}, Seq{c,d}}, not as a flat
	// literal list: alternation binds looser than sequencing.
	expr, _ := mustParse(t, "ab|cd")
	alt, ok := expr.(ast.Alt)
	if !ok || len(alt.Branches) != 2 {
		t.Fatalf("got %#v, want a 2-branch Alt", expr)
	}
	for _, branch := range alt.Branches {
		if _, ok := branch.(ast.Seq); !ok {
			t.Fatalf("branch %#v is not a Seq", branch)
		}
	}
}

func TestParseCapturingGroup(t *testing.T) {
	expr, n := mustParse(t, "(a)(b)")
	if n != 2 {
		t.Fatalf("group count = %d, want 2", n)
	}
	seq := expr.(ast.Seq)
	g1 := seq.Items[0].(ast.Group)
	g2 := seq.Items[1].(ast.Group)
	if g1.Index != 1 || g2.Index != 2 {
		t.Fatalf("group indices = %d, %d; want 1, 2", g1.Index, g2.Index)
	}
}

func TestParseNamedGroup(t *testing.T) {
	expr, _ := mustParse(t, "(word:\\w+)")
	ng, ok := expr.(ast.NamedGroup)
	if !ok || ng.Name != "word" || ng.Index != 1 {
		t.Fatalf("got %#v, want NamedGroup{Name: word, Index: 1}", expr)
	}
}

func TestParseDuplicateNameFails(t *testing.T) {
	_, _, err := Parse("(x:a)(x:b)")
	if err == nil {
		t.Fatal("expected duplicate group name error")
	}
}

func TestParseNonCapturingGroupDoesNotRegister(t *testing.T) {
	_, n := mustParse(t, "(?:abc)")
	if n != 0 {
		t.Fatalf("group count = %d, want 0 for non-capturing group", n)
	}
}

func TestParseQuantifiers(t *testing.T) {
	tests := []struct {
		pattern string
		kind    ast.QuantKind
		min     int
		max     int
		lazy    bool
	}{
		{"a*", ast.QuantStar, 0, -1, false},
		{"a*?", ast.QuantStar, 0, -1, true},
		{"a+", ast.QuantPlus, 1, -1, false},
		{"a+?", ast.QuantPlus, 1, -1, true},
		{"a?", ast.QuantOptional, 0, 1, false},
		{"a{3}", ast.QuantExact, 3, 3, false},
		{"a{3,}", ast.QuantAtLeast, 3, -1, false},
		{"a{3,}?", ast.QuantAtLeast, 3, -1, true},
		{"a{2,5}", ast.QuantBetween, 2, 5, false},
		{"a{2,5}?", ast.QuantBetween, 2, 5, true},
	}
	for _, tt := range tests {
		expr, _ := mustParse(t, tt.pattern)
		q, ok := expr.(ast.Quantified)
		if !ok {
			t.Fatalf("%q: got %#v, want Quantified", tt.pattern, expr)
		}
		if q.Quant.Kind != tt.kind || q.Quant.Min != tt.min || q.Quant.Max != tt.max || q.Quant.Lazy != tt.lazy {
			t.Fatalf("%q: got %+v, want {%v %d %d %v}", tt.pattern, q.Quant, tt.kind, tt.min, tt.max, tt.lazy)
		}
	}
}

func TestParseBracedQuantifierUpperLessThanLowerFails(t *testing.T) {
	if _, _, err := Parse("a{5,2}"); err == nil {
		t.Fatal("expected error for upper < lower")
	}
}

func TestParseCharClassRangeAndLiteralDash(t *testing.T) {
	expr, _ := mustParse(t, "[a-z-]")
	cls := expr.(ast.Class)
	if len(cls.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(cls.Items))
	}
	if cls.Items[0].Kind != ast.ClassRange || cls.Items[0].Lo != 'a' || cls.Items[0].Hi != 'z' {
		t.Fatalf("item 0 = %+v, want range a-z", cls.Items[0])
	}
	if cls.Items[1].Kind != ast.ClassChar || cls.Items[1].Ch != '-' {
		t.Fatalf("item 1 = %+v, want literal dash", cls.Items[1])
	}
}

func TestParseCharClassNegated(t *testing.T) {
	expr, _ := mustParse(t, "[^abc]")
	cls := expr.(ast.Class)
	if !cls.Negated || len(cls.Items) != 3 {
		t.Fatalf("got %+v, want negated class with 3 items", cls)
	}
}

func TestParseBackrefForms(t *testing.T) {
	expr, _ := mustParse(t, `(a)(b)\1\g{-1}\g{name}`)
	seq := expr.(ast.Seq)
	if _, ok := seq.Items[2].(ast.Backref); !ok {
		t.Fatalf("item 2 = %#v, want Backref", seq.Items[2])
	}
	if _, ok := seq.Items[3].(ast.RelBackref); !ok {
		t.Fatalf("item 3 = %#v, want RelBackref", seq.Items[3])
	}
	if _, ok := seq.Items[4].(ast.NamedBackref); !ok {
		t.Fatalf("item 4 = %#v, want NamedBackref", seq.Items[4])
	}
}

func TestParseUnclosedGroupFails(t *testing.T) {
	if _, _, err := Parse("(abc"); err == nil {
		t.Fatal("expected unclosed group error")
	}
}

func TestParseEmptyAlternationBranch(t *testing.T) {
	expr, _ := mustParse(t, "a||b")
	alt := expr.(ast.Alt)
	if len(alt.Branches) != 3 {
		t.Fatalf("got %d branches, want 3", len(alt.Branches))
	}
	if _, ok := alt.Branches[1].(ast.Empty); !ok {
		t.Fatalf("middle branch = %#v, want Empty", alt.Branches[1])
	}
}
