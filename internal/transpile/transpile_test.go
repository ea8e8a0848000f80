package transpile

import (
	"testing"

	"github.com/coregx/rex/internal/ast"
	"github.com/coregx/rex/internal/parser"
)

func roundTrip(t *testing.T, pattern string) string {
	t.Helper()
	tree, _, err := parser.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", pattern, err)
	}
	return Expr(tree)
}

func TestTranspileLiteral(t *testing.T) {
	if got := roundTrip(t, "hello"); got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestTranspileEmptyAlternationBranch(t *testing.T) {
	got := roundTrip(t, "a|")
	if got != "a|" {
		t.Fatalf("got %q, want %q", got, "a|")
	}
}

func TestTranspileNamedGroup(t *testing.T) {
	got := roundTrip(t, "(name:abc)")
	if got != "(?<name>abc)" {
		t.Fatalf("got %q, want %q", got, "(?<name>abc)")
	}
}

func TestTranspileNestedGroups(t *testing.T) {
	got := roundTrip(t, "((a)(b))")
	if got != "((a)(b))" {
		t.Fatalf("got %q, want %q", got, "((a)(b))")
	}
}

func TestTranspileNonCapturingGroup(t *testing.T) {
	got := roundTrip(t, "(?:abc)def")
	if got != "(?:abc)def" {
		t.Fatalf("got %q, want %q", got, "(?:abc)def")
	}
}

func TestTranspileComplexPatternWithLiteralSpace(t *testing.T) {
	got := roundTrip(t, `(name:\w+) is \g{name}`)
	if got != `(?<name>\w+) is \g{name}` {
		t.Fatalf("got %q, want %q", got, `(?<name>\w+) is \g{name}`)
	}
}

func TestTranspileQuantifierParenthesizesSeq(t *testing.T) {
	got := roundTrip(t, "(?:ab)*")
	if got != "(?:ab)*" {
		t.Fatalf("got %q, want %q", got, "(?:ab)*")
	}
	direct := Expr(ast.Quantified{
		Child: ast.Seq{Items: []ast.Expr{ast.Literal{Ch: 'a'}, ast.Literal{Ch: 'b'}}},
		Quant: ast.Quantifier{Kind: ast.QuantStar, Min: 0, Max: -1},
	})
	if direct != "(?:ab)*" {
		t.Fatalf("quantified Seq: got %q, want %q", direct, "(?:ab)*")
	}
}

func TestTranspileThenReparseRoundTrip(t *testing.T) {
	original := `(name:a+)(b|c)\g{-1}`
	rendered := roundTrip(t, original)
	tree, _, err := parser.Parse(rendered)
	if err != nil {
		t.Fatalf("re-parsing %q failed: %v", rendered, err)
	}
	rendered2 := Expr(tree)
	if rendered != rendered2 {
		t.Fatalf("round trip unstable: %q != %q", rendered, rendered2)
	}
}
