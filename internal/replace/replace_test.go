package replace

import (
	"testing"

	"github.com/coregx/rex/internal/group"
)

func TestParseLiteral(t *testing.T) {
	tmpl := Parse("hello")
	if len(tmpl.Parts) != 1 || tmpl.Parts[0].Kind != PartLiteral || tmpl.Parts[0].Text != "hello" {
		t.Fatalf("got %+v", tmpl.Parts)
	}
}

func TestParseBackrefNumber(t *testing.T) {
	tmpl := Parse(`\1`)
	if len(tmpl.Parts) != 1 || tmpl.Parts[0].Kind != PartBackrefNumber || tmpl.Parts[0].Num != 1 {
		t.Fatalf("got %+v", tmpl.Parts)
	}
}

func TestParseBackrefName(t *testing.T) {
	tmpl := Parse(`\g{name}`)
	if len(tmpl.Parts) != 1 || tmpl.Parts[0].Kind != PartBackrefName || tmpl.Parts[0].Name != "name" {
		t.Fatalf("got %+v", tmpl.Parts)
	}
}

func TestParseGBackrefLeadingMinusBecomesName(t *testing.T) {
	// "-1" inside \g{...} is the relative-backref spelling, which this
	// template grammar doesn't support (relative offsets only make sense
	// at compile time, against a group registry). It must fall through to
	// PartBackrefName rather than parse as a negative PartBackrefNumber,
	// which would later index groups[-1] and panic in Apply.
	tmpl := Parse(`\g{-1}`)
	if len(tmpl.Parts) != 1 || tmpl.Parts[0].Kind != PartBackrefName || tmpl.Parts[0].Name != "-1" {
		t.Fatalf("got %+v, want PartBackrefName \"-1\"", tmpl.Parts)
	}
}

func TestApplyGBackrefLeadingMinusRendersEmpty(t *testing.T) {
	tmpl := Parse(`[\g{-1}]`)
	got := Apply(tmpl, []rune("abc"), Span{0, 3}, nil, group.NewRegistry())
	if got != "[]" {
		t.Fatalf("got %q, want %q (no panic, no match for name \"-1\")", got, "[]")
	}
}

func TestParseEntireMatchForms(t *testing.T) {
	for _, template := range []string{`\g{0}`, `\G`} {
		tmpl := Parse(template)
		if len(tmpl.Parts) != 1 || tmpl.Parts[0].Kind != PartEntireMatch {
			t.Fatalf("%q: got %+v, want a single EntireMatch part", template, tmpl.Parts)
		}
	}
}

func TestParseMixedTemplate(t *testing.T) {
	tmpl := Parse(`prefix\1suffix`)
	if len(tmpl.Parts) != 3 {
		t.Fatalf("got %d parts, want 3: %+v", len(tmpl.Parts), tmpl.Parts)
	}
	if tmpl.Parts[0].Text != "prefix" || tmpl.Parts[2].Text != "suffix" {
		t.Fatalf("got %+v", tmpl.Parts)
	}
}

func TestParseEscapeSequencesAreLiteral(t *testing.T) {
	// "\n" is the letter n, not a newline, matching
	// original_source/ogex/src/replace.rs's escape rule.
	tmpl := Parse(`\n\t`)
	if len(tmpl.Parts) != 1 || tmpl.Parts[0].Text != "nt" {
		t.Fatalf("got %+v, want literal \"nt\"", tmpl.Parts)
	}
}

func TestApplyNumericBackref(t *testing.T) {
	tmpl := Parse(`\2-\1`)
	original := []rune("ab")
	groups := []Span{{}, {0, 1}, {1, 2}}
	got := Apply(tmpl, original, Span{0, 2}, groups, group.NewRegistry())
	if got != "b-a" {
		t.Fatalf("got %q, want %q", got, "b-a")
	}
}

func TestApplyEntireMatch(t *testing.T) {
	tmpl := Parse(`[\G]`)
	original := []rune("hello world")
	got := Apply(tmpl, original, Span{0, 5}, nil, group.NewRegistry())
	if got != "[hello]" {
		t.Fatalf("got %q, want %q", got, "[hello]")
	}
}

func TestApplyNamedBackref(t *testing.T) {
	reg := group.NewRegistry()
	reg.Register("name")
	tmpl := Parse(`\g{name}`)
	original := []rune("hello world")
	groups := []Span{{}, {0, 5}}
	got := Apply(tmpl, original, Span{0, 11}, groups, reg)
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestApplyMissingNamedBackrefIsEmpty(t *testing.T) {
	tmpl := Parse(`\g{missing}`)
	got := Apply(tmpl, []rune("hello"), Span{0, 5}, nil, group.NewRegistry())
	if got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestApplyUnsetGroupIsEmpty(t *testing.T) {
	tmpl := Parse(`[\1]`)
	groups := []Span{{}, {-1, -1}}
	got := Apply(tmpl, []rune("abc"), Span{0, 3}, groups, group.NewRegistry())
	if got != "[]" {
		t.Fatalf("got %q, want %q", got, "[]")
	}
}
