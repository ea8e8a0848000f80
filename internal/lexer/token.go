package lexer

// Kind discriminates the tokens produced by Lexer.Next.
type Kind int

const (
	EOF Kind = iota
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Pipe
	Colon
	Comma
	Caret
	Dollar
	Dot
	StarGreedy
	StarLazy
	PlusGreedy
	PlusLazy
	Question
	NonCapOpen  // "(?:"
	NamedOpen   // "(name:" or "(?<name>" — Name carries the identifier
	Escape      // "\X" for any X without a more specific meaning — Ch carries X
	BackrefNum  // "\123" — Num carries the (non-negative) number
	BackrefRel  // "\g{-k}" — Num carries the negative offset
	BackrefName // "\g{content}" — Name carries the content verbatim
	Shorthand   // \w \W \d \D \s \S — Ch carries the letter
	Boundary    // \b \B — Ch carries 'b' or 'B'
	Literal     // any other literal codepoint — Ch carries it; digits inside
	            // "{n,m}" are read as runs of this token by the parser
)

// Token is a single lexical unit. Only the fields relevant to Kind are
// populated; it is a tagged struct rather than an interface because each
// variant carries at most one payload and tokens are consumed immediately.
type Token struct {
	Kind Kind
	Pos  int // codepoint offset at which this token starts
	Ch   rune
	Name string
	Num  int
}
