// Package parser is a recursive-descent parser over internal/lexer's token
// stream, building internal/ast trees with a standard precedence ladder
// (alternation > sequence > quantified > atom). It registers
// capture groups with an internal/group.Registry as it encounters them, so
// duplicate-name detection and indexing happen in the same pass.
//
// Grounded on quasilyte-regex/syntax/parser.go's method-per-production
// shape, adapted to explicit error returns instead of panic/recover.
package parser

import (
	"fmt"

	"github.com/coregx/rex/internal/ast"
	"github.com/coregx/rex/internal/group"
	"github.com/coregx/rex/internal/lexer"
)

// Parser holds the token lookahead and the group registry being populated.
type Parser struct {
	lex    *lexer.Lexer
	tok    lexer.Token
	groups *group.Registry
}

// Parse parses pattern and returns its AST alongside the group registry
// populated while parsing it.
func Parse(pattern string) (ast.Expr, *group.Registry, error) {
	p := &Parser{
		lex:    lexer.New(pattern),
		groups: group.NewRegistry(),
	}
	if err := p.advance(); err != nil {
		return nil, nil, err
	}

	expr, err := p.parseAlternation()
	if err != nil {
		return nil, nil, err
	}
	if p.tok.Kind != lexer.EOF {
		return nil, nil, p.unexpected("end of pattern")
	}
	return expr, p.groups, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) unexpected(expected string) error {
	return &Error{Pos: p.tok.Pos, Msg: fmt.Sprintf("unexpected token (expected %s, found %s)", expected, kindName(p.tok.Kind))}
}

// isSeqEnd reports whether the current token terminates a sequence:
// EOF, ')', ']', '}', or '|'.
func (p *Parser) isSeqEnd() bool {
	switch p.tok.Kind {
	case lexer.EOF, lexer.RParen, lexer.RBracket, lexer.RBrace, lexer.Pipe:
		return true
	default:
		return false
	}
}

// parseAlternation := sequence ('|' sequence)*
func (p *Parser) parseAlternation() (ast.Expr, error) {
	first, err := p.parseSequence()
	if err != nil {
		return nil, err
	}

	branches := []ast.Expr{first}
	for p.tok.Kind == lexer.Pipe {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		branches = append(branches, next)
	}

	if len(branches) == 1 {
		return branches[0], nil
	}
	return ast.Alt{Branches: branches}, nil
}

// parseSequence := quantified+ (possibly empty)
func (p *Parser) parseSequence() (ast.Expr, error) {
	var items []ast.Expr
	for !p.isSeqEnd() {
		item, err := p.parseQuantified()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	switch len(items) {
	case 0:
		return ast.Empty{}, nil
	case 1:
		return items[0], nil
	default:
		return ast.Seq{Items: items}, nil
	}
}

// parseQuantified := atom quantifier?
func (p *Parser) parseQuantified() (ast.Expr, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	quant, hasQuant, err := p.tryParseQuantifier()
	if err != nil {
		return nil, err
	}
	if !hasQuant {
		return atom, nil
	}
	return ast.Quantified{Child: atom, Quant: quant}, nil
}

// tryParseQuantifier consumes a trailing quantifier operator if present.
func (p *Parser) tryParseQuantifier() (ast.Quantifier, bool, error) {
	switch p.tok.Kind {
	case lexer.StarGreedy:
		if err := p.advance(); err != nil {
			return ast.Quantifier{}, false, err
		}
		return ast.Quantifier{Kind: ast.QuantStar, Min: 0, Max: -1}, true, nil
	case lexer.StarLazy:
		if err := p.advance(); err != nil {
			return ast.Quantifier{}, false, err
		}
		return ast.Quantifier{Kind: ast.QuantStar, Min: 0, Max: -1, Lazy: true}, true, nil
	case lexer.PlusGreedy:
		if err := p.advance(); err != nil {
			return ast.Quantifier{}, false, err
		}
		return ast.Quantifier{Kind: ast.QuantPlus, Min: 1, Max: -1}, true, nil
	case lexer.PlusLazy:
		if err := p.advance(); err != nil {
			return ast.Quantifier{}, false, err
		}
		return ast.Quantifier{Kind: ast.QuantPlus, Min: 1, Max: -1, Lazy: true}, true, nil
	case lexer.Question:
		if err := p.advance(); err != nil {
			return ast.Quantifier{}, false, err
		}
		return ast.Quantifier{Kind: ast.QuantOptional, Min: 0, Max: 1}, true, nil
	case lexer.LBrace:
		return p.parseBracedQuantifier()
	default:
		return ast.Quantifier{}, false, nil
	}
}

// parseBracedQuantifier parses "{n}", "{n,}" or "{n,m}", consuming the
// closing '}' and an optional trailing '?' for the lazy variant (not
// available on the exact-n form).
func (p *Parser) parseBracedQuantifier() (ast.Quantifier, bool, error) {
	if err := p.advance(); err != nil { // consume '{'
		return ast.Quantifier{}, false, err
	}

	n, err := p.parseDigits()
	if err != nil {
		return ast.Quantifier{}, false, err
	}

	if p.tok.Kind == lexer.RBrace {
		if err := p.advance(); err != nil {
			return ast.Quantifier{}, false, err
		}
		return ast.Quantifier{Kind: ast.QuantExact, Min: n, Max: n}, true, nil
	}

	if p.tok.Kind != lexer.Comma {
		return ast.Quantifier{}, false, &Error{Pos: p.tok.Pos, Msg: "invalid quantifier: expected ',' or '}'"}
	}
	if err := p.advance(); err != nil {
		return ast.Quantifier{}, false, err
	}

	if p.tok.Kind == lexer.RBrace {
		if err := p.advance(); err != nil {
			return ast.Quantifier{}, false, err
		}
		lazy := p.consumeLazyMark()
		return ast.Quantifier{Kind: ast.QuantAtLeast, Min: n, Max: -1, Lazy: lazy}, true, nil
	}

	m, err := p.parseDigits()
	if err != nil {
		return ast.Quantifier{}, false, err
	}
	if p.tok.Kind != lexer.RBrace {
		return ast.Quantifier{}, false, &Error{Pos: p.tok.Pos, Msg: "invalid quantifier: expected '}'"}
	}
	if err := p.advance(); err != nil {
		return ast.Quantifier{}, false, err
	}
	if m < n {
		return ast.Quantifier{}, false, &Error{Pos: p.tok.Pos, Msg: "invalid quantifier: upper bound less than lower bound"}
	}
	lazy := p.consumeLazyMark()
	return ast.Quantifier{Kind: ast.QuantBetween, Min: n, Max: m, Lazy: lazy}, true, nil
}

// consumeLazyMark consumes a trailing '?' if present, returning whether it did.
func (p *Parser) consumeLazyMark() bool {
	if p.tok.Kind == lexer.Question {
		_ = p.advance()
		return true
	}
	return false
}

func (p *Parser) parseDigits() (int, error) {
	if p.tok.Kind != lexer.Literal || p.tok.Ch < '0' || p.tok.Ch > '9' {
		return 0, &Error{Pos: p.tok.Pos, Msg: "invalid quantifier: expected digit"}
	}
	n := 0
	for p.tok.Kind == lexer.Literal && p.tok.Ch >= '0' && p.tok.Ch <= '9' {
		n = n*10 + int(p.tok.Ch-'0')
		if err := p.advance(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// parseAtom := literal | '.' | anchor | group | char_class | shorthand | boundary | backref
func (p *Parser) parseAtom() (ast.Expr, error) {
	tok := p.tok

	switch tok.Kind {
	case lexer.Literal:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.Literal{Ch: tok.Ch}, nil
	case lexer.Dot:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.AnyChar{}, nil
	case lexer.Caret:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.StartAnchor{}, nil
	case lexer.Dollar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.EndAnchor{}, nil
	case lexer.Shorthand:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.Shorthand{Class: tok.Ch}, nil
	case lexer.Boundary:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if tok.Ch == 'b' {
			return ast.WordBoundary{}, nil
		}
		return ast.NonWordBoundary{}, nil
	case lexer.BackrefNum:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.Backref{Index: tok.Num}, nil
	case lexer.BackrefRel:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.RelBackref{Offset: tok.Num}, nil
	case lexer.BackrefName:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NamedBackref{Name: tok.Name}, nil
	case lexer.Escape:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.Literal{Ch: tok.Ch}, nil
	case lexer.LBracket:
		return p.parseCharClass()
	case lexer.LParen:
		return p.parseCapturingGroup()
	case lexer.NonCapOpen:
		return p.parseNonCapturingGroup()
	case lexer.NamedOpen:
		return p.parseNamedGroup(tok.Name)
	default:
		return nil, p.unexpected("an atom")
	}
}

func (p *Parser) parseGroupBody() (ast.Expr, error) {
	body, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != lexer.RParen {
		return nil, &Error{Pos: p.tok.Pos, Msg: "unclosed group"}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseCapturingGroup() (ast.Expr, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	index, regErr := p.groups.Register("")
	if regErr != nil {
		return nil, regErr
	}
	body, err := p.parseGroupBody()
	if err != nil {
		return nil, err
	}
	return ast.Group{Index: index, Child: body}, nil
}

func (p *Parser) parseNonCapturingGroup() (ast.Expr, error) {
	if err := p.advance(); err != nil { // consume '(?:'
		return nil, err
	}
	body, err := p.parseGroupBody()
	if err != nil {
		return nil, err
	}
	return ast.NonCapGroup{Child: body}, nil
}

func (p *Parser) parseNamedGroup(name string) (ast.Expr, error) {
	if err := p.advance(); err != nil { // consume '(name:'
		return nil, err
	}
	index, regErr := p.groups.Register(name)
	if regErr != nil {
		return nil, regErr
	}
	body, err := p.parseGroupBody()
	if err != nil {
		return nil, err
	}
	return ast.NamedGroup{Name: name, Index: index, Child: body}, nil
}

// parseCharClass parses "[" "^"? class_item+ "]".
func (p *Parser) parseCharClass() (ast.Expr, error) {
	startPos := p.tok.Pos
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}

	negated := false
	if p.tok.Kind == lexer.Caret {
		negated = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	var items []ast.ClassItem
	for p.tok.Kind != lexer.RBracket {
		if p.tok.Kind == lexer.EOF {
			return nil, &Error{Pos: startPos, Msg: "unclosed character class"}
		}
		item, err := p.parseClassItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, &Error{Pos: startPos, Msg: "empty character class"}
	}
	if err := p.advance(); err != nil { // consume ']'
		return nil, err
	}

	return ast.Class{Negated: negated, Items: items}, nil
}

// parseClassItem parses one class_item: a literal, a shorthand, or a range
// "X-Y". An isolated '-' that doesn't form a range is a literal dash.
func (p *Parser) parseClassItem() (ast.ClassItem, error) {
	tok := p.tok

	if tok.Kind == lexer.Shorthand {
		if err := p.advance(); err != nil {
			return ast.ClassItem{}, err
		}
		return ast.ClassItem{Kind: ast.ClassShorthand, Shorthand: tok.Ch}, nil
	}

	lo, err := p.classChar()
	if err != nil {
		return ast.ClassItem{}, err
	}

	if p.tok.Kind == lexer.Literal && p.tok.Ch == '-' {
		// Peek: is this a range, or a literal dash? A range needs a
		// following char that is not ']'.
		savedLex := *p.lex
		savedTok := p.tok
		if err := p.advance(); err != nil {
			return ast.ClassItem{}, err
		}
		if p.tok.Kind != lexer.RBracket && p.tok.Kind != lexer.EOF {
			hi, err := p.classChar()
			if err == nil {
				if hi < lo {
					return ast.ClassItem{}, &Error{Pos: tok.Pos, Msg: "invalid class range: upper bound less than lower bound"}
				}
				return ast.ClassItem{Kind: ast.ClassRange, Lo: lo, Hi: hi}, nil
			}
		}
		// Not a range: rewind to just after lo and treat '-' as literal.
		*p.lex = savedLex
		p.tok = savedTok
	}

	return ast.ClassItem{Kind: ast.ClassChar, Ch: lo}, nil
}

// classChar consumes one literal or escaped character inside a class.
func (p *Parser) classChar() (rune, error) {
	tok := p.tok
	switch tok.Kind {
	case lexer.Literal:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return tok.Ch, nil
	case lexer.Escape:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return tok.Ch, nil
	case lexer.Caret:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return '^', nil
	case lexer.Dollar:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return '$', nil
	case lexer.Dot:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return '.', nil
	default:
		return 0, p.unexpected("a character class member")
	}
}

func kindName(k lexer.Kind) string {
	return fmt.Sprintf("token(%d)", k)
}

// Error is a parser-stage error. Pos is a codepoint offset.
type Error struct {
	Pos int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parser error at position %d: %s", e.Pos, e.Msg)
}
