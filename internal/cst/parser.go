package cst

import (
	"fmt"

	"github.com/kieli-lang/kieli/internal/lexer"
	"github.com/kieli-lang/kieli/internal/source"
)

// Parser is a single-threaded, hand-written recursive-descent parser with
// one-token lookahead plus bounded multi-token backtracking, exactly the
// state spec.md §4.2 specifies: a lexer state, a cache ring of already-
// lexed tokens so peek/extract/restore are O(1), the CST arena under
// construction, and the range of the last consumed token.
type Parser struct {
	doc      *source.TextDocument
	lexState lexer.State
	cache    []lexer.Token
	cursor   int
	tree     *Tree
	prevStop source.Position
}

// NewParser begins parsing doc's text.
func NewParser(doc *source.TextDocument) *Parser {
	return &Parser{
		doc:      doc,
		lexState: lexer.NewState(doc.Text),
		tree:     NewTree(),
	}
}

// fill ensures the cache holds at least n+1 tokens ahead of the cursor.
func (p *Parser) fill(n int) {
	for len(p.cache)-p.cursor <= n {
		tok, next := lexer.Next(p.lexState)
		p.lexState = next
		p.cache = append(p.cache, tok)
		p.recordSemanticToken(tok)
		p.reportLexError(tok)
	}
}

func (p *Parser) recordSemanticToken(tok lexer.Token) {
	color := lexer.SemanticColor(tok.Kind)
	if color == source.TokenColorNone && tok.Kind != lexer.KindEOF {
		return
	}
	p.doc.SemanticTokens = append(p.doc.SemanticTokens, source.SemanticToken{
		Range: tok.Range,
		Kind:  color,
	})
}

func (p *Parser) reportLexError(tok lexer.Token) {
	var msg string
	switch tok.Kind {
	case lexer.KindUnterminatedComment:
		msg = "unterminated block comment"
	case lexer.KindUnterminatedString:
		msg = "unterminated string literal"
	case lexer.KindInvalidCharacter:
		msg = "invalid character literal"
	case lexer.KindInvalidNumber:
		msg = "invalid numeric literal"
	default:
		return
	}
	p.doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: msg, Range: tok.Range})
}

// peek returns the token n ahead of the cursor without consuming anything.
func (p *Parser) peek(n int) lexer.Token {
	p.fill(n)
	return p.cache[p.cursor+n]
}

func (p *Parser) current() lexer.Token { return p.peek(0) }

func (p *Parser) check(k lexer.Kind) bool { return p.current().Kind == k }

// bump unconditionally consumes the current token and returns it.
func (p *Parser) bump() lexer.Token {
	tok := p.peek(0)
	p.cursor++
	p.prevStop = tok.Range.Stop
	return tok
}

// mark snapshots the cursor for a non-committing production.
func (p *Parser) mark() int { return p.cursor }

// reset rewinds the cursor to a previously taken mark. Because tokens are
// cached, not re-lexed, this is O(1) and never re-triggers diagnostics or
// semantic-token pushes for tokens already seen.
func (p *Parser) reset(mark int) { p.cursor = mark }

// tryConsume is the non-committing primitive: if the current token has
// kind k, consume it and return true; otherwise consume nothing.
func (p *Parser) tryConsume(k lexer.Kind) (lexer.Token, bool) {
	if p.check(k) {
		return p.bump(), true
	}
	return lexer.Token{}, false
}

// expect is the committing primitive: report "Expected <X>, but found <Y>"
// and return a zero token plus false if the current token does not match.
func (p *Parser) expect(k lexer.Kind) (lexer.Token, bool) {
	if tok, ok := p.tryConsume(k); ok {
		return tok, true
	}
	got := p.current()
	p.doc.Report(source.Diagnostic{
		Severity: source.SeverityError,
		Message:  fmt.Sprintf("expected %s, but found %s", k, got.Kind),
		Range:    got.Range,
	})
	return lexer.Token{}, false
}

func (p *Parser) rangeFrom(start source.Position) source.Range {
	return source.Range{Start: start, Stop: p.prevStop}
}

func (p *Parser) errorNode(r source.Range) NodeId {
	return p.tree.Push(Node{Kind: KindError, Range: r})
}

// synchronize skips tokens until a statement-like boundary (a semicolon, a
// closing delimiter, or eof) so top-level definition parsing can resume
// after an error, per spec.md §4.2's error strategy.
func (p *Parser) synchronize() {
	for {
		switch p.current().Kind {
		case lexer.KindSemicolon:
			p.bump()
			return
		case lexer.KindRBrace, lexer.KindEOF, lexer.KindFn, lexer.KindStruct,
			lexer.KindEnum, lexer.KindAlias, lexer.KindConcept, lexer.KindImpl,
			lexer.KindModule, lexer.KindImport:
			return
		default:
			p.bump()
		}
	}
}

// Tree returns the CST arena built so far.
func (p *Parser) Tree() *Tree { return p.tree }

// ParseProgram parses every top-level definition in the document, per
// spec.md §4.2/§4.4's "Collect" walk: a sequence of definitions, recovering
// after each error so later definitions are still recovered.
func ParseProgram(doc *source.TextDocument) *Tree {
	p := NewParser(doc)
	start := p.current().Range.Start
	var defs []NodeId
	for !p.check(lexer.KindEOF) {
		before := p.mark()
		defs = append(defs, p.parseDefinition())
		if p.mark() == before {
			// parseDefinition must always consume at least one token to
			// avoid looping forever on unrecognized input.
			p.doc.Report(source.Diagnostic{
				Severity: source.SeverityError,
				Message:  fmt.Sprintf("unexpected token %s", p.current().Kind),
				Range:    p.current().Range,
			})
			p.bump()
			p.synchronize()
		}
	}
	root := p.tree.Push(Node{Kind: KindProgram, Range: p.rangeFrom(start), Children: defs})
	p.tree.Root = root
	return p.tree
}
