package cst

import (
	"github.com/kieli-lang/kieli/internal/lexer"
	"github.com/kieli-lang/kieli/internal/source"
)

// parsePattern parses a single pattern: a wildcard, a literal, a binding
// name (optionally `mut`-qualified), a path (for enum-case patterns), or a
// parenthesized tuple pattern.
func (p *Parser) parsePattern() NodeId {
	start := p.current().Range.Start
	switch p.current().Kind {
	case lexer.KindUnderscore:
		tok := p.bump()
		return p.tree.Push(Node{Kind: KindWildcardPattern, Range: p.rangeFrom(start), Token: tok})
	case lexer.KindInteger, lexer.KindFloat, lexer.KindString, lexer.KindChar, lexer.KindBool:
		tok := p.bump()
		return p.tree.Push(Node{Kind: KindLiteralPattern, Range: p.rangeFrom(start), Token: tok, Text: tok.Text(p.doc.Text)})
	case lexer.KindMut, lexer.KindLower:
		var mutTok lexer.Token
		hasMut := false
		if tok, ok := p.tryConsume(lexer.KindMut); ok {
			mutTok = tok
			hasMut = true
		}
		name, _ := p.expect(lexer.KindLower)
		return p.tree.Push(Node{
			Kind: KindNamePattern, Range: p.rangeFrom(start), Token: name,
			Text: name.Text(p.doc.Text),
			Aux:  []OptToken{{Present: hasMut, Token: mutTok}},
		})
	case lexer.KindUpper, lexer.KindGlobal:
		path := p.parsePathExpr()
		var args []NodeId
		if _, ok := p.tryConsume(lexer.KindLParen); ok {
			for !p.check(lexer.KindRParen) && !p.check(lexer.KindEOF) {
				args = append(args, p.parsePattern())
				if _, ok := p.tryConsume(lexer.KindComma); !ok {
					break
				}
			}
			p.expect(lexer.KindRParen)
		}
		return p.tree.Push(Node{Kind: KindPathPattern, Range: p.rangeFrom(start), Children: append([]NodeId{path}, args...)})
	case lexer.KindLParen:
		p.bump()
		if _, ok := p.tryConsume(lexer.KindRParen); ok {
			return p.tree.Push(Node{Kind: KindTuplePattern, Range: p.rangeFrom(start)})
		}
		elems := []NodeId{p.parsePattern()}
		for {
			if _, ok := p.tryConsume(lexer.KindComma); !ok {
				break
			}
			if p.check(lexer.KindRParen) {
				break
			}
			elems = append(elems, p.parsePattern())
		}
		p.expect(lexer.KindRParen)
		if len(elems) == 1 {
			return elems[0]
		}
		return p.tree.Push(Node{Kind: KindTuplePattern, Range: p.rangeFrom(start), Children: elems})
	default:
		p.doc.Report(source.Diagnostic{
			Severity: source.SeverityError,
			Message:  "expected a pattern, but found " + p.current().Kind.String(),
			Range:    p.current().Range,
		})
		p.bump()
		return p.errorNode(p.rangeFrom(start))
	}
}

// parseType parses a type expression: a name with optional `[T, ...]`
// arguments, `&`/`*` reference or
// pointer with a mutability qualifier, `[T]`/`[T; N]` array/slice, a tuple,
// `typeof(E)`, or a function type.
func (p *Parser) parseType() NodeId {
	start := p.current().Range.Start
	switch p.current().Kind {
	case lexer.KindAmp, lexer.KindStar:
		tok := p.bump()
		mut := p.parseMutability()
		inner := p.parseType()
		kind := KindReferenceType
		if tok.Kind == lexer.KindStar {
			kind = KindPointerType
		}
		return p.tree.Push(Node{Kind: kind, Range: p.rangeFrom(start), Children: []NodeId{mut, inner}})
	case lexer.KindLBracket:
		p.bump()
		elem := p.parseType()
		if _, ok := p.tryConsume(lexer.KindSemicolon); ok {
			length := p.parseExpr()
			p.expect(lexer.KindRBracket)
			return p.tree.Push(Node{Kind: KindArrayType, Range: p.rangeFrom(start), Children: []NodeId{elem, length}})
		}
		p.expect(lexer.KindRBracket)
		return p.tree.Push(Node{Kind: KindSliceType, Range: p.rangeFrom(start), Children: []NodeId{elem}})
	case lexer.KindLParen:
		p.bump()
		var elems []NodeId
		for !p.check(lexer.KindRParen) && !p.check(lexer.KindEOF) {
			elems = append(elems, p.parseType())
			if _, ok := p.tryConsume(lexer.KindComma); !ok {
				break
			}
		}
		p.expect(lexer.KindRParen)
		return p.tree.Push(Node{Kind: KindTupleType, Range: p.rangeFrom(start), Children: elems})
	case lexer.KindTypeof:
		p.bump()
		p.expect(lexer.KindLParen)
		expr := p.parseExpr()
		p.expect(lexer.KindRParen)
		return p.tree.Push(Node{Kind: KindTypeofType, Range: p.rangeFrom(start), Children: []NodeId{expr}})
	case lexer.KindFn:
		p.bump()
		p.expect(lexer.KindLParen)
		var params []NodeId
		for !p.check(lexer.KindRParen) && !p.check(lexer.KindEOF) {
			params = append(params, p.parseType())
			if _, ok := p.tryConsume(lexer.KindComma); !ok {
				break
			}
		}
		p.expect(lexer.KindRParen)
		var ret NodeId
		hasRet := false
		if _, ok := p.tryConsume(lexer.KindArrowRight); ok {
			ret = p.parseType()
			hasRet = true
		}
		children := params
		if hasRet {
			children = append(children, ret)
		}
		return p.tree.Push(Node{Kind: KindFunctionType, Range: p.rangeFrom(start), Children: children, Text: boolToStr(hasRet)})
	default:
		name, _ := p.expect(lexer.KindUpper)
		var args []NodeId
		if _, ok := p.tryConsume(lexer.KindLBracket); ok {
			for !p.check(lexer.KindRBracket) && !p.check(lexer.KindEOF) {
				args = append(args, p.parseType())
				if _, ok := p.tryConsume(lexer.KindComma); !ok {
					break
				}
			}
			p.expect(lexer.KindRBracket)
		}
		if _, ok := p.tryConsume(lexer.KindColon); ok {
			// generic-argument list spelled `Name:<...>` is out of scope for
			// this parser's grammar subset; treat a lone `:` as a type
			// ascription boundary and back off.
			p.cursor--
		}
		return p.tree.Push(Node{Kind: KindNamedType, Range: p.rangeFrom(start), Token: name, Text: name.Text(p.doc.Text), Children: args})
	}
}

func boolToStr(b bool) string {
	if b {
		return "ret"
	}
	return ""
}

// parseMutability parses `mut`, `immut`, or a named mutability parameter
// (a lower-case identifier), per spec.md §4.5's mutability resolution.
func (p *Parser) parseMutability() NodeId {
	start := p.current().Range.Start
	switch p.current().Kind {
	case lexer.KindMut, lexer.KindImmut:
		tok := p.bump()
		return p.tree.Push(Node{Kind: KindMutConcrete, Range: p.rangeFrom(start), Token: tok, Text: tok.Text(p.doc.Text)})
	case lexer.KindLower:
		tok := p.bump()
		return p.tree.Push(Node{Kind: KindMutNamed, Range: p.rangeFrom(start), Token: tok, Text: tok.Text(p.doc.Text)})
	default:
		return p.tree.Push(Node{Kind: KindMutConcrete, Range: p.rangeFrom(start), Text: "immut"})
	}
}
