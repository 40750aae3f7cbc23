package cst

import (
	"github.com/kieli-lang/kieli/internal/lexer"
	"github.com/kieli-lang/kieli/internal/source"
)

// parseDefinition dispatches on the leading keyword of a top-level (or
// module-body) definition. Unlike expressions, a definition parser that
// fails to recognize its leading keyword must still consume something
// (handled by the caller's forced-bump fallback in ParseProgram) so the
// parser always makes progress.
func (p *Parser) parseDefinition() NodeId {
	switch p.current().Kind {
	case lexer.KindFn:
		return p.parseFnDef()
	case lexer.KindStruct:
		return p.parseStructDef()
	case lexer.KindEnum:
		return p.parseEnumDef()
	case lexer.KindAlias:
		return p.parseAliasDef()
	case lexer.KindConcept:
		return p.parseConceptDef()
	case lexer.KindImpl:
		return p.parseImplDef()
	case lexer.KindModule:
		return p.parseModuleDef()
	case lexer.KindImport, lexer.KindExport:
		return p.parseImportDef()
	default:
		start := p.current().Range.Start
		p.doc.Report(source.Diagnostic{
			Severity: source.SeverityError,
			Message:  "expected a definition, but found " + p.current().Kind.String(),
			Range:    p.current().Range,
		})
		p.bump()
		return p.errorNode(p.rangeFrom(start))
	}
}

// parseTemplateParams parses an optional `[T, U]` template-parameter list
// preceding a definition's own parameter list, per spec.md §4.5's template
// parameter contract.
func (p *Parser) parseTemplateParams() []NodeId {
	if !p.check(lexer.KindLBracket) {
		return nil
	}
	p.bump()
	var params []NodeId
	for !p.check(lexer.KindRBracket) && !p.check(lexer.KindEOF) {
		start := p.current().Range.Start
		name, _ := p.expect(lexer.KindUpper)
		params = append(params, p.tree.Push(Node{Kind: KindTemplateParameter, Range: p.rangeFrom(start), Token: name, Text: name.Text(p.doc.Text)}))
		if _, ok := p.tryConsume(lexer.KindComma); !ok {
			break
		}
	}
	p.expect(lexer.KindRBracket)
	return params
}

func (p *Parser) parseParamList() []NodeId {
	p.expect(lexer.KindLParen)
	var params []NodeId
	for !p.check(lexer.KindRParen) && !p.check(lexer.KindEOF) {
		start := p.current().Range.Start
		name, _ := p.expect(lexer.KindLower)
		p.expect(lexer.KindColon)
		ty := p.parseType()
		var def NodeId
		hasDefault := false
		var eq OptToken
		if tok, ok := p.tryConsume(lexer.KindEquals); ok {
			eq = OptToken{Present: true, Token: tok}
			def = p.parseExpr()
			hasDefault = true
		}
		children := []NodeId{ty}
		if hasDefault {
			children = append(children, def)
		}
		params = append(params, p.tree.Push(Node{
			Kind: KindParameter, Range: p.rangeFrom(start), Token: name,
			Text: name.Text(p.doc.Text), Children: children, Aux: []OptToken{eq},
		}))
		if _, ok := p.tryConsume(lexer.KindComma); !ok {
			break
		}
	}
	p.expect(lexer.KindRParen)
	return params
}

// parseFnDef handles all three surface body forms spec.md §4.3 normalizes
// away: `fn f() = E`, `fn f() { E }`, and `fn f() = { E }`.
func (p *Parser) parseFnDef() NodeId {
	start := p.current().Range.Start
	p.bump() // fn
	name, _ := p.expect(lexer.KindLower)
	templateParams := p.parseTemplateParams()
	params := p.parseParamList()
	var ret NodeId
	hasRet := false
	if _, ok := p.tryConsume(lexer.KindArrowRight); ok {
		ret = p.parseType()
		hasRet = true
	}
	var body NodeId
	switch {
	case p.check(lexer.KindLBrace):
		body = p.parseBlock()
	case p.check(lexer.KindEquals):
		p.bump()
		if p.check(lexer.KindLBrace) {
			body = p.parseBlock()
		} else {
			body = p.parseExpr()
		}
	default:
		p.doc.Report(source.Diagnostic{
			Severity: source.SeverityError,
			Message:  "expected '=' or '{' to begin a function body",
			Range:    p.current().Range,
		})
		body = p.errorNode(p.current().Range)
	}
	children := append(append([]NodeId{}, templateParams...), params...)
	if hasRet {
		children = append(children, ret)
	}
	children = append(children, body)
	return p.tree.Push(Node{
		Kind: KindFnDef, Range: p.rangeFrom(start), Token: name, Text: name.Text(p.doc.Text),
		Children: children, Aux: []OptToken{{Present: hasRet}},
	})
}

func (p *Parser) parseStructDef() NodeId {
	start := p.current().Range.Start
	p.bump() // struct
	name, _ := p.expect(lexer.KindUpper)
	templateParams := p.parseTemplateParams()
	p.expect(lexer.KindLBrace)
	var fields []NodeId
	for !p.check(lexer.KindRBrace) && !p.check(lexer.KindEOF) {
		fstart := p.current().Range.Start
		fname, _ := p.expect(lexer.KindLower)
		p.expect(lexer.KindColon)
		ty := p.parseType()
		fields = append(fields, p.tree.Push(Node{Kind: KindFieldDef, Range: p.rangeFrom(fstart), Token: fname, Text: fname.Text(p.doc.Text), Children: []NodeId{ty}}))
		if _, ok := p.tryConsume(lexer.KindComma); !ok {
			break
		}
	}
	p.expect(lexer.KindRBrace)
	return p.tree.Push(Node{
		Kind: KindStructDef, Range: p.rangeFrom(start), Token: name, Text: name.Text(p.doc.Text),
		Children: append(templateParams, fields...),
	})
}

func (p *Parser) parseEnumDef() NodeId {
	start := p.current().Range.Start
	p.bump() // enum
	name, _ := p.expect(lexer.KindUpper)
	templateParams := p.parseTemplateParams()
	p.expect(lexer.KindLBrace)
	var cases []NodeId
	for !p.check(lexer.KindRBrace) && !p.check(lexer.KindEOF) {
		cstart := p.current().Range.Start
		cname, _ := p.expect(lexer.KindUpper)
		var payload []NodeId
		if p.check(lexer.KindLParen) {
			p.bump()
			for !p.check(lexer.KindRParen) && !p.check(lexer.KindEOF) {
				payload = append(payload, p.parseType())
				if _, ok := p.tryConsume(lexer.KindComma); !ok {
					break
				}
			}
			p.expect(lexer.KindRParen)
		}
		cases = append(cases, p.tree.Push(Node{Kind: KindEnumCaseDef, Range: p.rangeFrom(cstart), Token: cname, Text: cname.Text(p.doc.Text), Children: payload}))
		if _, ok := p.tryConsume(lexer.KindComma); !ok {
			break
		}
	}
	p.expect(lexer.KindRBrace)
	return p.tree.Push(Node{
		Kind: KindEnumDef, Range: p.rangeFrom(start), Token: name, Text: name.Text(p.doc.Text),
		Children: append(templateParams, cases...),
	})
}

func (p *Parser) parseAliasDef() NodeId {
	start := p.current().Range.Start
	p.bump() // alias
	name, _ := p.expect(lexer.KindUpper)
	templateParams := p.parseTemplateParams()
	p.expect(lexer.KindEquals)
	ty := p.parseType()
	return p.tree.Push(Node{
		Kind: KindAliasDef, Range: p.rangeFrom(start), Token: name, Text: name.Text(p.doc.Text),
		Children: append(templateParams, ty),
	})
}

func (p *Parser) parseConceptDef() NodeId {
	start := p.current().Range.Start
	p.bump() // concept
	name, _ := p.expect(lexer.KindUpper)
	p.expect(lexer.KindLBrace)
	var sigs []NodeId
	for !p.check(lexer.KindRBrace) && !p.check(lexer.KindEOF) {
		if p.check(lexer.KindFn) {
			sigs = append(sigs, p.parseFnSignatureOnly())
		} else {
			p.bump()
		}
	}
	p.expect(lexer.KindRBrace)
	return p.tree.Push(Node{Kind: KindConceptDef, Range: p.rangeFrom(start), Token: name, Text: name.Text(p.doc.Text), Children: sigs})
}

func (p *Parser) parseFnSignatureOnly() NodeId {
	start := p.current().Range.Start
	p.bump() // fn
	name, _ := p.expect(lexer.KindLower)
	params := p.parseParamList()
	var ret NodeId
	hasRet := false
	if _, ok := p.tryConsume(lexer.KindArrowRight); ok {
		ret = p.parseType()
		hasRet = true
	}
	p.tryConsume(lexer.KindSemicolon)
	children := params
	if hasRet {
		children = append(children, ret)
	}
	return p.tree.Push(Node{Kind: KindFnDef, Range: p.rangeFrom(start), Token: name, Text: name.Text(p.doc.Text), Children: children})
}

func (p *Parser) parseImplDef() NodeId {
	start := p.current().Range.Start
	p.bump() // impl
	templateParams := p.parseTemplateParams()
	selfType := p.parseType()
	p.expect(lexer.KindLBrace)
	var members []NodeId
	for !p.check(lexer.KindRBrace) && !p.check(lexer.KindEOF) {
		if p.check(lexer.KindFn) {
			members = append(members, p.parseFnDef())
		} else {
			p.bump()
		}
	}
	p.expect(lexer.KindRBrace)
	return p.tree.Push(Node{
		Kind: KindImplDef, Range: p.rangeFrom(start),
		Children: append(append(templateParams, selfType), members...),
	})
}

func (p *Parser) parseModuleDef() NodeId {
	start := p.current().Range.Start
	p.bump() // module
	name, _ := p.expect(lexer.KindLower)
	p.expect(lexer.KindLBrace)
	var defs []NodeId
	for !p.check(lexer.KindRBrace) && !p.check(lexer.KindEOF) {
		before := p.mark()
		defs = append(defs, p.parseDefinition())
		if p.mark() == before {
			p.bump()
		}
	}
	p.expect(lexer.KindRBrace)
	return p.tree.Push(Node{Kind: KindModuleDef, Range: p.rangeFrom(start), Token: name, Text: name.Text(p.doc.Text), Children: defs})
}

func (p *Parser) parseImportDef() NodeId {
	start := p.current().Range.Start
	exported := p.check(lexer.KindExport)
	p.bump() // import / export
	if exported {
		p.expect(lexer.KindImport)
	}
	var segments []NodeId
	for {
		tok := p.current()
		if tok.Kind != lexer.KindLower && tok.Kind != lexer.KindUpper {
			break
		}
		p.bump()
		segments = append(segments, p.tree.Push(Node{Kind: KindPathExpr, Range: tok.Range, Token: tok, Text: tok.Text(p.doc.Text)}))
		if _, ok := p.tryConsume(lexer.KindColonColon); !ok {
			break
		}
	}
	p.tryConsume(lexer.KindSemicolon)
	text := ""
	if exported {
		text = "export"
	}
	return p.tree.Push(Node{Kind: KindImportDef, Range: p.rangeFrom(start), Text: text, Children: segments})
}
