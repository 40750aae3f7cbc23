package cst

import (
	"github.com/kieli-lang/kieli/internal/lexer"
	"github.com/kieli-lang/kieli/internal/source"
)

// precedenceClass implements spec.md §6.3: operators are grouped into six
// fixed classes by the first glyph of their spelling, from lowest (0,
// assignment) to highest (5, multiplicative) binding power. There is no
// user-defined precedence; unrecognized glyphs fall into the lowest class.
func precedenceClass(tok lexer.Token, text string) (class int, isBinaryOp bool) {
	switch tok.Kind {
	case lexer.KindColon: // `:=` lexes as KindOp with text ":="; KindColon alone is a type annotation, not an operator
		return 0, false
	}
	if tok.Kind != lexer.KindOp && tok.Kind != lexer.KindPlus && tok.Kind != lexer.KindStar &&
		tok.Kind != lexer.KindAmp && tok.Kind != lexer.KindPipe && tok.Kind != lexer.KindBang &&
		tok.Kind != lexer.KindQuestion {
		return 0, false
	}
	if text == "" {
		return 0, false
	}
	switch text[0] {
	case ':': // `:=`, `+=`, ... all retokenize with a leading char other than ':' except `:=`
		if text == ":=" {
			return 0, true
		}
		return 0, false
	case '&', '|':
		if text == "&&" || text == "||" {
			return 1, true
		}
	case '<', '>':
		return 2, true
	case '?', '!':
		if text == "?=" || text == "!=" {
			return 3, true
		}
	case '+', '-':
		if text == "+=" || text == "-=" {
			return 0, true
		}
		return 4, true
	case '*', '/', '%':
		if text == "*=" || text == "/=" || text == "%=" {
			return 0, true
		}
		return 5, true
	}
	return 0, true
}

const maxPrecedenceClass = 5

// parseExpr parses a full expression, starting precedence climbing at the
// lowest class (assignment).
func (p *Parser) parseExpr() NodeId {
	return p.parseBinary(0)
}

// parseBinary implements left-associative precedence climbing over the
// fixed classes: parse one operand at class+1, then fold in every operator
// at exactly this class, recursing to class+1 for each right-hand operand.
func (p *Parser) parseBinary(class int) NodeId {
	if class > maxPrecedenceClass {
		return p.parseUnary()
	}
	lhs := p.parseBinary(class + 1)
	for {
		tok := p.current()
		text := tok.Text(p.doc.Text)
		opClass, isOp := precedenceClass(tok, text)
		if !isOp || opClass != class {
			return lhs
		}
		p.bump()
		rhs := p.parseBinary(class + 1)
		start := p.tree.Get(lhs).Range.Start
		kind := KindBinaryExpr
		if class == 0 {
			kind = KindAssignExpr
		}
		lhs = p.tree.Push(Node{
			Kind:     kind,
			Range:    p.rangeFrom(start),
			Token:    tok,
			Text:     text,
			Children: []NodeId{lhs, rhs},
		})
	}
}

func (p *Parser) parseUnary() NodeId {
	start := p.current().Range.Start
	switch p.current().Kind {
	case lexer.KindBang, lexer.KindAmp, lexer.KindStar:
		tok := p.bump()
		operand := p.parseUnary()
		kind := KindUnaryExpr
		switch tok.Kind {
		case lexer.KindAmp:
			kind = KindReferenceExpr
		case lexer.KindStar:
			kind = KindDerefExpr
		}
		return p.tree.Push(Node{Kind: kind, Range: p.rangeFrom(start), Token: tok, Text: tok.Text(p.doc.Text), Children: []NodeId{operand}})
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() NodeId {
	expr := p.parsePrimary()
	for {
		start := p.tree.Get(expr).Range.Start
		switch p.current().Kind {
		case lexer.KindDot:
			p.bump()
			name, _ := p.expect(lexer.KindLower)
			if p.check(lexer.KindLParen) {
				args := p.parseArgList()
				expr = p.tree.Push(Node{
					Kind: KindMethodCallExpr, Range: p.rangeFrom(start), Token: name, Text: name.Text(p.doc.Text),
					Children: append([]NodeId{expr}, args...),
				})
			} else {
				expr = p.tree.Push(Node{Kind: KindFieldExpr, Range: p.rangeFrom(start), Token: name, Text: name.Text(p.doc.Text), Children: []NodeId{expr}})
			}
		case lexer.KindLParen:
			args := p.parseArgList()
			expr = p.tree.Push(Node{Kind: KindCallExpr, Range: p.rangeFrom(start), Children: append([]NodeId{expr}, args...)})
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgList() []NodeId {
	p.expect(lexer.KindLParen)
	var args []NodeId
	for !p.check(lexer.KindRParen) && !p.check(lexer.KindEOF) {
		args = append(args, p.parseExpr())
		if _, ok := p.tryConsume(lexer.KindComma); !ok {
			break
		}
	}
	p.expect(lexer.KindRParen)
	return args
}

func (p *Parser) parsePrimary() NodeId {
	start := p.current().Range.Start
	tok := p.current()
	switch tok.Kind {
	case lexer.KindInteger:
		p.bump()
		return p.tree.Push(Node{Kind: KindIntLiteral, Range: p.rangeFrom(start), Token: tok, Text: tok.Text(p.doc.Text)})
	case lexer.KindFloat:
		p.bump()
		return p.tree.Push(Node{Kind: KindFloatLiteral, Range: p.rangeFrom(start), Token: tok, Text: tok.Text(p.doc.Text)})
	case lexer.KindString:
		p.bump()
		return p.tree.Push(Node{Kind: KindStringLiteral, Range: p.rangeFrom(start), Token: tok, Text: tok.Text(p.doc.Text)})
	case lexer.KindChar:
		p.bump()
		return p.tree.Push(Node{Kind: KindCharLiteral, Range: p.rangeFrom(start), Token: tok, Text: tok.Text(p.doc.Text)})
	case lexer.KindBool:
		p.bump()
		return p.tree.Push(Node{Kind: KindBoolLiteral, Range: p.rangeFrom(start), Token: tok, Text: tok.Text(p.doc.Text)})
	case lexer.KindUnderscore:
		p.bump()
		return p.tree.Push(Node{Kind: KindUnderscoreExpr, Range: p.rangeFrom(start), Token: tok})
	case lexer.KindLower, lexer.KindUpper, lexer.KindGlobal:
		return p.parsePathExpr()
	case lexer.KindLParen:
		return p.parseParenOrTuple()
	case lexer.KindLBrace:
		return p.parseBlock()
	case lexer.KindIf:
		return p.parseIf()
	case lexer.KindWhile:
		return p.parseWhile()
	case lexer.KindLoop:
		return p.parseLoop()
	case lexer.KindMatch:
		return p.parseMatch()
	case lexer.KindLet:
		return p.parseLet()
	case lexer.KindBreak:
		p.bump()
		var children []NodeId
		if !p.startsExprEnd() {
			children = []NodeId{p.parseExpr()}
		}
		return p.tree.Push(Node{Kind: KindBreakExpr, Range: p.rangeFrom(start), Children: children})
	case lexer.KindContinue:
		p.bump()
		return p.tree.Push(Node{Kind: KindContinueExpr, Range: p.rangeFrom(start)})
	case lexer.KindRet:
		p.bump()
		var children []NodeId
		if !p.startsExprEnd() {
			children = []NodeId{p.parseExpr()}
		}
		return p.tree.Push(Node{Kind: KindReturnExpr, Range: p.rangeFrom(start), Children: children})
	case lexer.KindTypeof:
		p.bump()
		p.expect(lexer.KindLParen)
		inner := p.parseExpr()
		p.expect(lexer.KindRParen)
		return p.tree.Push(Node{Kind: KindTypeofExpr, Range: p.rangeFrom(start), Children: []NodeId{inner}})
	case lexer.KindSizeof:
		p.bump()
		p.expect(lexer.KindLParen)
		ty := p.parseType()
		p.expect(lexer.KindRParen)
		return p.tree.Push(Node{Kind: KindSizeofExpr, Range: p.rangeFrom(start), Children: []NodeId{ty}})
	default:
		p.doc.Report(source.Diagnostic{
			Severity: source.SeverityError,
			Message:  "expected an expression, but found " + tok.Kind.String(),
			Range:    tok.Range,
		})
		p.bump()
		return p.errorNode(p.rangeFrom(start))
	}
}

// startsExprEnd reports whether the current token cannot begin an
// expression, so `break`/`ret` without an operand are parsed correctly.
func (p *Parser) startsExprEnd() bool {
	switch p.current().Kind {
	case lexer.KindSemicolon, lexer.KindRBrace, lexer.KindRParen, lexer.KindComma, lexer.KindEOF:
		return true
	default:
		return false
	}
}

// parsePathExpr parses `global::`? segment (`::` segment)*, rooted
// optionally in `global::` per spec.md §4.4's path-resolution contract.
func (p *Parser) parsePathExpr() NodeId {
	start := p.current().Range.Start
	var children []NodeId
	if tok, ok := p.tryConsume(lexer.KindGlobal); ok {
		p.expect(lexer.KindColonColon)
		children = append(children, p.tree.Push(Node{Kind: KindPathExpr, Range: tok.Range, Token: tok, Text: "global"}))
	}
	for {
		tok := p.current()
		if tok.Kind != lexer.KindLower && tok.Kind != lexer.KindUpper {
			break
		}
		p.bump()
		children = append(children, p.tree.Push(Node{Kind: KindPathExpr, Range: tok.Range, Token: tok, Text: tok.Text(p.doc.Text)}))
		if _, ok := p.tryConsume(lexer.KindColonColon); !ok {
			break
		}
	}
	return p.tree.Push(Node{Kind: KindPathExpr, Range: p.rangeFrom(start), Children: children})
}

func (p *Parser) parseParenOrTuple() NodeId {
	start := p.current().Range.Start
	p.bump() // (
	if _, ok := p.tryConsume(lexer.KindRParen); ok {
		return p.tree.Push(Node{Kind: KindTupleExpr, Range: p.rangeFrom(start)})
	}
	first := p.parseExpr()
	if _, ok := p.tryConsume(lexer.KindComma); !ok {
		p.expect(lexer.KindRParen)
		return p.tree.Push(Node{Kind: KindParenExpr, Range: p.rangeFrom(start), Children: []NodeId{first}})
	}
	elems := []NodeId{first}
	for !p.check(lexer.KindRParen) && !p.check(lexer.KindEOF) {
		elems = append(elems, p.parseExpr())
		if _, ok := p.tryConsume(lexer.KindComma); !ok {
			break
		}
	}
	p.expect(lexer.KindRParen)
	return p.tree.Push(Node{Kind: KindTupleExpr, Range: p.rangeFrom(start), Children: elems})
}

func (p *Parser) parseBlock() NodeId {
	start := p.current().Range.Start
	p.expect(lexer.KindLBrace)
	var stmts []NodeId
	for !p.check(lexer.KindRBrace) && !p.check(lexer.KindEOF) {
		stmts = append(stmts, p.parseExpr())
		if _, ok := p.tryConsume(lexer.KindSemicolon); !ok {
			break
		}
	}
	p.expect(lexer.KindRBrace)
	return p.tree.Push(Node{Kind: KindBlockExpr, Range: p.rangeFrom(start), Children: stmts})
}

// parseIf handles both `if C { T } [else ...]` and `if let P = E { T }
// [else ...]`, per spec.md §4.3's two surface forms; the desugarer (not
// this parser) is responsible for normalizing them.
func (p *Parser) parseIf() NodeId {
	start := p.current().Range.Start
	p.bump() // if
	if _, ok := p.tryConsume(lexer.KindLet); ok {
		pat := p.parsePattern()
		p.expect(lexer.KindEquals)
		value := p.parseExpr()
		then := p.parseBlock()
		children := []NodeId{pat, value, then}
		if _, ok := p.tryConsume(lexer.KindElse); ok {
			children = append(children, p.parseElseBody())
		}
		return p.tree.Push(Node{Kind: KindIfLetExpr, Range: p.rangeFrom(start), Children: children})
	}
	cond := p.parseExpr()
	then := p.parseBlock()
	children := []NodeId{cond, then}
	if _, ok := p.tryConsume(lexer.KindElse); ok {
		children = append(children, p.parseElseBody())
	} else if _, ok := p.tryConsume(lexer.KindElif); ok {
		children = append(children, p.parseElifChain())
	}
	return p.tree.Push(Node{Kind: KindIfExpr, Range: p.rangeFrom(start), Children: children})
}

func (p *Parser) parseElseBody() NodeId {
	if p.check(lexer.KindIf) {
		return p.parseIf()
	}
	return p.parseBlock()
}

func (p *Parser) parseElifChain() NodeId {
	// `elif` is sugar the lexer still tokenizes distinctly; re-present it
	// to parseIf uniformly as a nested if so the desugarer's elif rule
	// (spec.md §4.3, "no elif" in the AST) has a single CST shape to rewrite.
	start := p.current().Range.Start
	cond := p.parseExpr()
	then := p.parseBlock()
	children := []NodeId{cond, then}
	if _, ok := p.tryConsume(lexer.KindElse); ok {
		children = append(children, p.parseElseBody())
	} else if _, ok := p.tryConsume(lexer.KindElif); ok {
		children = append(children, p.parseElifChain())
	}
	return p.tree.Push(Node{Kind: KindIfExpr, Range: p.rangeFrom(start), Children: children})
}

func (p *Parser) parseWhile() NodeId {
	start := p.current().Range.Start
	p.bump() // while
	if _, ok := p.tryConsume(lexer.KindLet); ok {
		pat := p.parsePattern()
		p.expect(lexer.KindEquals)
		value := p.parseExpr()
		body := p.parseBlock()
		return p.tree.Push(Node{Kind: KindWhileLetExpr, Range: p.rangeFrom(start), Children: []NodeId{pat, value, body}})
	}
	cond := p.parseExpr()
	body := p.parseBlock()
	return p.tree.Push(Node{Kind: KindWhileExpr, Range: p.rangeFrom(start), Children: []NodeId{cond, body}})
}

func (p *Parser) parseLoop() NodeId {
	start := p.current().Range.Start
	p.bump() // loop
	body := p.parseBlock()
	return p.tree.Push(Node{Kind: KindLoopExpr, Range: p.rangeFrom(start), Children: []NodeId{body}})
}

func (p *Parser) parseMatch() NodeId {
	start := p.current().Range.Start
	p.bump() // match
	subject := p.parseExpr()
	p.expect(lexer.KindLBrace)
	arms := []NodeId{subject}
	for !p.check(lexer.KindRBrace) && !p.check(lexer.KindEOF) {
		armStart := p.current().Range.Start
		pat := p.parseMatchPatternList()
		p.expect(lexer.KindArrowRight)
		body := p.parseExpr()
		arms = append(arms, p.tree.Push(Node{Kind: KindMatchArm, Range: p.rangeFrom(armStart), Children: []NodeId{pat, body}}))
		if _, ok := p.tryConsume(lexer.KindComma); !ok {
			break
		}
	}
	p.expect(lexer.KindRBrace)
	return p.tree.Push(Node{Kind: KindMatchExpr, Range: p.rangeFrom(start), Children: arms})
}

// parseMatchPatternList handles the `p, q -> ...` comma-tuple-pattern
// surface form (spec.md §4.3's desugaring table entry "match case tuple
// pattern commas"); the desugarer turns a multi-pattern arm into a single
// tuple pattern.
func (p *Parser) parseMatchPatternList() NodeId {
	start := p.current().Range.Start
	first := p.parsePattern()
	if !p.check(lexer.KindComma) {
		return first
	}
	pats := []NodeId{first}
	for {
		if _, ok := p.tryConsume(lexer.KindComma); !ok {
			break
		}
		if p.check(lexer.KindArrowRight) {
			break
		}
		pats = append(pats, p.parsePattern())
	}
	return p.tree.Push(Node{Kind: KindTuplePattern, Range: p.rangeFrom(start), Children: pats})
}

// parseLet handles `let p [: T] = e` and the sugared implicit tuple form
// `let a, b = e` (spec.md §4.3).
func (p *Parser) parseLet() NodeId {
	start := p.current().Range.Start
	p.bump() // let
	first := p.parsePattern()
	var pats []NodeId
	for {
		if _, ok := p.tryConsume(lexer.KindComma); !ok {
			break
		}
		pats = append(pats, p.parsePattern())
	}
	var colon OptToken
	var tyID NodeId
	hasType := false
	if tok, ok := p.tryConsume(lexer.KindColon); ok {
		colon = OptToken{Present: true, Token: tok}
		tyID = p.parseType()
		hasType = true
	}
	p.expect(lexer.KindEquals)
	value := p.parseExpr()

	pattern := first
	if len(pats) > 0 {
		pattern = p.tree.Push(Node{
			Kind: KindTuplePattern, Range: p.rangeFrom(start),
			Children: append([]NodeId{first}, pats...),
		})
	}
	children := []NodeId{pattern}
	if hasType {
		children = append(children, tyID)
	}
	children = append(children, value)
	return p.tree.Push(Node{Kind: KindLetExpr, Range: p.rangeFrom(start), Aux: []OptToken{colon}, Children: children})
}
