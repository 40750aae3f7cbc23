package resolve

import (
	"fmt"
	"strings"

	"github.com/kieli-lang/kieli/internal/ast"
	"github.com/kieli-lang/kieli/internal/hir"
	"github.com/kieli-lang/kieli/internal/source"
	"github.com/kieli-lang/kieli/internal/types"
)

// inferCtx threads the state InferExpr's recursion needs but its public
// signature can't carry: the nearest enclosing loop's break-type
// accumulator (for `break`, spec.md §4.5 "loop/break") and the enclosing
// function's declared return type (for `ret`). Go has no dynamic scoping,
// so these travel as explicit pointers rather than being looked up.
type inferCtx struct {
	scope      hir.ScopeId
	env        hir.EnvironmentId
	loopBreak  *hir.TypeId
	funcReturn *hir.TypeId
}

// InferExpr resolves and infers the type of a desugared expression,
// component H's entry point as seen from component G (spec.md §2, §4.5).
// Used for expressions that aren't a function's own body (array lengths,
// typeof operands, impl self types); resolveFunction calls
// InferFunctionBody instead so `ret` has something to unify against.
func InferExpr(u *Unit, scopeId hir.ScopeId, envId hir.EnvironmentId, id ast.ExprId) (hir.ExprId, hir.TypeId) {
	return inferExpr(u, inferCtx{scope: scopeId, env: envId}, id)
}

// InferFunctionBody is InferExpr specialized for a function body: ret
// unifies against returnSlot in place.
func InferFunctionBody(u *Unit, scopeId hir.ScopeId, envId hir.EnvironmentId, id ast.ExprId, returnSlot *hir.TypeId) (hir.ExprId, hir.TypeId) {
	return inferExpr(u, inferCtx{scope: scopeId, env: envId, funcReturn: returnSlot}, id)
}

func unitType(u *Unit) hir.TypeId { return u.HIR.PushType(hir.TupleType{}) }

// unify wraps types.Unify, reporting a failure as a diagnostic at rng and
// continuing with whatever TypeId it returned (the error type on failure,
// per spec.md §4.5 "mismatches emit a diagnostic; the expression acquires
// the error type but resolution continues").
func unify(u *Unit, rng source.Range, a, b hir.TypeId, what string) hir.TypeId {
	t, err := types.Unify(u.HIR, a, b)
	if err != nil {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("%s: %s", what, err.Error()), Range: rng})
	}
	return t
}

func reportUnusedIn(u *Unit, scope *hir.Scope) {
	for _, w := range hir.ReportUnused(scope) {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityWarning, Message: fmt.Sprintf("unused name: %s (prefix with _ if intentional)", w.Name), Range: w.Range})
	}
}

func inferExpr(u *Unit, ctx inferCtx, id ast.ExprId) (hir.ExprId, hir.TypeId) {
	n := u.AST.Expr(id)
	rng := n.Range()
	switch e := n.(type) {
	case ast.IntLiteral:
		t := u.HIR.FreshType(hir.KindIntegral)
		return u.HIR.PushExpr(hir.IntLiteral{Base: hir.Base{R: rng, T: t}, Text: e.Text}), t
	case ast.FloatLiteral:
		t := u.HIR.PushType(hir.FloatingType{})
		return u.HIR.PushExpr(hir.FloatLiteral{Base: hir.Base{R: rng, T: t}, Text: e.Text}), t
	case ast.StringLiteral:
		t := u.HIR.PushType(hir.StringType{})
		return u.HIR.PushExpr(hir.StringLiteral{Base: hir.Base{R: rng, T: t}, Value: unquote(e.Text)}), t
	case ast.CharLiteral:
		t := u.HIR.PushType(hir.CharacterType{})
		return u.HIR.PushExpr(hir.CharLiteral{Base: hir.Base{R: rng, T: t}, Value: firstRune(unquote(e.Text))}), t
	case ast.BoolLiteral:
		t := u.HIR.PushType(hir.BooleanType{})
		return u.HIR.PushExpr(hir.BoolLiteral{Base: hir.Base{R: rng, T: t}, Value: e.Value}), t
	case ast.PathExpr:
		return inferPath(u, ctx, e, rng)
	case ast.TupleExpr:
		elems := make([]hir.ExprId, len(e.Elements))
		elemTypes := make([]hir.TypeId, len(e.Elements))
		for i, el := range e.Elements {
			elems[i], elemTypes[i] = inferExpr(u, ctx, el)
		}
		t := u.HIR.PushType(hir.TupleType{Elements: elemTypes})
		return u.HIR.PushExpr(hir.TupleExpr{Base: hir.Base{R: rng, T: t}, Elements: elems}), t
	case ast.BlockExpr:
		return inferBlock(u, ctx, e, rng)
	case ast.UnaryExpr:
		return inferUnary(u, ctx, e, rng)
	case ast.ReferenceExpr:
		mut := resolveMutability(u, ctx.scope, e.Mutability)
		operand, opType := inferExpr(u, ctx, e.Operand)
		t := u.HIR.PushType(hir.ReferenceType{Mutability: mut, Referenced: opType})
		return u.HIR.PushExpr(hir.ReferenceExpr{Base: hir.Base{R: rng, T: t}, Mutability: mut, Operand: operand}), t
	case ast.DerefExpr:
		return inferDeref(u, ctx, e, rng)
	case ast.BinaryExpr:
		return inferBinary(u, ctx, e, rng)
	case ast.AssignExpr:
		return inferAssign(u, ctx, e, rng)
	case ast.CallExpr:
		return inferCall(u, ctx, e, rng)
	case ast.MethodCallExpr:
		return inferMethodCall(u, ctx, e, rng)
	case ast.FieldExpr:
		return inferField(u, ctx, e, rng)
	case ast.IfExpr:
		return inferIf(u, ctx, e, rng)
	case ast.LoopExpr:
		return inferLoop(u, ctx, e, rng)
	case ast.BreakExpr:
		return inferBreak(u, ctx, e, rng)
	case ast.ContinueExpr:
		t := u.HIR.FreshType(hir.KindGeneral)
		return u.HIR.PushExpr(hir.ContinueExpr{Base: hir.Base{R: rng, T: t}}), t
	case ast.ReturnExpr:
		return inferReturn(u, ctx, e, rng)
	case ast.MatchExpr:
		return inferMatch(u, ctx, e, rng)
	case ast.LetExpr:
		return inferLet(u, ctx, e, rng)
	case ast.TypeofExpr:
		// typeof(E) as a value (rather than as a type annotation, handled by
		// resolveType's ast.TypeofType case) only ever appears as the root
		// of a further path per spec.md; the desugared PathExpr has no slot
		// for that root, so the best this resolver can do today is reify
		// E's own resolved type as this expression's type.
		childScope := u.HIR.NewScope(u.Doc.ID, ctx.scope, true)
		childCtx := ctx
		childCtx.scope = childScope
		_, innerType := inferExpr(u, childCtx, e.Inner)
		return u.HIR.PushExpr(hir.ErrorExpr{Base: hir.Base{R: rng, T: innerType}}), innerType
	case ast.SizeofExpr:
		of := resolveType(u, ctx.scope, ctx.env, e.Inner)
		t := u.HIR.PushType(hir.IntegerType{Bits: 64, Signed: false})
		return u.HIR.PushExpr(hir.SizeofExpr{Base: hir.Base{R: rng, T: t}, Of: of}), t
	default:
		t := u.HIR.PushType(hir.ErrorType{})
		return u.HIR.PushExpr(hir.ErrorExpr{Base: hir.Base{R: rng, T: t}}), t
	}
}

func unquote(text string) string {
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func inferPath(u *Unit, ctx inferCtx, e ast.PathExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	res, ok := ResolveValuePath(u, ctx.scope, true, ctx.env, e.Global, e.Segments, rng)
	if !ok {
		t := u.HIR.PushType(hir.ErrorType{})
		return u.HIR.PushExpr(hir.ErrorExpr{Base: hir.Base{R: rng, T: t}}), t
	}
	if res.IsLocal {
		t := u.HIR.LocalVariable(res.Local).Type
		return u.HIR.PushExpr(hir.VariableReference{Base: hir.Base{R: rng, T: t}, Local: res.Local}), t
	}
	t := symbolType(u, res.Symbol, rng)
	return u.HIR.PushExpr(hir.SymbolReference{Base: hir.Base{R: rng, T: t}, Symbol: res.Symbol}), t
}

// symbolType computes the value type of a resolved document-level symbol,
// instantiating any template parameters (function or enumeration) with a
// fresh substitution per reference, per spec.md §4.5.
func symbolType(u *Unit, sym hir.Symbol, rng source.Range) hir.TypeId {
	switch sym.Kind {
	case hir.SymbolFunction:
		resolveFunction(u, sym.FunctionId())
		info := u.HIR.Function(sym.FunctionId())
		all := append(append([]hir.TemplateParameterInfo{}, info.OuterTemplate...), info.Template...)
		subst, _ := freshSubst(u, all)
		params := make([]hir.TypeId, len(info.Params))
		for i, p := range info.Params {
			params[i] = substituteType(u, p.Type, subst)
		}
		ret := substituteType(u, info.Return, subst)
		return u.HIR.PushType(hir.FunctionType{Params: params, Return: ret})
	case hir.SymbolEnumeration:
		resolveEnumeration(u, sym.EnumerationId())
		info := u.HIR.Enumeration(sym.EnumerationId())
		if len(info.Cases) != 1 {
			u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("%q has more than one case; select one with '::'", info.Name), Range: rng})
			return u.HIR.PushType(hir.ErrorType{})
		}
		return caseType(u, sym.EnumerationId(), 0)
	case hir.SymbolEnumerationCase:
		id, idx := sym.EnumerationCase()
		return caseType(u, id, idx)
	default:
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: "not a value", Range: rng})
		return u.HIR.PushType(hir.ErrorType{})
	}
}

func inferBlock(u *Unit, ctx inferCtx, e ast.BlockExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	childScope := u.HIR.NewScope(u.Doc.ID, ctx.scope, true)
	inner := ctx
	inner.scope = childScope

	stmts := make([]hir.ExprId, len(e.Statements))
	tail := unitType(u)
	for i, s := range e.Statements {
		stmts[i], tail = inferExpr(u, inner, s)
	}
	reportUnusedIn(u, u.HIR.Scope(childScope))
	return u.HIR.PushExpr(hir.BlockExpr{Base: hir.Base{R: rng, T: tail}, Statements: stmts}), tail
}

func inferUnary(u *Unit, ctx inferCtx, e ast.UnaryExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	operand, opType := inferExpr(u, ctx, e.Operand)
	t := opType
	if e.Op == "!" {
		t = unify(u, rng, opType, u.HIR.PushType(hir.BooleanType{}), "unary !")
	}
	return u.HIR.PushExpr(hir.UnaryExpr{Base: hir.Base{R: rng, T: t}, Op: e.Op, Operand: operand}), t
}

func inferDeref(u *Unit, ctx inferCtx, e ast.DerefExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	operand, opType := inferExpr(u, ctx, e.Operand)
	flat := types.Flatten(u.HIR, opType)
	var t hir.TypeId
	switch rt := u.HIR.Type(flat).(type) {
	case hir.ReferenceType:
		t = rt.Referenced
	case hir.PointerType:
		t = rt.Pointee
	default:
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: "cannot dereference a non-reference, non-pointer type", Range: rng})
		t = u.HIR.PushType(hir.ErrorType{})
	}
	return u.HIR.PushExpr(hir.DerefExpr{Base: hir.Base{R: rng, T: t}, Operand: operand}), t
}

// inferBinary groups the result type by spec.md §6.3's operator classes:
// logical and comparison operators always produce Boolean; everything else
// (arithmetic, and any user-defined free operator) unifies both operands
// into one shared result type.
func inferBinary(u *Unit, ctx inferCtx, e ast.BinaryExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	left, leftType := inferExpr(u, ctx, e.Left)
	right, rightType := inferExpr(u, ctx, e.Right)

	switch {
	case strings.HasPrefix(e.Op, "&&") || strings.HasPrefix(e.Op, "||"):
		boolType := u.HIR.PushType(hir.BooleanType{})
		unify(u, rng, leftType, boolType, "logical operand")
		unify(u, rng, rightType, boolType, "logical operand")
		return u.HIR.PushExpr(hir.BinaryExpr{Base: hir.Base{R: rng, T: boolType}, Op: e.Op, Left: left, Right: right}), boolType
	case strings.HasPrefix(e.Op, "<") || strings.HasPrefix(e.Op, ">") || strings.HasPrefix(e.Op, "?=") || strings.HasPrefix(e.Op, "!="):
		unify(u, rng, leftType, rightType, "comparison operands")
		boolType := u.HIR.PushType(hir.BooleanType{})
		return u.HIR.PushExpr(hir.BinaryExpr{Base: hir.Base{R: rng, T: boolType}, Op: e.Op, Left: left, Right: right}), boolType
	default:
		t := unify(u, rng, leftType, rightType, "binary operands")
		return u.HIR.PushExpr(hir.BinaryExpr{Base: hir.Base{R: rng, T: t}, Op: e.Op, Left: left, Right: right}), t
	}
}

func inferAssign(u *Unit, ctx inferCtx, e ast.AssignExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	left, leftType := inferExpr(u, ctx, e.Left)
	right, rightType := inferExpr(u, ctx, e.Right)
	unify(u, rng, leftType, rightType, "assignment")
	t := unitType(u)
	return u.HIR.PushExpr(hir.AssignExpr{Base: hir.Base{R: rng, T: t}, Op: e.Op, Left: left, Right: right}), t
}

func inferCall(u *Unit, ctx inferCtx, e ast.CallExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	callee, calleeType := inferExpr(u, ctx, e.Callee)
	args := make([]hir.ExprId, len(e.Args))
	argTypes := make([]hir.TypeId, len(e.Args))
	for i, a := range e.Args {
		args[i], argTypes[i] = inferExpr(u, ctx, a)
	}

	flat := types.Flatten(u.HIR, calleeType)
	ft, ok := u.HIR.Type(flat).(hir.FunctionType)
	if !ok || len(ft.Params) != len(args) {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: "value is not callable with this many arguments", Range: rng})
		t := u.HIR.PushType(hir.ErrorType{})
		return u.HIR.PushExpr(hir.CallExpr{Base: hir.Base{R: rng, T: t}, Callee: callee, Args: args}), t
	}
	for i := range args {
		unify(u, rng, ft.Params[i], argTypes[i], "argument type")
	}
	return u.HIR.PushExpr(hir.CallExpr{Base: hir.Base{R: rng, T: ft.Return}, Callee: callee, Args: args}), ft.Return
}

// inferMethodCall rewrites a.f(args) into an ordinary CallExpr over a
// resolved SymbolReference, treating the receiver as the method's implicit
// first parameter; per tree.go's MethodCallExpr doc comment this is the
// only route by which a resolved method call reaches HIR.
func inferMethodCall(u *Unit, ctx inferCtx, e ast.MethodCallExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	receiver, receiverType := inferExpr(u, ctx, e.Receiver)

	methodId, ok := lookupMethod(u, receiverType, e.Name, rng)
	if !ok {
		t := u.HIR.PushType(hir.ErrorType{})
		return u.HIR.PushExpr(hir.MethodCallExpr{Base: hir.Base{R: rng, T: t}, Receiver: receiver, Name: e.Name}), t
	}

	methodSym := hir.Symbol{Kind: hir.SymbolFunction, Index: uint32(methodId)}
	calleeType := symbolType(u, methodSym, rng)
	callee := u.HIR.PushExpr(hir.SymbolReference{Base: hir.Base{R: rng, T: calleeType}, Symbol: methodSym})

	args := make([]hir.ExprId, len(e.Args)+1)
	argTypes := make([]hir.TypeId, len(e.Args)+1)
	args[0], argTypes[0] = receiver, receiverType
	for i, a := range e.Args {
		args[i+1], argTypes[i+1] = inferExpr(u, ctx, a)
	}

	flat := types.Flatten(u.HIR, calleeType)
	ft, ok := u.HIR.Type(flat).(hir.FunctionType)
	if !ok || len(ft.Params) != len(args) {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("method %q called with the wrong number of arguments", e.Name), Range: rng})
		t := u.HIR.PushType(hir.ErrorType{})
		return u.HIR.PushExpr(hir.CallExpr{Base: hir.Base{R: rng, T: t}, Callee: callee, Args: args}), t
	}
	for i := range args {
		unify(u, rng, ft.Params[i], argTypes[i], "method argument")
	}
	return u.HIR.PushExpr(hir.CallExpr{Base: hir.Base{R: rng, T: ft.Return}, Callee: callee, Args: args}), ft.Return
}

func inferField(u *Unit, ctx inferCtx, e ast.FieldExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	receiver, receiverType := inferExpr(u, ctx, e.Receiver)

	target := types.Flatten(u.HIR, receiverType)
	if rt, ok := u.HIR.Type(target).(hir.ReferenceType); ok {
		target = types.Flatten(u.HIR, rt.Referenced)
	}

	if et, ok := u.HIR.Type(target).(hir.EnumerationType); ok {
		info := u.HIR.Enumeration(et.Info)
		if info.IsStruct {
			for i, name := range info.FieldNames {
				if name == e.Name {
					subst := make(map[hir.UnificationVariableTag]hir.TypeId, len(info.Template))
					for j, p := range info.Template {
						subst[p.Tag] = et.Args[j]
					}
					ft := substituteType(u, info.Cases[0].Payload[i], subst)
					return u.HIR.PushExpr(hir.FieldExpr{Base: hir.Base{R: rng, T: ft}, Receiver: receiver, Name: e.Name}), ft
				}
			}
		}
	}

	u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("no field named %q on this type", e.Name), Range: rng})
	t := u.HIR.PushType(hir.ErrorType{})
	return u.HIR.PushExpr(hir.FieldExpr{Base: hir.Base{R: rng, T: t}, Receiver: receiver, Name: e.Name}), t
}

func inferIf(u *Unit, ctx inferCtx, e ast.IfExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	cond, condType := inferExpr(u, ctx, e.Cond)
	unify(u, rng, condType, u.HIR.PushType(hir.BooleanType{}), "if condition")
	thenId, thenType := inferExpr(u, ctx, e.Then)
	elseId, elseType := inferExpr(u, ctx, e.Else)
	t := unify(u, rng, thenType, elseType, "if branches")
	return u.HIR.PushExpr(hir.IfExpr{Base: hir.Base{R: rng, T: t}, Cond: cond, Then: thenId, Else: elseId}), t
}

func inferLoop(u *Unit, ctx inferCtx, e ast.LoopExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	breakType := u.HIR.FreshType(hir.KindGeneral)
	inner := ctx
	inner.loopBreak = &breakType
	body, _ := inferExpr(u, inner, e.Body)
	return u.HIR.PushExpr(hir.LoopExpr{Base: hir.Base{R: rng, T: breakType}, Body: body}), breakType
}

func inferBreak(u *Unit, ctx inferCtx, e ast.BreakExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	var value hir.ExprId
	var valueType hir.TypeId
	if e.HasValue {
		value, valueType = inferExpr(u, ctx, e.Value)
	} else {
		valueType = unitType(u)
	}
	if ctx.loopBreak == nil {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: "break outside of a loop", Range: rng})
	} else {
		*ctx.loopBreak = unify(u, rng, *ctx.loopBreak, valueType, "break value")
	}
	t := u.HIR.FreshType(hir.KindGeneral)
	return u.HIR.PushExpr(hir.BreakExpr{Base: hir.Base{R: rng, T: t}, Value: value, HasValue: e.HasValue}), t
}

func inferReturn(u *Unit, ctx inferCtx, e ast.ReturnExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	var value hir.ExprId
	var valueType hir.TypeId
	if e.HasValue {
		value, valueType = inferExpr(u, ctx, e.Value)
	} else {
		valueType = unitType(u)
	}
	if ctx.funcReturn == nil {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: "ret outside of a function body", Range: rng})
	} else {
		unify(u, rng, *ctx.funcReturn, valueType, "return value")
	}
	t := u.HIR.FreshType(hir.KindGeneral)
	return u.HIR.PushExpr(hir.ReturnExpr{Base: hir.Base{R: rng, T: t}, Value: value, HasValue: e.HasValue}), t
}

func inferMatch(u *Unit, ctx inferCtx, e ast.MatchExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	subject, subjectType := inferExpr(u, ctx, e.Subject)

	arms := make([]hir.MatchArm, len(e.Arms))
	resultType := unitType(u)
	for i, arm := range e.Arms {
		armScope := u.HIR.NewScope(u.Doc.ID, ctx.scope, true)
		armCtx := ctx
		armCtx.scope = armScope

		pat, _ := inferPattern(u, armCtx, arm.Pattern, subjectType)
		body, bodyType := inferExpr(u, armCtx, arm.Body)
		reportUnusedIn(u, u.HIR.Scope(armScope))

		if i == 0 {
			resultType = bodyType
		} else {
			resultType = unify(u, rng, resultType, bodyType, "match arms")
		}
		arms[i] = hir.MatchArm{Pattern: pat, Body: body}
	}
	return u.HIR.PushExpr(hir.MatchExpr{Base: hir.Base{R: rng, T: resultType}, Subject: subject, Arms: arms}), resultType
}

func inferLet(u *Unit, ctx inferCtx, e ast.LetExpr, rng source.Range) (hir.ExprId, hir.TypeId) {
	value, valueType := inferExpr(u, ctx, e.Value)
	expected := valueType
	if e.HasType {
		ann := resolveType(u, ctx.scope, ctx.env, e.TypeAnn)
		expected = unify(u, rng, ann, valueType, "let binding")
	}
	pat, _ := inferPattern(u, ctx, e.Pattern, expected)
	t := unitType(u)
	return u.HIR.PushExpr(hir.LetExpr{Base: hir.Base{R: rng, T: t}, Pattern: pat, Value: value}), t
}

// inferPattern resolves a pattern against an already-known expected type,
// binding any introduced names into ctx.scope (the caller picks a fresh
// child scope per match arm; a `let` pattern binds straight into the
// enclosing block's scope so later statements can see it).
func inferPattern(u *Unit, ctx inferCtx, id ast.PatternId, expected hir.TypeId) (hir.PatternId, hir.TypeId) {
	n := u.AST.Pattern(id)
	rng := n.Range()
	switch p := n.(type) {
	case ast.WildcardPattern:
		return u.HIR.PushPattern(hir.WildcardPattern{PatternBase: hir.PatternBase{R: rng, T: expected}}), expected
	case ast.NamePattern:
		mut := u.HIR.PushMutability(hir.ConcreteMutability{Mut: p.Mut})
		local := u.HIR.PushLocalVariable(hir.LocalVariableInfo{Name: p.Name, Range: rng, Type: expected, Mutability: mut})
		hir.BindVariable(u.HIR.Scope(ctx.scope), p.Name, rng, local)
		return u.HIR.PushPattern(hir.BindPattern{PatternBase: hir.PatternBase{R: rng, T: expected}, Local: local}), expected
	case ast.TuplePattern:
		return inferTuplePattern(u, ctx, p, expected, rng)
	case ast.LiteralPattern:
		lt := literalPatternType(u, p.Text)
		t := unify(u, rng, expected, lt, "literal pattern")
		return u.HIR.PushPattern(hir.LiteralPattern{PatternBase: hir.PatternBase{R: rng, T: t}, Text: p.Text}), t
	case ast.PathPattern:
		return inferPathPattern(u, ctx, p, expected, rng)
	case ast.ErrorPattern:
		t := u.HIR.PushType(hir.ErrorType{})
		return u.HIR.PushPattern(hir.ErrorPattern{PatternBase: hir.PatternBase{R: rng, T: t}}), t
	default:
		t := u.HIR.PushType(hir.ErrorType{})
		return u.HIR.PushPattern(hir.ErrorPattern{PatternBase: hir.PatternBase{R: rng, T: t}}), t
	}
}

func inferTuplePattern(u *Unit, ctx inferCtx, p ast.TuplePattern, expected hir.TypeId, rng source.Range) (hir.PatternId, hir.TypeId) {
	flat := types.Flatten(u.HIR, expected)
	tt, ok := u.HIR.Type(flat).(hir.TupleType)
	elems := make([]hir.PatternId, len(p.Elements))
	if !ok || len(tt.Elements) != len(p.Elements) {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: "tuple pattern arity mismatch", Range: rng})
		for i, el := range p.Elements {
			elems[i], _ = inferPattern(u, ctx, el, u.HIR.FreshType(hir.KindGeneral))
		}
	} else {
		for i, el := range p.Elements {
			elems[i], _ = inferPattern(u, ctx, el, tt.Elements[i])
		}
	}
	return u.HIR.PushPattern(hir.TuplePattern{PatternBase: hir.PatternBase{R: rng, T: expected}, Elements: elems}), expected
}

func literalPatternType(u *Unit, text string) hir.TypeId {
	switch {
	case text == "true" || text == "false":
		return u.HIR.PushType(hir.BooleanType{})
	case strings.HasPrefix(text, "\""):
		return u.HIR.PushType(hir.StringType{})
	case strings.HasPrefix(text, "'"):
		return u.HIR.PushType(hir.CharacterType{})
	case strings.ContainsRune(text, '.'):
		return u.HIR.PushType(hir.FloatingType{})
	default:
		return u.HIR.FreshType(hir.KindIntegral)
	}
}

// inferPathPattern resolves a (possibly nullary) constructor pattern:
// `Option::None`, `Option::Some(x)`, a bare struct name used to
// destructure it, and so on.
// A bare enumeration name with exactly one case is accepted directly (the
// struct case); one with several requires an explicit `::case` segment.
func inferPathPattern(u *Unit, ctx inferCtx, p ast.PathPattern, expected hir.TypeId, rng source.Range) (hir.PatternId, hir.TypeId) {
	sym, ok := ResolveTypePath(u, ctx.env, p.Segments, rng)
	if !ok {
		t := u.HIR.PushType(hir.ErrorType{})
		return u.HIR.PushPattern(hir.ErrorPattern{PatternBase: hir.PatternBase{R: rng, T: t}}), t
	}

	var enumId hir.EnumerationInfoId
	var caseIdx int
	switch sym.Kind {
	case hir.SymbolEnumerationCase:
		enumId, caseIdx = sym.EnumerationCase()
	case hir.SymbolEnumeration:
		resolveEnumeration(u, sym.EnumerationId())
		info := u.HIR.Enumeration(sym.EnumerationId())
		if len(info.Cases) != 1 {
			u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("%q has more than one case; select one with '::'", info.Name), Range: rng})
			t := u.HIR.PushType(hir.ErrorType{})
			return u.HIR.PushPattern(hir.ErrorPattern{PatternBase: hir.PatternBase{R: rng, T: t}}), t
		}
		enumId, caseIdx = sym.EnumerationId(), 0
	default:
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: "not a constructor pattern", Range: rng})
		t := u.HIR.PushType(hir.ErrorType{})
		return u.HIR.PushPattern(hir.ErrorPattern{PatternBase: hir.PatternBase{R: rng, T: t}}), t
	}

	resolveEnumeration(u, enumId)
	info := u.HIR.Enumeration(enumId)
	caseInfo := info.Cases[caseIdx]

	flatExpected := types.Flatten(u.HIR, expected)
	var args []hir.TypeId
	if et, ok := u.HIR.Type(flatExpected).(hir.EnumerationType); ok && et.Info == enumId {
		args = et.Args
	} else {
		_, args = freshSubst(u, info.Template)
	}
	subst := make(map[hir.UnificationVariableTag]hir.TypeId, len(info.Template))
	for i, tp := range info.Template {
		subst[tp.Tag] = args[i]
	}
	enumType := u.HIR.PushType(hir.EnumerationType{Info: enumId, Args: args})
	t := unify(u, rng, expected, enumType, "constructor pattern")

	if len(p.Args) != len(caseInfo.Payload) {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: "constructor pattern arity mismatch", Range: rng})
	}
	subPatterns := make([]hir.PatternId, len(p.Args))
	for i, a := range p.Args {
		fieldType := u.HIR.FreshType(hir.KindGeneral)
		if i < len(caseInfo.Payload) {
			fieldType = substituteType(u, caseInfo.Payload[i], subst)
		}
		subPatterns[i], _ = inferPattern(u, ctx, a, fieldType)
	}
	return u.HIR.PushPattern(hir.ConstructorPattern{PatternBase: hir.PatternBase{R: rng, T: t}, Info: enumId, Case: caseIdx, Args: subPatterns}), t
}
