package ast

import (
	"github.com/kieli-lang/kieli/internal/cst"
	"github.com/kieli-lang/kieli/internal/source"
)

// Desugarer is a pure, bottom-up CST -> AST rewriter (spec.md §4.3): it
// never reports diagnostics and never consults name-resolution state, so
// running it twice on the same CST yields structurally identical trees
// (the "desugar idempotence" universal property, spec.md §8.1, follows
// immediately from there being no second desugaring pass at all: the AST
// it produces contains no constructs the table rewrites).
type Desugarer struct {
	tree  *cst.Tree
	arena *Arena
}

// NewDesugarer begins desugaring tree into a fresh AST arena.
func NewDesugarer(tree *cst.Tree) *Desugarer {
	return &Desugarer{tree: tree, arena: NewArena()}
}

// Arena returns the AST arena built so far.
func (d *Desugarer) Arena() *Arena { return d.arena }

// DesugarProgram converts the root Program CST node into an AST Program,
// desugaring every top-level definition.
func DesugarProgram(tree *cst.Tree) (*Arena, Program) {
	d := NewDesugarer(tree)
	root := tree.Get(tree.Root)
	var defs []DefId
	for _, child := range root.Children {
		defs = append(defs, d.desugarDef(child))
	}
	return d.arena, Program{base: base{R: root.Range}, Defs: defs}
}

func (d *Desugarer) unit(r source.Range) ExprId {
	return d.arena.PushExpr(TupleExpr{base: base{R: r}})
}

func (d *Desugarer) desugarDef(id cst.NodeId) DefId {
	n := d.tree.Get(id)
	switch n.Kind {
	case cst.KindFnDef:
		return d.arena.PushDef(d.desugarFnDef(n))
	case cst.KindStructDef:
		return d.arena.PushDef(d.desugarStructDef(n))
	case cst.KindEnumDef:
		return d.arena.PushDef(d.desugarEnumDef(n))
	case cst.KindAliasDef:
		return d.arena.PushDef(d.desugarAliasDef(n))
	case cst.KindConceptDef:
		return d.arena.PushDef(d.desugarConceptDef(n))
	case cst.KindImplDef:
		return d.arena.PushDef(d.desugarImplDef(n))
	case cst.KindModuleDef:
		return d.arena.PushDef(d.desugarModuleDef(n))
	case cst.KindImportDef:
		return d.arena.PushDef(d.desugarImportDef(n))
	default:
		return d.arena.PushDef(ErrorDef{base{R: n.Range}})
	}
}

func (d *Desugarer) desugarFnDef(n cst.Node) FnDef {
	var template []TemplateParameter
	var params []Parameter
	var ret TypeId
	hasRet := len(n.Aux) > 0 && n.Aux[0].Present
	children := n.Children
	// children layout: [template...][param...][ret?][body]
	bodyIdx := len(children) - 1
	retIdx := -1
	if hasRet {
		retIdx = bodyIdx - 1
	}
	for i, c := range children {
		if i == bodyIdx || i == retIdx {
			continue
		}
		cn := d.tree.Get(c)
		switch cn.Kind {
		case cst.KindTemplateParameter:
			template = append(template, TemplateParameter{Name: cn.Text})
		case cst.KindParameter:
			params = append(params, d.desugarParameter(cn))
		}
	}
	if retIdx >= 0 {
		ret = d.desugarType(children[retIdx])
	}
	var body ExprId
	if bodyIdx >= 0 && len(children) > 0 {
		body = d.desugarFnBody(children[bodyIdx])
	} else {
		body = d.unit(n.Range)
	}
	return FnDef{base: base{R: n.Range}, Name: n.Text, Template: template, Params: params, HasRet: hasRet, Ret: ret, Body: body}
}

// desugarFnBody normalizes all three surface forms (`= E`, `{ E }`, `=
// { E }`) into the single block-body form the data model requires
// (spec.md §4.3's "single block body form" rule).
func (d *Desugarer) desugarFnBody(id cst.NodeId) ExprId {
	n := d.tree.Get(id)
	if n.Kind == cst.KindBlockExpr {
		return d.arena.PushExpr(d.desugarExprBlockStatements(n))
	}
	inner := d.desugarExpr(id)
	return d.arena.PushExpr(BlockExpr{base: base{R: n.Range}, Statements: []ExprId{inner}})
}

func (d *Desugarer) desugarParameter(n cst.Node) Parameter {
	ty := d.desugarType(n.Children[0])
	hasDefault := len(n.Aux) > 0 && n.Aux[0].Present
	var def ExprId
	if hasDefault && len(n.Children) > 1 {
		def = d.desugarExpr(n.Children[1])
	}
	return Parameter{Name: n.Text, Type: ty, HasDefault: hasDefault, Default: def}
}

func (d *Desugarer) desugarStructDef(n cst.Node) StructDef {
	var template []TemplateParameter
	var fields []Field
	for _, c := range n.Children {
		cn := d.tree.Get(c)
		switch cn.Kind {
		case cst.KindTemplateParameter:
			template = append(template, TemplateParameter{Name: cn.Text})
		case cst.KindFieldDef:
			fields = append(fields, Field{Name: cn.Text, Type: d.desugarType(cn.Children[0])})
		}
	}
	return StructDef{base: base{R: n.Range}, Name: n.Text, Template: template, Fields: fields}
}

func (d *Desugarer) desugarEnumDef(n cst.Node) EnumDef {
	var template []TemplateParameter
	var cases []EnumCase
	for _, c := range n.Children {
		cn := d.tree.Get(c)
		switch cn.Kind {
		case cst.KindTemplateParameter:
			template = append(template, TemplateParameter{Name: cn.Text})
		case cst.KindEnumCaseDef:
			var payload []TypeId
			for _, p := range cn.Children {
				payload = append(payload, d.desugarType(p))
			}
			cases = append(cases, EnumCase{Name: cn.Text, Payload: payload})
		}
	}
	return EnumDef{base: base{R: n.Range}, Name: n.Text, Template: template, Cases: cases}
}

func (d *Desugarer) desugarAliasDef(n cst.Node) AliasDef {
	var template []TemplateParameter
	targetIdx := len(n.Children) - 1
	for _, c := range n.Children[:targetIdx] {
		cn := d.tree.Get(c)
		if cn.Kind == cst.KindTemplateParameter {
			template = append(template, TemplateParameter{Name: cn.Text})
		}
	}
	return AliasDef{base: base{R: n.Range}, Name: n.Text, Template: template, Target: d.desugarType(n.Children[targetIdx])}
}

func (d *Desugarer) desugarConceptDef(n cst.Node) ConceptDef {
	var methods []FnDef
	for _, c := range n.Children {
		cn := d.tree.Get(c)
		if cn.Kind == cst.KindFnDef {
			methods = append(methods, d.desugarFnDefSignatureOnly(cn))
		}
	}
	return ConceptDef{base: base{R: n.Range}, Name: n.Text, Methods: methods}
}

func (d *Desugarer) desugarFnDefSignatureOnly(n cst.Node) FnDef {
	var params []Parameter
	var ret TypeId
	hasRet := len(n.Children) > 0 && d.tree.Get(n.Children[len(n.Children)-1]).Kind != cst.KindParameter
	end := len(n.Children)
	if hasRet {
		end--
	}
	for _, c := range n.Children[:end] {
		cn := d.tree.Get(c)
		if cn.Kind == cst.KindParameter {
			params = append(params, d.desugarParameter(cn))
		}
	}
	if hasRet {
		ret = d.desugarType(n.Children[len(n.Children)-1])
	}
	return FnDef{base: base{R: n.Range}, Name: n.Text, Params: params, HasRet: hasRet, Ret: ret}
}

func (d *Desugarer) desugarImplDef(n cst.Node) ImplDef {
	if len(n.Children) == 0 {
		return ImplDef{base: base{R: n.Range}}
	}
	var template []TemplateParameter
	idx := 0
	for idx < len(n.Children) && d.tree.Get(n.Children[idx]).Kind == cst.KindTemplateParameter {
		template = append(template, TemplateParameter{Name: d.tree.Get(n.Children[idx]).Text})
		idx++
	}
	selfType := d.desugarType(n.Children[idx])
	idx++
	var methods []FnDef
	for _, c := range n.Children[idx:] {
		cn := d.tree.Get(c)
		if cn.Kind == cst.KindFnDef {
			methods = append(methods, d.desugarFnDef(cn))
		}
	}
	return ImplDef{base: base{R: n.Range}, Template: template, SelfType: selfType, Methods: methods}
}

func (d *Desugarer) desugarModuleDef(n cst.Node) ModuleDef {
	var defs []DefId
	for _, c := range n.Children {
		defs = append(defs, d.desugarDef(c))
	}
	return ModuleDef{base: base{R: n.Range}, Name: n.Text, Defs: defs}
}

func (d *Desugarer) desugarImportDef(n cst.Node) ImportDef {
	var segs []string
	for _, c := range n.Children {
		segs = append(segs, d.tree.Get(c).Text)
	}
	return ImportDef{base: base{R: n.Range}, Exported: n.Text == "export", Segments: segs}
}

// ---- expressions ----

func (d *Desugarer) desugarExpr(id cst.NodeId) ExprId {
	n := d.tree.Get(id)
	switch n.Kind {
	case cst.KindIntLiteral:
		return d.arena.PushExpr(IntLiteral{base{n.Range}, n.Text})
	case cst.KindFloatLiteral:
		return d.arena.PushExpr(FloatLiteral{base{n.Range}, n.Text})
	case cst.KindStringLiteral:
		return d.arena.PushExpr(StringLiteral{base{n.Range}, n.Text})
	case cst.KindCharLiteral:
		return d.arena.PushExpr(CharLiteral{base{n.Range}, n.Text})
	case cst.KindBoolLiteral:
		return d.arena.PushExpr(BoolLiteral{base{n.Range}, n.Text == "true"})
	case cst.KindUnderscoreExpr:
		return d.arena.PushExpr(ErrorExpr{base{n.Range}})
	case cst.KindPathExpr:
		return d.desugarPathExpr(n)
	case cst.KindParenExpr:
		return d.desugarExpr(n.Children[0])
	case cst.KindTupleExpr:
		var elems []ExprId
		for _, c := range n.Children {
			elems = append(elems, d.desugarExpr(c))
		}
		return d.arena.PushExpr(TupleExpr{base{n.Range}, elems})
	case cst.KindBlockExpr:
		return d.arena.PushExpr(d.desugarExprBlockStatements(n))
	case cst.KindUnaryExpr:
		return d.arena.PushExpr(UnaryExpr{base{n.Range}, n.Text, d.desugarExpr(n.Children[0])})
	case cst.KindReferenceExpr:
		mut := d.implicitMutability(n.Range)
		return d.arena.PushExpr(ReferenceExpr{base{n.Range}, mut, d.desugarExpr(n.Children[0])})
	case cst.KindDerefExpr:
		return d.arena.PushExpr(DerefExpr{base{n.Range}, d.desugarExpr(n.Children[0])})
	case cst.KindBinaryExpr:
		return d.arena.PushExpr(BinaryExpr{base{n.Range}, n.Text, d.desugarExpr(n.Children[0]), d.desugarExpr(n.Children[1])})
	case cst.KindAssignExpr:
		return d.arena.PushExpr(AssignExpr{base{n.Range}, n.Text, d.desugarExpr(n.Children[0]), d.desugarExpr(n.Children[1])})
	case cst.KindCallExpr:
		return d.desugarCallExpr(n)
	case cst.KindMethodCallExpr:
		var args []ExprId
		for _, c := range n.Children[1:] {
			args = append(args, d.desugarExpr(c))
		}
		return d.arena.PushExpr(MethodCallExpr{base{n.Range}, d.desugarExpr(n.Children[0]), n.Text, args})
	case cst.KindFieldExpr:
		return d.arena.PushExpr(FieldExpr{base{n.Range}, d.desugarExpr(n.Children[0]), n.Text})
	case cst.KindIfExpr:
		return d.desugarIfExpr(n)
	case cst.KindIfLetExpr:
		return d.desugarIfLetExpr(n)
	case cst.KindWhileExpr:
		return d.desugarWhileExpr(n)
	case cst.KindWhileLetExpr:
		return d.desugarWhileLetExpr(n)
	case cst.KindLoopExpr:
		return d.arena.PushExpr(LoopExpr{base{n.Range}, d.desugarExpr(n.Children[0])})
	case cst.KindBreakExpr:
		if len(n.Children) == 0 {
			return d.arena.PushExpr(BreakExpr{base: base{n.Range}, HasValue: false})
		}
		return d.arena.PushExpr(BreakExpr{base: base{n.Range}, Value: d.desugarExpr(n.Children[0]), HasValue: true})
	case cst.KindContinueExpr:
		return d.arena.PushExpr(ContinueExpr{base{n.Range}})
	case cst.KindReturnExpr:
		if len(n.Children) == 0 {
			return d.arena.PushExpr(ReturnExpr{base: base{n.Range}, HasValue: false})
		}
		return d.arena.PushExpr(ReturnExpr{base: base{n.Range}, Value: d.desugarExpr(n.Children[0]), HasValue: true})
	case cst.KindMatchExpr:
		return d.desugarMatchExpr(n)
	case cst.KindLetExpr:
		return d.desugarLetExpr(n)
	case cst.KindTypeofExpr:
		return d.arena.PushExpr(TypeofExpr{base{n.Range}, d.desugarExpr(n.Children[0])})
	case cst.KindSizeofExpr:
		return d.arena.PushExpr(SizeofExpr{base{n.Range}, d.desugarType(n.Children[0])})
	default:
		return d.arena.PushExpr(ErrorExpr{base{n.Range}})
	}
}

func (d *Desugarer) implicitMutability(r source.Range) MutabilityId {
	return d.arena.PushMutability(ConcreteMutability{base{r}, false})
}

func (d *Desugarer) desugarPathExpr(n cst.Node) ExprId {
	global := false
	var segs []string
	for _, c := range n.Children {
		cn := d.tree.Get(c)
		if cn.Text == "global" {
			global = true
			continue
		}
		segs = append(segs, cn.Text)
	}
	return d.arena.PushExpr(PathExpr{base{n.Range}, global, segs})
}

// desugarCallExpr recognizes the `discard E;` surface spelling (written as
// a call to the identifier `discard`) and rewrites it per spec.md §4.3:
// `discard E;` becomes `{ let _ = E; () };`.
func (d *Desugarer) desugarCallExpr(n cst.Node) ExprId {
	callee := d.tree.Get(n.Children[0])
	if callee.Kind == cst.KindPathExpr && len(callee.Children) == 1 && len(n.Children) == 2 {
		seg := d.tree.Get(callee.Children[0])
		if seg.Text == "discard" {
			value := d.desugarExpr(n.Children[1])
			wildcard := d.arena.PushPattern(WildcardPattern{base{n.Range}})
			letStmt := d.arena.PushExpr(LetExpr{base: base{n.Range}, Pattern: wildcard, Value: value})
			unit := d.unit(n.Range)
			return d.arena.PushExpr(BlockExpr{base{n.Range}, []ExprId{letStmt, unit}})
		}
	}
	callExpr := d.desugarExpr(n.Children[0])
	var args []ExprId
	for _, c := range n.Children[1:] {
		args = append(args, d.desugarExpr(c))
	}
	return d.arena.PushExpr(CallExpr{base{n.Range}, callExpr, args})
}

func (d *Desugarer) desugarExprBlockStatements(n cst.Node) BlockExpr {
	var stmts []ExprId
	for _, c := range n.Children {
		stmts = append(stmts, d.desugarExpr(c))
	}
	return BlockExpr{base{n.Range}, stmts}
}

// desugarIfExpr normalizes the else-less surface form: `if c { t }` becomes
// `if c { t } else ()` (spec.md §4.3).
func (d *Desugarer) desugarIfExpr(n cst.Node) ExprId {
	cond := d.desugarExpr(n.Children[0])
	then := d.desugarExpr(n.Children[1])
	var elseExpr ExprId
	if len(n.Children) > 2 {
		elseExpr = d.desugarExpr(n.Children[2])
	} else {
		elseExpr = d.unit(n.Range)
	}
	return d.arena.PushExpr(IfExpr{base{n.Range}, cond, then, elseExpr})
}

// desugarIfLetExpr rewrites `if let p = e { t } [else { f }]` into
// `match e { p -> { t }, _ -> (f | ()) }`.
func (d *Desugarer) desugarIfLetExpr(n cst.Node) ExprId {
	pat := d.desugarPattern(n.Children[0])
	value := d.desugarExpr(n.Children[1])
	then := d.desugarExpr(n.Children[2])
	var elseExpr ExprId
	if len(n.Children) > 3 {
		elseExpr = d.desugarExpr(n.Children[3])
	} else {
		elseExpr = d.unit(n.Range)
	}
	wildcard := d.arena.PushPattern(WildcardPattern{base{n.Range}})
	return d.arena.PushExpr(MatchExpr{
		base: base{n.Range}, Subject: value,
		Arms: []MatchArm{{Pattern: pat, Body: then}, {Pattern: wildcard, Body: elseExpr}},
	})
}

// desugarWhileExpr rewrites `while c { b }` into
// `loop { if c { b } else break () }`.
func (d *Desugarer) desugarWhileExpr(n cst.Node) ExprId {
	cond := d.desugarExpr(n.Children[0])
	body := d.desugarExpr(n.Children[1])
	unit := d.unit(n.Range)
	brk := d.arena.PushExpr(BreakExpr{base: base{n.Range}, Value: unit, HasValue: true})
	innerIf := d.arena.PushExpr(IfExpr{base{n.Range}, cond, body, brk})
	block := d.arena.PushExpr(BlockExpr{base{n.Range}, []ExprId{innerIf}})
	return d.arena.PushExpr(LoopExpr{base{n.Range}, block})
}

// desugarWhileLetExpr rewrites `while let p = e { b }` into
// `loop { match e { p -> { b }, _ -> break () } }`.
func (d *Desugarer) desugarWhileLetExpr(n cst.Node) ExprId {
	pat := d.desugarPattern(n.Children[0])
	value := d.desugarExpr(n.Children[1])
	body := d.desugarExpr(n.Children[2])
	unit := d.unit(n.Range)
	brk := d.arena.PushExpr(BreakExpr{base: base{n.Range}, Value: unit, HasValue: true})
	wildcard := d.arena.PushPattern(WildcardPattern{base{n.Range}})
	match := d.arena.PushExpr(MatchExpr{
		base: base{n.Range}, Subject: value,
		Arms: []MatchArm{{Pattern: pat, Body: body}, {Pattern: wildcard, Body: brk}},
	})
	block := d.arena.PushExpr(BlockExpr{base{n.Range}, []ExprId{match}})
	return d.arena.PushExpr(LoopExpr{base{n.Range}, block})
}

func (d *Desugarer) desugarMatchExpr(n cst.Node) ExprId {
	subject := d.desugarExpr(n.Children[0])
	var arms []MatchArm
	for _, c := range n.Children[1:] {
		cn := d.tree.Get(c)
		arms = append(arms, MatchArm{
			Pattern: d.desugarPattern(cn.Children[0]),
			Body:    d.desugarExpr(cn.Children[1]),
		})
	}
	return d.arena.PushExpr(MatchExpr{base: base{n.Range}, Subject: subject, Arms: arms})
}

func (d *Desugarer) desugarLetExpr(n cst.Node) ExprId {
	pat := d.desugarPattern(n.Children[0])
	hasType := len(n.Aux) > 0 && n.Aux[0].Present
	idx := 1
	var typeId TypeId
	if hasType {
		typeId = d.desugarType(n.Children[idx])
		idx++
	}
	value := d.desugarExpr(n.Children[idx])
	return d.arena.PushExpr(LetExpr{base: base{n.Range}, Pattern: pat, HasType: hasType, TypeAnn: typeId, Value: value})
}

// ---- patterns ----

func (d *Desugarer) desugarPattern(id cst.NodeId) PatternId {
	n := d.tree.Get(id)
	switch n.Kind {
	case cst.KindWildcardPattern:
		return d.arena.PushPattern(WildcardPattern{base{n.Range}})
	case cst.KindNamePattern:
		mut := len(n.Aux) > 0 && n.Aux[0].Present
		return d.arena.PushPattern(NamePattern{base{n.Range}, n.Text, mut})
	case cst.KindTuplePattern:
		var elems []PatternId
		for _, c := range n.Children {
			elems = append(elems, d.desugarPattern(c))
		}
		return d.arena.PushPattern(TuplePattern{base{n.Range}, elems})
	case cst.KindLiteralPattern:
		return d.arena.PushPattern(LiteralPattern{base{n.Range}, n.Text})
	case cst.KindPathPattern:
		path := d.tree.Get(n.Children[0])
		var segs []string
		for _, c := range path.Children {
			segs = append(segs, d.tree.Get(c).Text)
		}
		var args []PatternId
		for _, c := range n.Children[1:] {
			args = append(args, d.desugarPattern(c))
		}
		return d.arena.PushPattern(PathPattern{base{n.Range}, segs, args})
	default:
		return d.arena.PushPattern(ErrorPattern{base{n.Range}})
	}
}

// ---- types ----

func (d *Desugarer) desugarType(id cst.NodeId) TypeId {
	n := d.tree.Get(id)
	switch n.Kind {
	case cst.KindNamedType:
		var args []TypeId
		for _, c := range n.Children {
			args = append(args, d.desugarType(c))
		}
		return d.arena.PushType(NamedType{base{n.Range}, n.Text, args})
	case cst.KindArrayType:
		return d.arena.PushType(ArrayType{base{n.Range}, d.desugarType(n.Children[0]), d.desugarExpr(n.Children[1])})
	case cst.KindSliceType:
		return d.arena.PushType(SliceType{base{n.Range}, d.desugarType(n.Children[0])})
	case cst.KindReferenceType:
		return d.arena.PushType(ReferenceType{base{n.Range}, d.desugarMutability(n.Children[0]), d.desugarType(n.Children[1])})
	case cst.KindPointerType:
		return d.arena.PushType(PointerType{base{n.Range}, d.desugarMutability(n.Children[0]), d.desugarType(n.Children[1])})
	case cst.KindTupleType:
		var elems []TypeId
		for _, c := range n.Children {
			elems = append(elems, d.desugarType(c))
		}
		return d.arena.PushType(TupleType{base{n.Range}, elems})
	case cst.KindTypeofType:
		return d.arena.PushType(TypeofType{base{n.Range}, d.desugarExpr(n.Children[0])})
	case cst.KindFunctionType:
		hasRet := n.Text == "ret"
		end := len(n.Children)
		if hasRet {
			end--
		}
		var params []TypeId
		for _, c := range n.Children[:end] {
			params = append(params, d.desugarType(c))
		}
		var ret TypeId
		if hasRet {
			ret = d.desugarType(n.Children[end])
		}
		return d.arena.PushType(FunctionType{base{n.Range}, params, ret, hasRet})
	default:
		return d.arena.PushType(ErrorType{base{n.Range}})
	}
}

func (d *Desugarer) desugarMutability(id cst.NodeId) MutabilityId {
	n := d.tree.Get(id)
	switch n.Kind {
	case cst.KindMutConcrete:
		return d.arena.PushMutability(ConcreteMutability{base{n.Range}, n.Text == "mut"})
	case cst.KindMutNamed:
		return d.arena.PushMutability(NamedMutability{base{n.Range}, n.Text})
	default:
		return d.arena.PushMutability(ConcreteMutability{base{n.Range}, false})
	}
}
