package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kieli-lang/kieli/internal/source"
)

func parseText(text string) (*source.TextDocument, *Tree) {
	db := source.NewDatabase()
	id := db.OpenDocument("t.ki", text)
	doc := db.Document(id)
	tree := ParseProgram(doc)
	return doc, tree
}

func childKinds(tree *Tree, id NodeId) []Kind {
	n := tree.Get(id)
	out := make([]Kind, len(n.Children))
	for i, c := range n.Children {
		out[i] = tree.Get(c).Kind
	}
	return out
}

func TestParseProgramEmptyDocument(t *testing.T) {
	doc, tree := parseText("")
	assert.False(t, doc.HasErrors())
	root := tree.Get(tree.Root)
	assert.Equal(t, KindProgram, root.Kind)
	assert.Empty(t, root.Children)
}

func TestParseProgramFnDef(t *testing.T) {
	doc, tree := parseText("fn add(x: Int, y: Int) -> Int { x + y }")
	require.False(t, doc.HasErrors())

	root := tree.Get(tree.Root)
	require.Len(t, root.Children, 1)

	fn := tree.Get(root.Children[0])
	assert.Equal(t, KindFnDef, fn.Kind)
	assert.Equal(t, "add", fn.Text)
}

func TestParseProgramFnDefExpressionBody(t *testing.T) {
	doc, tree := parseText("fn square(x: Int) -> Int = x * x")
	require.False(t, doc.HasErrors())

	root := tree.Get(tree.Root)
	require.Len(t, root.Children, 1)
	assert.Equal(t, KindFnDef, tree.Get(root.Children[0]).Kind)
}

func TestParseProgramStructDef(t *testing.T) {
	doc, tree := parseText("struct Point { x: Int, y: Int }")
	require.False(t, doc.HasErrors())

	root := tree.Get(tree.Root)
	require.Len(t, root.Children, 1)

	st := tree.Get(root.Children[0])
	assert.Equal(t, KindStructDef, st.Kind)
	assert.Equal(t, "Point", st.Text)
	assert.Equal(t, []Kind{KindFieldDef, KindFieldDef}, childKinds(tree, root.Children[0]))
}

func TestParseProgramGenericStructDef(t *testing.T) {
	doc, tree := parseText("struct Box[T] { value: T }")
	require.False(t, doc.HasErrors())

	st := tree.Get(tree.Get(tree.Root).Children[0])
	assert.Equal(t, KindStructDef, st.Kind)
	require.Len(t, st.Children, 2)
	assert.Equal(t, KindTemplateParameter, tree.Get(st.Children[0]).Kind)
	assert.Equal(t, KindFieldDef, tree.Get(st.Children[1]).Kind)
}

func TestParseProgramEnumDef(t *testing.T) {
	doc, tree := parseText("enum Option[T] { Some(T), None }")
	require.False(t, doc.HasErrors())

	en := tree.Get(tree.Get(tree.Root).Children[0])
	assert.Equal(t, KindEnumDef, en.Kind)
	assert.Equal(t, "Option", en.Text)
}

func TestParseProgramAliasDef(t *testing.T) {
	doc, tree := parseText("alias Pair[T] = (T, T)")
	require.False(t, doc.HasErrors())

	al := tree.Get(tree.Get(tree.Root).Children[0])
	assert.Equal(t, KindAliasDef, al.Kind)
}

func TestParseProgramConceptAndImpl(t *testing.T) {
	doc, tree := parseText(`
concept Show {
	fn show() -> Int;
}
impl Point {
	fn show() -> Int { 0 }
}
`)
	require.False(t, doc.HasErrors())

	root := tree.Get(tree.Root)
	require.Len(t, root.Children, 2)
	assert.Equal(t, KindConceptDef, tree.Get(root.Children[0]).Kind)
	assert.Equal(t, KindImplDef, tree.Get(root.Children[1]).Kind)
}

func TestParseProgramModuleDef(t *testing.T) {
	doc, tree := parseText("module geo { struct Point { x: Int, y: Int } }")
	require.False(t, doc.HasErrors())

	mod := tree.Get(tree.Get(tree.Root).Children[0])
	assert.Equal(t, KindModuleDef, mod.Kind)
	assert.Equal(t, "geo", mod.Text)
	require.Len(t, mod.Children, 1)
	assert.Equal(t, KindStructDef, tree.Get(mod.Children[0]).Kind)
}

func TestParseProgramImportDef(t *testing.T) {
	doc, tree := parseText("import geo::Point;\nexport import geo::Shape;")
	require.False(t, doc.HasErrors())

	root := tree.Get(tree.Root)
	require.Len(t, root.Children, 2)

	imp := tree.Get(root.Children[0])
	assert.Equal(t, KindImportDef, imp.Kind)
	assert.Equal(t, "", imp.Text)

	exp := tree.Get(root.Children[1])
	assert.Equal(t, KindImportDef, exp.Kind)
	assert.Equal(t, "export", exp.Text)
}

func TestParseProgramRecoversAfterUnknownTopLevelToken(t *testing.T) {
	doc, tree := parseText("@@@ fn f() -> Int { 1 }")
	require.True(t, doc.HasErrors())

	root := tree.Get(tree.Root)
	require.GreaterOrEqual(t, len(root.Children), 1)
	last := tree.Get(root.Children[len(root.Children)-1])
	assert.Equal(t, KindFnDef, last.Kind, "parser must recover and still parse the following definition")
}

func TestParseProgramReportsUnterminatedBlockComment(t *testing.T) {
	doc, _ := parseText("fn f() -> Int { 1 } /* never closes")
	require.True(t, doc.HasErrors())
	found := false
	for _, d := range doc.Diagnostics {
		if d.Message == "unterminated block comment" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParseProgramPreservesLeadingTriviaOnNodeTokens(t *testing.T) {
	text := "import /* comment */ geo::Point;"
	doc, tree := parseText(text)
	require.False(t, doc.HasErrors())

	imp := tree.Get(tree.Get(tree.Root).Children[0])
	require.Len(t, imp.Children, 2)
	segment := tree.Get(imp.Children[0])
	assert.Equal(t, "geo", segment.Text)
	assert.Equal(t, " /* comment */ ", segment.Token.LeadingTrivia(doc.Text))
}

func TestKindStringCovereage(t *testing.T) {
	assert.Equal(t, "FnDef", KindFnDef.String())
	assert.Equal(t, "Program", KindProgram.String())
	assert.Equal(t, "Kind(?)", Kind(9999).String())
}

// fnBody parses "fn f() { body }" and returns the block's single
// top-level statement node, the production path the expression/pattern/type
// parsers above are exercised through.
func fnBody(t *testing.T, body string) (*source.TextDocument, *Tree, NodeId) {
	t.Helper()
	doc, tree := parseText("fn f() { " + body + " }")
	require.False(t, doc.HasErrors(), "diagnostics: %v", doc.Diagnostics)

	fn := tree.Get(tree.Get(tree.Root).Children[0])
	block := tree.Get(fn.Children[len(fn.Children)-1])
	require.Equal(t, KindBlockExpr, block.Kind)
	require.Len(t, block.Children, 1)
	return doc, tree, block.Children[0]
}

func TestParseBinaryPrecedenceClimbing(t *testing.T) {
	_, tree, exprId := fnBody(t, "1 + 2 * 3")
	expr := tree.Get(exprId)
	require.Equal(t, KindBinaryExpr, expr.Kind)
	assert.Equal(t, "+", expr.Text)

	rhs := tree.Get(expr.Children[1])
	assert.Equal(t, KindBinaryExpr, rhs.Kind)
	assert.Equal(t, "*", rhs.Text)
}

func TestParseBinaryLeftAssociative(t *testing.T) {
	_, tree, exprId := fnBody(t, "1 - 2 - 3")
	top := tree.Get(exprId)
	require.Equal(t, KindBinaryExpr, top.Kind)

	lhs := tree.Get(top.Children[0])
	assert.Equal(t, KindBinaryExpr, lhs.Kind, "a - b - c must group as (a - b) - c")
}

func TestParseUnaryAndReferenceDeref(t *testing.T) {
	tests := []struct {
		body string
		kind Kind
	}{
		{"!ok", KindUnaryExpr},
		{"&x", KindReferenceExpr},
		{"*x", KindDerefExpr},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			_, tree, exprId := fnBody(t, tt.body)
			assert.Equal(t, tt.kind, tree.Get(exprId).Kind)
		})
	}
}

func TestParseCallAndMethodCallAndFieldExpr(t *testing.T) {
	_, tree, exprId := fnBody(t, "a.b.c(1, 2)")
	expr := tree.Get(exprId)
	assert.Equal(t, KindMethodCallExpr, expr.Kind)
	assert.Equal(t, "c", expr.Text)
	require.Len(t, expr.Children, 3) // receiver + 2 args

	receiver := tree.Get(expr.Children[0])
	assert.Equal(t, KindFieldExpr, receiver.Kind)
	assert.Equal(t, "b", receiver.Text)
}

func TestParseTupleAndParenExpr(t *testing.T) {
	_, tree, exprId := fnBody(t, "(1, 2, 3)")
	assert.Equal(t, KindTupleExpr, tree.Get(exprId).Kind)

	_, tree2, paren := fnBody(t, "(1)")
	assert.Equal(t, KindParenExpr, tree2.Get(paren).Kind)
}

func TestParseIfElseExpr(t *testing.T) {
	_, tree, exprId := fnBody(t, "if true { 1 } else { 2 }")
	expr := tree.Get(exprId)
	assert.Equal(t, KindIfExpr, expr.Kind)
	require.Len(t, expr.Children, 3)
}

func TestParseIfLetExpr(t *testing.T) {
	_, tree, exprId := fnBody(t, "if let Some(x) = opt { x } else { 0 }")
	expr := tree.Get(exprId)
	assert.Equal(t, KindIfLetExpr, expr.Kind)
}

func TestParseWhileAndWhileLetExpr(t *testing.T) {
	_, tree, exprId := fnBody(t, "while cond { 1; }")
	assert.Equal(t, KindWhileExpr, tree.Get(exprId).Kind)

	_, tree2, exprId2 := fnBody(t, "while let Some(x) = next() { 1; }")
	assert.Equal(t, KindWhileLetExpr, tree2.Get(exprId2).Kind)
}

func TestParseLoopBreakContinue(t *testing.T) {
	_, tree, exprId := fnBody(t, "loop { break 1; }")
	loop := tree.Get(exprId)
	assert.Equal(t, KindLoopExpr, loop.Kind)
}

func TestParseMatchExprWithTuplePatternArm(t *testing.T) {
	_, tree, exprId := fnBody(t, "match pair { a, b -> a }")
	m := tree.Get(exprId)
	require.Equal(t, KindMatchExpr, m.Kind)
	require.GreaterOrEqual(t, len(m.Children), 2)

	arm := tree.Get(m.Children[1])
	assert.Equal(t, KindMatchArm, arm.Kind)
	pat := tree.Get(arm.Children[0])
	assert.Equal(t, KindTuplePattern, pat.Kind)
}

func TestParseLetExprWithTypeAnnotation(t *testing.T) {
	_, tree, exprId := fnBody(t, "let x: Int = 1")
	let := tree.Get(exprId)
	require.Equal(t, KindLetExpr, let.Kind)
	require.True(t, let.Aux[0].Present)
	require.Len(t, let.Children, 3)
}

func TestParseLetExprImplicitTuple(t *testing.T) {
	_, tree, exprId := fnBody(t, "let a, b = pair")
	let := tree.Get(exprId)
	require.Equal(t, KindLetExpr, let.Kind)
	pattern := tree.Get(let.Children[0])
	assert.Equal(t, KindTuplePattern, pattern.Kind)
}

func TestParseTypeofAndSizeofExpr(t *testing.T) {
	_, tree, exprId := fnBody(t, "typeof(x)")
	assert.Equal(t, KindTypeofExpr, tree.Get(exprId).Kind)

	_, tree2, exprId2 := fnBody(t, "sizeof(Int)")
	assert.Equal(t, KindSizeofExpr, tree2.Get(exprId2).Kind)
}

func TestParseReturnWithAndWithoutOperand(t *testing.T) {
	_, tree, exprId := fnBody(t, "ret 1")
	ret := tree.Get(exprId)
	assert.Equal(t, KindReturnExpr, ret.Kind)
	assert.Len(t, ret.Children, 1)

	doc, tree2 := parseText("fn f() { ret; }")
	require.False(t, doc.HasErrors())
	fn := tree2.Get(tree2.Get(tree2.Root).Children[0])
	block := tree2.Get(fn.Children[len(fn.Children)-1])
	ret2 := tree2.Get(block.Children[0])
	assert.Equal(t, KindReturnExpr, ret2.Kind)
	assert.Empty(t, ret2.Children)
}

func TestParseTypeReferenceAndPointer(t *testing.T) {
	doc, tree := parseText("fn f(r: &mut Int, p: *immut Int) { 0 }")
	require.False(t, doc.HasErrors())

	fn := tree.Get(tree.Get(tree.Root).Children[0])
	r := tree.Get(fn.Children[0])
	assert.Equal(t, KindParameter, r.Kind)
	refType := tree.Get(r.Children[0])
	assert.Equal(t, KindReferenceType, refType.Kind)

	p := tree.Get(fn.Children[1])
	ptrType := tree.Get(p.Children[0])
	assert.Equal(t, KindPointerType, ptrType.Kind)
}

func TestParseArrayAndSliceType(t *testing.T) {
	doc, tree := parseText("fn f(a: [Int; 3], s: [Int]) { 0 }")
	require.False(t, doc.HasErrors())

	fn := tree.Get(tree.Get(tree.Root).Children[0])
	arrType := tree.Get(tree.Get(fn.Children[0]).Children[0])
	assert.Equal(t, KindArrayType, arrType.Kind)

	sliceType := tree.Get(tree.Get(fn.Children[1]).Children[0])
	assert.Equal(t, KindSliceType, sliceType.Kind)
}

func TestParseTupleAndFunctionType(t *testing.T) {
	doc, tree := parseText("fn f(t: (Int, Int), g: fn(Int) -> Int) { 0 }")
	require.False(t, doc.HasErrors())

	fn := tree.Get(tree.Get(tree.Root).Children[0])
	tupleType := tree.Get(tree.Get(fn.Children[0]).Children[0])
	assert.Equal(t, KindTupleType, tupleType.Kind)

	fnType := tree.Get(tree.Get(fn.Children[1]).Children[0])
	assert.Equal(t, KindFunctionType, fnType.Kind)
}

func TestParsePatternKinds(t *testing.T) {
	doc, tree := parseText("fn f() { match x { _ -> 1, mut y -> 2, Some(z) -> 3, (a, b) -> 4 } }")
	require.False(t, doc.HasErrors())

	fn := tree.Get(tree.Get(tree.Root).Children[0])
	block := tree.Get(fn.Children[len(fn.Children)-1])
	m := tree.Get(block.Children[0])
	require.Equal(t, KindMatchExpr, m.Kind)

	wantKinds := []Kind{KindWildcardPattern, KindNamePattern, KindPathPattern, KindTuplePattern}
	for i, want := range wantKinds {
		arm := tree.Get(m.Children[i+1])
		pat := tree.Get(arm.Children[0])
		assert.Equal(t, want, pat.Kind, "arm %d", i)
	}
}
