package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kieli-lang/kieli/internal/cst"
	"github.com/kieli-lang/kieli/internal/source"
)

func desugar(text string) (*source.TextDocument, *Arena, Program) {
	db := source.NewDatabase()
	id := db.OpenDocument("t.ki", text)
	doc := db.Document(id)
	tree := cst.ParseProgram(doc)
	arena, program := DesugarProgram(tree)
	return doc, arena, program
}

func fnDefOf(t *testing.T, arena *Arena, program Program) FnDef {
	t.Helper()
	require.Len(t, program.Defs, 1)
	def, ok := arena.Def(program.Defs[0]).(FnDef)
	require.True(t, ok, "expected FnDef, got %T", arena.Def(program.Defs[0]))
	return def
}

func bodyStatements(t *testing.T, arena *Arena, fn FnDef) []ExprId {
	t.Helper()
	block, ok := arena.Expr(fn.Body).(BlockExpr)
	require.True(t, ok, "expected BlockExpr body, got %T", arena.Expr(fn.Body))
	return block.Statements
}

func TestDesugarFnDefNormalizesAllBodyForms(t *testing.T) {
	forms := []string{
		"fn f() -> Int { 1 }",
		"fn f() -> Int = 1",
		"fn f() -> Int = { 1 }",
	}
	for _, src := range forms {
		t.Run(src, func(t *testing.T) {
			doc, arena, program := desugar(src)
			require.False(t, doc.HasErrors())
			fn := fnDefOf(t, arena, program)

			_, ok := arena.Expr(fn.Body).(BlockExpr)
			assert.True(t, ok, "every surface body form must desugar to a single BlockExpr")
		})
	}
}

func TestDesugarIfWithoutElseGetsUnitElse(t *testing.T) {
	doc, arena, program := desugar("fn f() { if true { 1 } }")
	require.False(t, doc.HasErrors())
	fn := fnDefOf(t, arena, program)
	stmts := bodyStatements(t, arena, fn)
	require.Len(t, stmts, 1)

	ifExpr, ok := arena.Expr(stmts[0]).(IfExpr)
	require.True(t, ok)
	elseExpr, ok := arena.Expr(ifExpr.Else).(TupleExpr)
	require.True(t, ok, "an else-less if must desugar to an else () branch")
	assert.Empty(t, elseExpr.Elements)
}

func TestDesugarIfLetBecomesMatch(t *testing.T) {
	doc, arena, program := desugar("fn f() { if let Some(x) = opt { 1 } else { 0 } }")
	require.False(t, doc.HasErrors())
	fn := fnDefOf(t, arena, program)
	stmts := bodyStatements(t, arena, fn)
	require.Len(t, stmts, 1)

	m, ok := arena.Expr(stmts[0]).(MatchExpr)
	require.True(t, ok, "if-let must desugar to a MatchExpr")
	require.Len(t, m.Arms, 2)

	_, isPathPattern := arena.Pattern(m.Arms[0].Pattern).(PathPattern)
	assert.True(t, isPathPattern)
	_, isWildcard := arena.Pattern(m.Arms[1].Pattern).(WildcardPattern)
	assert.True(t, isWildcard, "the else arm's pattern must be a wildcard")
}

func TestDesugarWhileBecomesLoopWithBreak(t *testing.T) {
	doc, arena, program := desugar("fn f() { while cond { 1; } }")
	require.False(t, doc.HasErrors())
	fn := fnDefOf(t, arena, program)
	stmts := bodyStatements(t, arena, fn)
	require.Len(t, stmts, 1)

	_, ok := arena.Expr(stmts[0]).(LoopExpr)
	assert.True(t, ok, "while must desugar to a LoopExpr")
}

func TestDesugarWhileLetBecomesLoopWithMatch(t *testing.T) {
	doc, arena, program := desugar("fn f() { while let Some(x) = next() { 1; } }")
	require.False(t, doc.HasErrors())
	fn := fnDefOf(t, arena, program)
	stmts := bodyStatements(t, arena, fn)
	require.Len(t, stmts, 1)

	loop, ok := arena.Expr(stmts[0]).(LoopExpr)
	require.True(t, ok)
	body, ok := arena.Expr(loop.Body).(BlockExpr)
	require.True(t, ok)
	require.Len(t, body.Statements, 1)
	_, ok = arena.Expr(body.Statements[0]).(MatchExpr)
	assert.True(t, ok, "while-let's body must contain a MatchExpr")
}

func TestDesugarDiscardCallBecomesLetWildcard(t *testing.T) {
	doc, arena, program := desugar("fn f() { discard(compute()); }")
	require.False(t, doc.HasErrors())
	fn := fnDefOf(t, arena, program)
	stmts := bodyStatements(t, arena, fn)
	require.Len(t, stmts, 1)

	block, ok := arena.Expr(stmts[0]).(BlockExpr)
	require.True(t, ok, "discard(E) must desugar to { let _ = E; () }")
	require.Len(t, block.Statements, 2)

	letExpr, ok := arena.Expr(block.Statements[0]).(LetExpr)
	require.True(t, ok)
	_, isWildcard := arena.Pattern(letExpr.Pattern).(WildcardPattern)
	assert.True(t, isWildcard)

	unit, ok := arena.Expr(block.Statements[1]).(TupleExpr)
	require.True(t, ok)
	assert.Empty(t, unit.Elements)
}

func TestDesugarImplicitTupleLetBindingBecomesTuplePattern(t *testing.T) {
	doc, arena, program := desugar("fn f() { let a, b = pair; }")
	require.False(t, doc.HasErrors())
	fn := fnDefOf(t, arena, program)
	stmts := bodyStatements(t, arena, fn)
	require.Len(t, stmts, 1)

	letExpr, ok := arena.Expr(stmts[0]).(LetExpr)
	require.True(t, ok)
	pattern, ok := arena.Pattern(letExpr.Pattern).(TuplePattern)
	require.True(t, ok, "let a, b = e must desugar its pattern to a TuplePattern")
	assert.Len(t, pattern.Elements, 2)
}

func TestDesugarKeepsMethodCallExpr(t *testing.T) {
	doc, arena, program := desugar("fn f() { a.b() }")
	require.False(t, doc.HasErrors())
	fn := fnDefOf(t, arena, program)
	stmts := bodyStatements(t, arena, fn)
	require.Len(t, stmts, 1)

	_, ok := arena.Expr(stmts[0]).(MethodCallExpr)
	assert.True(t, ok, "MethodCallExpr is kept distinct through desugaring; method lookup happens at HIR construction")
}

func TestDesugarPreservesLeftAssociativeBinaryTree(t *testing.T) {
	doc, arena, program := desugar("fn f() { 1 - 2 - 3 }")
	require.False(t, doc.HasErrors())
	fn := fnDefOf(t, arena, program)
	stmts := bodyStatements(t, arena, fn)
	require.Len(t, stmts, 1)

	top, ok := arena.Expr(stmts[0]).(BinaryExpr)
	require.True(t, ok)
	_, leftIsBinary := arena.Expr(top.Left).(BinaryExpr)
	assert.True(t, leftIsBinary, "desugaring must not change the CST's left-associative shape")
}

func TestDesugarStructDef(t *testing.T) {
	doc, arena, program := desugar("struct Point[T] { x: T, y: T }")
	require.False(t, doc.HasErrors())
	require.Len(t, program.Defs, 1)

	st, ok := arena.Def(program.Defs[0]).(StructDef)
	require.True(t, ok)
	assert.Equal(t, "Point", st.Name)
	require.Len(t, st.Template, 1)
	assert.Equal(t, "T", st.Template[0].Name)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, "x", st.Fields[0].Name)
}

func TestDesugarEnumDef(t *testing.T) {
	doc, arena, program := desugar("enum Option[T] { Some(T), None }")
	require.False(t, doc.HasErrors())
	en, ok := arena.Def(program.Defs[0]).(EnumDef)
	require.True(t, ok)
	require.Len(t, en.Cases, 2)
	assert.Equal(t, "Some", en.Cases[0].Name)
	assert.Len(t, en.Cases[0].Payload, 1)
	assert.Equal(t, "None", en.Cases[1].Name)
	assert.Empty(t, en.Cases[1].Payload)
}

func TestDesugarModuleDefRecurses(t *testing.T) {
	doc, arena, program := desugar("module geo { struct Point { x: Int, y: Int } }")
	require.False(t, doc.HasErrors())
	mod, ok := arena.Def(program.Defs[0]).(ModuleDef)
	require.True(t, ok)
	assert.Equal(t, "geo", mod.Name)
	require.Len(t, mod.Defs, 1)
	_, ok = arena.Def(mod.Defs[0]).(StructDef)
	assert.True(t, ok)
}

func TestDesugarImportDef(t *testing.T) {
	doc, arena, program := desugar("export import geo::Point;")
	require.False(t, doc.HasErrors())
	imp, ok := arena.Def(program.Defs[0]).(ImportDef)
	require.True(t, ok)
	assert.True(t, imp.Exported)
	assert.Equal(t, []string{"geo", "Point"}, imp.Segments)
}

// TestDesugarIdempotence checks spec.md's desugar idempotence property:
// desugaring the same CST twice must produce structurally identical trees,
// since the desugarer is pure and consults no external state.
func TestDesugarIdempotence(t *testing.T) {
	text := "fn f() { while let Some(x) = next() { discard(use(x)); } }"
	db := source.NewDatabase()
	id := db.OpenDocument("t.ki", text)
	doc := db.Document(id)
	tree := cst.ParseProgram(doc)
	require.False(t, doc.HasErrors())

	arenaA, programA := DesugarProgram(tree)
	arenaB, programB := DesugarProgram(tree)

	assert.Equal(t, len(programA.Defs), len(programB.Defs))
	assert.Equal(t, programA, programB)
	assert.Equal(t, arenaA, arenaB)
}
