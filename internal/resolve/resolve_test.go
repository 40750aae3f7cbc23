package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kieli-lang/kieli/internal/hir"
	"github.com/kieli-lang/kieli/internal/source"
)

func compile(text string) (*source.TextDocument, *Unit) {
	db := source.NewDatabase()
	id := db.OpenDocument("t.ki", text)
	doc := db.Document(id)
	u := NewUnit(doc)
	Compile(u)
	return doc, u
}

func lowerSymbol(t *testing.T, u *Unit, name string) hir.Symbol {
	t.Helper()
	env := u.HIR.Environment(u.RootEnv)
	info, ok := env.LowerMap[name]
	require.True(t, ok, "expected %q in the root environment's lower map", name)
	return info.Symbol
}

func upperSymbol(t *testing.T, u *Unit, name string) hir.Symbol {
	t.Helper()
	env := u.HIR.Environment(u.RootEnv)
	info, ok := env.UpperMap[name]
	require.True(t, ok, "expected %q in the root environment's upper map", name)
	return info.Symbol
}

func hasDiagnosticContaining(doc *source.TextDocument, substr string) bool {
	for _, d := range doc.Diagnostics {
		if contains(d.Message, substr) {
			return true
		}
	}
	return false
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func TestResolveSimpleFunctionHasNoDiagnostics(t *testing.T) {
	doc, u := compile("fn add(a: Int, b: Int) -> Int { a + b }")
	require.False(t, doc.HasErrors(), "%v", doc.Diagnostics)

	sym := lowerSymbol(t, u, "add")
	fn := u.HIR.Function(sym.FunctionId())
	require.Len(t, fn.Params, 2)

	ret, ok := u.HIR.Type(fn.Return).(hir.IntegerType)
	require.True(t, ok)
	assert.Equal(t, 64, ret.Bits)
	assert.True(t, ret.Signed)
}

func TestResolveDuplicateFunctionDefinitionIsAnError(t *testing.T) {
	doc, _ := compile("fn f() -> Int { 1 }\nfn f() -> Int { 2 }")
	assert.True(t, doc.HasErrors())
	assert.True(t, hasDiagnosticContaining(doc, "duplicate definition"))
}

func TestResolveUnresolvedNameIsAnError(t *testing.T) {
	doc, _ := compile("fn f() -> Int { undefinedVar }")
	assert.True(t, doc.HasErrors())
	assert.True(t, hasDiagnosticContaining(doc, "unresolved name"))
}

func TestResolveStructFieldAccess(t *testing.T) {
	doc, u := compile("struct Point { x: Int, y: Int }\nfn getX(p: Point) -> Int { p.x }")
	require.False(t, doc.HasErrors(), "%v", doc.Diagnostics)

	sym := upperSymbol(t, u, "Point")
	info := u.HIR.Enumeration(sym.EnumerationId())
	assert.True(t, info.IsStruct)
	assert.Equal(t, []string{"x", "y"}, info.FieldNames)
}

func TestResolveMismatchedFieldTypeIsAnError(t *testing.T) {
	doc, _ := compile("struct Point { x: Int, y: Int }\nfn getX(p: Point) -> Bool { p.x }")
	assert.True(t, doc.HasErrors())
}

func TestResolveEnumCaseMatch(t *testing.T) {
	doc, _ := compile(`enum Option[T] { Some(T), None }
fn unwrap(o: Option[Int]) -> Int { match o { Option::Some(x) -> x, Option::None -> 0 } }`)
	require.False(t, doc.HasErrors(), "%v", doc.Diagnostics)
}

func TestResolveEnumCaseArityMismatchIsAnError(t *testing.T) {
	doc, _ := compile(`enum Option[T] { Some(T), None }
fn unwrap(o: Option[Int]) -> Int { match o { Option::Some(x, y) -> x, Option::None -> 0 } }`)
	assert.True(t, doc.HasErrors())
	assert.True(t, hasDiagnosticContaining(doc, "arity mismatch"))
}

func TestResolveGenericFunctionInstantiatesFreshPerCall(t *testing.T) {
	doc, _ := compile(`fn identity[T](x: T) -> T { x }
fn useTwice() -> Int { identity(1); identity(true); 1 }`)
	assert.False(t, doc.HasErrors(), "%v", doc.Diagnostics)
}

func TestResolveMethodCallThroughImpl(t *testing.T) {
	doc, _ := compile(`struct Box { v: Int }
impl Box { fn get(self: Box) -> Int { self.v } }
fn run(b: Box) -> Int { b.get() }`)
	assert.False(t, doc.HasErrors(), "%v", doc.Diagnostics)
}

func TestResolveAmbiguousMethodIsAnError(t *testing.T) {
	doc, _ := compile(`struct Box { v: Int }
impl Box { fn get(self: Box) -> Int { 1 } }
impl Box { fn get(self: Box) -> Int { 2 } }
fn run(b: Box) -> Int { b.get() }`)
	assert.True(t, doc.HasErrors())
	assert.True(t, hasDiagnosticContaining(doc, "ambiguous method"))
}

func TestResolveUnknownMethodIsAnError(t *testing.T) {
	doc, _ := compile(`struct Box { v: Int }
fn run(b: Box) -> Int { b.missing() }`)
	assert.True(t, doc.HasErrors())
	assert.True(t, hasDiagnosticContaining(doc, "no method named"))
}

func TestResolveNestedModulePath(t *testing.T) {
	doc, _ := compile(`module geo { fn origin() -> Int { 0 } }
fn f() -> Int { geo::origin() }`)
	assert.False(t, doc.HasErrors(), "%v", doc.Diagnostics)
}

func TestResolveUnusedLocalProducesWarningNotError(t *testing.T) {
	doc, _ := compile("fn f() -> Int { let x = 1; 2 }")
	require.False(t, doc.HasErrors())
	require.NotEmpty(t, doc.Diagnostics)
	assert.Equal(t, source.SeverityWarning, doc.Diagnostics[0].Severity)
	assert.True(t, hasDiagnosticContaining(doc, "unused name: x"))
}

func TestResolveUnderscorePrefixedLocalIsExemptFromUnusedWarning(t *testing.T) {
	doc, _ := compile("fn f() -> Int { let _ignored = 1; 2 }")
	assert.Empty(t, doc.Diagnostics)
}

func TestResolveCyclicAliasIsAnError(t *testing.T) {
	doc, _ := compile("alias A = A;")
	assert.True(t, doc.HasErrors())
	assert.True(t, hasDiagnosticContaining(doc, "cyclic definition"))
}

func TestResolveAliasExpandsToItsTarget(t *testing.T) {
	doc, u := compile(`alias MyInt = Int
fn f() -> MyInt { 1 }`)
	require.False(t, doc.HasErrors(), "%v", doc.Diagnostics)

	sym := lowerSymbol(t, u, "f")
	fn := u.HIR.Function(sym.FunctionId())
	_, ok := u.HIR.Type(fn.Return).(hir.IntegerType)
	assert.True(t, ok, "a resolved alias target must flow through as the underlying concrete type")
}

func TestResolveTypeAnnotationRequiredWhenUnsolvable(t *testing.T) {
	doc, _ := compile("fn f[T]() -> T { loop {} }")
	assert.True(t, doc.HasErrors())
}

func TestResolveIfBranchTypeMismatchIsAnError(t *testing.T) {
	doc, _ := compile(`fn f() -> Int { if true { 1 } else { true } }`)
	assert.True(t, doc.HasErrors())
}

func TestResolveBreakValueUnifiesWithLoopType(t *testing.T) {
	doc, _ := compile(`fn f() -> Int { loop { break 1 } }`)
	assert.False(t, doc.HasErrors(), "%v", doc.Diagnostics)
}

func TestResolveBreakOutsideLoopIsAnError(t *testing.T) {
	doc, _ := compile(`fn f() -> Int { break 1; 0 }`)
	assert.True(t, doc.HasErrors())
	assert.True(t, hasDiagnosticContaining(doc, "break outside of a loop"))
}

func TestResolveReturnOutsideFunctionBodyNeverHappensAtTopLevel(t *testing.T) {
	doc, _ := compile(`fn f() -> Int { ret 1 }`)
	assert.False(t, doc.HasErrors(), "%v", doc.Diagnostics)
}

func TestResolveGlobalPathSkipsScopeChain(t *testing.T) {
	doc, _ := compile(`fn shadowed() -> Int { 1 }
fn f() -> Int { global::shadowed() }`)
	assert.False(t, doc.HasErrors(), "%v", doc.Diagnostics)
}
