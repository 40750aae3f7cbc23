package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kieli-lang/kieli/internal/source"
)

func TestEnvironmentDefineLowerRejectsDuplicate(t *testing.T) {
	env := NewEnvironment(source.DocumentId(0))

	_, dup := env.DefineLower(LowerInfo{Name: "f", Symbol: Symbol{Kind: SymbolFunction, Index: 0}})
	assert.False(t, dup)

	existing, dup := env.DefineLower(LowerInfo{Name: "f", Symbol: Symbol{Kind: SymbolFunction, Index: 1}})
	require.True(t, dup)
	assert.Equal(t, uint32(0), existing.Symbol.Index)
}

func TestEnvironmentDefineUpperRejectsDuplicate(t *testing.T) {
	env := NewEnvironment(source.DocumentId(0))

	_, dup := env.DefineUpper(UpperInfo{Name: "Point", Symbol: Symbol{Kind: SymbolEnumeration, Index: 0}})
	assert.False(t, dup)

	_, dup = env.DefineUpper(UpperInfo{Name: "Point", Symbol: Symbol{Kind: SymbolEnumeration, Index: 1}})
	assert.True(t, dup)
}

func TestEnvironmentInOrderTracksDefinitionOrder(t *testing.T) {
	env := NewEnvironment(source.DocumentId(0))
	env.DefineLower(LowerInfo{Name: "a", Symbol: Symbol{Index: 0}})
	env.DefineUpper(UpperInfo{Name: "B", Symbol: Symbol{Index: 1}})
	env.DefineLower(LowerInfo{Name: "c", Symbol: Symbol{Index: 2}})

	require.Len(t, env.InOrder, 3)
	assert.Equal(t, uint32(0), env.InOrder[0].Index)
	assert.Equal(t, uint32(1), env.InOrder[1].Index)
	assert.Equal(t, uint32(2), env.InOrder[2].Index)
}

func TestArenaPushEnvironmentAssignsStableIds(t *testing.T) {
	a := NewArena()
	idA := a.PushEnvironment(NewEnvironment(source.DocumentId(0)))
	idB := a.PushEnvironment(NewEnvironment(source.DocumentId(0)))

	assert.NotEqual(t, idA, idB)
	assert.Same(t, a.Environment(idA), a.Environment(idA))
}

func TestBindVariableShadowsInsteadOfErasing(t *testing.T) {
	a := NewArena()
	scopeId := a.NewScope(source.DocumentId(0), 0, false)
	scope := a.Scope(scopeId)

	outerLocal := a.PushLocalVariable(LocalVariableInfo{Name: "x"})
	BindVariable(scope, "x", source.Range{}, outerLocal)

	innerLocal := a.PushLocalVariable(LocalVariableInfo{Name: "x"})
	BindVariable(scope, "x", source.Range{}, innerLocal)

	require.Len(t, scope.Variables, 2)
	found, ok := a.FindVariable(scopeId, "x")
	require.True(t, ok)
	assert.Equal(t, innerLocal, found, "the innermost binding must win lookup")
}

func TestFindVariableWalksParentScopes(t *testing.T) {
	a := NewArena()
	outerId := a.NewScope(source.DocumentId(0), 0, false)
	local := a.PushLocalVariable(LocalVariableInfo{Name: "x"})
	BindVariable(a.Scope(outerId), "x", source.Range{}, local)

	innerId := a.NewScope(source.DocumentId(0), outerId, true)

	found, ok := a.FindVariable(innerId, "x")
	require.True(t, ok)
	assert.Equal(t, local, found)

	_, ok = a.FindVariable(innerId, "missing")
	assert.False(t, ok)
}

func TestFindVariableMarksUsed(t *testing.T) {
	a := NewArena()
	scopeId := a.NewScope(source.DocumentId(0), 0, false)
	local := a.PushLocalVariable(LocalVariableInfo{Name: "x"})
	BindVariable(a.Scope(scopeId), "x", source.Range{}, local)

	scope := a.Scope(scopeId)
	require.True(t, scope.Variables[0].Unused)

	a.FindVariable(scopeId, "x")
	assert.False(t, scope.Variables[0].Unused, "a successful lookup must clear Unused")
}

func TestUnusedByDefaultExemptsUnderscorePrefixedNames(t *testing.T) {
	a := NewArena()
	scopeId := a.NewScope(source.DocumentId(0), 0, false)
	scope := a.Scope(scopeId)

	BindVariable(scope, "_ignored", source.Range{}, a.PushLocalVariable(LocalVariableInfo{Name: "_ignored"}))
	BindVariable(scope, "used", source.Range{}, a.PushLocalVariable(LocalVariableInfo{Name: "used"}))

	warnings := ReportUnused(scope)
	require.Len(t, warnings, 1)
	assert.Equal(t, "used", warnings[0].Name)
}

func TestReportUnusedCoversAllThreeBindingKinds(t *testing.T) {
	a := NewArena()
	scopeId := a.NewScope(source.DocumentId(0), 0, false)
	scope := a.Scope(scopeId)

	BindVariable(scope, "v", source.Range{}, a.PushLocalVariable(LocalVariableInfo{Name: "v"}))
	BindType(scope, "T", source.Range{}, a.PushLocalType(LocalTypeInfo{Name: "T"}))
	BindMutability(scope, "M", source.Range{}, a.PushLocalMutability(LocalMutabilityInfo{Name: "M"}))

	warnings := ReportUnused(scope)
	names := map[string]bool{}
	for _, w := range warnings {
		names[w.Name] = true
	}
	assert.True(t, names["v"])
	assert.True(t, names["T"])
	assert.True(t, names["M"])
}

func TestArenaFreshTypeAndMutabilityAreDistinctAndUnsolved(t *testing.T) {
	a := NewArena()
	t1 := a.FreshType(KindGeneral)
	t2 := a.FreshType(KindGeneral)
	assert.NotEqual(t, t1, t2)

	v1 := a.Type(t1).(TypeVariable)
	state := a.Unify.TypeVariable(v1.Id)
	assert.False(t, state.Solved)

	m1 := a.FreshMutability()
	m2 := a.FreshMutability()
	assert.NotEqual(t, m1, m2)
}

func TestUnificationStateSolveTypePreservesTagAndKind(t *testing.T) {
	a := NewArena()
	id := a.Unify.FreshTypeVariable(KindIntegral)
	intType := a.PushType(IntegerType{Bits: 32, Signed: true})

	a.Unify.SolveType(id, intType)

	state := a.Unify.TypeVariable(id)
	assert.True(t, state.Solved)
	assert.Equal(t, intType, state.Solution)
	assert.Equal(t, KindIntegral, state.VarKind)
}

func TestFreshTagIsMonotone(t *testing.T) {
	a := NewArena()
	t1 := a.Unify.FreshTag()
	t2 := a.Unify.FreshTag()
	assert.Less(t, uint32(t1), uint32(t2))
}

func TestSymbolAccessorsUnpackIndex(t *testing.T) {
	sym := Symbol{Kind: SymbolFunction, Index: 7}
	assert.Equal(t, FunctionInfoId(7), sym.FunctionId())

	caseSym := Symbol{Kind: SymbolEnumerationCase, Index: 3, Case: 2}
	info, caseIdx := caseSym.EnumerationCase()
	assert.Equal(t, EnumerationInfoId(3), info)
	assert.Equal(t, 2, caseIdx)
}

func TestArenaPushFunctionAssignsStableIds(t *testing.T) {
	a := NewArena()
	idA := a.PushFunction(&FunctionInfo{Name: "a"})
	idB := a.PushFunction(&FunctionInfo{Name: "b"})

	assert.NotEqual(t, idA, idB)
	assert.Equal(t, "a", a.Function(idA).Name)
	assert.Equal(t, "b", a.Function(idB).Name)
}
