package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kieli-lang/kieli/internal/hir"
)

func TestUnifyIdenticalConcreteTypesSucceeds(t *testing.T) {
	a := hir.NewArena()
	lhs := a.PushType(hir.IntegerType{Bits: 32, Signed: true})
	rhs := a.PushType(hir.IntegerType{Bits: 32, Signed: true})

	got, err := Unify(a, lhs, rhs)
	require.NoError(t, err)
	assert.Equal(t, lhs, got)
}

func TestUnifyMismatchedConcreteTypesFails(t *testing.T) {
	a := hir.NewArena()
	lhs := a.PushType(hir.IntegerType{Bits: 32, Signed: true})
	rhs := a.PushType(hir.BooleanType{})

	_, err := Unify(a, lhs, rhs)
	require.Error(t, err)
}

func TestUnifySolvesUnsolvedVariable(t *testing.T) {
	a := hir.NewArena()
	v := a.FreshType(hir.KindGeneral)
	concrete := a.PushType(hir.IntegerType{Bits: 64, Signed: false})

	got, err := Unify(a, v, concrete)
	require.NoError(t, err)
	assert.Equal(t, concrete, got)

	flattened := Flatten(a, v)
	assert.Equal(t, concrete, flattened)
}

func TestUnifyTwoVariablesLinksThem(t *testing.T) {
	a := hir.NewArena()
	v1 := a.FreshType(hir.KindGeneral)
	v2 := a.FreshType(hir.KindGeneral)

	_, err := Unify(a, v1, v2)
	require.NoError(t, err)

	concrete := a.PushType(hir.StringType{})
	_, err = Unify(a, v1, concrete)
	require.NoError(t, err)

	assert.Equal(t, concrete, Flatten(a, v2), "unifying v1 with a concrete type must resolve v2 through the link")
}

func TestUnifySameVariableWithItselfIsANoop(t *testing.T) {
	a := hir.NewArena()
	v := a.FreshType(hir.KindGeneral)

	got, err := Unify(a, v, v)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestUnifyIntegralKindedVariableRejectsNonInteger(t *testing.T) {
	a := hir.NewArena()
	v := a.FreshType(hir.KindIntegral)
	str := a.PushType(hir.StringType{})

	_, err := Unify(a, v, str)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integer")
}

func TestUnifyIntegralKindedVariableAcceptsInteger(t *testing.T) {
	a := hir.NewArena()
	v := a.FreshType(hir.KindIntegral)
	i32 := a.PushType(hir.IntegerType{Bits: 32, Signed: true})

	_, err := Unify(a, v, i32)
	assert.NoError(t, err)
}

func TestUnifyOccursCheckRejectsSelfReferentialSolution(t *testing.T) {
	a := hir.NewArena()
	v := a.FreshType(hir.KindGeneral)
	vid := a.Type(v).(hir.TypeVariable).Id

	slice := a.PushType(hir.SliceType{Element: v})
	assert.True(t, OccursCheck(a, vid, slice))

	_, err := Unify(a, v, slice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "occurs check")
}

func TestOccursCheckFindsVariableInsideNestedStructure(t *testing.T) {
	a := hir.NewArena()
	v := a.FreshType(hir.KindGeneral)
	vid := a.Type(v).(hir.TypeVariable).Id

	inner := a.PushType(hir.TupleType{Elements: []hir.TypeId{v}})
	fn := a.PushType(hir.FunctionType{Params: []hir.TypeId{inner}, Return: a.PushType(hir.BooleanType{})})

	assert.True(t, OccursCheck(a, vid, fn))
}

func TestOccursCheckReturnsFalseWhenAbsent(t *testing.T) {
	a := hir.NewArena()
	v := a.FreshType(hir.KindGeneral)
	vid := a.Type(v).(hir.TypeVariable).Id

	other := a.PushType(hir.BooleanType{})
	assert.False(t, OccursCheck(a, vid, other))
}

func TestUnifyArrayTypesUnifiesElementsAndKeepsLength(t *testing.T) {
	a := hir.NewArena()
	lengthExpr := a.PushExpr(hir.IntLiteral{Base: hir.Base{T: a.PushType(hir.IntegerType{Bits: 64, Signed: false})}, Text: "3"})
	lhs := a.PushType(hir.ArrayType{Element: a.PushType(hir.IntegerType{Bits: 32, Signed: true}), Length: lengthExpr})
	rhs := a.PushType(hir.ArrayType{Element: a.PushType(hir.IntegerType{Bits: 32, Signed: true}), Length: lengthExpr})

	got, err := Unify(a, lhs, rhs)
	require.NoError(t, err)
	result, ok := a.Type(got).(hir.ArrayType)
	require.True(t, ok)
	assert.Equal(t, lengthExpr, result.Length)
}

func TestUnifyTupleTypesRequireEqualArity(t *testing.T) {
	a := hir.NewArena()
	boolT := a.PushType(hir.BooleanType{})
	lhs := a.PushType(hir.TupleType{Elements: []hir.TypeId{boolT, boolT}})
	rhs := a.PushType(hir.TupleType{Elements: []hir.TypeId{boolT}})

	_, err := Unify(a, lhs, rhs)
	assert.Error(t, err)
}

func TestUnifyFunctionTypesUnifyParamsAndReturn(t *testing.T) {
	a := hir.NewArena()
	i32 := a.PushType(hir.IntegerType{Bits: 32, Signed: true})
	boolVar := a.FreshType(hir.KindGeneral)
	boolT := a.PushType(hir.BooleanType{})

	lhs := a.PushType(hir.FunctionType{Params: []hir.TypeId{i32}, Return: boolVar})
	rhs := a.PushType(hir.FunctionType{Params: []hir.TypeId{i32}, Return: boolT})

	_, err := Unify(a, lhs, rhs)
	require.NoError(t, err)
	assert.Equal(t, boolT, Flatten(a, boolVar))
}

func TestUnifyEnumerationTypesRequireSameInfoAndArgs(t *testing.T) {
	a := hir.NewArena()
	i32 := a.PushType(hir.IntegerType{Bits: 32, Signed: true})
	str := a.PushType(hir.StringType{})

	lhs := a.PushType(hir.EnumerationType{Info: hir.EnumerationInfoId(0), Args: []hir.TypeId{i32}})
	rhsSameInfo := a.PushType(hir.EnumerationType{Info: hir.EnumerationInfoId(0), Args: []hir.TypeId{i32}})
	rhsDifferentInfo := a.PushType(hir.EnumerationType{Info: hir.EnumerationInfoId(1), Args: []hir.TypeId{i32}})
	rhsDifferentArg := a.PushType(hir.EnumerationType{Info: hir.EnumerationInfoId(0), Args: []hir.TypeId{str}})

	_, err := Unify(a, lhs, rhsSameInfo)
	assert.NoError(t, err)

	_, err = Unify(a, lhs, rhsDifferentInfo)
	assert.Error(t, err)

	_, err = Unify(a, lhs, rhsDifferentArg)
	assert.Error(t, err)
}

func TestUnifyMutabilityConcreteMustMatchExactly(t *testing.T) {
	a := hir.NewArena()
	mutTrue := a.PushMutability(hir.ConcreteMutability{Mut: true})
	mutFalse := a.PushMutability(hir.ConcreteMutability{Mut: false})

	_, err := UnifyMutability(a, mutTrue, mutTrue)
	assert.NoError(t, err)

	_, err = UnifyMutability(a, mutTrue, mutFalse)
	assert.Error(t, err)
}

func TestUnifyMutabilitySolvesVariable(t *testing.T) {
	a := hir.NewArena()
	v := a.FreshMutability()
	concrete := a.PushMutability(hir.ConcreteMutability{Mut: true})

	got, err := UnifyMutability(a, v, concrete)
	require.NoError(t, err)
	assert.Equal(t, concrete, got)
	assert.Equal(t, concrete, FlattenMutability(a, v))
}

func TestUnifyErrorTypeAbsorbsAnything(t *testing.T) {
	a := hir.NewArena()
	errType := a.PushType(hir.ErrorType{})
	str := a.PushType(hir.StringType{})

	got, err := Unify(a, errType, str)
	require.NoError(t, err)
	assert.Equal(t, errType, got)
}

func TestFlattenReturnsIdUnchangedWhenNotAVariable(t *testing.T) {
	a := hir.NewArena()
	str := a.PushType(hir.StringType{})
	assert.Equal(t, str, Flatten(a, str))
}
