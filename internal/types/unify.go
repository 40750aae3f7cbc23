// Package types implements the unification engine used by internal/resolve
// during type inference (spec.md §4.5, component H). It operates purely on
// a *hir.Arena: fresh-variable allocation, flattening through solved
// links, occurs-check, and structural unification. It intentionally does
// not depend on internal/resolve — the "mutual recursion" spec.md §2
// describes (G resolves an expression, which triggers H to infer it, and
// H's handling of `typeof(E)` triggers G again) is realized by keeping the
// recursive expression-resolution entry point inside internal/resolve
// itself; this package only ever receives and returns already-built
// TypeIds, so no import cycle is needed.
//
// Grounded on original_source/src/libresolve/libresolve/unification.hpp
// (the Unsolved/Solved variable-cell states and fresh_* allocators) and
// occurs_check.cpp (the per-type-variant recursive visitor, ported here as
// a Go switch over hir.Type).
package types

import (
	"fmt"

	"github.com/kieli-lang/kieli/internal/hir"
)

// Flatten walks through Solved links to reach a type's ultimate concrete
// (or still-unsolved) representative, per spec.md §3.6 '"Flattening" a
// type id walks through any Solved links to reach the ultimate
// representative'.
func Flatten(a *hir.Arena, id hir.TypeId) hir.TypeId {
	for {
		v, ok := a.Type(id).(hir.TypeVariable)
		if !ok {
			return id
		}
		state := a.Unify.TypeVariable(v.Id)
		if !state.Solved {
			return id
		}
		id = state.Solution
	}
}

// FlattenMutability is the mutability analogue of Flatten.
func FlattenMutability(a *hir.Arena, id hir.MutabilityId) hir.MutabilityId {
	for {
		v, ok := a.Mutability(id).(hir.MutabilityVariable)
		if !ok {
			return id
		}
		state := a.Unify.MutabilityVariable(v.Id)
		if !state.Solved {
			return id
		}
		id = state.Solution
	}
}

// Error is a unification failure; the caller reports it as a diagnostic
// and continues with the error type, per spec.md §4.5 "Mismatches emit a
// diagnostic; the expression acquires the error type but resolution
// continues."
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unify attempts to make a and b denote the same type, solving any
// unsolved variable encountered along the way. On success it returns the
// unified TypeId (the more concrete of the two, if one was a variable).
// On failure it returns the error type's id and a non-nil error.
func Unify(a *hir.Arena, lhs, rhs hir.TypeId) (hir.TypeId, error) {
	lhs, rhs = Flatten(a, lhs), Flatten(a, rhs)

	lv, lIsVar := a.Type(lhs).(hir.TypeVariable)
	rv, rIsVar := a.Type(rhs).(hir.TypeVariable)

	switch {
	case lIsVar && rIsVar && lv.Id == rv.Id:
		return lhs, nil
	case lIsVar:
		return solveVariable(a, lv.Id, rhs)
	case rIsVar:
		return solveVariable(a, rv.Id, lhs)
	default:
		return unifyConcrete(a, lhs, rhs)
	}
}

func solveVariable(a *hir.Arena, v hir.TypeVariableId, other hir.TypeId) (hir.TypeId, error) {
	state := a.Unify.TypeVariable(v)
	if OccursCheck(a, v, other) {
		errType := a.PushType(hir.ErrorType{})
		a.Unify.SolveType(v, errType)
		return errType, &Error{Message: "occurs check failed: a type variable cannot unify with a type that contains it"}
	}
	if state.VarKind == hir.KindIntegral && !isIntegerLike(a, other) {
		errType := a.PushType(hir.ErrorType{})
		a.Unify.SolveType(v, errType)
		return errType, &Error{Message: "an integer-kinded variable can only unify with an integer type"}
	}
	a.Unify.SolveType(v, other)
	return other, nil
}

func isIntegerLike(a *hir.Arena, id hir.TypeId) bool {
	switch t := a.Type(id).(type) {
	case hir.IntegerType:
		return true
	case hir.TypeVariable:
		return a.Unify.TypeVariable(t.Id).VarKind == hir.KindIntegral
	default:
		return false
	}
}

func unifyConcrete(a *hir.Arena, lhs, rhs hir.TypeId) (hir.TypeId, error) {
	switch l := a.Type(lhs).(type) {
	case hir.IntegerType:
		if r, ok := a.Type(rhs).(hir.IntegerType); ok && l == r {
			return lhs, nil
		}
	case hir.FloatingType:
		if _, ok := a.Type(rhs).(hir.FloatingType); ok {
			return lhs, nil
		}
	case hir.CharacterType:
		if _, ok := a.Type(rhs).(hir.CharacterType); ok {
			return lhs, nil
		}
	case hir.BooleanType:
		if _, ok := a.Type(rhs).(hir.BooleanType); ok {
			return lhs, nil
		}
	case hir.StringType:
		if _, ok := a.Type(rhs).(hir.StringType); ok {
			return lhs, nil
		}
	case hir.ErrorType:
		return lhs, nil
	case hir.Parameterized:
		if r, ok := a.Type(rhs).(hir.Parameterized); ok && l.Tag == r.Tag {
			return lhs, nil
		}
	case hir.ArrayType:
		if r, ok := a.Type(rhs).(hir.ArrayType); ok {
			elem, err := Unify(a, l.Element, r.Element)
			if err != nil {
				return errorType(a), err
			}
			return a.PushType(hir.ArrayType{Element: elem, Length: l.Length}), nil
		}
	case hir.SliceType:
		if r, ok := a.Type(rhs).(hir.SliceType); ok {
			elem, err := Unify(a, l.Element, r.Element)
			if err != nil {
				return errorType(a), err
			}
			return a.PushType(hir.SliceType{Element: elem}), nil
		}
	case hir.ReferenceType:
		if r, ok := a.Type(rhs).(hir.ReferenceType); ok {
			inner, err := Unify(a, l.Referenced, r.Referenced)
			if err != nil {
				return errorType(a), err
			}
			mut, merr := UnifyMutability(a, l.Mutability, r.Mutability)
			if merr != nil {
				return errorType(a), merr
			}
			return a.PushType(hir.ReferenceType{Mutability: mut, Referenced: inner}), nil
		}
	case hir.PointerType:
		if r, ok := a.Type(rhs).(hir.PointerType); ok {
			inner, err := Unify(a, l.Pointee, r.Pointee)
			if err != nil {
				return errorType(a), err
			}
			mut, merr := UnifyMutability(a, l.Mutability, r.Mutability)
			if merr != nil {
				return errorType(a), merr
			}
			return a.PushType(hir.PointerType{Mutability: mut, Pointee: inner}), nil
		}
	case hir.TupleType:
		if r, ok := a.Type(rhs).(hir.TupleType); ok && len(l.Elements) == len(r.Elements) {
			elems := make([]hir.TypeId, len(l.Elements))
			for i := range l.Elements {
				u, err := Unify(a, l.Elements[i], r.Elements[i])
				if err != nil {
					return errorType(a), err
				}
				elems[i] = u
			}
			return a.PushType(hir.TupleType{Elements: elems}), nil
		}
	case hir.FunctionType:
		if r, ok := a.Type(rhs).(hir.FunctionType); ok && len(l.Params) == len(r.Params) {
			params := make([]hir.TypeId, len(l.Params))
			for i := range l.Params {
				u, err := Unify(a, l.Params[i], r.Params[i])
				if err != nil {
					return errorType(a), err
				}
				params[i] = u
			}
			ret, err := Unify(a, l.Return, r.Return)
			if err != nil {
				return errorType(a), err
			}
			return a.PushType(hir.FunctionType{Params: params, Return: ret}), nil
		}
	case hir.EnumerationType:
		if r, ok := a.Type(rhs).(hir.EnumerationType); ok && l.Info == r.Info && len(l.Args) == len(r.Args) {
			args := make([]hir.TypeId, len(l.Args))
			for i := range l.Args {
				u, err := Unify(a, l.Args[i], r.Args[i])
				if err != nil {
					return errorType(a), err
				}
				args[i] = u
			}
			return a.PushType(hir.EnumerationType{Info: l.Info, Args: args}), nil
		}
	}
	return errorType(a), &Error{Message: fmt.Sprintf("type mismatch: %T is not %T", a.Type(lhs), a.Type(rhs))}
}

func errorType(a *hir.Arena) hir.TypeId { return a.PushType(hir.ErrorType{}) }

// UnifyMutability unifies two mutability ids, solving variables as needed.
// Concrete mutabilities must match exactly (mut only unifies with mut).
func UnifyMutability(a *hir.Arena, lhs, rhs hir.MutabilityId) (hir.MutabilityId, error) {
	lhs, rhs = FlattenMutability(a, lhs), FlattenMutability(a, rhs)
	lv, lIsVar := a.Mutability(lhs).(hir.MutabilityVariable)
	rv, rIsVar := a.Mutability(rhs).(hir.MutabilityVariable)
	switch {
	case lIsVar && rIsVar && lv.Id == rv.Id:
		return lhs, nil
	case lIsVar:
		a.Unify.SolveMutability(lv.Id, rhs)
		return rhs, nil
	case rIsVar:
		a.Unify.SolveMutability(rv.Id, lhs)
		return lhs, nil
	default:
		l, lok := a.Mutability(lhs).(hir.ConcreteMutability)
		r, rok := a.Mutability(rhs).(hir.ConcreteMutability)
		if lok && rok && l.Mut == r.Mut {
			return lhs, nil
		}
		return lhs, &Error{Message: "mutability mismatch"}
	}
}

// OccursCheck reports whether the type variable v appears anywhere inside
// typ, ported from occurs_check.cpp's per-variant visitor: recurse into
// array/slice element types (and an array's length expression's type),
// reference/pointer referents, tuple elements, function parameter/return
// types, and enumeration template arguments.
func OccursCheck(a *hir.Arena, v hir.TypeVariableId, id hir.TypeId) bool {
	id = Flatten(a, id)
	switch t := a.Type(id).(type) {
	case hir.TypeVariable:
		return t.Id == v
	case hir.ArrayType:
		return OccursCheck(a, v, t.Element) || OccursCheck(a, v, a.Expr(t.Length).ExprType())
	case hir.SliceType:
		return OccursCheck(a, v, t.Element)
	case hir.ReferenceType:
		return OccursCheck(a, v, t.Referenced)
	case hir.PointerType:
		return OccursCheck(a, v, t.Pointee)
	case hir.FunctionType:
		if OccursCheck(a, v, t.Return) {
			return true
		}
		for _, p := range t.Params {
			if OccursCheck(a, v, p) {
				return true
			}
		}
		return false
	case hir.TupleType:
		for _, e := range t.Elements {
			if OccursCheck(a, v, e) {
				return true
			}
		}
		return false
	case hir.EnumerationType:
		for _, arg := range t.Args {
			if OccursCheck(a, v, arg) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
