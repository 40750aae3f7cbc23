package resolve

import (
	"fmt"

	"github.com/kieli-lang/kieli/internal/hir"
	"github.com/kieli-lang/kieli/internal/source"
	"github.com/kieli-lang/kieli/internal/types"
)

// unifySnapshot captures everything a speculative unification can mutate:
// the two unification-variable arenas (solved in place by SolveType /
// SolveMutability) and the lengths of the Types/Mutabilities arenas (grown
// only by append, never mutated in place, so truncating undoes them).
type unifySnapshot struct {
	typeVars []hir.TypeVariableState
	mutVars  []hir.MutabilityVariableState
	types    int
	muts     int
}

func snapshotUnify(a *hir.Arena) unifySnapshot {
	return unifySnapshot{
		typeVars: append([]hir.TypeVariableState(nil), a.Unify.TypeVariables...),
		mutVars:  append([]hir.MutabilityVariableState(nil), a.Unify.MutabilityVariables...),
		types:    len(a.Types),
		muts:     len(a.Mutabilities),
	}
}

func restoreUnify(a *hir.Arena, s unifySnapshot) {
	a.Unify.TypeVariables = s.typeVars
	a.Unify.MutabilityVariables = s.mutVars
	a.Types = a.Types[:s.types]
	a.Mutabilities = a.Mutabilities[:s.muts]
}

// lookupMethod implements spec.md §4.5.1 method resolution: scan every
// collected impl block in collection order, and for each one that declares
// a method named name, instantiate its self type fresh and try to unify it
// against receiverType without committing the attempt — a rejected
// candidate's partial solves must not leak into the next candidate, or
// into the caller's own in-progress unification. Zero matches is an
// unresolved-method error; more than one is an ambiguity error naming
// every candidate impl.
func lookupMethod(u *Unit, receiverType hir.TypeId, name string, rng source.Range) (hir.FunctionInfoId, bool) {
	var candidates []hir.FunctionInfoId
	var candidateRanges []source.Range
	for i := range u.HIR.Impls {
		implId := hir.ImplInfoId(i)
		resolveImpl(u, implId)
		info := u.HIR.Impl(implId)

		var methodId hir.FunctionInfoId
		found := false
		for _, m := range info.Methods {
			if u.HIR.Function(m).Name == name {
				methodId, found = m, true
				break
			}
		}
		if !found {
			continue
		}

		snap := snapshotUnify(u.HIR)
		subst, _ := freshSubst(u, info.Template)
		selfInstance := substituteType(u, info.SelfType, subst)
		_, err := types.Unify(u.HIR, selfInstance, receiverType)
		restoreUnify(u.HIR, snap)

		if err == nil {
			candidates = append(candidates, methodId)
			candidateRanges = append(candidateRanges, info.AST.Range())
		}
	}

	switch len(candidates) {
	case 0:
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("no method named %q for this type", name), Range: rng})
		return 0, false
	case 1:
		return candidates[0], true
	default:
		notes := make([]source.RelatedNote, len(candidateRanges))
		for i, r := range candidateRanges {
			notes[i] = source.RelatedNote{Message: "candidate impl here", Location: source.Location{Document: u.Doc.ID, Range: r}}
		}
		u.Doc.Report(source.Diagnostic{
			Severity: source.SeverityError,
			Message:  fmt.Sprintf("ambiguous method %q: %d impls match this type", name, len(candidates)),
			Range:    rng, Related: notes,
		})
		return 0, false
	}
}
