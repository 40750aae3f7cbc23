package hir

// TypeVariableKind distinguishes a general unification variable from an
// integer-kinded one, which may only unify with built-in integer types or
// other integer-kinded variables (spec.md §4.5 "Fresh variables").
type TypeVariableKind int

const (
	KindGeneral TypeVariableKind = iota
	KindIntegral
)

// TypeVariableState is the Unsolved{tag,kind}/Solved{solution} cell from
// original_source's Unification_type_variable_state.
type TypeVariableState struct {
	Solved   bool
	Solution TypeId
	Tag      UnificationVariableTag
	VarKind  TypeVariableKind
}

// MutabilityVariableState is the mutability analogue.
type MutabilityVariableState struct {
	Solved   bool
	Solution MutabilityId
	Tag      UnificationVariableTag
}

// UnificationState owns the two parallel unification-variable arenas plus
// the monotone fresh-tag counter, following Unification_state's
// m_state_arena / m_current_variable_tag split (unification.hpp).
type UnificationState struct {
	TypeVariables       []TypeVariableState
	MutabilityVariables []MutabilityVariableState
	nextTag             uint32
}

func newUnificationState() UnificationState {
	return UnificationState{}
}

func (u *UnificationState) freshTag() UnificationVariableTag {
	tag := UnificationVariableTag(u.nextTag)
	u.nextTag++
	return tag
}

// FreshTag allocates a tag for a template parameter or local
// type/mutability binding — not a unification variable itself, but drawn
// from the same monotone counter (spec.md §4.5 "a fresh-tag source...
// for unification variables and local tags").
func (u *UnificationState) FreshTag() UnificationVariableTag { return u.freshTag() }

// FreshTypeVariable allocates an Unsolved cell of the given kind and
// returns its TypeVariableId; the caller wraps it in a hir.TypeVariable
// and pushes that into the Arena's type table to obtain a TypeId.
func (u *UnificationState) FreshTypeVariable(kind TypeVariableKind) TypeVariableId {
	id := TypeVariableId(len(u.TypeVariables))
	u.TypeVariables = append(u.TypeVariables, TypeVariableState{Tag: u.freshTag(), VarKind: kind})
	return id
}

func (u *UnificationState) FreshMutabilityVariable() MutabilityVariableId {
	id := MutabilityVariableId(len(u.MutabilityVariables))
	u.MutabilityVariables = append(u.MutabilityVariables, MutabilityVariableState{Tag: u.freshTag()})
	return id
}

func (u *UnificationState) TypeVariable(id TypeVariableId) TypeVariableState { return u.TypeVariables[id] }
func (u *UnificationState) SolveType(id TypeVariableId, solution TypeId) {
	u.TypeVariables[id] = TypeVariableState{Solved: true, Solution: solution, Tag: u.TypeVariables[id].Tag, VarKind: u.TypeVariables[id].VarKind}
}

func (u *UnificationState) MutabilityVariable(id MutabilityVariableId) MutabilityVariableState {
	return u.MutabilityVariables[id]
}
func (u *UnificationState) SolveMutability(id MutabilityVariableId, solution MutabilityId) {
	u.MutabilityVariables[id] = MutabilityVariableState{Solved: true, Solution: solution, Tag: u.MutabilityVariables[id].Tag}
}

// FreshType allocates a fresh type-unification variable and pushes its
// wrapping hir.TypeVariable node, returning the resulting TypeId in one
// step (convenience used throughout internal/resolve's inference code).
func (a *Arena) FreshType(kind TypeVariableKind) TypeId {
	v := a.Unify.FreshTypeVariable(kind)
	return a.PushType(TypeVariable{Id: v})
}

func (a *Arena) FreshMutability() MutabilityId {
	v := a.Unify.FreshMutabilityVariable()
	return a.PushMutability(MutabilityVariable{Id: v})
}
