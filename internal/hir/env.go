package hir

import (
	"strings"

	"github.com/kieli-lang/kieli/internal/source"
)

// LowerInfo/UpperInfo are an environment's published view of a name:
// lower-case names resolve to values/modules/functions, upper-case names
// to types/enums/aliases/concepts (spec.md §3.5). Grounded on
// collect.cpp's env.lower_map / env.upper_map population at each
// definition visitor.
type LowerInfo struct {
	Name       string
	Range      source.Range
	DocumentId source.DocumentId
	Symbol     Symbol
}

type UpperInfo struct {
	Name       string
	Range      source.Range
	DocumentId source.DocumentId
	Symbol     Symbol
}

// Environment models a module-like namespace: collect.cpp pushes one
// entry per definition into lower_map or upper_map (by casing) and into
// in_order (for deterministic resolve-phase iteration), plus an optional
// parent for nested modules.
type Environment struct {
	DocumentId source.DocumentId
	ParentId   EnvironmentId
	HasParent  bool

	LowerMap map[string]LowerInfo
	UpperMap map[string]UpperInfo
	InOrder  []Symbol
}

func NewEnvironment(doc source.DocumentId) *Environment {
	return &Environment{DocumentId: doc, LowerMap: map[string]LowerInfo{}, UpperMap: map[string]UpperInfo{}}
}

func (a *Arena) PushEnvironment(e *Environment) EnvironmentId {
	id := EnvironmentId(len(a.Environments))
	a.Environments = append(a.Environments, e)
	return id
}
func (a *Arena) Environment(id EnvironmentId) *Environment { return a.Environments[id] }

// DefineLower/DefineUpper register a collected definition's name. A name
// already present in the map is a duplicate-definition error, surfaced by
// the caller (spec.md §4.4 "Shadowing and duplicates": "within an
// environment, adding a name already present is an error").
func (e *Environment) DefineLower(info LowerInfo) (existing LowerInfo, duplicate bool) {
	if prev, ok := e.LowerMap[info.Name]; ok {
		return prev, true
	}
	e.LowerMap[info.Name] = info
	e.InOrder = append(e.InOrder, info.Symbol)
	return LowerInfo{}, false
}

func (e *Environment) DefineUpper(info UpperInfo) (existing UpperInfo, duplicate bool) {
	if prev, ok := e.UpperMap[info.Name]; ok {
		return prev, true
	}
	e.UpperMap[info.Name] = info
	e.InOrder = append(e.InOrder, info.Symbol)
	return UpperInfo{}, false
}

// ---- Scopes ----

// VariableBind/TypeBind/MutabilityBind are scope.cpp's Variable_bind /
// Type_bind / Mutability_bind: a name, its range, a reference into the
// corresponding local-info table, and an Unused flag consulted at scope
// close.
type VariableBind struct {
	Name   string
	Range  source.Range
	Local  LocalVariableId
	Unused bool
}

type TypeBind struct {
	Name   string
	Range  source.Range
	Local  LocalTypeId
	Unused bool
}

type MutabilityBind struct {
	Name   string
	Range  source.Range
	Local  LocalMutabilityId
	Unused bool
}

// Scope is the lexical-body counterpart of an Environment: it is created
// while resolving a body, block or match arm and stays in the HIR arena
// after that region is resolved. Bindings are inserted ahead of any
// existing same-name entry so lookups see the innermost (most recent)
// binding first while older, shadowed bindings remain present for their
// own unused-warning accounting — mirrors scope.cpp's do_bind, which
// std::vector::emplace()s at the position of the first same-name match
// rather than erasing it.
type Scope struct {
	DocumentId source.DocumentId
	ParentId   ScopeId
	HasParent  bool

	Variables    []VariableBind
	Types        []TypeBind
	Mutabilities []MutabilityBind
}

func (a *Arena) PushScope(s *Scope) ScopeId {
	id := ScopeId(len(a.Scopes))
	a.Scopes = append(a.Scopes, s)
	return id
}
func (a *Arena) Scope(id ScopeId) *Scope { return a.Scopes[id] }

// NewScope pushes a fresh child scope onto the arena's scope table.
func (a *Arena) NewScope(doc source.DocumentId, parent ScopeId, hasParent bool) ScopeId {
	return a.PushScope(&Scope{DocumentId: doc, ParentId: parent, HasParent: hasParent})
}

func unusedByDefault(name string) bool { return !strings.HasPrefix(name, "_") }

func BindVariable(s *Scope, name string, rng source.Range, local LocalVariableId) {
	insertShadowing(&s.Variables, VariableBind{Name: name, Range: rng, Local: local, Unused: unusedByDefault(name)},
		func(b VariableBind) string { return b.Name })
}

func BindType(s *Scope, name string, rng source.Range, local LocalTypeId) {
	insertShadowing(&s.Types, TypeBind{Name: name, Range: rng, Local: local, Unused: unusedByDefault(name)},
		func(b TypeBind) string { return b.Name })
}

func BindMutability(s *Scope, name string, rng source.Range, local LocalMutabilityId) {
	insertShadowing(&s.Mutabilities, MutabilityBind{Name: name, Range: rng, Local: local, Unused: unusedByDefault(name)},
		func(b MutabilityBind) string { return b.Name })
}

func insertShadowing[T any](bindings *[]T, bind T, name func(T) string) {
	target := name(bind)
	idx := len(*bindings)
	for i, b := range *bindings {
		if name(b) == target {
			idx = i
			break
		}
	}
	*bindings = append(*bindings, bind)
	copy((*bindings)[idx+1:], (*bindings)[idx:])
	(*bindings)[idx] = bind
}

// FindVariable/FindType/FindMutability walk the scope chain from scopeId
// outward, marking the hit Unused=false (scope.cpp's do_find returns a
// mutable pointer for exactly this purpose).
func (a *Arena) FindVariable(scopeId ScopeId, name string) (LocalVariableId, bool) {
	for {
		scope := a.Scope(scopeId)
		for i := range scope.Variables {
			if scope.Variables[i].Name == name {
				scope.Variables[i].Unused = false
				return scope.Variables[i].Local, true
			}
		}
		if !scope.HasParent {
			return 0, false
		}
		scopeId = scope.ParentId
	}
}

func (a *Arena) FindType(scopeId ScopeId, name string) (LocalTypeId, bool) {
	for {
		scope := a.Scope(scopeId)
		for i := range scope.Types {
			if scope.Types[i].Name == name {
				scope.Types[i].Unused = false
				return scope.Types[i].Local, true
			}
		}
		if !scope.HasParent {
			return 0, false
		}
		scopeId = scope.ParentId
	}
}

func (a *Arena) FindMutability(scopeId ScopeId, name string) (LocalMutabilityId, bool) {
	for {
		scope := a.Scope(scopeId)
		for i := range scope.Mutabilities {
			if scope.Mutabilities[i].Name == name {
				scope.Mutabilities[i].Unused = false
				return scope.Mutabilities[i].Local, true
			}
		}
		if !scope.HasParent {
			return 0, false
		}
		scopeId = scope.ParentId
	}
}

// UnusedWarning is what ReportUnused produces for each binding whose
// identifier doesn't start with "_" and was never looked up (spec.md
// §4.4 "Unused warnings").
type UnusedWarning struct {
	Name  string
	Range source.Range
}

// ReportUnused collects warnings for every still-unused binding in scope,
// mirroring scope.cpp's do_report_unused_bindings over all three binding
// kinds.
func ReportUnused(s *Scope) []UnusedWarning {
	var warnings []UnusedWarning
	for _, b := range s.Variables {
		if b.Unused {
			warnings = append(warnings, UnusedWarning{Name: b.Name, Range: b.Range})
		}
	}
	for _, b := range s.Types {
		if b.Unused {
			warnings = append(warnings, UnusedWarning{Name: b.Name, Range: b.Range})
		}
	}
	for _, b := range s.Mutabilities {
		if b.Unused {
			warnings = append(warnings, UnusedWarning{Name: b.Name, Range: b.Range})
		}
	}
	return warnings
}
