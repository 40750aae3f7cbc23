// Package hir defines the high-level intermediate representation produced
// by name resolution and type inference (spec.md §3.4 "HIR invariants",
// §3.5 "Symbols and environments", §3.6 "Unification state"). Every
// expression, pattern, and type here carries a TypeId and a Range; every
// path has already been resolved to a SymbolId.
//
// Grounded on original_source/src/libresolve/libresolve/{hir.hpp (via
// unification.hpp), scope.cpp, collect.cpp} and occurs_check.cpp for the
// Type variant shapes. Symbol/environment/scope bindings follow scope.cpp's
// Identifier_map-of-pairs design, realized here as ordered Go slices.
package hir

// Typed index types, never interchangeable, following the same
// Vector_index<Tag, Integral> phantom-tag discipline as internal/ast and
// internal/cst.
type (
	SymbolId               uint32
	EnvironmentId          uint32
	ScopeId                uint32
	ExprId                 uint32
	PatternId               uint32
	TypeId                 uint32
	MutabilityId            uint32
	LocalVariableId         uint32
	LocalTypeId             uint32
	LocalMutabilityId       uint32
	FunctionInfoId          uint32
	EnumerationInfoId       uint32
	ConceptInfoId           uint32
	AliasInfoId             uint32
	ModuleInfoId            uint32
	ImplInfoId              uint32
	UnificationVariableTag  uint32
	TypeVariableId          uint32
	MutabilityVariableId    uint32
)
