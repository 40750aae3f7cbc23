package hir

import (
	"github.com/kieli-lang/kieli/internal/ast"
	"github.com/kieli-lang/kieli/internal/source"
)

// SymbolKind tags which info table a Symbol's Index refers into, mirroring
// spec.md §3.5's "tagged sum of {error, function, enumeration, concept,
// alias, module, local_variable, local_mutability, local_type}".
type SymbolKind int

const (
	SymbolError SymbolKind = iota
	SymbolFunction
	SymbolEnumeration
	SymbolConcept
	SymbolAlias
	SymbolModule
	SymbolLocalVariable
	SymbolLocalMutability
	SymbolLocalType

	// SymbolEnumerationCase names a specific case of an enumeration reached
	// by stepping a path through it (e.g. `Option::Some`), distinct from
	// SymbolEnumeration (which names the enumeration itself): Index is the
	// EnumerationInfoId, Case the index into its Cases slice.
	SymbolEnumerationCase
)

// Symbol is a tagged reference to a named entity; owned by the document's
// info tables and referenced by SymbolId wherever a HIR node needs to
// point at one (spec.md §3.5).
type Symbol struct {
	Kind  SymbolKind
	Index uint32
	Case  int32 // valid only when Kind == SymbolEnumerationCase
}

func (s Symbol) FunctionId() FunctionInfoId       { return FunctionInfoId(s.Index) }
func (s Symbol) EnumerationId() EnumerationInfoId { return EnumerationInfoId(s.Index) }
func (s Symbol) ConceptId() ConceptInfoId         { return ConceptInfoId(s.Index) }
func (s Symbol) AliasId() AliasInfoId             { return AliasInfoId(s.Index) }
func (s Symbol) ModuleId() ModuleInfoId           { return ModuleInfoId(s.Index) }
func (s Symbol) LocalVariableId() LocalVariableId { return LocalVariableId(s.Index) }

// EnumerationCase unpacks a SymbolEnumerationCase into the enumeration it
// belongs to and the case's index within it.
func (s Symbol) EnumerationCase() (EnumerationInfoId, int) { return EnumerationInfoId(s.Index), int(s.Case) }

// ResolutionState tracks on-demand resolution progress for a top-level
// info slot. CurrentlyResolving breaks import/reference cycles: re-entry
// while in this state is reported as an error rather than recursing
// forever (spec.md §4.4 "Import": "cycles are broken by marking an info
// slot currently_resolving during its resolution and emitting an error on
// re-entry").
type ResolutionState int

const (
	Unresolved ResolutionState = iota
	CurrentlyResolving
	Resolved
)

// FunctionInfo holds everything collected about one function definition
// (or impl/concept method) before and after resolution. The AST is stored
// by value rather than by ast.DefId because impl/concept methods are
// embedded FnDef values, never pushed into the owning document's own
// Defs arena (see ast.ImplDef.Methods / ast.ConceptDef.Methods).
type FunctionInfo struct {
	Name          string
	NameRange     source.Range
	AST           ast.FnDef
	EnvironmentId EnvironmentId
	DocumentId    source.DocumentId
	State         ResolutionState

	// OuterTemplate holds the owning impl block's template parameters (e.g.
	// `T` from `impl Box[T]`), visible inside the method's signature and
	// body alongside its own Template.
	OuterTemplate []TemplateParameterInfo

	Template []TemplateParameterInfo
	Params   []ParameterInfo
	HasRet   bool
	Return   TypeId
	Body     ExprId
	HasBody  bool
}

type TemplateParameterInfo struct {
	Name string
	Tag  UnificationVariableTag
}

type ParameterInfo struct {
	Name string
	Type TypeId
}

// EnumerationInfo holds a collected enum *or* struct definition; collect.cpp
// pushes both into the same enumerations table (a struct is modeled as a
// single-case enumeration whose one case carries the struct's fields as
// payload, with field names recovered from IsStruct/FieldNames).
type EnumerationInfo struct {
	Name          string
	NameRange     source.Range
	AST           ast.Def // ast.StructDef when IsStruct, ast.EnumDef otherwise
	EnvironmentId EnvironmentId
	DocumentId    source.DocumentId
	State         ResolutionState

	Template   []TemplateParameterInfo
	IsStruct   bool
	FieldNames []string // populated only when IsStruct
	Cases      []EnumerationCase
}

type EnumerationCase struct {
	Name    string
	Payload []TypeId
}

type ConceptInfo struct {
	Name          string
	NameRange     source.Range
	EnvironmentId EnvironmentId
	DocumentId    source.DocumentId
	State         ResolutionState

	Methods []FunctionInfoId
}

type AliasInfo struct {
	Name          string
	NameRange     source.Range
	AST           ast.AliasDef
	EnvironmentId EnvironmentId
	DocumentId    source.DocumentId
	State         ResolutionState

	Template []TemplateParameterInfo
	Target   TypeId
}

type ModuleInfo struct {
	Name          string
	EnvironmentId EnvironmentId
	DocumentId    source.DocumentId
	Inner         EnvironmentId
}

// ImplInfo is not itself a Symbol (impl blocks are anonymous): it is
// consulted only by method lookup (spec.md §4.5.1), linearly, in
// collection order.
type ImplInfo struct {
	AST           ast.ImplDef
	EnvironmentId EnvironmentId
	DocumentId    source.DocumentId
	State         ResolutionState

	Template []TemplateParameterInfo
	SelfType TypeId
	Methods  []FunctionInfoId
}

// LocalVariableInfo is the resolved counterpart of a scope.cpp
// Variable_bind: name, range, type and mutability. Whether the binding is
// used is tracked on the scope's binding entry (env.go), not here.
type LocalVariableInfo struct {
	Name       string
	Range      source.Range
	Type       TypeId
	Mutability MutabilityId
}

type LocalMutabilityInfo struct {
	Name string
	Tag  UnificationVariableTag
}

type LocalTypeInfo struct {
	Name string
	Tag  UnificationVariableTag
}

func (a *Arena) PushFunction(f *FunctionInfo) FunctionInfoId {
	id := FunctionInfoId(len(a.Functions))
	a.Functions = append(a.Functions, f)
	return id
}
func (a *Arena) Function(id FunctionInfoId) *FunctionInfo { return a.Functions[id] }

func (a *Arena) PushEnumeration(e *EnumerationInfo) EnumerationInfoId {
	id := EnumerationInfoId(len(a.Enumerations))
	a.Enumerations = append(a.Enumerations, e)
	return id
}
func (a *Arena) Enumeration(id EnumerationInfoId) *EnumerationInfo { return a.Enumerations[id] }

func (a *Arena) PushConcept(c *ConceptInfo) ConceptInfoId {
	id := ConceptInfoId(len(a.Concepts))
	a.Concepts = append(a.Concepts, c)
	return id
}
func (a *Arena) Concept(id ConceptInfoId) *ConceptInfo { return a.Concepts[id] }

func (a *Arena) PushAlias(al *AliasInfo) AliasInfoId {
	id := AliasInfoId(len(a.Aliases))
	a.Aliases = append(a.Aliases, al)
	return id
}
func (a *Arena) Alias(id AliasInfoId) *AliasInfo { return a.Aliases[id] }

func (a *Arena) PushModule(m *ModuleInfo) ModuleInfoId {
	id := ModuleInfoId(len(a.Modules))
	a.Modules = append(a.Modules, m)
	return id
}
func (a *Arena) Module(id ModuleInfoId) *ModuleInfo { return a.Modules[id] }

func (a *Arena) PushImpl(im *ImplInfo) ImplInfoId {
	id := ImplInfoId(len(a.Impls))
	a.Impls = append(a.Impls, im)
	return id
}
func (a *Arena) Impl(id ImplInfoId) *ImplInfo { return a.Impls[id] }

func (a *Arena) PushLocalVariable(v LocalVariableInfo) LocalVariableId {
	id := LocalVariableId(len(a.LocalVariables))
	a.LocalVariables = append(a.LocalVariables, v)
	return id
}
func (a *Arena) LocalVariable(id LocalVariableId) LocalVariableInfo { return a.LocalVariables[id] }

func (a *Arena) PushLocalType(t LocalTypeInfo) LocalTypeId {
	id := LocalTypeId(len(a.LocalTypes))
	a.LocalTypes = append(a.LocalTypes, t)
	return id
}
func (a *Arena) LocalType(id LocalTypeId) LocalTypeInfo { return a.LocalTypes[id] }

func (a *Arena) PushLocalMutability(m LocalMutabilityInfo) LocalMutabilityId {
	id := LocalMutabilityId(len(a.LocalMutabilities))
	a.LocalMutabilities = append(a.LocalMutabilities, m)
	return id
}
func (a *Arena) LocalMutability(id LocalMutabilityId) LocalMutabilityInfo {
	return a.LocalMutabilities[id]
}
