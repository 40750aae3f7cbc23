package hir

// Type is the tagged sum of every HIR type variant, mirroring
// original_source's hir::Type_variant (occurs_check.cpp enumerates the
// same set: Variable, Array, Slice, Reference, Pointer, Function, Tuple,
// Enumeration, Integer, Floating, Character, Boolean, String,
// Parameterized, Error).
type Type interface {
	typeNode()
}

// Arena owns every HIR node produced while resolving one document: typed
// trees (Exprs/Patterns/Types/Mutabilities), the unification variable
// state, and the symbol/environment/scope tables. Grow-only for the
// lifetime of the document (spec.md §5 "Arena discipline"); scopes are no
// exception and stay in the Scopes slice once created.
type Arena struct {
	Exprs        []Expr
	Patterns     []Pattern
	Types        []Type
	Mutabilities []Mutability

	Functions    []*FunctionInfo
	Enumerations []*EnumerationInfo
	Concepts     []*ConceptInfo
	Aliases      []*AliasInfo
	Modules      []*ModuleInfo
	Impls        []*ImplInfo

	Environments []*Environment
	Scopes       []*Scope

	LocalVariables    []LocalVariableInfo
	LocalTypes        []LocalTypeInfo
	LocalMutabilities []LocalMutabilityInfo

	Unify UnificationState
}

func NewArena() *Arena {
	return &Arena{Unify: newUnificationState()}
}

func (a *Arena) PushExpr(e Expr) ExprId {
	id := ExprId(len(a.Exprs))
	a.Exprs = append(a.Exprs, e)
	return id
}
func (a *Arena) Expr(id ExprId) Expr { return a.Exprs[id] }

func (a *Arena) PushPattern(p Pattern) PatternId {
	id := PatternId(len(a.Patterns))
	a.Patterns = append(a.Patterns, p)
	return id
}
func (a *Arena) Pattern(id PatternId) Pattern { return a.Patterns[id] }

func (a *Arena) PushType(t Type) TypeId {
	id := TypeId(len(a.Types))
	a.Types = append(a.Types, t)
	return id
}
func (a *Arena) Type(id TypeId) Type { return a.Types[id] }
func (a *Arena) SetType(id TypeId, t Type) { a.Types[id] = t }

func (a *Arena) PushMutability(m Mutability) MutabilityId {
	id := MutabilityId(len(a.Mutabilities))
	a.Mutabilities = append(a.Mutabilities, m)
	return id
}
func (a *Arena) Mutability(id MutabilityId) Mutability { return a.Mutabilities[id] }
func (a *Arena) SetMutability(id MutabilityId, m Mutability) { a.Mutabilities[id] = m }

// Mutability is the HIR counterpart of ast.Mutability: either a resolved
// constant (mut/immut) or a reference to a local mutability binding
// introduced by a template parameter.
type Mutability interface {
	mutabilityNode()
}

type ConcreteMutability struct{ Mut bool }
type MutabilityVariable struct{ Id MutabilityVariableId }
type MutabilityParameter struct{ Local LocalMutabilityId }

func (ConcreteMutability) mutabilityNode()  {}
func (MutabilityVariable) mutabilityNode()  {}
func (MutabilityParameter) mutabilityNode() {}

// ---- Type variants ----

type TypeVariable struct{ Id TypeVariableId }

type IntegerType struct{ Bits int; Signed bool }
type FloatingType struct{}
type CharacterType struct{}
type BooleanType struct{}
type StringType struct{}
type ErrorType struct{}

// Parameterized is a reference to a template parameter in scope (e.g. `T`
// inside `fn identity[T](x: T) -> T`), distinct from a unification
// variable: it never gets solved, per spec.md §4.5 "Template parameters".
type Parameterized struct {
	Name string
	Tag  UnificationVariableTag
}

type ArrayType struct {
	Element TypeId
	Length  ExprId
}
type SliceType struct{ Element TypeId }
type ReferenceType struct {
	Mutability MutabilityId
	Referenced TypeId
}
type PointerType struct {
	Mutability MutabilityId
	Pointee    TypeId
}
type TupleType struct{ Elements []TypeId }
type FunctionType struct {
	Params []TypeId
	Return TypeId
}

// Enumeration is a concrete nominal type referencing a collected
// enumeration (or struct, which is stored in the same info table per
// collect.cpp's handling of struct/enum with a shared info shape) plus its
// instantiated template arguments.
type EnumerationType struct {
	Info EnumerationInfoId
	Args []TypeId
}

func (TypeVariable) typeNode()    {}
func (IntegerType) typeNode()     {}
func (FloatingType) typeNode()    {}
func (CharacterType) typeNode()   {}
func (BooleanType) typeNode()     {}
func (StringType) typeNode()      {}
func (ErrorType) typeNode()       {}
func (Parameterized) typeNode()   {}
func (ArrayType) typeNode()       {}
func (SliceType) typeNode()       {}
func (ReferenceType) typeNode()   {}
func (PointerType) typeNode()     {}
func (TupleType) typeNode()       {}
func (FunctionType) typeNode()    {}
func (EnumerationType) typeNode() {}
