package hir

import "github.com/kieli-lang/kieli/internal/source"

// Expr is a resolved, type-attached expression node. Every variant carries
// a Range and a Type (spec.md §3.4 "HIR invariants": "every expression,
// pattern, and type carries a TypeId and a Range").
type Expr interface {
	Range() source.Range
	ExprType() TypeId
	hirExpr()
}

type Base struct {
	R source.Range
	T TypeId
}

func (b Base) Range() source.Range { return b.R }
func (b Base) ExprType() TypeId    { return b.T }

type IntLiteral struct {
	Base
	Text string
}
type FloatLiteral struct {
	Base
	Text string
}
type StringLiteral struct {
	Base
	Value string
}
type CharLiteral struct {
	Base
	Value rune
}
type BoolLiteral struct {
	Base
	Value bool
}

// VariableReference is a resolved path that ended in a local variable
// binding, distinguishing shadowed bindings via their LocalVariableId tag
// (spec.md §3.4: "every local binding is tagged with a fresh
// LocalVariableId... so references are disambiguated from any
// shadowing").
type VariableReference struct {
	Base
	Local LocalVariableId
}

// SymbolReference is a resolved path that ended in a document-level symbol
// (function, alias, module, enumeration constructor).
type SymbolReference struct {
	Base
	Symbol Symbol
}

type TupleExpr struct {
	Base
	Elements []ExprId
}
type BlockExpr struct {
	Base
	Statements []ExprId
}
type UnaryExpr struct {
	Base
	Op      string
	Operand ExprId
}
type ReferenceExpr struct {
	Base
	Mutability MutabilityId
	Operand    ExprId
}
type DerefExpr struct {
	Base
	Operand ExprId
}
type BinaryExpr struct {
	Base
	Op    string
	Left  ExprId
	Right ExprId
}
type AssignExpr struct {
	Base
	Op    string
	Left  ExprId
	Right ExprId
}
type CallExpr struct {
	Base
	Callee ExprId
	Args   []ExprId
}

// MethodCallExpr survives into HIR only as the error case: a successful
// resolve rewrites a.f(args) into a CallExpr over a resolved
// SymbolReference to the chosen impl method (spec.md §4.3's method-call
// sugar table entry: "a call whose callee is a path-resolved method").
type MethodCallExpr struct {
	Base
	Receiver ExprId
	Name     string
	Args     []ExprId
}
type FieldExpr struct {
	Base
	Receiver ExprId
	Name     string
}
type IfExpr struct {
	Base
	Cond ExprId
	Then ExprId
	Else ExprId
}
type LoopExpr struct {
	Base
	Body ExprId
}
type BreakExpr struct {
	Base
	Value    ExprId
	HasValue bool
}
type ContinueExpr struct{ Base }
type ReturnExpr struct {
	Base
	Value    ExprId
	HasValue bool
}
type MatchExpr struct {
	Base
	Subject ExprId
	Arms    []MatchArm
}
type MatchArm struct {
	Pattern PatternId
	Body    ExprId
}

// LetExpr binds Pattern to the resolved value; the pattern's bindings are
// already registered in the scope active at resolution time.
type LetExpr struct {
	Base
	Pattern PatternId
	Value   ExprId
}
type SizeofExpr struct {
	Base
	Of TypeId
}
type ErrorExpr struct{ Base }

func (IntLiteral) hirExpr()        {}
func (FloatLiteral) hirExpr()      {}
func (StringLiteral) hirExpr()     {}
func (CharLiteral) hirExpr()       {}
func (BoolLiteral) hirExpr()       {}
func (VariableReference) hirExpr() {}
func (SymbolReference) hirExpr()   {}
func (TupleExpr) hirExpr()         {}
func (BlockExpr) hirExpr()         {}
func (UnaryExpr) hirExpr()         {}
func (ReferenceExpr) hirExpr()     {}
func (DerefExpr) hirExpr()         {}
func (BinaryExpr) hirExpr()        {}
func (AssignExpr) hirExpr()        {}
func (CallExpr) hirExpr()          {}
func (MethodCallExpr) hirExpr()    {}
func (FieldExpr) hirExpr()         {}
func (IfExpr) hirExpr()            {}
func (LoopExpr) hirExpr()          {}
func (BreakExpr) hirExpr()         {}
func (ContinueExpr) hirExpr()      {}
func (ReturnExpr) hirExpr()        {}
func (MatchExpr) hirExpr()         {}
func (LetExpr) hirExpr()           {}
func (SizeofExpr) hirExpr()        {}
func (ErrorExpr) hirExpr()         {}

// Pattern is a resolved pattern node; it too carries a type (the type the
// pattern must match) per spec.md §3.4.
type Pattern interface {
	Range() source.Range
	PatternType() TypeId
	hirPattern()
}

type PatternBase struct {
	R source.Range
	T TypeId
}

func (b PatternBase) Range() source.Range  { return b.R }
func (b PatternBase) PatternType() TypeId { return b.T }

type WildcardPattern struct{ PatternBase }

// BindPattern introduces (or shadows) a local variable, per spec.md
// §4.5 "Pattern inference": "binding patterns introduce Variable_bind
// {name, type, mutability, tag} into the enclosing scope".
type BindPattern struct {
	PatternBase
	Local LocalVariableId
}
type TuplePattern struct {
	PatternBase
	Elements []PatternId
}
type LiteralPattern struct {
	PatternBase
	Text string
}

// ConstructorPattern matches an enumeration case (resolved from an
// upper-case path) with optional payload sub-patterns.
type ConstructorPattern struct {
	PatternBase
	Info EnumerationInfoId
	Case int
	Args []PatternId
}
type ErrorPattern struct{ PatternBase }

func (WildcardPattern) hirPattern()    {}
func (BindPattern) hirPattern()        {}
func (TuplePattern) hirPattern()       {}
func (LiteralPattern) hirPattern()     {}
func (ConstructorPattern) hirPattern() {}
func (ErrorPattern) hirPattern()       {}
