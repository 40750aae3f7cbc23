// Package cst implements the concrete syntax tree arena and the
// recursive-descent parser that builds it. Each node records its kind, its
// source range, the token that defines it (a name, a literal, an operator)
// and, in Aux, optional punctuation tokens. The tree does not keep every
// token: delimiters, commas, semicolons and keywords are consumed without
// being stored, so the source text cannot be rebuilt from the tree alone.
package cst

import (
	"github.com/kieli-lang/kieli/internal/arena"
	"github.com/kieli-lang/kieli/internal/lexer"
	"github.com/kieli-lang/kieli/internal/source"
)

// NodeId indexes into a Tree's single node arena. Every CST node kind --
// expression, pattern, type, statement, definition -- lives in the same
// arena; callers fetch a Node with Tree.Get and switch on its Kind. This
// is the Go realization of the "typed
// indices, never pointers" rule (spec.md §3.4): NodeId plays the role the
// original's per-category Index_vector plays, collapsed into one arena
// because Go has no cheap equivalent of a tagged union of arenas.
type NodeId uint32

// OptToken models spec.md §3.4's `Option<Token>`: a punctuation-carrying
// field (a colon before a type annotation, an `=` before a default
// argument) whose presence or absence must itself be preserved losslessly.
type OptToken struct {
	Present bool
	Token   lexer.Token
}

// Kind tags every node stored in a Tree's arena.
type Kind int

const (
	KindError Kind = iota

	// Literals and names.
	KindIntLiteral
	KindFloatLiteral
	KindStringLiteral
	KindCharLiteral
	KindBoolLiteral
	KindPathExpr
	KindUnderscoreExpr

	// Expressions.
	KindParenExpr
	KindTupleExpr
	KindBlockExpr
	KindUnaryExpr
	KindBinaryExpr
	KindCallExpr
	KindFieldExpr
	KindMethodCallExpr
	KindIfExpr
	KindIfLetExpr
	KindWhileExpr
	KindWhileLetExpr
	KindLoopExpr
	KindBreakExpr
	KindContinueExpr
	KindReturnExpr
	KindMatchExpr
	KindMatchArm
	KindLetExpr
	KindDiscardExpr
	KindAssignExpr
	KindTypeofExpr
	KindSizeofExpr
	KindReferenceExpr
	KindDerefExpr

	// Patterns.
	KindWildcardPattern
	KindNamePattern
	KindTuplePattern
	KindLiteralPattern
	KindPathPattern

	// Types.
	KindNamedType
	KindArrayType
	KindSliceType
	KindReferenceType
	KindPointerType
	KindTupleType
	KindTypeofType
	KindFunctionType

	// Mutability.
	KindMutConcrete
	KindMutNamed

	// Top-level definitions.
	KindProgram
	KindFnDef
	KindStructDef
	KindFieldDef
	KindEnumDef
	KindEnumCaseDef
	KindAliasDef
	KindConceptDef
	KindImplDef
	KindModuleDef
	KindImportDef
	KindParameter
	KindTemplateParameter
)

var kindNames = map[Kind]string{
	KindError:          "Error",
	KindIntLiteral:     "IntLiteral",
	KindFloatLiteral:   "FloatLiteral",
	KindStringLiteral:  "StringLiteral",
	KindCharLiteral:    "CharLiteral",
	KindBoolLiteral:    "BoolLiteral",
	KindPathExpr:       "PathExpr",
	KindUnderscoreExpr: "UnderscoreExpr",
	KindParenExpr:      "ParenExpr",
	KindTupleExpr:      "TupleExpr",
	KindBlockExpr:      "BlockExpr",
	KindUnaryExpr:      "UnaryExpr",
	KindBinaryExpr:     "BinaryExpr",
	KindCallExpr:       "CallExpr",
	KindFieldExpr:      "FieldExpr",
	KindMethodCallExpr: "MethodCallExpr",
	KindIfExpr:         "IfExpr",
	KindIfLetExpr:      "IfLetExpr",
	KindWhileExpr:      "WhileExpr",
	KindWhileLetExpr:   "WhileLetExpr",
	KindLoopExpr:       "LoopExpr",
	KindBreakExpr:      "BreakExpr",
	KindContinueExpr:   "ContinueExpr",
	KindReturnExpr:     "ReturnExpr",
	KindMatchExpr:      "MatchExpr",
	KindMatchArm:       "MatchArm",
	KindLetExpr:        "LetExpr",
	KindDiscardExpr:    "DiscardExpr",
	KindAssignExpr:     "AssignExpr",
	KindTypeofExpr:     "TypeofExpr",
	KindSizeofExpr:     "SizeofExpr",
	KindReferenceExpr:  "ReferenceExpr",
	KindDerefExpr:      "DerefExpr",
	KindWildcardPattern: "WildcardPattern",
	KindNamePattern:     "NamePattern",
	KindTuplePattern:    "TuplePattern",
	KindLiteralPattern:  "LiteralPattern",
	KindPathPattern:     "PathPattern",
	KindNamedType:      "NamedType",
	KindArrayType:      "ArrayType",
	KindSliceType:      "SliceType",
	KindReferenceType:  "ReferenceType",
	KindPointerType:    "PointerType",
	KindTupleType:      "TupleType",
	KindTypeofType:     "TypeofType",
	KindFunctionType:   "FunctionType",
	KindMutConcrete: "MutConcrete",
	KindMutNamed:    "MutNamed",
	KindProgram:           "Program",
	KindFnDef:             "FnDef",
	KindStructDef:         "StructDef",
	KindFieldDef:          "FieldDef",
	KindEnumDef:           "EnumDef",
	KindEnumCaseDef:       "EnumCaseDef",
	KindAliasDef:          "AliasDef",
	KindConceptDef:        "ConceptDef",
	KindImplDef:           "ImplDef",
	KindModuleDef:         "ModuleDef",
	KindImportDef:         "ImportDef",
	KindParameter:         "Parameter",
	KindTemplateParameter: "TemplateParameter",
}

// String renders a Kind's name for diagnostics and tree dumps (kieli's own
// convention; the original implementation's visitor dispatch never needed
// a textual tag since C++'s switch-over-enum prints nothing).
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(?)"
}

// Node is the common shell every arena slot stores: a Kind tag, the
// source range it spans (covering its own tokens but not leading trivia,
// which belongs to the first token), and kind-specific data.
type Node struct {
	Kind     Kind
	Range    source.Range
	Token    lexer.Token // the node's defining token, when it has exactly one
	Children []NodeId
	Aux      []OptToken // punctuation presence flags, in a fixed per-Kind order
	Text     string     // literal text / path segment text, when applicable
}

// Tree owns the arena for one document's CST, plus the root Program node.
type Tree struct {
	arena *arena.Arena[NodeId, Node]
	Root  NodeId
}

// NewTree constructs an empty tree arena.
func NewTree() *Tree {
	return &Tree{arena: arena.New[NodeId, Node]()}
}

// Push allocates a new node and returns its id.
func (t *Tree) Push(n Node) NodeId {
	return t.arena.Push(n)
}

// Get returns the node stored at id.
func (t *Tree) Get(id NodeId) Node {
	return t.arena.Get(id)
}

// Len reports how many nodes are stored.
func (t *Tree) Len() int {
	return t.arena.Len()
}
