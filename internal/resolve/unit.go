// Package resolve implements the two-phase name resolver (spec.md §4.4,
// component G): Collect walks a document's top-level definitions in
// source order and registers each in its owning environment; Resolve is
// driven on-demand per symbol, resolving signatures and bodies and
// invoking internal/types for every unification along the way.
//
// Grounded on original_source/src/libresolve/libresolve/{collect.cpp,
// scope.cpp} for the collection/binding shapes, and on
// src/libresolve/libresolve/resolve*.cpp (method.cpp, resolve_type.cpp,
// resolve_pattern.cpp) for the resolve-phase dispatch shape, generalized
// into per-kind Go functions rather than the original's visitor-struct
// idiom (Go has no operator() overload set; a type switch plays the same
// role, matching the style already used in internal/ast/desugar.go).
package resolve

import (
	"github.com/kieli-lang/kieli/internal/ast"
	"github.com/kieli-lang/kieli/internal/cst"
	"github.com/kieli-lang/kieli/internal/hir"
	"github.com/kieli-lang/kieli/internal/source"
)

// Unit ties one document's full derived-tree chain together. spec.md §3.2
// describes the CST/AST/HIR arenas and symbol table as fields directly on
// Document; they live here instead so internal/source never needs to
// import internal/hir/ast/cst (see DESIGN.md for the avoided import
// cycle).
type Unit struct {
	Doc     *source.TextDocument
	Tree    *cst.Tree
	AST     *ast.Arena
	Program ast.Program
	HIR     *hir.Arena
	RootEnv hir.EnvironmentId

	// Importer resolves `import a::b;` segments to another document's
	// Unit (spec.md §4.4 "Import": "a collaborator hook maps a
	// name-sequence to a DocumentId"). Nil means imports always fail.
	Importer Importer
}

// Importer is the collaborator hook a host (CLI, LSP) supplies to let the
// resolver cross into another document's environment.
type Importer interface {
	Import(segments []string) (*Unit, bool)
}

// NewUnit lexes, parses, and desugars doc, producing a Unit ready for
// Collect. It does not resolve anything.
func NewUnit(doc *source.TextDocument) *Unit {
	tree := cst.ParseProgram(doc)
	arena, program := ast.DesugarProgram(tree)
	return &Unit{Doc: doc, Tree: tree, AST: arena, Program: program, HIR: hir.NewArena()}
}

// Compile runs the full core pipeline (collect, then resolve every
// top-level symbol in collection order) over an already-parsed Unit,
// matching spec.md §5's "Ordering": "resolution processes symbols in the
// order they were collected."
func Compile(u *Unit) {
	Collect(u)
	ResolveAll(u)
}
