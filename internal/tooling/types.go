package tooling

import "github.com/kieli-lang/kieli/internal/source"

// Position represents a position in a document (zero-based for LSP
// compatibility).
type Position struct {
	Line      int
	Character int
}

// Range represents a range in a document.
type Range struct {
	Start Position
	End   Position
}

// Location represents a source location with URI and range.
type Location struct {
	URI   string
	Range Range
}

// fromSourceRange converts a source.Range (already zero-based, see
// internal/source/position.go) into a tooling.Range.
func fromSourceRange(r source.Range) Range {
	return Range{
		Start: Position{Line: r.Start.Line, Character: r.Start.Column},
		End:   Position{Line: r.Stop.Line, Character: r.Stop.Column},
	}
}

// Symbol represents a named entity in the source code.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Range Range

	// Type is the symbol's rendered HIR type, where applicable (functions:
	// signature; enumeration cases: payload types; variables: value type).
	Type string

	// ContainerName is the `::`-joined path of enclosing modules, or the
	// enumeration's name for an enumeration case; empty for module-root
	// symbols.
	ContainerName string

	Documentation string
	Signature     string
	Detail        string
}

// SymbolKind categorizes symbols for IDE display, mirroring
// internal/hir.SymbolKind's tagged sum rather than conduit's
// resource/field/hook vocabulary.
type SymbolKind int

const (
	SymbolKindFunction SymbolKind = iota
	SymbolKindEnumeration
	SymbolKindStruct
	SymbolKindEnumerationCase
	SymbolKindConcept
	SymbolKindAlias
	SymbolKindModule
	SymbolKindParameter
	SymbolKindVariable
)

// Hover represents hover information for a symbol.
type Hover struct {
	Contents string
	Range    Range
}

// CompletionItem represents a completion suggestion.
type CompletionItem struct {
	Label         string
	Kind          CompletionKind
	Detail        string
	Documentation string
	InsertText    string
	SortText      string
}

// CompletionKind categorizes completion items.
type CompletionKind int

const (
	CompletionKindKeyword CompletionKind = iota
	CompletionKindType
	CompletionKindFunction
	CompletionKindEnumerationCase
	CompletionKindModule
	CompletionKindVariable
)
