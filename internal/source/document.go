package source

import "github.com/kieli-lang/kieli/internal/intern"

// DocumentId indexes a document within a Database.
type DocumentId uint32

// Severity is one of the four diagnostic severities spec.md §6.4 names.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHint
	SeverityInformation
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "hint"
	case SeverityInformation:
		return "information"
	default:
		return "unknown"
	}
}

// Tag marks a diagnostic as unnecessary code or use of a deprecated item,
// mirroring the LSP DiagnosticTag enumeration spec.md §6.4 references.
type Tag int

const (
	TagNone Tag = iota
	TagUnnecessary
	TagDeprecated
)

// RelatedNote is a secondary (message, location) pair attached to a
// diagnostic, e.g. pointing at the other definition in a duplicate-name
// error.
type RelatedNote struct {
	Message  string
	Location Location
}

// Diagnostic is a value, never a thrown error: every phase appends these to
// a document instead of transferring control. See spec.md §6.4 and §7.
type Diagnostic struct {
	Severity Severity
	Message  string
	Range    Range
	Related  []RelatedNote
	Tag      Tag
}

// SemanticTokenKind classifies a token for editor syntax highlighting, per
// the color table in spec.md §6.2.
type SemanticTokenKind int

const (
	TokenColorNone SemanticTokenKind = iota
	TokenColorNumber
	TokenColorString
	TokenColorComment
	TokenColorVariable
	TokenColorFunction
	TokenColorType
	TokenColorKeyword
	TokenColorOperator
)

// SemanticToken is one entry in a document's semantic-token sink.
type SemanticToken struct {
	Range     Range
	Kind      SemanticTokenKind
	Modifiers uint32
}

// Reference records a resolved use of a symbol, keyed by the symbol's id in
// whichever document defines it. SymbolId is declared as intern.StringId's
// sibling integer type in internal/hir; it is carried here as a raw uint32
// to avoid a source -> hir import cycle (hir already imports source for
// Range/DocumentId).
type Reference struct {
	Symbol uint32
	Range  Range
}

// TextDocument holds everything the data model calls "ambient": path, full
// text, the diagnostics arena, and the semantic-token / reference sinks.
// The CST/AST/HIR arenas and symbol table live one level up, in
// internal/resolve.Unit, which is constructed from a TextDocument: source
// text never needs to know the shape of the trees built over it.
type TextDocument struct {
	ID             DocumentId
	Path           string
	Text           string
	Diagnostics    []Diagnostic
	SemanticTokens []SemanticToken
	References     []Reference
}

// Report appends a diagnostic to the document.
func (d *TextDocument) Report(diag Diagnostic) {
	d.Diagnostics = append(d.Diagnostics, diag)
}

// HasErrors reports whether any diagnostic in the document is an error,
// the basis for the "compiled with errors" status spec.md §5 describes.
func (d *TextDocument) HasErrors() bool {
	for _, diag := range d.Diagnostics {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Edit applies a single textual edit to the document in place, per the
// didChange contract (spec.md §6.5) and unit scenario 10 (spec.md §8.2).
func (d *TextDocument) Edit(r Range, replacement string) {
	d.Text = EditText(d.Text, r, replacement)
}

// Database owns the string pool and the document table for the lifetime of
// a compilation (components A and B). It is single-revision per request:
// re-running the pipeline on a document replaces its diagnostics/sinks in
// place rather than layering incremental edits, per the Non-goal in
// spec.md §1.
type Database struct {
	Pool      *intern.Pool
	documents []*TextDocument
	byPath    map[string]DocumentId
}

// NewDatabase constructs an empty database with a fresh string pool.
func NewDatabase() *Database {
	return &Database{
		Pool:   intern.New(),
		byPath: make(map[string]DocumentId),
	}
}

// OpenDocument registers path/text as a new document, or replaces the text
// of an already-open document at the same path (the didOpen/didChange
// collaborator hook).
func (db *Database) OpenDocument(path, text string) DocumentId {
	if id, ok := db.byPath[path]; ok {
		doc := db.documents[id]
		doc.Text = text
		doc.Diagnostics = nil
		doc.SemanticTokens = nil
		doc.References = nil
		return id
	}
	id := DocumentId(len(db.documents))
	db.documents = append(db.documents, &TextDocument{ID: id, Path: path, Text: text})
	db.byPath[path] = id
	return id
}

// Document returns the document stored at id.
func (db *Database) Document(id DocumentId) *TextDocument {
	return db.documents[id]
}

// CloseDocument unregisters a document's path but keeps its slot, text
// and sinks (ids are stable for the database's lifetime, per the arena
// discipline rule).
func (db *Database) CloseDocument(id DocumentId) {
	doc := db.documents[id]
	delete(db.byPath, doc.Path)
}

// Lookup returns the DocumentId already open at path, if any.
func (db *Database) Lookup(path string) (DocumentId, bool) {
	id, ok := db.byPath[path]
	return id, ok
}
