package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseOpenDocumentAssignsStableIds(t *testing.T) {
	db := NewDatabase()

	idA := db.OpenDocument("a.ki", "let x = 1;")
	idB := db.OpenDocument("b.ki", "let y = 2;")

	assert.NotEqual(t, idA, idB)
	assert.Equal(t, "a.ki", db.Document(idA).Path)
	assert.Equal(t, "let y = 2;", db.Document(idB).Text)
}

func TestDatabaseOpenDocumentReplacesTextAtSamePath(t *testing.T) {
	db := NewDatabase()

	id := db.OpenDocument("a.ki", "let x = 1;")
	db.Document(id).Report(Diagnostic{Severity: SeverityError, Message: "boom"})

	again := db.OpenDocument("a.ki", "let x = 2;")

	assert.Equal(t, id, again, "re-opening the same path must reuse the DocumentId")
	assert.Equal(t, "let x = 2;", db.Document(id).Text)
	assert.Empty(t, db.Document(id).Diagnostics, "didChange clears the previous revision's diagnostics")
}

func TestDatabaseLookup(t *testing.T) {
	db := NewDatabase()
	id := db.OpenDocument("a.ki", "")

	got, ok := db.Lookup("a.ki")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = db.Lookup("missing.ki")
	assert.False(t, ok)
}

func TestDatabaseCloseDocumentDropsPathButKeepsSlot(t *testing.T) {
	db := NewDatabase()
	id := db.OpenDocument("a.ki", "let x = 1;")

	db.CloseDocument(id)

	_, ok := db.Lookup("a.ki")
	assert.False(t, ok)
	assert.NotPanics(t, func() { db.Document(id) })
}

func TestTextDocumentReportAndHasErrors(t *testing.T) {
	db := NewDatabase()
	id := db.OpenDocument("a.ki", "let x = 1;")
	doc := db.Document(id)

	assert.False(t, doc.HasErrors())

	doc.Report(Diagnostic{Severity: SeverityWarning, Message: "unused"})
	assert.False(t, doc.HasErrors(), "a warning alone is not an error")

	doc.Report(Diagnostic{Severity: SeverityError, Message: "unresolved name \"z\""})
	assert.True(t, doc.HasErrors())
	assert.Len(t, doc.Diagnostics, 2)
}

func TestTextDocumentEditUpdatesText(t *testing.T) {
	db := NewDatabase()
	id := db.OpenDocument("a.ki", "let x = 1;")
	doc := db.Document(id)

	doc.Edit(Range{Start: Position{Line: 0, Column: 8}, Stop: Position{Line: 0, Column: 9}}, "42")

	assert.Equal(t, "let x = 42;", doc.Text)
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityHint, "hint"},
		{SeverityInformation, "information"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.sev.String())
	}
}
