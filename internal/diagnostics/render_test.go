package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kieli-lang/kieli/internal/source"
)

func sampleDoc() *source.TextDocument {
	db := source.NewDatabase()
	id := db.OpenDocument("a.ki", "let x = 1;\nlet y = x + z;\n")
	doc := db.Document(id)
	doc.Report(source.Diagnostic{
		Severity: source.SeverityError,
		Message:  "unresolved name `z`",
		Range: source.Range{
			Start: source.Position{Line: 1, Column: 12},
			Stop:  source.Position{Line: 1, Column: 13},
		},
	})
	doc.Report(source.Diagnostic{
		Severity: source.SeverityWarning,
		Message:  "unused variable `y`",
		Range: source.Range{
			Start: source.Position{Line: 1, Column: 4},
			Stop:  source.Position{Line: 1, Column: 5},
		},
		Tag: source.TagUnnecessary,
	})
	return doc
}

func TestRenderTerminalIncludesMessageAndLocation(t *testing.T) {
	out := RenderTerminal(sampleDoc())

	assert.Contains(t, out, "unresolved name `z`")
	assert.Contains(t, out, "a.ki:2:13")
	assert.Contains(t, out, "let y = x + z;")
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		doc  func() *source.TextDocument
		want []string
	}{
		{
			name: "counts by severity",
			doc:  sampleDoc,
			want: []string{"1 error(s)", "1 warning(s)"},
		},
		{
			name: "clean document",
			doc: func() *source.TextDocument {
				db := source.NewDatabase()
				id := db.OpenDocument("clean.ki", "let x = 1;\n")
				return db.Document(id)
			},
			want: []string{"no errors"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summary(tt.doc())
			for _, want := range tt.want {
				assert.Contains(t, s, want)
			}
		})
	}
}

func TestReportClassifiesBySeverity(t *testing.T) {
	r := Report(sampleDoc())

	assert.Equal(t, "error", r.Status)
	assert.Len(t, r.Errors, 1)
	assert.Len(t, r.Warnings, 1)
	assert.Equal(t, 2, r.Summary.TotalCount)
}
