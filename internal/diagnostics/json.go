package diagnostics

import "github.com/kieli-lang/kieli/internal/source"

// jsonDiagnostic is the wire shape for one diagnostic, independent of
// source.Diagnostic's own field names so this package's output format
// doesn't shift every time that struct grows a field.
type jsonDiagnostic struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	EndLine  int    `json:"end_line"`
	EndCol   int    `json:"end_column"`
}

type jsonSummary struct {
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
	TotalCount   int `json:"total_count"`
}

// JSONReport is the per-document payload produced by Report for editor
// tooling or CI consumption, grounded on compiler/errors/json.go's
// status/errors/warnings/summary shape.
type JSONReport struct {
	Path     string           `json:"path"`
	Status   string           `json:"status"`
	Errors   []jsonDiagnostic `json:"errors"`
	Warnings []jsonDiagnostic `json:"warnings"`
	Summary  jsonSummary      `json:"summary"`
}

// Report builds doc's JSON-serializable diagnostic report.
func Report(doc *source.TextDocument) JSONReport {
	var errs, warns []jsonDiagnostic
	for _, d := range doc.Diagnostics {
		jd := jsonDiagnostic{
			Severity: d.Severity.String(),
			Message:  d.Message,
			Line:     d.Range.Start.Line,
			Column:   d.Range.Start.Column,
			EndLine:  d.Range.Stop.Line,
			EndCol:   d.Range.Stop.Column,
		}
		if d.Severity == source.SeverityError {
			errs = append(errs, jd)
		} else {
			warns = append(warns, jd)
		}
	}
	status := "success"
	if len(errs) > 0 {
		status = "error"
	} else if len(warns) > 0 {
		status = "warning"
	}
	return JSONReport{
		Path: doc.Path, Status: status, Errors: errs, Warnings: warns,
		Summary: jsonSummary{ErrorCount: len(errs), WarningCount: len(warns), TotalCount: len(doc.Diagnostics)},
	}
}
