// Package diagnostics renders a document's collected source.Diagnostic
// values for human consumption: a terminal report with source-line
// highlighting, and a machine-readable JSON form for editor tooling (see
// internal/lsp, which reports diagnostics over LSP instead).
//
// Grounded on compiler/errors/{terminal.go,json.go,suggestions.go}'s
// rendering shapes, adapted from that package's own CompilerError/Location
// types onto source.Diagnostic/source.Range/source.TextDocument, and
// switched from hand-rolled ANSI escapes to fatih/color (already the
// teacher's terminal-color dependency, used here instead of reinventing it).
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/kieli-lang/kieli/internal/source"
)

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow, color.Bold)
	hintColor   = color.New(color.FgBlue, color.Bold)
	infoColor   = color.New(color.FgBlue, color.Bold)
	gutterColor = color.New(color.FgCyan)
	lineColor   = color.New(color.FgHiBlack)
	helpColor   = color.New(color.FgCyan, color.Bold)
)

func severityColor(s source.Severity) *color.Color {
	switch s {
	case source.SeverityError:
		return errorColor
	case source.SeverityWarning:
		return warnColor
	case source.SeverityHint:
		return hintColor
	default:
		return infoColor
	}
}

// RenderTerminal formats every diagnostic in doc as a rustc/elm-style
// terminal report, one block per diagnostic, source-highlighted against
// doc's own text.
func RenderTerminal(doc *source.TextDocument) string {
	lines := strings.Split(doc.Text, "\n")
	var sb strings.Builder
	for _, diag := range doc.Diagnostics {
		sb.WriteString(renderOne(doc, lines, diag))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderOne(doc *source.TextDocument, lines []string, diag source.Diagnostic) string {
	var sb strings.Builder
	sc := severityColor(diag.Severity)
	sb.WriteString(sc.Sprintf("%s", strings.ToUpper(diag.Severity.String())))
	sb.WriteString(fmt.Sprintf(": %s\n", diag.Message))
	sb.WriteString(gutterColor.Sprintf("  --> ") + fmt.Sprintf("%s:%d:%d\n", doc.Path, diag.Range.Start.Line+1, diag.Range.Start.Column+1))

	if diag.Range.Start.Line >= 0 && diag.Range.Start.Line < len(lines) {
		sb.WriteString(renderSourceLine(lines, diag.Range, sc))
	}

	for _, note := range diag.Related {
		sb.WriteString(fmt.Sprintf("  %s %s:%d:%d: %s\n",
			helpColor.Sprint("note:"), doc.Path, note.Location.Range.Start.Line+1, note.Location.Range.Start.Column+1, note.Message))
	}
	if diag.Tag == source.TagDeprecated {
		sb.WriteString(helpColor.Sprint("  help: ") + "this item is deprecated\n")
	} else if diag.Tag == source.TagUnnecessary {
		sb.WriteString(helpColor.Sprint("  help: ") + "this can be removed\n")
	}
	return sb.String()
}

func renderSourceLine(lines []string, rng source.Range, sc *color.Color) string {
	var sb strings.Builder
	lineNum := rng.Start.Line
	line := lines[lineNum]
	sb.WriteString(fmt.Sprintf("   %s\n", gutterColor.Sprint("|")))
	sb.WriteString(fmt.Sprintf("%s %s %s\n", lineColor.Sprintf("%3d", lineNum+1), gutterColor.Sprint("|"), line))

	width := rng.Stop.Column - rng.Start.Column
	if rng.Stop.Line != rng.Start.Line || width <= 0 {
		width = 1
	}
	sb.WriteString(fmt.Sprintf("    %s %s%s\n", gutterColor.Sprint("|"), strings.Repeat(" ", rng.Start.Column), sc.Sprint(strings.Repeat("^", width))))
	return sb.String()
}

// Summary produces a one-line "N error(s), M warning(s)" tally, colored by
// severity, or a clean-bill message when doc has none of either.
func Summary(doc *source.TextDocument) string {
	var errs, warns int
	for _, d := range doc.Diagnostics {
		switch d.Severity {
		case source.SeverityError:
			errs++
		case source.SeverityWarning:
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		return infoColor.Sprint("no errors or warnings")
	}
	var parts []string
	if errs > 0 {
		parts = append(parts, errorColor.Sprintf("%d error(s)", errs))
	}
	if warns > 0 {
		parts = append(parts, warnColor.Sprintf("%d warning(s)", warns))
	}
	return strings.Join(parts, ", ")
}
