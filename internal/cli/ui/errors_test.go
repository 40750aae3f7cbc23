package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "UNRESOLVED NAME",
				Problem: "No binding found for 'pst' in scope.",
			},
			contains: []string{"❌", "UNRESOLVED NAME", "No binding found for 'pst' in scope."},
		},
		{
			name: "error with suggestions",
			opts: ErrorOptions{
				Level:       ErrorLevelError,
				Context:     "UNRESOLVED NAME",
				Problem:     "No binding found for 'pst' in scope.",
				Suggestions: []string{"Post", "User"},
			},
			contains: []string{"Did you mean: Post, User?"},
		},
		{
			name: "error with help commands",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "CHECK FAILED",
				Problem: "Syntax error in file",
				HelpCommands: []string{
					"Reformat first: kieli fmt --write",
					"Get help: kieli check --help",
				},
			},
			contains: []string{
				"→ Reformat first: kieli fmt --write",
				"→ Get help: kieli check --help",
			},
		},
		{
			name: "warning message",
			opts: ErrorOptions{
				Level:   ErrorLevelWarning,
				Problem: "Deprecated feature used",
			},
			contains: []string{"⚠️", "Deprecated feature used"},
		},
		{
			name: "info message",
			opts: ErrorOptions{
				Level:   ErrorLevelInfo,
				Problem: "Recompiling cache entries",
			},
			contains: []string{"ℹ️", "Recompiling cache entries"},
		},
		{
			name: "error with consequence",
			opts: ErrorOptions{
				Level:       ErrorLevelError,
				Context:     "CHECK FAILED",
				Problem:     "Type mismatch in function body",
				Consequence: "The function was skipped during resolution",
			},
			contains: []string{"Type mismatch in function body", "The function was skipped during resolution"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.opts)
			for _, expected := range tt.contains {
				assert.Contains(t, result, expected)
			}
		})
	}
}

func TestUnresolvedNameError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	result := UnresolvedNameError("pst", []string{"Post", "User"}, true)

	assert.Contains(t, result, "UNRESOLVED NAME")
	assert.Contains(t, result, "No binding found for 'pst' in scope.")
	assert.Contains(t, result, "Did you mean: Post, User?")
	assert.Contains(t, result, "List a file's symbols: kieli ast <file>")
}

func TestCheckFailedError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	result := CheckFailedError("Syntax error on line 42", []string{"Check parentheses", "Verify semicolons"}, true)

	assert.Contains(t, result, "CHECK FAILED")
	assert.Contains(t, result, "Syntax error on line 42")
	assert.Contains(t, result, "Did you mean: Check parentheses, Verify semicolons?")
	assert.Contains(t, result, "Reformat first: kieli fmt --write")
}

func TestConfigError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	result := ConfigError("Invalid YAML syntax", []string{"Check indentation"}, true)

	assert.Contains(t, result, "CONFIGURATION ERROR")
	assert.Contains(t, result, "Invalid YAML syntax")
	assert.Contains(t, result, "Did you mean: Check indentation?")
	assert.Contains(t, result, "Recreate it: kieli init --interactive")
}

func TestWriteError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	WriteError(&buf, ErrorOptions{Level: ErrorLevelError, Context: "TEST ERROR", Problem: "This is a test"})

	assert.Contains(t, buf.String(), "TEST ERROR")
}

func TestFormatSuccess(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	result := FormatSuccess("Build completed", true)

	assert.Contains(t, result, "✓")
	assert.Contains(t, result, "Build completed")
}

func TestWriteSuccess(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	WriteSuccess(&buf, "Test success", true)

	assert.Contains(t, buf.String(), "✓")
	assert.Contains(t, buf.String(), "Test success")
}

func TestWarning(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	result := Warning("Deprecated feature", []string{"Use new API"}, true)

	assert.Contains(t, result, "⚠️")
	assert.Contains(t, result, "Deprecated feature")
	assert.Contains(t, result, "Did you mean: Use new API?")
}

func TestInfo(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	result := Info("Process starting", true)

	assert.Contains(t, result, "ℹ️")
	assert.Contains(t, result, "Process starting")
}
