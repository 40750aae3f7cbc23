package lsp

import (
	"testing"

	"github.com/kieli-lang/kieli/internal/source"
	"github.com/stretchr/testify/assert"
	"go.lsp.dev/protocol"
)

func TestServerInitialization(t *testing.T) {
	server := NewServer()
	assert.NotNil(t, server)
	assert.NotNil(t, server.api)
	assert.NotNil(t, server.logger)
	assert.NotNil(t, server.capabilities.CompletionProvider)
	assert.NotNil(t, server.capabilities.DefinitionProvider)
	assert.Equal(t, true, server.capabilities.HoverProvider)
	assert.Equal(t, true, server.capabilities.ReferencesProvider)
	assert.Equal(t, true, server.capabilities.DocumentSymbolProvider)
	assert.Equal(t, true, server.capabilities.WorkspaceSymbolProvider)
}

func TestConvertSeverity(t *testing.T) {
	tests := []struct {
		name     string
		input    source.Severity
		expected protocol.DiagnosticSeverity
	}{
		{"error", source.SeverityError, protocol.DiagnosticSeverityError},
		{"warning", source.SeverityWarning, protocol.DiagnosticSeverityWarning},
		{"hint", source.SeverityHint, protocol.DiagnosticSeverityHint},
		{"information", source.SeverityInformation, protocol.DiagnosticSeverityInformation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertSeverity(tt.input))
		})
	}
}

func TestStdRWC(t *testing.T) {
	rwc := stdrwc{}
	assert.NotNil(t, rwc.Read)
	assert.NotNil(t, rwc.Write)
	assert.NotNil(t, rwc.Close)
}
