package lsp

import (
	"testing"

	"github.com/kieli-lang/kieli/internal/tooling"
	"github.com/stretchr/testify/assert"
	"go.lsp.dev/protocol"
)

func TestConvertCompletionKind(t *testing.T) {
	tests := []struct {
		name     string
		input    tooling.CompletionKind
		expected protocol.CompletionItemKind
	}{
		{"keyword", tooling.CompletionKindKeyword, protocol.CompletionItemKindKeyword},
		{"type", tooling.CompletionKindType, protocol.CompletionItemKindClass},
		{"function", tooling.CompletionKindFunction, protocol.CompletionItemKindFunction},
		{"enumeration case", tooling.CompletionKindEnumerationCase, protocol.CompletionItemKindEnumMember},
		{"module", tooling.CompletionKindModule, protocol.CompletionItemKindModule},
		{"variable", tooling.CompletionKindVariable, protocol.CompletionItemKindVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertCompletionKind(tt.input))
		})
	}
}

func TestConvertSymbolKind(t *testing.T) {
	tests := []struct {
		name     string
		input    tooling.SymbolKind
		expected protocol.SymbolKind
	}{
		{"function", tooling.SymbolKindFunction, protocol.SymbolKindFunction},
		{"enumeration", tooling.SymbolKindEnumeration, protocol.SymbolKindEnum},
		{"struct", tooling.SymbolKindStruct, protocol.SymbolKindStruct},
		{"enumeration case", tooling.SymbolKindEnumerationCase, protocol.SymbolKindEnumMember},
		{"concept", tooling.SymbolKindConcept, protocol.SymbolKindInterface},
		{"alias", tooling.SymbolKindAlias, protocol.SymbolKindTypeParameter},
		{"module", tooling.SymbolKindModule, protocol.SymbolKindModule},
		{"parameter", tooling.SymbolKindParameter, protocol.SymbolKindVariable},
		{"variable", tooling.SymbolKindVariable, protocol.SymbolKindVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertSymbolKind(tt.input))
		})
	}
}
