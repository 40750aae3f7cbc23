package tooling

import (
	"fmt"
	"strings"
)

// buildHover creates hover information for a symbol, grounded on the
// teacher's internal/tooling/hover.go (same code-block-plus-docs shape),
// re-pointed from conduit's resource/field vocabulary onto kieli's own.
func buildHover(symbol *Symbol) *Hover {
	var content strings.Builder

	content.WriteString("```kieli\n")
	switch symbol.Kind {
	case SymbolKindFunction:
		if symbol.Signature != "" {
			content.WriteString(symbol.Signature)
		} else {
			content.WriteString(fmt.Sprintf("fn %s", symbol.Name))
		}
	case SymbolKindEnumeration, SymbolKindStruct:
		content.WriteString(symbol.Detail)
	case SymbolKindEnumerationCase:
		content.WriteString(fmt.Sprintf("%s::%s%s", symbol.ContainerName, symbol.Name, symbol.Type))
	case SymbolKindConcept:
		content.WriteString(fmt.Sprintf("concept %s", symbol.Name))
	case SymbolKindAlias:
		content.WriteString(symbol.Detail)
	case SymbolKindModule:
		content.WriteString(fmt.Sprintf("mod %s", symbol.Name))
	case SymbolKindParameter, SymbolKindVariable:
		content.WriteString(symbol.Name)
		if symbol.Type != "" {
			content.WriteString(fmt.Sprintf(": %s", symbol.Type))
		}
	}
	content.WriteString("\n```\n\n")

	if symbol.Documentation != "" {
		content.WriteString(symbol.Documentation)
		content.WriteString("\n\n")
	}

	if symbol.ContainerName != "" && symbol.Kind != SymbolKindEnumerationCase {
		content.WriteString(fmt.Sprintf("*In:* `%s`\n\n", symbol.ContainerName))
	}

	switch symbol.Kind {
	case SymbolKindEnumerationCase:
		content.WriteString("---\n\n**Enumeration case**\n")
	case SymbolKindFunction:
		content.WriteString("---\n\n**Function**\n")
	}

	return &Hover{Contents: content.String(), Range: symbol.Range}
}
