package tooling

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kieli-lang/kieli/internal/lexer"
)

// buildCompletions returns completion items for pos in doc, grounded on
// the teacher's internal/tooling/completion.go (context-by-preceding-text
// dispatch), scoped down to what can be determined without a full
// cursor-position type-inference pass: this front-end's resolver resolves
// whole top-level definitions, not expressions-up-to-cursor, so a
// member-access completion ("a.") falls back to every known enumeration
// case name rather than the receiver's actual resolved type's members —
// documented here as a simplification, not an omission.
func buildCompletions(doc *Document, pos Position) []CompletionItem {
	line := lineAt(doc.Text.Text, pos.Line)
	prefix := linePrefix(line, pos.Character)

	if strings.HasSuffix(strings.TrimRight(prefix, " \t"), ".") {
		return memberCompletions(doc)
	}

	items := keywordCompletions()
	items = append(items, topLevelCompletions(doc)...)

	word := trailingWord(prefix)
	if word != "" {
		items = filterCompletions(items, word)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

func lineAt(text string, line int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	return lines[line]
}

func linePrefix(line string, col int) string {
	if col < 0 {
		return ""
	}
	if col > len(line) {
		col = len(line)
	}
	return line[:col]
}

func trailingWord(prefix string) string {
	i := len(prefix)
	for i > 0 && isWordByte(prefix[i-1]) {
		i--
	}
	return prefix[i:]
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func filterCompletions(items []CompletionItem, word string) []CompletionItem {
	word = strings.ToLower(word)
	filtered := make([]CompletionItem, 0, len(items))
	for _, it := range items {
		if strings.HasPrefix(strings.ToLower(it.Label), word) {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

func keywordCompletions() []CompletionItem {
	items := make([]CompletionItem, 0, len(lexer.Keywords))
	for kw := range lexer.Keywords {
		items = append(items, CompletionItem{
			Label:    kw,
			Kind:     CompletionKindKeyword,
			SortText: "z" + kw,
		})
	}
	return items
}

func topLevelCompletions(doc *Document) []CompletionItem {
	items := make([]CompletionItem, 0, len(doc.Symbols))
	for _, sym := range doc.Symbols {
		switch sym.Kind {
		case SymbolKindFunction:
			items = append(items, CompletionItem{
				Label:      sym.Name,
				Kind:       CompletionKindFunction,
				Detail:     sym.Signature,
				InsertText: sym.Name,
			})
		case SymbolKindEnumeration, SymbolKindStruct, SymbolKindAlias, SymbolKindConcept:
			items = append(items, CompletionItem{
				Label:  sym.Name,
				Kind:   CompletionKindType,
				Detail: sym.Detail,
			})
		case SymbolKindModule:
			items = append(items, CompletionItem{
				Label:  sym.Name,
				Kind:   CompletionKindModule,
				Detail: fmt.Sprintf("mod %s", sym.Name),
			})
		}
	}
	return items
}

// memberCompletions suggests every enumeration case name known in the
// document, the coarse fallback described in buildCompletions' doc
// comment.
func memberCompletions(doc *Document) []CompletionItem {
	items := make([]CompletionItem, 0)
	for _, sym := range doc.Symbols {
		if sym.Kind == SymbolKindEnumerationCase {
			items = append(items, CompletionItem{
				Label:  sym.Name,
				Kind:   CompletionKindEnumerationCase,
				Detail: sym.Detail,
			})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}
