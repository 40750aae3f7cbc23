package tooling

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kieli-lang/kieli/internal/hir"
	"github.com/kieli-lang/kieli/internal/types"
)

// SymbolIndex maintains a searchable index of all symbols across
// documents, grounded on the teacher's internal/tooling/symbols.go
// SymbolIndex (identical locking/removal/search shape; only the indexed
// Symbol's own vocabulary changed).
type SymbolIndex struct {
	symbols map[string][]*IndexedSymbol
	mutex   sync.RWMutex
}

// IndexedSymbol represents a symbol with its document location.
type IndexedSymbol struct {
	URI string
	*Symbol
}

func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{symbols: make(map[string][]*IndexedSymbol)}
}

func (si *SymbolIndex) Index(uri string, symbols []*Symbol) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.removeDocumentLocked(uri)
	for _, sym := range symbols {
		si.symbols[sym.Name] = append(si.symbols[sym.Name], &IndexedSymbol{URI: uri, Symbol: sym})
	}
}

func (si *SymbolIndex) RemoveDocument(uri string) {
	si.mutex.Lock()
	defer si.mutex.Unlock()
	si.removeDocumentLocked(uri)
}

func (si *SymbolIndex) removeDocumentLocked(uri string) {
	for name, syms := range si.symbols {
		filtered := make([]*IndexedSymbol, 0, len(syms))
		for _, sym := range syms {
			if sym.URI != uri {
				filtered = append(filtered, sym)
			}
		}
		if len(filtered) > 0 {
			si.symbols[name] = filtered
		} else {
			delete(si.symbols, name)
		}
	}
}

// FindDefinition finds the definition of a symbol by name, preferring
// functions and enumerations (type-introducing definitions) over cases.
func (si *SymbolIndex) FindDefinition(name string) *IndexedSymbol {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	syms, ok := si.symbols[name]
	if !ok || len(syms) == 0 {
		return nil
	}
	for _, sym := range syms {
		if sym.Kind == SymbolKindFunction || sym.Kind == SymbolKindEnumeration || sym.Kind == SymbolKindStruct {
			return sym
		}
	}
	return syms[0]
}

// FindReferences finds all known definitions sharing a symbol's name.
func (si *SymbolIndex) FindReferences(name string) []Location {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	syms, ok := si.symbols[name]
	if !ok {
		return nil
	}
	locations := make([]Location, len(syms))
	for i, sym := range syms {
		locations[i] = Location{URI: sym.URI, Range: sym.Range}
	}
	return locations
}

// SearchSymbols searches for symbols matching a query across all documents.
func (si *SymbolIndex) SearchSymbols(query string) []*IndexedSymbol {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	result := make([]*IndexedSymbol, 0)
	if query == "" {
		for _, syms := range si.symbols {
			result = append(result, syms...)
		}
		return result
	}

	query = strings.ToLower(query)
	for name, syms := range si.symbols {
		if strings.Contains(strings.ToLower(name), query) {
			result = append(result, syms...)
		}
	}
	return result
}

// extractSymbols walks a document's root HIR environment and every
// module nested within it, turning each LowerMap/UpperMap entry into a
// Symbol. Unlike the teacher's AST walk (which recurses into a resource's
// fields/hooks/scopes), this walks the symbol table the resolver already
// built (internal/hir.Environment), since that is where a name's range
// and resolved kind are already recorded — no separate AST traversal is
// needed.
func extractSymbols(d *Document) []*Symbol {
	if d.Unit == nil {
		return nil
	}
	return walkUnitEnvironment(d.Unit.HIR, d.Unit.RootEnv, "")
}

// walkUnitEnvironment recurses into every nested module environment,
// qualifying each module's own members' ContainerName with the module
// path so far.
func walkUnitEnvironment(arena *hir.Arena, envId hir.EnvironmentId, containerName string) []*Symbol {
	env := arena.Environment(envId)
	symbols := make([]*Symbol, 0, len(env.LowerMap)+len(env.UpperMap))

	for name, info := range env.LowerMap {
		symbols = append(symbols, symbolFromLower(arena, name, info, containerName)...)
	}
	for name, info := range env.UpperMap {
		symbols = append(symbols, symbolFromUpper(arena, name, info, containerName)...)
	}
	return symbols
}

func symbolFromLower(arena *hir.Arena, name string, info hir.LowerInfo, containerName string) []*Symbol {
	switch info.Symbol.Kind {
	case hir.SymbolFunction:
		fn := arena.Function(info.Symbol.FunctionId())
		return []*Symbol{{
			Name:          name,
			Kind:          SymbolKindFunction,
			Range:         fromSourceRange(info.Range),
			Type:          formatFunctionSignature(arena, fn),
			ContainerName: containerName,
			Signature:     formatFunctionSignature(arena, fn),
			Detail:        fmt.Sprintf("fn %s", name),
		}}
	case hir.SymbolModule:
		mod := arena.Module(info.Symbol.ModuleId())
		symbols := []*Symbol{{
			Name:          name,
			Kind:          SymbolKindModule,
			Range:         fromSourceRange(info.Range),
			ContainerName: containerName,
			Detail:        fmt.Sprintf("mod %s", name),
		}}
		inner := containerName
		if inner != "" {
			inner += "::"
		}
		inner += name
		symbols = append(symbols, walkUnitEnvironment(arena, mod.Inner, inner)...)
		return symbols
	default:
		return nil
	}
}

func symbolFromUpper(arena *hir.Arena, name string, info hir.UpperInfo, containerName string) []*Symbol {
	switch info.Symbol.Kind {
	case hir.SymbolEnumeration:
		en := arena.Enumeration(info.Symbol.EnumerationId())
		kind := SymbolKindEnumeration
		if en.IsStruct {
			kind = SymbolKindStruct
		}
		symbols := []*Symbol{{
			Name:          name,
			Kind:          kind,
			Range:         fromSourceRange(info.Range),
			ContainerName: containerName,
			Detail:        formatEnumerationDetail(en),
		}}
		for _, c := range en.Cases {
			if en.IsStruct {
				continue
			}
			symbols = append(symbols, &Symbol{
				Name:          c.Name,
				Kind:          SymbolKindEnumerationCase,
				Range:         fromSourceRange(info.Range),
				Type:          formatCasePayload(arena, c),
				ContainerName: name,
				Detail:        fmt.Sprintf("%s::%s", name, c.Name),
			})
		}
		return symbols
	case hir.SymbolConcept:
		return []*Symbol{{
			Name:          name,
			Kind:          SymbolKindConcept,
			Range:         fromSourceRange(info.Range),
			ContainerName: containerName,
			Detail:        fmt.Sprintf("concept %s", name),
		}}
	case hir.SymbolAlias:
		al := arena.Alias(info.Symbol.AliasId())
		return []*Symbol{{
			Name:          name,
			Kind:          SymbolKindAlias,
			Range:         fromSourceRange(info.Range),
			Type:          FormatType(arena, al.Target),
			ContainerName: containerName,
			Detail:        fmt.Sprintf("alias %s = %s", name, FormatType(arena, al.Target)),
		}}
	default:
		return nil
	}
}

func formatFunctionSignature(arena *hir.Arena, fn *hir.FunctionInfo) string {
	var sb strings.Builder
	sb.WriteString("fn ")
	sb.WriteString(fn.Name)
	sb.WriteString("(")
	for i, p := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(FormatType(arena, p.Type))
	}
	sb.WriteString(")")
	if fn.HasRet {
		sb.WriteString(" -> ")
		sb.WriteString(FormatType(arena, fn.Return))
	}
	return sb.String()
}

func formatEnumerationDetail(en *hir.EnumerationInfo) string {
	if en.IsStruct {
		return fmt.Sprintf("struct %s { %s }", en.Name, strings.Join(en.FieldNames, ", "))
	}
	names := make([]string, len(en.Cases))
	for i, c := range en.Cases {
		names[i] = c.Name
	}
	return fmt.Sprintf("enum %s { %s }", en.Name, strings.Join(names, ", "))
}

func formatCasePayload(arena *hir.Arena, c hir.EnumerationCase) string {
	if len(c.Payload) == 0 {
		return ""
	}
	parts := make([]string, len(c.Payload))
	for i, t := range c.Payload {
		parts[i] = FormatType(arena, t)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FormatType renders a HIR type as kieli surface syntax, flattening
// through any solved unification variable first (internal/types.Flatten)
// so hover/completion never shows a raw variable id.
func FormatType(arena *hir.Arena, id hir.TypeId) string {
	id = types.Flatten(arena, id)
	switch t := arena.Type(id).(type) {
	case hir.IntegerType:
		if t.Signed {
			return fmt.Sprintf("I%d", t.Bits)
		}
		return fmt.Sprintf("U%d", t.Bits)
	case hir.FloatingType:
		return "Float"
	case hir.CharacterType:
		return "Char"
	case hir.BooleanType:
		return "Bool"
	case hir.StringType:
		return "String"
	case hir.ErrorType:
		return "<error>"
	case hir.TypeVariable:
		return "_"
	case hir.Parameterized:
		return t.Name
	case hir.ArrayType:
		return fmt.Sprintf("[%s; N]", FormatType(arena, t.Element))
	case hir.SliceType:
		return fmt.Sprintf("[%s]", FormatType(arena, t.Element))
	case hir.ReferenceType:
		return "&" + FormatType(arena, t.Referenced)
	case hir.PointerType:
		return "*" + FormatType(arena, t.Pointee)
	case hir.TupleType:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = FormatType(arena, e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case hir.FunctionType:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = FormatType(arena, p)
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), FormatType(arena, t.Return))
	case hir.EnumerationType:
		info := arena.Enumeration(t.Info)
		if len(t.Args) == 0 {
			return info.Name
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = FormatType(arena, a)
		}
		return fmt.Sprintf("%s[%s]", info.Name, strings.Join(args, ", "))
	default:
		return "<unknown>"
	}
}

// findSymbolAtPosition finds the innermost symbol containing pos, the
// same linear scan as the teacher's positionInRange but over this
// package's own Range/Position shape.
func findSymbolAtPosition(doc *Document, pos Position) *Symbol {
	var best *Symbol
	for _, sym := range doc.Symbols {
		if !positionInRange(pos, sym.Range) {
			continue
		}
		if best == nil || rangeWidth(sym.Range) < rangeWidth(best.Range) {
			best = sym
		}
	}
	return best
}

func rangeWidth(r Range) int {
	return (r.End.Line-r.Start.Line)*1_000_000 + (r.End.Character - r.Start.Character)
}

func positionInRange(pos Position, r Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character > r.End.Character {
		return false
	}
	return true
}
