package resolve

import (
	"fmt"
	"unicode"

	"github.com/kieli-lang/kieli/internal/hir"
	"github.com/kieli-lang/kieli/internal/source"
)

func isUpperName(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// PathResolution is what resolving a path (value or type position) lands
// on: either a local binding or a document-level symbol. Kept separate
// from hir.Expr/hir.Type so the caller (infer.go) attaches the Range and
// TypeId that only it knows at the use site.
type PathResolution struct {
	IsLocal bool
	Local   hir.LocalVariableId
	Symbol  hir.Symbol
}

// ResolveValuePath resolves a lower/upper-case path per spec.md §4.4
// "Path resolution": the first segment is looked up in the scope chain,
// then the environment chain; each subsequent segment re-scopes into the
// environment of the preceding result. `global::` roots the lookup at the
// document's top environment, skipping the scope chain entirely.
func ResolveValuePath(u *Unit, scopeId hir.ScopeId, hasScope bool, envId hir.EnvironmentId, global bool, segs []string, rng source.Range) (PathResolution, bool) {
	if len(segs) == 0 {
		return PathResolution{}, false
	}
	if global {
		hasScope = false
		envId = u.RootEnv
	}
	head, ok := lookupHead(u, scopeId, hasScope, envId, segs[0])
	if !ok {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("unresolved name %q", segs[0]), Range: rng})
		return PathResolution{}, false
	}
	if len(segs) == 1 {
		return head, true
	}
	if head.IsLocal {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("%q is a local binding and cannot be qualified with '::'", segs[0]), Range: rng})
		return PathResolution{}, false
	}
	sym, ok := stepSegments(u, head.Symbol, segs[1:], rng)
	if !ok {
		return PathResolution{}, false
	}
	return PathResolution{Symbol: sym}, true
}

// ResolveTypePath is the type-grammar counterpart: a named type is always
// an upper-case path with no local-scope fallback (template parameters
// are resolved through the type-local map instead, see infer.go).
func ResolveTypePath(u *Unit, envId hir.EnvironmentId, segs []string, rng source.Range) (hir.Symbol, bool) {
	if len(segs) == 0 {
		return hir.Symbol{}, false
	}
	head, ok := lookupHead(u, 0, false, envId, segs[0])
	if !ok {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("unresolved type %q", segs[0]), Range: rng})
		return hir.Symbol{}, false
	}
	return stepSegments(u, head.Symbol, segs[1:], rng)
}

// stepSegments re-scopes into whatever sym names for each remaining
// segment. A module steps into its inner environment (by casing, as at the
// root); an enumeration (including a struct, stored in the same table per
// collect.cpp) steps into one of its resolved cases by name, producing a
// SymbolEnumerationCase rather than recursing into another Environment —
// cases aren't published through LowerMap/UpperMap at all.
func stepSegments(u *Unit, sym hir.Symbol, segs []string, rng source.Range) (hir.Symbol, bool) {
	for _, seg := range segs {
		switch sym.Kind {
		case hir.SymbolModule:
			env := u.HIR.Environment(u.HIR.Module(sym.ModuleId()).Inner)
			var found bool
			if isUpperName(seg) {
				var info hir.UpperInfo
				if info, found = env.UpperMap[seg]; found {
					sym = info.Symbol
				}
			} else {
				var info hir.LowerInfo
				if info, found = env.LowerMap[seg]; found {
					sym = info.Symbol
				}
			}
			if !found {
				u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("unresolved name %q", seg), Range: rng})
				return hir.Symbol{}, false
			}
		case hir.SymbolEnumeration:
			resolveEnumeration(u, sym.EnumerationId())
			info := u.HIR.Enumeration(sym.EnumerationId())
			idx := -1
			for i, c := range info.Cases {
				if c.Name == seg {
					idx = i
					break
				}
			}
			if idx < 0 {
				u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("%q has no case %q", info.Name, seg), Range: rng})
				return hir.Symbol{}, false
			}
			sym = hir.Symbol{Kind: hir.SymbolEnumerationCase, Index: uint32(sym.EnumerationId()), Case: int32(idx)}
		default:
			u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("%q has no members", seg), Range: rng})
			return hir.Symbol{}, false
		}
	}
	return sym, true
}

func lookupHead(u *Unit, scopeId hir.ScopeId, hasScope bool, envId hir.EnvironmentId, name string) (PathResolution, bool) {
	if hasScope {
		if isUpperName(name) {
			if local, ok := u.HIR.FindType(scopeId, name); ok {
				return PathResolution{Symbol: hir.Symbol{Kind: hir.SymbolLocalType, Index: uint32(local)}}, true
			}
		} else if local, ok := u.HIR.FindVariable(scopeId, name); ok {
			return PathResolution{IsLocal: true, Local: local}, true
		}
	}
	for {
		env := u.HIR.Environment(envId)
		if isUpperName(name) {
			if info, ok := env.UpperMap[name]; ok {
				return PathResolution{Symbol: info.Symbol}, true
			}
		} else if info, ok := env.LowerMap[name]; ok {
			return PathResolution{Symbol: info.Symbol}, true
		}
		if !env.HasParent {
			if u.Importer != nil {
				if imported, ok := resolveImportedRoot(u, name); ok {
					return imported, true
				}
			}
			return PathResolution{}, false
		}
		envId = env.ParentId
	}
}

// resolveImportedRoot lets an unresolved root segment fall back to a name
// imported via `import`/`export import` at the top level of this document
// (spec.md §4.4 "Import"). Scans the document's own import definitions;
// ambiguity between two imports providing the same name is an error.
func resolveImportedRoot(u *Unit, name string) (PathResolution, bool) {
	var match PathResolution
	found := false
	for _, imp := range collectedImports(u) {
		if len(imp.Segments) == 0 {
			continue
		}
		last := imp.Segments[len(imp.Segments)-1]
		if last != name {
			continue
		}
		imported, ok := u.Importer.Import(imp.Segments)
		if !ok {
			continue
		}
		Collect(imported)
		ResolveAll(imported)
		rootEnv := imported.HIR.Environment(imported.RootEnv)
		var sym hir.Symbol
		var hit bool
		if isUpperName(name) {
			if info, ok := rootEnv.UpperMap[name]; ok {
				sym, hit = info.Symbol, true
			}
		} else if info, ok := rootEnv.LowerMap[name]; ok {
			sym, hit = info.Symbol, true
		}
		if !hit {
			continue
		}
		if found {
			return PathResolution{}, false // ambiguous import, caller reports "unresolved"
		}
		match, found = PathResolution{Symbol: sym}, true
	}
	return match, found
}
