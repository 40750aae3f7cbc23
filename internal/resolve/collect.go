package resolve

import (
	"fmt"

	"github.com/kieli-lang/kieli/internal/ast"
	"github.com/kieli-lang/kieli/internal/hir"
	"github.com/kieli-lang/kieli/internal/source"
)

// Collect walks the desugared top-level definitions in source order and
// registers each in the unit's root environment (spec.md §4.4 "Collect").
// Collection does not resolve signatures or bodies; it only allocates
// info slots and in_order entries so Resolve can drive on demand.
func Collect(u *Unit) {
	u.RootEnv = u.HIR.PushEnvironment(hir.NewEnvironment(u.Doc.ID))
	collectDefs(u, u.Program.Defs, u.RootEnv)
}

func collectDefs(u *Unit, ids []ast.DefId, envId hir.EnvironmentId) {
	for _, id := range ids {
		collectDef(u, id, envId)
	}
}

func collectDef(u *Unit, id ast.DefId, envId hir.EnvironmentId) {
	env := u.HIR.Environment(envId)
	switch d := u.AST.Def(id).(type) {
	case ast.FnDef:
		collectFunction(u, d, envId, env, true)
	case ast.StructDef:
		collectStruct(u, d, envId, env)
	case ast.EnumDef:
		collectEnum(u, d, envId, env)
	case ast.AliasDef:
		collectAlias(u, d, envId, env)
	case ast.ConceptDef:
		collectConcept(u, d, envId, env)
	case ast.ImplDef:
		collectImpl(u, d, envId)
	case ast.ModuleDef:
		collectModule(u, d, envId)
	case ast.ImportDef:
		// Cross-document registration happens lazily, the first time the
		// resolver actually needs to resolve a path through it (the
		// Importer hook on Unit); nothing to collect eagerly.
	case ast.ErrorDef:
	}
}

func reportDuplicate(u *Unit, name string, rng, prevRange source.Range) {
	u.Doc.Report(source.Diagnostic{
		Severity: source.SeverityError,
		Message:  fmt.Sprintf("duplicate definition of %q", name),
		Range:    rng,
		Related:  []source.RelatedNote{{Message: "previously defined here", Location: source.Location{Document: u.Doc.ID, Range: prevRange}}},
	})
}

func templateParamInfos(u *Unit, params []ast.TemplateParameter) []hir.TemplateParameterInfo {
	out := make([]hir.TemplateParameterInfo, len(params))
	for i, p := range params {
		out[i] = hir.TemplateParameterInfo{Name: p.Name, Tag: u.HIR.Unify.FreshTag()}
	}
	return out
}

func collectFunction(u *Unit, d ast.FnDef, envId hir.EnvironmentId, env *hir.Environment, hasBody bool) hir.FunctionInfoId {
	info := &hir.FunctionInfo{
		Name: d.Name, NameRange: d.Range(), AST: d,
		EnvironmentId: envId, DocumentId: u.Doc.ID, HasBody: hasBody,
	}
	id := u.HIR.PushFunction(info)
	sym := hir.Symbol{Kind: hir.SymbolFunction, Index: uint32(id)}
	if prev, dup := env.DefineLower(hir.LowerInfo{Name: d.Name, Range: d.Range(), DocumentId: u.Doc.ID, Symbol: sym}); dup {
		reportDuplicate(u, d.Name, d.Range(), prev.Range)
	}
	return id
}

func collectStruct(u *Unit, d ast.StructDef, envId hir.EnvironmentId, env *hir.Environment) {
	fieldNames := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		fieldNames[i] = f.Name
	}
	info := &hir.EnumerationInfo{
		Name: d.Name, NameRange: d.Range(), AST: d,
		EnvironmentId: envId, DocumentId: u.Doc.ID,
		Template: templateParamInfos(u, d.Template), IsStruct: true, FieldNames: fieldNames,
	}
	id := u.HIR.PushEnumeration(info)
	sym := hir.Symbol{Kind: hir.SymbolEnumeration, Index: uint32(id)}
	if prev, dup := env.DefineUpper(hir.UpperInfo{Name: d.Name, Range: d.Range(), DocumentId: u.Doc.ID, Symbol: sym}); dup {
		reportDuplicate(u, d.Name, d.Range(), prev.Range)
	}
}

func collectEnum(u *Unit, d ast.EnumDef, envId hir.EnvironmentId, env *hir.Environment) {
	info := &hir.EnumerationInfo{
		Name: d.Name, NameRange: d.Range(), AST: d,
		EnvironmentId: envId, DocumentId: u.Doc.ID,
		Template: templateParamInfos(u, d.Template),
	}
	id := u.HIR.PushEnumeration(info)
	sym := hir.Symbol{Kind: hir.SymbolEnumeration, Index: uint32(id)}
	if prev, dup := env.DefineUpper(hir.UpperInfo{Name: d.Name, Range: d.Range(), DocumentId: u.Doc.ID, Symbol: sym}); dup {
		reportDuplicate(u, d.Name, d.Range(), prev.Range)
	}
}

func collectAlias(u *Unit, d ast.AliasDef, envId hir.EnvironmentId, env *hir.Environment) {
	info := &hir.AliasInfo{
		Name: d.Name, NameRange: d.Range(), AST: d,
		EnvironmentId: envId, DocumentId: u.Doc.ID,
		Template: templateParamInfos(u, d.Template),
	}
	id := u.HIR.PushAlias(info)
	sym := hir.Symbol{Kind: hir.SymbolAlias, Index: uint32(id)}
	if prev, dup := env.DefineUpper(hir.UpperInfo{Name: d.Name, Range: d.Range(), DocumentId: u.Doc.ID, Symbol: sym}); dup {
		reportDuplicate(u, d.Name, d.Range(), prev.Range)
	}
}

func collectConcept(u *Unit, d ast.ConceptDef, envId hir.EnvironmentId, env *hir.Environment) {
	info := &hir.ConceptInfo{Name: d.Name, NameRange: d.Range(), EnvironmentId: envId, DocumentId: u.Doc.ID}
	id := u.HIR.PushConcept(info)
	sym := hir.Symbol{Kind: hir.SymbolConcept, Index: uint32(id)}
	if prev, dup := env.DefineUpper(hir.UpperInfo{Name: d.Name, Range: d.Range(), DocumentId: u.Doc.ID, Symbol: sym}); dup {
		reportDuplicate(u, d.Name, d.Range(), prev.Range)
	}
	for _, m := range d.Methods {
		info.Methods = append(info.Methods, collectFunction(u, m, envId, env, false))
	}
}

func collectImpl(u *Unit, d ast.ImplDef, envId hir.EnvironmentId) {
	info := &hir.ImplInfo{AST: d, EnvironmentId: envId, DocumentId: u.Doc.ID, Template: templateParamInfos(u, d.Template)}
	implId := u.HIR.PushImpl(info)
	env := u.HIR.Environment(envId)
	for _, m := range d.Methods {
		// An impl method's own FunctionInfo must carry its impl's
		// environment so self-type template parameters (e.g. `T` from
		// `impl Box[T]`) are visible while resolving it (see method.go).
		methodId := u.HIR.PushFunction(&hir.FunctionInfo{
			Name: m.Name, NameRange: m.Range(), AST: m,
			EnvironmentId: envId, DocumentId: u.Doc.ID, HasBody: true,
			OuterTemplate: info.Template,
		})
		info.Methods = append(info.Methods, methodId)
		// Impl methods are not published in the environment's name maps
		// (they are reached only via method lookup, §4.5.1); InOrder still
		// records them so ReportUnused-style deterministic iteration sees
		// every symbol in the document.
		env.InOrder = append(env.InOrder, hir.Symbol{Kind: hir.SymbolFunction, Index: uint32(methodId)})
	}
	_ = implId
}

// collectedImports returns every top-level import definition in this
// unit's program, used by resolveImportedRoot (path.go) to find a
// candidate document for an otherwise-unresolved root segment.
func collectedImports(u *Unit) []ast.ImportDef {
	var imports []ast.ImportDef
	for _, id := range u.Program.Defs {
		if d, ok := u.AST.Def(id).(ast.ImportDef); ok {
			imports = append(imports, d)
		}
	}
	return imports
}

func collectModule(u *Unit, d ast.ModuleDef, parentId hir.EnvironmentId) {
	childEnv := hir.NewEnvironment(u.Doc.ID)
	childEnv.ParentId, childEnv.HasParent = parentId, true
	childId := u.HIR.PushEnvironment(childEnv)

	info := &hir.ModuleInfo{Name: d.Name, EnvironmentId: parentId, DocumentId: u.Doc.ID, Inner: childId}
	id := u.HIR.PushModule(info)
	sym := hir.Symbol{Kind: hir.SymbolModule, Index: uint32(id)}

	parent := u.HIR.Environment(parentId)
	if prev, dup := parent.DefineLower(hir.LowerInfo{Name: d.Name, Range: d.Range(), DocumentId: u.Doc.ID, Symbol: sym}); dup {
		reportDuplicate(u, d.Name, d.Range(), prev.Range)
	}
	collectDefs(u, d.Defs, childId)
}
