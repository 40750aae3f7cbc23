package resolve

import (
	"fmt"

	"github.com/kieli-lang/kieli/internal/ast"
	"github.com/kieli-lang/kieli/internal/hir"
	"github.com/kieli-lang/kieli/internal/source"
	"github.com/kieli-lang/kieli/internal/types"
)

// ResolveAll drives resolution of every collected symbol in the order
// collection produced (spec.md §5 "Ordering"), recursing into nested
// module environments, then resolves every impl block's self type and
// methods.
func ResolveAll(u *Unit) {
	resolveEnvironment(u, u.RootEnv)
	for i := range u.HIR.Impls {
		resolveImpl(u, hir.ImplInfoId(i))
	}
}

func resolveEnvironment(u *Unit, envId hir.EnvironmentId) {
	env := u.HIR.Environment(envId)
	for _, sym := range env.InOrder {
		resolveSymbol(u, sym)
	}
}

func resolveSymbol(u *Unit, sym hir.Symbol) {
	switch sym.Kind {
	case hir.SymbolFunction:
		resolveFunction(u, sym.FunctionId())
	case hir.SymbolEnumeration:
		resolveEnumeration(u, sym.EnumerationId())
	case hir.SymbolAlias:
		resolveAlias(u, sym.AliasId())
	case hir.SymbolConcept:
		resolveConcept(u, sym.ConceptId())
	case hir.SymbolModule:
		resolveModule(u, sym.ModuleId())
	}
}

// enterCycleGuard reports re-entry into a currently-resolving info slot as
// an error, per spec.md §4.4 "Import": "cycles are broken by marking an
// info slot currently_resolving during its resolution and emitting an
// error on re-entry." Returns false when the caller should bail out.
func enterCycleGuard(u *Unit, state *hir.ResolutionState, name string, rng source.Range) bool {
	switch *state {
	case hir.Resolved:
		return false
	case hir.CurrentlyResolving:
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: fmt.Sprintf("cyclic definition involving %q", name), Range: rng})
		return false
	default:
		*state = hir.CurrentlyResolving
		return true
	}
}

func bindTemplateParams(scope *hir.Scope, params []hir.TemplateParameterInfo, arena *hir.Arena) {
	for _, p := range params {
		local := arena.PushLocalType(hir.LocalTypeInfo{Name: p.Name, Tag: p.Tag})
		hir.BindType(scope, p.Name, source.Range{}, local)
	}
}

func resolveFunction(u *Unit, id hir.FunctionInfoId) {
	info := u.HIR.Function(id)
	if !enterCycleGuard(u, &info.State, info.Name, info.NameRange) {
		return
	}

	scopeId := u.HIR.NewScope(u.Doc.ID, 0, false)
	scope := u.HIR.Scope(scopeId)
	bindTemplateParams(scope, info.OuterTemplate, u.HIR)
	info.Template = templateParamInfos(u, info.AST.Template)
	bindTemplateParams(scope, info.Template, u.HIR)

	info.Params = make([]hir.ParameterInfo, len(info.AST.Params))
	for i, p := range info.AST.Params {
		pt := resolveType(u, scopeId, info.EnvironmentId, p.Type)
		info.Params[i] = hir.ParameterInfo{Name: p.Name, Type: pt}
		local := u.HIR.PushLocalVariable(hir.LocalVariableInfo{Name: p.Name, Type: pt, Mutability: u.HIR.PushMutability(hir.ConcreteMutability{Mut: false})})
		hir.BindVariable(scope, p.Name, info.NameRange, local)
	}

	info.HasRet = info.AST.HasRet
	if info.HasRet {
		info.Return = resolveType(u, scopeId, info.EnvironmentId, info.AST.Ret)
	} else {
		info.Return = u.HIR.PushType(hir.TupleType{})
	}

	if info.HasBody {
		bodyId, bodyType := InferFunctionBody(u, scopeId, info.EnvironmentId, info.AST.Body, &info.Return)
		info.Body = bodyId
		if _, err := types.Unify(u.HIR, info.Return, bodyType); err != nil {
			u.Doc.Report(source.Diagnostic{
				Severity: source.SeverityError,
				Message:  fmt.Sprintf("function %q: %s", info.Name, err.Error()),
				Range:    u.HIR.Expr(bodyId).Range(),
			})
		}
	}

	for _, w := range hir.ReportUnused(scope) {
		u.Doc.Report(source.Diagnostic{Severity: source.SeverityWarning, Message: fmt.Sprintf("unused name: %s (prefix with _ if intentional)", w.Name), Range: w.Range})
	}

	assertFullyResolved(u, info)
	info.State = hir.Resolved
}

// assertFullyResolved walks the function body's expressions looking for
// any unification variable still Unsolved, per spec.md §4.5 "End of
// inference": unsolved variables are a "type annotation required" error
// at their origin range.
func assertFullyResolved(u *Unit, info *hir.FunctionInfo) {
	if !info.HasBody {
		return
	}
	checkResolved(u, info.Return, info.NameRange)
}

func checkResolved(u *Unit, id hir.TypeId, rng source.Range) {
	flat := types.Flatten(u.HIR, id)
	if v, ok := u.HIR.Type(flat).(hir.TypeVariable); ok {
		if !u.HIR.Unify.TypeVariable(v.Id).Solved {
			u.Doc.Report(source.Diagnostic{Severity: source.SeverityError, Message: "type annotation required", Range: rng})
		}
	}
}

func resolveEnumeration(u *Unit, id hir.EnumerationInfoId) {
	info := u.HIR.Enumeration(id)
	if !enterCycleGuard(u, &info.State, info.Name, info.NameRange) {
		return
	}
	scopeId := u.HIR.NewScope(u.Doc.ID, 0, false)
	scope := u.HIR.Scope(scopeId)
	bindTemplateParams(scope, info.Template, u.HIR)

	if info.IsStruct {
		d := info.AST.(ast.StructDef)
		payload := make([]hir.TypeId, len(d.Fields))
		for i, f := range d.Fields {
			payload[i] = resolveType(u, scopeId, info.EnvironmentId, f.Type)
		}
		info.Cases = []hir.EnumerationCase{{Name: d.Name, Payload: payload}}
	} else {
		d := info.AST.(ast.EnumDef)
		info.Cases = make([]hir.EnumerationCase, len(d.Cases))
		for i, c := range d.Cases {
			payload := make([]hir.TypeId, len(c.Payload))
			for j, pt := range c.Payload {
				payload[j] = resolveType(u, scopeId, info.EnvironmentId, pt)
			}
			info.Cases[i] = hir.EnumerationCase{Name: c.Name, Payload: payload}
		}
	}
	info.State = hir.Resolved
}

func resolveAlias(u *Unit, id hir.AliasInfoId) {
	info := u.HIR.Alias(id)
	if !enterCycleGuard(u, &info.State, info.Name, info.NameRange) {
		return
	}
	scopeId := u.HIR.NewScope(u.Doc.ID, 0, false)
	scope := u.HIR.Scope(scopeId)
	bindTemplateParams(scope, info.Template, u.HIR)
	info.Target = resolveType(u, scopeId, info.EnvironmentId, info.AST.Target)
	info.State = hir.Resolved
}

func resolveConcept(u *Unit, id hir.ConceptInfoId) {
	info := u.HIR.Concept(id)
	if !enterCycleGuard(u, &info.State, info.Name, info.NameRange) {
		return
	}
	for _, m := range info.Methods {
		resolveFunction(u, m)
	}
	info.State = hir.Resolved
}

func resolveModule(u *Unit, id hir.ModuleInfoId) {
	info := u.HIR.Module(id)
	resolveEnvironment(u, info.Inner)
}

// resolveImpl resolves an impl block's self type and every method inside
// it. Impl blocks have no State guard of their own in the cycle-breaking
// sense (spec.md's cycle-breaking applies to named symbols; an impl block
// is anonymous) but method bodies still go through resolveFunction's own
// per-function guard.
func resolveImpl(u *Unit, id hir.ImplInfoId) {
	info := u.HIR.Impl(id)
	if info.State == hir.Resolved {
		return
	}
	info.State = hir.CurrentlyResolving
	scopeId := u.HIR.NewScope(u.Doc.ID, 0, false)
	scope := u.HIR.Scope(scopeId)
	bindTemplateParams(scope, info.Template, u.HIR)
	info.SelfType = resolveType(u, scopeId, info.EnvironmentId, info.AST.SelfType)
	for _, m := range info.Methods {
		resolveFunction(u, m)
	}
	info.State = hir.Resolved
}
