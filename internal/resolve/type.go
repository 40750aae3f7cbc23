package resolve

import (
	"github.com/kieli-lang/kieli/internal/ast"
	"github.com/kieli-lang/kieli/internal/hir"
	"github.com/kieli-lang/kieli/internal/source"
)

// builtinIntegers/builtinFloats map the surface spelling of a primitive
// type name to its HIR representation. The grammar doesn't reserve these
// as keywords (spec.md §6.2 only reserves the lexical *literal*
// categories int/float/str/char/bool); they are ordinary upper-case names
// resolved here before falling through to the environment chain, the same
// way the original compiler's resolve_type.cpp special-cases its
// "primitive type" identifiers ahead of a real environment lookup.
var builtinIntegers = map[string]struct {
	bits   int
	signed bool
}{
	"Int": {64, true}, "I8": {8, true}, "I16": {16, true}, "I32": {32, true}, "I64": {64, true},
	"U8": {8, false}, "U16": {16, false}, "U32": {32, false}, "U64": {64, false},
}

func resolveType(u *Unit, scopeId hir.ScopeId, envId hir.EnvironmentId, id ast.TypeId) hir.TypeId {
	switch t := u.AST.Type(id).(type) {
	case ast.NamedType:
		return resolveNamedType(u, scopeId, envId, t)
	case ast.ArrayType:
		elem := resolveType(u, scopeId, envId, t.Element)
		lengthExpr, _ := InferExpr(u, scopeId, envId, t.Length)
		return u.HIR.PushType(hir.ArrayType{Element: elem, Length: lengthExpr})
	case ast.SliceType:
		return u.HIR.PushType(hir.SliceType{Element: resolveType(u, scopeId, envId, t.Element)})
	case ast.ReferenceType:
		mut := resolveMutability(u, scopeId, t.Mutability)
		return u.HIR.PushType(hir.ReferenceType{Mutability: mut, Referenced: resolveType(u, scopeId, envId, t.Inner)})
	case ast.PointerType:
		mut := resolveMutability(u, scopeId, t.Mutability)
		return u.HIR.PushType(hir.PointerType{Mutability: mut, Pointee: resolveType(u, scopeId, envId, t.Inner)})
	case ast.TupleType:
		elems := make([]hir.TypeId, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = resolveType(u, scopeId, envId, e)
		}
		return u.HIR.PushType(hir.TupleType{Elements: elems})
	case ast.TypeofType:
		_, ty := InferExpr(u, scopeId, envId, t.Inner)
		return ty
	case ast.FunctionType:
		params := make([]hir.TypeId, len(t.Params))
		for i, p := range t.Params {
			params[i] = resolveType(u, scopeId, envId, p)
		}
		ret := u.HIR.PushType(hir.TupleType{})
		if t.HasRet {
			ret = resolveType(u, scopeId, envId, t.Ret)
		}
		return u.HIR.PushType(hir.FunctionType{Params: params, Return: ret})
	default:
		return u.HIR.PushType(hir.ErrorType{})
	}
}

func resolveNamedType(u *Unit, scopeId hir.ScopeId, envId hir.EnvironmentId, t ast.NamedType) hir.TypeId {
	if b, ok := builtinIntegers[t.Name]; ok {
		return u.HIR.PushType(hir.IntegerType{Bits: b.bits, Signed: b.signed})
	}
	switch t.Name {
	case "Float", "F32", "F64":
		return u.HIR.PushType(hir.FloatingType{})
	case "Bool":
		return u.HIR.PushType(hir.BooleanType{})
	case "Char":
		return u.HIR.PushType(hir.CharacterType{})
	case "String":
		return u.HIR.PushType(hir.StringType{})
	}
	if local, ok := u.HIR.FindType(scopeId, t.Name); ok {
		info := u.HIR.LocalType(local)
		return u.HIR.PushType(hir.Parameterized{Name: info.Name, Tag: info.Tag})
	}
	sym, ok := ResolveTypePath(u, envId, []string{t.Name}, source.Range{})
	if !ok {
		return u.HIR.PushType(hir.ErrorType{})
	}
	return typeFromSymbol(u, scopeId, envId, sym, t.Args)
}

func typeFromSymbol(u *Unit, scopeId hir.ScopeId, envId hir.EnvironmentId, sym hir.Symbol, astArgs []ast.TypeId) hir.TypeId {
	switch sym.Kind {
	case hir.SymbolEnumeration:
		resolveEnumeration(u, sym.EnumerationId())
		args := make([]hir.TypeId, len(astArgs))
		for i, a := range astArgs {
			args[i] = resolveType(u, scopeId, envId, a)
		}
		return u.HIR.PushType(hir.EnumerationType{Info: sym.EnumerationId(), Args: args})
	case hir.SymbolAlias:
		resolveAlias(u, sym.AliasId())
		info := u.HIR.Alias(sym.AliasId())
		if info.State != hir.Resolved {
			// a cyclic reference, already reported by resolveAlias
			return u.HIR.PushType(hir.ErrorType{})
		}
		subst := make(map[hir.UnificationVariableTag]hir.TypeId, len(info.Template))
		for i, tp := range info.Template {
			if i < len(astArgs) {
				subst[tp.Tag] = resolveType(u, scopeId, envId, astArgs[i])
			} else {
				subst[tp.Tag] = u.HIR.FreshType(hir.KindGeneral)
			}
		}
		return substituteType(u, info.Target, subst)
	case hir.SymbolLocalType:
		info := u.HIR.LocalType(hir.LocalTypeId(sym.Index))
		return u.HIR.PushType(hir.Parameterized{Name: info.Name, Tag: info.Tag})
	default:
		return u.HIR.PushType(hir.ErrorType{})
	}
}

func resolveMutability(u *Unit, scopeId hir.ScopeId, id ast.MutabilityId) hir.MutabilityId {
	switch m := u.AST.Mutability(id).(type) {
	case ast.ConcreteMutability:
		return u.HIR.PushMutability(hir.ConcreteMutability{Mut: m.Mut})
	case ast.NamedMutability:
		if local, ok := u.HIR.FindMutability(scopeId, m.Name); ok {
			return u.HIR.PushMutability(hir.MutabilityParameter{Local: local})
		}
		// Unbound named mutability parameter: leave it as a fresh
		// unification variable so inference can still proceed; the
		// missing binding itself was already reported as an unresolved
		// name by whatever parsed it as a pattern/template parameter.
		return u.HIR.FreshMutability()
	default:
		return u.HIR.PushMutability(hir.ConcreteMutability{Mut: false})
	}
}
