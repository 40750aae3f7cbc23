package resolve

import "github.com/kieli-lang/kieli/internal/hir"

// freshSubst allocates one fresh general type variable per template
// parameter, returning both the tag→variable substitution map and the
// variables themselves in declaration order (for use as an
// EnumerationType's or a generic call's Args). Each reference to a generic
// symbol gets its own fresh set, per spec.md §4.5 "every use of a
// template parameter is instantiated independently."
func freshSubst(u *Unit, template []hir.TemplateParameterInfo) (map[hir.UnificationVariableTag]hir.TypeId, []hir.TypeId) {
	subst := make(map[hir.UnificationVariableTag]hir.TypeId, len(template))
	args := make([]hir.TypeId, len(template))
	for i, p := range template {
		fresh := u.HIR.FreshType(hir.KindGeneral)
		subst[p.Tag] = fresh
		args[i] = fresh
	}
	return subst, args
}

// substituteType rebuilds id with every Parameterized tag present in subst
// replaced by its mapped type, recursing through every compound type
// variant the same way types.OccursCheck and types.Unify's unifyConcrete
// do. Types untouched by subst (including already-concrete types and
// unrelated Parameterized tags) are returned unchanged.
func substituteType(u *Unit, id hir.TypeId, subst map[hir.UnificationVariableTag]hir.TypeId) hir.TypeId {
	switch t := u.HIR.Type(id).(type) {
	case hir.Parameterized:
		if rep, ok := subst[t.Tag]; ok {
			return rep
		}
		return id
	case hir.ArrayType:
		return u.HIR.PushType(hir.ArrayType{Element: substituteType(u, t.Element, subst), Length: t.Length})
	case hir.SliceType:
		return u.HIR.PushType(hir.SliceType{Element: substituteType(u, t.Element, subst)})
	case hir.ReferenceType:
		return u.HIR.PushType(hir.ReferenceType{Mutability: t.Mutability, Referenced: substituteType(u, t.Referenced, subst)})
	case hir.PointerType:
		return u.HIR.PushType(hir.PointerType{Mutability: t.Mutability, Pointee: substituteType(u, t.Pointee, subst)})
	case hir.TupleType:
		elems := make([]hir.TypeId, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = substituteType(u, e, subst)
		}
		return u.HIR.PushType(hir.TupleType{Elements: elems})
	case hir.FunctionType:
		params := make([]hir.TypeId, len(t.Params))
		for i, p := range t.Params {
			params[i] = substituteType(u, p, subst)
		}
		return u.HIR.PushType(hir.FunctionType{Params: params, Return: substituteType(u, t.Return, subst)})
	case hir.EnumerationType:
		args := make([]hir.TypeId, len(t.Args))
		for i, a := range t.Args {
			args[i] = substituteType(u, a, subst)
		}
		return u.HIR.PushType(hir.EnumerationType{Info: t.Info, Args: args})
	default:
		return id
	}
}

// caseType instantiates a fresh EnumerationType for info/idx and returns
// the case's value type: the enumeration type itself for a nullary case,
// or a constructor FunctionType from the case's (substituted) payload to
// that enumeration type otherwise. Used both for value-position case paths
// (`Option::Some`, bare struct names) and method self-type matching.
func caseType(u *Unit, id hir.EnumerationInfoId, idx int) hir.TypeId {
	resolveEnumeration(u, id)
	info := u.HIR.Enumeration(id)
	subst, args := freshSubst(u, info.Template)
	enumType := u.HIR.PushType(hir.EnumerationType{Info: id, Args: args})
	payload := info.Cases[idx].Payload
	if len(payload) == 0 {
		return enumType
	}
	params := make([]hir.TypeId, len(payload))
	for i, p := range payload {
		params[i] = substituteType(u, p, subst)
	}
	return u.HIR.PushType(hir.FunctionType{Params: params, Return: enumType})
}
