package lower

import (
	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/nameutil"
	"github.com/thir-lang/thir/pyast"
)

func allParamNames(params []pyast.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

// buildFunctionCore lowers a function's suite into the inner FunDef body
// (spec §4.C.2 step 1): the lowered statements, a trailing Return(None),
// and a Let for every name the body assigns to that isn't one of its own
// parameters (I2: a Name-target Assign must sit inside a matching Let).
func (t *Translator) buildFunctionCore(f pyast.Function, ref ir.SourceRef) (ir.ThStmt, []string, error) {
	paramNames := allParamNames(f.Params)
	excluded := make(map[string]bool, len(paramNames))
	for _, n := range paramNames {
		excluded[n] = true
	}
	locals := nameutil.ExtractLocalDef(f.Body, excluded)

	trailingReturn := ir.NewReturn(ir.NewConst(ir.None, nil, ref), ref)
	inner, err := t.visitBlock(f.Body, trailingReturn)
	if err != nil {
		return nil, nil, err
	}
	for _, name := range nameutil.SortedKeys(locals) {
		inner = ir.NewLet(name, inner, nil, ref)
	}
	return inner, paramNames, nil
}

// buildSetDefaultOrAlias lowers step 2 of spec §4.C.2: lhs = f$TMP$ when
// the function has no defaults/varargs/kwargs, otherwise
// lhs = LibCall(setDefault, [("$func", f$TMP$), default-kv-pairs,
// ("$varargsName", ...)?, ("$kwargsName", ...)?, ("$keyOnlyNum", n)?]).
func (t *Translator) buildSetDefaultOrAlias(f pyast.Function, tmpName string, lhs ir.ThExpr, ref ir.SourceRef) (ir.ThStmt, error) {
	varArgsIdx := -1
	kwArgsIdx := -1
	hasDefault := false
	for i, p := range f.Params {
		switch p.Category {
		case pyast.VarArgList:
			varArgsIdx = i
		case pyast.VarArgDictionary:
			kwArgsIdx = i
		}
		if p.Default != nil {
			hasDefault = true
		}
	}

	if !hasDefault && varArgsIdx < 0 && kwArgsIdx < 0 {
		return ir.NewAssign(lhs, ir.NewName(tmpName, ref), ref), nil
	}

	kvs := []ir.KV{{Key: "$func", Expr: ir.NewName(tmpName, ref)}}
	for _, p := range f.Params {
		if p.Default == nil {
			continue
		}
		d, err := t.VisitExpr(p.Default)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KV{Key: p.Name, Expr: d})
	}
	if varArgsIdx >= 0 {
		kvs = append(kvs, ir.KV{Key: "$varargsName", Expr: ir.NewConst(ir.String, f.Params[varArgsIdx].Name, ref)})
	}
	if kwArgsIdx >= 0 {
		kvs = append(kvs, ir.KV{Key: "$kwargsName", Expr: ir.NewConst(ir.String, f.Params[kwArgsIdx].Name, ref)})
	}
	if varArgsIdx >= 0 {
		keyOnlyNum := 0
		for i := varArgsIdx + 1; i < len(f.Params); i++ {
			if f.Params[i].Category == pyast.Simple {
				keyOnlyNum++
			}
		}
		if keyOnlyNum > 0 {
			kvs = append(kvs, ir.KV{Key: "$keyOnlyNum", Expr: ir.NewConst(ir.Int, int64(keyOnlyNum), ref)})
		}
	}
	return ir.NewAssign(lhs, ir.NewLibCall(ir.LCSetDefault, kvs, ref), ref), nil
}

// lowerFunction lowers a top-level (module- or function-body-local)
// `def f(...): ...` per spec §4.C.2, scenario 1.
func (t *Translator) lowerFunction(f pyast.Function, continuation ir.ThStmt) (ir.ThStmt, error) {
	ref := srcRef(f)
	tmp := f.Name + "$TMP$"
	inner, paramNames, err := t.buildFunctionCore(f, ref)
	if err != nil {
		return nil, err
	}
	outerAssign, err := t.buildSetDefaultOrAlias(f, tmp, ir.NewName(f.Name, ref), ref)
	if err != nil {
		return nil, err
	}
	rest := ir.NewSeq(outerAssign, continuation, ref)
	return ir.NewFunDef(tmp, paramNames, inner, rest, ref), nil
}
