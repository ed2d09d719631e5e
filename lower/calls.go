package lower

import (
	"strings"

	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/pyast"
)

// lowerCall lowers a call expression, recognizing super(), the LibCall
// pseudo-module's attribute-path calls, and keyword/star-argument calls
// (spec §4.C.4).
func (t *Translator) lowerCall(c pyast.Call) (ir.ThExpr, error) {
	ref := srcRef(c)

	if name, ok := c.Func.(pyast.Name); ok && name.Ident == "super" {
		return t.lowerSuperCall(c)
	}

	if kind, kvs, ok, err := t.tryLowerLibCallAttr(c); err != nil {
		return nil, err
	} else if ok {
		return ir.NewLibCall(kind, kvs, ref), nil
	}

	hasKVArg := false
	for _, a := range c.Args {
		if a.Keyword != "" || a.IsStarArg || a.IsDoubleStarArg {
			hasKVArg = true
			break
		}
	}

	callee, err := t.VisitExpr(c.Func)
	if err != nil {
		return nil, err
	}

	if hasKVArg {
		return t.buildCallKV(callee, c.Args, ref)
	}

	args := make([]ir.ThExpr, len(c.Args))
	for i, a := range c.Args {
		v, err := t.VisitExpr(a.Value)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return ir.NewCall(callee, args, ref), nil
}

// lowerSuperCall lowers super(a?, b?) (spec §4.C.4).
func (t *Translator) lowerSuperCall(c pyast.Call) (ir.ThExpr, error) {
	ref := srcRef(c)
	switch len(c.Args) {
	case 0:
		kvs := []ir.KV{
			{Key: "baseClass", Expr: ir.NewName("__class__", ref)},
			{Key: "self", Expr: ir.NewName("__self__", ref)},
		}
		return ir.NewLibCall(ir.LCSuper, kvs, ref), nil
	case 1:
		base, err := t.VisitExpr(c.Args[0].Value)
		if err != nil {
			return nil, err
		}
		kvs := []ir.KV{
			{Key: "baseClass", Expr: base},
			{Key: "self", Expr: ir.NewName("__self__", ref)},
		}
		return ir.NewLibCall(ir.LCSuper, kvs, ref), nil
	default:
		base, err := t.VisitExpr(c.Args[0].Value)
		if err != nil {
			return nil, err
		}
		self, err := t.VisitExpr(c.Args[1].Value)
		if err != nil {
			return nil, err
		}
		kvs := []ir.KV{{Key: "baseClass", Expr: base}, {Key: "self", Expr: self}}
		return ir.NewLibCall(ir.LCSuper, kvs, ref), nil
	}
}

// tryLowerLibCallAttr recognizes `LibCall.<path>(...)` call expressions
// (spec §4.C.4): the pseudo-module's well-known attributes (getAttr,
// DEBUG, objectClass) map to the matching LibCall kind directly; any other
// attribute path lowers to kind `explicit` with the joined path as $func.
func (t *Translator) tryLowerLibCallAttr(c pyast.Call) (ir.LibCallKind, []ir.KV, bool, error) {
	ma, ok := c.Func.(pyast.MemberAccess)
	if !ok {
		return "", nil, false, nil
	}
	segments := []string{ma.Name}
	cur := ma.Base
	for {
		nested, ok := cur.(pyast.MemberAccess)
		if !ok {
			break
		}
		segments = append([]string{nested.Name}, segments...)
		cur = nested.Base
	}
	root, ok := cur.(pyast.Name)
	if !ok || root.Ident != "LibCall" {
		return "", nil, false, nil
	}

	ref := srcRef(c)

	switch segments[0] {
	case "getAttr":
		argKVs, err := t.buildPositionalArgKVs(c.Args)
		if err != nil {
			return "", nil, false, err
		}
		return ir.LCGetAttr, argKVs, true, nil
	case "DEBUG":
		// LibCall.DEBUG("msg") keeps its one argument under the "msg" key
		// rather than the generic paramN scheme (original PyTea frontend's
		// LCImpl.DEBUG takes a literal breadcrumb string, not a call to
		// re-lower positionally).
		if len(c.Args) != 1 {
			return "", nil, false, malformed(ref, "LibCall.DEBUG takes exactly one message argument")
		}
		msg, err := t.VisitExpr(c.Args[0].Value)
		if err != nil {
			return "", nil, false, err
		}
		return ir.LCDebug, []ir.KV{{Key: "msg", Expr: msg}}, true, nil
	case "objectClass":
		argKVs, err := t.buildPositionalArgKVs(c.Args)
		if err != nil {
			return "", nil, false, err
		}
		return ir.LCObjectClass, argKVs, true, nil
	default:
		argKVs, err := t.buildPositionalArgKVs(c.Args)
		if err != nil {
			return "", nil, false, err
		}
		full := strings.Join(segments, ".")
		kvs := append([]ir.KV{{Key: "$func", Expr: ir.NewConst(ir.String, full, ref)}}, argKVs...)
		return ir.LCExplicit, kvs, true, nil
	}
}

// buildPositionalArgKVs lowers a plain argument list (no keyword/star
// arguments expected — LibCall pseudo-calls are always plain) to
// positional-keyed KVs.
func (t *Translator) buildPositionalArgKVs(args []pyast.Argument) ([]ir.KV, error) {
	kvs := make([]ir.KV, 0, len(args))
	for i, a := range args {
		e, err := t.VisitExpr(a.Value)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KV{Key: positionalKey(i), Expr: e})
	}
	return kvs, nil
}

// buildCallKV lowers a call carrying a keyword, *-unpack, or **-unpack
// argument to LibCall(callKV, [("$func", callee), ...]) (spec §4.C.4).
// Positional arguments keep the param-N keying used elsewhere (genList,
// genDict); keyword arguments use their own name; unpacked arguments use
// reserved $starN/$starstarN keys, indexed independently in case more than
// one unpack site appears in a single call.
func (t *Translator) buildCallKV(callee ir.ThExpr, args []pyast.Argument, ref ir.SourceRef) (ir.ThExpr, error) {
	kvs := []ir.KV{{Key: "$func", Expr: callee}}
	posIdx, starIdx, starstarIdx := 0, 0, 0
	for _, a := range args {
		v, err := t.VisitExpr(a.Value)
		if err != nil {
			return nil, err
		}
		switch {
		case a.IsStarArg:
			kvs = append(kvs, ir.KV{Key: "$star" + itoa(starIdx), Expr: v})
			starIdx++
		case a.IsDoubleStarArg:
			kvs = append(kvs, ir.KV{Key: "$starstar" + itoa(starstarIdx), Expr: v})
			starstarIdx++
		case a.Keyword != "":
			kvs = append(kvs, ir.KV{Key: a.Keyword, Expr: v})
		default:
			kvs = append(kvs, ir.KV{Key: positionalKey(posIdx), Expr: v})
			posIdx++
		}
	}
	return ir.NewLibCall(ir.LCCallKV, kvs, ref), nil
}
