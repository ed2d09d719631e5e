package lower

import (
	"strings"

	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/nameutil"
	"github.com/thir-lang/thir/pyast"
)

// VisitExpr lowers a single expression node.
func (t *Translator) VisitExpr(n pyast.Node) (ir.ThExpr, error) {
	ref := srcRef(n)
	switch e := n.(type) {
	case pyast.Name:
		return ir.NewName(e.Ident, ref), nil
	case pyast.MemberAccess:
		return t.visitLeftExpr(e)
	case pyast.Index:
		return t.visitLeftExpr(e)
	case pyast.Number:
		if e.IsFloat {
			return ir.NewConst(ir.Float, e.FloatVal, ref), nil
		}
		return ir.NewConst(ir.Int, e.IntVal, ref), nil
	case pyast.String:
		return ir.NewConst(ir.String, e.Value, ref), nil
	case pyast.StringList:
		var sb strings.Builder
		for _, p := range e.Parts {
			s, ok := p.(pyast.String)
			if !ok {
				return t.unsupportedExpr(e, "string list with non-literal part"), nil
			}
			sb.WriteString(s.Value)
		}
		return ir.NewConst(ir.String, sb.String(), ref), nil
	case pyast.Constant:
		switch e.Kind {
		case pyast.ConstTrue:
			return ir.NewConst(ir.Bool, true, ref), nil
		case pyast.ConstFalse:
			return ir.NewConst(ir.Bool, false, ref), nil
		default:
			return ir.NewConst(ir.None, nil, ref), nil
		}
	case pyast.Tuple:
		elems, err := t.visitExprList(e.Elems)
		if err != nil {
			return nil, err
		}
		return ir.NewTuple(elems, ref), nil
	case pyast.List:
		return t.lowerList(e)
	case pyast.Dictionary:
		return t.lowerDict(e)
	case pyast.Call:
		return t.lowerCall(e)
	case pyast.BinaryOperation:
		return t.lowerBinOp(e)
	case pyast.UnaryOperation:
		op, ok := nameutil.ParseUnaryOp(e.Op)
		if !ok {
			return nil, malformed(ref, "unknown unary operator %q", e.Op)
		}
		operand, err := t.VisitExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		return ir.NewUnaryOp(op, operand, ref), nil
	case pyast.Ternary:
		return t.unsupportedExpr(e, "conditional expression"), nil
	case pyast.Slice:
		return t.unsupportedExpr(e, "slice subscript"), nil
	case pyast.EllipsisNode:
		return t.unsupportedExpr(e, "ellipsis literal"), nil
	default:
		panic(malformed(ref, "unhandled expression node %T", n))
	}
}

func (t *Translator) visitExprList(nodes []pyast.Node) ([]ir.ThExpr, error) {
	out := make([]ir.ThExpr, len(nodes))
	for i, n := range nodes {
		e, err := t.VisitExpr(n)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (t *Translator) lowerBinOp(e pyast.BinaryOperation) (ir.ThExpr, error) {
	ref := srcRef(e)
	op, swap, ok := nameutil.ParseBinOp(e.Op)
	if !ok {
		return nil, malformed(ref, "unknown binary operator %q", e.Op)
	}
	left, err := t.VisitExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := t.VisitExpr(e.Right)
	if err != nil {
		return nil, err
	}
	if swap {
		return ir.NewBinOp(op, right, left, ref), nil
	}
	return ir.NewBinOp(op, left, right, ref), nil
}

// lowerList lowers a list literal to LibCall(genList, ...) with positional
// keys param0, param1, ... (spec §4.C.9).
func (t *Translator) lowerList(l pyast.List) (ir.ThExpr, error) {
	ref := srcRef(l)
	kvs, err := t.buildPositionalKVs(l.Elems)
	if err != nil {
		return nil, err
	}
	return ir.NewLibCall(ir.LCGenList, kvs, ref), nil
}

func (t *Translator) buildPositionalKVs(nodes []pyast.Node) ([]ir.KV, error) {
	kvs := make([]ir.KV, 0, len(nodes))
	for i, n := range nodes {
		e, err := t.VisitExpr(n)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KV{Key: positionalKey(i), Expr: e})
	}
	return kvs, nil
}

func positionalKey(i int) string {
	return "param" + itoa(i)
}

// lowerDict lowers a dict literal to LibCall(genDict, ...), one ("keyN",
// key) / ("valueN", value) pair per entry. Expansion entries (`**d`) are
// dropped silently, per the open question in spec §9 — they do not
// consume an index, so surviving entries stay contiguously numbered.
func (t *Translator) lowerDict(d pyast.Dictionary) (ir.ThExpr, error) {
	ref := srcRef(d)
	kvs := make([]ir.KV, 0, 2*len(d.Entries))
	idx := 0
	for _, entry := range d.Entries {
		if entry.IsExpansion {
			t.note(srcRef(d), "dict expansion entry dropped")
			continue
		}
		key, err := t.VisitExpr(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := t.VisitExpr(entry.Value)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KV{Key: "key" + itoa(idx), Expr: key})
		kvs = append(kvs, ir.KV{Key: "value" + itoa(idx), Expr: value})
		idx++
	}
	return ir.NewLibCall(ir.LCGenDict, kvs, ref), nil
}
