package lower

import (
	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/nameutil"
	"github.com/thir-lang/thir/pyast"
)

// seqAll right-folds a slice of statements into a single Seq chain, per
// ThStmt's "right-associative by convention" ordering (spec §3.1). An empty
// slice yields nil — NewSeq already treats a nil side as absent.
func seqAll(stmts []ir.ThStmt) ir.ThStmt {
	var acc ir.ThStmt
	for i := len(stmts) - 1; i >= 0; i-- {
		acc = ir.NewSeq(stmts[i], acc, stmts[i].SrcRef())
	}
	return acc
}

// VisitArray lowers a statement list with no trailing continuation.
func (t *Translator) VisitArray(stmts []pyast.Node) (ir.ThStmt, error) {
	return t.visitBlock(stmts, nil)
}

// visitBlock lowers stmts and appends tail as the final continuation. A
// Function or Class encountered at index i has the remainder of the list
// (and tail) become its own continuation rather than being sequenced after
// it in the ordinary way, so the defined name is bound exactly once in the
// statements that follow it (spec §4.C, visitArray).
func (t *Translator) visitBlock(stmts []pyast.Node, tail ir.ThStmt) (ir.ThStmt, error) {
	if len(stmts) == 0 {
		return tail, nil
	}
	head, rest := stmts[0], stmts[1:]

	switch s := head.(type) {
	case pyast.Function:
		continuation, err := t.visitBlock(rest, tail)
		if err != nil {
			return nil, err
		}
		return t.lowerFunction(s, continuation)
	case pyast.Class:
		continuation, err := t.visitBlock(rest, tail)
		if err != nil {
			return nil, err
		}
		return t.lowerClass(s, continuation)
	default:
		lowered, err := t.VisitStmt(head)
		if err != nil {
			return nil, err
		}
		continuation, err := t.visitBlock(rest, tail)
		if err != nil {
			return nil, err
		}
		return ir.NewSeq(lowered, continuation, srcRef(head)), nil
	}
}

// VisitStmt lowers a single statement node. Function and Class are handled
// exclusively by visitBlock (they need the following statements as their
// continuation), so they never reach here from ordinary dispatch.
func (t *Translator) VisitStmt(n pyast.Node) (ir.ThStmt, error) {
	ref := srcRef(n)
	switch s := n.(type) {
	case pyast.Pass:
		return ir.NewPass(ref), nil
	case pyast.ExprStatement:
		e, err := t.VisitExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return ir.NewExprStmt(e, ref), nil
	case pyast.Assignment:
		return t.lowerAssignment(s)
	case pyast.AugmentedAssignment:
		return t.lowerAugAssign(s)
	case pyast.If:
		return t.lowerIf(s)
	case pyast.For:
		return t.lowerFor(s)
	case pyast.While:
		return t.lowerWhile(s)
	case pyast.With:
		return t.lowerWith(s)
	case pyast.Break:
		return ir.NewBreak(ref), nil
	case pyast.Continue:
		return ir.NewContinue(ref), nil
	case pyast.Return:
		if s.Value == nil {
			return ir.NewReturn(nil, ref), nil
		}
		e, err := t.VisitExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return ir.NewReturn(e, ref), nil
	case pyast.Raise:
		return t.lowerRaise(s)
	case pyast.Assert:
		return t.lowerAssert(s)
	case pyast.Del:
		return t.unsupportedStmt(s, "del"), nil
	case pyast.Nonlocal:
		return ir.NewPass(ref), nil
	case pyast.Global:
		return ir.NewPass(ref), nil
	case pyast.Import:
		return t.lowerImport(s)
	case pyast.ImportAs:
		return t.lowerImportAs(s)
	case pyast.ImportFrom:
		return t.lowerImportFrom(s)
	default:
		panic(malformed(ref, "unhandled statement node %T", n))
	}
}

func (t *Translator) lowerIf(s pyast.If) (ir.ThStmt, error) {
	ref := srcRef(s)
	cond, err := t.VisitExpr(s.Cond)
	if err != nil {
		return nil, err
	}
	then, err := t.visitBlock(s.Body, nil)
	if err != nil {
		return nil, err
	}
	els, err := t.visitBlock(s.Else, nil)
	if err != nil {
		return nil, err
	}
	return ir.NewIf(cond, then, els, ref), nil
}

// visitLeftExpr lowers target as a left-expression. Anything other than
// Name, MemberAccess (Attr), or Index (Subscr) is a malformed AST: the
// caller's parser handed us a node outside the positions the frontend can
// lower (spec §7).
func (t *Translator) visitLeftExpr(target pyast.Node) (ir.ThExpr, error) {
	switch tg := target.(type) {
	case pyast.Name:
		return ir.NewName(tg.Ident, srcRef(tg)), nil
	case pyast.MemberAccess:
		base, err := t.VisitExpr(tg.Base)
		if err != nil {
			return nil, err
		}
		return ir.NewAttr(base, tg.Name, srcRef(tg)), nil
	case pyast.Index:
		base, err := t.VisitExpr(tg.Base)
		if err != nil {
			return nil, err
		}
		sub, err := t.VisitExpr(tg.Sub)
		if err != nil {
			return nil, err
		}
		return ir.NewSubscr(base, sub, srcRef(tg)), nil
	default:
		return nil, malformed(srcRef(target), "assignment target %T is not Name/Attr/Subscr", target)
	}
}

// lowerAssignTarget lowers target = rhs, destructuring Tuple/List targets
// against a fresh temporary (spec §4.C.5).
func (t *Translator) lowerAssignTarget(target pyast.Node, rhs ir.ThExpr, ref ir.SourceRef) (ir.ThStmt, error) {
	switch tt := target.(type) {
	case pyast.Tuple:
		return t.lowerDestructure(tt.Elems, rhs, ref)
	case pyast.List:
		return t.lowerDestructure(tt.Elems, rhs, ref)
	default:
		lhs, err := t.visitLeftExpr(target)
		if err != nil {
			return nil, err
		}
		return ir.NewAssign(lhs, rhs, ref), nil
	}
}

// lowerDestructure lowers `elems = rhs` to Let(temp, Seq(assign_0, ...),
// rhs), recursively destructuring any nested Tuple/List element (spec
// §4.C.5, scenario 3).
func (t *Translator) lowerDestructure(elems []pyast.Node, rhs ir.ThExpr, ref ir.SourceRef) (ir.ThStmt, error) {
	temp := t.fresh()
	stmts := make([]ir.ThStmt, 0, len(elems))
	for i, elem := range elems {
		idx := ir.NewSubscr(ir.NewName(temp, ref), ir.NewConst(ir.Int, int64(i), ref), ref)
		s, err := t.lowerAssignTarget(elem, idx, ref)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return ir.NewLet(temp, seqAll(stmts), rhs, ref), nil
}

func (t *Translator) lowerAssignment(a pyast.Assignment) (ir.ThStmt, error) {
	ref := srcRef(a)
	rhs, err := t.VisitExpr(a.Value)
	if err != nil {
		return nil, err
	}
	return t.lowerAssignTarget(a.Target, rhs, ref)
}

// lowerAugAssign lowers `x ⊕= y` to Assign(x, BinOp(⊕, x, y)) (spec §4.C.5).
func (t *Translator) lowerAugAssign(a pyast.AugmentedAssignment) (ir.ThStmt, error) {
	ref := srcRef(a)
	lhs, err := t.visitLeftExpr(a.Target)
	if err != nil {
		return nil, err
	}
	op, swap, ok := nameutil.ParseBinOp(a.Op)
	if !ok {
		return nil, malformed(ref, "unknown augmented-assignment operator %q", a.Op)
	}
	rhsVal, err := t.VisitExpr(a.Value)
	if err != nil {
		return nil, err
	}
	var bin ir.ThExpr
	if swap {
		bin = ir.NewBinOp(op, rhsVal, lhs, ref)
	} else {
		bin = ir.NewBinOp(op, lhs, rhsVal, ref)
	}
	return ir.NewAssign(lhs, bin, ref), nil
}

// lowerFor lowers `for t in it: body`; the else-suite is dropped silently
// (spec §4.C.6, open question in §9).
func (t *Translator) lowerFor(f pyast.For) (ir.ThStmt, error) {
	ref := srcRef(f)
	iter, err := t.VisitExpr(f.Iter)
	if err != nil {
		return nil, err
	}
	body, err := t.visitBlock(f.Body, nil)
	if err != nil {
		return nil, err
	}
	if name, ok := f.Target.(pyast.Name); ok {
		return ir.NewForIn(name.Ident, iter, body, ref), nil
	}
	loopVar := t.fresh()
	destructure, err := t.lowerAssignTarget(f.Target, ir.NewName(loopVar, ref), ref)
	if err != nil {
		return nil, err
	}
	return ir.NewForIn(loopVar, iter, ir.NewSeq(destructure, body, ref), ref), nil
}

// lowerWhile lowers `while cond: body` to a 300-iteration bounded ForIn
// (spec §4.C.6, P5, scenario 2). The bound is a fixed constant of the
// frontend, not configurable.
const whileUnrollBound = 300

func (t *Translator) lowerWhile(w pyast.While) (ir.ThStmt, error) {
	ref := srcRef(w)
	cond, err := t.VisitExpr(w.Cond)
	if err != nil {
		return nil, err
	}
	body, err := t.visitBlock(w.Body, nil)
	if err != nil {
		return nil, err
	}
	ident := t.fresh()
	rangeCall := ir.NewCall(ir.NewName("range", ref), []ir.ThExpr{ir.NewConst(ir.Int, int64(whileUnrollBound), ref)}, ref)
	guarded := ir.NewIf(cond, body, ir.NewBreak(ref), ref)
	return ir.NewForIn(ident, rangeCall, guarded, ref), nil
}

// lowerWith lowers `with e as t: body` to Seq(Assign(t, e), body);
// __enter__/__exit__ are never invoked (spec §4.C.6, documented
// limitation). A context item with no `as` clause is still evaluated, for
// its side effects, via a bare ExprStmt.
func (t *Translator) lowerWith(w pyast.With) (ir.ThStmt, error) {
	ref := srcRef(w)
	body, err := t.visitBlock(w.Body, nil)
	if err != nil {
		return nil, err
	}
	prelude := make([]ir.ThStmt, 0, len(w.Items))
	for _, item := range w.Items {
		ctx, err := t.VisitExpr(item.ContextExpr)
		if err != nil {
			return nil, err
		}
		if item.OptionalVars == nil {
			prelude = append(prelude, ir.NewExprStmt(ctx, ref))
			continue
		}
		assign, err := t.lowerAssignTarget(item.OptionalVars, ctx, ref)
		if err != nil {
			return nil, err
		}
		prelude = append(prelude, assign)
	}
	return ir.NewSeq(seqAll(prelude), body, ref), nil
}

// lowerAssert lowers `assert e[, msg]` per spec §4.C.8 and scenario 6.
func (t *Translator) lowerAssert(a pyast.Assert) (ir.ThStmt, error) {
	ref := srcRef(a)
	if t.cfg.IgnoreAssert {
		return ir.NewPass(ref), nil
	}
	test, err := t.VisitExpr(a.Test)
	if err != nil {
		return nil, err
	}
	var args []ir.ThExpr
	if a.Msg != nil {
		msg, err := t.VisitExpr(a.Msg)
		if err != nil {
			return nil, err
		}
		args = append(args, msg)
	}
	raiseVal := ir.NewCall(ir.NewName("AssertionError", ref), args, ref)
	raiseStmt := ir.NewExprStmt(ir.NewLibCall(ir.LCRaise, []ir.KV{{Key: "value", Expr: raiseVal}}, ref), ref)
	return ir.NewIf(test, ir.NewPass(ref), raiseStmt, ref), nil
}

// lowerRaise lowers `raise [E]` per spec §4.C.8. A bare raise raises
// RuntimeError().
func (t *Translator) lowerRaise(r pyast.Raise) (ir.ThStmt, error) {
	ref := srcRef(r)
	var val ir.ThExpr
	if r.Exc != nil {
		e, err := t.VisitExpr(r.Exc)
		if err != nil {
			return nil, err
		}
		val = e
	} else {
		val = ir.NewCall(ir.NewName("RuntimeError", ref), nil, ref)
	}
	return ir.NewExprStmt(ir.NewLibCall(ir.LCRaise, []ir.KV{{Key: "value", Expr: val}}, ref), ref), nil
}
