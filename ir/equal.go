package ir

// EqualStmt reports whether a and b are structurally equal, ignoring source
// references (spec §4.A). nil is only equal to nil.
func EqualStmt(a, b ThStmt) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case PassStmt:
		_, ok := b.(PassStmt)
		return ok
	case ExprStmt:
		bv, ok := b.(ExprStmt)
		return ok && EqualExpr(av.E, bv.E)
	case SeqStmt:
		bv, ok := b.(SeqStmt)
		return ok && EqualStmt(av.S1, bv.S1) && EqualStmt(av.S2, bv.S2)
	case AssignStmt:
		bv, ok := b.(AssignStmt)
		return ok && EqualExpr(av.Lhs, bv.Lhs) && EqualExpr(av.Rhs, bv.Rhs)
	case IfStmt:
		bv, ok := b.(IfStmt)
		return ok && EqualExpr(av.Cond, bv.Cond) && EqualStmt(av.Then, bv.Then) && EqualStmt(av.Else, bv.Else)
	case ForInStmt:
		bv, ok := b.(ForInStmt)
		return ok && av.Ident == bv.Ident && EqualExpr(av.Iter, bv.Iter) && EqualStmt(av.Body, bv.Body)
	case BreakStmt:
		_, ok := b.(BreakStmt)
		return ok
	case ContinueStmt:
		_, ok := b.(ContinueStmt)
		return ok
	case ReturnStmt:
		bv, ok := b.(ReturnStmt)
		return ok && EqualExpr(av.E, bv.E)
	case LetStmt:
		bv, ok := b.(LetStmt)
		return ok && av.Ident == bv.Ident && EqualStmt(av.Body, bv.Body) && EqualExpr(av.Init, bv.Init)
	case FunDefStmt:
		bv, ok := b.(FunDefStmt)
		return ok && av.Ident == bv.Ident && equalStrings(av.Params, bv.Params) &&
			EqualStmt(av.Body, bv.Body) && EqualStmt(av.Rest, bv.Rest)
	default:
		return false
	}
}

// EqualExpr reports whether a and b are structurally equal, ignoring source
// references. nil is only equal to nil.
func EqualExpr(a, b ThExpr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case ConstExpr:
		bv, ok := b.(ConstExpr)
		return ok && av.Kind == bv.Kind && av.Value == bv.Value
	case ObjectExpr:
		_, ok := b.(ObjectExpr)
		return ok
	case TupleExpr:
		bv, ok := b.(TupleExpr)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !EqualExpr(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case NameExpr:
		bv, ok := b.(NameExpr)
		return ok && av.Ident == bv.Ident
	case AttrExpr:
		bv, ok := b.(AttrExpr)
		return ok && av.Name == bv.Name && EqualExpr(av.Base, bv.Base)
	case SubscrExpr:
		bv, ok := b.(SubscrExpr)
		return ok && EqualExpr(av.Base, bv.Base) && EqualExpr(av.Index, bv.Index)
	case CallExpr:
		bv, ok := b.(CallExpr)
		if !ok || !EqualExpr(av.Callee, bv.Callee) || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !EqualExpr(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case LibCallExpr:
		bv, ok := b.(LibCallExpr)
		if !ok || av.Kind != bv.Kind || len(av.KVs) != len(bv.KVs) {
			return false
		}
		for i := range av.KVs {
			if av.KVs[i].Key != bv.KVs[i].Key || !EqualExpr(av.KVs[i].Expr, bv.KVs[i].Expr) {
				return false
			}
		}
		return true
	case BinOpExpr:
		bv, ok := b.(BinOpExpr)
		return ok && av.Op == bv.Op && EqualExpr(av.Left, bv.Left) && EqualExpr(av.Right, bv.Right)
	case UnaryOpExpr:
		bv, ok := b.(UnaryOpExpr)
		return ok && av.Op == bv.Op && EqualExpr(av.Operand, bv.Operand)
	default:
		return false
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
