package ir

import (
	"fmt"
	"strings"
)

// String renders e for debugging. It is not a serialization format; the
// spec's exporter (out of scope here) owns the canonical textual form.
func (e ConstExpr) String() string { return fmt.Sprintf("Const(%s, %v)", e.Kind, e.Value) }
func (ObjectExpr) String() string  { return "Object()" }
func (e TupleExpr) String() string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		parts[i] = fmt.Sprint(el)
	}
	return fmt.Sprintf("Tuple(%s)", strings.Join(parts, ", "))
}
func (e NameExpr) String() string { return e.Ident }
func (e AttrExpr) String() string { return fmt.Sprintf("%v.%s", e.Base, e.Name) }
func (e SubscrExpr) String() string {
	return fmt.Sprintf("%v[%v]", e.Base, e.Index)
}
func (e CallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("%v(%s)", e.Callee, strings.Join(parts, ", "))
}
func (e LibCallExpr) String() string {
	parts := make([]string, len(e.KVs))
	for i, kv := range e.KVs {
		parts[i] = fmt.Sprintf("%s=%v", kv.Key, kv.Expr)
	}
	return fmt.Sprintf("LibCall.%s(%s)", e.Kind, strings.Join(parts, ", "))
}
func (e BinOpExpr) String() string {
	return fmt.Sprintf("(%v %s %v)", e.Left, e.Op, e.Right)
}
func (e UnaryOpExpr) String() string {
	return fmt.Sprintf("%s(%v)", e.Op, e.Operand)
}

func (PassStmt) String() string { return "pass" }
func (e ExprStmt) String() string { return fmt.Sprint(e.E) }
func (s SeqStmt) String() string  { return fmt.Sprintf("%v; %v", s.S1, s.S2) }
func (s AssignStmt) String() string {
	return fmt.Sprintf("%v = %v", s.Lhs, s.Rhs)
}
func (s IfStmt) String() string {
	if s.Else == nil {
		return fmt.Sprintf("if %v: %v", s.Cond, s.Then)
	}
	return fmt.Sprintf("if %v: %v else: %v", s.Cond, s.Then, s.Else)
}
func (s ForInStmt) String() string {
	return fmt.Sprintf("for %s in %v: %v", s.Ident, s.Iter, s.Body)
}
func (BreakStmt) String() string    { return "break" }
func (ContinueStmt) String() string { return "continue" }
func (s ReturnStmt) String() string {
	if s.E == nil {
		return "return"
	}
	return fmt.Sprintf("return %v", s.E)
}
func (s LetStmt) String() string {
	if s.Init == nil {
		return fmt.Sprintf("let %s in %v", s.Ident, s.Body)
	}
	return fmt.Sprintf("let %s = %v in %v", s.Ident, s.Init, s.Body)
}
func (s FunDefStmt) String() string {
	return fmt.Sprintf("fun %s(%s): %v; %v", s.Ident, strings.Join(s.Params, ", "), s.Body, s.Rest)
}
