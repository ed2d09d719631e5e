package ir

// ThExpr is the closed sum type of ThIR expressions. Every concrete type in
// this file implements it; exhaustive handling is done by a type switch in
// package lower's downstream consumers (and in EqualExpr in equal.go and the
// String methods in print.go).
type ThExpr interface {
	isThExpr()
	SrcRef() SourceRef
}

// LeftExpr marks the subset of ThExpr that may appear as an Assign target:
// Name, Attr, and Subscr (spec §3.1).
type LeftExpr interface {
	ThExpr
	isLeftExpr()
}

// KV is a single key-expression pair, used by LibCall's keyed argument list.
type KV struct {
	Key  string
	Expr ThExpr
}

type ConstExpr struct {
	Kind  ConstKind
	Value any
	Ref   SourceRef
}

func (ConstExpr) isThExpr()          {}
func (e ConstExpr) SrcRef() SourceRef { return e.Ref }

// NewConst builds a Const expression. Constructors in this package are total.
func NewConst(kind ConstKind, value any, ref SourceRef) ConstExpr {
	return ConstExpr{Kind: kind, Value: value, Ref: ref}
}

type ObjectExpr struct {
	Ref SourceRef
}

func (ObjectExpr) isThExpr()          {}
func (e ObjectExpr) SrcRef() SourceRef { return e.Ref }

func NewObject(ref SourceRef) ObjectExpr { return ObjectExpr{Ref: ref} }

type TupleExpr struct {
	Elems []ThExpr
	Ref   SourceRef
}

func (TupleExpr) isThExpr()          {}
func (e TupleExpr) SrcRef() SourceRef { return e.Ref }

func NewTuple(elems []ThExpr, ref SourceRef) TupleExpr {
	return TupleExpr{Elems: elems, Ref: ref}
}

type NameExpr struct {
	Ident string
	Ref   SourceRef
}

func (NameExpr) isThExpr()          {}
func (NameExpr) isLeftExpr()        {}
func (e NameExpr) SrcRef() SourceRef { return e.Ref }

func NewName(ident string, ref SourceRef) NameExpr {
	return NameExpr{Ident: ident, Ref: ref}
}

type AttrExpr struct {
	Base ThExpr
	Name string
	Ref  SourceRef
}

func (AttrExpr) isThExpr()          {}
func (AttrExpr) isLeftExpr()        {}
func (e AttrExpr) SrcRef() SourceRef { return e.Ref }

func NewAttr(base ThExpr, name string, ref SourceRef) AttrExpr {
	return AttrExpr{Base: base, Name: name, Ref: ref}
}

type SubscrExpr struct {
	Base  ThExpr
	Index ThExpr
	Ref   SourceRef
}

func (SubscrExpr) isThExpr()          {}
func (SubscrExpr) isLeftExpr()        {}
func (e SubscrExpr) SrcRef() SourceRef { return e.Ref }

func NewSubscr(base, index ThExpr, ref SourceRef) SubscrExpr {
	return SubscrExpr{Base: base, Index: index, Ref: ref}
}

type CallExpr struct {
	Callee ThExpr
	Args   []ThExpr
	Ref    SourceRef
}

func (CallExpr) isThExpr()          {}
func (e CallExpr) SrcRef() SourceRef { return e.Ref }

func NewCall(callee ThExpr, args []ThExpr, ref SourceRef) CallExpr {
	return CallExpr{Callee: callee, Args: args, Ref: ref}
}

// LibCallExpr is the universal escape hatch (spec §3.1, §6.2). Kind must be
// a member of the closed enumeration; IsValidLibCallKind can be used by
// callers that did not construct the node via one of the named LC constants.
type LibCallExpr struct {
	Kind LibCallKind
	KVs  []KV
	Ref  SourceRef
}

func (LibCallExpr) isThExpr()          {}
func (e LibCallExpr) SrcRef() SourceRef { return e.Ref }

func NewLibCall(kind LibCallKind, kvs []KV, ref SourceRef) LibCallExpr {
	return LibCallExpr{Kind: kind, KVs: kvs, Ref: ref}
}

// Get returns the expression bound to key, and whether it was present.
func (e LibCallExpr) Get(key string) (ThExpr, bool) {
	for _, kv := range e.KVs {
		if kv.Key == key {
			return kv.Expr, true
		}
	}
	return nil, false
}

type BinOpExpr struct {
	Op    BinOp
	Left  ThExpr
	Right ThExpr
	Ref   SourceRef
}

func (BinOpExpr) isThExpr()          {}
func (e BinOpExpr) SrcRef() SourceRef { return e.Ref }

func NewBinOp(op BinOp, left, right ThExpr, ref SourceRef) BinOpExpr {
	return BinOpExpr{Op: op, Left: left, Right: right, Ref: ref}
}

type UnaryOpExpr struct {
	Op      UnaryOp
	Operand ThExpr
	Ref     SourceRef
}

func (UnaryOpExpr) isThExpr()          {}
func (e UnaryOpExpr) SrcRef() SourceRef { return e.Ref }

func NewUnaryOp(op UnaryOp, operand ThExpr, ref SourceRef) UnaryOpExpr {
	return UnaryOpExpr{Op: op, Operand: operand, Ref: ref}
}
