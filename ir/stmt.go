package ir

// ThStmt is the closed sum type of ThIR statements.
type ThStmt interface {
	isThStmt()
	SrcRef() SourceRef
}

type PassStmt struct {
	Ref SourceRef
}

func (PassStmt) isThStmt()          {}
func (s PassStmt) SrcRef() SourceRef { return s.Ref }

func NewPass(ref SourceRef) PassStmt { return PassStmt{Ref: ref} }

type ExprStmt struct {
	E   ThExpr
	Ref SourceRef
}

func (ExprStmt) isThStmt()          {}
func (s ExprStmt) SrcRef() SourceRef { return s.Ref }

func NewExprStmt(e ThExpr, ref SourceRef) ExprStmt {
	return ExprStmt{E: e, Ref: ref}
}

// SeqStmt is a right-associated sequential composition: s1 then s2.
type SeqStmt struct {
	S1, S2 ThStmt
	Ref    SourceRef
}

func (SeqStmt) isThStmt()          {}
func (s SeqStmt) SrcRef() SourceRef { return s.Ref }

// NewSeq builds a Seq node. If either side is nil, the other is returned
// directly — Seq never wraps a missing statement, keeping visitArray's fold
// simple at the frontier.
func NewSeq(s1, s2 ThStmt, ref SourceRef) ThStmt {
	if s1 == nil {
		return s2
	}
	if s2 == nil {
		return s1
	}
	return SeqStmt{S1: s1, S2: s2, Ref: ref}
}

// AssignStmt stores rhs into lhs. lhs must be a LeftExpr (Name, Attr, or
// Subscr); the model's constructor is total (spec §4.A) and does not
// validate this — package lower enforces it per §4.C.5.
type AssignStmt struct {
	Lhs ThExpr
	Rhs ThExpr
	Ref SourceRef
}

func (AssignStmt) isThStmt()          {}
func (s AssignStmt) SrcRef() SourceRef { return s.Ref }

func NewAssign(lhs, rhs ThExpr, ref SourceRef) AssignStmt {
	return AssignStmt{Lhs: lhs, Rhs: rhs, Ref: ref}
}

type IfStmt struct {
	Cond ThExpr
	Then ThStmt
	Else ThStmt
	Ref  SourceRef
}

func (IfStmt) isThStmt()          {}
func (s IfStmt) SrcRef() SourceRef { return s.Ref }

func NewIf(cond ThExpr, then, els ThStmt, ref SourceRef) IfStmt {
	return IfStmt{Cond: cond, Then: then, Else: els, Ref: ref}
}

// ForInStmt binds Ident in Body's scope while iterating Iter.
type ForInStmt struct {
	Ident string
	Iter  ThExpr
	Body  ThStmt
	Ref   SourceRef
}

func (ForInStmt) isThStmt()          {}
func (s ForInStmt) SrcRef() SourceRef { return s.Ref }

func NewForIn(ident string, iter ThExpr, body ThStmt, ref SourceRef) ForInStmt {
	return ForInStmt{Ident: ident, Iter: iter, Body: body, Ref: ref}
}

type BreakStmt struct{ Ref SourceRef }

func (BreakStmt) isThStmt()          {}
func (s BreakStmt) SrcRef() SourceRef { return s.Ref }

func NewBreak(ref SourceRef) BreakStmt { return BreakStmt{Ref: ref} }

type ContinueStmt struct{ Ref SourceRef }

func (ContinueStmt) isThStmt()          {}
func (s ContinueStmt) SrcRef() SourceRef { return s.Ref }

func NewContinue(ref SourceRef) ContinueStmt { return ContinueStmt{Ref: ref} }

type ReturnStmt struct {
	E   ThExpr
	Ref SourceRef
}

func (ReturnStmt) isThStmt()          {}
func (s ReturnStmt) SrcRef() SourceRef { return s.Ref }

func NewReturn(e ThExpr, ref SourceRef) ReturnStmt {
	return ReturnStmt{E: e, Ref: ref}
}

// LetStmt introduces Ident in the scope of Body. Init is nil when the
// binding has no initializer (the backend treats a pre-initialization read
// as its own error, per spec §3.1).
type LetStmt struct {
	Ident string
	Body  ThStmt
	Init  ThExpr
	Ref   SourceRef
}

func (LetStmt) isThStmt()          {}
func (s LetStmt) SrcRef() SourceRef { return s.Ref }

func NewLet(ident string, body ThStmt, init ThExpr, ref SourceRef) LetStmt {
	return LetStmt{Ident: ident, Body: body, Init: init, Ref: ref}
}

// FunDefStmt defines Ident as a function value with positional parameter
// names Params; Rest is the continuation in which Ident is bound.
type FunDefStmt struct {
	Ident  string
	Params []string
	Body   ThStmt
	Rest   ThStmt
	Ref    SourceRef
}

func (FunDefStmt) isThStmt()          {}
func (s FunDefStmt) SrcRef() SourceRef { return s.Ref }

func NewFunDef(ident string, params []string, body, rest ThStmt, ref SourceRef) FunDefStmt {
	return FunDefStmt{Ident: ident, Params: params, Body: body, Rest: rest, Ref: ref}
}
