package lower

import (
	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/pyast"
)

// lowerMethod lowers a method declared in a class body the same way a
// top-level function is lowered (spec §4.C.2), additionally wrapping the
// body in the __class__/__self__ bindings `super()` reads (spec §4.C.3:
// "Method bodies are wrapped Let(\"__class__\", Let(\"__self__\", body,
// Name(firstParam)), Name(C))") and assigning the bound function to
// C.<attrKey> instead of a bare name.
func (t *Translator) lowerMethod(f pyast.Function, className, attrKey string, continuation ir.ThStmt) (ir.ThStmt, error) {
	ref := srcRef(f)
	tmp := className + "$" + f.Name
	inner, paramNames, err := t.buildFunctionCore(f, ref)
	if err != nil {
		return nil, err
	}
	if len(paramNames) == 0 {
		return nil, malformed(ref, "method %s.%s declares no parameters to bind self", className, f.Name)
	}
	wrapped := ir.NewLet("__self__", inner, ir.NewName(paramNames[0], ref), ref)
	wrapped = ir.NewLet("__class__", wrapped, ir.NewName(className, ref), ref)

	outerAssign, err := t.buildSetDefaultOrAlias(f, tmp, ir.NewAttr(ir.NewName(className, ref), attrKey, ref), ref)
	if err != nil {
		return nil, err
	}
	rest := ir.NewSeq(outerAssign, continuation, ref)
	return ir.NewFunDef(tmp, paramNames, wrapped, rest, ref), nil
}

// synthesizeDefaultInit builds the AST for the default `__init__` every
// class gets when the user did not write one (spec §4.C.3 item 3): it
// delegates via `super().__init__(*args, **kwargs)`.
func synthesizeDefaultInit(p pyast.Pos) pyast.Function {
	base := pyast.NodeBase{P: p}
	return pyast.Function{
		NodeBase: base,
		Name:     "__init__",
		Params: []pyast.Param{
			{Name: "self", Category: pyast.Simple},
			{Name: "args", Category: pyast.VarArgList},
			{Name: "kwargs", Category: pyast.VarArgDictionary},
		},
		Body: []pyast.Node{
			pyast.ExprStatement{
				NodeBase: base,
				Value: pyast.Call{
					NodeBase: base,
					Func: pyast.MemberAccess{
						NodeBase: base,
						Base:     pyast.Call{NodeBase: base, Func: pyast.Name{NodeBase: base, Ident: "super"}},
						Name:     "__init__",
					},
					Args: []pyast.Argument{
						{Value: pyast.Name{NodeBase: base, Ident: "args"}, IsStarArg: true},
						{Value: pyast.Name{NodeBase: base, Ident: "kwargs"}, IsDoubleStarArg: true},
					},
				},
			},
		},
	}
}

// lowerClass lowers a class declaration per spec §4.C.3, items 1-8, with
// continuation sequenced after item 8 (the same "rest" threading used for
// top-level functions).
func (t *Translator) lowerClass(c pyast.Class, continuation ir.ThStmt) (ir.ThStmt, error) {
	ref := srcRef(c)
	className := c.Name

	var userInit *pyast.Function
	var otherMethods []pyast.Function
	hasCall := false
	var fieldAssigns []pyast.Assignment

	for _, stmt := range c.Body {
		switch s := stmt.(type) {
		case pyast.Function:
			switch s.Name {
			case "__init__":
				f := s
				userInit = &f
			case "__new__":
				// user-defined __new__ is ignored, per spec §4.C.3 item 4.
			default:
				if s.Name == "__call__" {
					hasCall = true
				}
				otherMethods = append(otherMethods, s)
			}
		case pyast.Assignment:
			fieldAssigns = append(fieldAssigns, s)
		case pyast.ExprStatement, pyast.Pass:
			// docstrings and no-ops contribute nothing to the class object.
		default:
			t.note(srcRef(stmt), "class-level statement %T is not representable in ThIR", stmt)
		}
	}

	// Item 8: C.__name__ = "C".
	rest := ir.NewSeq(
		ir.NewAssign(ir.NewAttr(ir.NewName(className, ref), "__name__", ref), ir.NewConst(ir.String, className, ref), ref),
		continuation, ref,
	)

	// Item 7: C.__mro__ = (C, B1, ..., object), trivial linearization.
	mroElems := make([]ir.ThExpr, 0, len(c.Bases)+2)
	mroElems = append(mroElems, ir.NewName(className, ref))
	for _, b := range c.Bases {
		be, err := t.VisitExpr(b)
		if err != nil {
			return nil, err
		}
		mroElems = append(mroElems, be)
	}
	mroElems = append(mroElems, ir.NewName("object", ref))
	mroAssign := ir.NewAssign(ir.NewAttr(ir.NewName(className, ref), "__mro__", ref), ir.NewTuple(mroElems, ref), ref)
	rest = ir.NewSeq(mroAssign, rest, ref)

	// Item 6: synthetic C$__call__, the instantiation dispatcher.
	ctor, err := t.buildConstructor(className, userInit, ref, rest)
	if err != nil {
		return nil, err
	}
	rest = ctor

	// Item 5: synthetic C$__new__(cls).
	newMethod, err := t.buildNew(className, hasCall, ref, rest)
	if err != nil {
		return nil, err
	}
	rest = newMethod

	// Item 4: every other user method. self$call stands in for a
	// user-defined __call__ so it doesn't collide with the constructor's
	// own C.__call__ (item 6).
	for i := len(otherMethods) - 1; i >= 0; i-- {
		m := otherMethods[i]
		attrKey := m.Name
		if attrKey == "__call__" {
			attrKey = "self$call"
		}
		fd, err := t.lowerMethod(m, className, attrKey, rest)
		if err != nil {
			return nil, err
		}
		rest = fd
	}

	// Item 3: __init__, user-defined or synthesized.
	init := userInit
	if init == nil {
		synth := synthesizeDefaultInit(pyast.Pos{File: ref.File, Start: ref.Start, Length: ref.Length})
		init = &synth
	}
	initFd, err := t.lowerMethod(*init, className, "__init__", rest)
	if err != nil {
		return nil, err
	}
	rest = initFd

	// Item 2: plain field assignments become C.x = e; any non-Name target
	// is an unsupported construct (spec §7: "class-level non-name
	// assignment").
	for i := len(fieldAssigns) - 1; i >= 0; i-- {
		a := fieldAssigns[i]
		aref := srcRef(a)
		name, ok := a.Target.(pyast.Name)
		if !ok {
			rest = ir.NewSeq(t.unsupportedStmt(a, "class-level non-name assignment"), rest, aref)
			continue
		}
		val, err := t.VisitExpr(a.Value)
		if err != nil {
			return nil, err
		}
		assign := ir.NewAssign(ir.NewAttr(ir.NewName(className, ref), name.Ident, aref), val, aref)
		rest = ir.NewSeq(assign, rest, aref)
	}

	// Item 1: C = Object(). The class name itself is bound the same way
	// any other module- or function-scope Name target is (implicit module
	// scope, or the enclosing function's local Let — nameutil.ExtractLocalDef
	// already counts a Class statement as defining its name).
	classAssign := ir.NewAssign(ir.NewName(className, ref), ir.NewObject(ref), ref)
	return ir.NewSeq(classAssign, rest, ref), nil
}

// buildConstructor builds item 6: the synthetic C$__call__ that allocates
// via C.__new__(C), copies __mro__, calls __init__, and returns the
// instance.
func (t *Translator) buildConstructor(className string, userInit *pyast.Function, ref ir.SourceRef, continuation ir.ThStmt) (ir.ThStmt, error) {
	if userInit != nil && len(userInit.Params) == 0 {
		return nil, malformed(ref, "method %s.__init__ declares no parameters to bind self", className)
	}

	simple := userInit != nil
	if simple {
		for _, p := range userInit.Params {
			if p.Category != pyast.Simple || p.Default != nil {
				simple = false
				break
			}
		}
	}

	instTmp := t.fresh()
	newInst := ir.NewCall(ir.NewAttr(ir.NewName(className, ref), "__new__", ref), []ir.ThExpr{ir.NewName(className, ref)}, ref)
	mroCopy := ir.NewAssign(
		ir.NewAttr(ir.NewName(instTmp, ref), "__mro__", ref),
		ir.NewAttr(ir.NewName(className, ref), "__mro__", ref), ref,
	)

	var params []string
	var initCall ir.ThStmt
	if simple {
		params = allParamNames(userInit.Params[1:])
		args := make([]ir.ThExpr, 0, len(params)+1)
		args = append(args, ir.NewName(instTmp, ref))
		for _, p := range params {
			args = append(args, ir.NewName(p, ref))
		}
		initCall = ir.NewExprStmt(ir.NewCall(ir.NewAttr(ir.NewName(instTmp, ref), "__init__", ref), args, ref), ref)
	} else {
		params = []string{"args", "kwargs"}
		kvs := []ir.KV{
			{Key: "$func", Expr: ir.NewAttr(ir.NewName(instTmp, ref), "__init__", ref)},
			{Key: "param0", Expr: ir.NewName(instTmp, ref)},
			{Key: "$star0", Expr: ir.NewName("args", ref)},
			{Key: "$starstar0", Expr: ir.NewName("kwargs", ref)},
		}
		initCall = ir.NewExprStmt(ir.NewLibCall(ir.LCCallKV, kvs, ref), ref)
	}

	body := seqAll([]ir.ThStmt{mroCopy, initCall, ir.NewReturn(ir.NewName(instTmp, ref), ref)})
	letBody := ir.NewLet(instTmp, body, newInst, ref)

	ctorIdent := className + "$__call__"
	attrAssign := ir.NewAssign(ir.NewAttr(ir.NewName(className, ref), "__call__", ref), ir.NewName(ctorIdent, ref), ref)
	return ir.NewFunDef(ctorIdent, params, letBody, ir.NewSeq(attrAssign, continuation, ref), ref), nil
}

// buildNew builds item 5: the synthetic C$__new__(cls) that allocates a
// fresh instance via super().__new__(C), self-identifies it by address
// (backend convention), and, if the class defines __call__, binds the
// instance's own __call__ to the renamed self$call.
func (t *Translator) buildNew(className string, hasCall bool, ref ir.SourceRef, continuation ir.ThStmt) (ir.ThStmt, error) {
	superExpr := ir.NewLibCall(ir.LCSuper, []ir.KV{
		{Key: "baseClass", Expr: ir.NewName("__class__", ref)},
		{Key: "self", Expr: ir.NewName("__self__", ref)},
	}, ref)
	superNew := ir.NewCall(ir.NewAttr(superExpr, "__new__", ref), []ir.ThExpr{ir.NewName(className, ref)}, ref)

	instTmp := t.fresh()
	bodyStmts := []ir.ThStmt{
		ir.NewAssign(ir.NewAttr(ir.NewName(instTmp, ref), "$addr", ref), ir.NewName(instTmp, ref), ref),
	}
	if hasCall {
		bodyStmts = append(bodyStmts, ir.NewAssign(
			ir.NewAttr(ir.NewName(instTmp, ref), "__call__", ref),
			ir.NewAttr(ir.NewName(className, ref), "self$call", ref), ref,
		))
	}
	bodyStmts = append(bodyStmts, ir.NewReturn(ir.NewName(instTmp, ref), ref))

	letBody := ir.NewLet(instTmp, seqAll(bodyStmts), superNew, ref)
	wrapped := ir.NewLet("__self__", letBody, ir.NewName("cls", ref), ref)
	wrapped = ir.NewLet("__class__", wrapped, ir.NewName(className, ref), ref)

	newIdent := className + "$__new__"
	attrAssign := ir.NewAssign(ir.NewAttr(ir.NewName(className, ref), "__new__", ref), ir.NewName(newIdent, ref), ref)
	return ir.NewFunDef(newIdent, []string{"cls"}, wrapped, ir.NewSeq(attrAssign, continuation, ref), ref), nil
}
