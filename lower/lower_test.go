package lower_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/lower"
	"github.com/thir-lang/thir/pyast"
)

func name(id string) pyast.Name { return pyast.Name{Ident: id} }
func num(i int64) pyast.Number  { return pyast.Number{IntVal: i} }
func str(s string) pyast.String { return pyast.String{Value: s} }

// scenario 1: def f(a, b=1, *args, c, **kw): return a
func TestLowerFunctionDefaultArgsScenario(t *testing.T) {
	fn := pyast.Function{
		Name: "f",
		Params: []pyast.Param{
			{Name: "a", Category: pyast.Simple},
			{Name: "b", Category: pyast.Simple, Default: num(1)},
			{Name: "args", Category: pyast.VarArgList},
			{Name: "c", Category: pyast.Simple},
			{Name: "kw", Category: pyast.VarArgDictionary},
		},
		Body: []pyast.Node{
			pyast.Return{Value: name("a")},
		},
	}

	tr := lower.New(lower.Config{})
	got, err := tr.VisitArray([]pyast.Node{fn})
	require.NoError(t, err)

	fd, ok := got.(ir.FunDefStmt)
	require.True(t, ok, "expected a FunDef, got %T", got)
	assert.Equal(t, "f$TMP$", fd.Ident)
	assert.Equal(t, []string{"a", "b", "args", "c", "kw"}, fd.Params)

	wantOuter := ir.NewAssign(
		ir.NewName("f", ir.SourceRef{}),
		ir.NewLibCall(ir.LCSetDefault, []ir.KV{
			{Key: "$func", Expr: ir.NewName("f$TMP$", ir.SourceRef{})},
			{Key: "b", Expr: ir.NewConst(ir.Int, int64(1), ir.SourceRef{})},
			{Key: "$varargsName", Expr: ir.NewConst(ir.String, "args", ir.SourceRef{})},
			{Key: "$kwargsName", Expr: ir.NewConst(ir.String, "kw", ir.SourceRef{})},
			{Key: "$keyOnlyNum", Expr: ir.NewConst(ir.Int, int64(1), ir.SourceRef{})},
		}, ir.SourceRef{}),
		ir.SourceRef{},
	)
	assert.True(t, ir.EqualStmt(wantOuter, fd.Rest), "got %v", fd.Rest)
}

// scenario 2: while x < 10: x = x + 1
func TestLowerWhileScenario(t *testing.T) {
	w := pyast.While{
		Cond: pyast.BinaryOperation{Op: "<", Left: name("x"), Right: num(10)},
		Body: []pyast.Node{
			pyast.Assignment{Target: name("x"), Value: pyast.BinaryOperation{Op: "+", Left: name("x"), Right: num(1)}},
		},
	}
	tr := lower.New(lower.Config{})
	got, err := tr.VisitStmt(w)
	require.NoError(t, err)

	want := ir.NewForIn("$Imm1",
		ir.NewCall(ir.NewName("range", ir.SourceRef{}), []ir.ThExpr{ir.NewConst(ir.Int, int64(300), ir.SourceRef{})}, ir.SourceRef{}),
		ir.NewIf(
			ir.NewBinOp(ir.Lt, ir.NewName("x", ir.SourceRef{}), ir.NewConst(ir.Int, int64(10), ir.SourceRef{}), ir.SourceRef{}),
			ir.NewAssign(ir.NewName("x", ir.SourceRef{}), ir.NewBinOp(ir.Add, ir.NewName("x", ir.SourceRef{}), ir.NewConst(ir.Int, int64(1), ir.SourceRef{}), ir.SourceRef{}), ir.SourceRef{}),
			ir.NewBreak(ir.SourceRef{}),
			ir.SourceRef{},
		),
		ir.SourceRef{},
	)
	assert.True(t, ir.EqualStmt(want, got), "got %v", got)
}

// scenario 3: a, b = t
func TestLowerDestructureScenario(t *testing.T) {
	a := pyast.Assignment{
		Target: pyast.Tuple{Elems: []pyast.Node{name("a"), name("b")}},
		Value:  name("t"),
	}
	tr := lower.New(lower.Config{})
	got, err := tr.VisitStmt(a)
	require.NoError(t, err)

	want := ir.NewLet("$Imm1",
		ir.NewSeq(
			ir.NewAssign(ir.NewName("a", ir.SourceRef{}), ir.NewSubscr(ir.NewName("$Imm1", ir.SourceRef{}), ir.NewConst(ir.Int, int64(0), ir.SourceRef{}), ir.SourceRef{}), ir.SourceRef{}),
			ir.NewAssign(ir.NewName("b", ir.SourceRef{}), ir.NewSubscr(ir.NewName("$Imm1", ir.SourceRef{}), ir.NewConst(ir.Int, int64(1), ir.SourceRef{}), ir.SourceRef{}), ir.SourceRef{}),
			ir.SourceRef{},
		),
		ir.NewName("t", ir.SourceRef{}),
		ir.SourceRef{},
	)
	assert.True(t, ir.EqualStmt(want, got), "got %v", got)
}

// scenario 4: from ..pkg import mod as m, inside module a.b.c
func TestLowerImportFromRelativeScenario(t *testing.T) {
	imp := pyast.ImportFrom{
		Dots:   2,
		Module: "pkg",
		Names:  []pyast.ImportedName{{Name: "mod", AsName: "m"}},
	}
	tr := lower.New(lower.Config{})
	_, err := tr.LowerModule(pyast.Module{}, "a.b.c")
	require.NoError(t, err)
	got, err := tr.VisitStmt(imp)
	require.NoError(t, err)

	want := ir.NewExprStmt(ir.NewLibCall(ir.LCImport, []ir.KV{
		{Key: "qualPath", Expr: ir.NewConst(ir.String, "a.pkg.mod", ir.SourceRef{})},
		{Key: "assignTo", Expr: ir.NewConst(ir.String, "m", ir.SourceRef{})},
	}, ir.SourceRef{}), ir.SourceRef{})
	assert.True(t, ir.EqualStmt(want, got), "got %v", got)
}

// scenario 5: class C(B): def __init__(self, x): self.x = x ; then C(3)
// lowers to a direct Call, not callKV, because __init__ is simple-positional.
func TestLowerClassSimpleConstructorScenario(t *testing.T) {
	class := pyast.Class{
		Name:  "C",
		Bases: []pyast.Node{name("B")},
		Body: []pyast.Node{
			pyast.Function{
				Name:   "__init__",
				Params: []pyast.Param{{Name: "self", Category: pyast.Simple}, {Name: "x", Category: pyast.Simple}},
				Body: []pyast.Node{
					pyast.Assignment{
						Target: pyast.MemberAccess{Base: name("self"), Name: "x"},
						Value:  name("x"),
					},
				},
			},
		},
	}
	call := pyast.Call{Func: name("C"), Args: []pyast.Argument{{Value: num(3)}}}

	tr := lower.New(lower.Config{})
	_, err := tr.VisitArray([]pyast.Node{class})
	require.NoError(t, err)

	got, err := tr.VisitExpr(call)
	require.NoError(t, err)

	want := ir.NewCall(ir.NewName("C", ir.SourceRef{}), []ir.ThExpr{ir.NewConst(ir.Int, int64(3), ir.SourceRef{})}, ir.SourceRef{})
	assert.True(t, ir.EqualExpr(want, got), "got %v", got)
}

func TestLowerClassBindsInitAndConstructor(t *testing.T) {
	class := pyast.Class{
		Name: "C",
		Body: []pyast.Node{
			pyast.Function{
				Name:   "__init__",
				Params: []pyast.Param{{Name: "self", Category: pyast.Simple}, {Name: "x", Category: pyast.Simple}},
				Body: []pyast.Node{
					pyast.Assignment{Target: pyast.MemberAccess{Base: name("self"), Name: "x"}, Value: name("x")},
				},
			},
		},
	}
	tr := lower.New(lower.Config{})
	got, err := tr.VisitArray([]pyast.Node{class})
	require.NoError(t, err)

	var funDefIdents []string
	cur := got
	for {
		switch s := cur.(type) {
		case ir.SeqStmt:
			cur = s.S2
		case ir.FunDefStmt:
			funDefIdents = append(funDefIdents, s.Ident)
			cur = s.Rest
		case ir.AssignStmt:
			cur = nil
		default:
			cur = nil
		}
		if cur == nil {
			break
		}
	}
	assert.Contains(t, funDefIdents, "C$__init__")
	assert.Contains(t, funDefIdents, "C$__new__")
	assert.Contains(t, funDefIdents, "C$__call__")
}

func TestLowerClassInitWithNoParamsIsMalformedNotPanic(t *testing.T) {
	class := pyast.Class{
		Name: "C",
		Body: []pyast.Node{
			pyast.Function{
				Name:   "__init__",
				Params: nil,
				Body:   []pyast.Node{pyast.Pass{}},
			},
		},
	}
	tr := lower.New(lower.Config{})
	_, err := tr.VisitArray([]pyast.Node{class})
	require.Error(t, err)
	var malformed *lower.MalformedASTError
	require.ErrorAs(t, err, &malformed)
}

// scenario 6: assert x > 0, "pos" with ignoreAssert=false.
func TestLowerAssertScenario(t *testing.T) {
	a := pyast.Assert{
		Test: pyast.BinaryOperation{Op: ">", Left: name("x"), Right: num(0)},
		Msg:  str("pos"),
	}
	tr := lower.New(lower.Config{IgnoreAssert: false})
	got, err := tr.VisitStmt(a)
	require.NoError(t, err)

	want := ir.NewIf(
		ir.NewBinOp(ir.Lt, ir.NewConst(ir.Int, int64(0), ir.SourceRef{}), ir.NewName("x", ir.SourceRef{}), ir.SourceRef{}),
		ir.NewPass(ir.SourceRef{}),
		ir.NewExprStmt(ir.NewLibCall(ir.LCRaise, []ir.KV{
			{Key: "value", Expr: ir.NewCall(ir.NewName("AssertionError", ir.SourceRef{}), []ir.ThExpr{ir.NewConst(ir.String, "pos", ir.SourceRef{})}, ir.SourceRef{})},
		}, ir.SourceRef{}), ir.SourceRef{}),
		ir.SourceRef{},
	)
	assert.True(t, ir.EqualStmt(want, got), "got %v", got)
}

func TestLowerAssertIgnoredLowersToPass(t *testing.T) {
	a := pyast.Assert{Test: name("x")}
	tr := lower.New(lower.Config{IgnoreAssert: true})
	got, err := tr.VisitStmt(a)
	require.NoError(t, err)
	assert.True(t, ir.EqualStmt(ir.NewPass(ir.SourceRef{}), got))
}

func TestLowerAugAssignToCallIsMalformed(t *testing.T) {
	aug := pyast.AugmentedAssignment{
		Target: pyast.Call{Func: name("f")},
		Op:     "+",
		Value:  num(1),
	}
	tr := lower.New(lower.Config{})
	_, err := tr.VisitStmt(aug)
	require.Error(t, err)
	var malformed *lower.MalformedASTError
	assert.ErrorAs(t, err, &malformed)
}

func TestUnsupportedTernaryLowersToNoneAndRecordsFinding(t *testing.T) {
	ternary := pyast.Ternary{Cond: name("c"), Then: num(1), Else: num(2)}
	tr := lower.New(lower.Config{})
	got, err := tr.VisitExpr(ternary)
	require.NoError(t, err)
	assert.True(t, ir.EqualExpr(ir.NewConst(ir.None, nil, ir.SourceRef{}), got))
	assert.NotEmpty(t, tr.Findings())
}

func TestUnsupportedDelLowersToPass(t *testing.T) {
	del := pyast.Del{Targets: []pyast.Node{pyast.Index{Base: name("x"), Sub: num(0)}}}
	tr := lower.New(lower.Config{})
	got, err := tr.VisitStmt(del)
	require.NoError(t, err)
	assert.True(t, ir.EqualStmt(ir.NewPass(ir.SourceRef{}), got))
}

func TestModuleExportPassSkipsImportsAndDunders(t *testing.T) {
	mod := pyast.Module{
		Body: []pyast.Node{
			pyast.Assignment{Target: name("visible"), Value: num(1)},
			pyast.Assignment{Target: name("__private"), Value: num(2)},
			pyast.Import{QualPath: "os"},
		},
	}
	tr := lower.New(lower.Config{})
	got, err := tr.LowerModule(mod, "")
	require.NoError(t, err)

	let, ok := got.(ir.LetStmt)
	require.True(t, ok)
	assert.Equal(t, "$module", let.Ident)

	var exportKeys []string
	var walk func(ir.ThStmt)
	walk = func(s ir.ThStmt) {
		switch v := s.(type) {
		case ir.SeqStmt:
			walk(v.S1)
			walk(v.S2)
		case ir.ExprStmt:
			if lc, ok := v.E.(ir.LibCallExpr); ok && lc.Kind == ir.LCExportGlobal {
				if _, expr, ok := firstNonModuleKey(lc); ok {
					if n, ok := expr.(ir.NameExpr); ok {
						exportKeys = append(exportKeys, n.Ident)
						return
					}
				}
				exportKeys = append(exportKeys, "?")
			}
		}
	}
	walk(let.Body)
	assert.Contains(t, exportKeys, "visible")
	assert.NotContains(t, exportKeys, "__private")
	assert.NotContains(t, exportKeys, "os")
}

func firstNonModuleKey(lc ir.LibCallExpr) (string, ir.ThExpr, bool) {
	for _, kv := range lc.KVs {
		if kv.Key != "$module" {
			return kv.Key, kv.Expr, true
		}
	}
	return "", nil, false
}
