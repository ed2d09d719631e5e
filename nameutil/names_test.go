package nameutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/nameutil"
	"github.com/thir-lang/thir/pyast"
)

func name(id string) pyast.Name { return pyast.Name{Ident: id} }
func num(i int64) pyast.Number  { return pyast.Number{IntVal: i} }

func TestScanQualPathLaws(t *testing.T) {
	assert.Equal(t, []string{"a", "a.b", "a.b.c"}, nameutil.ScanQualPath("a.b.c", ""))
	assert.Equal(t, []string{"p", "p.X"}, nameutil.ScanQualPath("..X", "p.q.r"))
	assert.Equal(t, []string{"C", "C.A", "C.A.B"}, nameutil.ScanQualPath(".A.B", "C.D"))
	assert.Equal(t, []string{"C", "C.A"}, nameutil.ScanQualPath("..A", "C.D.E"))
}

func TestExtractLocalDefPlainAssign(t *testing.T) {
	stmts := []pyast.Node{
		pyast.Assignment{Target: name("x"), Value: name("y")},
		pyast.For{Target: name("i"), Iter: name("xs"), Body: nil},
	}
	locals := nameutil.ExtractLocalDef(stmts, nil)
	assert.True(t, locals["x"])
	assert.True(t, locals["i"])
}

func TestExtractLocalDefExcludedAndNonlocal(t *testing.T) {
	stmts := []pyast.Node{
		pyast.Assignment{Target: name("a"), Value: name("v")},
		pyast.Assignment{Target: name("b"), Value: name("v")},
		pyast.Nonlocal{Names: []string{"b"}},
	}
	locals := nameutil.ExtractLocalDef(stmts, map[string]bool{"a": true})
	assert.False(t, locals["a"], "excluded (parameter) must not appear")
	assert.False(t, locals["b"], "nonlocal-declared name must be removed")
}

func TestExtractLocalDefDestructuring(t *testing.T) {
	stmts := []pyast.Node{
		pyast.Assignment{
			Target: pyast.Tuple{Elems: []pyast.Node{name("a"), pyast.List{Elems: []pyast.Node{name("b"), name("c")}}}},
			Value:  name("t"),
		},
	}
	locals := nameutil.ExtractLocalDef(stmts, nil)
	assert.True(t, locals["a"])
	assert.True(t, locals["b"])
	assert.True(t, locals["c"])
}

func TestExtractLocalDefNonlocalInNestedBlockRemovesOuterAssign(t *testing.T) {
	stmts := []pyast.Node{
		pyast.If{
			Cond: name("cond"),
			Body: []pyast.Node{pyast.Nonlocal{Names: []string{"x"}}},
		},
		pyast.Assignment{Target: name("x"), Value: num(5)},
	}
	locals := nameutil.ExtractLocalDef(stmts, nil)
	assert.False(t, locals["x"], "nonlocal declared inside a nested If must still suppress the outer assignment's local binding")
}

func TestExtractLocalDefWithAsBindsTarget(t *testing.T) {
	stmts := []pyast.Node{
		pyast.With{
			Items: []pyast.WithItem{{ContextExpr: name("open_ctx"), OptionalVars: name("fh")}},
			Body:  []pyast.Node{pyast.ExprStatement{Value: name("fh")}},
		},
	}
	locals := nameutil.ExtractLocalDef(stmts, nil)
	assert.True(t, locals["fh"], "`with ... as fh` must bind fh as a local, matching lower.lowerWith's Assign(Name(fh), ctx)")
}

func TestExtractLocalDefDoesNotDescendIntoNestedFunction(t *testing.T) {
	stmts := []pyast.Node{
		pyast.Function{
			Name: "inner",
			Body: []pyast.Node{
				pyast.Assignment{Target: name("leaked"), Value: name("v")},
			},
		},
	}
	locals := nameutil.ExtractLocalDef(stmts, nil)
	assert.True(t, locals["inner"])
	assert.False(t, locals["leaked"])
}

func TestExtractSingleImport(t *testing.T) {
	stmts := []pyast.Node{
		pyast.Import{QualPath: "os.path"},
		pyast.ImportAs{QualPath: "numpy", AsName: "np"},
		pyast.ImportFrom{Module: "json", Names: []pyast.ImportedName{{Name: "dumps"}, {Name: "loads", AsName: "l"}}},
		pyast.ImportFrom{Module: "pkg", Names: []pyast.ImportedName{{Name: "*"}}},
	}
	out := nameutil.ExtractSingleImport(stmts)
	assert.True(t, out["os"])
	assert.True(t, out["np"])
	assert.True(t, out["dumps"])
	assert.True(t, out["l"])
	assert.False(t, out["loads"], "aliased import exposes only the alias")
	assert.False(t, out["*"])
}

func TestParseBinOpFlip(t *testing.T) {
	op, swap, ok := nameutil.ParseBinOp(">")
	assert.True(t, ok)
	assert.True(t, swap)
	assert.Equal(t, ir.Lt, op)

	op, swap, ok = nameutil.ParseBinOp("+")
	assert.True(t, ok)
	assert.False(t, swap)
	assert.Equal(t, ir.Add, op)
}

func TestParseUnaryOp(t *testing.T) {
	op, ok := nameutil.ParseUnaryOp("not")
	assert.True(t, ok)
	assert.Equal(t, ir.Not, op)

	_, ok = nameutil.ParseUnaryOp("?")
	assert.False(t, ok)
}

func TestSortedKeysDeterministic(t *testing.T) {
	m := map[string]bool{"z": true, "a": true, "m": true}
	assert.Equal(t, []string{"a", "m", "z"}, nameutil.SortedKeys(m))
}
