package pyparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thir-lang/thir/internal/pyparse"
	"github.com/thir-lang/thir/lower"
	"github.com/thir-lang/thir/pyast"
)

func TestParseFunctionWithDefaultArg(t *testing.T) {
	mod, err := pyparse.Parse("f.py", []byte("def f(a, b=1, *args, c, **kw):\n    return a\n"))
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)

	fn, ok := mod.Body[0].(pyast.Function)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
	assert.Equal(t, []string{"a", "b", "args", "c", "kw"}, paramNames(fn.Params))
}

func TestParseTypedVarArgsAndKwArgs(t *testing.T) {
	mod, err := pyparse.Parse("f.py", []byte("def f(*args: int, **kwargs: str):\n    return args\n"))
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)

	fn, ok := mod.Body[0].(pyast.Function)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "args", fn.Params[0].Name)
	assert.Equal(t, pyast.VarArgList, fn.Params[0].Category)
	assert.Equal(t, "kwargs", fn.Params[1].Name)
	assert.Equal(t, pyast.VarArgDictionary, fn.Params[1].Category)
}

func TestParseIsNotAndNotInComposeAsNegatedBinOp(t *testing.T) {
	mod, err := pyparse.Parse("f.py", []byte("def f(a, b):\n    return a is not b\n"))
	require.NoError(t, err)
	fn := mod.Body[0].(pyast.Function)
	ret := fn.Body[0].(pyast.Return)
	unary, ok := ret.Value.(pyast.UnaryOperation)
	require.True(t, ok, "`is not` must compose as a negation, not a single BinOp kind")
	assert.Equal(t, "not", unary.Op)
	bin, ok := unary.Operand.(pyast.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, "is", bin.Op)

	mod, err = pyparse.Parse("g.py", []byte("def g(a, b):\n    return a not in b\n"))
	require.NoError(t, err)
	fn = mod.Body[0].(pyast.Function)
	ret = fn.Body[0].(pyast.Return)
	unary, ok = ret.Value.(pyast.UnaryOperation)
	require.True(t, ok, "`not in` must compose as a negation, not a single BinOp kind")
	assert.Equal(t, "not", unary.Op)
	bin, ok = unary.Operand.(pyast.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, "in", bin.Op)
}

func paramNames(params []pyast.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

func TestParseFeedsLowerEndToEnd(t *testing.T) {
	mod, err := pyparse.Parse("m.py", []byte("x = 1\ny = x + 1\n"))
	require.NoError(t, err)

	tr := lower.New(lower.Config{})
	_, err = tr.LowerModule(mod, "m")
	require.NoError(t, err)
	assert.Empty(t, tr.Findings())
}

func TestParseClassAndCall(t *testing.T) {
	mod, err := pyparse.Parse("c.py", []byte("class C:\n    def __init__(self, x):\n        self.x = x\n\nC(3)\n"))
	require.NoError(t, err)
	require.Len(t, mod.Body, 2)

	_, ok := mod.Body[0].(pyast.Class)
	assert.True(t, ok)
	_, ok = mod.Body[1].(pyast.ExprStatement)
	assert.True(t, ok)
}
