package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/resolver"
)

func TestResolveProjectWinsOverLibrary(t *testing.T) {
	projectStmt := ir.NewPass(ir.SourceRef{File: "proj"})
	libStmt := ir.NewPass(ir.SourceRef{File: "lib"})

	r, err := resolver.New(
		map[string]ir.ThStmt{"x": projectStmt},
		map[string]ir.ThStmt{"x": libStmt},
		16,
	)
	require.NoError(t, err)

	got := r.Resolve("x")
	assert.True(t, got.Found)
	assert.Equal(t, resolver.FormPlain, got.Form)
	assert.True(t, ir.EqualStmt(projectStmt, got.Stmt))
}

func TestResolveFallsBackToInitForm(t *testing.T) {
	initStmt := ir.NewPass(ir.SourceRef{File: "pkg/__init__"})
	r, err := resolver.New(
		map[string]ir.ThStmt{"pkg.__init__": initStmt},
		map[string]ir.ThStmt{},
		16,
	)
	require.NoError(t, err)

	got := r.Resolve("pkg")
	assert.True(t, got.Found)
	assert.Equal(t, resolver.FormInit, got.Form)
}

func TestResolveMissIsNotAnError(t *testing.T) {
	r, err := resolver.New(map[string]ir.ThStmt{}, map[string]ir.ThStmt{}, 16)
	require.NoError(t, err)

	got := r.Resolve("nope")
	assert.False(t, got.Found)
	assert.Nil(t, got.Stmt)
}

func TestResolveLibraryFallback(t *testing.T) {
	libStmt := ir.NewPass(ir.SourceRef{File: "lib"})
	r, err := resolver.New(map[string]ir.ThStmt{}, map[string]ir.ThStmt{"os": libStmt}, 16)
	require.NoError(t, err)

	got := r.Resolve("os")
	assert.True(t, got.Found)
	assert.Equal(t, resolver.FormPlain, got.Form)
}
