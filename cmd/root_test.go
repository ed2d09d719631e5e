package cmd_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thir-lang/thir/cmd"
	"github.com/thir-lang/thir/internal/config"
)

func TestCollectCommandEndToEnd(t *testing.T) {
	projectDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "main.py"), []byte("x = 1\n"), 0o644))
	libDir := t.TempDir()

	os.Args = []string{"thir", "collect",
		"--entry", filepath.Join(projectDir, "main.py"),
		"--lib", libDir,
		"--log-level", "none",
		"--disable-metrics",
	}
	err := cmd.Execute()
	assert.NoError(t, err)
}

func TestCollectCommandRequiresEntry(t *testing.T) {
	// rootCmd is package-level, so a flag set by an earlier Execute keeps its
	// value; --entry is passed empty to leave the entry path unset.
	os.Args = []string{"thir", "collect", "--entry", "", "--lib", t.TempDir(), "--disable-metrics"}
	err := cmd.Execute()
	require.Error(t, err)

	var cfgErr *config.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "missing --entry should surface as a *config.ConfigError (exit code 3)")
}

func TestFatalErrorIsDistinctFromConfigError(t *testing.T) {
	fatal := &cmd.FatalError{Err: assert.AnError}

	var cfgErr *config.ConfigError
	assert.False(t, errors.As(error(fatal), &cfgErr), "a FatalError must never be mistaken for a ConfigError")
	assert.ErrorIs(t, fatal, assert.AnError)
}
