package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thir-lang/thir/internal/config"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "collect"}
	cmd.Flags().String("entry", "", "")
	cmd.Flags().String("lib", "", "")
	cmd.Flags().String("config", "", "")
	cmd.Flags().String("log-level", "reduced", "")
	cmd.Flags().Bool("extract-ir", false, "")
	cmd.Flags().Bool("ignore-assert", true, "")
	return cmd
}

func TestLoadMissingEntryPathErrors(t *testing.T) {
	cmd := newTestCmd()
	_, err := config.Load(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entryPath")

	var cfgErr *config.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "missing required field should surface as *config.ConfigError")
}

func TestLoadFlagsOverlayFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "thir.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"entryPath":"/proj/main.py","pyteaLibPath":"/lib","logLevel":"full"}`), 0o644))

	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("config", cfgPath))
	require.NoError(t, cmd.Flags().Set("log-level", "none"))

	cfg, err := config.Load(cmd)
	require.NoError(t, err)
	assert.Equal(t, "/proj/main.py", cfg.EntryPath)
	assert.Equal(t, "/lib", cfg.PyteaLibPath)
	assert.Equal(t, "none", cfg.LogLevel, "explicit flag should win over config file")
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("entry", "/proj/main.py"))
	require.NoError(t, cmd.Flags().Set("lib", "/lib"))
	require.NoError(t, cmd.Flags().Set("log-level", "verbose"))
	_, err := config.Load(cmd)
	require.Error(t, err)

	var cfgErr *config.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "unparseable logLevel should surface as *config.ConfigError")
}
