// Package config loads the frontend's run configuration: a required entry
// path and PyTea library path, plus advisory options forwarded to the
// collector and translator. Grounded on the teacher's plain-struct,
// no-framework config style (cmd/root.go reads flags directly off
// *cobra.Command rather than through a schema library) and overlaid with
// cobra flags the same way.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thir-lang/thir/internal/thlog"
)

// Config mirrors spec.md §6.1's configuration fields one for one.
type Config struct {
	EntryPath                string         `json:"entryPath"`
	PyteaLibPath             string         `json:"pyteaLibPath"`
	ConfigPath                string         `json:"configPath,omitempty"`
	LogLevel                 string         `json:"logLevel,omitempty"`
	ExtractIR                bool           `json:"extractIR,omitempty"`
	IgnoreAssert             bool           `json:"ignoreAssert"`
	ImmediateConstraintCheck bool           `json:"immediateConstraintCheck,omitempty"`
	PythonCmdArgs            map[string]any `json:"pythonCmdArgs,omitempty"`
	PythonSubcommand         string         `json:"pythonSubcommand,omitempty"`
}

// Default returns a Config with spec.md's defaults applied (ignoreAssert
// defaults true; everything else zero-valued).
func Default() Config {
	return Config{LogLevel: "reduced", IgnoreAssert: true}
}

// ConfigError marks a configuration problem surfaced before any lowering
// begins (spec.md §7, "Configuration error"). main.go maps this type to
// exit code 3, distinct from an in-run fatal error's exit code 2 (spec.md
// §6.4).
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

func configErrorf(format string, args ...any) error {
	return &ConfigError{Err: fmt.Errorf(format, args...)}
}

// Load reads an optional JSON file at configPath (if non-empty) on top of
// Default, then overlays any cobra flags the caller has set on cmd — flags
// explicitly passed on the command line win over the file, which wins over
// the default. A missing required field (EntryPath, PyteaLibPath) or an
// unparseable logLevel is reported as a *ConfigError before any collection
// starts, per spec.md §7.
func Load(cmd *cobra.Command) (Config, error) {
	cfg := Default()

	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, configErrorf("reading config %s: %w", configPath, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, configErrorf("parsing config %s: %w", configPath, err)
		}
		cfg.ConfigPath = configPath
	}

	overlayString(cmd, "entry", &cfg.EntryPath)
	overlayString(cmd, "lib", &cfg.PyteaLibPath)
	overlayString(cmd, "log-level", &cfg.LogLevel)
	overlayBool(cmd, "extract-ir", &cfg.ExtractIR)
	overlayBool(cmd, "ignore-assert", &cfg.IgnoreAssert)

	if cfg.EntryPath == "" {
		return Config{}, configErrorf("entryPath is required (--entry or configPath)")
	}
	if cfg.PyteaLibPath == "" {
		return Config{}, configErrorf("pyteaLibPath is required (--lib or configPath)")
	}
	if _, err := thlog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, configErrorf("logLevel: %w", err)
	}
	return cfg, nil
}

func overlayString(cmd *cobra.Command, flag string, dst *string) {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		*dst = v
	}
}

func overlayBool(cmd *cobra.Command, flag string, dst *bool) {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		*dst = v
	}
}
