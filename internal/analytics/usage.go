// Package analytics reports a single anonymous, opt-out event per collector
// run, shaped by what the collector actually produced (module counts,
// diagnostic counts) rather than a fixed taxonomy of CLI subcommands.
package analytics

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"

	"github.com/thir-lang/thir/collector"
	"github.com/thir-lang/thir/internal/thlog"
)

const collectionEvent = "thir_collection"

var (
	PublicKey     string
	enableMetrics bool
)

// Init gates whether ReportCollection actually posts anything.
func Init(disableMetrics bool) {
	enableMetrics = !disableMetrics
}

// LoadEnvFile ensures a per-install UUID exists under ~/.thir/.env and loads
// it into the process environment, generating one on first run only.
func LoadEnvFile(log *thlog.Logger) {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Warning("analytics disabled: could not resolve home directory: %v", err)
		return
	}
	dir := filepath.Join(home, ".thir")
	envFile := filepath.Join(dir, ".env")

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			log.Warning("analytics disabled: could not create %s: %v", dir, mkErr)
			return
		}
		if writeErr := godotenv.Write(map[string]string{"uuid": uuid.New().String()}, envFile); writeErr != nil {
			log.Warning("analytics disabled: could not write %s: %v", envFile, writeErr)
			return
		}
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Warning("analytics disabled: could not load %s: %v", envFile, err)
	}
}

// ReportCollection posts one event describing a finished collector.Result:
// how many project and library modules were lowered, and how many of each
// diagnostic kind spec.md §7 defines were recorded. A no-op when metrics are
// disabled or PublicKey was never set (tests, dev builds).
func ReportCollection(res collector.Result, log *thlog.Logger) {
	if !enableMetrics || PublicKey == "" {
		return
	}
	client, err := posthog.NewWithConfig(PublicKey, posthog.Config{Endpoint: "https://us.i.posthog.com"})
	if err != nil {
		log.Warning("analytics: %v", err)
		return
	}
	defer client.Close()

	props := posthog.NewProperties().
		Set("project_modules", len(res.ProjectMap)).
		Set("library_modules", len(res.LibMap)).
		Set("findings", len(res.Findings)).
		Set("fatal_errors", len(res.Fatal)).
		Set("io_errors", len(res.IOErrors))

	err = client.Enqueue(posthog.Capture{
		DistinctId: os.Getenv("uuid"),
		Event:      collectionEvent,
		Properties: props,
	})
	if err != nil {
		log.Warning("analytics: %v", err)
	}
}
