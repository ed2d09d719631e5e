package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/thir-lang/thir/cmd"
	"github.com/thir-lang/thir/internal/config"
)

// Version and GitCommit are set via -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "none"
)

// osExit is a variable, not a direct call, so a test can replace it without
// tearing down the test binary; main_test.go checks exitCode's mapping by
// calling exitCode directly.
var osExit = os.Exit

// Exit codes follow spec.md §6.4: 0 no errors, 1 errors reported (handled
// directly by cmd's RunE via os.Exit before returning), 2 a fatal error hit
// mid-run, 3 a configuration error caught before any lowering began.
func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	osExit(exitCode(err))
}

func exitCode(err error) int {
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return 3
	}
	return 2
}
