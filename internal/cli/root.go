// Package cli implements the Spiral command-line interface using Cobra.
// Each subcommand maps to an engine capability (serve, status, stats,
// achievements, sessions).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "spiral",
	Short: "Spiral — Catch yourself doom scrolling",
	Long: `Spiral watches your scroll telemetry, calls out doom-scrolling
sessions, and keeps score. Streaks for clean days, achievements for
the rest.

Run "spiral serve" to start the engine, then point the platform shim
at the local API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// cliVersion is the build version, threaded through to the daemon.
var cliVersion string

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version
	cliVersion = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
