// =============================================================================
// Payment Advice Generator - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays the application
// version and build information.
//
// COMMAND USAGE:
//   invoicegen version
//
// OUTPUT:
//   invoicegen 1.0.0 (commit abc1234, built 2026-01-01)
//   input: csv, xlsx  output: pdf in zip
//   go1.24.0 linux/amd64
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// Overridden at build time:
//   go build -ldflags "-X '<module>/cmd.Version=1.1.0' -X '<module>/cmd.Commit=$(git rev-parse --short HEAD)'"

var (
	Version   = "1.0.0"
	Commit    = "none"
	BuildDate = "unknown"
)

// =============================================================================
// VERSION COMMAND DEFINITION
// =============================================================================

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the invoicegen version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "invoicegen %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		fmt.Fprintln(out, "input: csv, xlsx  output: pdf in zip")
		fmt.Fprintf(out, "%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(versionCmd)
}
