// =============================================================================
// Payment Advice Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (invoicegen)
//   ├── generateCmd (invoicegen generate)
//   ├── inspectCmd  (invoicegen inspect)
//   ├── serveCmd    (invoicegen serve)
//   └── versionCmd  (invoicegen version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the main configuration file
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "invoicegen",
	Short: "Payment Advice Generator - one PDF invoice per recipient, bundled in a zip",
	Long: `Payment Advice Generator turns a session/payment table (CSV or XLSX) into
one payment-advice PDF per recipient and packs them into a single zip archive.

Key Features:
  - Rows grouped by recipient with an exact per-recipient total
  - Fixed invoice layout with brand mark, itemized table and banking details
  - Sequential or constant invoice numbering
  - Unparseable amounts reported, never fatal
  - HTTP upload/download endpoint

Example Usage:
  invoicegen generate sessions.csv                 # Write ./output/Invoices.zip
  invoicegen generate sessions.xlsx --start 101    # Number invoices from 101
  invoicegen inspect sessions.csv                  # Entries per recipient
  invoicegen serve                                 # Start the HTTP API`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig reads the main configuration. The default path may be absent;
// a path given with --config must exist.
func loadConfig(cmd *cobra.Command) (*config.MainConfig, error) {
	explicit := cmd.Flags().Changed("config")
	cfg, err := config.LoadMainConfig(cfgFile, explicit)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the console logger used by every command.
func newLogger(cfg *config.MainConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
