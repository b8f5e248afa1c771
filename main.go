// =============================================================================
// Payment Advice Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the invoicegen CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   invoicegen generate <input>   - Write one invoice per recipient into a zip
//   invoicegen inspect <input>    - Show entries per recipient
//   invoicegen serve              - Start the HTTP API
//   invoicegen version            - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Parsing, grouping, rendering and packaging
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/payment-advice-generator/cmd"
)

func main() {
	cmd.Execute()
}
