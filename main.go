// =============================================================================
// POS Report - Main Entry Point
// =============================================================================
//
// This is the main entry point for the POS Report CLI application. It
// delegates command execution to the cmd package.
//
// USAGE:
//   posreport report        - Load the records and run the report
//   posreport validate      - Check the sources without reporting
//   posreport version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Loading, validation, queries and the report pipeline
//   - pkg/           : Shared utilities
//   - data/          : Sample point-of-sale exports
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/pos-report/cmd"
)

func main() {
	cmd.Execute()
}
