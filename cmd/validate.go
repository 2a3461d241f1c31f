// =============================================================================
// POS Report - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It loads and validates every
// collection and checks referential integrity, but runs no queries.
//
// COMMAND USAGE:
//   posreport validate
//
// Unlike 'report', every collection is checked even if an earlier one fails,
// and dangling references always fail the command.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/pos-report/internal/report"
	"github.com/ginjaninja78/pos-report/internal/validation"
	"github.com/ginjaninja78/pos-report/pkg/utils"
	"github.com/spf13/cobra"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configured sources without running the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate checks every source and prints the problems found.
func runValidate(cmd *cobra.Command) error {
	mainConfig, logger, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	// List what the data directory offers; helps spot a misnamed source.
	if names, err := utils.NewFileManager(mainConfig.DataDir).DiscoverSources(); err == nil {
		logger.Debug().Strs("files", names).Msg("data directory contents")
	}

	runner := report.New(mainConfig, logger)
	result, checkErr := runner.Check()

	fmt.Println(validation.FormatErrors(result.ValidationErrors))
	if result.Integrity != nil {
		fmt.Printf("Integrity check found %d dangling reference(s):\n", len(result.Integrity.References))
		for _, ref := range result.Integrity.References {
			fmt.Printf("  - %s\n", ref)
		}
		fmt.Println()
	}

	if err := report.WriteSummary(os.Stdout, result); err != nil {
		return err
	}

	if checkErr != nil {
		return fmt.Errorf("validation failed: %w", checkErr)
	}
	return nil
}
