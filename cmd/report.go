// =============================================================================
// POS Report - Report Command
// =============================================================================
//
// This file defines the 'report' command, the main command of the tool. It
// runs the full pipeline and prints a summary.
//
// COMMAND USAGE:
//   posreport report [flags]
//
// FLAGS:
//   --threshold   : Restock threshold (overrides query.stock_threshold)
//   --from, --to  : Date window (override query.from_date / query.to_date)
//   --no-summary  : Only write log lines, no summary on stdout
//
// PROCESSING PIPELINE:
//   1. Load configuration and set up logging
//   2. Apply flag overrides
//   3. Load and validate every collection
//   4. Check referential integrity
//   5. Run the queries and log their results
//   6. Print the run summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/pos-report/internal/config"
	"github.com/ginjaninja78/pos-report/internal/report"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// threshold overrides the configured restock threshold.
var threshold int

// fromDate and toDate override the configured date window. They use the
// configured date format.
var fromDate, toDate string

// noSummary suppresses the summary on stdout.
var noSummary bool

// =============================================================================
// REPORT COMMAND DEFINITION
// =============================================================================

// reportCmd represents the 'report' command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Load the point-of-sale records and run the report",
	Long: `The report command loads every collection named in the configuration,
validates it, and logs:

  - a restock notice for every product below the stock threshold
  - every transaction inside the date window
  - the branch with the most transactions
  - the member of staff who sold the most products

A collection that fails validation stops the run unless its policy is
"continue". A failing query is logged, the other queries still run, and the
command exits with an error.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the report command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntVar(
		&threshold,
		"threshold",
		0,
		"Restock threshold (default from query.stock_threshold)",
	)

	reportCmd.Flags().StringVar(
		&fromDate,
		"from",
		"",
		"First day of the date window, in query.date_format",
	)

	reportCmd.Flags().StringVar(
		&toDate,
		"to",
		"",
		"Last day of the date window, in query.date_format",
	)

	reportCmd.Flags().BoolVar(
		&noSummary,
		"no-summary",
		false,
		"Do not print the run summary",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runReport loads the configuration, runs the pipeline and prints the summary.
func runReport(cmd *cobra.Command) error {
	mainConfig, logger, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := applyQueryFlags(cmd, mainConfig); err != nil {
		return err
	}

	runner := report.New(mainConfig, logger)
	result, runErr := runner.Run()

	if !noSummary {
		if err := report.WriteSummary(os.Stdout, result); err != nil {
			return err
		}
	}

	if runErr != nil {
		return fmt.Errorf("report run %s failed: %w", runner.RunID(), runErr)
	}
	return nil
}

// applyQueryFlags copies the flags the user set onto the query settings.
func applyQueryFlags(cmd *cobra.Command, mainConfig *config.MainConfig) error {
	flags := cmd.Flags()

	if flags.Changed("threshold") {
		mainConfig.Query.StockThreshold = threshold
	}
	if flags.Changed("from") {
		mainConfig.Query.FromDate = fromDate
	}
	if flags.Changed("to") {
		mainConfig.Query.ToDate = toDate
	}

	if _, _, err := mainConfig.Query.Window(); err != nil {
		return fmt.Errorf("invalid date window: %w", err)
	}
	return nil
}
