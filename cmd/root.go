// =============================================================================
// POS Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (posreport)
//   ├── reportCmd   (posreport report)
//   ├── validateCmd (posreport validate)
//   └── versionCmd  (posreport version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Setting up logging
//   A configuration or logging failure stops the command before any data
//   is read.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/pos-report/internal/config"
	"github.com/ginjaninja78/pos-report/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose forces debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "posreport",
	Short: "POS Report - Validate point-of-sale records and report on them",
	Long: `POS Report loads the point-of-sale exports of a store chain (products,
branches, staff, customers, transactions and purchases), validates every
record, and answers four questions about them:

  - Which products need restocking?
  - Which transactions happened in a date window?
  - Which branch had the most transactions?
  - Which member of staff sold the most products?

Sources may be JSON, CSV or XLSX files; the configuration file maps each
collection to its source.

Example Usage:
  posreport report                          # Run the report with config.yaml
  posreport report --threshold 100          # Override the restock threshold
  posreport report --config ./store.yaml -v # Custom configuration, debug logs
  posreport validate                        # Check the sources without reporting`,

	// If no subcommand is provided, print the help message.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},

	// Errors are reported by Execute; usage is only useful for flag errors.
	SilenceErrors: true,
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

// init sets up the global flags.
func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	// --verbose flag: Forces debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// RUNTIME SETUP
// =============================================================================

// setup loads the configuration and builds the logger of a command run.
// The returned closer must be called once the command is done.
//
// RETURNS:
//   - The validated configuration.
//   - The logger, also installed as the global zerolog logger.
//   - A closer for the log output.
//   - An error if either step fails. Both are fatal for every command.
func setup(cmd *cobra.Command) (*config.MainConfig, zerolog.Logger, io.Closer, error) {
	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("failed to load main config: %w", err)
	}

	logger, closer, err := logging.Setup(mainConfig.Logging, verbose)
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	logger.Debug().Str("config", cfgFile).Str("command", cmd.Name()).Msg("configuration loaded")

	// From here on failures are data problems, not usage problems.
	cmd.SilenceUsage = true

	return mainConfig, logger, closer, nil
}
