// =============================================================================
// POS Report - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   posreport version [--short]
//
// OUTPUT:
//   POS Report
//   Version:    1.2.0
//   Build Date: 2026-10-01
//   Revision:   3f9c2d1
//   Go Version: go1.24.11
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version and BuildDate are set at build time:
//
//	go build -ldflags "-X 'github.com/ginjaninja78/pos-report/cmd.Version=1.2.0'"
var (
	Version   = "dev"
	BuildDate = "unknown"
)

// versionShort prints the bare version string only.
var versionShort bool

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, VCS revision and Go runtime version.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, Version)
			return
		}

		fmt.Fprintln(out, "POS Report")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Revision:   %s\n", vcsRevision())
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the version number only")
	rootCmd.AddCommand(versionCmd)
}

// vcsRevision returns the abbreviated commit the binary was built from.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	revision, dirty := "unknown", false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if dirty {
		revision += "-dirty"
	}
	return revision
}
