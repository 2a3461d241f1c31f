package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/pos-report/internal/types"
)

// =============================================================================
// RUN SUMMARY
// =============================================================================

// WriteSummary writes a human-readable summary of a run.
//
// PARAMETERS:
//   - w: The destination, usually stdout.
//   - result: The result of Run or Check.
//
// RETURNS:
//   - An error if writing fails.
func WriteSummary(w io.Writer, result *Result) error {
	writer := bufio.NewWriter(w)
	rule := strings.Repeat("=", 80)

	fmt.Fprintf(writer, "POS Report - Run Summary\n%s\n\n", rule)
	fmt.Fprintf(writer, "Run ID:   %s\n", result.RunID)
	fmt.Fprintf(writer, "Duration: %s\n\n", result.Stats.ProcessingTime)

	fmt.Fprintln(writer, "Collections:")
	for _, kind := range types.Kinds {
		fmt.Fprintf(writer, "  %-13s loaded: %-6d rejected: %d\n",
			kind, result.Stats.Loaded[kind], result.Stats.Rejected[kind])
	}
	fmt.Fprintf(writer, "  Dangling references: %d\n\n", result.Stats.DanglingReferences)

	if result.LowStock != nil || result.InWindow != nil || result.BusiestBranch != nil || result.TopStaff != nil {
		fmt.Fprintln(writer, "Results:")
		fmt.Fprintf(writer, "  Products to restock:    %s\n", joinOrNone(result.LowStock))
		fmt.Fprintf(writer, "  Transactions in window: %d\n", len(result.InWindow))
		if b := result.BusiestBranch; b != nil {
			fmt.Fprintf(writer, "  Busiest branch:         %s (%s), %d transaction(s)\n", b.BranchID, b.Address, b.Count)
		}
		if s := result.TopStaff; s != nil {
			fmt.Fprintf(writer, "  Top-selling staff:      %s, %d product(s)\n", s.StaffID, s.Total)
		}
		fmt.Fprintln(writer)
	}

	fmt.Fprintf(writer, "%s\nEnd of Summary\n", rule)

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}
