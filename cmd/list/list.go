package list

import (
	"fmt"
	"github.com/ValentinKolb/archbench/cmd/run"
	"github.com/ValentinKolb/archbench/lib/archive"
	"github.com/ValentinKolb/archbench/lib/report"
	"github.com/spf13/cobra"
	"strings"
)

// ListCmd prints the registered archives and the benchmark matrix
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available archives, report formats and tests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		baseline := archive.Binary()

		fmt.Fprintln(out, "Archives:")
		for _, name := range archive.Names() {
			switch name {
			case baseline.Baseline.Name():
				fmt.Fprintf(out, "  %s (default baseline)\n", name)
			case baseline.Candidate.Name():
				fmt.Fprintf(out, "  %s (default candidate)\n", name)
			default:
				fmt.Fprintf(out, "  %s\n", name)
			}
		}

		fmt.Fprintf(out, "\nFormats:\n  %s\n", strings.Join(report.Formats, ", "))

		fmt.Fprintln(out, "\nTests:")
		for _, e := range run.DefaultMatrix() {
			fmt.Fprintf(out, "  %-32s kind=%s\n", e.Name(), e.Kind)
		}
		return nil
	},
}
