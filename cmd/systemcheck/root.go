package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/vertti/systemcheck/pkg/output"
	"github.com/vertti/systemcheck/pkg/report"
)

var (
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "systemcheck",
	Short: "Report the compute resources visible to this process",
	Long: `Systemcheck reports the effective CPU, memory and cgroup limits
visible to the current process, reconciling host totals with any
container-imposed restrictions.

Examples:
  systemcheck             # short summary
  systemcheck -v          # detailed sections
  systemcheck --json      # machine-readable summary
  systemcheck -v --json   # machine-readable detail`,
	Version: Version,
	RunE:    runReport,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output (detailed sections)")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false,
		"emit JSON to stdout")
}

func runReport(cmd *cobra.Command, _ []string) error {
	s := (&report.Gatherer{}).Gather()
	return render(cmd.OutOrStdout(), s)
}

func render(w io.Writer, s report.Snapshot) error {
	switch {
	case jsonOut && verbose:
		return printJSON(w, s.Detailed(Version))
	case jsonOut:
		return printJSON(w, s.Simple(Version))
	case verbose:
		output.PrintSections(w, Version, s)
	default:
		output.PrintSummary(w, Version, s)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
