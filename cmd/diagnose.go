package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/civiclab/crimestat/internal/metrics"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Report join coverage between dataset and boundaries",
	Long:  "Compares the normalized region keys of the dataset against the boundary collection and lists the keys missing on either side.",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}

		s, err := mgr.Current(cmd.Context())
		if err != nil {
			return err
		}

		formatDiagnostics(os.Stdout, s.GeoNameKey, s.Diagnostics)
		return nil
	},
}

func init() { rootCmd.AddCommand(diagnoseCmd) }

// formatDiagnostics writes the join coverage report to w.
func formatDiagnostics(out io.Writer, nameKey string, d metrics.Diagnostics) {
	_, _ = fmt.Fprintf(out, "boundary name key: %s\n", nameKey)
	_, _ = fmt.Fprintf(out, "regions in data:   %d\n", d.DataRegions)
	_, _ = fmt.Fprintf(out, "regions in geo:    %d\n", d.GeoRegions)

	if len(d.MissingInGeo) == 0 && len(d.MissingInData) == 0 {
		_, _ = fmt.Fprintln(out, "all region keys match")
		return
	}
	for _, k := range d.MissingInGeo {
		_, _ = fmt.Fprintf(out, "missing in geo (no boundary):  %s\n", k)
	}
	for _, k := range d.MissingInData {
		_, _ = fmt.Fprintf(out, "missing in data (no shading):  %s\n", k)
	}
}
