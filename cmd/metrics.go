package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/civiclab/crimestat/internal/metrics"
)

var (
	metricsYear    int
	metricsRegions []string
	metricsTop     int
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print the region-year metrics table",
	Long:  "Builds the region-year aggregation (incident count, population, rate per thousand, year-over-year variation) and prints it, optionally filtered by year or region.",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}

		s, err := mgr.Current(cmd.Context())
		if err != nil {
			return err
		}

		rows := s.Metrics
		if metricsYear != 0 {
			if metricsTop > 0 {
				rows = metrics.TopByRate(rows, metricsYear, metricsTop)
			} else {
				rows = metrics.FilterYear(rows, metricsYear)
			}
		}
		if len(metricsRegions) > 0 {
			rows = metrics.FilterRegions(rows, metricsRegions)
		}

		formatMetricRows(os.Stdout, rows)
		return nil
	},
}

func init() {
	metricsCmd.Flags().IntVar(&metricsYear, "year", 0, "restrict to one year")
	metricsCmd.Flags().StringSliceVar(&metricsRegions, "region", nil, "restrict to named regions (repeatable)")
	metricsCmd.Flags().IntVar(&metricsTop, "top", 0, "with --year, keep only the N highest rates")
	rootCmd.AddCommand(metricsCmd)
}

// formatMetricRows writes a tabular representation of metric rows to w.
func formatMetricRows(out io.Writer, rows []metrics.RegionYearMetric) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "REGION\tYEAR\tCOUNT\tPOPULATION\tRATE/1000\tVARIATION")
	_, _ = fmt.Fprintln(w, "------\t----\t-----\t----------\t---------\t---------")

	for _, m := range rows {
		rate := "-"
		if m.RatePerThousand != nil {
			rate = fmt.Sprintf("%.2f", *m.RatePerThousand)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%.0f\t%.0f\t%s\t%.2f\n",
			m.Region, m.Year, m.Count, m.Population, rate, m.Variation)
	}
	_ = w.Flush()
}
