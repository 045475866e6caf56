package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civiclab/crimestat/internal/normalize"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <label>...",
	Short: "Print normalized join keys for labels",
	Long:  "Applies the join-key normalization (trim, lowercase, strip accents, collapse whitespace) to each argument. Useful when debugging why a region fails to match.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, label := range args {
			fmt.Printf("%s\t%s\n", label, normalize.Label(label))
		}
		return nil
	},
}

func init() { rootCmd.AddCommand(normalizeCmd) }
