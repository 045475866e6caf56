package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civiclab/crimestat/internal/config"
	"github.com/civiclab/crimestat/internal/snapshot"
)

var cfg *config.Config

var (
	flagDataPath string
	flagGeoPath  string
)

var rootCmd = &cobra.Command{
	Use:   "crimestat",
	Short: "Regional crime statistics analytics",
	Long:  "Loads commune-level crime statistics and regional boundaries, derives region-year rate and variation metrics, and serves them for exploratory analysis.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newManager builds the snapshot manager from config and flag overrides.
func newManager() (*snapshot.Manager, error) {
	dataPath := cfg.Data.DatasetPath()
	if flagDataPath != "" {
		dataPath = flagDataPath
	}
	geoPath := cfg.Data.GeoPath()
	if flagGeoPath != "" {
		geoPath = flagGeoPath
	}
	return snapshot.NewManager(dataPath, geoPath, cfg.Data.DatasetColumns(), cfg.Cache.Snapshots)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data", "", "dataset file path (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagGeoPath, "geojson", "", "boundary file path (default from config)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
