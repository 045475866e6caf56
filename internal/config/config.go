// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/civiclab/crimestat/internal/dataset"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the two input files and names the dataset's columns.
type DataConfig struct {
	Dir         string        `yaml:"dir" mapstructure:"dir"`
	DatasetFile string        `yaml:"dataset_file" mapstructure:"dataset_file"`
	GeoFile     string        `yaml:"geo_file" mapstructure:"geo_file"`
	Columns     ColumnsConfig `yaml:"columns" mapstructure:"columns"`
}

// ColumnsConfig names the well-known dataset columns.
type ColumnsConfig struct {
	Code        string `yaml:"code" mapstructure:"code"`
	Year        string `yaml:"year" mapstructure:"year"`
	Count       string `yaml:"count" mapstructure:"count"`
	Population  string `yaml:"population" mapstructure:"population"`
	Region      string `yaml:"region" mapstructure:"region"`
	Department  string `yaml:"department" mapstructure:"department"`
	SizeBracket string `yaml:"size_bracket" mapstructure:"size_bracket"`
	Category    string `yaml:"category" mapstructure:"category"`
}

// ServerConfig configures the read-only API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RatePerSecond  float64  `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// CacheConfig configures snapshot memoization.
type CacheConfig struct {
	Snapshots int `yaml:"snapshots" mapstructure:"snapshots"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DatasetPath returns the dataset file path, honoring absolute overrides.
func (d DataConfig) DatasetPath() string {
	return d.resolve(d.DatasetFile)
}

// GeoPath returns the boundary file path, honoring absolute overrides.
func (d DataConfig) GeoPath() string {
	return d.resolve(d.GeoFile)
}

func (d DataConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// DatasetColumns converts the configured column names for the loader.
func (d DataConfig) DatasetColumns() dataset.Columns {
	return dataset.Columns{
		Code:        d.Columns.Code,
		Year:        d.Columns.Year,
		Count:       d.Columns.Count,
		Population:  d.Columns.Population,
		Region:      d.Columns.Region,
		Department:  d.Columns.Department,
		SizeBracket: d.Columns.SizeBracket,
		Category:    d.Columns.Category,
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CRIMESTAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	cols := dataset.DefaultColumns()
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.dataset_file", "communes_clean.csv")
	v.SetDefault("data.geo_file", "regions.geojson")
	v.SetDefault("data.columns.code", cols.Code)
	v.SetDefault("data.columns.year", cols.Year)
	v.SetDefault("data.columns.count", cols.Count)
	v.SetDefault("data.columns.population", cols.Population)
	v.SetDefault("data.columns.region", cols.Region)
	v.SetDefault("data.columns.department", cols.Department)
	v.SetDefault("data.columns.size_bracket", cols.SizeBracket)
	v.SetDefault("data.columns.category", cols.Category)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("cache.snapshots", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
