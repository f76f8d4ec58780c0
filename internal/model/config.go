package model

import (
	"time"

	"github.com/ppiankov/matchup/internal/table"
)

// Config holds all analyzer settings.
type Config struct {
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	Season  int    `yaml:"season" mapstructure:"season"`

	// Datasets overrides file names and key columns of the default registry.
	Datasets table.Registry `yaml:"datasets,omitempty" mapstructure:"datasets"`

	TeamOPS     TeamOPSConfig     `yaml:"team_ops" mapstructure:"team_ops"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// TeamOPSConfig controls the rolling team OPS used for the cold check.
type TeamOPSConfig struct {
	WindowDays int `yaml:"window_days" mapstructure:"window_days"`
}

// ConcurrencyConfig bounds profile fan-out and batch processing.
type ConcurrencyConfig struct {
	Workers     int           `yaml:"workers" mapstructure:"workers"`
	GameWorkers int           `yaml:"game_workers" mapstructure:"game_workers"`
	GameTimeout time.Duration `yaml:"game_timeout" mapstructure:"game_timeout"`
}

// CacheConfig controls the lookup memo.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	JSON     bool   `yaml:"json" mapstructure:"json"`
	Markdown bool   `yaml:"markdown" mapstructure:"markdown"`
	Verbose  bool   `yaml:"verbose" mapstructure:"verbose"`
}

// MetricsConfig controls the textfile export.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path" mapstructure:"textfile_path"`
}

// LoggingConfig sets the log level (debug, info, warn, error).
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".",
		Season:  2025,
		TeamOPS: TeamOPSConfig{
			WindowDays: 7,
		},
		Concurrency: ConcurrencyConfig{
			Workers:     8,
			GameWorkers: 4,
			GameTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     0,
		},
		Output: OutputConfig{
			Dir:      "./matchup-reports",
			JSON:     true,
			Markdown: true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Registry returns the default dataset registry with the configured
// overrides applied.
func (c *Config) Registry() table.Registry {
	return table.DefaultRegistry().Merge(c.Datasets)
}
