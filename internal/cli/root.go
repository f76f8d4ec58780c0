package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/matchup/internal/logging"
	"github.com/ppiankov/matchup/internal/model"
)

// Version is set at build time.
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "matchup",
	Short: "Matchup - pitcher vulnerability and game trigger analysis",
	Long: `Matchup resolves the players of a game against local statistics exports,
scores each starting pitcher's vulnerability, assesses bullpen fatigue and
team form, and reports which game-level triggers fired.

Inputs are CSV exports in a data directory and a YAML game descriptor.
Nothing is fetched over the network.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "matchup %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.matchup/config.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.String("data-dir", "", "directory holding the dataset exports")
	pf.Int("season", 0, "season used for year-filtered lookups")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("metrics-out", "", "write Prometheus metrics to this textfile after the run")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("data_dir", pf.Lookup("data-dir"))
	_ = viper.BindPFlag("season", pf.Lookup("season"))
	_ = viper.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("metrics.textfile_path", pf.Lookup("metrics-out"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.matchup")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match MATCHUP_*
	viper.SetEnvPrefix("MATCHUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so that env vars and unset flags
// resolve through viper.
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("season", cfg.Season)
	v.SetDefault("team_ops.window_days", cfg.TeamOPS.WindowDays)
	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	v.SetDefault("concurrency.game_workers", cfg.Concurrency.GameWorkers)
	v.SetDefault("concurrency.game_timeout", cfg.Concurrency.GameTimeout)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.json", cfg.Output.JSON)
	v.SetDefault("output.markdown", cfg.Output.Markdown)
	v.SetDefault("output.verbose", cfg.Output.Verbose)
	v.SetDefault("metrics.textfile_path", cfg.Metrics.TextfilePath)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// LoadConfig layers defaults, the config file, env vars and bound flags.
// Zero-valued flags leave the lower layers in place.
func LoadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	setDefaults(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	def := model.DefaultConfig()
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.Season == 0 {
		cfg.Season = def.Season
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = def.Concurrency.Workers
	}
	if cfg.Concurrency.GameWorkers <= 0 {
		cfg.Concurrency.GameWorkers = def.Concurrency.GameWorkers
	}
	if cfg.TeamOPS.WindowDays <= 0 {
		cfg.TeamOPS.WindowDays = def.TeamOPS.WindowDays
	}
	return cfg, nil
}

// setup loads the config and installs the global logger.
func setup() (*model.Config, error) {
	cfg, err := LoadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.Logging.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}
