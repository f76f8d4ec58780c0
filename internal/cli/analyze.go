package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/matchup/internal/logging"
	"github.com/ppiankov/matchup/internal/metrics"
	"github.com/ppiankov/matchup/internal/model"
	"github.com/ppiankov/matchup/internal/pipeline"
)

var (
	outputDir string
	noJSON    bool
	noMD      bool
	noCache   bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <game.yaml>",
	Short: "Analyze a single game",
	Long: `Analyze runs the full pipeline for one game:
- Load every registered dataset from the data directory
- Build starter and lineup profiles
- Score starter vulnerability and platoon exposure
- Assess bullpen fatigue and rolling team OPS
- Evaluate game triggers and print recommendations

Example:
  matchup analyze games/2025-06-14-sdp-sea.yaml
  matchup analyze game.yaml --data-dir ./exports --season 2025
  matchup analyze game.yaml --output-dir ./reports --no-md`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addOutputFlags(analyzeCmd)
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for reports (default from config)")
	cmd.Flags().BoolVar(&noJSON, "no-json", false, "skip the JSON report")
	cmd.Flags().BoolVar(&noMD, "no-md", false, "skip the Markdown report")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the lookup cache")
}

// applyOutputFlags folds command-local flags into the loaded config.
func applyOutputFlags(cfg *model.Config) {
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if noJSON {
		cfg.Output.JSON = false
	}
	if noMD {
		cfg.Output.Markdown = false
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	applyOutputFlags(cfg)

	ctx := context.Background()
	log := logging.Named("analyze")

	game, err := model.LoadGameFile(args[0])
	if err != nil {
		return err
	}

	m := metrics.New()
	repo, loadWarnings, err := pipeline.LoadRepository(ctx, cfg, m, logging.Get())
	if err != nil {
		return err
	}
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d datasets from %s\n", len(repo.Loaded()), cfg.DataDir)
	}

	analyzer := pipeline.New(repo, cfg, pipeline.WithMetrics(m), pipeline.WithLogger(logging.Get()))
	report, err := analyzer.AnalyzeGame(ctx, game)
	if err != nil {
		return err
	}
	report.Warnings = append(append([]string{}, loadWarnings...), report.Warnings...)

	renderer := pipeline.NewRenderer(cmd.OutOrStdout())
	renderer.RenderSummary(report)

	if err := writeReports(renderer, report, cfg); err != nil {
		return err
	}

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := m.WriteTextfile(path); err != nil {
			log.Warn(ctx, "failed to write metrics", logging.String("path", path), logging.Error(err))
		}
	}
	return nil
}

func writeReports(renderer *pipeline.Renderer, report *model.Report, cfg *model.Config) error {
	if !cfg.Output.JSON && !cfg.Output.Markdown {
		return nil
	}
	paths, err := renderer.WriteAll(report, cfg.Output.Dir, cfg.Output.JSON, cfg.Output.Markdown)
	for _, p := range paths {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", p)
	}
	return err
}
