package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/matchup/internal/logging"
	"github.com/ppiankov/matchup/internal/metrics"
	"github.com/ppiankov/matchup/internal/pipeline"
	"github.com/ppiankov/matchup/internal/worker"
)

var (
	listFile     string
	concurrency  int
	batchTimeout time.Duration
	gameTimeout  time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [game.yaml|dir]...",
	Short: "Analyze multiple games in parallel",
	Long: `Batch analyzes many games against one loaded set of datasets:
- Games come from arguments (files or directories of .yaml files) or --list
- Games are analyzed in parallel with a configurable worker count
- Each game gets its own timeout
- Individual reports are written for each game

Example:
  matchup batch games/
  matchup batch --list slate.txt --concurrency 8
  matchup batch a.yaml b.yaml --timeout 5m --game-timeout 20s`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&listFile, "list", "", "file listing game descriptors, one per line")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of games analyzed at once (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().DurationVar(&gameTimeout, "game-timeout", 0, "timeout for individual games (default from config)")
	addOutputFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if listFile == "" && len(args) == 0 {
		return fmt.Errorf("no games given: pass game files, directories or --list")
	}

	cfg, err := setup()
	if err != nil {
		return err
	}
	applyOutputFlags(cfg)
	if concurrency > 0 {
		cfg.Concurrency.GameWorkers = concurrency
	}
	if gameTimeout > 0 {
		cfg.Concurrency.GameTimeout = gameTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()
	log := logging.Named("batch")

	input := listFile
	if input == "" {
		input = strings.Join(args, " ")
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Matchup Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", input)
	fmt.Fprintf(os.Stderr, "  Data dir:     %s\n", cfg.DataDir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.GameWorkers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	m := metrics.New()
	repo, loadWarnings, err := pipeline.LoadRepository(ctx, cfg, m, logging.Get())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d datasets\n", len(repo.Loaded()))
	if cfg.Output.Verbose {
		for _, w := range loadWarnings {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
		}
	}

	analyzer := pipeline.New(repo, cfg, pipeline.WithMetrics(m), pipeline.WithLogger(logging.Get()))
	processor := worker.NewBatchProcessor(analyzer, cfg.Concurrency.GameWorkers, cfg.Concurrency.GameTimeout)

	var results []*worker.GameResult
	if listFile != "" {
		results, err = processor.ProcessList(ctx, listFile)
		if err != nil {
			return fmt.Errorf("process list: %w", err)
		}
	} else {
		paths, err := worker.CollectGameFiles(args)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Found %d games\n", len(paths))
		results = processor.ProcessFiles(ctx, paths)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Analyzing games with %d workers...\n", cfg.Concurrency.GameWorkers)
	fmt.Fprintf(os.Stderr, "\n")

	renderer := pipeline.NewRenderer(cmd.OutOrStdout())
	successCount := 0
	failureCount := 0
	fired := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		report := result.Report
		report.Warnings = append(append([]string{}, loadWarnings...), report.Warnings...)
		if err := writeReports(renderer, report, cfg); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, err)
			continue
		}

		successCount++
		fired += len(report.Recommendations)
		fmt.Fprintf(os.Stderr, "✓ %s (%d recommendations, %s)\n",
			report.Game.Title(), len(report.Recommendations), result.Elapsed.Round(time.Millisecond))
		if cfg.Output.Verbose {
			renderer.RenderSummary(report)
		}
	}

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := m.WriteTextfile(path); err != nil {
			log.Warn(ctx, "failed to write metrics", logging.String("path", path), logging.Error(err))
		}
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:            %d games\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:          %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:         %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Recommendations:  %d\n", fired)
	fmt.Fprintf(os.Stderr, "  Output:           %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d games failed", failureCount)
	}
	return nil
}
