package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/matchup/internal/model"
)

// Analyzer defines the interface for analyzing one game
type Analyzer interface {
	AnalyzeGame(ctx context.Context, game model.Game) (*model.Report, error)
}

// GameJob loads one game file and analyzes it
type GameJob struct {
	Path     string
	Analyzer Analyzer
	Timeout  time.Duration
}

// Execute executes the game job
func (j *GameJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res := &GameResult{Path: j.Path}

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	game, err := model.LoadGameFile(j.Path)
	if err != nil {
		res.Error = err
		res.Elapsed = time.Since(start)
		return res
	}

	report, err := j.Analyzer.AnalyzeGame(ctx, game)
	res.Report = report
	res.Error = err
	res.Elapsed = time.Since(start)
	return res
}

// GameResult represents the result of a game job
type GameResult struct {
	Path    string
	Report  *model.Report
	Error   error
	Elapsed time.Duration
}

// GetError returns the error from the game result
func (r *GameResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple game files concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	timeout     time.Duration
}

// NewBatchProcessor creates a new batch processor. A zero timeout means
// games are bounded only by the parent context.
func NewBatchProcessor(analyzer Analyzer, concurrency int, timeout time.Duration) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// ProcessFiles analyzes the given game files, returning results in input
// order.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*GameResult {
	if len(paths) == 0 {
		return []*GameResult{}
	}

	jobs := make([]Job, len(paths))
	for i, p := range paths {
		jobs[i] = &GameJob{Path: p, Analyzer: b.analyzer, Timeout: b.timeout}
	}

	results := Run(ctx, b.concurrency, jobs)

	out := make([]*GameResult, len(results))
	for i, r := range results {
		if gr, ok := r.(*GameResult); ok {
			out[i] = gr
			continue
		}
		out[i] = &GameResult{Path: paths[i], Error: r.GetError()}
	}
	return out
}

// ProcessList reads game paths from a list file and analyzes them
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*GameResult, error) {
	paths, err := ReadGameList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read game list: %w", err)
	}

	return b.ProcessFiles(ctx, paths), nil
}

// ReadGameList reads game file paths from a file (one per line). Relative
// paths are resolved against the list's directory.
func ReadGameList(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// CollectGameFiles expands directories into their .yaml/.yml files (sorted)
// and keeps file arguments as given.
func CollectGameFiles(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".yaml", ".yml":
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
