package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/matchup/internal/model"
)

// mockAnalyzer implements Analyzer
type mockAnalyzer struct {
	delay       time.Duration
	shouldError bool
}

func (m *mockAnalyzer) AnalyzeGame(ctx context.Context, game model.Game) (*model.Report, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.shouldError {
		return nil, errors.New("analysis error")
	}
	return &model.Report{Game: game}, nil
}

const gameYAML = `game:
  home_team: SEA
  away_team: SDP
  home_starting_pitcher: Logan Gilbert
  away_starting_pitcher: Dylan Cease
  home_lineup:
    - {name: Cal Raleigh, hand: S}
  away_lineup:
    - {name: Manny Machado, hand: R}
`

func writeGame(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBatchProcessor_ProcessFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeGame(t, dir, "a.yaml", gameYAML)
	bad := writeGame(t, dir, "b.yaml", "game:\n  home_team: SEA\n")
	missing := filepath.Join(dir, "missing.yaml")

	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0)
	results := processor.ProcessFiles(context.Background(), []string{good, bad, missing})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Error != nil || results[0].Report == nil {
		t.Errorf("expected success for %s, got %v", good, results[0].Error)
	}
	if results[0].Report.Game.HomeStarter != "Logan Gilbert" {
		t.Errorf("unexpected game %+v", results[0].Report.Game)
	}
	if !errors.Is(results[1].Error, model.ErrIncompleteGame) {
		t.Errorf("expected ErrIncompleteGame, got %v", results[1].Error)
	}
	if results[2].Error == nil || results[2].Path != missing {
		t.Errorf("expected a load error for %s, got %+v", missing, results[2])
	}
}

func TestBatchProcessor_AnalyzerError(t *testing.T) {
	dir := t.TempDir()
	p := writeGame(t, dir, "a.yaml", gameYAML)

	results := NewBatchProcessor(&mockAnalyzer{shouldError: true}, 1, 0).ProcessFiles(context.Background(), []string{p})
	if results[0].Error == nil {
		t.Error("expected analyzer error")
	}
}

func TestBatchProcessor_Timeout(t *testing.T) {
	dir := t.TempDir()
	p := writeGame(t, dir, "a.yaml", gameYAML)

	processor := NewBatchProcessor(&mockAnalyzer{delay: time.Second}, 1, 20*time.Millisecond)
	results := processor.ProcessFiles(context.Background(), []string{p})

	if !errors.Is(results[0].Error, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", results[0].Error)
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	results := NewBatchProcessor(&mockAnalyzer{}, 2, 0).ProcessFiles(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadGameList(t *testing.T) {
	dir := t.TempDir()
	content := `# comment
games/a.yaml

games/b.yaml
games/a.yaml
/abs/c.yaml
`
	list := writeGame(t, dir, "games.txt", content)

	paths, err := ReadGameList(list)
	if err != nil {
		t.Fatalf("ReadGameList failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "games/a.yaml"),
		filepath.Join(dir, "games/b.yaml"),
		"/abs/c.yaml",
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %v", len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d = %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestReadGameList_NotFound(t *testing.T) {
	if _, err := ReadGameList("non-existent-file.txt"); err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestBatchProcessor_ProcessList(t *testing.T) {
	dir := t.TempDir()
	writeGame(t, dir, "a.yaml", gameYAML)
	list := writeGame(t, dir, "games.txt", "a.yaml\n")

	results, err := NewBatchProcessor(&mockAnalyzer{}, 1, 0).ProcessList(context.Background(), list)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Error != nil {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestCollectGameFiles(t *testing.T) {
	dir := t.TempDir()
	writeGame(t, dir, "b.yml", gameYAML)
	writeGame(t, dir, "a.yaml", gameYAML)
	writeGame(t, dir, "notes.txt", "x")
	single := writeGame(t, t.TempDir(), "single.yaml", gameYAML)

	files, err := CollectGameFiles([]string{dir, single})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yml"), single}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("file %d = %s, want %s", i, files[i], want[i])
		}
	}

	if _, err := CollectGameFiles([]string{filepath.Join(dir, "nope")}); err == nil {
		t.Error("expected error for missing path")
	}
}
