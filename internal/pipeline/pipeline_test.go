package pipeline

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ppiankov/matchup/internal/metrics"
	"github.com/ppiankov/matchup/internal/model"
	"github.com/ppiankov/matchup/internal/table"
	"github.com/ppiankov/matchup/internal/trigger"
)

var fixtures = map[string]string{
	"Player_Standard_Pitching.csv": `Player,ERA,WHIP,IP,SO9,BB9,HR9
Logan Gilbert,2.60,0.95,180.1,10.8,1.8,0.9
Dylan Cease,2.70,1.00,170.0,11.3,3.0,0.8
`,
	"expected_stats.csv": `"last_name, first_name",year,est_woba,xera
"Gilbert, Logan",2025,.260,2.40
"Cease, Dylan",2025,.270,2.60
"Raleigh, Cal",2025,.380,
`,
	"percentile_rankings.csv": `player_name,year,k_percent,xwoba,brl_percent,hard_hit_percent
Logan Gilbert,2025,90,10,15,12
Dylan Cease,2025,95,20,18,10
`,
	"homeandawatbatter.cvs": `Player,OPS,HR,AVG,OBP,SLG
Cal Raleigh,.950,38,.260,.360,.590
Julio Rodriguez,.760,20,.270,.320,.440
Manny Machado,.780,22,.275,.330,.450
Jackson Merrill,.820,18,.290,.340,.480
`,
	"last3dayspitching.csv": `Team,Player,Date,IP
SEA,Andres Munoz,2025-06-12,1.0
SEA,Andres Munoz,2025-06-13,1.1
SEA,Andres Munoz,2025-06-14,1.0
SEA,Logan Gilbert,2025-06-11,6.2
SDP,Robert Suarez,2025-06-13,1.0
`,
	"Team_Relief_Pitching.cvs": `Tm,ERA,WHIP
Seattle Mariners,3.50,1.15
San Diego Padres,3.20,1.10
`,
	"team_batting_log.csv": `Team,Date,OBP,SLG
SEA,2025-06-13,.330,.420
SDP,2025-06-12,.310,.400
`,
}

func writeFixtures(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testGame() model.Game {
	return model.Game{
		HomeTeam:    "SEA",
		AwayTeam:    "SDP",
		HomeStarter: "Logan Gilbert",
		AwayStarter: "Dylan Cease",
		HomeLineup: []model.LineupEntry{
			{Name: "Cal Raleigh", Hand: "S"},
			{Name: "Julio Rodriguez", Hand: "R"},
		},
		AwayLineup: []model.LineupEntry{
			{Name: "Manny Machado", Hand: "R"},
			{Name: "Jackson Merrill", Hand: "L"},
		},
		Date: "2025-06-14",
	}
}

func newAnalyzer(t *testing.T, files map[string]string, m *metrics.Metrics) (*Analyzer, []string) {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.DataDir = writeFixtures(t, files)

	repo, warnings, err := LoadRepository(context.Background(), cfg, m, nil)
	if err != nil {
		t.Fatalf("LoadRepository: %v", err)
	}
	clock := func() time.Time { return time.Date(2025, 6, 14, 20, 0, 0, 0, time.UTC) }
	return New(repo, cfg, WithMetrics(m), WithClock(clock)), warnings
}

func TestAnalyzeGame_AcesInPitchersPark(t *testing.T) {
	m := metrics.New()
	a, warnings := newAnalyzer(t, fixtures, m)
	if len(warnings) == 0 {
		t.Error("expected warnings for the datasets missing from the fixture dir")
	}

	r, err := a.AnalyzeGame(context.Background(), testGame())
	if err != nil {
		t.Fatalf("AnalyzeGame: %v", err)
	}

	if r.RunID == "" || r.Season != 2025 {
		t.Errorf("unexpected report header %q %d", r.RunID, r.Season)
	}
	if r.Park.Venue != "T-Mobile Park" {
		t.Errorf("unexpected park %+v", r.Park)
	}
	if !r.Home.Starter.Ace || !r.Away.Starter.Ace {
		t.Errorf("expected two aces, got %v/%v", r.Home.Starter.Ace, r.Away.Starter.Ace)
	}
	if r.Home.Starter.Vulnerability.Score != -3.0 {
		t.Errorf("home score = %v, want -3.0", r.Home.Starter.Vulnerability.Score)
	}
	if r.Home.Hitters[0].Classic.OPS.Value != 0.95 || r.Away.Hitters[1].Name != "Jackson Merrill" {
		t.Errorf("hitters out of lineup order: %+v", r.Home.Hitters)
	}

	if len(r.Recommendations) != 1 || r.Recommendations[0].Rule != "aces_pitchers_park_under" {
		t.Fatalf("expected only the aces under, got %+v", r.Recommendations)
	}
	for _, k := range []string{trigger.HomeAce, trigger.AwayAce, trigger.PitchersPark} {
		if !r.Triggers[k] {
			t.Errorf("expected %s to fire", k)
		}
	}
	if r.Triggers[trigger.HomeAutoFade] || r.Triggers[trigger.AwayAutoFade] {
		t.Error("aces must not be auto-faded")
	}

	if tired := r.Home.Bullpen.Tired(); len(tired) != 1 || tired[0] != "Andres Munoz" {
		t.Errorf("expected Munoz tired, got %v", tired)
	}
	for _, rv := range r.Home.Bullpen.Relievers {
		if rv.Name == "Logan Gilbert" {
			t.Error("a six-inning outing is not a relief appearance")
		}
	}
	if r.Home.Bullpen.ERA.Value != 3.50 || r.Home.Bullpen.AtRisk {
		t.Errorf("unexpected home bullpen %+v", r.Home.Bullpen)
	}
	if !r.Home.RollingOPS.Known || math.Abs(r.Home.RollingOPS.Value-0.75) > 1e-9 {
		t.Errorf("unexpected rolling OPS %+v", r.Home.RollingOPS)
	}
}

func TestAnalyzeGame_Metrics(t *testing.T) {
	m := metrics.New()
	a, _ := newAnalyzer(t, fixtures, m)

	if _, err := a.AnalyzeGame(context.Background(), testGame()); err != nil {
		t.Fatal(err)
	}
	if _, err := a.AnalyzeGame(context.Background(), model.Game{HomeTeam: "SEA"}); err == nil {
		t.Fatal("expected validation error")
	}

	count, err := testutil.GatherAndCount(m.Registry(), "matchup_pipeline_games_total")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected ok and invalid series, got %d", count)
	}
	recs, err := testutil.GatherAndCount(m.Registry(), "matchup_engine_recommendations_total")
	if err != nil {
		t.Fatal(err)
	}
	if recs != 1 {
		t.Errorf("expected one recommendation series, got %d", recs)
	}
}

func TestAnalyzeGame_Invalid(t *testing.T) {
	a, _ := newAnalyzer(t, fixtures, nil)

	_, err := a.AnalyzeGame(context.Background(), model.Game{HomeTeam: "SEA"})
	if !errors.Is(err, model.ErrIncompleteGame) {
		t.Fatalf("expected ErrIncompleteGame, got %v", err)
	}
	if !strings.Contains(err.Error(), "away_team") || !strings.Contains(err.Error(), "home_starting_pitcher") {
		t.Errorf("error should list missing fields: %v", err)
	}
}

func TestAnalyzeGame_MissingNameColumn(t *testing.T) {
	files := make(map[string]string, len(fixtures)+1)
	for k, v := range fixtures {
		files[k] = v
	}
	files["pitcher_arm_angles.csv"] = "player,ball_angle\nLogan Gilbert,41\n"

	a, _ := newAnalyzer(t, files, nil)
	_, err := a.AnalyzeGame(context.Background(), testGame())
	if !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestAnalyzeGame_Cancelled(t *testing.T) {
	a, _ := newAnalyzer(t, fixtures, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.AnalyzeGame(ctx, testGame()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeGame_NoData(t *testing.T) {
	a, _ := newAnalyzer(t, map[string]string{}, nil)

	r, err := a.AnalyzeGame(context.Background(), testGame())
	if err != nil {
		t.Fatalf("missing datasets must not fail the game: %v", err)
	}
	if len(r.Recommendations) != 0 {
		t.Errorf("expected no recommendations, got %+v", r.Recommendations)
	}
	var starterWarnings int
	for _, w := range r.Warnings {
		if strings.HasPrefix(w, "no data found for starter") {
			starterWarnings++
		}
	}
	if starterWarnings != 2 {
		t.Errorf("expected a warning per starter, got %v", r.Warnings)
	}
}

func TestRenderer(t *testing.T) {
	a, _ := newAnalyzer(t, fixtures, nil)
	r, err := a.AnalyzeGame(context.Background(), testGame())
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rd := NewRenderer(&out)
	rd.RenderSummary(r)
	if !strings.Contains(out.String(), "UNDER: Both Aces pitching in a pitcher's park") {
		t.Errorf("summary missing recommendation:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "SEA tired relievers (1): Andres Munoz") {
		t.Errorf("summary missing bullpen line:\n%s", out.String())
	}

	md := Markdown(r)
	for _, want := range []string{"# SDP @ SEA", "T-Mobile Park", "aces_pitchers_park_under", "| pitchers_park | ✓ |", "**tired**"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	dir := t.TempDir()
	paths, err := rd.WriteAll(r, dir, true, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "2025-06-14_SDP_at_SEA.json" {
		t.Fatalf("unexpected paths %v", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}
}
