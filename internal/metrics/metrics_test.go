package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordLookup(t *testing.T) {
	m := New()

	m.RecordLookup("expected_stats", ResultHit)
	m.RecordLookup("expected_stats", ResultHit)
	m.RecordLookup("expected_stats", ResultMiss)
	m.RecordCacheHit("expected_stats")

	if got := testutil.ToFloat64(m.lookups.WithLabelValues("expected_stats", ResultHit)); got != 2 {
		t.Errorf("expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(m.lookups.WithLabelValues("expected_stats", ResultMiss)); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheHits.WithLabelValues("expected_stats")); got != 1 {
		t.Errorf("expected 1 cache hit, got %v", got)
	}
}

func TestMetrics_RecordTriggers_OnlyFired(t *testing.T) {
	m := New()
	m.RecordTriggers(map[string]bool{"pitchers_park": true, "hitters_park": false})

	if got := testutil.ToFloat64(m.triggersFired.WithLabelValues("pitchers_park")); got != 1 {
		t.Errorf("expected pitchers_park counted once, got %v", got)
	}
	if got := testutil.CollectAndCount(m.triggersFired); got != 1 {
		t.Errorf("expected a single trigger series, got %d", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordLookup("x", ResultHit)
	m.RecordCacheHit("x")
	m.RecordGame("ok", time.Second)
	m.RecordTriggers(map[string]bool{"a": true})
	m.RecordRecommendation("r")
	if err := m.WriteTextfile("ignored.prom"); err != nil {
		t.Errorf("nil metrics should not write: %v", err)
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New(WithNamespace("test"))
	m.RecordGame("ok", 250*time.Millisecond)
	m.RecordRecommendation("both_aces_pitchers_park")

	path := filepath.Join(t.TempDir(), "matchup.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`test_pipeline_games_total{status="ok"} 1`,
		`test_engine_recommendations_total{rule="both_aces_pitchers_park"} 1`,
		"test_pipeline_game_duration_seconds_count 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in textfile output:\n%s", want, out)
		}
	}
}
