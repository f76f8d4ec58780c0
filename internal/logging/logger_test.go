package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSetLevelString(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "warning", "error", ""} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q) unexpected error: %v", level, err)
		}
	}

	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	_ = SetLevelString("info")
}

func TestLogger_WritesFields(t *testing.T) {
	_ = SetLevelString("info")
	var buf bytes.Buffer
	log := New(&buf).Named("table")

	log.Info(context.Background(), "no matching row",
		String("dataset", "expected_stats"),
		Int("year", 2025),
		Error(errors.New("boom")),
	)

	out := buf.String()
	for _, want := range []string{"no matching row", "table.dataset=expected_stats", "table.year=2025", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output, got %q", want, out)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	_ = SetLevelString("warn")
	defer func() { _ = SetLevelString("info") }()

	var buf bytes.Buffer
	log := New(&buf)
	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestGet_BeforeInit(t *testing.T) {
	if Get() == nil {
		t.Fatal("Get must never return nil")
	}
	Named("pipeline").Info(context.Background(), "safe before init")
}
