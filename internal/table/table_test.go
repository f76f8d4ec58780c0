package table

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"3.25", 3.25, true},
		{" .812 ", 0.812, true},
		{"24.5%", 24.5, true},
		{"1,234", 1234, true},
		{"+2.0", 2, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"nan", 0, false},
		{"--", 0, false},
		{"abc", 0, false},
		{"Inf", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseFloat(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ParseFloat(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestReadCSV_DuplicateHeadersAndBOM(t *testing.T) {
	data := "\uFEFFPlayer, ERA ,HR,HR\nGerrit Cole,3.41,20,1.1\n"
	tbl, err := ReadCSV("splits", strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	want := []string{"Player", "ERA", "HR", "HR.1"}
	if len(tbl.Columns) != len(want) {
		t.Fatalf("expected columns %v, got %v", want, tbl.Columns)
	}
	for i := range want {
		if tbl.Columns[i] != want[i] {
			t.Errorf("column %d: expected %q, got %q", i, want[i], tbl.Columns[i])
		}
	}
	if got := tbl.Rows[0].Get("HR.1"); got != "1.1" {
		t.Errorf("expected HR.1 = 1.1, got %q", got)
	}
	if !tbl.HasColumn("Player") {
		t.Error("BOM should be stripped from the first header")
	}
}

func TestReadCSV_RaggedRows(t *testing.T) {
	tbl, err := ReadCSV("ragged", strings.NewReader("a,b,c\n1,2\n4,5,6,7\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if tbl.Rows[0].Has("c") {
		t.Error("short row should leave trailing columns blank")
	}
	if tbl.Rows[1].Get("c") != "6" {
		t.Errorf("expected extra cells dropped, got %v", tbl.Rows[1])
	}
}

func TestReadCSV_Empty(t *testing.T) {
	tbl, err := ReadCSV("empty", strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("expected no rows, got %d", tbl.Len())
	}
}

func TestTable_FirstColumn(t *testing.T) {
	tbl := NewTable("t", []string{"Tm", "ERA"}, nil)
	col, ok := tbl.FirstColumn(DefaultTeamColumns...)
	if !ok || col != "Tm" {
		t.Errorf("expected Tm, got %q (%v)", col, ok)
	}

	var nilTable *Table
	if nilTable.HasColumn("x") || nilTable.Len() != 0 {
		t.Error("nil table should be empty")
	}
}

func TestRegistry_Merge(t *testing.T) {
	base := DefaultRegistry()
	merged := base.Merge(Registry{
		PercentileRankings: {NameColumn: "name"},
		"custom":           {File: "custom.csv", NameColumn: "player"},
	})

	if merged[PercentileRankings].NameColumn != "name" {
		t.Errorf("override not applied: %+v", merged[PercentileRankings])
	}
	if merged[PercentileRankings].File != base[PercentileRankings].File {
		t.Error("empty override fields must keep the base value")
	}
	if _, ok := merged["custom"]; !ok {
		t.Error("expected new dataset to be added")
	}
	if base[PercentileRankings].NameColumn != "player_name" {
		t.Error("Merge must not modify the receiver")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	content := "player_name,k_percent\nTarik Skubal,95\n"
	if err := os.WriteFile(filepath.Join(dir, "percentile_rankings.csv"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := Registry{
		PercentileRankings: {File: "percentile_rankings.csv", NameColumn: "player_name"},
		ExpectedStats:      {File: "expected_stats.csv", NameColumn: "last_name, first_name"},
	}

	tables, warnings, err := LoadDir(context.Background(), dir, reg, nil)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if _, ok := tables[PercentileRankings]; !ok {
		t.Error("expected percentile_rankings to load")
	}
	if _, ok := tables[ExpectedStats]; ok {
		t.Error("missing file must be skipped")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], ExpectedStats) {
		t.Errorf("expected one warning naming expected_stats, got %v", warnings)
	}
}

func TestLoadDir_NotADirectory(t *testing.T) {
	if _, _, err := LoadDir(context.Background(), filepath.Join(t.TempDir(), "missing"), DefaultRegistry(), nil); err == nil {
		t.Error("expected error for missing data dir")
	}
}
