package profile

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/ppiankov/matchup/internal/table"
)

var logDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// TeamOPS averages per-game OPS by team over the days before anchor
// (inclusive of both ends). OPS is OBP+SLG when the log carries those
// columns, otherwise it is derived from H, BB, AB and TB. Rows whose OPS
// cannot be computed are skipped.
func TeamOPS(ctx context.Context, t *table.Table, teamColumns []string, anchor time.Time, days int) (map[string]float64, error) {
	if t == nil {
		return map[string]float64{}, nil
	}
	if len(teamColumns) == 0 {
		teamColumns = table.DefaultTeamColumns
	}
	teamCol, ok := t.FirstColumn(teamColumns...)
	if !ok {
		return nil, fmt.Errorf("team batting log: %w: none of %v", table.ErrMissingColumn, teamColumns)
	}
	if !t.HasColumn(dateColumn) {
		return nil, fmt.Errorf("team batting log: %w: %q", table.ErrMissingColumn, dateColumn)
	}

	var opsOf func(table.Row) (float64, bool)
	switch {
	case t.HasColumn("OBP") && t.HasColumn("SLG"):
		opsOf = opsFromRates
	case t.HasColumn("H") && t.HasColumn("BB") && t.HasColumn("AB") && t.HasColumn("TB"):
		opsOf = opsFromCounts
	default:
		return nil, fmt.Errorf("team batting log: %w: need OBP/SLG or H/BB/AB/TB", table.ErrMissingColumn)
	}

	end := truncateDay(anchor)
	start := end.AddDate(0, 0, -days)

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, row := range t.Rows {
		if i%512 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		raw := logDate.FindString(row.Get(dateColumn))
		if raw == "" {
			continue
		}
		day, err := time.Parse("2006-01-02", raw)
		if err != nil || day.Before(start) || day.After(end) {
			continue
		}
		ops, ok := opsOf(row)
		if !ok {
			continue
		}
		team := row.Get(teamCol)
		sums[team] += ops
		counts[team]++
	}

	out := make(map[string]float64, len(sums))
	for team, sum := range sums {
		out[team] = sum / float64(counts[team])
	}
	return out, nil
}

func opsFromRates(row table.Row) (float64, bool) {
	obp, ok1 := row.Float("OBP")
	slg, ok2 := row.Float("SLG")
	if !ok1 || !ok2 {
		return 0, false
	}
	return obp + slg, true
}

func opsFromCounts(row table.Row) (float64, bool) {
	h, ok1 := row.Float("H")
	bb, ok2 := row.Float("BB")
	ab, ok3 := row.Float("AB")
	tb, ok4 := row.Float("TB")
	if !ok1 || !ok2 || !ok3 || !ok4 || ab <= 0 {
		return 0, false
	}
	obp := (h + bb) / (ab + bb)
	slg := tb / ab
	return obp + slg, true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
