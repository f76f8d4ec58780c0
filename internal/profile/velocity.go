package profile

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppiankov/matchup/internal/model"
	"github.com/ppiankov/matchup/internal/names"
	"github.com/ppiankov/matchup/internal/table"
)

// Velocity anomaly parameters.
const (
	recentOutings   = 3
	veloDropTrigger = 1.0
)

const (
	fastballColumn = "FBv"
	dateColumn     = "Date"
)

// Velocity compares the season mean fastball velocity with the mean of the
// most recent outings. The anomaly fires when the season mean exceeds the
// recent mean by more than 1 mph. Either mean may be unknown, in which case
// there is no anomaly.
func (b *Builder) Velocity(ctx context.Context, name string) (model.Velocity, error) {
	t, ok := b.repo.Table(table.PitchingPitches)
	if !ok {
		return model.Velocity{}, nil
	}
	ds, _ := b.repo.Dataset(table.PitchingPitches)
	if !t.HasColumn(ds.NameColumn) {
		return model.Velocity{}, fmt.Errorf("dataset %s: %w: %q", table.PitchingPitches, table.ErrMissingColumn, ds.NameColumn)
	}

	variants := names.Variants(name)
	var rows []table.Row
	for i, row := range t.Rows {
		if i%512 == 0 {
			if err := ctx.Err(); err != nil {
				return model.Velocity{}, err
			}
		}
		if _, ok := variants[names.Normalize(row[ds.NameColumn])]; ok {
			rows = append(rows, row)
		}
	}

	v := model.Velocity{
		Season: seasonMean(rows, ds.YearColumn, b.season),
		Recent: recentMean(rows),
	}
	if v.Season.Known && v.Recent.Known {
		v.Anomaly = v.Season.Value-v.Recent.Value > veloDropTrigger
	}
	return v, nil
}

func seasonMean(rows []table.Row, yearColumn string, season int) model.Metric {
	if yearColumn == "" {
		return model.Metric{}
	}
	var sum float64
	var n int
	for _, row := range rows {
		y, ok := row.Float(yearColumn)
		if !ok || int(y) != season {
			continue
		}
		if fb, ok := row.Float(fastballColumn); ok {
			sum += fb
			n++
		}
	}
	if n == 0 {
		return model.Metric{}
	}
	return model.Known(sum / float64(n))
}

// recentMean averages the known velocities of the latest outings by date.
// Rows without a date sort last.
func recentMean(rows []table.Row) model.Metric {
	dated := make([]table.Row, len(rows))
	copy(dated, rows)
	sort.SliceStable(dated, func(i, j int) bool {
		di, dj := dated[i].Get(dateColumn), dated[j].Get(dateColumn)
		if di == "" || dj == "" {
			return dj == "" && di != ""
		}
		return di > dj
	})
	if len(dated) > recentOutings {
		dated = dated[:recentOutings]
	}

	var sum float64
	var n int
	for _, row := range dated {
		if row.Get(dateColumn) == "" {
			continue
		}
		if fb, ok := row.Float(fastballColumn); ok {
			sum += fb
			n++
		}
	}
	if n == 0 {
		return model.Metric{}
	}
	return model.Known(sum / float64(n))
}
