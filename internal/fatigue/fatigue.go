// Package fatigue turns a recent appearance log into reliever workloads
// and a team bullpen risk flag.
package fatigue

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/matchup/internal/model"
	"github.com/ppiankov/matchup/internal/names"
	"github.com/ppiankov/matchup/internal/table"
)

// Workload thresholds. A reliever over either limit is tired.
const (
	TiredInnings     = 2.0
	TiredAppearances = 2

	// RelieverMaxOuting is the longest single outing a pitcher may have in
	// the window and still count as a reliever.
	RelieverMaxOuting = 2.0

	// Bullpen aggregate limits.
	RiskERA        = 4.50
	RiskWHIP       = 1.40
	RiskTiredCount = 2
)

// PlayerColumns are tried in order to find the pitcher name in a log.
var PlayerColumns = []string{"Player", "Name", "player_name", "Pitcher", "pitcher_name"}

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// InningsToFloat converts innings-pitched notation to a real number of
// innings. The fraction encodes outs: ".1" is one third, ".2" two thirds.
// Any other fraction counts as zero; blank or non-numeric input is 0.
func InningsToFloat(ip string) float64 {
	s := strings.TrimSpace(ip)
	if s == "" {
		return 0
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	w, err := strconv.ParseFloat(whole, 64)
	if whole == "" {
		w, err = 0, nil
	}
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	if !hasFrac {
		return w
	}
	switch frac {
	case "1":
		return w + 1.0/3.0
	case "2":
		return w + 2.0/3.0
	default:
		if _, err := strconv.Atoi(frac); err != nil {
			return 0
		}
		return w
	}
}

// Appearance is one pitching outing.
type Appearance struct {
	Team    string
	Player  string
	Date    time.Time
	Innings float64
}

// Log is a set of recent appearances.
type Log []Appearance

// LogFromTable reads Team, player, Date and IP columns. Rows whose date
// does not start with YYYY-MM-DD are dropped.
func LogFromTable(ctx context.Context, t *table.Table) (Log, error) {
	if t == nil {
		return nil, nil
	}
	playerCol, ok := t.FirstColumn(PlayerColumns...)
	if !ok {
		return nil, fmt.Errorf("appearance log: %w: none of %v", table.ErrMissingColumn, PlayerColumns)
	}
	for _, col := range []string{"Team", "Date", "IP"} {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("appearance log: %w: %q", table.ErrMissingColumn, col)
		}
	}

	log := make(Log, 0, t.Len())
	for i, row := range t.Rows {
		if i%512 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		raw := datePrefix.FindString(row.Get("Date"))
		if raw == "" {
			continue
		}
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			continue
		}
		log = append(log, Appearance{
			Team:    row.Get("Team"),
			Player:  row.Get(playerCol),
			Date:    day,
			Innings: InningsToFloat(row.Get("IP")),
		})
	}
	return log, nil
}

// Usage is a pitcher's workload over the log window.
type Usage struct {
	Innings     float64
	Appearances int
}

// SummarizeUsage totals the outings whose normalized name equals the
// pitcher's.
func SummarizeUsage(pitcher string, log Log) Usage {
	key := names.Normalize(pitcher)
	var u Usage
	if key == "" {
		return u
	}
	for _, a := range log {
		if names.Normalize(a.Player) == key {
			u.Innings += a.Innings
			u.Appearances++
		}
	}
	return u
}

// IsTired reports innings over 2.0 or more than 2 appearances.
func IsTired(u Usage) bool {
	return u.Innings > TiredInnings || u.Appearances > TiredAppearances
}

// ClassifyTeamRelievers infers the team's relievers: every pitcher whose
// longest outing in the window is at most 2.0 innings. Starters who also
// appear in the window are excluded by their long outing.
func ClassifyTeamRelievers(team string, log Log) []string {
	type entry struct {
		name string
		max  float64
	}
	byKey := make(map[string]*entry)
	var order []string

	for _, a := range log {
		if a.Team != team {
			continue
		}
		key := names.Normalize(a.Player)
		if key == "" {
			continue
		}
		e, ok := byKey[key]
		if !ok {
			e = &entry{name: a.Player, max: a.Innings}
			byKey[key] = e
			order = append(order, key)
			continue
		}
		if a.Innings > e.max {
			e.max = a.Innings
		}
	}

	var relievers []string
	for _, key := range order {
		if e := byKey[key]; e.max <= RelieverMaxOuting {
			relievers = append(relievers, e.name)
		}
	}
	sort.Strings(relievers)
	return relievers
}

// TeamStats are a bullpen's aggregate rate stats, sourced externally.
type TeamStats struct {
	ERA  model.Metric
	WHIP model.Metric
}

// TeamStatsFromRow reads ERA and WHIP from a team relief row.
func TeamStatsFromRow(row table.Row) TeamStats {
	var s TeamStats
	if v, ok := row.Float("ERA"); ok {
		s.ERA = model.Known(v)
	}
	if v, ok := row.Float("WHIP"); ok {
		s.WHIP = model.Known(v)
	}
	return s
}

// AtRisk reports at least two tired relievers, or an aggregate ERA above
// 4.50, or WHIP above 1.40.
func AtRisk(relievers []model.RelieverUsage, agg TeamStats) bool {
	tired := 0
	for _, r := range relievers {
		if r.Tired {
			tired++
		}
	}
	if tired >= RiskTiredCount {
		return true
	}
	if agg.ERA.Known && agg.ERA.Value > RiskERA {
		return true
	}
	return agg.WHIP.Known && agg.WHIP.Value > RiskWHIP
}

// AnalyzeBullpen builds the team's bullpen assessment from the log and the
// aggregate stats.
func AnalyzeBullpen(team string, log Log, agg TeamStats) model.Bullpen {
	pen := ClassifyTeamRelievers(team, log)
	relievers := make([]model.RelieverUsage, 0, len(pen))
	for _, n := range pen {
		u := SummarizeUsage(n, log)
		relievers = append(relievers, model.RelieverUsage{
			Name:        n,
			Innings:     u.Innings,
			Appearances: u.Appearances,
			Tired:       IsTired(u),
		})
	}
	return model.Bullpen{
		Team:      team,
		Relievers: relievers,
		ERA:       agg.ERA,
		WHIP:      agg.WHIP,
		AtRisk:    AtRisk(relievers, agg),
	}
}
