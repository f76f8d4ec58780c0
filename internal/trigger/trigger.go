// Package trigger turns a scored game into the canonical trigger set and
// the ordered list of recommendations.
package trigger

import (
	"fmt"

	"github.com/ppiankov/matchup/internal/model"
	"github.com/ppiankov/matchup/internal/park"
)

// Team-level thresholds.
const (
	ColdOPS        = 0.700
	FirepowerOPS   = 0.800
	FirepowerCount = 2
	DeadBallOPS    = 0.68
	DeadBallHR     = 1.0
	DefaultTeamOPS = 0.700
)

// Trigger keys.
const (
	HomeAutoFade    = "home_sp_auto_fade"
	AwayAutoFade    = "away_sp_auto_fade"
	HomeVulnerable  = "home_sp_vulnerable"
	AwayVulnerable  = "away_sp_vulnerable"
	HomeElite       = "home_sp_elite"
	AwayElite       = "away_sp_elite"
	HomeAce         = "home_ace"
	AwayAce         = "away_ace"
	HomeVeloAnomaly = "home_sp_velo_anomaly"
	AwayVeloAnomaly = "away_sp_velo_anomaly"
	HomeBullpenRisk = "home_bullpen_risk"
	AwayBullpenRisk = "away_bullpen_risk"
	BullpenRisk     = "bullpen_risk"
	PitchersPark    = "pitchers_park"
	HittersPark     = "hitters_park"
	DeadBallLockout = "dead_ball_lockout"
	HomeFirepower   = "home_firepower"
	AwayFirepower   = "away_firepower"
	HomeCold        = "home_cold"
	AwayCold        = "away_cold"
	HomePlatoon     = "home_sp_platoon_vulnerable"
	AwayPlatoon     = "away_sp_platoon_vulnerable"
)

// GameContext is everything the engine reads. Home.Starter.Platoon is the
// home starter evaluated against the away lineup, and vice versa.
type GameContext struct {
	Home model.TeamReport
	Away model.TeamReport
	Park model.Park
}

// Cold reports a known rolling OPS below ColdOPS.
func Cold(t model.TeamReport) bool {
	return t.RollingOPS.Known && t.RollingOPS.Value < ColdOPS
}

// StrongHitters counts lineup hitters with a known OPS above FirepowerOPS.
func StrongHitters(t model.TeamReport) int {
	n := 0
	for _, h := range t.Hitters {
		if h.Classic.OPS.Known && h.Classic.OPS.Value > FirepowerOPS {
			n++
		}
	}
	return n
}

// Firepower requires FirepowerCount strong hitters on a team that is not
// cold.
func Firepower(t model.TeamReport) bool {
	return !Cold(t) && StrongHitters(t) >= FirepowerCount
}

// LineupOPS averages the known classic OPS of the lineup, or returns
// DefaultTeamOPS when none is known.
func LineupOPS(hitters []model.HitterProfile) float64 {
	var sum float64
	var n int
	for _, h := range hitters {
		if h.Classic.OPS.Known {
			sum += h.Classic.OPS.Value
			n++
		}
	}
	if n == 0 {
		return DefaultTeamOPS
	}
	return sum / float64(n)
}

// offense is the rolling OPS when known, else the lineup average.
func offense(t model.TeamReport) float64 {
	if t.RollingOPS.Known {
		return t.RollingOPS.Value
	}
	return LineupOPS(t.Hitters)
}

// Evaluate computes every trigger. All keys are always present.
func Evaluate(g GameContext) model.TriggerSet {
	hs, as := g.Home.Starter, g.Away.Starter
	ts := model.TriggerSet{
		HomeAutoFade:    hs.Classification.AutoFade,
		AwayAutoFade:    as.Classification.AutoFade,
		HomeVulnerable:  hs.Classification.Vulnerable,
		AwayVulnerable:  as.Classification.Vulnerable,
		HomeElite:       hs.Classification.Elite,
		AwayElite:       as.Classification.Elite,
		HomeAce:         hs.Ace,
		AwayAce:         as.Ace,
		HomeVeloAnomaly: hs.Profile.Velocity.Anomaly,
		AwayVeloAnomaly: as.Profile.Velocity.Anomaly,
		HomeBullpenRisk: g.Home.Bullpen.AtRisk,
		AwayBullpenRisk: g.Away.Bullpen.AtRisk,
		PitchersPark:    park.IsPitchersPark(g.Park),
		HittersPark:     park.IsHittersPark(g.Park),
		HomeFirepower:   Firepower(g.Home),
		AwayFirepower:   Firepower(g.Away),
		HomeCold:        Cold(g.Home),
		AwayCold:        Cold(g.Away),
		HomePlatoon:     hs.Platoon.Vulnerable(),
		AwayPlatoon:     as.Platoon.Vulnerable(),
	}
	ts[BullpenRisk] = ts[HomeBullpenRisk] || ts[AwayBullpenRisk]
	ts[DeadBallLockout] = offense(g.Home) < DeadBallOPS && offense(g.Away) < DeadBallOPS && g.Park.HR < DeadBallHR
	return ts
}

// rule is one recommendation; rules are checked in slice order.
type rule struct {
	name string
	when func(t model.TriggerSet) bool
	text func(g GameContext) string
}

func all(keys ...string) func(model.TriggerSet) bool {
	return func(t model.TriggerSet) bool {
		for _, k := range keys {
			if !t[k] {
				return false
			}
		}
		return true
	}
}

func fixed(s string) func(GameContext) string {
	return func(GameContext) string { return s }
}

var rules = []rule{
	{
		name: "home_velo_bullpen_over",
		when: all(HomeVeloAnomaly, HomeBullpenRisk, HomeFirepower, AwayFirepower),
		text: fixed("OVER: Home SP Velo Anomaly + Home Bullpen Tired + Both Teams Hot"),
	},
	{
		name: "away_velo_bullpen_over",
		when: all(AwayVeloAnomaly, AwayBullpenRisk, HomeFirepower, AwayFirepower),
		text: fixed("OVER: Away SP Velo Anomaly + Away Bullpen Tired + Both Teams Hot"),
	},
	{
		name: "home_auto_fade_over",
		when: all(HomeAutoFade, AwayFirepower),
		text: func(g GameContext) string {
			return fmt.Sprintf("OVER: Auto-fade Home SP %s vs. strong Away lineup", g.Home.Starter.Profile.Name)
		},
	},
	{
		name: "away_auto_fade_over",
		when: all(AwayAutoFade, HomeFirepower),
		text: func(g GameContext) string {
			return fmt.Sprintf("OVER: Auto-fade Away SP %s vs. strong Home lineup", g.Away.Starter.Profile.Name)
		},
	},
	{
		name: "away_team_total_moneyline",
		when: all(HomeAutoFade, HomeBullpenRisk),
		text: func(g GameContext) string {
			return fmt.Sprintf("AWAY TEAM TOTAL OVER & AWAY MONEYLINE: Fade Home SP %s + Tired Home Bullpen", g.Home.Starter.Profile.Name)
		},
	},
	{
		name: "home_team_total_moneyline",
		when: all(AwayAutoFade, AwayBullpenRisk),
		text: func(g GameContext) string {
			return fmt.Sprintf("HOME TEAM TOTAL OVER & HOME MONEYLINE: Fade Away SP %s + Tired Away Bullpen", g.Away.Starter.Profile.Name)
		},
	},
	{
		name: "aces_pitchers_park_under",
		when: all(HomeAce, AwayAce, PitchersPark),
		text: fixed("UNDER: Both Aces pitching in a pitcher's park"),
	},
	{
		name: "dead_ball_under",
		when: func(t model.TriggerSet) bool {
			return t[DeadBallLockout] && !t[HomeFirepower] && !t[AwayFirepower]
		},
		text: fixed("UNDER: Dead Ball Lockout conditions and cold offenses"),
	},
	{
		name: "away_team_stack",
		when: all(HomePlatoon),
		text: func(g GameContext) string {
			sp := g.Home.Starter
			return fmt.Sprintf("AWAY TEAM TOTAL OVER / AWAY TEAM STACK: Home SP %s is %s", sp.Profile.Name, sp.Platoon.Summary())
		},
	},
	{
		name: "home_team_stack",
		when: all(AwayPlatoon),
		text: func(g GameContext) string {
			sp := g.Away.Starter
			return fmt.Sprintf("HOME TEAM TOTAL OVER / HOME TEAM STACK: Away SP %s is %s", sp.Profile.Name, sp.Platoon.Summary())
		},
	},
}

// Rules returns the recommendation rule names in evaluation order.
func Rules() []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.name
	}
	return out
}

// Recommend emits the recommendations whose conditions hold, in rule
// order. An empty result means no strong triggers were identified.
func Recommend(g GameContext, triggers model.TriggerSet) []model.Recommendation {
	var out []model.Recommendation
	for _, r := range rules {
		if r.when(triggers) {
			out = append(out, model.Recommendation{Rule: r.name, Text: r.text(g)})
		}
	}
	return out
}
