package score

import (
	"fmt"

	"github.com/ppiankov/matchup/internal/model"
)

// Classification thresholds on the vulnerability score.
const (
	AutoFadeThreshold   = 7.0
	VulnerableThreshold = 4.0
	EliteThreshold      = -1.0
)

// Ace thresholds.
const (
	aceMaxXERA = 2.75
	aceMaxWHIP = 1.05
	aceMinK9   = 10.0
)

// Platoon callout thresholds.
const (
	platoonMinBatters = 5
	platoonOPSLimit   = 0.800
)

// rule is one row of the vulnerability table. Tiered rules list the danger
// tier first; its caution tier is only checked when the danger tier misses.
type rule struct {
	signal   model.SignalType
	severity model.SignalSeverity
	delta    float64
	formula  string
	check    func(p model.PitcherProfile) (bool, map[string]interface{})
}

// percentile reads a percentile, defaulting to 0 when unknown.
func percentile(m model.Metric) float64 {
	return m.Or(0)
}

func atLeast(name string, get func(model.PitcherProfile) model.Metric, min float64) func(model.PitcherProfile) (bool, map[string]interface{}) {
	return func(p model.PitcherProfile) (bool, map[string]interface{}) {
		v := percentile(get(p))
		return v >= min, map[string]interface{}{name: v, "threshold": min}
	}
}

func barrel(p model.PitcherProfile) model.Metric  { return p.Percentiles.Barrel }
func hardHit(p model.PitcherProfile) model.Metric { return p.Percentiles.HardHit }
func xwoba(p model.PitcherProfile) model.Metric   { return p.Percentiles.XWOBA }
func kRate(p model.PitcherProfile) model.Metric   { return p.Percentiles.K }

// tiers are the banded percentile rules: danger, else caution.
var tiers = [][2]rule{
	{
		{model.SignalBarrelDanger, model.SeverityCritical, 3.0, "barrel_pct >= 80", atLeast("barrel_pct", barrel, 80)},
		{model.SignalBarrelCaution, model.SeverityWarning, 1.0, "barrel_pct >= 60", atLeast("barrel_pct", barrel, 60)},
	},
	{
		{model.SignalHardHitDanger, model.SeverityCritical, 2.0, "hard_hit_pct >= 80", atLeast("hard_hit_pct", hardHit, 80)},
		{model.SignalHardHitCaution, model.SeverityWarning, 0.5, "hard_hit_pct >= 60", atLeast("hard_hit_pct", hardHit, 60)},
	},
	{
		{model.SignalXWOBARedFlag, model.SeverityCritical, 2.5, "xwoba_pct >= 75", atLeast("xwoba_pct", xwoba, 75)},
		{model.SignalXWOBACaution, model.SeverityWarning, 1.0, "xwoba_pct >= 65", atLeast("xwoba_pct", xwoba, 65)},
	},
}

// flat are the independent rules evaluated after the tiers, in order.
var flat = []rule{
	{model.SignalExitVeloRedFlag, model.SeverityCritical, 1.5, "avg_hit_speed >= 90", func(p model.PitcherProfile) (bool, map[string]interface{}) {
		ev := p.ExitVelocity.AvgHitSpeed
		return ev.Known && ev.Value >= 90, map[string]interface{}{"avg_hit_speed": ev.Value}
	}},
	// Both percentiles must be known; an empty source is not elite.
	{model.SignalEliteContactSuppression, model.SeverityInfo, -2.0, "barrel_pct <= 20 && hard_hit_pct <= 20", func(p model.PitcherProfile) (bool, map[string]interface{}) {
		b, h := p.Percentiles.Barrel, p.Percentiles.HardHit
		return b.Known && h.Known && b.Value <= 20 && h.Value <= 20,
			map[string]interface{}{"barrel_pct": b.Value, "hard_hit_pct": h.Value}
	}},
	{model.SignalHRQualityDanger, model.SeverityWarning, 1.5, "no_doubters > 5", func(p model.PitcherProfile) (bool, map[string]interface{}) {
		nd := p.HomeRuns.NoDoubters
		return nd.Known && nd.Value > 5, map[string]interface{}{"no_doubters": nd.Value}
	}},
	{model.SignalHighXERA, model.SeverityWarning, 1.5, "xera > 4.5", func(p model.PitcherProfile) (bool, map[string]interface{}) {
		x := p.Expected.XERA
		return x.Known && x.Value > 4.5, map[string]interface{}{"xera": x.Value}
	}},
	{model.SignalLowKPercentile, model.SeverityWarning, 1.0, "k_pct < 30", func(p model.PitcherProfile) (bool, map[string]interface{}) {
		k := p.Percentiles.K
		return k.Known && k.Value < 30, map[string]interface{}{"k_pct": k.Value}
	}},
	{model.SignalVeloAnomaly, model.SeverityCritical, 1.5, "season_fbv - recent_fbv > 1.0", func(p model.PitcherProfile) (bool, map[string]interface{}) {
		v := p.Velocity
		return v.Anomaly, map[string]interface{}{"season": v.Season.Value, "recent": v.Recent.Value}
	}},
	{model.SignalEliteStrikeout, model.SeverityInfo, -1.0, "k_pct >= 80", atLeast("k_pct", kRate, 80)},
}

// Vulnerability applies the rule table to a pitcher profile. Unknown
// percentiles count as 0 and only ever lower the score.
func Vulnerability(p model.PitcherProfile) model.Vulnerability {
	var v model.Vulnerability

	apply := func(r rule) bool {
		ok, data := r.check(p)
		if !ok {
			return false
		}
		data["formula"] = r.formula
		data["delta"] = r.delta
		v.Score += r.delta
		v.Signals = append(v.Signals, model.Signal{
			Type:        r.signal,
			Severity:    r.severity,
			Description: describe(r),
			Delta:       r.delta,
			Data:        data,
		})
		return true
	}

	for _, tier := range tiers {
		if !apply(tier[0]) {
			apply(tier[1])
		}
	}
	for _, r := range flat {
		apply(r)
	}
	return v
}

func describe(r rule) string {
	return fmt.Sprintf("%s (%s): %+.1f", r.signal, r.formula, r.delta)
}

// Classify derives the flags from a score. It depends on nothing but the
// score, so repeated calls always agree.
func Classify(score float64) model.Classification {
	c := model.Classification{Elite: score <= EliteThreshold}
	switch {
	case score >= AutoFadeThreshold:
		c.AutoFade = true
		c.Vulnerable = true
	case score >= VulnerableThreshold:
		c.Vulnerable = true
	}
	return c
}

// IsAce reports xERA below 2.75, WHIP below 1.05 and K/9 above 10. Unknown
// values fail their check.
func IsAce(p model.PitcherProfile) bool {
	return p.Expected.XERA.Or(99) < aceMaxXERA &&
		p.Classic.WHIP.Or(99) < aceMaxWHIP &&
		p.Classic.K9.Or(0) > aceMinK9
}

// Platoon weighs the pitcher's OPS against each batting hand by the
// opposing lineup's handedness. Hands other than L and R are ignored;
// a lineup with neither yields a NoData result.
func Platoon(p model.PitcherProfile, hands []string) model.PlatoonResult {
	var res model.PlatoonResult
	for _, h := range hands {
		switch h {
		case model.HandLeft:
			res.LeftCount++
		case model.HandRight:
			res.RightCount++
		}
	}
	total := res.LeftCount + res.RightCount
	if total == 0 {
		return model.PlatoonResult{NoData: true}
	}

	res.LeftOPS = p.VsLeft.OPS.Or(0)
	res.RightOPS = p.VsRight.OPS.Or(0)
	res.ExpectedOPS = (float64(res.LeftCount)*res.LeftOPS + float64(res.RightCount)*res.RightOPS) / float64(total)
	res.VulnerableVsLeft = res.LeftCount >= platoonMinBatters && res.LeftOPS > platoonOPSLimit
	res.VulnerableVsRight = res.RightCount >= platoonMinBatters && res.RightOPS > platoonOPSLimit
	return res
}
