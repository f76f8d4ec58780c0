package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Report is the complete analysis of one game.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Season      int       `json:"season"`
	Game        Game      `json:"game"`

	Park Park       `json:"park"`
	Home TeamReport `json:"home"`
	Away TeamReport `json:"away"`

	Triggers        TriggerSet       `json:"triggers"`
	Recommendations []Recommendation `json:"recommendations"`

	Warnings []string `json:"warnings,omitempty"`
}

// TeamReport groups one side's starter, lineup and bullpen.
type TeamReport struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Starter PitcherReport   `json:"starter"`
	Hitters []HitterProfile `json:"hitters"`
	Bullpen Bullpen         `json:"bullpen"`

	// RollingOPS is the team OPS over the recent window, when a batting
	// log is available.
	RollingOPS Metric `json:"rolling_ops"`
	// LineupOPS is the mean classic OPS of the lineup (0.700 if unknown).
	LineupOPS float64 `json:"lineup_ops"`
}

// PitcherReport is a starter's profile with its derived values.
type PitcherReport struct {
	Profile        PitcherProfile `json:"profile"`
	Vulnerability  Vulnerability  `json:"vulnerability"`
	Classification Classification `json:"classification"`
	Ace            bool           `json:"ace"`
	// Platoon is evaluated against the opposing lineup.
	Platoon PlatoonResult `json:"platoon"`
}

// Vulnerability is the scored rule breakdown for one pitcher.
type Vulnerability struct {
	Score   float64  `json:"score"`
	Signals []Signal `json:"signals"`
}

// Fired returns the signal types that contributed, in rule order.
func (v Vulnerability) Fired() []SignalType {
	out := make([]SignalType, len(v.Signals))
	for i, s := range v.Signals {
		out[i] = s.Type
	}
	return out
}

// Has reports whether t contributed to the score.
func (v Vulnerability) Has(t SignalType) bool {
	for _, s := range v.Signals {
		if s.Type == t {
			return true
		}
	}
	return false
}

// Classification is derived from a vulnerability score. AutoFade implies
// Vulnerable.
type Classification struct {
	Vulnerable bool `json:"vulnerable"`
	AutoFade   bool `json:"auto_fade"`
	Elite      bool `json:"elite"`
}

// Label is a one-word summary for rendering.
func (c Classification) Label() string {
	switch {
	case c.AutoFade:
		return "AUTO-FADE"
	case c.Vulnerable:
		return "VULNERABLE"
	case c.Elite:
		return "ELITE"
	default:
		return "NEUTRAL"
	}
}

// Signal is one rule contribution to a vulnerability score.
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Delta       float64                `json:"delta"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType names a vulnerability rule.
type SignalType string

const (
	SignalBarrelDanger            SignalType = "barrel_danger"
	SignalBarrelCaution           SignalType = "barrel_caution"
	SignalHardHitDanger           SignalType = "hard_hit_danger"
	SignalHardHitCaution          SignalType = "hard_hit_caution"
	SignalXWOBARedFlag            SignalType = "xwoba_red_flag"
	SignalXWOBACaution            SignalType = "xwoba_caution"
	SignalExitVeloRedFlag         SignalType = "exit_velo_red_flag"
	SignalEliteContactSuppression SignalType = "elite_contact_suppression"
	SignalHRQualityDanger         SignalType = "hr_quality_danger"
	SignalHighXERA                SignalType = "high_xera"
	SignalLowKPercentile          SignalType = "low_k_percentile"
	SignalVeloAnomaly             SignalType = "velo_anomaly_detected"
	SignalEliteStrikeout          SignalType = "elite_strikeout"
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// PlatoonResult is the expected lineup OPS against a pitcher's splits.
type PlatoonResult struct {
	// NoData is set when the lineup carried no L/R hands; the numeric
	// fields are then meaningless.
	NoData bool `json:"no_data"`

	LeftCount   int     `json:"lhb_count"`
	RightCount  int     `json:"rhb_count"`
	LeftOPS     float64 `json:"lhb_ops"`
	RightOPS    float64 `json:"rhb_ops"`
	ExpectedOPS float64 `json:"expected_ops"`

	VulnerableVsLeft  bool `json:"vulnerable_vs_lhb"`
	VulnerableVsRight bool `json:"vulnerable_vs_rhb"`
}

// Vulnerable reports whether either handedness callout fired.
func (p PlatoonResult) Vulnerable() bool {
	return p.VulnerableVsLeft || p.VulnerableVsRight
}

// Summary renders the expectation and callouts as one line.
func (p PlatoonResult) Summary() string {
	if p.NoData {
		return "No handedness data for lineup."
	}
	s := fmt.Sprintf("Expected lineup OPS vs this pitcher: %.3f", p.ExpectedOPS)
	var notes []string
	if p.VulnerableVsLeft {
		notes = append(notes, fmt.Sprintf("VULNERABLE: %d LHB vs pitcher OPS %.3f", p.LeftCount, p.LeftOPS))
	}
	if p.VulnerableVsRight {
		notes = append(notes, fmt.Sprintf("VULNERABLE: %d RHB vs pitcher OPS %.3f", p.RightCount, p.RightOPS))
	}
	if len(notes) > 0 {
		s += " | " + strings.Join(notes, "; ")
	}
	return s
}

// RelieverUsage is one reliever's workload over the appearance window.
type RelieverUsage struct {
	Name        string  `json:"name"`
	Innings     float64 `json:"innings"`
	Appearances int     `json:"appearances"`
	Tired       bool    `json:"tired"`
}

// Bullpen is a team's relief corps assessment.
type Bullpen struct {
	Team      string          `json:"team"`
	Relievers []RelieverUsage `json:"relievers"`
	ERA       Metric          `json:"era"`
	WHIP      Metric          `json:"whip"`
	AtRisk    bool            `json:"at_risk"`
}

// Tired returns the names of tired relievers in reliever order.
func (b Bullpen) Tired() []string {
	var out []string
	for _, r := range b.Relievers {
		if r.Tired {
			out = append(out, r.Name)
		}
	}
	return out
}

// Park is the home venue and its factors.
type Park struct {
	Venue string  `json:"venue"`
	Runs  float64 `json:"runs"`
	HR    float64 `json:"hr"`
	WOBA  float64 `json:"woba"`
}

// TriggerSet maps trigger name to whether it fired.
type TriggerSet map[string]bool

// Keys returns all trigger names, sorted.
func (t TriggerSet) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fired returns the names of triggers that are true, sorted.
func (t TriggerSet) Fired() []string {
	var out []string
	for _, k := range t.Keys() {
		if t[k] {
			out = append(out, k)
		}
	}
	return out
}

// Recommendation is one emitted rule.
type Recommendation struct {
	Rule string `json:"rule"`
	Text string `json:"text"`
}
