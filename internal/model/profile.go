package model

import (
	"encoding/json"
	"strconv"
)

// Metric is an optional numeric value. The zero Metric is unknown.
type Metric struct {
	Value float64
	Known bool
}

// Known wraps a present value.
func Known(v float64) Metric {
	return Metric{Value: v, Known: true}
}

// Or returns the value, or def when unknown.
func (m Metric) Or(def float64) float64 {
	if !m.Known {
		return def
	}
	return m.Value
}

// String renders the value, or "n/a" when unknown.
func (m Metric) String() string {
	if !m.Known {
		return "n/a"
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// MarshalJSON encodes unknown metrics as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Known {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts a number or null.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Known(v)
	return nil
}

// ClassicPitching is the standard pitching line.
type ClassicPitching struct {
	ERA  Metric `json:"era"`
	WHIP Metric `json:"whip"`
	IP   Metric `json:"ip"`
	K9   Metric `json:"k9"`
	BB9  Metric `json:"bb9"`
	HR9  Metric `json:"hr9"`
}

// ExpectedStats are contact-quality based estimates.
type ExpectedStats struct {
	XWOBA Metric `json:"xwoba"`
	XERA  Metric `json:"xera"`
}

// PitcherPercentiles are league-relative ranks (0-100).
type PitcherPercentiles struct {
	K          Metric `json:"k_percent"`
	XWOBA      Metric `json:"xwoba"`
	Barrel     Metric `json:"barrel_percent"`
	FBVelocity Metric `json:"fb_velocity"`
	FBSpin     Metric `json:"fb_spin"`
	HardHit    Metric `json:"hard_hit_percent"`
}

// PitchMovement describes the four-seam fastball.
type PitchMovement struct {
	InducedVertical Metric `json:"ivb"`
	Horizontal      Metric `json:"hb"`
	Usage           Metric `json:"usage_percent"`
	SpinRate        Metric `json:"spin_rate"`
}

// SpinDirection of the four-seam fastball.
type SpinDirection struct {
	Direction Metric `json:"direction"`
	Axis      Metric `json:"axis"`
}

// ArmAngle is release geometry.
type ArmAngle struct {
	BallAngle Metric `json:"ball_angle"`
	ReleaseZ  Metric `json:"release_ball_z"`
	ReleaseX  Metric `json:"release_ball_x"`
	ShoulderZ Metric `json:"shoulder_z"`
	ShoulderX Metric `json:"shoulder_x"`
}

// ActiveSpin is the share of spin contributing to movement, per pitch.
type ActiveSpin struct {
	FourSeam Metric `json:"fourseam"`
	Curve    Metric `json:"curve"`
	Slider   Metric `json:"slider"`
}

// RunningGame is how the pitcher controls base stealers.
type RunningGame struct {
	RunsPrevented  Metric `json:"runs_prevented"`
	StealRateAbove Metric `json:"rate_sbx"`
	StolenBases    Metric `json:"stolen_bases"`
	CaughtStealing Metric `json:"caught_stealing"`
}

// ExitVelocity allowed.
type ExitVelocity struct {
	AvgHitSpeed   Metric `json:"avg_hit_speed"`
	MaxHitSpeed   Metric `json:"max_hit_speed"`
	BarrelPercent Metric `json:"barrel_percent"`
}

// SwingTake are run values by attack zone.
type SwingTake struct {
	RunsAll    Metric `json:"runs_all"`
	RunsHeart  Metric `json:"runs_heart"`
	RunsShadow Metric `json:"runs_shadow"`
	RunsChase  Metric `json:"runs_chase"`
	RunsWaste  Metric `json:"runs_waste"`
}

// HomeRunQuality counts home runs that would have left every park.
type HomeRunQuality struct {
	NoDoubters Metric `json:"no_doubters"`
}

// Velocity compares the season fastball mean against recent outings.
type Velocity struct {
	Season  Metric `json:"season"`
	Recent  Metric `json:"recent"`
	Anomaly bool   `json:"anomaly"`
}

// PlatoonSplit is performance against one batter handedness.
type PlatoonSplit struct {
	ERA  Metric `json:"era"`
	WHIP Metric `json:"whip"`
	OPS  Metric `json:"ops"`
	K9   Metric `json:"k9"`
	HR9  Metric `json:"hr9"`
}

// PitcherProfile is the merged view of one pitcher. It is built once and
// not modified afterwards.
type PitcherProfile struct {
	Name string `json:"name"`
	Team string `json:"team"`

	Classic       ClassicPitching    `json:"classic"`
	Expected      ExpectedStats      `json:"expected"`
	Percentiles   PitcherPercentiles `json:"percentiles"`
	Movement      PitchMovement      `json:"movement"`
	SpinDirection SpinDirection      `json:"spin_direction"`
	ArmAngle      ArmAngle           `json:"arm_angle"`
	ActiveSpin    ActiveSpin         `json:"active_spin"`
	RunningGame   RunningGame        `json:"running_game"`
	ExitVelocity  ExitVelocity       `json:"exit_velocity"`
	SwingTake     SwingTake          `json:"swing_take"`
	HomeRuns      HomeRunQuality     `json:"home_runs"`
	Velocity      Velocity           `json:"velocity"`
	VsLeft        PlatoonSplit       `json:"vs_lhb"`
	VsRight       PlatoonSplit       `json:"vs_rhb"`
}

// ClassicBatting is the standard batting line.
type ClassicBatting struct {
	OPS Metric `json:"ops"`
	HR  Metric `json:"hr"`
	AVG Metric `json:"avg"`
	OBP Metric `json:"obp"`
	SLG Metric `json:"slg"`
}

// HitterPercentiles are league-relative ranks (0-100).
type HitterPercentiles struct {
	XWOBA  Metric `json:"xwoba"`
	Barrel Metric `json:"barrel_percent"`
}

// BatTracking over the recent window.
type BatTracking struct {
	BatSpeed    Metric `json:"bat_speed"`
	SwingLength Metric `json:"swing_length"`
}

// HitterProfile is the merged view of one lineup entry.
type HitterProfile struct {
	Name string `json:"name"`
	Team string `json:"team"`
	Hand string `json:"hand"`

	Classic     ClassicBatting    `json:"classic"`
	Expected    ExpectedStats     `json:"expected"`
	Percentiles HitterPercentiles `json:"percentiles"`
	BatTracking BatTracking       `json:"bat_tracking"`
}
