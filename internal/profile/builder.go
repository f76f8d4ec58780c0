// Package profile merges rows from every loaded dataset into typed pitcher
// and hitter profiles.
package profile

import (
	"context"

	"github.com/ppiankov/matchup/internal/fatigue"
	"github.com/ppiankov/matchup/internal/logging"
	"github.com/ppiankov/matchup/internal/model"
	"github.com/ppiankov/matchup/internal/park"
	"github.com/ppiankov/matchup/internal/table"
)

// FourSeam is the pitch type used for movement and spin direction rows.
const FourSeam = "FF"

// Builder resolves players against a repository. It holds no mutable state
// and is safe for concurrent use.
type Builder struct {
	repo   *table.Repository
	season int
	log    logging.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder's logger.
func WithLogger(l logging.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBuilder creates a builder for the given season.
func NewBuilder(repo *table.Repository, season int, opts ...Option) *Builder {
	b := &Builder{
		repo:   repo,
		season: season,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Season returns the season used for year-filtered lookups.
func (b *Builder) Season() int {
	return b.season
}

// resolver performs the lookups for one player and keeps the first error.
// Absent datasets and unmatched names yield nil rows.
type resolver struct {
	ctx  context.Context
	repo *table.Repository
	name string
	err  error
}

func (r *resolver) row(dataset string, opts ...table.LookupOption) table.Row {
	if r.err != nil {
		return nil
	}
	row, ok, err := r.repo.Lookup(r.ctx, dataset, r.name, opts...)
	if err != nil {
		r.err = err
		return nil
	}
	if !ok {
		return nil
	}
	return row
}

// metric reads the first parseable column of row.
func metric(row table.Row, columns ...string) model.Metric {
	if row == nil {
		return model.Metric{}
	}
	for _, c := range columns {
		if v, ok := row.Float(c); ok {
			return model.Known(v)
		}
	}
	return model.Metric{}
}

// pitchType matches rows of the given pitch type. Rows from tables without
// a pitch type column pass.
func pitchType(pt string) table.LookupOption {
	return table.Where(func(r table.Row) bool {
		v := r.Get("pitch_type")
		return v == "" || v == pt
	})
}

// Pitcher builds the full profile of a starting pitcher. Missing datasets
// leave their category unknown; a schema mismatch is returned as an error.
func (b *Builder) Pitcher(ctx context.Context, name, team string) (model.PitcherProfile, error) {
	r := &resolver{ctx: ctx, repo: b.repo, name: name}
	p := model.PitcherProfile{Name: name, Team: team}

	if row := r.row(table.StdPitching); row != nil {
		p.Classic = model.ClassicPitching{
			ERA:  metric(row, "ERA"),
			WHIP: metric(row, "WHIP"),
			K9:   metric(row, "SO9", "SO/9"),
			BB9:  metric(row, "BB9", "BB/9"),
			HR9:  metric(row, "HR9", "HR/9"),
		}
		if row.Has("IP") {
			p.Classic.IP = model.Known(fatigue.InningsToFloat(row.Get("IP")))
		}
	}

	p.Expected = expected(r.row(table.ExpectedStats, table.WithYear(b.season)))

	if row := r.row(table.PercentileRankings); row != nil {
		p.Percentiles = model.PitcherPercentiles{
			K:          metric(row, "k_percent"),
			XWOBA:      metric(row, "xwoba"),
			Barrel:     metric(row, "brl_percent"),
			FBVelocity: metric(row, "fb_velocity"),
			FBSpin:     metric(row, "fb_spin"),
			HardHit:    metric(row, "hard_hit_percent"),
		}
	}

	if row := r.row(table.PitchMovement, pitchType(FourSeam)); row != nil {
		p.Movement = model.PitchMovement{
			InducedVertical: metric(row, "pitcher_break_z_induced"),
			Horizontal:      metric(row, "pitcher_break_x"),
			Usage:           metric(row, "pitch_per"),
			SpinRate:        metric(row, "spin_rate", "avg_spin"),
		}
	}

	if row := r.row(table.SpinDirectionPitches, pitchType(FourSeam)); row != nil {
		p.SpinDirection = model.SpinDirection{
			Direction: metric(row, "spin_direction"),
			Axis:      metric(row, "spin_axis"),
		}
	}

	if row := r.row(table.PitcherArmAngles); row != nil {
		p.ArmAngle = model.ArmAngle{
			BallAngle: metric(row, "ball_angle"),
			ReleaseZ:  metric(row, "release_ball_z"),
			ReleaseX:  metric(row, "relative_release_ball_x"),
			ShoulderZ: metric(row, "shoulder_z"),
			ShoulderX: metric(row, "relative_shoulder_x"),
		}
	}

	if row := r.row(table.ActiveSpin); row != nil {
		p.ActiveSpin = model.ActiveSpin{
			FourSeam: metric(row, "active_spin_fourseam"),
			Curve:    metric(row, "active_spin_curve"),
			Slider:   metric(row, "active_spin_slider"),
		}
	}

	if row := r.row(table.PitcherRunningGame); row != nil {
		p.RunningGame = model.RunningGame{
			RunsPrevented:  metric(row, "runs_prevented_on_running_attr"),
			StealRateAbove: metric(row, "rate_sbx"),
			StolenBases:    metric(row, "n_sb"),
			CaughtStealing: metric(row, "n_cs"),
		}
	}

	if row := r.row(table.ExitVelocity); row != nil {
		p.ExitVelocity = model.ExitVelocity{
			AvgHitSpeed:   metric(row, "avg_hit_speed"),
			MaxHitSpeed:   metric(row, "max_hit_speed"),
			BarrelPercent: metric(row, "brl_percent"),
		}
	}

	if row := r.row(table.SwingTake); row != nil {
		p.SwingTake = model.SwingTake{
			RunsAll:    metric(row, "runs_all"),
			RunsHeart:  metric(row, "runs_heart"),
			RunsShadow: metric(row, "runs_shadow"),
			RunsChase:  metric(row, "runs_chase"),
			RunsWaste:  metric(row, "runs_waste"),
		}
	}

	if row := r.row(table.HomeRuns); row != nil {
		p.HomeRuns.NoDoubters = metric(row, "no_doubter", "no_doubters")
	}

	p.VsLeft = split(r.row(table.PitcherSplitsLHB))
	p.VsRight = split(r.row(table.PitcherSplitsRHB))

	if r.err != nil {
		return model.PitcherProfile{}, r.err
	}

	v, err := b.Velocity(ctx, name)
	if err != nil {
		return model.PitcherProfile{}, err
	}
	p.Velocity = v

	b.log.Debug(ctx, "pitcher profile built",
		logging.String("player", name),
		logging.String("team", team),
		logging.Bool("velo_anomaly", v.Anomaly),
	)
	return p, nil
}

// Hitter builds the profile of one lineup entry.
func (b *Builder) Hitter(ctx context.Context, entry model.LineupEntry, team string) (model.HitterProfile, error) {
	r := &resolver{ctx: ctx, repo: b.repo, name: entry.Name}
	h := model.HitterProfile{Name: entry.Name, Team: team, Hand: entry.Hand}

	if row := r.row(table.HitterStats); row != nil {
		h.Classic = model.ClassicBatting{
			OPS: metric(row, "OPS"),
			HR:  metric(row, "HR"),
			AVG: metric(row, "AVG", "BA"),
			OBP: metric(row, "OBP"),
			SLG: metric(row, "SLG"),
		}
	}

	h.Expected = expected(r.row(table.ExpectedStats, table.WithYear(b.season)))

	if row := r.row(table.PercentileRankings); row != nil {
		h.Percentiles = model.HitterPercentiles{
			XWOBA:  metric(row, "xwoba"),
			Barrel: metric(row, "brl_percent"),
		}
	}

	if row := r.row(table.BatTrackingLast30); row != nil {
		h.BatTracking = model.BatTracking{
			BatSpeed:    metric(row, "avg_bat_speed"),
			SwingLength: metric(row, "swing_length"),
		}
	}

	if r.err != nil {
		return model.HitterProfile{}, r.err
	}
	return h, nil
}

// BullpenStats returns the aggregate relief ERA and WHIP of a team, matched
// by code or display name.
func (b *Builder) BullpenStats(ctx context.Context, team string) (fatigue.TeamStats, error) {
	row, ok, err := b.repo.LookupTeam(ctx, table.TeamRelievers, team, park.TeamName(team))
	if err != nil || !ok {
		return fatigue.TeamStats{}, err
	}
	return fatigue.TeamStatsFromRow(row), nil
}

func expected(row table.Row) model.ExpectedStats {
	return model.ExpectedStats{
		XWOBA: metric(row, "est_woba", "xwoba"),
		XERA:  metric(row, "xera"),
	}
}

func split(row table.Row) model.PlatoonSplit {
	return model.PlatoonSplit{
		ERA:  metric(row, "ERA"),
		WHIP: metric(row, "WHIP"),
		OPS:  metric(row, "OPS"),
		K9:   metric(row, "SO/9", "SO9"),
		HR9:  metric(row, "HR.1", "HR/9"),
	}
}
