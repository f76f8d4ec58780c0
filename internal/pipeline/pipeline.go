// Package pipeline orchestrates one game analysis: profile population,
// bullpen fatigue, team form, scoring and trigger evaluation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/matchup/internal/fatigue"
	"github.com/ppiankov/matchup/internal/logging"
	"github.com/ppiankov/matchup/internal/metrics"
	"github.com/ppiankov/matchup/internal/model"
	"github.com/ppiankov/matchup/internal/park"
	"github.com/ppiankov/matchup/internal/profile"
	"github.com/ppiankov/matchup/internal/score"
	"github.com/ppiankov/matchup/internal/table"
	"github.com/ppiankov/matchup/internal/trigger"
	"github.com/ppiankov/matchup/internal/worker"
)

// Game outcomes recorded in metrics.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusFailed  = "failed"
)

// Analyzer runs game analyses against one repository. It is safe for
// concurrent use by several games.
type Analyzer struct {
	repo    *table.Repository
	builder *profile.Builder
	cfg     *model.Config
	metrics *metrics.Metrics
	log     logging.Logger
	now     func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMetrics records analysis metrics to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithLogger sets the analyzer's logger.
func WithLogger(l logging.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// WithClock overrides the clock used for report timestamps and the
// team form window of undated games.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an analyzer. A nil cfg uses the defaults.
func New(repo *table.Repository, cfg *model.Config, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	a := &Analyzer{
		repo: repo,
		cfg:  cfg,
		log:  logging.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.builder = profile.NewBuilder(repo, cfg.Season, profile.WithLogger(a.log.Named("profile")))
	return a
}

// built is the outcome of one profile job. apply runs after the join, so
// it may write the report without locking.
type built struct {
	err   error
	apply func(r *model.Report)
}

func (b *built) GetError() error { return b.err }

// AnalyzeGame validates the game, builds every profile and evaluates the
// triggers. A schema mismatch in any dataset aborts the game.
func (a *Analyzer) AnalyzeGame(ctx context.Context, game model.Game) (*model.Report, error) {
	start := time.Now()

	if err := game.Validate(); err != nil {
		a.metrics.RecordGame(StatusInvalid, time.Since(start))
		return nil, err
	}

	report, err := a.analyze(ctx, game)
	if err != nil {
		a.metrics.RecordGame(StatusFailed, time.Since(start))
		a.log.Error(ctx, "game analysis failed",
			logging.String("game", game.Title()),
			logging.Error(err),
		)
		return nil, fmt.Errorf("analyze %s: %w", game.Title(), err)
	}

	a.metrics.RecordGame(StatusOK, time.Since(start))
	a.metrics.RecordTriggers(report.Triggers)
	for _, rec := range report.Recommendations {
		a.metrics.RecordRecommendation(rec.Rule)
	}
	a.log.Info(ctx, "game analyzed",
		logging.String("game", game.Title()),
		logging.String("run_id", report.RunID),
		logging.Int("recommendations", len(report.Recommendations)),
		logging.Any("elapsed", time.Since(start)),
	)
	return report, nil
}

func (a *Analyzer) analyze(ctx context.Context, game model.Game) (*model.Report, error) {
	r := &model.Report{
		RunID:       uuid.New().String(),
		GeneratedAt: a.now().UTC(),
		Season:      a.cfg.Season,
		Game:        game,
		Park:        park.ForTeam(game.HomeTeam),
		Home: model.TeamReport{
			Code:    game.HomeTeam,
			Name:    park.TeamName(game.HomeTeam),
			Hitters: make([]model.HitterProfile, len(game.HomeLineup)),
		},
		Away: model.TeamReport{
			Code:    game.AwayTeam,
			Name:    park.TeamName(game.AwayTeam),
			Hitters: make([]model.HitterProfile, len(game.AwayLineup)),
		},
	}
	if r.Park.Venue == "" {
		r.Warnings = append(r.Warnings, fmt.Sprintf("no park factors for %s; using neutral", game.HomeTeam))
	}

	var homeAgg, awayAgg fatigue.TeamStats
	jobs := a.profileJobs(game, &homeAgg, &awayAgg)
	for _, res := range worker.Run(ctx, a.cfg.Concurrency.Workers, jobs) {
		if err := res.GetError(); err != nil {
			return nil, err
		}
		if b, ok := res.(*built); ok && b.apply != nil {
			b.apply(r)
		}
	}

	if err := a.bullpens(ctx, r, homeAgg, awayAgg); err != nil {
		return nil, err
	}
	a.teamForm(ctx, r, game)

	for _, side := range []struct {
		team     *model.TeamReport
		starter  string
		opposing []model.LineupEntry
	}{
		{&r.Home, game.HomeStarter, game.AwayLineup},
		{&r.Away, game.AwayStarter, game.HomeLineup},
	} {
		sp := &side.team.Starter
		sp.Vulnerability = score.Vulnerability(sp.Profile)
		sp.Classification = score.Classify(sp.Vulnerability.Score)
		sp.Ace = score.IsAce(sp.Profile)
		sp.Platoon = score.Platoon(sp.Profile, model.Handedness(side.opposing))
		if empty(sp.Profile) {
			r.Warnings = append(r.Warnings, fmt.Sprintf("no data found for starter %s", side.starter))
		}
		side.team.LineupOPS = trigger.LineupOPS(side.team.Hitters)
	}

	g := trigger.GameContext{Home: r.Home, Away: r.Away, Park: r.Park}
	r.Triggers = trigger.Evaluate(g)
	r.Recommendations = trigger.Recommend(g, r.Triggers)
	return r, nil
}

// profileJobs lists the independent lookups of one game.
func (a *Analyzer) profileJobs(game model.Game, homeAgg, awayAgg *fatigue.TeamStats) []worker.Job {
	var jobs []worker.Job

	starter := func(name, team string, side func(*model.Report) *model.TeamReport) worker.Job {
		return worker.JobFunc(func(ctx context.Context) worker.Result {
			p, err := a.builder.Pitcher(ctx, name, team)
			if err != nil {
				return &built{err: fmt.Errorf("starter %s: %w", name, err)}
			}
			return &built{apply: func(r *model.Report) { side(r).Starter.Profile = p }}
		})
	}
	jobs = append(jobs,
		starter(game.HomeStarter, game.HomeTeam, home),
		starter(game.AwayStarter, game.AwayTeam, away),
	)

	hitters := func(lineup []model.LineupEntry, team string, side func(*model.Report) *model.TeamReport) {
		for i, entry := range lineup {
			jobs = append(jobs, worker.JobFunc(func(ctx context.Context) worker.Result {
				h, err := a.builder.Hitter(ctx, entry, team)
				if err != nil {
					return &built{err: fmt.Errorf("hitter %s: %w", entry.Name, err)}
				}
				return &built{apply: func(r *model.Report) { side(r).Hitters[i] = h }}
			}))
		}
	}
	hitters(game.HomeLineup, game.HomeTeam, home)
	hitters(game.AwayLineup, game.AwayTeam, away)

	pen := func(team string, dst *fatigue.TeamStats) worker.Job {
		return worker.JobFunc(func(ctx context.Context) worker.Result {
			s, err := a.builder.BullpenStats(ctx, team)
			if err != nil {
				return &built{err: fmt.Errorf("bullpen %s: %w", team, err)}
			}
			return &built{apply: func(*model.Report) { *dst = s }}
		})
	}
	jobs = append(jobs, pen(game.HomeTeam, homeAgg), pen(game.AwayTeam, awayAgg))
	return jobs
}

func home(r *model.Report) *model.TeamReport { return &r.Home }
func away(r *model.Report) *model.TeamReport { return &r.Away }

// bullpens classifies each team's relievers from the appearance log.
func (a *Analyzer) bullpens(ctx context.Context, r *model.Report, homeAgg, awayAgg fatigue.TeamStats) error {
	var log fatigue.Log
	if t, ok := a.repo.Table(table.AppearanceLog); ok {
		var err error
		log, err = fatigue.LogFromTable(ctx, t)
		if err != nil {
			return fmt.Errorf("appearance log: %w", err)
		}
	} else {
		r.Warnings = append(r.Warnings, "appearance log not loaded; bullpen fatigue unavailable")
	}
	r.Home.Bullpen = fatigue.AnalyzeBullpen(r.Home.Code, log, homeAgg)
	r.Away.Bullpen = fatigue.AnalyzeBullpen(r.Away.Code, log, awayAgg)
	return nil
}

// teamForm fills the rolling OPS of both teams. Failures only warn; the
// cold check then treats the team as not cold.
func (a *Analyzer) teamForm(ctx context.Context, r *model.Report, game model.Game) {
	t, ok := a.repo.Table(table.TeamBattingLog)
	if !ok {
		return
	}
	anchor, ok := game.Day()
	if !ok {
		anchor = a.now()
	}
	var cols []string
	if ds, ok := a.repo.Dataset(table.TeamBattingLog); ok {
		cols = ds.TeamColumns
	}

	ops, err := profile.TeamOPS(ctx, t, cols, anchor, a.cfg.TeamOPS.WindowDays)
	if err != nil {
		a.log.Warn(ctx, "team form unavailable", logging.Error(err))
		r.Warnings = append(r.Warnings, fmt.Sprintf("team form unavailable: %v", err))
		return
	}
	for _, team := range []*model.TeamReport{&r.Home, &r.Away} {
		for _, key := range []string{team.Code, team.Name} {
			if v, ok := ops[key]; ok {
				team.RollingOPS = model.Known(v)
				break
			}
		}
	}
}

func empty(p model.PitcherProfile) bool {
	return !p.Classic.ERA.Known && !p.Classic.WHIP.Known && !p.Expected.XERA.Known &&
		!p.Percentiles.K.Known && !p.Percentiles.Barrel.Known
}
