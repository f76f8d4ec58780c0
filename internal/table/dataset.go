package table

import "sort"

// Dataset keys used by the analyzer.
const (
	StdPitching          = "std_pitching"
	HitterStats          = "homeandawatbatter"
	PitcherSplitsLHB     = "pitcher_splits_lhb"
	PitcherSplitsRHB     = "pitcher_splits_rhb"
	PitchingPitches      = "pitching_pitches"
	TeamRelievers        = "team_relievers"
	AppearanceLog        = "last3dayspitching"
	TeamBattingLog       = "team_batting_log"
	ExpectedStats        = "expected_stats"
	PercentileRankings   = "percentile_rankings"
	BatTracking          = "bat_tracking"
	BatTrackingLast30    = "bat_tracking_last30"
	SwingTake            = "swing_take"
	PitchMovement        = "pitch_movement"
	PitcherRunningGame   = "pitcher_running_game"
	ActiveSpin           = "active_spin"
	PitcherArmAngles     = "pitcher_arm_angles"
	ExitVelocity         = "exit_velocity"
	SpinDirectionPitches = "spin_direction_pitches"
	HomeRuns             = "homeruns"
)

// DefaultTeamColumns are tried in order for team-keyed datasets.
var DefaultTeamColumns = []string{"Team", "Tm", "team", "TEAM"}

// Dataset describes one logical source: where it lives and which columns
// identify an entity.
type Dataset struct {
	File        string   `yaml:"file" mapstructure:"file"`
	NameColumn  string   `yaml:"name_column,omitempty" mapstructure:"name_column"`
	YearColumn  string   `yaml:"year_column,omitempty" mapstructure:"year_column"`
	TeamColumns []string `yaml:"team_columns,omitempty" mapstructure:"team_columns"`
}

// Registry maps dataset keys to their descriptions.
type Registry map[string]Dataset

// Keys returns the dataset keys in sorted order.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a copy of r with the non-empty fields of overrides applied.
// Unknown keys in overrides are added.
func (r Registry) Merge(overrides Registry) Registry {
	out := make(Registry, len(r)+len(overrides))
	for k, v := range r {
		out[k] = v
	}
	for k, o := range overrides {
		base := out[k]
		if o.File != "" {
			base.File = o.File
		}
		if o.NameColumn != "" {
			base.NameColumn = o.NameColumn
		}
		if o.YearColumn != "" {
			base.YearColumn = o.YearColumn
		}
		if len(o.TeamColumns) > 0 {
			base.TeamColumns = o.TeamColumns
		}
		out[k] = base
	}
	return out
}

// DefaultRegistry returns the file names and name columns of the stock
// exports. The classic exports key on "Player"; the Statcast-style exports
// each use their own column.
func DefaultRegistry() Registry {
	return Registry{
		StdPitching:      {File: "Player_Standard_Pitching.csv", NameColumn: "Player"},
		HitterStats:      {File: "homeandawatbatter.cvs", NameColumn: "Player"},
		PitcherSplitsLHB: {File: "pitcher_splits_2025_vsLHB.csv", NameColumn: "Player"},
		PitcherSplitsRHB: {File: "pitcher_splits_2025_vsRHB.csv", NameColumn: "Player"},
		PitchingPitches:  {File: "Player_Pitching_Pitches.cvs.txt", NameColumn: "Player", YearColumn: "Year"},
		TeamRelievers:    {File: "Team_Relief_Pitching.cvs", TeamColumns: DefaultTeamColumns},
		AppearanceLog:    {File: "last3dayspitching.csv", NameColumn: "Player", TeamColumns: []string{"Team"}},
		TeamBattingLog:   {File: "team_batting_log.csv", TeamColumns: []string{"Team"}},

		ExpectedStats:        {File: "expected_stats.csv", NameColumn: "last_name, first_name", YearColumn: "year"},
		PercentileRankings:   {File: "percentile_rankings.csv", NameColumn: "player_name", YearColumn: "year"},
		BatTracking:          {File: "bat-tracking.csv", NameColumn: "name"},
		BatTrackingLast30:    {File: "bat-tracking-last30days.csv", NameColumn: "name"},
		SwingTake:            {File: "swing-take.csv", NameColumn: "last_name, first_name", YearColumn: "year"},
		PitchMovement:        {File: "pitch_movement.csv", NameColumn: "last_name, first_name", YearColumn: "year"},
		PitcherRunningGame:   {File: "pitcher_running_game.csv", NameColumn: "player_name"},
		ActiveSpin:           {File: "active-spin.csv", NameColumn: "entity_name"},
		PitcherArmAngles:     {File: "pitcher_arm_angles.csv", NameColumn: "pitcher_name"},
		ExitVelocity:         {File: "exit_velocity.csv", NameColumn: "last_name, first_name", YearColumn: "year"},
		SpinDirectionPitches: {File: "spin-direction-pitches.csv", NameColumn: "last_name, first_name"},
		HomeRuns:             {File: "homeruns.csv", NameColumn: "player"},
	}
}
