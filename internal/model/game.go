package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrIncompleteGame is returned when a game descriptor lacks required fields.
var ErrIncompleteGame = errors.New("incomplete game descriptor")

// Batting hands counted by the platoon analysis.
const (
	HandLeft  = "L"
	HandRight = "R"
)

// dateLayout is the only accepted game date format.
const dateLayout = "2006-01-02"

// LineupEntry is one batter in the order.
type LineupEntry struct {
	Name string `yaml:"name" json:"name"`
	Hand string `yaml:"hand" json:"hand"`
}

// Game describes one matchup.
type Game struct {
	HomeTeam    string        `yaml:"home_team" json:"home_team"`
	AwayTeam    string        `yaml:"away_team" json:"away_team"`
	HomeStarter string        `yaml:"home_starting_pitcher" json:"home_starting_pitcher"`
	AwayStarter string        `yaml:"away_starting_pitcher" json:"away_starting_pitcher"`
	HomeLineup  []LineupEntry `yaml:"home_lineup" json:"home_lineup"`
	AwayLineup  []LineupEntry `yaml:"away_lineup" json:"away_lineup"`
	Date        string        `yaml:"date,omitempty" json:"date,omitempty"`
}

// gameFile is the on-disk layout: a single top-level "game" block.
type gameFile struct {
	Game Game `yaml:"game"`
}

// Validate reports every missing required field in one error wrapping
// ErrIncompleteGame.
func (g Game) Validate() error {
	var errs []error
	missing := func(field string) {
		errs = append(errs, fmt.Errorf("%s is required", field))
	}

	if strings.TrimSpace(g.HomeTeam) == "" {
		missing("home_team")
	}
	if strings.TrimSpace(g.AwayTeam) == "" {
		missing("away_team")
	}
	if strings.TrimSpace(g.HomeStarter) == "" {
		missing("home_starting_pitcher")
	}
	if strings.TrimSpace(g.AwayStarter) == "" {
		missing("away_starting_pitcher")
	}
	errs = append(errs, validateLineup("home_lineup", g.HomeLineup)...)
	errs = append(errs, validateLineup("away_lineup", g.AwayLineup)...)

	if g.Date != "" {
		if _, err := time.Parse(dateLayout, g.Date); err != nil {
			errs = append(errs, fmt.Errorf("date %q is not YYYY-MM-DD", g.Date))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrIncompleteGame, errors.Join(errs...))
}

func validateLineup(field string, lineup []LineupEntry) []error {
	if len(lineup) == 0 {
		return []error{fmt.Errorf("%s is required", field)}
	}
	var errs []error
	for i, e := range lineup {
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Errorf("%s[%d].name is required", field, i))
		}
		if strings.TrimSpace(e.Hand) == "" {
			errs = append(errs, fmt.Errorf("%s[%d].hand is required", field, i))
		}
	}
	return errs
}

// Handedness returns the batting hands of a lineup in order.
func Handedness(lineup []LineupEntry) []string {
	hands := make([]string, len(lineup))
	for i, e := range lineup {
		hands[i] = strings.ToUpper(strings.TrimSpace(e.Hand))
	}
	return hands
}

// Day returns the parsed game date. ok is false when no date was given.
func (g Game) Day() (time.Time, bool) {
	if g.Date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, g.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Title is a short "AWAY @ HOME" label.
func (g Game) Title() string {
	return fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam)
}

// ReadGame decodes and validates a game descriptor.
func ReadGame(r io.Reader) (Game, error) {
	var f gameFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Game{}, f.Game.Validate()
		}
		return Game{}, fmt.Errorf("decode game: %w", err)
	}
	if err := f.Game.Validate(); err != nil {
		return Game{}, err
	}
	return f.Game, nil
}

// LoadGameFile reads a game descriptor from path.
func LoadGameFile(path string) (Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return Game{}, fmt.Errorf("open game file: %w", err)
	}
	defer func() { _ = f.Close() }()

	g, err := ReadGame(f)
	if err != nil {
		return Game{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
