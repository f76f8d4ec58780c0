// Package park holds static venue factors and team reference data.
package park

import "github.com/ppiankov/matchup/internal/model"

// Factors are multipliers relative to a league-average park.
type Factors struct {
	Runs float64
	HR   float64
	WOBA float64
}

// Neutral is used for venues without published factors.
var Neutral = Factors{Runs: 1.0, HR: 1.0, WOBA: 1.0}

// Classification thresholds on the runs and HR multipliers.
const (
	pitchersParkMax = 0.95
	hittersParkMin  = 1.05
)

var venueFactors = map[string]Factors{
	"Chase Field":                 {1.04, 1.08, 1.03},
	"Truist Park":                 {1.06, 1.09, 1.06},
	"Oriole Park at Camden Yards": {0.94, 0.91, 0.95},
	"Fenway Park":                 {1.10, 0.90, 1.08},
	"Guaranteed Rate Field":       {1.07, 1.16, 1.07},
	"Wrigley Field":               {1.07, 1.16, 1.07},
	"Great American Ball Park":    {1.13, 1.36, 1.13},
	"Progressive Field":           {0.95, 0.83, 0.94},
	"Coors Field":                 {1.28, 1.35, 1.15},
	"Comerica Park":               {0.93, 0.80, 0.93},
	"Minute Maid Park":            {0.98, 1.09, 0.99},
	"Kauffman Stadium":            {1.07, 0.92, 1.03},
	"Angel Stadium":               {0.95, 1.07, 0.96},
	"Dodger Stadium":              {1.01, 1.19, 1.01},
	"loanDepot park":              {1.12, 1.12, 1.08},
	"American Family Field":       {1.09, 1.22, 1.08},
	"Target Field":                {0.99, 1.06, 0.98},
	"Citi Field":                  {0.91, 0.93, 0.91},
	"Yankee Stadium":              {1.06, 1.23, 1.07},
	"Oakland Coliseum":            {0.87, 0.74, 0.87},
	"Citizens Bank Park":          {1.10, 1.22, 1.09},
	"PNC Park":                    {1.05, 0.94, 1.03},
	"Petco Park":                  {0.82, 0.90, 0.85},
	"Oracle Park":                 {0.93, 0.77, 0.90},
	"T-Mobile Park":               {0.80, 0.88, 0.81},
	"Busch Stadium":               {0.95, 0.85, 0.95},
	"Steinbrenner Field":          {1.10, 1.13, 1.09},
	"Sutter Health Park":          {1.02, 0.95, 1.01},
	"Globe Life Field":            {0.97, 0.95, 0.97},
	"Rogers Centre":               {1.05, 1.14, 1.05},
	"Nationals Park":              {1.01, 1.08, 1.01},
}

var teamVenue = map[string]string{
	"ARI": "Chase Field",
	"ATL": "Truist Park",
	"BAL": "Oriole Park at Camden Yards",
	"BOS": "Fenway Park",
	"CHC": "Wrigley Field",
	"CWS": "Guaranteed Rate Field",
	"CHW": "Guaranteed Rate Field",
	"CIN": "Great American Ball Park",
	"CLE": "Progressive Field",
	"COL": "Coors Field",
	"DET": "Comerica Park",
	"HOU": "Minute Maid Park",
	"KC":  "Kauffman Stadium",
	"KCR": "Kauffman Stadium",
	"LAA": "Angel Stadium",
	"LAD": "Dodger Stadium",
	"MIA": "loanDepot park",
	"MIL": "American Family Field",
	"MIN": "Target Field",
	"NYM": "Citi Field",
	"NYY": "Yankee Stadium",
	"OAK": "Sutter Health Park",
	"PHI": "Citizens Bank Park",
	"PIT": "PNC Park",
	"SD":  "Petco Park",
	"SDP": "Petco Park",
	"SF":  "Oracle Park",
	"SFG": "Oracle Park",
	"SEA": "T-Mobile Park",
	"STL": "Busch Stadium",
	"TB":  "Steinbrenner Field",
	"TBR": "Steinbrenner Field",
	"TEX": "Globe Life Field",
	"TOR": "Rogers Centre",
	"WSH": "Nationals Park",
	"WAS": "Nationals Park",
}

var teamNames = map[string]string{
	"ARI": "Arizona Diamondbacks",
	"ATL": "Atlanta Braves",
	"BAL": "Baltimore Orioles",
	"BOS": "Boston Red Sox",
	"CHC": "Chicago Cubs",
	"CWS": "Chicago White Sox",
	"CHW": "Chicago White Sox",
	"CIN": "Cincinnati Reds",
	"CLE": "Cleveland Guardians",
	"COL": "Colorado Rockies",
	"DET": "Detroit Tigers",
	"HOU": "Houston Astros",
	"KC":  "Kansas City Royals",
	"KCR": "Kansas City Royals",
	"LAA": "Los Angeles Angels",
	"LAD": "Los Angeles Dodgers",
	"MIA": "Miami Marlins",
	"MIL": "Milwaukee Brewers",
	"MIN": "Minnesota Twins",
	"NYM": "New York Mets",
	"NYY": "New York Yankees",
	"OAK": "Oakland Athletics",
	"PHI": "Philadelphia Phillies",
	"PIT": "Pittsburgh Pirates",
	"SD":  "San Diego Padres",
	"SDP": "San Diego Padres",
	"SF":  "San Francisco Giants",
	"SFG": "San Francisco Giants",
	"SEA": "Seattle Mariners",
	"STL": "St. Louis Cardinals",
	"TB":  "Tampa Bay Rays",
	"TBR": "Tampa Bay Rays",
	"TEX": "Texas Rangers",
	"TOR": "Toronto Blue Jays",
	"WSH": "Washington Nationals",
	"WAS": "Washington Nationals",
}

// Venue returns the home venue of a team code.
func Venue(team string) (string, bool) {
	v, ok := teamVenue[team]
	return v, ok
}

// ForVenue returns the factors of a venue, Neutral when unknown.
func ForVenue(venue string) (Factors, bool) {
	f, ok := venueFactors[venue]
	if !ok {
		return Neutral, false
	}
	return f, true
}

// ForTeam resolves the home venue of team and its factors. Unknown teams
// and venues get Neutral factors.
func ForTeam(team string) model.Park {
	venue, _ := Venue(team)
	f, _ := ForVenue(venue)
	return model.Park{Venue: venue, Runs: f.Runs, HR: f.HR, WOBA: f.WOBA}
}

// TeamName returns the display name for a team code, or the code itself.
func TeamName(team string) string {
	if n, ok := teamNames[team]; ok {
		return n
	}
	return team
}

// IsPitchersPark reports runs and HR multipliers both below 0.95.
func IsPitchersPark(p model.Park) bool {
	return p.Runs < pitchersParkMax && p.HR < pitchersParkMax
}

// IsHittersPark reports runs and HR multipliers both above 1.05.
func IsHittersPark(p model.Park) bool {
	return p.Runs > hittersParkMin && p.HR > hittersParkMin
}
