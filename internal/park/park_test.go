package park

import (
	"testing"

	"github.com/ppiankov/matchup/internal/model"
)

func TestForTeam(t *testing.T) {
	tests := []struct {
		team     string
		venue    string
		runs, hr float64
		pitchers bool
		hitters  bool
	}{
		{"SEA", "T-Mobile Park", 0.80, 0.88, true, false},
		{"SD", "Petco Park", 0.82, 0.90, true, false},
		{"SDP", "Petco Park", 0.82, 0.90, true, false},
		{"COL", "Coors Field", 1.28, 1.35, false, true},
		{"BOS", "Fenway Park", 1.10, 0.90, false, false},
		{"XYZ", "", 1.0, 1.0, false, false},
	}

	for _, tt := range tests {
		p := ForTeam(tt.team)
		if p.Venue != tt.venue || p.Runs != tt.runs || p.HR != tt.hr {
			t.Errorf("ForTeam(%s) = %+v", tt.team, p)
		}
		if IsPitchersPark(p) != tt.pitchers {
			t.Errorf("IsPitchersPark(%s) = %v, want %v", tt.team, IsPitchersPark(p), tt.pitchers)
		}
		if IsHittersPark(p) != tt.hitters {
			t.Errorf("IsHittersPark(%s) = %v, want %v", tt.team, IsHittersPark(p), tt.hitters)
		}
	}
}

func TestParkThresholdsAreStrict(t *testing.T) {
	if IsPitchersPark(model.Park{Runs: 0.95, HR: 0.80}) {
		t.Error("runs at 0.95 is not a pitcher's park")
	}
	if IsHittersPark(model.Park{Runs: 1.05, HR: 1.30}) {
		t.Error("runs at 1.05 is not a hitter's park")
	}
}

func TestTeamName(t *testing.T) {
	if got := TeamName("DET"); got != "Detroit Tigers" {
		t.Errorf("TeamName(DET) = %q", got)
	}
	if got := TeamName("ZZZ"); got != "ZZZ" {
		t.Errorf("unknown codes should pass through, got %q", got)
	}
}

func TestEveryTeamHasFactors(t *testing.T) {
	for team, venue := range teamVenue {
		if _, ok := ForVenue(venue); !ok {
			t.Errorf("team %s maps to venue %q without factors", team, venue)
		}
		if _, ok := teamNames[team]; !ok {
			t.Errorf("team %s has no display name", team)
		}
	}
}
