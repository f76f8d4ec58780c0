package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/matchup/internal/model"
)

// Renderer writes reports as JSON, Markdown and a console summary.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer whose console summary goes to out.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// BaseName is the file stem for a report: date, away and home codes.
func BaseName(r *model.Report) string {
	day := r.Game.Date
	if day == "" {
		day = r.GeneratedAt.Format("2006-01-02")
	}
	name := fmt.Sprintf("%s_%s_at_%s", day, r.Game.AwayTeam, r.Game.HomeTeam)
	return strings.Map(func(c rune) rune {
		switch c {
		case '/', '\\', ' ', ':':
			return '-'
		}
		return c
	}, name)
}

// RenderJSON writes the report as indented JSON.
func (rd *Renderer) RenderJSON(r *model.Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown report.
func (rd *Renderer) RenderMarkdown(r *model.Report, path string) error {
	return writeFile(path, []byte(Markdown(r)))
}

// WriteAll renders the enabled formats into dir and returns the written paths.
func (rd *Renderer) WriteAll(r *model.Report, dir string, jsonOut, mdOut bool) ([]string, error) {
	base := filepath.Join(dir, BaseName(r))
	var paths []string
	if jsonOut {
		p := base + ".json"
		if err := rd.RenderJSON(r, p); err != nil {
			return paths, fmt.Errorf("render JSON: %w", err)
		}
		paths = append(paths, p)
	}
	if mdOut {
		p := base + ".md"
		if err := rd.RenderMarkdown(r, p); err != nil {
			return paths, fmt.Errorf("render markdown: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints the triggers and recommendations.
func (rd *Renderer) RenderSummary(r *model.Report) {
	w := rd.out
	fmt.Fprintf(w, "\n%s", r.Game.Title())
	if r.Park.Venue != "" {
		fmt.Fprintf(w, " (%s)", r.Park.Venue)
	}
	fmt.Fprintln(w)

	for _, t := range []model.TeamReport{r.Away, r.Home} {
		sp := t.Starter
		fmt.Fprintf(w, "  %-4s SP %-24s score %+5.1f  %s\n",
			t.Code, sp.Profile.Name, sp.Vulnerability.Score, sp.Classification.Label())
	}

	fmt.Fprintln(w, "\n--- TRIGGERS ---")
	for _, k := range r.Triggers.Keys() {
		fmt.Fprintf(w, "%s: %v\n", k, r.Triggers[k])
	}

	fmt.Fprintln(w, "\n--- BULLPEN FATIGUE ---")
	for _, t := range []model.TeamReport{r.Home, r.Away} {
		tired := t.Bullpen.Tired()
		list := "None"
		if len(tired) > 0 {
			list = strings.Join(tired, ", ")
		}
		fmt.Fprintf(w, "%s tired relievers (%d): %s\n", t.Code, len(tired), list)
	}

	fmt.Fprintln(w, "\n--- RECOMMENDATIONS ---")
	if len(r.Recommendations) == 0 {
		fmt.Fprintln(w, "No strong triggers identified.")
	}
	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "- %s\n", rec.Text)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "⚠ %s\n", warn)
	}
}

// Markdown renders the full report.
func Markdown(r *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Game.Title())
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	if r.Game.Date != "" {
		fmt.Fprintf(&b, "- Game date: %s\n", r.Game.Date)
	}
	venue := r.Park.Venue
	if venue == "" {
		venue = "unknown venue"
	}
	fmt.Fprintf(&b, "- Park: %s (runs %.2f, HR %.2f, wOBA %.2f)\n\n", venue, r.Park.Runs, r.Park.HR, r.Park.WOBA)

	b.WriteString("## Recommendations\n\n")
	if len(r.Recommendations) == 0 {
		b.WriteString("No strong triggers identified.\n")
	}
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "- **%s**: %s\n", rec.Rule, rec.Text)
	}

	b.WriteString("\n## Starting pitchers\n")
	for _, t := range []model.TeamReport{r.Away, r.Home} {
		writePitcher(&b, t)
	}

	b.WriteString("\n## Lineups\n")
	for _, t := range []model.TeamReport{r.Away, r.Home} {
		writeLineup(&b, t)
	}

	b.WriteString("\n## Bullpens\n")
	for _, t := range []model.TeamReport{r.Away, r.Home} {
		writeBullpen(&b, t)
	}

	b.WriteString("\n## Triggers\n\n| Trigger | Fired |\n|---|---|\n")
	for _, k := range r.Triggers.Keys() {
		mark := ""
		if r.Triggers[k] {
			mark = "✓"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", k, mark)
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

func writePitcher(b *strings.Builder, t model.TeamReport) {
	sp := t.Starter
	p := sp.Profile
	fmt.Fprintf(b, "\n### %s: %s\n\n", t.Code, p.Name)
	fmt.Fprintf(b, "Score **%+.1f** (%s)", sp.Vulnerability.Score, sp.Classification.Label())
	if sp.Ace {
		b.WriteString(", ace")
	}
	b.WriteString("\n\n")
	b.WriteString("| ERA | WHIP | K/9 | xERA | xwOBA | Barrel% pct | HardHit% pct | K% pct | FBv season | FBv recent |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|\n")
	fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n\n",
		p.Classic.ERA, p.Classic.WHIP, p.Classic.K9, p.Expected.XERA, p.Expected.XWOBA,
		p.Percentiles.Barrel, p.Percentiles.HardHit, p.Percentiles.K,
		p.Velocity.Season, p.Velocity.Recent)

	for _, s := range sp.Vulnerability.Signals {
		fmt.Fprintf(b, "- `%s` %+.1f (%s)\n", s.Type, s.Delta, s.Severity)
	}
	fmt.Fprintf(b, "\nPlatoon: %s\n", sp.Platoon.Summary())
}

func writeLineup(b *strings.Builder, t model.TeamReport) {
	fmt.Fprintf(b, "\n### %s", t.Code)
	if t.RollingOPS.Known {
		fmt.Fprintf(b, " (rolling OPS %.3f)", t.RollingOPS.Value)
	}
	b.WriteString("\n\n| Hitter | Hand | OPS | HR | xwOBA | Barrel% pct | Bat speed |\n|---|---|---|---|---|---|---|\n")
	for _, h := range t.Hitters {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			h.Name, h.Hand, h.Classic.OPS, h.Classic.HR, h.Expected.XWOBA, h.Percentiles.Barrel, h.BatTracking.BatSpeed)
	}
}

func writeBullpen(b *strings.Builder, t model.TeamReport) {
	pen := t.Bullpen
	fmt.Fprintf(b, "\n### %s: ERA %s, WHIP %s", t.Code, pen.ERA, pen.WHIP)
	if pen.AtRisk {
		b.WriteString(" (at risk)")
	}
	b.WriteString("\n\n")
	if len(pen.Relievers) == 0 {
		b.WriteString("No recent relief appearances.\n")
		return
	}
	for _, rv := range pen.Relievers {
		mark := ""
		if rv.Tired {
			mark = " **tired**"
		}
		fmt.Fprintf(b, "- %s: %.1f IP over %d appearances%s\n", rv.Name, rv.Innings, rv.Appearances, mark)
	}
}
