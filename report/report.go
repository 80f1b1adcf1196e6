// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/roadmap"
)

// Meta is run information printed in the summary.
type Meta struct {
	RunID   string
	Status  string
	Elapsed time.Duration
}

// StoryLine is one delivered story.
type StoryLine struct {
	ID            int   `json:"id"`
	BusinessValue int   `json:"business_value"`
	StoryPoints   int   `json:"story_points"`
	Dependencies  []int `json:"dependencies,omitempty"`
}

// SprintReport is one block of the report. The Backlog block comes last and
// has Scheduled = false.
type SprintReport struct {
	Scheduled     bool        `json:"scheduled"`
	Ordinal       int         `json:"ordinal"`
	Capacity      int         `json:"capacity"`
	Bonus         int         `json:"bonus"`
	Stories       []StoryLine `json:"stories"`
	Value         int         `json:"value"`
	WeightedValue int         `json:"weighted_value"`
	StoryPoints   int         `json:"story_points"`
}

// Header renders ">> Sprint n (capacity: c, bonus: b)" or the Backlog line.
func (s SprintReport) Header() string {
	if !s.Scheduled {
		return ">> Product Backlog (capacity: 0, bonus: 0)"
	}

	return fmt.Sprintf(">> Sprint %d (capacity: %d, bonus: %d)", s.Ordinal, s.Capacity, s.Bonus)
}

// Report is the full roadmap summary.
type Report struct {
	RunID      string         `json:"run_id,omitempty"`
	Status     string         `json:"status"`
	ElapsedMS  float64        `json:"elapsed_ms"`
	NumStories int            `json:"stories"`
	NumSprints int            `json:"sprints"`
	Sprints    []SprintReport `json:"sprint_reports"`
	// Totals over real sprints only.
	TotalValue    int `json:"total_value"`
	TotalWeighted int `json:"total_weighted_value"`
	TotalPoints   int `json:"total_story_points"`
	Scheduled     int `json:"scheduled_stories"`
}

// Build summarizes r.
func Build(r *roadmap.Roadmap, meta Meta) Report {
	b := r.Backlog()
	rep := Report{
		RunID:      meta.RunID,
		Status:     meta.Status,
		ElapsedMS:  float64(meta.Elapsed) / float64(time.Millisecond),
		NumStories: b.Len(),
		NumSprints: b.NumSprints(),
	}
	for _, slot := range b.ScanOrder() {
		sr := SprintReport{Stories: []StoryLine{}}
		if ord, ok := slot.Ordinal(); ok {
			sp, _ := b.Sprint(ord)
			sr.Scheduled, sr.Ordinal, sr.Capacity, sr.Bonus = true, sp.Ordinal, sp.Capacity, sp.ValueBonus
		}
		for _, id := range r.Stories(slot) {
			st, _ := b.Story(id)
			sr.Stories = append(sr.Stories, StoryLine{
				ID: st.ID, BusinessValue: st.BusinessValue, StoryPoints: st.StoryPoints, Dependencies: st.Dependencies,
			})
			sr.Value += st.BusinessValue
			sr.StoryPoints += st.StoryPoints
		}
		sr.WeightedValue = sr.Value * sr.Bonus
		if sr.Scheduled {
			rep.TotalValue += sr.Value
			rep.TotalWeighted += sr.WeightedValue
			rep.TotalPoints += sr.StoryPoints
			rep.Scheduled += len(sr.Stories)
		}
		rep.Sprints = append(rep.Sprints, sr)
	}

	return rep
}

// Render writes the text report. Styling follows the writer's terminal
// capabilities, so a pipe or a buffer receives plain text.
func Render(w io.Writer, rep Report) error {
	re := lipgloss.NewRenderer(w)
	header := re.NewStyle().Bold(true)
	footer := re.NewStyle().Faint(true)
	status := re.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))

	var sb strings.Builder
	for _, s := range rep.Sprints {
		sb.WriteString(header.Render(s.Header()))
		sb.WriteByte('\n')
		if len(s.Stories) == 0 {
			sb.WriteString("\tNone\n")
		}
		for _, st := range s.Stories {
			sb.WriteString("\t")
			sb.WriteString(backlog.Story{
				ID: st.ID, BusinessValue: st.BusinessValue, StoryPoints: st.StoryPoints, Dependencies: st.Dependencies,
			}.String())
			sb.WriteByte('\n')
		}
		sb.WriteString(footer.Render(fmt.Sprintf("-- [Value: %d (weighted business value: %d), story points: %d]",
			s.Value, s.WeightedValue, s.StoryPoints)))
		sb.WriteString("\n\n")
	}

	sb.WriteByte('\n')
	sb.WriteString(status.Render(rep.Status))
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "Solved in %.3f ms\n\n", rep.ElapsedMS)
	if rep.RunID != "" {
		fmt.Fprintf(&sb, "Run: %s\n", rep.RunID)
	}
	fmt.Fprintf(&sb, "Stories: %d, sprints: %d\n", rep.NumStories, rep.NumSprints)
	fmt.Fprintf(&sb, "Scheduled stories: %d, story points: %d, business value: %d\n",
		rep.Scheduled, rep.TotalPoints, rep.TotalValue)
	fmt.Fprintf(&sb, "Total weighted business value: %d\n\n", rep.TotalWeighted)
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())

	return err
}

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rep)
}
