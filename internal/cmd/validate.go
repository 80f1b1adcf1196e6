// SPDX-License-Identifier: MIT

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sprintplan/backlog"
)

// summary is what validate prints.
type summary struct {
	Stories       int   `json:"stories"`
	Sprints       int   `json:"sprints"`
	Edges         int   `json:"dependency_edges"`
	TotalPoints   int   `json:"total_story_points"`
	TotalCapacity int   `json:"total_capacity"`
	Order         []int `json:"topological_order"`
	// Unschedulable stories cannot be placed in any roadmap: no sprint
	// late enough for their dependency chain has room for them.
	Unschedulable []int `json:"unschedulable"`
}

func (a *app) newValidateCmd() *cobra.Command {
	var (
		in     inputFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "validate [instance.yaml]",
		Short: "Check an instance and summarize it",
		Long: `Load an instance, reject malformed records, dangling or self
dependencies and dependency cycles, then print its size, a topological
order of the stories and the stories no roadmap can ever schedule.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := in.load(args)
			if err != nil {
				return err
			}
			s := summarize(b)
			a.log.Info("instance valid", "stories", s.Stories, "sprints", s.Sprints, "unschedulable", len(s.Unschedulable))
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}

			return printSummary(cmd.OutOrStdout(), s)
		},
	}
	in.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the summary as JSON")

	return cmd
}

func summarize(b *backlog.Backlog) summary {
	s := summary{
		Stories:       b.Len(),
		Sprints:       b.NumSprints(),
		TotalPoints:   b.TotalPoints(),
		Order:         b.TopologicalOrder(),
		Unschedulable: []int{},
	}
	for _, sp := range b.Sprints() {
		s.TotalCapacity += sp.Capacity
	}

	// earliest[id] is the lowest sprint position that can hold id once all
	// of its dependencies sit at their own earliest positions.
	const never = math.MaxInt
	earliest := make(map[int]int, b.Len())
	for _, id := range s.Order {
		st, _ := b.Story(id)
		s.Edges += len(st.Dependencies)
		from := 0
		for _, d := range st.Dependencies {
			e := earliest[d]
			if e == never {
				from = never
				break
			}
			from = max(from, e+1)
		}
		pos := never
		for i := from; from != never && i < b.NumSprints(); i++ {
			if b.SprintAt(i).Capacity >= st.StoryPoints {
				pos = i
				break
			}
		}
		earliest[id] = pos
		if pos == never {
			s.Unschedulable = append(s.Unschedulable, id)
		}
	}
	slices.Sort(s.Unschedulable)

	return s
}

func printSummary(w io.Writer, s summary) error {
	_, err := fmt.Fprintf(w,
		"Stories: %d, sprints: %d, dependency edges: %d\n"+
			"Total story points: %d, total capacity: %d\n"+
			"Topological order: %v\n"+
			"Unschedulable stories: %v\n"+
			"OK\n",
		s.Stories, s.Sprints, s.Edges, s.TotalPoints, s.TotalCapacity, s.Order, s.Unschedulable)

	return err
}
