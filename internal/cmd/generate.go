// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/planio"
	"github.com/katalvlaran/sprintplan/synth"
)

func (a *app) newGenerateCmd() *cobra.Command {
	var out, csvDir string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random acyclic instance",
		Long: `Generate a synthetic backlog. Dependency edges are drawn at random and
any edge that would close a cycle is rolled back, so the result is always
acyclic. The instance is printed as YAML unless --out or --csv-dir is given.

Examples:
  sprintplan generate --stories 30 --sprints 6 --seed 7 > backlog.yaml
  sprintplan generate --csv-dir data/ --bonus-schedule geometric`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := a.cfg.Generate
			schedule, err := synth.ParseBonusSchedule(g.BonusSchedule)
			if err != nil {
				return err
			}
			res, err := synth.Generate(
				synth.WithSeed(g.Seed),
				synth.WithStories(g.Stories),
				synth.WithSprints(g.Sprints),
				synth.WithDependencyProbability(g.DependencyProbability),
				synth.WithBonus(schedule, g.BonusRatio),
			)
			if err != nil {
				return err
			}
			a.log.Info("instance generated", "stories", res.Backlog.Len(), "sprints", res.Backlog.NumSprints(),
				"accepted_edges", res.AcceptedEdges, "rejected_edges", res.RejectedEdges)

			switch {
			case csvDir != "":
				return writeCSVPair(csvDir, res.Backlog)
			case out != "":
				return writeYAMLFile(out, res.Backlog)
			default:
				return planio.WriteYAML(cmd.OutOrStdout(), res.Backlog)
			}
		},
	}

	f := cmd.Flags()
	f.Int("stories", 0, "number of stories")
	f.Int("sprints", 0, "number of sprints")
	f.Float64("dependency-probability", 0, "probability of each candidate dependency edge")
	f.Int64("seed", 0, "generator seed")
	f.String("bonus-schedule", "", "sprint bonuses: linear, geometric or flat")
	f.Int("bonus-ratio", 0, "ratio of the geometric schedule")
	f.StringVarP(&out, "out", "o", "", "write YAML to this file")
	f.StringVar(&csvDir, "csv-dir", "", "write stories.csv and sprints.csv into this directory")
	cmd.MarkFlagsMutuallyExclusive("out", "csv-dir")
	bindFlags(a.v, f, map[string]string{
		"generate.stories":                "stories",
		"generate.sprints":                "sprints",
		"generate.dependency_probability": "dependency-probability",
		"generate.seed":                   "seed",
		"generate.bonus_schedule":         "bonus-schedule",
		"generate.bonus_ratio":            "bonus-ratio",
	})

	return cmd
}

func writeYAMLFile(path string, b *backlog.Backlog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := planio.WriteYAML(f, b); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func writeCSVPair(dir string, b *backlog.Backlog) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	write := func(name string, fn func(*os.File) error) error {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if err := fn(f); err != nil {
			_ = f.Close()
			return err
		}

		return f.Close()
	}
	if err := write("stories.csv", func(f *os.File) error { return planio.WriteStoriesCSV(f, b.Stories()) }); err != nil {
		return err
	}

	return write("sprints.csv", func(f *os.File) error { return planio.WriteSprintsCSV(f, b.Sprints()) })
}
