// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/config"
	"github.com/katalvlaran/sprintplan/exact"
	"github.com/katalvlaran/sprintplan/greedy"
	"github.com/katalvlaran/sprintplan/localsearch"
	"github.com/katalvlaran/sprintplan/model"
	"github.com/katalvlaran/sprintplan/planner"
	"github.com/katalvlaran/sprintplan/report"
)

func (a *app) newPlanCmd() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "plan [instance.yaml]",
		Short: "Compute a roadmap for a backlog",
		Long: `Compute a roadmap: the best of several randomized greedy roadmaps
seeds the exact branch-and-bound solver, whose answer is re-validated and,
when optimality is not proven, polished by local search.

Examples:
  sprintplan plan backlog.yaml
  sprintplan plan --stories stories.csv --sprints sprints.csv --format json
  sprintplan plan backlog.yaml --solver greedy --trials 64`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := in.load(args)
			if err != nil {
				return err
			}

			return a.runPlan(cmd, a.cfg, b)
		},
	}
	in.register(cmd)

	f := cmd.Flags()
	f.String("solver", "", "optimizer: exact or greedy")
	f.Int("time-limit-ms", 0, "solver time budget in milliseconds, 0 = none")
	f.Int64("node-limit", 0, "solver node budget, 0 = none")
	f.Int("trials", 0, "randomized greedy trials for the warm start")
	f.Int64("seed", 0, "warm-start seed")
	f.Bool("local-search", false, "polish non-optimal roadmaps by hill climbing")
	f.String("strategy", "", "local-search strategy: first or best")
	f.String("format", "", "output format: text or json")
	f.String("lp", "", "also write the model in CPLEX LP format to this file")
	bindFlags(a.v, f, map[string]string{
		"solver.name":           "solver",
		"solver.time_limit_ms":  "time-limit-ms",
		"solver.node_limit":     "node-limit",
		"warm_start.trials":     "trials",
		"warm_start.seed":       "seed",
		"local_search.enabled":  "local-search",
		"local_search.strategy": "strategy",
		"output.format":         "format",
		"output.lp_file":        "lp",
	})

	return cmd
}

// runPlan builds the planner from cfg, runs it and prints the report.
func (a *app) runPlan(cmd *cobra.Command, cfg *config.Config, b *backlog.Backlog) (err error) {
	var solver model.Solver
	if strings.EqualFold(cfg.Solver.Name, "exact") {
		solver = exact.New(exact.Options{TimeLimit: cfg.Solver.SolverTimeLimit(), NodeLimit: cfg.Solver.NodeLimit})
	}

	trialOpts := []greedy.TrialOption{greedy.WithTrials(cfg.WarmStart.Trials), greedy.WithSeed(cfg.WarmStart.Seed)}
	if cfg.WarmStart.Workers > 0 {
		trialOpts = append(trialOpts, greedy.WithWorkers(cfg.WarmStart.Workers))
	}
	opts := []planner.Option{
		planner.WithLogger(a.log),
		planner.WithWarmStart(cfg.Solver.WarmStart),
		planner.WithTrialOptions(trialOpts...),
	}
	if ls := cfg.LocalSearch; ls.Enabled {
		strategy := localsearch.FirstImprovement
		if strings.EqualFold(ls.Strategy, "best") {
			strategy = localsearch.BestImprovement
		}
		opts = append(opts, planner.WithLocalSearch(
			localsearch.WithStrategy(strategy),
			localsearch.WithMaxIterations(ls.MaxIterations),
			localsearch.WithTimeLimit(ls.TimeLimit()),
		))
	}
	if path := cfg.Output.LPFile; path != "" && solver != nil {
		lp, ferr := os.Create(path)
		if ferr != nil {
			return fmt.Errorf("create LP file: %w", ferr)
		}
		defer func() {
			if cerr := lp.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("close LP file: %w", cerr)
			}
		}()
		opts = append(opts, planner.WithLPWriter(lp))
	}

	plan, err := planner.New(solver, opts...).Plan(cmd.Context(), b)
	if err != nil {
		return err
	}

	rep := report.Build(plan.Roadmap, report.Meta{
		RunID:   plan.RunID.String(),
		Status:  plan.Status.String(),
		Elapsed: plan.Elapsed,
	})
	if strings.EqualFold(cfg.Output.Format, "json") {
		return report.WriteJSON(cmd.OutOrStdout(), rep)
	}

	return report.Render(cmd.OutOrStdout(), rep)
}
