// SPDX-License-Identifier: MIT

// Package sprintplan plans user stories into sprints.
//
// What is sprintplan?
//
//	A roadmap assigns every story of a backlog to at most one sprint so that
//	the bonus-weighted business value is maximal while:
//		• no sprint carries more story points than its capacity
//		• every story sits strictly after all of its dependencies
//		• unscheduled stories stay in the Backlog and earn nothing
//
// Packages, bottom-up:
//
//	depgraph/   : dependency relation, trial-insert cycle check, topological order
//	backlog/    : immutable instance: stories, sprints, the Backlog slot
//	roadmap/    : mutable assignment with TryAssign / Unassign / MoveStory and a feasibility audit
//	greedy/     : first-fit construction, randomized best-of-N trials
//	localsearch/: sprint×story matrix, swap neighborhood, hill climbing
//	model/      : 0/1 optimization model, solver boundary, Commit, LP export
//	exact/      : depth-first branch-and-bound solver for model.Model
//	planio/     : CSV tables and YAML instance documents
//	synth/      : seeded synthetic instances
//	report/     : per-sprint report, text and JSON
//	planner/    : warm start → solve → commit → polish pipeline
//	config/, logging/: viper settings and slog logging for the CLI
//
// Quick example, the strict chain 0←1←2←3 over four sprints:
//
//	Sprint 0 (bonus 4): Story 0
//	Sprint 1 (bonus 3): Story 1
//	Sprint 2 (bonus 2): Story 2
//	Sprint 3 (bonus 1): Story 3
//
// is the only roadmap that schedules all four stories.
//
//	go install github.com/katalvlaran/sprintplan/cmd/sprintplan@latest
package sprintplan
