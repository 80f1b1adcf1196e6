// SPDX-License-Identifier: MIT

// Package planner runs the complete planning pipeline for one backlog:
//
//  1. warm start: best of N randomized greedy roadmaps (greedy.Trials);
//  2. model: the 0/1 program with the warm start attached (model.Build);
//  3. solve: any model.Solver, e.g. exact.Solver;
//  4. commit: decode and re-validate the solver answer (model.Commit);
//  5. polish: optional hill climbing when optimality is not proven.
//
// A nil solver makes the pipeline greedy-only. When the solver finds nothing
// within its budget, the warm start is returned with status TimedOut. The
// returned roadmap is always feasible and never worse than the warm start.
//
// Every run gets a uuid run id, which tags all log records of the run.
package planner
