// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/sprintplan/logging"
)

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string // e.g. "warm_start.trials"
	Value   any
	Message string
}

// Error implements error.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting.
type ValidationErrors []ValidationError

// Error implements error.
func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}

	return sb.String()
}

// ValidSolvers lists the solver names.
func ValidSolvers() []string { return []string{"exact", "greedy"} }

// ValidStrategies lists the local-search strategies.
func ValidStrategies() []string { return []string{"first", "best"} }

// ValidOutputFormats lists the plan output formats.
func ValidOutputFormats() []string { return []string{"text", "json"} }

// ValidBonusSchedules lists the synthetic bonus schedules.
func ValidBonusSchedules() []string { return []string{"linear", "geometric", "flat"} }

// Validate returns every invalid setting; nil means the config is usable.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	oneOf := func(field, value string, valid []string) {
		if !slices.Contains(valid, strings.ToLower(value)) {
			errs = append(errs, ValidationError{field, value, "must be one of " + strings.Join(valid, ", ")})
		}
	}
	nonNegative := func(field string, value int64) {
		if value < 0 {
			errs = append(errs, ValidationError{field, value, "must not be negative"})
		}
	}

	oneOf("solver.name", c.Solver.Name, ValidSolvers())
	nonNegative("solver.time_limit_ms", int64(c.Solver.TimeLimitMs))
	nonNegative("solver.node_limit", c.Solver.NodeLimit)

	if c.WarmStart.Trials < 1 {
		errs = append(errs, ValidationError{"warm_start.trials", c.WarmStart.Trials, "must be at least 1"})
	}
	nonNegative("warm_start.workers", int64(c.WarmStart.Workers))

	oneOf("local_search.strategy", c.LocalSearch.Strategy, ValidStrategies())
	nonNegative("local_search.max_iterations", int64(c.LocalSearch.MaxIterations))
	nonNegative("local_search.time_limit_ms", int64(c.LocalSearch.TimeLimitMs))

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, ValidationError{"logging.level", c.Logging.Level,
			"must be one of " + strings.ToLower(strings.Join(logging.ValidLevels(), ", "))})
	}

	oneOf("output.format", c.Output.Format, ValidOutputFormats())

	g := c.Generate
	if g.Stories < 1 {
		errs = append(errs, ValidationError{"generate.stories", g.Stories, "must be at least 1"})
	}
	nonNegative("generate.sprints", int64(g.Sprints))
	if g.DependencyProbability < 0 || g.DependencyProbability > 1 {
		errs = append(errs, ValidationError{"generate.dependency_probability", g.DependencyProbability, "must be within [0, 1]"})
	}
	oneOf("generate.bonus_schedule", g.BonusSchedule, ValidBonusSchedules())
	if g.BonusRatio < 1 {
		errs = append(errs, ValidationError{"generate.bonus_ratio", g.BonusRatio, "must be at least 1"})
	}

	return errs
}
