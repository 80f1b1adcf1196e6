// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete sprintplan configuration.
type Config struct {
	Solver      SolverConfig      `mapstructure:"solver"`
	WarmStart   WarmStartConfig   `mapstructure:"warm_start"`
	LocalSearch LocalSearchConfig `mapstructure:"local_search"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Output      OutputConfig      `mapstructure:"output"`
	Generate    GenerateConfig    `mapstructure:"generate"`
}

// SolverConfig controls the exact search.
type SolverConfig struct {
	// Name selects the optimizer. Options: "exact", "greedy".
	Name string `mapstructure:"name"`
	// TimeLimitMs caps the search; 0 means no limit.
	TimeLimitMs int `mapstructure:"time_limit_ms"`
	// NodeLimit caps explored branch-and-bound nodes; 0 means no limit.
	NodeLimit int64 `mapstructure:"node_limit"`
	// WarmStart seeds the solver with the best greedy roadmap.
	WarmStart bool `mapstructure:"warm_start"`
}

// WarmStartConfig controls the randomized greedy trials.
type WarmStartConfig struct {
	Trials  int   `mapstructure:"trials"`
	Workers int   `mapstructure:"workers"` // 0 = GOMAXPROCS
	Seed    int64 `mapstructure:"seed"`
}

// LocalSearchConfig controls the hill-climbing polish.
type LocalSearchConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Strategy options: "first", "best".
	Strategy      string `mapstructure:"strategy"`
	MaxIterations int    `mapstructure:"max_iterations"`
	TimeLimitMs   int    `mapstructure:"time_limit_ms"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	// Level options: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Dir receives sprintplan.log; empty logs to stderr.
	Dir string `mapstructure:"dir"`
}

// OutputConfig controls how plans are printed.
type OutputConfig struct {
	// Format options: "text", "json".
	Format string `mapstructure:"format"`
	// LPFile, when set, receives the model in CPLEX LP format.
	LPFile string `mapstructure:"lp_file"`
}

// GenerateConfig holds the synthetic instance defaults.
type GenerateConfig struct {
	Stories               int     `mapstructure:"stories"`
	Sprints               int     `mapstructure:"sprints"`
	DependencyProbability float64 `mapstructure:"dependency_probability"`
	Seed                  int64   `mapstructure:"seed"`
	// BonusSchedule options: "linear", "geometric", "flat".
	BonusSchedule string `mapstructure:"bonus_schedule"`
	BonusRatio    int    `mapstructure:"bonus_ratio"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			Name:        "exact",
			TimeLimitMs: 10_000,
			WarmStart:   true,
		},
		WarmStart: WarmStartConfig{
			Trials: 16,
			Seed:   1,
		},
		LocalSearch: LocalSearchConfig{
			Enabled:       true,
			Strategy:      "first",
			MaxIterations: 1000,
			TimeLimitMs:   2000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Format: "text",
		},
		Generate: GenerateConfig{
			Stories:               10,
			Sprints:               4,
			DependencyProbability: 0.1,
			Seed:                  1,
			BonusSchedule:         "linear",
			BonusRatio:            2,
		},
	}
}

// SolverTimeLimit returns the solver budget as a duration.
func (c *SolverConfig) SolverTimeLimit() time.Duration {
	return time.Duration(c.TimeLimitMs) * time.Millisecond
}

// TimeLimit returns the local-search budget as a duration.
func (c *LocalSearchConfig) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitMs) * time.Millisecond
}

// SetDefaults registers every default with v.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("solver.name", d.Solver.Name)
	v.SetDefault("solver.time_limit_ms", d.Solver.TimeLimitMs)
	v.SetDefault("solver.node_limit", d.Solver.NodeLimit)
	v.SetDefault("solver.warm_start", d.Solver.WarmStart)

	v.SetDefault("warm_start.trials", d.WarmStart.Trials)
	v.SetDefault("warm_start.workers", d.WarmStart.Workers)
	v.SetDefault("warm_start.seed", d.WarmStart.Seed)

	v.SetDefault("local_search.enabled", d.LocalSearch.Enabled)
	v.SetDefault("local_search.strategy", d.LocalSearch.Strategy)
	v.SetDefault("local_search.max_iterations", d.LocalSearch.MaxIterations)
	v.SetDefault("local_search.time_limit_ms", d.LocalSearch.TimeLimitMs)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.dir", d.Logging.Dir)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.lp_file", d.Output.LPFile)

	v.SetDefault("generate.stories", d.Generate.Stories)
	v.SetDefault("generate.sprints", d.Generate.Sprints)
	v.SetDefault("generate.dependency_probability", d.Generate.DependencyProbability)
	v.SetDefault("generate.seed", d.Generate.Seed)
	v.SetDefault("generate.bonus_schedule", d.Generate.BonusSchedule)
	v.SetDefault("generate.bonus_ratio", d.Generate.BonusRatio)
}

// FromViper unmarshals v over the defaults and validates the result.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return cfg, nil
}

// ConfigDir returns $XDG_CONFIG_HOME/sprintplan or ~/.config/sprintplan.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sprintplan")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sprintplan"
	}

	return filepath.Join(home, ".config", "sprintplan")
}
