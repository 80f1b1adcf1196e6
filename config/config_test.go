// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sprintplan/config"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, "exact", cfg.Solver.Name)
	assert.Equal(t, 10*time.Second, cfg.Solver.SolverTimeLimit())
	assert.Equal(t, 2*time.Second, cfg.LocalSearch.TimeLimit())
	assert.Equal(t, 16, cfg.WarmStart.Trials)
}

func TestFromViper_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprintplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
solver:
  name: greedy
  node_limit: 5000
warm_start:
  trials: 4
local_search:
  strategy: best
`), 0o644))
	t.Setenv("SPRINTPLAN_OUTPUT_FORMAT", "json")

	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("SPRINTPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "greedy", cfg.Solver.Name)
	assert.EqualValues(t, 5000, cfg.Solver.NodeLimit)
	assert.Equal(t, 4, cfg.WarmStart.Trials)
	assert.Equal(t, "best", cfg.LocalSearch.Strategy)
	assert.Equal(t, "json", cfg.Output.Format)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10_000, cfg.Solver.TimeLimitMs)
	assert.True(t, cfg.LocalSearch.Enabled)
}

func TestFromViper_RejectsInvalid(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("solver.name", "cplex")
	v.Set("warm_start.trials", 0)

	_, err := config.FromViper(v)
	var verrs config.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	assert.Equal(t, "solver.name", verrs[0].Field)
	assert.Equal(t, "warm_start.trials", verrs[1].Field)
	assert.Contains(t, err.Error(), "2 validation errors")
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"negative time limit", func(c *config.Config) { c.Solver.TimeLimitMs = -1 }, "solver.time_limit_ms"},
		{"negative workers", func(c *config.Config) { c.WarmStart.Workers = -2 }, "warm_start.workers"},
		{"strategy", func(c *config.Config) { c.LocalSearch.Strategy = "random" }, "local_search.strategy"},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"format", func(c *config.Config) { c.Output.Format = "xml" }, "output.format"},
		{"probability", func(c *config.Config) { c.Generate.DependencyProbability = 1.5 }, "generate.dependency_probability"},
		{"schedule", func(c *config.Config) { c.Generate.BonusSchedule = "random" }, "generate.bonus_schedule"},
		{"stories", func(c *config.Config) { c.Generate.Stories = 0 }, "generate.stories"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)
		})
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "sprintplan"), config.ConfigDir())
}
