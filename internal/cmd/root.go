// SPDX-License-Identifier: MIT

// Package cmd implements the sprintplan command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/sprintplan/config"
	"github.com/katalvlaran/sprintplan/logging"
)

// app is the state shared by the commands of one root.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log *logging.Logger
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds a fresh command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: logging.NopLogger()}

	root := &cobra.Command{
		Use:   "sprintplan",
		Short: "Plan user stories into sprints",
		Long: `sprintplan assigns user stories to sprints so that the bonus-weighted
business value is maximal, no sprint exceeds its capacity, and every
story lands strictly after the stories it depends on.

Instances are read from a YAML document or from a pair of CSV tables.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.load,
		PersistentPostRunE: func(*cobra.Command, []string) error { return a.log.Close() },
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default is ./sprintplan.yaml, then $HOME/.config/sprintplan/sprintplan.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-dir", "", "write sprintplan.log into this directory instead of stderr")
	bindFlags(a.v, pf, map[string]string{
		"config":        "config",
		"logging.level": "log-level",
		"logging.dir":   "log-dir",
	})

	root.AddCommand(a.newPlanCmd(), a.newGenerateCmd(), a.newValidateCmd())

	return root
}

// load resolves the configuration: defaults, file, environment, then flags.
func (a *app) load(*cobra.Command, []string) error {
	config.SetDefaults(a.v)

	explicit := a.v.GetString("config")
	if explicit != "" {
		a.v.SetConfigFile(explicit)
	} else {
		a.v.SetConfigName("sprintplan")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		a.v.AddConfigPath(config.ConfigDir())
	}

	// SPRINTPLAN_SOLVER_TIME_LIMIT_MS for solver.time_limit_ms.
	a.v.SetEnvPrefix("SPRINTPLAN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := config.FromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return err
	}
	a.log.Debug("config loaded", "file", a.v.ConfigFileUsed())

	return nil
}

// bindFlags binds viper keys to flags by name.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		_ = v.BindPFlag(key, fs.Lookup(name))
	}
}
