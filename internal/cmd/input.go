// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/planio"
)

var (
	errNoInput   = errors.New("no instance: pass a YAML file or both --stories and --sprints")
	errTwoInputs = errors.New("give either a YAML file or CSV tables, not both")
)

// inputFlags locate an instance on disk.
type inputFlags struct {
	stories, sprints string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.stories, "stories", "", "stories CSV: id,business_value,story_points,dependencies (ids joined by ';')")
	cmd.Flags().StringVar(&f.sprints, "sprints", "", "sprints CSV: ordinal,capacity,bonus")
	cmd.MarkFlagsRequiredTogether("stories", "sprints")
}

// load reads the YAML file in args, or the CSV pair.
func (f *inputFlags) load(args []string) (*backlog.Backlog, error) {
	switch {
	case len(args) == 1 && f.stories != "":
		return nil, errTwoInputs
	case len(args) == 1:
		return planio.LoadFile(args[0])
	case f.stories != "":
		return planio.LoadCSV(f.stories, f.sprints)
	default:
		return nil, errNoInput
	}
}
