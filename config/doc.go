// SPDX-License-Identifier: MIT

// Package config holds the sprintplan settings and their viper bindings.
//
// Settings are read, in increasing priority, from defaults registered by
// SetDefaults, a sprintplan.yaml file, SPRINTPLAN_* environment variables
// (dots become underscores, e.g. SPRINTPLAN_SOLVER_TIME_LIMIT_MS) and
// command-line flags bound by the CLI.
package config
