// SPDX-License-Identifier: MIT

// Package logging is a small structured-logging layer over log/slog.
//
// A Logger writes JSON lines to a file under a run directory, or to any
// writer, and carries persistent attributes (run id, phase, solver) into every
// record. NopLogger discards everything and is what library packages use when
// the caller does not supply a logger.
package logging
