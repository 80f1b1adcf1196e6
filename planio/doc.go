// SPDX-License-Identifier: MIT

// Package planio reads and writes planning instances.
//
// CSV: two tables, each starting with a header row that is skipped.
//
//	stories:  id,businessValue,storyPoints[,dep;dep;...]
//	sprints:  ordinal,capacity,bonus
//
// YAML: one document with "stories" and "sprints" lists (see Instance).
//
// Every reader is all-or-nothing: an unparseable field or a malformed row
// fails the load with ErrMalformedRecord and the line number, and the
// records are handed to backlog.New, which rejects dangling dependencies and
// cycles. The Backlog slot is never part of the input.
package planio
