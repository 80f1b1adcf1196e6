// SPDX-License-Identifier: MIT

// Package report summarizes a roadmap per sprint: the stories delivered,
// their raw and bonus-weighted business value and the points consumed, then
// overall totals with the solver status.
//
// Build computes the numbers from the sprint→stories view only, which makes
// Report.TotalWeighted an independent check of roadmap.Value. Render prints
// the classic text layout (styled with lipgloss when the writer is a
// terminal); WriteJSON emits the same data for machines.
package report
