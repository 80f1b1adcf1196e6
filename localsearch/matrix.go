// SPDX-License-Identifier: MIT

package localsearch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/roadmap"
)

var (
	// ErrCellOutOfRange indicates a move or cell outside the matrix.
	ErrCellOutOfRange = errors.New("localsearch: cell out of range")

	// ErrNotAMove indicates a pair of cells that is not a canonical move:
	// identical cells, equal values, or A not before B.
	ErrNotAMove = errors.New("localsearch: not a move")
)

// Cell is a (sprint row, story column) coordinate.
type Cell struct {
	Row, Col int
}

// Less orders cells lexicographically by (Row, Col).
func (c Cell) Less(o Cell) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}

	return c.Col < o.Col
}

// Move exchanges the values of cells A and B; A.Less(B) always holds.
type Move struct {
	A, B Cell
}

// NewMove returns the canonical move for an unordered pair of cells.
func NewMove(a, b Cell) Move {
	if b.Less(a) {
		a, b = b, a
	}

	return Move{A: a, B: b}
}

// String renders "(r,c)<->(r,c)".
func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)<->(%d,%d)", m.A.Row, m.A.Col, m.B.Row, m.B.Col)
}

// Matrix is the sprint × story assignment view of a roadmap.
type Matrix struct {
	b       *backlog.Backlog
	sprints []int // row → sprint ordinal
	stories []int // column → story id
	cells   []bool
}

// FromRoadmap builds the matrix of r. Every sprint membership becomes a true
// cell, so a state that holds a story in two sprints keeps both cells.
//
// Complexity: O(S·P) memory, O(S + P) work besides the allocation.
func FromRoadmap(r *roadmap.Roadmap) *Matrix {
	b := r.Backlog()
	m := &Matrix{
		b:       b,
		sprints: make([]int, b.NumSprints()),
		stories: b.StoryIDs(),
		cells:   make([]bool, b.NumSprints()*b.Len()),
	}
	for row := 0; row < b.NumSprints(); row++ {
		sp := b.SprintAt(row)
		m.sprints[row] = sp.Ordinal
		for _, id := range r.Stories(sp.Slot()) {
			m.cells[row*len(m.stories)+b.StoryIndex(id)] = true
		}
	}

	return m
}

// Rows returns the number of real sprints.
func (m *Matrix) Rows() int { return len(m.sprints) }

// Cols returns the number of stories.
func (m *Matrix) Cols() int { return len(m.stories) }

// At reports the value of cell c; out-of-range cells read false.
func (m *Matrix) At(c Cell) bool {
	if !m.inRange(c) {
		return false
	}

	return m.cells[m.index(c)]
}

// Moves enumerates every canonical move of the current state in
// lexicographic order of (A, B).
//
// Complexity: O(n²) for n = Rows·Cols cells.
func (m *Matrix) Moves() []Move {
	n := len(m.cells)
	trues := 0
	for _, v := range m.cells {
		if v {
			trues++
		}
	}
	out := make([]Move, 0, trues*(n-trues))
	for p := 0; p < n; p++ {
		for q := p + 1; q < n; q++ {
			if m.cells[p] != m.cells[q] {
				out = append(out, Move{A: m.cell(p), B: m.cell(q)})
			}
		}
	}

	return out
}

// Apply returns a copy of m with the move applied. It fails with
// ErrCellOutOfRange or ErrNotAMove; m itself is never modified.
func (m *Matrix) Apply(mv Move) (*Matrix, error) {
	if !m.inRange(mv.A) || !m.inRange(mv.B) {
		return nil, fmt.Errorf("Apply: %s: %w", mv, ErrCellOutOfRange)
	}
	if !mv.A.Less(mv.B) || m.At(mv.A) == m.At(mv.B) {
		return nil, fmt.Errorf("Apply: %s: %w", mv, ErrNotAMove)
	}
	c := m.Clone()
	i, j := c.index(mv.A), c.index(mv.B)
	c.cells[i], c.cells[j] = c.cells[j], c.cells[i]

	return c, nil
}

// Clone returns an independent copy.
func (m *Matrix) Clone() *Matrix {
	c := *m
	c.cells = append([]bool(nil), m.cells...)

	return &c
}

// Roadmap converts the matrix back to a roadmap without checking any
// invariant. A column with several true cells yields a story listed under
// several sprints; use IsFeasible on the result.
func (m *Matrix) Roadmap() (*roadmap.Roadmap, error) {
	members := make(map[int][]int, len(m.sprints))
	for row, ord := range m.sprints {
		for col, id := range m.stories {
			if m.cells[row*len(m.stories)+col] {
				members[ord] = append(members[ord], id)
			}
		}
	}

	return roadmap.FromMembers(m.b, members)
}

// Sprint returns the ordinal of row.
func (m *Matrix) Sprint(row int) int { return m.sprints[row] }

// Story returns the id of column col.
func (m *Matrix) Story(col int) int { return m.stories[col] }

// String renders the matrix as rows of 0/1.
func (m *Matrix) String() string {
	var sb strings.Builder
	for row := range m.sprints {
		for col := range m.stories {
			if m.cells[row*len(m.stories)+col] {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (m *Matrix) inRange(c Cell) bool {
	return c.Row >= 0 && c.Row < len(m.sprints) && c.Col >= 0 && c.Col < len(m.stories)
}

func (m *Matrix) index(c Cell) int { return c.Row*len(m.stories) + c.Col }

func (m *Matrix) cell(i int) Cell { return Cell{Row: i / len(m.stories), Col: i % len(m.stories)} }
