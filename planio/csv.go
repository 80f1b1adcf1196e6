// SPDX-License-Identifier: MIT

package planio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/sprintplan/backlog"
)

var (
	// ErrMalformedRecord indicates a row with missing or unparseable fields.
	ErrMalformedRecord = errors.New("planio: malformed record")

	// ErrMissingHeader indicates an input without even a header row.
	ErrMissingHeader = errors.New("planio: missing header row")

	// ErrUnsupportedFormat indicates a file extension LoadFile cannot read.
	ErrUnsupportedFormat = errors.New("planio: unsupported format")
)

// Header rows written by the CSV writers.
var (
	StoriesHeader = []string{"id", "business_value", "story_points", "dependencies"}
	SprintsHeader = []string{"ordinal", "capacity", "bonus"}
)

// ReadStories parses the stories table.
func ReadStories(r io.Reader) ([]backlog.Story, error) {
	var out []backlog.Story
	err := readTable(r, func(line int, rec []string) error {
		if len(rec) < 3 || len(rec) > 4 {
			return fmt.Errorf("line %d: %d fields, want 3 or 4: %w", line, len(rec), ErrMalformedRecord)
		}
		nums, err := atois(line, rec[:3], "id", "business value", "story points")
		if err != nil {
			return err
		}
		st := backlog.Story{ID: nums[0], BusinessValue: nums[1], StoryPoints: nums[2]}
		if len(rec) == 4 && strings.TrimSpace(rec[3]) != "" {
			for _, tok := range strings.Split(rec[3], ";") {
				d, err := strconv.Atoi(strings.TrimSpace(tok))
				if err != nil {
					return fmt.Errorf("line %d: dependency %q: %w", line, tok, ErrMalformedRecord)
				}
				st.Dependencies = append(st.Dependencies, d)
			}
		}
		out = append(out, st)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ReadStories: %w", err)
	}

	return out, nil
}

// ReadSprints parses the sprints table.
func ReadSprints(r io.Reader) ([]backlog.Sprint, error) {
	var out []backlog.Sprint
	err := readTable(r, func(line int, rec []string) error {
		if len(rec) != 3 {
			return fmt.Errorf("line %d: %d fields, want 3: %w", line, len(rec), ErrMalformedRecord)
		}
		nums, err := atois(line, rec, "ordinal", "capacity", "bonus")
		if err != nil {
			return err
		}
		out = append(out, backlog.Sprint{Ordinal: nums[0], Capacity: nums[1], ValueBonus: nums[2]})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ReadSprints: %w", err)
	}

	return out, nil
}

// LoadCSV reads both tables from disk and validates the instance.
func LoadCSV(storiesPath, sprintsPath string) (*backlog.Backlog, error) {
	stories, err := readFile(storiesPath, ReadStories)
	if err != nil {
		return nil, err
	}
	sprints, err := readFile(sprintsPath, ReadSprints)
	if err != nil {
		return nil, err
	}
	b, err := backlog.New(stories, sprints)
	if err != nil {
		return nil, fmt.Errorf("LoadCSV: %w", err)
	}

	return b, nil
}

// WriteStoriesCSV writes stories in the format ReadStories accepts.
func WriteStoriesCSV(w io.Writer, stories []backlog.Story) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StoriesHeader); err != nil {
		return err
	}
	for _, st := range stories {
		deps := make([]string, len(st.Dependencies))
		for i, d := range st.Dependencies {
			deps[i] = strconv.Itoa(d)
		}
		rec := []string{strconv.Itoa(st.ID), strconv.Itoa(st.BusinessValue), strconv.Itoa(st.StoryPoints)}
		if len(deps) > 0 {
			rec = append(rec, strings.Join(deps, ";"))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteSprintsCSV writes sprints in the format ReadSprints accepts.
func WriteSprintsCSV(w io.Writer, sprints []backlog.Sprint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SprintsHeader); err != nil {
		return err
	}
	for _, sp := range sprints {
		if err := cw.Write([]string{strconv.Itoa(sp.Ordinal), strconv.Itoa(sp.Capacity), strconv.Itoa(sp.ValueBonus)}); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// readTable skips the header and calls fn for every following record.
func readTable(r io.Reader, fn func(line int, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrMissingHeader
		}
		return fmt.Errorf("header: %w: %w", ErrMalformedRecord, err)
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		line, _ := cr.FieldPos(0)
		if err = fn(line, rec); err != nil {
			return err
		}
	}
}

func atois(line int, fields []string, names ...string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s %q: %w", line, names[i], f, ErrMalformedRecord)
		}
		out[i] = n
	}

	return out, nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}

	return v, nil
}
