// SPDX-License-Identifier: MIT

package planio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/sprintplan/backlog"
)

// Instance is the YAML document layout.
type Instance struct {
	Stories []StoryRecord  `yaml:"stories"`
	Sprints []SprintRecord `yaml:"sprints"`
}

// StoryRecord is one story row.
type StoryRecord struct {
	ID            int   `yaml:"id"`
	BusinessValue int   `yaml:"business_value"`
	StoryPoints   int   `yaml:"story_points"`
	Dependencies  []int `yaml:"dependencies,omitempty,flow"`
}

// SprintRecord is one sprint row.
type SprintRecord struct {
	Ordinal  int `yaml:"ordinal"`
	Capacity int `yaml:"capacity"`
	Bonus    int `yaml:"bonus"`
}

// ReadYAML decodes an Instance and validates it. Unknown keys are rejected.
func ReadYAML(r io.Reader) (*backlog.Backlog, error) {
	var inst Instance
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&inst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("ReadYAML: empty document: %w", ErrMalformedRecord)
		}
		return nil, fmt.Errorf("ReadYAML: %w: %w", ErrMalformedRecord, err)
	}
	b, err := inst.Backlog()
	if err != nil {
		return nil, fmt.Errorf("ReadYAML: %w", err)
	}

	return b, nil
}

// WriteYAML encodes b as an Instance.
func WriteYAML(w io.Writer, b *backlog.Backlog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromBacklog(b)); err != nil {
		return fmt.Errorf("WriteYAML: %w", err)
	}

	return enc.Close()
}

// Backlog validates the records with backlog.New.
func (inst Instance) Backlog() (*backlog.Backlog, error) {
	stories := make([]backlog.Story, len(inst.Stories))
	for i, s := range inst.Stories {
		stories[i] = backlog.Story{ID: s.ID, BusinessValue: s.BusinessValue, StoryPoints: s.StoryPoints, Dependencies: s.Dependencies}
	}
	sprints := make([]backlog.Sprint, len(inst.Sprints))
	for i, s := range inst.Sprints {
		sprints[i] = backlog.Sprint{Ordinal: s.Ordinal, Capacity: s.Capacity, ValueBonus: s.Bonus}
	}

	return backlog.New(stories, sprints)
}

// FromBacklog converts b to records in ascending id and ordinal order.
func FromBacklog(b *backlog.Backlog) Instance {
	var inst Instance
	for _, s := range b.Stories() {
		inst.Stories = append(inst.Stories, StoryRecord{
			ID: s.ID, BusinessValue: s.BusinessValue, StoryPoints: s.StoryPoints, Dependencies: s.Dependencies,
		})
	}
	for _, s := range b.Sprints() {
		inst.Sprints = append(inst.Sprints, SprintRecord{Ordinal: s.Ordinal, Capacity: s.Capacity, Bonus: s.ValueBonus})
	}

	return inst
}

// LoadFile reads a YAML instance from path (.yaml or .yml).
// CSV instances span two files; use LoadCSV for them.
func LoadFile(path string) (*backlog.Backlog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return readFile(path, ReadYAML)
	default:
		return nil, fmt.Errorf("LoadFile: %s: %w", path, ErrUnsupportedFormat)
	}
}
