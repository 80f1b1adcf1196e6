// SPDX-License-Identifier: MIT

package planio_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/planio"
)

const storiesCSV = `Story,Business Value,Story Points,Dependencies
0,2,6
1,8,3,0
2,2,1,1
3,6,4,1;2
`

const sprintsCSV = `Sprint,Capacity,Bonus
0,7,4
1,7,3
2,7,2
3,7,1
`

func TestReadStories(t *testing.T) {
	stories, err := planio.ReadStories(strings.NewReader(storiesCSV))
	require.NoError(t, err)
	require.Len(t, stories, 4)
	assert.Equal(t, backlog.Story{ID: 0, BusinessValue: 2, StoryPoints: 6}, stories[0])
	assert.Equal(t, []int{1, 2}, stories[3].Dependencies)

	// An empty dependency cell means no dependencies.
	stories, err = planio.ReadStories(strings.NewReader("h\n5, 1, 2,\n"))
	require.NoError(t, err)
	assert.Empty(t, stories[0].Dependencies)
	assert.Equal(t, 5, stories[0].ID)
}

func TestReadStories_Malformed(t *testing.T) {
	tests := []struct {
		name, in, line string
	}{
		{"too few fields", "h\n0,1\n", "line 2"},
		{"too many fields", "h\n0,1,2,3,4\n", "line 2"},
		{"bad number", "h\n0,1,2\n1,x,2\n", "line 3"},
		{"bad dependency", "h\n0,1,2\n1,1,2,0;;\n", "line 3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := planio.ReadStories(strings.NewReader(tc.in))
			assert.ErrorIs(t, err, planio.ErrMalformedRecord)
			assert.Contains(t, err.Error(), tc.line)
		})
	}

	_, err := planio.ReadStories(strings.NewReader(""))
	assert.ErrorIs(t, err, planio.ErrMissingHeader)
}

func TestReadSprints(t *testing.T) {
	sprints, err := planio.ReadSprints(strings.NewReader(sprintsCSV))
	require.NoError(t, err)
	require.Len(t, sprints, 4)
	assert.Equal(t, backlog.Sprint{Ordinal: 3, Capacity: 7, ValueBonus: 1}, sprints[3])

	_, err = planio.ReadSprints(strings.NewReader("h\n1,2\n"))
	assert.ErrorIs(t, err, planio.ErrMalformedRecord)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	sp := writeFile(t, dir, "sprints.csv", sprintsCSV)

	b, err := planio.LoadCSV(writeFile(t, dir, "stories.csv", storiesCSV), sp)
	require.NoError(t, err)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, 4, b.NumSprints())
	s2, _ := b.Story(2)
	assert.Equal(t, []int{3}, s2.Dependents)

	_, err = planio.LoadCSV(writeFile(t, dir, "dangling.csv", "h\n0,1,1,9\n"), sp)
	assert.ErrorIs(t, err, backlog.ErrUnknownDependency)

	_, err = planio.LoadCSV(writeFile(t, dir, "cycle.csv", "h\n0,1,1,1\n1,1,1,0\n"), sp)
	assert.ErrorIs(t, err, backlog.ErrCycleDetected)

	_, err = planio.LoadCSV(writeFile(t, dir, "bad.csv", "h\n0,1\n"), sp)
	assert.ErrorIs(t, err, planio.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "bad.csv")

	_, err = planio.LoadCSV(filepath.Join(dir, "missing.csv"), sp)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteCSV_ReadsBack(t *testing.T) {
	stories, err := planio.ReadStories(strings.NewReader(storiesCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, planio.WriteStoriesCSV(&buf, stories))
	assert.Equal(t, "id,business_value,story_points,dependencies\n0,2,6\n1,8,3,0\n2,2,1,1\n3,6,4,1;2\n", buf.String())

	again, err := planio.ReadStories(&buf)
	require.NoError(t, err)
	assert.Equal(t, stories, again)

	buf.Reset()
	require.NoError(t, planio.WriteSprintsCSV(&buf, []backlog.Sprint{{Ordinal: 1, Capacity: 5, ValueBonus: 2}}))
	assert.Equal(t, "ordinal,capacity,bonus\n1,5,2\n", buf.String())
}

const instanceYAML = `stories:
  - id: 0
    business_value: 2
    story_points: 6
  - id: 1
    business_value: 8
    story_points: 3
    dependencies: [0]
sprints:
  - ordinal: 0
    capacity: 7
    bonus: 4
`

func TestYAML(t *testing.T) {
	b, err := planio.ReadYAML(strings.NewReader(instanceYAML))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, b.StoryIDs())
	assert.Equal(t, 4, b.Bonus(backlog.Scheduled(0)))

	var buf bytes.Buffer
	require.NoError(t, planio.WriteYAML(&buf, b))
	assert.Contains(t, buf.String(), "dependencies: [0]")

	again, err := planio.ReadYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, b.Stories(), again.Stories())
	assert.Equal(t, b.Sprints(), again.Sprints())

	_, err = planio.ReadYAML(strings.NewReader("stories:\n  - id: 0\n    value: 3\n"))
	assert.ErrorIs(t, err, planio.ErrMalformedRecord)

	_, err = planio.ReadYAML(strings.NewReader(""))
	assert.ErrorIs(t, err, planio.ErrMalformedRecord)

	_, err = planio.ReadYAML(strings.NewReader("stories:\n  - id: 0\n    story_points: 0\n"))
	assert.ErrorIs(t, err, backlog.ErrNonPositivePoints)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	b, err := planio.LoadFile(writeFile(t, dir, "plan.yml", instanceYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())

	_, err = planio.LoadFile(writeFile(t, dir, "plan.txt", instanceYAML))
	assert.ErrorIs(t, err, planio.ErrUnsupportedFormat)
}
