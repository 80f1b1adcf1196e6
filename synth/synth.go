// SPDX-License-Identifier: MIT

package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/depgraph"
)

var (
	// ErrTooFewStories indicates fewer than one story.
	ErrTooFewStories = errors.New("synth: at least one story is required")

	// ErrNegativeSprints indicates a negative sprint count.
	ErrNegativeSprints = errors.New("synth: sprint count must be non-negative")

	// ErrInvalidProbability indicates a dependency probability outside [0, 1].
	ErrInvalidProbability = errors.New("synth: probability must be in [0,1]")

	// ErrInvalidRange indicates lo > hi or a range outside the field's domain.
	ErrInvalidRange = errors.New("synth: invalid range")

	// ErrBonusOverflow indicates a geometric schedule that does not fit in int.
	ErrBonusOverflow = errors.New("synth: bonus schedule overflows")

	// ErrUnknownSchedule indicates a schedule name ParseBonusSchedule does not know.
	ErrUnknownSchedule = errors.New("synth: unknown bonus schedule")
)

// BonusSchedule decides the value bonus of sprint s (0-based) out of n.
type BonusSchedule int

const (
	// Linear: bonus(s) = n − s, so the last sprint has bonus 1.
	Linear BonusSchedule = iota
	// Geometric: bonus(s) = ratio^(n−1−s).
	Geometric
	// Flat: bonus(s) = 1.
	Flat
)

func (s BonusSchedule) String() string {
	switch s {
	case Linear:
		return "linear"
	case Geometric:
		return "geometric"
	case Flat:
		return "flat"
	default:
		return fmt.Sprintf("schedule(%d)", int(s))
	}
}

// ParseBonusSchedule maps "linear", "geometric" or "flat" to a schedule.
func ParseBonusSchedule(name string) (BonusSchedule, error) {
	for _, s := range []BonusSchedule{Linear, Geometric, Flat} {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}

	return Linear, fmt.Errorf("%q: %w", name, ErrUnknownSchedule)
}

type config struct {
	seed             int64
	stories, sprints int
	p                float64
	valueLo, valueHi int
	pointLo, pointHi int
	capLo, capHi     int
	schedule         BonusSchedule
	ratio            int
}

// Option customizes Generate.
type Option func(*config)

// WithSeed sets the RNG seed; 0 means a fixed default.
func WithSeed(seed int64) Option { return func(c *config) { c.seed = seed } }

// WithStories sets the number of stories (ids 0..n−1).
func WithStories(n int) Option { return func(c *config) { c.stories = n } }

// WithSprints sets the number of sprints (ordinals 1..n).
func WithSprints(n int) Option { return func(c *config) { c.sprints = n } }

// WithDependencyProbability sets the per-pair edge probability.
func WithDependencyProbability(p float64) Option { return func(c *config) { c.p = p } }

// WithValueRange sets the inclusive business value range.
func WithValueRange(lo, hi int) Option {
	return func(c *config) { c.valueLo, c.valueHi = lo, hi }
}

// WithPointsRange sets the inclusive story point range.
func WithPointsRange(lo, hi int) Option {
	return func(c *config) { c.pointLo, c.pointHi = lo, hi }
}

// WithCapacityRange sets the inclusive sprint capacity range.
func WithCapacityRange(lo, hi int) Option {
	return func(c *config) { c.capLo, c.capHi = lo, hi }
}

// WithBonus sets the bonus schedule; ratio is used by Geometric only.
func WithBonus(s BonusSchedule, ratio int) Option {
	return func(c *config) { c.schedule, c.ratio = s, ratio }
}

// Result is a generated instance plus edge statistics.
type Result struct {
	Backlog       *backlog.Backlog
	AcceptedEdges int
	// RejectedEdges counts candidate edges rolled back because they closed a cycle.
	RejectedEdges int
}

// Generate builds a random acyclic instance.
// Defaults: 10 stories, 4 sprints, p = 0.1, values 1..10, points 1..8,
// capacities 10..20, linear bonus.
func Generate(opts ...Option) (Result, error) {
	cfg := config{
		stories: 10, sprints: 4, p: 0.1,
		valueLo: 1, valueHi: 10,
		pointLo: 1, pointHi: 8,
		capLo: 10, capHi: 20,
		schedule: Linear, ratio: 2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// 1) Validate parameters (no side effects on failure).
	if err := cfg.validate(); err != nil {
		return Result{}, fmt.Errorf("Generate: %w", err)
	}
	bonuses, err := cfg.bonuses()
	if err != nil {
		return Result{}, fmt.Errorf("Generate: %w", err)
	}
	seed := cfg.seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	// 2) Stories, ids ascending.
	stories := make([]backlog.Story, cfg.stories)
	g := depgraph.New()
	for i := range stories {
		stories[i] = backlog.Story{
			ID:            i,
			BusinessValue: uniform(rng, cfg.valueLo, cfg.valueHi),
			StoryPoints:   uniform(rng, cfg.pointLo, cfg.pointHi),
		}
		g.AddVertex(i)
	}

	// 3) Dependency trials in a stable order with cycle rollback.
	var res Result
	for i := 0; i < cfg.stories; i++ {
		for j := 0; j < cfg.stories; j++ {
			if i == j || rng.Float64() >= cfg.p {
				continue
			}
			ok, err := g.TryAddEdge(i, j)
			if err != nil {
				return Result{}, fmt.Errorf("Generate: edge %d→%d: %w", i, j, err)
			}
			if ok {
				res.AcceptedEdges++
			} else {
				res.RejectedEdges++
			}
		}
	}
	for i := range stories {
		stories[i].Dependencies = g.Dependencies(i)
	}

	// 4) Sprints, ordinals 1..n.
	sprints := make([]backlog.Sprint, cfg.sprints)
	for s := range sprints {
		sprints[s] = backlog.Sprint{Ordinal: s + 1, Capacity: uniform(rng, cfg.capLo, cfg.capHi), ValueBonus: bonuses[s]}
	}

	res.Backlog, err = backlog.New(stories, sprints)
	if err != nil {
		return Result{}, fmt.Errorf("Generate: %w", err)
	}

	return res, nil
}

func (c config) validate() error {
	switch {
	case c.stories < 1:
		return fmt.Errorf("stories=%d: %w", c.stories, ErrTooFewStories)
	case c.sprints < 0:
		return fmt.Errorf("sprints=%d: %w", c.sprints, ErrNegativeSprints)
	case math.IsNaN(c.p) || c.p < 0 || c.p > 1:
		return fmt.Errorf("p=%g: %w", c.p, ErrInvalidProbability)
	case c.valueLo < 0 || c.valueLo > c.valueHi:
		return fmt.Errorf("value [%d,%d]: %w", c.valueLo, c.valueHi, ErrInvalidRange)
	case c.pointLo < 1 || c.pointLo > c.pointHi:
		return fmt.Errorf("points [%d,%d]: %w", c.pointLo, c.pointHi, ErrInvalidRange)
	case c.capLo < 0 || c.capLo > c.capHi:
		return fmt.Errorf("capacity [%d,%d]: %w", c.capLo, c.capHi, ErrInvalidRange)
	case c.schedule == Geometric && c.ratio < 1:
		return fmt.Errorf("ratio=%d: %w", c.ratio, ErrInvalidRange)
	}

	return nil
}

// bonuses evaluates the schedule for every sprint.
func (c config) bonuses() ([]int, error) {
	out := make([]int, c.sprints)
	for s := range out {
		switch c.schedule {
		case Linear:
			out[s] = c.sprints - s
		case Geometric:
			v := 1
			for k := 0; k < c.sprints-1-s; k++ {
				if v > math.MaxInt/c.ratio {
					return nil, fmt.Errorf("ratio %d over %d sprints: %w", c.ratio, c.sprints, ErrBonusOverflow)
				}
				v *= c.ratio
			}
			out[s] = v
		default:
			out[s] = 1
		}
	}

	return out, nil
}

func uniform(rng *rand.Rand, lo, hi int) int { return lo + rng.Intn(hi-lo+1) }
