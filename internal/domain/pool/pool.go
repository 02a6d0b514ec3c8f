// Package pool builds the tradable player pool for one game from the
// catalog, using stratified random sampling by fantasy-point tier.
package pool

import (
	"math/rand"
	"time"

	"github.com/hooplab/draftarena/internal/domain/model"
)

// Tier boundaries and draw targets. A tier with fewer members than its
// target is taken whole; any shortfall against Size is filled with uniform
// random picks from the unused remainder of the catalog.
const (
	// Size is the pool size at game start.
	Size = 24

	// MinViableFantasyPoints is the catalog floor; players below it never
	// enter a draft pool.
	MinViableFantasyPoints = 8.0

	eliteFloor = 40.0
	goodFloor  = 25.0
	midFloor   = 15.0

	eliteTarget = 5
	goodTarget  = 7
	midTarget   = 7
	roleTarget  = 5
)

// Selector draws draft pools. The randomness source is explicit so callers
// can fix the seed and reproduce a selection.
type Selector struct {
	rng  *rand.Rand
	size int
}

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithRand sets the randomness source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSize overrides the pool size.
func WithSize(size int) Option {
	return func(s *Selector) {
		if size > 0 {
			s.size = size
		}
	}
}

// NewSelector creates a Selector. Without WithRand it seeds from the clock.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // sampling bias, not security
		size: Size,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select draws a pool from the catalog: up to 5 elite (>=40), 7 good
// [25,40), 7 mid [15,25) and 5 role [8,15) players, topped up at random
// from the unused remainder until the pool size is reached or the catalog
// is exhausted. The final order is shuffled.
func (s *Selector) Select(catalog []model.Player) []model.Player {
	viable := make([]model.Player, 0, len(catalog))
	for _, p := range catalog {
		if p.FantasyPoints >= MinViableFantasyPoints {
			viable = append(viable, p)
		}
	}

	var elite, good, mid, role []model.Player
	for _, p := range viable {
		switch {
		case p.FantasyPoints >= eliteFloor:
			elite = append(elite, p)
		case p.FantasyPoints >= goodFloor:
			good = append(good, p)
		case p.FantasyPoints >= midFloor:
			mid = append(mid, p)
		default:
			role = append(role, p)
		}
	}

	selected := make([]model.Player, 0, s.size)
	chosen := make(map[int]bool, s.size)
	for _, draw := range []struct {
		tier   []model.Player
		target int
	}{
		{elite, eliteTarget},
		{good, goodTarget},
		{mid, midTarget},
		{role, roleTarget},
	} {
		for _, p := range s.sample(draw.tier, draw.target) {
			selected = append(selected, p)
			chosen[p.ID] = true
		}
	}

	// Fill any shortfall from whatever is left in the catalog.
	for len(selected) < s.size {
		remaining := make([]model.Player, 0, len(viable))
		for _, p := range viable {
			if !chosen[p.ID] {
				remaining = append(remaining, p)
			}
		}
		if len(remaining) == 0 {
			break
		}
		p := remaining[s.rng.Intn(len(remaining))]
		selected = append(selected, p)
		chosen[p.ID] = true
	}

	s.rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	if len(selected) > s.size {
		selected = selected[:s.size]
	}
	return selected
}

// sample draws n members from tier without replacement. Short tiers are
// returned whole.
func (s *Selector) sample(tier []model.Player, n int) []model.Player {
	if n > len(tier) {
		n = len(tier)
	}
	shuffled := make([]model.Player, len(tier))
	copy(shuffled, tier)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
