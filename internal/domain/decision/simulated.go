package decision

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hooplab/draftarena/internal/domain/model"
)

// Default simulation parameters.
const (
	defaultMinLatency = 80 * time.Millisecond
	defaultMaxLatency = 150 * time.Millisecond
	defaultRandomSeed = 42

	baseAggression    = 1.0
	aggressionStep    = 0.4
	restraintStep     = 0.3
	openingBidFactor  = 0.5
	walkAwayFactor    = 0.8
	maxCounterJitter  = 3
	shortlistSize     = 3
)

// Option applies a configuration option to the SimulatedProvider.
type Option func(*SimulatedProvider)

// WithLatencyRange sets the simulated decision latency range.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(p *SimulatedProvider) {
		if minLatency > 0 && maxLatency > minLatency {
			p.minLatency = minLatency
			p.maxLatency = maxLatency
		}
	}
}

// WithRand sets the randomness source, fixing the provider's behavior for a
// given seed.
func WithRand(rng *rand.Rand) Option {
	return func(p *SimulatedProvider) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// SimulatedProvider implements Provider with an in-process model of the
// strategy agent. It reads the strategy text for coarse intent keywords and
// simulates the latency of an external call. Deterministic under a fixed
// randomness source.
type SimulatedProvider struct {
	minLatency time.Duration
	maxLatency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedProvider creates a provider with configuration options.
func NewSimulatedProvider(opts ...Option) *SimulatedProvider {
	p := &SimulatedProvider{
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
		rng:        rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible games
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ Provider = (*SimulatedProvider)(nil)

// profile captures the coarse bidding posture read from the strategy text.
type profile struct {
	aggression float64
	blocker    bool
	starChaser bool
}

func readProfile(strategy string) profile {
	s := strings.ToLower(strategy)
	pr := profile{aggression: baseAggression}
	for _, kw := range []string{"aggressive", "all in", "spend", "dominate"} {
		if strings.Contains(s, kw) {
			pr.aggression += aggressionStep
			break
		}
	}
	for _, kw := range []string{"conservative", "patient", "cheap", "value", "bargain"} {
		if strings.Contains(s, kw) {
			pr.aggression -= restraintStep
			break
		}
	}
	pr.blocker = strings.Contains(s, "block") || strings.Contains(s, "deny")
	pr.starChaser = strings.Contains(s, "star") || strings.Contains(s, "elite") || strings.Contains(s, "superstar")
	return pr
}

// OpenBid picks a target player and an opening price from the strategy
// profile.
func (p *SimulatedProvider) OpenBid(ctx context.Context, req OpenBidRequest) (OpenBidDecision, error) {
	if err := p.simulateLatency(ctx); err != nil {
		return OpenBidDecision{}, err
	}
	if len(req.Available) == 0 {
		return OpenBidDecision{}, ErrEmptyPool
	}

	pr := readProfile(req.Strategy)

	// Rank the pool by fantasy points and pick from a short list; star
	// chasers always take the top of it.
	shortlist := topByFantasyPoints(req.Available, shortlistSize)
	p.mu.Lock()
	idx := 0
	if !pr.starChaser && len(shortlist) > 1 {
		idx = p.rng.Intn(len(shortlist))
	}
	target := shortlist[idx]

	amount := int(target.FantasyPoints * openingBidFactor * pr.aggression)
	if amount > 0 {
		amount -= p.rng.Intn(maxCounterJitter)
	}
	p.mu.Unlock()
	if amount < 1 {
		amount = 1
	}
	if amount > req.Balance {
		amount = req.Balance
	}

	return OpenBidDecision{
		PlayerID: target.ID,
		Amount:   amount,
		Reasoning: fmt.Sprintf("%s projects for %.1f fantasy points; opening at %d fits my plan",
			target.FullName(), target.FantasyPoints, amount),
	}, nil
}

// RespondToBid counters while the price stays under the profile's walk-away
// point and concedes once it does not.
func (p *SimulatedProvider) RespondToBid(ctx context.Context, req RespondRequest) (RespondDecision, error) {
	if err := p.simulateLatency(ctx); err != nil {
		return RespondDecision{}, err
	}

	pr := readProfile(req.Strategy)

	walkAway := int(req.Player.FantasyPoints * walkAwayFactor * pr.aggression)
	if pr.blocker {
		// Blockers pay over the odds to keep players away from the opponent.
		walkAway += walkAway / 2
	}

	if req.CurrentBid >= walkAway || req.CurrentBid+1 > req.Balance {
		return RespondDecision{
			Action: ActionFold,
			Reasoning: fmt.Sprintf("%d credits is past my limit for %s",
				req.CurrentBid, req.Player.FullName()),
		}, nil
	}

	p.mu.Lock()
	amount := req.CurrentBid + 1 + p.rng.Intn(maxCounterJitter)
	p.mu.Unlock()
	if amount > req.Balance {
		amount = req.Balance
	}
	if amount > walkAway {
		amount = walkAway
	}
	if amount <= req.CurrentBid {
		return RespondDecision{
			Action: ActionAccept,
			Reasoning: fmt.Sprintf("no room left to raise on %s at %d",
				req.Player.FullName(), req.CurrentBid),
		}, nil
	}

	return RespondDecision{
		Action: ActionCounter,
		Amount: amount,
		Reasoning: fmt.Sprintf("%s is still worth more than %d to me",
			req.Player.FullName(), req.CurrentBid),
	}, nil
}

func (p *SimulatedProvider) simulateLatency(ctx context.Context) error {
	p.mu.Lock()
	latency := p.minLatency + time.Duration(p.rng.Int63n(int64(p.maxLatency-p.minLatency)))
	p.mu.Unlock()
	select {
	case <-ctx.Done():
		return fmt.Errorf("decision cancelled: %w", ctx.Err())
	case <-time.After(latency):
		return nil
	}
}

func topByFantasyPoints(players []model.Player, n int) []model.Player {
	sorted := make([]model.Player, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FantasyPoints > sorted[j].FantasyPoints
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
