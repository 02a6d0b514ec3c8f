// Package auction runs the two-bot draft: the turn-taking loop, the
// per-player bidding protocol, budget accounting and the event stream.
package auction

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/hooplab/draftarena/internal/domain/decision"
	"github.com/hooplab/draftarena/internal/domain/model"
	"github.com/hooplab/draftarena/internal/domain/scoring"
	"github.com/hooplab/draftarena/pkg/logger"
	"github.com/hooplab/draftarena/pkg/metrics"
)

// Default engine limits.
const (
	// DefaultTurnCap bounds turn iterations; it only matters when both
	// providers keep failing, since the pool otherwise drains first.
	DefaultTurnCap = 200

	// DefaultBidRoundCap bounds counter rounds for one player.
	DefaultBidRoundCap = 20

	// DefaultStartingBalance is each side's budget in credits.
	DefaultStartingBalance = 100
)

// side is one bot's mutable in-game state.
type side struct {
	key     string // "bot1" or "bot2", stable wire identity
	bot     model.Bot
	balance int
	team    []model.DraftPick
}

// openAuction is the transient state of one player's bidding loop.
type openAuction struct {
	player     model.Player
	currentBid int
	bidderIdx  int
}

// Engine drives exactly one game. It is not reusable: construct a new
// Engine per game. All state mutations happen on the Run goroutine between
// decision calls; nothing is shared across engines.
type Engine struct {
	provider decision.Provider
	pool     []model.Player
	sides    [2]*side

	turnCap         int
	bidRoundCap     int
	startingBalance int

	rng *rand.Rand
	log logger.Logger

	gameLog    []string
	draftOrder int
}

// New creates an engine for one game over the given pool. The provider's
// raw answers are repaired at the boundary; the engine itself only sees
// legal decisions.
func New(bot1, bot2 model.Bot, pool []model.Player, provider decision.Provider, opts ...Option) *Engine {
	e := &Engine{
		provider:        decision.Validated(provider),
		pool:            append([]model.Player(nil), pool...),
		turnCap:         DefaultTurnCap,
		bidRoundCap:     DefaultBidRoundCap,
		startingBalance: DefaultStartingBalance,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // first-mover coin flip
		log:             logger.Get().Named("auction"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sides[0] = &side{key: "bot1", bot: bot1, balance: e.startingBalance}
	e.sides[1] = &side{key: "bot2", bot: bot2, balance: e.startingBalance}
	return e
}

// Run starts the game and returns its event stream. The channel is closed
// after the game_complete event, or as soon as ctx is cancelled; an
// abandoned game does no scoring or further work.
func (e *Engine) Run(ctx context.Context) <-chan Event {
	ch := make(chan Event)
	go func() {
		defer close(ch)
		e.run(ctx, ch)
	}()
	return ch
}

// RunToCompletion drains the event stream and returns the terminal result.
// It is behaviorally identical to Run, just buffered.
func (e *Engine) RunToCompletion(ctx context.Context) (*Result, error) {
	var result *Result
	for ev := range e.Run(ctx) {
		if ev.Type == TypeGameComplete {
			result = ev.Result
		}
	}
	if result == nil {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("game abandoned: %w", err)
		}
		return nil, ErrNoResult
	}
	return result, nil
}

func (e *Engine) run(ctx context.Context, ch chan<- Event) {
	metrics.RecordGameStarted()
	start := time.Now()
	completed := false
	defer func() {
		if !completed {
			metrics.RecordGameAbandoned()
		}
	}()

	activeIdx := e.rng.Intn(2)
	if !e.say(ctx, ch, fmt.Sprintf("Game started! %s goes first.", e.sides[activeIdx].bot.Name)) {
		return
	}
	if !e.say(ctx, ch, "---") {
		return
	}

	turns := 0
	for len(e.pool) > 0 && turns < e.turnCap {
		turns++

		if e.sides[0].balance == 0 && e.sides[1].balance == 0 {
			break
		}

		active := e.sides[activeIdx]
		if active.balance == 0 {
			// Broke bots cannot open an auction; the turn passes without
			// consuming a player.
			activeIdx = passTurn(activeIdx)
			continue
		}

		winnerIdx, ok := e.playTurn(ctx, ch, activeIdx)
		if !ok {
			return
		}
		if winnerIdx < 0 {
			// Opening bid failed; the turn was forfeited.
			activeIdx = passTurn(activeIdx)
			continue
		}
		activeIdx = turnAfterWin(winnerIdx)
	}

	completed = e.finish(ctx, ch, start)
}

// playTurn auctions one player for the active side. It returns the winning
// side's index, -1 when the opening bid failed, and ok=false when the
// caller cancelled.
func (e *Engine) playTurn(ctx context.Context, ch chan<- Event, activeIdx int) (int, bool) {
	active := e.sides[activeIdx]
	opp := e.sides[passTurn(activeIdx)]

	open, err := e.openBid(ctx, active, opp)
	if err != nil {
		if ctx.Err() != nil {
			return 0, false
		}
		metrics.RecordDecisionError("open_bid")
		e.log.Warn(ctx, "opening bid failed",
			logger.String("bot", active.bot.Name),
			logger.Error(err),
		)
		return -1, e.say(ctx, ch, fmt.Sprintf("%s had an error making a bid: %v", active.bot.Name, err))
	}

	player, found := e.findPlayer(open.PlayerID)
	if !found {
		// Unreachable after boundary repair against a non-empty pool.
		return -1, true
	}

	auc := openAuction{player: player, currentBid: open.Amount, bidderIdx: activeIdx}
	if !e.say(ctx, ch, fmt.Sprintf("%s bids %d credits for %s (Fantasy: %s)",
		active.bot.Name, auc.currentBid, player.FullName(), formatPoints(player.FantasyPoints))) {
		return 0, false
	}
	if !e.say(ctx, ch, fmt.Sprintf("  💭 %s: %s", active.bot.Name, open.Reasoning)) {
		return 0, false
	}

	winnerIdx, ok := e.runBidding(ctx, ch, &auc)
	if !ok {
		return 0, false
	}
	return winnerIdx, e.resolve(ctx, ch, &auc, winnerIdx)
}

// runBidding runs the counter/concede rounds for one player and returns the
// winning side's index. Within one call the bid sequence is strictly
// increasing.
func (e *Engine) runBidding(ctx context.Context, ch chan<- Event, auc *openAuction) (int, bool) {
	for round := 0; round < e.bidRoundCap; round++ {
		bidder := e.sides[auc.bidderIdx]
		responderIdx := passTurn(auc.bidderIdx)
		responder := e.sides[responderIdx]

		if responder.balance == 0 {
			ok := e.say(ctx, ch, fmt.Sprintf("%s has no credits. %s wins %s for %d!",
				responder.bot.Name, bidder.bot.Name, auc.player.FullName(), auc.currentBid))
			return auc.bidderIdx, ok
		}

		resp, err := e.respondToBid(ctx, responder, bidder, auc)
		if err != nil {
			if ctx.Err() != nil {
				return 0, false
			}
			metrics.RecordDecisionError("respond_to_bid")
			e.log.Warn(ctx, "bid response failed",
				logger.String("bot", responder.bot.Name),
				logger.Error(err),
			)
			ok := e.say(ctx, ch, fmt.Sprintf("%s had an error: %v. Auto-folding.", responder.bot.Name, err))
			return auc.bidderIdx, ok
		}

		if !e.say(ctx, ch, fmt.Sprintf("  💭 %s: %s", responder.bot.Name, resp.Reasoning)) {
			return 0, false
		}

		switch resp.Action {
		case decision.ActionCounter:
			auc.currentBid = resp.Amount
			auc.bidderIdx = responderIdx
			metrics.RecordBid()
			if !e.say(ctx, ch, fmt.Sprintf("%s counters with %d credits", responder.bot.Name, auc.currentBid)) {
				return 0, false
			}
		case decision.ActionAccept:
			ok := e.say(ctx, ch, fmt.Sprintf("%s accepts. %s wins %s for %d!",
				responder.bot.Name, bidder.bot.Name, auc.player.FullName(), auc.currentBid))
			return auc.bidderIdx, ok
		default:
			ok := e.say(ctx, ch, fmt.Sprintf("%s folds. %s wins %s for %d!",
				responder.bot.Name, bidder.bot.Name, auc.player.FullName(), auc.currentBid))
			return auc.bidderIdx, ok
		}
	}
	// Round cap exhausted: whoever holds the bid wins at the current price.
	return auc.bidderIdx, true
}

// resolve awards the player, debits the winner, shrinks the pool and emits
// the draft event.
func (e *Engine) resolve(ctx context.Context, ch chan<- Event, auc *openAuction, winnerIdx int) bool {
	winner := e.sides[winnerIdx]

	e.draftOrder++
	pick := model.DraftPick{
		PlayerID:      auc.player.ID,
		FirstName:     auc.player.FirstName,
		LastName:      auc.player.LastName,
		FantasyPoints: auc.player.FantasyPoints,
		BidAmount:     auc.currentBid,
		DraftOrder:    e.draftOrder,
	}
	winner.team = append(winner.team, pick)
	winner.balance -= auc.currentBid
	e.removePlayer(auc.player.ID)
	metrics.RecordDraft()

	if !e.emit(ctx, ch, Event{Type: TypeDraft, Draft: &Draft{
		BotKey:      winner.key,
		Pick:        pick,
		Bot1Balance: e.sides[0].balance,
		Bot2Balance: e.sides[1].balance,
	}}) {
		return false
	}
	if !e.say(ctx, ch, fmt.Sprintf("  Balances: %s=%d, %s=%d",
		e.sides[0].bot.Name, e.sides[0].balance, e.sides[1].bot.Name, e.sides[1].balance)) {
		return false
	}
	return e.say(ctx, ch, "---")
}

// finish computes both scores and emits the terminal summary. It reports
// whether the game_complete event was delivered.
func (e *Engine) finish(ctx context.Context, ch chan<- Event, start time.Time) bool {
	score1 := scoring.TeamScore(e.sides[0].team)
	score2 := scoring.TeamScore(e.sides[1].team)

	if !e.say(ctx, ch, "=== GAME COMPLETE ===") {
		return false
	}
	for i, score := range []float64{score1, score2} {
		s := e.sides[i]
		if !e.say(ctx, ch, fmt.Sprintf("%s: %d players drafted, Top 5 score: %s",
			s.bot.Name, len(s.team), formatPoints(score))) {
			return false
		}
	}

	result := &Result{
		Bot1Score: score1,
		Bot2Score: score2,
		Bot1Team:  e.sides[0].team,
		Bot2Team:  e.sides[1].team,
	}
	winnerLabel := "Tie!"
	switch {
	case score1 > score2:
		result.WinnerKey = e.sides[0].key
		winnerLabel = e.sides[0].bot.Name
	case score2 > score1:
		result.WinnerKey = e.sides[1].key
		winnerLabel = e.sides[1].bot.Name
	default:
		result.Tie = true
	}
	if !e.say(ctx, ch, fmt.Sprintf("Winner: %s", winnerLabel)) {
		return false
	}

	result.GameLog = e.gameLog
	if !e.emit(ctx, ch, Event{Type: TypeGameComplete, Result: result}) {
		return false
	}
	metrics.RecordGameCompleted(time.Since(start))
	return true
}

func (e *Engine) openBid(ctx context.Context, active, opp *side) (decision.OpenBidDecision, error) {
	start := time.Now()
	defer func() { metrics.RecordDecisionLatency("open_bid", time.Since(start)) }()
	return e.provider.OpenBid(ctx, decision.OpenBidRequest{
		Strategy:        active.bot.StrategyPrompt,
		Available:       e.pool,
		Balance:         active.balance,
		OpponentBalance: opp.balance,
		MyTeam:          active.team,
		OpponentTeam:    opp.team,
	})
}

func (e *Engine) respondToBid(ctx context.Context, responder, bidder *side, auc *openAuction) (decision.RespondDecision, error) {
	start := time.Now()
	defer func() { metrics.RecordDecisionLatency("respond_to_bid", time.Since(start)) }()
	return e.provider.RespondToBid(ctx, decision.RespondRequest{
		Strategy:        responder.bot.StrategyPrompt,
		Player:          auc.player,
		CurrentBid:      auc.currentBid,
		BidderName:      bidder.bot.Name,
		Balance:         responder.balance,
		OpponentBalance: bidder.balance,
		MyTeam:          responder.team,
		OpponentTeam:    bidder.team,
		PoolSize:        len(e.pool),
	})
}

// say emits a log event and appends it to the running game log.
func (e *Engine) say(ctx context.Context, ch chan<- Event, msg string) bool {
	e.gameLog = append(e.gameLog, msg)
	return e.emit(ctx, ch, logEvent(msg))
}

// emit delivers an event unless the caller has cancelled.
func (e *Engine) emit(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- ev:
		return true
	}
}

func (e *Engine) findPlayer(id int) (model.Player, bool) {
	for _, p := range e.pool {
		if p.ID == id {
			return p, true
		}
	}
	return model.Player{}, false
}

func (e *Engine) removePlayer(id int) {
	for i, p := range e.pool {
		if p.ID == id {
			e.pool = append(e.pool[:i], e.pool[i+1:]...)
			return
		}
	}
}

// passTurn hands the turn to the other side after a skip or a forfeited
// opening bid.
func passTurn(idx int) int { return 1 - idx }

// turnAfterWin gives the next turn to the side that lost the auction; the
// winner never moves twice in a row.
func turnAfterWin(winnerIdx int) int { return 1 - winnerIdx }

// formatPoints renders fantasy points without trailing zeros.
func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
