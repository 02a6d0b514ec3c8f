package auction_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/hooplab/draftarena/internal/domain/auction"
	"github.com/hooplab/draftarena/internal/domain/decision"
	"github.com/hooplab/draftarena/internal/domain/model"
)

// fakeProvider answers with the configured functions; nil functions fold or
// fail, keeping tests explicit about the behavior they script.
type fakeProvider struct {
	openFn    func(req decision.OpenBidRequest) (decision.OpenBidDecision, error)
	respondFn func(req decision.RespondRequest) (decision.RespondDecision, error)
}

func (f *fakeProvider) OpenBid(_ context.Context, req decision.OpenBidRequest) (decision.OpenBidDecision, error) {
	if f.openFn == nil {
		return decision.OpenBidDecision{}, errors.New("no open bid scripted")
	}
	return f.openFn(req)
}

func (f *fakeProvider) RespondToBid(_ context.Context, req decision.RespondRequest) (decision.RespondDecision, error) {
	if f.respondFn == nil {
		return decision.RespondDecision{Action: decision.ActionFold, Reasoning: "folding"}, nil
	}
	return f.respondFn(req)
}

// openBest bids amount on the highest-value available player.
func openBest(amount int) func(decision.OpenBidRequest) (decision.OpenBidDecision, error) {
	return func(req decision.OpenBidRequest) (decision.OpenBidDecision, error) {
		best := req.Available[0]
		for _, p := range req.Available[1:] {
			if p.FantasyPoints > best.FantasyPoints {
				best = p
			}
		}
		return decision.OpenBidDecision{PlayerID: best.ID, Amount: amount, Reasoning: "taking the best"}, nil
	}
}

func enginePool(fps ...float64) []model.Player {
	out := make([]model.Player, len(fps))
	for i, fp := range fps {
		out[i] = model.Player{ID: i + 1, FirstName: "P", LastName: string(rune('A' + i)), FantasyPoints: fp}
	}
	return out
}

func bots() (model.Bot, model.Bot) {
	return model.Bot{ID: "b1", Name: "Alpha", StrategyPrompt: "alpha"},
		model.Bot{ID: "b2", Name: "Beta", StrategyPrompt: "beta"}
}

func drain(ch <-chan auction.Event) (events []auction.Event, result *auction.Result, completions int) {
	for ev := range ch {
		events = append(events, ev)
		if ev.Type == auction.TypeGameComplete {
			result = ev.Result
			completions++
		}
	}
	return events, result, completions
}

func TestEngineSingleAuction(t *testing.T) {
	convey.Convey("Given a one-player pool where the responder folds", t, func() {
		bot1, bot2 := bots()
		provider := &fakeProvider{openFn: openBest(10)}
		engine := auction.New(bot1, bot2, enginePool(30), provider)

		events, result, completions := drain(engine.Run(context.Background()))

		convey.Convey("Then the game completes exactly once, at the end", func() {
			convey.So(completions, convey.ShouldEqual, 1)
			convey.So(events[len(events)-1].Type, convey.ShouldEqual, auction.TypeGameComplete)
		})

		convey.Convey("Then one side drafted the player for the opening bid", func() {
			winner, loser := result.Bot1Team, result.Bot2Team
			if len(winner) == 0 {
				winner, loser = loser, winner
			}
			convey.So(winner, convey.ShouldHaveLength, 1)
			convey.So(loser, convey.ShouldBeEmpty)
			convey.So(winner[0].PlayerID, convey.ShouldEqual, 1)
			convey.So(winner[0].BidAmount, convey.ShouldEqual, 10)
			convey.So(winner[0].DraftOrder, convey.ShouldEqual, 1)
		})

		convey.Convey("Then the scores reflect the single pick", func() {
			convey.So(result.Bot1Score+result.Bot2Score, convey.ShouldEqual, 30)
			convey.So(result.Tie, convey.ShouldBeFalse)
			convey.So(result.WinnerKey, convey.ShouldBeIn, []string{"bot1", "bot2"})
		})

		convey.Convey("Then exactly one draft event was emitted", func() {
			drafts := 0
			for _, ev := range events {
				if ev.Type == auction.TypeDraft {
					drafts++
					convey.So(ev.Draft.Bot1Balance+ev.Draft.Bot2Balance, convey.ShouldEqual, 190)
				}
			}
			convey.So(drafts, convey.ShouldEqual, 1)
		})

		convey.Convey("Then the game log mirrors the event stream", func() {
			var logs int
			for _, ev := range events {
				if ev.Type == auction.TypeLog {
					logs++
				}
			}
			convey.So(result.GameLog, convey.ShouldHaveLength, logs)
			convey.So(result.GameLog[0], convey.ShouldContainSubstring, "Game started!")
		})
	})
}

func TestEngineBothBalancesExhausted(t *testing.T) {
	convey.Convey("Given tiny budgets and more players than credits", t, func() {
		bot1, bot2 := bots()
		provider := &fakeProvider{openFn: openBest(1)}
		engine := auction.New(bot1, bot2, enginePool(40, 30, 20, 10), provider,
			auction.WithStartingBalance(1),
		)

		_, result, completions := drain(engine.Run(context.Background()))

		convey.Convey("Then the game still completes", func() {
			convey.So(completions, convey.ShouldEqual, 1)
		})

		convey.Convey("Then each side drafted exactly one player", func() {
			convey.So(result.Bot1Team, convey.ShouldHaveLength, 1)
			convey.So(result.Bot2Team, convey.ShouldHaveLength, 1)
		})

		convey.Convey("Then spending never exceeded the budget", func() {
			for _, team := range [][]model.DraftPick{result.Bot1Team, result.Bot2Team} {
				spent := 0
				for _, pick := range team {
					spent += pick.BidAmount
				}
				convey.So(spent, convey.ShouldBeLessThanOrEqualTo, 1)
			}
		})
	})
}

func TestEngineProviderAlwaysFails(t *testing.T) {
	convey.Convey("Given a provider that cannot produce a single bid", t, func() {
		bot1, bot2 := bots()
		provider := &fakeProvider{
			openFn: func(decision.OpenBidRequest) (decision.OpenBidDecision, error) {
				return decision.OpenBidDecision{}, errors.New("agent down")
			},
		}
		engine := auction.New(bot1, bot2, enginePool(40, 30), provider,
			auction.WithTurnCap(6),
		)

		events, result, completions := drain(engine.Run(context.Background()))

		convey.Convey("Then the turn cap ends the game in a scoreless tie", func() {
			convey.So(completions, convey.ShouldEqual, 1)
			convey.So(result.Bot1Score, convey.ShouldEqual, 0)
			convey.So(result.Bot2Score, convey.ShouldEqual, 0)
			convey.So(result.Tie, convey.ShouldBeTrue)
			convey.So(result.WinnerKey, convey.ShouldBeEmpty)
		})

		convey.Convey("Then every failed turn was narrated", func() {
			failures := 0
			for _, ev := range events {
				if ev.Type == auction.TypeLog && strings.Contains(ev.Message, "had an error making a bid") {
					failures++
				}
			}
			convey.So(failures, convey.ShouldEqual, 6)
		})
	})
}

func TestEngineBiddingWar(t *testing.T) {
	convey.Convey("Given a responder that counters up to a limit", t, func() {
		bot1, bot2 := bots()
		provider := &fakeProvider{
			openFn: openBest(5),
			respondFn: func(req decision.RespondRequest) (decision.RespondDecision, error) {
				if req.CurrentBid < 15 {
					return decision.RespondDecision{
						Action:    decision.ActionCounter,
						Amount:    req.CurrentBid + 2,
						Reasoning: "still cheap",
					}, nil
				}
				return decision.RespondDecision{Action: decision.ActionAccept, Reasoning: "too rich"}, nil
			},
		}
		engine := auction.New(bot1, bot2, enginePool(50, 35, 22), provider)

		events, result, completions := drain(engine.Run(context.Background()))

		convey.Convey("Then the game completes with the full pool drafted", func() {
			convey.So(completions, convey.ShouldEqual, 1)
			convey.So(len(result.Bot1Team)+len(result.Bot2Team), convey.ShouldEqual, 3)
		})

		convey.Convey("Then draft orders are contiguous and players unique", func() {
			seenOrder := make(map[int]bool)
			seenPlayer := make(map[int]bool)
			for _, team := range [][]model.DraftPick{result.Bot1Team, result.Bot2Team} {
				for _, pick := range team {
					convey.So(seenOrder[pick.DraftOrder], convey.ShouldBeFalse)
					convey.So(seenPlayer[pick.PlayerID], convey.ShouldBeFalse)
					seenOrder[pick.DraftOrder] = true
					seenPlayer[pick.PlayerID] = true
				}
			}
			for order := 1; order <= 3; order++ {
				convey.So(seenOrder[order], convey.ShouldBeTrue)
			}
		})

		convey.Convey("Then budgets are conserved", func() {
			for _, team := range [][]model.DraftPick{result.Bot1Team, result.Bot2Team} {
				spent := 0
				for _, pick := range team {
					convey.So(pick.BidAmount, convey.ShouldBeGreaterThanOrEqualTo, 1)
					spent += pick.BidAmount
				}
				convey.So(spent, convey.ShouldBeLessThanOrEqualTo, auction.DefaultStartingBalance)
			}
		})

		convey.Convey("Then balances in draft events only ever decrease", func() {
			prev1, prev2 := auction.DefaultStartingBalance, auction.DefaultStartingBalance
			for _, ev := range events {
				if ev.Type != auction.TypeDraft {
					continue
				}
				convey.So(ev.Draft.Bot1Balance, convey.ShouldBeLessThanOrEqualTo, prev1)
				convey.So(ev.Draft.Bot2Balance, convey.ShouldBeLessThanOrEqualTo, prev2)
				prev1, prev2 = ev.Draft.Bot1Balance, ev.Draft.Bot2Balance
			}
		})
	})
}

func TestEngineBidRoundCapExhaustion(t *testing.T) {
	convey.Convey("Given a responder that never stops countering", t, func() {
		bot1, bot2 := bots()
		provider := &fakeProvider{
			openFn: openBest(1),
			respondFn: func(req decision.RespondRequest) (decision.RespondDecision, error) {
				return decision.RespondDecision{
					Action:    decision.ActionCounter,
					Amount:    req.CurrentBid + 1,
					Reasoning: "one more",
				}, nil
			},
		}

		convey.Convey("When the default round cap runs out", func() {
			engine := auction.New(bot1, bot2, enginePool(30), provider)

			_, result, completions := drain(engine.Run(context.Background()))

			convey.Convey("Then the bid holder wins at the capped price", func() {
				convey.So(completions, convey.ShouldEqual, 1)
				picks := append(append([]model.DraftPick(nil), result.Bot1Team...), result.Bot2Team...)
				convey.So(picks, convey.ShouldHaveLength, 1)
				// Opening bid 1 plus one raise per round up to the cap.
				convey.So(picks[0].BidAmount, convey.ShouldEqual, 1+auction.DefaultBidRoundCap)
			})
		})

		convey.Convey("When the round cap is lowered", func() {
			engine := auction.New(bot1, bot2, enginePool(30), provider,
				auction.WithBidRoundCap(5),
			)

			events, result, completions := drain(engine.Run(context.Background()))

			convey.Convey("Then the auction settles after five raises", func() {
				convey.So(completions, convey.ShouldEqual, 1)
				picks := append(append([]model.DraftPick(nil), result.Bot1Team...), result.Bot2Team...)
				convey.So(picks, convey.ShouldHaveLength, 1)
				convey.So(picks[0].BidAmount, convey.ShouldEqual, 6)
			})

			convey.Convey("Then the exhausted auction ends without concession narration", func() {
				for _, ev := range events {
					if ev.Type != auction.TypeLog {
						continue
					}
					convey.So(ev.Message, convey.ShouldNotContainSubstring, "folds")
					convey.So(ev.Message, convey.ShouldNotContainSubstring, "accepts")
				}
			})
		})
	})
}

func TestEngineBrokeSideIsSkipped(t *testing.T) {
	convey.Convey("Given one side that spends everything and one that cannot bid", t, func() {
		bot1, bot2 := bots()
		provider := &fakeProvider{
			openFn: func(req decision.OpenBidRequest) (decision.OpenBidDecision, error) {
				// Beta's agent is down; Alpha goes all in on its first turn
				// and sits broke for the rest of the game.
				if req.Strategy == "beta" {
					return decision.OpenBidDecision{}, errors.New("agent down")
				}
				best := req.Available[0]
				for _, p := range req.Available[1:] {
					if p.FantasyPoints > best.FantasyPoints {
						best = p
					}
				}
				return decision.OpenBidDecision{PlayerID: best.ID, Amount: req.Balance, Reasoning: "all in"}, nil
			},
		}
		engine := auction.New(bot1, bot2, enginePool(45, 25), provider,
			auction.WithTurnCap(6),
		)

		_, result, completions := drain(engine.Run(context.Background()))

		convey.Convey("Then only Alpha ever drafts, exactly once", func() {
			convey.So(completions, convey.ShouldEqual, 1)
			convey.So(result.Bot1Team, convey.ShouldHaveLength, 1)
			convey.So(result.Bot2Team, convey.ShouldBeEmpty)
		})

		convey.Convey("Then the drafted player cost the whole budget", func() {
			convey.So(result.Bot1Team[0].BidAmount, convey.ShouldEqual, 100)
			convey.So(result.Bot1Team[0].PlayerID, convey.ShouldEqual, 1)
		})

		convey.Convey("Then the winner is Alpha despite the stalled finish", func() {
			convey.So(result.WinnerKey, convey.ShouldEqual, "bot1")
			convey.So(result.Bot1Score, convey.ShouldEqual, 45)
			convey.So(result.Bot2Score, convey.ShouldEqual, 0)
		})
	})
}

// blockingProvider parks every decision until the caller cancels.
type blockingProvider struct{}

func (blockingProvider) OpenBid(ctx context.Context, _ decision.OpenBidRequest) (decision.OpenBidDecision, error) {
	<-ctx.Done()
	return decision.OpenBidDecision{}, ctx.Err()
}

func (blockingProvider) RespondToBid(ctx context.Context, _ decision.RespondRequest) (decision.RespondDecision, error) {
	<-ctx.Done()
	return decision.RespondDecision{}, ctx.Err()
}

func TestEngineCancellation(t *testing.T) {
	convey.Convey("Given a running game", t, func() {
		bot1, bot2 := bots()

		convey.Convey("When the context is cancelled mid-game", func() {
			engine := auction.New(bot1, bot2, enginePool(40, 30, 20), blockingProvider{})
			ctx, cancel := context.WithCancel(context.Background())
			ch := engine.Run(ctx)
			<-ch // first event arrived, the game is live
			cancel()
			_, result, completions := drain(ch)

			convey.Convey("Then the stream closes without a terminal event", func() {
				convey.So(completions, convey.ShouldEqual, 0)
				convey.So(result, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is cancelled before the game starts", func() {
			engine := auction.New(bot1, bot2, enginePool(40), blockingProvider{})
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			result, err := engine.RunToCompletion(ctx)

			convey.Convey("Then RunToCompletion reports the abandonment", func() {
				convey.So(result, convey.ShouldBeNil)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

func TestEngineRunToCompletion(t *testing.T) {
	convey.Convey("Given a normal game", t, func() {
		bot1, bot2 := bots()
		provider := &fakeProvider{openFn: openBest(10)}
		engine := auction.New(bot1, bot2, enginePool(30, 20), provider)

		result, err := engine.RunToCompletion(context.Background())

		convey.Convey("Then it returns the terminal result", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(result, convey.ShouldNotBeNil)
			convey.So(len(result.Bot1Team)+len(result.Bot2Team), convey.ShouldEqual, 2)
			convey.So(result.GameLog, convey.ShouldNotBeEmpty)
		})
	})
}
