package decision_test

import (
	"context"
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/hooplab/draftarena/internal/domain/decision"
	"github.com/hooplab/draftarena/internal/domain/model"
)

func TestRepairOpenBid(t *testing.T) {
	available := []model.Player{
		{ID: 1, FantasyPoints: 20},
		{ID: 2, FantasyPoints: 55},
		{ID: 3, FantasyPoints: 35},
	}

	convey.Convey("Given the opening-bid repair rules", t, func() {
		convey.Convey("When the decision is already legal", func() {
			got := decision.RepairOpenBid(decision.OpenBidDecision{PlayerID: 3, Amount: 10}, available, 100)

			convey.Convey("Then it passes through unchanged", func() {
				convey.So(got.PlayerID, convey.ShouldEqual, 3)
				convey.So(got.Amount, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When the player id is not in the pool", func() {
			got := decision.RepairOpenBid(decision.OpenBidDecision{PlayerID: 999, Amount: 10}, available, 100)

			convey.Convey("Then it targets the best available player", func() {
				convey.So(got.PlayerID, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the amount is below one", func() {
			got := decision.RepairOpenBid(decision.OpenBidDecision{PlayerID: 1, Amount: 0}, available, 100)

			convey.Convey("Then it is raised to the minimum bid", func() {
				convey.So(got.Amount, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the amount exceeds the balance", func() {
			got := decision.RepairOpenBid(decision.OpenBidDecision{PlayerID: 1, Amount: 500}, available, 40)

			convey.Convey("Then it is clamped to the balance", func() {
				convey.So(got.Amount, convey.ShouldEqual, 40)
			})
		})

		convey.Convey("When the amount is negative", func() {
			got := decision.RepairOpenBid(decision.OpenBidDecision{PlayerID: 1, Amount: -7}, available, 40)

			convey.Convey("Then it is raised to the minimum bid", func() {
				convey.So(got.Amount, convey.ShouldEqual, 1)
			})
		})
	})
}

func TestRepairResponse(t *testing.T) {
	convey.Convey("Given the bid-response repair rules", t, func() {
		convey.Convey("When the action is unrecognized", func() {
			got := decision.RepairResponse(decision.RespondDecision{Action: "retreat"}, 10, 100)

			convey.Convey("Then it becomes a fold", func() {
				convey.So(got.Action, convey.ShouldEqual, decision.ActionFold)
			})
		})

		convey.Convey("When a counter does not beat the current bid", func() {
			got := decision.RepairResponse(decision.RespondDecision{Action: decision.ActionCounter, Amount: 10}, 10, 100)

			convey.Convey("Then it is raised to the minimum legal raise", func() {
				convey.So(got.Action, convey.ShouldEqual, decision.ActionCounter)
				convey.So(got.Amount, convey.ShouldEqual, 11)
			})
		})

		convey.Convey("When a counter exceeds the balance", func() {
			got := decision.RepairResponse(decision.RespondDecision{Action: decision.ActionCounter, Amount: 80}, 10, 50)

			convey.Convey("Then it is raised to the minimum legal raise instead", func() {
				convey.So(got.Action, convey.ShouldEqual, decision.ActionCounter)
				convey.So(got.Amount, convey.ShouldEqual, 11)
			})
		})

		convey.Convey("When even the minimum raise is unaffordable", func() {
			got := decision.RepairResponse(decision.RespondDecision{Action: decision.ActionCounter, Amount: 99}, 50, 50)

			convey.Convey("Then the counter degrades to a fold", func() {
				convey.So(got.Action, convey.ShouldEqual, decision.ActionFold)
				convey.So(got.Amount, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When a legal counter arrives", func() {
			got := decision.RepairResponse(decision.RespondDecision{Action: decision.ActionCounter, Amount: 20}, 10, 100)

			convey.Convey("Then it passes through unchanged", func() {
				convey.So(got.Amount, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When the responder accepts or folds", func() {
			accept := decision.RepairResponse(decision.RespondDecision{Action: decision.ActionAccept}, 10, 100)
			fold := decision.RepairResponse(decision.RespondDecision{Action: decision.ActionFold}, 10, 100)

			convey.Convey("Then neither is modified", func() {
				convey.So(accept.Action, convey.ShouldEqual, decision.ActionAccept)
				convey.So(fold.Action, convey.ShouldEqual, decision.ActionFold)
			})
		})
	})
}

// scriptedProvider returns canned decisions for boundary tests.
type scriptedProvider struct {
	open    decision.OpenBidDecision
	respond decision.RespondDecision
	err     error
}

func (s *scriptedProvider) OpenBid(context.Context, decision.OpenBidRequest) (decision.OpenBidDecision, error) {
	return s.open, s.err
}

func (s *scriptedProvider) RespondToBid(context.Context, decision.RespondRequest) (decision.RespondDecision, error) {
	return s.respond, s.err
}

func TestValidated(t *testing.T) {
	available := []model.Player{{ID: 1, FantasyPoints: 30}, {ID: 2, FantasyPoints: 10}}

	convey.Convey("Given a provider wrapped with boundary repair", t, func() {
		convey.Convey("When the inner provider returns an illegal opening bid", func() {
			p := decision.Validated(&scriptedProvider{
				open: decision.OpenBidDecision{PlayerID: 404, Amount: 0},
			})
			got, err := p.OpenBid(context.Background(), decision.OpenBidRequest{
				Available: available,
				Balance:   100,
			})

			convey.Convey("Then the caller sees a repaired decision", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.PlayerID, convey.ShouldEqual, 1)
				convey.So(got.Amount, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the inner provider returns an illegal response", func() {
			p := decision.Validated(&scriptedProvider{
				respond: decision.RespondDecision{Action: "shrug", Amount: 3},
			})
			got, err := p.RespondToBid(context.Background(), decision.RespondRequest{
				CurrentBid: 10,
				Balance:    100,
			})

			convey.Convey("Then the caller sees a fold", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Action, convey.ShouldEqual, decision.ActionFold)
			})
		})

		convey.Convey("When the inner provider fails", func() {
			innerErr := errors.New("agent unavailable")
			p := decision.Validated(&scriptedProvider{err: innerErr})
			_, err := p.OpenBid(context.Background(), decision.OpenBidRequest{Available: available, Balance: 100})

			convey.Convey("Then the error propagates untouched", func() {
				convey.So(errors.Is(err, innerErr), convey.ShouldBeTrue)
			})
		})
	})
}
