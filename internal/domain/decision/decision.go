// Package decision defines the contract with the strategy-driven bidding
// agent and the repair rules applied to whatever it returns.
//
// The provider is an external capability: it may be slow, it may fail, and
// it may return illegal values. Failures are the caller's problem (the
// auction engine recovers from them); illegal values are this package's
// problem (RepairOpenBid and RepairResponse normalize them), so the engine
// only ever sees legal decisions.
package decision

import (
	"context"

	"github.com/hooplab/draftarena/internal/domain/model"
)

// Action is the responder's move in a bidding round.
type Action string

// Recognized bid-response actions. Accept and Fold both concede the asset
// to the current bidder at the current price; they differ only in narration.
const (
	ActionCounter Action = "counter"
	ActionAccept  Action = "accept"
	ActionFold    Action = "fold"
)

// OpenBidRequest carries all context for an opening-bid decision. Nothing
// is retained between calls inside the provider.
type OpenBidRequest struct {
	Strategy        string
	Available       []model.Player
	Balance         int
	OpponentBalance int
	MyTeam          []model.DraftPick
	OpponentTeam    []model.DraftPick
}

// OpenBidDecision is the raw answer to an opening-bid request.
type OpenBidDecision struct {
	PlayerID  int    `json:"player_id"`
	Amount    int    `json:"amount"`
	Reasoning string `json:"reasoning"`
}

// RespondRequest carries all context for a respond-to-bid decision.
type RespondRequest struct {
	Strategy        string
	Player          model.Player
	CurrentBid      int
	BidderName      string
	Balance         int
	OpponentBalance int
	MyTeam          []model.DraftPick
	OpponentTeam    []model.DraftPick
	PoolSize        int
}

// RespondDecision is the raw answer to a respond-to-bid request.
type RespondDecision struct {
	Action    Action `json:"action"`
	Amount    int    `json:"amount"`
	Reasoning string `json:"reasoning"`
}

// Provider produces bidding decisions from game context. Both operations
// block on an external exchange and honor ctx for cancellation. Any error
// is recoverable by the caller; a failing provider must never take the
// game down with it.
type Provider interface {
	OpenBid(ctx context.Context, req OpenBidRequest) (OpenBidDecision, error)
	RespondToBid(ctx context.Context, req RespondRequest) (RespondDecision, error)
}
