package decision

import "github.com/hooplab/draftarena/internal/domain/model"

// RepairOpenBid normalizes a raw opening bid against the available pool and
// the bidder's balance. An unknown player id is replaced with the highest
// fantasy-point player still available; the amount is clamped to
// [1, balance].
func RepairOpenBid(d OpenBidDecision, available []model.Player, balance int) OpenBidDecision {
	valid := false
	for _, p := range available {
		if p.ID == d.PlayerID {
			valid = true
			break
		}
	}
	if !valid && len(available) > 0 {
		best := available[0]
		for _, p := range available[1:] {
			if p.FantasyPoints > best.FantasyPoints {
				best = p
			}
		}
		d.PlayerID = best.ID
	}

	if d.Amount < 1 {
		d.Amount = 1
	}
	if d.Amount > balance {
		d.Amount = balance
	}
	return d
}

// RepairResponse normalizes a raw bid response. Unrecognized actions become
// a fold. A counter must be strictly above the current bid and within the
// responder's balance; an illegal counter is raised to the minimum legal
// raise when affordable, otherwise degraded to a fold.
func RepairResponse(d RespondDecision, currentBid, balance int) RespondDecision {
	switch d.Action {
	case ActionCounter, ActionAccept, ActionFold:
	default:
		d.Action = ActionFold
	}

	if d.Action == ActionCounter {
		if d.Amount <= currentBid || d.Amount > balance {
			if currentBid+1 <= balance {
				d.Amount = currentBid + 1
			} else {
				// Cannot afford the minimum raise.
				d.Action = ActionFold
				d.Amount = 0
			}
		}
	}
	return d
}
