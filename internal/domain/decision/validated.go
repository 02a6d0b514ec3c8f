package decision

import "context"

// validated decorates a Provider so that every raw answer is repaired
// before a caller sees it.
type validated struct {
	inner Provider
}

// Validated wraps a provider with the boundary repair rules. Callers of the
// returned provider can assume every decision is legal for the request it
// answers.
func Validated(p Provider) Provider {
	return &validated{inner: p}
}

func (v *validated) OpenBid(ctx context.Context, req OpenBidRequest) (OpenBidDecision, error) {
	d, err := v.inner.OpenBid(ctx, req)
	if err != nil {
		return OpenBidDecision{}, err
	}
	return RepairOpenBid(d, req.Available, req.Balance), nil
}

func (v *validated) RespondToBid(ctx context.Context, req RespondRequest) (RespondDecision, error) {
	d, err := v.inner.RespondToBid(ctx, req)
	if err != nil {
		return RespondDecision{}, err
	}
	return RepairResponse(d, req.CurrentBid, req.Balance), nil
}
