package auction

import "errors"

// Sentinel kinds for engine errors.
var (
	ErrNoResult = errors.New("game ended without a result")
)
