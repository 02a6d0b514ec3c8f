package auction

import (
	"math/rand"

	"github.com/hooplab/draftarena/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTurnCap bounds the number of turn iterations in one game.
func WithTurnCap(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.turnCap = n
		}
	}
}

// WithBidRoundCap bounds the number of rounds in one asset's bidding loop.
func WithBidRoundCap(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.bidRoundCap = n
		}
	}
}

// WithStartingBalance sets both sides' starting credit balance.
func WithStartingBalance(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.startingBalance = n
		}
	}
}

// WithRand sets the randomness source used to pick the first mover.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}
