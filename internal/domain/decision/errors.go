package decision

import "errors"

// Sentinel kinds for decision provider errors.
var (
	ErrEmptyPool = errors.New("no players available to bid on")
)
