package simulation

import (
	"context"
	"errors"
)

// Engine error taxonomy. All failures are surfaced as wrapped sentinel values;
// the engine never degrades to a partial result.
var (
	ErrInvalidProfile        = errors.New("invalid financial profile")
	ErrUnknownRiskPreference = errors.New("unknown risk preference")
	ErrTimeoutExceeded       = errors.New("simulation deadline exceeded")
	ErrNumericInstability    = errors.New("numeric instability detected")
)

func isTimeout(err error) bool {
	return errors.Is(err, ErrTimeoutExceeded) || errors.Is(err, context.DeadlineExceeded)
}
