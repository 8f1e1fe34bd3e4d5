package bench

import "errors"

var (
	ErrInvalidConfig = errors.New("dispatchbench: invalid configuration")
	ErrEditFailed    = errors.New("dispatchbench: simulated failure")
)
