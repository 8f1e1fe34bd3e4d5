package dispatch

import "errors"

const Namespace = "dispatch"

var (
	ErrClosed         = errors.New(Namespace + ": dispatcher is closed")
	ErrJobPanicked    = errors.New(Namespace + ": job panicked")
	ErrInvalidConfig  = errors.New(Namespace + ": invalid configuration")
	ErrInvalidPolicy  = errors.New(Namespace + ": invalid policy")
	ErrInvalidJobType = errors.New(Namespace + ": invalid job type")
)
