package rating

import "errors"

// Sentinel kinds for rating errors.
var (
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrInvalidKFactor   = errors.New("invalid k-factor")
	ErrNoDimensions     = errors.New("no dimensions configured")
	ErrDuplicate        = errors.New("duplicate dimension")
)
