package ranking

import (
	"errors"

	"github.com/okian/resirank/internal/domain/rating"
)

// Sentinel kinds for ranking errors.
var (
	// ErrUnknownDimension is the rating sentinel, so callers match one error
	// whichever package reports it.
	ErrUnknownDimension = rating.ErrUnknownDimension
	ErrInvalidWeight    = errors.New("invalid weight")
)
