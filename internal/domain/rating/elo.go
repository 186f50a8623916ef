package rating

import (
	"fmt"
	"math"
)

// eloScale is the rating difference at which the expected score is 10:1.
const eloScale = 400.0

// Change describes the effect of one pairwise update on a single dimension.
type Change struct {
	Dimension Dimension
	Winner    string
	// Applied is false when the winner matched neither entity.
	Applied bool
	DeltaA  float64
	DeltaB  float64
}

// Expected returns the logistic expected outcome for each side given their
// ratings. The two values always sum to one.
func Expected(s1, s2 float64) (float64, float64) {
	e1 := 1 / (1 + math.Pow(10, (s2-s1)/eloScale))
	return e1, 1 - e1
}

// Adjust returns the rating deltas of both sides after one game decided in
// favour of the first side when firstWins is true. d2 is always exactly -d1.
func Adjust(s1, s2, k float64, firstWins bool) (d1, d2 float64) {
	e1, e2 := Expected(s1, s2)
	if firstWins {
		d1 = k * (1 - e1)
		return d1, -d1
	}
	d2 = k * (1 - e2)
	return -d2, d2
}

// UpdatePair applies one judgment on dim to the records of nameA and nameB.
// The inputs are left untouched; updated copies are returned. A winner that
// matches neither name leaves both records as they were.
func UpdatePair(a, b Record, nameA, nameB, winner string, dim Dimension, k float64) (Record, Record, Change, error) {
	ch := Change{Dimension: dim, Winner: winner}
	if k <= 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return a, b, ch, fmt.Errorf("%w: %v", ErrInvalidKFactor, k)
	}
	s1, ok := a[dim]
	if !ok {
		return a, b, ch, fmt.Errorf("%w: %s missing from %s", ErrUnknownDimension, dim, nameA)
	}
	s2, ok := b[dim]
	if !ok {
		return a, b, ch, fmt.Errorf("%w: %s missing from %s", ErrUnknownDimension, dim, nameB)
	}

	switch winner {
	case nameA:
		ch.DeltaA, ch.DeltaB = Adjust(s1, s2, k, true)
	case nameB:
		ch.DeltaA, ch.DeltaB = Adjust(s1, s2, k, false)
	default:
		return a, b, ch, nil
	}
	ch.Applied = true

	na, nb := a.Clone(), b.Clone()
	na[dim] = s1 + ch.DeltaA
	nb[dim] = s2 + ch.DeltaB
	return na, nb, ch, nil
}
