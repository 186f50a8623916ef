// Package rating holds the per-dimension rating model and the Elo update rule.
package rating

import (
	"fmt"
	"strings"
)

// Default rating configuration constants.
const (
	DefaultBase    = 1000.0
	DefaultKFactor = 32.0
)

// Dimension names one independent axis of comparison, e.g. "prestige".
type Dimension string

// Dimensions is the ordered set of recognized dimensions.
type Dimensions []Dimension

// DefaultDimensions returns the dimensions used when none are configured.
func DefaultDimensions() Dimensions {
	return Dimensions{"prestige", "vibes", "location"}
}

// ParseDimensions validates names and returns them as an ordered set.
// Names are trimmed; empty and repeated names are rejected.
func ParseDimensions(names []string) (Dimensions, error) {
	if len(names) == 0 {
		return nil, ErrNoDimensions
	}
	dims := make(Dimensions, 0, len(names))
	seen := make(map[Dimension]struct{}, len(names))
	for _, n := range names {
		d := Dimension(strings.TrimSpace(n))
		if d == "" {
			return nil, fmt.Errorf("%w: empty name", ErrUnknownDimension)
		}
		if _, ok := seen[d]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, d)
		}
		seen[d] = struct{}{}
		dims = append(dims, d)
	}
	return dims, nil
}

// Contains reports whether d is one of the recognized dimensions.
func (ds Dimensions) Contains(d Dimension) bool {
	for _, x := range ds {
		if x == d {
			return true
		}
	}
	return false
}

// Record maps every recognized dimension to a rating.
type Record map[Dimension]float64

// NewRecord returns a record with every dimension set to base.
func NewRecord(dims Dimensions, base float64) Record {
	r := make(Record, len(dims))
	for _, d := range dims {
		r[d] = base
	}
	return r
}

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	c := make(Record, len(r))
	for d, v := range r {
		c[d] = v
	}
	return c
}

// Project returns a copy of r carrying exactly dims. Missing dimensions are
// set to base; keys outside dims are dropped.
func (r Record) Project(dims Dimensions, base float64) Record {
	p := make(Record, len(dims))
	for _, d := range dims {
		if v, ok := r[d]; ok {
			p[d] = v
		} else {
			p[d] = base
		}
	}
	return p
}

// Complete returns an error wrapping ErrUnknownDimension for the first
// dimension in dims that r does not carry.
func (r Record) Complete(dims Dimensions) error {
	for _, d := range dims {
		if _, ok := r[d]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDimension, d)
		}
	}
	return nil
}
