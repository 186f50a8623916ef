// Package ranking computes weighted overall scores and orders entities by them.
package ranking

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/resirank/internal/domain/rating"
)

// Weights is a validated dimension weight vector. Iteration follows the
// order of the recognized dimensions so sums are reproducible.
type Weights struct {
	order  rating.Dimensions
	values map[rating.Dimension]float64
}

// NewWeights validates raw against the recognized dimensions. Keys outside
// dims are rejected, as are negative, NaN and infinite values. Dimensions
// without a weight do not contribute to the overall score.
func NewWeights(dims rating.Dimensions, raw map[string]float64) (Weights, error) {
	w := Weights{values: make(map[rating.Dimension]float64, len(raw))}
	for key, v := range raw {
		d := rating.Dimension(strings.TrimSpace(key))
		if !dims.Contains(d) {
			return Weights{}, fmt.Errorf("%w: %q", ErrUnknownDimension, key)
		}
		if err := checkWeight(v); err != nil {
			return Weights{}, fmt.Errorf("%s: %w", d, err)
		}
		w.values[d] = v
	}
	for _, d := range dims {
		if _, ok := w.values[d]; ok {
			w.order = append(w.order, d)
		}
	}
	return w, nil
}

// Equal returns weights of 1/len(dims) on every dimension.
func Equal(dims rating.Dimensions) Weights {
	w := Weights{order: append(rating.Dimensions(nil), dims...), values: make(map[rating.Dimension]float64, len(dims))}
	for _, d := range dims {
		w.values[d] = 1 / float64(len(dims))
	}
	return w
}

// With returns a copy of w with the weight of d replaced by v.
func (w Weights) With(d rating.Dimension, v float64) (Weights, error) {
	if err := checkWeight(v); err != nil {
		return w, fmt.Errorf("%s: %w", d, err)
	}
	c := Weights{order: append(rating.Dimensions(nil), w.order...), values: make(map[rating.Dimension]float64, len(w.values)+1)}
	for k, x := range w.values {
		c.values[k] = x
	}
	if _, ok := c.values[d]; !ok {
		c.order = append(c.order, d)
	}
	c.values[d] = v
	return c, nil
}

// Get returns the weight of d and whether one is set.
func (w Weights) Get(d rating.Dimension) (float64, bool) {
	v, ok := w.values[d]
	return v, ok
}

// Dimensions returns the weighted dimensions in iteration order.
func (w Weights) Dimensions() rating.Dimensions {
	return append(rating.Dimensions(nil), w.order...)
}

// Map returns the weights keyed by dimension name.
func (w Weights) Map() map[string]float64 {
	m := make(map[string]float64, len(w.values))
	for d, v := range w.values {
		m[string(d)] = v
	}
	return m
}

// String renders the weights as "d=v" pairs in iteration order.
func (w Weights) String() string {
	parts := make([]string, 0, len(w.order))
	for _, d := range w.order {
		parts = append(parts, fmt.Sprintf("%s=%g", d, w.values[d]))
	}
	return strings.Join(parts, ",")
}

func checkWeight(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, v)
	}
	return nil
}

// ParseWeights reads "dim=value" pairs separated by commas, e.g.
// "prestige=0.5,vibes=0.3,location=0.2", and validates them like NewWeights.
func ParseWeights(dims rating.Dimensions, s string) (Weights, error) {
	raw := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return Weights{}, fmt.Errorf("%w: %q is not dim=value", ErrInvalidWeight, pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return Weights{}, fmt.Errorf("%w: %q: %w", ErrInvalidWeight, pair, err)
		}
		raw[strings.TrimSpace(key)] = v
	}
	return NewWeights(dims, raw)
}
