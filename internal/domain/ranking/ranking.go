package ranking

import (
	"fmt"
	"sort"

	"github.com/okian/resirank/internal/domain/rating"
	"github.com/okian/resirank/internal/domain/types"
)

// Source exposes the entities to rank in their enumeration order.
type Source interface {
	Names() []string
	Get(name string) (rating.Record, error)
}

type scored struct {
	name  string
	score float64
}

// OverallScore returns the weighted sum of record over the weighted dimensions.
func OverallScore(record rating.Record, w Weights) (float64, error) {
	var total float64
	for _, d := range w.order {
		v, ok := record[d]
		if !ok {
			return 0, fmt.Errorf("%w: %s not in record", ErrUnknownDimension, d)
		}
		total += v * w.values[d]
	}
	return total, nil
}

// Rank scores every entity of src and returns them highest first with
// 1-indexed ranks. Entities with equal scores keep the source order.
func Rank(src Source, w Weights) ([]types.Entry, error) {
	names := src.Names()
	rows := make([]scored, 0, len(names))
	for _, name := range names {
		rec, err := src.Get(name)
		if err != nil {
			return nil, fmt.Errorf("rank %s: %w", name, err)
		}
		s, err := OverallScore(rec, w)
		if err != nil {
			return nil, fmt.Errorf("rank %s: %w", name, err)
		}
		rows = append(rows, scored{name: name, score: s})
	}

	sortStableDesc(rows)

	out := make([]types.Entry, len(rows))
	for i, r := range rows {
		out[i] = types.Entry{Rank: i + 1, Name: r.name, Score: r.score}
	}
	return out, nil
}

// sortStableDesc orders entries by score, highest first, keeping the input
// order for equal scores.
func sortStableDesc(rows []scored) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })
}
