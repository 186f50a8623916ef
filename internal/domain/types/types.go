// Package types contains common types used across the application
package types

import "fmt"

// Entry represents one row of a ranking
type Entry struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// String formats the entry as "rank. name - score" with two decimals.
func (e Entry) String() string {
	return fmt.Sprintf("%d. %s - %.2f", e.Rank, e.Name, e.Score)
}
