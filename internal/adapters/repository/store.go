// Package repository holds the score stores and their file snapshots.
package repository

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/okian/resirank/internal/domain/rating"
	"github.com/okian/resirank/pkg/metrics"
)

// Scope names which store a record lives in.
type Scope string

// Known store scopes.
const (
	ScopeLocal  Scope = "local"
	ScopeGlobal Scope = "global"
)

// Store maps entity names to rating records and remembers insertion order.
// It is not safe for concurrent use.
type Store struct {
	scope   Scope
	dims    rating.Dimensions
	names   []string
	records map[string]rating.Record
}

// New creates an empty store for scope over the recognized dimensions.
func New(scope Scope, dims rating.Dimensions, opts ...Option) *Store {
	s := &Store{
		scope:   scope,
		dims:    append(rating.Dimensions(nil), dims...),
		records: make(map[string]rating.Record),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scope returns the store's scope.
func (s *Store) Scope() Scope { return s.scope }

// Dimensions returns the recognized dimensions.
func (s *Store) Dimensions() rating.Dimensions {
	return append(rating.Dimensions(nil), s.dims...)
}

// Len returns the number of entities.
func (s *Store) Len() int { return len(s.names) }

// Has reports whether name is registered.
func (s *Store) Has(name string) bool {
	_, ok := s.records[name]
	return ok
}

// Names returns entity names in insertion order.
func (s *Store) Names() []string {
	return append([]string(nil), s.names...)
}

// Get returns a copy of the record for name.
// Returns ErrNotFound if the entity is unknown.
func (s *Store) Get(name string) (rating.Record, error) {
	rec, ok := s.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s store", ErrNotFound, name, s.scope)
	}
	return rec.Clone(), nil
}

// Register stores a copy of initial under name unless name is already
// present, in which case the existing record is left untouched. Only the
// store's dimensions are kept from initial. Names must be valid UTF-8.
// Returns true if the entity was added.
func (s *Store) Register(name string, initial rating.Record) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, ErrEmptyName
	}
	if !utf8.ValidString(name) {
		return false, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if s.Has(name) {
		return false, nil
	}
	if err := initial.Complete(s.dims); err != nil {
		return false, fmt.Errorf("register %s: %w", name, err)
	}
	s.put(name, initial.Project(s.dims, 0))
	metrics.RecordRegistration(string(s.scope))
	metrics.UpdateEntityCount(string(s.scope), len(s.names))
	return true, nil
}

// Compare applies one judgment on dim between the stored records of nameA
// and nameB. An unrecognized winner changes nothing.
func (s *Store) Compare(nameA, nameB, winner string, dim rating.Dimension, k float64) (rating.Change, error) {
	a, ok := s.records[nameA]
	if !ok {
		return rating.Change{}, fmt.Errorf("%w: %s in %s store", ErrNotFound, nameA, s.scope)
	}
	b, ok := s.records[nameB]
	if !ok {
		return rating.Change{}, fmt.Errorf("%w: %s in %s store", ErrNotFound, nameB, s.scope)
	}
	na, nb, ch, err := rating.UpdatePair(a, b, nameA, nameB, winner, dim, k)
	if err != nil {
		return ch, err
	}
	if ch.Applied {
		s.records[nameA] = na
		s.records[nameB] = nb
	}
	return ch, nil
}

// put inserts rec without copying or validation.
func (s *Store) put(name string, rec rating.Record) {
	if _, ok := s.records[name]; !ok {
		s.names = append(s.names, name)
	}
	s.records[name] = rec
}
