package repository

import "github.com/okian/resirank/internal/domain/rating"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithRecords seeds the store with records in the given order. Records are
// copied; names already present are skipped.
func WithRecords(names []string, records map[string]rating.Record) Option {
	return func(s *Store) {
		for _, n := range names {
			if rec, ok := records[n]; ok && !s.Has(n) {
				s.put(n, rec.Clone())
			}
		}
	}
}

// SnapshotOption applies a configuration option to the FileSnapshot.
type SnapshotOption func(*FileSnapshot)

// WithBaseRating sets the rating used to backfill dimensions missing from a
// loaded snapshot.
func WithBaseRating(base float64) SnapshotOption {
	return func(f *FileSnapshot) {
		f.base = base
	}
}

// WithIndent sets the indentation of written snapshots.
func WithIndent(indent string) SnapshotOption {
	return func(f *FileSnapshot) {
		f.indent = indent
	}
}
