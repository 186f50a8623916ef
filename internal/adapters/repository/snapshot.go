package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/okian/resirank/internal/domain/rating"
	"github.com/okian/resirank/pkg/metrics"
)

// Snapshot file constants.
const (
	snapshotFilePermission = 0o600
	defaultIndent          = "    "
)

// FileSnapshot persists one store as a JSON object keyed by entity name.
// Every write replaces the whole file.
type FileSnapshot struct {
	path   string
	base   float64
	indent string
}

// NewFileSnapshot creates a snapshotter for path.
func NewFileSnapshot(path string, opts ...SnapshotOption) *FileSnapshot {
	f := &FileSnapshot{
		path:   path,
		base:   rating.DefaultBase,
		indent: defaultIndent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the snapshot file path.
func (f *FileSnapshot) Path() string { return f.path }

// Persist writes every record of s, in insertion order, over the snapshot file.
func (f *FileSnapshot) Persist(ctx context.Context, s *Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	scope := string(s.Scope())

	data, err := f.encode(s)
	if err != nil {
		metrics.RecordSnapshotError(scope)
		return fmt.Errorf("encode %s snapshot: %w", scope, err)
	}
	if err := os.WriteFile(f.path, data, snapshotFilePermission); err != nil {
		metrics.RecordSnapshotError(scope)
		return fmt.Errorf("write %s snapshot %s: %w", scope, f.path, err)
	}

	metrics.RecordSnapshotWrite(scope, float64(time.Since(start).Microseconds())/1000)
	return nil
}

// Load reads the snapshot file into a new store for scope. A missing or
// empty file yields an empty store. Records lacking a recognized dimension
// are backfilled with the base rating; unrecognized keys are dropped.
func (f *FileSnapshot) Load(ctx context.Context, scope Scope, dims rating.Dimensions) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(scope, dims), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s snapshot %s: %w", scope, f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return New(scope, dims), nil
	}

	names, records, err := decodeOrdered(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSnapshot, f.path, err)
	}
	for name, rec := range records {
		records[name] = rec.Project(dims, f.base)
	}

	s := New(scope, dims, WithRecords(names, records))
	metrics.UpdateEntityCount(string(scope), s.Len())
	return s, nil
}

func (f *FileSnapshot) encode(s *Store) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.records[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", f.indent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// decodeOrdered parses a JSON object of records keeping key order. A
// repeated key keeps its first position and its last value.
func decodeOrdered(data []byte) ([]string, map[string]rating.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var names []string
	records := make(map[string]rating.Record)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected entity name, got %v", tok)
		}
		var rec rating.Record
		if err := dec.Decode(&rec); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		if rec == nil {
			rec = rating.Record{}
		}
		if _, seen := records[name]; !seen {
			names = append(names, name)
		}
		records[name] = rec
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return names, records, nil
}
