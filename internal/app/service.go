// Package service provides the comparison orchestrator that drives pairwise
// judgments into the local and global score stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/okian/resirank/internal/adapters/repository"
	"github.com/okian/resirank/internal/domain/ranking"
	"github.com/okian/resirank/internal/domain/rating"
	"github.com/okian/resirank/internal/domain/types"
	"github.com/okian/resirank/pkg/logger"
	"github.com/okian/resirank/pkg/metrics"
)

// Granularity controls how much of a session is mirrored to the global store.
type Granularity string

// Mirror granularities.
const (
	// MirrorComparison mirrors registrations and every accepted judgment.
	MirrorComparison Granularity = "comparison"
	// MirrorRegistration mirrors registrations only.
	MirrorRegistration Granularity = "registration"
)

// ErrNoGlobalStore is returned when mirroring is requested without a global store.
var ErrNoGlobalStore = errors.New("no global store configured")

// Judge decides which of two entities is better on one dimension. The
// answer is valid only when it equals one of the two names; anything else
// skips the pair.
type Judge interface {
	Judge(ctx context.Context, dim rating.Dimension, challenger, incumbent string) (string, error)
}

// JudgeFunc adapts a function to Judge.
type JudgeFunc func(ctx context.Context, dim rating.Dimension, challenger, incumbent string) (string, error)

// Judge calls f.
func (f JudgeFunc) Judge(ctx context.Context, dim rating.Dimension, challenger, incumbent string) (string, error) {
	return f(ctx, dim, challenger, incumbent)
}

// Snapshotter persists a store in full.
type Snapshotter interface {
	Persist(ctx context.Context, s *repository.Store) error
}

// Report summarises one Introduce call.
type Report struct {
	Name string
	// Existing is true when the entity was already registered; no
	// comparisons are run for it.
	Existing bool
	Applied  int
	Skipped  int
}

// Service orchestrates registration, comparisons and ranking.
type Service struct {
	local      *repository.Store
	localSnap  Snapshotter
	global     *repository.Store
	globalSnap Snapshotter

	dims        rating.Dimensions
	kFactor     float64
	baseRating  float64
	granularity Granularity
	mirroring   bool
	sessionID   string

	logger logger.Logger
}

// New creates a service over the local store.
func New(local *repository.Store, opts ...Option) *Service {
	s := &Service{
		local:       local,
		dims:        local.Dimensions(),
		kFactor:     rating.DefaultKFactor,
		baseRating:  rating.DefaultBase,
		granularity: MirrorComparison,
		logger:      logger.New(logger.WithWriter(io.Discard)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.sessionID != "" {
		s.logger = s.logger.With(logger.String("session", s.sessionID))
	}
	return s
}

// SetMirroring turns global mirroring on or off.
func (s *Service) SetMirroring(enabled bool) error {
	if enabled && s.global == nil {
		return ErrNoGlobalStore
	}
	s.mirroring = enabled
	return nil
}

// Mirroring reports whether global mirroring is on.
func (s *Service) Mirroring() bool { return s.mirroring }

// Local returns the session's store.
func (s *Service) Local() *repository.Store { return s.local }

// Global returns the shared store, or nil when none is attached.
func (s *Service) Global() *repository.Store { return s.global }

func (s *Service) defaultRecord() rating.Record {
	return rating.NewRecord(s.dims, s.baseRating)
}

// Register adds name to the local store with the default record. If it was
// new and mirroring is on, a copy is added to the global store when absent
// there, and the global snapshot is written straight away.
// Returns true if name was new locally.
func (s *Service) Register(ctx context.Context, name string) (bool, error) {
	added, err := s.local.Register(name, s.defaultRecord())
	if err != nil {
		return false, err
	}
	if !added {
		s.logger.Debug(ctx, "entity already registered", logger.String("name", name))
		return false, nil
	}
	s.logger.Info(ctx, "entity registered", logger.String("name", name), logger.String("scope", string(repository.ScopeLocal)))

	if !s.mirroring || s.global.Has(name) {
		return true, nil
	}
	if _, err := s.global.Register(name, s.defaultRecord()); err != nil {
		return true, err
	}
	s.logger.Info(ctx, "entity mirrored", logger.String("name", name), logger.String("scope", string(repository.ScopeGlobal)))
	return true, s.persistGlobal(ctx)
}

// Introduce registers name and asks judge to compare it with every other
// local entity, in insertion order, on every dimension. Answers naming
// neither entity are skipped. An entity that was already registered is not
// compared again.
func (s *Service) Introduce(ctx context.Context, name string, judge Judge) (Report, error) {
	report := Report{Name: name}
	added, err := s.Register(ctx, name)
	if err != nil {
		return report, err
	}
	if !added {
		report.Existing = true
		return report, nil
	}

	for _, other := range s.local.Names() {
		if other == name {
			continue
		}
		for _, dim := range s.dims {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			answer, err := judge.Judge(ctx, dim, name, other)
			if err != nil {
				return report, fmt.Errorf("judge %s vs %s on %s: %w", name, other, dim, err)
			}

			ch, err := s.local.Compare(name, other, answer, dim, s.kFactor)
			if err != nil {
				return report, err
			}
			metrics.RecordComparison(string(dim), string(repository.ScopeLocal), ch.Applied, ch.DeltaA)
			if !ch.Applied {
				report.Skipped++
				s.logger.Debug(ctx, "judgment skipped", logger.String("dimension", string(dim)), logger.String("answer", answer))
				continue
			}
			report.Applied++

			if s.mirroring && s.granularity == MirrorComparison {
				if err := s.mirrorJudgment(ctx, name, other, answer, dim); err != nil {
					return report, err
				}
			}
		}
	}

	s.logger.Info(ctx, "entity compared",
		logger.String("name", name),
		logger.Int("applied", report.Applied),
		logger.Int("skipped", report.Skipped))
	return report, nil
}

// mirrorJudgment replays one accepted judgment on the global store. An
// entity missing there starts from the default record.
func (s *Service) mirrorJudgment(ctx context.Context, a, b, winner string, dim rating.Dimension) error {
	for _, name := range []string{a, b} {
		if !s.global.Has(name) {
			s.logger.Warn(ctx, "entity missing from global store; using default ratings", logger.String("name", name))
			if _, err := s.global.Register(name, s.defaultRecord()); err != nil {
				return err
			}
		}
	}
	ch, err := s.global.Compare(a, b, winner, dim, s.kFactor)
	if err != nil {
		return err
	}
	metrics.RecordComparison(string(dim), string(repository.ScopeGlobal), ch.Applied, ch.DeltaA)
	return s.persistGlobal(ctx)
}

func (s *Service) persistGlobal(ctx context.Context) error {
	if s.globalSnap == nil {
		return nil
	}
	if err := s.globalSnap.Persist(ctx, s.global); err != nil {
		s.logger.Error(ctx, "persist global store failed", logger.Error(err))
		return err
	}
	return nil
}

// Rank orders the local store by weighted overall score.
func (s *Service) Rank(_ context.Context, w ranking.Weights) ([]types.Entry, error) {
	return ranking.Rank(s.local, w)
}

// RankGlobal orders the global store by weighted overall score.
func (s *Service) RankGlobal(_ context.Context, w ranking.Weights) ([]types.Entry, error) {
	if s.global == nil {
		return nil, ErrNoGlobalStore
	}
	return ranking.Rank(s.global, w)
}

// Save writes the local snapshot, and the global one while mirroring.
func (s *Service) Save(ctx context.Context) error {
	if s.localSnap != nil {
		if err := s.localSnap.Persist(ctx, s.local); err != nil {
			return err
		}
		s.logger.Info(ctx, "local scores saved", logger.Int("entities", s.local.Len()))
	}
	if s.mirroring {
		if err := s.persistGlobal(ctx); err != nil {
			return err
		}
		s.logger.Info(ctx, "global scores saved", logger.Int("entities", s.global.Len()))
	}
	return nil
}
