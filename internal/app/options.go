package service

import (
	"github.com/okian/resirank/internal/adapters/repository"
	"github.com/okian/resirank/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithKFactor sets the Elo k-factor used for every judgment.
func WithKFactor(k float64) Option {
	return func(s *Service) {
		if k > 0 {
			s.kFactor = k
		}
	}
}

// WithBaseRating sets the rating new entities start with on every dimension.
func WithBaseRating(base float64) Option {
	return func(s *Service) {
		s.baseRating = base
	}
}

// WithMirrorGranularity selects MirrorComparison or MirrorRegistration.
// Unknown values are ignored.
func WithMirrorGranularity(g Granularity) Option {
	return func(s *Service) {
		switch g {
		case MirrorComparison, MirrorRegistration:
			s.granularity = g
		}
	}
}

// WithLocalSnapshot sets where Save writes the local store.
func WithLocalSnapshot(snap Snapshotter) Option {
	return func(s *Service) {
		s.localSnap = snap
	}
}

// WithGlobalStore attaches the shared store and its snapshot. Without it
// mirroring cannot be enabled.
func WithGlobalStore(global *repository.Store, snap Snapshotter) Option {
	return func(s *Service) {
		s.global = global
		s.globalSnap = snap
	}
}

// WithSessionID tags every log line with the session id.
func WithSessionID(id string) Option {
	return func(s *Service) {
		s.sessionID = id
	}
}
