// Package config defines tool configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
)

// Mirror granularities.
const (
	// MirrorComparison mirrors registrations and every rating update.
	MirrorComparison = "comparison"
	// MirrorRegistration mirrors registrations only; ratings stay local.
	MirrorRegistration = "registration"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Dimensions lists the recognized comparison axes in prompt order.
	Dimensions []string `koanf:"dimensions" validate:"min=1,unique,dive,required"`

	// Weights maps dimensions to their share of the overall score.
	Weights map[string]float64 `koanf:"weights" validate:"dive,gte=0"`

	// BaseRating is the starting rating on every dimension.
	BaseRating float64 `koanf:"base_rating" validate:"gt=0"`

	// KFactor is the largest swing a single judgment can cause.
	KFactor float64 `koanf:"k_factor" validate:"gt=0"`

	// LocalSnapshot and GlobalSnapshot are the JSON files backing each store.
	LocalSnapshot  string `koanf:"local_snapshot" validate:"required"`
	GlobalSnapshot string `koanf:"global_snapshot" validate:"required,nefield=LocalSnapshot"`

	// Mirror selects how much of a session reaches the global store.
	Mirror string `koanf:"mirror" validate:"oneof=comparison registration"`

	// DoneSentinel ends the entry loop when typed as a program name.
	DoneSentinel string `koanf:"done_sentinel" validate:"required"`

	// MetricsTextfile, when set, receives the Prometheus text exposition on exit.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:   "info",
		LogFormat:  "text",
		Dimensions: []string{"prestige", "vibes", "location"},
		Weights: map[string]float64{
			"prestige": 0.5,
			"vibes":    0.2,
			"location": 0.3,
		},
		BaseRating:     1000,
		KFactor:        32,
		LocalSnapshot:  "local_scores.json",
		GlobalSnapshot: "global_scores.json",
		Mirror:         MirrorComparison,
		DoneSentinel:   "done",
	}
}
