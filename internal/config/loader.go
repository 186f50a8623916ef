package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix = "RESIRANK_"
	EnvConfig = "RESIRANK_CONFIG"
)

var validate = validator.New()

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) at path, or RESIRANK_CONFIG when path is empty
//  3. env (prefix RESIRANK_; a double underscore nests, so
//     RESIRANK_WEIGHTS__VIBES sets weights.vibes, and RESIRANK_DIMENSIONS
//     takes a comma separated list)
//
// A list or map given by a higher layer replaces the default as a whole.
func Load(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		if key == EnvConfig {
			return "", nil
		}
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
		if key == "dimensions" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	applyDefaults(&cfg, base, k)

	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills every key no layer set from base.
func applyDefaults(cfg, base *Config, k *koanf.Koanf) {
	if !k.Exists("log_level") {
		cfg.LogLevel = base.LogLevel
	}
	if !k.Exists("log_format") {
		cfg.LogFormat = base.LogFormat
	}
	if !k.Exists("dimensions") {
		cfg.Dimensions = base.Dimensions
	}
	if !k.Exists("weights") {
		cfg.Weights = base.Weights
	}
	if !k.Exists("base_rating") {
		cfg.BaseRating = base.BaseRating
	}
	if !k.Exists("k_factor") {
		cfg.KFactor = base.KFactor
	}
	if !k.Exists("local_snapshot") {
		cfg.LocalSnapshot = base.LocalSnapshot
	}
	if !k.Exists("global_snapshot") {
		cfg.GlobalSnapshot = base.GlobalSnapshot
	}
	if !k.Exists("mirror") {
		cfg.Mirror = base.Mirror
	}
	if !k.Exists("done_sentinel") {
		cfg.DoneSentinel = base.DoneSentinel
	}
	if !k.Exists("metrics_textfile") {
		cfg.MetricsTextfile = base.MetricsTextfile
	}
}

// Validate checks field constraints and that every weight names a
// configured dimension.
func (c *Config) Validate(_ context.Context) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	known := make(map[string]struct{}, len(c.Dimensions))
	for _, d := range c.Dimensions {
		known[d] = struct{}{}
	}
	for w := range c.Weights {
		if _, ok := known[w]; !ok {
			return fmt.Errorf("%w: weight %q has no matching dimension", ErrInvalidConfig, w)
		}
	}
	return nil
}

// splitList splits a comma separated env value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
