// Package testsupport provides shared helpers for package tests: temp-dir
// configs, store constructors, and input-file writers.
package testsupport

import (
	"path/filepath"
	"testing"

	"marquee/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TMDB.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Overrides.Path = filepath.Join(base, "overrides.json")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTMDBBaseURL points the provider client at a test server.
func WithTMDBBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.TMDB.BaseURL = url
	}
}
