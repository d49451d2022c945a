package testsupport

import (
	"path/filepath"
	"testing"

	"slideloop/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Storage defaults to the in-memory backend; options override any field.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Trace.Dir = filepath.Join(base, "traces")
	cfgVal.Storage.Backend = config.BackendMemory

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStorage selects the key-value backend.
func WithStorage(backend, redisURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Backend = backend
		b.cfg.Storage.RedisURL = redisURL
	}
}

// WithTiming overrides the blur and clear durations in milliseconds.
func WithTiming(blurMS, clearMS int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Timing.BlurDurationMS = blurMS
		b.cfg.Timing.ClearDurationMS = clearMS
	}
}

// WithTrace enables frame tracing into the temp trace directory.
func WithTrace() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Trace.Enabled = true
	}
}

// WithDemoManifest writes a two-section manifest with PNG assets under the
// temp directory and points the config at it.
func WithDemoManifest() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Catalog = WriteManifest(b.t, filepath.Join(b.baseDir, "catalog"), "Inbox", "Gallery")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
