package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"slideloop/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "slideloop", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".local", "share", "slideloop"); cfg.Paths.StateDir != want {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, want)
	}
	if cfg.Paths.Catalog != "" {
		t.Fatalf("expected empty catalog path, got %q", cfg.Paths.Catalog)
	}
	if cfg.BlurDuration() != 2*time.Second || cfg.ClearDuration() != 2*time.Second {
		t.Fatalf("unexpected durations: blur=%s clear=%s", cfg.BlurDuration(), cfg.ClearDuration())
	}
	if cfg.SectionDuration() != 4*time.Second {
		t.Fatalf("unexpected section duration %s", cfg.SectionDuration())
	}
	if cfg.Storage.Backend != config.BackendSQLite {
		t.Fatalf("unexpected backend %q", cfg.Storage.Backend)
	}
	if cfg.StateDBPath() != filepath.Join(cfg.Paths.StateDir, "state.db") {
		t.Fatalf("unexpected db path %q", cfg.StateDBPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist", dir)
		}
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"state_dir": "~/custom/state",
			"catalog":   "~/show/catalog.yaml",
		},
		"timing": map[string]any{
			"blur_duration_ms":  1500,
			"clear_duration_ms": 3500,
		},
		"storage": map[string]any{
			"backend": "MEMORY",
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "Debug",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != cfgPath {
		t.Fatalf("expected config to be read from %q, got %q (exists=%v)", cfgPath, resolved, exists)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "custom", "state") {
		t.Fatalf("unexpected state dir %q", cfg.Paths.StateDir)
	}
	if cfg.Paths.Catalog != filepath.Join(tempHome, "show", "catalog.yaml") {
		t.Fatalf("unexpected catalog %q", cfg.Paths.Catalog)
	}
	if cfg.SectionDuration() != 5*time.Second {
		t.Fatalf("unexpected section duration %s", cfg.SectionDuration())
	}
	if cfg.Storage.Backend != config.BackendMemory {
		t.Fatalf("expected backend to be normalized, got %q", cfg.Storage.Backend)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SLIDELOOP_REDIS_URL", "redis://cache:6379/2")
	t.Setenv("SLIDELOOP_LOG_LEVEL", "warn")

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[storage]\nbackend = \"redis\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Storage.RedisURL != "redis://cache:6379/2" {
		t.Fatalf("expected redis url from env, got %q", cfg.Storage.RedisURL)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected log level from env, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero blur", func(c *config.Config) { c.Timing.BlurDurationMS = 0 }, "blur_duration_ms"},
		{"negative clear", func(c *config.Config) { c.Timing.ClearDurationMS = -5 }, "clear_duration_ms"},
		{"unknown backend", func(c *config.Config) { c.Storage.Backend = "etcd" }, "storage.backend"},
		{"redis without url", func(c *config.Config) { c.Storage.Backend = config.BackendRedis }, "redis_url"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Timing.BlurDurationMS != 2000 {
		t.Fatalf("unexpected sample blur duration %d", cfg.Timing.BlurDurationMS)
	}
}
