package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and manifest locations.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
	// Catalog is the section manifest (.yaml, .yml or .toml). Empty selects
	// the built-in demo catalog.
	Catalog string `toml:"catalog"`
}

// Timing contains per-section durations.
type Timing struct {
	BlurDurationMS  int `toml:"blur_duration_ms"`
	ClearDurationMS int `toml:"clear_duration_ms"`
}

// Storage selects the key-value backend for session state.
type Storage struct {
	Backend  string `toml:"backend"`
	RedisURL string `toml:"redis_url"`
	// OpTimeoutMS bounds each backend call before the store falls back to memory.
	OpTimeoutMS int `toml:"op_timeout_ms"`
}

// Trace controls frame trace recording.
type Trace struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format  string `toml:"format"`
	Level   string `toml:"level"`
	Journal bool   `toml:"journal"`
}

// Config encapsulates all configuration values for slideloop.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Timing  Timing  `toml:"timing"`
	Storage Storage `toml:"storage"`
	Trace   Trace   `toml:"trace"`
	Logging Logging `toml:"logging"`
}

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("slideloop.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the state, log and (when tracing) trace directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir, c.Paths.LogDir}
	if c.Trace.Enabled {
		dirs = append(dirs, c.Trace.Dir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// BlurDuration is how long each section stays blurred.
func (c *Config) BlurDuration() time.Duration {
	return time.Duration(c.Timing.BlurDurationMS) * time.Millisecond
}

// ClearDuration is how long the clear image stays visible before the advance.
func (c *Config) ClearDuration() time.Duration {
	return time.Duration(c.Timing.ClearDurationMS) * time.Millisecond
}

// SectionDuration is the full blurred-plus-clear period of one section.
func (c *Config) SectionDuration() time.Duration {
	return c.BlurDuration() + c.ClearDuration()
}

// StorageTimeout bounds a single key-value backend operation.
func (c *Config) StorageTimeout() time.Duration {
	return time.Duration(c.Storage.OpTimeoutMS) * time.Millisecond
}

// StateDBPath is the sqlite database used by the sqlite storage backend.
func (c *Config) StateDBPath() string {
	return filepath.Join(c.Paths.StateDir, "state.db")
}

// LockPath is the file lock guarding a single player per state directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "slideloop.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
