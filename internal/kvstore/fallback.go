package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"slideloop/internal/config"
	"slideloop/internal/logging"
)

const defaultOpTimeout = 500 * time.Millisecond

// FallbackStore serves items from a backend until its first failure and from
// memory afterwards. The switch is permanent for the lifetime of the store.
type FallbackStore struct {
	mu       sync.Mutex
	backend  Backend
	memory   *MemoryBackend
	timeout  time.Duration
	logger   *slog.Logger
	degraded bool
	cause    error
}

// NewFallback wraps backend. A nil backend starts the store degraded.
func NewFallback(backend Backend, timeout time.Duration, logger *slog.Logger) *FallbackStore {
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	s := &FallbackStore{
		backend: backend,
		memory:  NewMemoryBackend(),
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "kvstore"),
	}
	if backend == nil {
		s.degraded = true
	}
	return s
}

// Open builds the store selected by cfg. A backend that cannot be opened is
// logged and replaced by memory, so Open never fails.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) *FallbackStore {
	timeout := cfg.StorageTimeout()
	openCtx, cancel := context.WithTimeout(ctx, max(timeout, time.Second))
	defer cancel()

	var (
		backend Backend
		err     error
	)
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		backend = NewMemoryBackend()
	case config.BackendRedis:
		backend, err = OpenRedis(openCtx, cfg.Storage.RedisURL, "")
	default:
		backend, err = OpenSQLite(openCtx, cfg.StateDBPath())
	}

	store := NewFallback(nil, timeout, logger)
	if err != nil {
		store.fallback(cfg.Storage.Backend, "open", err)
		return store
	}
	store.backend = backend
	store.degraded = false
	store.logger.Debug("key-value store opened", logging.String(logging.FieldBackend, backend.Name()))
	return store
}

func (s *FallbackStore) GetItem(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.degraded {
		ctx, cancel := s.opContext()
		value, ok, err := s.backend.Get(ctx, key)
		cancel()
		if err == nil {
			return value, ok
		}
		s.fallback(s.backend.Name(), "get", err)
	}
	value, ok, _ := s.memory.Get(context.Background(), key)
	return value, ok
}

func (s *FallbackStore) SetItem(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.degraded {
		ctx, cancel := s.opContext()
		err := s.backend.Set(ctx, key, value)
		cancel()
		if err == nil {
			return
		}
		s.fallback(s.backend.Name(), "set", err)
	}
	_ = s.memory.Set(context.Background(), key, value)
}

func (s *FallbackStore) RemoveItem(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.degraded {
		ctx, cancel := s.opContext()
		err := s.backend.Delete(ctx, key)
		cancel()
		if err == nil {
			return
		}
		s.fallback(s.backend.Name(), "remove", err)
	}
	_ = s.memory.Delete(context.Background(), key)
}

func (s *FallbackStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.degraded {
		ctx, cancel := s.opContext()
		err := s.backend.Clear(ctx)
		cancel()
		if err == nil {
			return
		}
		s.fallback(s.backend.Name(), "clear", err)
	}
	_ = s.memory.Clear(context.Background())
}

// Degraded reports whether the store has switched to memory.
func (s *FallbackStore) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Cause returns the backend error that triggered the switch to memory.
func (s *FallbackStore) Cause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

// BackendName names the backend currently serving requests.
func (s *FallbackStore) BackendName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.degraded {
		return s.memory.Name()
	}
	return s.backend.Name()
}

// Close releases the durable backend, if one is still in use.
func (s *FallbackStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	s.degraded = true
	return err
}

func (s *FallbackStore) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// fallback must be called with s.mu held.
func (s *FallbackStore) fallback(backend, op string, err error) {
	s.degraded = true
	s.cause = fmt.Errorf("%s %s: %w", backend, op, err)
	s.logger.Warn("key-value backend failed; continuing in memory",
		logging.String(logging.FieldEventType, "kv_fallback"),
		logging.String(logging.FieldBackend, backend),
		logging.String("operation", op),
		logging.Error(err),
		logging.String("impact", "session state will not survive a restart"),
	)
	if s.backend != nil {
		_ = s.backend.Close()
		s.backend = nil
	}
}
