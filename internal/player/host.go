package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"slideloop/internal/catalog"
	"slideloop/internal/compositor"
	"slideloop/internal/config"
	"slideloop/internal/eventloop"
	"slideloop/internal/kvstore"
	"slideloop/internal/logging"
	"slideloop/internal/preflight"
	"slideloop/internal/session"
	"slideloop/internal/slideshow"
	"slideloop/internal/trace"
)

// ErrAlreadyRunning is returned when another player holds the state lock.
var ErrAlreadyRunning = errors.New("another slideloop player is already running")

// Options configures a single run.
type Options struct {
	// Duration stops playback after the given time. Zero runs until cancelled.
	Duration time.Duration
	// Resume continues from the section saved by the previous run.
	Resume bool
	// Trace records every committed frame and writes a parquet trace.
	Trace bool
	// Out receives the console surface output. Defaults to stdout.
	Out io.Writer
	// Clock overrides the real clock.
	Clock clockwork.Clock
}

// Summary describes a finished run.
type Summary struct {
	RunID       string
	Final       slideshow.Snapshot
	ResumedFrom int
	Frames      int
	TracePath   string
	Violations  []trace.Violation
	Backend     string
	Degraded    bool
}

// Host wires the runtime components of a player.
type Host struct {
	cfg    *config.Config
	logger *slog.Logger
	opts   Options

	lockPath string
	lock     *flock.Flock
}

// New constructs a host for cfg.
func New(cfg *config.Config, logger *slog.Logger, opts Options) (*Host, error) {
	if cfg == nil {
		return nil, errors.New("player requires a config")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	lockPath := cfg.LockPath()
	return &Host{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "player"),
		opts:     opts,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LoadCatalog builds the catalog configured in cfg, falling back to the
// built-in demo sections when no manifest is set.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if strings.TrimSpace(cfg.Paths.Catalog) == "" {
		return catalog.Demo(), nil
	}
	cat, err := catalog.LoadManifest(cfg.Paths.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

// Run plays the slideshow until ctx is cancelled, a termination signal
// arrives, or the configured duration elapses.
func (h *Host) Run(ctx context.Context) (Summary, error) {
	ctx, cancelSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancelSignals()

	if err := h.cfg.EnsureDirectories(); err != nil {
		return Summary{}, fmt.Errorf("ensure directories: %w", err)
	}
	ok, err := h.lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Summary{}, ErrAlreadyRunning
	}
	defer func() {
		if err := h.lock.Unlock(); err != nil {
			h.logger.Warn("failed to release player lock", logging.Error(err))
		}
	}()

	for _, result := range preflight.Failed(preflight.RunAll(ctx, h.cfg)) {
		h.logger.Warn("preflight check failed",
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
	}

	cat, err := LoadCatalog(h.cfg)
	if err != nil {
		return Summary{}, err
	}

	store := kvstore.Open(ctx, h.cfg, h.logger)
	defer store.Close()
	sess := session.New(store)

	resumeIndex, resumeOK := sess.ResumeIndex(cat.Len())
	runID := uuid.NewString()
	logger := h.logger.With(logging.String(logging.FieldRunID, runID))
	sess.BeginRun(runID)

	loop := eventloop.New(h.opts.Clock, logger)
	manager := compositor.New(loop, NewConsoleSurface(h.opts.Out), logger)
	var recorder *trace.Recorder
	if h.opts.Trace || h.cfg.Trace.Enabled {
		recorder = trace.NewRecorder(runID)
		manager.AddObserver(recorder)
	}

	progress := newProgressWriter(sess)
	controller, err := slideshow.New(cat, manager, loop, slideshow.Options{
		BlurDuration:   h.cfg.BlurDuration(),
		ClearDuration:  h.cfg.ClearDuration(),
		Logger:         logger,
		OnSectionShown: progress.Record,
	})
	if err != nil {
		progress.Close()
		return Summary{}, err
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(loopCtx)
	}()
	<-loop.Started()

	summary := Summary{RunID: runID, ResumedFrom: -1}
	controller.Play()
	if h.opts.Resume && resumeOK {
		if err := controller.LoadSection(resumeIndex); err != nil {
			logger.Warn("resume failed", logging.Int(logging.FieldIndex, resumeIndex), logging.Error(err))
		} else {
			summary.ResumedFrom = resumeIndex
		}
	}
	logger.Info("player started",
		logging.String(logging.FieldEventType, "player_started"),
		logging.Int("sections", cat.Len()),
		logging.String(logging.FieldBackend, store.BackendName()),
		logging.Int("resumed_from", summary.ResumedFrom),
	)

	var deadline <-chan time.Time
	if h.opts.Duration > 0 {
		deadline = h.opts.Clock.After(h.opts.Duration)
	}
	select {
	case <-ctx.Done():
	case <-deadline:
	}

	controller.Stop()
	summary.Final = controller.Snapshot()
	stopLoop()
	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("event loop exited", logging.Error(err))
	}
	progress.Close()

	summary.Backend = store.BackendName()
	summary.Degraded = store.Degraded()
	if recorder != nil {
		records := recorder.Records()
		summary.Frames = len(records)
		summary.Violations = trace.Verify(records)
		for _, v := range summary.Violations {
			logger.Error("flash detected",
				logging.String(logging.FieldEventType, "flash_detected"),
				logging.String(logging.FieldSection, v.Section),
				logging.String("reason", v.Reason),
			)
		}
		path := filepath.Join(h.cfg.Trace.Dir, trace.FileName(runID))
		if err := trace.WriteParquet(path, records); err != nil {
			logger.Warn("trace not written", logging.String("path", path), logging.Error(err))
		} else {
			summary.TracePath = path
		}
	}

	logger.Info("player stopped",
		logging.String(logging.FieldEventType, "player_stopped"),
		logging.Int(logging.FieldIndex, summary.Final.Index),
		logging.String(logging.FieldSection, summary.Final.Section),
		logging.Int("cycles", summary.Final.Cycles),
		logging.Int("frames", summary.Frames),
	)
	return summary, nil
}
