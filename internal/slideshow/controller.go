package slideshow

import (
	"errors"
	"log/slog"
	"time"

	"slideloop/internal/catalog"
	"slideloop/internal/logging"
	"slideloop/internal/scheduler"
)

// Renderer is the compositing surface driven by the controller.
type Renderer interface {
	RenderBlurred(section catalog.Section)
	TransitionToClear()
	ResetToBlurredState()
}

// Loop is the event loop the controller runs on.
type Loop interface {
	scheduler.Timers
	Do(fn func())
	RequestFrame(fn func())
}

// Options configures a Controller.
type Options struct {
	BlurDuration  time.Duration
	ClearDuration time.Duration
	Logger        *slog.Logger
	// OnSectionShown runs on the loop each time a section starts rendering.
	OnSectionShown func(Snapshot)
}

// Controller orchestrates the catalog, scheduler and renderer.
type Controller struct {
	catalog  *catalog.Catalog
	renderer Renderer
	loop     Loop
	sched    *scheduler.Scheduler
	logger   *slog.Logger

	blurDelay  time.Duration
	clearDelay time.Duration
	onShown    func(Snapshot)

	index   int
	phase   Phase
	running bool
	cycles  int
	// cycle identifies the current section render and only startSection
	// advances it; callbacks captured for an older value are ignored.
	cycle uint64
}

// New constructs a stopped controller positioned at section 0.
func New(cat *catalog.Catalog, renderer Renderer, loop Loop, opts Options) (*Controller, error) {
	if cat == nil {
		return nil, errors.New("slideshow: catalog is required")
	}
	if renderer == nil || loop == nil {
		return nil, errors.New("slideshow: renderer and loop are required")
	}
	if opts.BlurDuration <= 0 || opts.ClearDuration <= 0 {
		return nil, errors.New("slideshow: durations must be positive")
	}
	logger := logging.NewComponentLogger(opts.Logger, "slideshow")
	c := &Controller{
		catalog:    cat,
		renderer:   renderer,
		loop:       loop,
		sched:      scheduler.New(loop, opts.Logger),
		logger:     logger,
		blurDelay:  opts.BlurDuration,
		clearDelay: opts.ClearDuration,
		onShown:    opts.OnSectionShown,
	}
	c.sched.OnMisuse(c.abort)
	return c, nil
}

// Play starts looping from section 0. It does nothing while already playing.
func (c *Controller) Play() {
	c.loop.Do(c.play)
}

// Stop cancels pending timers and halts playback, leaving the current
// section and its visual state in place. Stopping twice is harmless.
func (c *Controller) Stop() {
	c.loop.Do(c.stop)
}

// LoadSection jumps to section i and renders it blurred. When playing, the
// cycle restarts from that section. An invalid index changes nothing.
func (c *Controller) LoadSection(i int) error {
	var err error
	c.loop.Do(func() { err = c.loadSection(i) })
	return err
}

// Snapshot returns the playback state once the loop has settled.
func (c *Controller) Snapshot() Snapshot {
	var snap Snapshot
	c.loop.Do(func() { snap = c.snapshot() })
	return snap
}

// Catalog returns the sections being played.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

func (c *Controller) play() {
	if c.running {
		c.logger.Debug("play ignored; already playing")
		return
	}
	c.running = true
	c.index = 0
	c.logger.Info("playback started",
		logging.String(logging.FieldEventType, "playback_started"),
		logging.Int("sections", c.catalog.Len()),
		logging.Duration("blur", c.blurDelay),
		logging.Duration("clear", c.clearDelay),
	)
	c.startSection()
}

func (c *Controller) stop() {
	c.sched.CancelAll()
	if !c.running {
		return
	}
	c.running = false
	c.logger.Info("playback stopped",
		logging.String(logging.FieldEventType, "playback_stopped"),
		logging.Int(logging.FieldIndex, c.index),
		logging.String(logging.FieldPhase, c.phase.String()),
	)
}

func (c *Controller) loadSection(i int) error {
	if _, err := c.catalog.Get(i); err != nil {
		return err
	}
	c.sched.CancelAll()
	c.index = i
	c.renderer.ResetToBlurredState()
	c.startSection()
	return nil
}

// startSection renders the current index blurred and, while playing,
// schedules its transition.
func (c *Controller) startSection() {
	section, err := c.catalog.Get(c.index)
	if err != nil {
		c.abort(err)
		return
	}
	c.cycle++
	cycle := c.cycle
	c.phase = PhaseBlurred
	c.renderer.RenderBlurred(section)
	if c.running {
		c.sched.ScheduleTransition(c.blurDelay, func() { c.transition(cycle) })
	}
	c.logger.Debug("section shown",
		logging.String(logging.FieldSection, section.Name),
		logging.Int(logging.FieldIndex, c.index),
	)
	if c.onShown != nil {
		c.onShown(c.snapshot())
	}
}

func (c *Controller) transition(cycle uint64) {
	if cycle != c.cycle || !c.running {
		return
	}
	c.phase = PhaseTransitioning
	c.renderer.TransitionToClear()
	c.loop.RequestFrame(func() {
		if cycle == c.cycle && c.phase == PhaseTransitioning {
			c.phase = PhaseClear
		}
	})
	c.sched.ScheduleSectionAdvance(c.clearDelay, func() { c.advance(cycle) })
}

func (c *Controller) advance(cycle uint64) {
	if cycle != c.cycle || !c.running {
		return
	}
	c.phase = PhaseClear
	c.index = (c.index + 1) % c.catalog.Len()
	if c.index == 0 {
		c.cycles++
		c.logger.Info("catalog pass completed",
			logging.String(logging.FieldEventType, "pass_completed"),
			logging.Int("cycles", c.cycles),
		)
	}
	c.renderer.ResetToBlurredState()
	c.startSection()
}

// abort handles a broken scheduling invariant by halting playback.
func (c *Controller) abort(err error) {
	c.logger.Error("playback aborted",
		logging.String(logging.FieldEventType, "playback_aborted"),
		logging.Int(logging.FieldIndex, c.index),
		logging.Error(err),
	)
	c.sched.CancelAll()
	c.running = false
}

func (c *Controller) snapshot() Snapshot {
	snap := Snapshot{
		Index:  c.index,
		Phase:  c.phase,
		Cycles: c.cycles,
		Status: StatusStopped,
	}
	if c.running {
		snap.Status = StatusPlaying
	}
	if section, err := c.catalog.Get(c.index); err == nil {
		snap.Section = section.Name
	}
	return snap
}
