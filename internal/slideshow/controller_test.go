package slideshow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slideloop/internal/catalog"
	"slideloop/internal/compositor"
	"slideloop/internal/eventloop"
	"slideloop/internal/slideshow"
	"slideloop/internal/testsupport"
	"slideloop/internal/trace"
)

const (
	blurDelay  = 2000 * time.Millisecond
	clearDelay = 2000 * time.Millisecond
)

type harness struct {
	loop       *eventloop.Loop
	clock      *clockwork.FakeClock
	manager    *compositor.Manager
	recorder   *trace.Recorder
	controller *slideshow.Controller
	shown      []slideshow.Snapshot
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	loop, clock := testsupport.NewLoop(t)
	return newHarnessOn(t, loop, loop, clock)
}

func newHarnessOn(t *testing.T, ctrlLoop slideshow.Loop, loop *eventloop.Loop, clock *clockwork.FakeClock) *harness {
	t.Helper()
	h := &harness{loop: loop, clock: clock}
	h.manager = compositor.New(loop, compositor.NewHeadlessSurface(), nil)
	h.recorder = trace.NewRecorder("test")
	h.manager.AddObserver(h.recorder)

	controller, err := slideshow.New(catalog.Demo(), h.manager, ctrlLoop, slideshow.Options{
		BlurDuration:   blurDelay,
		ClearDuration:  clearDelay,
		OnSectionShown: func(s slideshow.Snapshot) { h.shown = append(h.shown, s) },
	})
	require.NoError(t, err)
	h.controller = controller
	return h
}

func (h *harness) drive(t *testing.T, d time.Duration) slideshow.Snapshot {
	t.Helper()
	testsupport.Drive(t, h.loop, h.clock, d)
	return h.controller.Snapshot()
}

func TestInitialStateIsStoppedAtFirstSection(t *testing.T) {
	h := newHarness(t)
	snap := h.controller.Snapshot()
	assert.Equal(t, slideshow.StatusStopped, snap.Status)
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, slideshow.PhaseBlurred, snap.Phase)
}

func TestScenarioTimeline(t *testing.T) {
	h := newHarness(t)
	names := []string{"Email", "Music App", "Photo", "Website", "Camera"}

	h.controller.Play()
	step := 250 * time.Millisecond
	for elapsed := time.Duration(0); elapsed <= 24*time.Second; elapsed += step {
		var snap slideshow.Snapshot
		if elapsed == 0 {
			snap = h.controller.Snapshot()
		} else {
			snap = h.drive(t, step)
		}
		ms := elapsed.Milliseconds()
		wantIndex := int(ms/4000) % len(names)
		wantPhase := slideshow.PhaseBlurred
		if ms%4000 >= 2000 {
			wantPhase = slideshow.PhaseClear
		}
		require.Equal(t, wantIndex, snap.Index, "index at %dms", ms)
		require.Equal(t, names[wantIndex], snap.Section, "section at %dms", ms)
		require.Equal(t, wantPhase, snap.Phase, "phase at %dms", ms)
		require.True(t, snap.Running())
	}

	assert.Equal(t, 1, h.controller.Snapshot().Cycles)
	assert.Empty(t, trace.Verify(h.recorder.Records()))
}

func TestFullPassRestartsWithoutPause(t *testing.T) {
	h := newHarness(t)
	h.controller.Play()

	pass := time.Duration(h.controller.Catalog().Len()) * (blurDelay + clearDelay)
	snap := h.drive(t, pass-time.Millisecond)
	assert.Equal(t, 4, snap.Index)
	assert.Equal(t, 0, snap.Cycles)

	snap = h.drive(t, time.Millisecond)
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, slideshow.PhaseBlurred, snap.Phase)
	assert.Equal(t, 1, snap.Cycles)
	assert.Equal(t, pass, testsupport.Elapsed(h.clock))

	state := h.manager.State()
	assert.Equal(t, 1.0, state.BlurredOpacity)
	assert.Zero(t, state.ClearOpacity)
}

func TestPlayIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.controller.Play()
	h.drive(t, 3*time.Second)

	h.controller.Play()
	snap := h.controller.Snapshot()
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, slideshow.PhaseClear, snap.Phase, "second Play must not restart the section")
	assert.Len(t, h.shown, 1)
}

func TestStopIsIdempotentAndFreezesState(t *testing.T) {
	h := newHarness(t)
	h.controller.Stop()
	assert.Equal(t, slideshow.StatusStopped, h.controller.Snapshot().Status)

	h.controller.Play()
	h.drive(t, 5*time.Second)
	h.controller.Stop()
	h.controller.Stop()
	stopped := h.controller.Snapshot()
	visual := h.manager.State()
	assert.Equal(t, 1, stopped.Index)
	assert.Equal(t, slideshow.PhaseBlurred, stopped.Phase)
	assert.Zero(t, h.loop.Pending())

	after := h.drive(t, time.Minute)
	assert.Equal(t, stopped, after)
	assert.Equal(t, visual, h.manager.State())
}

func TestStopAtExpiryInstantPreventsTransition(t *testing.T) {
	h := newHarness(t)
	h.controller.Play()
	h.loop.RunPending()

	// Move time onto the transition deadline without letting the loop run it.
	h.clock.Advance(blurDelay)
	h.controller.Stop()
	h.loop.RunPending()

	snap := h.controller.Snapshot()
	assert.Equal(t, slideshow.PhaseBlurred, snap.Phase)
	assert.Zero(t, h.manager.State().ClearOpacity)
}

func TestLoadSectionRendersBlurredImmediately(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.controller.LoadSection(3))
	snap := h.controller.Snapshot()
	assert.Equal(t, 3, snap.Index)
	assert.Equal(t, slideshow.PhaseBlurred, snap.Phase)
	assert.Equal(t, slideshow.StatusStopped, snap.Status)

	state := h.manager.State()
	assert.Equal(t, 1.0, state.BlurredOpacity)
	assert.Zero(t, state.ClearOpacity)
	assert.Zero(t, h.loop.Pending(), "stopped controller schedules nothing")
}

func TestLoadSectionWhilePlayingRestartsCycle(t *testing.T) {
	h := newHarness(t)
	h.controller.Play()
	h.drive(t, 3*time.Second)

	require.NoError(t, h.controller.LoadSection(2))
	state := h.manager.State()
	assert.Equal(t, 1.0, state.BlurredOpacity)
	assert.Zero(t, state.ClearOpacity)

	snap := h.drive(t, blurDelay-time.Millisecond)
	assert.Equal(t, 2, snap.Index)
	assert.Equal(t, slideshow.PhaseBlurred, snap.Phase)

	snap = h.drive(t, time.Millisecond)
	assert.Equal(t, slideshow.PhaseClear, snap.Phase)

	snap = h.drive(t, clearDelay)
	assert.Equal(t, 3, snap.Index)
	assert.Empty(t, trace.Verify(h.recorder.Records()))
}

func TestLoadSectionOutOfRangeChangesNothing(t *testing.T) {
	h := newHarness(t)
	h.controller.Play()
	h.drive(t, time.Second)
	before := h.controller.Snapshot()
	pending := h.loop.Pending()

	for _, i := range []int{-1, 5, 99} {
		err := h.controller.LoadSection(i)
		var oor *catalog.OutOfRangeError
		require.True(t, errors.As(err, &oor), "index %d", i)
		assert.Equal(t, i, oor.Index)
	}

	assert.Equal(t, before, h.controller.Snapshot())
	assert.Equal(t, pending, h.loop.Pending())
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	loop, _ := testsupport.NewLoop(t)
	manager := compositor.New(loop, compositor.NewHeadlessSurface(), nil)

	_, err := slideshow.New(nil, manager, loop, slideshow.Options{BlurDuration: blurDelay, ClearDuration: clearDelay})
	assert.Error(t, err)
	_, err = slideshow.New(catalog.Demo(), manager, loop, slideshow.Options{BlurDuration: blurDelay})
	assert.Error(t, err)
}

func TestSectionShownHookFollowsPlayback(t *testing.T) {
	h := newHarness(t)
	h.controller.Play()
	h.drive(t, 8*time.Second)

	require.Len(t, h.shown, 3)
	for i, snap := range h.shown {
		assert.Equal(t, i, snap.Index)
		assert.Equal(t, slideshow.PhaseBlurred, snap.Phase)
	}
}

// leakyLoop hands out timers whose Stop has no effect, so cancelled actions
// still fire and the scheduler detects the broken invariant.
type leakyLoop struct {
	*eventloop.Loop
}

type inertHandle struct{}

func (inertHandle) Stop() bool { return true }

func (l leakyLoop) AfterFunc(name string, d time.Duration, fn func()) eventloop.Handle {
	l.Loop.AfterFunc(name, d, fn)
	return inertHandle{}
}

func TestSchedulerMisuseStopsPlayback(t *testing.T) {
	loop, clock := testsupport.NewLoop(t)
	h := newHarnessOn(t, leakyLoop{loop}, loop, clock)

	h.controller.Play()
	h.drive(t, time.Second)
	require.NoError(t, h.controller.LoadSection(2))

	snap := h.drive(t, time.Second)
	assert.Equal(t, slideshow.StatusStopped, snap.Status)
	assert.Equal(t, 2, snap.Index)
	assert.Equal(t, slideshow.PhaseBlurred, snap.Phase)

	snap = h.drive(t, time.Minute)
	assert.Equal(t, slideshow.StatusStopped, snap.Status)
	assert.Equal(t, 2, snap.Index)
	assert.Zero(t, h.manager.State().ClearOpacity)
}

// stopAfterTransition queues a Stop right behind the transition timer, ahead
// of the frame that promotes the phase to clear.
type stopAfterTransition struct {
	*eventloop.Loop
	controller *slideshow.Controller
}

func (l *stopAfterTransition) AfterFunc(name string, d time.Duration, fn func()) eventloop.Handle {
	if name != "transition" {
		return l.Loop.AfterFunc(name, d, fn)
	}
	return l.Loop.AfterFunc(name, d, func() {
		fn()
		l.Post(l.controller.Stop)
	})
}

func TestStopBeforeClearFrameStillSettlesClear(t *testing.T) {
	loop, clock := testsupport.NewLoop(t)
	wrapped := &stopAfterTransition{Loop: loop}
	h := newHarnessOn(t, wrapped, loop, clock)
	wrapped.controller = h.controller

	h.controller.Play()
	snap := h.drive(t, blurDelay)

	assert.Equal(t, slideshow.StatusStopped, snap.Status)
	assert.Equal(t, slideshow.PhaseClear, snap.Phase)
	assert.Equal(t, 1.0, h.manager.State().ClearOpacity)

	snap = h.drive(t, clearDelay*3)
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, slideshow.PhaseClear, snap.Phase)
}
