package eventloop

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"slideloop/internal/logging"
)

// Handle cancels a scheduled timer.
type Handle interface {
	// Stop prevents the timer from firing. It reports false when the timer
	// already fired or was stopped before.
	Stop() bool
}

// FrameInfo describes a committed frame.
type FrameInfo struct {
	Seq uint64
	At  time.Time
}

// Loop is a single-threaded task, timer and frame queue.
type Loop struct {
	clock  clockwork.Clock
	logger *slog.Logger

	mu         sync.Mutex
	tasks      []func()
	frames     []func()
	idle       []func()
	timers     timerHeap
	timerSeq   uint64
	frameSeq   uint64
	dirty      bool
	running    bool
	finished   bool
	committers []func(FrameInfo)

	wake    chan struct{}
	started chan struct{}
	done    chan struct{}
}

// New constructs a loop on the given clock.
func New(clock clockwork.Clock, logger *slog.Logger) *Loop {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Loop{
		clock:   clock,
		logger:  logging.NewComponentLogger(logger, "eventloop"),
		wake:    make(chan struct{}, 1),
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Clock returns the loop's time source.
func (l *Loop) Clock() clockwork.Clock {
	return l.clock
}

// Now returns the current loop time.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Post enqueues fn to run on the loop. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.signal()
}

// AfterFunc schedules fn to run once on the loop after d. Timers with equal
// deadlines fire in scheduling order.
func (l *Loop) AfterFunc(name string, d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	l.timerSeq++
	t := &timer{
		loop:     l,
		name:     name,
		deadline: l.clock.Now().Add(d),
		seq:      l.timerSeq,
		fn:       fn,
	}
	heap.Push(&l.timers, t)
	l.mu.Unlock()
	l.signal()
	return t
}

// RequestFrame runs fn after the next frame has been committed.
func (l *Loop) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
	l.signal()
}

// Invalidate marks visual state as changed so a frame is committed at the end
// of the current turn even when no frame callback is pending.
func (l *Loop) Invalidate() {
	l.mu.Lock()
	l.dirty = true
	l.mu.Unlock()
}

// OnCommit registers fn to observe every committed frame. Committers run in
// registration order before that frame's callbacks.
func (l *Loop) OnCommit(fn func(FrameInfo)) {
	l.mu.Lock()
	l.committers = append(l.committers, fn)
	l.mu.Unlock()
}

// NextDeadline returns the earliest pending timer deadline.
func (l *Loop) NextDeadline() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return time.Time{}, false
	}
	return l.timers[0].deadline, true
}

// Pending reports how many timers are waiting to fire.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Do runs fn on the loop and returns once the loop has settled: every task
// and frame that fn caused has been processed. While Run is active the call
// is posted and awaited; otherwise fn runs on the caller, which then acts as
// the loop thread. Do must not be called from a loop callback.
func (l *Loop) Do(fn func()) {
	l.mu.Lock()
	if l.running {
		settled := make(chan struct{})
		l.tasks = append(l.tasks, func() {
			defer func() {
				l.mu.Lock()
				l.idle = append(l.idle, func() { close(settled) })
				l.mu.Unlock()
			}()
			fn()
		})
		l.mu.Unlock()
		l.signal()
		select {
		case <-settled:
		case <-l.done:
		}
		return
	}
	l.mu.Unlock()

	l.invoke("do", fn)
	for l.step(false) {
	}
	l.runIdle()
}

// Started is closed once Run has taken ownership of the loop.
func (l *Loop) Started() <-chan struct{} {
	return l.started
}

// RunPending processes tasks, frames and every timer whose deadline has
// passed, until nothing is runnable at the current clock time.
func (l *Loop) RunPending() {
	for l.step(true) {
	}
	l.runIdle()
}

// Run drives the loop until ctx is cancelled. A loop runs at most once.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running || l.finished {
		l.mu.Unlock()
		return fmt.Errorf("event loop already started")
	}
	l.running = true
	l.mu.Unlock()
	close(l.started)

	defer func() {
		l.mu.Lock()
		l.running = false
		l.finished = true
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		l.RunPending()

		var (
			timerC <-chan time.Time
			wait   clockwork.Timer
		)
		if next, ok := l.NextDeadline(); ok {
			wait = l.clock.NewTimer(max(next.Sub(l.clock.Now()), 0))
			timerC = wait.Chan()
		}

		select {
		case <-ctx.Done():
			if wait != nil {
				wait.Stop()
			}
			return ctx.Err()
		case <-l.wake:
		case <-timerC:
		}
		if wait != nil {
			wait.Stop()
		}
	}
}

// step runs one unit of work: a task, else a frame, else one due timer. Tasks
// and frames caused by a timer therefore complete before the next timer fires.
func (l *Loop) step(withTimers bool) bool {
	l.mu.Lock()
	if len(l.tasks) > 0 {
		task := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		l.mu.Unlock()
		l.invoke("task", task)
		return true
	}
	if l.dirty || len(l.frames) > 0 {
		l.mu.Unlock()
		l.frame()
		return true
	}
	if withTimers && len(l.timers) > 0 && !l.timers[0].deadline.After(l.clock.Now()) {
		t := heap.Pop(&l.timers).(*timer)
		t.fired = true
		l.mu.Unlock()
		l.invoke(t.name, t.fn)
		return true
	}
	l.mu.Unlock()
	return false
}

func (l *Loop) frame() {
	l.mu.Lock()
	callbacks := l.frames
	l.frames = nil
	l.dirty = false
	l.frameSeq++
	info := FrameInfo{Seq: l.frameSeq, At: l.clock.Now()}
	committers := slices.Clone(l.committers)
	l.mu.Unlock()

	for _, commit := range committers {
		l.invoke("commit", func() { commit(info) })
	}
	for _, cb := range callbacks {
		l.invoke("frame", cb)
	}
}

func (l *Loop) runIdle() {
	l.mu.Lock()
	idle := l.idle
	l.idle = nil
	l.mu.Unlock()
	for _, fn := range idle {
		fn()
	}
}

// invoke runs fn, recovering and logging a panic so one faulty callback cannot
// take the loop down.
func (l *Loop) invoke(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panicked",
				logging.String(logging.FieldEventType, "loop_callback_panic"),
				logging.String("callback", kind),
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())),
			)
		}
	}()
	fn()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
