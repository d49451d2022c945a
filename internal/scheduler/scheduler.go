// Package scheduler manages the two named, cancelable delayed actions that
// drive a slideshow cycle: the blur-to-clear transition and the section
// advance. Each slot holds at most one pending action, and a cancelled
// action never runs.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"slideloop/internal/eventloop"
	"slideloop/internal/logging"
)

// Slot names a scheduled action kind.
type Slot int

const (
	SlotTransition Slot = iota
	SlotSectionAdvance
)

func (s Slot) String() string {
	switch s {
	case SlotTransition:
		return "transition"
	case SlotSectionAdvance:
		return "section-advance"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// Timers is the delayed-callback source, satisfied by *eventloop.Loop.
type Timers interface {
	AfterFunc(name string, d time.Duration, fn func()) eventloop.Handle
}

// MisuseError reports a broken scheduling invariant, such as an action that
// fired after it was superseded. It signals a programming defect.
type MisuseError struct {
	Slot   Slot
	Reason string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("scheduler misuse on %s slot: %s", e.Slot, e.Reason)
}

type pending struct {
	token  uint64
	handle eventloop.Handle
}

// Scheduler owns one pending transition and one pending section advance.
// All methods must be called from the loop thread.
type Scheduler struct {
	timers   Timers
	logger   *slog.Logger
	slots    [2]*pending
	tokens   uint64
	onMisuse func(error)
}

// New constructs a scheduler on the given timer source.
func New(timers Timers, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		timers: timers,
		logger: logging.NewComponentLogger(logger, "scheduler"),
	}
}

// OnMisuse registers the handler invoked with a *MisuseError.
func (s *Scheduler) OnMisuse(fn func(error)) {
	s.onMisuse = fn
}

// ScheduleTransition replaces any pending transition with action after delay.
func (s *Scheduler) ScheduleTransition(delay time.Duration, action func()) {
	s.schedule(SlotTransition, delay, action)
}

// ScheduleSectionAdvance replaces any pending advance with action after delay.
func (s *Scheduler) ScheduleSectionAdvance(delay time.Duration, action func()) {
	s.schedule(SlotSectionAdvance, delay, action)
}

// CancelAll cancels both slots. Calling it with nothing pending is a no-op.
func (s *Scheduler) CancelAll() {
	s.cancel(SlotTransition)
	s.cancel(SlotSectionAdvance)
}

// Pending reports whether slot has an action waiting to fire.
func (s *Scheduler) Pending(slot Slot) bool {
	return s.slots[slot] != nil
}

func (s *Scheduler) schedule(slot Slot, delay time.Duration, action func()) {
	s.cancel(slot)
	s.tokens++
	token := s.tokens
	handle := s.timers.AfterFunc(slot.String(), delay, func() {
		s.fire(slot, token, action)
	})
	s.slots[slot] = &pending{token: token, handle: handle}
	s.logger.Debug("action scheduled",
		logging.String("slot", slot.String()),
		logging.Duration("delay", delay),
	)
}

func (s *Scheduler) cancel(slot Slot) {
	p := s.slots[slot]
	if p == nil {
		return
	}
	s.slots[slot] = nil
	p.handle.Stop()
}

func (s *Scheduler) fire(slot Slot, token uint64, action func()) {
	current := s.slots[slot]
	if current == nil || current.token != token {
		s.misuse(&MisuseError{Slot: slot, Reason: "cancelled or superseded action fired"})
		return
	}
	s.slots[slot] = nil
	action()
}

func (s *Scheduler) misuse(err *MisuseError) {
	s.logger.Error("scheduler invariant violated",
		logging.String(logging.FieldEventType, "scheduler_misuse"),
		logging.Error(err),
	)
	if s.onMisuse != nil {
		s.onMisuse(err)
	}
}
