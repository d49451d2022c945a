package testsupport

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"slideloop/internal/eventloop"
)

// Epoch is the fake clock start used across loop tests.
var Epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// NewLoop returns a loop on a fake clock set to Epoch.
func NewLoop(t testing.TB) (*eventloop.Loop, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(Epoch)
	return eventloop.New(clock, nil), clock
}

// Drive advances fake time by d, stopping at every timer deadline on the way
// so each timer fires at its exact instant. Timers due exactly at the end
// fire before Drive returns.
func Drive(t testing.TB, loop *eventloop.Loop, clock *clockwork.FakeClock, d time.Duration) {
	t.Helper()

	const maxSteps = 1_000_000
	end := clock.Now().Add(d)
	loop.RunPending()
	for steps := 0; ; steps++ {
		if steps >= maxSteps {
			t.Fatalf("drive: loop did not settle within %d deadlines", maxSteps)
		}
		next, ok := loop.NextDeadline()
		if !ok || next.After(end) {
			break
		}
		if wait := next.Sub(clock.Now()); wait > 0 {
			clock.Advance(wait)
		}
		loop.RunPending()
	}
	if wait := end.Sub(clock.Now()); wait > 0 {
		clock.Advance(wait)
	}
	loop.RunPending()
}

// Elapsed reports how far the fake clock has moved past Epoch.
func Elapsed(clock clockwork.Clock) time.Duration {
	return clock.Now().Sub(Epoch)
}
