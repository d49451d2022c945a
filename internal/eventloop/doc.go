// Package eventloop provides the single-threaded cooperative host that every
// slideshow callback runs on.
//
// A Loop owns three queues: posted tasks, delayed timers ordered by deadline,
// and next-frame callbacks. A frame is a commit point: registered committers
// observe the state produced by all synchronous work so far, and only then do
// the callbacks requested for that frame run. RequestFrame is therefore not a
// zero-delay timer; it is ordered after the commit of every mutation that
// preceded it.
//
// Time comes from a clockwork.Clock. Production code calls Run with the real
// clock; tests drive a FakeClock and call RunPending on their own goroutine.
package eventloop
