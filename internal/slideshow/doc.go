// Package slideshow implements the play, loop and stop state machine.
//
// A Controller walks the catalog section by section. Each section is
// rendered blurred, transitioned to clear after the blur duration, and
// replaced by the next section after the clear duration. The index wraps at
// the end of the catalog so playback loops until stopped.
//
// All state lives on the event loop. The exported methods post their work
// onto the loop and block until it has settled, so they are safe to call
// from any goroutine except a loop callback.
package slideshow
