// Package player hosts a slideshow run: it owns the single-instance lock,
// session storage, event loop, console surface and optional frame trace, and
// tears them down in order when the run ends.
package player
