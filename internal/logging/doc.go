// Package logging assembles the structured slog loggers used across slideloop.
//
// It owns the console and JSON handlers, level parsing, and output fan-out
// (files, stdout, and optionally the systemd journal), and exposes attribute
// helpers and standard field keys so the event loop, compositor and controller
// emit records with the same shape. NewNop returns a discarding logger for
// tests and wiring code that cannot fail.
package logging
