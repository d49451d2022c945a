// Package config loads, normalizes, and validates slideloop configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// SLIDELOOP_REDIS_URL. The Config type centralizes every knob the player and
// CLI need: section timing, the catalog manifest, session storage, frame
// tracing, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, positive durations, and clear validation errors.
package config
