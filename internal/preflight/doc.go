// Package preflight provides readiness checks for the filesystem paths,
// section catalog and storage backend that slideloop depends on.
//
// The player runs RunAll before playback and logs failures; the CLI
// "slideloop status" command renders the same results as a health report.
// The storage check is skipped for the in-memory backend.
package preflight
