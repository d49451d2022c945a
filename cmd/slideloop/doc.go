// Package main hosts the slideloop CLI entrypoint and command graph.
//
// The Cobra command tree runs the player, inspects the section catalog,
// scaffolds configuration, edits saved session state and verifies frame
// traces. Configuration resolution and logger setup live here so subcommands
// can focus on output.
package main
