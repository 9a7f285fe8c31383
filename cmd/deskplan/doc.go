// Package main hosts the deskplan CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the two halves of a reorganization:
// "plan" enumerates a root directory into a prompt for an external planning
// agent, and "apply" executes the resulting plan script with a persisted
// rollback journal, prompting for confirmation before keeping the changes.
// "rollback" replays a journal left behind by an earlier run, and "config"
// scaffolds and validates the TOML configuration.
//
// Keep this package lean: the interpreter, journal, and state machine live
// under internal/ and are surfaced here through flags and output formatting
// only.
package main
