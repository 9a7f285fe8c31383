// Package config loads, normalizes, and validates deskplan configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. Validation keeps run artifacts safe:
// the journal and lock filenames must be bare names so they always land
// inside the root boundary the executor is confined to.
package config
