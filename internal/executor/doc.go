// Package executor interprets plan scripts against a root boundary and
// drives the apply → persist → confirm → commit-or-undo state machine.
//
// Each script line is evaluated independently: a bad line (syntax error,
// boundary violation, missing source) is recorded in the run report and
// execution continues, so a partially applicable plan still applies
// everything it safely can. Every successful operation appends its inverse
// to the rollback journal; after the whole script has been processed the
// journal is persisted and an injected decision function chooses between
// committing (journal discarded) and rolling back (journal replayed in
// reverse).
//
// Only setup failures — missing root, missing plan file, a concurrent run
// holding the lock — abort a run; they surface as errors before any
// mutation beyond the already-applied lines.
package executor
