package executor

import (
	"deskplan/internal/journal"
	"deskplan/internal/plan"
)

// Outcome classifies the result of one script line.
type Outcome string

const (
	// OutcomeApplied means the operation mutated the filesystem and an
	// inverse record was journaled.
	OutcomeApplied Outcome = "applied"
	// OutcomeNoop means the operation required no work (MKDIR of an
	// existing directory). No inverse record is journaled.
	OutcomeNoop Outcome = "noop"
	// OutcomeFailed means the line was skipped: syntax error, boundary
	// violation, or missing source.
	OutcomeFailed Outcome = "failed"
)

// LineResult reports what happened to one script line.
type LineResult struct {
	Line    int
	Text    string
	Kind    plan.Kind
	Outcome Outcome
	Detail  string
	Err     error
}

// Report aggregates the results of a run.
type Report struct {
	RunID       string
	Results     []LineResult
	JournalPath string
	FinalState  State
	Undo        *journal.UndoResult
}

// Applied counts lines that mutated the filesystem.
func (r *Report) Applied() int { return r.count(OutcomeApplied) }

// Failed counts lines that were skipped with an error.
func (r *Report) Failed() int { return r.count(OutcomeFailed) }

// Noops counts lines that required no work.
func (r *Report) Noops() int { return r.count(OutcomeNoop) }

func (r *Report) count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}
