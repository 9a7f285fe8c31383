package executor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"deskplan/internal/config"
	"deskplan/internal/journal"
	"deskplan/internal/logging"
	"deskplan/internal/pathguard"
)

// State tracks the run lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateApplying   State = "applying"
	StatePersisted  State = "persisted"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
)

// DecisionFunc chooses between commit (true) and rollback (false) once the
// journal has been persisted. The CLI supplies an interactive prompt;
// anything other than an affirmative answer rolls back.
type DecisionFunc func(*Report) (bool, error)

// Session owns one run against a root boundary. It is single-use: a run
// reaches exactly one terminal state.
type Session struct {
	cfg    *config.Config
	guard  *pathguard.Guard
	logger *slog.Logger
	runID  string
	jrnl   *journal.Journal
	state  State
}

// NewSession validates the root boundary and prepares an idle session.
// Root validation failures are setup errors: nothing has been mutated.
func NewSession(root string, cfg *config.Config, logger *slog.Logger) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("session requires configuration")
	}
	guard, err := pathguard.New(root)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger = logging.OrDiscard(logger).With(
		logging.String("component", "executor"),
		logging.String("run_id", runID),
	)
	return &Session{
		cfg:    cfg,
		guard:  guard,
		logger: logger,
		runID:  runID,
		jrnl:   journal.New(runID),
		state:  StateIdle,
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Root returns the absolute root boundary.
func (s *Session) Root() string { return s.guard.Root() }

// JournalPath returns the fixed journal location inside the boundary.
func (s *Session) JournalPath() string {
	return filepath.Join(s.guard.Root(), s.cfg.Journal.Filename)
}

// LockPath returns the run lock location inside the boundary.
func (s *Session) LockPath() string {
	return filepath.Join(s.guard.Root(), s.cfg.Run.LockFilename)
}

// Run executes the full state machine for the plan at planPath: apply every
// line, persist the journal, ask decide, then commit or roll back. The
// returned report is non-nil whenever execution got past setup.
func (s *Session) Run(planPath string, decide DecisionFunc) (*Report, error) {
	if s.state != StateIdle {
		return nil, fmt.Errorf("session already ran (state %s)", s.state)
	}
	if decide == nil {
		return nil, errors.New("run requires a decision function")
	}

	lock := flock.New(s.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another deskplan run is active on %s", s.guard.Root())
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(s.LockPath())
	}()

	file, err := os.Open(planPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("plan file does not exist: %s", planPath)
		}
		return nil, fmt.Errorf("open plan file: %w", err)
	}

	s.logger.Info("executing plan", logging.String("plan", planPath), logging.String("root", s.guard.Root()))
	rep := s.Apply(file)
	_ = file.Close()

	journalPath := s.JournalPath()
	if err := s.jrnl.Save(journalPath); err != nil {
		return rep, fmt.Errorf("persist rollback journal: %w", err)
	}
	s.state = StatePersisted
	rep.JournalPath = journalPath
	rep.FinalState = s.state
	s.logger.Info("rollback journal persisted",
		logging.String("path", journalPath),
		logging.Int("records", s.jrnl.Len()),
	)

	commit, err := decide(rep)
	if err != nil {
		s.logger.Warn("confirmation failed, rolling back", logging.Error(err))
		commit = false
	}

	if commit {
		if err := os.Remove(journalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return rep, fmt.Errorf("remove journal after commit: %w", err)
		}
		s.jrnl = journal.New(s.runID)
		s.state = StateCommitted
		rep.FinalState = s.state
		s.logger.Info("changes confirmed, rollback journal removed")
		return rep, nil
	}

	loaded, err := journal.Load(journalPath)
	if err != nil {
		return rep, fmt.Errorf("rollback: %w", err)
	}
	res := loaded.Undo(s.guard, s.logger, journalPath)
	s.jrnl = journal.New(s.runID)
	s.state = StateRolledBack
	rep.FinalState = s.state
	rep.Undo = &res
	s.logger.Info("rollback completed",
		logging.Int("undone", res.Undone),
		logging.Int("skipped", res.Skipped),
	)
	return rep, nil
}

// Rollback loads a previously persisted journal and undoes it. It fails
// with journal.ErrNoJournal when no rollback information exists.
func (s *Session) Rollback() (journal.UndoResult, error) {
	journalPath := s.JournalPath()
	loaded, err := journal.Load(journalPath)
	if err != nil {
		return journal.UndoResult{}, err
	}
	s.logger.Info("starting rollback", logging.String("path", journalPath))
	res := loaded.Undo(s.guard, s.logger, journalPath)
	s.state = StateRolledBack
	s.logger.Info("rollback completed",
		logging.Int("undone", res.Undone),
		logging.Int("skipped", res.Skipped),
	)
	return res, nil
}
