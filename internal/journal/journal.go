// Package journal records the inverse of every applied plan operation and
// can replay those inverses in reverse order to undo a run.
//
// Records are appended in apply order and persisted as JSON inside the root
// boundary. Undo walks them last-appended-first so nested effects unwind
// correctly: a file moved into a freshly created directory is moved back out
// before the directory's removal is attempted. Every undo step is
// best-effort; a record that no longer applies is skipped with a warning and
// the remaining records still run.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"deskplan/internal/fileutil"
	"deskplan/internal/logging"
	"deskplan/internal/pathguard"
)

// ErrNoJournal reports a missing persisted journal: there is nothing to
// roll back.
var ErrNoJournal = errors.New("no rollback information found")

// Kind discriminates inverse record variants.
type Kind string

const (
	// KindRemoveIfEmpty undoes a directory creation. The directory is
	// removed only when it still exists and is empty.
	KindRemoveIfEmpty Kind = "remove_if_empty"
	// KindMove undoes a move by moving the entry from its resolved final
	// location back to the original source.
	KindMove Kind = "move"
	// KindRename undoes a rename by renaming the new path back to the old.
	KindRename Kind = "rename"
)

// Record is one inverse operation. All paths are root-relative. For moves,
// From holds the resolved final path of the applied operation (which may
// differ from the literal plan argument when the destination named an
// existing directory) and To holds the original source.
type Record struct {
	Kind Kind   `json:"kind"`
	Path string `json:"path,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Journal is the ordered rollback log for a single run.
type Journal struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Records   []Record  `json:"records"`
}

// New returns an empty journal stamped with the run identifier.
func New(runID string) *Journal {
	return &Journal{RunID: runID, CreatedAt: time.Now().UTC()}
}

// Append adds an inverse record. Records must be appended in the order the
// originating operations were applied.
func (j *Journal) Append(rec Record) {
	j.Records = append(j.Records, rec)
}

// Len reports the number of accumulated records.
func (j *Journal) Len() int {
	return len(j.Records)
}

// Save serializes the journal to path, replacing any prior file. The write
// goes through a temporary file in the same directory so a crash mid-write
// cannot leave a truncated journal behind.
func (j *Journal) Save(path string) error {
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".journal-*")
	if err != nil {
		return fmt.Errorf("create journal temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close journal temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace journal %s: %w", path, err)
	}
	return nil
}

// Load reads a persisted journal. A missing file yields ErrNoJournal.
func Load(path string) (*Journal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoJournal
		}
		return nil, fmt.Errorf("read journal %s: %w", path, err)
	}
	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("decode journal %s: %w", path, err)
	}
	return &j, nil
}

// UndoResult summarizes an undo pass.
type UndoResult struct {
	Undone  int
	Skipped int
}

// Undo replays the journal in reverse, undoing each record tolerantly. It
// never aborts on a single record: records whose preconditions no longer
// hold are skipped with a warning. Afterwards the in-memory records are
// cleared and, when persistedPath is non-empty, the journal file is removed.
func (j *Journal) Undo(guard *pathguard.Guard, logger *slog.Logger, persistedPath string) UndoResult {
	logger = logging.OrDiscard(logger)

	var res UndoResult
	for i := len(j.Records) - 1; i >= 0; i-- {
		rec := j.Records[i]
		if undoRecord(rec, guard, logger) {
			res.Undone++
		} else {
			res.Skipped++
		}
	}

	j.Records = nil
	if persistedPath != "" {
		if err := os.Remove(persistedPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to remove journal file", logging.String("path", persistedPath), logging.Error(err))
		}
	}
	return res
}

func undoRecord(rec Record, guard *pathguard.Guard, logger *slog.Logger) bool {
	switch rec.Kind {
	case KindRemoveIfEmpty:
		return undoRemoveIfEmpty(rec, guard, logger)
	case KindMove, KindRename:
		return undoRelocate(rec, guard, logger)
	default:
		logger.Warn("unknown journal record kind, skipping", logging.String("kind", string(rec.Kind)))
		return false
	}
}

func undoRemoveIfEmpty(rec Record, guard *pathguard.Guard, logger *slog.Logger) bool {
	dir, err := guard.Resolve(rec.Path)
	if err != nil {
		logger.Warn("journal path escapes boundary, skipping", logging.String("path", rec.Path), logging.Error(err))
		return false
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Warn("directory missing during undo, skipping", logging.String("path", rec.Path))
		return false
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("cannot inspect directory during undo, skipping", logging.String("path", rec.Path), logging.Error(err))
		return false
	}
	if len(entries) > 0 {
		logger.Warn("directory not empty during undo, skipping removal", logging.String("path", rec.Path))
		return false
	}
	if err := os.Remove(dir); err != nil {
		logger.Warn("failed to remove directory during undo", logging.String("path", rec.Path), logging.Error(err))
		return false
	}
	logger.Info("removed directory", logging.String("path", rec.Path))
	return true
}

func undoRelocate(rec Record, guard *pathguard.Guard, logger *slog.Logger) bool {
	src, err := guard.Resolve(rec.From)
	if err != nil {
		logger.Warn("journal source escapes boundary, skipping", logging.String("from", rec.From), logging.Error(err))
		return false
	}
	dst, err := guard.Resolve(rec.To)
	if err != nil {
		logger.Warn("journal destination escapes boundary, skipping", logging.String("to", rec.To), logging.Error(err))
		return false
	}
	if _, err := os.Stat(src); err != nil {
		logger.Warn("source vanished during undo, skipping", logging.String("from", rec.From))
		return false
	}

	if rec.Kind == KindRename {
		err = os.Rename(src, dst)
	} else {
		err = fileutil.MoveEntry(src, dst)
	}
	if err != nil {
		logger.Warn("failed to restore entry during undo", logging.String("from", rec.From), logging.String("to", rec.To), logging.Error(err))
		return false
	}
	logger.Info("restored entry", logging.String("from", rec.From), logging.String("to", rec.To))
	return true
}
