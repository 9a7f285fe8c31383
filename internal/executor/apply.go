package executor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"deskplan/internal/fileutil"
	"deskplan/internal/journal"
	"deskplan/internal/logging"
	"deskplan/internal/plan"
)

// Apply interprets the script line by line, mutating the filesystem and
// accumulating inverse records. Failures never abort the script; each one
// becomes a failed LineResult and execution continues.
func (s *Session) Apply(r io.Reader) *Report {
	s.state = StateApplying
	rep := &Report{RunID: s.runID, FinalState: s.state}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()

		stmt, skip, err := plan.ParseLine(lineNo, raw)
		if skip {
			continue
		}
		if err != nil {
			s.logger.Error("skipping malformed line", logging.Int("line", lineNo), logging.Error(err))
			rep.Results = append(rep.Results, LineResult{
				Line:    lineNo,
				Text:    raw,
				Outcome: OutcomeFailed,
				Detail:  err.Error(),
				Err:     err,
			})
			continue
		}

		res := s.applyStatement(stmt)
		res.Text = raw
		if res.Outcome == OutcomeFailed {
			s.logger.Error("operation failed, continuing",
				logging.Int("line", lineNo),
				logging.String("command", string(stmt.Kind)),
				logging.Error(res.Err),
			)
		}
		rep.Results = append(rep.Results, res)
	}
	if err := scanner.Err(); err != nil {
		rep.Results = append(rep.Results, LineResult{
			Line:    lineNo + 1,
			Outcome: OutcomeFailed,
			Detail:  fmt.Sprintf("read plan: %v", err),
			Err:     err,
		})
	}
	return rep
}

func (s *Session) applyStatement(stmt plan.Statement) LineResult {
	res := LineResult{Line: stmt.Line, Kind: stmt.Kind}
	switch stmt.Kind {
	case plan.KindMkdir:
		s.applyMkdir(stmt.Args[0], &res)
	case plan.KindMove:
		s.applyMove(stmt.Args[0], stmt.Args[1], &res)
	case plan.KindRename:
		s.applyRename(stmt.Args[0], stmt.Args[1], &res)
	default:
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("%w: line %d: unknown command %q", plan.ErrSyntax, stmt.Line, stmt.Kind)
		res.Detail = res.Err.Error()
	}
	return res
}

func (s *Session) applyMkdir(path string, res *LineResult) {
	target, err := s.guard.Resolve(path)
	if err != nil {
		res.fail(err)
		return
	}
	if _, err := os.Stat(target); err == nil {
		s.logger.Info("directory already exists, skipping", logging.String("path", path))
		res.Outcome = OutcomeNoop
		res.Detail = "directory already exists"
		return
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		res.fail(fmt.Errorf("create directory %s: %w", path, err))
		return
	}
	rel, err := s.guard.Rel(target)
	if err != nil {
		res.fail(err)
		return
	}
	s.jrnl.Append(journal.Record{Kind: journal.KindRemoveIfEmpty, Path: rel})
	s.logger.Info("created directory", logging.String("path", rel))
	res.Outcome = OutcomeApplied
	res.Detail = "created " + rel
}

func (s *Session) applyMove(src, dst string, res *LineResult) {
	srcAbs, err := s.guard.Resolve(src)
	if err != nil {
		res.fail(err)
		return
	}
	dstAbs, err := s.guard.Resolve(dst)
	if err != nil {
		res.fail(err)
		return
	}
	if _, err := os.Stat(srcAbs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res.fail(fmt.Errorf("source does not exist for MOVE: %s", src))
		} else {
			res.fail(fmt.Errorf("stat source %s: %w", src, err))
		}
		return
	}

	// An existing directory destination means "place inside, keep the base
	// name". The effective destination, not the literal argument, is what
	// the inverse record must restore from.
	effective := dstAbs
	if info, err := os.Stat(dstAbs); err == nil && info.IsDir() {
		effective = filepath.Join(dstAbs, filepath.Base(srcAbs))
	}
	if _, err := s.guard.Resolve(effective); err != nil {
		res.fail(err)
		return
	}

	if err := fileutil.MoveEntry(srcAbs, effective); err != nil {
		res.fail(fmt.Errorf("move %s: %w", src, err))
		return
	}

	relFinal, err := s.guard.Rel(effective)
	if err != nil {
		res.fail(err)
		return
	}
	relSrc, err := s.guard.Rel(srcAbs)
	if err != nil {
		res.fail(err)
		return
	}
	s.jrnl.Append(journal.Record{Kind: journal.KindMove, From: relFinal, To: relSrc})
	s.logger.Info("moved entry", logging.String("from", relSrc), logging.String("to", relFinal))
	res.Outcome = OutcomeApplied
	res.Detail = fmt.Sprintf("%s -> %s", relSrc, relFinal)
}

func (s *Session) applyRename(oldPath, newPath string, res *LineResult) {
	oldAbs, err := s.guard.Resolve(oldPath)
	if err != nil {
		res.fail(err)
		return
	}
	newAbs, err := s.guard.Resolve(newPath)
	if err != nil {
		res.fail(err)
		return
	}
	if _, err := os.Stat(oldAbs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res.fail(fmt.Errorf("old name does not exist for RENAME: %s", oldPath))
		} else {
			res.fail(fmt.Errorf("stat %s: %w", oldPath, err))
		}
		return
	}

	if err := os.Rename(oldAbs, newAbs); err != nil {
		res.fail(fmt.Errorf("rename %s: %w", oldPath, err))
		return
	}

	relOld, err := s.guard.Rel(oldAbs)
	if err != nil {
		res.fail(err)
		return
	}
	relNew, err := s.guard.Rel(newAbs)
	if err != nil {
		res.fail(err)
		return
	}
	s.jrnl.Append(journal.Record{Kind: journal.KindRename, From: relNew, To: relOld})
	s.logger.Info("renamed entry", logging.String("from", relOld), logging.String("to", relNew))
	res.Outcome = OutcomeApplied
	res.Detail = fmt.Sprintf("%s -> %s", relOld, relNew)
}

func (res *LineResult) fail(err error) {
	res.Outcome = OutcomeFailed
	res.Err = err
	res.Detail = err.Error()
}
