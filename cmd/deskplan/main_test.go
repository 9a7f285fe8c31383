package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestApplyCommandCommit(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	planPath := filepath.Join(t.TempDir(), "tidy.plan")
	script := "MKDIR \"Docs\"\nMOVE \"a.txt\" \"Docs\"\n"
	if err := os.WriteFile(planPath, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "apply", planPath, "--root", root, "--yes")
	if err != nil {
		t.Fatalf("apply failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Changes have been confirmed.") {
		t.Fatalf("missing confirmation message:\n%s", out)
	}
	if !strings.Contains(out, "2 applied") {
		t.Fatalf("missing summary line:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "Docs", "a.txt")); err != nil {
		t.Fatalf("file not moved: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, ".deskplan-rollback.json")); !os.IsNotExist(err) {
		t.Fatalf("journal should be removed after commit: %v", err)
	}
}

func TestApplyCommandRollback(t *testing.T) {
	root := t.TempDir()
	planPath := filepath.Join(t.TempDir(), "tidy.plan")
	if err := os.WriteFile(planPath, []byte("MKDIR \"Incoming\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "apply", planPath, "--root", root, "--rollback")
	if err != nil {
		t.Fatalf("apply failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Changes rolled back") {
		t.Fatalf("missing rollback message:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "Incoming")); !os.IsNotExist(err) {
		t.Fatalf("directory should be rolled back: %v", err)
	}
}

func TestApplyCommandMissingPlanIsFatal(t *testing.T) {
	root := t.TempDir()
	_, err := runCommand(t, "apply", filepath.Join(root, "absent.plan"), "--root", root, "--yes")
	if err == nil {
		t.Fatal("expected error for missing plan file")
	}
}

func TestApplyCommandConflictingFlags(t *testing.T) {
	root := t.TempDir()
	_, err := runCommand(t, "apply", "whatever.plan", "--root", root, "--yes", "--rollback")
	if err == nil {
		t.Fatal("expected error for conflicting flags")
	}
}

func TestPlanCommandWritesPrompt(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "todo.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	planPath := filepath.Join(t.TempDir(), "tidy.plan")

	out, err := runCommand(t, "plan", planPath, "--root", root)
	if err != nil {
		t.Fatalf("plan failed: %v\n%s", err, out)
	}

	promptPath := planPath + ".prompt"
	data, err := os.ReadFile(promptPath)
	if err != nil {
		t.Fatalf("prompt file missing: %v", err)
	}
	if !strings.Contains(string(data), "[FILE] todo.md") {
		t.Fatalf("prompt missing listing entry:\n%s", data)
	}
	if !strings.Contains(out, "Prompt saved to "+promptPath) {
		t.Fatalf("missing prompt location message:\n%s", out)
	}
}

func TestRollbackCommandWithoutJournal(t *testing.T) {
	root := t.TempDir()
	_, err := runCommand(t, "rollback", "--root", root)
	if err == nil {
		t.Fatal("expected error when no rollback information exists")
	}
	if !strings.Contains(err.Error(), "no rollback information") {
		t.Fatalf("err = %v", err)
	}
}

func TestRollbackCommandUndoesPersistedJournal(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "Later"), 0o755); err != nil {
		t.Fatal(err)
	}
	journalBody := `{"run_id":"run-1","records":[{"kind":"remove_if_empty","path":"Later"}]}`
	if err := os.WriteFile(filepath.Join(root, ".deskplan-rollback.json"), []byte(journalBody), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "rollback", "--root", root)
	if err != nil {
		t.Fatalf("rollback failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Changes rolled back (1 undone, 0 skipped).") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "Later")); !os.IsNotExist(err) {
		t.Fatalf("directory should be removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, ".deskplan-rollback.json")); !os.IsNotExist(err) {
		t.Fatalf("journal file should be deleted after rollback: %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "deskplan", "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	out, err = runCommand(t, "config", "validate", "--path", target)
	if err != nil {
		t.Fatalf("config validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config without --overwrite")
	}
}
