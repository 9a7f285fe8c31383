package journal

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"deskplan/internal/pathguard"
)

func newGuard(t *testing.T, root string) *pathguard.Guard {
	t.Helper()
	guard, err := pathguard.New(root)
	if err != nil {
		t.Fatal(err)
	}
	return guard
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".deskplan-rollback.json")

	j := New("run-123")
	j.Append(Record{Kind: KindRemoveIfEmpty, Path: "Docs"})
	j.Append(Record{Kind: KindMove, From: "Docs/a.txt", To: "a.txt"})
	j.Append(Record{Kind: KindRename, From: "new.txt", To: "old.txt"})

	if err := j.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.RunID != "run-123" {
		t.Fatalf("run id = %q", loaded.RunID)
	}
	if len(loaded.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(loaded.Records))
	}
	if loaded.Records[1].Kind != KindMove || loaded.Records[1].From != "Docs/a.txt" || loaded.Records[1].To != "a.txt" {
		t.Fatalf("move record corrupted: %+v", loaded.Records[1])
	}
}

func TestSerializationUsesKindDiscriminant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.json")

	j := New("run-x")
	j.Append(Record{Kind: KindRename, From: "b", To: "a"})
	if err := j.Save(path); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Records []map[string]string `json:"records"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Records) != 1 {
		t.Fatalf("records = %d", len(decoded.Records))
	}
	if decoded.Records[0]["kind"] != "rename" {
		t.Fatalf("missing kind discriminant: %v", decoded.Records[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrNoJournal) {
		t.Fatalf("err = %v, want ErrNoJournal", err)
	}
}

func TestSaveOverwritesPriorFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.json")

	first := New("run-1")
	first.Append(Record{Kind: KindRemoveIfEmpty, Path: "A"})
	if err := first.Save(path); err != nil {
		t.Fatal(err)
	}

	second := New("run-2")
	if err := second.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.RunID != "run-2" || len(loaded.Records) != 0 {
		t.Fatalf("expected empty run-2 journal, got %+v", loaded)
	}
}

func TestUndoReverseOrder(t *testing.T) {
	root := t.TempDir()
	guard := newGuard(t, root)

	// Forward run: MKDIR "A", MOVE "f" "A" (resolved to A/f).
	if err := os.Mkdir(filepath.Join(root, "A"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "A", "f"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	j := New("run")
	j.Append(Record{Kind: KindRemoveIfEmpty, Path: "A"})
	j.Append(Record{Kind: KindMove, From: "A/f", To: "f"})

	res := j.Undo(guard, nil, "")
	if res.Undone != 2 || res.Skipped != 0 {
		t.Fatalf("undo result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(root, "f")); err != nil {
		t.Fatalf("file not restored: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "A")); !os.IsNotExist(err) {
		t.Fatalf("directory should have been removed: %v", err)
	}
	if j.Len() != 0 {
		t.Fatalf("journal not cleared: %d records", j.Len())
	}
}

func TestUndoSkipsNonEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	guard := newGuard(t, root)

	if err := os.Mkdir(filepath.Join(root, "keep"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "keep", "leftover"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	j := New("run")
	j.Append(Record{Kind: KindRemoveIfEmpty, Path: "keep"})

	res := j.Undo(guard, nil, "")
	if res.Skipped != 1 || res.Undone != 0 {
		t.Fatalf("undo result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(root, "keep", "leftover")); err != nil {
		t.Fatalf("leftover removed: %v", err)
	}
}

func TestUndoSkipsVanishedSource(t *testing.T) {
	root := t.TempDir()
	guard := newGuard(t, root)

	j := New("run")
	j.Append(Record{Kind: KindMove, From: "gone.txt", To: "origin.txt"})
	j.Append(Record{Kind: KindRename, From: "also-gone", To: "was-here"})

	res := j.Undo(guard, nil, "")
	if res.Skipped != 2 || res.Undone != 0 {
		t.Fatalf("undo result = %+v", res)
	}
}

func TestUndoRemovesPersistedFile(t *testing.T) {
	root := t.TempDir()
	guard := newGuard(t, root)
	path := filepath.Join(root, ".deskplan-rollback.json")

	j := New("run")
	if err := j.Save(path); err != nil {
		t.Fatal(err)
	}

	j.Undo(guard, nil, path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("journal file should be deleted: %v", err)
	}
}
