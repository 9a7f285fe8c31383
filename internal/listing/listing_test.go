package listing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func seedTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"Docs", "Games.app/Contents", "Pics"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, file := range []string{"notes.txt", "Docs/report.pdf", "Games.app/Contents/bin"} {
		if err := os.WriteFile(filepath.Join(root, file), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestSnapshotTagsEntries(t *testing.T) {
	root := seedTree(t)

	entries, err := Snapshot(root, Options{})
	if err != nil {
		t.Fatal(err)
	}

	byPath := map[string]bool{}
	for _, e := range entries {
		byPath[e.RelPath] = e.Dir
	}
	if dir, ok := byPath["Docs"]; !ok || !dir {
		t.Fatalf("Docs missing or not a dir: %v", byPath)
	}
	if dir, ok := byPath["notes.txt"]; !ok || dir {
		t.Fatalf("notes.txt missing or tagged dir: %v", byPath)
	}
	if _, ok := byPath["Docs/report.pdf"]; !ok {
		t.Fatalf("nested file missing: %v", byPath)
	}
}

func TestSnapshotOpaqueBundles(t *testing.T) {
	root := seedTree(t)

	entries, err := Snapshot(root, Options{OpaqueExtensions: []string{".app"}})
	if err != nil {
		t.Fatal(err)
	}

	var sawBundle bool
	for _, e := range entries {
		if e.RelPath == "Games.app" {
			sawBundle = true
			if !e.Dir {
				t.Fatal("bundle not tagged as dir")
			}
		}
		if strings.HasPrefix(e.RelPath, "Games.app/") {
			t.Fatalf("bundle contents enumerated: %s", e.RelPath)
		}
	}
	if !sawBundle {
		t.Fatal("bundle itself missing from listing")
	}
}

func TestSnapshotExcludesRunArtifacts(t *testing.T) {
	root := seedTree(t)
	if err := os.WriteFile(filepath.Join(root, ".deskplan-rollback.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := Snapshot(root, Options{ExcludeNames: []string{".deskplan-rollback.json"}})
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.RelPath == ".deskplan-rollback.json" {
			t.Fatal("journal file leaked into listing")
		}
	}
}

func TestRender(t *testing.T) {
	out := Render([]Entry{
		{RelPath: "Docs", Dir: true},
		{RelPath: "Docs/report.pdf"},
	})
	want := "[DIR] Docs\n[FILE] Docs/report.pdf"
	if out != want {
		t.Fatalf("Render = %q, want %q", out, want)
	}
}

func TestPromptEmbedsListing(t *testing.T) {
	root := seedTree(t)
	entries, err := Snapshot(root, Options{})
	if err != nil {
		t.Fatal(err)
	}

	prompt, err := Prompt(root, entries)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prompt, root) {
		t.Fatal("prompt missing root path")
	}
	if !strings.Contains(prompt, "[FILE] Docs/report.pdf") {
		t.Fatal("prompt missing listing entry")
	}
	if !strings.Contains(prompt, `MKDIR "<dir>"`) {
		t.Fatal("prompt missing command reference")
	}
}
