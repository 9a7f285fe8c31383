// Package listing enumerates a root directory and renders the textual
// snapshot embedded in planning prompts.
//
// The output is consumed by an external planning agent (human or LLM) that
// writes the plan script; nothing in the executor depends on the prompt
// prose, only on the resulting script format.
package listing

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one enumerated filesystem entry, relative to the root.
type Entry struct {
	RelPath string
	Dir     bool
}

// Options controls enumeration.
type Options struct {
	// OpaqueExtensions lists directory suffixes treated as leaves.
	// Matching directories appear in the listing, but their contents are
	// not enumerated (macOS .app bundles, typically).
	OpaqueExtensions []string
	// ExcludeNames are root-level names omitted from the listing, used to
	// hide deskplan's own journal and lock artifacts.
	ExcludeNames []string
}

// Snapshot walks the root directory and returns its entries in a stable
// depth-first order. The root itself is not included.
func Snapshot(root string, opts Options) ([]Entry, error) {
	exclude := make(map[string]struct{}, len(opts.ExcludeNames))
	for _, name := range opts.ExcludeNames {
		exclude[name] = struct{}{}
	}

	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if _, skip := exclude[rel]; skip {
			return nil
		}

		entries = append(entries, Entry{RelPath: filepath.ToSlash(rel), Dir: d.IsDir()})
		if d.IsDir() && isOpaque(d.Name(), opts.OpaqueExtensions) {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", root, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RelPath < entries[j].RelPath
	})
	return entries, nil
}

// Render serializes entries as newline-joined "[DIR] path" / "[FILE] path"
// lines.
func Render(entries []Entry) string {
	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		if entry.Dir {
			b.WriteString("[DIR] ")
		} else {
			b.WriteString("[FILE] ")
		}
		b.WriteString(entry.RelPath)
	}
	return b.String()
}

func isOpaque(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
