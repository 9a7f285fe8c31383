// Package pathguard confines every path the executor touches to a fixed
// root boundary.
//
// A Guard is constructed once per run from an absolute, existing, writable
// directory. All plan paths, absolute or root-relative, are resolved through
// Resolve before any filesystem call; anything that normalizes to a location
// outside the boundary is rejected with ErrOutsideRoot.
package pathguard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot marks a path that escapes the root boundary after
// normalization.
var ErrOutsideRoot = errors.New("path escapes root boundary")

// Guard validates paths against a fixed root directory.
type Guard struct {
	root string
}

// New resolves root to an absolute path and verifies it names an existing,
// writable directory. These checks are setup errors: they fail before any
// plan operation runs.
func New(root string) (*Guard, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("root directory does not exist: %s", abs)
		}
		return nil, fmt.Errorf("stat root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", abs)
	}
	if err := probeWritable(abs); err != nil {
		return nil, fmt.Errorf("no write permission on root directory %s: %w", abs, err)
	}
	return &Guard{root: abs}, nil
}

// Root returns the absolute boundary directory.
func (g *Guard) Root() string {
	return g.root
}

// Resolve normalizes candidate (absolute, or relative to the root) and
// returns its absolute form when it is the boundary itself or a descendant
// of it. Every other outcome is ErrOutsideRoot.
func (g *Guard) Resolve(candidate string) (string, error) {
	if strings.TrimSpace(candidate) == "" {
		return "", fmt.Errorf("%w: empty path", ErrOutsideRoot)
	}
	joined := candidate
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(g.root, joined)
	}
	cleaned := filepath.Clean(joined)
	if !g.contains(cleaned) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, candidate)
	}
	return cleaned, nil
}

// Rel converts an absolute path inside the boundary to its root-relative
// form. Journal records store this form so a journal remains valid if the
// boundary is remounted elsewhere.
func (g *Guard) Rel(abs string) (string, error) {
	cleaned := filepath.Clean(abs)
	if !g.contains(cleaned) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, abs)
	}
	rel, err := filepath.Rel(g.root, cleaned)
	if err != nil {
		return "", fmt.Errorf("relativize %s: %w", abs, err)
	}
	return rel, nil
}

func (g *Guard) contains(cleaned string) bool {
	rel, err := filepath.Rel(g.root, cleaned)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

// probeWritable checks for write access by creating and removing a
// throwaway file. os.Stat permission bits are not authoritative with ACLs
// or network filesystems, so an actual write attempt is used instead.
func probeWritable(dir string) error {
	probe, err := os.CreateTemp(dir, ".deskplan-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	if err := probe.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	return os.Remove(name)
}
