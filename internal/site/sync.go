// Package site reconciles rendered pages and static assets against the
// destination directory.
package site

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Synchronizer writes one build's output tree.
//
// Keep entries are doublestar glob patterns over destination-relative paths
// (slash-separated). A kept path protects all of its descendants; directories
// on the way to a kept path survive but their other contents are still swept.
type Synchronizer struct {
	Dest string
	Keep []string
}

// Report summarizes one synchronization pass. Conflicts lists static files
// that were overwritten by a rendered page; the rendered page wins.
type Report struct {
	Removed   int
	Copied    []string
	Written   []string
	Conflicts []string
}

// Sync clears the destination (minus the keep-list), copies the static tree,
// then writes the rendered pages on top. The static-first ordering is the
// precedence rule: generated pages overwrite same-named static files.
func (s *Synchronizer) Sync(pages map[string]string, staticDir string) (*Report, error) {
	report := &Report{}
	if err := os.MkdirAll(s.Dest, 0o755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}
	if err := s.clean(report); err != nil {
		return nil, err
	}
	if err := s.copyStatic(staticDir, report); err != nil {
		return nil, err
	}
	if err := s.writePages(pages, report); err != nil {
		return nil, err
	}
	slog.Info("Destination synchronized",
		"removed", report.Removed,
		"static", len(report.Copied),
		"pages", len(report.Written),
		"conflicts", len(report.Conflicts))
	return report, nil
}

// kept reports whether rel matches a keep pattern directly or lies under a
// kept path.
func (s *Synchronizer) kept(rel string) bool {
	for _, pattern := range s.Keep {
		pattern = filepath.ToSlash(strings.Trim(pattern, "/"))
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		for dir := parentPath(rel); dir != ""; dir = parentPath(dir) {
			if ok, _ := doublestar.Match(pattern, dir); ok {
				return true
			}
		}
	}
	return false
}

// parentPath returns the parent of a slash path, "" at the root.
func parentPath(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return ""
	}
	return p[:i]
}

func (s *Synchronizer) clean(report *Report) error {
	var dirs []string
	err := filepath.WalkDir(s.Dest, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == s.Dest {
			return nil
		}
		rel := filepath.ToSlash(mustRel(s.Dest, p))
		if s.kept(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, p)
			return nil
		}
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("clean destination: %w", err)
		}
		report.Removed++
		slog.Debug("Removed stale file", "path", rel)
		return nil
	})
	if err != nil {
		return err
	}

	// Deepest first, so emptied directories fold away; directories that still
	// hold kept files simply fail the Remove and stay.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, dir := range dirs {
		_ = os.Remove(dir)
	}
	return nil
}

func (s *Synchronizer) copyStatic(staticDir string, report *Report) error {
	if staticDir == "" {
		return nil
	}
	if st, err := os.Stat(staticDir); err != nil || !st.IsDir() {
		slog.Info("No static directory found", "path", staticDir)
		return nil
	}
	return filepath.WalkDir(staticDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Directories materialize only when a file inside them is copied,
			// so empty ones never reach the destination.
			return nil
		}
		rel := filepath.ToSlash(mustRel(staticDir, p))
		dst := filepath.Join(s.Dest, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("copy static: %w", err)
		}
		if err := copyFile(p, dst); err != nil {
			return fmt.Errorf("copy static %s: %w", rel, err)
		}
		report.Copied = append(report.Copied, rel)
		return nil
	})
}

func (s *Synchronizer) writePages(pages map[string]string, report *Report) error {
	copied := make(map[string]bool, len(report.Copied))
	for _, rel := range report.Copied {
		copied[rel] = true
	}

	paths := make([]string, 0, len(pages))
	for p := range pages {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		if copied[rel] {
			report.Conflicts = append(report.Conflicts, rel)
			slog.Warn("Generated page overwrites static file", "path", rel)
		}
		dst := filepath.Join(s.Dest, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("write page %s: %w", rel, err)
		}
		if err := os.WriteFile(dst, []byte(pages[rel]), 0o644); err != nil {
			return fmt.Errorf("write page %s: %w", rel, err)
		}
		report.Written = append(report.Written, rel)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func mustRel(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}
