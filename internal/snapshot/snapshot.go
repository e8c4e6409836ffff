package snapshot

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Snapshot is the in-memory input bundle the pipeline consumes: fetched file
// contents plus the full list of known repository paths. KnownPaths includes
// files whose content was not fetched (filtered by extension or size), so
// dependency resolution can tell "external" from "filtered".
type Snapshot struct {
	Files      map[string]string
	KnownPaths []string
}

// Loader walks a local directory into a Snapshot. Network ingestion lives
// upstream; this is the in-process provider used by the CLI.
type Loader struct {
	ignoreDirs  map[string]bool
	fetchExts   map[string]bool
	maxFileSize int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithIgnoreDirs replaces the default ignored directory names.
func WithIgnoreDirs(dirs []string) LoaderOption {
	return func(l *Loader) {
		l.ignoreDirs = make(map[string]bool, len(dirs))
		for _, d := range dirs {
			l.ignoreDirs[d] = true
		}
	}
}

// WithFetchExtensions replaces the extensions whose content is fetched.
func WithFetchExtensions(exts []string) LoaderOption {
	return func(l *Loader) {
		l.fetchExts = make(map[string]bool, len(exts))
		for _, e := range exts {
			l.fetchExts[e] = true
		}
	}
}

// WithMaxFileSize caps the size of fetched files in bytes.
func WithMaxFileSize(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxFileSize = n
		}
	}
}

// NewLoader creates a Loader with the default ignore and fetch rules.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		ignoreDirs: map[string]bool{
			".git":         true,
			"node_modules": true,
			"vendor":       true,
			"dist":         true,
			"build":        true,
			"__pycache__":  true,
			".venv":        true,
		},
		fetchExts: map[string]bool{
			".py":  true,
			".js":  true,
			".jsx": true,
			".mjs": true,
			".cjs": true,
			".ts":  true,
			".tsx": true,
		},
		maxFileSize: 256 * 1024,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadDir walks root and returns a Snapshot with repo-relative,
// slash-separated paths. Every regular file becomes a known path; content is
// fetched only for files matching the fetch rules, and unreadable or
// non-UTF-8 files are skipped rather than failing the walk.
func (l *Loader) LoadDir(root string) (*Snapshot, error) {
	snap := &Snapshot{
		Files:      make(map[string]string),
		KnownPaths: []string{},
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if l.ignoreDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		snap.KnownPaths = append(snap.KnownPaths, rel)

		if !l.fetchExts[strings.ToLower(filepath.Ext(rel))] {
			return nil
		}
		if info, err := d.Info(); err != nil || info.Size() > l.maxFileSize {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil // unreadable file stays a known path only
		}
		if !utf8.Valid(content) {
			return nil
		}
		snap.Files[rel] = string(content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(snap.KnownPaths)
	return snap, nil
}

// Empty reports whether the snapshot carries no fetched content.
func (s *Snapshot) Empty() bool {
	return len(s.Files) == 0
}
