package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/agentcfg/internal/manifest"
)

// Resolve locates rel under repoRoot and checks that it is of the given kind.
// Symlinks are followed, so a linked source file counts as a file.
//
// It returns false after emitting exactly one warning through r when the path
// is not a local relative path, does not exist, or has the wrong kind.
// Resolve never fails hard and never touches the filesystem beyond stat.
func Resolve(repoRoot, rel string, kind manifest.Kind, r Reporter) (*Resolved, bool) {
	if !filepath.IsLocal(rel) {
		warn(r, "Warning: %s is not a relative path, skipping...", rel)
		return nil, false
	}

	path := filepath.Join(repoRoot, rel)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	info, err := os.Stat(path)
	if err != nil {
		warn(r, "Warning: %s not found in repository, skipping...", rel)
		return nil, false
	}

	switch kind {
	case manifest.KindFile:
		if !info.Mode().IsRegular() {
			warn(r, "Warning: %s is not a file, skipping...", rel)
			return nil, false
		}
	case manifest.KindDirectory:
		if !info.IsDir() {
			warn(r, "Warning: %s is not a directory, skipping...", rel)
			return nil, false
		}
	default:
		warn(r, "Warning: %s has unknown kind %q, skipping...", rel, kind)
		return nil, false
	}

	return &Resolved{Relative: rel, Path: path, Kind: kind}, true
}

// Exists reports whether rel names anything under repoRoot, without
// diagnostics. Used by status reporting.
func Exists(repoRoot, rel string) bool {
	if !filepath.IsLocal(rel) {
		return false
	}
	_, err := os.Stat(filepath.Join(repoRoot, rel))
	return err == nil
}

func warn(r Reporter, format string, args ...any) {
	if r == nil {
		return
	}
	r.Warn(fmt.Sprintf(format, args...))
}
