package linker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/agentcfg/internal/platform"
)

// PruneBrokenLinks removes dangling links directly inside dir whose link text
// points into repoRoot, and returns their names. Links into other locations
// are left alone even when broken. A missing dir is not an error.
func PruneBrokenLinks(dir, repoRoot string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	roots := repoRoots(repoRoot)

	var removed []string
	for _, entry := range entries {
		linkPath := filepath.Join(dir, entry.Name())
		if !platform.IsSymlink(linkPath) {
			continue
		}
		if _, err := os.Stat(linkPath); err == nil {
			continue
		}

		dest, err := platform.ReadSymlinkTarget(linkPath)
		if err != nil {
			continue
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(dir, dest)
		}
		if !within(filepath.Clean(dest), roots) {
			continue
		}

		if err := platform.RemoveSymlink(linkPath); err != nil {
			return removed, err
		}
		removed = append(removed, entry.Name())
	}
	return removed, nil
}

// repoRoots returns the absolute and the canonical form of root, since links
// are created against the canonical path.
func repoRoots(root string) []string {
	var roots []string
	if abs, err := filepath.Abs(root); err == nil {
		roots = append(roots, abs)
	}
	if canonical, err := canonicalPath(root); err == nil {
		roots = append(roots, canonical)
	}
	return roots
}

func within(path string, roots []string) bool {
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}
