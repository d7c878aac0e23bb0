package linker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/agentcfg/internal/manifest"
	"github.com/agentx-labs/agentcfg/internal/platform"
	"github.com/agentx-labs/agentcfg/internal/userdata"
)

// ErrSourceMissing is wrapped by a PlacementError when the source vanished
// between resolution and placement.
var ErrSourceMissing = errors.New("source does not exist")

// PlacementError describes a failed filesystem step while placing an asset.
type PlacementError struct {
	Source string
	Target string
	Op     string // e.g. "stat source", "remove target", "symlink"
	Err    error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placing %s at %s: %s: %v", e.Source, e.Target, e.Op, e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }

// Place puts source at target using mode. Any existing entry at target is
// removed first: a real directory recursively, anything else (file, link,
// link to a directory) as a single entry. The parent of target is created
// if needed. Calling Place twice with the same arguments yields the same
// result as calling it once.
func Place(source, target string, mode manifest.Mode) error {
	fail := func(op string, err error) error {
		return &PlacementError{Source: source, Target: target, Op: op, Err: err}
	}

	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail("stat source", ErrSourceMissing)
		}
		return fail("stat source", err)
	}

	if err := os.MkdirAll(filepath.Dir(target), userdata.DirPermNormal); err != nil {
		return fail("create parent", err)
	}

	if err := clearTarget(target); err != nil {
		return fail("remove target", err)
	}

	switch mode {
	case manifest.ModeCopy:
		if info.IsDir() {
			err = copyTree(source, target)
		} else {
			err = copyFile(source, target, info)
		}
		if err != nil {
			return fail("copy", err)
		}
	default:
		canonical, err := canonicalPath(source)
		if err != nil {
			return fail("resolve source", err)
		}
		if err := platform.CreateSymlink(canonical, target); err != nil {
			return fail("symlink", err)
		}
	}
	return nil
}

// clearTarget removes whatever is at path without following links.
func clearTarget(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// canonicalPath returns the absolute path of p with all links resolved.
func canonicalPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
