package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// ErrSymlinkUnsupported is returned by CreateSymlink when the platform refused
// to create a link for lack of privilege (Windows without developer mode).
var ErrSymlinkUnsupported = errors.New("symbolic links are not supported on this system")

// CreateSymlink creates a symbolic link at link whose text is target.
// On Unix this is os.Symlink. On Windows a failed attempt is reported as
// ErrSymlinkUnsupported so the caller can fall back to copying.
func CreateSymlink(target, link string) error {
	err := os.Symlink(target, link)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}
	if !IsSymlinkSupported() {
		return fmt.Errorf("%w: %v", ErrSymlinkUnsupported, err)
	}
	return err
}

// RemoveSymlink removes the link itself, never what it points to.
func RemoveSymlink(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("%s is not a symbolic link", path)
	}
	return os.Remove(path)
}

// ReadSymlinkTarget returns the link text of path.
func ReadSymlinkTarget(path string) (string, error) {
	return os.Readlink(path)
}

// IsSymlink reports whether path exists and is a symbolic link.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

var (
	symlinkProbeOnce sync.Once
	symlinkSupported bool
)

// IsSymlinkSupported reports whether the current process can create symbolic
// links. On Windows the answer is probed once in a scratch directory.
func IsSymlinkSupported() bool {
	if runtime.GOOS != "windows" {
		return true
	}
	symlinkProbeOnce.Do(func() {
		dir, err := os.MkdirTemp("", "agentcfg-symlink-probe-")
		if err != nil {
			return
		}
		defer os.RemoveAll(dir)
		symlinkSupported = os.Symlink(dir, filepath.Join(dir, "probe")) == nil
	})
	return symlinkSupported
}
