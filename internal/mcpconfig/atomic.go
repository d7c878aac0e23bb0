package mcpconfig

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/agentcfg/internal/platform"
	"github.com/google/uuid"
)

// beforeRename runs after the temporary file is complete and before it
// replaces the target. Tests use it to fail at that point.
var beforeRename func(tmpPath string) error

// writeFileAtomic replaces path with data through a temporary file in the
// same directory. An existing file keeps its permission bits; a new one gets
// perm. When path is a symbolic link the file it points to is replaced and
// the link is kept.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+".tmp-"+uuid.NewString())
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	removeTemp := true
	defer func() {
		_ = f.Close()
		if removeTemp {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// OpenFile's mode is filtered by the umask.
	if err := platform.Chmod(tmpPath, perm); err != nil {
		return err
	}

	if beforeRename != nil {
		if err := beforeRename(tmpPath); err != nil {
			return err
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	removeTemp = false

	// Best effort: the rename has already happened.
	_ = platform.SyncDir(dir)
	return nil
}
