package linker

import (
	"os"
	"path/filepath"
)

// LinkState describes what currently occupies an asset's target path.
type LinkState string

const (
	// LinkLinked means the target is a link resolving to the source.
	LinkLinked LinkState = "linked"
	// LinkStale means the target is a link to somewhere else, or dangling.
	LinkStale LinkState = "stale"
	// LinkMissing means nothing exists at the target.
	LinkMissing LinkState = "missing"
	// LinkCopied means the target is a regular file or directory.
	LinkCopied LinkState = "copied"
)

// Inspect reports the state of target relative to source. It never modifies
// the filesystem.
func Inspect(source, target string) LinkState {
	info, err := os.Lstat(target)
	if err != nil {
		return LinkMissing
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return LinkCopied
	}

	want, err := canonicalPath(source)
	if err != nil {
		return LinkStale
	}
	got, err := filepath.EvalSymlinks(target)
	if err != nil || got != want {
		return LinkStale
	}
	return LinkLinked
}
