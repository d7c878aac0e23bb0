package userdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/agentcfg/internal/branding"
)

// Permission constants.
const (
	FilePermSecure os.FileMode = 0600
	DirPermNormal  os.FileMode = 0755
)

// DefaultEnvFile is the repository-relative .env file consulted for
// placeholder expansion when no explicit file is configured.
const DefaultEnvFile = ".env"

// HomeDir returns the directory that "~/" expands to.
// It checks the AGENTCFG_HOME_DIR environment variable first so tests and
// sandboxed runs can redirect every target, then falls back to os.UserHomeDir.
func HomeDir() (string, error) {
	if v := os.Getenv(branding.EnvVar("HOME_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return home, nil
}

// ExpandHome replaces a leading "~" or "~/" in path with home.
// Other paths are returned cleaned but otherwise unchanged.
func ExpandHome(path, home string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	default:
		return filepath.Clean(path)
	}
}

// ResolveEnvFile returns the absolute path of the .env file used for
// placeholder expansion. An empty name selects DefaultEnvFile; relative names
// are taken relative to the repository root.
func ResolveEnvFile(repoRoot, name, home string) string {
	if name == "" {
		name = DefaultEnvFile
	}
	name = ExpandHome(name, home)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(repoRoot, name)
}
