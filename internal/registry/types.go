package registry

import "github.com/agentx-labs/agentcfg/internal/manifest"

// Reporter receives user-facing diagnostics for soft misses.
type Reporter interface {
	Warn(msg string)
}

// Resolved is an asset source that exists in the repository with the
// expected kind.
type Resolved struct {
	Relative string        // path as declared in the table, e.g. "claude/settings.json"
	Path     string        // absolute path inside the repository
	Kind     manifest.Kind // kind it was checked against
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(msg string)

// Warn calls f(msg).
func (f ReporterFunc) Warn(msg string) { f(msg) }
