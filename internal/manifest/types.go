package manifest

// Kind is the filesystem type an asset source must have.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Valid reports whether k is a known asset kind.
func (k Kind) Valid() bool {
	return k == KindFile || k == KindDirectory
}

// Mode selects how an asset is placed into its target directory.
type Mode string

const (
	ModeSymlink Mode = "symlink"
	ModeCopy    Mode = "copy"
)

// ParseMode converts a string to a Mode, returning false if invalid.
// The empty string is accepted and means "use the default".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "symlink":
		return ModeSymlink, true
	case "copy":
		return ModeCopy, true
	default:
		return "", false
	}
}

// PostActionKind identifies an operation run after an agent's assets are placed.
// The set is closed: every kind is dispatched to a concrete function by the
// installer, and tables naming anything else fail validation.
type PostActionKind string

const (
	// ActionMergeMCPRegistry merges one key of a repository document into an
	// external configuration file, replacing that key wholesale.
	ActionMergeMCPRegistry PostActionKind = "merge-mcp-registry"
	// ActionPruneBrokenLinks removes dangling symlinks in the agent's target
	// directory that point back into the repository.
	ActionPruneBrokenLinks PostActionKind = "prune-broken-links"
)

// PostActionKinds contains all valid post-action kinds.
var PostActionKinds = []PostActionKind{
	ActionMergeMCPRegistry,
	ActionPruneBrokenLinks,
}

// Known reports whether k is one of PostActionKinds.
func (k PostActionKind) Known() bool {
	for _, known := range PostActionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Asset is one file or directory placed into an agent's target directory.
type Asset struct {
	Source string `yaml:"source" json:"source"` // relative to the repository root
	Target string `yaml:"target" json:"target"` // relative to the agent's target directory
	Kind   Kind   `yaml:"kind" json:"kind"`
}

// PostAction is a post-placement step. Which fields apply depends on Kind.
type PostAction struct {
	Kind PostActionKind `yaml:"kind" json:"kind"`

	// merge-mcp-registry
	Source    string `yaml:"source,omitempty" json:"source,omitempty"`
	Target    string `yaml:"target,omitempty" json:"target,omitempty"`
	Key       string `yaml:"key,omitempty" json:"key,omitempty"`
	Format    string `yaml:"format,omitempty" json:"format,omitempty"`
	ExpandEnv bool   `yaml:"expand_env,omitempty" json:"expand_env,omitempty"`
}

// Agent describes one supported tool and the assets installed for it.
type Agent struct {
	Name        string       `yaml:"name" json:"name"`
	Label       string       `yaml:"label" json:"label"`
	TargetDir   string       `yaml:"target_dir" json:"target_dir"`
	Mode        Mode         `yaml:"mode,omitempty" json:"mode,omitempty"`
	Assets      []Asset      `yaml:"assets" json:"assets"`
	PostActions []PostAction `yaml:"post_actions,omitempty" json:"post_actions,omitempty"`
}

// Table is the full asset table. It is built once at startup and not
// modified afterwards; callers share it by pointer.
type Table struct {
	Version string  `yaml:"version" json:"version"`
	Agents  []Agent `yaml:"agents" json:"agents"`
}

// Lookup returns the agent with the given name.
func (t *Table) Lookup(name string) (*Agent, bool) {
	for i := range t.Agents {
		if t.Agents[i].Name == name {
			return &t.Agents[i], true
		}
	}
	return nil, false
}

// Names returns agent names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.Agents))
	for _, a := range t.Agents {
		names = append(names, a.Name)
	}
	return names
}
