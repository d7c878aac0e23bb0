package mcpconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/agentcfg/internal/logging"
	"github.com/agentx-labs/agentcfg/internal/manifest"
	"github.com/agentx-labs/agentcfg/internal/registry"
	"github.com/agentx-labs/agentcfg/internal/userdata"
)

// ErrKeyNotFound is wrapped by a MergeError when the source document lacks
// the registry key.
var ErrKeyNotFound = errors.New("key not found")

// Outcome is the non-error result of Merge.
type Outcome int

const (
	// Skipped means the source document was absent and nothing was written.
	Skipped Outcome = iota
	// Merged means the target was rewritten with the new registry value.
	Merged
)

func (o Outcome) String() string {
	if o == Merged {
		return "merged"
	}
	return "skipped"
}

// Vars resolves placeholder names.
type Vars interface {
	Get(name string) (string, bool)
}

// Request describes one merge.
type Request struct {
	RepoRoot string
	Source   string // relative to RepoRoot
	Target   string // absolute path of the external file
	Key      string
	Format   Format // target codec; empty selects by Target's extension

	ExpandEnv bool
	EnvFile   string // .env path; empty means RepoRoot/.env
	Vars      Vars   // overrides EnvFile when set

	Reporter registry.Reporter
	Logger   *logging.Logger
}

// MergeError describes a failed merge. The target is unchanged when it is
// returned.
type MergeError struct {
	Source string
	Target string
	Op     string
	Err    error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merging %s into %s: %s: %v", e.Source, e.Target, e.Op, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }

// Merge copies the value of req.Key from the source document into the target
// file, replacing that key wholesale and keeping all other top-level keys.
// A missing target is treated as an empty document. A missing source is a
// soft skip reported once through req.Reporter.
func Merge(req Request) (Outcome, error) {
	log := req.Logger
	if log == nil {
		log = logging.Nop()
	}
	fail := func(op string, err error) (Outcome, error) {
		return Skipped, &MergeError{Source: req.Source, Target: req.Target, Op: op, Err: err}
	}

	resolved, ok := registry.Resolve(req.RepoRoot, req.Source, manifest.KindFile, nil)
	if !ok {
		if req.Reporter != nil {
			req.Reporter.Warn(fmt.Sprintf("Warning: %s not found, skipping MCP configuration...", req.Source))
		}
		return Skipped, nil
	}

	data, err := os.ReadFile(resolved.Path)
	if err != nil {
		return fail("read source", err)
	}
	src, err := decodeMap(FormatFromPath(resolved.Path), data)
	if err != nil {
		return fail("parse source", err)
	}
	value, ok := src[req.Key]
	if !ok {
		return fail("lookup key", fmt.Errorf("%s %w in %s", req.Key, ErrKeyNotFound, req.Source))
	}

	if req.ExpandEnv {
		vars, err := req.vars()
		if err != nil {
			return fail("load env file", err)
		}
		value = expandValue(value, vars, req.Source, req.Reporter, log)
	}

	format := req.Format
	if format == "" {
		format = FormatFromPath(req.Target)
	}
	if format != FormatJSON {
		value = normalizeNumbers(value)
	}

	existing, err := os.ReadFile(req.Target)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fail("read target", err)
	}
	doc, err := parseDocument(format, existing)
	if err != nil {
		return fail("parse target", err)
	}
	if err := doc.Set(req.Key, value); err != nil {
		return fail("encode value", err)
	}
	out, err := doc.Bytes()
	if err != nil {
		return fail("encode target", err)
	}

	if err := os.MkdirAll(filepath.Dir(req.Target), userdata.DirPermNormal); err != nil {
		return fail("create target directory", err)
	}
	if err := writeFileAtomic(req.Target, out, userdata.FilePermSecure); err != nil {
		return fail("write target", err)
	}

	log.Debug().
		Str("source", resolved.Path).
		Str("target", req.Target).
		Str("key", req.Key).
		Str("format", string(format)).
		Msg("merged registry")
	return Merged, nil
}

func (req Request) vars() (Vars, error) {
	if req.Vars != nil {
		return req.Vars, nil
	}
	path := req.EnvFile
	if path == "" {
		path = filepath.Join(req.RepoRoot, userdata.DefaultEnvFile)
	}
	file, err := userdata.LoadEnvFile(path)
	if err != nil {
		return nil, err
	}
	return userdata.NewLookup(file), nil
}
