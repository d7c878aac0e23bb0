package mcpconfig

import (
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/agentx-labs/agentcfg/internal/logging"
	"github.com/agentx-labs/agentcfg/internal/manifest"
	"github.com/agentx-labs/agentcfg/internal/registry"
	"github.com/agentx-labs/agentcfg/internal/userdata"
)

// placeholderPattern matches ${VAR_NAME} patterns in strings.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandValue returns v with placeholders in every nested string replaced.
// Unresolved placeholders are kept verbatim and reported once per name.
func expandValue(v any, vars Vars, source string, r registry.Reporter, log *logging.Logger) any {
	e := &expander{vars: vars, log: log, unresolved: map[string]bool{}}
	out := e.walk(v)

	names := make([]string, 0, len(e.unresolved))
	for name := range e.unresolved {
		names = append(names, name)
	}
	slices.Sort(names)
	if r != nil {
		for _, name := range names {
			r.Warn(fmt.Sprintf("Warning: unresolved variable ${%s} in %s", name, source))
		}
	}
	return out
}

type expander struct {
	vars       Vars
	log        *logging.Logger
	unresolved map[string]bool
}

func (e *expander) walk(v any) any {
	switch val := v.(type) {
	case string:
		return e.expand(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = e.walk(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = e.walk(item)
		}
		return out
	default:
		return v
	}
}

func (e *expander) expand(s string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := e.vars.Get(name)
		if !ok {
			e.unresolved[name] = true
			return match
		}
		e.log.Debug().
			Str("var", name).
			Str("value", userdata.RedactValue(name, value)).
			Msg("expanded placeholder")
		return value
	})
}

// Placeholders returns the distinct placeholder names used under key in the
// source document, sorted. A missing source yields no names.
func Placeholders(repoRoot, source, key string) ([]string, error) {
	resolved, ok := registry.Resolve(repoRoot, source, manifest.KindFile, nil)
	if !ok {
		return nil, nil
	}
	data, err := os.ReadFile(resolved.Path)
	if err != nil {
		return nil, err
	}
	doc, err := decodeMap(FormatFromPath(resolved.Path), data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	seen := map[string]bool{}
	var collect func(v any)
	collect = func(v any) {
		switch val := v.(type) {
		case string:
			for _, m := range placeholderPattern.FindAllStringSubmatch(val, -1) {
				seen[m[1]] = true
			}
		case map[string]any:
			for _, item := range val {
				collect(item)
			}
		case []any:
			for _, item := range val {
				collect(item)
			}
		}
	}
	collect(doc[key])

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
