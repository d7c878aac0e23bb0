package manifest

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/agentx-labs/agentcfg/internal/userdata"
	"go.yaml.in/yaml/v3"
)

//go:embed agents.yaml
var defaultTable []byte

// Default returns the built-in asset table.
func Default() (*Table, error) {
	return Parse(defaultTable, "agents.yaml (built-in)")
}

// Load reads and validates an asset table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading asset table %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse validates YAML table data against the schema and the table rules,
// then decodes it. name is used in error messages only.
func Parse(data []byte, name string) (*Table, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating asset table %s: %w", name, err)
	}
	if !result.Valid {
		return nil, &ValidationError{Source: name, Issues: result.Issues}
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing asset table %s: %w", name, err)
	}

	if issues := checkTable(&t); len(issues) > 0 {
		return nil, &ValidationError{Source: name, Issues: issues}
	}
	return &t, nil
}

// Check applies the table rules to a table constructed in code.
func Check(t *Table) error {
	if issues := checkTable(t); len(issues) > 0 {
		return &ValidationError{Source: "(in-memory)", Issues: issues}
	}
	return nil
}

// Bind returns a copy of t ready for installation on this machine: target
// directories named in overrides replace the declared ones, and every "~/"
// path is expanded against home. Post-action targets that are still relative
// after expansion are taken relative to the agent's target directory.
func (t *Table) Bind(home string, overrides map[string]string) *Table {
	out := &Table{Version: t.Version, Agents: make([]Agent, len(t.Agents))}
	for i, agent := range t.Agents {
		agent.Assets = slices.Clone(agent.Assets)
		agent.PostActions = slices.Clone(agent.PostActions)

		if dir := overrides[agent.Name]; dir != "" {
			agent.TargetDir = dir
		}
		agent.TargetDir = userdata.ExpandHome(agent.TargetDir, home)

		for j := range agent.PostActions {
			target := agent.PostActions[j].Target
			if target == "" {
				continue
			}
			target = userdata.ExpandHome(target, home)
			if !filepath.IsAbs(target) {
				target = filepath.Join(agent.TargetDir, target)
			}
			agent.PostActions[j].Target = target
		}
		out.Agents[i] = agent
	}
	return out
}
