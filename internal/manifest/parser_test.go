package manifest

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	want := []string{"claude", "opencode", "codex"}
	got := table.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	claude, ok := table.Lookup("claude")
	if !ok {
		t.Fatal("claude agent missing from default table")
	}
	if claude.Label != "Claude Code" {
		t.Errorf("Label = %q, want %q", claude.Label, "Claude Code")
	}
	if len(claude.PostActions) != 1 || claude.PostActions[0].Kind != ActionMergeMCPRegistry {
		t.Fatalf("claude post actions = %+v", claude.PostActions)
	}
	if claude.PostActions[0].Key != "mcpServers" {
		t.Errorf("merge key = %q, want mcpServers", claude.PostActions[0].Key)
	}

	opencode, _ := table.Lookup("opencode")
	targets := map[string]Kind{}
	for _, a := range opencode.Assets {
		targets[a.Target] = a.Kind
	}
	if targets["opencode.json"] != KindFile || targets["AGENTS.md"] != KindFile || targets["tool"] != KindDirectory {
		t.Errorf("opencode assets = %+v", opencode.Assets)
	}
}

func TestLoadValidTable(t *testing.T) {
	table, err := Load(testPath("valid-table.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	agent, ok := table.Lookup("opencode")
	if !ok {
		t.Fatal("opencode not found")
	}
	if agent.Mode != ModeCopy {
		t.Errorf("Mode = %q, want copy", agent.Mode)
	}
	if len(agent.Assets) != 2 {
		t.Errorf("assets = %d, want 2", len(agent.Assets))
	}
}

func TestLoadInvalidTables(t *testing.T) {
	tests := []struct {
		file    string
		wantMsg string
	}{
		{"invalid-unknown-action.yaml", "unknown post-action"},
		{"invalid-bad-kind.yaml", "kind"},
		{"invalid-escaping-path.yaml", "must be a relative path"},
		{"invalid-version.yaml", "not supported"},
		{"invalid-duplicates.yaml", "duplicate"},
		{"invalid-merge-missing-key.yaml", "requires source, target and key"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := Load(testPath(tt.file))
			if err == nil {
				t.Fatalf("expected error for %s", tt.file)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if len(verr.Issues) == 0 {
				t.Fatal("expected at least one issue")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadNotYAML(t *testing.T) {
	_, err := Load(testPath("invalid-not-yaml.yaml"))
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Errorf("malformed YAML should be a parse error, got validation error: %v", err)
	}
}

func TestLoadNotFound(t *testing.T) {
	if _, err := Load(testPath("nonexistent.yaml")); err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestCheckInMemoryTable(t *testing.T) {
	table := &Table{
		Version: "1.0.0",
		Agents: []Agent{{
			Name:        "claude",
			Label:       "Claude Code",
			TargetDir:   "/tmp/claude",
			PostActions: []PostAction{{Kind: "reload_editor"}},
		}},
	}
	if err := Check(table); err == nil {
		t.Fatal("expected unknown post-action to fail Check")
	}

	table.Agents[0].PostActions = []PostAction{{Kind: ActionPruneBrokenLinks}}
	if err := Check(table); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBind(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	home := filepath.Join("/home", "dev")
	bound := table.Bind(home, map[string]string{"opencode": "/opt/opencode"})

	claude, _ := bound.Lookup("claude")
	if claude.TargetDir != filepath.Join(home, ".claude") {
		t.Errorf("claude TargetDir = %q", claude.TargetDir)
	}
	if claude.PostActions[0].Target != filepath.Join(home, ".claude.json") {
		t.Errorf("claude merge target = %q", claude.PostActions[0].Target)
	}

	opencode, _ := bound.Lookup("opencode")
	if opencode.TargetDir != "/opt/opencode" {
		t.Errorf("opencode TargetDir = %q, want override", opencode.TargetDir)
	}

	codex, _ := bound.Lookup("codex")
	if codex.PostActions[0].Target != filepath.Join(home, ".codex", "config.toml") {
		t.Errorf("codex merge target = %q", codex.PostActions[0].Target)
	}

	// The source table is left untouched.
	orig, _ := table.Lookup("claude")
	if orig.TargetDir != "~/.claude" {
		t.Errorf("Bind mutated the source table: %q", orig.TargetDir)
	}
	if orig.PostActions[0].Target != "~/.claude.json" {
		t.Errorf("Bind mutated source post actions: %q", orig.PostActions[0].Target)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"", ModeSymlink, true},
		{"symlink", ModeSymlink, true},
		{"copy", ModeCopy, true},
		{"hardlink", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMode(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
