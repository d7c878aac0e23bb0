package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("AGENTCFG_HOME_DIR", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestFilePath(t *testing.T) {
	home := setupHome(t)
	want := filepath.Join(home, ".agentcfg", "config.yaml")
	if got := FilePath(); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	setupHome(t)
	if err := Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	s, err := Current()
	if err != nil {
		t.Fatal(err)
	}
	if s.Mode != "" || s.LogLevel != "warn" || !s.Color {
		t.Errorf("defaults = %+v", s)
	}
}

func TestSetAndReload(t *testing.T) {
	setupHome(t)
	if err := Load(); err != nil {
		t.Fatal(err)
	}

	for key, value := range map[string]string{
		KeyRepoDir:       "/src/dotfiles",
		KeyMode:          "copy",
		KeyColor:         "false",
		"targets.claude": "/opt/claude",
		KeyLogLevel:      "debug",
	} {
		if err := Set(key, value); err != nil {
			t.Fatalf("Set(%q): %v", key, err)
		}
	}

	data, err := os.ReadFile(FilePath())
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "repo_dir: /src/dotfiles") {
		t.Errorf("config file missing repo_dir:\n%s", data)
	}

	viper.Reset()
	if err := Load(); err != nil {
		t.Fatal(err)
	}
	s, err := Current()
	if err != nil {
		t.Fatal(err)
	}
	if s.RepoDir != "/src/dotfiles" || s.Mode != "copy" || s.Color || s.LogLevel != "debug" {
		t.Errorf("reloaded settings = %+v", s)
	}
	if got := TargetOverride("claude"); got != "/opt/claude" {
		t.Errorf("TargetOverride(claude) = %q", got)
	}
	if got := TargetOverride("codex"); got != "" {
		t.Errorf("TargetOverride(codex) = %q, want empty", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	setupHome(t)
	t.Setenv("AGENTCFG_MODE", "copy")
	t.Setenv("AGENTCFG_TARGETS_OPENCODE", "/tmp/opencode")
	if err := Load(); err != nil {
		t.Fatal(err)
	}

	if got := Get(KeyMode); got != "copy" {
		t.Errorf("Get(mode) = %q, want copy", got)
	}
	if got := TargetOverride("opencode"); got != "/tmp/opencode" {
		t.Errorf("TargetOverride(opencode) = %q", got)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	setupHome(t)
	if err := EnsureDir(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(FilePath(), []byte("mode: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{KeyMode, "symlink", false},
		{KeyMode, "copy", false},
		{KeyMode, "hardlink", true},
		{KeyMode, "", true},
		{KeyLogLevel, "trace", false},
		{KeyLogLevel, "loud", true},
		{KeyColor, "true", false},
		{KeyColor, "sometimes", true},
		{KeyRepoDir, "~/dotfiles", false},
		{"targets.claude", "/x", false},
		{"targets.", "/x", true},
		{"mirror_url", "https://example.com", true},
	}
	for _, tt := range tests {
		err := Validate(tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
		}
	}
}

func TestKnown(t *testing.T) {
	for key, want := range map[string]bool{
		"repo_dir":       true,
		"log_level":      true,
		"targets.claude": true,
		"targets.":       false,
		"targets.a.b":    false,
		"editor":         false,
	} {
		if got := Known(key); got != want {
			t.Errorf("Known(%q) = %v, want %v", key, got, want)
		}
	}
}
