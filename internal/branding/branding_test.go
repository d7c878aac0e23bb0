package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "agentcfg" {
		t.Errorf("CLIName() = %q, want %q", got, "agentcfg")
	}
	if got := HomeDir(); got != ".agentcfg" {
		t.Errorf("HomeDir() = %q, want %q", got, ".agentcfg")
	}
}

func TestEnvVar(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
	}{
		{"repo_dir", "AGENTCFG_REPO_DIR"},
		{"LOG_LEVEL", "AGENTCFG_LOG_LEVEL"},
		{"home", "AGENTCFG_HOME"},
	}
	for _, tt := range tests {
		if got := EnvVar(tt.suffix); got != tt.want {
			t.Errorf("EnvVar(%q) = %q, want %q", tt.suffix, got, tt.want)
		}
	}
}
