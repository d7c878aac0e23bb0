package userdata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRedactValue_SensitiveKeys(t *testing.T) {
	tests := []struct {
		key      string
		value    string
		expected string
	}{
		{"GITHUB_TOKEN", "ghp_abcdef123456", "ghp_***"},
		{"AWS_SECRET_ACCESS_KEY", "wJalrXUtnFEMI", "wJal***"},
		{"DB_PASSWORD", "hunter2", "hunt***"},
		{"API_KEY", "sk-12345", "sk-1***"},
		{"SPLUNK_CREDENTIAL", "abc", "***"},
		{"github_token", "ghp_abcdef", "ghp_***"},
		{"LOG_LEVEL", "info", "info"},
		{"AWS_REGION", "us-east-1", "us-east-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			result := RedactValue(tt.key, tt.value)
			if result != tt.expected {
				t.Errorf("RedactValue(%q, %q) = %q, want %q", tt.key, tt.value, result, tt.expected)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	tmp := t.TempDir()
	envFile := filepath.Join(tmp, ".env")

	content := `# comment
BRAVE_API_KEY=abc123
EMPTY_VALUE=
QUOTED="hello world"
`
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	env, err := LoadEnvFile(envFile)
	if err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}

	if env["BRAVE_API_KEY"] != "abc123" {
		t.Errorf("BRAVE_API_KEY = %q, want %q", env["BRAVE_API_KEY"], "abc123")
	}
	if v, ok := env["EMPTY_VALUE"]; !ok || v != "" {
		t.Errorf("EMPTY_VALUE = %q (present %v), want empty and present", v, ok)
	}
	if env["QUOTED"] != "hello world" {
		t.Errorf("QUOTED = %q, want %q", env["QUOTED"], "hello world")
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	env, err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(env) != 0 {
		t.Errorf("expected empty map, got %v", env)
	}
}

func TestLookupPrefersFile(t *testing.T) {
	l := Lookup{
		File: map[string]string{"SHARED": "from-file"},
		Env: func(name string) (string, bool) {
			switch name {
			case "SHARED":
				return "from-env", true
			case "ONLY_ENV":
				return "env-value", true
			}
			return "", false
		},
	}

	if v, ok := l.Get("SHARED"); !ok || v != "from-file" {
		t.Errorf("Get(SHARED) = %q, %v; want from-file, true", v, ok)
	}
	if v, ok := l.Get("ONLY_ENV"); !ok || v != "env-value" {
		t.Errorf("Get(ONLY_ENV) = %q, %v; want env-value, true", v, ok)
	}
	if _, ok := l.Get("NOPE"); ok {
		t.Error("Get(NOPE) should not be found")
	}
}
