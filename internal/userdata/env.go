package userdata

import (
	"fmt"
	"os"
	"strings"

	"github.com/subosito/gotenv"
)

// LoadEnvFile reads a .env file into a key/value map.
// A missing file is not an error and yields an empty map; a file that exists
// but cannot be parsed is.
func LoadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer f.Close()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing env file %s: %w", path, err)
	}
	return env, nil
}

// Lookup resolves variable names against a .env map first and the process
// environment second.
type Lookup struct {
	File map[string]string
	Env  func(string) (string, bool)
}

// NewLookup returns a Lookup over the given .env entries and os.LookupEnv.
func NewLookup(file map[string]string) Lookup {
	return Lookup{File: file, Env: os.LookupEnv}
}

// Get returns the value for name and whether it was found.
func (l Lookup) Get(name string) (string, bool) {
	if v, ok := l.File[name]; ok {
		return v, true
	}
	if l.Env != nil {
		return l.Env(name)
	}
	return "", false
}

// sensitivePatterns are substrings that indicate a value should be redacted.
var sensitivePatterns = []string{"TOKEN", "SECRET", "PASSWORD", "KEY", "CREDENTIAL"}

// RedactValue returns a redacted version of value if the key name contains
// a sensitive pattern (case-insensitive substring match).
// Values with 4+ chars show the first 4 chars + "***".
// Values with fewer than 4 chars are fully redacted as "***".
func RedactValue(key, value string) string {
	upper := strings.ToUpper(key)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(upper, pattern) {
			if len(value) >= 4 {
				return value[:4] + "***"
			}
			return "***"
		}
	}
	return value
}
