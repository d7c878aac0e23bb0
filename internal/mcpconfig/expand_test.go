package mcpconfig

import (
	"bytes"
	"testing"

	"github.com/agentx-labs/agentcfg/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestExpandValue(t *testing.T) {
	vars := mapVars{"API_KEY": "sk-1234567", "REGION": "eu"}
	in := map[string]any{
		"key":    "${API_KEY}",
		"url":    "https://${REGION}.example.com/${MISSING}",
		"again":  "${MISSING}",
		"other":  "${ALSO_MISSING}",
		"count":  3,
		"flag":   true,
		"list":   []any{"${REGION}", 1.5, nil},
		"braces": "${not valid}",
	}

	var logs bytes.Buffer
	w := &warnings{}
	got := expandValue(in, vars, "claude/.mcp.json", w, logging.New(&logs, "debug")).(map[string]any)

	assert.Equal(t, "sk-1234567", got["key"])
	assert.Equal(t, "https://eu.example.com/${MISSING}", got["url"])
	assert.Equal(t, "${MISSING}", got["again"])
	assert.Equal(t, 3, got["count"])
	assert.Equal(t, true, got["flag"])
	assert.Equal(t, []any{"eu", 1.5, nil}, got["list"])
	assert.Equal(t, "${not valid}", got["braces"])

	assert.Equal(t, []string{
		"Warning: unresolved variable ${ALSO_MISSING} in claude/.mcp.json",
		"Warning: unresolved variable ${MISSING} in claude/.mcp.json",
	}, w.msgs, "one warning per distinct name, in name order")

	assert.Contains(t, logs.String(), "sk-1***")
	assert.NotContains(t, logs.String(), "sk-1234567")
}

func TestExpandValueDoesNotMutateInput(t *testing.T) {
	in := map[string]any{"a": "${X}"}
	expandValue(in, mapVars{"X": "y"}, "src", nil, logging.Nop())
	assert.Equal(t, "${X}", in["a"])
}

func TestPlaceholders(t *testing.T) {
	repo, _ := fixture(t, `{"mcpServers":{"a":{"env":{"T":"${TOKEN}","U":"${HOST}/${TOKEN}"},"args":["${ZED}"]}},"other":"${IGNORED}"}`)

	names, err := Placeholders(repo, "claude/.mcp.json", "mcpServers")
	assert.NoError(t, err)
	assert.Equal(t, []string{"HOST", "TOKEN", "ZED"}, names)

	names, err = Placeholders(repo, "claude/missing.json", "mcpServers")
	assert.NoError(t, err)
	assert.Empty(t, names)
}
