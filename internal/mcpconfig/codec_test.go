package mcpconfig

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"/home/u/.claude.json":       FormatJSON,
		"/home/u/.codex/config.toml": FormatTOML,
		"config.YAML":                FormatYAML,
		"config.yml":                 FormatYAML,
		"no-extension":               FormatJSON,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "json", "toml", "yaml"} {
		got, ok := ParseFormat(s)
		assert.True(t, ok, s)
		assert.Equal(t, Format(s), got)
	}
	_, ok := ParseFormat("ini")
	assert.False(t, ok)
}

func TestJSONDocumentRoundTrip(t *testing.T) {
	doc, err := parseDocument(FormatJSON, []byte(`{
  "b": [1, 2.50, 1e3],
  "a": {"nested": true}
}`))
	require.NoError(t, err)

	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": [\n    1,\n    2.50,\n    1e3\n  ],\n  \"a\": {\n    \"nested\": true\n  }\n}\n", string(out))
}

func TestJSONDocumentDuplicateKeyLastWins(t *testing.T) {
	doc, err := parseDocument(FormatJSON, []byte(`{"a":1,"a":2}`))
	require.NoError(t, err)
	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 2\n}\n", string(out))
}

func TestYAMLDocumentEmpty(t *testing.T) {
	doc, err := parseDocument(FormatYAML, []byte("# only a comment\n"))
	require.NoError(t, err)
	require.NoError(t, doc.Set("mcpServers", map[string]any{"a": map[string]any{"command": "x"}}))
	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), "mcpServers:")
}

func TestYAMLDocumentNotMapping(t *testing.T) {
	_, err := parseDocument(FormatYAML, []byte("- a\n- b\n"))
	assert.ErrorIs(t, err, errNotMapping)
}

func TestDecodeMapKeepsJSONNumbers(t *testing.T) {
	m, err := decodeMap(FormatJSON, []byte(`{"n": 9007199254740993}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), m["n"])
}

func TestNormalizeNumbers(t *testing.T) {
	in := map[string]any{
		"i":   json.Number("42"),
		"f":   json.Number("0.25"),
		"arr": []any{json.Number("1"), "s"},
	}
	got := normalizeNumbers(in).(map[string]any)
	assert.Equal(t, int64(42), got["i"])
	assert.Equal(t, 0.25, got["f"])
	assert.Equal(t, []any{int64(1), "s"}, got["arr"])
}
