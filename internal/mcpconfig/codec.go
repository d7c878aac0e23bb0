package mcpconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Format names a document codec.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var (
	errNotMapping   = errors.New("top level is not a mapping")
	errTrailingData = errors.New("unexpected data after top-level object")
)

// ParseFormat converts a format name, returning false if it is unknown.
// The empty string is accepted and means "choose by file extension".
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", FormatJSON, FormatTOML, FormatYAML:
		return Format(s), true
	default:
		return "", false
	}
}

// FormatFromPath picks a format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// decodeMap parses a whole source document into generic values. JSON numbers
// are kept as json.Number.
func decodeMap(format Format, data []byte) (map[string]any, error) {
	var m map[string]any
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, errTrailingData
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, errNotMapping
		}
		m = obj
	}
	return m, nil
}

// document is a parsed target file that can have one key replaced and be
// written back.
type document interface {
	Set(key string, value any) error
	Bytes() ([]byte, error)
}

// parseDocument parses target data. Empty or whitespace-only data is an
// empty mapping.
func parseDocument(format Format, data []byte) (document, error) {
	blank := len(bytes.TrimSpace(data)) == 0
	switch format {
	case FormatTOML:
		doc := &tomlDocument{values: map[string]any{}}
		if !blank {
			if err := toml.Unmarshal(data, &doc.values); err != nil {
				return nil, err
			}
		}
		return doc, nil
	case FormatYAML:
		return parseYAMLDocument(data, blank)
	default:
		return parseJSONDocument(data, blank)
	}
}

// jsonDocument keeps untouched values as raw JSON in their original order,
// so numbers and nesting survive the rewrite unchanged.
type jsonDocument struct {
	keys   []string
	values map[string]json.RawMessage
}

func parseJSONDocument(data []byte, blank bool) (*jsonDocument, error) {
	doc := &jsonDocument{values: map[string]json.RawMessage{}}
	if blank {
		return doc, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotMapping
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if _, seen := doc.values[key]; !seen {
			doc.keys = append(doc.keys, key)
		}
		doc.values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return doc, nil
}

func (d *jsonDocument) Set(key string, value any) error {
	raw, err := marshalJSON(value)
	if err != nil {
		return err
	}
	if _, seen := d.values[key]; !seen {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
	return nil
}

func (d *jsonDocument) Bytes() ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			compact.WriteByte(',')
		}
		k, err := marshalJSON(key)
		if err != nil {
			return nil, err
		}
		compact.Write(k)
		compact.WriteByte(':')
		compact.Write(d.values[key])
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// marshalJSON encodes v compactly without HTML escaping.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// tomlDocument is re-encoded from a map; key order is not preserved.
type tomlDocument struct {
	values map[string]any
}

// Set rejects values containing null, which TOML cannot represent.
func (d *tomlDocument) Set(key string, value any) error {
	if path, ok := findNull(value, key); ok {
		return fmt.Errorf("%s is null, which TOML cannot represent", path)
	}
	d.values[key] = value
	return nil
}

// findNull returns the dotted path of the first null inside v, visiting map
// keys in sorted order.
func findNull(v any, path string) (string, bool) {
	switch val := v.(type) {
	case nil:
		return path, true
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if p, ok := findNull(val[k], path+"."+k); ok {
				return p, true
			}
		}
	case []any:
		for i, item := range val {
			if p, ok := findNull(item, fmt.Sprintf("%s[%d]", path, i)); ok {
				return p, true
			}
		}
	}
	return "", false
}

func (d *tomlDocument) Bytes() ([]byte, error) {
	return toml.Marshal(d.values)
}

// yamlDocument edits the node tree so comments and key order survive.
type yamlDocument struct {
	root yaml.Node
}

func parseYAMLDocument(data []byte, blank bool) (*yamlDocument, error) {
	doc := &yamlDocument{}
	if !blank {
		if err := yaml.Unmarshal(data, &doc.root); err != nil {
			return nil, err
		}
	}
	if doc.root.Kind == 0 || (doc.root.Kind == yaml.DocumentNode && len(doc.root.Content) == 0) {
		doc.root = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}
	if len(doc.root.Content) != 1 || doc.root.Content[0].Kind != yaml.MappingNode {
		return nil, errNotMapping
	}
	return doc, nil
}

func (d *yamlDocument) Set(key string, value any) error {
	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return err
	}
	mapping := d.root.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = &node
			return nil
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&node,
	)
	return nil
}

func (d *yamlDocument) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&d.root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalizeNumbers converts json.Number values to int64 or float64 so that
// non-JSON encoders emit numbers rather than strings.
func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeNumbers(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeNumbers(item)
		}
		return out
	default:
		return v
	}
}
