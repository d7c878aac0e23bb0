package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/agents.schema.json
var schemaBytes []byte

// SupportedVersions is the semver constraint a table's version must satisfy.
const SupportedVersions = "^1.0.0"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a table validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single problem found in a table.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/agents/0/assets/1/kind")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed, or "table" for Go-level checks
}

func (v ValidationIssue) String() string {
	if v.Path == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// ValidationError is returned when a table fails validation.
type ValidationError struct {
	Source string
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(printer.Sprintf("invalid asset table %s (%d issues)", e.Source, len(e.Issues)))
	for _, issue := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(issue.String())
	}
	return b.String()
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("agents.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("agents.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate validates raw YAML bytes against the table JSON schema.
// The error return is for YAML syntax or schema compilation failures.
// Validation issues are returned in the ValidationResult.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	// Round-trip through JSON so the validator sees JSON-native types.
	jsonData, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &ValidationResult{
		Valid:  false,
		Issues: extractIssues(validationErr),
	}, nil
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
		}

		msg := ""
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		if keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

// deduplicateIssues removes duplicate issues (same path + keyword + message).
func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}

// normalizeYAML recursively converts YAML-decoded maps with non-string keys
// into string-keyed maps so they survive json.Marshal.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	default:
		return val
	}
}

// checkTable runs the checks a JSON schema cannot express: version
// compatibility, uniqueness, path containment, and post-action fields.
func checkTable(t *Table) []ValidationIssue {
	var issues []ValidationIssue
	add := func(path, format string, args ...interface{}) {
		issues = append(issues, ValidationIssue{
			Path:    path,
			Message: printer.Sprintf(format, args...),
			Keyword: "table",
		})
	}

	if err := checkVersion(t.Version); err != nil {
		add("/version", "%v", err)
	}

	names := make(map[string]bool)
	for i, agent := range t.Agents {
		agentPath := fmt.Sprintf("/agents/%d", i)
		if names[agent.Name] {
			add(agentPath+"/name", "duplicate agent name %q", agent.Name)
		}
		names[agent.Name] = true

		if _, ok := ParseMode(string(agent.Mode)); !ok {
			add(agentPath+"/mode", "unknown mode %q", agent.Mode)
		}

		targets := make(map[string]bool)
		for j, asset := range agent.Assets {
			assetPath := fmt.Sprintf("%s/assets/%d", agentPath, j)
			if !asset.Kind.Valid() {
				add(assetPath+"/kind", "unknown asset kind %q", asset.Kind)
			}
			if !filepath.IsLocal(asset.Source) {
				add(assetPath+"/source", "source %q must be a relative path inside the repository", asset.Source)
			}
			if !filepath.IsLocal(asset.Target) {
				add(assetPath+"/target", "target %q must be a relative path inside the target directory", asset.Target)
			}
			clean := filepath.Clean(asset.Target)
			if targets[clean] {
				add(assetPath+"/target", "duplicate target %q", asset.Target)
			}
			targets[clean] = true
		}

		for j, action := range agent.PostActions {
			actionPath := fmt.Sprintf("%s/post_actions/%d", agentPath, j)
			switch action.Kind {
			case ActionMergeMCPRegistry:
				if action.Source == "" || action.Target == "" || action.Key == "" {
					add(actionPath, "%s requires source, target and key", action.Kind)
				}
				if action.Source != "" && !filepath.IsLocal(action.Source) {
					add(actionPath+"/source", "source %q must be a relative path inside the repository", action.Source)
				}
			case ActionPruneBrokenLinks:
			default:
				add(actionPath+"/kind", "unknown post-action %q (known: %v)", action.Kind, PostActionKinds)
			}
		}
	}

	return issues
}

// checkVersion verifies the table version satisfies SupportedVersions.
func checkVersion(version string) error {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("parsing table version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("parsing constraint %q: %w", SupportedVersions, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("table version %s is not supported (want %s)", v, SupportedVersions)
	}
	return nil
}
