package linter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	googlejsonschema "github.com/google/jsonschema-go/jsonschema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// CustomRuleSpec is one pattern-based rule in a custom rule document.
// Custom rules are declarative (a regular expression plus a message)
// rather than Go code, so they can be shipped as data and validated
// before being compiled into Rules.
type CustomRuleSpec struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Severity    string `json:"severity" yaml:"severity"`
	Pattern     string `json:"pattern" yaml:"pattern"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
}

// CustomRuleDocument is the top-level shape of a custom rule file, in
// either JSON or YAML (gopkg.in/yaml.v3 parses both).
type CustomRuleDocument struct {
	Rules []CustomRuleSpec `json:"rules" yaml:"rules"`
}

// customRuleSchemaJSON is derived once from CustomRuleDocument's own
// field tags via jsonschema.ForType, turning the Go struct directly into
// a schema instead of hand-authoring one.
func customRuleSchemaJSON() ([]byte, error) {
	schema, err := googlejsonschema.ForType(reflect.TypeOf(CustomRuleDocument{}), &googlejsonschema.ForOptions{})
	if err != nil {
		return nil, fmt.Errorf("deriving custom rule schema: %w", err)
	}
	return json.Marshal(schema)
}

// ValidateCustomRuleDocument checks doc (JSON or YAML bytes) against the
// schema derived from CustomRuleDocument, using the same santhosh-tekuri/
// jsonschema/v6 compile-and-validate sequence as internal/schemaemit's
// self-validation and internal/importresolver's JSON component loading.
func ValidateCustomRuleDocument(doc []byte) error {
	var raw any
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return fmt.Errorf("parsing custom rule document: %w", err)
	}
	docJSON, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("re-encoding custom rule document: %w", err)
	}

	schemaJSON, err := customRuleSchemaJSON()
	if err != nil {
		return err
	}
	decodedSchema, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("decoding custom rule schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("adlc://custom-rule-schema.json", decodedSchema); err != nil {
		return fmt.Errorf("registering custom rule schema: %w", err)
	}
	compiled, err := compiler.Compile("adlc://custom-rule-schema.json")
	if err != nil {
		return fmt.Errorf("compiling custom rule schema: %w", err)
	}

	decodedDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(docJSON))
	if err != nil {
		return fmt.Errorf("decoding custom rule document: %w", err)
	}
	if err := compiled.Validate(decodedDoc); err != nil {
		return fmt.Errorf("custom rule document failed schema validation: %w", err)
	}
	return nil
}

// LoadCustomRules parses a custom rule document (JSON or YAML), validates
// it against its derived schema, and compiles each entry into a Rule that
// flags any line matching its Pattern.
func LoadCustomRules(doc []byte) ([]Rule, error) {
	if err := ValidateCustomRuleDocument(doc); err != nil {
		return nil, err
	}
	var parsed CustomRuleDocument
	if err := yaml.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("parsing custom rule document: %w", err)
	}

	rules := make([]Rule, 0, len(parsed.Rules))
	for _, spec := range parsed.Rules {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("custom rule %q: invalid pattern: %w", spec.Name, err)
		}
		rules = append(rules, compileCustomRule(spec, re))
	}
	return rules, nil
}

func compileCustomRule(spec CustomRuleSpec, re *regexp.Regexp) Rule {
	sev := Severity(spec.Severity)
	if sev == "" {
		sev = SeverityWarning
	}
	message := spec.Message
	if message == "" {
		message = spec.Description
	}
	return Rule{
		Name:           spec.Name,
		Description:    spec.Description,
		Severity:       sev,
		DefaultEnabled: true,
		Check: func(ctx *Context) []Issue {
			var issues []Issue
			for i, ln := range ctx.Lines {
				if re.MatchString(ln) {
					issues = append(issues, issueAt(spec.Name, sev, ctx.Path, i+1, "%s", message))
				}
			}
			return issues
		},
	}
}
