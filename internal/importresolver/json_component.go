package importresolver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/location"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// componentShapeSchema is the minimal shape a JSON component file must
// satisfy before its properties/required are folded into a TypeDef: an
// object with a "properties" object. Validating the shape before trusting
// it keeps a malformed component file from producing a confusing
// downstream type error.
const componentShapeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "properties": { "type": "object" },
    "required": { "type": "array", "items": { "type": "string" } }
  },
  "required": ["properties"]
}`

var compiledComponentSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(componentShapeSchema))
	if err != nil {
		panic(err)
	}
	if err := compiler.AddResource("component-shape.json", doc); err != nil {
		panic(err)
	}
	compiledComponentSchema, err = compiler.Compile("component-shape.json")
	if err != nil {
		panic(err)
	}
}

// loadJSONComponent interprets a JSON import as a single TypeDef named
// after the file stem, built from the JSON object's properties/required.
func loadJSONComponent(path string) (*ast.TypeDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid JSON: %w", path, err)
	}
	if err := compiledComponentSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: does not look like a component descriptor: %w", path, err)
	}

	var raw struct {
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                    `json:"required"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	required := make(map[string]bool, len(raw.Required))
	for _, name := range raw.Required {
		required[name] = true
	}

	// Deterministic field order: JSON object key order is not preserved
	// by encoding/json, so properties are sorted by name.
	names := make([]string, 0, len(raw.Properties))
	for name := range raw.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	loc := SyntheticLocation(path)
	fields := make([]*ast.FieldDef, 0, len(names))
	for _, name := range names {
		typeExpr, err := jsonPropertyToTypeExpr(raw.Properties[name], loc)
		if err != nil {
			return nil, fmt.Errorf("%s: property %q: %w", path, name, err)
		}
		fields = append(fields, &ast.FieldDef{
			Location: loc,
			Name:     name,
			Type:     typeExpr,
			Optional: !required[name],
		})
	}

	stem := strings.TrimSuffix(filepath.Base(path), ".json")
	return &ast.TypeDef{
		Location: loc,
		Name:     stem,
		Body:     &ast.TypeBody{Location: loc, Fields: fields},
	}, nil
}

func jsonPropertyToTypeExpr(raw json.RawMessage, l location.Location) (ast.TypeExpr, error) {
	var prop struct {
		Type  string          `json:"type"`
		Items json.RawMessage `json:"items"`
		Ref   string          `json:"$ref"`
	}
	if err := json.Unmarshal(raw, &prop); err != nil {
		return nil, err
	}

	if prop.Ref != "" {
		name := strings.TrimPrefix(prop.Ref, "#/$defs/")
		return &ast.Reference{Location: l, Name: name}, nil
	}

	switch prop.Type {
	case "string":
		return &ast.Primitive{Location: l, Kind: ast.PrimString}, nil
	case "integer":
		return &ast.Primitive{Location: l, Kind: ast.PrimInteger}, nil
	case "number":
		return &ast.Primitive{Location: l, Kind: ast.PrimNumber}, nil
	case "boolean":
		return &ast.Primitive{Location: l, Kind: ast.PrimBoolean}, nil
	case "object":
		return &ast.Primitive{Location: l, Kind: ast.PrimObject}, nil
	case "null":
		return &ast.Primitive{Location: l, Kind: ast.PrimNull}, nil
	case "array":
		if len(prop.Items) == 0 {
			return &ast.Array{Location: l, Element: &ast.Primitive{Location: l, Kind: ast.PrimAny}}, nil
		}
		elem, err := jsonPropertyToTypeExpr(prop.Items, l)
		if err != nil {
			return nil, err
		}
		return &ast.Array{Location: l, Element: elem}, nil
	default:
		return &ast.Primitive{Location: l, Kind: ast.PrimAny}, nil
	}
}
