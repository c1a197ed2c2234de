package schemaemit_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/parser"
	"github.com/ButlerSebastian/adl-sub000/internal/schemaemit"
)

func mustEmit(t *testing.T, src string) map[string]any {
	t.Helper()
	prog, err := parser.Parse("test.adl", []byte(src))
	require.NoError(t, err)
	catalog := ast.NewCatalog(prog, nil, nil)
	out, err := schemaemit.Emit(prog, catalog, "https://example.com/schemas/test.json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	return doc
}

func TestEmit_RootShapeAndKeyOrder(t *testing.T) {
	prog, err := parser.Parse("test.adl", []byte(`
agent MyAgent {
  name: string
  owner: string?
}
`))
	require.NoError(t, err)
	out, err := schemaemit.Emit(prog, ast.NewCatalog(prog, nil, nil), "https://example.com/a.json")
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))

	var keyOrder []string
	dec := json.NewDecoder(bytes.NewReader(out))
	tok, err := dec.Token() // '{'
	require.NoError(t, err)
	_ = tok
	for dec.More() {
		keyTok, err := dec.Token()
		require.NoError(t, err)
		keyOrder = append(keyOrder, keyTok.(string))
		var discard json.RawMessage
		require.NoError(t, dec.Decode(&discard))
	}
	assert.Equal(t, []string{"$schema", "$id", "title", "type", "properties", "required", "additionalProperties"}, keyOrder)

	doc := map[string]any{}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, schemaemit.Draft202012, doc["$schema"])
	assert.Equal(t, "MyAgent", doc["title"])
	assert.Equal(t, []any{"name", "owner"}, doc["required"])
	assert.Equal(t, false, doc["additionalProperties"])
}

func TestEmit_PrimitiveMapping(t *testing.T) {
	doc := mustEmit(t, `
agent A {
  s: string
  i: integer
  n: number
  b: boolean
  o: object
  arr: array
  a: any
}
`)
	props := doc["properties"].(map[string]any)
	assert.Equal(t, "string", props["s"].(map[string]any)["type"])
	assert.Equal(t, "integer", props["i"].(map[string]any)["type"])
	assert.Equal(t, "number", props["n"].(map[string]any)["type"])
	assert.Equal(t, "boolean", props["b"].(map[string]any)["type"])
	assert.Equal(t, "object", props["o"].(map[string]any)["type"])
	assert.Equal(t, "array", props["arr"].(map[string]any)["type"])
	assert.Empty(t, props["a"].(map[string]any))
}

func TestEmit_ArrayOfReferenceLiftsDef(t *testing.T) {
	doc := mustEmit(t, `
type Item {
  label: string
}

agent A {
  items: Item[]
}
`)
	props := doc["properties"].(map[string]any)
	items := props["items"].(map[string]any)
	assert.Equal(t, "array", items["type"])
	itemsSchema := items["items"].(map[string]any)
	assert.Equal(t, "#/$defs/Item", itemsSchema["$ref"])

	defs := doc["$defs"].(map[string]any)
	itemDef := defs["Item"].(map[string]any)
	assert.Equal(t, "object", itemDef["type"])
	assert.Equal(t, false, itemDef["additionalProperties"])
}

func TestEmit_EnumDefLiftedAsStringEnum(t *testing.T) {
	doc := mustEmit(t, `
enum Status { Active, Inactive }

agent A {
  status: Status
}
`)
	defs := doc["$defs"].(map[string]any)
	status := defs["Status"].(map[string]any)
	assert.Equal(t, "string", status["type"])
	assert.Equal(t, []any{"Active", "Inactive"}, status["enum"])
}

func TestEmit_UnionDegeneratesWhenSingleMember(t *testing.T) {
	doc := mustEmit(t, `
agent A {
  x: string
}
`)
	props := doc["properties"].(map[string]any)
	x := props["x"].(map[string]any)
	_, hasAnyOf := x["anyOf"]
	assert.False(t, hasAnyOf)
}

func TestEmit_UnionOfMultipleMembersBecomesAnyOf(t *testing.T) {
	doc := mustEmit(t, `
agent A {
  x: string | integer
}
`)
	props := doc["properties"].(map[string]any)
	x := props["x"].(map[string]any)
	anyOf := x["anyOf"].([]any)
	assert.Len(t, anyOf, 2)
}

func TestEmit_OptionalSetsNullable(t *testing.T) {
	doc := mustEmit(t, `
agent A {
  x: string?
}
`)
	props := doc["properties"].(map[string]any)
	x := props["x"].(map[string]any)
	assert.Equal(t, true, x["nullable"])
	assert.Equal(t, "string", x["type"])

	required, _ := doc["required"].([]any)
	assert.Contains(t, required, "x")
}

func TestEmit_ConstrainedCopiesMinMax(t *testing.T) {
	doc := mustEmit(t, `
agent A {
  n: integer(1..10)
}
`)
	props := doc["properties"].(map[string]any)
	n := props["n"].(map[string]any)
	assert.EqualValues(t, 1, n["minimum"])
	assert.EqualValues(t, 10, n["maximum"])
}

func TestEmit_IsIdempotentAcrossRepeatedEmission(t *testing.T) {
	prog, err := parser.Parse("test.adl", []byte(`
type Item { label: string }
enum Status { Active, Inactive }

agent A {
  items: Item[]
  status: Status
}
`))
	require.NoError(t, err)
	catalog := ast.NewCatalog(prog, nil, nil)

	out1, err := schemaemit.Emit(prog, catalog, "https://example.com/a.json")
	require.NoError(t, err)
	out2, err := schemaemit.Emit(prog, catalog, "https://example.com/a.json")
	require.NoError(t, err)
	assert.Equal(t, string(out1), string(out2))
}

func TestEmit_CyclicTypeReferenceIsRejected(t *testing.T) {
	prog, err := parser.Parse("test.adl", []byte(`
type A { next: B }
type B { next: A }

agent Root {
  a: A
}
`))
	require.NoError(t, err)
	catalog := ast.NewCatalog(prog, nil, nil)
	_, err = schemaemit.Emit(prog, catalog, "https://example.com/a.json")
	assert.Error(t, err)
}

func TestEmit_ResolvesReferencesFromImportedCatalog(t *testing.T) {
	prog, err := parser.Parse("test.adl", []byte(`
agent A {
  shared: Shared
}
`))
	require.NoError(t, err)

	sharedProg, err := parser.Parse("shared.adl", []byte(`type Shared { x: string }`))
	require.NoError(t, err)
	importedTypes := map[string]*ast.TypeDef{}
	for _, d := range sharedProg.Declarations {
		if td, ok := d.(*ast.TypeDef); ok {
			importedTypes[td.Name] = td
		}
	}

	catalog := ast.NewCatalog(prog, importedTypes, nil)
	out, err := schemaemit.Emit(prog, catalog, "https://example.com/a.json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	defs := doc["$defs"].(map[string]any)
	assert.Contains(t, defs, "Shared")
}
