package compiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ButlerSebastian/adl-sub000/internal/compiler"
	"github.com/ButlerSebastian/adl-sub000/internal/diagnostic"
	"github.com/ButlerSebastian/adl-sub000/internal/linter"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestCompiler_MinimalAgent exercises a minimal agent with two required string fields.
func TestCompiler_MinimalAgent(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "agent.adl", "agent MinimalAgent { name: string  description: string }\n")

	c := compiler.New(compiler.DefaultOptions())
	u, err := c.Load(path)
	require.NoError(t, err)
	require.Empty(t, u.Diagnostics)

	schema, err := c.EmitJSONSchema(u)
	require.NoError(t, err)
	assert.Contains(t, string(schema), `"name": {`)
	assert.Contains(t, string(schema), `"description": {`)
	assert.Contains(t, string(schema), `"additionalProperties": false`)
	assert.NotContains(t, string(schema), `$defs`)
}

// TestCompiler_EnumReference exercises an enum referenced from an agent field.
func TestCompiler_EnumReference(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "agent.adl", "enum Status { active, inactive }\nagent A { status: Status }\n")

	c := compiler.New(compiler.DefaultOptions())
	u, err := c.Load(path)
	require.NoError(t, err)
	require.Empty(t, u.Diagnostics)

	schema, err := c.EmitJSONSchema(u)
	require.NoError(t, err)
	assert.Contains(t, string(schema), `"$defs"`)
	assert.Contains(t, string(schema), `"Status"`)
	assert.Contains(t, string(schema), `#/$defs/Status`)
}

// TestCompiler_ConstrainedRange exercises an integer field with a min/max constraint.
func TestCompiler_ConstrainedRange(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "agent.adl", "agent A { age: integer(0..120) }\n")

	c := compiler.New(compiler.DefaultOptions())
	u, err := c.Load(path)
	require.NoError(t, err)
	require.Empty(t, u.Diagnostics)

	schema, err := c.EmitJSONSchema(u)
	require.NoError(t, err)
	assert.Contains(t, string(schema), `"minimum": 0`)
	assert.Contains(t, string(schema), `"maximum": 120`)
}

func TestCompiler_InvertedConstrainedRange(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "agent.adl", "agent A { age: integer(120..0) }\n")

	c := compiler.New(compiler.DefaultOptions())
	u, err := c.Load(path)
	require.NoError(t, err)
	require.Len(t, u.Diagnostics, 1)
	assert.Equal(t, diagnostic.CodeInvalidConstraint, u.Diagnostics[0].Code)
}

func TestCompiler_SyntaxErrorStopsAtOneDiagnostic(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "bad.adl", "agent A { age: }\n")

	c := compiler.New(compiler.DefaultOptions())
	u, err := c.Load(path)
	require.NoError(t, err)
	require.Nil(t, u.Program)
	require.Len(t, u.Diagnostics, 1)
	assert.Equal(t, diagnostic.CategorySyntax, u.Diagnostics[0].Category)
}

func TestCompiler_ImportMerge(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "shared.adl", "type Address { street: string }\n")
	path := writeTemp(t, dir, "agent.adl", "import ./shared\nagent A { home: Address }\n")

	c := compiler.New(compiler.DefaultOptions())
	u, err := c.Load(path)
	require.NoError(t, err)
	require.Empty(t, u.Diagnostics)

	schema, err := c.EmitJSONSchema(u)
	require.NoError(t, err)
	assert.Contains(t, string(schema), `"Address"`)
}

func TestCompiler_EmitTypeScriptAndPython(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "agent.adl", "enum Status { active, inactive }\ntype Profile { status: Status }\nagent A { profile: Profile }\n")

	c := compiler.New(compiler.DefaultOptions())
	u, err := c.Load(path)
	require.NoError(t, err)
	require.Empty(t, u.Diagnostics)

	ts := c.EmitTypeScript(u)
	assert.Contains(t, ts, "Status")
	assert.Contains(t, ts, "Profile")

	py := c.EmitPython(u)
	assert.Contains(t, py, "Status")
	assert.Contains(t, py, "Profile")
}

func TestCompiler_FormatAndLint(t *testing.T) {
	c := compiler.New(compiler.DefaultOptions())
	src := []byte("agent   A   {   description : string   owner : string   }\n")

	formatted, err := c.Format(src)
	require.NoError(t, err)
	require.NotEmpty(t, formatted)

	reg := linter.DefaultRegistry()
	issues := c.Lint("agent.adl", formatted, reg)
	assert.Empty(t, issues)
}
