package tsemit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/parser"
	"github.com/ButlerSebastian/adl-sub000/internal/tsemit"
)

func mustEmit(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.Parse("test.adl", []byte(src))
	require.NoError(t, err)
	return tsemit.Emit(prog, ast.NewCatalog(prog, nil, nil))
}

func TestEmit_EnumAsStringEnum(t *testing.T) {
	out := mustEmit(t, `enum Status { Active, Inactive }`)
	assert.Contains(t, out, `export enum Status {`)
	assert.Contains(t, out, `Active = "Active"`)
	assert.Contains(t, out, `Inactive = "Inactive"`)
}

func TestEmit_RecordFieldsAndOptionalMarker(t *testing.T) {
	out := mustEmit(t, `
type Profile {
  name: string
  nickname?: string
}
`)
	assert.Contains(t, out, "export interface Profile {")
	assert.Contains(t, out, "name: string;")
	assert.Contains(t, out, "nickname?: string;")
}

func TestEmit_AgentGetsLegacyIDEnvelope(t *testing.T) {
	out := mustEmit(t, `
agent MyAgent {
  description: string
}
`)
	assert.Contains(t, out, "export interface MyAgent {")
	assert.Contains(t, out, "@deprecated use agent_id")
	assert.Contains(t, out, "id?: string;")
	assert.Contains(t, out, "agent_id: string;")
	assert.Contains(t, out, "description: string;")
}

func TestEmit_ArrayUnionOptionalMapping(t *testing.T) {
	out := mustEmit(t, `
type Item { label: string }

agent A {
  items: Item[]
  tag: string | integer
  nickname: string?
}
`)
	assert.Contains(t, out, "items: Item[];")
	assert.Contains(t, out, "tag: string | number;")
	assert.Contains(t, out, "nickname: string | null;")
}

func TestEmit_WorkflowProducesInterfaceAndConstInstance(t *testing.T) {
	out := mustEmit(t, `
workflow "wf.sample" "Sample" "1.0.0" {
  node "a" trigger "Start"
  node "b" output "End"
  edge "e1" "a" -> "b" control_flow
}
`)
	assert.Contains(t, out, "export interface Workflow {")
	assert.Contains(t, out, `workflow_id: "wf.sample"`)
	assert.Contains(t, out, `"a": { id: "a", type: "trigger"`)
}

func TestEmit_PolicyProducesInterfaceAndConstInstance(t *testing.T) {
	out := mustEmit(t, "\n"+`policy "pol.ok" "OK" "1.0.0" {
  description: "a test policy"
  rego: """package p
default allow := false
allow if { true }"""
  enforce: strict deny
}
`)
	assert.Contains(t, out, "export interface Policy {")
	assert.Contains(t, out, `policy_id: "pol.ok"`)
	assert.Contains(t, out, `mode: "strict", action: "deny"`)
}
