package pyemit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/parser"
	"github.com/ButlerSebastian/adl-sub000/internal/pyemit"
)

func mustEmit(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.Parse("test.adl", []byte(src))
	require.NoError(t, err)
	return pyemit.Emit(prog, ast.NewCatalog(prog, nil, nil))
}

func TestEmit_HeaderImportsTypedDictTooling(t *testing.T) {
	out := mustEmit(t, `type Foo {}`)
	assert.Contains(t, out, "from typing import")
	assert.Contains(t, out, "TypedDict")
	assert.Contains(t, out, "NotRequired")
}

func TestEmit_EnumAsStringSubclass(t *testing.T) {
	out := mustEmit(t, `enum Status { Active, Inactive }`)
	assert.Contains(t, out, "class Status(str, Enum):")
	assert.Contains(t, out, `Active = "Active"`)
}

func TestEmit_RecordFieldsAndOptionalMarker(t *testing.T) {
	out := mustEmit(t, `
type Profile {
  name: string
  nickname?: string
}
`)
	assert.Contains(t, out, "class Profile(TypedDict):")
	assert.Contains(t, out, "name: str")
	assert.Contains(t, out, "nickname: NotRequired[str]")
}

func TestEmit_AgentGetsLegacyIDEnvelope(t *testing.T) {
	out := mustEmit(t, `
agent MyAgent {
  description: string
}
`)
	assert.Contains(t, out, "class MyAgent(TypedDict):")
	assert.Contains(t, out, "deprecated: use agent_id")
	assert.Contains(t, out, "id: NotRequired[str]")
	assert.Contains(t, out, "agent_id: str")
	assert.Contains(t, out, "description: str")
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
	assert.Contains(t, out, "items: List[Item]")
	assert.Contains(t, out, "tag: Union[str, int]")
	assert.Contains(t, out, "nickname: Optional[str]")
}

func TestEmit_WorkflowProducesTypedDictAndInstance(t *testing.T) {
	out := mustEmit(t, `
workflow "wf.sample" "Sample" "1.0.0" {
  node "a" trigger "Start"
  node "b" output "End"
  edge "e1" "a" -> "b" control_flow
}
`)
	assert.Contains(t, out, "class Workflow(TypedDict):")
	assert.Contains(t, out, `"workflow_id": "wf.sample"`)
	assert.Contains(t, out, `"a": {"id": "a", "type": "trigger"`)
}

func TestEmit_PolicyProducesTypedDictAndInstance(t *testing.T) {
	out := mustEmit(t, "\n"+`policy "pol.ok" "OK" "1.0.0" {
  description: "a test policy"
  rego: """package p
default allow := false
allow if { true }"""
  enforce: strict deny
}
`)
	assert.Contains(t, out, "class Policy(TypedDict):")
	assert.Contains(t, out, `"policy_id": "pol.ok"`)
	assert.Contains(t, out, `"mode": "strict", "action": "deny"`)
}
