package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/diagnostic"
	"github.com/ButlerSebastian/adl-sub000/internal/parser"
	"github.com/ButlerSebastian/adl-sub000/internal/validator"
)

func mustValidate(t *testing.T, src string) diagnostic.Summary {
	t.Helper()
	prog, err := parser.Parse("test.adl", []byte(src))
	require.NoError(t, err)
	return validator.New().Validate(prog, validator.Environment{})
}

func codes(s diagnostic.Summary) []diagnostic.Code {
	var out []diagnostic.Code
	for _, list := range s.ByCategory {
		for _, d := range list {
			out = append(out, d.Code)
		}
	}
	return out
}

func TestValidate_CleanProgramHasNoDiagnostics(t *testing.T) {
	summary := mustValidate(t, `
enum Status { Active, Inactive }

type Profile {
  name: string
  status: Status
}

agent MyAgent {
  description: string(1..500)
  owner: string(1..50)
}
`)
	assert.Equal(t, 0, summary.Total)
	assert.False(t, summary.Terminated)
}

func TestValidate_DuplicateType(t *testing.T) {
	summary := mustValidate(t, `
type Foo {}
type Foo {}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeDuplicateType)
}

func TestValidate_DuplicateField(t *testing.T) {
	summary := mustValidate(t, `
type Foo {
  bar: string
  bar: integer
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeDuplicateField)
}

func TestValidate_DuplicateEnumValue(t *testing.T) {
	summary := mustValidate(t, `
enum Status { Active, Active }
`)
	assert.Contains(t, codes(summary), diagnostic.CodeDuplicateEnumValue)
}

func TestValidate_InvalidTypeReference(t *testing.T) {
	summary := mustValidate(t, `
type Foo {
  bar: Unknown
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeInvalidTypeReference)
}

func TestValidate_ValidTypeReferenceFromImportEnvironment(t *testing.T) {
	prog, err := parser.Parse("test.adl", []byte(`
type Foo {
  bar: Shared
}
`))
	require.NoError(t, err)

	sharedProg, err := parser.Parse("shared.adl", []byte(`type Shared { x: string }`))
	require.NoError(t, err)

	env := validator.Environment{Types: map[string]*ast.TypeDef{}, Enums: map[string]*ast.EnumDef{}}
	for _, decl := range sharedProg.Declarations {
		if td, ok := decl.(*ast.TypeDef); ok {
			env.Types[td.Name] = td
		}
	}

	summary := validator.New().Validate(prog, env)
	assert.NotContains(t, codes(summary), diagnostic.CodeInvalidTypeReference)
}

func TestValidate_ConstraintRangeMinGreaterThanMax(t *testing.T) {
	summary := mustValidate(t, `
type Foo {
  n: integer(10..1)
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeInvalidConstraint)
}

func TestValidate_DateTimeBoundOnStringBaseIsAccepted(t *testing.T) {
	summary := mustValidate(t, `
type Foo {
  createdAt: string("2024-01-01"..)
}
`)
	assert.NotContains(t, codes(summary), diagnostic.CodeInvalidDateTimeFormat)
	assert.NotContains(t, codes(summary), diagnostic.CodeInvalidConstraint)
}

func TestValidate_BadDateTimeBoundOnStringBase(t *testing.T) {
	summary := mustValidate(t, `
type Foo {
  createdAt: string("not-a-date-value"..)
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeInvalidDateTimeFormat)
}

func TestValidate_TextualBoundOnNonStringBaseIsTypeError(t *testing.T) {
	summary := mustValidate(t, `
type Foo {
  n: integer("5"..)
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeInvalidConstraint)
}

func TestValidate_WorkflowDuplicateNodeID(t *testing.T) {
	summary := mustValidate(t, `
workflow "wf.dup" "Dup" "1.0.0" {
  node "a" trigger "Start"
  node "a" action "Again"
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeDuplicateNodeID)
}

func TestValidate_WorkflowInvalidEdgeReference(t *testing.T) {
	summary := mustValidate(t, `
workflow "wf.edge" "Edge" "1.0.0" {
  node "a" trigger "Start"
  edge "e1" "a" -> "missing" control_flow
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeInvalidEdgeReference)
}

func TestValidate_WorkflowTriggerWithIncomingEdge(t *testing.T) {
	summary := mustValidate(t, `
workflow "wf.trig" "Trig" "1.0.0" {
  node "a" action "A"
  node "b" trigger "B"
  edge "e1" "a" -> "b" control_flow
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeTriggerHasIncoming)
}

func TestValidate_WorkflowOutputWithOutgoingEdge(t *testing.T) {
	summary := mustValidate(t, `
workflow "wf.out" "Out" "1.0.0" {
  node "a" output "A"
  node "b" action "B"
  edge "e1" "a" -> "b" control_flow
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeOutputHasOutgoing)
}

func TestValidate_WorkflowConditionNeedsTwoBranches(t *testing.T) {
	summary := mustValidate(t, `
workflow "wf.cond" "Cond" "1.0.0" {
  node "a" condition "A"
  node "b" action "B"
  edge "e1" "a" -> "b" control_flow
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeConditionNeedsBranch)
}

func TestValidate_WorkflowCycleDetected(t *testing.T) {
	summary := mustValidate(t, `
workflow "wf.cycle" "Cycle" "1.0.0" {
  node "a" input "A"
  node "b" transform "B"
  node "c" output "C"
  edge "e1" "a" -> "b" control_flow
  edge "e2" "b" -> "a" control_flow
  edge "e3" "b" -> "c" control_flow
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeCycleDetected)
}

func TestValidate_PolicyMissingDefaultAllow(t *testing.T) {
	summary := mustValidate(t, "\n"+`policy "pol.nodefault" "NoDefault" "1.0.0" {
  description: "a test policy"
  rego: """package p
allow if { true }"""
  enforce: strict deny
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeMissingDefaultAllow)
}

func TestValidate_PolicyWithDefaultAllowIsClean(t *testing.T) {
	summary := mustValidate(t, "\n"+`policy "pol.ok" "OK" "1.0.0" {
  description: "a test policy"
  rego: """package p
default allow := false
allow if { true }"""
  enforce: strict deny
}
`)
	assert.NotContains(t, codes(summary), diagnostic.CodeMissingDefaultAllow)
}

func TestValidate_PolicyInvalidSemver(t *testing.T) {
	summary := mustValidate(t, "\n"+`policy "pol.bad" "Bad" "v1" {
  description: "a test policy"
  rego: """package p
default allow := false
allow if { true }"""
  enforce: strict deny
}
`)
	assert.Contains(t, codes(summary), diagnostic.CodeInvalidSemver)
}

func TestValidate_PolicyInvalidEnforcement(t *testing.T) {
	summary := mustValidate(t, "\n"+`policy "pol.enf" "Enf" "1.0.0" {
  description: "a test policy"
  rego: """package p
default allow := false
allow if { true }"""
  enforce: bogus mode
}
`)
	gotCodes := codes(summary)
	assert.Contains(t, gotCodes, diagnostic.CodeInvalidEnforcMode)
	assert.Contains(t, gotCodes, diagnostic.CodeInvalidEnforcAction)
}

func TestValidate_MemoizationReturnsEqualSummaryForIdenticalContent(t *testing.T) {
	src := `
type Foo {
  bar: string
}
`
	v := validator.New()
	prog1, err := parser.Parse("a.adl", []byte(src))
	require.NoError(t, err)
	prog2, err := parser.Parse("b.adl", []byte(src))
	require.NoError(t, err)

	s1 := v.Validate(prog1, validator.Environment{})
	s2 := v.Validate(prog2, validator.Environment{})
	assert.Equal(t, s1.Total, s2.Total)
	assert.Equal(t, s1.Terminated, s2.Terminated)
}
