package formatter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ButlerSebastian/adl-sub000/internal/formatter"
)

func TestFormat_EnumCompactsOntoOneLineWhenShort(t *testing.T) {
	out, err := formatter.Format([]byte(`enum Status {Active,Inactive}`), formatter.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, string(out), "enum Status { Active, Inactive }")
}

func TestFormat_RecordFieldsOnePerLine(t *testing.T) {
	out, err := formatter.Format([]byte(`type Profile { name: string status?: Status }`), formatter.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, string(out), "type Profile {\n  name: string\n  status?: Status\n}")
}

func TestFormat_SortsImportsAbsoluteBeforeRelative(t *testing.T) {
	out, err := formatter.Format([]byte(`
import ./local
import shared/types

type Foo {}
`), formatter.DefaultOptions())
	require.NoError(t, err)
	s := string(out)
	absIdx := indexOf(s, "import shared/types")
	relIdx := indexOf(s, "import ./local")
	assert.True(t, absIdx >= 0 && relIdx >= 0 && absIdx < relIdx)
}

func TestFormat_BlankLineBetweenDeclarations(t *testing.T) {
	out, err := formatter.Format([]byte(`
enum Status { Active, Inactive }
type Foo { status: Status }
`), formatter.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, string(out), "}\n\ntype Foo")
}

func TestFormat_PreservesLeadingComment(t *testing.T) {
	out, err := formatter.Format([]byte(`
# a profile shape
type Profile { name: string }
`), formatter.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, string(out), "# a profile shape\ntype Profile")
}

func TestFormat_IsIdempotent(t *testing.T) {
	src := []byte(`
import shared/types

enum Status { Active, Inactive }

type Profile {
  name: string
  status?: Status
}

agent A {
  description: string(1..500)
}
`)
	out1, err := formatter.Format(src, formatter.DefaultOptions())
	require.NoError(t, err)
	out2, err := formatter.Format(out1, formatter.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, string(out1), string(out2))
}

func TestFormat_WorkflowAndPolicyRoundTripThroughParser(t *testing.T) {
	src := []byte(`
workflow "wf.sample" "Sample" "1.0.0" {
  node "a" trigger "Start"
  node "b" output "End"
  edge "e1" "a" -> "b" control_flow
}
`)
	out, err := formatter.Format(src, formatter.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, string(out), `workflow "wf.sample" "Sample" "1.0.0" {`)
	assert.Contains(t, string(out), `node "a" trigger "Start"`)
	assert.Contains(t, string(out), `edge "e1" "a" -> "b" control_flow`)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
