// Package pyemit is the Python back end: target-B (typed-mapping syntax)
// structured type declarations, rendered as Python TypedDict classes.
package pyemit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/structemit"
	"github.com/ButlerSebastian/adl-sub000/pkg/logger"
)

var emitLog = logger.New("compiler:pyemit")

// Emit renders prog's declarations as Python TypedDict/Enum declarations.
// catalog resolves references prog doesn't declare itself.
func Emit(prog *ast.Program, catalog ast.Catalog) string {
	out := structemit.Emit(prog, catalog, &renderer{})
	emitLog.Printf("emitted Python declarations: %d bytes", len(out))
	return out
}

type renderer struct{}

func (renderer) Header() string {
	return "# Code generated by adlc. DO NOT EDIT.\n" +
		"from enum import Enum\n" +
		"from typing import Any, Dict, List, NotRequired, Optional, TypedDict, Union"
}

func (renderer) Enum(e *ast.EnumDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s(str, Enum):\n", e.Name)
	if len(e.Values) == 0 {
		b.WriteString("    pass")
		return b.String()
	}
	for _, v := range e.Values {
		fmt.Fprintf(&b, "    %s = %s\n", v.Name, pyStr(v.Name))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (renderer) Record(t *ast.TypeDef, catalog ast.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s(TypedDict):\n", t.Name)
	if t.Body == nil || len(t.Body.Fields) == 0 {
		b.WriteString("    pass")
		return b.String()
	}
	for _, f := range t.Body.Fields {
		writeField(&b, f)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (renderer) Agent(a *ast.AgentDef, catalog ast.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s(TypedDict):\n", a.Name)
	b.WriteString("    id: NotRequired[str]  # deprecated: use agent_id\n")
	b.WriteString("    agent_id: str\n")
	b.WriteString("    name: str\n")
	b.WriteString("    version: str\n")
	for _, f := range a.Fields {
		writeField(&b, f)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (renderer) Workflow(w *ast.WorkflowDef) string {
	var b strings.Builder
	b.WriteString("class WorkflowNode(TypedDict):\n")
	b.WriteString("    id: str\n")
	b.WriteString("    type: str\n")
	b.WriteString("    label: str\n")
	b.WriteString("    config: Dict[str, Any]\n")
	b.WriteString("    x: float\n")
	b.WriteString("    y: float\n\n\n")

	b.WriteString("class WorkflowEdge(TypedDict):\n")
	b.WriteString("    edge_id: str\n")
	b.WriteString("    source: str\n")
	b.WriteString("    target: str\n")
	b.WriteString("    relation: str\n")
	b.WriteString("    condition: NotRequired[str]\n")
	b.WriteString("    metadata: NotRequired[Dict[str, Any]]\n\n\n")

	b.WriteString("class Workflow(TypedDict):\n")
	b.WriteString("    id: NotRequired[str]  # deprecated: use workflow_id\n")
	b.WriteString("    workflow_id: str\n")
	b.WriteString("    name: str\n")
	b.WriteString("    version: str\n")
	b.WriteString("    nodes: Dict[str, WorkflowNode]\n")
	b.WriteString("    edges: List[WorkflowEdge]\n")
	b.WriteString("    metadata: NotRequired[Dict[str, Any]]\n\n\n")

	fmt.Fprintf(&b, "%s: Workflow = {\n", pyIdent(w.Name))
	fmt.Fprintf(&b, "    \"workflow_id\": %s,\n", pyStr(w.WorkflowID))
	fmt.Fprintf(&b, "    \"name\": %s,\n", pyStr(w.Name))
	fmt.Fprintf(&b, "    \"version\": %s,\n", pyStr(w.Version))
	b.WriteString("    \"nodes\": {\n")
	for _, id := range w.NodeOrder {
		n := w.Nodes[id]
		fmt.Fprintf(&b, "        %s: {\"id\": %s, \"type\": %s, \"label\": %s, \"config\": {}, \"x\": %s, \"y\": %s},\n",
			pyStr(n.ID), pyStr(n.ID), pyStr(string(n.Type)), pyStr(n.Label),
			strconv.FormatFloat(n.X, 'g', -1, 64), strconv.FormatFloat(n.Y, 'g', -1, 64))
	}
	b.WriteString("    },\n")
	b.WriteString("    \"edges\": [\n")
	for _, e := range w.Edges {
		fmt.Fprintf(&b, "        {\"edge_id\": %s, \"source\": %s, \"target\": %s, \"relation\": %s},\n",
			pyStr(e.EdgeID), pyStr(e.Source), pyStr(e.Target), pyStr(string(e.Relation)))
	}
	b.WriteString("    ],\n")
	b.WriteString("}")
	return b.String()
}

func (renderer) Policy(p *ast.PolicyDef) string {
	var b strings.Builder
	b.WriteString("class Enforcement(TypedDict):\n")
	b.WriteString("    mode: str\n")
	b.WriteString("    action: str\n")
	b.WriteString("    audit_log: NotRequired[bool]\n\n\n")

	b.WriteString("class Policy(TypedDict):\n")
	b.WriteString("    id: NotRequired[str]  # deprecated: use policy_id\n")
	b.WriteString("    policy_id: str\n")
	b.WriteString("    name: str\n")
	b.WriteString("    version: str\n")
	b.WriteString("    description: str\n")
	b.WriteString("    rego: str\n")
	b.WriteString("    enforcement: Enforcement\n\n\n")

	fmt.Fprintf(&b, "%s: Policy = {\n", pyIdent(p.Name))
	fmt.Fprintf(&b, "    \"policy_id\": %s,\n", pyStr(p.PolicyID))
	fmt.Fprintf(&b, "    \"name\": %s,\n", pyStr(p.Name))
	fmt.Fprintf(&b, "    \"version\": %s,\n", pyStr(p.Version))
	fmt.Fprintf(&b, "    \"description\": %s,\n", pyStr(p.Description))
	fmt.Fprintf(&b, "    \"rego\": %s,\n", pyStr(p.Rego))
	enforcement := fmt.Sprintf("{\"mode\": %s, \"action\": %s", pyStr(string(p.Enforcement.Mode)), pyStr(string(p.Enforcement.Action)))
	if p.Enforcement.AuditLog != nil {
		enforcement += fmt.Sprintf(", \"audit_log\": %s", pyBool(*p.Enforcement.AuditLog))
	}
	enforcement += "}"
	fmt.Fprintf(&b, "    \"enforcement\": %s,\n", enforcement)
	b.WriteString("}")
	return b.String()
}

func writeField(b *strings.Builder, f *ast.FieldDef) {
	typ := typeExprPy(f.Type)
	if f.Optional {
		typ = "NotRequired[" + typ + "]"
	}
	fmt.Fprintf(b, "    %s: %s\n", f.Name, typ)
}

func typeExprPy(t ast.TypeExpr) string {
	switch v := t.(type) {
	case *ast.Primitive:
		return primitivePy(v.Kind)
	case *ast.Reference:
		return v.Name
	case *ast.Array:
		return "List[" + typeExprPy(v.Element) + "]"
	case *ast.Union:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = typeExprPy(m)
		}
		return "Union[" + strings.Join(parts, ", ") + "]"
	case *ast.Optional:
		return "Optional[" + typeExprPy(v.Inner) + "]"
	case *ast.Constrained:
		return typeExprPy(v.Base)
	default:
		return "Any"
	}
}

func primitivePy(kind ast.PrimitiveKind) string {
	switch kind {
	case ast.PrimString:
		return "str"
	case ast.PrimInteger:
		return "int"
	case ast.PrimNumber:
		return "float"
	case ast.PrimBoolean:
		return "bool"
	case ast.PrimObject:
		return "Dict[str, Any]"
	case ast.PrimArray:
		return "List[Any]"
	case ast.PrimNull:
		return "None"
	default: // ast.PrimAny
		return "Any"
	}
}

func pyStr(s string) string {
	return strconv.Quote(s)
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// pyIdent turns a free-form workflow/policy name into a valid Python
// module-level identifier for the emitted instance dict.
func pyIdent(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.ToLower(b.String())
	if out == "" || (out[0] >= '0' && out[0] <= '9') {
		out = "_" + out
	}
	return out
}
