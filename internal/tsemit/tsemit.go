// Package tsemit is the TypeScript emitter back end: target-A (record syntax) structured
// type declarations, currently TypeScript.
package tsemit

import (
	"fmt"
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/structemit"
	"github.com/ButlerSebastian/adl-sub000/pkg/logger"
)

var emitLog = logger.New("compiler:tsemit")

// Emit renders prog's declarations as TypeScript interface/enum
// declarations. catalog resolves references prog doesn't declare itself.
func Emit(prog *ast.Program, catalog ast.Catalog) string {
	out := structemit.Emit(prog, catalog, &renderer{})
	emitLog.Printf("emitted TypeScript declarations: %d bytes", len(out))
	return out
}

type renderer struct{}

func (renderer) Header() string {
	return "// Code generated by adlc. DO NOT EDIT."
}

func (renderer) Enum(e *ast.EnumDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "export enum %s {\n", e.Name)
	for _, v := range e.Values {
		fmt.Fprintf(&b, "  %s = %q,\n", v.Name, v.Name)
	}
	b.WriteString("}")
	return b.String()
}

func (renderer) Record(t *ast.TypeDef, catalog ast.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "export interface %s {\n", t.Name)
	if t.Body != nil {
		for _, f := range t.Body.Fields {
			writeField(&b, f)
		}
	}
	b.WriteString("}")
	return b.String()
}

// Agent emits the fixed agent envelope (legacy `id`, deprecated and not
// required, alongside the canonical `agent_id`) ahead of the source's own
// declared fields.
func (renderer) Agent(a *ast.AgentDef, catalog ast.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "export interface %s {\n", a.Name)
	b.WriteString("  /** @deprecated use agent_id */\n")
	b.WriteString("  id?: string;\n")
	b.WriteString("  agent_id: string;\n")
	b.WriteString("  name: string;\n")
	b.WriteString("  version: string;\n")
	for _, f := range a.Fields {
		writeField(&b, f)
	}
	b.WriteString("}")
	return b.String()
}

func (renderer) Workflow(w *ast.WorkflowDef) string {
	var b strings.Builder
	b.WriteString("export interface Workflow {\n")
	b.WriteString("  /** @deprecated use workflow_id */\n")
	b.WriteString("  id?: string;\n")
	b.WriteString("  workflow_id: string;\n")
	b.WriteString("  name: string;\n")
	b.WriteString("  version: string;\n")
	b.WriteString("  nodes: Record<string, WorkflowNode>;\n")
	b.WriteString("  edges: WorkflowEdge[];\n")
	b.WriteString("  metadata?: Record<string, any>;\n")
	b.WriteString("}\n\n")

	b.WriteString("export interface WorkflowNode {\n")
	b.WriteString("  id: string;\n")
	b.WriteString("  type: string;\n")
	b.WriteString("  label: string;\n")
	b.WriteString("  config: Record<string, any>;\n")
	b.WriteString("  x: number;\n")
	b.WriteString("  y: number;\n")
	b.WriteString("}\n\n")

	b.WriteString("export interface WorkflowEdge {\n")
	b.WriteString("  edge_id: string;\n")
	b.WriteString("  source: string;\n")
	b.WriteString("  target: string;\n")
	b.WriteString("  relation: string;\n")
	b.WriteString("  condition?: string;\n")
	b.WriteString("  metadata?: Record<string, any>;\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "export const %s: Workflow = {\n", tsIdent(w.Name))
	fmt.Fprintf(&b, "  workflow_id: %q,\n", w.WorkflowID)
	fmt.Fprintf(&b, "  name: %q,\n", w.Name)
	fmt.Fprintf(&b, "  version: %q,\n", w.Version)
	b.WriteString("  nodes: {\n")
	for _, id := range w.NodeOrder {
		n := w.Nodes[id]
		fmt.Fprintf(&b, "    %q: { id: %q, type: %q, label: %q, config: {}, x: %v, y: %v },\n",
			n.ID, n.ID, string(n.Type), n.Label, n.X, n.Y)
	}
	b.WriteString("  },\n")
	b.WriteString("  edges: [\n")
	for _, e := range w.Edges {
		fmt.Fprintf(&b, "    { edge_id: %q, source: %q, target: %q, relation: %q },\n",
			e.EdgeID, e.Source, e.Target, string(e.Relation))
	}
	b.WriteString("  ],\n")
	b.WriteString("};")
	return b.String()
}

func (renderer) Policy(p *ast.PolicyDef) string {
	var b strings.Builder
	b.WriteString("export interface Policy {\n")
	b.WriteString("  /** @deprecated use policy_id */\n")
	b.WriteString("  id?: string;\n")
	b.WriteString("  policy_id: string;\n")
	b.WriteString("  name: string;\n")
	b.WriteString("  version: string;\n")
	b.WriteString("  description: string;\n")
	b.WriteString("  rego: string;\n")
	b.WriteString("  enforcement: { mode: string; action: string; audit_log?: boolean };\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "export const %s: Policy = {\n", tsIdent(p.Name))
	fmt.Fprintf(&b, "  policy_id: %q,\n", p.PolicyID)
	fmt.Fprintf(&b, "  name: %q,\n", p.Name)
	fmt.Fprintf(&b, "  version: %q,\n", p.Version)
	fmt.Fprintf(&b, "  description: %q,\n", p.Description)
	fmt.Fprintf(&b, "  rego: %q,\n", p.Rego)
	b.WriteString("  enforcement: { mode: ")
	fmt.Fprintf(&b, "%q, action: %q", string(p.Enforcement.Mode), string(p.Enforcement.Action))
	if p.Enforcement.AuditLog != nil {
		fmt.Fprintf(&b, ", audit_log: %v", *p.Enforcement.AuditLog)
	}
	b.WriteString(" },\n")
	b.WriteString("};")
	return b.String()
}

func writeField(b *strings.Builder, f *ast.FieldDef) {
	marker := ""
	if f.Optional {
		marker = "?"
	}
	fmt.Fprintf(b, "  %s%s: %s;\n", f.Name, marker, typeExprTS(f.Type))
}

func typeExprTS(t ast.TypeExpr) string {
	switch v := t.(type) {
	case *ast.Primitive:
		return primitiveTS(v.Kind)
	case *ast.Reference:
		return v.Name
	case *ast.Array:
		return typeExprTS(v.Element) + "[]"
	case *ast.Union:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = typeExprTS(m)
		}
		return strings.Join(parts, " | ")
	case *ast.Optional:
		return typeExprTS(v.Inner) + " | null"
	case *ast.Constrained:
		return typeExprTS(v.Base)
	default:
		return "unknown"
	}
}

func primitiveTS(kind ast.PrimitiveKind) string {
	switch kind {
	case ast.PrimString:
		return "string"
	case ast.PrimInteger, ast.PrimNumber:
		return "number"
	case ast.PrimBoolean:
		return "boolean"
	case ast.PrimObject:
		return "Record<string, any>"
	case ast.PrimArray:
		return "any[]"
	case ast.PrimNull:
		return "null"
	default: // ast.PrimAny
		return "any"
	}
}

// tsIdent turns a free-form workflow/policy name into a valid TS
// identifier for the exported const (spaces and punctuation stripped).
func tsIdent(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || (out[0] >= '0' && out[0] <= '9') {
		out = "_" + out
	}
	return out
}
