package validator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
)

// contentHash hashes the structural content of prog together with the
// merged import env, deliberately ignoring source locations so a purely
// cosmetic edit (reformatting, comment changes) does not invalidate the
// validator's memoization cache. "Structural" means every field that
// feeds a validation rule: declaration/field/enum-value names, field
// types (including constraint bounds), workflow node/edge shape, and
// policy rego/version/enforcement text — two programs that differ in any
// of these must never collide on the same hash.
func contentHash(prog *ast.Program, env Environment) string {
	var b strings.Builder
	h := &nameCollector{out: &b}
	ast.Walk(h, prog)
	writeEnvironment(&b, env)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// writeEnvironment folds the merged import environment into the hash in a
// deterministic (sorted) order, since map iteration order is not stable.
func writeEnvironment(b *strings.Builder, env Environment) {
	names := make([]string, 0, len(env.Types))
	for name := range env.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := env.Types[name]
		b.WriteString("env-type:" + name + "\n")
		if t.Body != nil {
			for _, f := range t.Body.Fields {
				writeField(b, f)
			}
		}
	}

	names = names[:0]
	for name := range env.Enums {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e := env.Enums[name]
		b.WriteString("env-enum:" + name + "\n")
		for _, v := range e.Values {
			b.WriteString("env-enumvalue:" + v.Name + "\n")
		}
	}
}

type nameCollector struct {
	ast.BaseVisitor
	out *strings.Builder
}

func (h *nameCollector) write(s string) {
	h.out.WriteString(s)
	h.out.WriteByte('\n')
}

func (h *nameCollector) VisitEnum(e *ast.EnumDef) bool   { h.write("enum:" + e.Name); return true }
func (h *nameCollector) VisitEnumValue(v *ast.EnumValue) { h.write("enumvalue:" + v.Name) }
func (h *nameCollector) VisitType(t *ast.TypeDef) bool {
	h.write("type:" + t.Name)
	if t.Body != nil {
		for _, f := range t.Body.Fields {
			writeField(h.out, f)
		}
	}
	return false
}
func (h *nameCollector) VisitField(f *ast.FieldDef) bool { writeField(h.out, f); return false }
func (h *nameCollector) VisitAgent(a *ast.AgentDef) bool {
	h.write("agent:" + a.Name)
	for _, f := range a.Fields {
		writeField(h.out, f)
	}
	return false
}
func (h *nameCollector) VisitWorkflow(w *ast.WorkflowDef) bool {
	h.write("workflow:" + w.Name)
	h.write("workflow-id:" + w.WorkflowID)
	h.write("workflow-version:" + w.Version)
	for _, n := range w.AllNodes {
		h.write(fmt.Sprintf("node:%s:%s", n.ID, n.Type))
	}
	for _, e := range w.Edges {
		h.write(fmt.Sprintf("edge:%s:%s->%s:%s", e.EdgeID, e.Source, e.Target, e.Relation))
	}
	return false
}
func (h *nameCollector) VisitPolicy(p *ast.PolicyDef) bool {
	h.write("policy:" + p.Name)
	h.write("policy-id:" + p.PolicyID)
	h.write("policy-version:" + p.Version)
	h.write("policy-rego:" + p.Rego)
	if p.Enforcement != nil {
		h.write(fmt.Sprintf("policy-enforcement:%s:%s", p.Enforcement.Mode, p.Enforcement.Action))
	}
	return false
}

func writeField(b *strings.Builder, f *ast.FieldDef) {
	b.WriteString(fmt.Sprintf("field:%s:%v:%s\n", f.Name, f.Optional, typeExprString(f.Type)))
}

// typeExprString renders a TypeExpr into a stable textual form that
// distinguishes every shape the validator's rules branch on: primitive
// kind, reference target, array element, union members, optionality, and
// constraint bounds (numeric or literal string).
func typeExprString(t ast.TypeExpr) string {
	switch v := t.(type) {
	case nil:
		return "<nil>"
	case *ast.Primitive:
		return "prim:" + string(v.Kind)
	case *ast.Reference:
		return "ref:" + v.Name
	case *ast.Array:
		return "array:" + typeExprString(v.Element)
	case *ast.Union:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = typeExprString(m)
		}
		return "union:[" + strings.Join(parts, "|") + "]"
	case *ast.Optional:
		return "optional:" + typeExprString(v.Inner)
	case *ast.Constrained:
		min, max := "", ""
		if v.Min != nil {
			min = fmt.Sprintf("%d", *v.Min)
		}
		if v.Max != nil {
			max = fmt.Sprintf("%d", *v.Max)
		}
		return fmt.Sprintf("constrained:%s(%s..%s|%s..%s)", typeExprString(v.Base), min, max, v.MinStr, v.MaxStr)
	default:
		return fmt.Sprintf("unknown:%T", t)
	}
}
