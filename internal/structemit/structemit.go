// Package structemit holds the one AST traversal that both the TypeScript
// and Python typed-dict back ends drive: the two emitters share a single
// visitor that walks the AST. Each back end supplies a Renderer that turns
// one declaration into target-syntax text; this package owns declaration
// order and file assembly only.
package structemit

import (
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
)

// Renderer renders a single top-level declaration kind into target-syntax
// source text. internal/tsemit and internal/pyemit each implement this.
type Renderer interface {
	Header() string
	Enum(e *ast.EnumDef) string
	Record(t *ast.TypeDef, catalog ast.Catalog) string
	Agent(a *ast.AgentDef, catalog ast.Catalog) string
	Workflow(w *ast.WorkflowDef) string
	Policy(p *ast.PolicyDef) string
}

// Emit walks prog's declarations in source order, rendering each with r,
// and joins the results into one file. catalog resolves type/enum
// references that originate outside prog itself (its imports).
func Emit(prog *ast.Program, catalog ast.Catalog, r Renderer) string {
	c := &collector{render: r, catalog: catalog}
	ast.Walk(c, prog)

	var buf strings.Builder
	if h := r.Header(); h != "" {
		buf.WriteString(h)
		buf.WriteString("\n\n")
	}
	for i, block := range c.blocks {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(block)
		buf.WriteString("\n")
	}
	return buf.String()
}

// collector walks only the top-level declaration shapes; each Renderer
// method is responsible for recursing into its own fields/types, since
// field-type rendering is entirely target-syntax-specific.
type collector struct {
	ast.BaseVisitor
	render  Renderer
	catalog ast.Catalog
	blocks  []string
}

func (c *collector) VisitEnum(e *ast.EnumDef) bool {
	c.blocks = append(c.blocks, c.render.Enum(e))
	return false
}

func (c *collector) VisitType(t *ast.TypeDef) bool {
	c.blocks = append(c.blocks, c.render.Record(t, c.catalog))
	return false
}

func (c *collector) VisitAgent(a *ast.AgentDef) bool {
	c.blocks = append(c.blocks, c.render.Agent(a, c.catalog))
	return false
}

func (c *collector) VisitWorkflow(w *ast.WorkflowDef) bool {
	c.blocks = append(c.blocks, c.render.Workflow(w))
	return false
}

func (c *collector) VisitPolicy(p *ast.PolicyDef) bool {
	c.blocks = append(c.blocks, c.render.Policy(p))
	return false
}
