// Package formatter is an AST-driven pretty-printer that reconstructs ADL
// source from a parsed Program, emitting by reconstruction rather than by
// patching the original text in place.
package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/parser"
	"github.com/ButlerSebastian/adl-sub000/pkg/logger"
)

var formatLog = logger.New("compiler:formatter")

// Format parses src and re-emits it in the formatter's canonical style.
// Re-formatting the result is a fixed point (idempotence).
func Format(src []byte, opts Options) ([]byte, error) {
	prog, err := parser.Parse("<format>", src)
	if err != nil {
		return nil, err
	}

	var comments map[int]string
	if opts.PreserveComments {
		comments, err = collectLeadingComments(src)
		if err != nil {
			return nil, err
		}
	}

	f := &renderer{opts: opts, comments: comments}
	out := f.program(prog)
	formatLog.Printf("formatted %d bytes -> %d bytes", len(src), len(out))
	return []byte(out), nil
}

type renderer struct {
	opts     Options
	comments map[int]string
}

// leadingComment returns the own-line comment immediately preceding loc,
// if any, formatted ready to prepend to the block starting at loc.
func (r *renderer) leadingComment(line int) string {
	if r.comments == nil {
		return ""
	}
	if text, ok := r.comments[line-1]; ok {
		return text + "\n"
	}
	return ""
}

func (r *renderer) program(p *ast.Program) string {
	var b strings.Builder

	imports := append([]*ast.ImportStmt{}, p.Imports...)
	if r.opts.SortImports {
		sort.SliceStable(imports, func(i, j int) bool {
			ai, aj := isRelativeImport(imports[i].Path), isRelativeImport(imports[j].Path)
			if ai != aj {
				return !ai // absolute (false) sorts before relative (true)
			}
			return imports[i].Path < imports[j].Path
		})
	}
	for _, imp := range imports {
		b.WriteString(r.importStmt(imp))
		b.WriteString("\n")
	}
	if len(imports) > 0 {
		b.WriteString("\n")
	}

	var blocks []string
	for _, decl := range p.Declarations {
		blocks = append(blocks, r.declaration(decl))
	}
	if p.Agent != nil {
		blocks = append(blocks, r.leadingComment(p.Agent.Loc().Line)+r.agent(p.Agent))
	}

	sep := "\n"
	if r.opts.NewlineAfterDeclaration {
		sep = "\n\n"
	}
	b.WriteString(strings.Join(blocks, sep))
	if len(blocks) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func isRelativeImport(path string) bool {
	return strings.HasPrefix(path, ".")
}

func (r *renderer) importStmt(imp *ast.ImportStmt) string {
	out := "import " + imp.Path
	if imp.Alias != "" {
		out += " as " + imp.Alias
	}
	return out
}

func (r *renderer) declaration(decl ast.Declaration) string {
	lead := r.leadingComment(decl.Loc().Line)
	switch d := decl.(type) {
	case *ast.EnumDef:
		return lead + r.enum(d)
	case *ast.TypeDef:
		return lead + r.typeDef(d)
	case *ast.WorkflowDef:
		return lead + r.workflow(d)
	case *ast.PolicyDef:
		return lead + r.policy(d)
	default:
		return lead
	}
}

func (r *renderer) enum(e *ast.EnumDef) string {
	values := make([]string, len(e.Values))
	for i, v := range e.Values {
		values[i] = v.Name
	}
	return renderBraceList("enum "+e.Name, values, r.opts, 0)
}

func (r *renderer) typeDef(t *ast.TypeDef) string {
	if t.Body == nil {
		return "type " + t.Name
	}
	return r.recordBlock("type "+t.Name, t.Body.Fields)
}

func (r *renderer) agent(a *ast.AgentDef) string {
	return r.recordBlock("agent "+a.Name, a.Fields)
}

func (r *renderer) recordBlock(header string, fields []*ast.FieldDef) string {
	if len(fields) == 0 {
		return header + " {}"
	}
	var b strings.Builder
	b.WriteString(header)
	b.WriteString(" {\n")
	for _, f := range fields {
		b.WriteString(r.opts.indent(1))
		b.WriteString(fieldSource(f))
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func (r *renderer) workflow(w *ast.WorkflowDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "workflow %s %s %s {\n", strconv.Quote(w.WorkflowID), strconv.Quote(w.Name), strconv.Quote(w.Version))
	for _, id := range w.NodeOrder {
		n := w.Nodes[id]
		b.WriteString(r.opts.indent(1))
		fmt.Fprintf(&b, "node %s %s %s", strconv.Quote(n.ID), string(n.Type), strconv.Quote(n.Label))
		if n.X != 0 || n.Y != 0 {
			fmt.Fprintf(&b, " at (%s, %s)", formatFloat(n.X), formatFloat(n.Y))
		}
		b.WriteString("\n")
	}
	for _, e := range w.Edges {
		b.WriteString(r.opts.indent(1))
		fmt.Fprintf(&b, "edge %s %s -> %s %s", strconv.Quote(e.EdgeID), strconv.Quote(e.Source), strconv.Quote(e.Target), string(e.Relation))
		if e.Condition != "" {
			fmt.Fprintf(&b, " when %s", strconv.Quote(e.Condition))
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (r *renderer) policy(p *ast.PolicyDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "policy %s %s %s {\n", strconv.Quote(p.PolicyID), strconv.Quote(p.Name), strconv.Quote(p.Version))
	fmt.Fprintf(&b, "%sdescription: %s\n", r.opts.indent(1), strconv.Quote(p.Description))
	fmt.Fprintf(&b, "%srego: \"\"\"%s\"\"\"\n", r.opts.indent(1), p.Rego)
	fmt.Fprintf(&b, "%senforce: %s %s", r.opts.indent(1), string(p.Enforcement.Mode), string(p.Enforcement.Action))
	if p.Enforcement.AuditLog != nil {
		fmt.Fprintf(&b, " audit_log=%v", *p.Enforcement.AuditLog)
	}
	b.WriteString("\n}")
	return b.String()
}
