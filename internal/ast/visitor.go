package ast

// Visitor accumulates state while walking a Program. Each method returns
// true to keep descending into the node's children, false to skip them.
// Walk supplies a default full traversal; accumulators embed a
// *BaseVisitor and override only the hooks they care about, avoiding a
// copy of the traversal order in every validator/formatter/emitter.
type Visitor interface {
	VisitProgram(*Program) bool
	VisitImport(*ImportStmt)
	VisitEnum(*EnumDef) bool
	VisitEnumValue(*EnumValue)
	VisitType(*TypeDef) bool
	VisitField(*FieldDef) bool
	VisitAgent(*AgentDef) bool
	VisitWorkflow(*WorkflowDef) bool
	VisitWorkflowNode(*WorkflowNode)
	VisitWorkflowEdge(*WorkflowEdge)
	VisitPolicy(*PolicyDef) bool
	VisitTypeExpr(TypeExpr) bool
}

// BaseVisitor implements Visitor with a no-op, always-descend default for
// every hook. Embed it in a concrete visitor and override selectively.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program) bool         { return true }
func (BaseVisitor) VisitImport(*ImportStmt)            {}
func (BaseVisitor) VisitEnum(*EnumDef) bool            { return true }
func (BaseVisitor) VisitEnumValue(*EnumValue)          {}
func (BaseVisitor) VisitType(*TypeDef) bool            { return true }
func (BaseVisitor) VisitField(*FieldDef) bool          { return true }
func (BaseVisitor) VisitAgent(*AgentDef) bool          { return true }
func (BaseVisitor) VisitWorkflow(*WorkflowDef) bool    { return true }
func (BaseVisitor) VisitWorkflowNode(*WorkflowNode)    {}
func (BaseVisitor) VisitWorkflowEdge(*WorkflowEdge)    {}
func (BaseVisitor) VisitPolicy(*PolicyDef) bool        { return true }
func (BaseVisitor) VisitTypeExpr(TypeExpr) bool        { return true }

// Walk performs a full, deterministic, source-order traversal of p,
// invoking v's hooks. It is the single traversal every phase (validator,
// formatter, emitters) re-uses instead of hand-rolling its own recursion.
func Walk(v Visitor, p *Program) {
	if !v.VisitProgram(p) {
		return
	}
	for _, imp := range p.Imports {
		v.VisitImport(imp)
	}
	for _, decl := range p.Declarations {
		walkDeclaration(v, decl)
	}
	if p.Agent != nil {
		walkAgent(v, p.Agent)
	}
}

func walkDeclaration(v Visitor, decl Declaration) {
	switch d := decl.(type) {
	case *EnumDef:
		walkEnum(v, d)
	case *TypeDef:
		walkType(v, d)
	case *WorkflowDef:
		walkWorkflow(v, d)
	case *PolicyDef:
		walkPolicy(v, d)
	}
}

func walkEnum(v Visitor, e *EnumDef) {
	if !v.VisitEnum(e) {
		return
	}
	for _, val := range e.Values {
		v.VisitEnumValue(val)
	}
}

func walkType(v Visitor, t *TypeDef) {
	if !v.VisitType(t) {
		return
	}
	if t.Body == nil {
		return
	}
	for _, f := range t.Body.Fields {
		walkField(v, f)
	}
}

func walkField(v Visitor, f *FieldDef) {
	if !v.VisitField(f) {
		return
	}
	WalkTypeExpr(v, f.Type)
}

func walkAgent(v Visitor, a *AgentDef) {
	if !v.VisitAgent(a) {
		return
	}
	for _, f := range a.Fields {
		walkField(v, f)
	}
}

func walkWorkflow(v Visitor, w *WorkflowDef) {
	if !v.VisitWorkflow(w) {
		return
	}
	for _, id := range w.NodeOrder {
		v.VisitWorkflowNode(w.Nodes[id])
	}
	for _, e := range w.Edges {
		v.VisitWorkflowEdge(e)
	}
}

func walkPolicy(v Visitor, p *PolicyDef) {
	v.VisitPolicy(p)
}

// WalkTypeExpr recurses into a TypeExpr's children, if any.
func WalkTypeExpr(v Visitor, t TypeExpr) {
	if !v.VisitTypeExpr(t) {
		return
	}
	switch e := t.(type) {
	case *Array:
		WalkTypeExpr(v, e.Element)
	case *Union:
		for _, m := range e.Members {
			WalkTypeExpr(v, m)
		}
	case *Optional:
		WalkTypeExpr(v, e.Inner)
	case *Constrained:
		WalkTypeExpr(v, e.Base)
	}
}
