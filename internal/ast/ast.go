// Package ast defines the typed tree the parser builds and every later
// compiler phase walks. Node kinds are modeled as a closed Go interface
// with a type switch in Visitor.Walk rather than double-dispatch visitor
// classes: the compiler itself (not a generated accept method) guarantees
// every back end handles every node kind.
package ast

import "github.com/ButlerSebastian/adl-sub000/internal/location"

// Node is implemented by every AST node; it exposes the node's source span.
type Node interface {
	Loc() location.Location
}

// Program is the root of a compiled unit.
type Program struct {
	Location     location.Location
	Imports      []*ImportStmt
	Declarations []Declaration
	Agent        *AgentDef // nil if the source declares no agent
}

func (p *Program) Loc() location.Location { return p.Location }

// Declaration is implemented by EnumDef, TypeDef, WorkflowDef, and PolicyDef.
type Declaration interface {
	Node
	DeclName() string
	isDeclaration()
}

// ImportStmt is a single `import path (as alias)?` statement.
type ImportStmt struct {
	Location location.Location
	Path     string
	Alias    string // empty if no alias given
}

func (i *ImportStmt) Loc() location.Location { return i.Location }

// EnumDef declares a closed set of string values.
type EnumDef struct {
	Location location.Location
	Name     string
	Values   []*EnumValue
}

func (e *EnumDef) Loc() location.Location { return e.Location }
func (e *EnumDef) DeclName() string       { return e.Name }
func (*EnumDef) isDeclaration()           {}

// EnumValue is one identifier inside an EnumDef.
type EnumValue struct {
	Location location.Location
	Name     string
}

func (v *EnumValue) Loc() location.Location { return v.Location }

// TypeDef declares a named record type, optionally with a body.
type TypeDef struct {
	Location location.Location
	Name     string
	Body     *TypeBody // nil for an opaque forward declaration
}

func (t *TypeDef) Loc() location.Location { return t.Location }
func (t *TypeDef) DeclName() string       { return t.Name }
func (*TypeDef) isDeclaration()           {}

// TypeBody holds the ordered fields of a TypeDef or AgentDef.
type TypeBody struct {
	Location location.Location
	Fields   []*FieldDef
}

func (b *TypeBody) Loc() location.Location { return b.Location }

// FieldDef is one `name ?: type` entry inside a TypeBody.
type FieldDef struct {
	Location location.Location
	Name     string
	Type     TypeExpr
	Optional bool
}

func (f *FieldDef) Loc() location.Location { return f.Location }

// AgentDef declares the single top-level agent record.
type AgentDef struct {
	Location location.Location
	Name     string
	Fields   []*FieldDef
}

func (a *AgentDef) Loc() location.Location { return a.Location }
func (a *AgentDef) DeclName() string       { return a.Name }
func (*AgentDef) isDeclaration()           {}

// --- TypeExpr variants ---

// TypeExpr is implemented by every type-expression node kind.
type TypeExpr interface {
	Node
	isTypeExpr()
}

// Primitive is one of the built-in scalar/structural kinds.
type Primitive struct {
	Location location.Location
	Kind     PrimitiveKind
}

func (p *Primitive) Loc() location.Location { return p.Location }
func (*Primitive) isTypeExpr()               {}

// PrimitiveKind enumerates the grammar's primitive-type keywords.
type PrimitiveKind string

const (
	PrimString  PrimitiveKind = "string"
	PrimInteger PrimitiveKind = "integer"
	PrimNumber  PrimitiveKind = "number"
	PrimBoolean PrimitiveKind = "boolean"
	PrimObject  PrimitiveKind = "object"
	PrimArray   PrimitiveKind = "array"
	PrimAny     PrimitiveKind = "any"
	PrimNull    PrimitiveKind = "null"
)

// Reference names an EnumDef, TypeDef, or primitive by identifier.
type Reference struct {
	Location location.Location
	Name     string
}

func (r *Reference) Loc() location.Location { return r.Location }
func (*Reference) isTypeExpr()               {}

// Array is `T[]`.
type Array struct {
	Location location.Location
	Element  TypeExpr
}

func (a *Array) Loc() location.Location { return a.Location }
func (*Array) isTypeExpr()               {}

// Union is `A | B | ...`; it always has at least two members (a
// single-element union collapses to that element during construction).
type Union struct {
	Location location.Location
	Members  []TypeExpr
}

func (u *Union) Loc() location.Location { return u.Location }
func (*Union) isTypeExpr()               {}

// Optional is `T?`.
type Optional struct {
	Location location.Location
	Inner    TypeExpr
}

func (o *Optional) Loc() location.Location { return o.Location }
func (*Optional) isTypeExpr()               {}

// Constrained is `T(min..max)`. Min/Max are nil when the corresponding
// bound is absent from the range suffix.
type Constrained struct {
	Location location.Location
	Base     TypeExpr
	Min      *int
	Max      *int
	// MinStr/MaxStr preserve the original textual bound when it did not
	// parse as a plain integer (e.g. a date/time literal); the validator
	// decides what to do with these based on Base's shape.
	MinStr string
	MaxStr string
}

func (c *Constrained) Loc() location.Location { return c.Location }
func (*Constrained) isTypeExpr()               {}

// --- Workflow ---

// WorkflowDef declares a node/edge graph.
type WorkflowDef struct {
	Location   location.Location
	WorkflowID string
	Name       string
	Version    string
	Nodes      map[string]*WorkflowNode
	NodeOrder  []string // preserves first-occurrence declaration order for deterministic output
	AllNodes   []*WorkflowNode // every parsed node, including duplicate ids; used by the validator's DUPLICATE_NODE_ID check
	Edges      []*WorkflowEdge
	Metadata   map[string]any
}

func (w *WorkflowDef) Loc() location.Location { return w.Location }
func (w *WorkflowDef) DeclName() string       { return w.Name }
func (*WorkflowDef) isDeclaration()           {}

// NodeKind enumerates the grammar's workflow node type keywords.
type NodeKind string

const (
	NodeTrigger     NodeKind = "trigger"
	NodeInput       NodeKind = "input"
	NodeTransform   NodeKind = "transform"
	NodeAction      NodeKind = "action"
	NodeCondition   NodeKind = "condition"
	NodeLoop        NodeKind = "loop"
	NodeOutput      NodeKind = "output"
	NodeSubWorkflow NodeKind = "sub_workflow"
	NodeAnnotation  NodeKind = "annotation"
)

// WorkflowNode is one graph vertex.
type WorkflowNode struct {
	Location location.Location
	ID       string
	Type     NodeKind
	Label    string
	Config   map[string]any
	X        float64
	Y        float64
}

func (n *WorkflowNode) Loc() location.Location { return n.Location }

// EdgeRelation enumerates the grammar's edge relation keywords.
type EdgeRelation string

const (
	RelationDataFlow      EdgeRelation = "data_flow"
	RelationControlFlow   EdgeRelation = "control_flow"
	RelationErrorFlow     EdgeRelation = "error_flow"
	RelationAILanguageMod EdgeRelation = "ai_languageModel"
	RelationAITool        EdgeRelation = "ai_tool"
	RelationDependency    EdgeRelation = "dependency"
)

// WorkflowEdge is one graph edge.
type WorkflowEdge struct {
	Location  location.Location
	EdgeID    string
	Source    string
	Target    string
	Relation  EdgeRelation
	Condition string
	Metadata  map[string]any
}

func (e *WorkflowEdge) Loc() location.Location { return e.Location }

// --- Policy ---

// EnforcementMode enumerates the accepted enforcement modes.
type EnforcementMode string

const (
	EnforcementStrict   EnforcementMode = "strict"
	EnforcementModerate EnforcementMode = "moderate"
	EnforcementLenient  EnforcementMode = "lenient"
)

// EnforcementAction enumerates the accepted enforcement actions.
type EnforcementAction string

const (
	ActionDeny  EnforcementAction = "deny"
	ActionWarn  EnforcementAction = "warn"
	ActionLog   EnforcementAction = "log"
	ActionAllow EnforcementAction = "allow"
)

// EnforcementDef describes how a PolicyDef's rego rule is enforced.
type EnforcementDef struct {
	Location  location.Location
	Mode      EnforcementMode
	Action    EnforcementAction
	AuditLog  *bool // nil when unspecified
}

func (e *EnforcementDef) Loc() location.Location { return e.Location }

// PolicyDef declares an authorization policy.
type PolicyDef struct {
	Location    location.Location
	PolicyID    string
	Name        string
	Version     string
	Description string
	Rego        string
	RegoLoc     location.Location // span of the rego string literal itself
	Enforcement *EnforcementDef
	Data        map[string]any
}

func (p *PolicyDef) Loc() location.Location { return p.Location }
func (p *PolicyDef) DeclName() string       { return p.Name }
func (*PolicyDef) isDeclaration()           {}
