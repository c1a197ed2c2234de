// Package validator walks a parsed Program against its merged import
// Environment, emitting categorized diagnostics: name
// resolution, duplicate detection, constraint/range checking, workflow
// graph checks, and policy checks. It shares the parser's single-record
// idea by emitting diagnostic.Diagnostic rather than a family of
// validator-specific error types.
package validator

import (
	"regexp"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/diagnostic"
	"github.com/ButlerSebastian/adl-sub000/internal/location"
	"github.com/ButlerSebastian/adl-sub000/pkg/logger"
)

var validatorLog = logger.New("compiler:validator")

const (
	agentDescriptionMin, agentDescriptionMax = 1, 5000
	agentOwnerMin, agentOwnerMax             = 1, 100
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validator runs the semantic checks over a Program, memoizing results by
// content hash so re-validating a structurally identical Program is O(1)
// beyond the cache lookup.
type Validator struct {
	cache map[string]diagnostic.Summary
}

// New returns a Validator with an empty memoization cache.
func New() *Validator {
	return &Validator{cache: make(map[string]diagnostic.Summary)}
}

// Validate runs every rule over prog against env (the merged import
// environment; pass Environment{} for a Program with no imports) and
// returns a categorized Summary.
func (v *Validator) Validate(prog *ast.Program, env Environment) diagnostic.Summary {
	hash := contentHash(prog, env)
	if cached, ok := v.cache[hash]; ok {
		validatorLog.Printf("memoized summary for content hash %s", hash)
		return cached
	}

	c := &checker{
		diags:          diagnostic.NewCollector(),
		env:            env,
		localNames:     make(map[string]nameEntry),
		fieldNames:     make(map[string]location.Location),
		enumValueNames: make(map[string]location.Location),
		policyIDs:      make(map[string]location.Location),
	}
	ast.Walk(c, prog)

	summary := c.diags.Summarize()
	v.cache[hash] = summary
	validatorLog.Printf("validated program: %d diagnostics, terminated=%v", summary.Total, summary.Terminated)
	return summary
}

type declKind int

const (
	kindType declKind = iota
	kindEnum
)

type nameEntry struct {
	kind declKind
	loc  location.Location
}

// checker is the Visitor implementation that accumulates diagnostics.
type checker struct {
	ast.BaseVisitor
	diags *diagnostic.Collector
	env   Environment

	localNames map[string]nameEntry // type/enum namespace declared by this Program

	fieldNames     map[string]location.Location // reset per TypeDef/AgentDef body
	enumValueNames map[string]location.Location  // reset per EnumDef

	policyIDs map[string]location.Location
}

func (c *checker) VisitEnum(e *ast.EnumDef) bool {
	c.claimName(e.Name, kindEnum, e.Loc())
	clear(c.enumValueNames)
	return true
}

func (c *checker) VisitEnumValue(v *ast.EnumValue) {
	if prior, exists := c.enumValueNames[v.Name]; exists {
		c.diags.Add(diagnostic.New(diagnostic.CodeDuplicateEnumValue, diagnostic.CategorySemantic, v.Loc(),
			"enum value %q is already declared at %s", v.Name, prior))
		return
	}
	c.enumValueNames[v.Name] = v.Loc()

	if !identPattern.MatchString(v.Name) {
		c.diags.Add(diagnostic.New(diagnostic.CodeInvalidEnumValueName, diagnostic.CategoryValidation, v.Loc(),
			"enum value %q is not a valid identifier", v.Name))
	}
}

func (c *checker) VisitType(t *ast.TypeDef) bool {
	c.claimName(t.Name, kindType, t.Loc())
	clear(c.fieldNames)
	return true
}

func (c *checker) VisitAgent(a *ast.AgentDef) bool {
	clear(c.fieldNames)
	for _, f := range a.Fields {
		c.checkWellKnownStringBounds(f)
	}
	return true
}

func (c *checker) VisitField(f *ast.FieldDef) bool {
	if prior, exists := c.fieldNames[f.Name]; exists {
		c.diags.Add(diagnostic.New(diagnostic.CodeDuplicateField, diagnostic.CategorySemantic, f.Loc(),
			"field %q is already declared at %s", f.Name, prior))
		return true
	}
	c.fieldNames[f.Name] = f.Loc()
	return true
}

func (c *checker) VisitWorkflow(w *ast.WorkflowDef) bool {
	c.checkWorkflow(w)
	return false // workflow children are walked by checkWorkflow, not the default traversal
}

func (c *checker) VisitPolicy(p *ast.PolicyDef) bool {
	c.checkPolicy(p)
	return false
}

func (c *checker) VisitTypeExpr(t ast.TypeExpr) bool {
	switch e := t.(type) {
	case *ast.Reference:
		c.checkReference(e)
	case *ast.Constrained:
		c.checkConstrained(e)
	}
	return true
}

// claimName records decl as owning name in the local namespace, reporting
// DUPLICATE_TYPE or DUPLICATE_ENUM (matching the new declaration's own
// kind) against a prior claim of the same name, local or not.
func (c *checker) claimName(name string, kind declKind, loc location.Location) {
	prior, exists := c.localNames[name]
	if !exists {
		c.localNames[name] = nameEntry{kind: kind, loc: loc}
		return
	}
	code := diagnostic.CodeDuplicateType
	if kind == kindEnum {
		code = diagnostic.CodeDuplicateEnum
	}
	c.diags.Add(diagnostic.New(code, diagnostic.CategorySemantic, loc,
		"%q is already declared at %s", name, prior.loc))
}

// checkReference reports INVALID_TYPE_REFERENCE when ref names neither a
// local nor an imported EnumDef/TypeDef. Primitives never reach here: the
// grammar only constructs a Reference from an identifier (parsePrimary),
// never from a primitive keyword.
func (c *checker) checkReference(ref *ast.Reference) {
	if _, ok := c.localNames[ref.Name]; ok {
		return
	}
	if _, ok := c.env.Types[ref.Name]; ok {
		return
	}
	if _, ok := c.env.Enums[ref.Name]; ok {
		return
	}
	c.diags.Add(diagnostic.New(diagnostic.CodeInvalidTypeReference, diagnostic.CategorySemantic, ref.Loc(),
		"%q does not resolve to a known type or enum", ref.Name))
}

// checkConstrained validates a Constrained range suffix. Purely numeric
// bounds require min <= max. A textual bound (MinStr/MaxStr) is only
// legal when Base is (eventually) a string primitive, in which case it is
// handed to the date/time checks; a textual bound on a non-string base is
// a type error.
func (c *checker) checkConstrained(cn *ast.Constrained) {
	isStringBase := isStringPrimitive(cn.Base)

	if cn.MinStr != "" || cn.MaxStr != "" {
		if !isStringBase {
			c.diags.Add(diagnostic.New(diagnostic.CodeInvalidConstraint, diagnostic.CategoryType, cn.Loc(),
				"range bound %q is not numeric, but the constrained base is not a string", firstNonEmpty(cn.MinStr, cn.MaxStr)))
			return
		}
		if cn.MinStr != "" {
			c.checkDateTimeBound(cn.MinStr, cn.Loc())
		}
		if cn.MaxStr != "" {
			c.checkDateTimeBound(cn.MaxStr, cn.Loc())
		}
		return
	}

	if cn.Min != nil && cn.Max != nil && *cn.Min > *cn.Max {
		c.diags.Add(diagnostic.New(diagnostic.CodeInvalidConstraint, diagnostic.CategoryType, cn.Loc(),
			"constraint range has min %d greater than max %d", *cn.Min, *cn.Max))
	}
}

func isStringPrimitive(t ast.TypeExpr) bool {
	switch e := t.(type) {
	case *ast.Primitive:
		return e.Kind == ast.PrimString
	case *ast.Optional:
		return isStringPrimitive(e.Inner)
	}
	return false
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// checkWellKnownStringBounds validates that, when a reserved AgentDef
// field ("description" or "owner") is declared with a Constrained<string>,
// its declared range does not widen past the fixed bound for that field.
func (c *checker) checkWellKnownStringBounds(f *ast.FieldDef) {
	var lo, hi int
	switch f.Name {
	case "description":
		lo, hi = agentDescriptionMin, agentDescriptionMax
	case "owner":
		lo, hi = agentOwnerMin, agentOwnerMax
	default:
		return
	}

	cn := unwrapConstrained(f.Type)
	if cn == nil || !isStringPrimitive(cn.Base) {
		return
	}
	if cn.Min != nil && *cn.Min < lo {
		c.diags.Add(diagnostic.New(diagnostic.CodeStringTooShort, diagnostic.CategoryValidation, f.Loc(),
			"%s must not allow strings shorter than %d characters", f.Name, lo))
	}
	if cn.Max != nil && *cn.Max > hi {
		c.diags.Add(diagnostic.New(diagnostic.CodeStringTooLong, diagnostic.CategoryValidation, f.Loc(),
			"%s must not allow strings longer than %d characters", f.Name, hi))
	}
}

func unwrapConstrained(t ast.TypeExpr) *ast.Constrained {
	switch e := t.(type) {
	case *ast.Constrained:
		return e
	case *ast.Optional:
		return unwrapConstrained(e.Inner)
	}
	return nil
}
