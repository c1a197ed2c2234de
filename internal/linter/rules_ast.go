package linter

import (
	"github.com/ButlerSebastian/adl-sub000/internal/ast"
)

// duplicateFieldRule re-surfaces the validator's DUPLICATE_FIELD check as
// a lint finding, so editors that only run the linter (never the full
// validate pipeline) still catch it. It's a no-op in fallback mode: a
// Program that fails to parse has no fields to inspect.
var duplicateFieldRule = Rule{
	Name:           "duplicate-field",
	Description:    "a type, agent, or record body must not declare the same field twice",
	Severity:       SeverityError,
	DefaultEnabled: true,
	Check: func(ctx *Context) []Issue {
		if ctx.Prog == nil {
			return nil
		}
		var issues []Issue
		check := func(kind, name string, fields []*ast.FieldDef) {
			seen := make(map[string]bool)
			for _, f := range fields {
				if seen[f.Name] {
					issues = append(issues, issueAt(duplicateFieldRule.Name, SeverityError, ctx.Path, f.Loc().Line,
						"%s %q declares field %q more than once", kind, name, f.Name))
					continue
				}
				seen[f.Name] = true
			}
		}
		for _, decl := range ctx.Prog.Declarations {
			if t, ok := decl.(*ast.TypeDef); ok && t.Body != nil {
				check("type", t.Name, t.Body.Fields)
			}
		}
		if ctx.Prog.Agent != nil {
			check("agent", ctx.Prog.Agent.Name, ctx.Prog.Agent.Fields)
		}
		return issues
	},
}

// requiredAgentFields are the envelope fields every agent is expected to
// declare (the validator itself range-checks them when present: see
// internal/validator's agentDescriptionMin/agentOwnerMin constants).
var requiredAgentFields = []string{"description", "owner"}

// missingRequiredFieldsRule flags an agent declaration missing one of the
// fields the rest of the pipeline expects it to carry.
var missingRequiredFieldsRule = Rule{
	Name:           "missing-required-fields",
	Description:    "the agent declaration should carry description and owner fields",
	Severity:       SeverityWarning,
	DefaultEnabled: true,
	Check: func(ctx *Context) []Issue {
		if ctx.Prog == nil || ctx.Prog.Agent == nil {
			return nil
		}
		present := make(map[string]bool)
		for _, f := range ctx.Prog.Agent.Fields {
			present[f.Name] = true
		}
		var issues []Issue
		for _, name := range requiredAgentFields {
			if !present[name] {
				issues = append(issues, issueAt(missingRequiredFieldsRule.Name, SeverityWarning, ctx.Path,
					ctx.Prog.Agent.Loc().Line, "agent %q is missing required field %q", ctx.Prog.Agent.Name, name))
			}
		}
		return issues
	},
}

// legacyIDFieldRule flags a plain `id` field kept alongside (or instead
// of) the canonical `<entity>_id` fields. It is an optional, off-by-
// default, info-level lint rather than a validator warning, since some
// integrations genuinely need the bare alias.
var legacyIDFieldRule = Rule{
	Name:           "legacy-id-field",
	Description:    "a bare id field is a deprecated alias; prefer the entity-qualified _id field",
	Severity:       SeverityInfo,
	DefaultEnabled: false,
	Check: func(ctx *Context) []Issue {
		if ctx.Prog == nil {
			return nil
		}
		var issues []Issue
		scan := func(kind, name string, fields []*ast.FieldDef) {
			for _, f := range fields {
				if f.Name == "id" {
					issues = append(issues, issueAt(legacyIDFieldRule.Name, SeverityInfo, ctx.Path, f.Loc().Line,
						"%s %q declares a legacy id field", kind, name))
				}
			}
		}
		for _, decl := range ctx.Prog.Declarations {
			if t, ok := decl.(*ast.TypeDef); ok && t.Body != nil {
				scan("type", t.Name, t.Body.Fields)
			}
		}
		if ctx.Prog.Agent != nil {
			scan("agent", ctx.Prog.Agent.Name, ctx.Prog.Agent.Fields)
		}
		return issues
	},
}
