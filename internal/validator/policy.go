package validator

import (
	"regexp"
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/diagnostic"
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)

var validEnforcementModes = map[ast.EnforcementMode]bool{
	ast.EnforcementStrict:   true,
	ast.EnforcementModerate: true,
	ast.EnforcementLenient:  true,
}

var validEnforcementActions = map[ast.EnforcementAction]bool{
	ast.ActionDeny:  true,
	ast.ActionWarn:  true,
	ast.ActionLog:   true,
	ast.ActionAllow: true,
}

// checkPolicy validates a PolicyDef's rego source, version, and
// enforcement fields.
func (c *checker) checkPolicy(p *ast.PolicyDef) {
	if prior, exists := c.policyIDs[p.PolicyID]; exists {
		c.diags.Add(diagnostic.New(diagnostic.CodeDuplicatePolicyID, diagnostic.CategorySemantic, p.Loc(),
			"policy id %q is already declared at %s", p.PolicyID, prior))
	} else {
		c.policyIDs[p.PolicyID] = p.Loc()
	}

	if !semverPattern.MatchString(p.Version) {
		c.diags.Add(diagnostic.New(diagnostic.CodeInvalidSemver, diagnostic.CategorySemantic, p.Loc(),
			"policy version %q does not satisfy the semver pattern N.N.N(-suffix)?", p.Version))
	}

	c.checkRego(p)

	if p.Enforcement != nil {
		if !validEnforcementModes[p.Enforcement.Mode] {
			c.diags.Add(diagnostic.New(diagnostic.CodeInvalidEnforcMode, diagnostic.CategoryValidation, p.Enforcement.Loc(),
				"enforcement mode %q is not one of strict, moderate, lenient", p.Enforcement.Mode))
		}
		if !validEnforcementActions[p.Enforcement.Action] {
			c.diags.Add(diagnostic.New(diagnostic.CodeInvalidEnforcAction, diagnostic.CategoryValidation, p.Enforcement.Loc(),
				"enforcement action %q is not one of deny, warn, log, allow", p.Enforcement.Action))
		}
	}
}

// checkRego enforces the security-default invariant: rego source must
// declare a package, at least one `allow if` rule, and a
// `default allow :=` line. The rego text is otherwise opaque to the
// compiler, checked only for these required substrings.
func (c *checker) checkRego(p *ast.PolicyDef) {
	if !strings.Contains(p.Rego, "package ") {
		c.diags.Add(diagnostic.New(diagnostic.CodeMissingDefaultAllow, diagnostic.CategorySemantic, p.RegoLoc,
			"policy %q rego source is missing a package declaration", p.PolicyID))
		return
	}
	if !strings.Contains(p.Rego, "allow if") {
		c.diags.Add(diagnostic.New(diagnostic.CodeMissingDefaultAllow, diagnostic.CategorySemantic, p.RegoLoc,
			"policy %q rego source declares no \"allow if\" rule", p.PolicyID))
		return
	}
	if !strings.Contains(p.Rego, "default allow :=") {
		c.diags.Add(diagnostic.New(diagnostic.CodeMissingDefaultAllow, diagnostic.CategorySemantic, p.RegoLoc,
			"policy %q rego source must define a default allow rule (e.g. \"default allow := false\")", p.PolicyID))
	}
}
