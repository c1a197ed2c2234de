// Package linter is a style checker over both the parsed Program and the
// raw source text, composed of small, independently testable rule
// functions rather than a single monolithic pass.
package linter

import "github.com/ButlerSebastian/adl-sub000/internal/location"

// Severity ranks an Issue independently of the validator's Category/Code
// taxonomy (internal/diagnostic) — lint issues are about style, not
// program correctness, so they get their own three-level scale.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one finding reported by a Rule at a specific location.
type Issue struct {
	Rule     string
	Severity Severity
	Location location.Location
	Message  string
}

// Fix rewrites content to resolve the issues a Rule reported against it.
// Re-linting the result must report strictly fewer issues for that rule.
type Fix func(content string, issues []Issue) string

// Rule is one independently pluggable lint check. Check may inspect ctx's
// raw lines, its parsed Program (nil when parsing failed — linter falls back
// to line-based rules only in that case), or both.
type Rule struct {
	Name           string
	Description    string
	Severity       Severity
	DefaultEnabled bool
	Check          func(ctx *Context) []Issue
	Fix            Fix
}
