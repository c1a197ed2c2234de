package linter

import (
	"sort"

	"github.com/ButlerSebastian/adl-sub000/pkg/logger"
)

var lintLog = logger.New("compiler:linter")

// severityRank orders Severity for Options.MinSeverity filtering.
var severityRank = map[Severity]int{
	SeverityInfo:    0,
	SeverityWarning: 1,
	SeverityError:   2,
}

// Options controls which rules run and how their findings are filtered.
type Options struct {
	// MinSeverity drops issues below this severity. The zero value
	// (empty string) means "no filtering".
	MinSeverity Severity
	// Disable turns off rules that are on by default.
	Disable []string
	// Enable turns on rules that are off by default (e.g. legacy-id-field).
	Enable []string
}

func (o Options) ruleEnabled(rule Rule) bool {
	for _, name := range o.Disable {
		if name == rule.Name {
			return false
		}
	}
	if rule.DefaultEnabled {
		return true
	}
	for _, name := range o.Enable {
		if name == rule.Name {
			return true
		}
	}
	return false
}

func (o Options) meetsMinSeverity(sev Severity) bool {
	if o.MinSeverity == "" {
		return true
	}
	return severityRank[sev] >= severityRank[o.MinSeverity]
}

// Lint runs reg's enabled rules against src, filters results through
// Options and src's own suppression comments, and returns findings
// sorted in source order. Parsing src is best-effort: the linter falls
// back to the line-based rules alone when parsing fails.
func Lint(path string, src []byte, reg *Registry, opts Options) []Issue {
	ctx := newContext(path, src)
	suppress := parseSuppressions(ctx.Lines)

	var issues []Issue
	for _, rule := range reg.Rules() {
		if !opts.ruleEnabled(rule) {
			continue
		}
		for _, is := range rule.Check(ctx) {
			if !opts.meetsMinSeverity(is.Severity) {
				continue
			}
			if suppress.suppresses(is.Rule, is.Location.Line) {
				continue
			}
			issues = append(issues, is)
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Location.Line != issues[j].Location.Line {
			return issues[i].Location.Line < issues[j].Location.Line
		}
		return issues[i].Rule < issues[j].Rule
	})
	lintLog.Printf("linted %s: %d issues", path, len(issues))
	return issues
}

// Autofix applies every enabled, fixable rule's Fix to src and returns the
// rewritten content plus whatever issues remain after re-linting. The
// remaining issue count must be no greater than before for each fixed
// rule — Fix functions here are direct line rewrites keyed off the same
// predicate their Check uses, so this holds by construction.
func Autofix(path string, src []byte, reg *Registry, opts Options) ([]byte, []Issue) {
	before := Lint(path, src, reg, opts)

	content := string(src)
	for _, rule := range reg.Rules() {
		if rule.Fix == nil || !opts.ruleEnabled(rule) {
			continue
		}
		var ruleIssues []Issue
		for _, is := range before {
			if is.Rule == rule.Name {
				ruleIssues = append(ruleIssues, is)
			}
		}
		if len(ruleIssues) == 0 {
			continue
		}
		content = rule.Fix(content, ruleIssues)
	}

	fixed := []byte(content)
	after := Lint(path, fixed, reg, opts)
	lintLog.Printf("autofixed %s: %d -> %d issues", path, len(before), len(after))
	return fixed, after
}
