package linter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/location"
)

var (
	pascalCasePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	snakeCasePattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	lowerCasePattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

	inlineFieldPattern = regexp.MustCompile(`(?:^|[\s{])([A-Za-z_][A-Za-z0-9_]*)\??\s*:`)
)

func issueAt(rule string, sev Severity, path string, line int, format string, args ...any) Issue {
	return Issue{
		Rule:     rule,
		Severity: sev,
		Location: location.Point(path, line, 1),
		Message:  fmt.Sprintf(format, args...),
	}
}

// namingPascalCaseRule flags type/enum/agent names that aren't PascalCase.
var namingPascalCaseRule = Rule{
	Name:           "naming-pascal-case",
	Description:    "type, enum, and agent names must be PascalCase",
	Severity:       SeverityWarning,
	DefaultEnabled: true,
	Check: func(ctx *Context) []Issue {
		var issues []Issue
		for _, b := range scanBlocks(ctx.Lines) {
			if !pascalCasePattern.MatchString(b.name) {
				issues = append(issues, issueAt(namingPascalCaseRule.Name, SeverityWarning, ctx.Path, b.start,
					"%s %q should be PascalCase", b.kind, b.name))
			}
		}
		return issues
	},
}

// namingSnakeCaseRule flags field names that aren't snake_case.
var namingSnakeCaseRule = Rule{
	Name:           "naming-snake-case",
	Description:    "field names must be snake_case",
	Severity:       SeverityWarning,
	DefaultEnabled: true,
	Check: func(ctx *Context) []Issue {
		var issues []Issue
		for _, b := range scanBlocks(ctx.Lines) {
			if b.kind != "type" && b.kind != "agent" {
				continue
			}
			if b.start == b.end {
				// The whole body sits on the header line: scan its interior.
				for _, m := range inlineFieldPattern.FindAllStringSubmatch(b.interior(ctx.Lines), -1) {
					if !snakeCasePattern.MatchString(m[1]) {
						issues = append(issues, issueAt(namingSnakeCaseRule.Name, SeverityWarning, ctx.Path, b.start,
							"field %q should be snake_case", m[1]))
					}
				}
				continue
			}
			for i := b.start; i <= b.end && i <= len(ctx.Lines); i++ {
				if i == b.start || i == b.end {
					continue
				}
				m := fieldLinePattern.FindStringSubmatch(ctx.Lines[i-1])
				if m == nil {
					continue
				}
				if !snakeCasePattern.MatchString(m[1]) {
					issues = append(issues, issueAt(namingSnakeCaseRule.Name, SeverityWarning, ctx.Path, i,
						"field %q should be snake_case", m[1]))
				}
			}
		}
		return issues
	},
}

// enumValueLowercaseRule flags enum values that aren't lowercase.
var enumValueLowercaseRule = Rule{
	Name:           "enum-value-lowercase",
	Description:    "enum values should be lowercase",
	Severity:       SeverityInfo,
	DefaultEnabled: true,
	Check: func(ctx *Context) []Issue {
		var issues []Issue
		for _, b := range scanBlocks(ctx.Lines) {
			if b.kind != "enum" {
				continue
			}
			for _, name := range b.enumValueNames(ctx.Lines) {
				if !lowerCasePattern.MatchString(name) {
					issues = append(issues, issueAt(enumValueLowercaseRule.Name, SeverityInfo, ctx.Path, b.start,
						"enum value %q should be lowercase", name))
				}
			}
		}
		return issues
	},
}

var descriptionFieldPattern = regexp.MustCompile(`(?m)^\s*description\??\s*:`)

// missingDescriptionRule flags type/agent blocks with no description field.
var missingDescriptionRule = Rule{
	Name:           "missing-description",
	Description:    "type and agent declarations should document themselves with a description field",
	Severity:       SeverityInfo,
	DefaultEnabled: true,
	Check: func(ctx *Context) []Issue {
		var issues []Issue
		for _, b := range scanBlocks(ctx.Lines) {
			if b.kind != "type" && b.kind != "agent" {
				continue
			}
			if !descriptionFieldPattern.MatchString(b.interior(ctx.Lines)) {
				issues = append(issues, issueAt(missingDescriptionRule.Name, SeverityInfo, ctx.Path, b.start,
					"%s %q has no description field", b.kind, b.name))
			}
		}
		return issues
	},
}

var importLinePattern = regexp.MustCompile(`^\s*import\s+(\S+)(?:\s+as\s+(\S+))?`)

// importOrderRule flags import statements out of alphabetical order,
// absolute paths sorted ahead of relative ones (matching the formatter's
// own canonical ordering, internal/formatter.isRelativeImport).
var importOrderRule = Rule{
	Name:           "import-order",
	Description:    "imports must be sorted, absolute paths before relative ones",
	Severity:       SeverityWarning,
	DefaultEnabled: true,
	Check: func(ctx *Context) []Issue {
		var issues []Issue
		var prevPath string
		var prevLine int
		havePrev := false
		for i, ln := range ctx.Lines {
			m := importLinePattern.FindStringSubmatch(ln)
			if m == nil {
				continue
			}
			path := m[1]
			if havePrev && importSortKey(path) < importSortKey(prevPath) {
				issues = append(issues, issueAt(importOrderRule.Name, SeverityWarning, ctx.Path, i+1,
					"import %q should come before %q (line %d)", path, prevPath, prevLine))
			}
			prevPath, prevLine, havePrev = path, i+1, true
		}
		return issues
	},
}

func importSortKey(path string) string {
	if strings.HasPrefix(path, ".") {
		return "1" + path
	}
	return "0" + path
}

// unusedImportRule flags imports whose alias (or last path segment) never
// appears as an identifier anywhere else in the file. A best-effort,
// line-based check: it has no access to the import's actual exported
// names, only the textual hint a path or alias provides.
var unusedImportRule = Rule{
	Name:           "unused-import",
	Description:    "imported paths should be referenced somewhere in the file",
	Severity:       SeverityWarning,
	DefaultEnabled: true,
	Check: func(ctx *Context) []Issue {
		var issues []Issue
		for i, ln := range ctx.Lines {
			m := importLinePattern.FindStringSubmatch(ln)
			if m == nil {
				continue
			}
			ident := m[2]
			if ident == "" {
				segs := strings.Split(m[1], "/")
				ident = segs[len(segs)-1]
			}
			if ident == "" || !identUsedElsewhere(ctx.Lines, i, ident) {
				issues = append(issues, issueAt(unusedImportRule.Name, SeverityWarning, ctx.Path, i+1,
					"import %q appears unused", m[1]))
			}
		}
		return issues
	},
}

func identUsedElsewhere(lines []string, importLine int, ident string) bool {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(ident) + `\b`)
	for i, ln := range lines {
		if i == importLine {
			continue
		}
		if importLinePattern.MatchString(ln) {
			continue
		}
		if pattern.MatchString(ln) {
			return true
		}
	}
	return false
}
