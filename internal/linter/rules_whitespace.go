package linter

import (
	"regexp"
	"strings"
)

var trailingWhitespacePattern = regexp.MustCompile(`[ \t]+$`)

// trailingWhitespaceRule flags (and fixes) trailing spaces/tabs on a line.
var trailingWhitespaceRule = Rule{
	Name:           "trailing-whitespace",
	Description:    "lines must not end in trailing whitespace",
	Severity:       SeverityWarning,
	DefaultEnabled: true,
	Check: func(ctx *Context) []Issue {
		var issues []Issue
		for i, ln := range ctx.Lines {
			if trailingWhitespacePattern.MatchString(ln) {
				issues = append(issues, issueAt(trailingWhitespaceRule.Name, SeverityWarning, ctx.Path, i+1,
					"trailing whitespace"))
			}
		}
		return issues
	},
	Fix: func(content string, _ []Issue) string {
		return mapLines(content, func(ln string) string {
			return trailingWhitespacePattern.ReplaceAllString(ln, "")
		})
	},
}

// tabCharacterRule flags (and fixes) literal tab characters.
var tabCharacterRule = Rule{
	Name:           "tab-character",
	Description:    "indentation must use spaces, not tabs",
	Severity:       SeverityWarning,
	DefaultEnabled: true,
	Check: func(ctx *Context) []Issue {
		var issues []Issue
		for i, ln := range ctx.Lines {
			if strings.Contains(ln, "\t") {
				issues = append(issues, issueAt(tabCharacterRule.Name, SeverityWarning, ctx.Path, i+1,
					"line contains a tab character"))
			}
		}
		return issues
	},
	Fix: func(content string, _ []Issue) string {
		return mapLines(content, func(ln string) string {
			return strings.ReplaceAll(ln, "\t", "  ")
		})
	},
}

// emptyLineWhitespaceRule flags (and fixes) blank lines that hold
// whitespace instead of being truly empty.
var emptyLineWhitespaceRule = Rule{
	Name:           "empty-line-whitespace",
	Description:    "blank lines must not contain whitespace",
	Severity:       SeverityInfo,
	DefaultEnabled: true,
	Check: func(ctx *Context) []Issue {
		var issues []Issue
		for i, ln := range ctx.Lines {
			if ln != "" && strings.TrimSpace(ln) == "" {
				issues = append(issues, issueAt(emptyLineWhitespaceRule.Name, SeverityInfo, ctx.Path, i+1,
					"blank line contains whitespace"))
			}
		}
		return issues
	},
	Fix: func(content string, _ []Issue) string {
		return mapLines(content, func(ln string) string {
			if strings.TrimSpace(ln) == "" {
				return ""
			}
			return ln
		})
	},
}

// MaxLineLengthRule builds a max-line-length rule for the given limit; the
// default registry wires it at DefaultMaxLineLength, the same limit as the
// formatter's soft-wrap rule.
func MaxLineLengthRule(max int) Rule {
	return Rule{
		Name:           "max-line-length",
		Description:    "lines must not exceed the configured maximum length",
		Severity:       SeverityWarning,
		DefaultEnabled: true,
		Check: func(ctx *Context) []Issue {
			var issues []Issue
			for i, ln := range ctx.Lines {
				if len(ln) > max {
					issues = append(issues, issueAt("max-line-length", SeverityWarning, ctx.Path, i+1,
						"line is %d characters, exceeds the %d-character limit", len(ln), max))
				}
			}
			return issues
		},
	}
}

// DefaultMaxLineLength matches the formatter's own default (internal/
// formatter.DefaultOptions), so a file that satisfies one satisfies the
// other.
const DefaultMaxLineLength = 100

func mapLines(content string, f func(string) string) string {
	nl := "\n"
	hadTrailingNewline := strings.HasSuffix(content, nl)
	lines := strings.Split(content, nl)
	for i, ln := range lines {
		lines[i] = f(ln)
	}
	out := strings.Join(lines, nl)
	if hadTrailingNewline && !strings.HasSuffix(out, nl) {
		out += nl
	}
	return out
}
