package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ButlerSebastian/adl-sub000/internal/linter"
	"github.com/ButlerSebastian/adl-sub000/pkg/console"
)

func newLintCmd() *cobra.Command {
	var fix bool
	var rules []string
	var severity string

	cmd := &cobra.Command{
		Use:   "lint <source.adl>",
		Short: "Check an ADL source file against the default and custom style rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rules") && len(cfg.Lint.Rules) > 0 {
				rules = cfg.Lint.Rules
			}
			if !cmd.Flags().Changed("severity") && cfg.Lint.Severity != "" {
				severity = cfg.Lint.Severity
			}
			return runLint(args[0], fix, rules, severity)
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "rewrite the file, applying every available autofix")
	cmd.Flags().StringSliceVar(&rules, "rules", nil, "restrict linting to this comma-separated rule subset")
	cmd.Flags().StringVar(&severity, "severity", "", "minimum severity to report: info, warning, error")
	return cmd
}

func runLint(path string, fix bool, rules []string, severity string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	reg := linter.DefaultRegistry()
	if len(rules) > 0 {
		reg = subsetRegistry(reg, rules)
	}

	opts := linter.Options{MinSeverity: linter.Severity(severity)}

	if fix {
		fixed, remaining := linter.Autofix(path, src, reg, opts)
		if !bytes.Equal(src, fixed) {
			if err := os.WriteFile(path, fixed, 0o644); err != nil {
				return err
			}
		}
		return reportLintIssues(path, remaining)
	}

	issues := linter.Lint(path, src, reg, opts)
	return reportLintIssues(path, issues)
}

// subsetRegistry returns a Registry containing only the named rules,
// preserving their original severity/fix/DefaultEnabled, so a rule that
// is off by default (e.g. legacy-id-field) still runs when named
// explicitly via --rules.
func subsetRegistry(full *linter.Registry, names []string) *linter.Registry {
	sub := linter.NewRegistry()
	for _, name := range names {
		if rule, ok := full.Lookup(strings.TrimSpace(name)); ok {
			rule.DefaultEnabled = true
			sub.Add(rule)
		}
	}
	return sub
}

func reportLintIssues(path string, issues []linter.Issue) error {
	if len(issues) == 0 {
		fmt.Fprintln(os.Stdout, console.FormatSuccessMessage(path+": no issues"))
		return nil
	}
	for _, is := range issues {
		fmt.Fprintln(os.Stderr, console.FormatError(console.CompilerError{
			Position: console.ErrorPosition{File: path, Line: is.Location.Line, Column: is.Location.Column},
			Type:     lintSeverityToConsoleType(is.Severity),
			Message:  fmt.Sprintf("%s (%s)", is.Message, is.Rule),
		}))
	}
	return errDiagnostics
}

func lintSeverityToConsoleType(s linter.Severity) string {
	switch s {
	case linter.SeverityError:
		return "error"
	case linter.SeverityInfo:
		return "info"
	default:
		return "warning"
	}
}
