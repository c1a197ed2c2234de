package compiler

import (
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/diagnostic"
	"github.com/ButlerSebastian/adl-sub000/pkg/console"
)

// severityFor classifies a diagnostic's category into the three-level
// console.CompilerError.Type the renderer understands. Syntax
// and semantic/type failures are always errors; validation-category
// diagnostics are reported as errors too, except VALIDATION_TERMINATED,
// which is reported as a warning (it documents a stopping point, not a
// defect of its own).
func severityFor(d diagnostic.Diagnostic) string {
	if d.Code == diagnostic.CodeValidationTerminated {
		return "warning"
	}
	return "error"
}

// RenderDiagnostic turns a Diagnostic into a Rust-style file:line:column
// report, with source-line context when src is
// available. This is the one place internal/diagnostic's generic record
// meets pkg/console's CompilerError, so every phase's diagnostics print
// identically regardless of which phase produced them.
func RenderDiagnostic(d diagnostic.Diagnostic, src []byte) string {
	var context []string
	if len(src) > 0 {
		lines := strings.Split(strings.ReplaceAll(string(src), "\r\n", "\n"), "\n")
		if d.Location.Line >= 1 && d.Location.Line <= len(lines) {
			context = []string{lines[d.Location.Line-1]}
		}
	}
	return console.FormatError(console.CompilerError{
		Position: console.ErrorPosition{
			File:   d.Location.File,
			Line:   d.Location.Line,
			Column: d.Location.Column,
		},
		Type:    severityFor(d),
		Message: d.Message + " [" + string(d.Code) + "]",
		Context: context,
	})
}

// RenderDiagnostics renders each diagnostic in order and joins them with
// blank lines, one block per diagnostic.
func RenderDiagnostics(diags []diagnostic.Diagnostic, src []byte) string {
	blocks := make([]string, len(diags))
	for i, d := range diags {
		blocks[i] = RenderDiagnostic(d, src)
	}
	return strings.Join(blocks, "\n\n")
}
