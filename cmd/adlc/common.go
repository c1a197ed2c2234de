package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ButlerSebastian/adl-sub000/internal/compiler"
)

// errDiagnostics is returned by a command's RunE when the compiler
// reported at least one diagnostic; main already printed the diagnostics
// themselves, so cobra must not print this error's text again.
var errDiagnostics = errors.New("")

// printDiagnostics renders every diagnostic in u to stderr using the
// Rust-style file:line:column format (internal/compiler's console
// adapter) and reports whether there was at least one, so the caller can
// exit non-zero iff any diagnostic was emitted.
func printDiagnostics(u *compiler.Unit, src []byte) bool {
	if len(u.Diagnostics) == 0 {
		return false
	}
	fmt.Fprintln(os.Stderr, compiler.RenderDiagnostics(u.Diagnostics, src))
	return true
}
