// Package compiler wires the whole pipeline together: source text -> parser
// -> AST -> import merge -> validator -> {schemaemit, tsemit, pyemit,
// formatter, linter}. It is the only package that depends on every other
// internal package; cmd/adlc depends on this package alone, keeping
// orchestration and CLI flag handling in separate layers.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/diagnostic"
	"github.com/ButlerSebastian/adl-sub000/internal/formatter"
	"github.com/ButlerSebastian/adl-sub000/internal/importresolver"
	"github.com/ButlerSebastian/adl-sub000/internal/linter"
	"github.com/ButlerSebastian/adl-sub000/internal/parser"
	"github.com/ButlerSebastian/adl-sub000/internal/pyemit"
	"github.com/ButlerSebastian/adl-sub000/internal/schemaemit"
	"github.com/ButlerSebastian/adl-sub000/internal/tsemit"
	"github.com/ButlerSebastian/adl-sub000/internal/validator"
	"github.com/ButlerSebastian/adl-sub000/pkg/logger"
)

var compilerLog = logger.New("compiler:orchestrator")

// SchemaIDBase is the stable placeholder URL prefix the JSON Schema
// emitter uses for a source file's $id.
const SchemaIDBase = "https://adl.dev/schemas"

// Options configures every phase of a compilation: a plain, immutable
// value passed into each phase explicitly rather than a global or
// cross-compilation mutable config.
type Options struct {
	// ProjectRoot overrides the import resolver's "two directories above
	// the file" convention for absolute import paths.
	ProjectRoot string
	Format      formatter.Options
	Lint        linter.Options
}

// DefaultOptions returns the documented defaults for every phase.
func DefaultOptions() Options {
	return Options{
		Format: formatter.DefaultOptions(),
		Lint:   linter.Options{},
	}
}

// Compiler owns the long-lived, per-compilation state that should be
// shared across multiple files compiled together: the import resolver's
// cache/in-progress set and the validator's memoization cache. A Compiler
// is not safe for concurrent use; a host embedding several compilations in
// parallel must construct one Compiler per compilation.
type Compiler struct {
	opts     Options
	resolver *importresolver.Resolver
	val      *validator.Validator
}

// New returns a Compiler configured with opts, with fresh import and
// validation caches.
func New(opts Options) *Compiler {
	return &Compiler{
		opts:     opts,
		resolver: importresolver.New(opts.ProjectRoot),
		val:      validator.New(),
	}
}

// Unit is the outcome of running a source file through the full
// parse-resolve-validate pipeline: its parsed AST (nil on a syntax error),
// the merged name catalog used by every back end, and every diagnostic
// collected along the way.
type Unit struct {
	Path        string
	Program     *ast.Program
	Catalog     ast.Catalog
	Diagnostics []diagnostic.Diagnostic
}

// HasErrors reports whether any diagnostic in u was produced (syntax
// errors abort before producing a Program at all; semantic/validation/
// type diagnostics accumulate but do not by themselves mean the caller
// should skip emission - callers that care about a clean run check this).
func (u *Unit) HasErrors() bool {
	return len(u.Diagnostics) > 0
}

// Load runs a source file through the lexer, parser, import resolver, and
// semantic validator, returning a Unit whether or not the source is fully
// valid: downstream back ends are pure functions of whatever Program did
// parse, and the linter's fallback mode needs the source regardless — a
// syntax error aborts only the phases after it.
func (c *Compiler) Load(path string) (*Unit, error) {
	compilerLog.Printf("loading %s", path)
	src, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("compiler: read %s: %w", path, err)
	}
	return c.LoadSource(path, src)
}

// LoadSource is Load without the file read, for callers that already
// have the source bytes (the formatter/linter CLI commands, tests).
func (c *Compiler) LoadSource(path string, src []byte) (*Unit, error) {
	prog, err := parser.Parse(path, src)
	if err != nil {
		if perr, ok := err.(*parser.Error); ok {
			compilerLog.Printf("syntax error in %s: %s", path, perr.Message)
			return &Unit{
				Path: path,
				Diagnostics: []diagnostic.Diagnostic{
					diagnostic.New(diagnostic.Code(perr.Code), diagnostic.CategorySyntax, perr.Loc, "%s", perr.Message),
				},
			}, nil
		}
		return nil, fmt.Errorf("compiler: parse %s: %w", path, err)
	}

	var units []*importresolver.ImportedUnit
	var diags []diagnostic.Diagnostic
	for _, imp := range prog.Imports {
		unit, err := c.resolver.Resolve(imp.Path, path)
		if err != nil {
			diags = append(diags, importDiagnostic(imp, err))
			continue
		}
		units = append(units, unit)
	}

	env, mergeDiags := validator.MergeImports(units)
	diags = append(diags, mergeDiags...)
	localEnv := env.WithLocalOverrides(prog)

	catalog := ast.NewCatalog(prog, env.Types, env.Enums)

	summary := c.val.Validate(prog, localEnv)
	for _, list := range summary.ByCategory {
		diags = append(diags, list...)
	}

	compilerLog.Printf("loaded %s: %d diagnostics", path, len(diags))
	return &Unit{Path: path, Program: prog, Catalog: catalog, Diagnostics: diags}, nil
}

// importDiagnostic turns a resolver failure into a Diagnostic located at
// the offending import statement, rather than surfacing a bare Go error.
func importDiagnostic(imp *ast.ImportStmt, err error) diagnostic.Diagnostic {
	if _, ok := err.(*importresolver.CircularImportError); ok {
		return diagnostic.New(diagnostic.CodeCircularImport, diagnostic.CategorySemantic, imp.Loc(), "%s", err.Error())
	}
	if _, ok := err.(*importresolver.DuplicateTypeError); ok {
		return diagnostic.New(diagnostic.CodeDuplicateType, diagnostic.CategorySemantic, imp.Loc(), "%s", err.Error())
	}
	return diagnostic.New(diagnostic.CodeInvalidTypeReference, diagnostic.CategorySemantic, imp.Loc(),
		"failed to resolve import %q: %s", imp.Path, err.Error())
}

// EmitJSONSchema runs the JSON Schema back end over u, producing a Draft
// 2020-12 document. The $id is derived from u.Path so repeated compiles of
// the same file are stable: idempotence requires a fixed $id across
// re-emissions.
func (c *Compiler) EmitJSONSchema(u *Unit) ([]byte, error) {
	idURL := fmt.Sprintf("%s/%s.json", SchemaIDBase, filepath.Base(u.Path))
	return schemaemit.Emit(u.Program, u.Catalog, idURL)
}

// EmitTypeScript runs the TypeScript declaration back end over u.
func (c *Compiler) EmitTypeScript(u *Unit) string {
	return tsemit.Emit(u.Program, u.Catalog)
}

// EmitPython runs the Python typed-dict back end over u.
func (c *Compiler) EmitPython(u *Unit) string {
	return pyemit.Emit(u.Program, u.Catalog)
}

// Format runs the pretty-printer over raw source text (formatting works
// from source, not from a Unit, since it must re-lex for comment
// preservation; see internal/formatter's own docs).
func (c *Compiler) Format(src []byte) ([]byte, error) {
	return formatter.Format(src, c.opts.Format)
}

// Lint runs the linter over raw source text.
func (c *Compiler) Lint(path string, src []byte, reg *linter.Registry) []linter.Issue {
	return linter.Lint(path, src, reg, c.opts.Lint)
}

// Autofix runs the linter's autofix pass over raw source text.
func (c *Compiler) Autofix(path string, src []byte, reg *linter.Registry) ([]byte, []linter.Issue) {
	return linter.Autofix(path, src, reg, c.opts.Lint)
}
