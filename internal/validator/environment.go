package validator

import (
	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/diagnostic"
	"github.com/ButlerSebastian/adl-sub000/internal/importresolver"
)

// Environment is the set of enum/type names visible to a Program after its
// imports are merged, keyed by name.
type Environment struct {
	Types map[string]*ast.TypeDef
	Enums map[string]*ast.EnumDef
}

func newEnvironment() Environment {
	return Environment{Types: map[string]*ast.TypeDef{}, Enums: map[string]*ast.EnumDef{}}
}

// MergeImports folds a sequence of resolved import units into one
// Environment, in import-declaration order. A name introduced by two
// different imports (neither shadowed locally) is reported against the
// second occurrence, mirroring the resolver's own directory-union rule.
func MergeImports(units []*importresolver.ImportedUnit) (Environment, []diagnostic.Diagnostic) {
	env := newEnvironment()
	var diags []diagnostic.Diagnostic
	for _, u := range units {
		if u == nil {
			continue
		}
		for _, t := range u.Types {
			if prior, exists := env.Types[t.Name]; exists {
				diags = append(diags, diagnostic.New(diagnostic.CodeDuplicateType, diagnostic.CategorySemantic,
					t.Loc(), "type %q is already provided by an earlier import (%s)", t.Name, prior.Loc()))
				continue
			}
			env.Types[t.Name] = t
		}
		for _, e := range u.Enums {
			if prior, exists := env.Enums[e.Name]; exists {
				diags = append(diags, diagnostic.New(diagnostic.CodeDuplicateEnum, diagnostic.CategorySemantic,
					e.Loc(), "enum %q is already provided by an earlier import (%s)", e.Name, prior.Loc()))
				continue
			}
			env.Enums[e.Name] = e
		}
	}
	return env, diags
}

// WithLocalOverrides returns a copy of env with every name prog declares
// locally removed, so a local TypeDef/EnumDef silently masks an imported
// one of the same name.
func (env Environment) WithLocalOverrides(prog *ast.Program) Environment {
	out := Environment{Types: make(map[string]*ast.TypeDef, len(env.Types)), Enums: make(map[string]*ast.EnumDef, len(env.Enums))}
	for k, v := range env.Types {
		out.Types[k] = v
	}
	for k, v := range env.Enums {
		out.Enums[k] = v
	}
	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.TypeDef:
			delete(out.Types, d.Name)
		case *ast.EnumDef:
			delete(out.Enums, d.Name)
		}
	}
	return out
}
