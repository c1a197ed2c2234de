// Package importresolver loads referenced ADL and JSON component files,
// detects circular imports via an in-progress set kept on the resolver
// itself (rather than by cycle-detection over the cache), and caches
// resolved units per compilation.
package importresolver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/location"
	"github.com/ButlerSebastian/adl-sub000/internal/parser"
	"github.com/ButlerSebastian/adl-sub000/pkg/logger"
)

var resolverLog = logger.New("compiler:importresolver")

// ImportedUnit is the set of declarations an import contributes to the
// compilation environment. Agent/workflow/policy declarations in an
// imported ADL file are intentionally dropped.
type ImportedUnit struct {
	Types []*ast.TypeDef
	Enums []*ast.EnumDef
}

// CircularImportError reports a cycle in the import graph.
type CircularImportError struct {
	Path string
}

func (e *CircularImportError) Error() string {
	return fmt.Sprintf("circular import detected: %s is already being resolved", e.Path)
}

// Resolver resolves import paths to ImportedUnits, owning its cache and
// in-progress set exclusively; it is not safe for concurrent use.
type Resolver struct {
	// ProjectRoot overrides the "two directories above the file" default
	// convention used for absolute import paths.
	ProjectRoot string

	cache      map[string]*ImportedUnit
	inProgress map[string]bool
}

// New creates a Resolver rooted at projectRoot. An empty projectRoot falls
// back to the "two directories above the importing file" convention.
func New(projectRoot string) *Resolver {
	return &Resolver{
		ProjectRoot: projectRoot,
		cache:       make(map[string]*ImportedUnit),
		inProgress:  make(map[string]bool),
	}
}

// Resolve loads the unit named by importPath, as imported from
// currentFile, following the directory/index/suffix lookup order below.
func (r *Resolver) Resolve(importPath, currentFile string) (*ImportedUnit, error) {
	resolverLog.Printf("resolving %q from %q", importPath, currentFile)

	base := r.baseDir(importPath, currentFile)
	resolvedPath, err := r.locate(filepath.Join(base, filepath.FromSlash(importPath)))
	if err != nil {
		return nil, err
	}

	canonical, err := filepath.Abs(resolvedPath)
	if err != nil {
		return nil, err
	}
	canonical = filepath.Clean(canonical)

	if r.inProgress[canonical] {
		return nil, &CircularImportError{Path: canonical}
	}
	if unit, ok := r.cache[canonical]; ok {
		resolverLog.Printf("cache hit for %q", canonical)
		return unit, nil
	}

	r.inProgress[canonical] = true
	defer delete(r.inProgress, canonical)

	unit, err := r.load(canonical)
	if err != nil {
		return nil, err
	}

	r.cache[canonical] = unit
	return unit, nil
}

// baseDir determines the directory an import path is resolved relative to.
func (r *Resolver) baseDir(importPath, currentFile string) string {
	if strings.HasPrefix(importPath, ".") {
		return filepath.Dir(currentFile)
	}
	if r.ProjectRoot != "" {
		return r.ProjectRoot
	}
	// Convention: two directories above the importing file.
	return filepath.Dir(filepath.Dir(filepath.Dir(currentFile)))
}

// locate applies the directory/index/suffix search order to a joined
// (base, path) candidate, returning the file that actually exists on
// disk.
func (r *Resolver) locate(candidate string) (string, error) {
	info, err := os.Stat(candidate)
	if err == nil && info.IsDir() {
		if indexADL := filepath.Join(candidate, "index.adl"); fileExists(indexADL) {
			return indexADL, nil
		}
		if indexJSON := filepath.Join(candidate, "index.json"); fileExists(indexJSON) {
			return indexJSON, nil
		}
		if jsonFiles, globErr := filepath.Glob(filepath.Join(candidate, "*.json")); globErr == nil && len(jsonFiles) > 0 {
			// A directory of *.json siblings is represented by the
			// directory path itself; load() fans out over its contents.
			return candidate, nil
		}
		return "", fmt.Errorf("import directory %q contains no index.adl, index.json, or *.json files", candidate)
	}

	if fileExists(candidate + ".adl") {
		return candidate + ".adl", nil
	}
	if fileExists(candidate + ".json") {
		return candidate + ".json", nil
	}
	if fileExists(candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("could not resolve import %q: no matching .adl, .json, or index file", candidate)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// load reads and interprets the resolved path, dispatching on whether it
// names a single file or a directory of JSON siblings.
func (r *Resolver) load(path string) (*ImportedUnit, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return r.loadJSONDirectory(path)
	}
	switch {
	case strings.HasSuffix(path, ".adl"):
		return r.loadADL(path)
	case strings.HasSuffix(path, ".json"):
		unit := &ImportedUnit{}
		td, err := loadJSONComponent(path)
		if err != nil {
			return nil, err
		}
		unit.Types = append(unit.Types, td)
		return unit, nil
	default:
		return nil, fmt.Errorf("unsupported import file type: %s", path)
	}
}

func (r *Resolver) loadADL(path string) (*ImportedUnit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(path, src)
	if err != nil {
		return nil, err
	}
	unit := &ImportedUnit{}
	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.EnumDef:
			unit.Enums = append(unit.Enums, d)
		case *ast.TypeDef:
			unit.Types = append(unit.Types, d)
			// workflow/policy declarations in imported files are dropped.
		}
	}
	return unit, nil
}

// loadJSONDirectory unions every *.json sibling into one environment,
// failing with a DUPLICATE_TYPE-shaped error on a name collision.
func (r *Resolver) loadJSONDirectory(dir string) (*ImportedUnit, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	unit := &ImportedUnit{}
	seen := make(map[string]string)
	for _, f := range files {
		td, err := loadJSONComponent(f)
		if err != nil {
			return nil, err
		}
		if prior, exists := seen[td.Name]; exists {
			return nil, &DuplicateTypeError{Name: td.Name, First: prior, Second: f}
		}
		seen[td.Name] = f
		unit.Types = append(unit.Types, td)
	}
	return unit, nil
}

// DuplicateTypeError reports two JSON siblings in an imported directory
// defining the same type name.
type DuplicateTypeError struct {
	Name   string
	First  string
	Second string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("DUPLICATE_TYPE: %q is defined by both %s and %s", e.Name, e.First, e.Second)
}

// SyntheticLocation returns the location the validator attaches to a
// diagnostic about an imported JSON file, since JSON components have no
// native ADL source span.
func SyntheticLocation(file string) location.Location {
	return location.Point(file, 1, 1)
}
