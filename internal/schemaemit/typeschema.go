package schemaemit

import (
	"fmt"
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
)

// emitter holds the mutable state accumulated while walking a single
// Program's type graph: the resolved declarations it can reach (catalog)
// and the $defs table it lifts named types/enums into as they're
// discovered.
type emitter struct {
	catalog ast.Catalog
	defs    map[string]*orderedMap
}

// typeExprSchema converts one AST type expression into a JSON Schema
// fragment. stack tracks the chain of TypeDef names currently being
// lifted into $defs, so a self-referencing or mutually-referencing type
// is caught as a cycle instead of recursing forever.
func (e *emitter) typeExprSchema(t ast.TypeExpr, stack []string) (*orderedMap, error) {
	switch v := t.(type) {
	case *ast.Primitive:
		return primitiveSchema(v.Kind), nil

	case *ast.Reference:
		if err := e.liftReference(v.Name, stack); err != nil {
			return nil, err
		}
		return newOrderedMap().set("$ref", "#/$defs/"+v.Name), nil

	case *ast.Array:
		item, err := e.typeExprSchema(v.Element, stack)
		if err != nil {
			return nil, err
		}
		return newOrderedMap().set("type", "array").set("items", item), nil

	case *ast.Union:
		if len(v.Members) == 1 {
			return e.typeExprSchema(v.Members[0], stack)
		}
		members := make([]any, 0, len(v.Members))
		for _, m := range v.Members {
			ms, err := e.typeExprSchema(m, stack)
			if err != nil {
				return nil, err
			}
			members = append(members, ms)
		}
		return newOrderedMap().set("anyOf", members), nil

	case *ast.Optional:
		inner, err := e.typeExprSchema(v.Inner, stack)
		if err != nil {
			return nil, err
		}
		return inner.set("nullable", true), nil

	case *ast.Constrained:
		base, err := e.typeExprSchema(v.Base, stack)
		if err != nil {
			return nil, err
		}
		if v.Min != nil {
			base.set("minimum", *v.Min)
		}
		if v.Max != nil {
			base.set("maximum", *v.Max)
		}
		return base, nil

	default:
		return nil, fmt.Errorf("schemaemit: unhandled type expression %T", t)
	}
}

func primitiveSchema(kind ast.PrimitiveKind) *orderedMap {
	switch kind {
	case ast.PrimString:
		return newOrderedMap().set("type", "string")
	case ast.PrimInteger:
		return newOrderedMap().set("type", "integer")
	case ast.PrimNumber:
		return newOrderedMap().set("type", "number")
	case ast.PrimBoolean:
		return newOrderedMap().set("type", "boolean")
	case ast.PrimObject:
		return newOrderedMap().set("type", "object")
	case ast.PrimArray:
		return newOrderedMap().set("type", "array")
	case ast.PrimNull:
		return newOrderedMap().set("type", "null")
	default: // ast.PrimAny
		return newOrderedMap()
	}
}

// liftReference resolves name against the catalog and records its schema
// under $defs, recursing into its own fields/values first so nested
// references are lifted too.
func (e *emitter) liftReference(name string, stack []string) error {
	if _, done := e.defs[name]; done {
		return nil
	}
	for _, s := range stack {
		if s == name {
			return fmt.Errorf("schemaemit: cyclic type reference in $defs: %s -> %s",
				strings.Join(stack, " -> "), name)
		}
	}
	nextStack := append(append([]string{}, stack...), name)

	if td, ok := e.catalog.Types[name]; ok {
		schema, err := e.typeDefSchema(td, nextStack)
		if err != nil {
			return err
		}
		e.defs[name] = schema
		return nil
	}
	if ed, ok := e.catalog.Enums[name]; ok {
		e.defs[name] = enumSchema(ed)
		return nil
	}
	return fmt.Errorf("schemaemit: unresolved type reference %q", name)
}

func (e *emitter) typeDefSchema(td *ast.TypeDef, stack []string) (*orderedMap, error) {
	out := newOrderedMap().set("type", "object")
	if td.Body == nil {
		out.set("additionalProperties", true)
		return out, nil
	}

	props := newOrderedMap()
	var required []string
	for _, f := range td.Body.Fields {
		schema, err := e.typeExprSchema(f.Type, stack)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", td.Name, f.Name, err)
		}
		props.set(f.Name, schema)
		if !f.Optional {
			required = append(required, f.Name)
		}
	}
	out.set("properties", props)
	if len(required) > 0 {
		out.set("required", required)
	}
	out.set("additionalProperties", false)
	return out, nil
}

func enumSchema(ed *ast.EnumDef) *orderedMap {
	values := make([]any, 0, len(ed.Values))
	for _, v := range ed.Values {
		values = append(values, v.Name)
	}
	return newOrderedMap().set("type", "string").set("enum", values)
}
