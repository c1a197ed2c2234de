// Package schemaemit is the JSON Schema emitter back end: it walks a compiled Program and
// produces the Draft 2020-12 JSON Schema document describing its agent
// shape, lifting every transitively-referenced named type into $defs.
package schemaemit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/pkg/logger"
)

var emitLog = logger.New("compiler:schemaemit")

// Draft202012 is the JSON Schema dialect this emitter targets.
const Draft202012 = "https://json-schema.org/draft/2020-12/schema"

// Emit produces a Draft 2020-12 JSON Schema document describing prog's
// agent, pretty-printed with deterministic key order. catalog resolves
// any type/enum reference prog doesn't declare itself (its merged
// imports). idURL becomes the document's own $id and is also the
// resource URL used for the self-validation compile.
func Emit(prog *ast.Program, catalog ast.Catalog, idURL string) ([]byte, error) {
	e := &emitter{catalog: catalog, defs: make(map[string]*orderedMap)}

	props := newOrderedMap()
	var required []string
	if prog.Agent != nil {
		for _, f := range prog.Agent.Fields {
			schema, err := e.typeExprSchema(f.Type, nil)
			if err != nil {
				return nil, fmt.Errorf("schemaemit: field %q: %w", f.Name, err)
			}
			props.set(f.Name, schema)
			if !f.Optional {
				required = append(required, f.Name)
			}
		}
	}

	title := "Agent"
	if prog.Agent != nil && prog.Agent.Name != "" {
		title = prog.Agent.Name
	}

	root := newOrderedMap()
	root.set("$schema", Draft202012)
	root.set("$id", idURL)
	root.set("title", title)
	root.set("type", "object")
	root.set("properties", props)
	if len(required) > 0 {
		root.set("required", required)
	}
	root.set("additionalProperties", false)

	if len(e.defs) > 0 {
		if err := checkDefsAcyclic(e.defs); err != nil {
			return nil, err
		}
		names := make([]string, 0, len(e.defs))
		for name := range e.defs {
			names = append(names, name)
		}
		sort.Strings(names)
		defsOut := newOrderedMap()
		for _, name := range names {
			defsOut.set(name, e.defs[name])
		}
		root.set("$defs", defsOut)
	}

	compact, err := marshalJSON(root)
	if err != nil {
		return nil, fmt.Errorf("schemaemit: marshal: %w", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("schemaemit: indent: %w", err)
	}
	out := pretty.Bytes()

	if err := selfValidate(idURL, out); err != nil {
		return nil, err
	}

	emitLog.Printf("emitted schema %q: %d bytes, %d lifted defs", title, len(out), len(e.defs))
	return out, nil
}
