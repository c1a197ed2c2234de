package schemaemit

import (
	"fmt"
	"sort"
	"strings"
)

// checkDefsAcyclic enforces that the $ref graph restricted to $defs stays
// acyclic. It is a plain DFS over a small adjacency map, the same
// coloring approach internal/validator uses for workflow edge graphs.
func checkDefsAcyclic(defs map[string]*orderedMap) error {
	graph := make(map[string][]string, len(defs))
	names := make([]string, 0, len(defs))
	for name, schema := range defs {
		names = append(names, name)
		graph[name] = extractDefRefs(schema)
	}
	sort.Strings(names)

	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(names))
	var stack []string

	var visit func(n string) error
	visit = func(n string) error {
		color[n] = gray
		stack = append(stack, n)
		for _, next := range graph[n] {
			if _, ok := defs[next]; !ok {
				continue // resolves outside $defs (shouldn't happen; ignored defensively)
			}
			switch color[next] {
			case white:
				if err := visit(next); err != nil {
					return err
				}
			case gray:
				cycleStart := 0
				for i, s := range stack {
					if s == next {
						cycleStart = i
						break
					}
				}
				path := append(append([]string{}, stack[cycleStart:]...), next)
				return fmt.Errorf("schemaemit: cyclic $ref among $defs: %s", strings.Join(path, " -> "))
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return nil
	}

	for _, n := range names {
		if color[n] == white {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// extractDefRefs walks a schema fragment collecting every "#/$defs/<name>"
// $ref target it contains, at any depth.
func extractDefRefs(v any) []string {
	var out []string
	switch t := v.(type) {
	case *orderedMap:
		if ref, ok := t.values["$ref"].(string); ok {
			if name, found := strings.CutPrefix(ref, "#/$defs/"); found {
				out = append(out, name)
			}
		}
		for _, k := range t.keys {
			out = append(out, extractDefRefs(t.values[k])...)
		}
	case []any:
		for _, el := range t {
			out = append(out, extractDefRefs(el)...)
		}
	}
	return out
}
