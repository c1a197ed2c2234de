package formatter

import (
	"strconv"
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
)

// typeExprSource renders a TypeExpr back into the surface grammar's own
// syntax; it is the exact inverse of internal/parser's postfix/union/
// primary productions.
func typeExprSource(t ast.TypeExpr) string {
	switch v := t.(type) {
	case *ast.Primitive:
		return string(v.Kind)
	case *ast.Reference:
		return v.Name
	case *ast.Array:
		return typeExprSource(v.Element) + "[]"
	case *ast.Union:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = typeExprSource(m)
		}
		return strings.Join(parts, " | ")
	case *ast.Optional:
		return typeExprSource(v.Inner) + "?"
	case *ast.Constrained:
		return typeExprSource(v.Base) + "(" + rangeSource(v) + ")"
	default:
		return ""
	}
}

func rangeSource(c *ast.Constrained) string {
	return boundSource(c.Min, c.MinStr) + ".." + boundSource(c.Max, c.MaxStr)
}

func boundSource(n *int, s string) string {
	if n != nil {
		return strconv.Itoa(*n)
	}
	if s != "" {
		return strconv.Quote(s)
	}
	return ""
}

func fieldSource(f *ast.FieldDef) string {
	marker := ""
	if f.Optional {
		marker = "?"
	}
	return f.Name + marker + ": " + typeExprSource(f.Type)
}
