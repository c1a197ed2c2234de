package formatter

import "strings"

// renderBraceList renders `header { a, b, c }`, falling back to one item
// per line (indented one level past indentLevel) once the single-line
// form would exceed MaxLineLength — the formatter's one soft-wrap rule.
func renderBraceList(header string, items []string, opts Options, indentLevel int) string {
	if len(items) == 0 {
		return header + " {}"
	}

	singleLine := header + " { " + strings.Join(items, ", ") + " }"
	if len(singleLine) <= opts.MaxLineLength {
		return singleLine
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(" {\n")
	for i, it := range items {
		b.WriteString(opts.indent(indentLevel + 1))
		b.WriteString(it)
		if i < len(items)-1 || opts.TrailingCommas {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(opts.indent(indentLevel))
	b.WriteString("}")
	return b.String()
}
