package linter

import (
	"regexp"
	"strings"
)

// block is one brace-delimited type/enum/agent declaration, found by
// scanning raw lines rather than the AST — this is what lets naming/field
// rules keep working in fallback mode when the source fails to parse.
type block struct {
	kind  string // "type", "enum", or "agent"
	name  string
	start int // 1-indexed, header line
	end   int // 1-indexed, closing-brace line
}

var blockHeaderPattern = regexp.MustCompile(`^\s*(type|enum|agent)\s+([A-Za-z_][A-Za-z0-9_]*)\b`)

// scanBlocks finds every top-level type/enum/agent block in lines. ADL
// never nests these declarations, so a single open/close depth counter
// per block is enough to find its extent even when the body spans
// multiple lines or collapses to `{}` on the header line.
func scanBlocks(lines []string) []block {
	var blocks []block
	var stack []int
	var startDepth []int
	depth := 0

	for i, ln := range lines {
		lineNo := i + 1
		if m := blockHeaderPattern.FindStringSubmatch(ln); m != nil {
			blocks = append(blocks, block{kind: m[1], name: m[2], start: lineNo, end: lineNo})
			stack = append(stack, len(blocks)-1)
			startDepth = append(startDepth, depth)
		}
		for _, ch := range ln {
			switch ch {
			case '{':
				depth++
			case '}':
				depth--
				if len(stack) > 0 && depth == startDepth[len(startDepth)-1] {
					idx := stack[len(stack)-1]
					blocks[idx].end = lineNo
					stack = stack[:len(stack)-1]
					startDepth = startDepth[:len(startDepth)-1]
				}
			}
		}
	}
	return blocks
}

// interior joins a block's own lines and returns the text strictly
// between its outermost braces, or "" for a headerless/brace-less block.
func (b block) interior(lines []string) string {
	if b.start < 1 || b.end > len(lines) || b.start > b.end {
		return ""
	}
	joined := strings.Join(lines[b.start-1:b.end], "\n")
	open := strings.Index(joined, "{")
	closeIdx := strings.LastIndex(joined, "}")
	if open < 0 || closeIdx <= open {
		return ""
	}
	return joined[open+1 : closeIdx]
}

var fieldLinePattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\??\s*:`)

// fieldNames extracts the declared field names from a type/agent block's
// interior, one per source line.
func (b block) fieldNames(lines []string) []string {
	var names []string
	for i := b.start; i <= b.end && i <= len(lines); i++ {
		if i == b.start || i == b.end {
			continue
		}
		if m := fieldLinePattern.FindStringSubmatch(lines[i-1]); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

// enumValueNames extracts identifier tokens from an enum block's
// interior, whether they're laid out one-per-line or comma-packed onto
// the header line.
func (b block) enumValueNames(lines []string) []string {
	interior := b.interior(lines)
	if interior == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(interior, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
