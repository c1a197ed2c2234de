package linter

import (
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/parser"
)

// Context is what a Rule's Check function sees: the raw source split into
// lines (always available, even on a parse failure) plus the parsed
// Program when parsing succeeded.
type Context struct {
	Path   string
	Source []byte
	Lines  []string
	Prog   *ast.Program // nil if Source failed to parse
}

// newContext parses src best-effort; a parse error leaves Prog nil rather
// than aborting, so line-based rules still run in fallback mode.
func newContext(path string, src []byte) *Context {
	lines := strings.Split(strings.ReplaceAll(string(src), "\r\n", "\n"), "\n")
	prog, err := parser.Parse(path, src)
	if err != nil {
		return &Context{Path: path, Source: src, Lines: lines}
	}
	return &Context{Path: path, Source: src, Lines: lines, Prog: prog}
}

func (c *Context) line(n int) string {
	if n < 1 || n > len(c.Lines) {
		return ""
	}
	return c.Lines[n-1]
}
