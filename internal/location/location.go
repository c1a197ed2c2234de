// Package location carries the source span attached to every AST node.
package location

import "fmt"

// Location is an immutable byte/line/column span, optionally tied to a file.
// Every AST node owns exactly one; it never changes after construction.
type Location struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// New builds a Location from a start/end line-column pair.
func New(file string, line, column, endLine, endColumn int) Location {
	return Location{
		File:      file,
		Line:      line,
		Column:    column,
		EndLine:   endLine,
		EndColumn: endColumn,
	}
}

// Point builds a zero-width Location at a single line/column.
func Point(file string, line, column int) Location {
	return Location{File: file, Line: line, Column: column, EndLine: line, EndColumn: column}
}

// Zero is the synthesized location used when no real span is available
// (e.g. diagnostics about a whole file rather than a specific token).
var Zero = Location{Line: 1, Column: 1, EndLine: 1, EndColumn: 1}

// String renders "file:line:column", matching the IDE-parseable format
// the console renderer expects.
func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Before reports whether l starts strictly before other in document order.
func (l Location) Before(other Location) bool {
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// Equal reports whether two Locations denote the same span.
func (l Location) Equal(other Location) bool {
	return l == other
}
