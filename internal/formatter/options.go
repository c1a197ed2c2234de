package formatter

// Options controls the formatter's emission style. Every field has a
// documented default; DefaultOptions returns them.
type Options struct {
	IndentSize              int
	MaxLineLength           int
	TrailingCommas          bool
	SortImports             bool
	PreserveComments        bool
	NewlineAfterDeclaration bool
}

// DefaultOptions returns the formatter's documented defaults.
func DefaultOptions() Options {
	return Options{
		IndentSize:              2,
		MaxLineLength:           100,
		TrailingCommas:          false,
		SortImports:             true,
		PreserveComments:        true,
		NewlineAfterDeclaration: true,
	}
}

func (o Options) indent(level int) string {
	n := o.IndentSize * level
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
