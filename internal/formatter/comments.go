package formatter

import "github.com/ButlerSebastian/adl-sub000/internal/lexer"

// collectLeadingComments re-lexes src (comments are dropped before the
// AST is built, per internal/parser.Parse) and returns every own-line
// comment keyed by its source line, so the renderer can re-attach a
// comment to whatever declaration starts on the following line.
func collectLeadingComments(src []byte) (map[int]string, error) {
	toks, err := lexer.New("<format>", src).Tokenize()
	if err != nil {
		return nil, err
	}
	out := make(map[int]string)
	for _, t := range toks {
		if t.Kind == lexer.Comment {
			out[t.Line] = t.Text
		}
	}
	return out, nil
}
