// Package parser implements a hand-written recursive-descent parser over
// the ADL grammar. It materializes internal/ast nodes directly in one
// pass rather than building an intermediate untyped parse tree.
package parser

import (
	"fmt"
	"strconv"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/lexer"
	"github.com/ButlerSebastian/adl-sub000/internal/location"
	"github.com/ButlerSebastian/adl-sub000/pkg/logger"
)

var parserLog = logger.New("compiler:parser")

// Error is a single syntax diagnostic. The parser never recovers: the
// caller receives exactly one Error per failed parse.
type Error struct {
	Code    string // UNEXPECTED_CHAR | UNEXPECTED_TOKEN | PARSE_ERROR
	Message string
	Loc     location.Location
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Loc, e.Message) }

type parser struct {
	file   string
	tokens []lexer.Token
	pos    int
}

// Parse lexes and parses src, returning a complete AST Program or the
// first syntax error encountered.
func Parse(file string, src []byte) (*ast.Program, error) {
	parserLog.Printf("parsing %s (%d bytes)", file, len(src))

	lx := lexer.New(file, src)
	allTokens, err := lx.Tokenize()
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			return nil, &Error{Code: "UNEXPECTED_CHAR", Message: lexErr.Message, Loc: lexErr.Loc}
		}
		return nil, &Error{Code: "UNEXPECTED_CHAR", Message: err.Error()}
	}

	// Comments are insignificant to the grammar; they are dropped here.
	// The formatter re-derives comment placement from raw source directly
	// rather than from this token stream (see internal/formatter).
	tokens := make([]lexer.Token, 0, len(allTokens))
	for _, t := range allTokens {
		if t.Kind != lexer.Comment {
			tokens = append(tokens, t)
		}
	}

	p := &parser{file: file, tokens: tokens}
	prog, err := p.parseProgram()
	if err != nil {
		parserLog.Printf("parse failed: %v", err)
		return nil, err
	}
	return prog, nil
}

func (p *parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) at(kind lexer.Kind) bool {
	return p.cur().Kind == kind
}

func (p *parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) loc(tok lexer.Token) location.Location {
	return location.New(p.file, tok.Line, tok.Column, tok.EndLine, tok.EndColumn)
}

func (p *parser) span(start, end lexer.Token) location.Location {
	return location.New(p.file, start.Line, start.Column, end.EndLine, end.EndColumn)
}

func (p *parser) unexpected(expected string) error {
	tok := p.cur()
	if tok.Kind == lexer.EOF {
		return &Error{Code: "UNEXPECTED_TOKEN", Message: fmt.Sprintf("unexpected end of file, expected %s", expected), Loc: p.loc(tok)}
	}
	return &Error{Code: "UNEXPECTED_TOKEN", Message: fmt.Sprintf("unexpected token %q, expected %s", tok.Text, expected), Loc: p.loc(tok)}
}

func (p *parser) expect(kind lexer.Kind) (lexer.Token, error) {
	if !p.at(kind) {
		return lexer.Token{}, p.unexpected(kind.String())
	}
	return p.advance(), nil
}

// expectFieldName accepts an identifier or any reserved word used as a
// "soft" keyword (e.g. `description`, `data`): those words are only
// structurally significant inside a workflow/policy block, so a field or
// enum value is still free to be named after one.
func (p *parser) expectFieldName() (lexer.Token, error) {
	tok := p.cur()
	if tok.Kind == lexer.Ident || lexer.IsKeyword(tok.Kind) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.unexpected("a field name")
}

// parseProgram := import* declaration* agent?
func (p *parser) parseProgram() (*ast.Program, error) {
	startTok := p.cur()

	var imports []*ast.ImportStmt
	for p.at(lexer.KwImport) {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}

	var decls []ast.Declaration
	for p.isDeclarationStart() {
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}

	var agent *ast.AgentDef
	if p.at(lexer.KwAgent) {
		a, err := p.parseAgent()
		if err != nil {
			return nil, err
		}
		agent = a
	}

	if !p.at(lexer.EOF) {
		return nil, p.unexpected("end of file")
	}

	endTok := p.cur()
	return &ast.Program{
		Location:     p.span(startTok, endTok),
		Imports:      imports,
		Declarations: decls,
		Agent:        agent,
	}, nil
}

func (p *parser) isDeclarationStart() bool {
	switch p.cur().Kind {
	case lexer.KwEnum, lexer.KwType, lexer.KwWorkflow, lexer.KwPolicy:
		return true
	}
	return false
}

func (p *parser) parseDeclaration() (ast.Declaration, error) {
	switch p.cur().Kind {
	case lexer.KwEnum:
		return p.parseEnum()
	case lexer.KwType:
		return p.parseType()
	case lexer.KwWorkflow:
		return p.parseWorkflow()
	case lexer.KwPolicy:
		return p.parsePolicy()
	default:
		return nil, p.unexpected("a declaration ('enum', 'type', 'workflow', or 'policy')")
	}
}

// parseImport := 'import' path ('as' IDENT)?
func (p *parser) parseImport() (*ast.ImportStmt, error) {
	startTok, err := p.expect(lexer.KwImport)
	if err != nil {
		return nil, err
	}

	path, _, err := p.parsePath()
	if err != nil {
		return nil, err
	}

	alias := ""
	endTok := p.tokens[p.pos-1]
	if p.at(lexer.KwAs) {
		p.advance()
		aliasTok, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		alias = aliasTok.Text
		endTok = aliasTok
	}

	return &ast.ImportStmt{
		Location: p.span(startTok, endTok),
		Path:     path,
		Alias:    alias,
	}, nil
}

// parsePath := (IDENT (('/' | '.') IDENT)*) | ('.' | '..') (('/' | '.') IDENT)+
func (p *parser) parsePath() (string, location.Location, error) {
	startTok := p.cur()
	path := ""

	if p.at(lexer.Dot) || p.at(lexer.DotDot) {
		prefix := p.advance()
		path = prefix.Text
		if !p.at(lexer.Slash) && !p.at(lexer.Dot) {
			return "", location.Location{}, p.unexpected("'/' or '.' after a relative import prefix")
		}
		for p.at(lexer.Slash) || p.at(lexer.Dot) {
			sep := p.advance()
			idTok, err := p.expect(lexer.Ident)
			if err != nil {
				return "", location.Location{}, err
			}
			path += sep.Text + idTok.Text
		}
		return path, p.span(startTok, p.tokens[p.pos-1]), nil
	}

	idTok, err := p.expect(lexer.Ident)
	if err != nil {
		return "", location.Location{}, err
	}
	path = idTok.Text
	for p.at(lexer.Slash) || p.at(lexer.Dot) {
		sep := p.advance()
		nextTok, err := p.expect(lexer.Ident)
		if err != nil {
			return "", location.Location{}, err
		}
		path += sep.Text + nextTok.Text
	}
	return path, p.span(startTok, p.tokens[p.pos-1]), nil
}

// parseEnum := 'enum' IDENT '{' (IDENT (',' IDENT)* ','?)? '}'
func (p *parser) parseEnum() (*ast.EnumDef, error) {
	startTok, err := p.expect(lexer.KwEnum)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}

	var values []*ast.EnumValue
	for !p.at(lexer.RBrace) {
		valTok, err := p.expectFieldName()
		if err != nil {
			return nil, err
		}
		values = append(values, &ast.EnumValue{Location: p.loc(valTok), Name: valTok.Text})
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	endTok, err := p.expect(lexer.RBrace)
	if err != nil {
		return nil, err
	}

	return &ast.EnumDef{
		Location: p.span(startTok, endTok),
		Name:     nameTok.Text,
		Values:   values,
	}, nil
}

// parseType := 'type' IDENT ('{' field* '}')?
func (p *parser) parseType() (*ast.TypeDef, error) {
	startTok, err := p.expect(lexer.KwType)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}

	endTok := nameTok
	var body *ast.TypeBody
	if p.at(lexer.LBrace) {
		b, err := p.parseTypeBody()
		if err != nil {
			return nil, err
		}
		body = b
		endTok = p.tokens[p.pos-1]
	}

	return &ast.TypeDef{
		Location: p.span(startTok, endTok),
		Name:     nameTok.Text,
		Body:     body,
	}, nil
}

// parseTypeBody := '{' field* '}'
func (p *parser) parseTypeBody() (*ast.TypeBody, error) {
	startTok, err := p.expect(lexer.LBrace)
	if err != nil {
		return nil, err
	}
	var fields []*ast.FieldDef
	for !p.at(lexer.RBrace) {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	endTok, err := p.expect(lexer.RBrace)
	if err != nil {
		return nil, err
	}
	return &ast.TypeBody{Location: p.span(startTok, endTok), Fields: fields}, nil
}

// parseField := fieldName '?'? ':' typeExpr
func (p *parser) parseField() (*ast.FieldDef, error) {
	nameTok, err := p.expectFieldName()
	if err != nil {
		return nil, err
	}
	optional := false
	if p.at(lexer.Question) {
		p.advance()
		optional = true
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return nil, err
	}
	te, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	return &ast.FieldDef{
		Location: p.span(nameTok, p.tokens[p.pos-1]),
		Name:     nameTok.Text,
		Type:     te,
		Optional: optional,
	}, nil
}

// parseAgent := 'agent' IDENT '{' field* '}'
func (p *parser) parseAgent() (*ast.AgentDef, error) {
	startTok, err := p.expect(lexer.KwAgent)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	body, err := p.parseTypeBody()
	if err != nil {
		return nil, err
	}
	return &ast.AgentDef{
		Location: p.span(startTok, p.tokens[p.pos-1]),
		Name:     nameTok.Text,
		Fields:   body.Fields,
	}, nil
}

// parseTypeExpr := union
func (p *parser) parseTypeExpr() (ast.TypeExpr, error) {
	return p.parseUnion()
}

// union := postfix ('|' postfix)*
func (p *parser) parseUnion() (ast.TypeExpr, error) {
	startTok := p.cur()
	first, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.Pipe) {
		return first, nil
	}
	members := []ast.TypeExpr{first}
	for p.at(lexer.Pipe) {
		p.advance()
		next, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	return &ast.Union{Location: p.span(startTok, p.tokens[p.pos-1]), Members: members}, nil
}

// postfix := primary suffix*
func (p *parser) parsePostfix() (ast.TypeExpr, error) {
	startTok := p.cur()
	current, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.at(lexer.LBracket):
			p.advance()
			if _, err := p.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			current = &ast.Array{Location: p.span(startTok, p.tokens[p.pos-1]), Element: current}
		case p.at(lexer.Question):
			p.advance()
			current = &ast.Optional{Location: p.span(startTok, p.tokens[p.pos-1]), Inner: current}
		case p.at(lexer.LParen):
			p.advance()
			min, max, minStr, maxStr, err := p.parseRange()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RParen); err != nil {
				return nil, err
			}
			current = &ast.Constrained{
				Location: p.span(startTok, p.tokens[p.pos-1]),
				Base:     current,
				Min:      min,
				Max:      max,
				MinStr:   minStr,
				MaxStr:   maxStr,
			}
		default:
			return current, nil
		}
	}
}

// range := (bound? '..' bound?) | bound '..'   where bound := NUM | STRING
// The STRING alternative lets a Constrained base of string carry literal
// date/time bounds instead of integers; the validator decides what to do
// with MinStr/MaxStr based on the base type.
func (p *parser) parseRange() (min, max *int, minStr, maxStr string, err error) {
	if !p.at(lexer.DotDot) {
		min, minStr, err = p.parseBound()
		if err != nil {
			return nil, nil, "", "", err
		}
	}
	if _, err = p.expect(lexer.DotDot); err != nil {
		return nil, nil, "", "", err
	}
	if !p.at(lexer.RParen) {
		max, maxStr, err = p.parseBound()
		if err != nil {
			return nil, nil, "", "", err
		}
	}
	return min, max, minStr, maxStr, nil
}

func (p *parser) parseBound() (*int, string, error) {
	switch p.cur().Kind {
	case lexer.Number:
		tok := p.advance()
		n, convErr := strconv.Atoi(tok.Text)
		if convErr != nil {
			return nil, "", &Error{Code: "PARSE_ERROR", Message: fmt.Sprintf("invalid integer literal %q", tok.Text), Loc: p.loc(tok)}
		}
		return &n, "", nil
	case lexer.String:
		tok := p.advance()
		return nil, tok.Text, nil
	default:
		return nil, "", p.unexpected("a number, a string, or '..'")
	}
}

// primary := PRIM | IDENT | '(' typeExpr ')'
func (p *parser) parsePrimary() (ast.TypeExpr, error) {
	tok := p.cur()
	if lexer.IsPrimitiveKeyword(tok.Kind) {
		p.advance()
		return &ast.Primitive{Location: p.loc(tok), Kind: primitiveKindFor(tok.Kind)}, nil
	}
	if tok.Kind == lexer.Ident {
		p.advance()
		return &ast.Reference{Location: p.loc(tok), Name: tok.Text}, nil
	}
	if tok.Kind == lexer.LParen {
		p.advance()
		inner, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, p.unexpected("a type (a primitive, a type name, or '(')")
}

func primitiveKindFor(k lexer.Kind) ast.PrimitiveKind {
	switch k {
	case lexer.KwString:
		return ast.PrimString
	case lexer.KwInteger:
		return ast.PrimInteger
	case lexer.KwNumber:
		return ast.PrimNumber
	case lexer.KwBoolean:
		return ast.PrimBoolean
	case lexer.KwObject:
		return ast.PrimObject
	case lexer.KwArray:
		return ast.PrimArray
	case lexer.KwAny:
		return ast.PrimAny
	case lexer.KwNull:
		return ast.PrimNull
	}
	return ast.PrimAny
}
