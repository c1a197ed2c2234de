package lexer

// Kind enumerates every token kind the grammar's lexical layer recognizes.
type Kind int

const (
	EOF Kind = iota
	Ident
	Number
	Comment

	String
	RawString

	// Keywords
	KwImport
	KwAs
	KwEnum
	KwType
	KwAgent
	KwWorkflow
	KwPolicy
	KwNode
	KwEdge
	KwMeta
	KwAt
	KwWhen
	KwRego
	KwEnforce
	KwDescription
	KwData
	KwTrue
	KwFalse

	// Primitive-type keywords
	KwString
	KwInteger
	KwNumber
	KwBoolean
	KwObject
	KwArray
	KwAny
	KwNull

	// Punctuation
	LBrace
	RBrace
	LBracket
	RBracket
	LParen
	RParen
	Comma
	Colon
	Question
	Pipe
	Slash
	Dot
	DotDot
	Arrow
	Equals
)

var keywords = map[string]Kind{
	"import":      KwImport,
	"as":          KwAs,
	"enum":        KwEnum,
	"type":        KwType,
	"agent":       KwAgent,
	"workflow":    KwWorkflow,
	"policy":      KwPolicy,
	"node":        KwNode,
	"edge":        KwEdge,
	"meta":        KwMeta,
	"at":          KwAt,
	"when":        KwWhen,
	"rego":        KwRego,
	"enforce":     KwEnforce,
	"description": KwDescription,
	"data":        KwData,
	"true":        KwTrue,
	"false":       KwFalse,

	"string":  KwString,
	"integer": KwInteger,
	"number":  KwNumber,
	"boolean": KwBoolean,
	"object":  KwObject,
	"array":   KwArray,
	"any":     KwAny,
	"null":    KwNull,
}

// IsPrimitiveKeyword reports whether kind is one of the primitive-type keywords.
func IsPrimitiveKeyword(k Kind) bool {
	switch k {
	case KwString, KwInteger, KwNumber, KwBoolean, KwObject, KwArray, KwAny, KwNull:
		return true
	}
	return false
}

// IsKeyword reports whether kind is one of the reserved words (including
// the primitive-type keywords). Field and enum-value names accept these
// as "soft" keywords: a word like `description` or `data` is reserved
// only where the grammar expects it structurally (a policy block), not
// globally, so it must still be usable as an ordinary field name.
func IsKeyword(k Kind) bool {
	return k >= KwImport && k <= KwNull
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case Comment:
		return "comment"
	case String:
		return "string literal"
	case RawString:
		return "raw string"
	case KwWorkflow:
		return "'workflow'"
	case KwPolicy:
		return "'policy'"
	case KwNode:
		return "'node'"
	case KwEdge:
		return "'edge'"
	case KwMeta:
		return "'meta'"
	case KwAt:
		return "'at'"
	case KwWhen:
		return "'when'"
	case KwRego:
		return "'rego'"
	case KwEnforce:
		return "'enforce'"
	case KwDescription:
		return "'description'"
	case KwData:
		return "'data'"
	case KwTrue:
		return "'true'"
	case KwFalse:
		return "'false'"
	case KwImport:
		return "'import'"
	case KwAs:
		return "'as'"
	case KwEnum:
		return "'enum'"
	case KwType:
		return "'type'"
	case KwAgent:
		return "'agent'"
	case KwString, KwInteger, KwNumber, KwBoolean, KwObject, KwArray, KwAny, KwNull:
		return "primitive type"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Comma:
		return "','"
	case Colon:
		return "':'"
	case Question:
		return "'?'"
	case Pipe:
		return "'|'"
	case Slash:
		return "'/'"
	case Dot:
		return "'.'"
	case DotDot:
		return "'..'"
	case Arrow:
		return "'->'"
	case Equals:
		return "'='"
	default:
		return "unknown"
	}
}

// Token is a single lexed token with its source span and literal text.
type Token struct {
	Kind      Kind
	Text      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}
