package jspy

// TokenType identifies the lexical category of a token.
type TokenType int

const (
	tokenIllegal TokenType = iota
	tokenEOF
	tokenNewline
	tokenIndent
	tokenDedent

	tokenIdent
	tokenNumber
	tokenString

	tokenAssign
	tokenPlus
	tokenMinus
	tokenAsterisk
	tokenSlash
	tokenPercent
	tokenLT
	tokenGT
	tokenLTE
	tokenGTE
	tokenEQ
	tokenNotEQ
	tokenArrow

	tokenComma
	tokenColon
	tokenDot
	tokenLParen
	tokenRParen
	tokenLBrace
	tokenRBrace
	tokenLBracket
	tokenRBracket

	tokenDef
	tokenReturn
	tokenIf
	tokenElif
	tokenElse
	tokenFor
	tokenIn
	tokenWhile
	tokenBreak
	tokenContinue
	tokenPass
	tokenAnd
	tokenOr
	tokenNot
	tokenTrue
	tokenFalse
	tokenNull

	// lexer-internal tokens, consumed by the indentation pass
	tokenLineBreak
	tokenSkip
)

var tokenNames = map[TokenType]string{
	tokenIllegal:  "ILLEGAL",
	tokenEOF:      "EOF",
	tokenNewline:  "NEWLINE",
	tokenIndent:   "INDENT",
	tokenDedent:   "DEDENT",
	tokenIdent:    "IDENT",
	tokenNumber:   "NUMBER",
	tokenString:   "STRING",
	tokenAssign:   "=",
	tokenPlus:     "+",
	tokenMinus:    "-",
	tokenAsterisk: "*",
	tokenSlash:    "/",
	tokenPercent:  "%",
	tokenLT:       "<",
	tokenGT:       ">",
	tokenLTE:      "<=",
	tokenGTE:      ">=",
	tokenEQ:       "==",
	tokenNotEQ:    "!=",
	tokenArrow:    "=>",
	tokenComma:    ",",
	tokenColon:    ":",
	tokenDot:      ".",
	tokenLParen:   "(",
	tokenRParen:   ")",
	tokenLBrace:   "{",
	tokenRBrace:   "}",
	tokenLBracket: "[",
	tokenRBracket: "]",
	tokenDef:      "def",
	tokenReturn:   "return",
	tokenIf:       "if",
	tokenElif:     "elif",
	tokenElse:     "else",
	tokenFor:      "for",
	tokenIn:       "in",
	tokenWhile:    "while",
	tokenBreak:    "break",
	tokenContinue: "continue",
	tokenPass:     "pass",
	tokenAnd:      "and",
	tokenOr:       "or",
	tokenNot:      "not",
	tokenTrue:     "true",
	tokenFalse:    "false",
	tokenNull:     "null",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

var keywords = map[string]TokenType{
	"def":      tokenDef,
	"return":   tokenReturn,
	"if":       tokenIf,
	"elif":     tokenElif,
	"else":     tokenElse,
	"for":      tokenFor,
	"in":       tokenIn,
	"while":    tokenWhile,
	"break":    tokenBreak,
	"continue": tokenContinue,
	"pass":     tokenPass,
	"and":      tokenAnd,
	"or":       tokenOr,
	"not":      tokenNot,
	"True":     tokenTrue,
	"true":     tokenTrue,
	"False":    tokenFalse,
	"false":    tokenFalse,
	"None":     tokenNull,
	"null":     tokenNull,
}

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a line and column in the source text. Both are 1-based.
type Position struct {
	Line   int
	Column int
}
