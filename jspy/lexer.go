package jspy

import (
	"fmt"
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

var (
	lexerOnce sync.Once
	lexerDFA  *lexmachine.Lexer
	lexerErr  error
)

var operatorTokens = []struct {
	literal string
	tt      TokenType
}{
	{"==", tokenEQ},
	{"!=", tokenNotEQ},
	{"<=", tokenLTE},
	{">=", tokenGTE},
	{"=>", tokenArrow},
	{"=", tokenAssign},
	{"+", tokenPlus},
	{"-", tokenMinus},
	{"*", tokenAsterisk},
	{"/", tokenSlash},
	{"%", tokenPercent},
	{"<", tokenLT},
	{">", tokenGT},
	{",", tokenComma},
	{":", tokenColon},
	{".", tokenDot},
	{"(", tokenLParen},
	{")", tokenRParen},
	{"{", tokenLBrace},
	{"}", tokenRBrace},
	{"[", tokenLBracket},
	{"]", tokenRBracket},
}

func makeToken(tt TokenType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(tt), string(m.Bytes), m), nil
	}
}

func skipMatch(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func identOrKeyword(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	literal := string(m.Bytes)
	if tt, ok := keywords[literal]; ok {
		return s.Token(int(tt), literal, m), nil
	}
	return s.Token(int(tokenIdent), literal, m), nil
}

func compiledLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		lx := lexmachine.NewLexer()
		lx.Add([]byte(`( )+`), skipMatch)
		lx.Add([]byte(`\r`), skipMatch)
		lx.Add([]byte(`#[^\n]*`), skipMatch)
		lx.Add([]byte(`\n( )*`), makeToken(tokenLineBreak))
		lx.Add([]byte(`[0-9]+(\.[0-9]+)?`), makeToken(tokenNumber))
		lx.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), identOrKeyword)
		lx.Add([]byte(`"([^\\"\n]|(\\.))*"`), makeToken(tokenString))
		lx.Add([]byte(`'([^\\'\n]|(\\.))*'`), makeToken(tokenString))
		for _, op := range operatorTokens {
			pattern := "\\" + strings.Join(strings.Split(op.literal, ""), "\\")
			lx.Add([]byte(pattern), makeToken(op.tt))
		}
		if err := lx.Compile(); err != nil {
			lexerErr = fmt.Errorf("jspy: compile lexer: %w", err)
			return
		}
		lexerDFA = lx
	})
	return lexerDFA, lexerErr
}

// normalizeSource applies the tokenizer's source conventions: tabs count as
// two spaces and line endings are plain newlines.
func normalizeSource(source string) string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return strings.ReplaceAll(source, "\t", "  ")
}

// tokenize scans source into a token stream with NEWLINE, INDENT and DEDENT
// tokens. Line breaks inside (), [] and {} are not significant.
func tokenize(source string) ([]Token, error) {
	lx, err := compiledLexer()
	if err != nil {
		return nil, err
	}
	scanner, err := lx.Scanner([]byte(normalizeSource(source)))
	if err != nil {
		return nil, err
	}

	var (
		out     []Token
		indents []int
		depth   int
		pending = -1
		lastPos = Position{Line: 1, Column: 1}
	)

	for tok, serr, eos := scanner.Next(); !eos; tok, serr, eos = scanner.Next() {
		if serr != nil {
			if ui, ok := serr.(*machines.UnconsumedInput); ok {
				pos := Position{Line: ui.StartLine, Column: ui.StartColumn}
				if ui.StartTC < len(ui.Text) {
					return nil, newParseError(pos, "unexpected character %q", ui.Text[ui.StartTC])
				}
				return nil, newParseError(pos, "unexpected end of input")
			}
			return nil, serr
		}
		lt := tok.(*lexmachine.Token)
		tt := TokenType(lt.Type)
		if tt == tokenLineBreak {
			if depth == 0 {
				pending = len(lt.Lexeme) - 1
			}
			continue
		}

		pos := Position{Line: lt.StartLine, Column: lt.StartColumn}
		switch {
		case indents == nil:
			// the first line sets the baseline indentation
			if pending < 0 {
				pending = max(lt.StartColumn-1, 0)
			}
			indents = []int{pending}
		case pending >= 0:
			out = append(out, Token{Type: tokenNewline, Pos: lastPos})
			top := indents[len(indents)-1]
			if pending > top {
				indents = append(indents, pending)
				out = append(out, Token{Type: tokenIndent, Pos: pos})
				break
			}
			for pending < indents[len(indents)-1] {
				indents = indents[:len(indents)-1]
				out = append(out, Token{Type: tokenDedent, Pos: pos})
				if len(indents) == 0 {
					return nil, newParseError(pos, "unindent below the first line")
				}
			}
			if pending != indents[len(indents)-1] {
				return nil, newParseError(pos, "unindent does not match any outer indentation level")
			}
		}
		pending = -1

		switch tt {
		case tokenLParen, tokenLBracket, tokenLBrace:
			depth++
		case tokenRParen, tokenRBracket, tokenRBrace:
			if depth > 0 {
				depth--
			}
		}

		literal := string(lt.Lexeme)
		if tt == tokenString {
			literal = unquote(literal)
		}
		out = append(out, Token{Type: tt, Literal: literal, Pos: pos})
		lastPos = Position{Line: lt.EndLine, Column: lt.EndColumn + 1}
	}

	if len(out) > 0 {
		out = append(out, Token{Type: tokenNewline, Pos: lastPos})
	}
	for len(indents) > 1 {
		indents = indents[:len(indents)-1]
		out = append(out, Token{Type: tokenDedent, Pos: lastPos})
	}
	out = append(out, Token{Type: tokenEOF, Pos: lastPos})
	return out, nil
}

// unquote strips the surrounding quotes and resolves backslash escapes.
func unquote(raw string) string {
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i+1 >= len(body) {
			sb.WriteByte(ch)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String()
}
