package jspy

import "slices"

type (
	prefixParseFn func() Node
	infixParseFn  func(Node) Node
)

type parser struct {
	tokens []Token
	index  int

	curToken  Token
	peekToken Token

	errors []error

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn
}

func newParser(tokens []Token) *parser {
	p := &parser{tokens: tokens, index: -2}

	p.prefixFns = make(map[TokenType]prefixParseFn)
	p.infixFns = make(map[TokenType]infixParseFn)

	p.registerPrefix(tokenIdent, p.parseIdentifier)
	p.registerPrefix(tokenNumber, p.parseNumberLiteral)
	p.registerPrefix(tokenString, p.parseStringLiteral)
	p.registerPrefix(tokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(tokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(tokenNull, p.parseNullLiteral)
	p.registerPrefix(tokenLParen, p.parseParenExpression)
	p.registerPrefix(tokenLBracket, p.parseArrayLiteral)
	p.registerPrefix(tokenLBrace, p.parseObjectLiteral)
	p.registerPrefix(tokenMinus, p.parsePrefixExpression)
	p.registerPrefix(tokenNot, p.parsePrefixExpression)

	for _, tt := range []TokenType{tokenPlus, tokenMinus, tokenAsterisk, tokenSlash, tokenPercent,
		tokenEQ, tokenNotEQ, tokenLT, tokenLTE, tokenGT, tokenGTE} {
		p.infixFns[tt] = p.parseInfixExpression
	}
	p.infixFns[tokenAnd] = p.parseLogicalExpression
	p.infixFns[tokenOr] = p.parseLogicalExpression
	p.infixFns[tokenLParen] = p.parseCallExpression
	p.infixFns[tokenDot] = p.parseDotExpression
	p.infixFns[tokenLBracket] = p.parseIndexExpression

	p.nextToken()
	p.nextToken()

	return p
}

func (p *parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *parser) tokenAt(i int) Token {
	if i < 0 {
		return Token{Type: tokenIllegal}
	}
	if i >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return Token{Type: tokenEOF}
		}
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) nextToken() {
	p.index++
	p.curToken = p.tokenAt(p.index)
	p.peekToken = p.tokenAt(p.index + 1)
}

// peekN returns the token n positions after the current one.
func (p *parser) peekN(n int) Token {
	return p.tokenAt(p.index + n)
}

func (p *parser) peekIs(types ...TokenType) bool {
	return slices.Contains(types, p.peekToken.Type)
}

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, tt.String())
	return false
}

func (p *parser) errorExpected(tok Token, what string) {
	p.errors = append(p.errors, newParseError(tok.Pos, "expected %s, got %s", what, describeToken(tok)))
}

func (p *parser) errorUnexpected(tok Token) {
	p.errors = append(p.errors, newParseError(tok.Pos, "unexpected %s", describeToken(tok)))
}

func describeToken(tok Token) string {
	switch tok.Type {
	case tokenIdent, tokenNumber:
		return tok.Literal
	case tokenString:
		return "string " + tok.Literal
	case tokenEOF:
		return "end of input"
	case tokenNewline:
		return "end of line"
	case tokenIndent:
		return "indent"
	case tokenDedent:
		return "dedent"
	default:
		return tok.Type.String()
	}
}

// skipLine drops the rest of the current line after a syntax error.
func (p *parser) skipLine() {
	for !p.peekIs(tokenNewline, tokenEOF, tokenDedent) {
		p.nextToken()
	}
}

// ParseProgram parses a whole script into its top-level block.
func (p *parser) ParseProgram() (*Block, []error) {
	program := &Block{Name: "module"}
	p.parseStatements(program, tokenEOF)
	return program, p.errors
}

// parseStatements fills block until the stop token. On return curToken is
// the stop token.
func (p *parser) parseStatements(block *Block, stop TokenType) {
	for p.curToken.Type != stop && p.curToken.Type != tokenEOF {
		if p.curToken.Type == tokenNewline {
			p.nextToken()
			continue
		}
		errCount := len(p.errors)
		p.parseStatementInto(block)
		if len(p.errors) > errCount {
			p.skipLine()
		}
		p.nextToken()
	}
}

func (p *parser) parseStatementInto(block *Block) {
	switch p.curToken.Type {
	case tokenDef:
		if fn := p.parseFunctionDefinition(); fn != nil {
			block.Funcs = append(block.Funcs, fn)
		}
		return
	case tokenIf:
		if stmt := p.parseIfStatement(); stmt != nil {
			block.Body = append(block.Body, stmt)
		}
		return
	case tokenFor:
		if stmt := p.parseForStatement(); stmt != nil {
			block.Body = append(block.Body, stmt)
		}
		return
	case tokenWhile:
		if stmt := p.parseWhileStatement(); stmt != nil {
			block.Body = append(block.Body, stmt)
		}
		return
	}

	stmt := p.parseSimpleStatement()
	if stmt == nil {
		return
	}
	if p.curToken.Type != tokenDedent && !p.peekIs(tokenNewline, tokenEOF, tokenDedent) {
		p.errorExpected(p.peekToken, "end of line")
		return
	}
	block.Body = append(block.Body, stmt)
}

// parseSimpleStatement parses a statement that fits on one line. A nil result
// with no recorded error means the statement produces no node (pass).
func (p *parser) parseSimpleStatement() Node {
	switch p.curToken.Type {
	case tokenReturn:
		return p.parseReturnStatement()
	case tokenBreak:
		return &BreakNode{position: p.curToken.Pos}
	case tokenContinue:
		return &ContinueNode{position: p.curToken.Pos}
	case tokenPass:
		return nil
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

func (p *parser) parseFunctionDefinition() *FuncDefNode {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	params, ok := p.parseParamList()
	if !ok {
		return nil
	}
	body := p.parseSuite(name)
	if body == nil {
		return nil
	}
	return &FuncDefNode{Name: name, Params: params, Body: body, position: pos}
}

// parseParamList parses identifiers up to the closing paren. curToken is the
// opening paren on entry and the closing paren on return.
func (p *parser) parseParamList() ([]string, bool) {
	params := []string{}
	if p.peekToken.Type == tokenRParen {
		p.nextToken()
		return params, true
	}
	for {
		if !p.expectPeek(tokenIdent) {
			return nil, false
		}
		params = append(params, p.curToken.Literal)
		if p.peekToken.Type != tokenComma {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(tokenRParen) {
		return nil, false
	}
	return params, true
}

// parseSuite parses ":" followed by either an indented block or a single
// statement on the same line.
func (p *parser) parseSuite(name string) *Block {
	if !p.expectPeek(tokenColon) {
		return nil
	}
	block := &Block{Name: name}
	if p.peekToken.Type != tokenNewline {
		p.nextToken()
		stmt := p.parseSimpleStatement()
		if stmt != nil {
			block.Body = append(block.Body, stmt)
		}
		return block
	}
	p.nextToken()
	if !p.expectPeek(tokenIndent) {
		return nil
	}
	p.nextToken()
	p.parseStatements(block, tokenDedent)
	return block
}

// continuesWith consumes a line break when the next line starts with tt.
func (p *parser) continuesWith(tt TokenType) bool {
	if p.peekToken.Type == tt {
		return true
	}
	if p.peekToken.Type == tokenNewline && p.peekN(2).Type == tt {
		p.nextToken()
		return true
	}
	return false
}

func (p *parser) parseIfStatement() Node {
	pos := p.curToken.Pos
	p.nextToken()
	condition := p.parseExpression(lowestPrec)
	if condition == nil {
		return nil
	}
	then := p.parseSuite("if")
	if then == nil {
		return nil
	}
	stmt := &IfNode{Condition: condition, Then: then, position: pos}

	switch {
	case p.continuesWith(tokenElif):
		p.nextToken()
		nested := p.parseIfStatement()
		if nested == nil {
			return nil
		}
		stmt.Else = &Block{Name: "elif", Body: []Node{nested}}
	case p.continuesWith(tokenElse):
		p.nextToken()
		alt := p.parseSuite("else")
		if alt == nil {
			return nil
		}
		stmt.Else = alt
	}
	return stmt
}

func (p *parser) parseForStatement() Node {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	iterator := p.curToken.Literal
	if !p.expectPeek(tokenIn) {
		return nil
	}
	p.nextToken()
	iterable := p.parseExpression(lowestPrec)
	if iterable == nil {
		return nil
	}
	body := p.parseSuite("for")
	if body == nil {
		return nil
	}
	return &ForNode{Iterator: iterator, Iterable: iterable, Body: body, position: pos}
}

func (p *parser) parseWhileStatement() Node {
	pos := p.curToken.Pos
	p.nextToken()
	condition := p.parseExpression(lowestPrec)
	if condition == nil {
		return nil
	}
	body := p.parseSuite("while")
	if body == nil {
		return nil
	}
	return &WhileNode{Condition: condition, Body: body, position: pos}
}

func (p *parser) parseReturnStatement() Node {
	pos := p.curToken.Pos
	if p.peekIs(tokenNewline, tokenEOF, tokenDedent) {
		return &ReturnNode{position: pos}
	}
	p.nextToken()
	value := p.parseExpression(lowestPrec)
	if value == nil {
		return nil
	}
	return &ReturnNode{Value: value, position: pos}
}

func (p *parser) parseExpressionOrAssignStatement() Node {
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	if p.peekToken.Type != tokenAssign {
		return expr
	}

	target, ok := assignmentTarget(expr)
	if !ok {
		p.errors = append(p.errors, newParseError(expr.Pos(), "cannot assign to expression"))
		return nil
	}
	p.nextToken()
	p.nextToken()
	source := p.parseExpression(lowestPrec)
	if source == nil {
		return nil
	}
	return &AssignNode{Target: target, Source: source, position: expr.Pos()}
}

// assignmentTarget converts a parsed expression into an assignment target.
// Bracket targets are accepted here and rejected by the evaluator.
func assignmentTarget(expr Node) (Node, bool) {
	switch e := expr.(type) {
	case *GetVarNode:
		return &SetVarNode{Name: e.Name, position: e.position}, true
	case *DotAccessNode, *BracketAccessNode:
		return expr, true
	default:
		return nil, false
	}
}
