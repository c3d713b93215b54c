package jspy

import "strconv"

const (
	lowestPrec int = iota
	orPrec
	andPrec
	notPrec
	comparePrec
	sumPrec
	productPrec
	prefixPrec
	callPrec
)

var precedences = map[TokenType]int{
	tokenOr:       orPrec,
	tokenAnd:      andPrec,
	tokenEQ:       comparePrec,
	tokenNotEQ:    comparePrec,
	tokenLT:       comparePrec,
	tokenLTE:      comparePrec,
	tokenGT:       comparePrec,
	tokenGTE:      comparePrec,
	tokenPlus:     sumPrec,
	tokenMinus:    sumPrec,
	tokenAsterisk: productPrec,
	tokenSlash:    productPrec,
	tokenPercent:  productPrec,
	tokenLParen:   callPrec,
	tokenDot:      callPrec,
	tokenLBracket: callPrec,
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) parseExpression(precedence int) Node {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorUnexpected(p.curToken)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekIs(tokenNewline, tokenEOF) && precedence < p.peekPrecedence() {
		if p.curToken.Type == tokenDedent {
			return left
		}
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *parser) parseIdentifier() Node {
	tok := p.curToken
	if p.peekToken.Type == tokenArrow {
		p.nextToken()
		return p.parseArrowBody([]string{tok.Literal}, tok.Pos)
	}
	return &GetVarNode{Name: tok.Literal, position: tok.Pos}
}

func (p *parser) parseNumberLiteral() Node {
	tok := p.curToken
	val, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errors = append(p.errors, newParseError(tok.Pos, "invalid number %s", tok.Literal))
		return nil
	}
	return &ConstNode{Value: NewNumber(val), position: tok.Pos}
}

func (p *parser) parseStringLiteral() Node {
	return &ConstNode{Value: NewString(p.curToken.Literal), position: p.curToken.Pos}
}

func (p *parser) parseBooleanLiteral() Node {
	return &ConstNode{Value: NewBool(p.curToken.Type == tokenTrue), position: p.curToken.Pos}
}

func (p *parser) parseNullLiteral() Node {
	return &ConstNode{Value: NewNull(), position: p.curToken.Pos}
}

func (p *parser) parsePrefixExpression() Node {
	tok := p.curToken
	prec := prefixPrec
	if tok.Type == tokenNot {
		prec = notPrec
	}
	p.nextToken()
	operand := p.parseExpression(prec)
	if operand == nil {
		return nil
	}
	return &UnaryOpNode{Op: tok.Literal, Operand: operand, position: tok.Pos}
}

func (p *parser) parseInfixExpression(left Node) Node {
	tok := p.curToken
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &BinOpNode{Op: tok.Literal, Left: left, Right: right, position: tok.Pos}
}

func (p *parser) parseLogicalExpression(left Node) Node {
	tok := p.curToken
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &LogicalOpNode{Op: tok.Literal, Left: left, Right: right, position: tok.Pos}
}

// parseParenExpression handles both grouping and the parameter list of an
// arrow function.
func (p *parser) parseParenExpression() Node {
	pos := p.curToken.Pos
	if p.isArrowParams() {
		params, ok := p.parseParamList()
		if !ok {
			return nil
		}
		if !p.expectPeek(tokenArrow) {
			return nil
		}
		return p.parseArrowBody(params, pos)
	}

	p.nextToken()
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return expr
}

// isArrowParams reports whether the parenthesis at curToken closes onto "=>".
func (p *parser) isArrowParams() bool {
	depth := 0
	for i := p.index; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case tokenLParen:
			depth++
		case tokenRParen:
			depth--
			if depth == 0 {
				return p.tokenAt(i+1).Type == tokenArrow
			}
		case tokenEOF:
			return false
		}
	}
	return false
}

// parseArrowBody parses what follows "=>": an expression on the same line or
// an indented block.
func (p *parser) parseArrowBody(params []string, pos Position) Node {
	body := &Block{Name: "arrow"}
	if p.peekToken.Type == tokenNewline && p.peekN(2).Type == tokenIndent {
		p.nextToken()
		p.nextToken()
		p.nextToken()
		p.parseStatements(body, tokenDedent)
		return &ArrowFuncDefNode{Params: params, Body: body, position: pos}
	}

	p.nextToken()
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	body.Body = []Node{expr}
	return &ArrowFuncDefNode{Params: params, Body: body, position: pos}
}

func (p *parser) parseArrayLiteral() Node {
	pos := p.curToken.Pos
	items, ok := p.parseExpressionList(tokenRBracket)
	if !ok {
		return nil
	}
	return &CreateArrayNode{Items: items, position: pos}
}

// parseExpressionList parses comma-separated expressions up to end, allowing a
// trailing comma. curToken is the opening token on entry and end on return.
func (p *parser) parseExpressionList(end TokenType) ([]Node, bool) {
	list := []Node{}
	if p.peekToken.Type == end {
		p.nextToken()
		return list, true
	}
	for {
		p.nextToken()
		expr := p.parseExpression(lowestPrec)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
		if p.peekToken.Type != tokenComma {
			break
		}
		p.nextToken()
		if p.peekToken.Type == end {
			break
		}
	}
	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

func (p *parser) parseObjectLiteral() Node {
	pos := p.curToken.Pos
	props := []ObjectProp{}
	for p.peekToken.Type != tokenRBrace {
		p.nextToken()
		var name Node
		switch p.curToken.Type {
		case tokenIdent, tokenString:
			name = &ConstNode{Value: NewString(p.curToken.Literal), position: p.curToken.Pos}
		case tokenNumber:
			num := p.parseNumberLiteral()
			if num == nil {
				return nil
			}
			name = num
		default:
			p.errorExpected(p.curToken, "property name")
			return nil
		}
		if !p.expectPeek(tokenColon) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(lowestPrec)
		if value == nil {
			return nil
		}
		props = append(props, ObjectProp{Name: name, Value: value})
		if p.peekToken.Type != tokenComma {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(tokenRBrace) {
		return nil
	}
	return &CreateObjectNode{Props: props, position: pos}
}

func (p *parser) parseCallExpression(callee Node) Node {
	pos := p.curToken.Pos
	args, ok := p.parseExpressionList(tokenRParen)
	if !ok {
		return nil
	}
	if ident, isIdent := callee.(*GetVarNode); isIdent {
		return &FuncCallNode{Name: ident.Name, Args: args, position: ident.position}
	}
	return &FuncCallNode{Callee: callee, Args: args, position: pos}
}

// parseDotExpression extends a dot chain with one segment. A name directly
// followed by "(" or "[" becomes a method call or a bracket access on that
// property.
func (p *parser) parseDotExpression(left Node) Node {
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	tok := p.curToken

	var segment Node
	switch p.peekToken.Type {
	case tokenLParen:
		p.nextToken()
		args, ok := p.parseExpressionList(tokenRParen)
		if !ok {
			return nil
		}
		segment = &FuncCallNode{Name: tok.Literal, Args: args, position: tok.Pos}
	case tokenLBracket:
		p.nextToken()
		key := p.parseBracketKey()
		if key == nil {
			return nil
		}
		segment = &BracketAccessNode{PropertyName: tok.Literal, Key: key, position: tok.Pos}
	default:
		segment = &GetVarNode{Name: tok.Literal, position: tok.Pos}
	}
	return appendChain(left, segment)
}

func (p *parser) parseIndexExpression(left Node) Node {
	pos := p.curToken.Pos
	key := p.parseBracketKey()
	if key == nil {
		return nil
	}
	if ident, ok := left.(*GetVarNode); ok {
		return &BracketAccessNode{PropertyName: ident.Name, Key: key, position: ident.position}
	}
	return appendChain(left, &BracketAccessNode{Key: key, position: pos})
}

// parseBracketKey parses the key expression between "[" and "]".
func (p *parser) parseBracketKey() Node {
	p.nextToken()
	key := p.parseExpression(lowestPrec)
	if key == nil {
		return nil
	}
	if !p.expectPeek(tokenRBracket) {
		return nil
	}
	return key
}

func appendChain(left, segment Node) Node {
	if chain, ok := left.(*DotAccessNode); ok {
		props := make([]Node, 0, len(chain.Props)+1)
		props = append(props, chain.Props...)
		props = append(props, segment)
		return &DotAccessNode{Props: props, position: chain.position}
	}
	return &DotAccessNode{Props: []Node{left, segment}, position: left.Pos()}
}

// parseSource tokenizes and parses source into a block. Import lines must
// already have been blanked out.
func parseSource(source string) (*Block, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	program, errs := newParser(tokens).ParseProgram()
	if len(errs) > 0 {
		return nil, combineErrors(errs)
	}
	return program, nil
}
