package parser

import (
	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
)

// parseExpression parses an expression with the given precedence
func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.enter(p.curToken.Span)
	defer p.leave()

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.failToken(p.curToken)
	}
	leftExp := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		if p.peekTokenIs(lexer.LT) && p.tagAhead() {
			// The tag starts the next statement.
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	expression.Span = expression.Token.Span.Cover(expression.Right.Pos())
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	expression.Span = left.Pos().Cover(expression.Right.Pos())
	return expression
}

// parseNullishExpression parses 'a ?? b', grouping to the right.
func (p *Parser) parseNullishExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	p.nextToken()
	expression.Right = p.parseExpression(NULLISH - 1)
	expression.Span = left.Pos().Cover(expression.Right.Pos())
	return expression
}

// parseTernaryExpression parses 'cond ? a : b'.
func (p *Parser) parseTernaryExpression(condition ast.Expression) ast.Expression {
	expression := &ast.TernaryExpression{Token: p.curToken, Condition: condition}
	p.nextToken()
	expression.Consequence = p.parseExpression(LOWEST)
	p.expectPeek(lexer.COLON)
	p.nextToken()
	expression.Alternative = p.parseExpression(NULLISH - 1)
	expression.Span = condition.Pos().Cover(expression.Alternative.Pos())
	return expression
}

func (p *Parser) parseAssignmentExpression(target ast.Expression) ast.Expression {
	switch target.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.IndexExpression:
	default:
		p.failAt("PARSE-0005", target.Pos(), map[string]any{"Target": target.String()})
	}
	expression := &ast.AssignmentExpression{Token: p.curToken, Target: target}
	p.nextToken()
	expression.Value = p.parseExpression(ASSIGN - 1)
	expression.Span = target.Pos().Cover(expression.Value.Pos())
	return expression
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: fn}
	exp.Arguments = p.parseExpressionList(lexer.RPAREN)
	exp.Span = fn.Pos().Cover(p.curToken.Span)
	return exp
}

// parseIndexOrSliceExpression parses a[i], a[s:e], a[:e], a[s:] and a[:].
func (p *Parser) parseIndexOrSliceExpression(left ast.Expression) ast.Expression {
	bracket := p.curToken

	var start ast.Expression
	if !p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		start = p.parseExpression(LOWEST)
		if !p.peekTokenIs(lexer.COLON) {
			p.expectPeek(lexer.RBRACKET)
			return &ast.IndexExpression{
				Token: bracket,
				Span:  left.Pos().Cover(p.curToken.Span),
				Left:  left,
				Index: start,
			}
		}
	}

	p.nextToken() // ':'
	slice := &ast.SliceExpression{Token: bracket, Left: left, Start: start}
	if !p.peekTokenIs(lexer.RBRACKET) {
		p.nextToken()
		slice.End = p.parseExpression(LOWEST)
	}
	p.expectPeek(lexer.RBRACKET)
	slice.Span = left.Pos().Cover(p.curToken.Span)
	return slice
}

// parseMemberExpression parses 'obj.name'. Keywords are allowed as
// property names, so 'x.import' and 'x.if' are members.
func (p *Parser) parseMemberExpression(object ast.Expression) ast.Expression {
	dot := p.curToken
	p.nextToken()
	if !p.curTokenIs(lexer.IDENT) && !p.curToken.Type.IsKeyword() {
		if p.curToken.Type == lexer.ILLEGAL && p.curToken.Err != nil {
			p.fail(p.curToken.Err)
		}
		p.failAt("PARSE-0001", p.curToken.Span, map[string]any{
			"Expected": "property name",
			"Got":      describeToken(p.curToken),
		})
	}
	return &ast.MemberExpression{
		Token:    dot,
		Span:     object.Pos().Cover(p.curToken.Span),
		Object:   object,
		Property: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}
}

// parseExpressionList parses comma-separated elements up to end, allowing
// spreads and a trailing comma. curToken is left on end.
func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	list := []ast.Expression{}
	for !p.peekTokenIs(end) {
		p.nextToken()
		list = append(list, p.parseElement())
		if p.peekTokenIs(end) {
			break
		}
		if !p.peekTokenIs(lexer.COMMA) {
			p.peekError(end)
		}
		p.nextToken()
	}
	p.nextToken()
	return list
}

// parseElement parses one array element or call argument.
func (p *Parser) parseElement() ast.Expression {
	if !p.curTokenIs(lexer.DOTDOTDOT) {
		return p.parseExpression(LOWEST)
	}
	spread := &ast.SpreadElement{Token: p.curToken}
	p.nextToken()
	spread.Argument = p.parseExpression(LOWEST)
	spread.Span = spread.Token.Span.Cover(spread.Argument.Pos())
	return spread
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}
	array.Elements = p.parseExpressionList(lexer.RBRACKET)
	array.Span = p.spanFrom(array.Token.Span)
	return array
}

func (p *Parser) parseDictLiteral() ast.Expression {
	dict := &ast.DictLiteral{Token: p.curToken, Entries: []ast.DictEntry{}}
	p.openBrace()

	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		dict.Entries = append(dict.Entries, p.parseDictEntry())
		if p.peekTokenIs(lexer.RBRACE) {
			break
		}
		if !p.peekTokenIs(lexer.COMMA) {
			p.peekError(lexer.RBRACE)
		}
		p.nextToken()
	}
	p.nextToken()
	p.closeBrace()

	dict.Span = p.spanFrom(dict.Token.Span)
	return dict
}

// parseDictEntry parses 'key: value', a shorthand 'name', '[expr]: value'
// or '...expr'.
func (p *Parser) parseDictEntry() ast.DictEntry {
	switch {
	case p.curTokenIs(lexer.DOTDOTDOT):
		return p.parseElement().(*ast.SpreadElement)

	case p.curTokenIs(lexer.LBRACKET):
		entry := &ast.ComputedProperty{Token: p.curToken}
		p.nextToken()
		entry.Key = p.parseExpression(LOWEST)
		p.expectPeek(lexer.RBRACKET)
		p.expectPeek(lexer.COLON)
		p.nextToken()
		entry.Value = p.parseExpression(LOWEST)
		entry.Span = entry.Token.Span.Cover(entry.Value.Pos())
		return entry

	case p.curTokenIs(lexer.IDENT) && !p.peekTokenIs(lexer.COLON):
		return &ast.ShorthandProperty{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}
	}

	var key ast.Expression
	switch {
	case p.curTokenIs(lexer.IDENT), p.curToken.Type.IsKeyword():
		key = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case p.curTokenIs(lexer.STRING_START):
		key = p.parseStringLiteral()
	case p.curTokenIs(lexer.NUMBER):
		key = p.parseNumberLiteral()
	default:
		if p.curToken.Type == lexer.ILLEGAL && p.curToken.Err != nil {
			p.fail(p.curToken.Err)
		}
		p.failAt("PARSE-0001", p.curToken.Span, map[string]any{
			"Expected": "dictionary key",
			"Got":      describeToken(p.curToken),
		})
	}
	p.expectPeek(lexer.COLON)
	p.nextToken()
	return &ast.Pair{Key: key, Value: p.parseExpression(LOWEST)}
}

func (p *Parser) parseParenthesizedExpression() ast.Expression {
	paren := &ast.ParenthesizedExpression{Token: p.curToken}
	p.nextToken()
	paren.Inner = p.parseExpression(LOWEST)
	p.expectPeek(lexer.RPAREN)
	paren.Span = p.spanFrom(paren.Token.Span)
	return paren
}

// parseFunctionLiteral parses 'fn(params) body'. A body that starts with
// '{' is a block; anything else is a single expression.
func (p *Parser) parseFunctionLiteral() ast.Expression {
	fn := &ast.FunctionLiteral{Token: p.curToken, Keyword: p.curToken.Literal}
	p.expectPeek(lexer.LPAREN)
	fn.Parameters = p.parseFunctionParameters()

	p.nextToken()
	if p.curTokenIs(lexer.LBRACE) {
		fn.Body = p.parseBlockStatement()
	} else {
		fn.Body = p.parseExpression(LOWEST)
	}
	fn.Span = p.spanFrom(fn.Token.Span)
	return fn
}

// parseFunctionParameters parses the parameter list with curToken on '('
// and leaves curToken on ')'.
func (p *Parser) parseFunctionParameters() []*ast.Parameter {
	params := []*ast.Parameter{}
	for !p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		param := &ast.Parameter{}
		if p.curTokenIs(lexer.DOTDOTDOT) {
			dots := p.curToken
			p.expectPeek(lexer.IDENT)
			param.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
			param.Rest = true
			switch {
			case p.peekTokenIs(lexer.COMMA):
				p.nextToken()
				if !p.peekTokenIs(lexer.RPAREN) {
					p.failAt("PARSE-0009", dots.Span.Cover(p.prevToken.Span), nil)
				}
			case !p.peekTokenIs(lexer.RPAREN):
				p.peekError(lexer.RPAREN)
			}
			params = append(params, param)
			continue
		}

		param.Name = p.parsePattern()
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(ASSIGN)
		}
		params = append(params, param)

		if p.peekTokenIs(lexer.RPAREN) {
			break
		}
		if !p.peekTokenIs(lexer.COMMA) {
			p.peekError(lexer.RPAREN)
		}
		p.nextToken()
	}
	p.nextToken()
	return params
}

// parseForExpression parses 'for pattern in iterable { body }' or the
// shorthand 'for iterable'.
func (p *Parser) parseForExpression() ast.Expression {
	expression := &ast.ForExpression{Token: p.curToken}

	var pattern ast.Pattern
	long := p.speculate(func() {
		p.nextToken()
		pattern = p.parsePattern()
		p.expectPeek(lexer.IN)
	})

	if !long {
		p.nextToken()
		expression.Iterable = p.parseExpression(LOWEST)
		expression.Span = p.spanFrom(expression.Token.Span)
		return expression
	}

	expression.Pattern = pattern
	p.nextToken()
	expression.Iterable = p.parseExpression(LOWEST)
	p.expectPeek(lexer.LBRACE)
	expression.Body = p.parseBlockStatement()
	expression.Span = p.spanFrom(expression.Token.Span)
	return expression
}

// parseIfExpression parses 'if cond { } else if cond { } else { }'.
func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfExpression{Token: p.curToken}
	p.nextToken()
	expression.Condition = p.parseExpression(LOWEST)
	p.expectPeek(lexer.LBRACE)
	expression.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			expression.Alternative = p.parseIfExpression()
		} else {
			p.expectPeek(lexer.LBRACE)
			expression.Alternative = p.parseBlockStatement()
		}
	}

	expression.Span = p.spanFrom(expression.Token.Span)
	return expression
}

func (p *Parser) parseTryExpression() ast.Expression {
	expression := &ast.TryExpression{Token: p.curToken}
	p.nextToken()
	expression.Expression = p.parseExpression(PREFIX)
	expression.Span = p.spanFrom(expression.Token.Span)
	return expression
}

// parseImportExpression parses 'import source [as name]'.
func (p *Parser) parseImportExpression() ast.Expression {
	expression := &ast.ImportExpression{Token: p.curToken}
	p.nextToken()
	expression.Source = p.parseExpression(PREFIX)
	if p.peekTokenIs(lexer.AS) {
		p.nextToken()
		p.expectPeek(lexer.IDENT)
		expression.Alias = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}
	expression.Span = p.spanFrom(expression.Token.Span)
	return expression
}
