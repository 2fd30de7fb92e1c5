package parser

import (
	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
)

// parsePattern parses a binding target: name, _, [..] or {..}. Array and
// dict literals share these tokens; only pattern positions call this.
func (p *Parser) parsePattern() ast.Pattern {
	p.enter(p.curToken.Span)
	defer p.leave()

	switch p.curToken.Type {
	case lexer.IDENT:
		return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case lexer.WILDCARD:
		return &ast.WildcardPattern{Token: p.curToken}
	case lexer.LBRACKET:
		return p.parseArrayPattern()
	case lexer.LBRACE:
		return p.parseDictPattern()
	case lexer.ILLEGAL:
		p.failToken(p.curToken)
	}
	p.failAt("PARSE-0001", p.curToken.Span, map[string]any{
		"Expected": "pattern",
		"Got":      describeToken(p.curToken),
	})
	return nil
}

func (p *Parser) parseArrayPattern() *ast.ArrayPattern {
	pattern := &ast.ArrayPattern{Token: p.curToken, Elements: []ast.Pattern{}}

	for !p.peekTokenIs(lexer.RBRACKET) {
		p.nextToken()
		if p.curTokenIs(lexer.DOTDOTDOT) {
			pattern.Rest = p.parseRestElement(lexer.RBRACKET)
			break
		}
		pattern.Elements = append(pattern.Elements, p.parsePattern())
		if p.peekTokenIs(lexer.RBRACKET) {
			break
		}
		if !p.peekTokenIs(lexer.COMMA) {
			p.peekError(lexer.RBRACKET)
		}
		p.nextToken()
	}
	p.nextToken()

	pattern.Span = p.spanFrom(pattern.Token.Span)
	return pattern
}

func (p *Parser) parseDictPattern() *ast.DictPattern {
	pattern := &ast.DictPattern{Token: p.curToken, Entries: []*ast.DictPatternEntry{}}
	p.openBrace()

	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		if p.curTokenIs(lexer.DOTDOTDOT) {
			pattern.Rest = p.parseRestElement(lexer.RBRACE)
			break
		}

		p.expectCur(lexer.IDENT)
		entry := &ast.DictPatternEntry{Key: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			entry.Value = p.parsePattern()
		} else {
			entry.Shorthand = true
		}
		pattern.Entries = append(pattern.Entries, entry)

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

	pattern.Span = p.spanFrom(pattern.Token.Span)
	return pattern
}

// parseRestElement parses '...' with an optional name. Only a trailing
// comma may follow it before the closing bracket.
func (p *Parser) parseRestElement(closing lexer.TokenType) *ast.RestElement {
	rest := &ast.RestElement{Token: p.curToken}
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		rest.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}
	rest.Span = p.spanFrom(rest.Token.Span)

	switch {
	case p.peekTokenIs(closing):
	case p.peekTokenIs(lexer.COMMA):
		p.nextToken()
		switch {
		case p.peekTokenIs(closing):
		case p.peekTokenIs(lexer.DOTDOTDOT):
			p.failAt("PARSE-0004", p.peekToken.Span, nil)
		default:
			p.failAt("PARSE-0003", rest.Span, nil)
		}
	default:
		p.peekError(closing)
	}
	return rest
}
