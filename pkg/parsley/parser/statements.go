package parser

import (
	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
)

// ParseProgram parses the entire program
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}
	start := p.curToken.Span

	func() {
		defer func() {
			// A fail-fast bailout ends the whole parse.
			if r := recover(); r != nil {
				if _, ok := r.(bailout); !ok {
					panic(r)
				}
			}
		}()
		for !p.curTokenIs(lexer.EOF) {
			if stmt := p.statement(); stmt != nil {
				program.Statements = append(program.Statements, stmt)
			}
			p.nextToken()
		}
	}()

	program.Span = p.spanFrom(start)
	if p.opts.Sink != nil {
		for _, err := range p.errors {
			p.opts.Sink.Report(err)
		}
	}
	return program
}

// statement parses one statement, standing in a BadStatement for it in
// tolerant mode when it is malformed.
func (p *Parser) statement() (stmt ast.Statement) {
	start := p.curToken
	defer p.recoverTo(start, p.braces, func() {
		stmt = &ast.BadStatement{Token: start, Span: p.spanFrom(start.Span)}
	})
	return p.parseStatement()
}

// parseStatement parses a statement, leaving curToken on its last token.
// A bare ';' is an empty statement and yields nil.
func (p *Parser) parseStatement() ast.Statement {
	var stmt ast.Statement
	switch p.curToken.Type {
	case lexer.SEMICOLON:
		return nil
	case lexer.LET:
		stmt = p.parseLetStatement()
	case lexer.EXPORT:
		stmt = p.parseExportStatement()
	case lexer.RETURN:
		stmt = p.parseReturnStatement()
	case lexer.CHECK:
		stmt = p.parseCheckStatement()
	case lexer.IDENT:
		p.checkKeywordTypo()
		stmt = p.parseExpressionStatement()
	default:
		stmt = p.parseExpressionStatement()
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// checkKeywordTypo reports 'lett x = 1' and the like: a known misspelling
// of a keyword followed directly by another identifier.
func (p *Parser) checkKeywordTypo() {
	if !p.peekTokenIs(lexer.IDENT) {
		return
	}
	suggestion := perrors.KeywordTypo(p.curToken.Literal)
	if suggestion == "" {
		return
	}
	p.failAt("PARSE-0010", p.curToken.Span, map[string]any{
		"Got":        p.curToken.Literal,
		"Suggestion": suggestion,
	})
}

// parseLetStatement parses 'let pattern = value'.
func (p *Parser) parseLetStatement() *ast.LetStatement {
	stmt := &ast.LetStatement{Token: p.curToken}
	p.nextToken()
	stmt.Pattern = p.parsePattern()
	p.expectPeek(lexer.ASSIGN)
	p.nextToken()
	stmt.Value = p.parseValue()
	stmt.Span = p.spanFrom(stmt.Token.Span)
	return stmt
}

// parseExportStatement parses 'export [computed] name = value'.
func (p *Parser) parseExportStatement() *ast.ExportStatement {
	stmt := &ast.ExportStatement{Token: p.curToken}
	if p.peekTokenIs(lexer.COMPUTED) {
		p.nextToken()
		stmt.Computed = true
	}
	p.expectPeek(lexer.IDENT)
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.expectPeek(lexer.ASSIGN)
	p.nextToken()
	stmt.Value = p.parseValue()
	stmt.Span = p.spanFrom(stmt.Token.Span)
	return stmt
}

// parseReturnStatement parses 'return' with an optional value.
func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	switch p.peekToken.Type {
	case lexer.RBRACE, lexer.EOF, lexer.SEMICOLON:
	default:
		p.nextToken()
		stmt.Value = p.parseValue()
	}
	stmt.Span = p.spanFrom(stmt.Token.Span)
	return stmt
}

// parseCheckStatement parses 'check cond' with an optional block.
func (p *Parser) parseCheckStatement() *ast.CheckStatement {
	stmt := &ast.CheckStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		stmt.Body = p.parseBlockStatement()
	}
	stmt.Span = p.spanFrom(stmt.Token.Span)
	return stmt
}

// parseExpressionStatement parses an expression used as a statement
func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseValue()
	stmt.Span = p.spanFrom(stmt.Token.Span)
	return stmt
}

// parseValue parses the expression on the right of a statement. In
// tolerant mode a malformed expression becomes a BadExpression so the
// statement around it survives.
func (p *Parser) parseValue() (expr ast.Expression) {
	if !p.opts.Tolerant {
		return p.parseExpression(LOWEST)
	}
	start := p.curToken
	defer p.recoverTo(start, p.braces, func() {
		expr = &ast.BadExpression{Token: start, Span: p.spanFrom(start.Span)}
	})
	return p.parseExpression(LOWEST)
}

// parseBlockStatement parses '{ statements }' with curToken on '{' and
// leaves curToken on '}'.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	p.enter(p.curToken.Span)
	defer p.leave()

	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}
	p.openBrace()
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) {
		if p.curTokenIs(lexer.EOF) {
			p.failAt("PARSE-0001", p.curToken.Span, map[string]any{
				"Expected": "'}'",
				"Got":      "end of file",
			})
		}
		if stmt := p.statement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	p.closeBrace()

	block.Span = p.spanFrom(block.Token.Span)
	return block
}
