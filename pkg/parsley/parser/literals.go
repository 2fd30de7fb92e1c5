package parser

import (
	"errors"
	"strings"

	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
	"github.com/sambeau/parsley-syntax/pkg/parsley/literal"
)

// failLiteral reports a literal whose text the lexer accepted but whose
// value is out of range, such as @2024-13-01.
func (p *Parser) failLiteral(err error) {
	var perr *perrors.ParsleyError
	if !errors.As(err, &perr) {
		perr = perrors.New("LEX-0008", map[string]any{
			"Kind":    "literal",
			"Literal": p.curToken.Literal,
			"Reason":  err.Error(),
		})
	}
	p.fail(perr.At(p.curToken.Span.ErrorSpan()))
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	return &ast.NumberLiteral{
		Token:      p.curToken,
		Value:      p.curToken.Literal,
		Fractional: strings.Contains(p.curToken.Literal, "."),
	}
}

func (p *Parser) parseMoneyLiteral() ast.Expression {
	m, err := literal.ParseMoney(p.curToken.Literal)
	if err != nil {
		p.failLiteral(err)
	}
	return &ast.MoneyLiteral{
		Token:    p.curToken,
		Currency: m.Currency,
		Code:     m.Code,
		Amount:   m.Amount,
		Scale:    m.Scale,
		Units:    m.Units,
	}
}

// parseRegexLiteral splits /pattern/flags at the last slash.
func (p *Parser) parseRegexLiteral() ast.Expression {
	lit := p.curToken.Literal
	end := strings.LastIndexByte(lit, '/')
	return &ast.RegexLiteral{
		Token:   p.curToken,
		Pattern: lit[1:end],
		Flags:   lit[end+1:],
	}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

// ============================================================================
// @-literals
// ============================================================================

// atWord returns the literal without its leading '@'.
func (p *Parser) atWord() string {
	return strings.TrimPrefix(p.curToken.Literal, "@")
}

func (p *Parser) parseDateTimeLiteral() ast.Expression {
	dt, err := literal.ParseDateTime(p.curToken.Literal)
	if err != nil {
		p.failLiteral(err)
	}
	return &ast.DateTimeLiteral{Token: p.curToken, Date: dt.Date, Time: dt.Time, Offset: dt.Offset}
}

func (p *Parser) parseTimeNowLiteral() ast.Expression {
	return &ast.TimeNowLiteral{Token: p.curToken, Kind: p.atWord()}
}

func (p *Parser) parseDurationLiteral() ast.Expression {
	d, err := literal.ParseDuration(p.curToken.Literal)
	if err != nil {
		p.failLiteral(err)
	}
	return &ast.DurationLiteral{Token: p.curToken, Negative: d.Negative, Parts: d.Parts}
}

func (p *Parser) parseConnectionLiteral() ast.Expression {
	return &ast.ConnectionLiteral{Token: p.curToken, Kind: p.atWord()}
}

func (p *Parser) parseSchemaLiteral() ast.Expression {
	return &ast.SchemaLiteral{Token: p.curToken}
}

func (p *Parser) parseTableLiteral() ast.Expression {
	return &ast.TableLiteral{Token: p.curToken}
}

func (p *Parser) parseQueryLiteral() ast.Expression {
	return &ast.QueryLiteral{Token: p.curToken, Kind: p.atWord()}
}

func (p *Parser) parseContextLiteral() ast.Expression {
	return &ast.ContextLiteral{Token: p.curToken, Kind: p.atWord()}
}

// parseStdlibImport splits @std/table into its root and module.
func (p *Parser) parseStdlibImport() ast.Expression {
	root, module, _ := strings.Cut(p.atWord(), "/")
	return &ast.StdlibImport{Token: p.curToken, Root: root, Module: module}
}

func (p *Parser) parseStdioLiteral() ast.Expression {
	return &ast.StdioLiteral{Token: p.curToken, Kind: p.atWord()}
}

func (p *Parser) parsePathLiteral() ast.Expression {
	text := p.atWord()
	form := ast.PathRelative
	switch {
	case strings.HasPrefix(text, "/"):
		form = ast.PathAbsolute
	case strings.HasPrefix(text, "~/"):
		form = ast.PathHome
	}
	return &ast.PathLiteral{Token: p.curToken, Form: form, Text: text}
}

func (p *Parser) parseURLLiteral() ast.Expression {
	text := p.atWord()
	scheme, _, _ := strings.Cut(text, "://")
	return &ast.URLLiteral{Token: p.curToken, Scheme: scheme, Text: text}
}

// ============================================================================
// Strings and templates
// ============================================================================

func (p *Parser) parseStringLiteral() ast.Expression {
	str := &ast.StringLiteral{Token: p.curToken}
	str.Parts = p.parseParts(lexer.STRING_END)
	str.Span = p.spanFrom(str.Token.Span)
	return str
}

func (p *Parser) parseTemplateLiteral() ast.Expression {
	tmpl := &ast.TemplateLiteral{Token: p.curToken}
	tmpl.Parts = p.parseParts(lexer.STRING_END)
	tmpl.Span = p.spanFrom(tmpl.Token.Span)
	return tmpl
}

func (p *Parser) parseRawStringLiteral() ast.Expression {
	raw := &ast.RawStringLiteral{Token: p.curToken}
	raw.Parts = p.parseParts(lexer.STRING_END)
	raw.Span = p.spanFrom(raw.Token.Span)
	return raw
}

func (p *Parser) parsePathTemplate() ast.Expression {
	tmpl := &ast.PathTemplate{Token: p.curToken}
	tmpl.Parts = p.parseParts(lexer.PATH_TEMPLATE_END)
	tmpl.Span = p.spanFrom(tmpl.Token.Span)
	return tmpl
}

// parseParts reads string fragments up to end and leaves curToken on it.
func (p *Parser) parseParts(end lexer.TokenType) []ast.StringPart {
	parts := []ast.StringPart{}
	for {
		p.nextToken()
		switch p.curToken.Type {
		case end:
			return parts
		case lexer.STRING_TEXT, lexer.PATH_TEXT:
			parts = append(parts, &ast.StringText{Token: p.curToken, Value: p.curToken.Literal})
		case lexer.STRING_ESCAPE:
			parts = append(parts, &ast.StringEscape{Token: p.curToken, Value: p.curToken.Literal})
		case lexer.INTERP_START:
			parts = append(parts, p.parseInterpolation())
		default:
			p.failToken(p.curToken)
		}
	}
}

// parseInterpolation parses '{expr}' with curToken on the opening brace.
func (p *Parser) parseInterpolation() *ast.Interpolation {
	interp := &ast.Interpolation{Token: p.curToken}
	p.nextToken()
	interp.Expression = p.parseExpression(LOWEST)
	p.expectPeek(lexer.INTERP_END)
	interp.Span = p.spanFrom(interp.Token.Span)
	return interp
}
