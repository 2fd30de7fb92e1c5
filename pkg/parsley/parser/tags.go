package parser

import (
	"regexp"

	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
)

// tagNameRE is the tag-name grammar. The lexer also accepts '_', which is
// only valid in attribute names.
var tagNameRE = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// parseTagOrFail handles '<' in prefix position. It is a tag only when a
// letter follows directly and the open tag runs to '>' or '/>'; otherwise
// the '<' is reported as unexpected.
func (p *Parser) parseTagOrFail() ast.Expression {
	lt := p.curToken
	in := p.l.Input()
	if lt.Span.End >= len(in) || !isASCIILetter(in[lt.Span.End]) {
		p.failToken(lt)
	}

	snap := p.save()
	p.l.RestoreState(p.peekState)
	p.l.EnterTag()
	p.relexPeek()

	tag := p.parseTag(lt, false)
	if tag == nil {
		p.restore(snap)
		p.failToken(lt)
	}
	return tag
}

// tagAhead reports whether peekToken, a '<', starts a tag that parses to
// its end. Newlines are not significant, so 'x' followed by '<p>...</p>' on
// the next line is two statements only when the tag reading survives;
// otherwise the '<' is a comparison. Answers are memoised by offset.
func (p *Parser) tagAhead() bool {
	lt := p.peekToken
	in := p.l.Input()
	if lt.Span.End >= len(in) || !isASCIILetter(in[lt.Span.End]) {
		return false
	}
	if ok, seen := p.tagStarts[lt.Span.Start]; seen {
		return ok
	}

	snap := p.save()
	ok := p.speculate(func() {
		p.nextToken()
		p.l.RestoreState(p.peekState)
		p.l.EnterTag()
		p.relexPeek()
		if p.parseTag(p.curToken, false) == nil {
			panic(bailout{})
		}
	})
	p.restore(snap)
	p.tagStarts[lt.Span.Start] = ok
	return ok
}

// parseTag parses a tag whose '<' is curToken and whose name is peekToken.
// A malformed open tag returns nil unless strict is set, in which case it
// is an error. Once the open tag is complete every error is final.
func (p *Parser) parseTag(lt lexer.Token, strict bool) *ast.TagLiteral {
	p.enter(lt.Span)
	defer p.leave()

	tag := &ast.TagLiteral{Token: lt}
	if !p.parseOpenTag(tag, strict) {
		return nil
	}
	if !tag.SelfClosing {
		p.parseTagChildren(tag)
	}
	tag.Span = p.spanFrom(lt.Span)
	return tag
}

// malformed handles a token that cannot continue an open tag.
func (p *Parser) malformed(tag *ast.TagLiteral, strict bool) bool {
	if p.peekTokenIs(lexer.EOF) {
		lt := tag.Token.Span
		p.failAt("LEX-0001", lt, map[string]any{
			"Kind":   "tag",
			"Line":   lt.Line,
			"Column": lt.Column,
		})
	}
	if strict {
		p.failToken(p.peekToken)
	}
	return false
}

// parseOpenTag reads the name and attributes through '>' or '/>'.
func (p *Parser) parseOpenTag(tag *ast.TagLiteral, strict bool) bool {
	if !p.peekTokenIs(lexer.TAG_IDENT) {
		return p.malformed(tag, strict)
	}
	p.nextToken()
	tag.Name = p.curToken.Literal
	if !tagNameRE.MatchString(tag.Name) {
		p.failAt("PARSE-0008", p.curToken.Span, map[string]any{"Name": tag.Name})
	}

	for {
		switch p.peekToken.Type {
		case lexer.TAG_GT:
			p.nextToken()
			return true

		case lexer.TAG_SELF_CLOSE:
			p.nextToken()
			tag.SelfClosing = true
			return true

		case lexer.TAG_IDENT:
			p.nextToken()
			name := p.curToken
			if !p.peekTokenIs(lexer.ASSIGN) {
				tag.Attributes = append(tag.Attributes, &ast.BareAttribute{Token: name, Name: name.Literal})
				continue
			}
			p.nextToken()
			attr := &ast.NamedAttribute{Token: name, Name: name.Literal}
			switch p.peekToken.Type {
			case lexer.STRING_START:
				p.nextToken()
				attr.Value = p.parseStringLiteral()
			case lexer.INTERP_START:
				p.nextToken()
				attr.Value = p.parseEmbeddedExpression()
			default:
				return p.malformed(tag, strict)
			}
			attr.Span = p.spanFrom(name.Span)
			tag.Attributes = append(tag.Attributes, attr)

		case lexer.DOTDOTDOT:
			p.nextToken()
			spread := &ast.SpreadAttribute{Token: p.curToken}
			if !p.peekTokenIs(lexer.TAG_IDENT) {
				return p.malformed(tag, strict)
			}
			p.nextToken()
			spread.Name = p.curToken.Literal
			spread.Span = p.spanFrom(spread.Token.Span)
			tag.Attributes = append(tag.Attributes, spread)

		default:
			return p.malformed(tag, strict)
		}
	}
}

// parseTagChildren reads children through the matching close tag.
func (p *Parser) parseTagChildren(tag *ast.TagLiteral) {
	for {
		switch p.peekToken.Type {
		case lexer.TAG_TEXT:
			p.nextToken()
			tag.Children = append(tag.Children, &ast.TagText{Token: p.curToken, Value: p.curToken.Literal})

		case lexer.TAG_START:
			p.nextToken()
			tag.Children = append(tag.Children, p.parseTag(p.curToken, true))

		case lexer.INTERP_START:
			p.nextToken()
			tag.Children = append(tag.Children, p.parseEmbeddedExpression())

		case lexer.STRING_START:
			p.nextToken()
			tag.Children = append(tag.Children, p.parseStringLiteral().(*ast.StringLiteral))

		case lexer.TAG_END_START:
			p.nextToken()
			p.parseCloseTag(tag)
			return

		case lexer.EOF:
			p.failAt("PARSE-0007", tag.Token.Span.Cover(p.curToken.Span), map[string]any{"Tag": tag.Name})

		default:
			p.failToken(p.peekToken)
		}
	}
}

// parseCloseTag reads 'name>' after '</' and checks it against the open tag.
func (p *Parser) parseCloseTag(tag *ast.TagLiteral) {
	start := p.curToken
	p.expectPeek(lexer.TAG_IDENT)
	name := p.curToken
	if name.Literal != tag.Name {
		p.failAt("PARSE-0006", start.Span.Cover(name.Span), map[string]any{
			"Open":        tag.Name,
			"OpenLine":    tag.Token.Span.Line,
			"OpenColumn":  tag.Token.Span.Column,
			"Close":       name.Literal,
			"CloseLine":   start.Span.Line,
			"CloseColumn": start.Span.Column,
		})
	}
	p.expectPeek(lexer.TAG_GT)
	tag.CloseSpan = p.spanFrom(start.Span)
}

// parseEmbeddedExpression parses '{expr}' in a tag, with curToken on '{'.
func (p *Parser) parseEmbeddedExpression() *ast.EmbeddedExpression {
	embedded := &ast.EmbeddedExpression{Token: p.curToken}
	p.nextToken()
	embedded.Expression = p.parseExpression(LOWEST)
	p.expectPeek(lexer.INTERP_END)
	embedded.Span = p.spanFrom(embedded.Token.Span)
	return embedded
}
