package ast

import (
	"bytes"

	"golang.org/x/net/html/atom"

	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
)

// TagAttribute is one attribute of an open tag.
type TagAttribute interface {
	Node
	tagAttribute()
}

// TagChild is one child of a paired tag: *TagLiteral, *EmbeddedExpression,
// *StringLiteral or *TagText.
type TagChild interface {
	Node
	tagChild()
}

// TagLiteral represents <name attrs/> and <name attrs>children</name>.
type TagLiteral struct {
	Token       lexer.Token // the '<' token
	Span        lexer.Span
	Name        string
	Attributes  []TagAttribute
	Children    []TagChild
	SelfClosing bool
	CloseSpan   lexer.Span // span of </name>, zero when self-closing
}

func (tl *TagLiteral) expressionNode()      {}
func (tl *TagLiteral) tagChild()            {}
func (tl *TagLiteral) Pos() lexer.Span      { return tl.Span }
func (tl *TagLiteral) TokenLiteral() string { return tl.Token.Literal }
func (tl *TagLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("<" + tl.Name)
	for _, a := range tl.Attributes {
		out.WriteString(" ")
		out.WriteString(a.String())
	}
	if tl.SelfClosing {
		out.WriteString("/>")
		return out.String()
	}
	out.WriteString(">")
	for _, c := range tl.Children {
		out.WriteString(c.String())
	}
	out.WriteString("</" + tl.Name + ">")
	return out.String()
}

// IsHTML reports whether the tag name is a standard HTML element. Anything
// else is a component.
func (tl *TagLiteral) IsHTML() bool {
	a := atom.Lookup([]byte(tl.Name))
	if a == 0 {
		return false
	}
	return !attributeOnly[a]
}

// attributeOnly lists common atoms that name attributes, not elements.
var attributeOnly = map[atom.Atom]bool{
	atom.Action: true, atom.Alt: true, atom.Checked: true, atom.Class: true,
	atom.Disabled: true, atom.Height: true, atom.Href: true, atom.Id: true,
	atom.Lang: true, atom.Method: true, atom.Name: true, atom.Rel: true,
	atom.Src: true, atom.Type: true, atom.Value: true, atom.Width: true,
}

// NamedAttribute is name="text" or name={expr}. Value is a *StringLiteral
// or an *EmbeddedExpression.
type NamedAttribute struct {
	Token lexer.Token // the name token
	Span  lexer.Span
	Name  string
	Value Node
}

func (na *NamedAttribute) tagAttribute()        {}
func (na *NamedAttribute) Pos() lexer.Span      { return na.Span }
func (na *NamedAttribute) TokenLiteral() string { return na.Token.Literal }
func (na *NamedAttribute) String() string       { return na.Name + "=" + na.Value.String() }

// BareAttribute is an attribute with no value, such as 'disabled'.
type BareAttribute struct {
	Token lexer.Token
	Name  string
}

func (ba *BareAttribute) tagAttribute()        {}
func (ba *BareAttribute) Pos() lexer.Span      { return ba.Token.Span }
func (ba *BareAttribute) TokenLiteral() string { return ba.Token.Literal }
func (ba *BareAttribute) String() string       { return ba.Name }

// SpreadAttribute is '...props'.
type SpreadAttribute struct {
	Token lexer.Token // the '...' token
	Span  lexer.Span
	Name  string
}

func (sa *SpreadAttribute) tagAttribute()        {}
func (sa *SpreadAttribute) Pos() lexer.Span      { return sa.Span }
func (sa *SpreadAttribute) TokenLiteral() string { return sa.Token.Literal }
func (sa *SpreadAttribute) String() string       { return "..." + sa.Name }

// EmbeddedExpression is '{expr}' in a tag body or attribute.
type EmbeddedExpression struct {
	Token      lexer.Token // the '{' token
	Span       lexer.Span
	Expression Expression
}

func (ee *EmbeddedExpression) tagChild()            {}
func (ee *EmbeddedExpression) Pos() lexer.Span      { return ee.Span }
func (ee *EmbeddedExpression) TokenLiteral() string { return ee.Token.Literal }
func (ee *EmbeddedExpression) String() string       { return "{" + ee.Expression.String() + "}" }

// TagText is a run of literal text between children.
type TagText struct {
	Token lexer.Token
	Value string
}

func (tt *TagText) tagChild()            {}
func (tt *TagText) Pos() lexer.Span      { return tt.Token.Span }
func (tt *TagText) TokenLiteral() string { return tt.Token.Literal }
func (tt *TagText) String() string       { return tt.Value }
