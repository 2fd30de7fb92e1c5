package ast

import (
	"bytes"

	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
)

// Identifier is both an expression and the simplest pattern.
type Identifier struct {
	Token lexer.Token // the lexer.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) patternNode()         {}
func (i *Identifier) Pos() lexer.Span      { return i.Token.Span }
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// WildcardPattern is '_', which binds nothing.
type WildcardPattern struct {
	Token lexer.Token
}

func (w *WildcardPattern) patternNode()         {}
func (w *WildcardPattern) Pos() lexer.Span      { return w.Token.Span }
func (w *WildcardPattern) TokenLiteral() string { return w.Token.Literal }
func (w *WildcardPattern) String() string       { return "_" }

// RestElement collects the remaining items of a destructured value. Name is
// nil for an anonymous '...'.
type RestElement struct {
	Token lexer.Token // the '...' token
	Span  lexer.Span
	Name  *Identifier
}

func (r *RestElement) Pos() lexer.Span      { return r.Span }
func (r *RestElement) TokenLiteral() string { return r.Token.Literal }
func (r *RestElement) String() string {
	if r.Name == nil {
		return "..."
	}
	return "..." + r.Name.String()
}

// ArrayPattern destructures an array: [a, [b, c], ...rest]
type ArrayPattern struct {
	Token    lexer.Token // the '[' token
	Span     lexer.Span
	Elements []Pattern
	Rest     *RestElement
}

func (ap *ArrayPattern) patternNode()         {}
func (ap *ArrayPattern) Pos() lexer.Span      { return ap.Span }
func (ap *ArrayPattern) TokenLiteral() string { return ap.Token.Literal }
func (ap *ArrayPattern) String() string {
	var out bytes.Buffer
	out.WriteString("[")
	out.WriteString(joinNodes(ap.Elements))
	if ap.Rest != nil {
		if len(ap.Elements) > 0 {
			out.WriteString(", ")
		}
		out.WriteString(ap.Rest.String())
	}
	out.WriteString("]")
	return out.String()
}

// DictPatternEntry is one key of a dictionary pattern. Shorthand entries
// bind the key's own name and have no Value.
type DictPatternEntry struct {
	Key       *Identifier
	Value     Pattern
	Shorthand bool
}

func (e *DictPatternEntry) Pos() lexer.Span {
	if e.Value == nil {
		return e.Key.Pos()
	}
	return e.Key.Pos().Cover(e.Value.Pos())
}
func (e *DictPatternEntry) TokenLiteral() string { return e.Key.TokenLiteral() }
func (e *DictPatternEntry) String() string {
	if e.Shorthand {
		return e.Key.String()
	}
	return e.Key.String() + ": " + e.Value.String()
}

// DictPattern destructures a dictionary: {a, b: [c], ...rest}
type DictPattern struct {
	Token   lexer.Token // the '{' token
	Span    lexer.Span
	Entries []*DictPatternEntry
	Rest    *RestElement
}

func (dp *DictPattern) patternNode()         {}
func (dp *DictPattern) Pos() lexer.Span      { return dp.Span }
func (dp *DictPattern) TokenLiteral() string { return dp.Token.Literal }
func (dp *DictPattern) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	out.WriteString(joinNodes(dp.Entries))
	if dp.Rest != nil {
		if len(dp.Entries) > 0 {
			out.WriteString(", ")
		}
		out.WriteString(dp.Rest.String())
	}
	out.WriteString("}")
	return out.String()
}

// Names returns every identifier a pattern binds, in source order.
func Names(p Pattern) []string {
	var names []string
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch p := p.(type) {
		case *Identifier:
			names = append(names, p.Value)
		case *ArrayPattern:
			for _, e := range p.Elements {
				walk(e)
			}
			if p.Rest != nil && p.Rest.Name != nil {
				names = append(names, p.Rest.Name.Value)
			}
		case *DictPattern:
			for _, e := range p.Entries {
				if e.Shorthand {
					names = append(names, e.Key.Value)
				} else {
					walk(e.Value)
				}
			}
			if p.Rest != nil && p.Rest.Name != nil {
				names = append(names, p.Rest.Name.Value)
			}
		}
	}
	walk(p)
	return names
}
