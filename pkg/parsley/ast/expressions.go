package ast

import (
	"bytes"

	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
)

// SpreadElement is '...expr' in an array, dictionary or argument list.
type SpreadElement struct {
	Token    lexer.Token // the '...' token
	Span     lexer.Span
	Argument Expression
}

func (se *SpreadElement) expressionNode()      {}
func (se *SpreadElement) dictEntryNode()       {}
func (se *SpreadElement) Pos() lexer.Span      { return se.Span }
func (se *SpreadElement) TokenLiteral() string { return se.Token.Literal }
func (se *SpreadElement) String() string       { return "..." + se.Argument.String() }

// ArrayLiteral represents array literals like [1, 2, ...rest]
type ArrayLiteral struct {
	Token    lexer.Token // the '[' token
	Span     lexer.Span
	Elements []Expression // Expression or *SpreadElement
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) Pos() lexer.Span      { return al.Span }
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) String() string       { return "[" + joinNodes(al.Elements) + "]" }

// DictEntry is one entry of a dictionary literal.
type DictEntry interface {
	Node
	dictEntryNode()
}

// Pair is 'key: value'. The key is an *Identifier, *StringLiteral or
// *NumberLiteral.
type Pair struct {
	Key   Expression
	Value Expression
}

func (p *Pair) dictEntryNode()       {}
func (p *Pair) Pos() lexer.Span      { return p.Key.Pos().Cover(p.Value.Pos()) }
func (p *Pair) TokenLiteral() string { return p.Key.TokenLiteral() }
func (p *Pair) String() string       { return p.Key.String() + ": " + p.Value.String() }

// KeyName returns the key as a plain string.
func (p *Pair) KeyName() string {
	switch k := p.Key.(type) {
	case *Identifier:
		return k.Value
	case *StringLiteral:
		if s, ok := k.Static(); ok {
			return s
		}
	case *NumberLiteral:
		return k.Value
	}
	return p.Key.String()
}

// ShorthandProperty is a bare identifier in a dictionary, '{x}' meaning
// '{x: x}'.
type ShorthandProperty struct {
	Name *Identifier
}

func (sp *ShorthandProperty) dictEntryNode()       {}
func (sp *ShorthandProperty) Pos() lexer.Span      { return sp.Name.Pos() }
func (sp *ShorthandProperty) TokenLiteral() string { return sp.Name.TokenLiteral() }
func (sp *ShorthandProperty) String() string       { return sp.Name.String() }

// ComputedProperty is '[key]: value'.
type ComputedProperty struct {
	Token lexer.Token // the '[' token
	Span  lexer.Span
	Key   Expression
	Value Expression
}

func (cp *ComputedProperty) dictEntryNode()       {}
func (cp *ComputedProperty) Pos() lexer.Span      { return cp.Span }
func (cp *ComputedProperty) TokenLiteral() string { return cp.Token.Literal }
func (cp *ComputedProperty) String() string {
	return "[" + cp.Key.String() + "]: " + cp.Value.String()
}

// DictLiteral represents dictionary literals like {a: 1, b, ...c}
type DictLiteral struct {
	Token   lexer.Token // the '{' token
	Span    lexer.Span
	Entries []DictEntry
}

func (dl *DictLiteral) expressionNode()      {}
func (dl *DictLiteral) Pos() lexer.Span      { return dl.Span }
func (dl *DictLiteral) TokenLiteral() string { return dl.Token.Literal }
func (dl *DictLiteral) String() string       { return "{" + joinNodes(dl.Entries) + "}" }

// PrefixExpression represents '-x', '!x' and 'not x'
type PrefixExpression struct {
	Token    lexer.Token // the operator token
	Span     lexer.Span
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) Pos() lexer.Span      { return pe.Span }
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	if pe.Operator == "not" {
		return "not " + pe.Right.String()
	}
	return pe.Operator + pe.Right.String()
}

// InfixExpression represents every binary operator, including the file,
// database and query operators.
type InfixExpression struct {
	Token    lexer.Token // the operator token
	Span     lexer.Span
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) Pos() lexer.Span      { return ie.Span }
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return ie.Left.String() + " " + ie.Operator + " " + ie.Right.String()
}

// TernaryExpression represents 'cond ? a : b'
type TernaryExpression struct {
	Token       lexer.Token // the '?' token
	Span        lexer.Span
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (te *TernaryExpression) expressionNode()      {}
func (te *TernaryExpression) Pos() lexer.Span      { return te.Span }
func (te *TernaryExpression) TokenLiteral() string { return te.Token.Literal }
func (te *TernaryExpression) String() string {
	return te.Condition.String() + " ? " + te.Consequence.String() + " : " + te.Alternative.String()
}

// AssignmentExpression represents 'target = value'. Target is an
// *Identifier, *MemberExpression or *IndexExpression.
type AssignmentExpression struct {
	Token  lexer.Token // the '=' token
	Span   lexer.Span
	Target Expression
	Value  Expression
}

func (ae *AssignmentExpression) expressionNode()      {}
func (ae *AssignmentExpression) Pos() lexer.Span      { return ae.Span }
func (ae *AssignmentExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignmentExpression) String() string {
	return ae.Target.String() + " = " + ae.Value.String()
}

// CallExpression represents 'fn(args)'
type CallExpression struct {
	Token     lexer.Token // the '(' token
	Span      lexer.Span
	Function  Expression
	Arguments []Expression // Expression or *SpreadElement
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) Pos() lexer.Span      { return ce.Span }
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + joinNodes(ce.Arguments) + ")"
}

// IndexExpression represents 'x[i]'
type IndexExpression struct {
	Token lexer.Token // the '[' token
	Span  lexer.Span
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) Pos() lexer.Span      { return ie.Span }
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	return ie.Left.String() + "[" + ie.Index.String() + "]"
}

// SliceExpression represents 'x[start:end]' with either bound optional.
type SliceExpression struct {
	Token lexer.Token // the '[' token
	Span  lexer.Span
	Left  Expression
	Start Expression // nil when absent
	End   Expression // nil when absent
}

func (se *SliceExpression) expressionNode()      {}
func (se *SliceExpression) Pos() lexer.Span      { return se.Span }
func (se *SliceExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SliceExpression) String() string {
	var out bytes.Buffer
	out.WriteString(se.Left.String())
	out.WriteString("[")
	if se.Start != nil {
		out.WriteString(se.Start.String())
	}
	out.WriteString(":")
	if se.End != nil {
		out.WriteString(se.End.String())
	}
	out.WriteString("]")
	return out.String()
}

// MemberExpression represents 'obj.prop'
type MemberExpression struct {
	Token    lexer.Token // the '.' token
	Span     lexer.Span
	Object   Expression
	Property *Identifier
}

func (me *MemberExpression) expressionNode()      {}
func (me *MemberExpression) Pos() lexer.Span      { return me.Span }
func (me *MemberExpression) TokenLiteral() string { return me.Token.Literal }
func (me *MemberExpression) String() string {
	return me.Object.String() + "." + me.Property.String()
}

// Parameter is one function parameter. Name is usually an *Identifier but
// may be a destructuring pattern. A rest parameter is always an identifier
// and has no default.
type Parameter struct {
	Name    Pattern
	Default Expression
	Rest    bool
}

func (p *Parameter) Pos() lexer.Span {
	if p.Default != nil {
		return p.Name.Pos().Cover(p.Default.Pos())
	}
	return p.Name.Pos()
}
func (p *Parameter) TokenLiteral() string { return p.Name.TokenLiteral() }
func (p *Parameter) String() string {
	switch {
	case p.Rest:
		return "..." + p.Name.String()
	case p.Default != nil:
		return p.Name.String() + " = " + p.Default.String()
	}
	return p.Name.String()
}

// FunctionLiteral represents 'fn(params) body' and 'function(params) body'.
// Body is a *BlockStatement or an Expression.
type FunctionLiteral struct {
	Token      lexer.Token // the 'fn' or 'function' token
	Span       lexer.Span
	Keyword    string
	Parameters []*Parameter
	Body       Node
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) Pos() lexer.Span      { return fl.Span }
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FunctionLiteral) String() string {
	return fl.Keyword + "(" + joinNodes(fl.Parameters) + ") " + fl.Body.String()
}

// ForExpression represents 'for pattern in iterable { body }' and the
// shorthand 'for iterable', which has no Pattern or Body.
type ForExpression struct {
	Token    lexer.Token // the 'for' token
	Span     lexer.Span
	Pattern  Pattern
	Iterable Expression
	Body     *BlockStatement
}

func (fe *ForExpression) expressionNode()      {}
func (fe *ForExpression) Pos() lexer.Span      { return fe.Span }
func (fe *ForExpression) TokenLiteral() string { return fe.Token.Literal }
func (fe *ForExpression) String() string {
	if fe.Pattern == nil {
		return "for " + fe.Iterable.String()
	}
	return "for " + fe.Pattern.String() + " in " + fe.Iterable.String() + " " + fe.Body.String()
}

// IfExpression represents 'if cond { ... } else ...'. Alternative is nil, a
// *BlockStatement, or an *IfExpression for 'else if'.
type IfExpression struct {
	Token       lexer.Token // the 'if' token
	Span        lexer.Span
	Condition   Expression
	Consequence *BlockStatement
	Alternative Node
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) Pos() lexer.Span      { return ie.Span }
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IfExpression) String() string {
	s := "if " + ie.Condition.String() + " " + ie.Consequence.String()
	if ie.Alternative != nil {
		s += " else " + ie.Alternative.String()
	}
	return s
}

// TryExpression represents 'try expr'
type TryExpression struct {
	Token      lexer.Token // the 'try' token
	Span       lexer.Span
	Expression Expression
}

func (te *TryExpression) expressionNode()      {}
func (te *TryExpression) Pos() lexer.Span      { return te.Span }
func (te *TryExpression) TokenLiteral() string { return te.Token.Literal }
func (te *TryExpression) String() string       { return "try " + te.Expression.String() }

// ImportExpression represents 'import source [as alias]'
type ImportExpression struct {
	Token  lexer.Token // the 'import' token
	Span   lexer.Span
	Source Expression
	Alias  *Identifier // nil when absent
}

func (ie *ImportExpression) expressionNode()      {}
func (ie *ImportExpression) Pos() lexer.Span      { return ie.Span }
func (ie *ImportExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *ImportExpression) String() string {
	if ie.Alias == nil {
		return "import " + ie.Source.String()
	}
	return "import " + ie.Source.String() + " as " + ie.Alias.String()
}

// ParenthesizedExpression represents '(expr)'. The parentheses are kept so
// that String reproduces the grouping the source wrote.
type ParenthesizedExpression struct {
	Token lexer.Token // the '(' token
	Span  lexer.Span
	Inner Expression
}

func (pe *ParenthesizedExpression) expressionNode()      {}
func (pe *ParenthesizedExpression) Pos() lexer.Span      { return pe.Span }
func (pe *ParenthesizedExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *ParenthesizedExpression) String() string       { return "(" + pe.Inner.String() + ")" }
