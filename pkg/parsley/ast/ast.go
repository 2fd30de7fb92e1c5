// Package ast defines the syntax tree produced by the Parsley parser.
//
// Every node records the span it covers. String renders a node back to
// Parsley source that parses to the same tree.
package ast

import (
	"bytes"
	"strings"

	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
)

// Node represents any node in the AST
type Node interface {
	Pos() lexer.Span
	TokenLiteral() string
	String() string
}

// Statement represents statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Pattern is the left side of a binding: let, for and function parameters.
type Pattern interface {
	Node
	patternNode()
}

// Program represents the root node of every AST
type Program struct {
	Statements []Statement
	Span       lexer.Span
}

func (p *Program) Pos() lexer.Span { return p.Span }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) String() string {
	var out bytes.Buffer

	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
		out.WriteString(";")
	}

	return out.String()
}

// LetStatement represents 'let pattern = value'
type LetStatement struct {
	Token   lexer.Token // the 'let' token
	Span    lexer.Span
	Pattern Pattern
	Value   Expression
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) Pos() lexer.Span      { return ls.Span }
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Literal }
func (ls *LetStatement) String() string {
	return "let " + ls.Pattern.String() + " = " + ls.Value.String()
}

// ExportStatement represents 'export [computed] name = value'
type ExportStatement struct {
	Token    lexer.Token // the 'export' token
	Span     lexer.Span
	Name     *Identifier
	Computed bool
	Value    Expression
}

func (es *ExportStatement) statementNode()       {}
func (es *ExportStatement) Pos() lexer.Span      { return es.Span }
func (es *ExportStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExportStatement) String() string {
	var out bytes.Buffer
	out.WriteString("export ")
	if es.Computed {
		out.WriteString("computed ")
	}
	out.WriteString(es.Name.String())
	out.WriteString(" = ")
	out.WriteString(es.Value.String())
	return out.String()
}

// ReturnStatement represents 'return [value]'
type ReturnStatement struct {
	Token lexer.Token // the 'return' token
	Span  lexer.Span
	Value Expression // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) Pos() lexer.Span      { return rs.Span }
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return"
	}
	return "return " + rs.Value.String()
}

// CheckStatement represents 'check condition [block]'
type CheckStatement struct {
	Token     lexer.Token // the 'check' token
	Span      lexer.Span
	Condition Expression
	Body      *BlockStatement // nil when absent
}

func (cs *CheckStatement) statementNode()       {}
func (cs *CheckStatement) Pos() lexer.Span      { return cs.Span }
func (cs *CheckStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *CheckStatement) String() string {
	if cs.Body == nil {
		return "check " + cs.Condition.String()
	}
	return "check " + cs.Condition.String() + " " + cs.Body.String()
}

// ExpressionStatement represents expression statements
type ExpressionStatement struct {
	Token      lexer.Token // the first token of the expression
	Span       lexer.Span
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) Pos() lexer.Span      { return es.Span }
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// BlockStatement represents block statements like '{...}'
type BlockStatement struct {
	Token      lexer.Token // the '{' token
	Span       lexer.Span
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) Pos() lexer.Span      { return bs.Span }
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	if len(bs.Statements) == 0 {
		return "{}"
	}
	parts := make([]string, len(bs.Statements))
	for i, s := range bs.Statements {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// BadStatement stands in for a statement that failed to parse in tolerant
// mode.
type BadStatement struct {
	Token lexer.Token // the token where the error was found
	Span  lexer.Span
}

func (bs *BadStatement) statementNode()       {}
func (bs *BadStatement) Pos() lexer.Span      { return bs.Span }
func (bs *BadStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BadStatement) String() string       { return "<bad statement>" }

// BadExpression stands in for an expression that failed to parse in
// tolerant mode.
type BadExpression struct {
	Token lexer.Token
	Span  lexer.Span
}

func (be *BadExpression) expressionNode()      {}
func (be *BadExpression) Pos() lexer.Span      { return be.Span }
func (be *BadExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BadExpression) String() string       { return "<bad expression>" }

// joinNodes renders nodes separated by ", ".
func joinNodes[T Node](nodes []T) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
