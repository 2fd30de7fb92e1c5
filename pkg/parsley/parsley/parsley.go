// Package parsley is the public entry point to the Parsley front-end:
// parse source to an AST, or lex it to tokens, without touching the
// lexer and parser packages directly.
package parsley

import (
	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
	"github.com/sambeau/parsley-syntax/pkg/parsley/parser"
)

// Version is the release of the front-end. Cache keys and config
// 'requires' constraints are checked against it.
const Version = "0.9.0"

// Option configures a parse.
type Option = parser.Option

// ErrorList is every error found by a tolerant parse.
type ErrorList = parser.ErrorList

var (
	WithMaxDepth = parser.WithMaxDepth
	WithTolerant = parser.WithTolerant
	WithSink     = parser.WithSink
)

// Parse parses src. See parser.Parse for the error contract.
func Parse(src string, opts ...Option) (*ast.Program, error) {
	return parser.Parse(src, opts...)
}

// ParseSource parses src with name attached to every error.
func ParseSource(name, src string, opts ...Option) (*ast.Program, error) {
	return parser.ParseFile(name, src, opts...)
}

// Tokenize lexes src in code mode through EOF or the first ILLEGAL token.
func Tokenize(src string) []lexer.Token {
	return lexer.Tokenize(src)
}

// TokenizeWithComments is Tokenize plus the comments skipped on the way.
func TokenizeWithComments(src string) (tokens, comments []lexer.Token) {
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == lexer.EOF || tok.Type == lexer.ILLEGAL {
			return tokens, l.Comments()
		}
	}
}
