package lexer

import (
	"fmt"

	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	COMMENT // // single line comment

	// Identifiers and literals
	IDENT    // add, foobar, x, y, ...
	WILDCARD // _
	NUMBER   // 42, 3.14
	MONEY    // $12.34, £99.99, EUR#50.00
	REGEX    // /pattern/flags

	// String fragments
	STRING_START   // "
	TEMPLATE_START // `
	RAW_START      // '
	STRING_TEXT    // literal run inside a string
	STRING_ESCAPE  // \n, \", \{ ...
	STRING_END     // closing quote
	INTERP_START   // { or @{ opening an embedded expression
	INTERP_END     // } closing an embedded expression

	// At-literals
	DATETIME            // @2024-12-25T14:30:00Z, @12:30
	TIME_NOW            // @now, @today, @timeNow, @dateNow
	DURATION            // @2h30m, @-7d, @1y6mo
	CONNECTION          // @sqlite, @postgres, @mysql, @sftp, @shell, @DB
	SCHEMA              // @schema
	TABLE               // @table
	QUERY               // @query, @insert, @update, @delete, @transaction
	CONTEXT             // @SEARCH, @env, @args, @params
	STDLIB              // @std, @std/table, @basil/http
	STDIO               // @-, @stdin, @stdout, @stderr
	PATH                // @./config, @/usr/local, @~/notes
	URL                 // @https://example.com
	PATH_TEMPLATE_START // @(
	PATH_TEXT           // literal run inside @( ... )
	PATH_TEMPLATE_END   // )

	// Tag delimiters (only produced once the parser has committed to a tag)
	TAG_IDENT      // tag or attribute name
	TAG_START      // < opening a nested tag
	TAG_GT         // > ending an open or close tag
	TAG_SELF_CLOSE // />
	TAG_END_START  // </
	TAG_TEXT       // raw text child

	// Operators
	ASSIGN    // =
	PLUS      // +
	MINUS     // -
	BANG      // ! or not
	ASTERISK  // *
	SLASH     // /
	PERCENT   // %
	LT        // <
	GT        // >
	LTE       // <=
	GTE       // >=
	EQ        // ==
	NOT_EQ    // !=
	AND       // && or and
	OR        // || or or
	NULLISH   // ??
	QUESTION  // ?
	MATCH     // ~
	NOT_MATCH // !~
	PLUSPLUS  // ++
	RANGE     // ..
	DOTDOTDOT // ...

	// File I/O operators
	READ_FROM     // <==
	FETCH_FROM    // <=/=
	WRITE_TO      // ==>
	APPEND_TO     // ==>>
	REMOTE_WRITE  // =/=>
	REMOTE_APPEND // =/=>>

	// Database operators
	QUERY_ONE    // <=?=>
	QUERY_MANY   // <=??=>
	EXECUTE      // <=!=>
	EXECUTE_WITH // <=#=>

	// Query DSL operators
	PIPE                 // |>
	PIPE_WRITE           // |<
	RETURN_ONE           // ?->
	RETURN_MANY          // ??->
	RETURN_ONE_EXPLICIT  // ?!->
	RETURN_MANY_EXPLICIT // ??!->
	EXEC_COUNT           // .->
	ARROW_PULL           // <-

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	DOT       // .
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]

	// Keywords
	FUNCTION // "fn" or "function"
	LET      // "let"
	EXPORT   // "export"
	RETURN   // "return"
	CHECK    // "check"
	FOR      // "for"
	IN       // "in"
	IF       // "if"
	ELSE     // "else"
	TRY      // "try"
	IMPORT   // "import"
	AS       // "as"
	TRUE     // "true"
	FALSE    // "false"
	NULL     // "null"
	COMPUTED // "computed"
)

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", WILDCARD: "WILDCARD", NUMBER: "NUMBER", MONEY: "MONEY", REGEX: "REGEX",
	STRING_START: "STRING_START", TEMPLATE_START: "TEMPLATE_START", RAW_START: "RAW_START",
	STRING_TEXT: "STRING_TEXT", STRING_ESCAPE: "STRING_ESCAPE", STRING_END: "STRING_END",
	INTERP_START: "INTERP_START", INTERP_END: "INTERP_END",
	DATETIME: "DATETIME", TIME_NOW: "TIME_NOW", DURATION: "DURATION", CONNECTION: "CONNECTION",
	SCHEMA: "SCHEMA", TABLE: "TABLE", QUERY: "QUERY", CONTEXT: "CONTEXT", STDLIB: "STDLIB",
	STDIO: "STDIO", PATH: "PATH", URL: "URL",
	PATH_TEMPLATE_START: "PATH_TEMPLATE_START", PATH_TEXT: "PATH_TEXT", PATH_TEMPLATE_END: "PATH_TEMPLATE_END",
	TAG_IDENT: "TAG_IDENT", TAG_START: "TAG_START", TAG_GT: "TAG_GT", TAG_SELF_CLOSE: "TAG_SELF_CLOSE",
	TAG_END_START: "TAG_END_START", TAG_TEXT: "TAG_TEXT",
	ASSIGN: "ASSIGN", PLUS: "PLUS", MINUS: "MINUS", BANG: "BANG", ASTERISK: "ASTERISK",
	SLASH: "SLASH", PERCENT: "PERCENT", LT: "LT", GT: "GT", LTE: "LTE", GTE: "GTE",
	EQ: "EQ", NOT_EQ: "NOT_EQ", AND: "AND", OR: "OR", NULLISH: "NULLISH", QUESTION: "QUESTION",
	MATCH: "MATCH", NOT_MATCH: "NOT_MATCH", PLUSPLUS: "PLUSPLUS", RANGE: "RANGE", DOTDOTDOT: "DOTDOTDOT",
	READ_FROM: "READ_FROM", FETCH_FROM: "FETCH_FROM", WRITE_TO: "WRITE_TO", APPEND_TO: "APPEND_TO",
	REMOTE_WRITE: "REMOTE_WRITE", REMOTE_APPEND: "REMOTE_APPEND",
	QUERY_ONE: "QUERY_ONE", QUERY_MANY: "QUERY_MANY", EXECUTE: "EXECUTE", EXECUTE_WITH: "EXECUTE_WITH",
	PIPE: "PIPE", PIPE_WRITE: "PIPE_WRITE", RETURN_ONE: "RETURN_ONE", RETURN_MANY: "RETURN_MANY",
	RETURN_ONE_EXPLICIT: "RETURN_ONE_EXPLICIT", RETURN_MANY_EXPLICIT: "RETURN_MANY_EXPLICIT",
	EXEC_COUNT: "EXEC_COUNT", ARROW_PULL: "ARROW_PULL",
	COMMA: "COMMA", SEMICOLON: "SEMICOLON", COLON: "COLON", DOT: "DOT",
	LPAREN: "LPAREN", RPAREN: "RPAREN", LBRACE: "LBRACE", RBRACE: "RBRACE",
	LBRACKET: "LBRACKET", RBRACKET: "RBRACKET",
	FUNCTION: "FUNCTION", LET: "LET", EXPORT: "EXPORT", RETURN: "RETURN", CHECK: "CHECK",
	FOR: "FOR", IN: "IN", IF: "IF", ELSE: "ELSE", TRY: "TRY", IMPORT: "IMPORT", AS: "AS",
	TRUE: "TRUE", FALSE: "FALSE", NULL: "NULL", COMPUTED: "COMPUTED",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsAtLiteral reports whether the type is one of the single-token
// @-literal sub-kinds.
func (tt TokenType) IsAtLiteral() bool {
	return tt >= DATETIME && tt <= URL
}

// IsKeyword reports whether the type is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= FUNCTION && tt <= COMPUTED
}

// endsExpression reports whether an expression can end with a token of this
// type. A / after such a token is division; anywhere else it opens a regex.
func (tt TokenType) endsExpression() bool {
	switch tt {
	case IDENT, WILDCARD, NUMBER, MONEY, REGEX, STRING_END, INTERP_END,
		PATH_TEMPLATE_END, TRUE, FALSE, NULL,
		RPAREN, RBRACKET, RBRACE, TAG_GT, TAG_SELF_CLOSE:
		return true
	}
	return tt.IsAtLiteral()
}

// Span locates a token or node in the source. Offsets are bytes; lines and
// columns are 1-based, columns counting runes. End is exclusive.
type Span struct {
	Start     int `json:"start" yaml:"start"`
	End       int `json:"end" yaml:"end"`
	Line      int `json:"line" yaml:"line"`
	Column    int `json:"column" yaml:"column"`
	EndLine   int `json:"end_line" yaml:"end_line"`
	EndColumn int `json:"end_column" yaml:"end_column"`
}

// Cover returns the smallest span containing both s and o.
func (s Span) Cover(o Span) Span {
	out := s
	if o.Start < out.Start {
		out.Start, out.Line, out.Column = o.Start, o.Line, o.Column
	}
	if o.End > out.End {
		out.End, out.EndLine, out.EndColumn = o.End, o.EndLine, o.EndColumn
	}
	return out
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// ErrorSpan converts the span for use in a diagnostic.
func (s Span) ErrorSpan() perrors.Span {
	return perrors.Span{
		Start: s.Start, End: s.End,
		Line: s.Line, Column: s.Column,
		EndLine: s.EndLine, EndColumn: s.EndColumn,
	}
}

// Token represents a single token. Tokens are values; nothing mutates them
// once the lexer has returned them.
type Token struct {
	Type    TokenType
	Literal string
	Span    Span
	Err     *perrors.ParsleyError // set on ILLEGAL tokens
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		t.Type, t.Literal, t.Span.Line, t.Span.Column)
}

// keywords map for identifying language keywords
var keywords = map[string]TokenType{
	"fn":       FUNCTION,
	"function": FUNCTION,
	"let":      LET,
	"export":   EXPORT,
	"return":   RETURN,
	"check":    CHECK,
	"for":      FOR,
	"in":       IN,
	"if":       IF,
	"else":     ELSE,
	"try":      TRY,
	"import":   IMPORT,
	"as":       AS,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
	"computed": COMPUTED,
	"and":      AND,
	"or":       OR,
	"not":      BANG,
	"_":        WILDCARD,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
