// Package parser builds a Parsley syntax tree from lexer tokens.
//
// Expressions use Pratt parsing over thirteen precedence levels. Statements,
// patterns and tags each have their own recursive-descent productions. The
// parser fails fast by default: the first error stops the parse. In tolerant
// mode it records every error, leaves Bad nodes in the tree and carries on
// from the next statement boundary.
package parser

import (
	"fmt"
	"strings"

	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
)

// Precedence levels for operators, lowest to highest.
const (
	LOWEST      int = iota
	ASSIGN          // =
	NULLISH         // ?? and ternary
	LOGIC_OR        // or, ||
	LOGIC_AND       // and, &&
	COMPARE         // == != < > <= >= and the file, database and query operators
	REGEX_MATCH     // ~ !~
	RANGE           // ..
	SUM             // + -
	PRODUCT         // * / %
	CONCAT          // ++
	PREFIX          // -x !x not x
	CALL            // fn(x)
	MEMBER          // a.b a[i]
)

// DefaultMaxDepth bounds nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 256

// precedences maps tokens to their precedence
var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:               ASSIGN,
	lexer.NULLISH:              NULLISH,
	lexer.QUESTION:             NULLISH,
	lexer.OR:                   LOGIC_OR,
	lexer.AND:                  LOGIC_AND,
	lexer.EQ:                   COMPARE,
	lexer.NOT_EQ:               COMPARE,
	lexer.LT:                   COMPARE,
	lexer.GT:                   COMPARE,
	lexer.LTE:                  COMPARE,
	lexer.GTE:                  COMPARE,
	lexer.READ_FROM:            COMPARE, // file I/O
	lexer.FETCH_FROM:           COMPARE,
	lexer.WRITE_TO:             COMPARE,
	lexer.APPEND_TO:            COMPARE,
	lexer.REMOTE_WRITE:         COMPARE,
	lexer.REMOTE_APPEND:        COMPARE,
	lexer.QUERY_ONE:            COMPARE, // database
	lexer.QUERY_MANY:           COMPARE,
	lexer.EXECUTE:              COMPARE,
	lexer.EXECUTE_WITH:         COMPARE,
	lexer.PIPE:                 COMPARE, // query DSL
	lexer.PIPE_WRITE:           COMPARE,
	lexer.RETURN_ONE:           COMPARE,
	lexer.RETURN_MANY:          COMPARE,
	lexer.RETURN_ONE_EXPLICIT:  COMPARE,
	lexer.RETURN_MANY_EXPLICIT: COMPARE,
	lexer.EXEC_COUNT:           COMPARE,
	lexer.ARROW_PULL:           COMPARE,
	lexer.MATCH:                REGEX_MATCH,
	lexer.NOT_MATCH:            REGEX_MATCH,
	lexer.RANGE:                RANGE,
	lexer.PLUS:                 SUM,
	lexer.MINUS:                SUM,
	lexer.ASTERISK:             PRODUCT,
	lexer.SLASH:                PRODUCT,
	lexer.PERCENT:              PRODUCT,
	lexer.PLUSPLUS:             CONCAT,
	lexer.LPAREN:               CALL,
	lexer.LBRACKET:             MEMBER,
	lexer.DOT:                  MEMBER,
}

// Options controls a parse.
type Options struct {
	MaxDepth int          // nesting limit; DefaultMaxDepth when zero
	Tolerant bool         // keep going after errors
	Sink     perrors.Sink // receives every error when the parse ends
}

// Option sets a field of Options.
type Option func(*Options)

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(n int) Option { return func(o *Options) { o.MaxDepth = n } }

// WithTolerant turns error-tolerant parsing on or off.
func WithTolerant(on bool) Option { return func(o *Options) { o.Tolerant = on } }

// WithSink reports errors to s as well as returning them.
func WithSink(s perrors.Sink) Option { return func(o *Options) { o.Sink = s } }

// Parser represents the parser
type Parser struct {
	l    *lexer.Lexer
	opts Options

	errors []*perrors.ParsleyError

	prevToken lexer.Token
	curToken  lexer.Token
	peekToken lexer.Token
	curState  lexer.State // lexer state just before curToken was read
	peekState lexer.State // lexer state just before peekToken was read

	depth  int // current nesting, checked against opts.MaxDepth
	braces int // '{' consumed and not yet closed, for resynchronising

	tagStarts map[int]bool // offsets of '<' already tried as a tag start

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// bailout unwinds the parser to the nearest recovery point after an error
// has been recorded.
type bailout struct{}

// New creates a new parser instance
func New(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{l: l, tagStarts: make(map[int]bool)}
	for _, opt := range opts {
		opt(&p.opts)
	}
	if p.opts.MaxDepth <= 0 {
		p.opts.MaxDepth = DefaultMaxDepth
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.MONEY, p.parseMoneyLiteral)
	p.registerPrefix(lexer.REGEX, p.parseRegexLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolean)
	p.registerPrefix(lexer.FALSE, p.parseBoolean)
	p.registerPrefix(lexer.NULL, p.parseNull)
	p.registerPrefix(lexer.STRING_START, p.parseStringLiteral)
	p.registerPrefix(lexer.TEMPLATE_START, p.parseTemplateLiteral)
	p.registerPrefix(lexer.RAW_START, p.parseRawStringLiteral)
	p.registerPrefix(lexer.PATH_TEMPLATE_START, p.parsePathTemplate)
	p.registerPrefix(lexer.DATETIME, p.parseDateTimeLiteral)
	p.registerPrefix(lexer.TIME_NOW, p.parseTimeNowLiteral)
	p.registerPrefix(lexer.DURATION, p.parseDurationLiteral)
	p.registerPrefix(lexer.CONNECTION, p.parseConnectionLiteral)
	p.registerPrefix(lexer.SCHEMA, p.parseSchemaLiteral)
	p.registerPrefix(lexer.TABLE, p.parseTableLiteral)
	p.registerPrefix(lexer.QUERY, p.parseQueryLiteral)
	p.registerPrefix(lexer.CONTEXT, p.parseContextLiteral)
	p.registerPrefix(lexer.STDLIB, p.parseStdlibImport)
	p.registerPrefix(lexer.STDIO, p.parseStdioLiteral)
	p.registerPrefix(lexer.PATH, p.parsePathLiteral)
	p.registerPrefix(lexer.URL, p.parseURLLiteral)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseDictLiteral)
	p.registerPrefix(lexer.LPAREN, p.parseParenthesizedExpression)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpression)
	p.registerPrefix(lexer.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(lexer.FOR, p.parseForExpression)
	p.registerPrefix(lexer.IF, p.parseIfExpression)
	p.registerPrefix(lexer.TRY, p.parseTryExpression)
	p.registerPrefix(lexer.IMPORT, p.parseImportExpression)
	p.registerPrefix(lexer.LT, p.parseTagOrFail)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for tt, prec := range precedences {
		if prec >= LOGIC_OR && prec <= CONCAT {
			p.registerInfix(tt, p.parseInfixExpression)
		}
	}
	p.registerInfix(lexer.NULLISH, p.parseNullishExpression)
	p.registerInfix(lexer.QUESTION, p.parseTernaryExpression)
	p.registerInfix(lexer.ASSIGN, p.parseAssignmentExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexOrSliceExpression)
	p.registerInfix(lexer.DOT, p.parseMemberExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// ErrorList is every error found by a tolerant parse.
type ErrorList []*perrors.ParsleyError

func (el ErrorList) Error() string {
	msgs := make([]string, len(el))
	for i, e := range el {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Parse parses src. A fail-fast parse returns the first error as a
// *errors.ParsleyError and no program; a tolerant parse returns the program
// together with an ErrorList.
func Parse(src string, opts ...Option) (*ast.Program, error) {
	return parse(lexer.New(src), opts)
}

// ParseFile is Parse with a filename attached to every error.
func ParseFile(filename, src string, opts ...Option) (*ast.Program, error) {
	return parse(lexer.NewWithFilename(src, filename), opts)
}

func parse(l *lexer.Lexer, opts []Option) (*ast.Program, error) {
	p := New(l, opts...)
	program := p.ParseProgram()
	if len(p.errors) == 0 {
		return program, nil
	}
	if p.opts.Tolerant {
		return program, ErrorList(p.errors)
	}
	return nil, p.errors[0]
}

// Errors returns parser errors as strings (convenience method for tests).
// Prefer StructuredErrors() for production code.
func (p *Parser) Errors() []string {
	result := make([]string, len(p.errors))
	for i, err := range p.errors {
		if err.Line > 0 {
			result[i] = fmt.Sprintf("line %d, column %d: %s", err.Line, err.Column, err.Message)
		} else {
			result[i] = err.Message
		}
	}
	return result
}

// StructuredErrors returns parser errors as structured ParsleyError objects.
func (p *Parser) StructuredErrors() []*perrors.ParsleyError {
	return p.errors
}

// Comments returns the comments the lexer skipped.
func (p *Parser) Comments() []lexer.Token {
	return p.l.Comments()
}

// registerPrefix registers a prefix parse function
func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers an infix parse function
func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances prevToken, curToken, and peekToken
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.curState = p.peekState
	p.peekState = p.l.SaveState()
	p.peekToken = p.l.NextToken()
}

// relexPeek rereads peekToken after the lexer's mode has been changed.
func (p *Parser) relexPeek() {
	p.peekState = p.l.SaveState()
	p.peekToken = p.l.NextToken()
}

// ============================================================================
// Errors
// ============================================================================

// fail records err and unwinds to the nearest recovery point.
func (p *Parser) fail(err *perrors.ParsleyError) {
	if err.File == "" && p.l.Filename() != "" {
		err = err.WithFile(p.l.Filename())
	}
	p.errors = append(p.errors, err)
	panic(bailout{})
}

// failAt records a catalog error covering span.
func (p *Parser) failAt(code string, span lexer.Span, data map[string]any) {
	p.fail(perrors.NewAt(code, span.ErrorSpan(), data))
}

// failToken reports tok as unexpected, or passes on its lexical error.
func (p *Parser) failToken(tok lexer.Token) {
	if tok.Type == lexer.ILLEGAL && tok.Err != nil {
		p.fail(tok.Err)
	}
	p.failAt("PARSE-0002", tok.Span, map[string]any{"Token": describeToken(tok)})
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if peekToken has type t and fails otherwise.
func (p *Parser) expectPeek(t lexer.TokenType) {
	if p.peekTokenIs(t) {
		p.nextToken()
		return
	}
	p.peekError(t)
}

func (p *Parser) peekError(t lexer.TokenType) {
	if p.peekToken.Type == lexer.ILLEGAL && p.peekToken.Err != nil {
		p.fail(p.peekToken.Err)
	}
	p.failAt("PARSE-0001", p.peekToken.Span, map[string]any{
		"Expected": describeType(t),
		"Got":      describeToken(p.peekToken),
	})
}

// expectCur fails unless curToken has type t.
func (p *Parser) expectCur(t lexer.TokenType) {
	if p.curTokenIs(t) {
		return
	}
	if p.curToken.Type == lexer.ILLEGAL && p.curToken.Err != nil {
		p.fail(p.curToken.Err)
	}
	p.failAt("PARSE-0001", p.curToken.Span, map[string]any{
		"Expected": describeType(t),
		"Got":      describeToken(p.curToken),
	})
}

var typeDescriptions = map[lexer.TokenType]string{
	lexer.IDENT:             "identifier",
	lexer.EOF:               "end of file",
	lexer.ASSIGN:            "'='",
	lexer.COLON:             "':'",
	lexer.COMMA:             "','",
	lexer.LPAREN:            "'('",
	lexer.RPAREN:            "')'",
	lexer.LBRACE:            "'{'",
	lexer.RBRACE:            "'}'",
	lexer.LBRACKET:          "'['",
	lexer.RBRACKET:          "']'",
	lexer.IN:                "'in'",
	lexer.INTERP_END:        "'}'",
	lexer.TAG_IDENT:         "tag name",
	lexer.TAG_GT:            "'>'",
	lexer.STRING_END:        "end of string",
	lexer.PATH_TEMPLATE_END: "')'",
}

func describeType(t lexer.TokenType) string {
	if d, ok := typeDescriptions[t]; ok {
		return d
	}
	return strings.ToLower(t.String())
}

func describeToken(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of file"
	}
	if tok.Literal == "" {
		return describeType(tok.Type)
	}
	return tok.Literal
}

// ============================================================================
// Nesting, speculation and recovery
// ============================================================================

// enter counts one level of nesting and fails past the limit. Pair every
// call with a deferred leave.
func (p *Parser) enter(span lexer.Span) {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		p.depth--
		p.failAt("LIMIT-0001", span, map[string]any{"Max": p.opts.MaxDepth})
	}
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) openBrace()  { p.braces++ }
func (p *Parser) closeBrace() { p.braces-- }

type snapshot struct {
	prev, cur, peek lexer.Token
	curState        lexer.State
	peekState       lexer.State
	lexState        lexer.State
	nerrors         int
	braces          int
}

func (p *Parser) save() snapshot {
	return snapshot{
		prev: p.prevToken, cur: p.curToken, peek: p.peekToken,
		curState:  p.curState,
		peekState: p.peekState,
		lexState:  p.l.SaveState(),
		nerrors:   len(p.errors),
		braces:    p.braces,
	}
}

func (p *Parser) restore(s snapshot) {
	p.prevToken, p.curToken, p.peekToken = s.prev, s.cur, s.peek
	p.curState, p.peekState = s.curState, s.peekState
	p.l.RestoreState(s.lexState)
	p.errors = p.errors[:s.nerrors]
	p.braces = s.braces
}

// speculate runs fn and reports whether it succeeded. On failure the parser
// is rewound as if fn had never run.
func (p *Parser) speculate(fn func()) (ok bool) {
	snap := p.save()
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.restore(snap)
			ok = false
		}
	}()
	fn()
	return true
}

// recoverTo turns a bailout into a call to onError in tolerant mode. In
// fail-fast mode the bailout keeps unwinding. start is the first token of
// the construct being abandoned and braces the brace count when it began.
func (p *Parser) recoverTo(start lexer.Token, braces int, onError func()) {
	r := recover()
	if r == nil {
		return
	}
	if _, isBailout := r.(bailout); !isBailout || !p.opts.Tolerant {
		panic(r)
	}
	open := p.braces - braces
	p.braces = braces
	if p.curToken.Span.Start > start.Span.Start && p.failedAtCur() {
		switch p.curToken.Type {
		case lexer.RBRACE, lexer.LET, lexer.EXPORT, lexer.RETURN, lexer.CHECK:
			// The token that failed belongs to what follows; give it back.
			p.backup()
		}
	}
	p.synchronize(open)
	onError()
}

// failedAtCur reports whether the last error was raised on curToken.
func (p *Parser) failedAtCur() bool {
	if len(p.errors) == 0 {
		return false
	}
	err := p.errors[len(p.errors)-1]
	return err.Offset == p.curToken.Span.Start && err.EndOffset == p.curToken.Span.End
}

// backup steps back one token.
func (p *Parser) backup() {
	p.peekToken, p.peekState = p.curToken, p.curState
	p.curToken = p.prevToken
	p.l.RestoreState(p.peekState)
	p.l.NextToken()
}

// synchronize skips to the end of the broken statement, leaving curToken on
// its last token. open is the number of '{' consumed inside the statement
// that were never closed.
func (p *Parser) synchronize(open int) {
	depth := open
	for {
		switch p.peekToken.Type {
		case lexer.EOF:
			return
		case lexer.RBRACE:
			if depth == 0 {
				return
			}
			depth--
			p.nextToken()
			if depth == 0 {
				return
			}
			continue
		case lexer.LBRACE:
			depth++
		case lexer.SEMICOLON:
			if depth == 0 {
				p.nextToken()
				return
			}
		case lexer.LET, lexer.EXPORT, lexer.RETURN, lexer.CHECK:
			if depth == 0 {
				return
			}
		}
		p.nextToken()
	}
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// spanFrom covers start through the current token.
func (p *Parser) spanFrom(start lexer.Span) lexer.Span {
	return start.Cover(p.curToken.Span)
}
