// Package lexer turns Parsley source text into positioned tokens.
//
// The lexer is a small mode machine. In code mode it produces ordinary
// tokens; opening a string, raw string, template, path template or embedded
// expression pushes a frame, and the matching delimiter pops it. Tag frames
// are pushed by the parser (EnterTag) once it has decided that a '<' opens a
// tag, since the lexer alone cannot tell a tag from a comparison.
package lexer

import (
	"strings"
	"unicode/utf8"

	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
)

type mode uint8

const (
	modeInterp    mode = iota + 1 // code tokens until the matching '}'
	modeString                    // "..." and `...`
	modeRaw                       // '...'
	modePathTmpl                  // @( ... )
	modeTagOpen                   // <name attrs
	modeTagBody                   // children
	modeTagClose                  // </name>
)

// frame is one entry of the mode stack.
type frame struct {
	mode  mode
	delim rune // closing quote for string frames
	depth int  // open '{' count inside an interpolation
	start mark // where the construct began, for error messages
}

// mark is a cursor position.
type mark struct {
	pos, line, col int
}

// Lexer represents the lexical analyzer
type Lexer struct {
	filename string
	input    string
	pos      int  // offset of ch
	size     int  // byte width of ch (0 at EOF)
	ch       rune // current character, 0 at EOF
	line     int
	col      int
	last     TokenType // last significant token, for regex detection
	modes    []frame
	comments []Token
}

// State is a snapshot of the lexer used for speculative parsing.
type State struct {
	pos, size int
	ch        rune
	line, col int
	last      TokenType
	modes     []frame
	ncomments int
}

// New creates a new lexer instance
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, col: 1, last: EOF}
	l.decode()
	return l
}

// NewWithFilename creates a new lexer with a filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	l := New(input)
	l.filename = filename
	return l
}

// Filename returns the name given to NewWithFilename.
func (l *Lexer) Filename() string { return l.filename }

// Input returns the source text.
func (l *Lexer) Input() string { return l.input }

// Comments returns the comments skipped so far, in source order.
func (l *Lexer) Comments() []Token { return l.comments }

// SaveState captures the cursor, the mode stack and the regex context.
func (l *Lexer) SaveState() State {
	s := State{
		pos: l.pos, size: l.size, ch: l.ch,
		line: l.line, col: l.col,
		last:      l.last,
		ncomments: len(l.comments),
	}
	if len(l.modes) > 0 {
		s.modes = append([]frame(nil), l.modes...)
	}
	return s
}

// RestoreState rewinds the lexer to a previously saved state.
func (l *Lexer) RestoreState(s State) {
	l.pos, l.size, l.ch = s.pos, s.size, s.ch
	l.line, l.col = s.line, s.col
	l.last = s.last
	l.modes = append(l.modes[:0:0], s.modes...)
	l.comments = l.comments[:s.ncomments]
}

// EnterTag switches the lexer into open-tag mode. The caller must have
// rewound the lexer to just after the '<'.
func (l *Lexer) EnterTag() {
	l.push(frame{mode: modeTagOpen, start: l.mark()})
}

// Depth returns the number of open frames.
func (l *Lexer) Depth() int { return len(l.modes) }

// Tokenize lexes the whole input. Tags are not recognised because that
// decision belongs to the parser; '<' comes back as LT.
func Tokenize(input string) []Token {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF || tok.Type == ILLEGAL {
			return toks
		}
	}
}

// NextToken returns the next token in the current mode.
func (l *Lexer) NextToken() Token {
	var tok Token
	switch l.top().mode {
	case modeString, modeRaw:
		tok = l.lexString()
	case modePathTmpl:
		tok = l.lexPathTemplate()
	case modeTagOpen:
		tok = l.lexTagOpen()
	case modeTagBody:
		tok = l.lexTagBody()
	case modeTagClose:
		tok = l.lexTagClose()
	default:
		tok = l.lexCode()
	}
	l.last = tok.Type
	return tok
}

// ============================================================================
// Cursor helpers
// ============================================================================

func (l *Lexer) decode() {
	if l.pos >= len(l.input) {
		l.ch, l.size = 0, 0
		return
	}
	r, size := rune(l.input[l.pos]), 1
	if r >= utf8.RuneSelf {
		r, size = utf8.DecodeRuneInString(l.input[l.pos:])
	}
	l.ch, l.size = r, size
}

func (l *Lexer) readChar() {
	if l.size == 0 {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos += l.size
	l.decode()
}

// readN advances over n ASCII bytes.
func (l *Lexer) readN(n int) {
	for i := 0; i < n; i++ {
		l.readChar()
	}
}

func (l *Lexer) atEOF() bool { return l.size == 0 }

// peekByte returns the byte n positions after the current character.
func (l *Lexer) peekByte(n int) byte {
	if i := l.pos + n; i < len(l.input) {
		return l.input[i]
	}
	return 0
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) mark() mark { return mark{l.pos, l.line, l.col} }

func (l *Lexer) spanFrom(m mark) Span {
	return Span{
		Start: m.pos, End: l.pos,
		Line: m.line, Column: m.col,
		EndLine: l.line, EndColumn: l.col,
	}
}

func (l *Lexer) token(t TokenType, m mark) Token {
	return Token{Type: t, Literal: l.input[m.pos:l.pos], Span: l.spanFrom(m)}
}

// illegal builds an ILLEGAL token carrying a catalog error for the span
// from m to the cursor.
func (l *Lexer) illegal(m mark, code string, data map[string]any) Token {
	if l.pos == m.pos && !l.atEOF() {
		l.readChar()
	}
	tok := l.token(ILLEGAL, m)
	err := perrors.NewAt(code, tok.Span.ErrorSpan(), data)
	if l.filename != "" {
		err = err.WithFile(l.filename)
	}
	tok.Err = err
	tok.Literal = err.Message
	return tok
}

func (l *Lexer) top() frame {
	if len(l.modes) == 0 {
		return frame{}
	}
	return l.modes[len(l.modes)-1]
}

func (l *Lexer) push(f frame) { l.modes = append(l.modes, f) }

func (l *Lexer) pop() {
	if len(l.modes) > 0 {
		l.modes = l.modes[:len(l.modes)-1]
	}
}

// ============================================================================
// Code mode
// ============================================================================

// operators is ordered longest first so the first prefix match wins.
var operators = []struct {
	lit string
	typ TokenType
}{
	{"<=??=>", QUERY_MANY},
	{"??!->", RETURN_MANY_EXPLICIT},
	{"<=?=>", QUERY_ONE},
	{"<=!=>", EXECUTE},
	{"<=#=>", EXECUTE_WITH},
	{"=/=>>", REMOTE_APPEND},
	{"<=/=", FETCH_FROM},
	{"=/=>", REMOTE_WRITE},
	{"==>>", APPEND_TO},
	{"??->", RETURN_MANY},
	{"?!->", RETURN_ONE_EXPLICIT},
	{"<==", READ_FROM},
	{"==>", WRITE_TO},
	{"?->", RETURN_ONE},
	{".->", EXEC_COUNT},
	{"...", DOTDOTDOT},
	{"==", EQ},
	{"!=", NOT_EQ},
	{"<=", LTE},
	{">=", GTE},
	{"&&", AND},
	{"||", OR},
	{"??", NULLISH},
	{"!~", NOT_MATCH},
	{"..", RANGE},
	{"++", PLUSPLUS},
	{"|>", PIPE},
	{"|<", PIPE_WRITE},
	{"<-", ARROW_PULL},
	{"=", ASSIGN},
	{"+", PLUS},
	{"-", MINUS},
	{"*", ASTERISK},
	{"%", PERCENT},
	{"!", BANG},
	{"<", LT},
	{">", GT},
	{"?", QUESTION},
	{"~", MATCH},
	{",", COMMA},
	{";", SEMICOLON},
	{":", COLON},
	{".", DOT},
	{"(", LPAREN},
	{")", RPAREN},
	{"[", LBRACKET},
	{"]", RBRACKET},
}

func (l *Lexer) lexCode() Token {
	l.skipTrivia()
	m := l.mark()

	switch {
	case l.atEOF():
		return l.token(EOF, m)
	case l.ch == '{':
		if n := len(l.modes); n > 0 && l.modes[n-1].mode == modeInterp {
			l.modes[n-1].depth++
		}
		l.readChar()
		return l.token(LBRACE, m)
	case l.ch == '}':
		l.readChar()
		if n := len(l.modes); n > 0 && l.modes[n-1].mode == modeInterp {
			if l.modes[n-1].depth == 0 {
				l.pop()
				return l.token(INTERP_END, m)
			}
			l.modes[n-1].depth--
		}
		return l.token(RBRACE, m)
	case l.ch == '"' || l.ch == '`':
		typ := STRING_START
		if l.ch == '`' {
			typ = TEMPLATE_START
		}
		l.push(frame{mode: modeString, delim: l.ch, start: m})
		l.readChar()
		return l.token(typ, m)
	case l.ch == '\'':
		l.push(frame{mode: modeRaw, delim: '\'', start: m})
		l.readChar()
		return l.token(RAW_START, m)
	case l.ch == '@':
		return l.readAtLiteral()
	case isDigit(l.ch):
		return l.readNumber()
	case isCurrencySymbol(l.ch):
		return l.readMoney(m)
	case isLetter(l.ch) || l.ch == '_':
		return l.readIdentifier()
	case l.ch == '/':
		if !l.last.endsExpression() {
			return l.readRegex()
		}
		l.readChar()
		return l.token(SLASH, m)
	}

	for _, op := range operators {
		if l.hasPrefix(op.lit) {
			l.readN(len(op.lit))
			return l.token(op.typ, m)
		}
	}

	return l.illegal(m, "LEX-0006", map[string]any{"Char": string(l.ch)})
}

// skipTrivia skips whitespace and records // comments.
func (l *Lexer) skipTrivia() {
	for {
		switch {
		case isWhitespace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekByte(1) == '/':
			m := l.mark()
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
			l.comments = append(l.comments, l.token(COMMENT, m))
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() Token {
	m := l.mark()
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	word := l.input[m.pos:l.pos]

	// USD#12.50
	if len(word) == 3 && isUpperWord(word) && l.ch == '#' && isDigit(rune(l.peekByte(1))) {
		l.readChar()
		return l.readMoneyAmount(m)
	}

	return l.token(LookupIdent(word), m)
}

func (l *Lexer) readNumber() Token {
	m := l.mark()
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(rune(l.peekByte(1))) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.token(NUMBER, m)
}

// readMoney reads a symbol-prefixed money literal such as $12.50.
func (l *Lexer) readMoney(m mark) Token {
	l.readChar()
	if !isDigit(l.ch) {
		return l.illegal(m, "LEX-0006", map[string]any{"Char": l.input[m.pos:l.pos]})
	}
	return l.readMoneyAmount(m)
}

// readMoneyAmount reads digits with at most two decimal places.
func (l *Lexer) readMoneyAmount(m mark) Token {
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(rune(l.peekByte(1))) {
		l.readChar()
		decimals := 0
		for isDigit(l.ch) {
			decimals++
			l.readChar()
		}
		if decimals > 2 {
			return l.illegal(m, "LEX-0004", map[string]any{"Literal": l.input[m.pos:l.pos]})
		}
	}
	return l.token(MONEY, m)
}

// readRegex reads /pattern/flags. The body may not span lines.
func (l *Lexer) readRegex() Token {
	m := l.mark()
	l.readChar() // opening /
	for l.ch != '/' {
		if l.atEOF() || l.ch == '\n' {
			return l.illegal(m, "LEX-0002", nil)
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() || l.ch == '\n' {
				return l.illegal(m, "LEX-0002", nil)
			}
		}
		l.readChar()
	}
	l.readChar() // closing /

	flagStart := l.pos
	for isLetter(l.ch) {
		l.readChar()
	}
	if flags := l.input[flagStart:l.pos]; !validRegexFlags(flags) {
		return l.illegal(m, "LEX-0009", map[string]any{"Flags": flags})
	}
	return l.token(REGEX, m)
}

func validRegexFlags(flags string) bool {
	seen := 0
	for i := 0; i < len(flags); i++ {
		bit := strings.IndexByte("gimsuvy", flags[i])
		if bit < 0 || seen&(1<<bit) != 0 {
			return false
		}
		seen |= 1 << bit
	}
	return true
}

// ============================================================================
// Character classes
// ============================================================================

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isCurrencySymbol(ch rune) bool {
	return ch == '$' || ch == '£' || ch == '€' || ch == '¥'
}

func isUpperWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
