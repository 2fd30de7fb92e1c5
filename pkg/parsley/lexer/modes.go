package lexer

import "strings"

// lexString produces the fragments of "...", `...` and '...' literals.
func (l *Lexer) lexString() Token {
	f := l.top()
	m := l.mark()

	switch {
	case l.atEOF():
		l.pop()
		return l.unterminated(f, "string")
	case l.ch == f.delim:
		l.readChar()
		l.pop()
		return l.token(STRING_END, m)
	case l.ch == '\\':
		l.readChar()
		if l.atEOF() {
			return l.illegal(m, "LEX-0005", nil)
		}
		l.readChar()
		return l.token(STRING_ESCAPE, m)
	case f.mode == modeString && l.ch == '{':
		l.readChar()
		l.push(frame{mode: modeInterp, start: m})
		return l.token(INTERP_START, m)
	case f.mode == modeRaw && l.ch == '@' && l.peekByte(1) == '{':
		l.readN(2)
		l.push(frame{mode: modeInterp, start: m})
		return l.token(INTERP_START, m)
	}

	for !l.atEOF() && l.ch != f.delim && l.ch != '\\' {
		if f.mode == modeString && l.ch == '{' {
			break
		}
		if f.mode == modeRaw && l.ch == '@' && l.peekByte(1) == '{' {
			break
		}
		l.readChar()
	}
	return l.token(STRING_TEXT, m)
}

// lexPathTemplate produces the fragments of an @( ... ) template.
func (l *Lexer) lexPathTemplate() Token {
	f := l.top()
	m := l.mark()

	switch {
	case l.atEOF():
		l.pop()
		return l.unterminated(f, "path template")
	case l.ch == ')':
		l.readChar()
		l.pop()
		return l.token(PATH_TEMPLATE_END, m)
	case l.ch == '{':
		l.readChar()
		l.push(frame{mode: modeInterp, start: m})
		return l.token(INTERP_START, m)
	case l.ch == '(' || l.ch == '}':
		return l.illegal(m, "LEX-0006", map[string]any{"Char": string(l.ch)})
	}

	for !l.atEOF() && !strings.ContainsRune("{}()", l.ch) {
		l.readChar()
	}
	return l.token(PATH_TEXT, m)
}

// lexTagOpen produces the name and attributes of an open tag.
func (l *Lexer) lexTagOpen() Token {
	l.skipTrivia()
	m := l.mark()

	switch {
	case l.atEOF():
		return l.token(EOF, m)
	case isLetter(l.ch):
		l.readTagIdent()
		return l.token(TAG_IDENT, m)
	case l.ch == '=':
		l.readChar()
		return l.token(ASSIGN, m)
	case l.ch == '"':
		l.readChar()
		l.push(frame{mode: modeString, delim: '"', start: m})
		return l.token(STRING_START, m)
	case l.ch == '{':
		l.readChar()
		l.push(frame{mode: modeInterp, start: m})
		return l.token(INTERP_START, m)
	case l.hasPrefix("..."):
		l.readN(3)
		return l.token(DOTDOTDOT, m)
	case l.hasPrefix("/>"):
		l.readN(2)
		l.pop()
		return l.token(TAG_SELF_CLOSE, m)
	case l.ch == '>':
		l.readChar()
		l.pop()
		l.push(frame{mode: modeTagBody, start: m})
		return l.token(TAG_GT, m)
	}

	return l.illegal(m, "LEX-0006", map[string]any{"Char": string(l.ch)})
}

// lexTagBody produces the children of a paired tag. Whitespace-only text
// between children is trivia.
func (l *Lexer) lexTagBody() Token {
	for {
		m := l.mark()

		switch {
		case l.atEOF():
			return l.token(EOF, m)
		case l.hasPrefix("</"):
			l.readN(2)
			l.pop()
			l.push(frame{mode: modeTagClose, start: m})
			return l.token(TAG_END_START, m)
		case l.ch == '<':
			if !isLetter(rune(l.peekByte(1))) {
				return l.illegal(m, "LEX-0006", map[string]any{"Char": "<"})
			}
			l.readChar()
			l.push(frame{mode: modeTagOpen, start: m})
			return l.token(TAG_START, m)
		case l.ch == '{':
			l.readChar()
			l.push(frame{mode: modeInterp, start: m})
			return l.token(INTERP_START, m)
		case l.ch == '"':
			l.readChar()
			l.push(frame{mode: modeString, delim: '"', start: m})
			return l.token(STRING_START, m)
		}

		blank := true
		for !l.atEOF() && l.ch != '<' && l.ch != '{' && l.ch != '"' {
			if !isWhitespace(l.ch) {
				blank = false
			}
			l.readChar()
		}
		if !blank {
			return l.token(TAG_TEXT, m)
		}
	}
}

// lexTagClose produces the name and '>' of a close tag.
func (l *Lexer) lexTagClose() Token {
	l.skipTrivia()
	m := l.mark()

	switch {
	case l.atEOF():
		return l.token(EOF, m)
	case isLetter(l.ch):
		l.readTagIdent()
		return l.token(TAG_IDENT, m)
	case l.ch == '>':
		l.readChar()
		l.pop()
		return l.token(TAG_GT, m)
	}

	return l.illegal(m, "LEX-0006", map[string]any{"Char": string(l.ch)})
}

// readTagIdent reads [a-zA-Z][a-zA-Z0-9_-]*. Tag names are narrower than
// attribute names; the parser checks which one it needs.
func (l *Lexer) readTagIdent() {
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '-' {
		l.readChar()
	}
}

// unterminated reports a construct that reached EOF before its delimiter.
func (l *Lexer) unterminated(f frame, kind string) Token {
	tok := l.illegal(f.start, "LEX-0001", map[string]any{
		"Kind":   kind,
		"Line":   f.start.line,
		"Column": f.start.col,
	})
	return tok
}
