package lexer

// Word forms that may follow '@', grouped by token type.
var atWords = map[string]TokenType{
	"now":         TIME_NOW,
	"today":       TIME_NOW,
	"timeNow":     TIME_NOW,
	"dateNow":     TIME_NOW,
	"sqlite":      CONNECTION,
	"postgres":    CONNECTION,
	"mysql":       CONNECTION,
	"sftp":        CONNECTION,
	"shell":       CONNECTION,
	"DB":          CONNECTION,
	"schema":      SCHEMA,
	"table":       TABLE,
	"query":       QUERY,
	"insert":      QUERY,
	"update":      QUERY,
	"delete":      QUERY,
	"transaction": QUERY,
	"SEARCH":      CONTEXT,
	"env":         CONTEXT,
	"args":        CONTEXT,
	"params":      CONTEXT,
	"std":         STDLIB,
	"basil":       STDLIB,
	"stdin":       STDIO,
	"stdout":      STDIO,
	"stderr":      STDIO,
}

var urlSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "file": true}

// readAtLiteral reads one of the closed set of @-forms. Multi-character
// forms are tried before shorter ones.
func (l *Lexer) readAtLiteral() Token {
	m := l.mark()
	rest := l.input[l.pos+1:]

	switch {
	case len(rest) > 0 && rest[0] == '(':
		l.readN(2)
		l.push(frame{mode: modePathTmpl, start: m})
		return l.token(PATH_TEMPLATE_START, m)

	case len(rest) > 0 && (isDigit(rune(rest[0])) || rest[0] == '-' && len(rest) > 1 && isDigit(rune(rest[1]))):
		if n := scanDateTime(rest); n > 0 {
			l.readN(n + 1)
			return l.token(DATETIME, m)
		}
		if n := scanTime(rest); n > 0 {
			l.readN(n + 1)
			return l.token(DATETIME, m)
		}
		if n := scanDuration(rest); n > 0 {
			l.readN(n + 1)
			return l.token(DURATION, m)
		}

	case len(rest) > 0 && rest[0] == '-':
		l.readN(2)
		return l.token(STDIO, m)

	case len(rest) > 0 && rest[0] == '.':
		n := 1
		switch {
		case len(rest) > 1 && rest[1] == '/':
			n = 2
		case len(rest) > 2 && rest[1] == '.' && rest[2] == '/':
			n = 3
		}
		l.readN(n + 1)
		l.readPathChars()
		return l.token(PATH, m)

	case len(rest) > 0 && rest[0] == '/':
		l.readN(2)
		l.readPathChars()
		return l.token(PATH, m)

	case len(rest) > 1 && rest[0] == '~' && rest[1] == '/':
		l.readN(3)
		l.readPathChars()
		return l.token(PATH, m)

	case len(rest) > 0 && isLetter(rune(rest[0])):
		n := 0
		for n < len(rest) && (isLetter(rune(rest[n])) || isDigit(rune(rest[n])) || rest[n] == '_') {
			n++
		}
		word := rest[:n]

		if urlSchemes[word] && len(rest) >= n+3 && rest[n:n+3] == "://" {
			l.readN(n + 4)
			l.readPathChars()
			return l.token(URL, m)
		}

		typ, ok := atWords[word]
		if !ok {
			break
		}
		l.readN(n + 1)
		if typ == STDLIB && l.ch == '/' && isLetter(rune(l.peekByte(1))) {
			l.readChar()
			for isLetter(l.ch) {
				l.readChar()
			}
		}
		return l.token(typ, m)
	}

	return l.unknownAt(m)
}

// unknownAt reports an unrecognised @-form, spanning the word after '@'.
func (l *Lexer) unknownAt(m mark) Token {
	l.readChar() // @
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '-' || l.ch == ':' {
		l.readChar()
	}
	return l.illegal(m, "LEX-0003", map[string]any{"Text": l.input[start:l.pos]})
}

// readPathChars consumes characters allowed in path and URL literals.
func (l *Lexer) readPathChars() {
	for !l.atEOF() && isPathChar(l.ch) {
		l.readChar()
	}
}

func isPathChar(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '<', '>', '"', '{', '}', '|', '\\', '^', '`', '[', ']',
		'(', ')', ',', ';':
		return false
	}
	return true
}

// scanDigits returns how many ASCII digits start s, up to max.
func scanDigits(s string, max int) int {
	n := 0
	for n < len(s) && n < max && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// exactDigits reports whether s starts with exactly n digits at offset i.
func exactDigits(s string, i, n int) bool {
	return i+n <= len(s) && scanDigits(s[i:], n) == n
}

// scanDateTime matches YYYY-MM-DD[THH:MM[:SS][(.frac)?(Z|±HH:MM)]] at the
// start of s and returns the match length, or 0.
func scanDateTime(s string) int {
	if !exactDigits(s, 0, 4) || len(s) < 10 || s[4] != '-' || !exactDigits(s, 5, 2) ||
		s[7] != '-' || !exactDigits(s, 8, 2) {
		return 0
	}
	n := 10
	if n < len(s) && s[n] == 'T' {
		t := scanClock(s[n+1:], 2)
		if t == 0 {
			return n
		}
		n += 1 + t
		if n < len(s) && s[n] == '.' {
			if f := scanDigits(s[n+1:], len(s)); f > 0 {
				n += 1 + f
			}
		}
		n += scanOffset(s[n:])
	}
	return n
}

// scanTime matches a bare H(H):MM[:SS].
func scanTime(s string) int {
	return scanClock(s, 1)
}

// scanClock matches HH:MM[:SS], where the hour has between minHour and two
// digits.
func scanClock(s string, minHour int) int {
	h := scanDigits(s, 2)
	if h < minHour || h >= len(s) || s[h] != ':' || !exactDigits(s, h+1, 2) {
		return 0
	}
	n := h + 3
	if n < len(s) && s[n] == ':' && exactDigits(s, n+1, 2) {
		n += 3
	}
	return n
}

func scanOffset(s string) int {
	if len(s) > 0 && s[0] == 'Z' {
		return 1
	}
	if len(s) >= 6 && (s[0] == '+' || s[0] == '-') && exactDigits(s, 1, 2) && s[3] == ':' && exactDigits(s, 4, 2) {
		return 6
	}
	return 0
}

// scanDuration matches -?\d+[yMwdhms]([0-9yMwdhms]|mo)*.
func scanDuration(s string) int {
	n := 0
	if n < len(s) && s[n] == '-' {
		n++
	}
	d := scanDigits(s[n:], len(s))
	if d == 0 {
		return 0
	}
	n += d
	u := durationUnit(s[n:])
	if u == 0 {
		return 0
	}
	n += u
	for n < len(s) {
		if w := durationUnit(s[n:]); w > 0 {
			n += w
		} else if isDigit(rune(s[n])) {
			n++
		} else {
			break
		}
	}
	return n
}

// durationUnit returns the width of the unit at the start of s.
func durationUnit(s string) int {
	if len(s) >= 2 && s[0] == 'm' && s[1] == 'o' {
		return 2
	}
	if len(s) > 0 && isDurationUnit(s[0]) {
		return 1
	}
	return 0
}

func isDurationUnit(b byte) bool {
	switch b {
	case 'y', 'M', 'w', 'd', 'h', 'm', 's':
		return true
	}
	return false
}
