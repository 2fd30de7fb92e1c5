package lexer

import (
	"strings"
	"testing"
)

type expectedToken struct {
	typ TokenType
	lit string // empty means "don't check"
}

func assertTokens(t *testing.T, input string, want []expectedToken) {
	t.Helper()
	l := New(input)
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ {
			t.Fatalf("%q tokens[%d]: type = %s, want %s (literal %q)", input, i, tok.Type, w.typ, tok.Literal)
		}
		if w.lit != "" && tok.Literal != w.lit {
			t.Fatalf("%q tokens[%d]: literal = %q, want %q", input, i, tok.Literal, w.lit)
		}
	}
}

func TestNextToken(t *testing.T) {
	input := `let five = 5
let add = fn(x, y) { x + y }
add(five, 10.5) != 9 ?? null
[1, ...rest] // trailing
a..b`

	assertTokens(t, input, []expectedToken{
		{LET, "let"}, {IDENT, "five"}, {ASSIGN, "="}, {NUMBER, "5"},
		{LET, "let"}, {IDENT, "add"}, {ASSIGN, "="}, {FUNCTION, "fn"},
		{LPAREN, "("}, {IDENT, "x"}, {COMMA, ","}, {IDENT, "y"}, {RPAREN, ")"},
		{LBRACE, "{"}, {IDENT, "x"}, {PLUS, "+"}, {IDENT, "y"}, {RBRACE, "}"},
		{IDENT, "add"}, {LPAREN, "("}, {IDENT, "five"}, {COMMA, ","}, {NUMBER, "10.5"}, {RPAREN, ")"},
		{NOT_EQ, "!="}, {NUMBER, "9"}, {NULLISH, "??"}, {NULL, "null"},
		{LBRACKET, "["}, {NUMBER, "1"}, {COMMA, ","}, {DOTDOTDOT, "..."}, {IDENT, "rest"}, {RBRACKET, "]"},
		{IDENT, "a"}, {RANGE, ".."}, {IDENT, "b"},
		{EOF, ""},
	})
}

func TestOperators(t *testing.T) {
	tests := []struct {
		op   string
		want TokenType
	}{
		{"==", EQ}, {"!=", NOT_EQ}, {"<", LT}, {"<=", LTE}, {">", GT}, {">=", GTE},
		{"&&", AND}, {"||", OR}, {"and", AND}, {"or", OR}, {"??", NULLISH},
		{"~", MATCH}, {"!~", NOT_MATCH}, {"..", RANGE}, {"++", PLUSPLUS},
		{"+", PLUS}, {"-", MINUS}, {"*", ASTERISK}, {"/", SLASH}, {"%", PERCENT},
		{"<==", READ_FROM}, {"<=/=", FETCH_FROM}, {"==>", WRITE_TO}, {"==>>", APPEND_TO},
		{"=/=>", REMOTE_WRITE}, {"=/=>>", REMOTE_APPEND},
		{"<=?=>", QUERY_ONE}, {"<=??=>", QUERY_MANY}, {"<=!=>", EXECUTE}, {"<=#=>", EXECUTE_WITH},
		{"|>", PIPE}, {"|<", PIPE_WRITE}, {"?->", RETURN_ONE}, {"??->", RETURN_MANY},
		{"?!->", RETURN_ONE_EXPLICIT}, {"??!->", RETURN_MANY_EXPLICIT}, {".->", EXEC_COUNT},
		{"<-", ARROW_PULL}, {"?", QUESTION}, {":", COLON}, {"=", ASSIGN},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			assertTokens(t, "a "+tt.op+" b", []expectedToken{
				{IDENT, "a"}, {tt.want, tt.op}, {IDENT, "b"}, {EOF, ""},
			})
		})
	}
}

func TestKeywords(t *testing.T) {
	assertTokens(t, "let export return check fn function for in if else try import as true false null computed not _", []expectedToken{
		{LET, ""}, {EXPORT, ""}, {RETURN, ""}, {CHECK, ""}, {FUNCTION, "fn"}, {FUNCTION, "function"},
		{FOR, ""}, {IN, ""}, {IF, ""}, {ELSE, ""}, {TRY, ""}, {IMPORT, ""}, {AS, ""},
		{TRUE, ""}, {FALSE, ""}, {NULL, ""}, {COMPUTED, ""}, {BANG, "not"}, {WILDCARD, "_"},
		{EOF, ""},
	})
	assertTokens(t, "lets _x x_1", []expectedToken{
		{IDENT, "lets"}, {IDENT, "_x"}, {IDENT, "x_1"}, {EOF, ""},
	})
}

func TestRegexVersusDivision(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []expectedToken
	}{
		{"after paren", "(/abc/gi", []expectedToken{{LPAREN, "("}, {REGEX, "/abc/gi"}, {EOF, ""}}},
		{"division", "a / b", []expectedToken{{IDENT, "a"}, {SLASH, "/"}, {IDENT, "b"}, {EOF, ""}}},
		{"chained division", "a / b / c", []expectedToken{{IDENT, "a"}, {SLASH, "/"}, {IDENT, "b"}, {SLASH, "/"}, {IDENT, "c"}}},
		{"number division", "10 / 2", []expectedToken{{NUMBER, "10"}, {SLASH, "/"}, {NUMBER, "2"}}},
		{"after close paren", ") / 2", []expectedToken{{RPAREN, ")"}, {SLASH, "/"}, {NUMBER, "2"}}},
		{"after assign", `x = /a\/b/`, []expectedToken{{IDENT, "x"}, {ASSIGN, "="}, {REGEX, `/a\/b/`}}},
		{"start of input", "/^x$/m", []expectedToken{{REGEX, "/^x$/m"}, {EOF, ""}}},
		{"after keyword", "return /x/", []expectedToken{{RETURN, "return"}, {REGEX, "/x/"}}},
		{"after match operator", "s ~ /[0-9]+/", []expectedToken{{IDENT, "s"}, {MATCH, "~"}, {REGEX, "/[0-9]+/"}}},
		{"after string", `"s" / 2`, []expectedToken{{STRING_START, `"`}, {STRING_TEXT, "s"}, {STRING_END, `"`}, {SLASH, "/"}}},
		{"after true", "true / 2", []expectedToken{{TRUE, "true"}, {SLASH, "/"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.want)
		})
	}
}

func TestRegexErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{"(/abc", "LEX-0002"},
		{"(/ab\nc/", "LEX-0002"},
		{"(/a/gg", "LEX-0009"},
		{"(/a/x", "LEX-0009"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			l.NextToken()
			tok := l.NextToken()
			if tok.Type != ILLEGAL {
				t.Fatalf("type = %s, want ILLEGAL", tok.Type)
			}
			if tok.Err == nil || tok.Err.Code != tt.code {
				t.Fatalf("err = %v, want code %s", tok.Err, tt.code)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []expectedToken
	}{
		{"interpolation", `"hello {name}!"`, []expectedToken{
			{STRING_START, `"`}, {STRING_TEXT, "hello "}, {INTERP_START, "{"}, {IDENT, "name"},
			{INTERP_END, "}"}, {STRING_TEXT, "!"}, {STRING_END, `"`}, {EOF, ""},
		}},
		{"escape", `"a\"b"`, []expectedToken{
			{STRING_START, `"`}, {STRING_TEXT, "a"}, {STRING_ESCAPE, `\"`}, {STRING_TEXT, "b"}, {STRING_END, `"`},
		}},
		{"escaped brace", `"\{x}"`, []expectedToken{
			{STRING_START, `"`}, {STRING_ESCAPE, `\{`}, {STRING_TEXT, "x}"}, {STRING_END, `"`},
		}},
		{"dict inside interpolation", `"{ {a: 1}.a }"`, []expectedToken{
			{STRING_START, `"`}, {INTERP_START, "{"}, {LBRACE, "{"}, {IDENT, "a"}, {COLON, ":"}, {NUMBER, "1"},
			{RBRACE, "}"}, {DOT, "."}, {IDENT, "a"}, {INTERP_END, "}"}, {STRING_END, `"`}, {EOF, ""},
		}},
		{"nested strings", `"a{"b{c}"}"`, []expectedToken{
			{STRING_START, `"`}, {STRING_TEXT, "a"}, {INTERP_START, "{"}, {STRING_START, `"`}, {STRING_TEXT, "b"},
			{INTERP_START, "{"}, {IDENT, "c"}, {INTERP_END, "}"}, {STRING_END, `"`}, {INTERP_END, "}"},
			{STRING_END, `"`}, {EOF, ""},
		}},
		{"template", "`x{1}`", []expectedToken{
			{TEMPLATE_START, "`"}, {STRING_TEXT, "x"}, {INTERP_START, "{"}, {NUMBER, "1"}, {INTERP_END, "}"},
			{STRING_END, "`"},
		}},
		{"raw", `'a {b} @{c}'`, []expectedToken{
			{RAW_START, "'"}, {STRING_TEXT, "a {b} "}, {INTERP_START, "@{"}, {IDENT, "c"}, {INTERP_END, "}"},
			{STRING_END, "'"}, {EOF, ""},
		}},
		{"raw with lone at", `'me@example.com'`, []expectedToken{
			{RAW_START, "'"}, {STRING_TEXT, "me@example.com"}, {STRING_END, "'"},
		}},
		{"multiline", "\"a\nb\"", []expectedToken{
			{STRING_START, `"`}, {STRING_TEXT, "a\nb"}, {STRING_END, `"`},
		}},
		{"unicode", `"héllo 日本"`, []expectedToken{
			{STRING_START, `"`}, {STRING_TEXT, "héllo 日本"}, {STRING_END, `"`},
		}},
		{"empty", `""`, []expectedToken{{STRING_START, `"`}, {STRING_END, `"`}, {EOF, ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.want)
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`x = "abc`)
	var tok Token
	for i := 0; i < 5; i++ {
		tok = l.NextToken()
		if tok.Type == ILLEGAL {
			break
		}
	}
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
	if tok.Err.Code != "LEX-0001" || !strings.Contains(tok.Err.Message, "unterminated string") {
		t.Errorf("err = %v", tok.Err)
	}
	if tok.Span.Start != 4 || tok.Span.Column != 5 {
		t.Errorf("span = %+v, want start at the opening quote", tok.Span)
	}
}

func TestNumbers(t *testing.T) {
	assertTokens(t, "42 3.14 1..5 1.", []expectedToken{
		{NUMBER, "42"}, {NUMBER, "3.14"}, {NUMBER, "1"}, {RANGE, ".."}, {NUMBER, "5"},
		{NUMBER, "1"}, {DOT, "."}, {EOF, ""},
	})
}

func TestMoney(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
		lit   string
		code  string
	}{
		{"$12.50", MONEY, "$12.50", ""},
		{"£5", MONEY, "£5", ""},
		{"€9.99", MONEY, "€9.99", ""},
		{"¥100", MONEY, "¥100", ""},
		{"USD#10.25", MONEY, "USD#10.25", ""},
		{"$1.5", MONEY, "$1.5", ""},
		{"$12.555", ILLEGAL, "", "LEX-0004"},
		{"EUR#1.999", ILLEGAL, "", "LEX-0004"},
		{"$x", ILLEGAL, "", "LEX-0006"},
		{"USD", IDENT, "USD", ""},
		{"USDX#1", IDENT, "USDX", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			if tok.Type != tt.typ {
				t.Fatalf("type = %s, want %s", tok.Type, tt.typ)
			}
			if tt.lit != "" && tok.Literal != tt.lit {
				t.Errorf("literal = %q, want %q", tok.Literal, tt.lit)
			}
			if tt.code != "" && (tok.Err == nil || tok.Err.Code != tt.code) {
				t.Errorf("err = %v, want %s", tok.Err, tt.code)
			}
		})
	}
}

func TestAtLiterals(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
		lit   string
	}{
		{"@2024-01-15", DATETIME, "@2024-01-15"},
		{"@2024-01-15T10:30:00Z", DATETIME, "@2024-01-15T10:30:00Z"},
		{"@2024-01-15T10:30", DATETIME, "@2024-01-15T10:30"},
		{"@2024-01-15T10:30:00.123+05:30", DATETIME, "@2024-01-15T10:30:00.123+05:30"},
		{"@12:30", DATETIME, "@12:30"},
		{"@9:05:10", DATETIME, "@9:05:10"},
		{"@now", TIME_NOW, "@now"},
		{"@today", TIME_NOW, "@today"},
		{"@timeNow", TIME_NOW, "@timeNow"},
		{"@dateNow", TIME_NOW, "@dateNow"},
		{"@2h30m", DURATION, "@2h30m"},
		{"@-7d", DURATION, "@-7d"},
		{"@1y6mo", DURATION, "@1y6mo"},
		{"@10m", DURATION, "@10m"},
		{"@3w", DURATION, "@3w"},
		{"@sqlite", CONNECTION, "@sqlite"},
		{"@DB", CONNECTION, "@DB"},
		{"@shell", CONNECTION, "@shell"},
		{"@schema", SCHEMA, "@schema"},
		{"@table", TABLE, "@table"},
		{"@query", QUERY, "@query"},
		{"@transaction", QUERY, "@transaction"},
		{"@SEARCH", CONTEXT, "@SEARCH"},
		{"@env", CONTEXT, "@env"},
		{"@std", STDLIB, "@std"},
		{"@std/table", STDLIB, "@std/table"},
		{"@basil/http", STDLIB, "@basil/http"},
		{"@-", STDIO, "@-"},
		{"@stdin", STDIO, "@stdin"},
		{"@stderr", STDIO, "@stderr"},
		{"@./config.yaml", PATH, "@./config.yaml"},
		{"@../up/file", PATH, "@../up/file"},
		{"@/usr/local", PATH, "@/usr/local"},
		{"@~/notes.txt", PATH, "@~/notes.txt"},
		{"@.", PATH, "@."},
		{"@.config", PATH, "@.config"},
		{"@https://example.com/a?b=1", URL, "@https://example.com/a?b=1"},
		{"@file:///tmp/x", URL, "@file:///tmp/x"},
		{"@ftp://host/f", URL, "@ftp://host/f"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assertTokens(t, tt.input, []expectedToken{{tt.typ, tt.lit}, {EOF, ""}})
		})
	}
}

func TestAtLiteralBoundaries(t *testing.T) {
	assertTokens(t, "f(@./a.txt, @now)", []expectedToken{
		{IDENT, "f"}, {LPAREN, "("}, {PATH, "@./a.txt"}, {COMMA, ","}, {TIME_NOW, "@now"}, {RPAREN, ")"}, {EOF, ""},
	})
	assertTokens(t, "@std/math.floor", []expectedToken{
		{STDLIB, "@std/math"}, {DOT, "."}, {IDENT, "floor"},
	})
	assertTokens(t, "@2h + @30m", []expectedToken{
		{DURATION, "@2h"}, {PLUS, "+"}, {DURATION, "@30m"},
	})
}

func TestUnknownAtLiteral(t *testing.T) {
	for _, input := range []string{"@nowhere", "@2024", "@", "@#", "@http"} {
		t.Run(input, func(t *testing.T) {
			tok := New(input).NextToken()
			if tok.Type != ILLEGAL {
				t.Fatalf("type = %s, want ILLEGAL", tok.Type)
			}
			if tok.Err.Code != "LEX-0003" {
				t.Errorf("code = %s, want LEX-0003", tok.Err.Code)
			}
		})
	}
}

func TestPathTemplate(t *testing.T) {
	assertTokens(t, "@(./a/{x}.txt) + 1", []expectedToken{
		{PATH_TEMPLATE_START, "@("}, {PATH_TEXT, "./a/"}, {INTERP_START, "{"}, {IDENT, "x"},
		{INTERP_END, "}"}, {PATH_TEXT, ".txt"}, {PATH_TEMPLATE_END, ")"}, {PLUS, "+"}, {NUMBER, "1"}, {EOF, ""},
	})

	l := New("@(./a")
	l.NextToken()
	l.NextToken()
	if tok := l.NextToken(); tok.Type != ILLEGAL || tok.Err.Code != "LEX-0001" {
		t.Errorf("unterminated template: got %s %v", tok.Type, tok.Err)
	}
}

func TestComments(t *testing.T) {
	l := New("let x = 1 // one\n// two\nx")
	want := []TokenType{LET, IDENT, ASSIGN, NUMBER, IDENT, EOF}
	for i, typ := range want {
		if tok := l.NextToken(); tok.Type != typ {
			t.Fatalf("tokens[%d] = %s, want %s", i, tok.Type, typ)
		}
	}

	comments := l.Comments()
	if len(comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(comments))
	}
	if comments[0].Literal != "// one" || comments[1].Literal != "// two" {
		t.Errorf("comments = %q, %q", comments[0].Literal, comments[1].Literal)
	}
	if comments[1].Span.Line != 2 || comments[1].Type != COMMENT {
		t.Errorf("second comment = %+v", comments[1])
	}
}

func TestSpans(t *testing.T) {
	tests := []struct {
		input string
		want  []Span
	}{
		{"let x\n  = 42", []Span{
			{Start: 0, End: 3, Line: 1, Column: 1, EndLine: 1, EndColumn: 4},
			{Start: 4, End: 5, Line: 1, Column: 5, EndLine: 1, EndColumn: 6},
			{Start: 8, End: 9, Line: 2, Column: 3, EndLine: 2, EndColumn: 4},
			{Start: 10, End: 12, Line: 2, Column: 5, EndLine: 2, EndColumn: 7},
		}},
		{`"é" x`, []Span{
			{Start: 0, End: 1, Line: 1, Column: 1, EndLine: 1, EndColumn: 2},
			{Start: 1, End: 3, Line: 1, Column: 2, EndLine: 1, EndColumn: 3},
			{Start: 3, End: 4, Line: 1, Column: 3, EndLine: 1, EndColumn: 4},
			{Start: 5, End: 6, Line: 1, Column: 5, EndLine: 1, EndColumn: 6},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			for i, want := range tt.want {
				if got := l.NextToken().Span; got != want {
					t.Errorf("tokens[%d].Span = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestSaveRestoreState(t *testing.T) {
	l := New("a + b")
	l.NextToken()
	s := l.SaveState()
	if tok := l.NextToken(); tok.Type != PLUS {
		t.Fatalf("got %s", tok.Type)
	}
	l.NextToken()
	l.RestoreState(s)
	if tok := l.NextToken(); tok.Type != PLUS {
		t.Errorf("after restore got %s, want PLUS", tok.Type)
	}

	l = New(`"x{y}"`)
	l.NextToken()
	s = l.SaveState()
	l.NextToken()
	l.NextToken()
	if l.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", l.Depth())
	}
	l.RestoreState(s)
	if tok := l.NextToken(); tok.Type != STRING_TEXT || tok.Literal != "x" {
		t.Errorf("after restore got %s %q", tok.Type, tok.Literal)
	}
}

func TestRestoreDropsComments(t *testing.T) {
	l := New("a // c\nb")
	l.NextToken()
	s := l.SaveState()
	l.NextToken()
	if len(l.Comments()) != 1 {
		t.Fatalf("comments = %d, want 1", len(l.Comments()))
	}
	l.RestoreState(s)
	if len(l.Comments()) != 0 {
		t.Errorf("comments after restore = %d, want 0", len(l.Comments()))
	}
}

func TestTagModes(t *testing.T) {
	l := New(`<div class="a" id={x}>hi {y}<br/></div> + 1`)
	if tok := l.NextToken(); tok.Type != LT {
		t.Fatalf("got %s, want LT", tok.Type)
	}
	l.EnterTag()

	want := []expectedToken{
		{TAG_IDENT, "div"}, {TAG_IDENT, "class"}, {ASSIGN, "="},
		{STRING_START, `"`}, {STRING_TEXT, "a"}, {STRING_END, `"`},
		{TAG_IDENT, "id"}, {ASSIGN, "="}, {INTERP_START, "{"}, {IDENT, "x"}, {INTERP_END, "}"},
		{TAG_GT, ">"}, {TAG_TEXT, "hi "}, {INTERP_START, "{"}, {IDENT, "y"}, {INTERP_END, "}"},
		{TAG_START, "<"}, {TAG_IDENT, "br"}, {TAG_SELF_CLOSE, "/>"},
		{TAG_END_START, "</"}, {TAG_IDENT, "div"}, {TAG_GT, ">"},
		{PLUS, "+"}, {NUMBER, "1"}, {EOF, ""},
	}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ || tok.Literal != w.lit {
			t.Fatalf("tokens[%d] = %s %q, want %s %q", i, tok.Type, tok.Literal, w.typ, w.lit)
		}
	}
	if l.Depth() != 0 {
		t.Errorf("depth = %d after tag, want 0", l.Depth())
	}
}

func TestTagBodySkipsBlankText(t *testing.T) {
	l := New("<p>\n  <b>x</b>\n</p>")
	l.NextToken()
	l.EnterTag()
	want := []TokenType{TAG_IDENT, TAG_GT, TAG_START, TAG_IDENT, TAG_GT, TAG_TEXT,
		TAG_END_START, TAG_IDENT, TAG_GT, TAG_END_START, TAG_IDENT, TAG_GT, EOF}
	for i, typ := range want {
		if tok := l.NextToken(); tok.Type != typ {
			t.Fatalf("tokens[%d] = %s %q, want %s", i, tok.Type, tok.Literal, typ)
		}
	}
}

func TestTokenize(t *testing.T) {
	toks := Tokenize("a < b")
	want := []TokenType{IDENT, LT, IDENT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, typ := range want {
		if toks[i].Type != typ {
			t.Errorf("toks[%d] = %s, want %s", i, toks[i].Type, typ)
		}
	}

	toks = Tokenize("a # b")
	last := toks[len(toks)-1]
	if last.Type != ILLEGAL || last.Err.Code != "LEX-0006" {
		t.Errorf("last token = %s %v, want ILLEGAL LEX-0006", last.Type, last.Err)
	}
}

func TestTokenTypeString(t *testing.T) {
	if DURATION.String() != "DURATION" || TokenType(9999).String() != "UNKNOWN" {
		t.Errorf("unexpected names: %s %s", DURATION, TokenType(9999))
	}
	if !URL.IsAtLiteral() || PATH_TEMPLATE_START.IsAtLiteral() {
		t.Error("IsAtLiteral mismatch")
	}
	if !COMPUTED.IsKeyword() || IDENT.IsKeyword() {
		t.Error("IsKeyword mismatch")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{Start: 4, End: 6, Line: 1, Column: 5, EndLine: 1, EndColumn: 7}
	b := Span{Start: 10, End: 12, Line: 2, Column: 1, EndLine: 2, EndColumn: 3}
	got := a.Cover(b)
	want := Span{Start: 4, End: 12, Line: 1, Column: 5, EndLine: 2, EndColumn: 3}
	if got != want {
		t.Errorf("Cover = %+v, want %+v", got, want)
	}
	if got.Len() != 8 {
		t.Errorf("Len = %d, want 8", got.Len())
	}
}
