package errors

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParsleyError_String(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParsleyError
		expected string
	}{
		{
			name:     "message only",
			err:      &ParsleyError{Message: "something went wrong"},
			expected: "something went wrong",
		},
		{
			name: "with line and column",
			err: &ParsleyError{
				Message: "unexpected '}'",
				Line:    5,
				Column:  10,
			},
			expected: "line 5, column 10: unexpected '}'",
		},
		{
			name: "with file",
			err: &ParsleyError{
				Message: "unterminated string",
				File:    "test.pars",
				Line:    3,
				Column:  1,
			},
			expected: "test.pars: line 3, column 1: unterminated string",
		},
		{
			name: "with hints",
			err: &ParsleyError{
				Message: "unknown keyword 'lett'",
				Line:    1,
				Column:  1,
				Hints:   []string{"did you mean `let`?"},
			},
			expected: "line 1, column 1: unknown keyword 'lett'\n  did you mean `let`?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParsleyError_PrettyString(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParsleyError
		contains []string
	}{
		{
			name:     "lexical",
			err:      &ParsleyError{Class: ClassLexical, Message: "unterminated regex literal", Line: 2, Column: 4},
			contains: []string{"Lexical error", "line 2, column 4", "unterminated regex literal"},
		},
		{
			name:     "syntax",
			err:      &ParsleyError{Class: ClassSyntax, Message: "unexpected ')'", Line: 1, Column: 1},
			contains: []string{"Syntax error", "unexpected ')'"},
		},
		{
			name:     "limit",
			err:      &ParsleyError{Class: ClassLimit, Message: "nesting too deep"},
			contains: []string{"Limit error", "nesting too deep"},
		},
		{
			name: "with file and hints",
			err: &ParsleyError{
				Class:   ClassSyntax,
				Message: "mismatched tags",
				File:    "views/page.pars",
				Line:    10,
				Column:  5,
				Hints:   []string{"</div>", "<div/>"},
			},
			contains: []string{"in: views/page.pars", "at: line 10, column 5", "hint: </div>", "or: <div/>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.PrettyString()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("PrettyString() = %q, should contain %q", got, want)
				}
			}
		})
	}
}

func TestParsleyError_ToJSON(t *testing.T) {
	err := NewAt("PARSE-0001", Span{Start: 4, End: 5, Line: 1, Column: 5, EndLine: 1, EndColumn: 6},
		map[string]any{"Expected": "'='", "Got": "1"})

	b, jerr := err.ToJSON()
	if jerr != nil {
		t.Fatalf("ToJSON() error = %v", jerr)
	}

	var decoded map[string]any
	if jerr := json.Unmarshal(b, &decoded); jerr != nil {
		t.Fatalf("unmarshal: %v", jerr)
	}
	if decoded["class"] != "syntax" {
		t.Errorf("class = %v, want syntax", decoded["class"])
	}
	if decoded["code"] != "PARSE-0001" {
		t.Errorf("code = %v, want PARSE-0001", decoded["code"])
	}
	if decoded["offset"] != float64(4) || decoded["end_offset"] != float64(5) {
		t.Errorf("offsets = %v..%v, want 4..5", decoded["offset"], decoded["end_offset"])
	}
}

func TestNew_WithCatalog(t *testing.T) {
	tests := []struct {
		code      string
		data      map[string]any
		wantClass ErrorClass
		wantMsg   string
		wantHint  string
	}{
		{"PARSE-0001", map[string]any{"Expected": "')'", "Got": "]"}, ClassSyntax, "expected ')', got ']'", ""},
		{"PARSE-0007", map[string]any{"Tag": "div"}, ClassSyntax, "unterminated tag <div>: expected closing tag </div>", "close it with </div> or write <div/>"},
		{"LEX-0004", map[string]any{"Literal": "$12.555"}, ClassLexical, "invalid money literal '$12.555': at most 2 decimal places are allowed", ""},
		{"LIMIT-0001", map[string]any{"Max": 8}, ClassLimit, "nesting too deep: maximum depth is 8", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, tt.data)
			if err.Class != tt.wantClass {
				t.Errorf("Class = %q, want %q", err.Class, tt.wantClass)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if tt.wantHint != "" && (len(err.Hints) == 0 || err.Hints[0] != tt.wantHint) {
				t.Errorf("Hints = %v, want first %q", err.Hints, tt.wantHint)
			}
		})
	}
}

func TestNew_UnknownCode(t *testing.T) {
	err := New("NOPE-0001", map[string]any{"message": "custom"})
	if err.Message != "custom" || err.Class != ClassSyntax {
		t.Errorf("got %+v", err)
	}
}

func TestParsleyError_WithFileAndOffset(t *testing.T) {
	orig := &ParsleyError{Message: "x", Line: 2, EndLine: 2}
	moved := orig.WithFile("a.md").WithLineOffset(10)
	if moved.File != "a.md" || moved.Line != 12 || moved.EndLine != 12 {
		t.Errorf("moved = %+v", moved)
	}
	if orig.File != "" || orig.Line != 2 {
		t.Errorf("original mutated: %+v", orig)
	}
}

func TestSinkFunc(t *testing.T) {
	var got []*ParsleyError
	var sink Sink = SinkFunc(func(e *ParsleyError) { got = append(got, e) })
	sink.Report(NewSimple(ClassSyntax, "a"))
	sink.Report(NewSimple(ClassLexical, "b"))
	if len(got) != 2 || got[1].Message != "b" {
		t.Errorf("sink received %v", got)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"let", "let", 0},
		{"lett", "let", 1},
		{"retrun", "return", 2},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFindClosestMatch(t *testing.T) {
	commands := []string{":quit", ":help", ":tokens", ":ast"}
	tests := []struct {
		input string
		want  string
	}{
		{":tokns", ":tokens"},
		{":hlep", ":help"},
		{":ats", ":ast"},
		{":ast", ""},
		{":zzzzzzzz", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FindClosestMatch(tt.input, commands); got != tt.want {
				t.Errorf("FindClosestMatch(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeywordTypo(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"lett", "let"},
		{"Retrun", "return"},
		{"exprot", "export"},
		{"improt", "import"},
		{"let", ""},
		{"text", ""},
		{"rest", ""},
		{"from", ""},
		{"count", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := KeywordTypo(tt.input); got != tt.want {
				t.Errorf("KeywordTypo(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	src := "let x = 1\nlet y = (2 +\n"
	err := NewAt("PARSE-0002", Span{Start: 21, End: 22, Line: 2, Column: 12, EndLine: 2, EndColumn: 13},
		map[string]any{"Token": "+"}).WithFile("main.pars")

	var buf bytes.Buffer
	if rerr := Render(&buf, src, err, RenderOptions{}); rerr != nil {
		t.Fatal(rerr)
	}
	out := buf.String()

	for _, want := range []string{
		"error[PARSE-0002]: unexpected '+'",
		"--> main.pars:2:12",
		"2 | let y = (2 +",
		"  | " + strings.Repeat(" ", 11) + "^",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("Render emitted colour with Color=false:\n%q", out)
	}
}

func TestCaret(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		col, end  int
		same      bool
		wantPad   string
		wantWidth int
	}{
		{"single", "abc", 2, 3, true, " ", 1},
		{"run", "let foo = 1", 5, 8, true, "    ", 3},
		{"to end of line", "<div>", 1, 0, false, "", 5},
		{"past end", "ab", 3, 3, true, "  ", 1},
		{"tab preserved", "\tx", 2, 3, true, "\t", 1},
		{"wide runes", "日本 x", 4, 5, true, "     ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pad, width := caret(tt.text, tt.col, tt.end, tt.same)
			if pad != tt.wantPad || width != tt.wantWidth {
				t.Errorf("caret() = (%q, %d), want (%q, %d)", pad, width, tt.wantPad, tt.wantWidth)
			}
		})
	}
}
