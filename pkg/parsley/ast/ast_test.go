package ast_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
	"github.com/sambeau/parsley-syntax/pkg/parsley/parser"
)

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return program
}

func TestString(t *testing.T) {
	program := &ast.Program{
		Statements: []ast.Statement{
			&ast.LetStatement{
				Token: lexer.Token{Type: lexer.LET, Literal: "let"},
				Pattern: &ast.Identifier{
					Token: lexer.Token{Type: lexer.IDENT, Literal: "myVar"},
					Value: "myVar",
				},
				Value: &ast.Identifier{
					Token: lexer.Token{Type: lexer.IDENT, Literal: "anotherVar"},
					Value: "anotherVar",
				},
			},
		},
	}

	if program.String() != "let myVar = anotherVar;" {
		t.Errorf("program.String() wrong. got=%q", program.String())
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"let a = x", []string{"a"}},
		{"let _ = x", nil},
		{"let [a, [b, _], ...rest] = x", []string{"a", "b", "rest"}},
		{"let [first, ...] = x", []string{"first"}},
		{"let {a, b: [c, d], ...others} = x", []string{"a", "c", "d", "others"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			let := mustParse(t, tt.input).Statements[0].(*ast.LetStatement)
			if got := ast.Names(let.Pattern); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Names() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsHTML(t *testing.T) {
	tests := []struct {
		name string
		html bool
	}{
		{"div", true},
		{"span", true},
		{"section", true},
		{"my-card", false},
		{"Card", false},
		{"class", false},
		{"href", false},
	}
	for _, tt := range tests {
		tag := &ast.TagLiteral{Name: tt.name}
		if got := tag.IsHTML(); got != tt.html {
			t.Errorf("%s: IsHTML() = %v, want %v", tt.name, got, tt.html)
		}
	}
}

func TestSexp(t *testing.T) {
	got := ast.Sexp(mustParse(t, "a + 1"))
	want := `(Program statements=[(ExpressionStatement expression=(InfixExpression left=(Identifier value="a") operator="+" right=(NumberLiteral value="1")))])`
	if got != want {
		t.Errorf("Sexp() =\n%s\nwant\n%s", got, want)
	}

	if got := ast.Sexp(nil); got != "nil" {
		t.Errorf("Sexp(nil) = %q", got)
	}
}

func TestDumpTagKind(t *testing.T) {
	program := mustParse(t, "<div><Card/></div>")

	sexp := ast.Sexp(program)
	for _, want := range []string{`(TagLiteral name="div"`, `(TagLiteral name="Card" self_closing=true html=false)`, `html=true)`} {
		if !strings.Contains(sexp, want) {
			t.Errorf("Sexp() does not contain %q:\n%s", want, sexp)
		}
	}

	stmt := ast.Dump(program)["statements"].([]any)[0].(map[string]any)
	div := stmt["expression"].(map[string]any)
	if div["html"] != true {
		t.Errorf("div html = %v, want true", div["html"])
	}
	card := div["children"].([]any)[0].(map[string]any)
	if card["html"] != false {
		t.Errorf("Card html = %v, want false", card["html"])
	}
}

func TestDump(t *testing.T) {
	program := mustParse(t, "let [a, ...r] = xs")
	dump := ast.Dump(program)
	if dump["type"] != "Program" {
		t.Fatalf("type = %v", dump["type"])
	}

	stmts := dump["statements"].([]any)
	let := stmts[0].(map[string]any)
	if let["type"] != "LetStatement" {
		t.Errorf("statement type = %v", let["type"])
	}
	pattern := let["pattern"].(map[string]any)
	if pattern["type"] != "ArrayPattern" {
		t.Errorf("pattern type = %v", pattern["type"])
	}
	rest := pattern["rest"].(map[string]any)
	if rest["name"].(map[string]any)["value"] != "r" {
		t.Errorf("rest = %v", rest)
	}
	if span, ok := let["span"].(lexer.Span); !ok || span.Start != 0 || span.End != 18 {
		t.Errorf("span = %#v", let["span"])
	}

	if ast.Dump(nil) != nil {
		t.Errorf("Dump(nil) should be nil")
	}
}

func TestDumpEncodings(t *testing.T) {
	program := mustParse(t, `let greeting = "hi {name}"`)

	js, err := ast.DumpJSON(program)
	if err != nil {
		t.Fatalf("DumpJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(js, &decoded); err != nil {
		t.Fatalf("DumpJSON produced invalid JSON: %v", err)
	}
	if decoded["type"] != "Program" {
		t.Errorf("json type = %v", decoded["type"])
	}
	if !strings.Contains(string(js), `"Interpolation"`) {
		t.Errorf("json is missing the interpolation node:\n%s", js)
	}

	ym, err := ast.DumpYAML(program)
	if err != nil {
		t.Fatalf("DumpYAML: %v", err)
	}
	var back map[string]any
	if err := yaml.Unmarshal(ym, &back); err != nil {
		t.Fatalf("DumpYAML produced invalid YAML: %v", err)
	}
	if back["type"] != "Program" {
		t.Errorf("yaml type = %v", back["type"])
	}
}
