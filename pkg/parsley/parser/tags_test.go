package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
)

func parseTagLiteral(t *testing.T, input string) *ast.TagLiteral {
	t.Helper()
	tag, ok := onlyExpression(t, parseOrFatal(t, input)).(*ast.TagLiteral)
	if !ok {
		t.Fatalf("%q did not parse as a tag", input)
	}
	return tag
}

func TestTags(t *testing.T) {
	tests := []struct {
		input    string
		name     string
		attrs    int
		children int
		expected string
	}{
		{`<br/>`, "br", 0, 0, `<br/>`},
		{`<div class="box" hidden>Hello {name}!</div>`, "div", 2, 3, `<div class="box" hidden>Hello {name}!</div>`},
		{`<img src={url} ...props/>`, "img", 2, 0, `<img src={url} ...props/>`},
		{`<ul><li>a</li><li>b</li></ul>`, "ul", 0, 2, `<ul><li>a</li><li>b</li></ul>`},
		{`<Card title="x">{items.map(fn(i) <Item/>)}</Card>`, "Card", 1, 1, `<Card title="x">{items.map(fn(i) <Item/>)}</Card>`},
		{"<p>\n  \"quoted\"\n</p>", "p", 0, 1, `<p>"quoted"</p>`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tag := parseTagLiteral(t, tt.input)
			if tag.Name != tt.name {
				t.Errorf("name = %q, want %q", tag.Name, tt.name)
			}
			if len(tag.Attributes) != tt.attrs {
				t.Errorf("got %d attributes, want %d", len(tag.Attributes), tt.attrs)
			}
			if len(tag.Children) != tt.children {
				t.Errorf("got %d children, want %d", len(tag.Children), tt.children)
			}
			if got := tag.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTagChildren(t *testing.T) {
	tag := parseTagLiteral(t, `<div class="box" hidden>Hello {name}!</div>`)

	if _, ok := tag.Attributes[0].(*ast.NamedAttribute); !ok {
		t.Errorf("attribute 0 is %T, want *ast.NamedAttribute", tag.Attributes[0])
	}
	if _, ok := tag.Attributes[1].(*ast.BareAttribute); !ok {
		t.Errorf("attribute 1 is %T, want *ast.BareAttribute", tag.Attributes[1])
	}

	text, ok := tag.Children[0].(*ast.TagText)
	if !ok || text.Value != "Hello " {
		t.Errorf("child 0 = %#v, want text %q", tag.Children[0], "Hello ")
	}
	if _, ok := tag.Children[1].(*ast.EmbeddedExpression); !ok {
		t.Errorf("child 1 is %T, want *ast.EmbeddedExpression", tag.Children[1])
	}
}

func TestTagSpans(t *testing.T) {
	tag := parseTagLiteral(t, "<p>x</p>")
	if tag.Span.Start != 0 || tag.Span.End != 8 {
		t.Errorf("span = %d..%d, want 0..8", tag.Span.Start, tag.Span.End)
	}
	if tag.CloseSpan.Start != 4 || tag.CloseSpan.End != 8 {
		t.Errorf("close span = %d..%d, want 4..8", tag.CloseSpan.Start, tag.CloseSpan.End)
	}
}

func TestTagsInExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let page = <main/>", "let page = <main/>;"},
		{"a < b", "a < b;"},
		{"a <b", "a < b;"},
		{"a <b> c", "a < b > c;"},
		{"[<a/>, <b/>]", "[<a/>, <b/>];"},
		{"if ok { <ok/> } else { <no/> }", "if ok { <ok/> } else { <no/> };"},
		{"let n = \"x\"\n<p>{n}</p>", "let n = \"x\";\n<p>{n}</p>;"},
		{"let name = \"x\"\n<p>Hello {name}</p>", "let name = \"x\";\n<p>Hello {name}</p>;"},
		{"x\n<br/>", "x;\n<br/>;"},
		{"a < b\n<p/>", "a < b;\n<p/>;"},
		{"let f = fn(a) {\n let b = a\n <div>{b}</div>\n}", "let f = fn(a) { let b = a; <div>{b}</div> };"},
		{"for x in xs { x }\n<hr/>", "for x in xs { x };\n<hr/>;"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseOrFatal(t, tt.input).String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStatementBoundaries(t *testing.T) {
	tests := []struct {
		input string
		kinds []string
	}{
		{"let x = 1\n<p>{x}</p>", []string{"*ast.LetStatement", "*ast.TagLiteral"}},
		{"<a/>\n<b/>\n<c/>", []string{"*ast.TagLiteral", "*ast.TagLiteral", "*ast.TagLiteral"}},
		{"text\ncount", []string{"*ast.Identifier", "*ast.Identifier"}},
		{"from\nx", []string{"*ast.Identifier", "*ast.Identifier"}},
		{"rest count", []string{"*ast.Identifier", "*ast.Identifier"}},
		{"a <b\n<c/>", []string{"*ast.InfixExpression", "*ast.TagLiteral"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := parseOrFatal(t, tt.input)
			if len(program.Statements) != len(tt.kinds) {
				t.Fatalf("got %d statements, want %d: %s", len(program.Statements), len(tt.kinds), program)
			}
			for i, stmt := range program.Statements {
				var node any = stmt
				if es, ok := stmt.(*ast.ExpressionStatement); ok {
					node = es.Expression
				}
				if got := fmt.Sprintf("%T", node); got != tt.kinds[i] {
					t.Errorf("statement %d is %s, want %s", i, got, tt.kinds[i])
				}
			}
		})
	}
}

func TestTagErrors(t *testing.T) {
	tests := []struct {
		input   string
		code    string
		message string
	}{
		{"<div><span></div>", "PARSE-0006", "opening <span> at line 1, column 6 but closing </div> at line 1, column 12"},
		{"<div>hello", "PARSE-0007", "unterminated tag <div>"},
		{"<my_tag/>", "PARSE-0008", "invalid tag name 'my_tag'"},
		{`<div class="a"`, "LEX-0001", "unterminated tag starting at line 1, column 1"},
		{"(<a + b)", "PARSE-0002", "unexpected '<'"},
		{"x == <5", "PARSE-0002", "unexpected '<'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := parseError(t, tt.input)
			if err.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", err.Code, tt.code, err.Message)
			}
			if !strings.Contains(err.Message, tt.message) {
				t.Errorf("message %q does not contain %q", err.Message, tt.message)
			}
		})
	}
}

func TestMismatchedTagHint(t *testing.T) {
	err := parseError(t, "<div><span></div>")
	if len(err.Hints) != 1 || err.Hints[0] != "</span>" {
		t.Errorf("hints = %v, want [</span>]", err.Hints)
	}
}
