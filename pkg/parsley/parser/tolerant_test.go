package parser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
)

// statementKinds names each statement, with the value kind for lets.
func statementKinds(stmts []ast.Statement) []string {
	kinds := make([]string, len(stmts))
	for i, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.BadStatement:
			kinds[i] = "bad"
		case *ast.LetStatement:
			if _, ok := s.Value.(*ast.BadExpression); ok {
				kinds[i] = "let(bad)"
			} else {
				kinds[i] = "let"
			}
		case *ast.ExpressionStatement:
			kinds[i] = "expr"
		case *ast.ReturnStatement:
			kinds[i] = "return"
		default:
			kinds[i] = reflect.TypeOf(stmt).String()
		}
	}
	return kinds
}

func tolerantParse(t *testing.T, input string) (*ast.Program, ErrorList) {
	t.Helper()
	program, err := Parse(input, WithTolerant(true))
	if program == nil {
		t.Fatalf("tolerant parse returned no program for %q", input)
	}
	if err == nil {
		return program, nil
	}
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("error is %T, want ErrorList", err)
	}
	return program, list
}

func TestTolerantRecovery(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kinds  []string
		errors int
	}{
		{"bad pattern", "let = 1\nlet y = 2", []string{"bad", "let"}, 1},
		{"truncated value", "let x = 1 +\nlet y = 2", []string{"let(bad)", "let"}, 1},
		{"bad value", "let y = )\nlet z = 3", []string{"let(bad)", "let"}, 1},
		{"semicolon boundary", "let = 1; x", []string{"bad", "expr"}, 1},
		{"several errors", "let = 1\nlet y = )\nlet z = 3", []string{"bad", "let(bad)", "let"}, 2},
		{"clean input", "let a = 1\na + 1", []string{"let", "expr"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, errs := tolerantParse(t, tt.input)
			if got := statementKinds(program.Statements); !reflect.DeepEqual(got, tt.kinds) {
				t.Errorf("statements = %v, want %v", got, tt.kinds)
			}
			if len(errs) != tt.errors {
				t.Errorf("got %d errors, want %d: %v", len(errs), tt.errors, errs)
			}
		})
	}
}

func TestTolerantBlocks(t *testing.T) {
	program, errs := tolerantParse(t, "if x {\n  let = 1\n  let y = 2\n}\nz")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if got := statementKinds(program.Statements); !reflect.DeepEqual(got, []string{"expr", "expr"}) {
		t.Fatalf("statements = %v", got)
	}

	ifExpr, ok := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.IfExpression)
	if !ok {
		t.Fatalf("first statement is not an if expression")
	}
	if got := statementKinds(ifExpr.Consequence.Statements); !reflect.DeepEqual(got, []string{"bad", "let"}) {
		t.Errorf("block statements = %v", got)
	}

	program, errs = tolerantParse(t, "let f = fn() {\n  let = \n}\nlet g = 1")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if got := statementKinds(program.Statements); !reflect.DeepEqual(got, []string{"let", "let"}) {
		t.Errorf("statements = %v", got)
	}
}

func TestTolerantSpans(t *testing.T) {
	program, _ := tolerantParse(t, "let = 1\nlet y = 2")
	bad := program.Statements[0].(*ast.BadStatement)
	if bad.Span.Start != 0 || bad.Span.End != 7 {
		t.Errorf("bad statement span = %d..%d, want 0..7", bad.Span.Start, bad.Span.End)
	}
	if got := program.String(); got != "<bad statement>;\nlet y = 2;" {
		t.Errorf("String() = %q", got)
	}
}

func TestTolerantErrorList(t *testing.T) {
	_, err := Parse("let = 1\nlet y = )", WithTolerant(true))
	list, ok := err.(ErrorList)
	if !ok {
		t.Fatalf("error is %T, want ErrorList", err)
	}
	want := "line 1, column 5: expected pattern, got '='\nline 2, column 9: unexpected ')'"
	if got := list.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}
}

func TestFailFastStopsAtFirstError(t *testing.T) {
	p := New(lexer.New("let = 1\nlet y = )"))
	program := p.ParseProgram()
	if len(p.StructuredErrors()) != 1 {
		t.Fatalf("got %d errors, want 1", len(p.StructuredErrors()))
	}
	if len(program.Statements) != 0 {
		t.Errorf("partial program has %d statements, want 0", len(program.Statements))
	}
}
