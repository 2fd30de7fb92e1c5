package lexer

import (
	"testing"
)

// Realistic Parsley code samples of varying complexity
var (
	simpleCode = `let x = 1 + 2 * 3`

	mediumCode = `
let greet = fn(name) {
    let message = "Hello, {name}!"
    message ++ " " ++ 'raw @{name}'
}
let due = @2024-01-15T10:30:00Z + @2h30m
let price = $12.50 * 3
`

	complexCode = `// Handler with database query
let http = import @basil/http
let {table, ...rest} = import @std/table

let db = @sqlite(@./app.db)

let handler = fn(request, ...args) {
    let users = db <=??=> "SELECT * FROM users WHERE age >= {request.age}"
    let names = for u in users { u.name }
    check users.length > 0 {
        return null
    }
    users[0:10] |> @query ?-> names ?? []
}

export computed handler = handler
`
)

func benchmarkLexer(b *testing.B, src string) {
	b.SetBytes(int64(len(src)))
	for i := 0; i < b.N; i++ {
		l := New(src)
		for tok := l.NextToken(); tok.Type != EOF && tok.Type != ILLEGAL; tok = l.NextToken() {
		}
	}
}

func BenchmarkLexer_Simple(b *testing.B)  { benchmarkLexer(b, simpleCode) }
func BenchmarkLexer_Medium(b *testing.B)  { benchmarkLexer(b, mediumCode) }
func BenchmarkLexer_Complex(b *testing.B) { benchmarkLexer(b, complexCode) }

func TestBenchmarkSamplesLexCleanly(t *testing.T) {
	for name, src := range map[string]string{"simple": simpleCode, "medium": mediumCode, "complex": complexCode} {
		t.Run(name, func(t *testing.T) {
			for _, tok := range Tokenize(src) {
				if tok.Type == ILLEGAL {
					t.Fatalf("ILLEGAL token: %s", tok.Literal)
				}
			}
		})
	}
}
