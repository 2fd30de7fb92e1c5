// Package errors provides structured error types for the Parsley front-end.
//
// Every diagnostic produced while lexing or parsing is a ParsleyError. Errors
// carry a class, a catalog code, a rendered message, optional hints and the
// byte/line/column span of the offending source so tooling can highlight the
// exact failure location.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassLexical ErrorClass = "lexical" // Malformed tokens
	ClassSyntax  ErrorClass = "syntax"  // Grammar violations
	ClassLimit   ErrorClass = "limit"   // Nesting depth exceeded
)

// ParsleyError represents any error found while reading Parsley source.
type ParsleyError struct {
	Class     ErrorClass     `json:"class"`           // Error category
	Code      string         `json:"code"`            // Error code (e.g., "PARSE-0001")
	Message   string         `json:"message"`         // Human-readable message
	Hints     []string       `json:"hints,omitempty"` // Suggestions for fixing
	Line      int            `json:"line"`            // 1-based line (0 if unknown)
	Column    int            `json:"column"`          // 1-based column (0 if unknown)
	EndLine   int            `json:"end_line,omitempty"`
	EndColumn int            `json:"end_column,omitempty"`
	Offset    int            `json:"offset"`     // byte offset of the span start
	EndOffset int            `json:"end_offset"` // byte offset just past the span
	File      string         `json:"file,omitempty"`
	Data      map[string]any `json:"data,omitempty"` // Template variables
}

// Error implements the error interface.
func (e *ParsleyError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *ParsleyError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *ParsleyError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassLexical:
		sb.WriteString("Lexical error")
	case ClassLimit:
		sb.WriteString("Limit error")
	default:
		sb.WriteString("Syntax error")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("hint: ")
		} else {
			sb.WriteString("  or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *ParsleyError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ToJSONIndent returns the error as indented JSON bytes.
func (e *ParsleyError) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// WithFile returns a copy of the error with the file path set.
func (e *ParsleyError) WithFile(file string) *ParsleyError {
	copy := *e
	copy.File = file
	return &copy
}

// WithLineOffset returns a copy of the error shifted down by n lines. Used
// when the parsed source was excerpted from a larger file.
func (e *ParsleyError) WithLineOffset(n int) *ParsleyError {
	copy := *e
	if copy.Line > 0 {
		copy.Line += n
	}
	if copy.EndLine > 0 {
		copy.EndLine += n
	}
	return &copy
}

// IsLexical reports whether the error came from the lexer.
func (e *ParsleyError) IsLexical() bool {
	return e.Class == ClassLexical
}

// IsSyntax reports whether the error is a grammar violation.
func (e *ParsleyError) IsSyntax() bool {
	return e.Class == ClassSyntax
}

// IsLimit reports whether the error is a nesting-depth failure.
func (e *ParsleyError) IsLimit() bool {
	return e.Class == ClassLimit
}

// Span is the location information attached to an error. It mirrors
// lexer.Span without importing the lexer.
type Span struct {
	Start, End         int
	Line, Column       int
	EndLine, EndColumn int
}

// At returns a copy of the error positioned at the given span.
func (e *ParsleyError) At(s Span) *ParsleyError {
	copy := *e
	copy.Offset, copy.EndOffset = s.Start, s.End
	copy.Line, copy.Column = s.Line, s.Column
	copy.EndLine, copy.EndColumn = s.EndLine, s.EndColumn
	return &copy
}

// Sink receives diagnostics as they are produced.
type Sink interface {
	Report(err *ParsleyError)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(err *ParsleyError)

// Report calls f(err).
func (f SinkFunc) Report(err *ParsleyError) { f(err) }

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Lexical errors (LEX-0xxx)
	// ========================================
	"LEX-0001": {
		Class:    ClassLexical,
		Template: "unterminated {{.Kind}} starting at line {{.Line}}, column {{.Column}}",
	},
	"LEX-0002": {
		Class:    ClassLexical,
		Template: "unterminated regex literal",
		Hints:    []string{"a regex must end with / on the same line"},
	},
	"LEX-0003": {
		Class:    ClassLexical,
		Template: "unrecognized @-literal '@{{.Text}}'",
		Hints:    []string{"@now, @2024-01-15, @2h30m, @./path, @https://..., @std/name, @(template)"},
	},
	"LEX-0004": {
		Class:    ClassLexical,
		Template: "invalid money literal '{{.Literal}}': at most 2 decimal places are allowed",
	},
	"LEX-0005": {
		Class:    ClassLexical,
		Template: "invalid escape sequence at end of input",
	},
	"LEX-0006": {
		Class:    ClassLexical,
		Template: "unexpected character '{{.Char}}'",
	},
	"LEX-0007": {
		Class:    ClassLexical,
		Template: "unknown currency code '{{.Code}}'",
	},
	"LEX-0008": {
		Class:    ClassLexical,
		Template: "invalid {{.Kind}} literal '{{.Literal}}': {{.Reason}}",
	},
	"LEX-0009": {
		Class:    ClassLexical,
		Template: "invalid regex flags '{{.Flags}}'",
		Hints:    []string{"flags are drawn from g, i, m, s, u, v, y, each at most once"},
	},

	// ========================================
	// Syntax errors (PARSE-0xxx)
	// ========================================
	"PARSE-0001": {
		Class:    ClassSyntax,
		Template: "expected {{.Expected}}, got '{{.Got}}'",
	},
	"PARSE-0002": {
		Class:    ClassSyntax,
		Template: "unexpected '{{.Token}}'",
	},
	"PARSE-0003": {
		Class:    ClassSyntax,
		Template: "rest element must be last in destructuring pattern",
	},
	"PARSE-0004": {
		Class:    ClassSyntax,
		Template: "destructuring pattern may contain only one rest element",
	},
	"PARSE-0005": {
		Class:    ClassSyntax,
		Template: "invalid assignment target '{{.Target}}'",
		Hints:    []string{"only identifiers, members (a.b) and indexes (a[i]) can be assigned"},
	},
	"PARSE-0006": {
		Class:    ClassSyntax,
		Template: "mismatched tags: opening <{{.Open}}> at line {{.OpenLine}}, column {{.OpenColumn}} but closing </{{.Close}}> at line {{.CloseLine}}, column {{.CloseColumn}}",
		Hints:    []string{"</{{.Open}}>"},
	},
	"PARSE-0007": {
		Class:    ClassSyntax,
		Template: "unterminated tag <{{.Tag}}>: expected closing tag </{{.Tag}}>",
		Hints:    []string{"close it with </{{.Tag}}> or write <{{.Tag}}/>"},
	},
	"PARSE-0008": {
		Class:    ClassSyntax,
		Template: "invalid tag name '{{.Name}}'",
	},
	"PARSE-0009": {
		Class:    ClassSyntax,
		Template: "rest parameter must be last in parameter list",
	},
	"PARSE-0010": {
		Class:    ClassSyntax,
		Template: "unknown keyword '{{.Got}}'",
		Hints:    []string{"did you mean `{{.Suggestion}}`?"},
	},

	// ========================================
	// Limit errors (LIMIT-0xxx)
	// ========================================
	"LIMIT-0001": {
		Class:    ClassLimit,
		Template: "nesting too deep: maximum depth is {{.Max}}",
	},
}

// New creates a ParsleyError from the catalog.
// If the code is not found, creates a generic syntax error with the message.
func New(code string, data map[string]any) *ParsleyError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &ParsleyError{
			Class:   ClassSyntax,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &ParsleyError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewAt creates a catalog error positioned at the given span.
func NewAt(code string, s Span, data map[string]any) *ParsleyError {
	return New(code, data).At(s)
}

// NewSimple creates a simple error without using the catalog.
func NewSimple(class ErrorClass, message string) *ParsleyError {
	return &ParsleyError{
		Class:   class,
		Message: message,
	}
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}

	return prev[len(b)]
}

// threshold is the largest edit distance still worth suggesting.
func threshold(input string) int {
	switch {
	case len(input) >= 7:
		return 3
	case len(input) >= 4:
		return 2
	default:
		return 1
	}
}

// FindClosestMatch finds the closest match to the given string from candidates.
// Returns the best match if the distance is within the threshold, otherwise
// the empty string. Exact matches are never suggested.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1

	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= 0 || bestDistance > threshold(input) {
		return ""
	}

	return bestMatch
}

// keywordTypos maps common misspellings to the keyword meant. The list is
// explicit so that ordinary identifiers such as 'text' or 'from' are never
// flagged.
var keywordTypos = map[string]string{
	"expoert": "export", "exprot": "export", "exort": "export", "exprt": "export",
	"exporrt": "export", "expport": "export", "exoport": "export", "epxort": "export",
	"eport": "export", "expost": "export", "expotr": "export",

	"lte": "let", "elt": "let", "lett": "let", "lat": "let", "lit": "let",

	"func": "fn", "function": "fn", "fuction": "fn", "fucntion": "fn",
	"funciton": "fn", "funtion": "fn", "fnn": "fn",

	"retrun": "return", "reutrn": "return", "retrn": "return", "retunr": "return",
	"rerturn": "return", "returm": "return", "retutn": "return",

	"fro": "for", "forr": "for",

	"improt": "import", "impoer": "import", "imoprt": "import", "imprt": "import",
	"ipmort": "import", "imort": "import", "impor": "import",

	"chekc": "check", "chcek": "check", "cheque": "check",
}

// KeywordTypo returns the keyword ident is a known misspelling of, or the
// empty string.
func KeywordTypo(ident string) string {
	return keywordTypos[strings.ToLower(ident)]
}
