package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
	"github.com/sambeau/parsley-syntax/pkg/parsley/literal"
)

// NumberLiteral keeps the digits as written.
type NumberLiteral struct {
	Token      lexer.Token
	Value      string
	Fractional bool
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) Pos() lexer.Span      { return nl.Token.Span }
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return nl.Value }

// Float returns the numeric value.
func (nl *NumberLiteral) Float() float64 {
	f, _ := strconv.ParseFloat(nl.Value, 64)
	return f
}

// StringPart is a fragment of a string, template or path template.
type StringPart interface {
	Node
	stringPart()
}

// StringText is a run of literal characters.
type StringText struct {
	Token lexer.Token
	Value string
}

func (st *StringText) stringPart()          {}
func (st *StringText) Pos() lexer.Span      { return st.Token.Span }
func (st *StringText) TokenLiteral() string { return st.Token.Literal }
func (st *StringText) String() string       { return st.Value }

// StringEscape is a backslash escape, kept as written (e.g. `\n`).
type StringEscape struct {
	Token lexer.Token
	Value string
}

func (se *StringEscape) stringPart()          {}
func (se *StringEscape) Pos() lexer.Span      { return se.Token.Span }
func (se *StringEscape) TokenLiteral() string { return se.Token.Literal }
func (se *StringEscape) String() string       { return se.Value }

// Decoded returns the character the escape stands for.
func (se *StringEscape) Decoded() string {
	if len(se.Value) < 2 {
		return se.Value
	}
	switch c := se.Value[1:]; c {
	case "n":
		return "\n"
	case "t":
		return "\t"
	case "r":
		return "\r"
	case "0":
		return "\x00"
	default:
		return c
	}
}

// Interpolation is '{expr}' inside a string or template, or '@{expr}'
// inside a raw string.
type Interpolation struct {
	Token      lexer.Token // the opening '{' or '@{'
	Span       lexer.Span
	Expression Expression
}

func (ip *Interpolation) stringPart()          {}
func (ip *Interpolation) Pos() lexer.Span      { return ip.Span }
func (ip *Interpolation) TokenLiteral() string { return ip.Token.Literal }
func (ip *Interpolation) String() string {
	return ip.Token.Literal + ip.Expression.String() + "}"
}

func writeParts(out *bytes.Buffer, parts []StringPart) {
	for _, p := range parts {
		out.WriteString(p.String())
	}
}

// staticText concatenates parts that contain no interpolation.
func staticText(parts []StringPart) (string, bool) {
	var b strings.Builder
	for _, p := range parts {
		switch p := p.(type) {
		case *StringText:
			b.WriteString(p.Value)
		case *StringEscape:
			b.WriteString(p.Decoded())
		default:
			return "", false
		}
	}
	return b.String(), true
}

// StringLiteral is a double-quoted string.
type StringLiteral struct {
	Token lexer.Token // the opening quote
	Span  lexer.Span
	Parts []StringPart
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) tagChild()            {}
func (sl *StringLiteral) Pos() lexer.Span      { return sl.Span }
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string {
	var out bytes.Buffer
	out.WriteString(`"`)
	writeParts(&out, sl.Parts)
	out.WriteString(`"`)
	return out.String()
}

// Static returns the decoded text when the string has no interpolations.
func (sl *StringLiteral) Static() (string, bool) { return staticText(sl.Parts) }

// TemplateLiteral is a backtick string.
type TemplateLiteral struct {
	Token lexer.Token
	Span  lexer.Span
	Parts []StringPart
}

func (tl *TemplateLiteral) expressionNode()      {}
func (tl *TemplateLiteral) Pos() lexer.Span      { return tl.Span }
func (tl *TemplateLiteral) TokenLiteral() string { return tl.Token.Literal }
func (tl *TemplateLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("`")
	writeParts(&out, tl.Parts)
	out.WriteString("`")
	return out.String()
}

// RawStringLiteral is a single-quoted string; only '@{' interpolates.
type RawStringLiteral struct {
	Token lexer.Token
	Span  lexer.Span
	Parts []StringPart
}

func (rl *RawStringLiteral) expressionNode()      {}
func (rl *RawStringLiteral) Pos() lexer.Span      { return rl.Span }
func (rl *RawStringLiteral) TokenLiteral() string { return rl.Token.Literal }
func (rl *RawStringLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("'")
	writeParts(&out, rl.Parts)
	out.WriteString("'")
	return out.String()
}

// RegexLiteral represents /pattern/flags
type RegexLiteral struct {
	Token   lexer.Token
	Pattern string
	Flags   string
}

func (rl *RegexLiteral) expressionNode()      {}
func (rl *RegexLiteral) Pos() lexer.Span      { return rl.Token.Span }
func (rl *RegexLiteral) TokenLiteral() string { return rl.Token.Literal }
func (rl *RegexLiteral) String() string       { return "/" + rl.Pattern + "/" + rl.Flags }

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) Pos() lexer.Span      { return bl.Token.Span }
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return strconv.FormatBool(bl.Value) }

// NullLiteral is null.
type NullLiteral struct {
	Token lexer.Token
}

func (nl *NullLiteral) expressionNode()      {}
func (nl *NullLiteral) Pos() lexer.Span      { return nl.Token.Span }
func (nl *NullLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NullLiteral) String() string       { return "null" }

// MoneyLiteral represents $12.50, £3, EUR#5 and so on.
type MoneyLiteral struct {
	Token    lexer.Token
	Currency string // as written: "$" or "EUR"
	Code     string // ISO 4217
	Amount   string
	Scale    int
	Units    int64 // amount in minor units
}

func (ml *MoneyLiteral) expressionNode()      {}
func (ml *MoneyLiteral) Pos() lexer.Span      { return ml.Token.Span }
func (ml *MoneyLiteral) TokenLiteral() string { return ml.Token.Literal }
func (ml *MoneyLiteral) String() string       { return ml.Token.Literal }

// ============================================================================
// @-literals
// ============================================================================

// DateTimeLiteral represents @2024-01-15, @2024-01-15T10:30:00Z and @12:30.
type DateTimeLiteral struct {
	Token  lexer.Token
	Date   string
	Time   string
	Offset string
}

func (dl *DateTimeLiteral) expressionNode()      {}
func (dl *DateTimeLiteral) Pos() lexer.Span      { return dl.Token.Span }
func (dl *DateTimeLiteral) TokenLiteral() string { return dl.Token.Literal }
func (dl *DateTimeLiteral) String() string       { return dl.Token.Literal }

// Value returns the literal's components for resolution.
func (dl *DateTimeLiteral) Value() literal.DateTime {
	return literal.DateTime{Date: dl.Date, Time: dl.Time, Offset: dl.Offset}
}

// TimeNowLiteral represents @now, @today, @timeNow and @dateNow.
type TimeNowLiteral struct {
	Token lexer.Token
	Kind  string
}

func (tn *TimeNowLiteral) expressionNode()      {}
func (tn *TimeNowLiteral) Pos() lexer.Span      { return tn.Token.Span }
func (tn *TimeNowLiteral) TokenLiteral() string { return tn.Token.Literal }
func (tn *TimeNowLiteral) String() string       { return tn.Token.Literal }

// DurationPart is one amount/unit pair of a duration.
type DurationPart = literal.DurationPart

// DurationLiteral represents @2h30m, @-7d, @1y6mo.
type DurationLiteral struct {
	Token    lexer.Token
	Negative bool
	Parts    []DurationPart
}

func (dl *DurationLiteral) expressionNode()      {}
func (dl *DurationLiteral) Pos() lexer.Span      { return dl.Token.Span }
func (dl *DurationLiteral) TokenLiteral() string { return dl.Token.Literal }
func (dl *DurationLiteral) String() string       { return dl.Token.Literal }

// Value returns the duration for unit arithmetic.
func (dl *DurationLiteral) Value() literal.Duration {
	return literal.Duration{Negative: dl.Negative, Parts: dl.Parts}
}

// ConnectionLiteral represents @sqlite, @postgres, @mysql, @sftp, @shell
// and @DB.
type ConnectionLiteral struct {
	Token lexer.Token
	Kind  string
}

func (cl *ConnectionLiteral) expressionNode()      {}
func (cl *ConnectionLiteral) Pos() lexer.Span      { return cl.Token.Span }
func (cl *ConnectionLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *ConnectionLiteral) String() string       { return cl.Token.Literal }

// SchemaLiteral is @schema.
type SchemaLiteral struct {
	Token lexer.Token
}

func (sl *SchemaLiteral) expressionNode()      {}
func (sl *SchemaLiteral) Pos() lexer.Span      { return sl.Token.Span }
func (sl *SchemaLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *SchemaLiteral) String() string       { return "@schema" }

// TableLiteral is @table.
type TableLiteral struct {
	Token lexer.Token
}

func (tl *TableLiteral) expressionNode()      {}
func (tl *TableLiteral) Pos() lexer.Span      { return tl.Token.Span }
func (tl *TableLiteral) TokenLiteral() string { return tl.Token.Literal }
func (tl *TableLiteral) String() string       { return "@table" }

// QueryLiteral represents @query, @insert, @update, @delete and
// @transaction.
type QueryLiteral struct {
	Token lexer.Token
	Kind  string
}

func (ql *QueryLiteral) expressionNode()      {}
func (ql *QueryLiteral) Pos() lexer.Span      { return ql.Token.Span }
func (ql *QueryLiteral) TokenLiteral() string { return ql.Token.Literal }
func (ql *QueryLiteral) String() string       { return ql.Token.Literal }

// ContextLiteral represents @SEARCH, @env, @args and @params.
type ContextLiteral struct {
	Token lexer.Token
	Kind  string
}

func (cl *ContextLiteral) expressionNode()      {}
func (cl *ContextLiteral) Pos() lexer.Span      { return cl.Token.Span }
func (cl *ContextLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *ContextLiteral) String() string       { return cl.Token.Literal }

// StdlibImport represents @std, @std/math, @basil/http.
type StdlibImport struct {
	Token  lexer.Token
	Root   string // "std" or "basil"
	Module string // empty for the bare root
}

func (si *StdlibImport) expressionNode()      {}
func (si *StdlibImport) Pos() lexer.Span      { return si.Token.Span }
func (si *StdlibImport) TokenLiteral() string { return si.Token.Literal }
func (si *StdlibImport) String() string {
	if si.Module == "" {
		return "@" + si.Root
	}
	return "@" + si.Root + "/" + si.Module
}

// StdioLiteral represents @-, @stdin, @stdout and @stderr.
type StdioLiteral struct {
	Token lexer.Token
	Kind  string // "-", "stdin", "stdout" or "stderr"
}

func (sl *StdioLiteral) expressionNode()      {}
func (sl *StdioLiteral) Pos() lexer.Span      { return sl.Token.Span }
func (sl *StdioLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StdioLiteral) String() string       { return "@" + sl.Kind }

// PathForm classifies a path literal by its first characters.
type PathForm string

const (
	PathRelative PathForm = "relative" // @. @./ @../
	PathAbsolute PathForm = "absolute" // @/
	PathHome     PathForm = "home"     // @~/
)

// PathLiteral represents @./file, @../dir, @/usr/local, @~/notes.
type PathLiteral struct {
	Token lexer.Token
	Form  PathForm
	Text  string // path without the '@'
}

func (pl *PathLiteral) expressionNode()      {}
func (pl *PathLiteral) Pos() lexer.Span      { return pl.Token.Span }
func (pl *PathLiteral) TokenLiteral() string { return pl.Token.Literal }
func (pl *PathLiteral) String() string       { return "@" + pl.Text }

// URLLiteral represents @https://example.com/x and friends.
type URLLiteral struct {
	Token  lexer.Token
	Scheme string
	Text   string // URL without the '@'
}

func (ul *URLLiteral) expressionNode()      {}
func (ul *URLLiteral) Pos() lexer.Span      { return ul.Token.Span }
func (ul *URLLiteral) TokenLiteral() string { return ul.Token.Literal }
func (ul *URLLiteral) String() string       { return "@" + ul.Text }

// PathTemplate represents @(./users/{id}.json).
type PathTemplate struct {
	Token lexer.Token // the '@(' token
	Span  lexer.Span
	Parts []StringPart
}

func (pt *PathTemplate) expressionNode()      {}
func (pt *PathTemplate) Pos() lexer.Span      { return pt.Span }
func (pt *PathTemplate) TokenLiteral() string { return pt.Token.Literal }
func (pt *PathTemplate) String() string {
	var out bytes.Buffer
	out.WriteString("@(")
	writeParts(&out, pt.Parts)
	out.WriteString(")")
	return out.String()
}
