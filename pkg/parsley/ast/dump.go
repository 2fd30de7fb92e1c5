package ast

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
)

var (
	nodeType = reflect.TypeOf((*Node)(nil)).Elem()
	spanType = reflect.TypeOf(lexer.Span{})
)

type field struct {
	key   string
	value reflect.Value
}

// fields lists a node's exported fields in declaration order, leaving out
// the token and span every node carries.
func fields(v reflect.Value) (string, []field) {
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()
	var out []field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Name == "Token" || f.Name == "Span" {
			continue
		}
		out = append(out, field{snake(f.Name), v.Field(i)})
	}
	return t.Name(), out
}

func snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map:
		return v.IsNil()
	}
	return false
}

// Dump converts a tree to nested maps. Every node becomes
// {"type": ..., "span": ..., fields...}; nil fields are left out.
func Dump(n Node) map[string]any {
	v := reflect.ValueOf(n)
	if n == nil || isNil(v) {
		return nil
	}
	name, fs := fields(v)
	m := map[string]any{"type": name, "span": n.Pos()}
	for _, f := range fs {
		if val := dumpValue(f.value); val != nil {
			m[f.key] = val
		}
	}
	for _, f := range derived(v) {
		m[f.key] = f.value.Interface()
	}
	return m
}

// derived lists values computed from a node that dumps show after its
// fields. Tags report whether they name an HTML element or a component.
func derived(v reflect.Value) []field {
	if v.Kind() != reflect.Pointer || !v.CanInterface() {
		return nil
	}
	if tl, ok := v.Interface().(*TagLiteral); ok {
		return []field{{"html", reflect.ValueOf(tl.IsHTML())}}
	}
	return nil
}

func dumpValue(v reflect.Value) any {
	if isNil(v) {
		return nil
	}
	if v.Type().Implements(nodeType) {
		return Dump(v.Interface().(Node))
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		return dumpValue(v.Elem())
	case reflect.Slice:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = dumpValue(v.Index(i))
		}
		return out
	case reflect.Struct:
		if v.Type() == spanType {
			return v.Interface()
		}
		_, fs := fields(v)
		m := make(map[string]any, len(fs))
		for _, f := range fs {
			m[f.key] = dumpValue(f.value)
		}
		return m
	case reflect.String:
		return v.String()
	}
	return v.Interface()
}

// DumpJSON renders Dump(n) as indented JSON.
func DumpJSON(n Node) ([]byte, error) {
	return json.MarshalIndent(Dump(n), "", "  ")
}

// DumpYAML renders Dump(n) as YAML.
func DumpYAML(n Node) ([]byte, error) {
	return yaml.Marshal(Dump(n))
}

// Sexp renders a tree as a compact s-expression without spans, for example
// (InfixExpression left=(Identifier value="a") operator="+" ...).
func Sexp(n Node) string {
	var b strings.Builder
	writeSexp(&b, reflect.ValueOf(n))
	return b.String()
}

func writeSexp(b *strings.Builder, v reflect.Value) {
	if !v.IsValid() || isNil(v) {
		b.WriteString("nil")
		return
	}
	switch v.Kind() {
	case reflect.Interface:
		writeSexp(b, v.Elem())
	case reflect.Pointer:
		if v.Elem().Kind() != reflect.Struct {
			writeSexp(b, v.Elem())
			return
		}
		writeSexpStruct(b, v)
	case reflect.Struct:
		writeSexpStruct(b, v)
	case reflect.Slice:
		b.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeSexp(b, v.Index(i))
		}
		b.WriteByte(']')
	case reflect.String:
		b.WriteString(strconv.Quote(v.String()))
	default:
		fmt.Fprint(b, v.Interface())
	}
}

func writeSexpStruct(b *strings.Builder, v reflect.Value) {
	name, fs := fields(v)
	b.WriteByte('(')
	b.WriteString(name)
	for _, f := range fs {
		if f.value.Type() == spanType || isNil(f.value) || f.value.IsZero() {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		writeSexp(b, f.value)
	}
	for _, f := range derived(v) {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		writeSexp(b, f.value)
	}
	b.WriteByte(')')
}
