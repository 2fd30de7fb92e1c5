package checker

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkAst "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
)

// Fence is one ```parsley code block found in a Markdown document.
type Fence struct {
	Line int    // 1-based line of the first code line
	Code string // block content
}

// fenceLanguages are the info strings that mark a block as Parsley.
var fenceLanguages = map[string]bool{"parsley": true, "pars": true}

// Fences returns the Parsley code blocks of a Markdown document in order.
func Fences(src []byte) []Fence {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var fences []Fence
	_ = goldmarkAst.Walk(doc, func(n goldmarkAst.Node, entering bool) (goldmarkAst.WalkStatus, error) {
		if !entering {
			return goldmarkAst.WalkContinue, nil
		}
		block, ok := n.(*goldmarkAst.FencedCodeBlock)
		if !ok {
			return goldmarkAst.WalkContinue, nil
		}
		if !fenceLanguages[strings.ToLower(string(block.Language(src)))] {
			return goldmarkAst.WalkSkipChildren, nil
		}
		lines := block.Lines()
		if lines.Len() == 0 {
			return goldmarkAst.WalkSkipChildren, nil
		}

		var code bytes.Buffer
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			code.Write(seg.Value(src))
		}
		first := lines.At(0)
		fences = append(fences, Fence{
			Line: 1 + bytes.Count(src[:first.Start], []byte("\n")),
			Code: code.String(),
		})
		return goldmarkAst.WalkSkipChildren, nil
	})
	return fences
}

// checkMarkdown parses every Parsley fence in src. Error lines are moved
// to where the fence sits in the document.
func checkMarkdown(name, src string, opts Options) []*perrors.ParsleyError {
	var errs []*perrors.ParsleyError
	for _, fence := range Fences([]byte(src)) {
		for _, err := range parseErrors(name, fence.Code, opts) {
			errs = append(errs, err.WithLineOffset(fence.Line-1))
		}
	}
	return errs
}
