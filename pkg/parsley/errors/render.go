package errors

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// RenderOptions controls how Render draws a diagnostic.
type RenderOptions struct {
	Color bool // emit ANSI colour
}

// Render writes err to w with the offending source line and a caret run
// under the error span. src must be the full text the error positions refer
// to (after any WithLineOffset shift).
func Render(w io.Writer, src string, err *ParsleyError, opts RenderOptions) error {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	cyan := color.New(color.FgCyan)
	for _, c := range []*color.Color{bold, red, blue, cyan} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	label := "error"
	if err.Code != "" {
		label += "[" + err.Code + "]"
	}
	if _, werr := fmt.Fprintf(w, "%s: %s\n", red.Sprint(label), bold.Sprint(err.Message)); werr != nil {
		return werr
	}

	if err.Line > 0 {
		loc := fmt.Sprintf("%d:%d", err.Line, err.Column)
		if err.File != "" {
			loc = err.File + ":" + loc
		}
		gutter := strings.Repeat(" ", len(strconv.Itoa(err.Line)))
		fmt.Fprintf(w, "%s%s %s\n", gutter, blue.Sprint("-->"), loc)

		lines := strings.Split(src, "\n")
		if err.Line <= len(lines) {
			text := strings.TrimRight(lines[err.Line-1], "\r")
			fmt.Fprintf(w, "%s %s\n", gutter, blue.Sprint("|"))
			fmt.Fprintf(w, "%s %s %s\n", blue.Sprint(err.Line), blue.Sprint("|"), text)
			pad, width := caret(text, err.Column, err.EndColumn, err.Line == err.EndLine)
			fmt.Fprintf(w, "%s %s %s%s\n", gutter, blue.Sprint("|"), pad, red.Sprint(strings.Repeat("^", width)))
		}
	}

	for _, hint := range err.Hints {
		fmt.Fprintf(w, "  %s %s\n", cyan.Sprint("= hint:"), hint)
	}
	return nil
}

// caret returns the padding that lines up under column col (1-based, in
// runes) of text and the display width of the span. Tabs in the padding are
// preserved so the caret stays aligned under any tab width.
func caret(text string, col, endCol int, sameLine bool) (string, int) {
	runes := []rune(text)
	if col < 1 {
		col = 1
	}
	if col > len(runes)+1 {
		col = len(runes) + 1
	}

	var pad strings.Builder
	for _, r := range runes[:col-1] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	end := len(runes) + 1
	if sameLine && endCol > col && endCol <= len(runes)+1 {
		end = endCol
	}
	width := runewidth.StringWidth(string(runes[col-1 : end-1]))
	if width < 1 {
		width = 1
	}
	return pad.String(), width
}
