// Package repl is an interactive shell that parses Parsley as you type and
// shows the canonical form, tokens or syntax tree of each input.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goodsign/monday"
	"github.com/peterh/liner"

	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
	"github.com/sambeau/parsley-syntax/pkg/parsley/parsley"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const PARSER_LOGO = `
█▀█ ▄▀█ █▀█ █▀ █░░ █▀▀ █▄█
█▀▀ █▀█ █▀▄ ▄█ █▄▄ ██▄ ░█░ `

// Options configures a REPL session.
type Options struct {
	Version  string
	History  string // history file; empty disables history
	Locale   string // locale for resolved dates, e.g. "en_GB"
	MaxDepth int    // parser nesting limit; parser default when zero
	Color    bool   // colour error output
}

// Display modes
const (
	modeString = "string"
	modeTokens = "tokens"
	modeAST    = "ast"
	modeYAML   = "yaml"
	modeJSON   = "json"
)

// prompter reads one line of input.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// scanPrompter reads lines from a plain reader, for piped input and tests.
type scanPrompter struct {
	scanner *bufio.Scanner
}

func (s *scanPrompter) Prompt(string) (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scanPrompter) AppendHistory(string) {}

type session struct {
	out    io.Writer
	opts   Options
	mode   string
	locale monday.Locale
}

// Start runs the REPL until the input ends or the user quits. When in is
// os.Stdin the terminal is driven through liner with history and tab
// completion; any other reader is read line by line without prompts.
func Start(in io.Reader, out io.Writer, opts Options) error {
	s := &session{out: out, opts: opts, mode: modeString, locale: mondayLocale(opts.Locale)}

	if in != os.Stdin {
		return s.loop(&scanPrompter{scanner: bufio.NewScanner(in)})
	}

	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)
	line.SetCompleter(filterCompletions)

	if opts.History != "" {
		if f, err := os.Open(opts.History); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(opts.History); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	fmt.Fprintf(out, "%s", PARSER_LOGO)
	fmt.Fprintln(out, "v", opts.Version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type ':quit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	return s.loop(line)
}

func (s *session) loop(p prompter) error {
	var inputBuffer strings.Builder

	for {
		currentPrompt := PROMPT
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := p.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C - clear any buffered input and return to main prompt
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(s.out, "^C (cleared)")
				} else {
					fmt.Fprintln(s.out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				if inputBuffer.Len() > 0 {
					s.eval(inputBuffer.String())
				}
				return nil
			}
			return err
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			if quit := s.command(trimmed); quit {
				return nil
			}
			continue
		}

		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}

		p.AppendHistory(fullInput)
		s.eval(fullInput)
		inputBuffer.Reset()
	}
}

// command runs a ':' command and reports whether the session should end.
// A display command with an argument shows that input once; without one
// it switches the display mode.
func (s *session) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q", ":exit":
		return true

	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?     Show this help")
		fmt.Fprintln(s.out, "  :string [src]     Show the canonical form (default)")
		fmt.Fprintln(s.out, "  :tokens [src]     Show the token stream")
		fmt.Fprintln(s.out, "  :ast [src]        Show the syntax tree as an s-expression")
		fmt.Fprintln(s.out, "  :yaml [src]       Show the syntax tree as YAML")
		fmt.Fprintln(s.out, "  :json [src]       Show the syntax tree as JSON")
		fmt.Fprintln(s.out, "  :quit, :q         Exit the REPL")
		fmt.Fprintln(s.out, "")
		fmt.Fprintln(s.out, "With src the command shows that input once; without it the mode sticks.")
		return false

	case ":string", ":tokens", ":ast", ":yaml", ":json":
		mode := strings.TrimPrefix(name, ":")
		if arg != "" {
			saved := s.mode
			s.mode = mode
			s.eval(arg)
			s.mode = saved
			return false
		}
		s.mode = mode
		fmt.Fprintf(s.out, "Display mode: %s\n", mode)
		return false
	}

	if suggestion := perrors.FindClosestMatch(name, replCommands); suggestion != "" {
		fmt.Fprintf(s.out, "Unknown command: %s (did you mean %s?)\n", name, suggestion)
		return false
	}
	fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", name)
	return false
}

var replCommands = []string{":quit", ":exit", ":help", ":string", ":tokens", ":ast", ":yaml", ":json"}

// eval parses input and prints it in the current mode.
func (s *session) eval(input string) {
	if s.mode == modeTokens {
		s.printTokens(input)
		return
	}

	var opts []parsley.Option
	if s.opts.MaxDepth > 0 {
		opts = append(opts, parsley.WithMaxDepth(s.opts.MaxDepth))
	}
	program, err := parsley.Parse(input, opts...)
	if err != nil {
		var perr *perrors.ParsleyError
		if !errors.As(err, &perr) {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		s.printErrors(input, []*perrors.ParsleyError{perr})
		return
	}

	switch s.mode {
	case modeAST:
		fmt.Fprintln(s.out, ast.Sexp(program))
	case modeYAML:
		data, err := ast.DumpYAML(program)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		s.out.Write(data)
	case modeJSON:
		data, err := ast.DumpJSON(program)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		s.out.Write(data)
		io.WriteString(s.out, "\n")
	default:
		if text := program.String(); text != "" {
			fmt.Fprintln(s.out, text)
		}
	}

	for _, stmt := range program.Statements {
		es, ok := stmt.(*ast.ExpressionStatement)
		if !ok {
			continue
		}
		if dt, ok := es.Expression.(*ast.DateTimeLiteral); ok {
			if text, err := formatDateTime(dt, s.locale); err == nil {
				fmt.Fprintf(s.out, "=> %s\n", text)
			}
		}
	}
}

func (s *session) printTokens(input string) {
	for _, tok := range parsley.Tokenize(input) {
		if tok.Type == lexer.EOF {
			break
		}
		if tok.Type == lexer.ILLEGAL && tok.Err != nil {
			s.printErrors(input, []*perrors.ParsleyError{tok.Err})
			return
		}
		fmt.Fprintf(s.out, "%d:%d\t%s\t%q\n", tok.Span.Line, tok.Span.Column, tok.Type, tok.Literal)
	}
}

func (s *session) printErrors(input string, errs []*perrors.ParsleyError) {
	for _, err := range errs {
		perrors.Render(s.out, input, err, perrors.RenderOptions{Color: s.opts.Color})
	}
}
