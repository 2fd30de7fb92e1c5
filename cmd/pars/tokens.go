package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
	"github.com/sambeau/parsley-syntax/pkg/parsley/parsley"
)

func (a *app) tokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [flags] file.pars",
		Short: "Print the tokens of a Parsley file",
		Long:  `Tokens lexes a Parsley file in code mode and prints each token with its position.`,
		Args:  cobra.ExactArgs(1),
		RunE:  a.runTokens,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("comments", false, "include comments")
	return cmd
}

type jsonToken struct {
	Type    string     `json:"type"`
	Literal string     `json:"literal"`
	Span    lexer.Span `json:"span"`
}

func (a *app) runTokens(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	withComments, _ := cmd.Flags().GetBool("comments")

	name, src, err := a.readSource(args[0])
	if err != nil {
		return err
	}

	tokens, comments := parsley.TokenizeWithComments(src)
	if withComments {
		tokens = append(tokens, comments...)
		sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].Span.Start < tokens[j].Span.Start })
	}

	var lexErr *perrors.ParsleyError
	if last := tokens[len(tokens)-1]; last.Type == lexer.ILLEGAL && last.Err != nil {
		lexErr = last.Err.WithFile(name)
	}

	switch format {
	case "json":
		out := make([]jsonToken, 0, len(tokens))
		for _, tok := range tokens {
			out = append(out, jsonToken{Type: tok.Type.String(), Literal: tok.Literal, Span: tok.Span})
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	default:
		for _, tok := range tokens {
			if tok.Type == lexer.EOF {
				break
			}
			fmt.Fprintf(a.stdout, "%4d:%-4d %-16s %q\n", tok.Span.Line, tok.Span.Column, tok.Type, tok.Literal)
		}
	}

	if lexErr != nil {
		perrors.Render(a.stderr, src, lexErr, perrors.RenderOptions{Color: a.color && isTerminal(a.stderr)})
		return &exitError{code: 1}
	}
	return nil
}
