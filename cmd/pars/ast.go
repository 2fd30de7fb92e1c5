package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sambeau/parsley-syntax/pkg/parsley/ast"
	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
	"github.com/sambeau/parsley-syntax/pkg/parsley/parsley"
)

func (a *app) astCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [flags] file.pars",
		Short: "Print the syntax tree of a Parsley file",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runAST,
	}
	cmd.Flags().String("format", "sexp", "output format (sexp|yaml|json)")
	cmd.Flags().Bool("tolerant", false, "recover from errors and print the partial tree")
	cmd.Flags().Int("max-depth", 0, "maximum nesting depth (default: config)")
	return cmd
}

func (a *app) runAST(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "sexp", "yaml", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	name, src, err := a.readSource(args[0])
	if err != nil {
		return err
	}

	maxDepth := a.cfg.Parser.MaxDepth
	if cmd.Flags().Changed("max-depth") {
		maxDepth, _ = cmd.Flags().GetInt("max-depth")
	}
	tolerant, _ := cmd.Flags().GetBool("tolerant")
	opts := []parsley.Option{parsley.WithTolerant(tolerant || a.cfg.Parser.Tolerant)}
	if maxDepth > 0 {
		opts = append(opts, parsley.WithMaxDepth(maxDepth))
	}

	program, err := parsley.ParseSource(name, src, opts...)
	if program != nil {
		if werr := a.writeTree(format, program); werr != nil {
			return werr
		}
	}
	if err == nil {
		return nil
	}

	var list parsley.ErrorList
	var single *perrors.ParsleyError
	switch {
	case errors.As(err, &list):
	case errors.As(err, &single):
		list = parsley.ErrorList{single}
	default:
		return err
	}
	for _, e := range list {
		perrors.Render(a.stderr, src, e, perrors.RenderOptions{Color: a.color && isTerminal(a.stderr)})
	}
	return &exitError{code: 1}
}

func (a *app) writeTree(format string, program *ast.Program) error {
	switch format {
	case "yaml":
		data, err := ast.DumpYAML(program)
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(data)
		return err
	case "json":
		data, err := ast.DumpJSON(program)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.stdout, "%s\n", data)
		return err
	}
	_, err := fmt.Fprintln(a.stdout, ast.Sexp(program))
	return err
}
