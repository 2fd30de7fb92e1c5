package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sambeau/parsley-syntax/pkg/parsley/repl"
)

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive parser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL(cmd)
		},
	}
}

func (a *app) runREPL(cmd *cobra.Command) error {
	return repl.Start(a.stdin, a.stdout, repl.Options{
		Version:  Version,
		History:  a.cfg.HistoryPath(),
		Locale:   a.cfg.REPL.Locale,
		MaxDepth: a.cfg.Parser.MaxDepth,
		Color:    a.color,
	})
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "pars version %s\n", Version)
		},
	}
}
