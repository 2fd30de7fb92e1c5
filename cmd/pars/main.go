package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sambeau/parsley-syntax/pkg/parsley/config"
	"github.com/sambeau/parsley-syntax/pkg/parsley/parsley"
)

// Version is set at compile time via -ldflags
var Version = parsley.Version

// exitError carries a process exit code out of a command. Commands that
// return it have already reported the problem.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// app holds what every command shares: the streams, the environment and,
// once the root pre-run has happened, the loaded config and log.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	cfg     *config.Config
	log     *parsley.Log
	logFile *os.File
	color   bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr, getenv: os.Getenv}
}

func main() {
	os.Exit(newApp(os.Stdin, os.Stdout, os.Stderr).run(os.Args[1:]))
}

// run executes the command line and returns the exit code: 0 when clean,
// 1 when input has syntax errors, 2 for usage, config and I/O failures.
func (a *app) run(args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.Execute()
	if a.logFile != nil {
		a.logFile.Close()
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pars",
		Short:         "Parsley syntax tools",
		Long:          `pars checks, tokenizes and parses Parsley source. With no command it starts the REPL.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL(cmd)
		},
	}
	root.SetVersionTemplate("pars version {{.Version}}\n")

	root.PersistentFlags().String("config", "", "config file (default: nearest parsley.yaml or parsley.toml)")
	root.PersistentFlags().Bool("no-color", false, "disable colour output")
	root.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")

	root.AddCommand(a.checkCmd())
	root.AddCommand(a.tokensCmd())
	root.AddCommand(a.astCmd())
	root.AddCommand(a.replCmd())
	root.AddCommand(a.versionCmd())
	return root
}

// setup loads config, opens the log and decides on colour.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath, a.getenv)
	if err != nil {
		return err
	}
	if err := cfg.CheckRequires(Version); err != nil {
		return err
	}
	a.cfg = cfg

	if level, _ := flags.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	level, err := parsley.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	out, err := a.logOutput(cfg.Logging.Output)
	if err != nil {
		return err
	}
	a.log = parsley.NewLog(out, level, cfg.Logging.Format == "json")
	if cfg.Path != "" {
		a.log.Debugf("loaded config %s", cfg.Path)
	}

	noColor, _ := flags.GetBool("no-color")
	a.color = !noColor && a.getenv("NO_COLOR") == "" && isTerminal(a.stdout)
	return nil
}

func (a *app) logOutput(target string) (parsley.Logger, error) {
	switch target {
	case "", "stderr":
		return parsley.WriterLogger(a.stderr), nil
	case "stdout":
		return parsley.WriterLogger(a.stdout), nil
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	a.logFile = f
	return parsley.WriterLogger(f), nil
}

// readSource reads a file, or stdin for "-".
func (a *app) readSource(path string) (name, src string, err error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "<stdin>", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return "<stdin>", string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return path, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return path, string(data), nil
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
