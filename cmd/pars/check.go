package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sambeau/parsley-syntax/pkg/parsley/checker"
	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
)

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [paths...]",
		Short: "Check Parsley files for syntax errors",
		Long: `Check parses every matching file under the given paths (default: the
current directory) and reports syntax errors. A path of - reads stdin.`,
		RunE: a.runCheck,
	}
	cmd.Flags().Int("jobs", 0, "number of files to check in parallel (default: config or GOMAXPROCS)")
	cmd.Flags().Bool("tolerant", false, "report every error in a file, not just the first")
	cmd.Flags().Int("max-depth", 0, "maximum nesting depth (default: config)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	cmd.Flags().Bool("clear-cache", false, "remove every cached result before checking")
	cmd.Flags().Bool("markdown", false, "also check ```parsley blocks in .md files")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("watch", false, "re-check files as they change")
	return cmd
}

func (a *app) checkOptions(cmd *cobra.Command) (checker.Options, error) {
	cfg := a.cfg
	opts := checker.Options{
		MaxDepth: cfg.Parser.MaxDepth,
		Tolerant: cfg.Parser.Tolerant,
		Markdown: cfg.Check.Markdown,
		Jobs:     cfg.Check.Jobs,
		Log:      a.log,
	}
	flags := cmd.Flags()
	if flags.Changed("jobs") {
		opts.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("max-depth") {
		opts.MaxDepth, _ = flags.GetInt("max-depth")
		if opts.MaxDepth < 1 {
			return opts, fmt.Errorf("--max-depth must be at least 1")
		}
	}
	if tolerant, _ := flags.GetBool("tolerant"); tolerant {
		opts.Tolerant = true
	}
	if markdown, _ := flags.GetBool("markdown"); markdown {
		opts.Markdown = true
	}

	noCache, _ := flags.GetBool("no-cache")
	clearCache, _ := flags.GetBool("clear-cache")
	useCache := cfg.Cache.Enabled && !noCache
	if !useCache && !clearCache {
		return opts, nil
	}
	dir, err := cfg.CacheDir()
	if err == nil {
		opts.Cache, err = checker.OpenCache(dir)
	}
	if err != nil {
		a.log.Warnf("cache disabled: %v", err)
		return opts, nil
	}
	if clearCache {
		if err := opts.Cache.Clear(); err != nil {
			opts.Cache.Close()
			opts.Cache = nil
			return opts, fmt.Errorf("failed to clear cache: %w", err)
		}
		a.log.Infof("cleared cache %s", dir)
	}
	if !useCache {
		opts.Cache.Close()
		opts.Cache = nil
	}
	return opts, nil
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	watch, _ := cmd.Flags().GetBool("watch")

	opts, err := a.checkOptions(cmd)
	if err != nil {
		return err
	}
	if opts.Cache != nil {
		defer opts.Cache.Close()
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	include := a.cfg.Check.Include
	if opts.Markdown {
		include = append(slices.Clone(include), "*.md", "*.markdown")
	}
	files, err := checker.Expand(paths, include, a.cfg.Check.Exclude)
	if err != nil {
		return err
	}
	if watch && slices.Contains(files, "-") {
		return fmt.Errorf("--watch cannot read stdin")
	}

	results, err := a.checkAll(cmd.Context(), files, opts)
	if err != nil {
		return err
	}
	if opts.Cache != nil {
		hits, misses := opts.Cache.Stats()
		a.log.Debugf("cache: %d hits, %d misses", hits, misses)
	}
	if err := a.report(format, results); err != nil {
		return err
	}

	if watch {
		return a.watch(cmd.Context(), paths, include, opts, format)
	}
	for _, r := range results {
		if !r.OK() {
			return &exitError{code: 1}
		}
	}
	return nil
}

// checkAll checks files in order, reading "-" from the app's stdin.
func (a *app) checkAll(ctx context.Context, files []string, opts checker.Options) ([]checker.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	stdinAt := slices.Index(files, "-")
	if stdinAt < 0 {
		return checker.CheckFiles(ctx, files, opts)
	}

	name, src, err := a.readSource("-")
	if err != nil {
		return nil, err
	}
	rest := slices.Delete(slices.Clone(files), stdinAt, stdinAt+1)
	results, err := checker.CheckFiles(ctx, rest, opts)
	if err != nil {
		return nil, err
	}
	return slices.Insert(results, stdinAt, checker.CheckSource(name, src, opts)), nil
}

type jsonResult struct {
	File   string                  `json:"file"`
	OK     bool                    `json:"ok"`
	Cached bool                    `json:"cached,omitempty"`
	Errors []*perrors.ParsleyError `json:"errors"`
}

func (a *app) report(format string, results []checker.Result) error {
	if format == "json" {
		out := make([]jsonResult, len(results))
		for i, r := range results {
			errs := r.Errors
			if errs == nil {
				errs = []*perrors.ParsleyError{}
			}
			out[i] = jsonResult{File: r.File, OK: r.OK(), Cached: r.Cached, Errors: errs}
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	failed, total := 0, 0
	for _, r := range results {
		a.printResult(r)
		if !r.OK() {
			failed++
			total += len(r.Errors)
		}
	}
	if failed == 0 {
		fmt.Fprintf(a.stdout, "%d %s checked, no errors\n", len(results), plural(len(results), "file"))
		return nil
	}
	fmt.Fprintf(a.stdout, "%d %s checked, %d %s in %d %s\n",
		len(results), plural(len(results), "file"),
		total, plural(total, "error"), failed, plural(failed, "file"))
	return nil
}

func (a *app) printResult(r checker.Result) {
	for _, err := range r.Errors {
		perrors.Render(a.stdout, r.Source, err, perrors.RenderOptions{Color: a.color})
		fmt.Fprintln(a.stdout)
	}
}

func (a *app) watch(ctx context.Context, paths, include []string, opts checker.Options, format string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := checker.NewWatcher(opts, include, a.cfg.Check.Exclude, func(r checker.Result) {
		if format == "json" {
			a.report(format, []checker.Result{r})
			return
		}
		if r.OK() {
			fmt.Fprintf(a.stdout, "%s: ok\n", r.File)
			return
		}
		a.printResult(r)
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(paths...); err != nil {
		return err
	}
	a.log.Tagf("WATCH", "watching for changes (Ctrl+C to stop)")
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
