// Package checker runs the Parsley parser over files and reports syntax
// errors: in parallel, through an on-disk result cache, inside Markdown
// code fences, and on every save in watch mode.
package checker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
	"github.com/sambeau/parsley-syntax/pkg/parsley/lexer"
	"github.com/sambeau/parsley-syntax/pkg/parsley/parser"
	"github.com/sambeau/parsley-syntax/pkg/parsley/parsley"
)

// Options controls a check run.
type Options struct {
	MaxDepth int          // parser nesting limit; parser default when zero
	Tolerant bool         // report every error rather than the first
	Markdown bool         // check ```parsley fences in .md files
	Jobs     int          // parallel checks; GOMAXPROCS when zero
	Cache    *Cache       // nil disables caching
	Log      *parsley.Log // nil is silent
	Now      func() time.Time
}

func (o Options) log() *parsley.Log {
	if o.Log == nil {
		return parsley.Discard
	}
	return o.Log
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) parserOptions() []parser.Option {
	opts := []parser.Option{parser.WithTolerant(o.Tolerant)}
	if o.MaxDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(o.MaxDepth))
	}
	return opts
}

// Result is the outcome of checking one file.
type Result struct {
	File     string
	Source   string
	Errors   []*perrors.ParsleyError
	Duration time.Duration
	Cached   bool
}

// OK reports whether the file parsed cleanly.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// CheckSource parses src as the file name. Markdown names are checked
// fence by fence when opts.Markdown is set.
func CheckSource(name, src string, opts Options) Result {
	start := opts.now()
	res := Result{File: name, Source: src}

	markdown := opts.Markdown && isMarkdown(name)

	var key string
	if opts.Cache != nil {
		keyOpts := opts
		keyOpts.Markdown = markdown
		key = opts.Cache.Key(parsley.Version, keyOpts, src)
		if errs, ok := opts.Cache.Get(key); ok {
			res.Errors = withFile(errs, name)
			res.Cached = true
			res.Duration = opts.now().Sub(start)
			opts.log().Debugf("cache hit: %s", name)
			return res
		}
	}

	if markdown {
		res.Errors = checkMarkdown(name, src, opts)
	} else {
		res.Errors = parseErrors(name, src, opts)
	}
	res.Duration = opts.now().Sub(start)

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, res.Errors); err != nil {
			opts.log().Warnf("cache write failed for %s: %v", name, err)
		}
	}
	return res
}

func parseErrors(name, src string, opts Options) []*perrors.ParsleyError {
	p := parser.New(lexer.NewWithFilename(src, name), opts.parserOptions()...)
	p.ParseProgram()
	return p.StructuredErrors()
}

func withFile(errs []*perrors.ParsleyError, name string) []*perrors.ParsleyError {
	out := make([]*perrors.ParsleyError, len(errs))
	for i, e := range errs {
		out[i] = e.WithFile(name)
	}
	return out
}

// CheckFile reads and checks one file. A path of "-" reads stdin.
func CheckFile(path string, opts Options) (Result, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		path = "<stdin>"
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return Result{File: path}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return CheckSource(path, string(data), opts), nil
}

// CheckFiles checks paths in parallel. Results are in the order of paths.
// The first read error, or cancellation of ctx, stops the run.
func CheckFiles(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := CheckFile(path, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	opts.log().Infof("checked %d files, %d with errors", len(paths), failed)
	return results, nil
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
