// Package app ties input handling, page-count resolution, document
// generation and compilation together for one pdfnup invocation.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/local/pdfnup/internal/compiler"
	"github.com/local/pdfnup/internal/filetype"
	"github.com/local/pdfnup/internal/latex"
	"github.com/local/pdfnup/internal/layout"
	"github.com/local/pdfnup/internal/metrics"
	"github.com/local/pdfnup/internal/pagecount"
	"github.com/local/pdfnup/internal/prompt"
	"github.com/local/pdfnup/internal/source"
)

// ErrNotPDF is returned when the input is not a PDF document.
var ErrNotPDF = errors.New("input is not a PDF")

// Fetcher makes an input reference available locally.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (*source.Local, error)
}

// Compiler typesets a generated document.
type Compiler interface {
	Compile(ctx context.Context, job compiler.Job, diag io.Writer) (compiler.Result, error)
}

// checker is a Compiler that can tell whether its engine is installed.
type checker interface {
	Check() error
}

// Dependencies are the collaborators of an App. Nil fields get defaults
// except Compiler, which is only needed for PDF output.
type Dependencies struct {
	Fetcher  Fetcher
	Counter  pagecount.Counter
	Compiler Compiler
	Metrics  *metrics.Registry

	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	Interactive bool

	// MetricsTextfile is written after every run when set.
	MetricsTextfile string
}

// Options are the validated command-line choices.
type Options struct {
	Input     string
	Output    string
	Copies    int
	Pages     int
	LaTeXOnly bool
	Force     bool
	Keep      bool
}

// App runs pdfnup.
type App struct {
	deps Dependencies
}

func New(deps Dependencies) *App {
	if deps.Fetcher == nil {
		deps.Fetcher = &source.Fetcher{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	return &App{deps: deps}
}

// DefaultOutput names the PDF written for input when -o is not given:
// the input's base name with "-<copies>up.pdf", in the working directory.
func DefaultOutput(input string, copies int) string {
	base := path.Base(filepath.ToSlash(input))
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" || stem == "." || stem == "/" {
		stem = "output"
	}
	return fmt.Sprintf("%s-%dup.pdf", stem, copies)
}

// Run processes one input according to opts.
func (a *App) Run(ctx context.Context, opts Options) (err error) {
	mode := "pdf"
	if opts.LaTeXOnly {
		mode = "latex"
	}
	defer func() {
		a.deps.Metrics.ObserveRun(mode, err)
		if werr := a.deps.Metrics.WriteTextfile(a.deps.MetricsTextfile); werr != nil {
			log.Warn().Err(werr).Str("file", a.deps.MetricsTextfile).Msg("failed to write metrics")
		}
	}()

	lay, err := layout.New(opts.Copies)
	if err != nil {
		return err
	}
	if opts.Pages < 0 {
		return fmt.Errorf("page count must be positive, got %d", opts.Pages)
	}

	local, err := a.deps.Fetcher.Fetch(ctx, opts.Input)
	if err != nil {
		return fmt.Errorf("fetch input: %w", err)
	}
	if opts.LaTeXOnly && local.Remote {
		// The generated document names the download, so it has to outlive the run.
		log.Info().Str("input", opts.Input).Str("file", local.Path).Msg("keeping downloaded input")
		fmt.Fprintf(a.deps.Stderr, "downloaded %s to %s\n", opts.Input, local.Path)
	} else {
		defer local.Cleanup()
	}

	info, err := filetype.Detect(local.Path)
	if err != nil {
		return fmt.Errorf("read input %s: %w", opts.Input, err)
	}
	if !info.IsPDF() {
		return fmt.Errorf("%s: %w (%s)", opts.Input, ErrNotPDF, info.Description)
	}

	res := pagecount.Resolve(ctx, opts.Pages, local.Path, a.deps.Counter)
	a.deps.Metrics.ObservePageCount(res.Source, res.Pages)
	ev := log.Info()
	if res.Source == pagecount.SourceDefault {
		ev = log.Warn()
	}
	ev.Str("input", opts.Input).Int("pages", res.Pages).Str("source", res.Source).Msg("page count resolved")

	doc := latex.Document{
		SourceFile: local.Path,
		Layout:     lay,
		PageCount:  res.Pages,
	}
	log.Debug().Stringer("layout", lay).Int("sheets", doc.PageCount).Msg("document ready")

	if opts.LaTeXOnly {
		return a.writeLaTeX(doc, opts)
	}
	return a.compile(ctx, doc, opts)
}

func (a *App) writeLaTeX(doc latex.Document, opts Options) error {
	if opts.Output == "" || opts.Output == "-" {
		_, err := doc.WriteTo(a.deps.Stdout)
		return err
	}
	if err := prompt.Guard(opts.Output, opts.Force, a.deps.Stdin, a.deps.Stderr, a.deps.Interactive); err != nil {
		return err
	}
	if err := os.WriteFile(opts.Output, []byte(doc.Render()), 0o644); err != nil {
		return fmt.Errorf("write LaTeX: %w", err)
	}
	log.Info().Str("output", opts.Output).Msg("LaTeX written")
	return nil
}

func (a *App) compile(ctx context.Context, doc latex.Document, opts Options) error {
	if a.deps.Compiler == nil {
		return errors.New("no LaTeX engine configured")
	}
	if c, ok := a.deps.Compiler.(checker); ok {
		if err := c.Check(); err != nil {
			return fmt.Errorf("%w (use -l to write LaTeX only)", err)
		}
	}
	output := opts.Output
	if output == "" {
		output = DefaultOutput(opts.Input, opts.Copies)
	}
	if err := prompt.Guard(output, opts.Force, a.deps.Stdin, a.deps.Stderr, a.deps.Interactive); err != nil {
		return err
	}

	result, err := a.deps.Compiler.Compile(ctx, compiler.Job{
		Source:     doc.Render(),
		OutputPath: output,
		Keep:       opts.Keep,
	}, a.deps.Stderr)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	a.deps.Metrics.ObserveCompile(result.Duration)
	fmt.Fprintf(a.deps.Stderr, "wrote %s (%d sheets, %s)\n", result.OutputPath, doc.PageCount, doc.Layout)
	return nil
}
