// Pdfnup places 2, 4, 8, 9 or 16 shrunken copies of each page of a PDF on
// A4 sheets by generating a pdfpages LaTeX document and compiling it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/local/pdfnup/internal/app"
	"github.com/local/pdfnup/internal/compiler"
	cfgpkg "github.com/local/pdfnup/internal/config"
	"github.com/local/pdfnup/internal/layout"
	logpkg "github.com/local/pdfnup/internal/logger"
	"github.com/local/pdfnup/internal/pagecount"
	"github.com/local/pdfnup/internal/prompt"
	"github.com/local/pdfnup/internal/source"
	"github.com/local/pdfnup/internal/statuscheck"
)

// version is set with -ldflags "-X main.version=...".
var version = ""

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseArgs(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfnup: %v\n", err)
		return 2
	}
	if opts.Version {
		fmt.Println(buildVersion())
		return 0
	}

	cfg, err := cfgpkg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfnup: configuration: %v\n", err)
		return 2
	}

	_ = logpkg.Init(logpkg.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval,
	})
	defer logpkg.Close()

	if opts.Check {
		return check(cfg)
	}

	counter, err := pagecount.FromNames(cfg.PageCount.Backends, pagecount.Options{
		PdfinfoCommand: cfg.PageCount.PdfinfoCommand,
		Timeout:        cfg.PageCount.Timeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfnup: %v\n", err)
		return 2
	}

	deps := app.Dependencies{
		Fetcher:         &source.Fetcher{HTTPClient: &http.Client{Timeout: cfg.Fetch.Timeout}},
		Counter:         counter,
		Interactive:     prompt.IsInteractive(os.Stdin),
		MetricsTextfile: cfg.Metrics.Textfile,
	}
	if !opts.LaTeXOnly {
		deps.Compiler = compiler.New(compiler.EngineConfig{
			Command: cfg.Engine.Command,
			Runs:    cfg.Engine.Runs,
			Timeout: cfg.Engine.Timeout,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(deps).Run(ctx, opts.Options); err != nil {
		logpkg.Get().Debug().Err(err).Msg("run failed")
		fmt.Fprintf(os.Stderr, "pdfnup: %v\n", err)
		if errors.Is(err, layout.ErrUnsupported) {
			return 2
		}
		return 1
	}
	return 0
}

func check(cfg cfgpkg.Config) int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	summary := statuscheck.New(statuscheck.Options{
		Engine:         cfg.Engine.Command,
		Backends:       cfg.PageCount.Backends,
		PdfinfoCommand: cfg.PageCount.PdfinfoCommand,
		CheckAWS:       cfg.AWS.Configured(),
	}).Summary(ctx)
	statuscheck.Print(os.Stdout, summary)
	if !statuscheck.OK(summary) {
		return 1
	}
	return 0
}

func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
