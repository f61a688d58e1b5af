package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/local/pdfnup/internal/app"
	"github.com/local/pdfnup/internal/layout"
)

type cliOptions struct {
	app.Options
	Version bool
	Check   bool
}

func parseArgs(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("pdfnup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: pdfnup [options] input.pdf\n\n")
		fmt.Fprintf(fs.Output(), "Places copies of every page of input.pdf on A4 sheets.\n\n")
		fs.PrintDefaults()
	}

	supported := make([]string, 0, len(layout.Supported()))
	for _, n := range layout.Supported() {
		supported = append(supported, fmt.Sprint(n))
	}
	fs.IntVar(&opts.Copies, "n", 4, "copies per sheet, one of "+strings.Join(supported, ", "))
	fs.IntVar(&opts.Pages, "p", 0, "number of source pages to use (0 = detect)")
	fs.StringVar(&opts.Output, "o", "", "output file (default <input>-<n>up.pdf, or stdout with -l)")
	fs.BoolVar(&opts.LaTeXOnly, "l", false, "write the LaTeX source instead of compiling it")
	fs.BoolVar(&opts.Force, "f", false, "overwrite the output file without asking")
	fs.BoolVar(&opts.Keep, "k", false, "keep the LaTeX work directory")
	fs.BoolVar(&opts.Version, "version", false, "print version and exit")
	fs.BoolVar(&opts.Check, "check", false, "report which external tools are available and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Version || opts.Check {
		return opts, nil
	}

	if opts.Pages < 0 {
		return opts, fmt.Errorf("-p must not be negative, got %d", opts.Pages)
	}
	switch fs.NArg() {
	case 0:
		return opts, errors.New("no input file given")
	case 1:
		opts.Input = fs.Arg(0)
	default:
		return opts, fmt.Errorf("expected one input file, got %d", fs.NArg())
	}
	return opts, nil
}
