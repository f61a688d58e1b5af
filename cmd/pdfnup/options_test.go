package main

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/local/pdfnup/internal/app"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args []string
		want app.Options
	}{
		{[]string{"in.pdf"}, app.Options{Input: "in.pdf", Copies: 4}},
		{[]string{"-n", "8", "-p", "3", "-o", "out.pdf", "in.pdf"}, app.Options{Input: "in.pdf", Output: "out.pdf", Copies: 8, Pages: 3}},
		{[]string{"-l", "-f", "-k", "-n=16", "my scan.pdf"}, app.Options{Input: "my scan.pdf", Copies: 16, LaTeXOnly: true, Force: true, Keep: true}},
	}
	for _, tt := range tests {
		got, err := parseArgs(tt.args, io.Discard)
		if err != nil {
			t.Errorf("parseArgs(%q): %v", tt.args, err)
			continue
		}
		if d := cmp.Diff(tt.want, got.Options); d != "" {
			t.Errorf("parseArgs(%q) mismatch (-want +got):\n%s", tt.args, d)
		}
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"a.pdf", "b.pdf"},
		{"-p", "-1", "in.pdf"},
		{"-n", "four", "in.pdf"},
		{"-x", "in.pdf"},
	}
	for _, args := range tests {
		if _, err := parseArgs(args, io.Discard); err == nil {
			t.Errorf("parseArgs(%q) succeeded", args)
		}
	}

	_, err := parseArgs([]string{"-h"}, io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h error = %v", err)
	}
}

func TestParseArgsVersion(t *testing.T) {
	opts, err := parseArgs([]string{"-version"}, io.Discard)
	if err != nil || !opts.Version {
		t.Errorf("parseArgs(-version) = %+v, %v", opts, err)
	}
}

func TestParseArgsCheck(t *testing.T) {
	opts, err := parseArgs([]string{"-check"}, io.Discard)
	if err != nil || !opts.Check {
		t.Errorf("parseArgs(-check) = %+v, %v", opts, err)
	}
}

// Copy counts are checked once, when app.Run builds the layout.
func TestParseArgsLeavesCopiesToLayout(t *testing.T) {
	opts, err := parseArgs([]string{"-n", "6", "in.pdf"}, io.Discard)
	if err != nil || opts.Copies != 6 {
		t.Errorf("parseArgs(-n 6) = %+v, %v", opts.Options, err)
	}
}
