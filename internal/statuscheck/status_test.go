package statuscheck

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fakeChecker(opts Options, have map[string]string, kpse string, awsErr error) *Checker {
	c := New(opts)
	c.lookPath = func(name string) (string, error) {
		if p, ok := have[name]; ok {
			return p, nil
		}
		return "", errors.New("not found")
	}
	c.output = func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name != "kpsewhich" || kpse == "" {
			return nil, errors.New("exit status 1")
		}
		return []byte(kpse + "\n"), nil
	}
	c.awsCreds = func(context.Context) error { return awsErr }
	return c
}

func TestSummaryAllPresent(t *testing.T) {
	c := fakeChecker(Options{
		Engine:         "pdflatex",
		Backends:       []string{"pdfinfo", "pdfcpu"},
		PdfinfoCommand: "pdfinfo",
		CheckAWS:       true,
	}, map[string]string{
		"pdflatex": "/usr/bin/pdflatex",
		"pdfinfo":  "/usr/bin/pdfinfo",
	}, "/usr/share/texmf/tex/latex/pdfpages/pdfpages.sty", nil)

	got := c.Summary(context.Background())
	want := []Status{
		{Name: "latex engine", OK: true, Message: "/usr/bin/pdflatex"},
		{Name: "pdfpages package", OK: true, Message: "/usr/share/texmf/tex/latex/pdfpages/pdfpages.sty"},
		{Name: "pagecount pdfinfo", OK: true, Message: "/usr/bin/pdfinfo"},
		{Name: "pagecount pdfcpu", OK: true, Message: "built in"},
		{Name: "aws credentials", OK: true, Message: "available"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Summary() mismatch (-want +got):\n%s", d)
	}
	if !OK(got) {
		t.Error("OK() = false")
	}
}

func TestSummaryMissing(t *testing.T) {
	c := fakeChecker(Options{
		Engine:         "lualatex",
		Backends:       []string{"pdfinfo"},
		PdfinfoCommand: "pdfinfo",
		CheckAWS:       true,
	}, nil, "", errors.New(strings.Repeat("x", 200)))

	got := c.Summary(context.Background())
	if OK(got) {
		t.Error("OK() = true with nothing installed")
	}
	for _, st := range got {
		if st.OK {
			t.Errorf("%s reported OK", st.Name)
		}
	}
	if msg := got[len(got)-1].Message; len(msg) != 120 {
		t.Errorf("aws message not trimmed: %d chars", len(msg))
	}
}

func TestPrint(t *testing.T) {
	var sb strings.Builder
	Print(&sb, []Status{
		{Name: "latex engine", OK: true, Message: "/usr/bin/pdflatex"},
		{Name: "pdfpages package", Message: "pdfpages.sty not found (kpsewhich)"},
	})
	want := "latex engine      ok       /usr/bin/pdflatex\n" +
		"pdfpages package  MISSING  pdfpages.sty not found (kpsewhich)\n"
	if d := cmp.Diff(want, sb.String()); d != "" {
		t.Errorf("Print() mismatch (-want +got):\n%s", d)
	}
}
