package statuscheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
)

// Options configures the Checker.
type Options struct {
	Engine         string
	Backends       []string
	PdfinfoCommand string
	// CheckAWS adds a credentials check for s3:// inputs.
	CheckAWS bool
}

// Status represents the readiness of a subsystem.
type Status struct {
	Name    string
	OK      bool
	Message string
}

// Checker reports whether the external tools pdfnup relies on are usable.
type Checker struct {
	opts     Options
	lookPath func(string) (string, error)
	output   func(ctx context.Context, name string, args ...string) ([]byte, error)
	awsCreds func(ctx context.Context) error
}

// New creates a new Checker with the provided options.
func New(opts Options) *Checker {
	return &Checker{
		opts:     opts,
		lookPath: exec.LookPath,
		output: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
		awsCreds: func(ctx context.Context) error {
			cfg, err := awscfg.LoadDefaultConfig(ctx)
			if err != nil {
				return err
			}
			_, err = cfg.Credentials.Retrieve(ctx)
			return err
		},
	}
}

// Summary returns one Status per dependency, engine first.
func (c *Checker) Summary(ctx context.Context) []Status {
	out := []Status{c.checkEngine(), c.checkPdfpages(ctx)}
	for _, b := range c.opts.Backends {
		out = append(out, c.checkBackend(b))
	}
	if c.opts.CheckAWS {
		out = append(out, c.checkAWS(ctx))
	}
	return out
}

// OK reports whether every status in s is OK.
func OK(s []Status) bool {
	for _, st := range s {
		if !st.OK {
			return false
		}
	}
	return true
}

// Print writes s as an aligned table.
func Print(w io.Writer, s []Status) {
	width := 0
	for _, st := range s {
		if len(st.Name) > width {
			width = len(st.Name)
		}
	}
	for _, st := range s {
		mark := "ok"
		if !st.OK {
			mark = "MISSING"
		}
		fmt.Fprintf(w, "%-*s  %-7s  %s\n", width, st.Name, mark, st.Message)
	}
}

func (c *Checker) checkEngine() Status {
	st := Status{Name: "latex engine"}
	path, err := c.lookPath(c.opts.Engine)
	if err != nil {
		st.Message = fmt.Sprintf("%s: binary not found", c.opts.Engine)
		return st
	}
	st.OK, st.Message = true, path
	return st
}

// checkPdfpages asks kpathsea where pdfpages.sty lives.
func (c *Checker) checkPdfpages(ctx context.Context) Status {
	st := Status{Name: "pdfpages package"}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := c.output(ctx, "kpsewhich", "pdfpages.sty")
	path := strings.TrimSpace(string(out))
	if err != nil || path == "" {
		st.Message = "pdfpages.sty not found (kpsewhich)"
		return st
	}
	st.OK, st.Message = true, path
	return st
}

func (c *Checker) checkBackend(name string) Status {
	name = strings.ToLower(strings.TrimSpace(name))
	st := Status{Name: "pagecount " + name}
	switch name {
	case "pdfinfo":
		path, err := c.lookPath(c.opts.PdfinfoCommand)
		if err != nil {
			st.Message = fmt.Sprintf("%s: binary not found, pages default to 1 without -p", c.opts.PdfinfoCommand)
			return st
		}
		st.OK, st.Message = true, path
	case "pdfcpu", "mupdf":
		st.OK, st.Message = true, "built in"
	default:
		st.Message = "unknown backend"
	}
	return st
}

func (c *Checker) checkAWS(ctx context.Context) Status {
	st := Status{Name: "aws credentials"}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.awsCreds(ctx); err != nil {
		st.Message = trimError(err)
		return st
	}
	st.OK, st.Message = true, "available"
	return st
}

func trimError(err error) string {
	if err == nil {
		return ""
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	msg := err.Error()
	if len(msg) > 120 {
		return msg[:120]
	}
	return msg
}
