// Package pagecount decides how many source pages to lay out.
//
// An explicit count always wins. Otherwise a Counter is asked, and any
// failure to get an answer from it degrades to a single page.
package pagecount

import "context"

// Sources reported in a Resolution besides the counter names.
const (
	SourceExplicit = "explicit"
	SourceDefault  = "default"
)

// DefaultPages is used when the count cannot be discovered.
const DefaultPages = 1

// Counter discovers the page count of a PDF. ok is false whenever the
// count is unknown, whatever the reason.
type Counter interface {
	Name() string
	PageCount(ctx context.Context, path string) (n int, ok bool)
}

// Resolution is the page count together with where it came from.
type Resolution struct {
	Pages  int
	Source string
}

// Resolve applies the page-count policy for path.
func Resolve(ctx context.Context, explicit int, path string, c Counter) Resolution {
	if explicit > 0 {
		return Resolution{Pages: explicit, Source: SourceExplicit}
	}
	if lk, ok := c.(looker); ok {
		if name, n, ok := lk.Lookup(ctx, path); ok && n > 0 {
			return Resolution{Pages: n, Source: name}
		}
	} else if c != nil {
		if n, ok := c.PageCount(ctx, path); ok && n > 0 {
			return Resolution{Pages: n, Source: c.Name()}
		}
	}
	return Resolution{Pages: DefaultPages, Source: SourceDefault}
}

// looker is a Counter that can say which of its members answered.
type looker interface {
	Lookup(ctx context.Context, path string) (name string, n int, ok bool)
}

// Chain asks each counter in turn and returns the first positive answer.
type Chain []Counter

func (c Chain) Name() string { return "chain" }

func (c Chain) PageCount(ctx context.Context, path string) (int, bool) {
	_, n, ok := c.Lookup(ctx, path)
	return n, ok
}

// Lookup is PageCount that also reports which counter answered.
func (c Chain) Lookup(ctx context.Context, path string) (string, int, bool) {
	for _, counter := range c {
		if ctx.Err() != nil {
			break
		}
		if n, ok := counter.PageCount(ctx, path); ok && n > 0 {
			return counter.Name(), n, true
		}
	}
	return "", 0, false
}
