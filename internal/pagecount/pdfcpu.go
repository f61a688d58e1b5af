package pagecount

import (
	"context"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Pdfcpu counts pages in-process with pdfcpu, so no external tool is needed.
type Pdfcpu struct{}

func (Pdfcpu) Name() string { return "pdfcpu" }

func (Pdfcpu) PageCount(ctx context.Context, path string) (int, bool) {
	if ctx.Err() != nil {
		return 0, false
	}
	n, err := api.PageCountFile(path)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
