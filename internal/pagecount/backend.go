package pagecount

import (
	"fmt"
	"strings"
	"time"
)

// Backends lists the names accepted by FromNames.
var Backends = []string{"pdfinfo", "pdfcpu", "mupdf"}

// Options configures the counters built by FromNames.
type Options struct {
	PdfinfoCommand string
	Timeout        time.Duration
}

// FromNames builds a Chain in the given order. Unknown names are an error.
func FromNames(names []string, opts Options) (Chain, error) {
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
			continue
		case "pdfinfo":
			chain = append(chain, NewPdfinfo(opts.PdfinfoCommand, opts.Timeout))
		case "pdfcpu":
			chain = append(chain, Pdfcpu{})
		case "mupdf":
			chain = append(chain, MuPDF{})
		default:
			return nil, fmt.Errorf("unknown page count backend %q (known: %s)", name, strings.Join(Backends, ", "))
		}
	}
	return chain, nil
}
