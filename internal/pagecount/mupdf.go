package pagecount

import (
	"context"

	"github.com/gen2brain/go-fitz"
)

// Doc is the part of an open PDF the MuPDF counter needs.
type Doc interface {
	NumPage() int
	Close() error
}

// Opener opens a PDF path into a Doc.
type Opener interface {
	Open(path string) (Doc, error)
}

type fitzOpener struct{}

func (fitzOpener) Open(path string) (Doc, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// MuPDF counts pages through go-fitz. A nil Opener uses MuPDF itself;
// tests substitute their own.
type MuPDF struct {
	Opener Opener
}

func (m MuPDF) Name() string { return "mupdf" }

func (m MuPDF) PageCount(ctx context.Context, path string) (int, bool) {
	if ctx.Err() != nil {
		return 0, false
	}
	opener := m.Opener
	if opener == nil {
		opener = fitzOpener{}
	}
	doc, err := opener.Open(path)
	if err != nil {
		return 0, false
	}
	defer doc.Close()

	n := doc.NumPage()
	if n <= 0 {
		return 0, false
	}
	return n, true
}
