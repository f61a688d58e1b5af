package filetype

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

const pdfMIME = "application/pdf"

// Info is the detected type of an input file.
type Info struct {
	MIMEType    string
	Extension   string
	Description string
}

// IsPDF reports whether the content is a PDF, whatever the file is called.
func (i *Info) IsPDF() bool { return i.MIMEType == pdfMIME }

// Detect detects the actual file type using magic bytes, not filename.
func Detect(path string) (*Info, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}

	info := &Info{
		MIMEType:  mtype.String(),
		Extension: mtype.Extension(),
	}
	if mtype.Is(pdfMIME) {
		info.MIMEType = pdfMIME
	}

	switch {
	case info.IsPDF():
		info.Description = "PDF document"
	case mtype.Is("application/postscript"):
		info.Description = "PostScript document, convert it to PDF first"
	default:
		info.Description = fmt.Sprintf("unsupported file type: %s", info.MIMEType)
	}

	log.Debug().Str("mime", info.MIMEType).Str("ext", info.Extension).Str("file", path).Msg("detected file type")
	return info, nil
}
