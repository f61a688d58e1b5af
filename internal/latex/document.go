// Package latex renders the pdfpages document that places several copies of
// each source page on one A4 sheet.
package latex

import (
	"io"
	"strconv"
	"strings"

	"github.com/local/pdfnup/internal/layout"
)

// Document is everything needed to render one output file.
// PageCount is the number of source pages, which is also the number of
// output sheets.
type Document struct {
	SourceFile string
	Layout     layout.Layout
	PageCount  int
}

var preamble = []string{
	`\usepackage{pdfpages}`,
	`\pagestyle{empty}`,
	`\setlength{\parindent}{0pt}`,
	`\begin{document}`,
}

// Lines returns the document one line at a time, without line terminators.
func (d Document) Lines() []string {
	lines := make([]string, 0, len(preamble)+d.PageCount+2)
	lines = append(lines, d.documentClass())
	lines = append(lines, preamble...)
	for page := 1; page <= d.PageCount; page++ {
		lines = append(lines, d.includeDirective(page))
	}
	lines = append(lines, `\end{document}`)
	return lines
}

// Render returns the complete LaTeX source, newline terminated.
func (d Document) Render() string {
	return strings.Join(d.Lines(), "\n") + "\n"
}

// WriteTo writes the rendered document to w.
func (d Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.Render())
	return int64(n), err
}

func (d Document) documentClass() string {
	if d.Layout.IsLandscape() {
		return `\documentclass[a4paper,landscape]{article}`
	}
	return `\documentclass[a4paper]{article}`
}

// includeDirective places Copies replicas of one source page on one sheet.
// The trailing % keeps LaTeX from inserting a paragraph between sheets.
func (d Document) includeDirective(page int) string {
	var sb strings.Builder
	sb.WriteString(`\includepdf[pages={`)
	sb.WriteString(PageList(page, d.Layout.Copies()))
	sb.WriteString(`},nup=`)
	sb.WriteString(d.Layout.Geometry())
	sb.WriteString(`]{`)
	sb.WriteString(d.SourceFile)
	sb.WriteString(`}%`)
	return sb.String()
}

// PageList returns page repeated copies times, comma separated.
func PageList(page, copies int) string {
	if copies <= 0 {
		return ""
	}
	p := strconv.Itoa(page)
	return strings.Repeat(p+",", copies-1) + p
}
