package pagecount

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultPdfinfoTimeout bounds a single metadata lookup.
const DefaultPdfinfoTimeout = 10 * time.Second

// Pdfinfo counts pages with an external metadata command that prints
// "Key: value" lines, poppler's pdfinfo being the usual one.
type Pdfinfo struct {
	Command string
	Timeout time.Duration
}

// NewPdfinfo returns a Pdfinfo for command, "pdfinfo" when empty.
func NewPdfinfo(command string, timeout time.Duration) *Pdfinfo {
	if command == "" {
		command = "pdfinfo"
	}
	if timeout <= 0 {
		timeout = DefaultPdfinfoTimeout
	}
	return &Pdfinfo{Command: command, Timeout: timeout}
}

func (p *Pdfinfo) Name() string { return "pdfinfo" }

// PageCount runs the command on path. A missing binary, a non-zero exit,
// a timeout and output without a usable Pages field all count as unknown.
func (p *Pdfinfo) PageCount(ctx context.Context, path string) (int, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.Command, path)
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		return 0, false
	}
	return pagesField(parseInfo(out))
}

// parseInfo splits "Key: value" lines. Lines without a colon are skipped
// and the first occurrence of a key wins.
func parseInfo(out []byte) map[string]string {
	fields := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if _, seen := fields[key]; seen || key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}

func pagesField(fields map[string]string) (int, bool) {
	v, ok := fields["Pages"]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
