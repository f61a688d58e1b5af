// Package prompt guards existing output files against accidental overwrite.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	// ErrExists is returned when the output exists and nobody can be asked.
	ErrExists = errors.New("output file already exists (use -f to overwrite)")
	// ErrDeclined is returned when the user answers no.
	ErrDeclined = errors.New("not overwriting output file")
)

// Guard decides whether path may be written. A missing file or force
// always passes; otherwise an interactive user is asked on out and answers on in.
func Guard(path string, force bool, in io.Reader, out io.Writer, interactive bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("check output: %w", err)
	}
	if !interactive {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}

	fmt.Fprintf(out, "overwrite %s? [y/N] ", path)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return ErrDeclined
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
