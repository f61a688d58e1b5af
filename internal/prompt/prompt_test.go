package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func existing(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name        string
		exists      bool
		force       bool
		interactive bool
		answer      string
		want        error
	}{
		{"missing file", false, false, false, "", nil},
		{"force", true, true, false, "", nil},
		{"non-interactive", true, false, false, "", ErrExists},
		{"yes", true, false, true, "y\n", nil},
		{"YES", true, false, true, " YES \n", nil},
		{"no", true, false, true, "n\n", ErrDeclined},
		{"empty answer", true, false, true, "\n", ErrDeclined},
		{"eof", true, false, true, "", ErrDeclined},
		{"yes without newline", true, false, true, "yes", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.pdf")
			if tt.exists {
				path = existing(t)
			}
			var out strings.Builder
			err := Guard(path, tt.force, strings.NewReader(tt.answer), &out, tt.interactive)
			if !errors.Is(err, tt.want) || (err == nil) != (tt.want == nil) {
				t.Errorf("Guard() = %v, want %v", err, tt.want)
			}
			asked := strings.Contains(out.String(), "overwrite")
			if asked != (tt.exists && !tt.force && tt.interactive) {
				t.Errorf("prompt written = %t (%q)", asked, out.String())
			}
		})
	}
}
