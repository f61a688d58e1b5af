package logger

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/axiomhq/axiom-go/axiom"
	"github.com/rs/zerolog/log"
)

func TestInitConsole(t *testing.T) {
	var buf strings.Builder
	if err := Init(Options{Level: "warn", Console: &buf}); err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("hidden")
	log.Warn().Str("file", "in.pdf").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line logged at warn level: %q", out)
	}
	if !strings.Contains(out, `"message":"shown"`) || !strings.Contains(out, `"file":"in.pdf"`) {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestInitDefaultLevel(t *testing.T) {
	var buf strings.Builder
	if err := Init(Options{Level: "chatty", Console: &buf}); err != nil {
		t.Fatal(err)
	}
	if lvl := Get().GetLevel().String(); lvl != "warn" {
		t.Errorf("level = %s, want warn", lvl)
	}
}

func TestInitFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "pdfnup.log")
	var buf strings.Builder
	if err := Init(Options{Level: "info", File: file, MaxSizeMB: 1, Console: &buf}); err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("to file")
	if !strings.Contains(buf.String(), "to file") {
		t.Error("console writer dropped when file logging is on")
	}
}

func TestBatcherFlushesOnClose(t *testing.T) {
	var mu sync.Mutex
	var got []string
	send := func(_ context.Context, events []axiom.Event) error {
		mu.Lock()
		defer mu.Unlock()
		for _, ev := range events {
			got = append(got, ev["message"].(string))
		}
		return nil
	}

	b := startBatcher(send, time.Hour)
	w := &axiomWriter{client: b}
	w.Write([]byte(`{"level":"info","message":"one"}`))
	w.Write([]byte(`{"level":"debug","message":"dropped"}`))
	w.Write([]byte("not json"))
	b.Close()

	mu.Lock()
	defer mu.Unlock()
	want := []string{"one", "not json"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("ingested %q, want %q", got, want)
	}
}
