package pagecount

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeCounter struct {
	name  string
	n     int
	ok    bool
	calls int
}

func (f *fakeCounter) Name() string { return f.name }

func (f *fakeCounter) PageCount(context.Context, string) (int, bool) {
	f.calls++
	return f.n, f.ok
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		explicit int
		counter  *fakeCounter
		want     Resolution
		calls    int
	}{
		{"explicit wins over counter", 5, &fakeCounter{name: "fake", n: 9, ok: true}, Resolution{5, SourceExplicit}, 0},
		{"explicit wins over failing counter", 3, &fakeCounter{name: "fake"}, Resolution{3, SourceExplicit}, 0},
		{"counter answer", 0, &fakeCounter{name: "fake", n: 9, ok: true}, Resolution{9, "fake"}, 1},
		{"counter unknown", 0, &fakeCounter{name: "fake"}, Resolution{1, SourceDefault}, 1},
		{"counter zero pages", 0, &fakeCounter{name: "fake", n: 0, ok: true}, Resolution{1, SourceDefault}, 1},
		{"negative explicit ignored", -2, &fakeCounter{name: "fake", n: 4, ok: true}, Resolution{4, "fake"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(context.Background(), tt.explicit, "in.pdf", tt.counter)
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", d)
			}
			if tt.counter.calls != tt.calls {
				t.Errorf("counter called %d times, want %d", tt.counter.calls, tt.calls)
			}
		})
	}
}

func TestResolveNilCounter(t *testing.T) {
	got := Resolve(context.Background(), 0, "in.pdf", nil)
	if got != (Resolution{Pages: 1, Source: SourceDefault}) {
		t.Errorf("Resolve(nil counter) = %+v", got)
	}
}

func TestChain(t *testing.T) {
	first := &fakeCounter{name: "first"}
	second := &fakeCounter{name: "second", n: 7, ok: true}
	third := &fakeCounter{name: "third", n: 2, ok: true}
	chain := Chain{first, second, third}

	name, n, ok := chain.Lookup(context.Background(), "in.pdf")
	if !ok || n != 7 || name != "second" {
		t.Errorf("Lookup() = %q, %d, %t", name, n, ok)
	}
	if third.calls != 0 {
		t.Error("chain kept asking after an answer")
	}

	if _, ok := (Chain{first}).PageCount(context.Background(), "in.pdf"); ok {
		t.Error("chain of failing counters reported a count")
	}
	if _, ok := (Chain{}).PageCount(context.Background(), "in.pdf"); ok {
		t.Error("empty chain reported a count")
	}
}

func TestResolveChainSource(t *testing.T) {
	chain := Chain{&fakeCounter{name: "pdfinfo"}, &fakeCounter{name: "pdfcpu", n: 4, ok: true}}
	got := Resolve(context.Background(), 0, "in.pdf", chain)
	if got != (Resolution{Pages: 4, Source: "pdfcpu"}) {
		t.Errorf("Resolve(chain) = %+v", got)
	}
	got = Resolve(context.Background(), 0, "in.pdf", Chain{&fakeCounter{name: "pdfinfo"}})
	if got != (Resolution{Pages: 1, Source: SourceDefault}) {
		t.Errorf("Resolve(failing chain) = %+v", got)
	}
}

func TestChainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &fakeCounter{name: "c", n: 3, ok: true}
	if _, ok := (Chain{c}).PageCount(ctx, "in.pdf"); ok || c.calls != 0 {
		t.Errorf("cancelled chain: ok=%t calls=%d", ok, c.calls)
	}
}

func TestFromNames(t *testing.T) {
	chain, err := FromNames([]string{"pdfinfo", " PDFCPU ", "", "mupdf"}, Options{PdfinfoCommand: "/opt/bin/pdfinfo"})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, c := range chain {
		names = append(names, c.Name())
	}
	if d := cmp.Diff([]string{"pdfinfo", "pdfcpu", "mupdf"}, names); d != "" {
		t.Errorf("backends mismatch (-want +got):\n%s", d)
	}
	if p := chain[0].(*Pdfinfo); p.Command != "/opt/bin/pdfinfo" || p.Timeout != DefaultPdfinfoTimeout {
		t.Errorf("pdfinfo counter = %+v", p)
	}

	if _, err := FromNames([]string{"qpdf"}, Options{}); err == nil {
		t.Error("unknown backend accepted")
	}
}
