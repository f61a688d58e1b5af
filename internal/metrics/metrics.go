package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the collectors of one pdfnup run. A private registry keeps
// Go runtime and process collectors out of the textfile.
type Registry struct {
	reg *prometheus.Registry

	runs            *prometheus.CounterVec
	sourcePages     prometheus.Counter
	pageResolutions *prometheus.CounterVec
	compileLatency  prometheus.Histogram
}

// New creates and registers the collectors.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pdfnup",
				Name:      "runs_total",
				Help:      "Runs by output mode (pdf, latex) and result (success, error)",
			},
			[]string{"mode", "result"},
		),
		sourcePages: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "pdfnup",
				Name:      "source_pages_total",
				Help:      "Source pages laid out onto sheets",
			},
		),
		pageResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pdfnup",
				Name:      "pagecount_resolutions_total",
				Help:      "Page count resolutions by source (explicit, default or backend name)",
			},
			[]string{"source"},
		),
		compileLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "pdfnup",
				Name:      "compile_duration_seconds",
				Help:      "Duration of LaTeX compilations",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),
	}
	r.reg.MustRegister(r.runs, r.sourcePages, r.pageResolutions, r.compileLatency)
	return r
}

// Gatherer exposes the registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) ObserveRun(mode string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	r.runs.WithLabelValues(mode, result).Inc()
}

func (r *Registry) ObservePageCount(source string, pages int) {
	r.pageResolutions.WithLabelValues(source).Inc()
	r.sourcePages.Add(float64(pages))
}

func (r *Registry) ObserveCompile(d time.Duration) { r.compileLatency.Observe(d.Seconds()) }

// WriteTextfile writes the metrics in the text exposition format for
// node_exporter's textfile collector. An empty path does nothing.
func (r *Registry) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
