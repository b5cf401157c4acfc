package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	buildDuration  prom.Histogram
	stageDuration  *prom.HistogramVec
	pageResults    *prom.CounterVec
	fragments      prom.Counter
	variantResults *prom.CounterVec
	docConcurrency prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "edgebuilder",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "edgebuilder",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.pageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "edgebuilder",
			Name:      "page_results_total",
			Help:      "Page outcomes by result",
		}, []string{"result"})
		pr.fragments = prom.NewCounter(prom.CounterOpts{
			Namespace: "edgebuilder",
			Name:      "fragments_staged_total",
			Help:      "Fragments staged into the partial store",
		})
		pr.variantResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "edgebuilder",
			Name:      "image_variant_results_total",
			Help:      "Derived image variant outcomes by result",
		}, []string{"result"})
		pr.docConcurrency = prom.NewGauge(prom.GaugeOpts{
			Namespace: "edgebuilder",
			Name:      "document_concurrency",
			Help:      "Observed document processing concurrency for the last build",
		})
		reg.MustRegister(pr.buildDuration, pr.stageDuration, pr.pageResults,
			pr.fragments, pr.variantResults, pr.docConcurrency)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(result ResultLabel) {
	if p == nil || p.pageResults == nil {
		return
	}
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncFragmentStaged() {
	if p == nil || p.fragments == nil {
		return
	}
	p.fragments.Inc()
}

func (p *PrometheusRecorder) IncVariantResult(result ResultLabel) {
	if p == nil || p.variantResults == nil {
		return
	}
	p.variantResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetDocConcurrency(n int) {
	if p == nil || p.docConcurrency == nil {
		return
	}
	p.docConcurrency.Set(float64(n))
}
