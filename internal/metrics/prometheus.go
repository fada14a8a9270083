package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inkwell"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renderDuration    *prom.HistogramVec
	highlightOutcomes *prom.CounterVec
	pageResults       *prom.CounterVec
	exportDuration    prom.Histogram
	indexedPages      prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of single page renders",
			Buckets:   prom.DefBuckets,
		}, []string{"mode"}),
		highlightOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "highlight_outcomes_total",
			Help:      "Highlighted code blocks by outcome",
		}, []string{"outcome"}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_results_total",
			Help:      "Served page requests by result",
		}, []string{"result"}),
		exportDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Total static export duration",
			Buckets:   prom.DefBuckets,
		}),
		indexedPages: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_pages",
			Help:      "Pages currently held by the search index",
		}),
	}
	reg.MustRegister(pr.renderDuration, pr.highlightOutcomes, pr.pageResults, pr.exportDuration, pr.indexedPages)
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(mode string, d time.Duration) {
	p.renderDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncHighlightOutcome(outcome string) {
	p.highlightOutcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncPageResult(result ResultLabel) {
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveExportDuration(d time.Duration) {
	p.exportDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetIndexedPages(n int) {
	p.indexedPages.Set(float64(n))
}

// HTTPHandler returns an http.Handler that serves the metrics in reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
