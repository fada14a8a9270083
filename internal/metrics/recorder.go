// Package metrics records render and export metrics.
//
// Components hold a Recorder and default to NoopRecorder, so no nil checks
// are needed at call sites. PrometheusRecorder is injected when metrics are
// enabled in the configuration.
package metrics

import "time"

// ResultLabel enumerates page request outcomes.
type ResultLabel string

const (
	ResultOK       ResultLabel = "ok"
	ResultNotFound ResultLabel = "not_found"
	ResultDisabled ResultLabel = "disabled"
	ResultError    ResultLabel = "error"
)

// Render modes used as the mode label.
const (
	ModeServe  = "serve"
	ModeStatic = "static"
)

// Recorder defines observability hooks for the render pipeline.
type Recorder interface {
	ObserveRenderDuration(mode string, d time.Duration)
	IncHighlightOutcome(outcome string) // highlighted|plaintext|fallback
	IncPageResult(result ResultLabel)
	ObserveExportDuration(d time.Duration)
	SetIndexedPages(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are disabled).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(string, time.Duration) {}
func (NoopRecorder) IncHighlightOutcome(string)                  {}
func (NoopRecorder) IncPageResult(ResultLabel)                   {}
func (NoopRecorder) ObserveExportDuration(time.Duration)         {}
func (NoopRecorder) SetIndexedPages(int)                         {}
