package metrics

import "time"

// ResultLabel enumerates per-unit result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultSkipped ResultLabel = "skipped"
	ResultWarning ResultLabel = "warning"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for build metrics. Implementations
// must be safe for concurrent use; document processing is parallel.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	ObserveStageDuration(stage string, d time.Duration)
	IncPageResult(result ResultLabel)
	IncFragmentStaged()
	IncVariantResult(result ResultLabel)
	SetDocConcurrency(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncPageResult(ResultLabel)                  {}
func (NoopRecorder) IncFragmentStaged()                         {}
func (NoopRecorder) IncVariantResult(ResultLabel)               {}
func (NoopRecorder) SetDocConcurrency(int)                      {}
