package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_ImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveBuildDuration(time.Second)
	r.ObserveStageDuration("fragments", time.Millisecond)
	r.IncPageResult(ResultSuccess)
	r.IncFragmentStaged()
	r.IncVariantResult(ResultFailed)
	r.SetDocConcurrency(4)
}

func TestPrometheusRecorder_CountsResults(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncPageResult(ResultSuccess)
	r.IncPageResult(ResultSuccess)
	r.IncPageResult(ResultSkipped)
	r.IncFragmentStaged()
	r.IncVariantResult(ResultSuccess)
	r.SetDocConcurrency(8)

	success := testutil.ToFloat64(r.pageResults.WithLabelValues(string(ResultSuccess)))
	require.Equal(t, 2.0, success)
	skipped := testutil.ToFloat64(r.pageResults.WithLabelValues(string(ResultSkipped)))
	require.Equal(t, 1.0, skipped)
	require.Equal(t, 1.0, testutil.ToFloat64(r.fragments))
	require.Equal(t, 8.0, testutil.ToFloat64(r.docConcurrency))
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveBuildDuration(time.Second)
	r.IncPageResult(ResultFailed)
	r.SetDocConcurrency(1)
}
