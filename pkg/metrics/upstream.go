package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics records outcomes of calls to the Fassto API and the sheet sink.
type UpstreamMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	sinkRows prometheus.Counter
}

// NewUpstreamMetrics registers the gateway metrics on the provided registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of upstream Fassto API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"target"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_request_success_total",
		Help: "Successful upstream Fassto API calls.",
	}, []string{"target"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_request_failure_total",
		Help: "Failed upstream Fassto API call attempts.",
	}, []string{"target"})
	sinkRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sink_rows_written_total",
		Help: "Rows written to the spreadsheet sink.",
	})
	reg.MustRegister(duration, success, failure, sinkRows)
	return &UpstreamMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		sinkRows: sinkRows,
	}
}

// ObserveDuration records the duration for the named call target.
func (m *UpstreamMetrics) ObserveDuration(target string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(target)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named call target.
func (m *UpstreamMetrics) IncSuccess(target string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(target)).Inc()
}

// IncFailure increments the failure counter for the named call target.
func (m *UpstreamMetrics) IncFailure(target string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(target)).Inc()
}

// AddSinkRows counts rows appended or overwritten in the sink.
func (m *UpstreamMetrics) AddSinkRows(n int) {
	if m == nil || m.sinkRows == nil || n <= 0 {
		return
	}
	m.sinkRows.Add(float64(n))
}

func normalizeLabel(target string) string {
	if target == "" {
		return "unknown"
	}
	return target
}
