// Package metrics exposes Prometheus instrumentation for backend LLM queries.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder holds the Prometheus collectors for backend query telemetry.
// A nil Recorder is valid and records nothing, so instrumentation stays
// optional for library users.
type Recorder struct {
	queries       *prometheus.CounterVec
	inputTokens   *prometheus.CounterVec
	outputTokens  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder and registers its collectors with reg.
// Passing prometheus.DefaultRegisterer wires the metrics into the default
// /metrics exposition.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llmroute_queries_total",
				Help: "Total number of backend LLM queries",
			}, []string{"backend", "model", "result"},
		),
		inputTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llmroute_input_tokens_total",
				Help: "Total input tokens consumed by backend queries",
			}, []string{"backend", "model"},
		),
		outputTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llmroute_output_tokens_total",
				Help: "Total output tokens produced by backend queries",
			}, []string{"backend", "model"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "llmroute_query_duration_seconds",
				Help: "Duration of backend LLM queries in seconds",
				// Reasoning models routinely take minutes; the top bucket
				// lands around 27m.
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 15),
			}, []string{"backend", "model"},
		),
	}

	reg.MustRegister(r.queries, r.inputTokens, r.outputTokens, r.queryDuration)

	return r
}

// ObserveQuery records the outcome of one backend query.
func (r *Recorder) ObserveQuery(backend, model, result string, elapsed time.Duration, inputTokens, outputTokens int) {
	if r == nil {
		return
	}

	r.queries.WithLabelValues(backend, model, result).Inc()
	r.queryDuration.WithLabelValues(backend, model).Observe(elapsed.Seconds())

	if inputTokens > 0 {
		r.inputTokens.WithLabelValues(backend, model).Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		r.outputTokens.WithLabelValues(backend, model).Add(float64(outputTokens))
	}
}
