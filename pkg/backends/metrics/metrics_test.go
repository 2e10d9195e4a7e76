package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecorder_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	require.NotNil(t, r)

	r.ObserveQuery("openai", "gpt-4-turbo", ResultSuccess, 250*time.Millisecond, 100, 20)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}

	assert.Contains(t, names, "llmroute_queries_total")
	assert.Contains(t, names, "llmroute_input_tokens_total")
	assert.Contains(t, names, "llmroute_output_tokens_total")
	assert.Contains(t, names, "llmroute_query_duration_seconds")
}

func TestObserveQuery_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveQuery("anthropic", "claude-sonnet", ResultSuccess, time.Second, 10, 5)
	r.ObserveQuery("anthropic", "claude-sonnet", ResultSuccess, time.Second, 20, 10)
	r.ObserveQuery("anthropic", "claude-sonnet", ResultError, time.Second, 0, 0)

	count, err := testutil.GatherAndCount(reg, "llmroute_queries_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count) // success and error series

	in := testutil.ToFloat64(r.inputTokens.WithLabelValues("anthropic", "claude-sonnet"))
	assert.InDelta(t, 30, in, 1e-9)

	out := testutil.ToFloat64(r.outputTokens.WithLabelValues("anthropic", "claude-sonnet"))
	assert.InDelta(t, 15, out, 1e-9)
}

func TestObserveQuery_NilRecorder(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.ObserveQuery("openai", "gpt-4", ResultSuccess, time.Second, 1, 1)
	})
}

func TestObserveQuery_ZeroTokensNotCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveQuery("openai", "gpt-4", ResultError, time.Second, 0, 0)

	count, err := testutil.GatherAndCount(reg, "llmroute_input_tokens_total")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
