package backend

import (
	"context"
	"time"

	"github.com/avelier/llmroute/pkg/funcspec"
)

// Params carries normalized generation parameters for one query. The router
// builds a fresh Params per call and owns the model, temperature, and token
// fields; Extra carries arbitrary provider-specific keys and is merged into
// the request body last, so its keys win on collision. Adapters must not
// mutate Params.
type Params struct {
	Model               string
	Temperature         *float64
	MaxTokens           *int
	MaxCompletionTokens *int
	ReasoningEffort     string
	Extra               map[string]any
}

// Request is a fully normalized, compiled query ready for the wire.
// Empty System or User means that prompt is absent.
type Request struct {
	System string
	User   string
	Spec   *funcspec.Spec
	Params Params
}

// Output is a model completion: plain text, or a function call when the
// request carried a function spec.
type Output struct {
	Text string
	Call *funcspec.Call
}

// Result carries the full backend response. The router hands only Output
// back to its callers; latency and token telemetry stay at this layer.
type Result struct {
	Output       Output
	Elapsed      time.Duration
	InputTokens  int
	OutputTokens int
	Info         map[string]any
}

// Querier sends one normalized query to an LLM backend.
type Querier interface {
	Query(ctx context.Context, req Request) (Result, error)
}

// MergeExtra overlays extra onto base and returns base. Later keys override
// earlier ones, letting callers reach any wire field the typed params do not
// cover.
func MergeExtra(base map[string]any, extra map[string]any) map[string]any {
	for k, v := range extra {
		base[k] = v
	}

	return base
}
