package router

import (
	"context"
	"net/http"

	"github.com/avelier/llmroute/pkg/backends/anthropic"
	"github.com/avelier/llmroute/pkg/backends/backend"
	"github.com/avelier/llmroute/pkg/backends/metrics"
	"github.com/avelier/llmroute/pkg/backends/openai"
	"github.com/avelier/llmroute/pkg/funcspec"
	"github.com/avelier/llmroute/pkg/prompt"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Opts carries caller-supplied generation options for one query. All fields
// are optional; nil pointers mean "use the model default". Extra holds
// arbitrary provider-specific keys forwarded to the wire after normalization.
type Opts struct {
	Temperature     *float64
	MaxTokens       *int
	ReasoningEffort string
	FuncSpec        *funcspec.Spec
	Extra           map[string]any
}

// Router normalizes queries per model family and dispatches them to the
// Anthropic or OpenAI backend. It is stateless per call and safe for
// concurrent use.
type Router struct {
	anthropic backend.Querier
	openai    backend.Querier
	log       logr.Logger
}

// Option customizes a Router created by New.
type Option func(*options)

type options struct {
	log     logr.Logger
	metrics *metrics.Recorder
	client  *http.Client
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logr.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics attaches a metrics recorder to both backends.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(o *options) { o.metrics = rec }
}

// WithHTTPClient sets the HTTP client for both backends.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.client = client }
}

// New creates a Router with both backends built from cfg.
func New(cfg Config, opts ...Option) *Router {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg = cfg.withDefaults()

	a := anthropic.New(cfg.Anthropic.BaseURL, cfg.Anthropic.APIKey, "")
	for k, v := range cfg.Anthropic.Headers {
		a.Headers[k] = v
	}
	a.Metrics = o.metrics
	a.Client = o.client

	oa := openai.New(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, "")
	if len(cfg.OpenAI.Headers) > 0 {
		oa.Headers = make(map[string]string, len(cfg.OpenAI.Headers))
		for k, v := range cfg.OpenAI.Headers {
			oa.Headers[k] = v
		}
	}
	oa.Metrics = o.metrics
	oa.Client = o.client

	return &Router{
		anthropic: a,
		openai:    oa,
		log:       o.log,
	}
}

// NewWithQueriers creates a Router over caller-supplied backends. Intended
// for embedding and tests.
func NewWithQueriers(anthropicQ, openaiQ backend.Querier, opts ...Option) *Router {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Router{
		anthropic: anthropicQ,
		openai:    openaiQ,
		log:       o.log,
	}
}

// ResolveClient constructs a standalone backend client for the given model:
// identifiers containing "claude-" get the Anthropic constructor, everything
// else falls through to the OpenAI constructor. The model is bound into the
// returned client. No validation happens here; a bad key or model surfaces
// as a backend error on the first query.
func ResolveClient(model string, cfg Config) backend.Querier {
	cfg = cfg.withDefaults()

	if Classify(model) == FamilyAnthropic {
		return anthropic.New(cfg.Anthropic.BaseURL, cfg.Anthropic.APIKey, model)
	}

	return openai.New(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, model)
}

// Query normalizes one LLM query and dispatches it to the backend serving
// the model's family:
//
//  1. classify the model into a family,
//  2. reshape the system/user pair for families that reject system-only
//     calls,
//  3. rewrite generation parameters per the family's rule,
//  4. compile structured prompts to markdown,
//  5. dispatch and unwrap.
//
// Only the completion (or function call) is returned; latency and token
// counts stay at the backend layer, where the usage tracker and metrics
// recorder capture them. Backend errors propagate unchanged.
func (r *Router) Query(ctx context.Context, system, user prompt.Node, model string, opts Opts) (backend.Output, error) {
	family := Classify(model)
	system, user = shapePrompts(family, system, user)
	params := family.NormalizeParams(model, opts)

	req := backend.Request{
		Spec:   opts.FuncSpec,
		Params: params,
	}
	if system != nil {
		req.System = prompt.Compile(system)
	}
	if user != nil {
		req.User = prompt.Compile(user)
	}

	q := r.openai
	if family == FamilyAnthropic {
		q = r.anthropic
	}

	id := uuid.NewString()
	r.log.V(1).Info("dispatching query",
		"request_id", id,
		"model", model,
		"family", family.String(),
		"has_func_spec", opts.FuncSpec != nil,
	)

	res, err := q.Query(ctx, req)
	if err != nil {
		r.log.V(1).Info("query failed", "request_id", id, "error", err.Error())
		return backend.Output{}, err
	}

	r.log.V(1).Info("query complete",
		"request_id", id,
		"elapsed", res.Elapsed,
		"input_tokens", res.InputTokens,
		"output_tokens", res.OutputTokens,
	)

	return res.Output, nil
}
