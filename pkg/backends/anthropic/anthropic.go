// Package anthropic provides a backend.Querier for the Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avelier/llmroute/pkg/backends/backend"
	"github.com/avelier/llmroute/pkg/backends/metrics"
	"github.com/avelier/llmroute/pkg/funcspec"
)

const (
	messagesPath = "/v1/messages"

	// The Messages API rejects requests without max_tokens.
	defaultMaxTokens = 4096

	backendName = "anthropic"
)

var _ backend.Querier = (*Backend)(nil)

// Backend implements backend.Querier for the Anthropic Messages API.
type Backend struct {
	backend.Adapter
}

// New creates a Backend configured for the Anthropic API.
// The baseURL should be "https://api.anthropic.com" (no trailing slash).
// An empty model leaves the default to per-query params.
func New(baseURL, apiKey, model string) *Backend {
	b := &Backend{}
	b.BaseURL = baseURL
	b.Auth = backend.Auth{
		Key:    apiKey,
		Header: "x-api-key",
	}
	b.Name = model
	b.Headers = map[string]string{
		"anthropic-version": "2023-06-01",
	}

	return b
}

// Query sends one normalized query to the Messages API.
func (b *Backend) Query(ctx context.Context, req backend.Request) (backend.Result, error) {
	model := b.Model(req.Params)
	body := b.buildBody(req)

	start := time.Now()

	var resp apiResponse
	if err := b.PostJSON(ctx, messagesPath, body, &resp); err != nil {
		b.Observe(backendName, model, metrics.ResultError, time.Since(start), 0, 0)
		return backend.Result{}, fmt.Errorf("anthropic: %w", err)
	}

	elapsed := time.Since(start)

	out, err := parseOutput(resp, req.Spec)
	if err != nil {
		b.Observe(backendName, model, metrics.ResultError, elapsed, resp.Usage.InputTokens, resp.Usage.OutputTokens)
		return backend.Result{}, err
	}

	b.Observe(backendName, model, metrics.ResultSuccess, elapsed, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	return backend.Result{
		Output:       out,
		Elapsed:      elapsed,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		Info: map[string]any{
			"stop_reason": resp.StopReason,
			"model":       resp.Model,
		},
	}, nil
}

// --- response types ---

type apiResponse struct {
	Model      string       `json:"model"`
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
	Usage      apiUsage     `json:"usage"`
}

type apiContent struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// --- conversion helpers ---

func (b *Backend) buildBody(req backend.Request) map[string]any {
	p := req.Params

	maxTokens := defaultMaxTokens
	if p.MaxTokens != nil {
		maxTokens = *p.MaxTokens
	}

	body := map[string]any{
		"model":      b.Model(p),
		"max_tokens": maxTokens,
	}

	if p.Temperature != nil {
		body["temperature"] = *p.Temperature
	}

	system, user := req.System, req.User

	// The API requires at least one message, so a system-only query is sent
	// as the sole user message.
	if user == "" && system != "" {
		user, system = system, ""
	}

	if system != "" {
		body["system"] = system
	}

	msgs := make([]map[string]any, 0, 1)
	if user != "" {
		msgs = append(msgs, map[string]any{"role": "user", "content": user})
	}
	body["messages"] = msgs

	if req.Spec != nil {
		schema := req.Spec.Schema
		if schema == nil {
			schema = json.RawMessage(`{"type":"object"}`)
		}

		body["tools"] = []map[string]any{{
			"name":         req.Spec.Name,
			"description":  req.Spec.Description,
			"input_schema": schema,
		}}
		body["tool_choice"] = map[string]any{"type": "tool", "name": req.Spec.Name}
	}

	return backend.MergeExtra(body, p.Extra)
}

func parseOutput(resp apiResponse, spec *funcspec.Spec) (backend.Output, error) {
	if spec != nil {
		for _, block := range resp.Content {
			if block.Type != "tool_use" {
				continue
			}

			args := block.Input
			if len(args) == 0 {
				args = json.RawMessage(`{}`)
			}

			return backend.Output{Call: &funcspec.Call{Name: block.Name, Arguments: args}}, nil
		}

		return backend.Output{}, fmt.Errorf("anthropic: no tool_use block in response for function %q", spec.Name)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return backend.Output{Text: text}, nil
}
