// Package openai provides a backend.Querier for OpenAI-compatible Chat
// Completions APIs. Reasoning-family parameters (reasoning_effort,
// max_completion_tokens) are sent verbatim when present; the router decides
// upstream which parameters a model family accepts.
package openai

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
	completionsPath = "/v1/chat/completions"

	backendName = "openai"
)

var _ backend.Querier = (*Backend)(nil)

// Backend implements backend.Querier for the OpenAI Chat Completions API.
type Backend struct {
	backend.Adapter
}

// New creates a Backend configured for the OpenAI API.
// The baseURL should be "https://api.openai.com" (no trailing slash).
// An empty model leaves the default to per-query params.
func New(baseURL, apiKey, model string) *Backend {
	b := &Backend{}
	b.BaseURL = baseURL
	b.Auth = backend.Auth{Key: apiKey}
	b.Name = model

	return b
}

// Query sends one normalized query to the Chat Completions API.
func (b *Backend) Query(ctx context.Context, req backend.Request) (backend.Result, error) {
	model := b.Model(req.Params)
	body := b.buildBody(req)

	start := time.Now()

	var resp apiResponse
	if err := b.PostJSON(ctx, completionsPath, body, &resp); err != nil {
		b.Observe(backendName, model, metrics.ResultError, time.Since(start), 0, 0)
		return backend.Result{}, fmt.Errorf("openai: %w", err)
	}

	elapsed := time.Since(start)

	out, finishReason, err := parseOutput(resp, req.Spec)
	if err != nil {
		b.Observe(backendName, model, metrics.ResultError, elapsed, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		return backend.Result{}, err
	}

	b.Observe(backendName, model, metrics.ResultSuccess, elapsed, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return backend.Result{
		Output:       out,
		Elapsed:      elapsed,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Info: map[string]any{
			"finish_reason": finishReason,
			"model":         resp.Model,
		},
	}, nil
}

// --- response types ---

type apiResponse struct {
	Model   string      `json:"model"`
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Message      apiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

type apiMessage struct {
	Content   *string       `json:"content"`
	ToolCalls []apiToolCall `json:"tool_calls,omitempty"`
}

type apiToolCall struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Function apiToolFunction `json:"function"`
}

type apiToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// --- conversion helpers ---

func (b *Backend) buildBody(req backend.Request) map[string]any {
	p := req.Params

	body := map[string]any{
		"model": b.Model(p),
	}

	msgs := make([]map[string]any, 0, 2)
	if req.System != "" {
		msgs = append(msgs, map[string]any{"role": "system", "content": req.System})
	}
	if req.User != "" {
		msgs = append(msgs, map[string]any{"role": "user", "content": req.User})
	}
	body["messages"] = msgs

	if p.Temperature != nil {
		body["temperature"] = *p.Temperature
	}
	if p.MaxTokens != nil {
		body["max_tokens"] = *p.MaxTokens
	}
	if p.MaxCompletionTokens != nil {
		body["max_completion_tokens"] = *p.MaxCompletionTokens
	}
	if p.ReasoningEffort != "" {
		body["reasoning_effort"] = p.ReasoningEffort
	}

	if req.Spec != nil {
		schema := req.Spec.Schema
		if schema == nil {
			schema = json.RawMessage(`{"type":"object"}`)
		}

		body["tools"] = []map[string]any{{
			"type": "function",
			"function": map[string]any{
				"name":        req.Spec.Name,
				"description": req.Spec.Description,
				"parameters":  schema,
			},
		}}
		body["tool_choice"] = map[string]any{
			"type":     "function",
			"function": map[string]any{"name": req.Spec.Name},
		}
	}

	return backend.MergeExtra(body, p.Extra)
}

func parseOutput(resp apiResponse, spec *funcspec.Spec) (backend.Output, string, error) {
	if len(resp.Choices) == 0 {
		return backend.Output{}, "", fmt.Errorf("openai: empty choices in response")
	}

	choice := resp.Choices[0]

	if spec != nil {
		for _, tc := range choice.Message.ToolCalls {
			if tc.Function.Name == "" {
				continue
			}

			args := tc.Function.Arguments
			if args == "" {
				args = "{}"
			}

			return backend.Output{
				Call: &funcspec.Call{Name: tc.Function.Name, Arguments: json.RawMessage(args)},
			}, choice.FinishReason, nil
		}

		return backend.Output{}, "", fmt.Errorf("openai: no tool call in response for function %q", spec.Name)
	}

	var text string
	if choice.Message.Content != nil {
		text = *choice.Message.Content
	}

	return backend.Output{Text: text}, choice.FinishReason, nil
}
