// Package backend defines the contract between the query router and concrete
// LLM backends, plus an embeddable base struct with the HTTP plumbing the
// concrete adapters share.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/avelier/llmroute/pkg/backends/metrics"
	"github.com/avelier/llmroute/pkg/backends/usage"
)

// Auth holds authentication settings for an LLM backend API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// Adapter holds shared state for LLM backend implementations. Embed it in
// concrete backend structs to get HTTP helpers, auth, custom headers, usage
// tracking, and metrics. Concrete types should define their own Query method
// to shadow the default stub.
type Adapter struct {
	Name    string            // Default model identifier; Params.Model overrides per query.
	Auth    Auth              // Authentication settings.
	BaseURL string            // API base URL (no trailing slash).
	Client  *http.Client      // HTTP client; falls back to a cached default.
	Headers map[string]string // Extra headers applied to every request.
	Usage   usage.Tracker     // Token usage tracker.
	Metrics *metrics.Recorder // Optional query metrics; nil records nothing.

	clientOnce    sync.Once
	defaultClient *http.Client
}

// Query is a stub that returns an error. Concrete backends that embed Adapter
// must define their own Query method to shadow this one.
func (a *Adapter) Query(_ context.Context, _ Request) (Result, error) {
	return Result{}, errors.New("backend: Query not implemented")
}

// Model returns the model identifier for a query: the request's, or the
// adapter's default when the request carries none.
func (a *Adapter) Model(p Params) string {
	if p.Model != "" {
		return p.Model
	}

	return a.Name
}

// httpClient returns the configured client or a cached default with a
// 10-minute timeout. Reasoning models can take several minutes per response.
func (a *Adapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}

	a.clientOnce.Do(func() {
		a.defaultClient = &http.Client{Timeout: 10 * time.Minute}
	})

	return a.defaultClient
}

// NewRequest builds an *http.Request with the base URL, auth, and custom
// headers already applied.
func (a *Adapter) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := a.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	// Apply auth.
	if a.Auth.Key != "" {
		header := a.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := a.Auth.Key
		if header == "Authorization" {
			scheme := a.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}

			value = scheme + " " + value
		} else if a.Auth.Scheme != "" {
			value = a.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	// Apply custom headers.
	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Do sends the request using the configured HTTP client.
func (a *Adapter) Do(req *http.Request) (*http.Response, error) {
	return a.httpClient().Do(req) //nolint:gosec // URL is built from trusted BaseURL config, not user input.
}

// PostJSON marshals payload as JSON, sends a POST to the given path, checks
// for a 2xx status, and unmarshals the response body into dest. If dest is
// nil the response body is discarded after the status check.
func (a *Adapter) PostJSON(ctx context.Context, path string, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// Observe records usage and metrics for one finished query.
func (a *Adapter) Observe(backendName, model, result string, elapsed time.Duration, inputTokens, outputTokens int) {
	if result == metrics.ResultSuccess {
		a.Usage.Record(inputTokens, outputTokens)
	}

	a.Metrics.ObserveQuery(backendName, model, result, elapsed, inputTokens, outputTokens)
}
