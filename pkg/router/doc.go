// Package router dispatches LLM queries to the Anthropic or OpenAI backend
// based on the model identifier, normalizing generation parameters across
// provider quirks on the way.
//
// It contains:
//   - [Classify] and [Family] — a single classification step mapping model
//     identifiers to families, each with its own parameter-rewrite rule
//   - [Router.Query] — normalize, compile, dispatch, unwrap
//   - [ResolveClient] — construct a persistent backend client for one model
//   - [Config] / [LoadConfig] — YAML backend settings with ${VAR} expansion
//
// The router performs no validation, retrying, or error wrapping of its own;
// backend errors propagate unchanged.
package router
