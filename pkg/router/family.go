package router

import (
	"strings"

	"github.com/avelier/llmroute/pkg/backends/backend"
	"github.com/avelier/llmroute/pkg/prompt"
)

// Family identifies a class of models sharing a request/response contract.
// Classification replaces scattered prefix checks with a single step; each
// family carries its own parameter-rewrite rule.
type Family int

const (
	// FamilyOpenAIDefault covers every model no other family claims.
	// Unrecognized identifiers deliberately fall through here instead of
	// erroring, matching the constructor contract.
	FamilyOpenAIDefault Family = iota

	// FamilyAnthropic covers "claude-" models served by the Anthropic backend.
	FamilyAnthropic

	// FamilyOpenAIReasoning covers o1/o3 models: reasoning effort required,
	// temperature rejected, max_completion_tokens instead of max_tokens.
	FamilyOpenAIReasoning

	// FamilyGPT5 covers gpt-5 models: reasoning effort with a softer default,
	// max_completion_tokens without a fallback value.
	FamilyGPT5

	// FamilyGemini covers gemini models, served through the OpenAI-compatible
	// backend. They reject system-only calls.
	FamilyGemini
)

// String returns the family name for logs.
func (f Family) String() string {
	switch f {
	case FamilyAnthropic:
		return "anthropic"
	case FamilyOpenAIReasoning:
		return "openai-reasoning"
	case FamilyGPT5:
		return "gpt-5"
	case FamilyGemini:
		return "gemini"
	default:
		return "openai-default"
	}
}

// Classify maps a model identifier to its family. Matching follows provider
// naming conventions: "claude-" anywhere for Anthropic, "o1"/"o3" prefixes
// for OpenAI reasoning models, the "gpt-5" prefix, and "gemini" anywhere.
// No further validation happens; everything else is OpenAI-default.
func Classify(model string) Family {
	switch {
	case strings.Contains(model, "claude-"):
		return FamilyAnthropic
	case strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"):
		return FamilyOpenAIReasoning
	case strings.HasPrefix(model, "gpt-5"):
		return FamilyGPT5
	case strings.Contains(model, "gemini"):
		return FamilyGemini
	default:
		return FamilyOpenAIDefault
	}
}

// RequiresUserMessage reports whether the family rejects system-only calls.
func (f Family) RequiresUserMessage() bool {
	return f == FamilyGemini || f == FamilyOpenAIReasoning
}

// MergesSystemIntoUser reports whether a system+user pair collapses into a
// single user prompt. Only the o1/o3 family does; Gemini keeps the pair even
// though it rejects system-only calls.
func (f Family) MergesSystemIntoUser() bool {
	return f == FamilyOpenAIReasoning
}

// Reasoning-effort defaults per family.
const (
	defaultReasoningEffort     = "high"
	defaultGPT5ReasoningEffort = "medium"
)

// The o1/o3 family substitutes this when the caller supplies no token limit.
const defaultReasoningMaxTokens = 100000

// NormalizeParams builds the backend parameters for this family from caller
// options. The typed fields own the "model", "temperature", and "max_tokens"
// keys, so those are stripped from the Extra overlay. Opts is never mutated;
// Extra is copied.
func (f Family) NormalizeParams(model string, opts Opts) backend.Params {
	extra := make(map[string]any, len(opts.Extra))
	for k, v := range opts.Extra {
		extra[k] = v
	}
	delete(extra, "model")
	delete(extra, "temperature")
	delete(extra, "max_tokens")

	p := backend.Params{
		Model: model,
		Extra: extra,
	}

	switch f {
	case FamilyOpenAIReasoning:
		p.ReasoningEffort = reasoningEffort(opts, extra, defaultReasoningEffort)
		if opts.MaxTokens != nil {
			p.MaxCompletionTokens = opts.MaxTokens
		} else {
			v := defaultReasoningMaxTokens
			p.MaxCompletionTokens = &v
		}
		// Temperature stays unset: these models reject it.

	case FamilyGPT5:
		p.ReasoningEffort = reasoningEffort(opts, extra, defaultGPT5ReasoningEffort)
		p.MaxCompletionTokens = opts.MaxTokens // nil allowed, no default substitution
		p.Temperature = opts.Temperature

	default:
		p.MaxTokens = opts.MaxTokens
		p.Temperature = opts.Temperature
	}

	return p
}

// reasoningEffort resolves the effort for a reasoning family: the typed field
// first, then an Extra["reasoning_effort"] string, then the family default.
// The Extra key is consumed so it is not sent twice.
func reasoningEffort(opts Opts, extra map[string]any, def string) string {
	if opts.ReasoningEffort != "" {
		delete(extra, "reasoning_effort")
		return opts.ReasoningEffort
	}

	if v, ok := extra["reasoning_effort"].(string); ok && v != "" {
		delete(extra, "reasoning_effort")
		return v
	}

	return def
}

// shapePrompts rewrites the system/user pair for families that reject
// system-only calls. For o1/o3 a system+user pair collapses into one user
// prompt; a lone system prompt always becomes the user prompt.
func shapePrompts(f Family, system, user prompt.Node) (prompt.Node, prompt.Node) {
	if !f.RequiresUserMessage() {
		return system, user
	}

	switch {
	case system != nil && user == nil:
		return nil, system
	case system != nil && user != nil && f.MergesSystemIntoUser():
		return nil, mergePrompts(system, user)
	default:
		return system, user
	}
}

// mergePrompts appends the user prompt to the system prompt under a synthetic
// "Main Instructions" section. A non-Doc system prompt becomes the intro of a
// fresh document.
func mergePrompts(system, user prompt.Node) prompt.Node {
	doc, ok := system.(prompt.Doc)
	if !ok {
		doc = prompt.Doc{Intro: system}
	}

	return doc.WithSection("Main Instructions", user)
}
