// Package funcspec defines caller-supplied function schemas and the
// structured function-call results models can return in place of free text.
package funcspec

import "encoding/json"

// Spec describes a callable the model may invoke instead of answering in
// free text. The schema is opaque to the routing layer and is forwarded to
// the backend unchanged.
type Spec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Schema      json.RawMessage `json:"schema"`
}

// Call is the model's request to invoke the function described by a Spec.
// Arguments holds the raw JSON string to avoid unnecessary deserialization.
type Call struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}
