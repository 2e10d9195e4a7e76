package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/avelier/llmroute/pkg/backends/backend"
	"github.com/avelier/llmroute/pkg/funcspec"
	"github.com/avelier/llmroute/pkg/prompt"
	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
)

// loadDotEnv loads environment variables from path. If the file does not exist
// it is silently ignored so that .env files remain optional.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// readPrompt turns a -system/-user flag value into a prompt node. An empty
// value means no prompt; a value starting with "@" is a path to a file whose
// contents become the prompt text.
func readPrompt(value string) (prompt.Node, error) {
	if value == "" {
		return nil, nil
	}

	if after, ok := strings.CutPrefix(value, "@"); ok {
		data, err := os.ReadFile(after) //nolint:gosec // path comes from a command-line flag
		if err != nil {
			return nil, err
		}
		return prompt.Text{Text: string(data)}, nil
	}

	return prompt.Text{Text: value}, nil
}

// parseTemperature parses the -temperature flag. Kept as a string flag so
// that "not set" is distinguishable from 0.
func parseTemperature(value string) (float64, error) {
	t, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid temperature %q: %w", value, err)
	}
	return t, nil
}

// parseFuncSpec decodes a JSON function spec and checks the fields the
// providers require.
func parseFuncSpec(data []byte) (*funcspec.Spec, error) {
	var spec funcspec.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if spec.Name == "" {
		return nil, errors.New("missing name")
	}
	if len(spec.Schema) == 0 {
		return nil, errors.New("missing schema")
	}
	return &spec, nil
}

// printOutput writes the completion to w. Function-call results are printed
// as indented JSON; text results are printed as-is, or rendered as terminal
// markdown when render is set.
func printOutput(w io.Writer, out backend.Output, render bool) error {
	if out.Call != nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out.Call)
	}

	text := out.Text
	if render {
		text = renderMarkdown(text)
	}

	_, err := fmt.Fprintln(w, strings.TrimRight(text, "\n"))
	return err
}

// renderMarkdown converts markdown text to terminal-formatted output using
// glamour. Falls back to plain text if the renderer is unavailable.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}

	return out
}
