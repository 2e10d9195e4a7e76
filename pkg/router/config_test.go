package router

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
anthropic:
  base_url: https://anthropic.example.com
  api_key: a-key
openai:
  api_key: o-key
  headers:
    x-org: acme
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://anthropic.example.com", cfg.Anthropic.BaseURL)
	assert.Equal(t, "a-key", cfg.Anthropic.APIKey)
	assert.Equal(t, "o-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "acme", cfg.OpenAI.Headers["x-org"])
}

func TestLoadConfig_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "from-env")

	path := writeConfig(t, `
openai:
  api_key: ${TEST_OPENAI_KEY}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OpenAI.APIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := writeConfig(t, "openai: [not a mapping")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestConfig_WithDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-a")
	t.Setenv("OPENAI_API_KEY", "env-o")

	cfg := Config{}.withDefaults()

	assert.Equal(t, defaultAnthropicBaseURL, cfg.Anthropic.BaseURL)
	assert.Equal(t, defaultOpenAIBaseURL, cfg.OpenAI.BaseURL)
	assert.Equal(t, "env-a", cfg.Anthropic.APIKey)
	assert.Equal(t, "env-o", cfg.OpenAI.APIKey)
}

func TestConfig_WithDefaults_ExplicitWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-o")

	cfg := Config{OpenAI: BackendConfig{APIKey: "explicit"}}.withDefaults()

	assert.Equal(t, "explicit", cfg.OpenAI.APIKey)
}

func TestConfig_Validate(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	assert.Error(t, Config{}.Validate())

	cfg := Config{OpenAI: BackendConfig{APIKey: "k"}}
	assert.NoError(t, cfg.Validate())
}
