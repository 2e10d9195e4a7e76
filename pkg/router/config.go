package router

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default API base URLs.
const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultOpenAIBaseURL    = "https://api.openai.com"
)

// BackendConfig holds the connection settings for one backend API.
type BackendConfig struct {
	BaseURL string            `yaml:"base_url"`
	APIKey  string            `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Headers map[string]string `yaml:"headers"`
}

// Config holds the settings for both backends.
type Config struct {
	Anthropic BackendConfig `yaml:"anthropic"`
	OpenAI    BackendConfig `yaml:"openai"`
}

// LoadConfig reads a YAML file and returns a Config. Environment variables
// referenced as ${VAR} or $VAR in the YAML are expanded before parsing, so
// API keys can live in the environment (e.g. loaded from a .env file) rather
// than committed in the config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("router: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("router: parse config: %w", err)
	}

	return cfg, nil
}

// withDefaults fills unset fields: base URLs from the public endpoints, API
// keys from the conventional environment variables.
func (c Config) withDefaults() Config {
	if c.Anthropic.BaseURL == "" {
		c.Anthropic.BaseURL = defaultAnthropicBaseURL
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenAIBaseURL
	}

	if c.Anthropic.APIKey == "" {
		c.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return c
}

// Validate checks that at least one backend has credentials. Per-query auth
// failures are left to the backends themselves.
func (c Config) Validate() error {
	cfg := c.withDefaults()

	if cfg.Anthropic.APIKey == "" && cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("router: config: no API key configured for any backend")
	}

	return nil
}
