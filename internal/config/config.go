// Package config holds the recognized configuration surface of the SDK and
// its YAML file loader.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration surface. Field defaults come from
// Default; a YAML file overlays only the fields it sets.
type Config struct {
	// Collector endpoint and auth.
	ServerURL string `yaml:"server_url"`
	APIKey    string `yaml:"api_key"`

	// Project groups runs in the collector.
	Project string `yaml:"project"`

	// MaxLLMCalls is the per-run action budget.
	MaxLLMCalls int `yaml:"max_llm_calls"`

	// MonitorHTTP enables a2a_http_call telemetry on the wrapped transport.
	MonitorHTTP bool `yaml:"monitor_http"`

	// BlockOnViolation aborts egress calls on a policy violation. When
	// false the violation is recorded but the call proceeds.
	BlockOnViolation bool `yaml:"block_on_violation"`

	// Forbidden adds substrings to the deny-list. DenylistPath points at a
	// YAML pattern file that is also hot-reloaded when watched.
	Forbidden    []string `yaml:"forbidden"`
	DenylistPath string   `yaml:"denylist_path"`

	// Semantic policy stage.
	EnableLLMPolicy       bool   `yaml:"enable_llm_policy"`
	LLMPolicyModel        string `yaml:"llm_policy_model"`
	LLMPolicyAfterKeyword bool   `yaml:"llm_policy_after_keyword"`
	ClassifierURL         string `yaml:"classifier_url"`
	ClassifierAPIKey      string `yaml:"classifier_api_key"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		ServerURL:        "http://localhost:8000",
		Project:          "default",
		MaxLLMCalls:      5,
		MonitorHTTP:      true,
		BlockOnViolation: true,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize trims the server URL and clamps the budget floor.
func (c *Config) Normalize() {
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	if c.Project == "" {
		c.Project = "default"
	}
	if c.MaxLLMCalls < 1 {
		c.MaxLLMCalls = 1
	}
}
