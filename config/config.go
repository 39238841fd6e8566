// Package config loads the application configuration shared by every
// pipeline component.
package config

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root of the application configuration file.
type AppConfig struct {
	LLM     LLMSettings     `yaml:"llm"`
	Logging LoggingSettings `yaml:"logging"`
}

// LLMSettings configures the LLM side of a pipeline.
type LLMSettings struct {
	// Prompt is the global system prompt used when a call resolves none of
	// its own.
	Prompt string `yaml:"prompt"`
	// Providers maps a provider name to its wiring-time option defaults.
	Providers map[string]map[string]any `yaml:"providers"`
}

// LoggingSettings configures the process logger.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with every field at its fallback value.
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.applyDefaults()
	return cfg
}

// Load parses the YAML configuration file at path.
func Load(path string) (*AppConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// ProviderDefaults returns a fresh copy of the wiring-time option defaults
// for the named provider. When the file supplies no api_key, the
// <NAME>_API_KEY environment variable fills it in.
func (c *AppConfig) ProviderDefaults(name string) map[string]any {
	defaults := make(map[string]any)
	maps.Copy(defaults, c.LLM.Providers[name])

	if key, _ := defaults["api_key"].(string); key == "" {
		env := strings.ToUpper(name) + "_API_KEY"
		if v := os.Getenv(env); v != "" {
			defaults["api_key"] = v
		}
	}
	return defaults
}
