// Package config loads and validates the service configuration: YAML file,
// environment overrides, defaults.
package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5003,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o",
		},
		Session: SessionConfig{
			Store: "json",
			Path:  "conversations.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
