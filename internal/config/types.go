package config

// Config is the root configuration for interviewd.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	OpenAI  OpenAIConfig  `yaml:"openai,omitempty"`
	Session SessionConfig `yaml:"session,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// OpenAIConfig configures the completion API provider.
type OpenAIConfig struct {
	// APIKey may be a literal key or a ${ENV_VAR} reference.
	APIKey string `yaml:"apiKey,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// SessionConfig controls transcript persistence.
type SessionConfig struct {
	Store string `yaml:"store,omitempty"` // "json" | "sqlite"
	Path  string `yaml:"path,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // trace..fatal, silent
}
