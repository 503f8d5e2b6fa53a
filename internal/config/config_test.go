package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5003, cfg.Server.Port)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "json", cfg.Session.Store)
	assert.Equal(t, "conversations.json", cfg.Session.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	// Should return defaults
	assert.Equal(t, 5003, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  host: 127.0.0.1
  port: 8080
openai:
  model: gpt-4o-mini
  apiKey: sk-test
session:
  store: sqlite
  path: data/interviews.db
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "sqlite", cfg.Session.Store)
	assert.Equal(t, "data/interviews.db", cfg.Session.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9001\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "conversations.json", cfg.Session.Path)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{invalid yaml"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "12345")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("INTERVIEWD_LOG_LEVEL", "TRACE")

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 12345, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	assert.Equal(t, "trace", cfg.Logging.Level)
}

func TestLoadExpandsAPIKeyReference(t *testing.T) {
	t.Setenv("MY_SECRET_KEY", "sk-secret")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openai:\n  apiKey: ${MY_SECRET_KEY}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-secret", cfg.OpenAI.APIKey)
}

func TestValidateValid(t *testing.T) {
	cfg := Defaults()
	issues := Validate(&cfg)
	assert.Empty(t, issues)
}

func TestValidateInvalidPort(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = 99999
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "server.port", issues[0].Path)
}

func TestValidateInvalidStore(t *testing.T) {
	cfg := Defaults()
	cfg.Session.Store = "postgres"
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "session.store", issues[0].Path)
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.Level = "loud"
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "logging.level", issues[0].Path)
}
