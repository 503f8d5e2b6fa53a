// Package llm defines the completion API boundary.
//
// The service treats the completion API as an opaque text-in/text-out
// function: callers hand over an ordered transcript and get back raw model
// output. All prompt knowledge lives with the callers.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Role constants for messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn submitted to the completion API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the input to a Complete call.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"maxTokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`

	// SchemaName and Schema, when set, constrain the model output to a JSON
	// schema via the provider's structured-output support.
	SchemaName string         `json:"schemaName,omitempty"`
	Schema     map[string]any `json:"schema,omitempty"`
}

// Client is the interface completion providers implement.
type Client interface {
	// Complete sends the transcript and returns the raw model output.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Name returns the provider name (e.g. "openai").
	Name() string
}

// ErrNoCredential is returned when no API key is configured.
var ErrNoCredential = errors.New("llm: no API credential configured")

// ErrorKind distinguishes credential failures from network/server failures.
type ErrorKind string

const (
	KindAuth      ErrorKind = "auth"
	KindTransport ErrorKind = "transport"
)

// APIError is a classified completion API failure.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("llm: %s error (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("llm: %s error: %s", e.Kind, e.Message)
}

// IsAuthError reports whether err is a credential failure.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNoCredential) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}
