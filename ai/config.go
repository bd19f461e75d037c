// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

const (
	DefaultHost             = "https://api.openai.com/v1"
	DefaultEmbeddingModel   = "text-embedding-3-small"
	DefaultChatModel        = "gpt-4o"
	DefaultMaxParseAttempts = 3
)

// Config holds configuration for AI service providers.
// It is built once at startup and passed to every service constructor.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// ChatHost is the base URL for the chat completion service used for
	// ranking and explanation.
	ChatHost string

	// APIKey authenticates against both hosts. Empty for local services that
	// don't require authentication.
	APIKey string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-small", "embeddinggemma"
	EmbeddingModel string

	// ChatModel is the model identifier for ranking and explanation.
	// Example: "gpt-4o", "qwen2.5:7b"
	ChatModel string

	// Temperature is the sampling temperature for chat calls.
	// Default: 0
	Temperature float64

	// MaxParseAttempts is how many times a ranker retries when the model
	// answers with unparseable JSON.
	// Default: 3
	MaxParseAttempts int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithChatHost sets the chat service host URL.
func WithChatHost(host string) ConfigOption {
	return func(c *Config) {
		c.ChatHost = host
	}
}

// WithHost sets both embedding and chat hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ChatHost = host
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatModel sets the chat model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithTemperature sets the chat sampling temperature.
func WithTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// WithMaxParseAttempts sets how many times malformed JSON is retried.
func WithMaxParseAttempts(attempts int) ConfigOption {
	return func(c *Config) {
		c.MaxParseAttempts = attempts
	}
}

// DefaultConfig returns a Config targeting the OpenAI API.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:    DefaultHost,
		ChatHost:         DefaultHost,
		EmbeddingModel:   DefaultEmbeddingModel,
		ChatModel:        DefaultChatModel,
		Temperature:      0,
		MaxParseAttempts: DefaultMaxParseAttempts,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example with a local OpenAI-compatible server:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434"),
//	    WithEmbeddingModel("embeddinggemma"),
//	    WithChatModel("qwen2.5:7b"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to hosts if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.ChatHost = normalizeHost(c.ChatHost)
	c.APIKey = strings.TrimSpace(c.APIKey)
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.ChatHost == "" {
		return errors.New("ai config: ChatHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.MaxParseAttempts < 1 {
		return errors.New("ai config: MaxParseAttempts must be at least 1")
	}
	return nil
}

// Token returns the bearer token for API calls. Local OpenAI-compatible
// services accept any value, so "none" stands in for an empty key.
func (c *Config) Token() string {
	if c.APIKey == "" {
		return "none"
	}
	return c.APIKey
}
