package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		EmbeddingHost:    "http://localhost:11434",
		ChatHost:         "http://localhost:11434",
		EmbeddingModel:   "embeddinggemma",
		ChatModel:        "qwen2.5:7b",
		MaxParseAttempts: 3,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	assert.Equal(t, "https://api.openai.com/v1", cfg.ChatHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
	assert.Zero(t, cfg.Temperature)
	assert.Equal(t, 3, cfg.MaxParseAttempts)
	assert.Empty(t, cfg.APIKey)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.ChatHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithChatHost("http://chat:9090/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://chat:9090/v1", cfg.ChatHost)
	})

	t.Run("with every option", func(t *testing.T) {
		cfg := NewConfig(
			WithAPIKey("sk-test"),
			WithEmbeddingModel("text-embedding-3-large"),
			WithChatModel("gpt-4o-mini"),
			WithTemperature(0.2),
			WithMaxParseAttempts(5),
		)

		assert.Equal(t, "sk-test", cfg.APIKey)
		assert.Equal(t, "text-embedding-3-large", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
		assert.Equal(t, 0.2, cfg.Temperature)
		assert.Equal(t, 5, cfg.MaxParseAttempts)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name          string
		embeddingHost string
		chatHost      string
		wantEmbedding string
		wantChat      string
	}{
		{"already has /v1", "http://localhost:11434/v1", "http://localhost:11434/v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"missing /v1", "http://localhost:11434", "http://localhost:11434", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"has trailing slash", "http://localhost:11434/", "http://localhost:11434/", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"empty hosts", "", "", "", ""},
		{"different formats", "http://embed:8080", "http://chat:9090/v1", "http://embed:8080/v1", "http://chat:9090/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.embeddingHost, ChatHost: tt.chatHost}
			cfg.Normalize()

			assert.Equal(t, tt.wantEmbedding, cfg.EmbeddingHost)
			assert.Equal(t, tt.wantChat, cfg.ChatHost)
		})
	}
}

func TestConfigNormalize_TrimsAPIKey(t *testing.T) {
	cfg := &Config{APIKey: "  sk-test\n"}
	cfg.Normalize()
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := validConfig()
		require.NoError(t, cfg.Validate())

		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }, "EmbeddingHost"},
		{"missing chat host", func(c *Config) { c.ChatHost = "" }, "ChatHost"},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }, "EmbeddingModel"},
		{"missing chat model", func(c *Config) { c.ChatModel = "" }, "ChatModel"},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }, "Temperature"},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, "Temperature"},
		{"no parse attempts", func(c *Config) { c.MaxParseAttempts = 0 }, "MaxParseAttempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigToken(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "none", cfg.Token())

	cfg.APIKey = "sk-test"
	assert.Equal(t, "sk-test", cfg.Token())
}

func TestConfigValidate_Integration(t *testing.T) {
	require.NoError(t, NewConfig().Validate())
	require.NoError(t, DefaultConfig().Validate())
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "industry", SubjectIndustry.String())
	assert.Equal(t, "past_issue", SubjectPastIssue.String())
	assert.Equal(t, "industry", SubjectIndustry.NameField())
	assert.Equal(t, "issue", SubjectPastIssue.NameField())
	assert.Equal(t, 100, SubjectIndustry.PreviewLength())
	assert.Equal(t, 200, SubjectPastIssue.PreviewLength())
	assert.False(t, Subject(9).Valid())

	subject, err := ParseSubject("past_issue")
	require.NoError(t, err)
	assert.Equal(t, SubjectPastIssue, subject)

	_, err = ParseSubject("stocks")
	assert.ErrorIs(t, err, ErrUnknownSubject)
}
