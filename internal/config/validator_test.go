package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.Embedding = EmbeddingConfig{Provider: "mock", Dimension: 64}
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, NewValidator().Validate(validTestConfig()))
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty store path", func(c *Config) { c.Store.Path = "" }},
		{"empty index path", func(c *Config) { c.Index.Path = "" }},
		{"unknown embedding provider", func(c *Config) { c.Embedding.Provider = "cohere" }},
		{"openai without key", func(c *Config) { c.Embedding = EmbeddingConfig{Provider: "openai"} }},
		{"openai bad key prefix", func(c *Config) {
			c.Embedding = EmbeddingConfig{Provider: "openai", APIKey: "not-a-key"}
		}},
		{"mock without dimension", func(c *Config) { c.Embedding = EmbeddingConfig{Provider: "mock"} }},
		{"unknown entities provider", func(c *Config) { c.Entities.Provider = "gpt" }},
		{"claude without key", func(c *Config) { c.Entities = EntitiesConfig{Provider: "claude"} }},
		{"claude bad key prefix", func(c *Config) {
			c.Entities = EntitiesConfig{Provider: "claude", APIKey: "sk-wrong"}
		}},
		{"zero default limit", func(c *Config) { c.Retrieval.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.Retrieval.MaxLimit = c.Retrieval.DefaultLimit - 1 }},
		{"repair bad schedule", func(c *Config) {
			c.Repair.Enabled = true
			c.Repair.Schedule = "whenever"
		}},
		{"repair zero batch", func(c *Config) {
			c.Repair.Enabled = true
			c.Repair.BatchSize = 0
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(cfg)
			assert.Error(t, NewValidator().Validate(cfg))
		})
	}
}

func TestValidate_RepairIgnoredWhenDisabled(t *testing.T) {
	cfg := validTestConfig()
	cfg.Repair.Enabled = false
	cfg.Repair.Schedule = "whenever"
	cfg.Repair.BatchSize = 0

	assert.NoError(t, NewValidator().Validate(cfg))
}

func TestValidate_Providers(t *testing.T) {
	cfg := validTestConfig()
	cfg.Embedding = EmbeddingConfig{Provider: "openai", APIKey: "sk-test", Model: "text-embedding-3-small"}
	cfg.Entities = EntitiesConfig{Provider: "claude", APIKey: "sk-ant-test", Model: "claude-sonnet-4-20250514"}
	assert.NoError(t, NewValidator().Validate(cfg))

	cfg.Entities.Provider = "off"
	assert.NoError(t, NewValidator().Validate(cfg))
}

func TestValidateSchedule(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateSchedule("@every 10m"))
	assert.NoError(t, v.ValidateSchedule("*/5 * * * *"))
	assert.NoError(t, v.ValidateSchedule("@hourly"))
	assert.Error(t, v.ValidateSchedule(""))
	assert.Error(t, v.ValidateSchedule("every now and then"))
}
