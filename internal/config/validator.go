package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the whole configuration for deployment errors. These
// are caught at startup; none of them is a runtime condition.
func (v *Validator) Validate(cfg *Config) error {
	if cfg.Store.Path == "" {
		return fmt.Errorf("store.path cannot be empty")
	}
	if cfg.Index.Path == "" {
		return fmt.Errorf("index.path cannot be empty")
	}

	if err := v.validateEmbedding(cfg.Embedding); err != nil {
		return err
	}
	if err := v.validateEntities(cfg.Entities); err != nil {
		return err
	}

	if cfg.Retrieval.DefaultLimit <= 0 {
		return fmt.Errorf("retrieval.default_limit must be positive")
	}
	if cfg.Retrieval.MaxLimit < cfg.Retrieval.DefaultLimit {
		return fmt.Errorf("retrieval.max_limit must be >= retrieval.default_limit")
	}

	if cfg.Repair.Enabled {
		if err := v.ValidateSchedule(cfg.Repair.Schedule); err != nil {
			return err
		}
		if cfg.Repair.BatchSize <= 0 {
			return fmt.Errorf("repair.batch_size must be positive")
		}
	}

	return nil
}

func (v *Validator) validateEmbedding(cfg EmbeddingConfig) error {
	switch cfg.Provider {
	case "openai":
		return v.ValidateAPIKey(cfg.APIKey, "openai")
	case "mock":
		if cfg.Dimension <= 0 {
			return fmt.Errorf("embedding.dimension must be positive for the mock provider")
		}
		return nil
	default:
		return fmt.Errorf("unknown embedding provider %q (expected openai or mock)", cfg.Provider)
	}
}

func (v *Validator) validateEntities(cfg EntitiesConfig) error {
	switch cfg.Provider {
	case "claude":
		return v.ValidateAPIKey(cfg.APIKey, "anthropic")
	case "heuristic", "off":
		return nil
	default:
		return fmt.Errorf("unknown entities provider %q (expected claude, heuristic or off)", cfg.Provider)
	}
}

// ValidateAPIKey validates an API key format
func (v *Validator) ValidateAPIKey(key string, provider string) error {
	if key == "" {
		return fmt.Errorf("%s API key cannot be empty", provider)
	}

	switch provider {
	case "anthropic":
		if !strings.HasPrefix(key, "sk-ant-") {
			return fmt.Errorf("invalid Anthropic API key format (should start with sk-ant-)")
		}
	case "openai":
		if !strings.HasPrefix(key, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format (should start with sk-)")
		}
	}

	return nil
}

// ValidateSchedule validates a cron schedule expression
func (v *Validator) ValidateSchedule(expr string) error {
	if expr == "" {
		return fmt.Errorf("repair.schedule cannot be empty")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("invalid repair.schedule: %w", err)
	}

	return nil
}
