package config

import (
	"os"
	"path/filepath"
)

// Config represents the main recall configuration
type Config struct {
	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`

	// Record store
	Store StoreConfig `json:"store" mapstructure:"store"`

	// Vector index
	Index IndexConfig `json:"index" mapstructure:"index"`

	// Embedding provider
	Embedding EmbeddingConfig `json:"embedding" mapstructure:"embedding"`

	// Entity extraction
	Entities EntitiesConfig `json:"entities" mapstructure:"entities"`

	// Retrieval tuning
	Retrieval RetrievalConfig `json:"retrieval" mapstructure:"retrieval"`

	// Repair job
	Repair RepairConfig `json:"repair" mapstructure:"repair"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// StoreConfig holds record store configuration
type StoreConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// IndexConfig holds vector index configuration
type IndexConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// EmbeddingConfig holds embedding provider configuration
type EmbeddingConfig struct {
	Provider  string `json:"provider" mapstructure:"provider"` // openai, mock
	APIKey    string `json:"api_key" mapstructure:"api_key"`
	Model     string `json:"model" mapstructure:"model"`
	Dimension int    `json:"dimension" mapstructure:"dimension"` // mock provider only
}

// EntitiesConfig holds entity extraction configuration
type EntitiesConfig struct {
	Provider string `json:"provider" mapstructure:"provider"` // claude, heuristic, off
	APIKey   string `json:"api_key" mapstructure:"api_key"`
	Model    string `json:"model" mapstructure:"model"`
}

// RetrievalConfig holds retrieval tuning
type RetrievalConfig struct {
	DefaultLimit int `json:"default_limit" mapstructure:"default_limit"`
	MaxLimit     int `json:"max_limit" mapstructure:"max_limit"`
}

// RepairConfig holds repair job configuration
type RepairConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Schedule  string `json:"schedule" mapstructure:"schedule"` // cron expression or @every syntax
	BatchSize int    `json:"batch_size" mapstructure:"batch_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dataDir := defaultDataDir()
	return &Config{
		DataDir: dataDir,
		Store: StoreConfig{
			Path: filepath.Join(dataDir, "memories.db"),
		},
		Index: IndexConfig{
			Path: filepath.Join(dataDir, "vectors.db"),
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			Dimension: 384,
		},
		Entities: EntitiesConfig{
			Provider: "heuristic",
			Model:    "claude-sonnet-4-20250514",
		},
		Retrieval: RetrievalConfig{
			DefaultLimit: 5,
			MaxLimit:     50,
		},
		Repair: RepairConfig{
			Enabled:   false,
			Schedule:  "@every 10m",
			BatchSize: 100,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/recall"
	}
	return filepath.Join(home, ".recall")
}
