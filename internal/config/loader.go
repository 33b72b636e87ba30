package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Path returns the resolved config file path
func (l *Loader) Path() (string, error) {
	if l.configPath != "" {
		return l.configPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".recall", "recall.json"), nil
}

// Load loads the configuration. Precedence, highest first: RECALL_
// environment variables (nested keys joined with underscores, e.g.
// RECALL_STORE_PATH, RECALL_LOGGING_LEVEL), the config file, built-in
// defaults. A missing config file is not an error.
func (l *Loader) Load() (*Config, error) {
	configPath, err := l.Path()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	setDefaults(v, DefaultConfig())

	// Defaults are registered above so viper knows every key; without
	// that, AutomaticEnv cannot see overrides for keys absent from the
	// config file.
	v.SetEnvPrefix("RECALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Env fallbacks for secrets kept out of the config file
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Entities.APIKey == "" {
		cfg.Entities.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("index.path", cfg.Index.Path)
	v.SetDefault("embedding.provider", cfg.Embedding.Provider)
	v.SetDefault("embedding.api_key", cfg.Embedding.APIKey)
	v.SetDefault("embedding.model", cfg.Embedding.Model)
	v.SetDefault("embedding.dimension", cfg.Embedding.Dimension)
	v.SetDefault("entities.provider", cfg.Entities.Provider)
	v.SetDefault("entities.api_key", cfg.Entities.APIKey)
	v.SetDefault("entities.model", cfg.Entities.Model)
	v.SetDefault("retrieval.default_limit", cfg.Retrieval.DefaultLimit)
	v.SetDefault("retrieval.max_limit", cfg.Retrieval.MaxLimit)
	v.SetDefault("repair.enabled", cfg.Repair.Enabled)
	v.SetDefault("repair.schedule", cfg.Repair.Schedule)
	v.SetDefault("repair.batch_size", cfg.Repair.BatchSize)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.pretty", cfg.Logging.Pretty)
}
