package cli

import (
	"fmt"

	"github.com/harun/recall/internal/config"
	"github.com/harun/recall/internal/logger"
	"github.com/harun/recall/pkg/entities"
	"github.com/harun/recall/pkg/memory"
	"github.com/harun/recall/pkg/memory/embedding"
	"github.com/harun/recall/pkg/memory/index"
	"github.com/harun/recall/pkg/memory/store"
	"github.com/rs/zerolog"
)

// app wires configuration into a ready-to-use memory service for one
// command invocation.
type app struct {
	cfg     *config.Config
	logger  *logger.Logger
	store   *store.SQLite
	index   *index.SQLiteVec
	service *memory.Service
}

func buildApp() (*app, error) {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return nil, err
	}
	zl := lg.GetZerolog()

	embedder := buildEmbedder(cfg)

	st, err := store.Open(store.Config{Path: cfg.Store.Path, Logger: zl})
	if err != nil {
		lg.Close()
		return nil, fmt.Errorf("open record store: %w", err)
	}

	// The index dimension must match what the provider emits; Open fails
	// fast on a mismatch instead of corrupting the first write.
	idx, err := index.Open(index.Config{
		Path:      cfg.Index.Path,
		Dimension: embedder.Dimension(),
		Logger:    zl,
	})
	if err != nil {
		st.Close()
		lg.Close()
		return nil, fmt.Errorf("open vector index: %w", err)
	}

	svc, err := memory.NewService(memory.ServiceConfig{
		Store:        st,
		Index:        idx,
		Embedder:     embedder,
		Extractor:    buildExtractor(cfg, zl),
		Logger:       zl,
		DefaultLimit: cfg.Retrieval.DefaultLimit,
		MaxLimit:     cfg.Retrieval.MaxLimit,
	})
	if err != nil {
		idx.Close()
		st.Close()
		lg.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  lg,
		store:   st,
		index:   idx,
		service: svc,
	}, nil
}

func (a *app) Close() {
	a.index.Close()
	a.store.Close()
	a.logger.Close()
}

func buildEmbedder(cfg *config.Config) embedding.Provider {
	switch cfg.Embedding.Provider {
	case "mock":
		return embedding.NewMockProvider(cfg.Embedding.Dimension)
	default:
		return embedding.NewOpenAIProvider(cfg.Embedding.APIKey, cfg.Embedding.Model)
	}
}

func buildExtractor(cfg *config.Config, zl zerolog.Logger) memory.EntityExtractor {
	switch cfg.Entities.Provider {
	case "claude":
		return entities.NewClaudeExtractor(entities.ClaudeConfig{
			APIKey: cfg.Entities.APIKey,
			Model:  cfg.Entities.Model,
			Logger: zl,
		})
	case "off":
		return nil
	default:
		return entities.NewHeuristicExtractor()
	}
}
