package memory

import (
	"errors"
	"time"

	"github.com/harun/recall/internal/observability"
	"github.com/harun/recall/pkg/memory/embedding"
	"github.com/rs/zerolog"
)

const (
	// DefaultLimit is used when a retrieval limit is not positive.
	DefaultLimit = 5
	// MaxLimit caps retrieval limits to bound index load.
	MaxLimit = 50
)

// Service orchestrates ingestion and retrieval over the two stores. All
// operations are request-scoped; concurrent calls share no mutable state.
type Service struct {
	store     RecordStore
	index     VectorIndex
	embedder  embedding.Provider
	extractor EntityExtractor
	logger    zerolog.Logger

	defaultLimit int
	maxLimit     int

	// seams for deterministic tests
	now   func() time.Time
	newID func() string
}

// ServiceConfig holds service dependencies and tuning.
type ServiceConfig struct {
	Store        RecordStore
	Index        VectorIndex
	Embedder     embedding.Provider
	Extractor    EntityExtractor // optional
	Logger       zerolog.Logger
	DefaultLimit int // defaults to DefaultLimit
	MaxLimit     int // defaults to MaxLimit
}

// NewService creates a memory service.
func NewService(cfg ServiceConfig) (*Service, error) {
	observability.EnsureRegistered()

	if cfg.Store == nil {
		return nil, errors.New("record store is required")
	}
	if cfg.Index == nil {
		return nil, errors.New("vector index is required")
	}
	if cfg.Embedder == nil {
		return nil, errors.New("embedding provider is required")
	}

	s := &Service{
		store:        cfg.Store,
		index:        cfg.Index,
		embedder:     cfg.Embedder,
		extractor:    cfg.Extractor,
		logger:       cfg.Logger,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
		now:          time.Now,
		newID:        NewCorrelationID,
	}
	if s.defaultLimit <= 0 {
		s.defaultLimit = DefaultLimit
	}
	if s.maxLimit <= 0 {
		s.maxLimit = MaxLimit
	}
	return s, nil
}
