// Package repair reconciles the two stores after degraded ingestions. A
// record whose vector entry is missing is listable but not searchable;
// the reindexer finds such records and re-embeds them. It is a
// collaborator of the memory engine, never called from the core ingest or
// retrieve paths, and every pass is idempotent.
package repair

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harun/recall/internal/observability"
	"github.com/harun/recall/pkg/memory"
	"github.com/harun/recall/pkg/memory/embedding"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Config holds reindexer configuration.
type Config struct {
	Store     memory.RecordStore
	Index     memory.VectorIndex
	Embedder  embedding.Provider
	Logger    zerolog.Logger
	BatchSize int // defaults to 100
}

// Reindexer restores missing vector entries for persisted records.
type Reindexer struct {
	store     memory.RecordStore
	index     memory.VectorIndex
	embedder  embedding.Provider
	logger    zerolog.Logger
	batchSize int

	mu   sync.Mutex
	cron *cron.Cron
}

// NewReindexer creates a reindexer.
func NewReindexer(cfg Config) (*Reindexer, error) {
	if cfg.Store == nil {
		return nil, errors.New("record store is required")
	}
	if cfg.Index == nil {
		return nil, errors.New("vector index is required")
	}
	if cfg.Embedder == nil {
		return nil, errors.New("embedding provider is required")
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &Reindexer{
		store:     cfg.Store,
		index:     cfg.Index,
		embedder:  cfg.Embedder,
		logger:    cfg.Logger,
		batchSize: batchSize,
	}, nil
}

// RunOnce scans all records in batches and re-indexes those whose vector
// entry is missing. It returns the number of records re-indexed. Records
// that fail to embed are skipped and retried on the next pass.
func (r *Reindexer) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()
	reindexed := 0
	afterID := int64(0)

	for {
		batch, err := r.store.ListBatch(ctx, afterID, r.batchSize)
		if err != nil {
			return reindexed, fmt.Errorf("list records: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		afterID = batch[len(batch)-1].ID

		ids := make([]string, len(batch))
		for i, rec := range batch {
			ids[i] = rec.CorrelationID
		}

		present, err := r.index.Exists(ctx, ids)
		if err != nil {
			return reindexed, fmt.Errorf("check index: %w", err)
		}

		for _, rec := range batch {
			if present[rec.CorrelationID] {
				continue
			}
			if err := r.reindex(ctx, rec); err != nil {
				r.logger.Warn().
					Err(err).
					Int64("memory_id", rec.ID).
					Msg("Reindex failed, will retry next pass")
				continue
			}
			reindexed++
		}
	}

	if reindexed > 0 {
		observability.RecordRepairReindexed(reindexed)
	}
	r.logger.Info().
		Int("reindexed", reindexed).
		Dur("duration", time.Since(start)).
		Msg("Repair pass completed")

	return reindexed, nil
}

func (r *Reindexer) reindex(ctx context.Context, rec *memory.MemoryRecord) error {
	vector, err := r.embedder.Embed(ctx, rec.RawText)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	payload := memory.VectorPayload{
		OwnerID:   rec.OwnerID,
		RawText:   rec.RawText,
		CreatedAt: rec.CreatedAt,
		Entities:  rec.Entities,
	}
	if err := r.index.Upsert(ctx, rec.CorrelationID, vector, payload); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	return nil
}

// Schedule starts periodic repair passes on the given cron schedule
// (standard five-field expressions or @every syntax).
func (r *Reindexer) Schedule(spec string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		return errors.New("repair schedule already running")
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := r.RunOnce(context.Background()); err != nil {
			r.logger.Warn().Err(err).Msg("Scheduled repair pass failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid repair schedule: %w", err)
	}

	c.Start()
	r.cron = c

	r.logger.Info().Str("schedule", spec).Msg("Repair job scheduled")
	return nil
}

// Stop halts scheduled repair passes, waiting for a running pass.
func (r *Reindexer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		<-r.cron.Stop().Done()
		r.cron = nil
	}
}
