package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harun/recall/internal/observability"
	"github.com/harun/recall/internal/tracing"
)

// Ingest records a new memory for the owner. It embeds the text, derives
// a correlation id, writes the record store first and the vector index
// second. A failed embedding aborts before any write. A failed index
// write after a successful record write returns the created record
// together with an error matching ErrIndexWriteFailed: the memory exists
// and is listable, but is not similarity-searchable until a repair pass
// re-indexes it. The record store write is never rolled back.
func (s *Service) Ingest(ctx context.Context, ownerID, rawText string) (*MemoryRecord, error) {
	logger := tracing.LoggerFromContext(ctx, s.logger)
	start := time.Now()

	if strings.TrimSpace(ownerID) == "" {
		observability.RecordIngest(time.Since(start), "error")
		return nil, ErrEmptyOwner
	}
	if strings.TrimSpace(rawText) == "" {
		observability.RecordIngest(time.Since(start), "error")
		return nil, ErrEmptyText
	}

	// Embed before any write: a provider failure must leave no partial state.
	vector, err := s.embedder.Embed(ctx, rawText)
	if err != nil {
		observability.RecordIngest(time.Since(start), "error")
		return nil, wrapErr(ErrEmbeddingUnavailable, err)
	}

	entities := s.extractEntities(ctx, rawText)

	rec := &MemoryRecord{
		OwnerID:       ownerID,
		RawText:       rawText,
		Entities:      entities,
		CorrelationID: s.newID(),
		CreatedAt:     s.now().UTC(),
	}

	// Record store first. Losing similarity-searchability is recoverable;
	// losing the canonical text is not.
	id, err := s.store.Insert(ctx, rec)
	if err != nil {
		observability.RecordIngest(time.Since(start), "error")
		return nil, fmt.Errorf("insert record: %w", err)
	}
	rec.ID = id

	payload := VectorPayload{
		OwnerID:   rec.OwnerID,
		RawText:   rec.RawText,
		CreatedAt: rec.CreatedAt,
		Entities:  rec.Entities,
	}
	if err := s.index.Upsert(ctx, rec.CorrelationID, vector, payload); err != nil {
		logger.Warn().
			Err(err).
			Int64("memory_id", rec.ID).
			Str("correlation_id", rec.CorrelationID).
			Msg("Index write failed after record write, memory not searchable until repaired")
		observability.RecordIndexWriteFailure()
		observability.RecordIngest(time.Since(start), "degraded")
		return rec, wrapErr(ErrIndexWriteFailed, err)
	}

	logger.Debug().
		Int64("memory_id", rec.ID).
		Str("owner_id", rec.OwnerID).
		Str("correlation_id", rec.CorrelationID).
		Msg("Memory ingested")
	observability.RecordIngest(time.Since(start), "ok")

	return rec, nil
}

// extractEntities runs the optional extractor. Extraction is an
// annotation, not a precondition: failures degrade to empty sets.
func (s *Service) extractEntities(ctx context.Context, text string) Entities {
	if s.extractor == nil {
		return Entities{}
	}

	entities, err := s.extractor.Extract(ctx, text)
	if err != nil {
		logger := tracing.LoggerFromContext(ctx, s.logger)
		logger.Warn().
			Err(err).
			Msg("Entity extraction failed, storing without entities")
		return Entities{}
	}
	return entities
}
