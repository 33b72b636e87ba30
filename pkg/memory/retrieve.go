package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/harun/recall/internal/observability"
	"github.com/harun/recall/internal/tracing"
)

// Retrieve returns the owner's memories most similar to the query text,
// best first. Hits are hydrated from the record store in one batched
// lookup; index hits without a matching record (orphans from degraded
// ingestions) are dropped silently, so the result may be shorter than the
// raw hit count. Ordering is deterministic: descending score, ties broken
// by descending creation time.
func (s *Service) Retrieve(ctx context.Context, ownerID, queryText string, limit int) ([]RetrievalResult, error) {
	logger := tracing.LoggerFromContext(ctx, s.logger)
	start := time.Now()

	if strings.TrimSpace(ownerID) == "" {
		observability.RecordRetrieve(time.Since(start), "error")
		return nil, ErrEmptyOwner
	}
	if strings.TrimSpace(queryText) == "" {
		observability.RecordRetrieve(time.Since(start), "error")
		return nil, ErrEmptyText
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	vector, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		observability.RecordRetrieve(time.Since(start), "error")
		return nil, wrapErr(ErrEmbeddingUnavailable, err)
	}

	// Owner scoping happens inside the index query, never by post-filtering
	// an unscoped result.
	hits, err := s.index.Query(ctx, vector, ownerID, limit)
	if err != nil {
		observability.RecordRetrieve(time.Since(start), "error")
		return nil, wrapErr(ErrIndexQueryFailed, err)
	}
	if len(hits) == 0 {
		observability.RecordRetrieve(time.Since(start), "ok")
		return []RetrievalResult{}, nil
	}

	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.CorrelationID
	}

	records, err := s.store.FindByCorrelationIDs(ctx, ids)
	if err != nil {
		observability.RecordRetrieve(time.Since(start), "error")
		return nil, err
	}

	results := make([]RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		rec, ok := records[hit.CorrelationID]
		if !ok {
			// Orphan: a vector entry whose record is gone or was never
			// visible. Retrieval stays available; the hit is dropped.
			logger.Debug().
				Str("correlation_id", hit.CorrelationID).
				Msg("Dropping orphaned index hit")
			observability.RecordOrphanSkipped()
			continue
		}
		results = append(results, RetrievalResult{Record: rec, Score: hit.Score})
	}

	sortResults(results)

	logger.Debug().
		Str("owner_id", ownerID).
		Int("hits", len(hits)).
		Int("results", len(results)).
		Msg("Retrieval completed")
	observability.RecordRetrieve(time.Since(start), "ok")

	return results, nil
}

// sortResults orders by descending score; equal scores order by
// descending creation time. The index does not guarantee a deterministic
// tie order on its own, so this keeps the output reproducible.
func sortResults(results []RetrievalResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Record.CreatedAt.After(results[j].Record.CreatedAt)
	})
}
