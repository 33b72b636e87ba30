package memory

import (
	"context"
	"time"
)

// Entities holds the structured annotation attached to a memory at
// creation time. Both sets may be empty and are never mutated afterward.
type Entities struct {
	People     []string `json:"people"`
	Activities []string `json:"activities"`
}

// MemoryRecord is the durable record of one utterance.
type MemoryRecord struct {
	ID            int64     `json:"id"`
	OwnerID       string    `json:"owner_id"`
	RawText       string    `json:"raw_text"`
	Entities      Entities  `json:"entities"`
	CorrelationID string    `json:"correlation_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// VectorPayload is the metadata stored alongside a vector entry. It allows
// owner filtering inside the index query; the record store remains the
// source of truth for display.
type VectorPayload struct {
	OwnerID   string    `json:"owner_id"`
	RawText   string    `json:"raw_text"`
	CreatedAt time.Time `json:"created_at"`
	Entities  Entities  `json:"entities"`
}

// VectorHit is one similarity match returned by the index, identified by
// the correlation id shared with its record.
type VectorHit struct {
	CorrelationID string  `json:"correlation_id"`
	Score         float64 `json:"score"`
}

// RetrievalResult pairs a hydrated record with its similarity score in
// [0, 1]. Produced fresh on every query, never cached.
type RetrievalResult struct {
	Record *MemoryRecord `json:"record"`
	Score  float64       `json:"score"`
}

// ContextItem is one entry of the ordered context handed to a downstream
// generator.
type ContextItem struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordStore is the durable, queryable primary store for memory records.
type RecordStore interface {
	// Insert persists a record and returns its store-assigned id.
	Insert(ctx context.Context, rec *MemoryRecord) (int64, error)
	// FindByCorrelationIDs fetches records for the given correlation ids
	// in a single batched lookup. Missing ids are absent from the map.
	FindByCorrelationIDs(ctx context.Context, ids []string) (map[string]*MemoryRecord, error)
	// ListByOwner returns an owner's records newest first.
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*MemoryRecord, error)
	// Delete removes an owner's record and returns its correlation id so
	// the caller can remove the paired vector entry.
	Delete(ctx context.Context, ownerID string, id int64) (string, error)
	// ListBatch pages through all records by ascending id, for
	// reconciliation scans.
	ListBatch(ctx context.Context, afterID int64, limit int) ([]*MemoryRecord, error)
}

// VectorIndex is the approximate nearest-neighbor index for memory
// vectors, keyed by correlation id.
type VectorIndex interface {
	// Upsert stores a vector and its payload under the correlation id.
	Upsert(ctx context.Context, correlationID string, vector []float32, payload VectorPayload) error
	// Query returns up to limit nearest entries for the owner, best
	// first. The owner filter is applied inside the index query.
	Query(ctx context.Context, vector []float32, ownerID string, limit int) ([]VectorHit, error)
	// Delete removes the entry for the correlation id, if present.
	Delete(ctx context.Context, correlationID string) error
	// Exists reports which of the given correlation ids have entries.
	Exists(ctx context.Context, ids []string) (map[string]bool, error)
}

// EntityExtractor derives structured entities from free text. Extraction
// is best effort: ingestion tolerates a failing extractor.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) (Entities, error)
}
