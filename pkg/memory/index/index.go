// Package index provides the sqlite-vec backed vector index, the
// similarity view over memory vectors. It is a separate database from the
// record store and is allowed to fail independently of it.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"github.com/harun/recall/pkg/memory"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

func init() {
	// Auto-register sqlite-vec extension
	sqlite_vec.Auto()
}

// ErrDimensionMismatch is returned when the configured embedding
// dimension does not match the dimension the index was created with.
// This is a deployment configuration error, not a runtime one.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Config holds vector index configuration.
type Config struct {
	Path      string
	Dimension int
	Logger    zerolog.Logger
}

// SQLiteVec implements memory.VectorIndex on a vec0 virtual table with
// cosine distance. The owner id is a partition key, so tenant filtering
// happens inside the KNN query rather than over an unscoped result.
type SQLiteVec struct {
	db        *sql.DB
	dimension int
	logger    zerolog.Logger
}

var _ memory.VectorIndex = (*SQLiteVec)(nil)

// Open opens (creating if needed) the vector index database and validates
// that the stored dimension matches the configured one.
func Open(cfg Config) (*SQLiteVec, error) {
	if cfg.Path == "" {
		return nil, errors.New("vector index path is required")
	}
	if cfg.Dimension <= 0 {
		return nil, errors.New("vector dimension must be positive")
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	x := &SQLiteVec{db: db, dimension: cfg.Dimension, logger: cfg.Logger}
	if err := x.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return x, nil
}

func (x *SQLiteVec) initSchema() error {
	if _, err := x.db.Exec(`
		CREATE TABLE IF NOT EXISTS index_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("failed to create meta table: %w", err)
	}

	// The dimension is baked into the vec0 table; reject a mismatched
	// configuration at startup instead of failing on the first write.
	var stored string
	err := x.db.QueryRow("SELECT value FROM index_meta WHERE key = 'dimension'").Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := x.db.Exec(
			"INSERT INTO index_meta (key, value) VALUES ('dimension', ?), ('metric', 'cosine')",
			fmt.Sprintf("%d", x.dimension),
		); err != nil {
			return fmt.Errorf("failed to write meta: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to read meta: %w", err)
	default:
		if stored != fmt.Sprintf("%d", x.dimension) {
			return fmt.Errorf("%w: index has %s, provider emits %d", ErrDimensionMismatch, stored, x.dimension)
		}
	}

	vectorSchema := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS memory_vectors USING vec0(
			correlation_id TEXT PRIMARY KEY,
			owner_id TEXT PARTITION KEY,
			embedding FLOAT[%d] distance_metric=cosine,
			+raw_text TEXT,
			+created_at INTEGER,
			+entities TEXT
		);
	`, x.dimension)

	if _, err := x.db.Exec(vectorSchema); err != nil {
		return fmt.Errorf("failed to create vector table: %w", err)
	}

	return nil
}

// Upsert stores a vector and its payload under the correlation id.
func (x *SQLiteVec) Upsert(ctx context.Context, correlationID string, vector []float32, payload memory.VectorPayload) error {
	if len(vector) != x.dimension {
		return fmt.Errorf("%w: got %d, index has %d", ErrDimensionMismatch, len(vector), x.dimension)
	}

	vectorJSON, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("marshal vector: %w", err)
	}
	entitiesJSON, err := json.Marshal(payload.Entities)
	if err != nil {
		return fmt.Errorf("marshal entities: %w", err)
	}

	_, err = x.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO memory_vectors (correlation_id, owner_id, embedding, raw_text, created_at, entities) VALUES (?, ?, ?, ?, ?, ?)",
		correlationID, payload.OwnerID, string(vectorJSON), payload.RawText, payload.CreatedAt.UnixMilli(), string(entitiesJSON),
	)
	if err != nil {
		return fmt.Errorf("upsert vector: %w", err)
	}

	return nil
}

// Query returns up to limit nearest entries for the owner, best first.
// Cosine distance in [0, 2] maps to a score in [0, 1].
func (x *SQLiteVec) Query(ctx context.Context, vector []float32, ownerID string, limit int) ([]memory.VectorHit, error) {
	if len(vector) != x.dimension {
		return nil, fmt.Errorf("%w: got %d, index has %d", ErrDimensionMismatch, len(vector), x.dimension)
	}

	vectorJSON, err := json.Marshal(vector)
	if err != nil {
		return nil, fmt.Errorf("marshal vector: %w", err)
	}

	rows, err := x.db.QueryContext(ctx, `
		SELECT correlation_id, distance
		FROM memory_vectors
		WHERE embedding MATCH ? AND k = ? AND owner_id = ?
		ORDER BY distance
	`, string(vectorJSON), limit, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}
	defer rows.Close()

	var hits []memory.VectorHit
	for rows.Next() {
		var (
			correlationID string
			distance      float64
		)
		if err := rows.Scan(&correlationID, &distance); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, memory.VectorHit{
			CorrelationID: correlationID,
			Score:         distanceToScore(distance),
		})
	}

	return hits, rows.Err()
}

// Delete removes the entry for the correlation id, if present.
func (x *SQLiteVec) Delete(ctx context.Context, correlationID string) error {
	if _, err := x.db.ExecContext(ctx, "DELETE FROM memory_vectors WHERE correlation_id = ?", correlationID); err != nil {
		return fmt.Errorf("delete vector: %w", err)
	}
	return nil
}

// Exists reports which of the given correlation ids have entries.
func (x *SQLiteVec) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	present := make(map[string]bool, len(ids))
	for _, id := range ids {
		var found string
		err := x.db.QueryRowContext(ctx, "SELECT correlation_id FROM memory_vectors WHERE correlation_id = ?", id).Scan(&found)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			continue
		case err != nil:
			return nil, fmt.Errorf("check vector: %w", err)
		default:
			present[id] = true
		}
	}
	return present, nil
}

// Count returns the total number of vector entries.
func (x *SQLiteVec) Count(ctx context.Context) (int, error) {
	var count int
	err := x.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memory_vectors").Scan(&count)
	return count, err
}

// Dimension returns the vector length the index was created with.
func (x *SQLiteVec) Dimension() int {
	return x.dimension
}

// Close closes the underlying database.
func (x *SQLiteVec) Close() error {
	return x.db.Close()
}

// distanceToScore converts a cosine distance in [0, 2] to a similarity
// score in [0, 1], clamping float noise at the edges.
func distanceToScore(distance float64) float64 {
	score := 1 - distance/2
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
