// Package store provides the SQLite-backed record store, the durable
// source of truth for memory records.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harun/recall/pkg/memory"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Config holds record store configuration.
type Config struct {
	Path   string
	Logger zerolog.Logger
}

// SQLite implements memory.RecordStore on a WAL-mode SQLite database.
type SQLite struct {
	db     *sql.DB
	logger zerolog.Logger
}

var _ memory.RecordStore = (*SQLite)(nil)

// Open opens (creating if needed) the record store database.
func Open(cfg Config) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, errors.New("record store path is required")
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &SQLite{db: db, logger: cfg.Logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLite) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS memories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id TEXT NOT NULL,
			raw_text TEXT NOT NULL,
			entities TEXT NOT NULL DEFAULT '{}',
			correlation_id TEXT NOT NULL UNIQUE,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_memories_owner_created ON memories(owner_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Insert persists a record and returns its store-assigned id.
func (s *SQLite) Insert(ctx context.Context, rec *memory.MemoryRecord) (int64, error) {
	entitiesJSON, err := json.Marshal(rec.Entities)
	if err != nil {
		return 0, fmt.Errorf("marshal entities: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO memories (owner_id, raw_text, entities, correlation_id, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.OwnerID, rec.RawText, string(entitiesJSON), rec.CorrelationID, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert memory: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, nil
}

// FindByCorrelationIDs fetches records for the given correlation ids in
// one query. Ids with no record are simply absent from the result.
func (s *SQLite) FindByCorrelationIDs(ctx context.Context, ids []string) (map[string]*memory.MemoryRecord, error) {
	records := make(map[string]*memory.MemoryRecord, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, raw_text, entities, correlation_id, created_at FROM memories WHERE correlation_id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("find by correlation ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records[rec.CorrelationID] = rec
	}

	return records, rows.Err()
}

// ListByOwner returns the owner's records newest first.
func (s *SQLite) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*memory.MemoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, raw_text, entities, correlation_id, created_at FROM memories WHERE owner_id = ? ORDER BY created_at DESC, id DESC LIMIT ?",
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListBatch pages through all records by ascending id.
func (s *SQLite) ListBatch(ctx context.Context, afterID int64, limit int) ([]*memory.MemoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, raw_text, entities, correlation_id, created_at FROM memories WHERE id > ? ORDER BY id ASC LIMIT ?",
		afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list batch: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// Delete removes an owner's record and returns its correlation id. The
// delete and the correlation id read are one statement, so a concurrent
// delete of the same id cannot be reported as a second success.
func (s *SQLite) Delete(ctx context.Context, ownerID string, id int64) (string, error) {
	var correlationID string
	err := s.db.QueryRowContext(ctx,
		"DELETE FROM memories WHERE id = ? AND owner_id = ? RETURNING correlation_id",
		id, ownerID,
	).Scan(&correlationID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", memory.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete memory: %w", err)
	}

	return correlationID, nil
}

// Count returns the total number of records.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memories").Scan(&count)
	return count, err
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func collectRecords(rows *sql.Rows) ([]*memory.MemoryRecord, error) {
	var records []*memory.MemoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (*memory.MemoryRecord, error) {
	var (
		rec          memory.MemoryRecord
		entitiesJSON string
		createdAt    int64
	)
	if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.RawText, &entitiesJSON, &rec.CorrelationID, &createdAt); err != nil {
		return nil, fmt.Errorf("scan memory: %w", err)
	}
	if err := json.Unmarshal([]byte(entitiesJSON), &rec.Entities); err != nil {
		return nil, fmt.Errorf("unmarshal entities: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &rec, nil
}
