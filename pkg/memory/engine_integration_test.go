package memory_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/harun/recall/pkg/memory"
	"github.com/harun/recall/pkg/memory/embedding"
	"github.com/harun/recall/pkg/memory/index"
	"github.com/harun/recall/pkg/memory/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimension = 64

func createTestEngine(t *testing.T) (*memory.Service, *store.SQLite, *index.SQLiteVec) {
	t.Helper()
	dir := t.TempDir()
	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)

	st, err := store.Open(store.Config{Path: filepath.Join(dir, "memories.db"), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	idx, err := index.Open(index.Config{
		Path:      filepath.Join(dir, "vectors.db"),
		Dimension: testDimension,
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	svc, err := memory.NewService(memory.ServiceConfig{
		Store:    st,
		Index:    idx,
		Embedder: embedding.NewMockProvider(testDimension),
		Logger:   logger,
	})
	require.NoError(t, err)

	return svc, st, idx
}

func TestEngine_IngestThenRetrieve(t *testing.T) {
	svc, _, idx := createTestEngine(t)
	ctx := context.Background()

	rec, err := svc.Ingest(ctx, "alice", "Mom enjoyed her lunch today")
	require.NoError(t, err)
	require.NotEmpty(t, rec.CorrelationID)

	present, err := idx.Exists(ctx, []string{rec.CorrelationID})
	require.NoError(t, err)
	assert.True(t, present[rec.CorrelationID])

	_, err = svc.Ingest(ctx, "alice", "the weather was rainy yesterday")
	require.NoError(t, err)

	results, err := svc.Retrieve(ctx, "alice", "enjoyed lunch", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Mom enjoyed her lunch today", results[0].Record.RawText)
	assert.Equal(t, rec.CorrelationID, results[0].Record.CorrelationID)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestEngine_OwnerIsolation(t *testing.T) {
	svc, _, _ := createTestEngine(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "alice", "Mom enjoyed her lunch today")
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, "alice", "Sarah visited in the morning")
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, "bob", "the garden needs watering")
	require.NoError(t, err)

	// Bob's query matches Alice's text word-for-word but must only see
	// his own memory.
	results, err := svc.Retrieve(ctx, "bob", "Mom enjoyed her lunch today", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "bob", results[0].Record.OwnerID)
	assert.Equal(t, "the garden needs watering", results[0].Record.RawText)
}

func TestEngine_HistoryNewestFirst(t *testing.T) {
	svc, _, _ := createTestEngine(t)
	ctx := context.Background()

	texts := []string{"first memory", "second memory", "third memory"}
	for _, text := range texts {
		_, err := svc.Ingest(ctx, "alice", text)
		require.NoError(t, err)
	}

	records, err := svc.History(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i := 1; i < len(records); i++ {
		assert.False(t, records[i-1].CreatedAt.Before(records[i].CreatedAt))
	}
}

func TestEngine_ForgetRemovesFromRetrieval(t *testing.T) {
	svc, st, idx := createTestEngine(t)
	ctx := context.Background()

	rec, err := svc.Ingest(ctx, "alice", "Mom enjoyed her lunch today")
	require.NoError(t, err)

	require.NoError(t, svc.Forget(ctx, "alice", rec.ID))

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	vectors, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, vectors)

	results, err := svc.Retrieve(ctx, "alice", "lunch", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
