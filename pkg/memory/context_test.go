package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_PreservesOrder(t *testing.T) {
	now := time.Now().UTC()
	results := []RetrievalResult{
		{Record: &MemoryRecord{RawText: "first", CreatedAt: now}, Score: 0.9},
		{Record: &MemoryRecord{RawText: "second", CreatedAt: now.Add(-time.Hour)}, Score: 0.7},
		{Record: &MemoryRecord{RawText: "third", CreatedAt: now.Add(-2 * time.Hour)}, Score: 0.2},
	}

	items := NewContextAssembler().Assemble(results)

	require.Len(t, items, 3)
	assert.Equal(t, "first", items[0].Text)
	assert.Equal(t, "second", items[1].Text)
	assert.Equal(t, "third", items[2].Text)
	assert.Equal(t, now, items[0].CreatedAt)
}

func TestAssemble_Empty(t *testing.T) {
	items := NewContextAssembler().Assemble(nil)
	assert.Empty(t, items)
}

func TestAssemble_SkipsNilRecords(t *testing.T) {
	results := []RetrievalResult{
		{Record: nil, Score: 0.9},
		{Record: &MemoryRecord{RawText: "kept"}, Score: 0.5},
	}

	items := NewContextAssembler().Assemble(results)
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].Text)
}
