package memory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCorrelationID(t *testing.T) {
	id := NewCorrelationID()
	require.NotEmpty(t, id)

	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	// No shared state: ids never repeat across calls
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		next := NewCorrelationID()
		assert.False(t, seen[next])
		seen[next] = true
	}
}
