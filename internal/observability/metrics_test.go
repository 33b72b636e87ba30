package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	recorder := httptest.NewRecorder()
	Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	return recorder.Body.String()
}

func TestMetricsExposed(t *testing.T) {
	EnsureRegistered()

	RecordIngest(10*time.Millisecond, "ok")
	RecordIngest(10*time.Millisecond, "degraded")
	RecordRetrieve(5*time.Millisecond, "ok")
	RecordOrphanSkipped()
	RecordIndexWriteFailure()
	RecordRepairReindexed(3)
	SetMemoryRecords(42)

	body := scrape(t)

	assert.Contains(t, body, `memory_ingest_total{status="ok"}`)
	assert.Contains(t, body, `memory_ingest_total{status="degraded"}`)
	assert.Contains(t, body, `memory_retrieve_total{status="ok"}`)
	assert.Contains(t, body, "memory_ingest_duration_seconds")
	assert.Contains(t, body, "memory_retrieve_duration_seconds")
	assert.Contains(t, body, "memory_orphans_skipped_total")
	assert.Contains(t, body, "memory_index_write_failures_total")
	assert.Contains(t, body, "memory_repair_reindexed_total")
	assert.Contains(t, body, "memory_records 42")
}

func TestEnsureRegistered_Idempotent(t *testing.T) {
	// Repeated calls must not panic on duplicate registration
	EnsureRegistered()
	EnsureRegistered()
	EnsureRegistered()

	assert.NotNil(t, Handler())
}
