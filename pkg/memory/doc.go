// Package memory implements the dual-store semantic memory engine.
//
// Every remembered utterance lives in two places: a durable record store
// (the source of truth) and an approximate nearest-neighbor vector index
// (the similarity view). The two are joined by a locally generated
// correlation id, not by any foreign key either store enforces.
//
// Invariants:
//   - The record store is written before the vector index; a failed index
//     write leaves a degraded but listable record, never a lost one.
//   - An index hit without a matching record (an orphan) is dropped from
//     retrieval results, never surfaced as an error.
//   - Retrieval is owner-scoped at the index query boundary.
//   - Results order by descending score, ties by descending creation time.
//
// Usage:
//
//	svc, _ := memory.NewService(memory.ServiceConfig{
//		Store:    recordStore,
//		Index:    vectorIndex,
//		Embedder: provider,
//	})
//	rec, err := svc.Ingest(ctx, "alice", "Mom enjoyed her lunch today")
//	results, _ := svc.Retrieve(ctx, "alice", "food", 5)
//	items := memory.NewContextAssembler().Assemble(results)
//	_, _, _ = rec, err, items
package memory
