// Package entities extracts named people and activities from free text.
//
// Extraction is a capability the memory engine consumes through the
// memory.EntityExtractor interface; it annotates records at creation time
// and is always best effort. Two extractors are provided: a Claude-backed
// one whose JSON output is schema-validated, and a heuristic one used as
// its fallback and as the offline default.
package entities
