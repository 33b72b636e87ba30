package memory

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrEmptyOwner is returned when the owner id is empty
	ErrEmptyOwner = errors.New("owner id is empty")

	// ErrEmptyText is returned when the text is empty or whitespace-only
	ErrEmptyText = errors.New("text is empty")

	// ErrEmbeddingUnavailable is returned when the embedding provider fails
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrIndexWriteFailed marks a degraded ingestion: the record was
	// persisted but the vector index write failed. The record returned
	// alongside this error is valid.
	ErrIndexWriteFailed = errors.New("vector index write failed")

	// ErrIndexQueryFailed is returned when the vector index cannot be queried
	ErrIndexQueryFailed = errors.New("vector index query failed")

	// ErrNotFound is returned when a record does not exist for the owner
	ErrNotFound = errors.New("memory not found")
)

// IsValidation reports whether err is a caller-input error. Validation
// errors are never retried and imply no writes were attempted.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyOwner) || errors.Is(err, ErrEmptyText)
}

// IsDegraded reports whether err marks a degraded-success ingestion.
func IsDegraded(err error) bool {
	return errors.Is(err, ErrIndexWriteFailed)
}

func wrapErr(sentinel error, err error) error {
	if err == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
