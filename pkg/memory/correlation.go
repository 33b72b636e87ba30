package memory

import "github.com/google/uuid"

// NewCorrelationID returns a fresh correlation id shared between a record
// and its vector entry. Generated locally (random 128-bit UUID) so it is
// available before either store is written; uniqueness comes from entropy,
// no shared counter is involved.
func NewCorrelationID() string {
	return uuid.NewString()
}
