package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harun/recall/internal/tracing"
)

// History lists the owner's memories newest first, straight from the
// record store. This path stays complete even for memories whose index
// write failed.
func (s *Service) History(ctx context.Context, ownerID string, limit int) ([]*MemoryRecord, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrEmptyOwner
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	return s.store.ListByOwner(ctx, ownerID, limit)
}

// Forget deletes an owner's memory from both stores. The record is
// removed first; if the vector delete then fails, the leftover index
// entry is an orphan, which retrieval already drops, so the failure is
// logged rather than surfaced.
func (s *Service) Forget(ctx context.Context, ownerID string, id int64) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrEmptyOwner
	}

	correlationID, err := s.store.Delete(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete record: %w", err)
	}

	if err := s.index.Delete(ctx, correlationID); err != nil {
		logger := tracing.LoggerFromContext(ctx, s.logger)
		logger.Warn().
			Err(err).
			Str("correlation_id", correlationID).
			Msg("Vector delete failed, orphan left behind")
	}

	return nil
}
