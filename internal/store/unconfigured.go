package store

import (
	"context"
	"fmt"

	"basegraph.app/bff/internal/model"
)

type unconfiguredStore struct {
	reason string
}

// NewUnconfiguredStore returns a HistoryStore whose every call fails with
// ErrStoreUnavailable. Used when the configured backend has no credentials.
func NewUnconfiguredStore(reason string) HistoryStore {
	return &unconfiguredStore{reason: reason}
}

func (s *unconfiguredStore) Append(_ context.Context, _ model.NewHistoryRecord) (*model.HistoryRecord, error) {
	return nil, unavailable("append", fmt.Errorf("not configured: %s", s.reason))
}

func (s *unconfiguredStore) ListRecent(_ context.Context, _ int) ([]model.HistoryRecord, error) {
	return nil, unavailable("list", fmt.Errorf("not configured: %s", s.reason))
}
