package service

import (
	"context"
	"errors"
	"log/slog"

	"basegraph.app/bff/common/logger"
	"basegraph.app/bff/internal/metrics"
	"basegraph.app/bff/internal/model"
	"basegraph.app/bff/internal/store"
)

const MaxHistoryLimit = 100

type HistoryService interface {
	// ListRecent returns up to limit records, newest first. It never fails:
	// an unavailable store yields an empty list.
	ListRecent(ctx context.Context, limit int) []model.HistoryRecord
}

type historyService struct {
	history      store.HistoryStore
	defaultLimit int
}

func NewHistoryService(history store.HistoryStore, defaultLimit int) HistoryService {
	if defaultLimit <= 0 || defaultLimit > MaxHistoryLimit {
		defaultLimit = 10
	}
	return &historyService{
		history:      history,
		defaultLimit: defaultLimit,
	}
}

func (s *historyService) ListRecent(ctx context.Context, limit int) []model.HistoryRecord {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "bff.service.history"})

	switch {
	case limit <= 0:
		limit = s.defaultLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	records, err := s.history.ListRecent(ctx, limit)
	if err != nil {
		metrics.HistoryListFailuresTotal.Inc()
		if errors.Is(err, store.ErrStoreUnavailable) {
			slog.WarnContext(ctx, "history store unavailable, serving empty history", "error", err)
		} else {
			slog.ErrorContext(ctx, "failed to list history, serving empty history", "error", err)
		}
		return []model.HistoryRecord{}
	}

	if len(records) == 0 {
		slog.DebugContext(ctx, "history is empty")
		return []model.HistoryRecord{}
	}

	// Backends already bound the result; this guards the contract.
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}
