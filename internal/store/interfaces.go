package store

import (
	"context"
	"errors"

	"basegraph.app/bff/internal/model"
)

// ErrStoreUnavailable is returned when the history backend cannot be reached,
// is not configured, or rejects an operation.
var ErrStoreUnavailable = errors.New("history store unavailable")

// HistoryStore is the append-only record of successful generations.
type HistoryStore interface {
	// Append persists rec, assigning its ID and creation time.
	Append(ctx context.Context, rec model.NewHistoryRecord) (*model.HistoryRecord, error)
	// ListRecent returns at most limit records, newest first. Records created
	// at the same instant are ordered by insertion, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.HistoryRecord, error)
}

func unavailable(op string, err error) error {
	return &storeError{op: op, err: err}
}

type storeError struct {
	op  string
	err error
}

func (e *storeError) Error() string {
	return "history " + e.op + ": " + e.err.Error()
}

func (e *storeError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func (e *storeError) Unwrap() error {
	return e.err
}
