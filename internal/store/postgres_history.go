package store

import (
	"context"
	"sync"
	"time"

	"basegraph.app/bff/common/id"
	"basegraph.app/bff/internal/model"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

const (
	insertHistoryQuery = `
INSERT INTO query_history (id, schema, user_story, generated_query)
VALUES ($1, $2, $3, $4)
RETURNING created_at`

	listRecentHistoryQuery = `
SELECT id, schema, user_story, generated_query, created_at
FROM query_history
ORDER BY created_at DESC, id DESC
LIMIT $1`
)

// PgQuerier is the subset of *pgxpool.Pool the history store uses.
type PgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresHistoryStore struct {
	pool    PgQuerier
	migrate func(ctx context.Context) error

	mu       sync.Mutex
	migrated bool
}

// NewPostgresHistoryStore stores history in the query_history table. The
// database assigns created_at. migrate creates the table; it runs on first
// use and again on every call until it succeeds, so a database that was down
// at startup is picked up once it recovers.
func NewPostgresHistoryStore(pool PgQuerier, migrate func(ctx context.Context) error) HistoryStore {
	return &postgresHistoryStore{pool: pool, migrate: migrate}
}

func (s *postgresHistoryStore) ensureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.migrated || s.migrate == nil {
		return nil
	}
	if err := s.migrate(ctx); err != nil {
		return err
	}
	s.migrated = true
	return nil
}

type historyRow struct {
	ID             int64     `db:"id"`
	Schema         string    `db:"schema"`
	UserStory      string    `db:"user_story"`
	GeneratedQuery string    `db:"generated_query"`
	CreatedAt      time.Time `db:"created_at"`
}

func (s *postgresHistoryStore) Append(ctx context.Context, rec model.NewHistoryRecord) (*model.HistoryRecord, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, unavailable("append", err)
	}

	recordID := id.New()

	var createdAt time.Time
	err := s.pool.QueryRow(ctx, insertHistoryQuery,
		recordID, rec.Schema, rec.UserStory, rec.GeneratedQuery,
	).Scan(&createdAt)
	if err != nil {
		return nil, unavailable("append", err)
	}

	return &model.HistoryRecord{
		ID:             recordID,
		Schema:         rec.Schema,
		UserStory:      rec.UserStory,
		GeneratedQuery: rec.GeneratedQuery,
		CreatedAt:      createdAt,
	}, nil
}

func (s *postgresHistoryStore) ListRecent(ctx context.Context, limit int) ([]model.HistoryRecord, error) {
	if limit <= 0 {
		return []model.HistoryRecord{}, nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, unavailable("list", err)
	}

	var rows []historyRow
	if err := pgxscan.Select(ctx, s.pool, &rows, listRecentHistoryQuery, limit); err != nil {
		return nil, unavailable("list", err)
	}

	records := make([]model.HistoryRecord, len(rows))
	for i, row := range rows {
		records[i] = toHistoryModel(row)
	}
	return records, nil
}

func toHistoryModel(row historyRow) model.HistoryRecord {
	return model.HistoryRecord{
		ID:             row.ID,
		Schema:         row.Schema,
		UserStory:      row.UserStory,
		GeneratedQuery: row.GeneratedQuery,
		CreatedAt:      row.CreatedAt,
	}
}
