package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"basegraph.app/bff/common/id"
	"basegraph.app/bff/internal/model"
)

// Fixed width keeps lexical order equal to chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

type sqliteHistoryStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteHistoryStore stores history in a local SQLite query_history table.
// The schema is created by db.OpenSQLite.
func NewSQLiteHistoryStore(db *sql.DB) HistoryStore {
	return &sqliteHistoryStore{db: db, now: time.Now}
}

func (s *sqliteHistoryStore) Append(ctx context.Context, rec model.NewHistoryRecord) (*model.HistoryRecord, error) {
	recordID := id.New()
	createdAt := s.now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_history (id, schema, user_story, generated_query, created_at) VALUES (?, ?, ?, ?, ?)`,
		recordID, rec.Schema, rec.UserStory, rec.GeneratedQuery, createdAt.Format(sqliteTimeLayout),
	)
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

func (s *sqliteHistoryStore) ListRecent(ctx context.Context, limit int) ([]model.HistoryRecord, error) {
	if limit <= 0 {
		return []model.HistoryRecord{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, schema, user_story, generated_query, created_at
		 FROM query_history
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, unavailable("list", err)
	}
	defer rows.Close()

	records := []model.HistoryRecord{}
	for rows.Next() {
		var (
			rec       model.HistoryRecord
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Schema, &rec.UserStory, &rec.GeneratedQuery, &createdAt); err != nil {
			return nil, unavailable("list", err)
		}
		rec.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt)
		if err != nil {
			return nil, unavailable("list", fmt.Errorf("parsing created_at %q: %w", createdAt, err))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list", err)
	}
	return records, nil
}
