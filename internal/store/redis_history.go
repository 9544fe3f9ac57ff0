package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"basegraph.app/bff/common/id"
	"basegraph.app/bff/internal/model"
	"github.com/redis/go-redis/v9"
)

type redisHistoryStore struct {
	client *redis.Client
	stream string
}

// NewRedisHistoryStore stores history as entries of a Redis stream. The
// stream entry ID assigned by Redis fixes both insertion order and created_at,
// so XREVRANGE order is always newest first.
func NewRedisHistoryStore(client *redis.Client, stream string) HistoryStore {
	return &redisHistoryStore{client: client, stream: stream}
}

func (s *redisHistoryStore) Append(ctx context.Context, rec model.NewHistoryRecord) (*model.HistoryRecord, error) {
	recordID := id.New()

	entryID, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"id":              strconv.FormatInt(recordID, 10),
			"schema":          rec.Schema,
			"user_story":      rec.UserStory,
			"generated_query": rec.GeneratedQuery,
		},
	}).Result()
	if err != nil {
		return nil, unavailable("append", err)
	}

	createdAt, err := streamIDTime(entryID)
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

func (s *redisHistoryStore) ListRecent(ctx context.Context, limit int) ([]model.HistoryRecord, error) {
	if limit <= 0 {
		return []model.HistoryRecord{}, nil
	}

	msgs, err := s.client.XRevRangeN(ctx, s.stream, "+", "-", int64(limit)).Result()
	if err != nil {
		return nil, unavailable("list", err)
	}

	records := make([]model.HistoryRecord, 0, len(msgs))
	for _, msg := range msgs {
		rec, err := fromStreamMessage(msg)
		if err != nil {
			return nil, unavailable("list", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func fromStreamMessage(msg redis.XMessage) (model.HistoryRecord, error) {
	createdAt, err := streamIDTime(msg.ID)
	if err != nil {
		return model.HistoryRecord{}, err
	}

	recordID, err := strconv.ParseInt(stringValue(msg.Values, "id"), 10, 64)
	if err != nil {
		return model.HistoryRecord{}, fmt.Errorf("entry %s: parsing id: %w", msg.ID, err)
	}

	return model.HistoryRecord{
		ID:             recordID,
		Schema:         stringValue(msg.Values, "schema"),
		UserStory:      stringValue(msg.Values, "user_story"),
		GeneratedQuery: stringValue(msg.Values, "generated_query"),
		CreatedAt:      createdAt,
	}, nil
}

// streamIDTime returns the millisecond timestamp part of a stream entry ID
// ("<ms>-<seq>").
func streamIDTime(entryID string) (time.Time, error) {
	msPart, _, ok := strings.Cut(entryID, "-")
	if !ok {
		return time.Time{}, fmt.Errorf("invalid stream entry id %q", entryID)
	}
	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stream entry id %q: %w", entryID, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

func stringValue(values map[string]any, key string) string {
	if v, ok := values[key].(string); ok {
		return v
	}
	return ""
}
