package model

import "time"

// HistoryRecord is a persisted generation. Records are append-only.
type HistoryRecord struct {
	ID             int64     `json:"id,string"`
	Schema         string    `json:"schema"`
	UserStory      string    `json:"userStory"`
	GeneratedQuery string    `json:"generatedQuery"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewHistoryRecord is a record before the store assigns its ID and timestamp.
type NewHistoryRecord struct {
	Schema         string
	UserStory      string
	GeneratedQuery string
}
