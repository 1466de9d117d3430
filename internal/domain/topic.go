package domain

import "time"

// Topic lifecycle statuses.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
	StatusArchived = "archived"
)

// TopicSnapshot is a read-only topic view supplied by the persistence
// collaborator. The core never mutates topics.
type TopicSnapshot struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Tags            []string  `json:"tags"`
	DistilledPoints string    `json:"distilled_points"`
	Status          string    `json:"status"`
	SentimentScore  int       `json:"sentiment_score"`
	SentimentCount  int       `json:"sentiment_count"`
	PositiveCount   int       `json:"positive_count"`
	NegativeCount   int       `json:"negative_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// EmbeddingText returns the text used for similarity ranking: title plus
// the distilled discussion points, so edits to either invalidate cached
// vectors automatically.
func (t TopicSnapshot) EmbeddingText() string {
	if t.DistilledPoints == "" {
		return t.Title
	}
	return t.Title + " " + t.DistilledPoints
}

// PostSnapshot is a read-only post view.
type PostSnapshot struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TopicStats holds the aggregates consumed by the escalation risk model.
type TopicStats struct {
	SentimentScore int
	SentimentCount int
	PositiveCount  int
	NegativeCount  int
	CreatedAt      time.Time
	RecentPosts24h int
}
