// Package topics is the KV-backed read model of community topics and
// their posts. Snapshots are stored as JSON values; this layer exists to
// feed the insight use cases, it is not the system of record.
package topics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/civicpulse/insight/internal/db"
	"github.com/civicpulse/insight/internal/domain"
)

// Repository stores and retrieves topic and post snapshots.
type Repository struct {
	store  db.KVStore
	prefix string
	logger *zap.Logger
}

func New(store db.KVStore, logger *zap.Logger) *Repository {
	return &Repository{
		store:  store,
		prefix: domain.KeyPrefix,
		logger: logger,
	}
}

func (r *Repository) topicKey(id string) string {
	return r.prefix + "topic:" + id
}

func (r *Repository) postsKey(id string) string {
	return r.prefix + "posts:" + id
}

// Get returns the topic snapshot for an id, or domain.ErrTopicNotFound.
func (r *Repository) Get(ctx context.Context, id string) (domain.TopicSnapshot, error) {
	raw, err := r.store.Get(ctx, r.topicKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.TopicSnapshot{}, fmt.Errorf("topic %q: %w", id, domain.ErrTopicNotFound)
		}
		return domain.TopicSnapshot{}, fmt.Errorf("loading topic %q: %w", id, err)
	}

	var t domain.TopicSnapshot
	if err := json.Unmarshal(raw, &t); err != nil {
		return domain.TopicSnapshot{}, fmt.Errorf("decoding topic %q: %w", id, err)
	}
	return t, nil
}

// List returns all stored topic snapshots, newest first. An optional
// status filters the result; empty means all.
func (r *Repository) List(ctx context.Context, status string) ([]domain.TopicSnapshot, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"topic:*")
	if err != nil {
		return nil, fmt.Errorf("scanning topics: %w", err)
	}

	topics := make([]domain.TopicSnapshot, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // deleted between scan and get
			}
			return nil, fmt.Errorf("loading %q: %w", key, err)
		}
		var t domain.TopicSnapshot
		if err := json.Unmarshal(raw, &t); err != nil {
			r.logger.Warn("Skipping undecodable topic", zap.String("key", key), zap.Error(err))
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		topics = append(topics, t)
	}

	sort.Slice(topics, func(i, j int) bool {
		return topics[i].CreatedAt.After(topics[j].CreatedAt)
	})
	return topics, nil
}

// Posts returns the posts of a topic, oldest first. A topic with no
// posts yet returns an empty slice, but an unknown topic is an error.
func (r *Repository) Posts(ctx context.Context, topicID string) ([]domain.PostSnapshot, error) {
	if _, err := r.Get(ctx, topicID); err != nil {
		return nil, err
	}

	raw, err := r.store.Get(ctx, r.postsKey(topicID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return []domain.PostSnapshot{}, nil
		}
		return nil, fmt.Errorf("loading posts of %q: %w", topicID, err)
	}

	var posts []domain.PostSnapshot
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("decoding posts of %q: %w", topicID, err)
	}
	return posts, nil
}

// RecentPostCount counts the topic's posts created within the window
// ending at now.
func (r *Repository) RecentPostCount(ctx context.Context, topicID string, window time.Duration, now time.Time) (int, error) {
	posts, err := r.Posts(ctx, topicID)
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-window)
	count := 0
	for _, p := range posts {
		if p.CreatedAt.After(cutoff) {
			count++
		}
	}
	return count, nil
}

// Save stores a topic snapshot, overwriting any previous version.
func (r *Repository) Save(ctx context.Context, t domain.TopicSnapshot) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding topic %q: %w", t.ID, err)
	}
	if err := r.store.Set(ctx, r.topicKey(t.ID), raw); err != nil {
		return fmt.Errorf("storing topic %q: %w", t.ID, err)
	}
	return nil
}

// SavePost appends a post to a topic's post list.
func (r *Repository) SavePost(ctx context.Context, topicID string, post domain.PostSnapshot) error {
	posts, err := r.Posts(ctx, topicID)
	if err != nil {
		return err
	}
	posts = append(posts, post)

	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encoding posts of %q: %w", topicID, err)
	}
	if err := r.store.Set(ctx, r.postsKey(topicID), raw); err != nil {
		return fmt.Errorf("storing posts of %q: %w", topicID, err)
	}
	return nil
}

// Stats assembles the aggregates the escalation risk model needs.
func (r *Repository) Stats(ctx context.Context, topicID string, now time.Time) (domain.TopicStats, error) {
	t, err := r.Get(ctx, topicID)
	if err != nil {
		return domain.TopicStats{}, err
	}
	recent, err := r.RecentPostCount(ctx, topicID, 24*time.Hour, now)
	if err != nil {
		return domain.TopicStats{}, err
	}

	return domain.TopicStats{
		SentimentScore: t.SentimentScore,
		SentimentCount: t.SentimentCount,
		PositiveCount:  t.PositiveCount,
		NegativeCount:  t.NegativeCount,
		CreatedAt:      t.CreatedAt,
		RecentPosts24h: recent,
	}, nil
}
