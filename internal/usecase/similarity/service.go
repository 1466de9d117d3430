// Package similarity ranks documents against a target by cosine
// similarity of their hashed embeddings.
package similarity

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/civicpulse/insight/internal/domain"
)

// Service embeds documents and ranks a corpus against a target.
type Service struct {
	embedder domain.TextEmbedder
	logger   *zap.Logger
}

func New(embedder domain.TextEmbedder, logger *zap.Logger) *Service {
	return &Service{embedder: embedder, logger: logger}
}

// Embed returns the embedding vector for a text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.embedder.Embed(ctx, text)
}

// Rank scores every corpus document against the target and returns the
// top k by descending similarity. Ties keep ascending corpus order. A
// non-positive k means no limit.
func (s *Service) Rank(ctx context.Context, target domain.Document, corpus []domain.Document, k int) ([]domain.Similarity, error) {
	targetVec, err := s.embedder.Embed(ctx, target.Text)
	if err != nil {
		return nil, fmt.Errorf("embedding target %q: %w", target.Key, err)
	}

	results := make([]domain.Similarity, 0, len(corpus))
	for _, doc := range corpus {
		if doc.Key == target.Key {
			continue
		}
		vec, err := s.embedder.Embed(ctx, doc.Text)
		if err != nil {
			return nil, fmt.Errorf("embedding document %q: %w", doc.Key, err)
		}
		results = append(results, domain.Similarity{
			SourceKey: target.Key,
			TargetKey: doc.Key,
			Score:     dot(targetVec, vec),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// DuplicatesAbove returns the corpus documents whose similarity to the
// target is at or above threshold, ranked.
func (s *Service) DuplicatesAbove(ctx context.Context, target domain.Document, corpus []domain.Document, threshold float64) ([]domain.Similarity, error) {
	ranked, err := s.Rank(ctx, target, corpus, 0)
	if err != nil {
		return nil, err
	}

	dups := make([]domain.Similarity, 0, len(ranked))
	for _, r := range ranked {
		if r.Score < threshold {
			break
		}
		dups = append(dups, r)
	}
	return dups, nil
}

// dot computes the dot product of two vectors. Inputs are L2-normalized
// by the embedder, so this is the cosine similarity.
func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
