package domain

import "context"

// TextEmbedder is the shared text vectorization contract between layers.
// The default implementation is a deterministic local hashing scheme; a
// real semantic backend can be substituted without touching ranking logic.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Document is a corpus member for similarity ranking.
type Document struct {
	Key  string
	Text string
}

// Similarity is the derived cosine similarity between a source text and
// a corpus member. Never persisted by the core.
type Similarity struct {
	SourceKey string  `json:"source_key"`
	TargetKey string  `json:"target_key"`
	Score     float64 `json:"similarity"` // [-1, 1]
}
