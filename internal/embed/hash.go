// Package embed provides the default local text embedder: a deterministic
// token-hashing scheme. It is an acknowledged placeholder for a real
// semantic model; ranking logic depends only on domain.TextEmbedder, so a
// provider-backed embedder can be swapped in without further changes.
package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// Dimension is the fixed vector dimension of the hashing embedder.
const Dimension = 1000

// normEpsilon guards L2 normalization against division by zero on empty text.
const normEpsilon = 1e-10

// Hasher embeds text by hashing lowercased whitespace tokens into a
// fixed-size frequency accumulator, then L2-normalizing. Output is
// deterministic for a given input.
type Hasher struct{}

// NewHasher creates a hashing embedder.
func NewHasher() *Hasher { return &Hasher{} }

// Embed implements domain.TextEmbedder. Non-empty text yields a unit
// vector (up to normEpsilon); empty text yields a near-zero vector.
func (h *Hasher) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, Dimension)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		vec[bucket(tok)]++
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum) + normEpsilon

	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

func bucket(token string) int {
	f := fnv.New32a()
	_, _ = f.Write([]byte(token))
	return int(f.Sum32() % Dimension)
}
