// Package embedding provides a local, deterministic text embedder based on
// feature hashing. It needs no API key and no model download, which makes it
// the default backend for tests and for deployments without an embedding
// service. Vectors from different embedders are not comparable; a namespace
// must be populated and queried with the same backend.
package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimensions matches the vector length of the MiniLM-class sentence
// embedding models the store was originally designed around.
const DefaultDimensions = 384

// HashEmbedder maps token and bigram counts into a fixed-length vector via
// feature hashing and L2-normalizes the result.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates an embedder with the given vector length.
// Non-positive dim falls back to DefaultDimensions.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &HashEmbedder{dim: dim}
}

// Dimensions returns the vector length.
func (h *HashEmbedder) Dimensions() int {
	return h.dim
}

// Embed computes the feature-hash vector for text. Identical input always
// yields an identical vector; an input with no tokens yields the zero vector.
func (h *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.dim)

	tokens := tokenize(text)
	for i, tok := range tokens {
		h.accumulate(vec, tok)
		if i+1 < len(tokens) {
			h.accumulate(vec, tok+" "+tokens[i+1])
		}
	}

	normalize(vec)
	return vec, nil
}

// accumulate hashes the feature into a bucket; one hash bit picks the sign so
// collisions partially cancel instead of compounding.
func (h *HashEmbedder) accumulate(vec []float32, feature string) {
	hasher := fnv.New64a()
	hasher.Write([]byte(feature))
	sum := hasher.Sum64()

	idx := int(sum % uint64(h.dim))
	if sum&(1<<63) != 0 {
		vec[idx]--
	} else {
		vec[idx]++
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
