package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

// ClipDim is the dimensionality of OpenAI CLIP ViT-B/32 embeddings, used as
// the mock's default so scoring code exercises realistic vector sizes.
const ClipDim = 512

// MockEmbedder produces deterministic, unit-norm vectors derived from a
// hash of the input string, domain-separated so the same string embeds
// differently as text versus as an image path. It never touches a real
// model and is meant for development, tests and offline replay.
type MockEmbedder struct {
	dim int
}

// NewMockEmbedder returns a MockEmbedder producing vectors of dim floats.
func NewMockEmbedder(dim int) *MockEmbedder {
	return &MockEmbedder{dim: dim}
}

// NewClipLikeMockEmbedder returns a MockEmbedder with CLIP's 512 dimensions.
func NewClipLikeMockEmbedder() *MockEmbedder {
	return NewMockEmbedder(ClipDim)
}

func (m *MockEmbedder) hashToEmbedding(input string) []float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(input))
	seed := h.Sum64()

	values := make([]float64, m.dim)
	var sumSquares float64
	for i := range values {
		// Knuth's MMIX linear congruential generator constants,
		// chosen for decent bit dispersion at low cost.
		seed = seed*6364136223846793005 + 1442695040888963407
		normalized := float64(seed)/float64(math.MaxUint64)*2.0 - 1.0
		values[i] = normalized
		sumSquares += normalized * normalized
	}

	norm := math.Sqrt(sumSquares)
	if norm > 0 {
		for i := range values {
			values[i] /= norm
		}
	}
	return values
}

// TextEmbedding hashes "text:"+text so it never collides with an image
// embedding of the same literal string.
func (m *MockEmbedder) TextEmbedding(ctx context.Context, text string) ([]float64, error) {
	return m.hashToEmbedding("text:" + text), nil
}

// ImageEmbedding hashes "image:"+imagePath. The mock never reads the file.
func (m *MockEmbedder) ImageEmbedding(ctx context.Context, imagePath string) ([]float64, error) {
	return m.hashToEmbedding("image:" + imagePath), nil
}

// Dim returns the configured embedding dimensionality.
func (m *MockEmbedder) Dim() int {
	return m.dim
}
