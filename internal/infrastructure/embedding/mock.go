package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// MockProvider produces deterministic hash-seeded vectors so the service
// can run without an embedding server. Identical text always yields an
// identical unit-length vector; unrelated texts land near zero similarity.
// Vectors carry no semantic meaning.
type MockProvider struct {
	model     string
	dimension int
}

// NewMockProvider creates a deterministic offline embedding provider
func NewMockProvider(model string, dimension int) *MockProvider {
	if dimension <= 0 {
		dimension = 384
	}
	return &MockProvider{
		model:     model,
		dimension: dimension,
	}
}

// Model returns the mock's model tag
func (p *MockProvider) Model() string {
	return p.model
}

// Dimension returns the vector dimension
func (p *MockProvider) Dimension() int {
	return p.dimension
}

// EmbedOne derives a unit vector from the SHA-256 stream of the text
func (p *MockProvider) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, p.dimension)

	// Each digest yields eight uint32 values; rehash to extend the stream
	hash := sha256.Sum256([]byte(text))
	for i := range vec {
		if i > 0 && i%8 == 0 {
			hash = sha256.Sum256(hash[:])
		}
		off := (i % 8) * 4
		bits := binary.BigEndian.Uint32(hash[off : off+4])
		// Center on zero so unrelated texts stay dissimilar
		vec[i] = float32(bits)/float32(math.MaxUint32)*2 - 1
	}

	// Normalize vector to unit length for cosine similarity
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if n := math.Sqrt(norm); n > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / n)
		}
	}

	return vec, nil
}

// EmbedBatch encodes each text independently
func (p *MockProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.EmbedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}
