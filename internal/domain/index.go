package domain

import "fmt"

// ProductIndex is the aligned pair of catalog products and their embedding
// vectors: row i of Vectors belongs to Products[i], and every lookup by
// position relies on that order. An index is built once per load or rebuild
// and treated as read-only while serving; rebuilding publishes a whole new
// value rather than mutating rows in place.
type ProductIndex struct {
	Products []Product
	Vectors  [][]float32
	ModelTag string
}

// NewProductIndex validates the row alignment and wraps the parts into an index.
func NewProductIndex(products []Product, vectors [][]float32, modelTag string) (*ProductIndex, error) {
	if len(products) != len(vectors) {
		return nil, fmt.Errorf("%w: %d products, %d vectors", ErrIndexMisaligned, len(products), len(vectors))
	}
	return &ProductIndex{Products: products, Vectors: vectors, ModelTag: modelTag}, nil
}

// Len returns the number of indexed products.
func (ix *ProductIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.Products)
}
