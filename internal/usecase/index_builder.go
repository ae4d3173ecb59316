package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
)

// IndexBuilder turns a raw catalog batch into a searchable product index.
type IndexBuilder struct {
	classifier *CategoryClassifier
	normalizer *IngredientNormalizer
	provider   domain.EmbeddingProvider
	logger     zerolog.Logger
}

// NewIndexBuilder creates an index builder backed by the given provider
func NewIndexBuilder(provider domain.EmbeddingProvider, logger zerolog.Logger) *IndexBuilder {
	return &IndexBuilder{
		classifier: NewCategoryClassifier(),
		normalizer: NewIngredientNormalizer(),
		provider:   provider,
		logger:     logger,
	}
}

// Build classifies every product, normalizes its ingredient list and
// encodes the whole batch into vectors.
// Flow: classify categories -> normalize ingredients -> batch encode -> assemble index
//
// Category labels are always recomputed, so stale labels in the source
// data never leak into the index. A provider failure fails the whole
// build; there is no partial index.
func (b *IndexBuilder) Build(ctx context.Context, products []domain.Product) (*domain.ProductIndex, error) {
	if len(products) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	indexed := make([]domain.Product, len(products))
	texts := make([]string, len(products))
	for i, product := range products {
		product.PrimaryCategory, product.SecondaryCategory = b.classifier.Classify(product.Name, product.Ingredients)
		indexed[i] = product
		texts[i] = b.normalizer.Normalize(product.Ingredients)
	}

	start := time.Now()
	vectors, err := b.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("encoding catalog failed: %w", err)
	}

	index, err := domain.NewProductIndex(indexed, vectors, b.provider.Model())
	if err != nil {
		return nil, err
	}

	b.logger.Info().
		Int("products", index.Len()).
		Str("model", index.ModelTag).
		Dur("elapsed", time.Since(start)).
		Msg("Product index built")

	return index, nil
}
