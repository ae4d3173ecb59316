package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
)

// FallbackSource loads from a primary catalog source and switches to a
// fallback when the primary fails, so the service can still come up with
// the demo catalog when the CSV export is missing or unreadable.
type FallbackSource struct {
	primary  domain.CatalogSource
	fallback domain.CatalogSource
	logger   zerolog.Logger
}

// NewFallbackSource chains two catalog sources
func NewFallbackSource(primary, fallback domain.CatalogSource, logger zerolog.Logger) *FallbackSource {
	return &FallbackSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// LoadProducts loads from the primary source, falling back on any error
func (s *FallbackSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.primary.LoadProducts(ctx)
	if err == nil {
		return products, nil
	}

	s.logger.Warn().Err(err).Msg("Primary catalog source failed, using fallback")
	return s.fallback.LoadProducts(ctx)
}
