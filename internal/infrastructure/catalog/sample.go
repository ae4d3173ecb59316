package catalog

import (
	"context"

	"github.com/pureskin/dupefinder/internal/domain"
)

// SampleSource serves a small built-in catalog so the service can start
// without any data files. Used as the last rung of the startup ladder.
type SampleSource struct{}

// NewSampleSource creates the built-in demo catalog source
func NewSampleSource() *SampleSource {
	return &SampleSource{}
}

// LoadProducts returns the built-in demo products
func (s *SampleSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	return []domain.Product{
		{
			ID:          "P0001",
			Name:        "Crème Hydratante",
			Brand:       "L'ORÉAL",
			Ingredients: "Aqua, Glycerin, Dimethicone",
			Price:       25.99,
			Rating:      4.2,
		},
		{
			ID:          "P0002",
			Name:        "Sérum Vitamin C",
			Brand:       "The Ordinary",
			Ingredients: "Ascorbic Acid, Propanediol",
			Price:       12.50,
			Rating:      4.4,
		},
		{
			ID:          "P0003",
			Name:        "Nettoyant Doux",
			Brand:       "CeraVe",
			Ingredients: "Ceramides, Hyaluronic Acid",
			Price:       15.75,
			Rating:      4.6,
		},
	}, nil
}
