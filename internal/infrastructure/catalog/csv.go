package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
)

// CSVSource loads the product catalog from a CSV export. Column positions
// are resolved from the header row, so extra columns and arbitrary ordering
// are tolerated.
type CSVSource struct {
	path   string
	logger zerolog.Logger
}

// NewCSVSource creates a catalog source reading from the given CSV file
func NewCSVSource(path string, logger zerolog.Logger) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: logger,
	}
}

// LoadProducts reads and types every catalog row. Rows without a product
// name are skipped; malformed numeric fields are coerced to zero here so
// read sites never revalidate.
func (s *CSVSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	// Resolve column positions from the header row
	columns := map[string]int{}
	for i, header := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	products := make([]domain.Product, 0, len(records)-1)
	skipped := 0
	for i, row := range records[1:] {
		name := field(row, "product_name")
		if name == "" {
			skipped++
			continue
		}

		id := field(row, "product_id")
		if id == "" {
			id = fmt.Sprintf("P%04d", i+1)
		}

		products = append(products, domain.Product{
			ID:          id,
			Name:        name,
			Brand:       field(row, "brand_name"),
			Ingredients: field(row, "ingredients"),
			Price:       coerceFloat(field(row, "price_usd")),
			Rating:      coerceFloat(field(row, "rating")),
			Reviews:     coerceInt(field(row, "reviews")),
			Highlights:  field(row, "highlights"),
		})
	}

	if len(products) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	s.logger.Info().
		Str("path", s.path).
		Int("products", len(products)).
		Int("skipped", skipped).
		Msg("Catalog loaded")

	return products, nil
}

// coerceFloat parses a numeric field, treating malformed input as zero
func coerceFloat(value string) float64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// coerceInt parses a count field, accepting float formatting like "52.0"
func coerceInt(value string) int {
	if value == "" {
		return 0
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return int(parsed)
}
