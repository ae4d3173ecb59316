package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
)

// IndexManager drives full index rebuilds: load the catalog, build, swap
// the result into the search service and persist the snapshot.
type IndexManager struct {
	source   domain.CatalogSource
	builder  *IndexBuilder
	search   *SearchService
	snapshot domain.SnapshotStore
	logger   zerolog.Logger
}

// NewIndexManager creates an index manager. The snapshot store may be nil
// when persistence is disabled.
func NewIndexManager(
	source domain.CatalogSource,
	builder *IndexBuilder,
	search *SearchService,
	snapshot domain.SnapshotStore,
	logger zerolog.Logger,
) *IndexManager {
	return &IndexManager{
		source:   source,
		builder:  builder,
		search:   search,
		snapshot: snapshot,
		logger:   logger,
	}
}

// Rebuild loads the catalog, builds a fresh index and activates it.
// Returns the number of indexed products. The previous index keeps
// serving until the swap, and a failed rebuild leaves it in place.
// Snapshot persistence is best-effort and never fails the rebuild.
func (m *IndexManager) Rebuild(ctx context.Context) (int, error) {
	products, err := m.source.LoadProducts(ctx)
	if err != nil {
		return 0, err
	}

	index, err := m.builder.Build(ctx, products)
	if err != nil {
		return 0, err
	}

	m.search.Swap(index)

	if m.snapshot != nil {
		if err := m.snapshot.Save(ctx, index); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to persist index snapshot")
		}
	}

	return index.Len(), nil
}

// Restore installs a previously saved snapshot without touching the
// catalog source or the embedding provider.
func (m *IndexManager) Restore(ctx context.Context) (int, error) {
	if m.snapshot == nil {
		return 0, domain.ErrSnapshotNotFound
	}

	index, err := m.snapshot.Load(ctx)
	if err != nil {
		return 0, err
	}

	m.search.Swap(index)
	return index.Len(), nil
}
