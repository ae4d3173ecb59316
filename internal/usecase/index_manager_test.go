package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
	"github.com/pureskin/dupefinder/internal/infrastructure/metrics"
)

// MockCatalogSource is a mock implementation of domain.CatalogSource
type MockCatalogSource struct {
	products  []domain.Product
	loadError error
}

func (m *MockCatalogSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}
	return m.products, nil
}

// MockSnapshotStore is a mock implementation of domain.SnapshotStore
type MockSnapshotStore struct {
	saved     *domain.ProductIndex
	saveError error
	loadIndex *domain.ProductIndex
	loadError error
}

func (m *MockSnapshotStore) Save(ctx context.Context, index *domain.ProductIndex) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.saved = index
	return nil
}

func (m *MockSnapshotStore) Load(ctx context.Context) (*domain.ProductIndex, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}
	return m.loadIndex, nil
}

func newIndexManagerFixture(source domain.CatalogSource, snapshot domain.SnapshotStore) (*IndexManager, *SearchService) {
	provider := NewMockEmbeddingProvider([]float32{1, 0})
	search := NewSearchService(NewMockVectorCache(), provider, metrics.NewCollector(), SearchServiceConfig{}, zerolog.Nop())
	builder := NewIndexBuilder(provider, zerolog.Nop())
	manager := NewIndexManager(source, builder, search, snapshot, zerolog.Nop())
	return manager, search
}

func TestIndexManager_Rebuild(t *testing.T) {
	snapshot := &MockSnapshotStore{}
	manager, search := newIndexManagerFixture(&MockCatalogSource{products: testSearchCatalog()}, snapshot)

	count, err := manager.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if !search.Ready() {
		t.Error("expected the search service to be ready after rebuild")
	}
	if snapshot.saved == nil {
		t.Error("expected the snapshot to be persisted")
	}
}

func TestIndexManager_RebuildSourceFailure(t *testing.T) {
	wantErr := errors.New("catalog unreachable")
	manager, search := newIndexManagerFixture(&MockCatalogSource{loadError: wantErr}, nil)

	_, err := manager.Rebuild(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want the source error", err)
	}
	if search.Ready() {
		t.Error("expected no index after a failed rebuild")
	}
}

func TestIndexManager_RebuildKeepsServingOnFailure(t *testing.T) {
	source := &MockCatalogSource{products: testSearchCatalog()}
	manager, search := newIndexManagerFixture(source, nil)

	if _, err := manager.Rebuild(context.Background()); err != nil {
		t.Fatalf("first rebuild failed: %v", err)
	}

	source.loadError = errors.New("catalog unreachable")
	if _, err := manager.Rebuild(context.Background()); err == nil {
		t.Fatal("expected the second rebuild to fail")
	}

	if !search.Ready() || search.ProductCount() != 3 {
		t.Error("expected the previous index to keep serving after a failed rebuild")
	}
}

func TestIndexManager_SnapshotFailureIsNotFatal(t *testing.T) {
	snapshot := &MockSnapshotStore{saveError: errors.New("disk full")}
	manager, search := newIndexManagerFixture(&MockCatalogSource{products: testSearchCatalog()}, snapshot)

	count, err := manager.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 || !search.Ready() {
		t.Error("expected the rebuild to succeed despite the snapshot failure")
	}
}

func TestIndexManager_Restore(t *testing.T) {
	index, err := domain.NewProductIndex(testSearchCatalog(), [][]float32{{1, 0}, {0.8, 0.6}, {0, 1}}, "test-model")
	if err != nil {
		t.Fatalf("building index: %v", err)
	}

	t.Run("installs the saved snapshot", func(t *testing.T) {
		manager, search := newIndexManagerFixture(&MockCatalogSource{}, &MockSnapshotStore{loadIndex: index})

		count, err := manager.Restore(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 3 || !search.Ready() {
			t.Error("expected the snapshot to be installed")
		}
	})

	t.Run("propagates a missing snapshot", func(t *testing.T) {
		manager, _ := newIndexManagerFixture(&MockCatalogSource{}, &MockSnapshotStore{loadError: domain.ErrSnapshotNotFound})

		_, err := manager.Restore(context.Background())
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			t.Errorf("error = %v, want ErrSnapshotNotFound", err)
		}
	})

	t.Run("reports not found without a store", func(t *testing.T) {
		manager, _ := newIndexManagerFixture(&MockCatalogSource{}, nil)

		_, err := manager.Restore(context.Background())
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			t.Errorf("error = %v, want ErrSnapshotNotFound", err)
		}
	})
}
