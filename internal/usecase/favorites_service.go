package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pureskin/dupefinder/internal/domain"
)

// FavoritesService keeps the user's saved products. Storage is in-memory
// and per-process, which matches the single-user mobile deployment; the
// list does not survive a restart.
type FavoritesService struct {
	mu        sync.RWMutex
	favorites []domain.Favorite
}

// NewFavoritesService creates an empty favorites list
func NewFavoritesService() *FavoritesService {
	return &FavoritesService{favorites: make([]domain.Favorite, 0)}
}

// List returns the saved favorites in insertion order
func (s *FavoritesService) List() []domain.Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()

	favorites := make([]domain.Favorite, len(s.favorites))
	copy(favorites, s.favorites)
	return favorites
}

// Add saves a favorite unless the same product and brand is already on
// the list. The ID and timestamp are assigned here, never taken from the
// request. Returns whether the favorite was added and the new total.
func (s *FavoritesService) Add(favorite domain.Favorite) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.favorites {
		if existing.ProductName == favorite.ProductName && existing.BrandName == favorite.BrandName {
			return false, len(s.favorites)
		}
	}

	favorite.ID = uuid.NewString()
	favorite.AddedAt = time.Now().UTC()
	s.favorites = append(s.favorites, favorite)
	return true, len(s.favorites)
}

// Remove deletes every favorite with the given product name and returns
// the new total. Removing a name that was never saved is not an error.
func (s *FavoritesService) Remove(productName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.favorites[:0]
	for _, favorite := range s.favorites {
		if favorite.ProductName != productName {
			kept = append(kept, favorite)
		}
	}
	s.favorites = kept
	return len(s.favorites)
}

// Count returns the number of saved favorites
func (s *FavoritesService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.favorites)
}
