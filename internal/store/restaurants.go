package store

import (
	"context"
	"sync"

	"github.com/nutrio-app/nutrio-go/internal/database"
	"github.com/nutrio-app/nutrio-go/internal/domain"
	"github.com/nutrio-app/nutrio-go/internal/logger"
)

// RestaurantsStore owns the read-only restaurant catalogue plus a process
// local favorite overlay that survives re-fetches but not restarts.
type RestaurantsStore struct {
	backend database.RestaurantsRepository
	log     *logger.Logger

	mu          sync.Mutex
	restaurants []domain.Restaurant
	favorites   map[string]bool
	loading     bool
	errMsg      string
}

func NewRestaurantsStore(backend database.RestaurantsRepository, log *logger.Logger) *RestaurantsStore {
	if log == nil {
		log = logger.Nop()
	}
	return &RestaurantsStore{
		backend:   backend,
		log:       log,
		favorites: make(map[string]bool),
	}
}

// Restaurants returns the catalogue from the last fetch, favorites applied.
func (s *RestaurantsStore) Restaurants() []domain.Restaurant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restaurants
}

func (s *RestaurantsStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *RestaurantsStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// FetchRestaurants replaces the catalogue, best rated first, re-applying the
// local favorite set on top of the fresh rows. Failures are recorded, not
// returned.
func (s *RestaurantsStore) FetchRestaurants(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	rows, err := s.backend.ListRestaurants(ctx)
	if err != nil {
		s.log.Warn("restaurants fetch failed", "error", err)
		s.mu.Lock()
		s.errMsg = err.Error()
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.restaurants = domain.RestaurantsFromRows(rows)
	for i := range s.restaurants {
		s.restaurants[i].IsFavorite = s.favorites[s.restaurants[i].ID]
	}
	s.errMsg = ""
	s.mu.Unlock()
}

// ToggleFavorite flips the favorite flag for a restaurant. The flag lives
// only in this store; nothing is written remotely.
func (s *RestaurantsStore) ToggleFavorite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.favorites[id] {
		delete(s.favorites, id)
	} else {
		s.favorites[id] = true
	}
	for i := range s.restaurants {
		if s.restaurants[i].ID == id {
			s.restaurants[i].IsFavorite = s.favorites[id]
		}
	}
}

// RestaurantByID looks up a restaurant in the in-memory catalogue.
func (s *RestaurantsStore) RestaurantByID(id string) (domain.Restaurant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.restaurants {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Restaurant{}, false
}
