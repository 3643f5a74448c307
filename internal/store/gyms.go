package store

import (
	"context"
	"sync"

	"github.com/nutrio-app/nutrio-go/internal/database"
	"github.com/nutrio-app/nutrio-go/internal/domain"
	"github.com/nutrio-app/nutrio-go/internal/fallback"
	"github.com/nutrio-app/nutrio-go/internal/logger"
)

// GymsStore owns the read-only partner gym catalogue. A failed fetch falls
// back to the built-in list so the screen always has content.
type GymsStore struct {
	backend database.GymsRepository
	log     *logger.Logger

	mu      sync.Mutex
	gyms    []domain.Gym
	loading bool
	errMsg  string
}

func NewGymsStore(backend database.GymsRepository, log *logger.Logger) *GymsStore {
	if log == nil {
		log = logger.Nop()
	}
	return &GymsStore{backend: backend, log: log}
}

// Gyms returns the catalogue from the last fetch, ordered by name.
func (s *GymsStore) Gyms() []domain.Gym {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gyms
}

func (s *GymsStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *GymsStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// FetchGyms replaces the catalogue. On remote failure the built-in list is
// substituted and the error recorded.
func (s *GymsStore) FetchGyms(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	rows, err := s.backend.ListGyms(ctx)
	if err != nil {
		s.log.Warn("gyms fetch failed, using fallback", "error", err)
		s.mu.Lock()
		s.gyms = fallback.Gyms()
		s.errMsg = err.Error()
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.gyms = domain.GymsFromRows(rows)
	s.errMsg = ""
	s.mu.Unlock()
}
