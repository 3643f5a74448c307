package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrio-app/nutrio-go/internal/database"
)

func newRestaurantsFixture(t *testing.T) (*RestaurantsStore, *database.MockRepository) {
	t.Helper()
	repo := database.NewMockRepository()
	cuisine := "Mediterranean"
	repo.SeedRestaurants([]database.RestaurantRow{
		{ID: "r1", Name: "Green Garden", Rating: 4.8, CuisineType: &cuisine},
		{ID: "r2", Name: "Grill House", Rating: 4.2},
	})
	return NewRestaurantsStore(repo, nil), repo
}

func TestFetchRestaurantsOrdersByRating(t *testing.T) {
	s, _ := newRestaurantsFixture(t)

	s.FetchRestaurants(context.Background())

	rows := s.Restaurants()
	require.Len(t, rows, 2)
	assert.Equal(t, "Green Garden", rows[0].Name)
	assert.Equal(t, "Mediterranean", rows[0].CuisineType)
	assert.Equal(t, "", rows[1].CuisineType)
	assert.Empty(t, s.Err())
}

func TestToggleFavoriteSurvivesRefetch(t *testing.T) {
	s, _ := newRestaurantsFixture(t)
	s.FetchRestaurants(context.Background())

	s.ToggleFavorite("r2")
	r, ok := s.RestaurantByID("r2")
	require.True(t, ok)
	assert.True(t, r.IsFavorite)

	// No remote write happened; a fresh fetch re-applies the local set.
	s.FetchRestaurants(context.Background())
	r, ok = s.RestaurantByID("r2")
	require.True(t, ok)
	assert.True(t, r.IsFavorite)

	s.ToggleFavorite("r2")
	r, _ = s.RestaurantByID("r2")
	assert.False(t, r.IsFavorite)
}

func TestFetchRestaurantsFailureRecorded(t *testing.T) {
	s, repo := newRestaurantsFixture(t)
	repo.FailOnce("ListRestaurants", errors.New("restaurants read failed"))

	s.FetchRestaurants(context.Background())

	assert.NotEmpty(t, s.Err())
	assert.Empty(t, s.Restaurants())
	assert.False(t, s.Loading())
}

func TestRestaurantByIDMissing(t *testing.T) {
	s, _ := newRestaurantsFixture(t)
	s.FetchRestaurants(context.Background())

	_, ok := s.RestaurantByID("nonexistent")
	assert.False(t, ok)
}
