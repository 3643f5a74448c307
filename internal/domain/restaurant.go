package domain

import "github.com/nutrio-app/nutrio-go/internal/database"

// Restaurant is a partner restaurant as the app consumes it.
type Restaurant struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	LogoURL      string  `json:"logoUrl"`
	ImageURL     string  `json:"imageUrl"`
	Rating       float64 `json:"rating"`
	CuisineType  string  `json:"cuisineType"`
	DeliveryTime string  `json:"deliveryTime"`

	// IsFavorite is a client-only overlay maintained by the restaurants
	// store; it never round-trips to the server.
	IsFavorite bool `json:"isFavorite"`
}

// RestaurantFromRow maps a restaurants row, substituting empty strings for
// null columns.
func RestaurantFromRow(row database.RestaurantRow) Restaurant {
	r := Restaurant{
		ID:     row.ID,
		Name:   row.Name,
		Rating: row.Rating,
	}
	if row.LogoURL != nil {
		r.LogoURL = *row.LogoURL
	}
	if row.ImageURL != nil {
		r.ImageURL = *row.ImageURL
	}
	if row.CuisineType != nil {
		r.CuisineType = *row.CuisineType
	}
	if row.DeliveryTime != nil {
		r.DeliveryTime = *row.DeliveryTime
	}
	return r
}

// RestaurantsFromRows maps a result set, preserving order.
func RestaurantsFromRows(rows []database.RestaurantRow) []Restaurant {
	out := make([]Restaurant, len(rows))
	for i, row := range rows {
		out[i] = RestaurantFromRow(row)
	}
	return out
}
