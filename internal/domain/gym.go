package domain

import "github.com/nutrio-app/nutrio-go/internal/database"

// Gym is a partner gym as the app consumes it.
type Gym struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ImageURL  string   `json:"imageUrl"`
	LogoURL   string   `json:"logoUrl"`
	Address   string   `json:"address"`
	Distance  string   `json:"distance"`
	Rating    float64  `json:"rating"`
	Amenities []string `json:"amenities"`
}

// GymFromRow maps a gyms row.
func GymFromRow(row database.GymRow) Gym {
	g := Gym{
		ID:        row.ID,
		Name:      row.Name,
		ImageURL:  row.ImageURL,
		LogoURL:   row.LogoURL,
		Address:   row.Address,
		Distance:  row.Distance,
		Rating:    row.Rating,
		Amenities: row.Amenities,
	}
	if g.Amenities == nil {
		g.Amenities = []string{}
	}
	return g
}

// GymsFromRows maps a result set, preserving order.
func GymsFromRows(rows []database.GymRow) []Gym {
	out := make([]Gym, len(rows))
	for i, row := range rows {
		out[i] = GymFromRow(row)
	}
	return out
}
