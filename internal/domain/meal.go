// Package domain holds the app-facing model types and the mappings from
// database rows, including the fallback values for nullable columns.
package domain

import (
	"strings"

	"github.com/nutrio-app/nutrio-go/internal/database"
)

// Macros is a set of nutrition values, either targets or accumulated intake.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the component-wise sum.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

// Meal is a catalogue meal as the app consumes it. Unlike the raw row, all
// fields are concrete; nulls have been replaced with usable zero values.
type Meal struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	ImageURL          string   `json:"imageUrl"`
	Macros            Macros   `json:"macros"`
	RestaurantID      string   `json:"restaurantId"`
	RestaurantName    string   `json:"restaurantName"`
	RestaurantLogoURL string   `json:"restaurantLogoUrl"`
	Category          []string `json:"category"`
	Ingredients       []string `json:"ingredients"`
	Price             float64  `json:"price"`
	Available         bool     `json:"available"`
}

// MealFromRow maps a meals row to the domain shape, substituting empty
// strings, empty slices and zero prices for null columns.
func MealFromRow(row database.MealRow) Meal {
	m := Meal{
		ID:   row.ID,
		Name: row.Name,
		Macros: Macros{
			Calories: row.Calories,
			Protein:  row.Protein,
			Carbs:    row.Carbs,
			Fat:      row.Fat,
		},
		Category:    row.Category,
		Ingredients: row.Ingredients,
		Available:   row.Available,
	}
	if row.Description != nil {
		m.Description = *row.Description
	}
	if row.ImageURL != nil {
		m.ImageURL = *row.ImageURL
	}
	if row.RestaurantID != nil {
		m.RestaurantID = *row.RestaurantID
	}
	if row.RestaurantName != nil {
		m.RestaurantName = *row.RestaurantName
	}
	if row.RestaurantLogoURL != nil {
		m.RestaurantLogoURL = *row.RestaurantLogoURL
	}
	if row.Price != nil {
		m.Price = *row.Price
	}
	if m.Category == nil {
		m.Category = []string{}
	}
	if m.Ingredients == nil {
		m.Ingredients = []string{}
	}
	return m
}

// MealsFromRows maps a result set, preserving order.
func MealsFromRows(rows []database.MealRow) []Meal {
	meals := make([]Meal, len(rows))
	for i, row := range rows {
		meals[i] = MealFromRow(row)
	}
	return meals
}

// Category is a meal filter option presented to the user.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryAll selects every meal regardless of category.
const CategoryAll = "all"

// InCategory reports whether the meal belongs to the category. Matching is
// case-insensitive and CategoryAll (or an empty string) matches everything.
func (m Meal) InCategory(category string) bool {
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return true
	}
	for _, c := range m.Category {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// FilterByCategory returns the meals matching the category, preserving order.
func FilterByCategory(meals []Meal, category string) []Meal {
	out := make([]Meal, 0, len(meals))
	for _, m := range meals {
		if m.InCategory(category) {
			out = append(out, m)
		}
	}
	return out
}
