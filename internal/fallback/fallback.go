// Package fallback holds the built-in datasets the stores substitute when the
// remote service is unavailable or the user is not signed in. Every read here
// returns a fresh copy; callers may mutate the result freely.
package fallback

import "github.com/nutrio-app/nutrio-go/internal/domain"

// GuestProfile is the demo profile shown before login and after logout.
func GuestProfile() domain.UserProfile {
	return domain.UserProfile{
		ID:        "1",
		Name:      "Bader",
		Email:     "bader@example.com",
		AvatarURL: "https://images.unsplash.com/photo-1568602471122-7832951cc4c5?ixlib=rb-1.2.1&auto=format&fit=crop&w=200&q=80",
		Goals: domain.DailyGoals{
			Calories: 2200,
			Protein:  150,
			Carbs:    220,
			Fat:      70,
		},
		Progress: []domain.ProgressEntry{
			{Date: "2025-06-15", Calories: 2100, Protein: 145, Carbs: 210, Fat: 65},
			{Date: "2025-06-16", Calories: 2050, Protein: 140, Carbs: 200, Fat: 68},
			{Date: "2025-06-17", Calories: 2150, Protein: 148, Carbs: 215, Fat: 67},
			{Date: "2025-06-18", Calories: 2180, Protein: 152, Carbs: 218, Fat: 69},
			{Date: "2025-06-19", Calories: 2120, Protein: 147, Carbs: 212, Fat: 66},
			{Date: "2025-06-20", Calories: 2200, Protein: 150, Carbs: 220, Fat: 70},
			{Date: "2025-06-21", Calories: 1800, Protein: 130, Carbs: 180, Fat: 60},
		},
	}
}

// Plans are the subscription tiers on offer. The remote plans table is the
// authority when reachable; this list keeps the paywall rendering offline.
func Plans() []domain.Plan {
	return []domain.Plan{
		{
			ID:          "daily",
			Name:        "Daily Plan",
			Description: "Perfect for trying out our service",
			Price:       14.99,
			Duration:    domain.DurationDaily,
			Features: []string{
				"3 meals per day",
				"Basic nutrition tracking",
				"No commitment",
			},
		},
		{
			ID:          "weekly",
			Name:        "Weekly Plan",
			Description: "Our most popular option",
			Price:       89.99,
			Duration:    domain.DurationWeekly,
			Features: []string{
				"3 meals per day",
				"Full nutrition tracking",
				"Meal customization",
				"Basic gym access",
			},
			Popular: true,
		},
		{
			ID:          "monthly",
			Name:        "Monthly Plan",
			Description: "Best value for committed users",
			Price:       299.99,
			Duration:    domain.DurationMonthly,
			Features: []string{
				"3 meals per day",
				"Full nutrition tracking",
				"Meal customization",
				"Premium gym access",
				"Personal nutrition consultation",
				"Weekly progress reports",
			},
		},
	}
}

// DemoSubscription is the placeholder status for unauthenticated users and
// for failed subscription fetches.
func DemoSubscription() domain.SubscriptionStatus {
	plans := Plans()
	return domain.SubscriptionStatus{
		Active:         true,
		Plan:           domain.FindPlan(plans, "weekly"),
		StartDate:      "2025-06-18",
		EndDate:        "2025-06-25",
		GymAccess:      true,
		MealsRemaining: 15,
	}
}

// Categories are the meal filter chips, "all" first.
func Categories() []domain.Category {
	return []domain.Category{
		{ID: "all", Name: "All"},
		{ID: "protein", Name: "Protein"},
		{ID: "vegan", Name: "Vegan"},
		{ID: "low-carb", Name: "Low-carb"},
		{ID: "keto", Name: "Keto"},
		{ID: "muscle", Name: "Muscle"},
		{ID: "vegetarian", Name: "Vegetarian"},
		{ID: "gluten-free", Name: "Gluten-free"},
		{ID: "breakfast", Name: "Breakfast"},
		{ID: "pescatarian", Name: "Pescatarian"},
		{ID: "plant-based", Name: "Plant-based"},
		{ID: "mediterranean", Name: "Mediterranean"},
		{ID: "balanced", Name: "Balanced"},
		{ID: "high-fat", Name: "High-fat"},
		{ID: "low-fat", Name: "Low-fat"},
	}
}

// Gyms is the partner gym list shown when the remote fetch fails.
func Gyms() []domain.Gym {
	return []domain.Gym{
		{
			ID:        "1",
			Name:      "FitZone",
			ImageURL:  "https://images.unsplash.com/photo-1534438327276-14e5300c3a48?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
			LogoURL:   "https://images.unsplash.com/photo-1517836357463-d25dfeac3438?ixlib=rb-1.2.1&auto=format&fit=crop&w=200&q=80",
			Address:   "123 Fitness Ave, New York, NY",
			Distance:  "1.2 miles",
			Rating:    4.8,
			Amenities: []string{"24/7 Access", "Personal Training", "Group Classes", "Sauna"},
		},
		{
			ID:        "2",
			Name:      "PowerHouse Gym",
			ImageURL:  "https://images.unsplash.com/photo-1571902943202-507ec2618e8f?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
			LogoURL:   "https://images.unsplash.com/photo-1517838277536-f5f99be501cd?ixlib=rb-1.2.1&auto=format&fit=crop&w=200&q=80",
			Address:   "456 Strength St, New York, NY",
			Distance:  "0.8 miles",
			Rating:    4.6,
			Amenities: []string{"Free Weights", "Cardio Equipment", "Protein Bar", "Showers"},
		},
		{
			ID:        "3",
			Name:      "Yoga Haven",
			ImageURL:  "https://images.unsplash.com/photo-1545205597-3d9d02c29597?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
			LogoURL:   "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?ixlib=rb-1.2.1&auto=format&fit=crop&w=200&q=80",
			Address:   "789 Zen Blvd, New York, NY",
			Distance:  "1.5 miles",
			Rating:    4.9,
			Amenities: []string{"Yoga Classes", "Meditation", "Wellness Workshops", "Tea Bar"},
		},
		{
			ID:        "4",
			Name:      "CrossFit Box",
			ImageURL:  "https://images.unsplash.com/photo-1526506118085-60ce8714f8c5?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
			LogoURL:   "https://images.unsplash.com/photo-1533681904393-9ab6eee7e408?ixlib=rb-1.2.1&auto=format&fit=crop&w=200&q=80",
			Address:   "101 Intensity Rd, New York, NY",
			Distance:  "2.1 miles",
			Rating:    4.7,
			Amenities: []string{"CrossFit Classes", "Open Gym", "Olympic Lifting", "Mobility"},
		},
		{
			ID:        "5",
			Name:      "Cardio Club",
			ImageURL:  "https://images.unsplash.com/photo-1570829460005-c840387bb1ca?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
			LogoURL:   "https://images.unsplash.com/photo-1549060279-7e168fcee0c2?ixlib=rb-1.2.1&auto=format&fit=crop&w=200&q=80",
			Address:   "202 Runner Way, New York, NY",
			Distance:  "0.5 miles",
			Rating:    4.5,
			Amenities: []string{"Treadmills", "Ellipticals", "Rowing Machines", "Cycling Studio"},
		},
	}
}
