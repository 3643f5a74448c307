// Command nutrio is a small console harness around the store layer: it signs
// in (or browses as a guest), then dumps the catalogue, plan, subscription
// and gym state the way a screen would read it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/nutrio-app/nutrio-go/internal/config"
	"github.com/nutrio-app/nutrio-go/internal/database"
	"github.com/nutrio-app/nutrio-go/internal/domain"
	"github.com/nutrio-app/nutrio-go/internal/logger"
	"github.com/nutrio-app/nutrio-go/internal/prefs"
	"github.com/nutrio-app/nutrio-go/internal/store"
)

func main() {
	email := flag.String("email", "", "account email (empty browses as guest)")
	password := flag.String("password", "", "account password")
	subscribe := flag.String("subscribe", "", "subscribe to a plan id (daily, weekly, monthly)")
	gym := flag.Bool("gym", false, "include gym access when subscribing")
	logMeal := flag.String("log-meal", "", "log a catalogue meal id as eaten")
	timeout := flag.Duration("timeout", 30*time.Second, "overall request budget")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	client, err := database.NewClient(database.Config{URL: cfg.SupabaseURL, AnonKey: cfg.SupabaseAnonKey})
	if err != nil {
		log.Fatalf("supabase client: %v", err)
	}
	repo := database.NewRepository(client)

	var local store.Prefs = store.NopPrefs{}
	if cfg.PrefsPath != "" {
		p, err := prefs.Open(cfg.PrefsPath)
		if err != nil {
			log.Fatalf("prefs: %v", err)
		}
		defer p.Close()
		local = p
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	session := store.NewSessionStore(store.SessionDeps{
		Backend: repo,
		Auth:    client.Auth(),
		Tokens:  client,
		Prefs:   local,
		Logger:  zl,
	})
	defer session.Close()

	meals := store.NewMealsStore(store.MealsDeps{
		Backend:   repo,
		Identity:  session,
		Nutrition: session,
		Prefs:     local,
		Logger:    zl,
	})
	subs := store.NewSubscriptionStore(store.SubscriptionDeps{
		Backend:  repo,
		Identity: session,
		Prefs:    local,
		Logger:   zl,
	})
	restaurants := store.NewRestaurantsStore(repo, zl)
	gyms := store.NewGymsStore(repo, zl)

	session.Initialize(ctx)
	if *email != "" {
		if err := session.Login(ctx, *email, *password); err != nil {
			log.Fatalf("login: %v", err)
		}
	}

	user := session.User()
	fmt.Printf("User: %s <%s> (authenticated=%v)\n", user.Name, user.Email, session.Authenticated())
	fmt.Printf("Goals: %.0f kcal / %.0fg protein / %.0fg carbs / %.0fg fat\n",
		user.Goals.Calories, user.Goals.Protein, user.Goals.Carbs, user.Goals.Fat)

	meals.FetchMeals(ctx)
	fmt.Printf("\nMeals (%d available", len(meals.Meals()))
	if c := meals.Category(); c != domain.CategoryAll {
		fmt.Printf(", filter %q: %d match", c, len(meals.FilteredMeals()))
	}
	fmt.Println("):")
	for i, m := range meals.FilteredMeals() {
		if i == 5 {
			fmt.Println("  ...")
			break
		}
		fmt.Printf("  %-24s %4.0f kcal  %s\n", m.Name, m.Macros.Calories, m.RestaurantName)
	}

	if *logMeal != "" {
		if err := meals.LogMealAsEaten(ctx, *logMeal); err != nil {
			log.Fatalf("log meal: %v", err)
		}
		fmt.Printf("\nLogged meal %s as eaten.\n", *logMeal)
	}

	meals.FetchPlannedMeals(ctx)
	for _, day := range meals.PlannedMeals() {
		fmt.Printf("\nPlan %s (%s):\n", day.Date, domain.FormatDisplayDate(day.Date))
		for _, pm := range day.Meals {
			fmt.Printf("  %-10s %s\n", pm.Slot.Label(), pm.Meal.Name)
		}
	}

	subs.FetchPlans(ctx)
	if *subscribe != "" {
		if err := subs.Subscribe(ctx, *subscribe, *gym); err != nil {
			log.Fatalf("subscribe: %v", err)
		}
	}
	subs.FetchSubscription(ctx)
	status := subs.Status()
	fmt.Printf("\nSubscription: active=%v", status.Active)
	if status.Plan != nil {
		fmt.Printf(" plan=%s %s - %s, %d meals left, gym=%v",
			status.Plan.Name,
			domain.FormatDisplayDate(status.StartDate), domain.FormatDisplayDate(status.EndDate),
			status.MealsRemaining, status.GymAccess)
	}
	fmt.Println()

	restaurants.FetchRestaurants(ctx)
	fmt.Printf("\nRestaurants: %d", len(restaurants.Restaurants()))
	if msg := restaurants.Err(); msg != "" {
		fmt.Printf(" (error: %s)", msg)
	}
	fmt.Println()

	gyms.FetchGyms(ctx)
	fmt.Printf("Gyms: %d", len(gyms.Gyms()))
	if msg := gyms.Err(); msg != "" {
		fmt.Printf(" (fallback in use: %s)", msg)
	}
	fmt.Println()
}
