// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	SupabaseURL     string
	SupabaseAnonKey string

	// PrefsPath is the sqlite file holding the persisted session and local
	// preferences. Empty means persistence is disabled.
	PrefsPath string

	// LogMode selects the logger preset, "dev" or "prod".
	LogMode string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; missing files are not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		PrefsPath:       os.Getenv("NUTRIO_PREFS_PATH"),
		LogMode:         os.Getenv("NUTRIO_LOG_MODE"),
	}
	if cfg.LogMode == "" {
		cfg.LogMode = "dev"
	}

	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	return cfg, nil
}
