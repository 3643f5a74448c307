// Package store implements the client-side domain state layer: owned state
// containers that mirror remote rows, refresh after every mutation, and
// degrade to built-in fallbacks when the remote service fails.
package store

// Identity exposes the signed-in user to the stores that scope their queries.
// The session store implements it; tests substitute a fake.
type Identity interface {
	CurrentUserID() string
	Authenticated() bool
}

// Prefs is the narrow durable storage each store uses to survive cold starts.
// Values round-trip through JSON.
type Prefs interface {
	Get(key string, v interface{}) (bool, error)
	Set(key string, v interface{}) error
	Delete(key string) error
}

// Pref keys. Each store persists a deliberately small slice of its state;
// remote rows are never trusted from cache.
const (
	prefSession      = "session"
	prefMealCategory = "meal_category"
	prefPlans        = "plans"
)

// NopPrefs discards writes and never finds keys, for running without local
// persistence.
type NopPrefs struct{}

func (NopPrefs) Get(string, interface{}) (bool, error) { return false, nil }
func (NopPrefs) Set(string, interface{}) error         { return nil }
func (NopPrefs) Delete(string) error                   { return nil }

// StaticIdentity is a fixed identity, useful for tests and tooling.
type StaticIdentity struct {
	UserID string
}

func (s StaticIdentity) CurrentUserID() string { return s.UserID }
func (s StaticIdentity) Authenticated() bool   { return s.UserID != "" }
