package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newClientWithHandler spins up an httptest server backed by the handler and
// returns a client pointed at it.
func newClientWithHandler(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		URL:        srv.URL,
		AnonKey:    "test-anon-key",
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestNewClientRequiresURLAndKey(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")

	if _, err := NewClient(Config{AnonKey: "k"}); err == nil {
		t.Fatal("expected error for missing URL")
	}
	if _, err := NewClient(Config{URL: "http://localhost"}); err == nil {
		t.Fatal("expected error for missing anon key")
	}
}

func TestNewClientFallsBackToEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "http://example.test/")
	t.Setenv("SUPABASE_ANON_KEY", "env-key")

	client, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.url != "http://example.test" {
		t.Errorf("url = %q, want trailing slash trimmed", client.url)
	}
	if client.anonKey != "env-key" {
		t.Errorf("anonKey = %q", client.anonKey)
	}
}

func TestRequestHeaders(t *testing.T) {
	var gotAPIKey, gotAuth, gotPrefer string
	client, _ := newClientWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotPrefer = r.Header.Get("Prefer")
		w.Write([]byte("[]"))
	})

	if _, err := client.request(context.Background(), "GET", "meals", nil, ""); err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotAPIKey != "test-anon-key" {
		t.Errorf("apikey = %q", gotAPIKey)
	}
	if gotAuth != "Bearer test-anon-key" {
		t.Errorf("Authorization = %q, want anon key bearer", gotAuth)
	}
	if gotPrefer != "return=representation" {
		t.Errorf("Prefer = %q", gotPrefer)
	}
}

func TestRequestUsesAccessTokenWhenSet(t *testing.T) {
	var gotAuth, gotAPIKey string
	client, _ := newClientWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		w.Write([]byte("[]"))
	})

	client.SetAccessToken("user-jwt")
	if _, err := client.request(context.Background(), "GET", "profiles", nil, ""); err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotAuth != "Bearer user-jwt" {
		t.Errorf("Authorization = %q, want user token", gotAuth)
	}
	if gotAPIKey != "test-anon-key" {
		t.Errorf("apikey = %q, must stay the anon key", gotAPIKey)
	}

	client.ClearAccessToken()
	if _, err := client.request(context.Background(), "GET", "profiles", nil, ""); err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotAuth != "Bearer test-anon-key" {
		t.Errorf("Authorization = %q after clear, want anon key", gotAuth)
	}
}

func TestRequestMapsAuthFailures(t *testing.T) {
	client, _ := newClientWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"JWT expired"}`, http.StatusUnauthorized)
	})

	_, err := client.request(context.Background(), "GET", "profiles", nil, "")
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestRequestBuildsTableURL(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newClientWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte("[]"))
	})

	if _, err := client.request(context.Background(), "GET", "meals", nil, "available=eq.true"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotPath != "/rest/v1/meals" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "available=eq.true" {
		t.Errorf("query = %q", gotQuery)
	}
}
