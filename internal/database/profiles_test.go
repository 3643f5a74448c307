package database

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func newRepoWithHandler(t *testing.T, handler http.HandlerFunc) *Repository {
	t.Helper()
	client, _ := newClientWithHandler(t, handler)
	return NewRepository(client)
}

func TestGetProfile(t *testing.T) {
	repo := newRepoWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/profiles" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "eq.user-1" {
			t.Errorf("id filter = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("limit = %q", got)
		}
		json.NewEncoder(w).Encode([]Profile{{ID: "user-1", Name: "Bader", Email: "bader@example.com", DailyCaloriesGoal: 2200}})
	})

	p, err := repo.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Name != "Bader" || p.DailyCaloriesGoal != 2200 {
		t.Errorf("profile = %+v", p)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	repo := newRepoWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	_, err := repo.GetProfile(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGetProfileEmptyID(t *testing.T) {
	repo := NewRepository(nil)
	if _, err := repo.GetProfile(context.Background(), "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nil client: err = %v", err)
	}

	repo = newRepoWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be made")
	})
	if _, err := repo.GetProfile(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank id: err = %v", err)
	}
}

func TestUpdateProfileSendsOnlySetFields(t *testing.T) {
	var body map[string]interface{}
	repo := newRepoWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" {
			t.Errorf("method = %q", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode([]Profile{{ID: "user-1", Name: "Sara"}})
	})

	name := "Sara"
	if _, err := repo.UpdateProfile(context.Background(), "user-1", ProfileUpdate{Name: &name}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if len(body) != 1 || body["name"] != "Sara" {
		t.Errorf("patch body = %v, want only name", body)
	}
}

func TestCreateProfileValidates(t *testing.T) {
	repo := newRepoWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be made")
	})

	_, err := repo.CreateProfile(context.Background(), ProfileCreate{Name: "no id"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
}
