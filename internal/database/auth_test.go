package database

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"
)

// testJWT builds an unsigned token carrying the given claims. Claim parsing
// here never verifies signatures, so a fake one is enough.
func testJWT(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	enc := func(v interface{}) string {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal claims: %v", err)
		}
		return base64.RawURLEncoding.EncodeToString(b)
	}
	header := enc(map[string]string{"alg": "HS256", "typ": "JWT"})
	return fmt.Sprintf("%s.%s.%s", header, enc(claims), base64.RawURLEncoding.EncodeToString([]byte("sig")))
}

func newAuthWithHandler(t *testing.T, handler http.HandlerFunc) *AuthClient {
	t.Helper()
	client, _ := newClientWithHandler(t, handler)
	return client.Auth()
}

func TestSignInReturnsSession(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	token := testJWT(t, map[string]interface{}{
		"sub":   "user-1",
		"email": "bader@example.com",
		"exp":   exp,
	})

	auth := newAuthWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("grant_type"); got != "password" {
			t.Errorf("grant_type = %q", got)
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "bader@example.com" || creds["password"] != "secret" {
			t.Errorf("credentials = %v", creds)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  token,
			"token_type":    "bearer",
			"refresh_token": "refresh-1",
		})
	})

	sess, err := auth.SignIn(context.Background(), "bader@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if sess.User == nil || sess.User.ID != "user-1" {
		t.Fatalf("user not derived from claims: %+v", sess.User)
	}
	if sess.User.Email != "bader@example.com" {
		t.Errorf("email = %q", sess.User.Email)
	}
	if sess.ExpiresAt.Unix() != exp {
		t.Errorf("ExpiresAt = %v, want claim exp", sess.ExpiresAt)
	}
}

func TestSignInBadCredentials(t *testing.T) {
	auth := newAuthWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
	})

	_, err := auth.SignIn(context.Background(), "bader@example.com", "wrong")
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestSignUpHitsSignupEndpoint(t *testing.T) {
	auth := newAuthWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  testJWT(t, map[string]interface{}{"sub": "new-user"}),
			"refresh_token": "refresh-1",
			"expires_in":    3600,
		})
	})

	sess, err := auth.SignUp(context.Background(), "new@example.com", "secret")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if sess.User == nil || sess.User.ID != "new-user" {
		t.Errorf("user = %+v", sess.User)
	}
	if sess.ExpiresAt.IsZero() {
		t.Error("ExpiresAt not derived from expires_in")
	}
}

func TestRefreshSessionNotifiesListeners(t *testing.T) {
	auth := newAuthWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  testJWT(t, map[string]interface{}{"sub": "user-1"}),
			"refresh_token": "refresh-2",
			"expires_in":    3600,
		})
	})

	var events []AuthEvent
	unsubscribe := auth.OnAuthStateChange(func(event AuthEvent, _ *Session) {
		events = append(events, event)
	})
	defer unsubscribe()

	sess, err := auth.RefreshSession(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("RefreshSession: %v", err)
	}
	if sess.RefreshToken != "refresh-2" {
		t.Errorf("refresh token = %q", sess.RefreshToken)
	}
	if len(events) != 1 || events[0] != AuthTokenRefreshed {
		t.Errorf("events = %v", events)
	}
}

func TestSignOutNotifiesEvenOnServerError(t *testing.T) {
	auth := newAuthWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/logout" {
			t.Errorf("path = %q", r.URL.Path)
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	var events []AuthEvent
	defer auth.OnAuthStateChange(func(event AuthEvent, _ *Session) {
		events = append(events, event)
	})()

	if err := auth.SignOut(context.Background(), "user-jwt"); err == nil {
		t.Fatal("expected error from server failure")
	}
	if len(events) != 1 || events[0] != AuthSignedOut {
		t.Errorf("events = %v, sign-out must still be announced", events)
	}
}

func TestOnAuthStateChangeUnsubscribe(t *testing.T) {
	auth := newAuthWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  testJWT(t, map[string]interface{}{"sub": "user-1"}),
			"refresh_token": "refresh-1",
			"expires_in":    3600,
		})
	})

	calls := 0
	unsubscribe := auth.OnAuthStateChange(func(AuthEvent, *Session) { calls++ })

	if _, err := auth.SignIn(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	unsubscribe()
	if _, err := auth.SignIn(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestAutoRefreshReissuesSession(t *testing.T) {
	auth := newAuthWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  testJWT(t, map[string]interface{}{"sub": "user-1"}),
			"refresh_token": "refresh-2",
			"expires_in":    3600,
		})
	})

	events := make(chan AuthEvent, 1)
	defer auth.OnAuthStateChange(func(event AuthEvent, _ *Session) {
		select {
		case events <- event:
		default:
		}
	})()

	// Already past the refresh threshold, so the loop fires after its
	// minimum one second wait.
	auth.StartAutoRefresh(context.Background(), &Session{
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now(),
	})
	defer auth.StopAutoRefresh()

	select {
	case event := <-events:
		if event != AuthTokenRefreshed {
			t.Fatalf("event = %v, want token refresh", event)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("refresh loop never fired")
	}
}

func TestAuthErrorMessage(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"error_description":"bad creds"}`, "bad creds"},
		{`{"msg":"user exists"}`, "user exists"},
		{`{"message":"rate limited"}`, "rate limited"},
		{`not json`, "auth error 400"},
	}
	for _, c := range cases {
		if got := authErrorMessage([]byte(c.body), 400); got != c.want {
			t.Errorf("authErrorMessage(%q) = %q, want %q", c.body, got, c.want)
		}
	}
}
