package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthUser represents an authenticated Supabase user.
type AuthUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Session is an authenticated GoTrue session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	User         *AuthUser `json:"user"`
	ExpiresAt    time.Time `json:"-"`
}

// AuthEvent identifies a session state change.
type AuthEvent string

const (
	AuthSignedIn       AuthEvent = "SIGNED_IN"
	AuthSignedOut      AuthEvent = "SIGNED_OUT"
	AuthTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthListener receives session state changes. The session is nil for
// AuthSignedOut.
type AuthListener func(event AuthEvent, session *Session)

// AuthClient handles GoTrue authentication operations.
type AuthClient struct {
	client *Client

	mu          sync.Mutex
	listeners   map[int]AuthListener
	nextID      int
	stopRefresh chan struct{}
}

// Auth returns the auth client.
func (c *Client) Auth() *AuthClient {
	return &AuthClient{
		client:    c,
		listeners: make(map[int]AuthListener),
	}
}

// SignUp creates a new identity. When email confirmation is disabled on the
// project, the response already carries a usable session.
func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return a.tokenRequest(ctx, "/auth/v1/signup", map[string]string{
		"email":    email,
		"password": password,
	})
}

// SignIn exchanges credentials for a session.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	sess, err := a.tokenRequest(ctx, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	a.notify(AuthSignedIn, sess)
	return sess, nil
}

// RefreshSession exchanges a refresh token for a fresh session.
func (a *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	sess, err := a.tokenRequest(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, err
	}
	a.notify(AuthTokenRefreshed, sess)
	return sess, nil
}

// SignOut invalidates the session server side and notifies listeners.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, "POST", a.client.url+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", a.client.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.client.httpClient.Do(req)
	if err != nil {
		a.notify(AuthSignedOut, nil)
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	a.notify(AuthSignedOut, nil)
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusUnauthorized {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("sign out failed %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// User fetches the user bound to an access token, validating the token in the
// process.
func (a *AuthClient) User(ctx context.Context, accessToken string) (*AuthUser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", a.client.url+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", a.client.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, strings.TrimSpace(string(body)))
	}

	var user AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// OnAuthStateChange registers a listener and returns its unsubscribe func.
// Listeners fire on sign-in, sign-out and token refresh, regardless of
// whether the change came from a direct call or the background refresh loop.
func (a *AuthClient) OnAuthStateChange(fn AuthListener) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.listeners[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}
}

// StartAutoRefresh re-issues the session shortly before it expires and keeps
// listeners informed. Stops on context cancellation, StopAutoRefresh, or a
// failed refresh (which notifies AuthSignedOut).
func (a *AuthClient) StartAutoRefresh(ctx context.Context, session *Session) {
	a.mu.Lock()
	if a.stopRefresh != nil {
		close(a.stopRefresh)
	}
	stop := make(chan struct{})
	a.stopRefresh = stop
	a.mu.Unlock()

	go func() {
		current := session
		for {
			wait := time.Until(current.ExpiresAt) - 30*time.Second
			if wait < time.Second {
				wait = time.Second
			}

			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-time.After(wait):
			}

			refreshed, err := a.RefreshSession(ctx, current.RefreshToken)
			if err != nil {
				a.notify(AuthSignedOut, nil)
				return
			}
			current = refreshed
		}
	}()
}

// StopAutoRefresh stops the background refresh loop, if running.
func (a *AuthClient) StopAutoRefresh() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopRefresh != nil {
		close(a.stopRefresh)
		a.stopRefresh = nil
	}
}

func (a *AuthClient) notify(event AuthEvent, session *Session) {
	a.mu.Lock()
	listeners := make([]AuthListener, 0, len(a.listeners))
	for _, fn := range a.listeners {
		listeners = append(listeners, fn)
	}
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(event, session)
	}
}

func (a *AuthClient) tokenRequest(ctx context.Context, path string, payload map[string]string) (*Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.client.url+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", a.client.anonKey)

	resp, err := a.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, authErrorMessage(respBody, resp.StatusCode))
	}

	var sess Session
	if err := json.Unmarshal(respBody, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	fillSessionFromClaims(&sess)
	return &sess, nil
}

// authErrorMessage extracts the human-readable message from a GoTrue error
// body, which uses either error_description or msg.
func authErrorMessage(body []byte, status int) string {
	var errResp struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.ErrorDescription != "":
			return errResp.ErrorDescription
		case errResp.Msg != "":
			return errResp.Msg
		case errResp.Message != "":
			return errResp.Message
		}
	}
	return fmt.Sprintf("auth error %d", status)
}

// fillSessionFromClaims derives expiry and user identity from the JWT when
// the response body omits them. The signature is not verified here; the
// server remains the authority on token validity.
func fillSessionFromClaims(sess *Session) {
	if sess.ExpiresAt.IsZero() && sess.ExpiresIn > 0 {
		sess.ExpiresAt = time.Now().Add(time.Duration(sess.ExpiresIn) * time.Second)
	}
	if sess.AccessToken == "" {
		return
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(sess.AccessToken, claims); err != nil {
		return
	}

	if sess.ExpiresAt.IsZero() {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			sess.ExpiresAt = exp.Time
		}
	}
	if sess.User == nil {
		sess.User = &AuthUser{}
	}
	if sess.User.ID == "" {
		if sub, err := claims.GetSubject(); err == nil {
			sess.User.ID = sub
		}
	}
	if sess.User.Email == "" {
		if email, ok := claims["email"].(string); ok {
			sess.User.Email = email
		}
	}
	if sess.User.Role == "" {
		if role, ok := claims["role"].(string); ok {
			sess.User.Role = role
		}
	}
}
