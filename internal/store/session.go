package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nutrio-app/nutrio-go/internal/database"
	"github.com/nutrio-app/nutrio-go/internal/domain"
	"github.com/nutrio-app/nutrio-go/internal/fallback"
	"github.com/nutrio-app/nutrio-go/internal/logger"
)

// SessionBackend is the slice of the repository the session store uses.
type SessionBackend interface {
	database.ProfilesRepository
	database.NutritionRepository
}

// AuthService is the authentication surface the session store depends on.
// *database.AuthClient implements it; tests substitute a fake.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*database.Session, error)
	SignIn(ctx context.Context, email, password string) (*database.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	RefreshSession(ctx context.Context, refreshToken string) (*database.Session, error)
	OnAuthStateChange(fn database.AuthListener) func()
	StartAutoRefresh(ctx context.Context, session *database.Session)
	StopAutoRefresh()
}

// TokenSink receives the session token so table queries run under the user's
// row-level security. *database.Client implements it.
type TokenSink interface {
	SetAccessToken(token string)
	ClearAccessToken()
}

// savedSession is the slice of the session persisted across cold starts. The
// profile itself is always re-fetched from the source of truth.
type savedSession struct {
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

// SessionStore owns the authentication session lifecycle and the signed-in
// user's profile and nutrition history cache. Before login (and after logout)
// it presents the built-in guest profile.
type SessionStore struct {
	backend SessionBackend
	auth    AuthService
	tokens  TokenSink
	prefs   Prefs
	log     *logger.Logger
	now     func() time.Time

	mu            sync.Mutex
	user          domain.UserProfile
	session       *database.Session
	authenticated bool
	loading       bool
	errMsg        string

	unsubscribe func()
}

// SessionDeps wires a session store. Prefs and Logger are optional.
type SessionDeps struct {
	Backend SessionBackend
	Auth    AuthService
	Tokens  TokenSink
	Prefs   Prefs
	Logger  *logger.Logger
}

// NewSessionStore creates the store in the guest state and subscribes to
// auth state changes so externally triggered sign-ins and sign-outs converge
// to the same state as direct Login/Logout calls.
func NewSessionStore(deps SessionDeps) *SessionStore {
	s := &SessionStore{
		backend: deps.Backend,
		auth:    deps.Auth,
		tokens:  deps.Tokens,
		prefs:   deps.Prefs,
		log:     deps.Logger,
		now:     time.Now,
		user:    fallback.GuestProfile(),
	}
	if s.prefs == nil {
		s.prefs = NopPrefs{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.auth != nil {
		s.unsubscribe = s.auth.OnAuthStateChange(s.onAuthEvent)
	}
	return s
}

// Close detaches the store from auth state notifications.
func (s *SessionStore) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// User returns the current profile, guest or authenticated.
func (s *SessionStore) User() domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *SessionStore) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// CurrentUserID implements Identity for the other stores. Empty when not
// authenticated.
func (s *SessionStore) CurrentUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated || s.session == nil || s.session.User == nil {
		return ""
	}
	return s.session.User.ID
}

func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded error message, empty when the last operation
// succeeded.
func (s *SessionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *SessionStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *SessionStore) setErr(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// Initialize restores a persisted session if one exists, otherwise settles
// into the guest state. Errors are recorded, never thrown past this boundary.
func (s *SessionStore) Initialize(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	var saved savedSession
	ok, err := s.prefs.Get(prefSession, &saved)
	if err != nil {
		s.log.Warn("reading saved session failed", "error", err)
	}
	if !ok || saved.RefreshToken == "" {
		s.clearSession()
		s.setErr("")
		return
	}

	sess, err := s.auth.RefreshSession(ctx, saved.RefreshToken)
	if err != nil {
		s.log.Warn("restoring session failed", "error", err)
		s.clearSession()
		s.setErr(err.Error())
		return
	}

	s.adoptSession(sess)
	if err := s.reload(ctx); err != nil {
		s.setErr(err.Error())
		return
	}
	s.setErr("")
}

// Login exchanges credentials for a session and loads the user's data. The
// store never ends up partially authenticated: if the profile load fails the
// session is discarded and the error returned.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("login: %w", err)
	}

	s.adoptSession(sess)
	if err := s.reload(ctx); err != nil {
		s.clearSession()
		s.setErr(err.Error())
		return fmt.Errorf("login: %w", err)
	}
	s.setErr("")
	return nil
}

// DefaultGoals seed every new profile.
var DefaultGoals = domain.DailyGoals{Calories: 2200, Protein: 150, Carbs: 220, Fat: 70}

// Signup creates an identity and its matching profile row. If the profile
// insert fails after the identity exists, the error propagates; the identity
// is left without a profile until the next successful signup or manual fix.
func (s *SessionStore) Signup(ctx context.Context, email, password, name string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	sess, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("signup: %w", err)
	}
	if sess.User == nil || sess.User.ID == "" {
		err := fmt.Errorf("signup: session carries no user id")
		s.setErr(err.Error())
		return err
	}

	s.adoptSession(sess)
	profile, err := s.backend.CreateProfile(ctx, database.ProfileCreate{
		ID:                sess.User.ID,
		Name:              name,
		Email:             email,
		DailyCaloriesGoal: DefaultGoals.Calories,
		DailyProteinGoal:  DefaultGoals.Protein,
		DailyCarbsGoal:    DefaultGoals.Carbs,
		DailyFatGoal:      DefaultGoals.Fat,
	})
	if err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("signup: create profile: %w", err)
	}

	s.mu.Lock()
	s.user = domain.ProfileFromRow(*profile)
	s.mu.Unlock()
	s.setErr("")
	return nil
}

// Logout invalidates the remote session and reverts to the guest state. The
// local state is cleared even when the remote call fails.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	token := ""
	if s.session != nil {
		token = s.session.AccessToken
	}
	s.mu.Unlock()

	var err error
	if token != "" {
		err = s.auth.SignOut(ctx, token)
	}
	s.clearSession()
	if err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("logout: %w", err)
	}
	s.setErr("")
	return nil
}

// UserUpdate is the partial profile mutation surface. Nil fields are left
// untouched.
type UserUpdate struct {
	Name  *string
	Goals *domain.DailyGoals
}

// UpdateUser writes the provided fields and then reloads the profile from the
// source of truth rather than trusting the input locally.
func (s *SessionStore) UpdateUser(ctx context.Context, update UserUpdate) error {
	userID := s.CurrentUserID()
	if userID == "" {
		return fmt.Errorf("update user: %w: not authenticated", database.ErrUnauthorized)
	}

	patch := database.ProfileUpdate{Name: update.Name}
	if update.Goals != nil {
		patch.DailyCaloriesGoal = &update.Goals.Calories
		patch.DailyProteinGoal = &update.Goals.Protein
		patch.DailyCarbsGoal = &update.Goals.Carbs
		patch.DailyFatGoal = &update.Goals.Fat
	}

	if _, err := s.backend.UpdateProfile(ctx, userID, patch); err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("update user: %w", err)
	}

	if err := s.loadProfile(ctx); err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("update user: reload profile: %w", err)
	}
	s.setErr("")
	return nil
}

// FetchUserProfile refreshes the profile row. A no-op when unauthenticated;
// failures are recorded, not returned.
func (s *SessionStore) FetchUserProfile(ctx context.Context) {
	if s.CurrentUserID() == "" {
		return
	}
	if err := s.loadProfile(ctx); err != nil {
		s.log.Warn("profile fetch failed", "error", err)
		s.setErr(err.Error())
		return
	}
	s.setErr("")
}

// FetchNutritionProgress refreshes the recent nutrition history. A no-op when
// unauthenticated; failures are recorded, not returned.
func (s *SessionStore) FetchNutritionProgress(ctx context.Context) {
	if s.CurrentUserID() == "" {
		return
	}
	if err := s.loadProgress(ctx); err != nil {
		s.log.Warn("nutrition fetch failed", "error", err)
		s.setErr(err.Error())
		return
	}
	s.setErr("")
}

// progressWindow caps how much nutrition history is kept in memory.
const progressWindow = 30

// LogNutrition adds the macros to today's log entry, creating it on the first
// log of the day, then re-fetches the history so the cache matches the source
// of truth exactly.
func (s *SessionStore) LogNutrition(ctx context.Context, macros domain.Macros) error {
	userID := s.CurrentUserID()
	if userID == "" {
		return fmt.Errorf("log nutrition: %w: not authenticated", database.ErrUnauthorized)
	}

	today := s.now().Format(database.DateLayout)
	entry, err := s.backend.GetNutritionLogByDate(ctx, userID, today)
	switch {
	case database.IsNotFound(err):
		_, err = s.backend.CreateNutritionLog(ctx, database.NutritionLogCreate{
			UserID:   userID,
			Date:     today,
			Calories: macros.Calories,
			Protein:  macros.Protein,
			Carbs:    macros.Carbs,
			Fat:      macros.Fat,
		})
	case err == nil:
		_, err = s.backend.UpdateNutritionTotals(ctx, entry.ID, database.NutritionTotals{
			Calories: entry.Calories + macros.Calories,
			Protein:  entry.Protein + macros.Protein,
			Carbs:    entry.Carbs + macros.Carbs,
			Fat:      entry.Fat + macros.Fat,
		})
	}
	if err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("log nutrition: %w", err)
	}

	if err := s.loadProgress(ctx); err != nil {
		s.setErr(err.Error())
		return fmt.Errorf("log nutrition: refresh progress: %w", err)
	}
	s.setErr("")
	return nil
}

// reload fetches profile and nutrition history concurrently.
func (s *SessionStore) reload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.loadProfile(ctx) })
	g.Go(func() error { return s.loadProgress(ctx) })
	return g.Wait()
}

func (s *SessionStore) loadProfile(ctx context.Context) error {
	userID := s.CurrentUserID()
	if userID == "" {
		return nil
	}
	row, err := s.backend.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	progress := s.user.Progress
	s.user = domain.ProfileFromRow(*row)
	s.user.Progress = progress
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) loadProgress(ctx context.Context) error {
	userID := s.CurrentUserID()
	if userID == "" {
		return nil
	}
	logs, err := s.backend.ListRecentNutritionLogs(ctx, userID, progressWindow)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user.Progress = domain.ProgressFromLogs(logs)
	s.mu.Unlock()
	return nil
}

// adoptSession marks the store authenticated and persists the restart slice.
func (s *SessionStore) adoptSession(sess *database.Session) {
	s.mu.Lock()
	s.session = sess
	s.authenticated = true
	s.mu.Unlock()

	if s.tokens != nil {
		s.tokens.SetAccessToken(sess.AccessToken)
	}

	saved := savedSession{RefreshToken: sess.RefreshToken}
	if sess.User != nil {
		saved.UserID = sess.User.ID
	}
	if err := s.prefs.Set(prefSession, saved); err != nil {
		s.log.Warn("persisting session failed", "error", err)
	}

	if s.auth != nil {
		s.auth.StartAutoRefresh(context.Background(), sess)
	}
}

// clearSession reverts to the guest state.
func (s *SessionStore) clearSession() {
	s.mu.Lock()
	s.session = nil
	s.authenticated = false
	s.user = fallback.GuestProfile()
	s.mu.Unlock()

	if s.tokens != nil {
		s.tokens.ClearAccessToken()
	}
	if err := s.prefs.Delete(prefSession); err != nil {
		s.log.Warn("clearing saved session failed", "error", err)
	}

	if s.auth != nil {
		s.auth.StopAutoRefresh()
	}
}

// onAuthEvent reconciles externally triggered session changes (for example a
// background token refresh) with the store. It converges to the same state as
// the direct Login/Logout paths.
func (s *SessionStore) onAuthEvent(event database.AuthEvent, sess *database.Session) {
	switch event {
	case database.AuthSignedIn, database.AuthTokenRefreshed:
		if sess == nil {
			return
		}
		s.adoptSession(sess)
		if err := s.reload(context.Background()); err != nil {
			s.log.Warn("reload after auth event failed", "event", event, "error", err)
			s.setErr(err.Error())
		}
	case database.AuthSignedOut:
		s.clearSession()
	}
}
