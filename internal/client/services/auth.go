// Package services contains application services of the artfolio client.
// This file defines the session controller: the single source of truth for
// who is logged in, kept consistent with the stored credential and with
// changes made to it by other client contexts.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/artfolio/internal/client/client"
	"github.com/dmitrijs2005/artfolio/internal/client/credentials"
	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/logging"
	"github.com/dmitrijs2005/artfolio/internal/models"
)

// AuthService defines session operations for the CLI.
//
// Contract:
//   - CheckAuth: derive the session from the stored credential; never fails.
//   - Login / Signup: authenticate, store the credential, verify the session
//     and navigate to the profile route. Failures are returned unchanged.
//   - Logout: best-effort server logout, then always clear the credential.
//   - RefreshToken: swap the credential for a fresh one; false on failure.
//   - RequireAuth: run fn when authenticated, else navigate to login.
//   - Close: release the change subscription and wait for background checks.
type AuthService interface {
	Mount(ctx context.Context)
	CheckAuth(ctx context.Context)
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, req models.RegisterRequest) error
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) bool
	RequireAuth(fn func()) bool
	State() State
	Subscribe(fn func(State)) (unsubscribe func())
	RunAutoRefresh(ctx context.Context, interval, leeway time.Duration)
	Close()
}

// Phase is the position of the session in its state machine.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseAnonymous
	PhaseAuthenticated
	PhaseChecking
	PhaseAuthenticating
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseChecking:
		return "checking"
	case PhaseAuthenticating:
		return "authenticating"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. IsAuthenticated holds iff User is set
// and a credential is stored.
type State struct {
	User            *models.UserProfile
	Loading         bool
	Error           string
	IsAuthenticated bool
	Phase           Phase
}

// Navigator receives route changes requested by the session.
type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

type Routes struct {
	Home    string
	Login   string
	Profile string
}

func DefaultRoutes() Routes {
	return Routes{Home: "/", Login: "/login", Profile: "/profile"}
}

// ErrNotAuthenticated is returned by Login and Signup when the credential
// was stored but the follow-up profile check did not establish a session.
var ErrNotAuthenticated = errors.New("session not established")

type authService struct {
	api      client.AuthAPI
	store    credentials.Store
	nav      Navigator
	routes   Routes
	logger   logging.Logger
	now      func() time.Time
	baseCtx  context.Context
	cancel   context.CancelFunc
	unsubFn  func()
	bg       sync.WaitGroup
	closeOne sync.Once

	mu        sync.Mutex
	state     State
	settled   Phase
	inflight  int
	epoch     uint64
	closed    bool
	listeners map[int]func(State)
	nextID    int
}

// NewAuthService builds the session controller and subscribes it to
// notifier (which may be nil). Call Close to release the subscription.
func NewAuthService(api client.AuthAPI, store credentials.Store, notifier credentials.Notifier, nav Navigator, routes Routes, logger logging.Logger) AuthService {
	return newAuthService(api, store, notifier, nav, routes, logger)
}

func newAuthService(api client.AuthAPI, store credentials.Store, notifier credentials.Notifier, nav Navigator, routes Routes, logger logging.Logger) *authService {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	if logger == nil {
		logger = logging.Discard()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &authService{
		api:       api,
		store:     store,
		nav:       nav,
		routes:    routes,
		logger:    logger.With("component", "session"),
		now:       time.Now,
		baseCtx:   ctx,
		cancel:    cancel,
		state:     State{Loading: true, Phase: PhaseUnknown},
		listeners: map[int]func(State){},
	}

	if notifier != nil {
		s.unsubFn = notifier.Subscribe(s.onCredentialChange)
	}
	return s
}

// Mount runs the initial session check.
func (s *authService) Mount(ctx context.Context) {
	s.CheckAuth(ctx)
}

func (s *authService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *authService) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// mutate applies fn under the lock and publishes the resulting state.
func (s *authService) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snapshot := s.state
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// begin marks an operation in flight; the returned epoch identifies the
// credential generation it started under.
func (s *authService) begin(phase Phase) uint64 {
	var epoch uint64
	s.mutate(func() {
		s.inflight++
		s.state.Loading = true
		s.state.Phase = phase
		epoch = s.epoch
	})
	return epoch
}

// endLocked closes an operation. Callers hold s.mu.
func (s *authService) endLocked() {
	if s.inflight > 0 {
		s.inflight--
	}
	s.state.Loading = s.inflight > 0
	if !s.state.Loading {
		s.state.Phase = s.settled
	}
}

func (s *authService) settleLocked(user *models.UserProfile, errMsg string) {
	s.state.User = user
	s.state.IsAuthenticated = user != nil
	s.state.Error = errMsg
	if user != nil {
		s.settled = PhaseAuthenticated
	} else {
		s.settled = PhaseAnonymous
	}
}

// CheckAuth derives the session from the stored credential. Failures end
// in the anonymous state with an error message and are not returned. The
// credential is left in place when the profile fetch fails.
func (s *authService) CheckAuth(ctx context.Context) {
	_ = s.checkAuth(ctx)
}

func (s *authService) checkAuth(ctx context.Context) error {
	epoch := s.begin(PhaseChecking)

	cred, err := s.store.Get(ctx)
	if err != nil {
		s.logger.Error(ctx, "cannot read credential", "error", err)
		return s.finishCheck(ctx, epoch, "", nil, err)
	}
	if cred.Empty() {
		return s.finishCheck(ctx, epoch, "", nil, nil)
	}

	user, err := s.api.Profile(ctx)
	if err != nil {
		s.logger.Warn(ctx, "profile fetch failed", "error", err)
	}
	return s.finishCheck(ctx, epoch, cred.Token, user, err)
}

// finishCheck applies the outcome of a check unless it went stale: the
// credential was cleared after the check began, or the stored token is no
// longer the one the check verified.
func (s *authService) finishCheck(ctx context.Context, epoch uint64, token string, user *models.UserProfile, checkErr error) error {
	current, readErr := s.store.Get(ctx)

	stale := false
	s.mutate(func() {
		defer s.endLocked()

		if epoch != s.epoch || (readErr == nil && current.Token != token) {
			stale = true
			return
		}

		switch {
		case checkErr != nil:
			s.settleLocked(nil, client.Describe(checkErr))
		case token == "":
			s.settleLocked(nil, "")
		default:
			s.settleLocked(user, "")
		}
	})

	if stale {
		s.logger.Debug(ctx, "discarding stale session check")
		return ErrNotAuthenticated
	}
	if checkErr != nil {
		return checkErr
	}
	if user == nil {
		return ErrNotAuthenticated
	}
	return nil
}

// Login authenticates, stores the issued credential, verifies the session
// and navigates to the profile route, in that order.
func (s *authService) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, func() (*models.AuthResponse, error) {
		return s.api.Login(ctx, email, password)
	})
}

// Signup registers an account and then behaves like Login.
func (s *authService) Signup(ctx context.Context, req models.RegisterRequest) error {
	return s.authenticate(ctx, func() (*models.AuthResponse, error) {
		return s.api.Register(ctx, req)
	})
}

func (s *authService) authenticate(ctx context.Context, call func() (*models.AuthResponse, error)) error {
	s.begin(PhaseAuthenticating)

	resp, err := call()
	if err == nil {
		err = s.store.Set(ctx, credentials.Credential{Token: resp.Token, Refresh: resp.Refresh})
	}
	if err != nil {
		s.mutate(func() {
			s.settleLocked(nil, client.Describe(err))
			s.endLocked()
		})
		return err
	}

	checkErr := s.checkAuth(ctx)
	s.mutate(s.endLocked)

	if checkErr != nil {
		return fmt.Errorf("verify session: %w", checkErr)
	}

	s.logger.Info(ctx, "logged in", "user", resp.User.Email)
	s.nav.Navigate(s.routes.Profile)
	return nil
}

// Logout tells the server (best effort), clears the credential regardless
// of the outcome and navigates home. Only a failure to clear local storage
// is returned.
func (s *authService) Logout(ctx context.Context) error {
	s.begin(PhaseAuthenticating)

	if cred, err := s.store.Get(ctx); err == nil && !cred.Empty() {
		if err := s.api.Logout(ctx, cred.Refresh); err != nil {
			s.logger.Warn(ctx, "server logout failed", "error", err)
		}
	}

	clearErr := s.store.Clear(ctx)
	s.mutate(func() {
		s.epoch++
		s.settleLocked(nil, "")
		s.endLocked()
	})

	s.logger.Info(ctx, "logged out")
	s.nav.Navigate(s.routes.Home)
	return clearErr
}

// RefreshToken exchanges the stored refresh token for a new credential and
// re-checks the session. It reports false on failure without logging out.
func (s *authService) RefreshToken(ctx context.Context) bool {
	s.begin(PhaseAuthenticating)
	defer s.mutate(s.endLocked)

	cred, err := s.store.Get(ctx)
	if err != nil || cred.Empty() {
		return false
	}

	resp, err := s.api.RefreshToken(ctx, cred.Refresh)
	if err != nil {
		s.logger.Warn(ctx, "token refresh failed", "error", err)
		return false
	}

	next := credentials.Credential{Token: resp.Token, Refresh: resp.Refresh}
	if next.Refresh == "" {
		next.Refresh = cred.Refresh
	}
	if err := s.store.Set(ctx, next); err != nil {
		s.logger.Error(ctx, "cannot store refreshed credential", "error", err)
		return false
	}

	s.CheckAuth(ctx)
	return true
}

// RequireAuth runs fn immediately if the session is authenticated and
// otherwise navigates to the login route.
func (s *authService) RequireAuth(fn func()) bool {
	if !s.State().IsAuthenticated {
		s.nav.Navigate(s.routes.Login)
		return false
	}
	fn()
	return true
}

// onCredentialChange re-derives the session when another context wrote or
// removed the bearer token.
func (s *authService) onCredentialChange(ch credentials.Change) {
	if ch.Key != common.CredentialKey {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.bg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.bg.Done()
		s.logger.Debug(s.baseCtx, "credential changed elsewhere, re-checking session")
		s.CheckAuth(s.baseCtx)
	}()
}

// RunAutoRefresh refreshes the credential whenever its JWT expiry is
// within leeway. Opaque tokens are left alone. Blocks until ctx is done.
func (s *authService) RunAutoRefresh(ctx context.Context, interval, leeway time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshIfExpiring(ctx, leeway)
		}
	}
}

func (s *authService) refreshIfExpiring(ctx context.Context, leeway time.Duration) bool {
	cred, err := s.store.Get(ctx)
	if err != nil || cred.Empty() {
		return false
	}
	exp, ok := credentials.TokenExpiry(cred.Token)
	if !ok || exp.Sub(s.now()) > leeway {
		return false
	}
	s.logger.Debug(ctx, "access token about to expire, refreshing", "expires", exp)
	return s.RefreshToken(ctx)
}

// Close unsubscribes from credential changes and waits for background
// checks to finish.
func (s *authService) Close() {
	s.closeOne.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		if s.unsubFn != nil {
			s.unsubFn()
		}
		s.cancel()
		s.bg.Wait()
	})
}
