package client

import (
	"context" // Request scoped context
	"errors"  // Sentinel errors
	"strings" // Input trimming
	"sync"    // Listener and state locking

	"github.com/sirupsen/logrus" // Logging library
)

// ErrNotAuthenticated is returned when a session has no token to resolve
var ErrNotAuthenticated = errors.New("not authenticated")

// State is a snapshot of the session
type State struct {
	Authenticated bool
	User          *User
}

// Session owns the token and identity of the console user. Every failure to
// resolve the identity invalidates it.
type Session struct {
	client *Client
	store  TokenStore

	mu        sync.Mutex
	user      *User
	listeners []func(State)
}

// NewSession creates a session over client. store may be nil.
func NewSession(c *Client, store TokenStore) *Session {
	return &Session{client: c, store: store}
}

// Client returns the API client carrying this session's token
func (s *Session) Client() *Client { return s.client }

// OnChange registers a listener called after every login and invalidation
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// State returns the current session state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Authenticated: s.user != nil, User: s.user}
}

// Restore loads a persisted token and resolves it. A missing token leaves
// the session unauthenticated without error.
func (s *Session) Restore(ctx context.Context) (*User, error) {
	if s.store == nil {
		return nil, ErrNotAuthenticated
	}
	token, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	s.client.SetToken(token) // Validated by Resolve
	return s.Resolve(ctx)
}

// Login authenticates, persists the token and resolves the identity
func (s *Session) Login(ctx context.Context, username, password string) (*User, error) {
	token, err := s.client.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return nil, err
	}
	s.client.SetToken(token)
	if s.store != nil {
		if err := s.store.Save(token); err != nil {
			logrus.WithError(err).Warn("failed to persist session token")
		}
	}
	return s.Resolve(ctx)
}

// Register creates the account and then logs in with it
func (s *Session) Register(ctx context.Context, username, password string) (*User, error) {
	if err := s.client.Register(ctx, strings.TrimSpace(username), password); err != nil {
		return nil, err
	}
	return s.Login(ctx, username, password)
}

// Resolve fetches the identity behind the current token
func (s *Session) Resolve(ctx context.Context) (*User, error) {
	if s.client.Token() == "" {
		s.Invalidate()
		return nil, ErrNotAuthenticated
	}
	u, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.Invalidate() // Any failure drops the token
		return nil, err
	}
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	s.notify()
	return u, nil
}

// Logout revokes the token server side, ignoring failures, and invalidates
func (s *Session) Logout(ctx context.Context) {
	if s.client.Token() != "" {
		if err := s.client.Logout(ctx); err != nil {
			logrus.WithError(err).Debug("server logout failed")
		}
	}
	s.Invalidate()
}

// Invalidate forgets the token and identity and clears the persisted token
func (s *Session) Invalidate() {
	s.client.SetToken("")
	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			logrus.WithError(err).Warn("failed to clear session token")
		}
	}
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.notify()
}

func (s *Session) notify() {
	state := s.State()
	s.mu.Lock()
	listeners := append([]func(State){}, s.listeners...) // Called without the lock
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(state)
	}
}
