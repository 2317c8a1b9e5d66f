// package session owns the signed-in account.
//
// A [Session] is created once by the program and passed explicitly to the
// services client (as an [oauth2.TokenSource]) and to the UI. Nothing reads
// identity from a global.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	"golang.org/x/oauth2"
)

// Store persists the current account between runs.
type Store interface {
	Load() (*models.CurrentUser, error)
	Save(u *models.CurrentUser) error
	Delete() error
}

// Session holds the current account and notifies subscribers when it changes.
type Session struct {
	mu      sync.RWMutex
	store   Store
	logger  *log.Logger
	current *models.CurrentUser
	subs    map[int]func(*models.CurrentUser)
	nextSub int
}

var _ oauth2.TokenSource = (*Session)(nil)

// New creates a signed-out [Session]. A nil store keeps the session in memory only.
func New(store Store, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
		logger.SetLevel(log.WarnLevel)
	}
	return &Session{store: store, logger: logger, subs: map[int]func(*models.CurrentUser){}}
}

// Load restores the stored account, if any, and returns it.
//
// A missing session is not an error; Load returns nil.
func (s *Session) Load() (*models.CurrentUser, error) {
	if s.store == nil {
		return s.Current(), nil
	}

	u, err := s.store.Load()
	if errors.Is(err, shared.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	s.set(u)
	s.logger.Debug("restored session", "user", u.Email, "role", u.Role)
	return u, nil
}

// SignIn replaces the current account with the one in resp and persists it.
func (s *Session) SignIn(resp models.AuthResponse) (*models.CurrentUser, error) {
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response has no token", shared.ErrServer)
	}

	u := models.NewCurrentUser(shared.GenerateID(), resp)
	if s.store != nil {
		if err := s.store.Save(u); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}

	s.set(u)
	s.logger.Info("signed in", "user", u.Email, "role", u.Role)
	return u, nil
}

// Clear signs out. It is safe to call when already signed out.
func (s *Session) Clear() error {
	if s.store != nil {
		if err := s.store.Delete(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
	}

	if s.Current() != nil {
		s.logger.Info("signed out")
	}
	s.set(nil)
	return nil
}

// Current returns a copy of the signed-in account, or nil.
func (s *Session) Current() *models.CurrentUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// SignedIn reports whether an account is present.
func (s *Session) SignedIn() bool {
	return s.Current() != nil
}

// IsAdmin reports whether the signed-in account has the admin role.
func (s *Session) IsAdmin() bool {
	return s.Current().IsAdmin()
}

// Token implements [oauth2.TokenSource] with the account's bearer token.
func (s *Session) Token() (*oauth2.Token, error) {
	u := s.Current()
	if u == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: u.Token, TokenType: "Bearer", Expiry: u.Expiry}, nil
}

// Subscribe registers fn to be called with the new account (nil when signed out)
// after every change. The returned func unregisters it.
func (s *Session) Subscribe(fn func(*models.CurrentUser)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) set(u *models.CurrentUser) {
	s.mu.Lock()
	s.current = u
	subs := make([]func(*models.CurrentUser), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		var cp *models.CurrentUser
		if u != nil {
			c := *u
			cp = &c
		}
		fn(cp)
	}
}
