package session

import (
	"errors"
	"testing"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

type memStore struct {
	user    *models.CurrentUser
	saveErr error
	deletes int
}

func (m *memStore) Load() (*models.CurrentUser, error) {
	if m.user == nil {
		return nil, shared.ErrSessionNotFound
	}
	u := *m.user
	return &u, nil
}

func (m *memStore) Save(u *models.CurrentUser) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	c := *u
	m.user = &c
	return nil
}

func (m *memStore) Delete() error {
	m.deletes++
	m.user = nil
	return nil
}

var adminLogin = models.AuthResponse{Token: "tok", ID: 1, Email: "admin@example.com", FullName: "Admin", Role: models.RoleAdmin}

func TestSession(t *testing.T) {
	t.Run("Starts Signed Out", func(t *testing.T) {
		s := New(&memStore{}, nil)

		if s.SignedIn() || s.IsAdmin() || s.Current() != nil {
			t.Error("new session should be signed out")
		}
		if _, err := s.Token(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("SignIn Persists And Exposes Token", func(t *testing.T) {
		store := &memStore{}
		s := New(store, nil)

		u, err := s.SignIn(adminLogin)
		if err != nil {
			t.Fatalf("failed to sign in: %v", err)
		}
		if u.SessionID == "" {
			t.Error("expected a session ID")
		}
		if store.user == nil || store.user.Token != "tok" {
			t.Error("session should be persisted")
		}
		if !s.IsAdmin() {
			t.Error("expected admin role")
		}

		tok, err := s.Token()
		if err != nil {
			t.Fatalf("unexpected token error: %v", err)
		}
		if tok.AccessToken != "tok" || tok.Type() != "Bearer" {
			t.Errorf("unexpected token: %+v", tok)
		}
	})

	t.Run("SignIn Without Token", func(t *testing.T) {
		s := New(&memStore{}, nil)
		if _, err := s.SignIn(models.AuthResponse{ID: 1}); !errors.Is(err, shared.ErrServer) {
			t.Errorf("expected ErrServer, got %v", err)
		}
		if s.SignedIn() {
			t.Error("failed sign-in should leave the session signed out")
		}
	})

	t.Run("SignIn Store Failure", func(t *testing.T) {
		s := New(&memStore{saveErr: errors.New("disk full")}, nil)
		if _, err := s.SignIn(adminLogin); err == nil {
			t.Error("expected save error")
		}
		if s.SignedIn() {
			t.Error("unsaved sign-in should not take effect")
		}
	})

	t.Run("Load Restores Stored Account", func(t *testing.T) {
		store := &memStore{user: &models.CurrentUser{ID: 2, Email: "user@example.com", Role: models.RoleUser, Token: "t2"}}
		s := New(store, nil)

		u, err := s.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if u == nil || u.ID != 2 {
			t.Fatalf("expected restored account, got %+v", u)
		}
		if s.IsAdmin() {
			t.Error("user account should not be admin")
		}
	})

	t.Run("Load Without Stored Account", func(t *testing.T) {
		u, err := New(&memStore{}, nil).Load()
		if err != nil || u != nil {
			t.Errorf("expected nil account and no error, got %+v, %v", u, err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		store := &memStore{}
		s := New(store, nil)
		s.SignIn(adminLogin)

		if err := s.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if s.SignedIn() || store.user != nil {
			t.Error("session should be cleared in memory and in the store")
		}
		if err := s.Clear(); err != nil {
			t.Errorf("clearing twice should succeed, got %v", err)
		}
	})

	t.Run("Current Returns Copy", func(t *testing.T) {
		s := New(nil, nil)
		s.SignIn(adminLogin)

		u := s.Current()
		u.Role = models.RoleUser
		if !s.IsAdmin() {
			t.Error("mutating the returned account should not change the session")
		}
	})

	t.Run("Subscribe", func(t *testing.T) {
		s := New(nil, nil)

		var seen []*models.CurrentUser
		unsubscribe := s.Subscribe(func(u *models.CurrentUser) { seen = append(seen, u) })

		s.SignIn(adminLogin)
		s.Clear()
		unsubscribe()
		s.SignIn(adminLogin)

		if len(seen) != 2 {
			t.Fatalf("expected 2 notifications, got %d", len(seen))
		}
		if seen[0] == nil || seen[0].Email != "admin@example.com" {
			t.Errorf("expected sign-in notification, got %+v", seen[0])
		}
		if seen[1] != nil {
			t.Errorf("expected sign-out notification, got %+v", seen[1])
		}
	})
}
