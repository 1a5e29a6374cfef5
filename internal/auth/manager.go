// Package auth owns the authentication session: the single source of truth
// for "who is signed in", with durable recovery across restarts.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"delicia/internal/backend"
	"delicia/internal/session"
)

// ErrInvalidCredentialsInput rejects blank credentials before any I/O.
var ErrInvalidCredentialsInput = errors.New("email and password are required")

// APIClient is the slice of the backend client the manager needs.
type APIClient interface {
	SignIn(ctx context.Context, email, password string) (backend.Credentials, error)
	SetToken(token string)
}

// Session is the in-memory authentication state. Held exclusively by the
// Manager; cleared as a whole on logout.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	UserEmail    string
}

type Manager struct {
	store  session.Store
	client APIClient
	log    logrus.FieldLogger

	mu      sync.RWMutex
	current Session
}

func NewManager(store session.Store, client APIClient, logger logrus.FieldLogger) *Manager {
	return &Manager{store: store, client: client, log: logger}
}

// SignIn authenticates against the backend. Once the remote call succeeds the
// sign-in is successful: persistence failures only degrade durability and are
// logged, never propagated.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return ErrInvalidCredentialsInput
	}

	creds, err := m.client.SignIn(ctx, email, password)
	if err != nil {
		m.log.Warnf("auth: sign in failed for %s: %v", email, err)
		return err
	}

	userEmail := creds.Email
	if userEmail == "" {
		userEmail = email
	}

	m.mu.Lock()
	m.current = Session{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		UserID:       creds.UserID,
		UserEmail:    userEmail,
	}
	m.mu.Unlock()

	m.persist(creds)
	m.client.SetToken(creds.AccessToken)
	m.log.Infof("auth: signed in user %s", creds.UserID)
	return nil
}

func (m *Manager) persist(creds backend.Credentials) {
	if creds.AccessToken != "" {
		if err := m.store.Set(session.KeyAccessToken, creds.AccessToken); err != nil {
			m.log.Warnf("auth: persist access token: %v", err)
		}
	}
	if creds.UserID != "" {
		if err := m.store.Set(session.KeyUserID, creds.UserID); err != nil {
			m.log.Warnf("auth: persist user id: %v", err)
		}
	}
	if creds.RefreshToken != "" {
		if err := m.store.Set(session.KeyRefreshToken, creds.RefreshToken); err != nil {
			m.log.Warnf("auth: persist refresh token: %v", err)
		}
	}
}

// LoadFromStorage repopulates the session at process start. Every failure is
// swallowed: an empty session is the expected guest startup, not an error.
func (m *Manager) LoadFromStorage() {
	token, err := m.store.Get(session.KeyAccessToken)
	if err != nil {
		m.log.Debugf("auth: load token from storage: %v", err)
		return
	}
	userID, err := m.store.Get(session.KeyUserID)
	if err != nil {
		m.log.Debugf("auth: load user id from storage: %v", err)
		userID = ""
	}

	if token == "" {
		return
	}

	m.mu.Lock()
	m.current.AccessToken = token
	m.current.UserID = userID
	m.mu.Unlock()

	m.client.SetToken(token)
	m.log.Debug("auth: session restored from storage")
}

// Logout clears the session. Idempotent; each durable key removal is
// independently best-effort so one failure never blocks the rest.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.current = Session{}
	m.mu.Unlock()

	for _, key := range []string{session.KeyAccessToken, session.KeyUserID, session.KeyRefreshToken} {
		if err := m.store.Remove(key); err != nil {
			m.log.Warnf("auth: remove %s: %v", key, err)
		}
	}

	m.client.SetToken("")
	m.log.Info("auth: logged out")
}

// AccessToken returns the in-memory token, falling back to a one-shot read
// from durable storage. App start order does not guarantee LoadFromStorage
// ran before every consumer.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	token := m.current.AccessToken
	m.mu.RUnlock()
	if token != "" {
		return token
	}

	stored, err := m.store.Get(session.KeyAccessToken)
	if err != nil {
		m.log.Debugf("auth: recover token from storage: %v", err)
		return ""
	}
	return stored
}

// IsAuthenticated reports whether an access token is loaded in memory. No
// validity check is made client-side; an expired token reads as authenticated
// until the backend rejects a call.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.AccessToken != ""
}

func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.UserID
}

func (m *Manager) UserEmail() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.UserEmail
}
