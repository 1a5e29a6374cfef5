package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delicia/internal/backend"
	"delicia/internal/session"
)

type stubClient struct {
	creds     backend.Credentials
	err       error
	signIns   int
	lastToken string
	tokenSets int
}

func (c *stubClient) SignIn(ctx context.Context, email, password string) (backend.Credentials, error) {
	c.signIns++
	return c.creds, c.err
}

func (c *stubClient) SetToken(token string) {
	c.lastToken = token
	c.tokenSets++
}

type failingStore struct{}

func (failingStore) Get(key string) (string, error)   { return "", session.ErrUnavailable }
func (failingStore) Set(key, value string) error      { return session.ErrUnavailable }
func (failingStore) Remove(key string) error          { return session.ErrUnavailable }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func validCreds() backend.Credentials {
	return backend.Credentials{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		UserID:       "5f0b3a52-9c1f-4f5e-8f5a-2f9f4b6f1a01",
		Email:        "cliente@ejemplo.com",
	}
}

func TestSignInRejectsBlankInput(t *testing.T) {
	client := &stubClient{}
	m := NewManager(session.NewMemory(), client, testLogger())

	require.ErrorIs(t, m.SignIn(context.Background(), "", "secret"), ErrInvalidCredentialsInput)
	require.ErrorIs(t, m.SignIn(context.Background(), "a@b.com", "   "), ErrInvalidCredentialsInput)
	assert.Equal(t, 0, client.signIns)
}

func TestSignInSuccess(t *testing.T) {
	store := session.NewMemory()
	client := &stubClient{creds: validCreds()}
	m := NewManager(store, client, testLogger())

	require.NoError(t, m.SignIn(context.Background(), "cliente@ejemplo.com", "secret"))

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "access-1", m.AccessToken())
	assert.Equal(t, validCreds().UserID, m.UserID())
	assert.Equal(t, "cliente@ejemplo.com", m.UserEmail())
	assert.Equal(t, "access-1", client.lastToken)

	stored, _ := store.Get(session.KeyAccessToken)
	assert.Equal(t, "access-1", stored)
	stored, _ = store.Get(session.KeyRefreshToken)
	assert.Equal(t, "refresh-1", stored)
	stored, _ = store.Get(session.KeyUserID)
	assert.Equal(t, validCreds().UserID, stored)
}

func TestSignInEmailFallsBackToInput(t *testing.T) {
	creds := validCreds()
	creds.Email = ""
	m := NewManager(session.NewMemory(), &stubClient{creds: creds}, testLogger())

	require.NoError(t, m.SignIn(context.Background(), "tecleado@ejemplo.com", "secret"))
	assert.Equal(t, "tecleado@ejemplo.com", m.UserEmail())
}

func TestSignInSucceedsWhenPersistenceFails(t *testing.T) {
	client := &stubClient{creds: validCreds()}
	m := NewManager(failingStore{}, client, testLogger())

	require.NoError(t, m.SignIn(context.Background(), "cliente@ejemplo.com", "secret"))
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "access-1", client.lastToken)
}

func TestSignInRemoteFailure(t *testing.T) {
	boom := errors.New("401")
	m := NewManager(session.NewMemory(), &stubClient{err: boom}, testLogger())

	require.ErrorIs(t, m.SignIn(context.Background(), "a@b.com", "bad"), boom)
	assert.False(t, m.IsAuthenticated())
}

func TestLoadFromStorage(t *testing.T) {
	store := session.NewMemory()
	require.NoError(t, store.Set(session.KeyAccessToken, "restored-token"))
	require.NoError(t, store.Set(session.KeyUserID, "user-9"))

	client := &stubClient{}
	m := NewManager(store, client, testLogger())
	m.LoadFromStorage()

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "restored-token", m.AccessToken())
	assert.Equal(t, "user-9", m.UserID())
	assert.Equal(t, "restored-token", client.lastToken)
}

func TestLoadFromStorageEmpty(t *testing.T) {
	client := &stubClient{}
	m := NewManager(session.NewMemory(), client, testLogger())
	m.LoadFromStorage()

	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, 0, client.tokenSets)
}

func TestLoadFromStorageUnavailable(t *testing.T) {
	client := &stubClient{}
	m := NewManager(failingStore{}, client, testLogger())
	m.LoadFromStorage()

	assert.False(t, m.IsAuthenticated())
}

func TestLogoutClearsEverything(t *testing.T) {
	store := session.NewMemory()
	client := &stubClient{creds: validCreds()}
	m := NewManager(store, client, testLogger())
	require.NoError(t, m.SignIn(context.Background(), "cliente@ejemplo.com", "secret"))

	m.Logout()

	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, "", m.UserID())
	assert.Equal(t, "", m.UserEmail())
	assert.Equal(t, "", client.lastToken)
	for _, key := range []string{session.KeyAccessToken, session.KeyUserID, session.KeyRefreshToken} {
		stored, _ := store.Get(key)
		assert.Equal(t, "", stored)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	m := NewManager(session.NewMemory(), &stubClient{}, testLogger())
	m.Logout()
	m.Logout()
	assert.False(t, m.IsAuthenticated())
}

func TestAccessTokenFallsBackToStorage(t *testing.T) {
	store := session.NewMemory()
	require.NoError(t, store.Set(session.KeyAccessToken, "on-disk"))

	m := NewManager(store, &stubClient{}, testLogger())
	// LoadFromStorage not called yet.
	assert.Equal(t, "on-disk", m.AccessToken())
	assert.False(t, m.IsAuthenticated())
}
