// Package session provides the durable key-value storage used to carry
// authentication state across process restarts.
package session

import "errors"

// Keys used by the auth manager. Values are opaque strings.
const (
	KeyAccessToken  = "auth_token"
	KeyRefreshToken = "auth_refresh"
	KeyUserID       = "auth_user_id"
)

// ErrUnavailable wraps any failure of the underlying storage. Callers treat
// it as a degraded-mode signal, never as a fatal condition.
var ErrUnavailable = errors.New("session storage unavailable")

// Store is a scoped key -> string persistence surface. Get returns an empty
// string for absent keys; Remove on an absent key is a no-op.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}
