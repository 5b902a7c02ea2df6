package admin

import (
	"crypto/subtle"
	"errors"
)

// ErrSecretNotConfigured is returned by Verify when the server has no admin
// secret. Callers report it as a server error, never as a bad credential.
var ErrSecretNotConfigured = errors.New("admin secret is not configured")

// CredentialStore decides whether a presented credential grants admin
// access. Both login and the route guard go through it.
type CredentialStore interface {
	// Verify returns true iff presented is a valid credential. It returns
	// ErrSecretNotConfigured when no credential can ever be valid.
	Verify(presented string) (bool, error)
}

// secretStore compares against a single shared secret.
type secretStore struct {
	secret []byte
}

// NewSecretStore creates a CredentialStore backed by one shared secret.
// An empty secret yields a store that reports ErrSecretNotConfigured.
func NewSecretStore(secret string) CredentialStore {
	return &secretStore{secret: []byte(secret)}
}

// Verify compares in constant time for equal-length inputs. Exact match
// only: no trimming, no case folding.
func (s *secretStore) Verify(presented string) (bool, error) {
	if len(s.secret) == 0 {
		return false, ErrSecretNotConfigured
	}
	if presented == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(presented), s.secret) == 1, nil
}
