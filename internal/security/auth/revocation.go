package auth

import (
	"context"
	"fmt"
	"time"
)

// RevocationBackend is the key-value store holding revoked token ids until
// their natural expiry. Backed by Redis in production.
type RevocationBackend interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RevocationStore denylists tokens on sign-out
type RevocationStore struct {
	backend RevocationBackend
}

func NewRevocationStore(backend RevocationBackend) *RevocationStore {
	return &RevocationStore{backend: backend}
}

func revocationKey(tokenID string) string {
	return "revoked:" + tokenID
}

// Revoke denylists a token for the remainder of its lifetime. Tokens already
// past expiry need no entry.
func (s *RevocationStore) Revoke(ctx context.Context, claims *Claims) error {
	if claims.ID == "" {
		return fmt.Errorf("token has no id")
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		remaining := time.Until(claims.ExpiresAt.Time)
		if remaining <= 0 {
			return nil
		}
		ttl = remaining
	}
	return s.backend.Set(ctx, revocationKey(claims.ID), "1", ttl)
}

// IsRevoked reports whether a token id is denylisted
func (s *RevocationStore) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	if claims.ID == "" {
		return false, nil
	}
	return s.backend.Exists(ctx, revocationKey(claims.ID))
}
