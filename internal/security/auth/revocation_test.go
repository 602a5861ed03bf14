package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type memBackend struct {
	entries map[string]time.Duration
}

func (m *memBackend) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = map[string]time.Duration{}
	}
	m.entries[key] = ttl
	return nil
}

func (m *memBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.entries[key]
	return ok, nil
}

func liveClaims(id string) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestRevokeAndCheck(t *testing.T) {
	backend := &memBackend{}
	store := NewRevocationStore(backend)
	claims := liveClaims("tok-1")

	revoked, err := store.IsRevoked(context.Background(), claims)
	if err != nil || revoked {
		t.Fatalf("expected token not revoked yet, got %v/%v", revoked, err)
	}

	if err := store.Revoke(context.Background(), claims); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	revoked, err = store.IsRevoked(context.Background(), claims)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !revoked {
		t.Fatalf("expected token revoked")
	}

	// The denylist entry expires with the token, not later
	ttl := backend.entries["revoked:tok-1"]
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected ttl bounded by token expiry, got %v", ttl)
	}
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	backend := &memBackend{}
	store := NewRevocationStore(backend)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "tok-2",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}

	if err := store.Revoke(context.Background(), claims); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if len(backend.entries) != 0 {
		t.Fatalf("expected no entry for already-expired token")
	}
}

func TestRevokeRequiresTokenID(t *testing.T) {
	store := NewRevocationStore(&memBackend{})
	if err := store.Revoke(context.Background(), &Claims{}); err == nil {
		t.Fatalf("expected error for token without id")
	}
}
