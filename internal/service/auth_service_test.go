package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/internal/notify"
	"github.com/yourorg/hradmin/internal/security/auth"
)

type memRevocationBackend struct {
	entries map[string]string
}

func (m *memRevocationBackend) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = map[string]string{}
	}
	m.entries[key] = "1"
	return nil
}

func (m *memRevocationBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.entries[key]
	return ok, nil
}

func newTestAuthService(identities *memIdentityRepo, profiles *memProfileRepo, hub *notify.Hub) (*AuthService, *auth.RevocationStore) {
	tm := auth.NewTokenManager("test-secret", "hradmin")
	store := auth.NewRevocationStore(&memRevocationBackend{})
	return NewAuthService(identities, profiles, tm, store, hub, 15*time.Minute, nil), store
}

func TestSignUpProvisionsBlockedProfile(t *testing.T) {
	identities := newMemIdentityRepo()
	profiles := newMemProfileRepo()
	s, _ := newTestAuthService(identities, profiles, nil)

	result, err := s.SignUp(context.Background(), "alice@example.com", "Password123")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if result.UserID == "" || result.Token == "" {
		t.Fatalf("expected user id and token, got %+v", result)
	}

	p, err := profiles.GetByID(context.Background(), result.UserID)
	if err != nil {
		t.Fatalf("expected profile provisioned at sign-up: %v", err)
	}
	if p.Role != domain.RoleBlocked {
		t.Fatalf("expected fresh account blocked, got %s", p.Role)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	identities := newMemIdentityRepo()
	s, _ := newTestAuthService(identities, newMemProfileRepo(), nil)

	if _, err := s.SignUp(context.Background(), "bob@example.com", "Password123"); err != nil {
		t.Fatalf("first sign up failed: %v", err)
	}
	if _, err := s.SignUp(context.Background(), "bob@example.com", "Password456"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestSignUpShortPassword(t *testing.T) {
	s, _ := newTestAuthService(newMemIdentityRepo(), newMemProfileRepo(), nil)

	if _, err := s.SignUp(context.Background(), "carol@example.com", "short"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSignInAndSignOut(t *testing.T) {
	identities := newMemIdentityRepo()
	hub := notify.NewHub()
	events, release := hub.Subscribe()
	defer release()

	s, store := newTestAuthService(identities, newMemProfileRepo(), hub)

	if _, err := s.SignUp(context.Background(), "dave@example.com", "Password123"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	// Wrong password
	if _, err := s.SignIn(context.Background(), "dave@example.com", "Wrong1234"); err == nil {
		t.Fatalf("expected invalid credentials")
	}
	// Unknown email gets the same generic error
	if _, err := s.SignIn(context.Background(), "nobody@example.com", "Password123"); err == nil {
		t.Fatalf("expected invalid credentials for unknown email")
	}

	result, err := s.SignIn(context.Background(), "dave@example.com", "Password123")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if result.TokenType != "Bearer" || result.Token == "" {
		t.Fatalf("expected bearer token, got %+v", result)
	}

	select {
	case ev := <-events:
		if ev.Type != notify.EventSignedIn {
			t.Fatalf("expected signed_in event, got %s", ev.Type)
		}
	default:
		t.Fatalf("expected a signed_in event")
	}

	// Sign out revokes the presented token
	tm := auth.NewTokenManager("test-secret", "hradmin")
	claims, err := tm.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if err := s.SignOut(context.Background(), claims); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}

	revoked, err := store.IsRevoked(context.Background(), claims)
	if err != nil {
		t.Fatalf("revocation check failed: %v", err)
	}
	if !revoked {
		t.Fatalf("expected token revoked after sign-out")
	}
}
