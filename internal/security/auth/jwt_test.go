package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tm := NewTokenManager("secret", "hradmin")

	token, err := tm.GenerateToken("u-1", "a@example.com", time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "a@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected a token id for revocation")
	}
	if claims.Issuer != "hradmin" {
		t.Fatalf("expected issuer hradmin, got %s", claims.Issuer)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", "hradmin")
	other := NewTokenManager("different", "hradmin")

	token, err := tm.GenerateToken("u-1", "a@example.com", time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatalf("expected validation failure with wrong secret")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", "hradmin")

	token, err := tm.GenerateToken("u-1", "a@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := tm.ValidateToken(token); err == nil {
		t.Fatalf("expected expired token rejected")
	}
}

func TestGenerateTokenRequiresUserID(t *testing.T) {
	tm := NewTokenManager("secret", "hradmin")
	if _, err := tm.GenerateToken("", "a@example.com", time.Minute); err == nil {
		t.Fatalf("expected error for missing user id")
	}
}

func TestExtractToken(t *testing.T) {
	token, err := ExtractToken("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("unexpected token: %s", token)
	}

	for _, header := range []string{"", "abc", "Basic abc", "Bearer a b"} {
		if _, err := ExtractToken(header); err == nil {
			t.Fatalf("expected error for header %q", header)
		}
	}
}
